package models

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// BackendResponse is the part of a back-end reply the middleware looks at.
type BackendResponse struct {
	Status string   `json:"status"`
	Items  []Record `json:"items,omitempty"`
}

func (r *BackendResponse) Succeeded() bool {
	return r != nil && r.Status == StatusSuccess
}

type ListResponse struct {
	Action Action   `json:"action"`
	Status string   `json:"status"`
	Items  []Record `json:"items"`
}

// NewListResponse builds a success reply. A nil slice is replaced so that
// items always encodes as a JSON array.
func NewListResponse(action Action, items []Record) *ListResponse {
	if items == nil {
		items = []Record{}
	}
	return &ListResponse{
		Action: action,
		Status: StatusSuccess,
		Items:  items,
	}
}

type ErrorResponse struct {
	Action          Action `json:"action"`
	Status          string `json:"status"`
	UserMessage     string `json:"user_message"`
	InternalMessage string `json:"internal_message"`
}

func NewErrorResponse(action Action, userMessage, internalMessage string) *ErrorResponse {
	return &ErrorResponse{
		Action:          action,
		Status:          StatusError,
		UserMessage:     userMessage,
		InternalMessage: internalMessage,
	}
}
