package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/testmiddle/internal/app"
	"github.com/shrimpsizemoose/testmiddle/internal/backend"
	"github.com/shrimpsizemoose/testmiddle/internal/metrics"
	"github.com/shrimpsizemoose/testmiddle/internal/models"
)

const (
	msgBadRequest  = "Could not process request."
	msgEditTest    = "Could not edit test."
	msgUnreachable = "Could not reach the server."
)

// TestHandler fronts the back-end "test" table.
type TestHandler struct {
	service *app.Service
}

func NewTestHandler(service *app.Service) *TestHandler {
	return &TestHandler{
		service: service,
	}
}

func (h *TestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	defer func() {
		metrics.APIRequestDuration.WithLabelValues(
			r.URL.Path,
			r.Method,
			strconv.Itoa(rec.status),
		).Observe(time.Since(start).Seconds())
	}()

	requestID := r.Header.Get(backend.RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	rec.Header().Set(backend.RequestIDHeader, requestID)

	if r.Method != http.MethodPost {
		writeJSON(rec, http.StatusMethodNotAllowed, models.NewErrorResponse("", msgBadRequest,
			fmt.Sprintf("test handler: method %s not allowed", r.Method)))
		return
	}

	req, err := models.ParseRequest(r)
	if err != nil {
		var perr *models.ParseError
		action := models.Action("")
		if errors.As(err, &perr) {
			action = perr.Action
		}
		logger.Debug.Printf("[%s] Rejected request: %v", requestID, err)
		metrics.RequestsTotal.WithLabelValues(action.String(), models.StatusError).Inc()
		writeJSON(rec, http.StatusBadRequest, models.NewErrorResponse(action, msgBadRequest, err.Error()))
		return
	}
	logger.Debug.Printf("[%s] Received %s request", requestID, req.Action)

	ctx := backend.WithRequestID(r.Context(), requestID)
	h.dispatch(rec, r.WithContext(ctx), req)
}

func (h *TestHandler) dispatch(w http.ResponseWriter, r *http.Request, req *models.Request) {
	switch req.Action {
	case models.ActionInsert, models.ActionDelete, models.ActionList:
		h.forward(w, r, req)
	case models.ActionEdit:
		h.handleEdit(w, r, req)
	case models.ActionListAvailableForStudent:
		h.handleListAvailableForStudent(w, r, req)
	case models.ActionListTestToBeReleased:
		h.handleListTestToBeReleased(w, r, req)
	default:
		// ParseRequest rejects every action outside the enum.
		panic(fmt.Sprintf("test handler: unhandled action %q", req.Action))
	}
}

func (h *TestHandler) handleEdit(w http.ResponseWriter, r *http.Request, req *models.Request) {
	if !req.HasPrimaryKey() || !req.HasFields() {
		metrics.RequestsTotal.WithLabelValues(req.Action.String(), models.StatusError).Inc()
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse(models.ActionEdit, msgEditTest,
			"test handler: Malformed request when trying to edit. Missing key 'primary_key' or 'fields'"))
		return
	}

	ok, err := h.service.UpdateTestScores(r.Context(), req.PrimaryKey, req.Fields)
	if err != nil {
		h.writeBackendError(w, req.Action, err)
		return
	}
	if !ok {
		// Known gap: a partially applied cascade does not change the reply.
		// The test edit is still forwarded and its result relayed.
		metrics.CascadeFailuresTotal.Inc()
		logger.Error.Printf("Not every test score of test %v was updated, forwarding test edit anyway", req.PrimaryKey)
	}

	h.forward(w, r, req)
}

func (h *TestHandler) handleListAvailableForStudent(w http.ResponseWriter, r *http.Request, req *models.Request) {
	items, err := h.service.ListAvailableForStudent(r.Context(), req.PrimaryKey)
	if err != nil {
		h.writeBackendError(w, req.Action, err)
		return
	}
	metrics.RequestsTotal.WithLabelValues(req.Action.String(), models.StatusSuccess).Inc()
	writeJSON(w, http.StatusOK, models.NewListResponse(req.Action, items))
}

func (h *TestHandler) handleListTestToBeReleased(w http.ResponseWriter, r *http.Request, req *models.Request) {
	items, err := h.service.ListTestToBeReleased(r.Context())
	if err != nil {
		h.writeBackendError(w, req.Action, err)
		return
	}
	metrics.RequestsTotal.WithLabelValues(req.Action.String(), models.StatusSuccess).Inc()
	writeJSON(w, http.StatusOK, models.NewListResponse(req.Action, items))
}

// forward relays the envelope to the test table and writes the back end's
// reply through untouched.
func (h *TestHandler) forward(w http.ResponseWriter, r *http.Request, req *models.Request) {
	req.TableName = models.TableTest
	if req.Fields == nil {
		req.Fields = map[string]any{}
	}

	body, err := h.service.Backend.Send(r.Context(), req)
	if err != nil {
		h.writeBackendError(w, req.Action, err)
		return
	}

	metrics.RequestsTotal.WithLabelValues(req.Action.String(), "forwarded").Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		logger.Error.Printf("Failed to relay backend response: %v", err)
	}
}

func (h *TestHandler) writeBackendError(w http.ResponseWriter, action models.Action, err error) {
	logger.Error.Printf("Backend call for %s failed: %v", action, err)
	metrics.RequestsTotal.WithLabelValues(action.String(), models.StatusError).Inc()
	writeJSON(w, http.StatusBadGateway, models.NewErrorResponse(action, msgUnreachable, err.Error()))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error.Printf("Failed to encode response: %v", err)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
