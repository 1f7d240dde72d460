package models

// Action tags the operation requested by the front end.
type Action string

const (
	ActionInsert                  Action = "insert"
	ActionEdit                    Action = "edit"
	ActionDelete                  Action = "delete"
	ActionList                    Action = "list"
	ActionListAvailableForStudent Action = "list_available_for_student"
	ActionListTestToBeReleased    Action = "list_test_to_be_released"
)

// Must match the oneof tag on Request.Action.
var actions = []Action{
	ActionInsert,
	ActionEdit,
	ActionDelete,
	ActionList,
	ActionListAvailableForStudent,
	ActionListTestToBeReleased,
}

func (a Action) Valid() bool {
	for _, known := range actions {
		if a == known {
			return true
		}
	}
	return false
}

func (a Action) String() string {
	return string(a)
}
