package untraceables

import "errors"

var (
	ErrUntraceableNotFound = errors.New("untraceable activity not found")
	ErrDateAlreadyAssigned = errors.New("date is already assigned to this untraceable")
	ErrDateNotFound        = errors.New("date to be removed not found")
)

// Untraceable is an activity done without any tracking device, a
// frisbee afternoon or a hike. Only the days it happened on are kept,
// as plain YYYY-MM-DD strings.
type Untraceable struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Dates       []string `json:"dates"`
	UserID      int      `json:"userId"`
}

// UntraceableUpdate carries a partial update, nil fields stay as they
// are.
type UntraceableUpdate struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	Dates       *[]string `json:"dates,omitempty"`
}
