package models

import "errors"

const (
	CodeEmptyName            = "empty_name"
	CodeDuplicateName        = "duplicate_name"
	CodeInvalidCount         = "invalid_count"
	CodeInvalidDimensions    = "invalid_dimensions"
	CodeInvalidPosition      = "invalid_position"
	CodeConfirmationRequired = "confirmation_required"
	CodeNotFound             = "not_found"
	CodeNoLayout             = "no_layout"
	CodeInsufficientSeats    = "insufficient_seats"
	CodeNoStudents           = "no_students"
	CodeNoSeats              = "no_seats"
	CodeInvalidStudents      = "invalid_students"
	CodeInvalidSeats         = "invalid_seats"
	CodeGenerationCollision  = "generation_collision"
	CodeInactiveSeat         = "inactive_seat"
	CodePersistenceFailed    = "persistence_failed"
	CodeAssignmentFailed     = "assignment_failed"
)

// Category groups error codes by how a caller should react to them
type Category string

const (
	CategoryValidation   Category = "validation"
	CategoryPrecondition Category = "precondition"
	CategoryPersistence  Category = "persistence"
	CategoryInternal     Category = "internal"
)

// Error is the error type returned across the core API. Two errors match under errors.Is
// when their codes are equal.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	ErrEmptyName            = &Error{Code: CodeEmptyName, Message: "student name is required"}
	ErrDuplicateName        = &Error{Code: CodeDuplicateName, Message: "a student with this name already exists"}
	ErrInvalidCount         = &Error{Code: CodeInvalidCount, Message: "student count must be between 1 and 100"}
	ErrInvalidDimensions    = &Error{Code: CodeInvalidDimensions, Message: "rows and columns must be between 1 and 20"}
	ErrInvalidPosition      = &Error{Code: CodeInvalidPosition, Message: "seat position is out of range"}
	ErrConfirmationRequired = &Error{Code: CodeConfirmationRequired, Message: "this action replaces the current students and layout and must be confirmed"}
	ErrNotFound             = &Error{Code: CodeNotFound, Message: "not found"}
	ErrNoLayout             = &Error{Code: CodeNoLayout, Message: "seat layout has not been created"}
	ErrInsufficientSeats    = &Error{Code: CodeInsufficientSeats, Message: "there are fewer active seats than students"}
	ErrNoStudents           = &Error{Code: CodeNoStudents, Message: "there are no students to assign"}
	ErrNoSeats              = &Error{Code: CodeNoSeats, Message: "there are no available seats"}
	ErrInvalidStudents      = &Error{Code: CodeInvalidStudents, Message: "invalid student data"}
	ErrInvalidSeats         = &Error{Code: CodeInvalidSeats, Message: "invalid seat data"}
	ErrGenerationCollision  = &Error{Code: CodeGenerationCollision, Message: "could not find free names while generating numbered students"}
	ErrInactiveSeat         = &Error{Code: CodeInactiveSeat, Message: "cannot seat a student on an inactive seat"}
	ErrPersistenceFailed    = &Error{Code: CodePersistenceFailed, Message: "failed to save data"}
	ErrAssignmentFailed     = &Error{Code: CodeAssignmentFailed, Message: "seat assignment failed"}
)

// NewPersistenceError wraps a storage failure so that the triggering operation reports
// persistence_failed while keeping the cause reachable through errors.Unwrap.
func NewPersistenceError(err error) error {
	return &Error{Code: CodePersistenceFailed, Message: ErrPersistenceFailed.Message, Err: err}
}

// CodeOf extracts the code of a core error, or "" when err is not one
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// CategoryOf classifies an error. Unknown errors are internal.
func CategoryOf(err error) Category {
	switch CodeOf(err) {
	case CodeEmptyName, CodeDuplicateName, CodeInvalidCount,
		CodeInvalidDimensions, CodeInvalidPosition, CodeConfirmationRequired:
		return CategoryValidation
	case CodeNotFound, CodeNoLayout, CodeInsufficientSeats, CodeNoStudents, CodeNoSeats,
		CodeInvalidStudents, CodeInvalidSeats, CodeGenerationCollision, CodeInactiveSeat:
		return CategoryPrecondition
	case CodePersistenceFailed:
		return CategoryPersistence
	default:
		return CategoryInternal
	}
}
