// Package apperror defines the closed set of errors the API can
// return. Each error carries an HTTP status and a stable machine
// code; handlers translate them at the transport boundary so the
// business logic never touches HTTP types.
package apperror

import (
	"fmt"
	"net/http"
)

type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// NotFound reports that a referenced object does not exist.
func NotFound(object string) *Error {
	return &Error{
		Status:  http.StatusNotFound,
		Code:    "object_not_found",
		Message: fmt.Sprintf("%s not found", object),
	}
}

// Exists reports an attempt to create an object that already exists.
func Exists(object string) *Error {
	return &Error{
		Status:  http.StatusBadRequest,
		Code:    "object_exists",
		Message: fmt.Sprintf("%s already exists", object),
	}
}

// InvalidInput reports a semantic validation failure in the request
// payload.
func InvalidInput(message string) *Error {
	return &Error{
		Status:  http.StatusUnprocessableEntity,
		Code:    "invalid_input",
		Message: message,
	}
}

var (
	Forbidden = &Error{
		Status:  http.StatusForbidden,
		Code:    "forbidden",
		Message: "You don't have permission to perform this action.",
	}

	InvalidParticipant = &Error{
		Status:  http.StatusBadRequest,
		Code:    "invalid_participant",
		Message: "All meeting participants must be members of the team.",
	}

	InvalidAssignee = &Error{
		Status:  http.StatusBadRequest,
		Code:    "invalid_assignee",
		Message: "Assignee must be a member of the team.",
	}

	TimeConflict = &Error{
		Status:  http.StatusConflict,
		Code:    "time_conflict",
		Message: "Meeting time conflicts with an existing meeting for a participant.",
	}

	AlreadyInTeam = &Error{
		Status:  http.StatusBadRequest,
		Code:    "already_in_team",
		Message: "You are already in a team.",
	}

	NotInTeam = &Error{
		Status:  http.StatusBadRequest,
		Code:    "not_in_team",
		Message: "You are not in this team.",
	}

	TaskNotCompleted = &Error{
		Status:  http.StatusBadRequest,
		Code:    "task_not_completed",
		Message: "Only completed tasks can be evaluated.",
	}

	EvaluationExists = &Error{
		Status:  http.StatusBadRequest,
		Code:    "evaluation_exists",
		Message: "Task already has an evaluation.",
	}
)
