package entity

import "errors"

var (
	// ErrEmptyToolName is returned when a tool invocation carries no name.
	ErrEmptyToolName = errors.New("tool name must not be empty")
	// ErrInvalidResult is returned when a record's result is neither success nor error.
	ErrInvalidResult = errors.New("result must be success or error")
	// ErrMissingErrorDetail is returned when result=error but no error_type/message was given.
	ErrMissingErrorDetail = errors.New("error result requires error_type and error_message")
	// ErrOutOfOrder is returned when a record would violate history's non-decreasing timestamp invariant.
	ErrOutOfOrder = errors.New("record timestamp precedes the last history entry")
)
