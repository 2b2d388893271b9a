package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes stamped onto handler errors so hosts can route lifecycle command
// failures without string-matching messages.
const (
	CodeValidationFailed = "LIFECYCLE_COMMAND_VALIDATION_FAILED"
	CodeCanceled         = "LIFECYCLE_COMMAND_CANCELED"
	CodeTimeout          = "LIFECYCLE_COMMAND_TIMEOUT"
	CodeContextError     = "LIFECYCLE_COMMAND_CONTEXT_ERROR"
	CodeExecutionFailed  = "LIFECYCLE_COMMAND_EXECUTION_FAILED"
)

// wrapValidationError categorizes message validation failures. Errors already
// wrapped upstream pass through so the original category survives.
func wrapValidationError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "command validation failed").
		WithTextCode(CodeValidationFailed)
}

func wrapContextError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}

	code := CodeContextError
	msg := "command context error"
	switch {
	case errors.Is(err, context.Canceled):
		code, msg = CodeCanceled, "command execution cancelled"
	case errors.Is(err, context.DeadlineExceeded):
		code, msg = CodeTimeout, "command execution deadline exceeded"
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, msg).WithTextCode(code)
}

func wrapExecuteError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution failed").
		WithTextCode(CodeExecutionFailed)
}
