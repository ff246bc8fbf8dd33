package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // The document was read but the transform could not be built or applied
	ExitCommandError = 2 // Command error (unreadable or malformed document)
)

// Error codes reported in JSON output.
const (
	ErrCodeLoad      = "E001"
	ErrCodeDocument  = "E002"
	ErrCodeTransform = "E003"
	ErrCodeApply     = "E004"
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success outputs a successful result. In text mode data is printed with
// fmt.Fprint, so payloads should implement fmt.Stringer.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}
	_, err := fmt.Fprint(f.Writer, data)
	return err
}

// Fail outputs err in the configured format and returns it wrapped with
// exitCode.
func (f *OutputFormatter) Fail(exitCode int, code, message string, err error) error {
	if f.Format == "json" {
		_ = json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: fmt.Sprintf("%s: %v", message, err),
			},
		})
	} else {
		fmt.Fprintf(f.Writer, "Error [%s]: %s: %v\n", code, message, err)
	}
	return WrapExitError(exitCode, message, err)
}
