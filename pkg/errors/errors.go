package errors

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// Kind categorizes failures of the interaction layer
type Kind string

const (
	// Transport failures and timeouts
	KindNetwork Kind = "network_failure"

	// Non-2xx response, usually with a server message
	KindServerRejected Kind = "server_rejected"

	// No endpoint exists for the (content kind, action) pair
	KindUnsupported Kind = "unsupported_operation"

	// Operation refused by local state, e.g. a toggle while pending
	KindInvalidState Kind = "invalid_state"

	// The server refused a witness because the viewer authored the report
	KindSelfWitness Kind = "self_witness"

	// Input rejected before any network call
	KindValidation Kind = "validation"
)

// GenericMessage is shown when the server gave no usable message.
const GenericMessage = "Something went wrong. Please try again."

// SelfWitnessExplanation is the user-facing text for KindSelfWitness.
const SelfWitnessExplanation = "You reported this item, so you can't add yourself as a witness. Witnesses confirm reports made by other people."

// Error is a structured failure carrying a user-facing suggestion
type Error struct {
	Kind       Kind
	Message    string
	Cause      error
	Suggestion string
	StatusCode int
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s [%d]: %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithSuggestion adds a helpful suggestion to the error
func (e *Error) WithSuggestion(suggestion string) *Error {
	e.Suggestion = suggestion
	return e
}

// HasSuggestion returns true if the error has a suggestion
func (e *Error) HasSuggestion() bool {
	return e.Suggestion != ""
}

// New creates a new structured error
func New(kind Kind, message string, cause error) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Cause:   cause,
	}
}

// NetworkFailure wraps a transport error
func NetworkFailure(cause error) *Error {
	msg := "could not reach the server"
	if cause != nil {
		msg = cause.Error()
	}
	err := New(KindNetwork, msg, cause)
	err.Suggestion = "Check your connection and try again."
	return err
}

// ServerRejected creates an error for a non-2xx response. message is the
// server-provided text and may be empty.
func ServerRejected(statusCode int, message string) *Error {
	err := New(KindServerRejected, message, nil)
	err.StatusCode = statusCode
	if statusCode >= 500 {
		err.Suggestion = "The server encountered an error. Try again in a few moments."
	}
	return err
}

// Unsupported reports a (content kind, action) pair with no endpoint
func Unsupported(kind, action string) *Error {
	return New(KindUnsupported, fmt.Sprintf("%s is not supported for %s items", action, kind), nil)
}

// InvalidState reports an operation refused by local state
func InvalidState(message string) *Error {
	return New(KindInvalidState, message, nil)
}

// SelfWitness creates the distinct self-witness refusal
func SelfWitness(statusCode int, serverMessage string) *Error {
	err := New(KindSelfWitness, serverMessage, nil)
	err.StatusCode = statusCode
	err.Suggestion = SelfWitnessExplanation
	return err
}

// Validation creates a validation error
func Validation(field, reason string) *Error {
	return New(KindValidation, fmt.Sprintf("%s %s", field, reason), nil)
}

// Is reports whether err is a structured error of the given kind
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Categorize converts any error into a structured Error
func Categorize(err error) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return NetworkFailure(err)
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "no such host"),
		strings.Contains(msg, "timeout"),
		strings.Contains(msg, "context deadline exceeded"),
		strings.Contains(msg, "EOF"):
		return NetworkFailure(err)
	default:
		return New(KindNetwork, msg, err)
	}
}

// IsSelfWitnessMessage recognizes the server's refusal text for a
// witness on one's own report.
func IsSelfWitnessMessage(message string) bool {
	m := strings.ToLower(message)
	return strings.Contains(m, "witness") && strings.Contains(m, "own report")
}

// UserMessage returns the text to show in a dismissible notice: the
// server message when present, the self-witness explanation for that
// kind, otherwise a generic fallback.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	e := Categorize(err)
	switch e.Kind {
	case KindSelfWitness:
		return SelfWitnessExplanation
	case KindServerRejected:
		if strings.TrimSpace(e.Message) != "" {
			return e.Message
		}
		return GenericMessage
	case KindValidation, KindInvalidState, KindUnsupported:
		return e.Message
	default:
		return GenericMessage
	}
}

// FormatError returns a user-friendly error message for the terminal
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	e := Categorize(err)
	var sb strings.Builder

	sb.WriteString("Error (")
	sb.WriteString(string(e.Kind))
	sb.WriteString("): ")
	sb.WriteString(UserMessage(e))
	sb.WriteString("\n")

	if e.HasSuggestion() && e.Kind != KindSelfWitness {
		sb.WriteString("Suggestion: ")
		sb.WriteString(e.Suggestion)
		sb.WriteString("\n")
	}

	return sb.String()
}
