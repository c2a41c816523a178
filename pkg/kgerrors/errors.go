// Package kgerrors implements the error taxonomy shared by every layer of
// the ontology core: validation, concurrency-conflict, transient-IO,
// resource, semantic-consistency, and fatal.
package kgerrors

import "fmt"

// Kind categorizes an error so callers (job queue, launchers, sagas) can
// decide whether to retry, surface, or halt without string-matching.
type Kind string

const (
	// Validation covers invalid identifiers, out-of-range confidence,
	// dimension mismatches. Reject synchronously; no state change.
	Validation Kind = "VALIDATION"
	// Conflict covers expected races: vertex-already-exists, optimistic
	// lock loss. Logged at DEBUG; resolved by a transparent re-read.
	Conflict Kind = "CONCURRENCY_CONFLICT"
	// TransientIO covers LLM/embedding timeouts and dropped DB
	// connections. Retried with exponential backoff.
	TransientIO Kind = "TRANSIENT_IO"
	// Resource covers oversized uploads, disk pressure. Surfaced to the
	// submitter; never retried.
	Resource Kind = "RESOURCE"
	// SemanticConsistency covers frozen-ontology writes, missing merge
	// targets. Surfaced as a 4xx-equivalent; never retried.
	SemanticConsistency Kind = "SEMANTIC_CONSISTENCY"
	// Fatal covers the graph engine refusing all queries or missing
	// required schema. Surfaced as a 5xx-equivalent; halts the worker.
	Fatal Kind = "FATAL"
)

// Error is the taxonomy-tagged error every component returns.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func new(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

func NewValidation(message string) error                 { return new(Validation, message, nil) }
func NewValidationf(format string, a ...any) error        { return new(Validation, fmt.Sprintf(format, a...), nil) }
func NewConflict(message string) error                    { return new(Conflict, message, nil) }
func NewConflictf(format string, a ...any) error          { return new(Conflict, fmt.Sprintf(format, a...), nil) }
func NewTransientIO(message string, cause error) error    { return new(TransientIO, message, cause) }
func NewResource(message string) error                    { return new(Resource, message, nil) }
func NewSemanticConsistency(message string) error         { return new(SemanticConsistency, message, nil) }
func NewSemanticConsistencyf(format string, a ...any) error {
	return new(SemanticConsistency, fmt.Sprintf(format, a...), nil)
}
func NewFatal(message string, cause error) error { return new(Fatal, message, cause) }

// Wrap preserves an existing Kind while adding context, or classifies a
// foreign error as Fatal if it carries no Kind of its own.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if kerr, ok := err.(*Error); ok {
		return new(kerr.Kind, fmt.Sprintf("%s: %s", message, kerr.Message), kerr.Err)
	}
	return new(Fatal, message, err)
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	kerr, ok := err.(*Error)
	return ok && kerr.Kind == kind
}

// KindOf returns the Kind of err, or "" if err is not a tagged *Error.
func KindOf(err error) Kind {
	if kerr, ok := err.(*Error); ok {
		return kerr.Kind
	}
	return ""
}

// Retryable reports whether the job queue / launcher should retry err
// with backoff rather than surfacing or discarding it.
func Retryable(err error) bool {
	return KindOf(err) == TransientIO
}
