package def

import (
	"github.com/warpfork/go-errcat"
)

/*
	ErrorCategory is the type of all error category constants in keepr.

	Errors returned by engine APIs are errcat errors carrying one of
	these values; switch on `errcat.Category(err)` to handle them.
	The category describes what went wrong structurally; the message
	names the steps and coords involved.
*/
type ErrorCategory string

const (
	ErrUsage         ErrorCategory = "keepr-usage-error"    // Bad args, misuse of an API, or a malformed title.
	ErrConfigParsing ErrorCategory = "keepr-config-parsing" // Config file failed to read or parse at all.
	ErrConfigInvalid ErrorCategory = "keepr-config-invalid" // Config parsed, but the content is semantically out of bounds.

	ErrNoSuchStep      ErrorCategory = "keepr-no-such-step"         // A requested step name resolved to nothing (or to more than one step).
	ErrNotPersisted    ErrorCategory = "keepr-target-not-persisted" // A partial run requested a step that has no persistence wrapper.
	ErrUpstreamMissing ErrorCategory = "keepr-upstream-missing"     // A partial run needs an upstream artifact that was never written.

	ErrEvaluationFailed ErrorCategory = "keepr-evaluation-failed" // A step's compute function returned an error.
	ErrHashMismatch     ErrorCategory = "keepr-hash-mismatch"     // Content no longer matches the identity it was declared with.
	ErrCacheCorrupt     ErrorCategory = "keepr-cache-corrupt"     // An artifact exists but could not be decoded.  Always fatal; never treated as a cache miss.

	ErrWarehouseUnavailable ErrorCategory = "keepr-warehouse-unavailable" // The storage location cannot be reached at all.
	ErrWarehouseIO          ErrorCategory = "keepr-warehouse-io"          // The storage location answered, but reading or writing failed.
	ErrArtifactMissing      ErrorCategory = "keepr-artifact-missing"      // Asked to read an artifact that was never written.

	ErrInternal ErrorCategory = "keepr-internal-error" // Bugs.
)

/*
	Maps an error onto a process exit code, based on its category.

	Nil maps to zero.  Uncategorized errors (anything that didn't come
	from this project's packages) map to 119.
*/
func ExitCodeForError(err error) int {
	if err == nil {
		return 0
	}
	switch errcat.Category(err) {
	case ErrUsage:
		return 1
	case ErrConfigParsing, ErrConfigInvalid:
		return 2
	case ErrNoSuchStep, ErrNotPersisted, ErrUpstreamMissing:
		return 4
	case ErrEvaluationFailed:
		return 5
	case ErrWarehouseUnavailable, ErrWarehouseIO, ErrArtifactMissing:
		return 6
	case ErrHashMismatch, ErrCacheCorrupt:
		return 7
	case ErrInternal:
		return 120
	default:
		return 119
	}
}
