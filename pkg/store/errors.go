package store

import "fmt"

// Kind classifies a remote store failure. The failover gateway uses the
// classification to decide whether the failure is structural (the
// backend is unreachable, misconfigured, or rejecting us, so further
// attempts this session are pointless) or transient (worth retrying on
// the next call).
type Kind int

const (
	// KindOther is the default for failures that carry no structural
	// signal. It is the only non-fatal kind.
	KindOther Kind = iota
	// KindTimeout means the operation exceeded its deadline.
	KindTimeout
	// KindPermissionDenied means the backend rejected our credentials
	// or the operation was not authorized.
	KindPermissionDenied
	// KindUnavailable means the backend could not be reached at all.
	KindUnavailable
	// KindNotFound means the backend reported a missing resource where
	// one was required to exist.
	KindNotFound
	// KindConfig means the client is misconfigured, for example a
	// namespace or database that does not exist.
	KindConfig
)

// String implements fmt.Stringer for log fields.
func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindPermissionDenied:
		return "permission_denied"
	case KindUnavailable:
		return "unavailable"
	case KindNotFound:
		return "not_found"
	case KindConfig:
		return "config"
	default:
		return "other"
	}
}

// Fatal reports whether a failure of this kind should open the
// session's circuit breaker.
func (k Kind) Fatal() bool {
	return k != KindOther
}

// RemoteError wraps a failure from the remote backend together with its
// classification. Only the remote adapter constructs these; everything
// above it branches on Kind and never inspects error text.
type RemoteError struct {
	Kind Kind
	Err  error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote store: %s: %v", e.Kind, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}
