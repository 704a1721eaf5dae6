package remote

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/surrealdb/surrealdb.go/pkg/constants"

	"github.com/promopulse/promopulse/pkg/store"
)

// wrap classifies err and boxes it as a RemoteError. Errors that are
// already classified pass through untouched.
func wrap(err error) error {
	var re *store.RemoteError
	if errors.As(err, &re) {
		return err
	}
	return &store.RemoteError{Kind: classify(err), Err: err}
}

// classify maps a raw SDK or transport error onto the store's error
// kinds. Sentinels and typed errors are checked first; the string
// matching below exists because the server reports most conditions as
// plain text inside an RPC error, and this is the one place allowed to
// sniff it.
func classify(err error) store.Kind {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return store.KindTimeout
	case errors.Is(err, context.Canceled):
		// The caller gave up; says nothing about the backend.
		return store.KindOther
	case errors.Is(err, constants.ErrNoBaseURL),
		errors.Is(err, constants.ErrNoNamespaceOrDB),
		errors.Is(err, constants.ErrNoMarshaler),
		errors.Is(err, constants.ErrNoUnmarshaler):
		return store.KindConfig
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return store.KindTimeout
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"):
		return store.KindTimeout
	case containsAny(msg, "connection refused", "no such host", "broken pipe",
		"connection reset", "websocket: close", "use of closed network connection"):
		return store.KindUnavailable
	case containsAny(msg, "permission", "not allowed", "unauthorized",
		"authentication", "invalid auth"):
		return store.KindPermissionDenied
	case containsAny(msg, "namespace", "database") && containsAny(msg, "not found", "does not exist"):
		return store.KindConfig
	case strings.Contains(msg, "not found"):
		return store.KindNotFound
	default:
		return store.KindOther
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
