package failover

import (
	"sync"

	"github.com/google/uuid"

	"github.com/promopulse/promopulse/pkg/store"
)

// Breaker is the session-scoped circuit breaker guarding the remote
// store. It is monotonic: once tripped it stays open until the process
// restarts, which starts a fresh session. There is no half-open state
// and no probing; a structural failure (bad credentials, missing
// database, unreachable host) does not heal mid-session, and retrying
// against it would just add a timeout's worth of latency to every call.
type Breaker struct {
	session string

	mu     sync.Mutex
	open   bool
	reason store.Kind
}

// NewBreaker returns a closed breaker with a fresh session id.
func NewBreaker() *Breaker {
	return &Breaker{session: uuid.NewString()}
}

// SessionID identifies this breaker's session in logs.
func (b *Breaker) SessionID() string { return b.session }

// Open reports whether the breaker has tripped.
func (b *Breaker) Open() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open
}

// Reason returns the kind that tripped the breaker, or KindOther while
// it is still closed.
func (b *Breaker) Reason() store.Kind {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.reason
}

// Trip opens the breaker and records the triggering kind. It returns
// true only for the call that actually opened it, so the caller can log
// the transition exactly once even when concurrent operations fail
// together.
func (b *Breaker) Trip(kind store.Kind) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.open {
		return false
	}
	b.open = true
	b.reason = kind
	return true
}
