// Package failover combines the remote and local stores behind the
// [store.Store] interface.
//
// Reads and writes go to the remote store first, bounded by a per-call
// timeout. Any remote failure falls back to the local store for that
// call; the caller only ever sees local errors. Structural remote
// failures additionally trip a session-wide circuit breaker (see
// [Breaker]) after which every call goes straight to the local store.
//
// The two backends are not reconciled: whichever store served a write
// holds it, and after a mid-session trip the session simply continues
// on local data. That mirrors the product's tolerance for divergence in
// exchange for the UI never blocking on a dead backend.
package failover

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/promopulse/promopulse/pkg/models"
	"github.com/promopulse/promopulse/pkg/store"
)

// DefaultTimeout bounds each remote attempt.
const DefaultTimeout = 2 * time.Second

// Store routes operations between a remote primary and a local
// fallback.
type Store struct {
	remote  store.Store // nil when running local-only
	local   store.Store
	breaker *Breaker
	log     zerolog.Logger

	// Timeout is the per-operation remote deadline. Tests shrink it;
	// production code leaves it at DefaultTimeout.
	Timeout time.Duration
}

var _ store.Store = (*Store)(nil)

// New wires a failover store. remote may be nil, in which case every
// operation serves from local immediately.
func New(remote, local store.Store, log zerolog.Logger) *Store {
	return &Store{
		remote:  remote,
		local:   local,
		breaker: NewBreaker(),
		log:     log,
		Timeout: DefaultTimeout,
	}
}

// Breaker exposes the session breaker for health reporting.
func (s *Store) Breaker() *Breaker { return s.breaker }

type result[T any] struct {
	val T
	err error
}

// execute runs op against the remote store under the timeout, falling
// back to local on any failure. The remote call runs in its own
// goroutine with a buffered result channel: if it outlives the
// deadline the send still succeeds and the result is simply dropped.
func execute[T any](ctx context.Context, s *Store, op string,
	remoteOp func(context.Context) (T, error),
	localOp func(context.Context) (T, error),
) (T, error) {
	if s.remote == nil || s.breaker.Open() {
		return localOp(ctx)
	}

	rctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	ch := make(chan result[T], 1)
	go func() {
		val, err := remoteOp(rctx)
		ch <- result[T]{val: val, err: err}
	}()

	var rerr error
	select {
	case r := <-ch:
		if r.err == nil {
			return r.val, nil
		}
		rerr = r.err
	case <-rctx.Done():
		rerr = rctx.Err()
	}

	kind := store.KindOther
	var re *store.RemoteError
	switch {
	case errors.As(rerr, &re):
		kind = re.Kind
	case errors.Is(rerr, context.DeadlineExceeded):
		kind = store.KindTimeout
	}

	if kind.Fatal() && s.breaker.Trip(kind) {
		s.log.Warn().
			Str("op", op).
			Stringer("kind", kind).
			Str("session", s.breaker.SessionID()).
			Err(rerr).
			Msg("remote store disabled for this session")
	} else {
		s.log.Debug().
			Str("op", op).
			Stringer("kind", kind).
			Err(rerr).
			Msg("remote store failed, serving from local")
	}

	return localOp(ctx)
}

// executeVoid adapts execute for operations without a result.
func executeVoid(ctx context.Context, s *Store, op string,
	remoteOp func(context.Context) error,
	localOp func(context.Context) error,
) error {
	_, err := execute(ctx, s, op,
		func(ctx context.Context) (struct{}, error) { return struct{}{}, remoteOp(ctx) },
		func(ctx context.Context) (struct{}, error) { return struct{}{}, localOp(ctx) },
	)
	return err
}

func (s *Store) ListPromoters(ctx context.Context) ([]models.Promoter, error) {
	return execute(ctx, s, "list_promoters", s.remoteOr().ListPromoters, s.local.ListPromoters)
}

// remoteOr keeps the method-value expressions above from panicking when
// remote is nil: execute never invokes the remote closure in that case,
// but taking a method value off a nil interface would.
func (s *Store) remoteOr() store.Store {
	if s.remote != nil {
		return s.remote
	}
	return s.local
}

func (s *Store) AddPromoter(ctx context.Context, p models.Promoter) error {
	return executeVoid(ctx, s, "add_promoter",
		func(ctx context.Context) error { return s.remoteOr().AddPromoter(ctx, p) },
		func(ctx context.Context) error { return s.local.AddPromoter(ctx, p) })
}

func (s *Store) UpdatePromoter(ctx context.Context, p models.Promoter) error {
	return executeVoid(ctx, s, "update_promoter",
		func(ctx context.Context) error { return s.remoteOr().UpdatePromoter(ctx, p) },
		func(ctx context.Context) error { return s.local.UpdatePromoter(ctx, p) })
}

func (s *Store) DeletePromoter(ctx context.Context, id string) error {
	return executeVoid(ctx, s, "delete_promoter",
		func(ctx context.Context) error { return s.remoteOr().DeletePromoter(ctx, id) },
		func(ctx context.Context) error { return s.local.DeletePromoter(ctx, id) })
}

func (s *Store) ListFloors(ctx context.Context) ([]models.Floor, error) {
	return execute(ctx, s, "list_floors", s.remoteOr().ListFloors, s.local.ListFloors)
}

func (s *Store) AddFloor(ctx context.Context, f models.Floor) error {
	return executeVoid(ctx, s, "add_floor",
		func(ctx context.Context) error { return s.remoteOr().AddFloor(ctx, f) },
		func(ctx context.Context) error { return s.local.AddFloor(ctx, f) })
}

func (s *Store) DeleteFloor(ctx context.Context, id string) error {
	return executeVoid(ctx, s, "delete_floor",
		func(ctx context.Context) error { return s.remoteOr().DeleteFloor(ctx, id) },
		func(ctx context.Context) error { return s.local.DeleteFloor(ctx, id) })
}

func (s *Store) ListSales(ctx context.Context) ([]models.SaleRecord, error) {
	return execute(ctx, s, "list_sales", s.remoteOr().ListSales, s.local.ListSales)
}

func (s *Store) AddSale(ctx context.Context, sale models.SaleRecord) error {
	return executeVoid(ctx, s, "add_sale",
		func(ctx context.Context) error { return s.remoteOr().AddSale(ctx, sale) },
		func(ctx context.Context) error { return s.local.AddSale(ctx, sale) })
}

func (s *Store) UpdateSaleStatus(ctx context.Context, id string, status models.SaleStatus) error {
	return executeVoid(ctx, s, "update_sale_status",
		func(ctx context.Context) error { return s.remoteOr().UpdateSaleStatus(ctx, id, status) },
		func(ctx context.Context) error { return s.local.UpdateSaleStatus(ctx, id, status) })
}

func (s *Store) ListComplaints(ctx context.Context) ([]models.ComplaintRecord, error) {
	return execute(ctx, s, "list_complaints", s.remoteOr().ListComplaints, s.local.ListComplaints)
}

func (s *Store) AddComplaint(ctx context.Context, c models.ComplaintRecord) error {
	return executeVoid(ctx, s, "add_complaint",
		func(ctx context.Context) error { return s.remoteOr().AddComplaint(ctx, c) },
		func(ctx context.Context) error { return s.local.AddComplaint(ctx, c) })
}

func (s *Store) UpdateComplaint(ctx context.Context, c models.ComplaintRecord) error {
	return executeVoid(ctx, s, "update_complaint",
		func(ctx context.Context) error { return s.remoteOr().UpdateComplaint(ctx, c) },
		func(ctx context.Context) error { return s.local.UpdateComplaint(ctx, c) })
}

func (s *Store) ListFeedbacks(ctx context.Context) ([]models.FeedbackRecord, error) {
	return execute(ctx, s, "list_feedbacks", s.remoteOr().ListFeedbacks, s.local.ListFeedbacks)
}

func (s *Store) AddFeedback(ctx context.Context, f models.FeedbackRecord) error {
	return executeVoid(ctx, s, "add_feedback",
		func(ctx context.Context) error { return s.remoteOr().AddFeedback(ctx, f) },
		func(ctx context.Context) error { return s.local.AddFeedback(ctx, f) })
}

func (s *Store) GetLogo(ctx context.Context) (string, error) {
	return execute(ctx, s, "get_logo", s.remoteOr().GetLogo, s.local.GetLogo)
}

func (s *Store) SaveLogo(ctx context.Context, url string) error {
	return executeVoid(ctx, s, "save_logo",
		func(ctx context.Context) error { return s.remoteOr().SaveLogo(ctx, url) },
		func(ctx context.Context) error { return s.local.SaveLogo(ctx, url) })
}

// Close closes both backends. Remote close errors are logged rather
// than returned; only the local store's durability matters to callers.
func (s *Store) Close() error {
	if s.remote != nil {
		if err := s.remote.Close(); err != nil {
			s.log.Debug().Err(err).Msg("closing remote store")
		}
	}
	return s.local.Close()
}
