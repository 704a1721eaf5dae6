package failover_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promopulse/promopulse/pkg/models"
	"github.com/promopulse/promopulse/pkg/store"
	"github.com/promopulse/promopulse/pkg/store/failover"
	"github.com/promopulse/promopulse/pkg/store/local"
)

// stubRemote counts calls and either succeeds with canned data, fails
// with a fixed error, or stalls past the gateway deadline.
type stubRemote struct {
	mu    sync.Mutex
	calls int
	err   error
	delay time.Duration

	promoters []models.Promoter
	logo      string
}

func (s *stubRemote) touch(ctx context.Context) error {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return s.err
}

func (s *stubRemote) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *stubRemote) ListPromoters(ctx context.Context) ([]models.Promoter, error) {
	if err := s.touch(ctx); err != nil {
		return nil, err
	}
	return s.promoters, nil
}

func (s *stubRemote) AddPromoter(ctx context.Context, p models.Promoter) error { return s.touch(ctx) }
func (s *stubRemote) UpdatePromoter(ctx context.Context, p models.Promoter) error {
	return s.touch(ctx)
}
func (s *stubRemote) DeletePromoter(ctx context.Context, id string) error { return s.touch(ctx) }

func (s *stubRemote) ListFloors(ctx context.Context) ([]models.Floor, error) {
	if err := s.touch(ctx); err != nil {
		return nil, err
	}
	return []models.Floor{}, nil
}

func (s *stubRemote) AddFloor(ctx context.Context, f models.Floor) error { return s.touch(ctx) }
func (s *stubRemote) DeleteFloor(ctx context.Context, id string) error   { return s.touch(ctx) }

func (s *stubRemote) ListSales(ctx context.Context) ([]models.SaleRecord, error) {
	if err := s.touch(ctx); err != nil {
		return nil, err
	}
	return []models.SaleRecord{}, nil
}

func (s *stubRemote) AddSale(ctx context.Context, rec models.SaleRecord) error { return s.touch(ctx) }
func (s *stubRemote) UpdateSaleStatus(ctx context.Context, id string, status models.SaleStatus) error {
	return s.touch(ctx)
}

func (s *stubRemote) ListComplaints(ctx context.Context) ([]models.ComplaintRecord, error) {
	if err := s.touch(ctx); err != nil {
		return nil, err
	}
	return []models.ComplaintRecord{}, nil
}

func (s *stubRemote) AddComplaint(ctx context.Context, c models.ComplaintRecord) error {
	return s.touch(ctx)
}
func (s *stubRemote) UpdateComplaint(ctx context.Context, c models.ComplaintRecord) error {
	return s.touch(ctx)
}

func (s *stubRemote) ListFeedbacks(ctx context.Context) ([]models.FeedbackRecord, error) {
	if err := s.touch(ctx); err != nil {
		return nil, err
	}
	return []models.FeedbackRecord{}, nil
}

func (s *stubRemote) AddFeedback(ctx context.Context, f models.FeedbackRecord) error {
	return s.touch(ctx)
}

func (s *stubRemote) GetLogo(ctx context.Context) (string, error) {
	if err := s.touch(ctx); err != nil {
		return "", err
	}
	return s.logo, nil
}

func (s *stubRemote) SaveLogo(ctx context.Context, url string) error { return s.touch(ctx) }
func (s *stubRemote) Close() error                                   { return nil }

var _ store.Store = (*stubRemote)(nil)

func newGateway(t *testing.T, remote store.Store) *failover.Store {
	t.Helper()
	localStore, err := local.New(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	return failover.New(remote, localStore, zerolog.Nop())
}

func TestRemoteSuccessServesRemoteData(t *testing.T) {
	remote := &stubRemote{promoters: []models.Promoter{{ID: "r1", Name: "Remote Rita"}}}
	gw := newGateway(t, remote)

	promoters, err := gw.ListPromoters(context.Background())
	require.NoError(t, err)
	require.Len(t, promoters, 1)
	assert.Equal(t, "Remote Rita", promoters[0].Name)
	assert.False(t, gw.Breaker().Open())
}

func TestFatalErrorTripsBreakerOnce(t *testing.T) {
	remote := &stubRemote{err: &store.RemoteError{Kind: store.KindPermissionDenied, Err: context.DeadlineExceeded}}
	gw := newGateway(t, remote)
	ctx := context.Background()

	// First call fails over to local and opens the breaker.
	promoters, err := gw.ListPromoters(ctx)
	require.NoError(t, err)
	assert.Len(t, promoters, 3) // local seeds
	assert.True(t, gw.Breaker().Open())
	assert.Equal(t, store.KindPermissionDenied, gw.Breaker().Reason())
	assert.Equal(t, 1, remote.callCount())

	// Every subsequent operation skips the remote, across collections.
	_, err = gw.ListFloors(ctx)
	require.NoError(t, err)
	_, err = gw.GetLogo(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, remote.callCount())
}

func TestTimeoutTripsBreaker(t *testing.T) {
	remote := &stubRemote{delay: time.Second}
	gw := newGateway(t, remote)
	gw.Timeout = 20 * time.Millisecond

	start := time.Now()
	floors, err := gw.ListFloors(context.Background())
	require.NoError(t, err)
	assert.Len(t, floors, 4) // local seeds
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.True(t, gw.Breaker().Open())
	assert.Equal(t, store.KindTimeout, gw.Breaker().Reason())
}

func TestTransientErrorDoesNotTrip(t *testing.T) {
	remote := &stubRemote{err: &store.RemoteError{Kind: store.KindOther, Err: assert.AnError}}
	gw := newGateway(t, remote)
	ctx := context.Background()

	_, err := gw.ListSales(ctx)
	require.NoError(t, err)
	assert.False(t, gw.Breaker().Open())

	// The remote gets another chance on the next call.
	_, err = gw.ListSales(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, remote.callCount())
}

func TestCallerCancellationDoesNotTrip(t *testing.T) {
	remote := &stubRemote{err: context.Canceled}
	gw := newGateway(t, remote)

	_, err := gw.ListSales(context.Background())
	require.NoError(t, err)
	assert.False(t, gw.Breaker().Open())
}

func TestWritesFallBackToLocal(t *testing.T) {
	remote := &stubRemote{err: &store.RemoteError{Kind: store.KindUnavailable, Err: assert.AnError}}
	gw := newGateway(t, remote)
	ctx := context.Background()

	require.NoError(t, gw.AddFloor(ctx, models.Floor{ID: "fx", Name: "Rooftop"}))
	assert.True(t, gw.Breaker().Open())

	// The write landed locally and reads (now local too) see it.
	floors, err := gw.ListFloors(ctx)
	require.NoError(t, err)
	assert.Len(t, floors, 5)
}

func TestNilRemoteServesLocal(t *testing.T) {
	gw := newGateway(t, nil)

	promoters, err := gw.ListPromoters(context.Background())
	require.NoError(t, err)
	assert.Len(t, promoters, 3)
	assert.False(t, gw.Breaker().Open())
}

func TestBreakerTripsExactlyOnce(t *testing.T) {
	b := failover.NewBreaker()
	assert.False(t, b.Open())
	assert.NotEmpty(t, b.SessionID())

	assert.True(t, b.Trip(store.KindUnavailable))
	assert.False(t, b.Trip(store.KindTimeout))
	assert.True(t, b.Open())
	// The first kind wins.
	assert.Equal(t, store.KindUnavailable, b.Reason())
}
