// Package store defines the persistence contract shared by every
// backend of the promoter KPI tracker.
//
// The [Store] interface is implemented three times:
//
//   - remote: the SurrealDB-backed primary store, reached over the
//     network and therefore allowed to fail or stall
//   - local: a durable file-backed fallback with localStorage-shaped
//     semantics (whole-collection JSON round-trips per operation)
//   - failover: the circuit-breaker gateway combining the two, which is
//     what the application actually talks to
//
// Every method takes a context for cancellation. List methods return an
// empty (or seeded, for promoters and floors) slice for an empty
// collection; empty is a valid result, never an error. Add methods are
// idempotent upserts keyed by the entity's client-generated id: calling
// twice with the same id leaves one record, holding the last payload.
// Update methods silently no-op when no record matches, so callers
// must not depend on an update failing visibly. Deletes of unknown ids
// are silent no-ops as well.
package store

import (
	"context"

	"github.com/promopulse/promopulse/pkg/models"
)

// Collection names used by the remote document store. The local store
// derives its storage keys from these via [LocalKey].
const (
	CollectionPromoters  = "promoters"
	CollectionFloors     = "floors"
	CollectionSales      = "sales"
	CollectionComplaints = "complaints"
	CollectionFeedbacks  = "feedbacks"
	CollectionSettings   = "settings"
)

// localKeyPrefix namespaces local storage keys. The prefix predates
// this implementation and is kept so existing data files remain valid.
const localKeyPrefix = "pp_"

// LocalKey returns the local-store key for a collection name.
func LocalKey(collection string) string {
	return localKeyPrefix + collection
}

// Store is the typed persistence facade consumed by the application.
//
// It is intentionally one interface rather than per-entity repositories:
// the circuit breaker that guards the remote backend is session-scoped
// and shared across all collections, so a single combining
// implementation keeps that coupling explicit.
type Store interface {
	// Promoters. The collection has bootstrap content: listing a store
	// that has never been written returns seed promoters, not an empty
	// slice.
	ListPromoters(ctx context.Context) ([]models.Promoter, error)
	AddPromoter(ctx context.Context, p models.Promoter) error
	UpdatePromoter(ctx context.Context, p models.Promoter) error
	DeletePromoter(ctx context.Context, id string) error

	// Floors. Seeded like promoters.
	ListFloors(ctx context.Context) ([]models.Floor, error)
	AddFloor(ctx context.Context, f models.Floor) error
	DeleteFloor(ctx context.Context, id string) error

	// Sales. UpdateSaleStatus is the only mutation a sale ever sees
	// after creation, and it only moves Pending records; a record
	// already in a terminal state is left untouched.
	ListSales(ctx context.Context) ([]models.SaleRecord, error)
	AddSale(ctx context.Context, s models.SaleRecord) error
	UpdateSaleStatus(ctx context.Context, id string, status models.SaleStatus) error

	// Complaints. UpdateComplaint replaces the whole record.
	ListComplaints(ctx context.Context) ([]models.ComplaintRecord, error)
	AddComplaint(ctx context.Context, c models.ComplaintRecord) error
	UpdateComplaint(ctx context.Context, c models.ComplaintRecord) error

	// Feedbacks are write-once.
	ListFeedbacks(ctx context.Context) ([]models.FeedbackRecord, error)
	AddFeedback(ctx context.Context, f models.FeedbackRecord) error

	// Settings singleton. GetLogo returns the empty string when no logo
	// has been saved; SaveLogo is always an upsert.
	GetLogo(ctx context.Context) (string, error)
	SaveLogo(ctx context.Context, url string) error

	Close() error
}
