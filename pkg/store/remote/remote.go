// Package remote implements the SurrealDB-backed primary store.
//
// All operations run native SurrealQL through the SDK's Query API with
// parameterized statements. Records are keyed by the caller-generated
// string id, so the remote and local stores stay interchangeable: the
// id lives in the record id (via type::thing), and list queries project
// it back out with meta::id so the model's plain string field fills in.
//
// Every failure leaving this package is a [store.RemoteError] carrying
// a classification; the failover layer never looks at error text.
package remote

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"
	surrealdb "github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/connection"
	"github.com/surrealdb/surrealdb.go/pkg/connection/gorillaws"
	"github.com/surrealdb/surrealdb.go/surrealcbor"

	"github.com/promopulse/promopulse/pkg/models"
	"github.com/promopulse/promopulse/pkg/store"
)

// Config holds the SurrealDB connection settings.
type Config struct {
	URL       string
	Namespace string
	Database  string
	Username  string
	Password  string
}

// Store talks to a SurrealDB instance over WebSocket.
type Store struct {
	db  *surrealdb.DB
	log zerolog.Logger
}

var _ store.Store = (*Store)(nil)

// New connects, authenticates and selects the namespace and database.
// The surrealcbor codec is required for correct marshaling of times and
// record ids; the default codec produces formats SurrealDB rejects.
// Connection failures come back classified, so callers can distinguish
// an unreachable endpoint from bad credentials.
func New(ctx context.Context, cfg Config, log zerolog.Logger) (*Store, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, &store.RemoteError{Kind: store.KindConfig, Err: fmt.Errorf("parse url %q: %w", cfg.URL, err)}
	}

	conf := connection.NewConfig(u)
	codec := surrealcbor.New()
	conf.Marshaler = codec
	conf.Unmarshaler = codec

	conn := gorillaws.New(conf)
	db, err := surrealdb.FromConnection(ctx, conn)
	if err != nil {
		return nil, wrap(fmt.Errorf("connect: %w", err))
	}

	if cfg.Username != "" && cfg.Password != "" {
		if _, err := db.SignIn(ctx, map[string]any{
			"user": cfg.Username,
			"pass": cfg.Password,
		}); err != nil {
			_ = db.Close(ctx)
			return nil, wrap(fmt.Errorf("sign in: %w", err))
		}
	}

	if err := db.Use(ctx, cfg.Namespace, cfg.Database); err != nil {
		_ = db.Close(ctx)
		return nil, wrap(fmt.Errorf("use %s/%s: %w", cfg.Namespace, cfg.Database, err))
	}

	return &Store{db: db, log: log}, nil
}

// list runs a SELECT and unwraps the first statement's rows. The id
// projection (meta::id) strips the table prefix so rows unmarshal into
// plain string id fields.
func list[T any](ctx context.Context, s *Store, table string) ([]T, error) {
	query := fmt.Sprintf("SELECT *, meta::id(id) AS id FROM %s", table)
	res, err := surrealdb.Query[[]T](ctx, s.db, query, nil)
	if err != nil {
		return nil, wrap(err)
	}
	if res == nil || len(*res) == 0 {
		return []T{}, nil
	}
	items := (*res)[0].Result
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// put upserts a record under type::thing(table, id). Content must carry
// a zeroed id field so the record id stays the single source of truth.
func (s *Store) put(ctx context.Context, table, id string, content any) error {
	_, err := surrealdb.Query[any](ctx, s.db,
		"UPSERT type::thing($tb, $id) CONTENT $content",
		map[string]any{"tb": table, "id": id, "content": content})
	if err != nil {
		return wrap(err)
	}
	return nil
}

// update replaces an existing record's content. UPDATE on a record that
// does not exist affects nothing, which keeps unknown-id updates silent
// instead of creating records the way put would.
func (s *Store) update(ctx context.Context, table, id string, content any) error {
	_, err := surrealdb.Query[any](ctx, s.db,
		"UPDATE type::thing($tb, $id) CONTENT $content",
		map[string]any{"tb": table, "id": id, "content": content})
	if err != nil {
		return wrap(err)
	}
	return nil
}

func (s *Store) delete(ctx context.Context, table, id string) error {
	_, err := surrealdb.Query[any](ctx, s.db,
		"DELETE type::thing($tb, $id)",
		map[string]any{"tb": table, "id": id})
	if err != nil {
		return wrap(err)
	}
	return nil
}

func (s *Store) ListPromoters(ctx context.Context) ([]models.Promoter, error) {
	promoters, err := list[models.Promoter](ctx, s, store.CollectionPromoters)
	if err != nil {
		return nil, err
	}
	for i := range promoters {
		if promoters[i].AssignedFloors == nil {
			promoters[i].AssignedFloors = []string{}
		}
	}
	return promoters, nil
}

func (s *Store) AddPromoter(ctx context.Context, p models.Promoter) error {
	id := p.ID
	p.ID = ""
	return s.put(ctx, store.CollectionPromoters, id, p)
}

func (s *Store) UpdatePromoter(ctx context.Context, p models.Promoter) error {
	id := p.ID
	p.ID = ""
	return s.update(ctx, store.CollectionPromoters, id, p)
}

func (s *Store) DeletePromoter(ctx context.Context, id string) error {
	return s.delete(ctx, store.CollectionPromoters, id)
}

func (s *Store) ListFloors(ctx context.Context) ([]models.Floor, error) {
	return list[models.Floor](ctx, s, store.CollectionFloors)
}

func (s *Store) AddFloor(ctx context.Context, f models.Floor) error {
	id := f.ID
	f.ID = ""
	return s.put(ctx, store.CollectionFloors, id, f)
}

func (s *Store) DeleteFloor(ctx context.Context, id string) error {
	return s.delete(ctx, store.CollectionFloors, id)
}

func (s *Store) ListSales(ctx context.Context) ([]models.SaleRecord, error) {
	return list[models.SaleRecord](ctx, s, store.CollectionSales)
}

func (s *Store) AddSale(ctx context.Context, sale models.SaleRecord) error {
	id := sale.ID
	sale.ID = ""
	return s.put(ctx, store.CollectionSales, id, sale)
}

// UpdateSaleStatus is a conditional update: the WHERE clause keeps a
// sale that already reached a terminal status from being overwritten by
// a racing verifier.
func (s *Store) UpdateSaleStatus(ctx context.Context, id string, status models.SaleStatus) error {
	_, err := surrealdb.Query[any](ctx, s.db,
		"UPDATE type::thing($tb, $id) SET status = $status WHERE status = $pending",
		map[string]any{
			"tb":      store.CollectionSales,
			"id":      id,
			"status":  status,
			"pending": models.SalePending,
		})
	if err != nil {
		return wrap(err)
	}
	return nil
}

func (s *Store) ListComplaints(ctx context.Context) ([]models.ComplaintRecord, error) {
	return list[models.ComplaintRecord](ctx, s, store.CollectionComplaints)
}

func (s *Store) AddComplaint(ctx context.Context, c models.ComplaintRecord) error {
	id := c.ID
	c.ID = ""
	return s.put(ctx, store.CollectionComplaints, id, c)
}

func (s *Store) UpdateComplaint(ctx context.Context, c models.ComplaintRecord) error {
	id := c.ID
	c.ID = ""
	return s.update(ctx, store.CollectionComplaints, id, c)
}

func (s *Store) ListFeedbacks(ctx context.Context) ([]models.FeedbackRecord, error) {
	return list[models.FeedbackRecord](ctx, s, store.CollectionFeedbacks)
}

func (s *Store) AddFeedback(ctx context.Context, f models.FeedbackRecord) error {
	id := f.ID
	f.ID = ""
	return s.put(ctx, store.CollectionFeedbacks, id, f)
}

// GetLogo reads the settings singleton. A missing record is not an
// error: a fresh database simply has no logo yet, and reporting it as
// not-found would needlessly trip the failover breaker.
func (s *Store) GetLogo(ctx context.Context) (string, error) {
	res, err := surrealdb.Query[[]models.Settings](ctx, s.db,
		"SELECT * FROM type::thing($tb, $id)",
		map[string]any{"tb": store.CollectionSettings, "id": models.SettingsID})
	if err != nil {
		return "", wrap(err)
	}
	if res == nil || len(*res) == 0 || len((*res)[0].Result) == 0 {
		return "", nil
	}
	return (*res)[0].Result[0].LogoURL, nil
}

func (s *Store) SaveLogo(ctx context.Context, url string) error {
	return s.put(ctx, store.CollectionSettings, models.SettingsID, models.Settings{LogoURL: url})
}

func (s *Store) Close() error {
	return s.db.Close(context.Background())
}
