// Package local implements the file-backed fallback store.
//
// Each collection lives in its own JSON file under the data directory,
// named after the collection's storage key (for example
// pp_promoters.json). Every operation reads the whole collection,
// applies the change in memory and writes the whole collection back;
// writes go through a temp file and rename so a crash never leaves a
// half-written file behind. A single mutex serializes all operations,
// which is plenty for the write rates this store sees.
package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/promopulse/promopulse/pkg/models"
	"github.com/promopulse/promopulse/pkg/store"
)

// Store persists collections as JSON files in a directory.
type Store struct {
	dir string
	log zerolog.Logger

	mu sync.Mutex
}

var _ store.Store = (*Store)(nil)

// New returns a Store rooted at dir, creating the directory if needed.
func New(dir string, log zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	return &Store{dir: dir, log: log}, nil
}

func (s *Store) path(collection string) string {
	return filepath.Join(s.dir, store.LocalKey(collection)+".json")
}

// read loads a collection file. A missing file yields (nil, false, nil)
// so callers can substitute seed data.
func read[T any](s *Store, collection string) ([]T, bool, error) {
	data, err := os.ReadFile(s.path(collection))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", collection, err)
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", collection, err)
	}
	return items, true, nil
}

func write[T any](s *Store, collection string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", collection, err)
	}
	path := s.path(collection)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", collection, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("write %s: %w", collection, err)
	}
	return nil
}

// upsert replaces the item with a matching id, or appends it.
func upsert[T any](items []T, item T, id func(T) string) []T {
	for i := range items {
		if id(items[i]) == id(item) {
			items[i] = item
			return items
		}
	}
	return append(items, item)
}

// replace swaps in the item with a matching id. The second return
// reports whether anything matched; unknown ids leave items untouched.
func replace[T any](items []T, item T, id func(T) string) ([]T, bool) {
	for i := range items {
		if id(items[i]) == id(item) {
			items[i] = item
			return items, true
		}
	}
	return items, false
}

// remove drops the item with a matching id. Unknown ids are a no-op.
func remove[T any](items []T, id string, key func(T) string) []T {
	out := items[:0]
	for _, it := range items {
		if key(it) != id {
			out = append(out, it)
		}
	}
	return out
}

// legacyPromoter tolerates the old single-floor field that predates
// multi-floor assignment. Files written before the change carry
// assignedFloor; reading folds it into assignedFloors.
type legacyPromoter struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	AssignedFloors []string `json:"assignedFloors"`
	AssignedFloor  string   `json:"assignedFloor,omitempty"`
}

func (p legacyPromoter) toModel() models.Promoter {
	floors := p.AssignedFloors
	if floors == nil {
		floors = []string{}
		if p.AssignedFloor != "" {
			floors = []string{p.AssignedFloor}
		}
	}
	return models.Promoter{ID: p.ID, Name: p.Name, AssignedFloors: floors}
}

func (s *Store) loadPromoters() ([]models.Promoter, error) {
	raw, ok, err := read[legacyPromoter](s, store.CollectionPromoters)
	if err != nil {
		return nil, err
	}
	if !ok {
		return seedPromoters(), nil
	}
	promoters := make([]models.Promoter, len(raw))
	for i, p := range raw {
		promoters[i] = p.toModel()
	}
	return promoters, nil
}

func (s *Store) ListPromoters(ctx context.Context) ([]models.Promoter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadPromoters()
}

func (s *Store) AddPromoter(ctx context.Context, p models.Promoter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	promoters, err := s.loadPromoters()
	if err != nil {
		return err
	}
	promoters = upsert(promoters, p, func(x models.Promoter) string { return x.ID })
	return write(s, store.CollectionPromoters, promoters)
}

// UpdatePromoter replaces an existing promoter in place. Unknown ids
// are a silent no-op; creation stays with AddPromoter.
func (s *Store) UpdatePromoter(ctx context.Context, p models.Promoter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	promoters, err := s.loadPromoters()
	if err != nil {
		return err
	}
	promoters, matched := replace(promoters, p, func(x models.Promoter) string { return x.ID })
	if !matched {
		return nil
	}
	return write(s, store.CollectionPromoters, promoters)
}

func (s *Store) DeletePromoter(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	promoters, err := s.loadPromoters()
	if err != nil {
		return err
	}
	promoters = remove(promoters, id, func(x models.Promoter) string { return x.ID })
	return write(s, store.CollectionPromoters, promoters)
}

func (s *Store) loadFloors() ([]models.Floor, error) {
	floors, ok, err := read[models.Floor](s, store.CollectionFloors)
	if err != nil {
		return nil, err
	}
	if !ok {
		return seedFloors(), nil
	}
	return floors, nil
}

func (s *Store) ListFloors(ctx context.Context) ([]models.Floor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadFloors()
}

func (s *Store) AddFloor(ctx context.Context, f models.Floor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	floors, err := s.loadFloors()
	if err != nil {
		return err
	}
	floors = upsert(floors, f, func(x models.Floor) string { return x.ID })
	return write(s, store.CollectionFloors, floors)
}

func (s *Store) DeleteFloor(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	floors, err := s.loadFloors()
	if err != nil {
		return err
	}
	floors = remove(floors, id, func(x models.Floor) string { return x.ID })
	return write(s, store.CollectionFloors, floors)
}

func (s *Store) ListSales(ctx context.Context) ([]models.SaleRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sales, _, err := read[models.SaleRecord](s, store.CollectionSales)
	if sales == nil {
		sales = []models.SaleRecord{}
	}
	return sales, err
}

func (s *Store) AddSale(ctx context.Context, sale models.SaleRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sales, _, err := read[models.SaleRecord](s, store.CollectionSales)
	if err != nil {
		return err
	}
	sales = upsert(sales, sale, func(x models.SaleRecord) string { return x.ID })
	return write(s, store.CollectionSales, sales)
}

// UpdateSaleStatus moves a pending sale to a terminal status. Sales
// already verified or rejected keep their status; unknown ids are
// ignored.
func (s *Store) UpdateSaleStatus(ctx context.Context, id string, status models.SaleStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sales, _, err := read[models.SaleRecord](s, store.CollectionSales)
	if err != nil {
		return err
	}
	changed := false
	for i := range sales {
		if sales[i].ID == id && sales[i].Status == models.SalePending {
			sales[i].Status = status
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return write(s, store.CollectionSales, sales)
}

func (s *Store) ListComplaints(ctx context.Context) ([]models.ComplaintRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	complaints, _, err := read[models.ComplaintRecord](s, store.CollectionComplaints)
	if complaints == nil {
		complaints = []models.ComplaintRecord{}
	}
	return complaints, err
}

func (s *Store) AddComplaint(ctx context.Context, c models.ComplaintRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	complaints, _, err := read[models.ComplaintRecord](s, store.CollectionComplaints)
	if err != nil {
		return err
	}
	complaints = upsert(complaints, c, func(x models.ComplaintRecord) string { return x.ID })
	return write(s, store.CollectionComplaints, complaints)
}

func (s *Store) UpdateComplaint(ctx context.Context, c models.ComplaintRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	complaints, _, err := read[models.ComplaintRecord](s, store.CollectionComplaints)
	if err != nil {
		return err
	}
	complaints, matched := replace(complaints, c, func(x models.ComplaintRecord) string { return x.ID })
	if !matched {
		return nil
	}
	return write(s, store.CollectionComplaints, complaints)
}

func (s *Store) ListFeedbacks(ctx context.Context) ([]models.FeedbackRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	feedbacks, _, err := read[models.FeedbackRecord](s, store.CollectionFeedbacks)
	if feedbacks == nil {
		feedbacks = []models.FeedbackRecord{}
	}
	return feedbacks, err
}

func (s *Store) AddFeedback(ctx context.Context, f models.FeedbackRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	feedbacks, _, err := read[models.FeedbackRecord](s, store.CollectionFeedbacks)
	if err != nil {
		return err
	}
	feedbacks = upsert(feedbacks, f, func(x models.FeedbackRecord) string { return x.ID })
	return write(s, store.CollectionFeedbacks, feedbacks)
}

func (s *Store) GetLogo(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	settings, _, err := read[models.Settings](s, store.CollectionSettings)
	if err != nil {
		return "", err
	}
	if len(settings) == 0 {
		return "", nil
	}
	return settings[0].LogoURL, nil
}

func (s *Store) SaveLogo(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return write(s, store.CollectionSettings, []models.Settings{{LogoURL: url}})
}

func (s *Store) Close() error { return nil }
