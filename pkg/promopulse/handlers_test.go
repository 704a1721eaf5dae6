package promopulse_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promopulse/promopulse/pkg/logger"
	"github.com/promopulse/promopulse/pkg/models"
	"github.com/promopulse/promopulse/pkg/promopulse"
)

func newTestApp(t *testing.T) *promopulse.App {
	t.Helper()
	log, err := logger.New().Level(zerolog.Disabled).Make()
	require.NoError(t, err)

	app, err := promopulse.New(&promopulse.Config{
		DataDir:    t.TempDir(),
		ServerPort: "0",
		LocalOnly:  true,
	}, log.Logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func doJSON(t *testing.T, app *promopulse.App, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	app.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func validCustomer() models.Customer {
	return models.Customer{
		Name: "Jane Doe", Mobile: "5551234", Email: "jane@example.com",
		Location: "Downtown", Age: 34,
	}
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	rec := doJSON(t, app, "GET", "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[map[string]any](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["failed_over"]) // local-only runs failed over
	assert.NotEmpty(t, body["session"])
}

func TestPromoterLifecycle(t *testing.T) {
	app := newTestApp(t)

	rec := doJSON(t, app, "GET", "/api/promoters", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	seeded := decode[[]models.Promoter](t, rec)
	require.Len(t, seeded, 3)

	rec = doJSON(t, app, "POST", "/api/promoters", map[string]string{"name": "Dana Lee"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[models.Promoter](t, rec)
	assert.Len(t, created.ID, 9)
	assert.Equal(t, "Dana Lee", created.Name)
	assert.NotNil(t, created.AssignedFloors)

	created.AssignedFloors = []string{"Ground Floor - Main Entrance"}
	rec = doJSON(t, app, "PUT", "/api/promoters/"+created.ID, created)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, app, "GET", "/api/promoters", nil)
	promoters := decode[[]models.Promoter](t, rec)
	require.Len(t, promoters, 4)
	assert.Equal(t, []string{"Ground Floor - Main Entrance"}, promoters[3].AssignedFloors)

	rec = doJSON(t, app, "DELETE", "/api/promoters/"+created.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = doJSON(t, app, "GET", "/api/promoters", nil)
	assert.Len(t, decode[[]models.Promoter](t, rec), 3)
}

func TestAddPromoterRequiresName(t *testing.T) {
	app := newTestApp(t)
	rec := doJSON(t, app, "POST", "/api/promoters", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddSale(t *testing.T) {
	app := newTestApp(t)

	payload := models.SaleRecord{
		PromoterID:   "p1",
		PromoterName: "Alice Johnson",
		Customer:     validCustomer(),
		Items:        map[models.TicketType]int{models.TicketKiddo: 2},
		TotalAmount:  150,
	}
	rec := doJSON(t, app, "POST", "/api/sales", payload)
	require.Equal(t, http.StatusCreated, rec.Code)

	sale := decode[models.SaleRecord](t, rec)
	assert.Len(t, sale.ID, 9)
	assert.Equal(t, models.SalePending, sale.Status)
	assert.NotZero(t, sale.Timestamp)
	assert.Equal(t, models.UniqueCode("Jane Doe", "5551234"), sale.UniqueCode)
	assert.Zero(t, sale.TotalAmount)
}

func TestAddSaleRejectsNegativeTicketCount(t *testing.T) {
	app := newTestApp(t)

	// The counts sum to a positive number, so only the per-entry check
	// can catch the negative one.
	payload := models.SaleRecord{
		PromoterID: "p1",
		Customer:   validCustomer(),
		Items:      map[models.TicketType]int{models.TicketKiddo: -1, models.TicketExtreme: 2},
	}
	rec := doJSON(t, app, "POST", "/api/sales", payload)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Contains(t, body["error"], "cannot be negative")
}

func TestAddSaleRejectsEmptyTickets(t *testing.T) {
	app := newTestApp(t)

	payload := models.SaleRecord{
		PromoterID: "p1",
		Customer:   validCustomer(),
		Items:      map[models.TicketType]int{},
	}
	rec := doJSON(t, app, "POST", "/api/sales", payload)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "Please select at least one ticket type.", body["error"])
}

func TestAddSaleRejectsIncompleteCustomer(t *testing.T) {
	app := newTestApp(t)

	customer := validCustomer()
	customer.Mobile = ""
	payload := models.SaleRecord{
		PromoterID: "p1",
		Customer:   customer,
		Items:      map[models.TicketType]int{models.TicketKiddo: 1},
	}
	rec := doJSON(t, app, "POST", "/api/sales", payload)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSaleStatusTransition(t *testing.T) {
	app := newTestApp(t)

	payload := models.SaleRecord{
		PromoterID: "p1",
		Customer:   validCustomer(),
		Items:      map[models.TicketType]int{models.TicketExtreme: 1},
	}
	rec := doJSON(t, app, "POST", "/api/sales", payload)
	require.Equal(t, http.StatusCreated, rec.Code)
	sale := decode[models.SaleRecord](t, rec)

	// Pending is not a valid target.
	rec = doJSON(t, app, "PUT", fmt.Sprintf("/api/sales/%s/status", sale.ID),
		map[string]string{"status": "Pending"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, app, "PUT", fmt.Sprintf("/api/sales/%s/status", sale.ID),
		map[string]string{"status": "Verified"})
	require.Equal(t, http.StatusOK, rec.Code)

	// Verified is terminal; the late rejection is silently ignored.
	rec = doJSON(t, app, "PUT", fmt.Sprintf("/api/sales/%s/status", sale.ID),
		map[string]string{"status": "Rejected"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, app, "GET", "/api/sales", nil)
	sales := decode[[]models.SaleRecord](t, rec)
	require.Len(t, sales, 1)
	assert.Equal(t, models.SaleVerified, sales[0].Status)
}

func TestStats(t *testing.T) {
	app := newTestApp(t)

	payload := models.SaleRecord{
		PromoterID: "p1",
		Customer:   validCustomer(),
		Items:      map[models.TicketType]int{models.TicketKiddo: 2, models.TicketEntryOnly: 1},
	}
	rec := doJSON(t, app, "POST", "/api/sales", payload)
	require.Equal(t, http.StatusCreated, rec.Code)
	sale := decode[models.SaleRecord](t, rec)

	// Pending sales do not count.
	rec = doJSON(t, app, "GET", "/api/stats", nil)
	stats := decode[[]models.KPIStats](t, rec)
	require.Len(t, stats, 3)
	assert.Equal(t, 0, stats[0].TotalSalesLeads)

	rec = doJSON(t, app, "PUT", fmt.Sprintf("/api/sales/%s/status", sale.ID),
		map[string]string{"status": "Verified"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, app, "GET", "/api/stats", nil)
	stats = decode[[]models.KPIStats](t, rec)
	require.Len(t, stats, 3)
	assert.Equal(t, "p1", stats[0].PromoterID)
	assert.Equal(t, 2, stats[0].TotalKiddo)
	assert.Equal(t, 1, stats[0].TotalEntry)
	assert.Equal(t, 1, stats[0].TotalSalesLeads)
	assert.Equal(t, 1, stats[0].TotalMailCollect)
}

func TestComplaintsAndFeedback(t *testing.T) {
	app := newTestApp(t)

	rec := doJSON(t, app, "POST", "/api/complaints", map[string]any{
		"promoterId":  "p1",
		"description": "queue jumped at the kiosk",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	complaint := decode[models.ComplaintRecord](t, rec)
	assert.NotZero(t, complaint.Timestamp)

	complaint.Description = "queue jumped at the north kiosk"
	rec = doJSON(t, app, "PUT", "/api/complaints/"+complaint.ID, complaint)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, app, "GET", "/api/complaints", nil)
	complaints := decode[[]models.ComplaintRecord](t, rec)
	require.Len(t, complaints, 1)
	assert.Equal(t, "queue jumped at the north kiosk", complaints[0].Description)

	rec = doJSON(t, app, "POST", "/api/feedbacks", models.FeedbackRecord{
		PromoterID: "p1",
		Customer:   validCustomer(),
		Rating:     5,
		Comment:    "great service",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Out-of-range ratings are rejected.
	rec = doJSON(t, app, "POST", "/api/feedbacks", models.FeedbackRecord{
		PromoterID: "p1",
		Customer:   validCustomer(),
		Rating:     6,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, app, "GET", "/api/feedbacks", nil)
	assert.Len(t, decode[[]models.FeedbackRecord](t, rec), 1)
}

func TestLogoRoundTrip(t *testing.T) {
	app := newTestApp(t)

	rec := doJSON(t, app, "GET", "/api/settings/logo", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[models.Settings](t, rec).LogoURL)

	rec = doJSON(t, app, "PUT", "/api/settings/logo",
		models.Settings{LogoURL: "https://cdn.example.com/logo.png"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, app, "GET", "/api/settings/logo", nil)
	assert.Equal(t, "https://cdn.example.com/logo.png", decode[models.Settings](t, rec).LogoURL)
}
