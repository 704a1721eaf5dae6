package promopulse

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// Run starts the HTTP server and blocks until ctx is cancelled or the
// server fails. Shutdown is graceful with a five second drain window.
//
// Routes:
//
//	GET  /api/health                  - Service health and failover state
//	GET  /api/promoters               - List promoters
//	POST /api/promoters               - Add a promoter
//	PUT  /api/promoters/{id}          - Update a promoter (floor assignments)
//	DELETE /api/promoters/{id}        - Remove a promoter
//	GET  /api/floors                  - List floors
//	POST /api/floors                  - Add a floor
//	DELETE /api/floors/{id}           - Remove a floor
//	GET  /api/sales                   - List sale records
//	POST /api/sales                   - Log a sale (starts Pending)
//	PUT  /api/sales/{id}/status       - Verify or reject a pending sale
//	GET  /api/complaints              - List complaints
//	POST /api/complaints              - File a complaint
//	PUT  /api/complaints/{id}         - Amend a complaint
//	GET  /api/feedbacks               - List customer feedback
//	POST /api/feedbacks               - Record customer feedback
//	GET  /api/settings/logo           - Current logo URL
//	PUT  /api/settings/logo           - Set the logo URL
//	GET  /api/stats                   - Per-promoter KPI rows
func (a *App) Run(ctx context.Context, cmd *RunCommand) error {
	router := a.Router()

	addr := fmt.Sprintf(":%s", a.config.ServerPort)
	a.log.Info().Str("addr", addr).Bool("local_only", a.config.LocalOnly).Msg("starting server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}

// Router builds the API router. Exposed separately so handler tests can
// drive it through httptest without binding a port.
func (a *App) Router() *mux.Router {
	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", a.handleHealth).Methods("GET")

	api.HandleFunc("/promoters", a.handleListPromoters).Methods("GET")
	api.HandleFunc("/promoters", a.handleAddPromoter).Methods("POST")
	api.HandleFunc("/promoters/{id}", a.handleUpdatePromoter).Methods("PUT")
	api.HandleFunc("/promoters/{id}", a.handleDeletePromoter).Methods("DELETE")

	api.HandleFunc("/floors", a.handleListFloors).Methods("GET")
	api.HandleFunc("/floors", a.handleAddFloor).Methods("POST")
	api.HandleFunc("/floors/{id}", a.handleDeleteFloor).Methods("DELETE")

	api.HandleFunc("/sales", a.handleListSales).Methods("GET")
	api.HandleFunc("/sales", a.handleAddSale).Methods("POST")
	api.HandleFunc("/sales/{id}/status", a.handleUpdateSaleStatus).Methods("PUT")

	api.HandleFunc("/complaints", a.handleListComplaints).Methods("GET")
	api.HandleFunc("/complaints", a.handleAddComplaint).Methods("POST")
	api.HandleFunc("/complaints/{id}", a.handleUpdateComplaint).Methods("PUT")

	api.HandleFunc("/feedbacks", a.handleListFeedbacks).Methods("GET")
	api.HandleFunc("/feedbacks", a.handleAddFeedback).Methods("POST")

	api.HandleFunc("/settings/logo", a.handleGetLogo).Methods("GET")
	api.HandleFunc("/settings/logo", a.handleSaveLogo).Methods("PUT")

	api.HandleFunc("/stats", a.handleStats).Methods("GET")

	router.HandleFunc("/health", a.handleHealth).Methods("GET")
	return router
}
