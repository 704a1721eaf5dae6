package promopulse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/promopulse/promopulse/pkg/kpi"
	"github.com/promopulse/promopulse/pkg/models"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_, _ = w.Write(response)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// handleHealth reports service status and whether the session is still
// using the remote store. Once failed_over flips to true it stays true
// for the life of the process.
func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	breaker := a.store.Breaker()
	failedOver := a.config.LocalOnly || breaker.Open()
	payload := map[string]any{
		"status":      "ok",
		"session":     breaker.SessionID(),
		"failed_over": failedOver,
	}
	if breaker.Open() {
		payload["reason"] = breaker.Reason().String()
	}
	respondJSON(w, http.StatusOK, payload)
}

func (a *App) handleListPromoters(w http.ResponseWriter, r *http.Request) {
	promoters, err := a.store.ListPromoters(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, promoters)
}

func (a *App) handleAddPromoter(w http.ResponseWriter, r *http.Request) {
	var promoter models.Promoter
	if err := json.NewDecoder(r.Body).Decode(&promoter); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := a.validate.Struct(promoter); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	promoter.ID = models.NewID()
	if promoter.AssignedFloors == nil {
		promoter.AssignedFloors = []string{}
	}
	if err := a.store.AddPromoter(r.Context(), promoter); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, promoter)
}

func (a *App) handleUpdatePromoter(w http.ResponseWriter, r *http.Request) {
	var promoter models.Promoter
	if err := json.NewDecoder(r.Body).Decode(&promoter); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	promoter.ID = mux.Vars(r)["id"]
	if err := a.validate.Struct(promoter); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if promoter.AssignedFloors == nil {
		promoter.AssignedFloors = []string{}
	}
	if err := a.store.UpdatePromoter(r.Context(), promoter); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, promoter)
}

func (a *App) handleDeletePromoter(w http.ResponseWriter, r *http.Request) {
	if err := a.store.DeletePromoter(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (a *App) handleListFloors(w http.ResponseWriter, r *http.Request) {
	floors, err := a.store.ListFloors(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, floors)
}

func (a *App) handleAddFloor(w http.ResponseWriter, r *http.Request) {
	var floor models.Floor
	if err := json.NewDecoder(r.Body).Decode(&floor); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := a.validate.Struct(floor); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	floor.ID = models.NewID()
	if err := a.store.AddFloor(r.Context(), floor); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, floor)
}

func (a *App) handleDeleteFloor(w http.ResponseWriter, r *http.Request) {
	if err := a.store.DeleteFloor(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (a *App) handleListSales(w http.ResponseWriter, r *http.Request) {
	sales, err := a.store.ListSales(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, sales)
}

// handleAddSale logs a new sale. The server owns the id, the unique
// code, the timestamp, the initial Pending status and the placeholder
// total amount; whatever the client sent for those fields is
// overwritten.
func (a *App) handleAddSale(w http.ResponseWriter, r *http.Request) {
	var sale models.SaleRecord
	if err := json.NewDecoder(r.Body).Decode(&sale); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := a.validate.Struct(sale); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	for tt, n := range sale.Items {
		if n < 0 {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("Ticket count for %s cannot be negative.", tt))
			return
		}
	}
	if totalTickets(sale.Items) == 0 {
		respondError(w, http.StatusBadRequest, "Please select at least one ticket type.")
		return
	}
	sale.ID = models.NewID()
	sale.UniqueCode = models.UniqueCode(sale.Customer.Name, sale.Customer.Mobile)
	sale.Status = models.SalePending
	sale.Timestamp = time.Now().UnixMilli()
	sale.TotalAmount = 0
	if err := a.store.AddSale(r.Context(), sale); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, sale)
}

func totalTickets(items map[models.TicketType]int) int {
	total := 0
	for _, n := range items {
		total += n
	}
	return total
}

type updateStatusRequest struct {
	Status models.SaleStatus `json:"status"`
}

// handleUpdateSaleStatus verifies or rejects a pending sale. The target
// status must be terminal; the store ignores the update if the sale
// already left Pending, and that is not reported as an error.
func (a *App) handleUpdateSaleStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if !req.Status.Terminal() {
		respondError(w, http.StatusBadRequest, "Status must be Verified or Rejected")
		return
	}
	id := mux.Vars(r)["id"]
	if err := a.store.UpdateSaleStatus(r.Context(), id, req.Status); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": id, "status": string(req.Status)})
}

func (a *App) handleListComplaints(w http.ResponseWriter, r *http.Request) {
	complaints, err := a.store.ListComplaints(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, complaints)
}

func (a *App) handleAddComplaint(w http.ResponseWriter, r *http.Request) {
	var complaint models.ComplaintRecord
	if err := json.NewDecoder(r.Body).Decode(&complaint); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := a.validate.Struct(complaint); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	complaint.ID = models.NewID()
	complaint.Timestamp = time.Now().UnixMilli()
	if err := a.store.AddComplaint(r.Context(), complaint); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, complaint)
}

func (a *App) handleUpdateComplaint(w http.ResponseWriter, r *http.Request) {
	var complaint models.ComplaintRecord
	if err := json.NewDecoder(r.Body).Decode(&complaint); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	complaint.ID = mux.Vars(r)["id"]
	if err := a.validate.Struct(complaint); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.store.UpdateComplaint(r.Context(), complaint); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, complaint)
}

func (a *App) handleListFeedbacks(w http.ResponseWriter, r *http.Request) {
	feedbacks, err := a.store.ListFeedbacks(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, feedbacks)
}

func (a *App) handleAddFeedback(w http.ResponseWriter, r *http.Request) {
	var feedback models.FeedbackRecord
	if err := json.NewDecoder(r.Body).Decode(&feedback); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := a.validate.Struct(feedback); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	feedback.ID = models.NewID()
	feedback.Timestamp = time.Now().UnixMilli()
	if err := a.store.AddFeedback(r.Context(), feedback); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, feedback)
}

func (a *App) handleGetLogo(w http.ResponseWriter, r *http.Request) {
	url, err := a.store.GetLogo(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, models.Settings{LogoURL: url})
}

func (a *App) handleSaveLogo(w http.ResponseWriter, r *http.Request) {
	var settings models.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := a.store.SaveLogo(r.Context(), settings.LogoURL); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

// handleStats computes KPI rows on demand from the current promoter
// roster and sales. Nothing is cached; the dashboard polls this.
func (a *App) handleStats(w http.ResponseWriter, r *http.Request) {
	promoters, err := a.store.ListPromoters(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	sales, err := a.store.ListSales(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, kpi.Compute(promoters, sales))
}
