// Package kpi computes per-promoter performance stats from sales data.
package kpi

import "github.com/promopulse/promopulse/pkg/models"

// Compute aggregates verified sales into one [models.KPIStats] row per
// promoter, in promoter order. Pending and rejected sales contribute
// nothing; promoters without verified sales still get a zero row so
// dashboards show the full roster. Revenue is carried as a field but
// not derived from ticket counts yet, there is no price list to derive
// it from.
func Compute(promoters []models.Promoter, sales []models.SaleRecord) []models.KPIStats {
	verifiedByPromoter := make(map[string][]models.SaleRecord)
	for _, s := range sales {
		if s.Status != models.SaleVerified {
			continue
		}
		verifiedByPromoter[s.PromoterID] = append(verifiedByPromoter[s.PromoterID], s)
	}

	stats := make([]models.KPIStats, 0, len(promoters))
	for _, p := range promoters {
		row := models.KPIStats{PromoterID: p.ID}
		for _, s := range verifiedByPromoter[p.ID] {
			row.TotalKiddo += s.Items[models.TicketKiddo]
			row.TotalExtreme += s.Items[models.TicketExtreme]
			row.TotalIndividual += s.Items[models.TicketIndividual]
			row.TotalEntry += s.Items[models.TicketEntryOnly]
			row.TotalSalesLeads++
			if hasUsableEmail(s.Customer.Email) {
				row.TotalMailCollect++
			}
		}
		stats = append(stats, row)
	}
	return stats
}

// hasUsableEmail applies the dashboard's loose heuristic: anything
// longer than three characters counts as a collected address.
func hasUsableEmail(email string) bool {
	return len(email) > 3
}
