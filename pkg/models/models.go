// Package models defines the domain entities shared by every storage
// backend and by the KPI aggregation logic.
//
// All entities are flat, JSON-serializable records. Cross-entity
// references (SaleRecord.PromoterID, Promoter.AssignedFloors) are
// advisory: no backend enforces referential integrity, and denormalized
// snapshots such as SaleRecord.PromoterName deliberately do not track
// later renames.
package models

// TicketType identifies one of the sellable ticket categories tracked
// per sale. The wire values match the labels used on the entry forms.
type TicketType string

const (
	TicketKiddo      TicketType = "Kiddo"
	TicketExtreme    TicketType = "Extreme"
	TicketIndividual TicketType = "Individual"
	TicketEntryOnly  TicketType = "Entry Only"
)

// TicketTypes lists every ticket category in display order.
var TicketTypes = []TicketType{TicketKiddo, TicketExtreme, TicketIndividual, TicketEntryOnly}

// SaleStatus is the verification state of a sale record.
//
// The only transitions ever performed are Pending to Verified and
// Pending to Rejected; both Verified and Rejected are terminal.
type SaleStatus string

const (
	SalePending  SaleStatus = "Pending"
	SaleVerified SaleStatus = "Verified"
	SaleRejected SaleStatus = "Rejected"
)

// Terminal reports whether the status can no longer change.
func (s SaleStatus) Terminal() bool {
	return s == SaleVerified || s == SaleRejected
}

// Valid reports whether s is one of the known statuses.
func (s SaleStatus) Valid() bool {
	return s == SalePending || s == SaleVerified || s == SaleRejected
}

// Customer holds the contact details captured at sale entry time.
// All fields are required when a sale is submitted; enforcement lives
// at the API boundary, not in the storage layer.
type Customer struct {
	Name     string `json:"name" validate:"required"`
	Mobile   string `json:"mobile" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Location string `json:"location" validate:"required"`
	Age      int    `json:"age" validate:"gte=1"`
}

// SaleRecord is one ticket sale logged by a promoter.
//
// The ID is assigned at creation and never reassigned. PromoterName is
// a snapshot taken at creation. Items maps ticket types to counts; an
// absent key means zero. TotalAmount is a placeholder the server zeroes
// at creation; no price list exists to derive it from.
type SaleRecord struct {
	ID           string             `json:"id,omitempty"`
	PromoterID   string             `json:"promoterId" validate:"required"`
	PromoterName string             `json:"promoterName"`
	UniqueCode   string             `json:"uniqueCode,omitempty"`
	Customer     Customer           `json:"customer"`
	Items        map[TicketType]int `json:"items"`
	TotalAmount  float64            `json:"totalAmount"`
	Status       SaleStatus         `json:"status"`
	Timestamp    int64              `json:"timestamp"`
}

// Promoter is an on-site seller. AssignedFloors holds floor names, not
// floor ids, so renaming a floor does not cascade.
type Promoter struct {
	ID             string   `json:"id,omitempty"`
	Name           string   `json:"name" validate:"required"`
	AssignedFloors []string `json:"assignedFloors"`
}

// Floor is a named location promoters can be assigned to. Name
// uniqueness is a convention, not an enforced constraint.
type Floor struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name" validate:"required"`
}

// FeedbackRecord is a write-once customer feedback entry.
type FeedbackRecord struct {
	ID           string   `json:"id,omitempty"`
	PromoterID   string   `json:"promoterId" validate:"required"`
	PromoterName string   `json:"promoterName"`
	Customer     Customer `json:"customer"`
	Rating       int      `json:"rating" validate:"gte=1,lte=5"`
	Comment      string   `json:"comment,omitempty"`
	Timestamp    int64    `json:"timestamp"`
}

// Details is a free-form key-value bag for records whose shape is not
// pinned down, such as complaint specifics.
type Details map[string]any

// ComplaintRecord is a customer complaint. Updates replace the whole
// record in place.
type ComplaintRecord struct {
	ID           string  `json:"id,omitempty"`
	PromoterID   string  `json:"promoterId,omitempty"`
	PromoterName string  `json:"promoterName,omitempty"`
	Description  string  `json:"description" validate:"required"`
	Details      Details `json:"details,omitempty"`
	Timestamp    int64   `json:"timestamp"`
}

// SettingsID is the fixed document id of the settings singleton.
const SettingsID = "global"

// Settings is the singleton application settings record. Saving it is
// always an upsert-with-merge.
type Settings struct {
	LogoURL string `json:"logoUrl"`
}

// KPIStats is the per-promoter aggregation result. A promoter with no
// verified sales still gets a row with every counter at zero.
type KPIStats struct {
	PromoterID       string  `json:"promoterId"`
	TotalKiddo       int     `json:"totalKiddo"`
	TotalExtreme     int     `json:"totalExtreme"`
	TotalIndividual  int     `json:"totalIndividual"`
	TotalEntry       int     `json:"totalEntry"`
	TotalSalesLeads  int     `json:"totalSalesLeads"`
	TotalMailCollect int     `json:"totalMailCollect"`
	Revenue          float64 `json:"revenue"`
}
