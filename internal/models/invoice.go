package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice (Rechnung) lifecycle states.
const (
	InvoiceDraft   = "draft"
	InvoiceSent    = "sent"
	InvoicePaid    = "paid"
	InvoiceOverdue = "overdue"
)

// Mahnung escalation caps at the third formal reminder; beyond that the case
// goes to collections outside this system.
const MaxReminderLevel = 3

type Invoice struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	PublicID uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"public_id"`
	// RE-YYYY-NNNN, assigned sequentially per year
	Number     string    `gorm:"uniqueIndex" json:"number"`
	Status     string    `gorm:"not null;index" json:"status"`
	CustomerID uint      `gorm:"not null;index" json:"customer_id"`
	Customer   Customer  `gorm:"foreignKey:CustomerID" json:"customer"`
	LayoutID   uint      `json:"layout_id"`
	IssueDate  time.Time `json:"issue_date"`
	DueDate    time.Time `json:"due_date"`

	Notes           string `json:"notes"`
	TermsConditions string `json:"terms_conditions"`
	Currency        string `gorm:"not null;default:'EUR'" json:"currency"`

	TaxMode string          `gorm:"not null;default:'per_line'" json:"tax_mode"`
	TaxRate decimal.Decimal `gorm:"type:decimal(6,4)" json:"tax_rate"`

	Subtotal      decimal.Decimal `gorm:"type:decimal(14,2)" json:"subtotal"`
	TotalDiscount decimal.Decimal `gorm:"type:decimal(14,2)" json:"total_discount"`
	TaxAmount     decimal.Decimal `gorm:"type:decimal(14,2)" json:"tax_amount"`
	Total         decimal.Decimal `gorm:"type:decimal(14,2)" json:"total"`

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items"`

	// Source offer when created via convert-to-invoice.
	OfferID uint `gorm:"index" json:"offer_id,omitempty"`

	ReminderLevel  int        `gorm:"not null;default:0" json:"reminder_level"`
	LastReminderAt *time.Time `json:"last_reminder_at,omitempty"`
	PaidAt         *time.Time `json:"paid_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Editable reports whether the invoice may still be modified.
func (i *Invoice) Editable() bool { return i.Status == InvoiceDraft }

type InvoiceItem struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	InvoiceID uint `gorm:"not null;index" json:"-"`
	Position  int  `gorm:"not null" json:"position"`

	Description string          `gorm:"not null" json:"description"`
	Quantity    decimal.Decimal `gorm:"type:decimal(12,3)" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(14,2)" json:"unit_price"`
	Unit        string          `gorm:"not null;default:'piece'" json:"unit"`
	TaxRate     decimal.Decimal `gorm:"type:decimal(6,4)" json:"tax_rate"`

	DiscountType  string          `json:"discount_type,omitempty"`
	DiscountValue decimal.Decimal `gorm:"type:decimal(14,2)" json:"discount_value"`

	DiscountAmount decimal.Decimal `gorm:"type:decimal(14,2)" json:"discount_amount"`
	Total          decimal.Decimal `gorm:"type:decimal(14,2)" json:"total"`
}
