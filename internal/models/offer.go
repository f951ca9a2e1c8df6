package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Offer (Angebot) lifecycle states.
const (
	OfferDraft     = "draft"
	OfferSent      = "sent"
	OfferAccepted  = "accepted"
	OfferRejected  = "rejected"
	OfferConverted = "converted"
)

// Tax modes: one document-level rate vs. a rate per line.
const (
	TaxFlat    = "flat"
	TaxPerLine = "per_line"
)

type Offer struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	PublicID uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"public_id"`
	// AN-YYYY-NNNN, assigned sequentially per year
	Number     string    `gorm:"uniqueIndex" json:"number"`
	Status     string    `gorm:"not null;index" json:"status"`
	CustomerID uint      `gorm:"not null;index" json:"customer_id"`
	Customer   Customer  `gorm:"foreignKey:CustomerID" json:"customer"`
	LayoutID   uint      `json:"layout_id"`
	IssueDate  time.Time `json:"issue_date"`
	ValidUntil time.Time `json:"valid_until"`

	Notes           string `json:"notes"`
	TermsConditions string `json:"terms_conditions"`
	Currency        string `gorm:"not null;default:'EUR'" json:"currency"`

	TaxMode string          `gorm:"not null;default:'per_line'" json:"tax_mode"`
	TaxRate decimal.Decimal `gorm:"type:decimal(6,4)" json:"tax_rate"` // document rate in flat mode

	// Derived from items on every write, never set directly.
	Subtotal      decimal.Decimal `gorm:"type:decimal(14,2)" json:"subtotal"`
	TotalDiscount decimal.Decimal `gorm:"type:decimal(14,2)" json:"total_discount"`
	TaxAmount     decimal.Decimal `gorm:"type:decimal(14,2)" json:"tax_amount"`
	Total         decimal.Decimal `gorm:"type:decimal(14,2)" json:"total"`

	Items []OfferItem `gorm:"foreignKey:OfferID;constraint:OnDelete:CASCADE" json:"items"`

	ConvertedInvoiceID uint      `json:"converted_invoice_id,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type OfferItem struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	OfferID  uint `gorm:"not null;index" json:"-"`
	Position int  `gorm:"not null" json:"position"`

	Description string          `gorm:"not null" json:"description"`
	Quantity    decimal.Decimal `gorm:"type:decimal(12,3)" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(14,2)" json:"unit_price"`
	Unit        string          `gorm:"not null;default:'piece'" json:"unit"`
	TaxRate     decimal.Decimal `gorm:"type:decimal(6,4)" json:"tax_rate"`

	DiscountType  string          `json:"discount_type,omitempty"`
	DiscountValue decimal.Decimal `gorm:"type:decimal(14,2)" json:"discount_value"`

	// Derived, not user-set.
	DiscountAmount decimal.Decimal `gorm:"type:decimal(14,2)" json:"discount_amount"`
	Total          decimal.Decimal `gorm:"type:decimal(14,2)" json:"total"`
}
