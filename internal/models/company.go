package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Company is the single tenant of the application. Structured master data
// lives in columns; the UI-facing configuration blob is stored as JSON and
// passed through to clients verbatim.
type Company struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Name       string `gorm:"not null" json:"name"`
	OwnerName  string `json:"owner_name"`
	Street     string `json:"street"`
	PostalCode string `json:"postal_code"`
	City       string `json:"city"`
	Country    string `gorm:"default:'DE'" json:"country"`

	Email string `json:"email"`
	Phone string `json:"phone"`
	Web   string `json:"web"`

	// Steuernummer und USt-IdNr.
	TaxNumber string `json:"tax_number"`
	VATID     string `json:"vat_id"`
	IBAN      string `json:"iban"`
	BIC       string `json:"bic"`
	LogoURL   string `json:"logo_url"`

	Settings datatypes.JSONType[Settings] `json:"settings"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Settings is the tenant-wide configuration blob. The server applies only the
// tax block (default rate/mode feed the pricing of new documents); everything
// else is stored and returned for the client forms to consume.
type Settings struct {
	Currency string      `json:"currency"`
	Tax      TaxSettings `json:"tax"`

	Email     EmailSettings    `json:"email"`
	EInvoice  EInvoiceSettings `json:"einvoice"`
	Reminders ReminderSettings `json:"reminders"`

	DefaultLayoutID uint `json:"default_layout_id"`
}

type TaxSettings struct {
	DefaultRate decimal.Decimal `json:"default_rate"`
	Mode        string          `json:"mode"` // flat | per_line
}

// EmailSettings configures outgoing dispatch. Delivery happens outside this
// service; rows are only queued (see EmailOutbox).
type EmailSettings struct {
	SMTPHost    string `json:"smtp_host"`
	SMTPPort    int    `json:"smtp_port"`
	SMTPUser    string `json:"smtp_user"`
	FromAddress string `json:"from_address"`
	FromName    string `json:"from_name"`
	UseTLS      bool   `json:"use_tls"`
}

// EInvoiceSettings covers the German structured e-invoice formats.
type EInvoiceSettings struct {
	Enabled   bool   `json:"enabled"`
	Format    string `json:"format"` // xrechnung | zugferd
	LeitwegID string `json:"leitweg_id"`
}

// ReminderSettings drives the Mahnung escalation cadence.
type ReminderSettings struct {
	Stages []ReminderStage `json:"stages"`
}

type ReminderStage struct {
	Level        int             `json:"level"` // 1..3
	DaysAfterDue int             `json:"days_after_due"`
	Fee          decimal.Decimal `json:"fee"`
}

// DefaultSettings are applied when a company is first configured.
func DefaultSettings() Settings {
	return Settings{
		Currency: "EUR",
		Tax:      TaxSettings{DefaultRate: decimal.RequireFromString("0.19"), Mode: TaxPerLine},
		Reminders: ReminderSettings{Stages: []ReminderStage{
			{Level: 1, DaysAfterDue: 7, Fee: decimal.Zero},
			{Level: 2, DaysAfterDue: 14, Fee: decimal.RequireFromString("5.00")},
			{Level: 3, DaysAfterDue: 21, Fee: decimal.RequireFromString("10.00")},
		}},
	}
}
