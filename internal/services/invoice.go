package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/kontor-app/kontor/internal/format"
	"github.com/kontor-app/kontor/internal/models"
	"github.com/kontor-app/kontor/internal/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvoiceService owns invoices created directly or by converting offers, plus
// the Mahnung escalation.
type InvoiceService struct {
	DB       *gorm.DB
	Settings *SettingsService
}

func NewInvoiceService(db *gorm.DB, settings *SettingsService) *InvoiceService {
	return &InvoiceService{DB: db, Settings: settings}
}

var (
	ErrReminderTooEarly = errors.New("reminder_too_early")
	ErrReminderLevelMax = errors.New("reminder_level_max")
)

// Create validates and persists a new invoice draft.
func (s *InvoiceService) Create(in DocumentInput) (*models.Invoice, validation.Violations, error) {
	if v := validateInput(in); !v.Empty() {
		return nil, v, nil
	}
	settings, err := s.Settings.Effective()
	if err != nil {
		return nil, nil, err
	}
	var customer models.Customer
	if err := s.DB.First(&customer, in.CustomerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validation.Violations{"customer_id": "customer_not_found"}, nil
		}
		return nil, nil, err
	}

	now := time.Now()
	issue := parseDate(in.IssueDate, now)
	inv := models.Invoice{
		PublicID:        uuid.New(),
		Status:          models.InvoiceDraft,
		CustomerID:      in.CustomerID,
		LayoutID:        in.LayoutID,
		IssueDate:       issue,
		DueDate:         parseDate(in.DueDate, issue.AddDate(0, 0, 14)),
		Notes:           in.Notes,
		TermsConditions: in.TermsConditions,
		Currency:        settings.Currency,
		TaxMode:         settings.Tax.Mode,
		TaxRate:         settings.Tax.DefaultRate,
	}
	s.applyItems(&inv, in.Items)

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		number, err := nextNumber(tx, &models.Invoice{}, "RE", issue.Year())
		if err != nil {
			return err
		}
		inv.Number = number
		return tx.Create(&inv).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return s.Get(inv.ID)
}

func (s *InvoiceService) applyItems(inv *models.Invoice, items []ItemInput) {
	lines := computeLines(items, inv.TaxRate)
	rows := make([]models.InvoiceItem, 0, len(items))
	for i, it := range items {
		rows = append(rows, models.InvoiceItem{
			Position:       i + 1,
			Description:    it.Description,
			Quantity:       it.Quantity,
			UnitPrice:      it.UnitPrice,
			Unit:           unitOrDefault(it.Unit),
			TaxRate:        lines[i].TaxRate,
			DiscountType:   it.DiscountType,
			DiscountValue:  it.DiscountValue,
			DiscountAmount: lines[i].DiscountAmount,
			Total:          lines[i].Total,
		})
	}
	totals := documentTotals(lines, inv.TaxMode, inv.TaxRate)
	inv.Items = rows
	inv.Subtotal = totals.Subtotal
	inv.TotalDiscount = totals.TotalDiscount
	inv.TaxAmount = totals.TaxAmount
	inv.Total = totals.Total
}

// Get loads an invoice with items and customer; nil when absent.
func (s *InvoiceService) Get(id uint) (*models.Invoice, validation.Violations, error) {
	var inv models.Invoice
	err := s.DB.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Preload("Customer").First(&inv, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return &inv, nil, nil
}

// List returns a page of invoices plus the unpaged total.
func (s *InvoiceService) List(p ListParams) ([]models.Invoice, int64, error) {
	q := s.DB.Model(&models.Invoice{})
	if p.Status != "" {
		q = q.Where("status = ?", p.Status)
	}
	if p.CustomerID != 0 {
		q = q.Where("customer_id = ?", p.CustomerID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var invs []models.Invoice
	err := q.Preload("Items").Preload("Customer").
		Order("id desc").Limit(p.Limit).Offset(p.Offset).Find(&invs).Error
	return invs, total, err
}

// Send marks a draft invoice sent and queues the outbound mail.
func (s *InvoiceService) Send(id uint) (*models.Invoice, error) {
	inv, _, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrNotFound
	}
	if inv.Status != models.InvoiceDraft {
		return nil, ErrInvalidTransition
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(inv).Update("status", models.InvoiceSent).Error; err != nil {
			return err
		}
		return queueDocumentMail(tx, "invoice", inv.ID, inv.Customer.Email,
			fmt.Sprintf("Rechnung %s über %s", inv.Number, format.Money(inv.Total, inv.Currency)))
	})
	if err != nil {
		return nil, err
	}
	inv.Status = models.InvoiceSent
	return inv, nil
}

// MarkPaid settles an open invoice.
func (s *InvoiceService) MarkPaid(id uint, paidAt time.Time) (*models.Invoice, error) {
	inv, _, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrNotFound
	}
	if inv.Status != models.InvoiceSent && inv.Status != models.InvoiceOverdue {
		return nil, ErrInvalidTransition
	}
	if err := s.DB.Model(inv).Updates(map[string]any{"status": models.InvoicePaid, "paid_at": paidAt}).Error; err != nil {
		return nil, err
	}
	inv.Status = models.InvoicePaid
	inv.PaidAt = &paidAt
	return inv, nil
}

// Remind advances the Mahnung level by one stage. The stage only fires once
// its configured days-after-due have elapsed; level 3 is the end of the road.
// Advancing also flips the invoice to overdue and queues the reminder mail.
func (s *InvoiceService) Remind(id uint, now time.Time) (*models.Invoice, error) {
	inv, _, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrNotFound
	}
	if inv.Status != models.InvoiceSent && inv.Status != models.InvoiceOverdue {
		return nil, ErrInvalidTransition
	}
	if inv.ReminderLevel >= models.MaxReminderLevel {
		return nil, ErrReminderLevelMax
	}
	settings, err := s.Settings.Effective()
	if err != nil {
		return nil, err
	}
	nextLevel := inv.ReminderLevel + 1
	stage := stageFor(settings.Reminders, nextLevel)
	if now.Before(inv.DueDate.AddDate(0, 0, stage.DaysAfterDue)) {
		return nil, ErrReminderTooEarly
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(inv).Updates(map[string]any{
			"status":           models.InvoiceOverdue,
			"reminder_level":   nextLevel,
			"last_reminder_at": now,
		}).Error; err != nil {
			return err
		}
		return queueDocumentMail(tx, "reminder", inv.ID, inv.Customer.Email,
			fmt.Sprintf("%d. Mahnung zu Rechnung %s", nextLevel, inv.Number))
	})
	if err != nil {
		return nil, err
	}
	inv.Status = models.InvoiceOverdue
	inv.ReminderLevel = nextLevel
	inv.LastReminderAt = &now
	return inv, nil
}

// stageFor picks the configured stage for a level, falling back to the
// defaults when the settings blob has no matching entry.
func stageFor(rs models.ReminderSettings, level int) models.ReminderStage {
	for _, st := range rs.Stages {
		if st.Level == level {
			return st
		}
	}
	for _, st := range models.DefaultSettings().Reminders.Stages {
		if st.Level == level {
			return st
		}
	}
	return models.ReminderStage{Level: level, DaysAfterDue: 7 * level}
}
