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

// OfferService owns the offer (Angebot) lifecycle: drafting, pricing via the
// shared calculation core, numbering, and status transitions.
type OfferService struct {
	DB       *gorm.DB
	Settings *SettingsService
}

func NewOfferService(db *gorm.DB, settings *SettingsService) *OfferService {
	return &OfferService{DB: db, Settings: settings}
}

var (
	ErrNotFound          = errors.New("not_found")
	ErrInvalidTransition = errors.New("invalid_transition")
)

// ListParams covers server-side pagination and filtering; sorting is fixed to
// newest first, matching the document list pages.
type ListParams struct {
	Limit      int
	Offset     int
	Status     string
	CustomerID uint
}

// Create validates and persists a new offer draft. All derived amounts come
// from the pricing core; client-supplied totals are ignored.
func (s *OfferService) Create(in DocumentInput) (*models.Offer, validation.Violations, error) {
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
	if in.LayoutID != 0 {
		var cnt int64
		if err := s.DB.Model(&models.Layout{}).Where("id = ?", in.LayoutID).Count(&cnt).Error; err != nil {
			return nil, nil, err
		}
		if cnt == 0 {
			return nil, validation.Violations{"layout_id": "layout_not_found"}, nil
		}
	}

	now := time.Now()
	issue := parseDate(in.IssueDate, now)
	offer := models.Offer{
		PublicID:        uuid.New(),
		Status:          models.OfferDraft,
		CustomerID:      in.CustomerID,
		LayoutID:        in.LayoutID,
		IssueDate:       issue,
		ValidUntil:      parseDate(in.ValidUntil, issue.AddDate(0, 1, 0)),
		Notes:           in.Notes,
		TermsConditions: in.TermsConditions,
		Currency:        settings.Currency,
		TaxMode:         settings.Tax.Mode,
		TaxRate:         settings.Tax.DefaultRate,
	}
	s.applyItems(&offer, in.Items)

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		number, err := nextNumber(tx, &models.Offer{}, "AN", issue.Year())
		if err != nil {
			return err
		}
		offer.Number = number
		return tx.Create(&offer).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return s.Get(offer.ID)
}

// Update replaces the draft's fields and items and re-derives all totals.
// Only offers that are still open for editing accept changes.
func (s *OfferService) Update(id uint, in DocumentInput) (*models.Offer, validation.Violations, error) {
	offer, _, err := s.Get(id)
	if err != nil {
		return nil, nil, err
	}
	if offer == nil {
		return nil, nil, ErrNotFound
	}
	if offer.Status != models.OfferDraft && offer.Status != models.OfferSent {
		return nil, nil, ErrInvalidTransition
	}
	if v := validateInput(in); !v.Empty() {
		return nil, v, nil
	}
	var customer models.Customer
	if err := s.DB.First(&customer, in.CustomerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validation.Violations{"customer_id": "customer_not_found"}, nil
		}
		return nil, nil, err
	}

	offer.CustomerID = in.CustomerID
	offer.LayoutID = in.LayoutID
	offer.IssueDate = parseDate(in.IssueDate, offer.IssueDate)
	offer.ValidUntil = parseDate(in.ValidUntil, offer.ValidUntil)
	offer.Notes = in.Notes
	offer.TermsConditions = in.TermsConditions
	s.applyItems(offer, in.Items)

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("offer_id = ?", offer.ID).Delete(&models.OfferItem{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Omit("Customer").Save(offer).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return s.Get(offer.ID)
}

// applyItems rebuilds the item rows and document totals from the input lines.
func (s *OfferService) applyItems(offer *models.Offer, items []ItemInput) {
	lines := computeLines(items, offer.TaxRate)
	rows := make([]models.OfferItem, 0, len(items))
	for i, it := range items {
		rows = append(rows, models.OfferItem{
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
	totals := documentTotals(lines, offer.TaxMode, offer.TaxRate)
	offer.Items = rows
	offer.Subtotal = totals.Subtotal
	offer.TotalDiscount = totals.TotalDiscount
	offer.TaxAmount = totals.TaxAmount
	offer.Total = totals.Total
}

// Get loads an offer with items and customer; nil when absent. The Violations
// return keeps the signature symmetric with Create/Update for the handlers.
func (s *OfferService) Get(id uint) (*models.Offer, validation.Violations, error) {
	var offer models.Offer
	err := s.DB.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Preload("Customer").First(&offer, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return &offer, nil, nil
}

// List returns a page of offers plus the unpaged total.
func (s *OfferService) List(p ListParams) ([]models.Offer, int64, error) {
	q := s.DB.Model(&models.Offer{})
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
	var offers []models.Offer
	err := q.Preload("Items").Preload("Customer").
		Order("id desc").Limit(p.Limit).Offset(p.Offset).Find(&offers).Error
	return offers, total, err
}

// legal offer status transitions, keyed by action
var offerTransitions = map[string]struct{ from, to string }{
	"send":   {models.OfferDraft, models.OfferSent},
	"accept": {models.OfferSent, models.OfferAccepted},
	"reject": {models.OfferSent, models.OfferRejected},
}

// Transition applies send/accept/reject. Sending also queues the outbound
// email for the dispatch worker.
func (s *OfferService) Transition(id uint, action string) (*models.Offer, error) {
	tr, ok := offerTransitions[action]
	if !ok {
		return nil, ErrInvalidTransition
	}
	offer, _, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if offer == nil {
		return nil, ErrNotFound
	}
	if offer.Status != tr.from {
		return nil, ErrInvalidTransition
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(offer).Update("status", tr.to).Error; err != nil {
			return err
		}
		if action == "send" {
			return queueDocumentMail(tx, "offer", offer.ID, offer.Customer.Email,
				fmt.Sprintf("Angebot %s über %s", offer.Number, format.Money(offer.Total, offer.Currency)))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	offer.Status = tr.to
	return offer, nil
}

// ConvertToInvoice turns an accepted offer into a new draft invoice, copying
// items and totals as computed. The offer is marked converted and linked.
func (s *OfferService) ConvertToInvoice(id uint) (*models.Invoice, error) {
	offer, _, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if offer == nil {
		return nil, ErrNotFound
	}
	if offer.Status != models.OfferAccepted {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	inv := models.Invoice{
		PublicID:        uuid.New(),
		Status:          models.InvoiceDraft,
		CustomerID:      offer.CustomerID,
		LayoutID:        offer.LayoutID,
		IssueDate:       now,
		DueDate:         now.AddDate(0, 0, 14),
		Notes:           offer.Notes,
		TermsConditions: offer.TermsConditions,
		Currency:        offer.Currency,
		TaxMode:         offer.TaxMode,
		TaxRate:         offer.TaxRate,
		Subtotal:        offer.Subtotal,
		TotalDiscount:   offer.TotalDiscount,
		TaxAmount:       offer.TaxAmount,
		Total:           offer.Total,
		OfferID:         offer.ID,
	}
	for _, it := range offer.Items {
		inv.Items = append(inv.Items, models.InvoiceItem{
			Position:       it.Position,
			Description:    it.Description,
			Quantity:       it.Quantity,
			UnitPrice:      it.UnitPrice,
			Unit:           it.Unit,
			TaxRate:        it.TaxRate,
			DiscountType:   it.DiscountType,
			DiscountValue:  it.DiscountValue,
			DiscountAmount: it.DiscountAmount,
			Total:          it.Total,
		})
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		number, err := nextNumber(tx, &models.Invoice{}, "RE", now.Year())
		if err != nil {
			return err
		}
		inv.Number = number
		if err := tx.Create(&inv).Error; err != nil {
			return err
		}
		return tx.Model(offer).Updates(map[string]any{
			"status":               models.OfferConverted,
			"converted_invoice_id": inv.ID,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// nextNumber assigns the next sequential document number for the given year,
// e.g. AN-2026-0003. Runs inside the caller's transaction.
func nextNumber(tx *gorm.DB, model any, prefix string, year int) (string, error) {
	var count int64
	pattern := fmt.Sprintf("%s-%d-%%", prefix, year)
	if err := tx.Model(model).Where("number LIKE ?", pattern).Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%d-%04d", prefix, year, count+1), nil
}

// queueDocumentMail enqueues an outbox row; delivery is someone else's job.
func queueDocumentMail(tx *gorm.DB, docType string, docID uint, recipient, subject string) error {
	row := models.EmailOutbox{
		DocumentType: docType,
		DocumentID:   docID,
		Recipient:    recipient,
		Subject:      subject,
		Status:       models.OutboxQueued,
		QueuedAt:     time.Now(),
	}
	return tx.Create(&row).Error
}
