package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/kontor-app/kontor/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Company{}, &models.Layout{}, &models.Customer{},
		&models.Offer{}, &models.OfferItem{}, &models.Invoice{}, &models.InvoiceItem{},
		&models.EmailOutbox{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func seedCustomer(t *testing.T, conn *gorm.DB) models.Customer {
	t.Helper()
	c := models.Customer{Name: "Müller GmbH", Email: "buchhaltung@mueller.example", City: "Köln"}
	if err := conn.Create(&c).Error; err != nil {
		t.Fatalf("customer: %v", err)
	}
	return c
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func newOfferService(conn *gorm.DB) *OfferService {
	return NewOfferService(conn, NewSettingsService(conn))
}

func TestOfferCreateComputesTotals(t *testing.T) {
	conn := setupTestDB(t)
	customer := seedCustomer(t, conn)
	svc := newOfferService(conn)

	offer, violations, err := svc.Create(DocumentInput{
		CustomerID: customer.ID,
		IssueDate:  "2026-08-01",
		Items: []ItemInput{
			{Description: "Beratung", Quantity: dec("2"), UnitPrice: dec("50"), Unit: "hour", TaxRate: decPtr("0.19"), DiscountType: "percentage", DiscountValue: dec("10")},
			{Description: "Fahrtkosten", Quantity: dec("1"), UnitPrice: dec("30"), TaxRate: decPtr("0.07")},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !violations.Empty() {
		t.Fatalf("unexpected violations: %v", violations)
	}
	if offer.Number != "AN-2026-0001" {
		t.Fatalf("expected AN-2026-0001 got %s", offer.Number)
	}
	if offer.Status != models.OfferDraft {
		t.Fatalf("expected draft got %s", offer.Status)
	}
	// line 1: base 100, 10% discount -> 90; line 2: 30
	if !offer.Subtotal.Equal(dec("120")) {
		t.Fatalf("expected subtotal 120 got %s", offer.Subtotal)
	}
	if !offer.TotalDiscount.Equal(dec("10")) {
		t.Fatalf("expected discount 10 got %s", offer.TotalDiscount)
	}
	// per-line tax: 90*0.19 + 30*0.07 = 17.10 + 2.10
	if !offer.TaxAmount.Equal(dec("19.2")) {
		t.Fatalf("expected tax 19.2 got %s", offer.TaxAmount)
	}
	if !offer.Total.Equal(dec("139.2")) {
		t.Fatalf("expected total 139.2 got %s", offer.Total)
	}
	if len(offer.Items) != 2 || offer.Items[0].Position != 1 {
		t.Fatalf("unexpected items: %+v", offer.Items)
	}
	if offer.Items[1].Unit != "piece" {
		t.Fatalf("expected default unit piece got %s", offer.Items[1].Unit)
	}
}

func TestOfferCreateValidation(t *testing.T) {
	conn := setupTestDB(t)
	customer := seedCustomer(t, conn)
	svc := newOfferService(conn)

	_, violations, err := svc.Create(DocumentInput{
		CustomerID: customer.ID,
		Items: []ItemInput{
			{Description: "", Quantity: dec("0"), UnitPrice: dec("10"), Unit: "dozen", TaxRate: decPtr("0.2")},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if violations["items.0.description"] != "required" {
		t.Fatalf("expected items.0.description required, got %v", violations)
	}
	if violations["items.0.quantity"] != "must_be_positive" {
		t.Fatalf("expected items.0.quantity violation, got %v", violations)
	}
	if violations["items.0.unit"] != "invalid_unit" {
		t.Fatalf("expected items.0.unit violation, got %v", violations)
	}
	if violations["items.0.tax_rate"] != "invalid_tax_rate" {
		t.Fatalf("expected items.0.tax_rate violation, got %v", violations)
	}
}

func TestOfferCreateUnknownCustomer(t *testing.T) {
	conn := setupTestDB(t)
	svc := newOfferService(conn)
	_, violations, err := svc.Create(DocumentInput{
		CustomerID: 999,
		Items:      []ItemInput{{Description: "X", Quantity: dec("1"), UnitPrice: dec("1")}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if violations["customer_id"] != "customer_not_found" {
		t.Fatalf("expected customer_not_found, got %v", violations)
	}
}

func TestOfferUpdateRecomputesTotals(t *testing.T) {
	conn := setupTestDB(t)
	customer := seedCustomer(t, conn)
	svc := newOfferService(conn)

	offer, _, err := svc.Create(DocumentInput{
		CustomerID: customer.ID,
		Items:      []ItemInput{{Description: "Alt", Quantity: dec("1"), UnitPrice: dec("100"), TaxRate: decPtr("0.19")}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, violations, err := svc.Update(offer.ID, DocumentInput{
		CustomerID: customer.ID,
		Items: []ItemInput{
			{Description: "Neu", Quantity: dec("3"), UnitPrice: dec("40"), TaxRate: decPtr("0.19"), DiscountType: "fixed", DiscountValue: dec("20")},
		},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !violations.Empty() {
		t.Fatalf("unexpected violations: %v", violations)
	}
	// base 120, fixed 20 -> subtotal 100
	if !updated.Subtotal.Equal(dec("100")) {
		t.Fatalf("expected subtotal 100 got %s", updated.Subtotal)
	}
	if len(updated.Items) != 1 || updated.Items[0].Description != "Neu" {
		t.Fatalf("items not replaced: %+v", updated.Items)
	}
	// number must not change on update
	if updated.Number != offer.Number {
		t.Fatalf("number changed on update: %s -> %s", offer.Number, updated.Number)
	}
}

func TestOfferTransitions(t *testing.T) {
	conn := setupTestDB(t)
	customer := seedCustomer(t, conn)
	svc := newOfferService(conn)

	offer, _, err := svc.Create(DocumentInput{
		CustomerID: customer.ID,
		Items:      []ItemInput{{Description: "X", Quantity: dec("1"), UnitPrice: dec("10")}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// accept before send is illegal
	if _, err := svc.Transition(offer.ID, "accept"); err != ErrInvalidTransition {
		t.Fatalf("expected ErrInvalidTransition got %v", err)
	}
	sent, err := svc.Transition(offer.ID, "send")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if sent.Status != models.OfferSent {
		t.Fatalf("expected sent got %s", sent.Status)
	}
	// send queues the outbound mail
	var outboxCount int64
	conn.Model(&models.EmailOutbox{}).Where("document_type = ? AND document_id = ?", "offer", offer.ID).Count(&outboxCount)
	if outboxCount != 1 {
		t.Fatalf("expected 1 outbox row got %d", outboxCount)
	}
	accepted, err := svc.Transition(offer.ID, "accept")
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if accepted.Status != models.OfferAccepted {
		t.Fatalf("expected accepted got %s", accepted.Status)
	}
	// double accept is illegal
	if _, err := svc.Transition(offer.ID, "accept"); err != ErrInvalidTransition {
		t.Fatalf("expected ErrInvalidTransition got %v", err)
	}
}

func TestOfferConvertToInvoice(t *testing.T) {
	conn := setupTestDB(t)
	customer := seedCustomer(t, conn)
	svc := newOfferService(conn)

	offer, _, err := svc.Create(DocumentInput{
		CustomerID: customer.ID,
		Items:      []ItemInput{{Description: "Projekt", Quantity: dec("1"), UnitPrice: dec("1000"), TaxRate: decPtr("0.19")}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// conversion requires accepted
	if _, err := svc.ConvertToInvoice(offer.ID); err != ErrInvalidTransition {
		t.Fatalf("expected ErrInvalidTransition got %v", err)
	}
	if _, err := svc.Transition(offer.ID, "send"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := svc.Transition(offer.ID, "accept"); err != nil {
		t.Fatalf("accept: %v", err)
	}

	inv, err := svc.ConvertToInvoice(offer.ID)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !strings.HasPrefix(inv.Number, "RE-") {
		t.Fatalf("unexpected invoice number %s", inv.Number)
	}
	if !inv.Total.Equal(offer.Total) {
		t.Fatalf("invoice total %s != offer total %s", inv.Total, offer.Total)
	}
	if inv.OfferID != offer.ID {
		t.Fatalf("invoice not linked to offer")
	}

	var reloaded models.Offer
	if err := conn.First(&reloaded, offer.ID).Error; err != nil {
		t.Fatalf("reload offer: %v", err)
	}
	if reloaded.Status != models.OfferConverted || reloaded.ConvertedInvoiceID != inv.ID {
		t.Fatalf("offer not marked converted: %+v", reloaded)
	}
	// converted offers are frozen
	if _, _, err := svc.Update(offer.ID, DocumentInput{CustomerID: customer.ID, Items: []ItemInput{{Description: "X", Quantity: dec("1"), UnitPrice: dec("1")}}}); err != ErrInvalidTransition {
		t.Fatalf("expected ErrInvalidTransition got %v", err)
	}
}

func TestOfferNumberSequence(t *testing.T) {
	conn := setupTestDB(t)
	customer := seedCustomer(t, conn)
	svc := newOfferService(conn)

	for i := 1; i <= 3; i++ {
		offer, _, err := svc.Create(DocumentInput{
			CustomerID: customer.ID,
			IssueDate:  "2026-01-15",
			Items:      []ItemInput{{Description: "X", Quantity: dec("1"), UnitPrice: dec("1")}},
		})
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		want := fmt.Sprintf("AN-2026-%04d", i)
		if offer.Number != want {
			t.Fatalf("expected %s got %s", want, offer.Number)
		}
	}
}
