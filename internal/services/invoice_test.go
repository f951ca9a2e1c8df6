package services

import (
	"testing"
	"time"

	"github.com/kontor-app/kontor/internal/models"
)

func createTestInvoice(t *testing.T, svc *InvoiceService, customerID uint) *models.Invoice {
	t.Helper()
	inv, violations, err := svc.Create(DocumentInput{
		CustomerID: customerID,
		IssueDate:  "2026-08-01",
		DueDate:    "2026-08-15",
		Items: []ItemInput{
			{Description: "Wartung", Quantity: dec("4"), UnitPrice: dec("80"), Unit: "hour", TaxRate: decPtr("0.19")},
		},
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	if !violations.Empty() {
		t.Fatalf("unexpected violations: %v", violations)
	}
	return inv
}

func TestInvoiceCreateDefaultsDueDate(t *testing.T) {
	conn := setupTestDB(t)
	customer := seedCustomer(t, conn)
	svc := NewInvoiceService(conn, NewSettingsService(conn))

	inv, violations, err := svc.Create(DocumentInput{
		CustomerID: customer.ID,
		IssueDate:  "2026-03-01",
		Items:      []ItemInput{{Description: "X", Quantity: dec("1"), UnitPrice: dec("100")}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !violations.Empty() {
		t.Fatalf("violations: %v", violations)
	}
	if inv.Number != "RE-2026-0001" {
		t.Fatalf("expected RE-2026-0001 got %s", inv.Number)
	}
	if got := inv.DueDate.Format("2006-01-02"); got != "2026-03-15" {
		t.Fatalf("expected due 2026-03-15 got %s", got)
	}
	// default rate applies to lines without one
	if !inv.TaxAmount.Equal(dec("19")) {
		t.Fatalf("expected tax 19 got %s", inv.TaxAmount)
	}
}

func TestInvoiceSendAndMarkPaid(t *testing.T) {
	conn := setupTestDB(t)
	customer := seedCustomer(t, conn)
	svc := NewInvoiceService(conn, NewSettingsService(conn))
	inv := createTestInvoice(t, svc, customer.ID)

	// paying a draft is illegal
	if _, err := svc.MarkPaid(inv.ID, time.Now()); err != ErrInvalidTransition {
		t.Fatalf("expected ErrInvalidTransition got %v", err)
	}
	sent, err := svc.Send(inv.ID)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if sent.Status != models.InvoiceSent {
		t.Fatalf("expected sent got %s", sent.Status)
	}
	if _, err := svc.Send(inv.ID); err != ErrInvalidTransition {
		t.Fatalf("expected ErrInvalidTransition on double send, got %v", err)
	}

	paidAt := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	paid, err := svc.MarkPaid(inv.ID, paidAt)
	if err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if paid.Status != models.InvoicePaid || paid.PaidAt == nil {
		t.Fatalf("not paid: %+v", paid)
	}
}

func TestInvoiceRemindCadence(t *testing.T) {
	conn := setupTestDB(t)
	customer := seedCustomer(t, conn)
	svc := NewInvoiceService(conn, NewSettingsService(conn))
	inv := createTestInvoice(t, svc, customer.ID)

	if _, err := svc.Send(inv.ID); err != nil {
		t.Fatalf("send: %v", err)
	}

	due := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	// stage 1 fires 7 days after due
	if _, err := svc.Remind(inv.ID, due.AddDate(0, 0, 6)); err != ErrReminderTooEarly {
		t.Fatalf("expected ErrReminderTooEarly got %v", err)
	}
	first, err := svc.Remind(inv.ID, due.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("remind 1: %v", err)
	}
	if first.Status != models.InvoiceOverdue || first.ReminderLevel != 1 {
		t.Fatalf("after remind 1: %+v", first)
	}

	// stage 2 fires 14 days after due
	if _, err := svc.Remind(inv.ID, due.AddDate(0, 0, 10)); err != ErrReminderTooEarly {
		t.Fatalf("expected ErrReminderTooEarly for level 2, got %v", err)
	}
	if _, err := svc.Remind(inv.ID, due.AddDate(0, 0, 14)); err != nil {
		t.Fatalf("remind 2: %v", err)
	}
	third, err := svc.Remind(inv.ID, due.AddDate(0, 0, 21))
	if err != nil {
		t.Fatalf("remind 3: %v", err)
	}
	if third.ReminderLevel != models.MaxReminderLevel {
		t.Fatalf("expected level %d got %d", models.MaxReminderLevel, third.ReminderLevel)
	}
	// level 3 is the end of the road
	if _, err := svc.Remind(inv.ID, due.AddDate(0, 0, 60)); err != ErrReminderLevelMax {
		t.Fatalf("expected ErrReminderLevelMax got %v", err)
	}

	var outboxCount int64
	conn.Model(&models.EmailOutbox{}).Where("document_type = ?", "reminder").Count(&outboxCount)
	if outboxCount != 3 {
		t.Fatalf("expected 3 reminder mails got %d", outboxCount)
	}
}

func TestInvoiceRemindRequiresSent(t *testing.T) {
	conn := setupTestDB(t)
	customer := seedCustomer(t, conn)
	svc := NewInvoiceService(conn, NewSettingsService(conn))
	inv := createTestInvoice(t, svc, customer.ID)

	if _, err := svc.Remind(inv.ID, time.Now().AddDate(1, 0, 0)); err != ErrInvalidTransition {
		t.Fatalf("expected ErrInvalidTransition got %v", err)
	}
}
