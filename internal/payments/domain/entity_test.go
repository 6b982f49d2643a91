package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNewPayment(t *testing.T) {
	now := time.Now()

	t.Run("starts pending with a generated number", func(t *testing.T) {
		p, err := NewPayment(1, MethodCheck, decimal.NewFromInt(100), now, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if p.Status != PaymentStatusPending {
			t.Errorf("status = %s, want %s", p.Status, PaymentStatusPending)
		}
		if !strings.HasPrefix(p.Number, "PAY-") {
			t.Errorf("number %q missing PAY- prefix", p.Number)
		}
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
			if _, err := NewPayment(1, MethodCash, amount, now, nil); err == nil {
				t.Errorf("amount %s should be rejected", amount)
			}
		}
	})

	t.Run("rejects unknown methods", func(t *testing.T) {
		if _, err := NewPayment(1, PaymentMethod("CRYPTO"), decimal.NewFromInt(10), now, nil); err == nil {
			t.Error("expected error for unknown method")
		}
	})

	t.Run("cash ceiling is inclusive", func(t *testing.T) {
		if _, err := NewPayment(1, MethodCash, decimal.NewFromInt(20000), now, nil); err != nil {
			t.Errorf("cash of exactly 20000 should be accepted, got %v", err)
		}
		if _, err := NewPayment(1, MethodCash, decimal.NewFromInt(20001), now, nil); err == nil {
			t.Error("cash of 20001 should be rejected")
		}
	})

	t.Run("ceiling does not apply to transfers", func(t *testing.T) {
		if _, err := NewPayment(1, MethodTransfer, decimal.NewFromInt(50000), now, nil); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})
}

func TestPaymentSettle(t *testing.T) {
	now := time.Now()
	p, _ := NewPayment(1, MethodCheck, decimal.NewFromInt(100), now, nil)

	if err := p.Settle(now); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if p.Status != PaymentStatusSettled || p.SettledAt == nil {
		t.Error("settle did not record status and date")
	}

	// Settling twice fails.
	if err := p.Settle(now); err == nil {
		t.Error("second settle should fail")
	}
}

func TestPaymentReject(t *testing.T) {
	now := time.Now()

	p, _ := NewPayment(1, MethodCheck, decimal.NewFromInt(100), now, nil)
	if err := p.Reject(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if p.Status != PaymentStatusRejected {
		t.Errorf("status = %s, want %s", p.Status, PaymentStatusRejected)
	}

	settled, _ := NewPayment(1, MethodCheck, decimal.NewFromInt(100), now, nil)
	settled.Settle(now)
	if err := settled.Reject(); err == nil {
		t.Error("rejecting a settled payment should fail")
	}
}

func TestPaymentReschedule(t *testing.T) {
	now := time.Now()
	due := now.AddDate(0, 0, 30)

	p, _ := NewPayment(1, MethodCheck, decimal.NewFromInt(100), now, &due)

	later := due.AddDate(0, 0, 15)
	if err := p.Reschedule(later); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if p.DueDate == nil || !p.DueDate.Equal(later) {
		t.Error("due date not moved")
	}

	p.Settle(now)
	if err := p.Reschedule(later); err == nil {
		t.Error("rescheduling a settled payment should fail")
	}
}

func TestPaymentOverdue(t *testing.T) {
	now := time.Now()
	past := now.AddDate(0, 0, -1)
	future := now.AddDate(0, 0, 1)

	overdue, _ := NewPayment(1, MethodCheck, decimal.NewFromInt(100), now, &past)
	if !overdue.Overdue(now) {
		t.Error("pending payment past due date should be overdue")
	}

	upcoming, _ := NewPayment(1, MethodCheck, decimal.NewFromInt(100), now, &future)
	if upcoming.Overdue(now) {
		t.Error("payment with future due date should not be overdue")
	}

	settled, _ := NewPayment(1, MethodCheck, decimal.NewFromInt(100), now, &past)
	settled.Settle(now)
	if settled.Overdue(now) {
		t.Error("settled payment is never overdue")
	}
}
