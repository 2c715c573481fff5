package services

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nadiraputri/catering-app/models"
)

func uintPtr(v uint) *uint { return &v }

func sampleCart() Cart {
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	return Cart{
		UserID: 1,
		Customer: &CustomerDetails{
			FirstName: "Ibu Sari",
			Email:     "sari@example.com",
		},
		Lines: []CartLine{
			{MenuItemID: uintPtr(1), MenuName: "Nasi Ayam Bakar", UnitPrice: 15000, Quantity: 2, ChildID: uintPtr(1), ChildName: "Andi", ChildClass: "3A", DeliveryDate: date},
			{MenuItemID: uintPtr(2), MenuName: "Gado-Gado", UnitPrice: 20000, Quantity: 1, ChildID: uintPtr(2), ChildName: "Sinta", ChildClass: "1B", DeliveryDate: date},
		},
	}
}

func TestCheckoutHappyPath(t *testing.T) {
	db := setupTestDB(t)
	rec := newSnapRecorder(http.StatusOK, snapOKBody)
	defer rec.Close()

	cs := NewCheckoutService(db, NewTransactionService(db, rec.client()))

	order, charge, err := cs.Checkout(sampleCart())
	assert.NoError(t, err)
	assert.NotNil(t, order)
	assert.NotNil(t, charge)

	// 15000*2 + 20000*1
	assert.Equal(t, float64(50000), order.TotalAmount)
	assert.Equal(t, OrderStatusPending, order.Status)
	assert.Equal(t, PaymentStatusPending, order.PaymentStatus)
	assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD-"))

	assert.Equal(t, "tok-test-123", charge.SnapToken)
	assert.Equal(t, 1, rec.calls)

	// Token and gateway id are cached on the row.
	var stored models.Order
	assert.NoError(t, db.Preload("LineItems").First(&stored, order.ID).Error)
	assert.Equal(t, "tok-test-123", stored.SnapToken)
	assert.Equal(t, order.OrderNumber, stored.MidtransOrderID)
	assert.Len(t, stored.LineItems, 2)
	assert.Equal(t, float64(30000), stored.LineItems[0].TotalPrice)
	assert.Equal(t, "Andi", stored.LineItems[0].ChildName)

	// The gateway saw the real breakdown, not the summary fallback.
	items := rec.items()
	assert.Len(t, items, 2)
	assert.Equal(t, "Nasi Ayam Bakar", items[0]["name"])
}

func TestCheckoutEmptyCart(t *testing.T) {
	db := setupTestDB(t)
	rec := newSnapRecorder(http.StatusOK, snapOKBody)
	defer rec.Close()

	cs := NewCheckoutService(db, NewTransactionService(db, rec.client()))

	_, _, err := cs.Checkout(Cart{UserID: 1})
	assert.ErrorIs(t, err, ErrEmptyCart)

	var orderCount int64
	db.Model(&models.Order{}).Count(&orderCount)
	assert.Equal(t, int64(0), orderCount)
	assert.Equal(t, 0, rec.calls)
}

func TestCheckoutMissingChild(t *testing.T) {
	db := setupTestDB(t)
	rec := newSnapRecorder(http.StatusOK, snapOKBody)
	defer rec.Close()

	cs := NewCheckoutService(db, NewTransactionService(db, rec.client()))

	cart := sampleCart()
	cart.Lines[1].ChildName = ""

	_, _, err := cs.Checkout(cart)
	assert.ErrorIs(t, err, ErrMissingChild)

	var orderCount int64
	db.Model(&models.Order{}).Count(&orderCount)
	assert.Equal(t, int64(0), orderCount)
	assert.Equal(t, 0, rec.calls)
}

func TestCheckoutRollsBackOrderOnLineItemFailure(t *testing.T) {
	db := setupTestDB(t)
	rec := newSnapRecorder(http.StatusOK, snapOKBody)
	defer rec.Close()

	cs := NewCheckoutService(db, NewTransactionService(db, rec.client()))

	// Force the line item insert to fail after the order insert succeeds.
	if err := db.Migrator().DropTable(&models.OrderLineItem{}); err != nil {
		t.Fatalf("failed to drop line item table: %v", err)
	}

	_, _, err := cs.Checkout(sampleCart())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmptyCart)

	// The compensating delete removed the half-written order.
	var orderCount int64
	db.Model(&models.Order{}).Count(&orderCount)
	assert.Equal(t, int64(0), orderCount)
	assert.Equal(t, 0, rec.calls)
}

func TestCheckoutOrderSurvivesGatewayFailure(t *testing.T) {
	db := setupTestDB(t)
	rec := newSnapRecorder(http.StatusInternalServerError, `{"error_messages":["internal error"]}`)
	defer rec.Close()

	cs := NewCheckoutService(db, NewTransactionService(db, rec.client()))

	order, charge, err := cs.Checkout(sampleCart())
	assert.Error(t, err)
	assert.Nil(t, charge)
	assert.NotNil(t, order)

	txErr, ok := err.(*TransactionError)
	if !ok {
		t.Fatalf("expected *TransactionError, got %v", err)
	}
	assert.Equal(t, ErrTypeGateway, txErr.Type)

	// Order and line items persist; payment is recoverable via retry.
	var stored models.Order
	assert.NoError(t, db.Preload("LineItems").First(&stored, order.ID).Error)
	assert.Equal(t, PaymentStatusPending, stored.PaymentStatus)
	assert.Empty(t, stored.SnapToken)
	assert.Len(t, stored.LineItems, 2)
}

func TestGenerateOrderNumberShape(t *testing.T) {
	n := GenerateOrderNumber()
	assert.True(t, strings.HasPrefix(n, "ORD-"))
	parts := strings.Split(n, "-")
	assert.Len(t, parts, 3)
	assert.Len(t, parts[1], 14)
	assert.Len(t, parts[2], 4)

	b := GenerateBatchOrderID()
	assert.True(t, strings.HasPrefix(b, "BATCH-"))
}
