package services

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/nadiraputri/catering-app/models"
)

// seedPendingOrder writes an order with one line item and a known total.
func seedPendingOrder(t *testing.T, db *gorm.DB, userID uint, number string, amount float64, childName string) models.Order {
	t.Helper()
	order := models.Order{
		OrderNumber:   number,
		UserID:        userID,
		TotalAmount:   amount,
		Status:        OrderStatusPending,
		PaymentStatus: PaymentStatusPending,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("failed to seed order %s: %v", number, err)
	}
	line := models.OrderLineItem{
		OrderID:      order.ID,
		MenuName:     fmt.Sprintf("Menu for %s", childName),
		ChildName:    childName,
		ChildClass:   "2A",
		Quantity:     1,
		UnitPrice:    amount,
		TotalPrice:   amount,
		DeliveryDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		OrderDate:    time.Now(),
	}
	if err := db.Create(&line).Error; err != nil {
		t.Fatalf("failed to seed line item for %s: %v", number, err)
	}
	return order
}

func TestPayOrdersSingleGatewayCall(t *testing.T) {
	db := setupTestDB(t)
	rec := newSnapRecorder(http.StatusOK, snapOKBody)
	defer rec.Close()

	bs := NewBatchService(db, NewTransactionService(db, rec.client()))

	a := seedPendingOrder(t, db, 1, "ORD-A", 10000, "Andi")
	b := seedPendingOrder(t, db, 1, "ORD-B", 20000, "Budi")
	c := seedPendingOrder(t, db, 1, "ORD-C", 30000, "Citra")

	result, err := bs.PayOrders(1, []uint{a.ID, b.ID, c.ID})
	assert.NoError(t, err)

	// One transaction for the combined amount, not three.
	assert.Equal(t, 1, rec.calls)
	assert.Equal(t, float64(60000), result.TotalAmount)
	assert.Equal(t, "tok-test-123", result.SnapToken)
	assert.True(t, strings.HasPrefix(result.BatchOrderID, "BATCH-"))
	assert.Equal(t, []string{"ORD-A", "ORD-B", "ORD-C"}, result.OrderNumbers)

	txDetails := rec.lastPayload["transaction_details"].(map[string]interface{})
	assert.Equal(t, result.BatchOrderID, txDetails["order_id"])
	assert.Equal(t, float64(60000), txDetails["gross_amount"])

	// Every order carries the same token and batch id afterwards.
	for _, id := range []uint{a.ID, b.ID, c.ID} {
		var stored models.Order
		assert.NoError(t, db.First(&stored, id).Error)
		assert.Equal(t, "tok-test-123", stored.SnapToken)
		assert.Equal(t, result.BatchOrderID, stored.MidtransOrderID)
		assert.Equal(t, PaymentMethodGateway, stored.PaymentMethod)
	}

	// Batch membership rows exist for later settlement fan-out.
	var batchRows int64
	db.Model(&models.BatchOrder{}).Where("batch_order_id = ?", result.BatchOrderID).Count(&batchRows)
	assert.Equal(t, int64(3), batchRows)
}

func TestPayOrdersItemNamesCarryChild(t *testing.T) {
	db := setupTestDB(t)
	rec := newSnapRecorder(http.StatusOK, snapOKBody)
	defer rec.Close()

	bs := NewBatchService(db, NewTransactionService(db, rec.client()))

	a := seedPendingOrder(t, db, 1, "ORD-A", 10000, "Andi")
	b := seedPendingOrder(t, db, 1, "ORD-B", 20000, "Budi")

	_, err := bs.PayOrders(1, []uint{a.ID, b.ID})
	assert.NoError(t, err)

	items := rec.items()
	assert.Len(t, items, 2)
	assert.Equal(t, "Menu for Andi - Andi", items[0]["name"])
	assert.Equal(t, "Menu for Budi - Budi", items[1]["name"])
	assert.True(t, strings.HasPrefix(items[0]["id"].(string), "ORD-A-"))
	assert.True(t, strings.HasPrefix(items[1]["id"].(string), "ORD-B-"))
}

func TestPayOrdersFiltersPaidAndForeignOrders(t *testing.T) {
	db := setupTestDB(t)
	rec := newSnapRecorder(http.StatusOK, snapOKBody)
	defer rec.Close()

	bs := NewBatchService(db, NewTransactionService(db, rec.client()))

	a := seedPendingOrder(t, db, 1, "ORD-A", 10000, "Andi")
	paid := seedPendingOrder(t, db, 1, "ORD-PAID", 20000, "Budi")
	db.Model(&models.Order{}).Where("id = ?", paid.ID).
		Update("payment_status", PaymentStatusPaid)
	other := seedPendingOrder(t, db, 2, "ORD-OTHER", 30000, "Citra")

	result, err := bs.PayOrders(1, []uint{a.ID, paid.ID, other.ID})
	assert.NoError(t, err)

	assert.Equal(t, float64(10000), result.TotalAmount)
	assert.Equal(t, []string{"ORD-A"}, result.OrderNumbers)

	// The excluded orders are untouched.
	var storedPaid, storedOther models.Order
	db.First(&storedPaid, paid.ID)
	db.First(&storedOther, other.ID)
	assert.Empty(t, storedPaid.SnapToken)
	assert.Empty(t, storedOther.SnapToken)
}

func TestPayOrdersNothingToPay(t *testing.T) {
	db := setupTestDB(t)
	rec := newSnapRecorder(http.StatusOK, snapOKBody)
	defer rec.Close()

	bs := NewBatchService(db, NewTransactionService(db, rec.client()))

	paid := seedPendingOrder(t, db, 1, "ORD-PAID", 20000, "Budi")
	db.Model(&models.Order{}).Where("id = ?", paid.ID).
		Update("payment_status", PaymentStatusPaid)

	_, err := bs.PayOrders(1, []uint{paid.ID})
	assert.ErrorIs(t, err, ErrNothingToPay)
	assert.Equal(t, 0, rec.calls)
}

func TestPayOrdersFanOutSurvivesVanishedOrder(t *testing.T) {
	db := setupTestDB(t)
	rec := newSnapRecorder(http.StatusOK, snapOKBody)
	defer rec.Close()

	bs := NewBatchService(db, NewTransactionService(db, rec.client()))

	a := seedPendingOrder(t, db, 1, "ORD-A", 10000, "Andi")
	b := seedPendingOrder(t, db, 1, "ORD-B", 20000, "Budi")
	c := seedPendingOrder(t, db, 1, "ORD-C", 30000, "Citra")

	// Order B vanishes after the snapshot read but before the fan-out,
	// simulated by a side effect while the gateway call is in flight.
	rec.onCall = func() {
		db.Unscoped().Delete(&models.OrderLineItem{}, "order_id = ?", b.ID)
		db.Unscoped().Delete(&models.Order{}, b.ID)
	}

	result, err := bs.PayOrders(1, []uint{a.ID, b.ID, c.ID})
	assert.NoError(t, err)

	// The surviving orders still receive the token; the vanished one is
	// logged and skipped, not fatal.
	assert.Equal(t, float64(60000), result.TotalAmount)
	for _, id := range []uint{a.ID, c.ID} {
		var stored models.Order
		assert.NoError(t, db.First(&stored, id).Error)
		assert.Equal(t, "tok-test-123", stored.SnapToken)
		assert.Equal(t, result.BatchOrderID, stored.MidtransOrderID)
	}
}

func TestPayOrdersAdminScopeSkipsUserFilter(t *testing.T) {
	db := setupTestDB(t)
	rec := newSnapRecorder(http.StatusOK, snapOKBody)
	defer rec.Close()

	bs := NewBatchService(db, NewTransactionService(db, rec.client()))

	a := seedPendingOrder(t, db, 1, "ORD-A", 10000, "Andi")
	b := seedPendingOrder(t, db, 2, "ORD-B", 20000, "Budi")

	// userID 0 means "no ownership scope" (admin path).
	result, err := bs.PayOrders(0, []uint{a.ID, b.ID})
	assert.NoError(t, err)
	assert.Equal(t, float64(30000), result.TotalAmount)
	assert.Len(t, result.OrderNumbers, 2)
}
