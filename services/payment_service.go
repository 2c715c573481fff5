package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nadiraputri/catering-app/models"
	"github.com/nadiraputri/catering-app/utils"
)

// Payment status
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// Order status
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Payment methods
const (
	PaymentMethodCash    = "cash"
	PaymentMethodGateway = "midtrans"
)

var (
	ErrOrderAlreadyPaid = errors.New("order is already paid")
	ErrInsufficientCash = errors.New("received amount is less than the order total")
)

// PaymentService reconciles payment state: the client-side retry path and
// the cashier-side cash settlement path.
type PaymentService struct {
	db *gorm.DB
	tx *TransactionService
}

func NewPaymentService(db *gorm.DB, tx *TransactionService) *PaymentService {
	return &PaymentService{db: db, tx: tx}
}

// RetryPayment returns a pay token for a still-pending order. A cached token
// is reused as-is; creating a second gateway transaction for the same order
// would be wasteful.
func (ps *PaymentService) RetryPayment(orderID uint) (*ChargeResult, error) {
	var order models.Order
	if err := ps.db.Preload("LineItems").First(&order, orderID).Error; err != nil {
		return nil, fmt.Errorf("order not found: %w", err)
	}
	if order.PaymentStatus == PaymentStatusPaid {
		return nil, ErrOrderAlreadyPaid
	}

	if order.SnapToken != "" {
		return &ChargeResult{SnapToken: order.SnapToken}, nil
	}

	// A retried order may predate token creation; make sure it carries a
	// gateway order id before charging.
	if order.MidtransOrderID == "" {
		order.MidtransOrderID = order.OrderNumber
		if order.MidtransOrderID == "" {
			order.MidtransOrderID = GenerateOrderNumber()
		}
		if err := ps.db.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("midtrans_order_id", order.MidtransOrderID).Error; err != nil {
			return nil, fmt.Errorf("failed to assign gateway order id: %w", err)
		}
	}

	items := make([]ChargeItem, 0, len(order.LineItems))
	for _, li := range order.LineItems {
		items = append(items, ChargeItem{
			ID:       fmt.Sprintf("%s-%d", order.OrderNumber, li.ID),
			Name:     li.MenuName,
			Price:    li.UnitPrice,
			Quantity: li.Quantity,
		})
	}

	charge, err := ps.tx.CreateSnapToken(ChargeRequest{
		OrderID:     order.MidtransOrderID,
		Amount:      order.TotalAmount,
		ItemDetails: items,
	})
	if err != nil {
		return nil, err
	}

	// Best effort: the caller already holds the token.
	if err := ps.db.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("snap_token", charge.SnapToken).Error; err != nil {
		utils.ErrorLogger.Printf("failed to cache retry token on order %s: %v", order.OrderNumber, err)
	}

	return charge, nil
}

// SettleCash records a cashier-taken cash payment: an append-only payment
// row plus a cash audit row, then the order flips to paid/confirmed. The
// writes are sequential, not wrapped in one transaction.
func (ps *PaymentService) SettleCash(orderID uint, receivedAmount float64, cashierID *uint) (*models.Payment, error) {
	var order models.Order
	if err := ps.db.First(&order, orderID).Error; err != nil {
		return nil, fmt.Errorf("order not found: %w", err)
	}
	if order.PaymentStatus == PaymentStatusPaid {
		return nil, ErrOrderAlreadyPaid
	}
	if receivedAmount < order.TotalAmount {
		return nil, ErrInsufficientCash
	}

	now := time.Now()
	payment := models.Payment{
		OrderID:       order.ID,
		Method:        PaymentMethodCash,
		Status:        "success",
		TransactionID: "CSH-" + uuid.New().String()[:8],
		Amount:        order.TotalAmount,
		PaymentTime:   &now,
	}
	if err := ps.db.Create(&payment).Error; err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	cash := models.CashPayment{
		PaymentID:      payment.ID,
		OrderID:        order.ID,
		ReceivedAmount: receivedAmount,
		ChangeAmount:   receivedAmount - order.TotalAmount,
		CashierID:      cashierID,
	}
	if err := ps.db.Create(&cash).Error; err != nil {
		return nil, fmt.Errorf("failed to record cash payment: %w", err)
	}

	update := map[string]interface{}{
		"payment_status": PaymentStatusPaid,
		"status":         OrderStatusConfirmed,
		"payment_method": PaymentMethodCash,
	}
	if err := ps.db.Model(&models.Order{}).Where("id = ?", order.ID).Updates(update).Error; err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	utils.InfoLogger.Printf("cash settlement for order %s: received=%.0f change=%.0f", order.OrderNumber, receivedAmount, cash.ChangeAmount)

	return &payment, nil
}

// RefreshStatus re-reads the order. The payment widget callbacks only ever
// trigger this local refresh; the authoritative payment_status transition
// comes from the gateway's server-to-server notification.
func (ps *PaymentService) RefreshStatus(orderID uint) (*models.Order, error) {
	var order models.Order
	if err := ps.db.Preload("LineItems").First(&order, orderID).Error; err != nil {
		return nil, fmt.Errorf("order not found: %w", err)
	}
	return &order, nil
}
