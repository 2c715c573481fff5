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

var (
	ErrEmptyCart    = errors.New("cart is empty")
	ErrMissingChild = errors.New("every cart line needs a child")
)

// CartLine is one (child, menu item, delivery date) unit of the cart.
type CartLine struct {
	MenuItemID   *uint
	MenuName     string
	UnitPrice    float64
	Quantity     int
	ChildID      *uint
	ChildName    string
	ChildClass   string
	DeliveryDate time.Time
}

// Cart is the explicit checkout input: all state the aggregator needs,
// nothing ambient.
type Cart struct {
	UserID   uint
	Customer *CustomerDetails
	Lines    []CartLine
}

// CheckoutService turns a cart into one persisted order plus line items and
// obtains a pay token for it.
type CheckoutService struct {
	db *gorm.DB
	tx *TransactionService
}

func NewCheckoutService(db *gorm.DB, tx *TransactionService) *CheckoutService {
	return &CheckoutService{db: db, tx: tx}
}

// GenerateOrderNumber builds a human-readable order id unique enough for the
// gateway. Uniqueness is advisory; the primary key is authoritative.
func GenerateOrderNumber() string {
	return fmt.Sprintf("ORD-%s-%s", time.Now().Format("20060102150405"), uuid.New().String()[:4])
}

// GenerateBatchOrderID builds a synthetic batch id, distinguishable from any
// real order number by its prefix.
func GenerateBatchOrderID() string {
	return fmt.Sprintf("BATCH-%s-%s", time.Now().Format("20060102150405"), uuid.New().String()[:4])
}

// Checkout validates the cart, persists the order and its line items, then
// requests a snap token. The order survives a gateway failure (an order
// without a token is a valid "payment not yet started" state); a line-item
// write failure rolls the order back.
func (cs *CheckoutService) Checkout(cart Cart) (*models.Order, *ChargeResult, error) {
	if len(cart.Lines) == 0 {
		return nil, nil, ErrEmptyCart
	}
	for _, line := range cart.Lines {
		if line.ChildName == "" {
			return nil, nil, ErrMissingChild
		}
	}

	var total float64
	for _, line := range cart.Lines {
		total += line.UnitPrice * float64(line.Quantity)
	}

	now := time.Now()
	order := models.Order{
		OrderNumber:   GenerateOrderNumber(),
		UserID:        cart.UserID,
		TotalAmount:   total,
		Status:        OrderStatusPending,
		PaymentStatus: PaymentStatusPending,
	}
	if err := cs.db.Create(&order).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to create order: %w", err)
	}

	lineItems := make([]models.OrderLineItem, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		lineItems = append(lineItems, models.OrderLineItem{
			OrderID:      order.ID,
			MenuItemID:   line.MenuItemID,
			MenuName:     line.MenuName,
			ChildID:      line.ChildID,
			ChildName:    line.ChildName,
			ChildClass:   line.ChildClass,
			Quantity:     line.Quantity,
			UnitPrice:    line.UnitPrice,
			TotalPrice:   line.UnitPrice * float64(line.Quantity),
			DeliveryDate: line.DeliveryDate,
			OrderDate:    now,
		})
	}
	if err := cs.db.Create(&lineItems).Error; err != nil {
		// Compensating action: no orphaned empty orders.
		if delErr := cs.db.Delete(&models.Order{}, order.ID).Error; delErr != nil {
			utils.ErrorLogger.Printf("failed to roll back order %s after line item failure: %v", order.OrderNumber, delErr)
		}
		return nil, nil, fmt.Errorf("failed to create line items: %w", err)
	}
	order.LineItems = lineItems

	items := make([]ChargeItem, 0, len(lineItems))
	for _, li := range lineItems {
		items = append(items, ChargeItem{
			ID:       fmt.Sprintf("%s-%d", order.OrderNumber, li.ID),
			Name:     li.MenuName,
			Price:    li.UnitPrice,
			Quantity: li.Quantity,
		})
	}

	charge, err := cs.tx.CreateSnapToken(ChargeRequest{
		OrderID:         order.OrderNumber,
		Amount:          order.TotalAmount,
		CustomerDetails: cart.Customer,
		ItemDetails:     items,
	})
	if err != nil {
		// The order stays; payment is recoverable via retry.
		return &order, nil, err
	}

	// Token caching is best effort: the payment can proceed with the token
	// we already hold even if this write fails.
	update := map[string]interface{}{
		"snap_token":        charge.SnapToken,
		"midtrans_order_id": order.OrderNumber,
	}
	if err := cs.db.Model(&models.Order{}).Where("id = ?", order.ID).Updates(update).Error; err != nil {
		utils.ErrorLogger.Printf("failed to cache snap token on order %s: %v", order.OrderNumber, err)
	} else {
		order.SnapToken = charge.SnapToken
		order.MidtransOrderID = order.OrderNumber
	}

	return &order, charge, nil
}
