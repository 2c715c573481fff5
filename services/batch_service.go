package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/nadiraputri/catering-app/models"
	"github.com/nadiraputri/catering-app/utils"
)

// ErrNothingToPay reports that no candidate order is still pending payment.
// Informational no-op, not a failure.
var ErrNothingToPay = errors.New("no pending orders to pay")

// BatchPaymentResult is the outcome of a successful batch payment call.
type BatchPaymentResult struct {
	BatchOrderID string   `json:"batch_order_id"`
	SnapToken    string   `json:"snap_token"`
	RedirectURL  string   `json:"redirect_url"`
	TotalAmount  float64  `json:"total_amount"`
	OrderNumbers []string `json:"order_numbers"`
}

// BatchService combines several already-pending orders into exactly one
// gateway transaction.
type BatchService struct {
	db *gorm.DB
	tx *TransactionService
}

func NewBatchService(db *gorm.DB, tx *TransactionService) *BatchService {
	return &BatchService{db: db, tx: tx}
}

// PayOrders batches the given orders into one gateway transaction and fans
// the resulting token back onto every order. The fan-out is best effort: a
// failed update on one order is logged and does not abort the others, since
// the payment itself already succeeded at the gateway.
func (bs *BatchService) PayOrders(userID uint, orderIDs []uint) (*BatchPaymentResult, error) {
	var orders []models.Order
	query := bs.db.Preload("LineItems").
		Where("id IN ? AND payment_status = ?", orderIDs, PaymentStatusPending)
	if userID != 0 {
		query = query.Where("user_id = ?", userID)
	}
	if err := query.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	if len(orders) == 0 {
		return nil, ErrNothingToPay
	}

	var total float64
	orderNumbers := make([]string, 0, len(orders))
	items := make([]ChargeItem, 0)
	for _, order := range orders {
		total += order.TotalAmount
		orderNumbers = append(orderNumbers, order.OrderNumber)
		for _, li := range order.LineItems {
			// Disambiguate across orders: names by child, ids by order.
			items = append(items, ChargeItem{
				ID:       fmt.Sprintf("%s-%d", order.OrderNumber, li.ID),
				Name:     fmt.Sprintf("%s - %s", li.MenuName, li.ChildName),
				Price:    li.UnitPrice,
				Quantity: li.Quantity,
			})
		}
	}

	batchID := GenerateBatchOrderID()

	charge, err := bs.tx.CreateSnapToken(ChargeRequest{
		OrderID:       batchID,
		Amount:        total,
		ItemDetails:   items,
		BatchOrderIDs: orderNumbers,
	})
	if err != nil {
		return nil, err
	}

	// Fan the shared (snap_token, midtrans_order_id) pair onto every order.
	update := map[string]interface{}{
		"snap_token":        charge.SnapToken,
		"midtrans_order_id": batchID,
		"payment_method":    PaymentMethodGateway,
	}
	for _, order := range orders {
		res := bs.db.Model(&models.Order{}).Where("id = ?", order.ID).Updates(update)
		if res.Error != nil {
			utils.ErrorLogger.Printf("batch %s: failed to stamp token on order %s: %v", batchID, order.OrderNumber, res.Error)
			continue
		}
		if res.RowsAffected == 0 {
			utils.ErrorLogger.Printf("batch %s: order %s disappeared before token stamp", batchID, order.OrderNumber)
		}
	}

	utils.InfoLogger.Printf("batch %s created over %d orders (total=%.0f)", batchID, len(orders), total)

	return &BatchPaymentResult{
		BatchOrderID: batchID,
		SnapToken:    charge.SnapToken,
		RedirectURL:  charge.RedirectURL,
		TotalAmount:  total,
		OrderNumbers: orderNumbers,
	}, nil
}
