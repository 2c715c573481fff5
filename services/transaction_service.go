package services

import (
	"fmt"
	"math"

	"gorm.io/gorm"

	"github.com/nadiraputri/catering-app/models"
	"github.com/nadiraputri/catering-app/utils"
)

// Snap rejects item names longer than 50 characters; 45 leaves room for the
// ellipsis marker.
const maxItemNameLen = 45

// Error types surfaced to clients of the transaction endpoint.
const (
	ErrTypeInvalidRequest = "InvalidRequest"
	ErrTypeConfiguration  = "ConfigurationError"
	ErrTypeStorage        = "StorageError"
	ErrTypeGateway        = "GatewayError"
	ErrTypeUnexpected     = "UnexpectedError"
)

// TransactionError carries the error taxonomy for snap token creation.
type TransactionError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *TransactionError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// CustomerDetails is merged over merchant defaults before being sent to the
// gateway.
type CustomerDetails struct {
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// ChargeItem is one itemized line of a charge request, as supplied by the
// caller (not yet normalized).
type ChargeItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// ChargeRequest is the normalized payment request accepted by
// CreateSnapToken. BatchOrderIDs is present only for batch payments and
// holds the real order numbers the synthetic batch id stands for.
type ChargeRequest struct {
	OrderID         string           `json:"orderId"`
	Amount          float64          `json:"amount"`
	CustomerDetails *CustomerDetails `json:"customerDetails,omitempty"`
	ItemDetails     []ChargeItem     `json:"itemDetails,omitempty"`
	BatchOrderIDs   []string         `json:"batchOrderIds,omitempty"`
}

// ChargeResult is the successful outcome of a charge request.
type ChargeResult struct {
	SnapToken   string `json:"snap_token"`
	RedirectURL string `json:"redirect_url"`
}

// snapItem is an item line after normalization, ready for the gateway.
type snapItem struct {
	ID       string `json:"id"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	Name     string `json:"name"`
}

// TransactionService produces gateway pay tokens while enforcing the
// gateway-side constraints callers cannot be trusted to satisfy.
type TransactionService struct {
	db   *gorm.DB
	snap *SnapClient
}

// NewTransactionService creates a TransactionService. A nil db disables
// batch membership persistence (degraded mode, logged as a warning).
func NewTransactionService(db *gorm.DB, snap *SnapClient) *TransactionService {
	return &TransactionService{db: db, snap: snap}
}

// CreateSnapToken validates the request, persists batch membership, builds a
// gateway payload whose item totals reconcile exactly with the transaction
// amount, and calls the Snap API.
func (ts *TransactionService) CreateSnapToken(req ChargeRequest) (*ChargeResult, error) {
	// Validation happens before any side effect.
	if req.OrderID == "" {
		return nil, &TransactionError{Type: ErrTypeInvalidRequest, Message: "orderId is required"}
	}
	if req.Amount <= 0 {
		return nil, &TransactionError{Type: ErrTypeInvalidRequest, Message: "amount must be greater than 0"}
	}

	if err := ts.snap.ValidateConfig(); err != nil {
		return nil, &TransactionError{Type: ErrTypeConfiguration, Message: "payment gateway is not configured", Details: err.Error()}
	}

	// Batch membership is written before the gateway call so a crash after
	// gateway success still leaves a recoverable mapping.
	if len(req.BatchOrderIDs) > 0 {
		if ts.db == nil {
			utils.ErrorLogger.Printf("batch order store not configured, skipping batch tracking for %s", req.OrderID)
		} else {
			rows := make([]models.BatchOrder, 0, len(req.BatchOrderIDs))
			for _, orderNumber := range req.BatchOrderIDs {
				rows = append(rows, models.BatchOrder{
					BatchOrderID: req.OrderID,
					OrderNumber:  orderNumber,
				})
			}
			if err := ts.db.Create(&rows).Error; err != nil {
				return nil, &TransactionError{Type: ErrTypeStorage, Message: "failed to record batch orders", Details: err.Error()}
			}
		}
	}

	grossAmount := int64(math.Round(req.Amount))
	items := normalizeItems(req.ItemDetails)

	// The gateway validates that item totals equal gross_amount exactly. A
	// breakdown that does not reconcile is replaced by a single summary item.
	if itemsTotal(items) != grossAmount {
		items = []snapItem{summaryItem(req.OrderID, grossAmount, len(req.BatchOrderIDs))}
	}

	payload := map[string]interface{}{
		"transaction_details": map[string]interface{}{
			"order_id":     req.OrderID,
			"gross_amount": grossAmount,
		},
		"customer_details": ts.customerDetails(req.CustomerDetails),
		"item_details":     items,
		"credit_card": map[string]interface{}{
			"secure": true,
		},
	}

	resp, err := ts.snap.CreateTransaction(payload)
	if err != nil {
		if snapErr, ok := err.(*SnapError); ok {
			return nil, &TransactionError{
				Type:    ErrTypeGateway,
				Message: fmt.Sprintf("payment gateway returned status %d", snapErr.StatusCode),
				Details: snapErr.Body,
			}
		}
		return nil, &TransactionError{Type: ErrTypeUnexpected, Message: "payment gateway call failed", Details: err.Error()}
	}

	utils.InfoLogger.Printf("Snap token created for %s (gross_amount=%d, items=%d, batch=%d)",
		req.OrderID, grossAmount, len(items), len(req.BatchOrderIDs))

	return &ChargeResult{SnapToken: resp.Token, RedirectURL: resp.RedirectURL}, nil
}

// customerDetails merges the supplied customer over merchant defaults.
func (ts *TransactionService) customerDetails(c *CustomerDetails) map[string]interface{} {
	merged := CustomerDetails{
		FirstName: ts.snap.config.MerchantName,
		Email:     ts.snap.config.MerchantEmail,
		Phone:     ts.snap.config.MerchantPhone,
	}
	if c != nil {
		if c.FirstName != "" {
			merged.FirstName = c.FirstName
		}
		if c.Email != "" {
			merged.Email = c.Email
		}
		if c.Phone != "" {
			merged.Phone = c.Phone
		}
	}
	return map[string]interface{}{
		"first_name": merged.FirstName,
		"email":      merged.Email,
		"phone":      merged.Phone,
	}
}

// normalizeItems applies the gateway constraints: names truncated to 45
// runes plus an ellipsis, missing names defaulted to "Item {n}" (1-based),
// prices rounded to whole rupiah, missing quantities defaulted to 1.
func normalizeItems(items []ChargeItem) []snapItem {
	normalized := make([]snapItem, 0, len(items))
	for i, item := range items {
		name := item.Name
		if name == "" {
			name = fmt.Sprintf("Item %d", i+1)
		}
		if runes := []rune(name); len(runes) > maxItemNameLen {
			name = string(runes[:maxItemNameLen]) + "..."
		}

		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}

		id := item.ID
		if id == "" {
			id = fmt.Sprintf("item-%d", i+1)
		}

		normalized = append(normalized, snapItem{
			ID:       id,
			Price:    int64(math.Round(item.Price)),
			Quantity: qty,
			Name:     name,
		})
	}
	return normalized
}

func itemsTotal(items []snapItem) int64 {
	var total int64
	for _, item := range items {
		total += item.Price * int64(item.Quantity)
	}
	return total
}

// summaryItem is the single-line fallback whose price always reconciles with
// the transaction amount.
func summaryItem(orderID string, grossAmount int64, batchSize int) snapItem {
	name := "Payment"
	if batchSize > 1 {
		name = fmt.Sprintf("Batch Payment (%d orders)", batchSize)
	}
	return snapItem{
		ID:       orderID,
		Price:    grossAmount,
		Quantity: 1,
		Name:     name,
	}
}
