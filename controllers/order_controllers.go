package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nadiraputri/catering-app/models"
	"github.com/nadiraputri/catering-app/services"
	"github.com/nadiraputri/catering-app/utils"
)

type OrderController struct {
	DB       *gorm.DB
	Checkout *services.CheckoutService
	Batch    *services.BatchService
	Payments *services.PaymentService
}

func NewOrderController(db *gorm.DB, checkout *services.CheckoutService, batch *services.BatchService, payments *services.PaymentService) *OrderController {
	return &OrderController{DB: db, Checkout: checkout, Batch: batch, Payments: payments}
}

type checkoutItemReq struct {
	MenuItemID   uint   `json:"menu_item_id" binding:"required"`
	Quantity     int    `json:"quantity" binding:"required,min=1"`
	ChildID      *uint  `json:"child_id"`
	ChildName    string `json:"child_name"`
	ChildClass   string `json:"child_class"`
	DeliveryDate string `json:"delivery_date" binding:"required"` // 2006-01-02
}

// CreateOrder -> checkout: cart in, one order + snap token out.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	userID := c.GetUint("user_id")

	type reqBody struct {
		Items []checkoutItemReq `json:"items" binding:"required"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := oc.DB.First(&user, userID).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user not found"))
		return
	}

	lines := make([]services.CartLine, 0, len(body.Items))
	for _, item := range body.Items {
		var menu models.MenuItem
		if err := oc.DB.First(&menu, item.MenuItemID).Error; err != nil {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("menu item %d not found", item.MenuItemID))
			return
		}

		childName := item.ChildName
		childClass := item.ChildClass
		if item.ChildID != nil {
			var child models.Child
			if err := oc.DB.Where("id = ? AND user_id = ?", *item.ChildID, userID).First(&child).Error; err != nil {
				utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("child %d not found", *item.ChildID))
				return
			}
			childName = child.Name
			childClass = child.Class
		}

		deliveryDate, err := time.Parse("2006-01-02", item.DeliveryDate)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid delivery_date %q", item.DeliveryDate))
			return
		}

		menuID := menu.ID
		lines = append(lines, services.CartLine{
			MenuItemID:   &menuID,
			MenuName:     menu.Name,
			UnitPrice:    menu.Price,
			Quantity:     item.Quantity,
			ChildID:      item.ChildID,
			ChildName:    childName,
			ChildClass:   childClass,
			DeliveryDate: deliveryDate,
		})
	}

	cart := services.Cart{
		UserID: userID,
		Customer: &services.CustomerDetails{
			FirstName: user.Name,
			Email:     user.Email,
			Phone:     user.Phone,
		},
		Lines: lines,
	}

	order, charge, err := oc.Checkout.Checkout(cart)
	if err != nil {
		if errors.Is(err, services.ErrEmptyCart) || errors.Is(err, services.ErrMissingChild) {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		if order != nil {
			// Order persisted but no token yet; the client retries payment.
			utils.RespondJSON(c, http.StatusCreated, "Order created, payment not started", gin.H{
				"order":         order,
				"payment_error": err.Error(),
			})
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Order created", gin.H{
		"order":        order,
		"snap_token":   charge.SnapToken,
		"redirect_url": charge.RedirectURL,
	})
}

// GetMyOrders -> orders of the authenticated parent.
func (oc *OrderController) GetMyOrders(c *gin.Context) {
	userID := c.GetUint("user_id")

	var orders []models.Order
	if err := oc.DB.Preload("LineItems").Where("user_id = ?", userID).
		Order("created_at DESC").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetAllOrders -> admin listing, optional status/payment_status filters.
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	query := oc.DB.Preload("LineItems")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if paymentStatus := c.Query("payment_status"); paymentStatus != "" {
		query = query.Where("payment_status = ?", paymentStatus)
	}

	var orders []models.Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetPendingOrders -> cash desk listing for the cashier.
func (oc *OrderController) GetPendingOrders(c *gin.Context) {
	var orders []models.Order
	if err := oc.DB.Preload("LineItems").
		Where("payment_status = ?", services.PaymentStatusPending).
		Order("created_at ASC").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Pending orders", orders)
}

// GetOrderByID -> detail of one order.
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("order_id"))

	var order models.Order
	if err := oc.DB.Preload("LineItems").First(&order, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// BatchPay -> combine several pending orders into one gateway transaction.
func (oc *OrderController) BatchPay(c *gin.Context) {
	userID := c.GetUint("user_id")

	var body struct {
		OrderIDs []uint `json:"order_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	result, err := oc.Batch.PayOrders(userID, body.OrderIDs)
	if err != nil {
		if errors.Is(err, services.ErrNothingToPay) {
			utils.RespondJSON(c, http.StatusOK, "No pending orders to pay", nil)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Batch payment created", result)
}

// RetryPayment -> reuse or regenerate the pay token for a pending order.
func (oc *OrderController) RetryPayment(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("order_id"))

	charge, err := oc.Payments.RetryPayment(uint(id))
	if err != nil {
		if errors.Is(err, services.ErrOrderAlreadyPaid) {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Payment token ready", charge)
}

// GetPaymentStatus -> widget callbacks land here: a local re-read only, the
// stored payment_status is never changed by this path.
func (oc *OrderController) GetPaymentStatus(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("order_id"))

	order, err := oc.Payments.RefreshStatus(uint(id))
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Payment status", gin.H{
		"order_number":   order.OrderNumber,
		"status":         order.Status,
		"payment_status": order.PaymentStatus,
		"payment_method": order.PaymentMethod,
	})
}
