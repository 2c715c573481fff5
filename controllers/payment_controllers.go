package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nadiraputri/catering-app/models"
	"github.com/nadiraputri/catering-app/services"
	"github.com/nadiraputri/catering-app/utils"
)

type PaymentController struct {
	DB       *gorm.DB
	Payments *services.PaymentService
}

func NewPaymentController(db *gorm.DB, payments *services.PaymentService) *PaymentController {
	return &PaymentController{DB: db, Payments: payments}
}

// GetAllPayments -> settlement attempts, optionally filtered by order.
func (pc *PaymentController) GetAllPayments(c *gin.Context) {
	query := pc.DB.Order("created_at DESC")
	if orderID := c.Query("order_id"); orderID != "" {
		query = query.Where("order_id = ?", orderID)
	}

	var payments []models.Payment
	if err := query.Find(&payments).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All payments", payments)
}

// GetPaymentByID
func (pc *PaymentController) GetPaymentByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("payment_id"))

	var payment models.Payment
	if err := pc.DB.First(&payment, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Payment detail", payment)
}

// SettleCash -> cashier takes an in-person cash payment for a pending order.
func (pc *PaymentController) SettleCash(c *gin.Context) {
	var body struct {
		OrderID        uint    `json:"order_id" binding:"required"`
		ReceivedAmount float64 `json:"received_amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var cashierID *uint
	if id := c.GetUint("user_id"); id != 0 {
		cashierID = &id
	}

	payment, err := pc.Payments.SettleCash(body.OrderID, body.ReceivedAmount, cashierID)
	if err != nil {
		if errors.Is(err, services.ErrInsufficientCash) || errors.Is(err, services.ErrOrderAlreadyPaid) {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var cash models.CashPayment
	if err := pc.DB.Where("payment_id = ?", payment.ID).First(&cash).Error; err != nil {
		utils.ErrorLogger.Printf("cash audit row missing for payment %d: %v", payment.ID, err)
	}

	utils.RespondJSON(c, http.StatusCreated, "Cash payment recorded", gin.H{
		"payment":         payment,
		"received_amount": cash.ReceivedAmount,
		"change_amount":   cash.ChangeAmount,
	})
}

// GetCashPayments -> cashier audit trail.
func (pc *PaymentController) GetCashPayments(c *gin.Context) {
	var cashPayments []models.CashPayment
	if err := pc.DB.Order("created_at DESC").Find(&cashPayments).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cash payments", cashPayments)
}
