package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nadiraputri/catering-app/services"
	"github.com/nadiraputri/catering-app/utils"
)

// TransactionController exposes the snap token endpoint consumed by the web
// client's payment widget.
type TransactionController struct {
	Service *services.TransactionService
}

func NewTransactionController(service *services.TransactionService) *TransactionController {
	return &TransactionController{Service: service}
}

// CreateSnapToken handles POST /payments/token.
// Success: 200 {snap_token, redirect_url}. Failure: 500 {error, details, type}.
func (tc *TransactionController) CreateSnapToken(c *gin.Context) {
	var req services.ChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "invalid request body",
			"details": err.Error(),
			"type":    services.ErrTypeInvalidRequest,
		})
		return
	}

	result, err := tc.Service.CreateSnapToken(req)
	if err != nil {
		txErr, ok := err.(*services.TransactionError)
		if !ok {
			txErr = &services.TransactionError{
				Type:    services.ErrTypeUnexpected,
				Message: "snap token creation failed",
				Details: err.Error(),
			}
		}
		utils.ErrorLogger.Printf("snap token creation failed for %s: %v", req.OrderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   txErr.Message,
			"details": txErr.Details,
			"type":    txErr.Type,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"snap_token":   result.SnapToken,
		"redirect_url": result.RedirectURL,
	})
}
