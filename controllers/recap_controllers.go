package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nadiraputri/catering-app/utils"
)

type RecapController struct {
	DB *gorm.DB
}

func NewRecapController(db *gorm.DB) *RecapController {
	return &RecapController{DB: db}
}

// RecapRow is one delivery date's totals.
type RecapRow struct {
	DeliveryDate string  `json:"delivery_date"`
	Orders       int64   `json:"orders"`
	Items        int64   `json:"items"`
	Revenue      float64 `json:"revenue"`
}

// GetDailyRecap -> per-delivery-date order/item/revenue totals over paid
// orders, for admin recaps and the kitchen's production planning.
func (rc *RecapController) GetDailyRecap(c *gin.Context) {
	from := time.Now().AddDate(0, 0, -30)
	to := time.Now().AddDate(0, 0, 30)

	if fromStr := c.Query("from"); fromStr != "" {
		if parsed, err := time.Parse("2006-01-02", fromStr); err == nil {
			from = parsed
		}
	}
	if toStr := c.Query("to"); toStr != "" {
		if parsed, err := time.Parse("2006-01-02", toStr); err == nil {
			to = parsed
		}
	}

	var rows []RecapRow
	err := rc.DB.Raw(`
		SELECT oli.delivery_date as delivery_date,
		       COUNT(DISTINCT o.id) as orders,
		       SUM(oli.quantity) as items,
		       SUM(oli.total_price) as revenue
		FROM order_line_items oli
		JOIN orders o ON oli.order_id = o.id
		WHERE o.payment_status = 'paid'
		  AND oli.delivery_date BETWEEN ? AND ?
		GROUP BY oli.delivery_date
		ORDER BY oli.delivery_date ASC
	`, from, to).Scan(&rows).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Daily recap", rows)
}
