package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nadiraputri/catering-app/models"
	"github.com/nadiraputri/catering-app/utils"
)

type ScheduleController struct {
	DB *gorm.DB
}

func NewScheduleController(db *gorm.DB) *ScheduleController {
	return &ScheduleController{DB: db}
}

// GetSchedules -> schedules in a date range (defaults to the coming week).
func (sc *ScheduleController) GetSchedules(c *gin.Context) {
	from := time.Now().Truncate(24 * time.Hour)
	to := from.AddDate(0, 0, 7)

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

	var schedules []models.MenuSchedule
	if err := sc.DB.Preload("MenuItem").
		Where("schedule_date BETWEEN ? AND ?", from, to).
		Order("schedule_date ASC").Find(&schedules).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu schedules", schedules)
}

// CreateSchedule (admin)
func (sc *ScheduleController) CreateSchedule(c *gin.Context) {
	var body struct {
		MenuItemID   uint   `json:"menu_item_id" binding:"required"`
		ScheduleDate string `json:"schedule_date" binding:"required"` // 2006-01-02
		Quota        int    `json:"quota"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	date, err := time.Parse("2006-01-02", body.ScheduleDate)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var menu models.MenuItem
	if err := sc.DB.First(&menu, body.MenuItemID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	schedule := models.MenuSchedule{
		MenuItemID:   body.MenuItemID,
		ScheduleDate: date,
		Quota:        body.Quota,
	}
	if err := sc.DB.Create(&schedule).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Schedule created", schedule)
}

// DeleteSchedule (admin)
func (sc *ScheduleController) DeleteSchedule(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("schedule_id"))

	if err := sc.DB.Delete(&models.MenuSchedule{}, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Schedule deleted", gin.H{"schedule_id": id})
}
