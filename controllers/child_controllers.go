package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nadiraputri/catering-app/models"
	"github.com/nadiraputri/catering-app/utils"
)

type ChildController struct {
	DB *gorm.DB
}

func NewChildController(db *gorm.DB) *ChildController {
	return &ChildController{DB: db}
}

// GetMyChildren -> children registered by the authenticated parent.
func (cc *ChildController) GetMyChildren(c *gin.Context) {
	userID := c.GetUint("user_id")

	var children []models.Child
	if err := cc.DB.Where("user_id = ?", userID).Find(&children).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of children", children)
}

// CreateChild
func (cc *ChildController) CreateChild(c *gin.Context) {
	userID := c.GetUint("user_id")

	var body struct {
		Name  string `json:"name" binding:"required"`
		Class string `json:"class"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	child := models.Child{
		UserID: userID,
		Name:   body.Name,
		Class:  body.Class,
	}
	if err := cc.DB.Create(&child).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Child registered", child)
}

// UpdateChild
func (cc *ChildController) UpdateChild(c *gin.Context) {
	userID := c.GetUint("user_id")
	id, _ := strconv.Atoi(c.Param("child_id"))

	var child models.Child
	if err := cc.DB.Where("id = ? AND user_id = ?", id, userID).First(&child).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var body struct {
		Name  string `json:"name"`
		Class string `json:"class"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.Name != "" {
		child.Name = body.Name
	}
	if body.Class != "" {
		child.Class = body.Class
	}
	if err := cc.DB.Save(&child).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Child updated", child)
}

// DeleteChild
func (cc *ChildController) DeleteChild(c *gin.Context) {
	userID := c.GetUint("user_id")
	id, _ := strconv.Atoi(c.Param("child_id"))

	if err := cc.DB.Where("user_id = ?", userID).Delete(&models.Child{}, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Child deleted", gin.H{"child_id": id})
}
