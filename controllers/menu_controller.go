package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/thuanvt/medinfo-backend/config"
	"github.com/thuanvt/medinfo-backend/models"
)

type MenuItemInput struct {
	Label    string `json:"label" binding:"required,max=100"`
	URL      string `json:"url" binding:"required,max=500"`
	Position *int   `json:"position"`
	Status   *bool  `json:"status"`
}

func CreateMenuItem(c *gin.Context) {
	var input MenuItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item := models.MenuItem{
		Label:  strings.TrimSpace(input.Label),
		URL:    strings.TrimSpace(input.URL),
		Status: true,
	}
	if input.Position != nil {
		item.Position = *input.Position
	}
	if input.Status != nil {
		item.Status = *input.Status
	}

	if err := config.DB.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể tạo mục menu"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Tạo mục menu thành công",
		"item":    item,
	})
}

func GetMenuItems(c *gin.Context) {
	var items []models.MenuItem
	if err := config.DB.Order("position ASC, created_at ASC").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy danh sách menu"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func UpdateMenuItem(c *gin.Context) {
	id := c.Param("id")
	var item models.MenuItem
	if err := config.DB.First(&item, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy mục menu"})
		return
	}

	var input MenuItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item.Label = strings.TrimSpace(input.Label)
	item.URL = strings.TrimSpace(input.URL)
	if input.Position != nil {
		item.Position = *input.Position
	}
	if input.Status != nil {
		item.Status = *input.Status
	}

	if err := config.DB.Save(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể cập nhật mục menu"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cập nhật mục menu thành công",
		"item":    item,
	})
}

func DeleteMenuItem(c *gin.Context) {
	id := c.Param("id")
	var item models.MenuItem
	if err := config.DB.First(&item, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy mục menu"})
		return
	}
	if err := config.DB.Delete(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể xóa mục menu"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Xóa mục menu thành công"})
}

// /////USER
// Thanh điều hướng công khai: chỉ mục đang bật, theo thứ tự position
func GetMenu(c *gin.Context) {
	var items []models.MenuItem
	if err := config.DB.
		Where("status = ?", true).
		Order("position ASC, created_at ASC").
		Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy menu"})
		return
	}
	c.JSON(http.StatusOK, items)
}
