package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thuanvt/medinfo-backend/config"
	"github.com/thuanvt/medinfo-backend/models"
	"github.com/thuanvt/medinfo-backend/services"
)

func CreateCategory(c *gin.Context) {
	var input struct {
		Name   string `json:"name" binding:"required,max=100"`
		Status *bool  `json:"status"` // optional
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tên danh mục bắt buộc"})
		return
	}

	// Lấy userID từ context (nếu có)
	var userUUID *uuid.UUID
	userIDStr := c.GetString("user_id")
	if userIDStr != "" {
		parsed, err := uuid.Parse(userIDStr)
		if err == nil {
			userUUID = &parsed
		}
	}

	category := &models.Category{
		Name:      name,
		Status:    true, // mặc định
		CreatedBy: userUUID,
	}
	if input.Status != nil {
		category.Status = *input.Status
	}

	// Slug được cấp ngay trước khi insert; trùng tên thì tự nối -1, -2, ...
	slugSvc := services.NewSlugService(config.DB)
	if err := slugSvc.CreateCategory(category); err != nil {
		c.JSON(slugErrorStatus(err), gin.H{"error": "Không thể tạo danh mục"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Tạo danh mục thành công",
		"category": category,
	})
}

func GetCategories(c *gin.Context) {
	var categories []models.Category
	query := config.DB.Model(&models.Category{})

	if search := c.Query("search"); search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}
	if status := c.Query("status"); status != "" {
		switch status {
		case "true":
			query = query.Where("status = ?", true)
		case "false":
			query = query.Where("status = ?", false)
		}
	}

	// --- Phân trang ---
	limit := 10
	page := 1
	if p := c.Query("page"); p != "" {
		fmt.Sscanf(p, "%d", &page)
		if page < 1 {
			page = 1
		}
	}
	if l := c.Query("limit"); l != "" {
		fmt.Sscanf(l, "%d", &limit)
		if limit < 1 {
			limit = 10
		}
	}
	offset := (page - 1) * limit

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể đếm tổng danh mục"})
		return
	}

	if err := query.
		Offset(offset).
		Limit(limit).
		Order("created_at DESC").
		Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy danh sách danh mục"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       categories,
		"total":      total,
		"page":       page,
		"limit":      limit,
		"totalPages": (total + int64(limit) - 1) / int64(limit),
	})
}

func UpdateCategory(c *gin.Context) {
	id := c.Param("id")
	var category models.Category
	if err := config.DB.First(&category, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy danh mục"})
		return
	}

	var input struct {
		Name string `json:"name" binding:"required,max=100"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tên danh mục bắt buộc"})
		return
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tên danh mục không được trống"})
		return
	}

	userIDStr := c.GetString("user_id")
	if userIDStr != "" {
		parsed, err := uuid.Parse(userIDStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id không hợp lệ"})
			return
		}
		category.UpdatedBy = &parsed
	}

	// Đổi tên mới cấp lại slug; sửa trường khác giữ nguyên slug cũ
	nameChanged := name != category.Name
	category.Name = name

	slugSvc := services.NewSlugService(config.DB)
	if err := slugSvc.UpdateCategory(&category, nameChanged); err != nil {
		c.JSON(slugErrorStatus(err), gin.H{"error": "Không thể cập nhật danh mục"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Cập nhật danh mục thành công",
		"category": category,
	})
}

func DeleteCategory(c *gin.Context) {
	id := c.Param("id")
	var category models.Category
	if err := config.DB.First(&category, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy danh mục"})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		// Bài viết thuộc danh mục chuyển về không có danh mục
		if err := tx.Model(&models.Article{}).
			Where("category_id = ?", category.ID).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&category).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể xóa danh mục"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Xóa danh mục thành công"})
}

func ToggleCategoryStatus(c *gin.Context) {
	id := c.Param("id")
	var category models.Category
	if err := config.DB.First(&category, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy danh mục"})
		return
	}
	category.Status = !category.Status
	if err := config.DB.Save(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể cập nhật trạng thái danh mục"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Đã đổi trạng thái thành công",
		"status":  category.Status,
	})
}

func GetCategoryDetail(c *gin.Context) {
	id := c.Param("id")
	var category models.Category
	if err := config.DB.First(&category, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy danh mục"})
		return
	}
	c.JSON(http.StatusOK, category)
}

// /////USER
// Danh sách danh mục đang hoạt động cho trang đọc
func GetCategoriesUser(c *gin.Context) {
	var categories []models.Category
	if err := config.DB.
		Where("status = ?", true).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy danh sách danh mục"})
		return
	}
	c.JSON(http.StatusOK, categories)
}
