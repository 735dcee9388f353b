package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thuanvt/medinfo-backend/config"
	"github.com/thuanvt/medinfo-backend/models"
	"github.com/thuanvt/medinfo-backend/services"
	"github.com/thuanvt/medinfo-backend/utils"
)

type ArticleInput struct {
	Title      string  `json:"title" binding:"required,max=255"`
	Content    string  `json:"content"`
	Excerpt    string  `json:"excerpt" binding:"max=500"`
	CoverImage string  `json:"cover_image"`
	CategoryID *string `json:"category_id"`
	Status     string  `json:"status"` // draft | published
}

// Map lỗi của slug service sang HTTP status
func slugErrorStatus(err error) int {
	if errors.Is(err, services.ErrSlugConflict) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func parseCategoryID(c *gin.Context, raw *string) (*uuid.UUID, bool) {
	if raw == nil || *raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category_id không hợp lệ"})
		return nil, false
	}
	var category models.Category
	if err := config.DB.Select("id").First(&category, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy danh mục"})
		return nil, false
	}
	return &id, true
}

func CreateArticle(c *gin.Context) {
	var input ArticleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tiêu đề bài viết bắt buộc"})
		return
	}

	categoryID, ok := parseCategoryID(c, input.CategoryID)
	if !ok {
		return
	}

	userIDStr := c.GetString("user_id")
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id không hợp lệ"})
		return
	}

	article := &models.Article{
		Title:      title,
		Content:    input.Content,
		Excerpt:    strings.TrimSpace(input.Excerpt),
		CoverImage: input.CoverImage,
		CategoryID: categoryID,
		Status:     "draft",
		CreatedBy:  userID,
	}
	if input.Status == "published" {
		now := time.Now()
		article.Status = "published"
		article.PublishedAt = &now
	}

	// Không có excerpt thì tự rút từ nội dung; bước này không được chặn lần lưu
	if article.Excerpt == "" {
		article.Excerpt = services.MakeExcerpt(article.Content)
	}

	// Slug được cấp ngay trước khi insert, cùng một lần lưu
	slugSvc := services.NewSlugService(config.DB)
	if err := slugSvc.CreateArticle(article); err != nil {
		c.JSON(slugErrorStatus(err), gin.H{"error": "Không thể tạo bài viết"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Tạo bài viết thành công",
		"article": article,
	})
}

// Danh sách bài viết cho trang quản trị: tìm kiếm + lọc + phân trang
func GetArticles(c *gin.Context) {
	var articles []models.Article
	query := config.DB.Model(&models.Article{})

	role := c.GetString("role")
	if role == string(models.RoleEditor) {
		// Biên tập viên chỉ thấy bài của mình
		userID, err := uuid.Parse(c.GetString("user_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id không hợp lệ"})
			return
		}
		query = query.Where("created_by = ?", userID)
	}

	if search := c.Query("search"); search != "" {
		query = query.Where("title ILIKE ?", "%"+search+"%")
	}
	if status := c.Query("status"); status == "draft" || status == "published" {
		query = query.Where("status = ?", status)
	}
	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
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
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể đếm tổng bài viết"})
		return
	}

	if err := query.
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, full_name, email")
		}).
		Preload("Category", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name, slug")
		}).
		Offset(offset).
		Limit(limit).
		Order("created_at DESC").
		Find(&articles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy danh sách bài viết"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       articles,
		"total":      total,
		"page":       page,
		"limit":      limit,
		"totalPages": (total + int64(limit) - 1) / int64(limit),
	})
}

func GetArticleDetail(c *gin.Context) {
	id := c.Param("id")
	var article models.Article
	if err := config.DB.
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, full_name, email")
		}).
		Preload("Category").
		First(&article, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy bài viết"})
		return
	}
	c.JSON(http.StatusOK, article)
}

func UpdateArticle(c *gin.Context) {
	id := c.Param("id")
	var article models.Article
	if err := config.DB.First(&article, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy bài viết"})
		return
	}

	var input ArticleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tiêu đề bài viết không được trống"})
		return
	}

	categoryID, ok := parseCategoryID(c, input.CategoryID)
	if !ok {
		return
	}

	userIDStr := c.GetString("user_id")
	if userIDStr != "" {
		parsed, err := uuid.Parse(userIDStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id không hợp lệ"})
			return
		}
		article.UpdatedBy = &parsed
	}

	// Slug chỉ cấp lại khi tiêu đề thực sự đổi
	titleChanged := title != article.Title
	contentChanged := input.Content != article.Content

	article.Title = title
	article.Content = input.Content
	article.CoverImage = input.CoverImage
	article.CategoryID = categoryID

	if excerpt := strings.TrimSpace(input.Excerpt); excerpt != "" {
		article.Excerpt = excerpt
	} else if titleChanged || contentChanged {
		article.Excerpt = services.MakeExcerpt(article.Content)
	}

	if input.Status == "published" && article.Status != "published" {
		now := time.Now()
		article.Status = "published"
		article.PublishedAt = &now
	} else if input.Status == "draft" {
		article.Status = "draft"
	}

	slugSvc := services.NewSlugService(config.DB)
	if err := slugSvc.UpdateArticle(&article, titleChanged); err != nil {
		c.JSON(slugErrorStatus(err), gin.H{"error": "Không thể cập nhật bài viết"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cập nhật bài viết thành công",
		"article": article,
	})
}

func ToggleArticleStatus(c *gin.Context) {
	id := c.Param("id")
	var article models.Article
	if err := config.DB.First(&article, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy bài viết"})
		return
	}

	if article.Status == "published" {
		article.Status = "draft"
	} else {
		now := time.Now()
		article.Status = "published"
		article.PublishedAt = &now
	}

	if err := config.DB.Save(&article).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể cập nhật trạng thái bài viết"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Đã đổi trạng thái thành công",
		"status":  article.Status,
	})
}

// Xóa bài viết: dọn sạch toàn bộ bình luận trước rồi mới xóa bài,
// tất cả trong một transaction
func DeleteArticle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID bài viết không hợp lệ"})
		return
	}

	var article models.Article
	if err := config.DB.First(&article, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy bài viết"})
		return
	}

	commentSvc := services.NewCommentService(config.DB)
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := commentSvc.DeleteByArticle(tx, article.ID); err != nil {
			return err
		}
		return tx.Delete(&article).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể xóa bài viết"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Đã xóa bài viết và toàn bộ bình luận"})
}

// /////USER
// Danh sách bài viết đã xuất bản cho trang đọc
func GetArticlesUser(c *gin.Context) {
	var articles []models.Article
	query := config.DB.Model(&models.Article{}).Where("status = ?", "published")

	if search := c.Query("search"); search != "" {
		query = query.Where("title ILIKE ?", "%"+search+"%")
	}
	if categorySlug := c.Query("category"); categorySlug != "" {
		var category models.Category
		if err := config.DB.First(&category, "slug = ?", categorySlug).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy danh mục"})
			return
		}
		query = query.Where("category_id = ?", category.ID)
	}

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
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể đếm bài viết"})
		return
	}

	if err := query.
		Select("id", "title", "slug", "excerpt", "cover_image", "category_id", "view_count", "published_at", "created_at").
		Preload("Category", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name, slug")
		}).
		Offset(offset).
		Limit(limit).
		Order("published_at DESC").
		Find(&articles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy danh sách bài viết"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       articles,
		"total":      total,
		"page":       page,
		"limit":      limit,
		"totalPages": (total + int64(limit) - 1) / int64(limit),
	})
}

// Trang đọc một bài viết theo slug, trả kèm HTML đã render + sanitize
func GetArticleBySlug(c *gin.Context) {
	slugParam := c.Param("slug")
	var article models.Article
	if err := config.DB.
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, full_name, avatar_url")
		}).
		Preload("Category", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name, slug")
		}).
		First(&article, "slug = ? AND status = ?", slugParam, "published").Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy bài viết"})
		return
	}

	// Đếm lượt xem, lỗi cũng không chặn trang đọc
	config.DB.Model(&article).UpdateColumn("view_count", gorm.Expr("view_count + 1"))

	c.JSON(http.StatusOK, gin.H{
		"article":      article,
		"content_html": utils.RenderMarkdown(article.Content),
	})
}
