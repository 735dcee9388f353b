package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/thuanvt/medinfo-backend/controllers"
	"github.com/thuanvt/medinfo-backend/middleware"
	"github.com/thuanvt/medinfo-backend/ws"
)

func SetupRouter(r *gin.Engine, db *gorm.DB) *gin.Engine {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", controllers.HealthCheck)

	// WebSocket
	r.GET("/ws/articles/:id", ws.HandleArticleWebSocket)
	r.GET("/ws/notifications", ws.HandleNotificationWebSocket)

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.POST("/logingoogle", controllers.GoogleLogin)
	}

	// Trang đọc công khai
	{
		api.GET("/articles", controllers.GetArticlesUser)
		api.GET("/articles/:slug", controllers.GetArticleBySlug)
		api.GET("/comments/article/:id", controllers.GetComments)
		api.GET("/categories", controllers.GetCategoriesUser)
		api.GET("/menu", controllers.GetMenu)
	}

	user := api.Group("/user")
	{
		user.Use(middleware.AuthMiddleware(), middleware.DBMiddleware(db))

		// Bình luận: tạo cần đăng nhập, xóa kiểm tra quyền tác giả/admin trong service
		user.POST("/comments", controllers.CreateComment)
		user.DELETE("/comments/:id", controllers.DeleteComment)

		// Thông báo
		user.GET("/notifications", controllers.GetNotifications)
		user.GET("/notifications/unread-count", controllers.GetUnreadCount)
		user.PATCH("/notifications/:id/read", controllers.MarkNotificationAsRead)
		user.POST("/notifications/read-all", controllers.MarkAllAsRead)
		user.DELETE("/notifications/:id", controllers.DeleteNotification)
	}

	admin := api.Group("/admin")
	{
		admin.Use(middleware.AuthMiddleware(), middleware.DBMiddleware(db), middleware.RequireRoles("admin", "editor"))

		// Quản lý bài viết
		admin.POST("/articles", controllers.CreateArticle)
		admin.GET("/articles", controllers.GetArticles)
		admin.GET("/articles/:id", controllers.GetArticleDetail)
		admin.PUT("/articles/:id", controllers.UpdateArticle)
		admin.DELETE("/articles/:id", controllers.DeleteArticle)
		admin.PATCH("/articles/:id/toggle-status", controllers.ToggleArticleStatus)

		// Quản lý danh mục
		admin.POST("/categories", controllers.CreateCategory)
		admin.GET("/categories", controllers.GetCategories)
		admin.GET("/categories/:id", controllers.GetCategoryDetail)
		admin.PUT("/categories/:id", controllers.UpdateCategory)
		admin.DELETE("/categories/:id", controllers.DeleteCategory)
		admin.PATCH("/categories/:id/toggle-status", controllers.ToggleCategoryStatus)

		// Quản lý menu điều hướng
		admin.POST("/menu", controllers.CreateMenuItem)
		admin.GET("/menu", controllers.GetMenuItems)
		admin.PUT("/menu/:id", controllers.UpdateMenuItem)
		admin.DELETE("/menu/:id", controllers.DeleteMenuItem)
	}

	return r
}
