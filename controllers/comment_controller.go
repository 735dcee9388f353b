package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"

	"github.com/thuanvt/medinfo-backend/config"
	"github.com/thuanvt/medinfo-backend/models"
	"github.com/thuanvt/medinfo-backend/services"
	"github.com/thuanvt/medinfo-backend/ws"
)

// Gửi thông báo realtime + lưu DB với thông tin navigation
func notifyComment(db *gorm.DB, userID uuid.UUID, title, message, notifType string, articleID uuid.UUID, commentID *uuid.UUID) {
	notif := models.Notification{
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      notifType,
		ArticleID: &articleID,
		CommentID: commentID,
	}
	db.Create(&notif)

	data := map[string]interface{}{
		"id":         notif.ID.String(),
		"type":       notifType,
		"title":      title,
		"message":    message,
		"article_id": articleID.String(),
	}
	if commentID != nil {
		data["comment_id"] = commentID.String()
	}

	jsonData, _ := json.Marshal(data)
	ws.H.BroadcastToUser(userID.String(), websocket.TextMessage, jsonData)

	// Cập nhật badge số lượng chưa đọc
	var count int64
	db.Model(&models.Notification{}).Where("user_id = ? AND is_read = false", userID).Count(&count)
	ws.SendBadgeUpdate(userID.String(), count)
}

// Request tạo bình luận
type CreateCommentRequest struct {
	ArticleID string  `json:"article_id" binding:"required"`
	Content   string  `json:"content" binding:"required,max=2000"`
	ParentID  *string `json:"parent_id,omitempty"`
}

type CommentResponse struct {
	ID        uuid.UUID         `json:"id"`
	ArticleID uuid.UUID         `json:"article_id"`
	UserID    uuid.UUID         `json:"user_id"`
	UserName  string            `json:"user_name"`
	AvatarURL string            `json:"avatar_url"`
	UserRole  string            `json:"user_role"`
	Content   string            `json:"content"`
	CreatedAt string            `json:"created_at"`
	ParentID  *uuid.UUID        `json:"parent_id,omitempty"`
	Replies   []CommentResponse `json:"replies"`
}

func formatComment(cmt models.Comment) CommentResponse {
	resp := CommentResponse{
		ID:        cmt.ID,
		ArticleID: cmt.ArticleID,
		UserID:    cmt.UserID,
		UserName:  cmt.User.FullName,
		AvatarURL: cmt.User.AvatarURL,
		UserRole:  string(cmt.User.Role),
		Content:   cmt.Content,
		CreatedAt: cmt.CreatedAt.Format("02/01/2006 15:04"),
		ParentID:  cmt.ParentID,
		Replies:   []CommentResponse{},
	}
	for _, reply := range cmt.Replies {
		resp.Replies = append(resp.Replies, formatComment(reply))
	}
	return resp
}

// Map lỗi của comment service sang HTTP status
func commentErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrArticleNotFound),
		errors.Is(err, services.ErrCommentNotFound),
		errors.Is(err, services.ErrParentNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrParentMismatch), errors.Is(err, services.ErrEmptyContent):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotAllowed):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func CreateComment(c *gin.Context) {
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// userID luôn lấy từ token, không bao giờ tin client
	userIDStr, ok := c.Get("user_id")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Không tìm thấy thông tin người dùng"})
		return
	}
	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id không hợp lệ"})
		return
	}

	articleID, err := uuid.Parse(req.ArticleID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "article_id không hợp lệ"})
		return
	}

	var parentID *uuid.UUID
	if req.ParentID != nil && *req.ParentID != "" {
		id, err := uuid.Parse(*req.ParentID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "parent_id không hợp lệ"})
			return
		}
		parentID = &id
	}

	commentSvc := services.NewCommentService(config.DB)
	comment, err := commentSvc.Create(articleID, userID, req.Content, parentID)
	if err != nil {
		c.JSON(commentErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	response := formatComment(*comment)

	// Gửi realtime tới tất cả client đang xem bài viết
	data := map[string]interface{}{
		"type":       "new_comment",
		"article_id": articleID.String(),
		"comment":    response,
	}
	wsData, _ := json.Marshal(data)
	ws.H.Broadcast(articleID.String(), websocket.TextMessage, wsData)

	// Thông báo cho tác giả bài viết
	var article models.Article
	if err := config.DB.First(&article, "id = ?", articleID).Error; err == nil {
		if article.CreatedBy != userID {
			title := "Bình luận mới về bài viết của bạn"
			message := comment.User.FullName + " đã bình luận: " + comment.Content
			notifyComment(config.DB, article.CreatedBy, title, message, "comment_notification", articleID, &comment.ID)
		}
	}

	// Nếu là trả lời, thông báo cho người bị trả lời
	if parentID != nil {
		var parent models.Comment
		if err := config.DB.First(&parent, "id = ?", *parentID).Error; err == nil {
			if parent.UserID != userID {
				title := "Ai đó đã trả lời bình luận của bạn"
				message := comment.User.FullName + " đã trả lời: " + comment.Content
				notifyComment(config.DB, parent.UserID, title, message, "reply_notification", articleID, &comment.ID)
			}
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Bình luận thành công",
		"data":    response,
	})
}

// Lấy toàn bộ cây bình luận của một bài viết
func GetComments(c *gin.Context) {
	articleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "article_id không hợp lệ"})
		return
	}

	commentSvc := services.NewCommentService(config.DB)
	roots, err := commentSvc.Thread(articleID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy bình luận"})
		return
	}

	response := make([]CommentResponse, 0, len(roots))
	for _, root := range roots {
		response = append(response, formatComment(root))
	}

	c.JSON(http.StatusOK, response)
}

// Xóa bình luận hoặc trả lời (xóa luôn toàn bộ reply con)
func DeleteComment(c *gin.Context) {
	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID bình luận không hợp lệ"})
		return
	}

	userIDStr, ok := c.Get("user_id")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Không tìm thấy người dùng"})
		return
	}
	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id không hợp lệ"})
		return
	}

	// Giữ lại article_id để báo cho trang đang mở
	var comment models.Comment
	if err := config.DB.Select("id", "article_id").First(&comment, "id = ?", commentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy bình luận"})
		return
	}

	commentSvc := services.NewCommentService(config.DB)
	if err := commentSvc.Delete(commentID, userID, c.GetString("role")); err != nil {
		c.JSON(commentErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	data := map[string]interface{}{
		"type":       "delete_comment",
		"comment_id": commentID.String(),
		"article_id": comment.ArticleID.String(),
	}
	jsonData, _ := json.Marshal(data)
	ws.H.Broadcast(comment.ArticleID.String(), websocket.TextMessage, jsonData)

	c.JSON(http.StatusOK, gin.H{"message": "Đã xóa bình luận và toàn bộ trả lời con"})
}
