package ws

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/thuanvt/medinfo-backend/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // chỉ để phát triển, nên giới hạn ở production
	},
}

// WebSocket cho trang đọc bài viết: nhận bình luận mới / bị xóa theo thời gian thực.
// Bình luận là nội dung công khai nên không yêu cầu token.
func HandleArticleWebSocket(c *gin.Context) {
	articleID := c.Param("id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Không thể nâng cấp kết nối WebSocket"})
		return
	}

	H.Register(articleID, conn)
}

// WebSocket thông báo cá nhân, xác thực bằng token trên query
// (trình duyệt không gửi được header khi mở WebSocket)
func HandleNotificationWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Thiếu token"})
		return
	}

	claims, err := utils.VerifyToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token không hợp lệ hoặc hết hạn"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Không thể nâng cấp kết nối WebSocket"})
		return
	}

	H.RegisterUser(claims.UserID, conn)
}
