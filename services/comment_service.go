package services

import (
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thuanvt/medinfo-backend/models"
	"github.com/thuanvt/medinfo-backend/utils"
)

// Trần độ sâu khi duyệt cây trả lời, phòng dữ liệu hỏng gây lặp vô hạn
const maxThreadDepth = 50

var (
	ErrArticleNotFound = errors.New("bài viết không tồn tại")
	ErrCommentNotFound = errors.New("bình luận không tồn tại")
	ErrParentNotFound  = errors.New("bình luận cha không tồn tại")
	ErrParentMismatch  = errors.New("bình luận cha không thuộc bài viết này")
	ErrNotAllowed      = errors.New("không có quyền thực hiện thao tác này")
	ErrEmptyContent    = errors.New("nội dung bình luận trống")
)

// CommentService quản lý cây bình luận dưới mỗi bài viết
type CommentService struct {
	DB *gorm.DB
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{DB: db}
}

// Chỉ trả về các trường công khai của tác giả, không bao giờ lộ khóa ngoại trần
func authorFields(db *gorm.DB) *gorm.DB {
	return db.Select("id", "full_name", "avatar_url", "role")
}

// Create lưu bình luận mới. Bài viết phải tồn tại; nếu là trả lời thì bình luận
// cha phải tồn tại và thuộc cùng bài viết, để cây không bao giờ có nhánh mồ côi.
func (s *CommentService) Create(articleID, userID uuid.UUID, content string, parentID *uuid.UUID) (*models.Comment, error) {
	content = utils.SanitizeText(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	var article models.Article
	if err := s.DB.Select("id").First(&article, "id = ?", articleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}

	if parentID != nil {
		var parent models.Comment
		if err := s.DB.Select("id", "article_id").First(&parent, "id = ?", *parentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, err
		}
		if parent.ArticleID != articleID {
			return nil, ErrParentMismatch
		}
	}

	comment := models.Comment{
		ArticleID: articleID,
		UserID:    userID,
		ParentID:  parentID,
		Content:   content,
	}
	if err := s.DB.Create(&comment).Error; err != nil {
		return nil, err
	}

	if err := s.DB.Preload("User", authorFields).First(&comment, "id = ?", comment.ID).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// Thread trả về rừng bình luận của một bài viết: bình luận gốc mới nhất trước,
// trong mỗi tầng trả lời thì cũ nhất trước. Duyệt bằng stack thay vì đệ quy
// để độ sâu không giới hạn của cây không ăn vào call stack.
func (s *CommentService) Thread(articleID uuid.UUID) ([]models.Comment, error) {
	var roots []models.Comment
	if err := s.DB.
		Preload("User", authorFields).
		Where("article_id = ? AND parent_id IS NULL", articleID).
		Order("created_at DESC").
		Find(&roots).Error; err != nil {
		return nil, err
	}

	type frame struct {
		node  *models.Comment
		depth int
	}
	stack := make([]frame, 0, len(roots))
	for i := range roots {
		stack = append(stack, frame{&roots[i], 1})
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.depth >= maxThreadDepth {
			log.Printf("cây bình luận của bài %s vượt độ sâu %d, cắt nhánh tại %s", articleID, maxThreadDepth, f.node.ID)
			continue
		}

		var replies []models.Comment
		if err := s.DB.
			Preload("User", authorFields).
			Where("parent_id = ?", f.node.ID).
			Order("created_at ASC").
			Find(&replies).Error; err != nil {
			return nil, err
		}
		f.node.Replies = replies
		for i := range f.node.Replies {
			stack = append(stack, frame{&f.node.Replies[i], f.depth + 1})
		}
	}

	return roots, nil
}

// Delete xóa một bình luận cùng toàn bộ cây trả lời bên dưới.
// Chỉ tác giả hoặc admin được xóa; sai quyền thì không đụng gì tới dữ liệu.
func (s *CommentService) Delete(commentID, callerID uuid.UUID, role string) error {
	var comment models.Comment
	if err := s.DB.First(&comment, "id = ?", commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}

	if comment.UserID != callerID && role != string(models.RoleAdmin) {
		return ErrNotAllowed
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		// Gom id theo từng tầng, sau đó xóa từ tầng sâu nhất lên;
		// nhờ vậy không lúc nào tồn tại trả lời trỏ tới cha đã biến mất.
		levels := [][]uuid.UUID{{comment.ID}}
		for depth := 1; ; depth++ {
			if depth >= maxThreadDepth {
				log.Printf("cây trả lời dưới bình luận %s vượt độ sâu %d", comment.ID, maxThreadDepth)
				break
			}
			var next []uuid.UUID
			if err := tx.Model(&models.Comment{}).
				Where("parent_id IN ?", levels[len(levels)-1]).
				Pluck("id", &next).Error; err != nil {
				return err
			}
			if len(next) == 0 {
				break
			}
			levels = append(levels, next)
		}

		for i := len(levels) - 1; i >= 0; i-- {
			if err := tx.Where("id IN ?", levels[i]).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteByArticle dọn sạch mọi bình luận của một bài viết, gọi trong cùng
// transaction với lệnh xóa bài để bài biến mất thì bình luận cũng biến mất.
func (s *CommentService) DeleteByArticle(tx *gorm.DB, articleID uuid.UUID) error {
	return tx.Where("article_id = ?", articleID).Delete(&models.Comment{}).Error
}
