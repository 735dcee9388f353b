package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/thuanvt/medinfo-backend/models"
)

// Chen thời gian tạo để thứ tự sắp xếp trong test luôn tất định
func setCreatedAt(t *testing.T, db *gorm.DB, comment *models.Comment, at time.Time) {
	t.Helper()
	require.NoError(t, db.Model(comment).UpdateColumn("created_at", at).Error)
}

func TestCreateCommentRequiresArticle(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommentService(db)
	user := newTestUser(t, db, "Người đọc", models.RoleUser)

	_, err := svc.Create(uuid.New(), user.ID, "bình luận", nil)
	assert.ErrorIs(t, err, ErrArticleNotFound)

	var count int64
	db.Model(&models.Comment{}).Count(&count)
	assert.Zero(t, count)
}

func TestCreateCommentReturnsAuthorIdentity(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommentService(db)
	author := newTestUser(t, db, "Tác giả", models.RoleEditor)
	reader := newTestUser(t, db, "Người đọc", models.RoleUser)
	article := newTestArticle(t, db, "Bài viết", author)

	comment, err := svc.Create(article.ID, reader.ID, "bài hay quá", nil)
	require.NoError(t, err)

	assert.Equal(t, "Người đọc", comment.User.FullName)
	assert.Equal(t, models.RoleUser, comment.User.Role)
	assert.Nil(t, comment.ParentID)
	assert.False(t, comment.CreatedAt.IsZero())
}

func TestCreateCommentValidatesParent(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommentService(db)
	author := newTestUser(t, db, "Tác giả", models.RoleEditor)
	reader := newTestUser(t, db, "Người đọc", models.RoleUser)
	article := newTestArticle(t, db, "Bài viết", author)
	other := newTestArticle(t, db, "Bài khác", author)

	// Cha không tồn tại
	ghost := uuid.New()
	_, err := svc.Create(article.ID, reader.ID, "trả lời", &ghost)
	assert.ErrorIs(t, err, ErrParentNotFound)

	// Cha thuộc bài viết khác
	parent, err := svc.Create(other.ID, reader.ID, "bình luận bài khác", nil)
	require.NoError(t, err)
	_, err = svc.Create(article.ID, reader.ID, "trả lời", &parent.ID)
	assert.ErrorIs(t, err, ErrParentMismatch)
}

func TestCreateCommentRejectsEmptyContent(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommentService(db)
	author := newTestUser(t, db, "Tác giả", models.RoleEditor)
	article := newTestArticle(t, db, "Bài viết", author)

	_, err := svc.Create(article.ID, author.ID, "   ", nil)
	assert.ErrorIs(t, err, ErrEmptyContent)

	// Sau khi lọc HTML không còn gì cũng coi như trống
	_, err = svc.Create(article.ID, author.ID, "<script>alert(1)</script>", nil)
	assert.ErrorIs(t, err, ErrEmptyContent)
}

func TestThreadRoundTrip(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommentService(db)
	author := newTestUser(t, db, "Tác giả", models.RoleEditor)
	reader := newTestUser(t, db, "Người đọc", models.RoleUser)
	article := newTestArticle(t, db, "Bài viết", author)

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	// A gốc, B trả lời A, C trả lời B; D là bình luận gốc mới hơn
	a, err := svc.Create(article.ID, reader.ID, "A", nil)
	require.NoError(t, err)
	setCreatedAt(t, db, a, base)

	b, err := svc.Create(article.ID, author.ID, "B", &a.ID)
	require.NoError(t, err)
	setCreatedAt(t, db, b, base.Add(1*time.Minute))

	c, err := svc.Create(article.ID, reader.ID, "C", &b.ID)
	require.NoError(t, err)
	setCreatedAt(t, db, c, base.Add(2*time.Minute))

	d, err := svc.Create(article.ID, reader.ID, "D", nil)
	require.NoError(t, err)
	setCreatedAt(t, db, d, base.Add(3*time.Minute))

	roots, err := svc.Thread(article.ID)
	require.NoError(t, err)
	require.Len(t, roots, 2)

	// Bình luận gốc: mới nhất trước
	assert.Equal(t, "D", roots[0].Content)
	assert.Equal(t, "A", roots[1].Content)
	assert.Empty(t, roots[0].Replies)

	// Cây trả lời lồng đúng theo quan hệ cha-con
	require.Len(t, roots[1].Replies, 1)
	assert.Equal(t, "B", roots[1].Replies[0].Content)
	assert.Equal(t, "Tác giả", roots[1].Replies[0].User.FullName)
	require.Len(t, roots[1].Replies[0].Replies, 1)
	assert.Equal(t, "C", roots[1].Replies[0].Replies[0].Content)
	assert.Empty(t, roots[1].Replies[0].Replies[0].Replies)
}

func TestThreadSiblingsOldestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommentService(db)
	author := newTestUser(t, db, "Tác giả", models.RoleEditor)
	article := newTestArticle(t, db, "Bài viết", author)

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	root, err := svc.Create(article.ID, author.ID, "gốc", nil)
	require.NoError(t, err)
	setCreatedAt(t, db, root, base)

	first, err := svc.Create(article.ID, author.ID, "trả lời 1", &root.ID)
	require.NoError(t, err)
	setCreatedAt(t, db, first, base.Add(1*time.Minute))

	second, err := svc.Create(article.ID, author.ID, "trả lời 2", &root.ID)
	require.NoError(t, err)
	setCreatedAt(t, db, second, base.Add(2*time.Minute))

	roots, err := svc.Thread(article.ID)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	require.Len(t, roots[0].Replies, 2)
	assert.Equal(t, "trả lời 1", roots[0].Replies[0].Content)
	assert.Equal(t, "trả lời 2", roots[0].Replies[1].Content)
}

func TestDeleteCommentCascadesToDescendants(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommentService(db)
	author := newTestUser(t, db, "Tác giả", models.RoleEditor)
	reader := newTestUser(t, db, "Người đọc", models.RoleUser)
	article := newTestArticle(t, db, "Bài viết", author)

	a, err := svc.Create(article.ID, reader.ID, "A", nil)
	require.NoError(t, err)
	b, err := svc.Create(article.ID, reader.ID, "B", &a.ID)
	require.NoError(t, err)
	_, err = svc.Create(article.ID, reader.ID, "C", &b.ID)
	require.NoError(t, err)
	_, err = svc.Create(article.ID, reader.ID, "B2", &a.ID)
	require.NoError(t, err)

	// Xóa B: cả C (cháu) phải biến mất, A và B2 còn nguyên
	require.NoError(t, svc.Delete(b.ID, reader.ID, string(models.RoleUser)))

	var remaining []models.Comment
	require.NoError(t, db.Find(&remaining).Error)
	contents := make([]string, 0, len(remaining))
	for _, cmt := range remaining {
		contents = append(contents, cmt.Content)
	}
	assert.ElementsMatch(t, []string{"A", "B2"}, contents)

	// Xóa cả bình luận gốc
	require.NoError(t, svc.Delete(a.ID, reader.ID, string(models.RoleUser)))
	roots, err := svc.Thread(article.ID)
	require.NoError(t, err)
	assert.Empty(t, roots)
}

func TestDeleteCommentAuthorization(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommentService(db)
	author := newTestUser(t, db, "Tác giả", models.RoleEditor)
	reader := newTestUser(t, db, "Người đọc", models.RoleUser)
	stranger := newTestUser(t, db, "Người lạ", models.RoleUser)
	admin := newTestUser(t, db, "Admin", models.RoleAdmin)
	article := newTestArticle(t, db, "Bài viết", author)

	root, err := svc.Create(article.ID, reader.ID, "gốc", nil)
	require.NoError(t, err)
	_, err = svc.Create(article.ID, reader.ID, "trả lời", &root.ID)
	require.NoError(t, err)

	// Không phải tác giả, không phải admin -> cấm và không mất gì
	err = svc.Delete(root.ID, stranger.ID, string(models.RoleUser))
	assert.ErrorIs(t, err, ErrNotAllowed)

	var count int64
	db.Model(&models.Comment{}).Count(&count)
	assert.EqualValues(t, 2, count)

	// Admin xóa được bình luận của người khác
	require.NoError(t, svc.Delete(root.ID, admin.ID, string(models.RoleAdmin)))
	db.Model(&models.Comment{}).Count(&count)
	assert.Zero(t, count)
}

func TestDeleteMissingComment(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommentService(db)
	user := newTestUser(t, db, "Người đọc", models.RoleUser)

	err := svc.Delete(uuid.New(), user.ID, string(models.RoleUser))
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestDeleteByArticleWipesWholeThread(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommentService(db)
	author := newTestUser(t, db, "Tác giả", models.RoleEditor)
	reader := newTestUser(t, db, "Người đọc", models.RoleUser)
	article := newTestArticle(t, db, "Bài viết", author)
	other := newTestArticle(t, db, "Bài khác", author)

	// Cây nhiều nhánh, nhiều tầng
	root1, err := svc.Create(article.ID, reader.ID, "gốc 1", nil)
	require.NoError(t, err)
	reply, err := svc.Create(article.ID, author.ID, "trả lời", &root1.ID)
	require.NoError(t, err)
	_, err = svc.Create(article.ID, reader.ID, "cháu", &reply.ID)
	require.NoError(t, err)
	_, err = svc.Create(article.ID, reader.ID, "gốc 2", nil)
	require.NoError(t, err)

	// Bình luận của bài khác không được đụng tới
	_, err = svc.Create(other.ID, reader.ID, "bài khác", nil)
	require.NoError(t, err)

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return svc.DeleteByArticle(tx, article.ID)
	}))

	var count int64
	db.Model(&models.Comment{}).Where("article_id = ?", article.ID).Count(&count)
	assert.Zero(t, count)

	db.Model(&models.Comment{}).Where("article_id = ?", other.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}
