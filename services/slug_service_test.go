package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thuanvt/medinfo-backend/models"
)

func newSlugServiceForTest(t *testing.T) *SlugService {
	return &SlugService{DB: newTestDB(t), Lang: "vi", Now: time.Now}
}

func TestGenerateSlugFromVietnameseTitle(t *testing.T) {
	svc := newSlugServiceForTest(t)

	assert.Equal(t, "tin-tuc-y-khoa", svc.Generate("Tin tức Y khoa", articleSlugPrefix))
	assert.Equal(t, "hello-world", svc.Generate("Hello World", articleSlugPrefix))
}

func TestGenerateSlugNeverEmpty(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := newSlugServiceForTest(t)
	svc.Now = fixedClock(now)

	// Kể cả tiêu đề không còn gì sau khi slugify thì vẫn phải ra định danh
	for _, title := range []string{"", "!!!", "???", "---", "   "} {
		got := svc.Generate(title, articleSlugPrefix)
		assert.NotEmpty(t, got, "title %q", title)
		assert.Equal(t, fmt.Sprintf("bai-viet-%d", now.UnixMilli()), got, "title %q", title)
	}
}

func TestStripSymbols(t *testing.T) {
	// Bậc hai của chuỗi dự phòng: bỏ ký hiệu, giữ chữ, số và khoảng trắng
	assert.Equal(t, "Aspirin 100mg", stripSymbols("**Aspirin** 100mg!!"))
	assert.Equal(t, "", stripSymbols("!?#"))
}

func TestCreateCategoryAssignsUniqueSuffixes(t *testing.T) {
	db := newTestDB(t)
	svc := &SlugService{DB: db, Lang: "vi", Now: time.Now}

	slugs := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		category := &models.Category{Name: "Tin tức"}
		require.NoError(t, svc.CreateCategory(category))
		slugs = append(slugs, category.Slug)
	}

	assert.Equal(t, []string{"tin-tuc", "tin-tuc-1", "tin-tuc-2"}, slugs)
}

func TestCreateArticleSlug(t *testing.T) {
	db := newTestDB(t)
	svc := &SlugService{DB: db, Lang: "vi", Now: time.Now}
	author := newTestUser(t, db, "Tác giả", models.RoleEditor)

	first := &models.Article{Title: "Hello World", CreatedBy: author.ID}
	require.NoError(t, svc.CreateArticle(first))
	assert.Equal(t, "hello-world", first.Slug)

	second := &models.Article{Title: "Hello World", CreatedBy: author.ID}
	require.NoError(t, svc.CreateArticle(second))
	assert.Equal(t, "hello-world-1", second.Slug)
}

func TestUpdateArticleKeepsSlugWhenTitleUnchanged(t *testing.T) {
	db := newTestDB(t)
	svc := &SlugService{DB: db, Lang: "vi", Now: time.Now}
	author := newTestUser(t, db, "Tác giả", models.RoleEditor)

	article := &models.Article{Title: "Hello World", CreatedBy: author.ID}
	require.NoError(t, svc.CreateArticle(article))

	// Sửa nội dung, không đổi tiêu đề -> slug giữ nguyên
	article.Content = "nội dung mới"
	require.NoError(t, svc.UpdateArticle(article, false))
	assert.Equal(t, "hello-world", article.Slug)

	// Đổi lại đúng tiêu đề cũ: loại trừ chính mình nên slug vẫn là hello-world
	require.NoError(t, svc.UpdateArticle(article, true))
	assert.Equal(t, "hello-world", article.Slug)
}

func TestUpdateArticleRenameAssignsNewSlug(t *testing.T) {
	db := newTestDB(t)
	svc := &SlugService{DB: db, Lang: "vi", Now: time.Now}
	author := newTestUser(t, db, "Tác giả", models.RoleEditor)

	article := &models.Article{Title: "Hello World", CreatedBy: author.ID}
	require.NoError(t, svc.CreateArticle(article))

	article.Title = "Xin chào"
	require.NoError(t, svc.UpdateArticle(article, true))
	assert.Equal(t, "xin-chao", article.Slug)

	var stored models.Article
	require.NoError(t, db.First(&stored, "id = ?", article.ID).Error)
	assert.Equal(t, "xin-chao", stored.Slug)
}

func TestUpdateCategoryRenameAvoidsCollision(t *testing.T) {
	db := newTestDB(t)
	svc := &SlugService{DB: db, Lang: "vi", Now: time.Now}

	first := &models.Category{Name: "Dinh dưỡng"}
	require.NoError(t, svc.CreateCategory(first))

	second := &models.Category{Name: "Thuốc"}
	require.NoError(t, svc.CreateCategory(second))

	// Đổi tên trùng với danh mục khác -> phải nhận suffix
	second.Name = "Dinh dưỡng"
	require.NoError(t, svc.UpdateCategory(second, true))
	assert.Equal(t, "dinh-duong-1", second.Slug)
}

func TestSyntheticSlugStillUnique(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := &SlugService{DB: db, Lang: "vi", Now: fixedClock(now)}

	first := &models.Category{Name: "!!!"}
	require.NoError(t, svc.CreateCategory(first))
	base := fmt.Sprintf("danh-muc-%d", now.UnixMilli())
	assert.Equal(t, base, first.Slug)

	// Cùng timestamp (clock đứng yên) vẫn không được trùng
	second := &models.Category{Name: "???"}
	require.NoError(t, svc.CreateCategory(second))
	assert.Equal(t, base+"-1", second.Slug)
}

func TestMakeExcerpt(t *testing.T) {
	got := MakeExcerpt("# Tiêu đề\n\nĐây là *nội dung* có `code`.")
	assert.Equal(t, "Tiêu đề Đây là nội dung có code.", got)

	long := strings.Repeat("a", 500)
	got = MakeExcerpt(long)
	assert.Equal(t, excerptLimit+1, len([]rune(got))) // 160 ký tự + dấu …
	assert.True(t, strings.HasSuffix(got, "…"))

	assert.Equal(t, "", MakeExcerpt(""))
}
