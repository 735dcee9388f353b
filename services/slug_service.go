package services

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/thuanvt/medinfo-backend/models"
)

const (
	// Số lần ghi lại tối đa khi thua cuộc đua trên unique index
	maxSlugAttempts = 5
	// Số ký tự tối đa của excerpt sinh tự động
	excerptLimit = 160

	articleSlugPrefix  = "bai-viet"
	categorySlugPrefix = "danh-muc"
)

// Hết lượt thử mà vẫn đụng unique index -> trả 409 cho client
var ErrSlugConflict = errors.New("không thể cấp slug duy nhất, vui lòng thử lại")

// SlugService cấp định danh URL duy nhất cho bài viết và danh mục.
// Now tách riêng để test sinh slug dự phòng theo timestamp một cách tất định.
type SlugService struct {
	DB   *gorm.DB
	Lang string
	Now  func() time.Time
}

func NewSlugService(db *gorm.DB) *SlugService {
	lang := os.Getenv("SLUG_LANG")
	if lang == "" {
		lang = "vi"
	}
	return &SlugService{DB: db, Lang: lang, Now: time.Now}
}

// Generate sinh slug theo chuỗi dự phòng ba bậc, không bao giờ trả về rỗng:
// 1. slugify theo locale
// 2. bỏ hết ký hiệu rồi slugify lại
// 3. tiền tố cố định + timestamp (ms)
func (s *SlugService) Generate(title, fallbackPrefix string) string {
	candidate := slug.MakeLang(title, s.Lang)
	if isBlankSlug(candidate) {
		candidate = slug.Make(stripSymbols(title))
	}
	if isBlankSlug(candidate) {
		candidate = fmt.Sprintf("%s-%d", fallbackPrefix, s.Now().UnixMilli())
	}
	return candidate
}

func isBlankSlug(v string) bool {
	return strings.Trim(v, "-") == ""
}

func stripSymbols(v string) string {
	var b strings.Builder
	for _, r := range v {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// uniqueIn dò trùng slug trong bảng, bỏ qua chính bản ghi đang lưu.
// Đụng trùng thì nối -1, -2, ... cho tới khi trống.
// Query lỗi -> hủy cả lần lưu, không chấp nhận ghi thiếu slug đã kiểm tra.
func (s *SlugService) uniqueIn(table, base string, excludeID *uuid.UUID) (string, error) {
	candidate := base
	for i := 1; ; i++ {
		query := s.DB.Table(table).Where("slug = ?", candidate)
		if excludeID != nil {
			query = query.Where("id <> ?", *excludeID)
		}
		var count int64
		if err := query.Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

// saveWithSlug gán slug ngay trước khi ghi (cùng một lần lưu logic).
// Ghi đồng thời cùng tiêu đề vẫn có thể lọt qua bước dò trùng; unique index
// ở tầng lưu trữ sẽ chặn lại và ta dò suffix rồi ghi lại, tối đa maxSlugAttempts lần.
func (s *SlugService) saveWithSlug(table, title, prefix string, excludeID *uuid.UUID, assign func(string), write func() error) error {
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		slugValue, err := s.uniqueIn(table, s.Generate(title, prefix), excludeID)
		if err != nil {
			return err
		}
		assign(slugValue)
		err = write()
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
	}
	return ErrSlugConflict
}

// CreateArticle cấp slug rồi insert bài viết
func (s *SlugService) CreateArticle(article *models.Article) error {
	return s.saveWithSlug("articles", article.Title, articleSlugPrefix, nil,
		func(v string) { article.Slug = v },
		func() error { return s.DB.Create(article).Error })
}

// UpdateArticle chỉ cấp lại slug khi tiêu đề thực sự thay đổi;
// cập nhật các trường khác giữ nguyên slug cũ
func (s *SlugService) UpdateArticle(article *models.Article, titleChanged bool) error {
	if !titleChanged {
		return s.DB.Save(article).Error
	}
	id := article.ID
	return s.saveWithSlug("articles", article.Title, articleSlugPrefix, &id,
		func(v string) { article.Slug = v },
		func() error { return s.DB.Save(article).Error })
}

func (s *SlugService) CreateCategory(category *models.Category) error {
	return s.saveWithSlug("categories", category.Name, categorySlugPrefix, nil,
		func(v string) { category.Slug = v },
		func() error { return s.DB.Create(category).Error })
}

func (s *SlugService) UpdateCategory(category *models.Category, nameChanged bool) error {
	if !nameChanged {
		return s.DB.Save(category).Error
	}
	id := category.ID
	return s.saveWithSlug("categories", category.Name, categorySlugPrefix, &id,
		func(v string) { category.Slug = v },
		func() error { return s.DB.Save(category).Error })
}

// MakeExcerpt bỏ ký hiệu markdown cơ bản rồi cắt ngắn nội dung.
// Chỉ mang tính hiển thị, không được phép chặn lần lưu.
func MakeExcerpt(content string) string {
	plain := strings.NewReplacer("#", "", "*", "", "`", "").Replace(content)
	plain = strings.Join(strings.Fields(plain), " ")
	runes := []rune(plain)
	if len(runes) <= excerptLimit {
		return plain
	}
	return string(runes[:excerptLimit]) + "…"
}
