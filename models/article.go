package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Article struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title      string     `gorm:"size:255;not null" json:"title"`
	Slug       string     `gorm:"size:280;uniqueIndex;not null" json:"slug"` // unique index làm lưới an toàn khi ghi đồng thời
	Content    string     `gorm:"type:text" json:"content"`
	Excerpt    string     `gorm:"size:500" json:"excerpt"`
	CoverImage string     `gorm:"type:text" json:"cover_image"`
	CategoryID *uuid.UUID `gorm:"type:uuid;index" json:"category_id"`
	Category   *Category  `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL;" json:"category,omitempty"`
	Status     string     `gorm:"type:VARCHAR(20);default:'draft'" json:"status"` // draft | published
	ViewCount  int        `gorm:"default:0" json:"view_count"`

	CreatedBy   uuid.UUID  `gorm:"type:uuid;not null" json:"created_by"`
	User        User       `gorm:"foreignKey:CreatedBy" json:"user,omitempty"`
	UpdatedBy   *uuid.UUID `gorm:"type:uuid" json:"updated_by"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (a *Article) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
