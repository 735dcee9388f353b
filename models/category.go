package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name   string    `gorm:"size:100;not null" json:"name"`
	Slug   string    `gorm:"size:120;uniqueIndex;not null" json:"slug"` // unique index làm lưới an toàn khi ghi đồng thời
	Status bool      `gorm:"default:true" json:"status"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	CreatedBy *uuid.UUID `gorm:"type:uuid;default:null" json:"created_by"`
	UpdatedBy *uuid.UUID `gorm:"type:uuid;default:null" json:"updated_by"`

	Articles []Article `gorm:"foreignKey:CategoryID" json:"articles,omitempty"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
