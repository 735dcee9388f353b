package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MenuItem là một mục trong thanh điều hướng công khai
type MenuItem struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Label    string    `gorm:"size:100;not null" json:"label"`
	URL      string    `gorm:"size:500;not null" json:"url"`
	Position int       `gorm:"default:0" json:"position"`
	Status   bool      `gorm:"default:true" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
