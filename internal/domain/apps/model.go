package apps

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type App struct {
	ID   string `gorm:"type:uuid;primaryKey" json:"id"`
	Name string `gorm:"not null" json:"name"`

	// Slug is the public identifier used in URLs. The uniqueIndex is the real
	// guarantor; AllocateSlug only keeps insert conflicts rare.
	Slug string `gorm:"not null;uniqueIndex:idx_apps_slug" json:"slug"`

	OwnerID    uint    `gorm:"not null;index" json:"owner_id"`
	TemplateID *string `gorm:"type:uuid;index" json:"template_id,omitempty"`

	// branding
	LogoURL      string `json:"logo_url,omitempty"`
	PrimaryColor string `json:"primary_color,omitempty"`

	Config   json.RawMessage `gorm:"type:jsonb;not null;default:'{}'" json:"config"`
	Metadata json.RawMessage `gorm:"type:jsonb;not null;default:'{}'" json:"metadata"`

	// No column default on purpose: with one, GORM drops a zero-value false
	// from the insert and the row comes back active. Creators set this
	// explicitly.
	Active bool `gorm:"not null" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *App) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
