package templates

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppTemplate describes an installable micro-app blueprint: the config fields
// the owner fills in at creation time and the subscription products the
// provisioning service creates for the new app.
type AppTemplate struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	Slug        string `gorm:"not null;uniqueIndex" json:"slug"`
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	Category    string `gorm:"index" json:"category"`

	// ConfigSchema is a list of ConfigField objects rendered as the creation
	// form; DefaultProducts is a list of ProductSpec objects provisioned on
	// Stripe when an app is created from this template.
	ConfigSchema    json.RawMessage `gorm:"type:jsonb;not null;default:'[]'" json:"config_schema"`
	DefaultProducts json.RawMessage `gorm:"type:jsonb;not null;default:'[]'" json:"default_products"`

	// No column default; see apps.App.Active.
	Active bool `gorm:"not null" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *AppTemplate) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

type ConfigField struct {
	Key          string `json:"key"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Type         string `json:"type"` // "text" | "color"
	DefaultValue string `json:"default_value,omitempty"`
	Required     bool   `json:"required"`
}

// ProductSpec mirrors the per-product input of the provisioning endpoint so
// template defaults can be fed to it unchanged.
type ProductSpec struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Amount      int64    `json:"amount"` // minor units
	Interval    string   `json:"interval"`
	Features    []string `json:"features"`
}
