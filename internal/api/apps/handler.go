package appsapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"storefront-app/database"
	productsapi "storefront-app/internal/api/products"
	"storefront-app/internal/domain/apps"
	"storefront-app/internal/domain/templates"

	"github.com/gin-gonic/gin"
)

// CreateApp instantiates a branded micro-app, optionally from a template.
// Slug allocation is best-effort; the unique index on apps.slug decides races.
// When the template declares default products they are provisioned on Stripe
// in the same request.
func CreateApp(c *gin.Context) {
	var body struct {
		Name         string            `json:"name"`
		Slug         string            `json:"slug"`
		TemplateSlug string            `json:"template_slug"`
		LogoURL      string            `json:"logo_url"`
		PrimaryColor string            `json:"primary_color"`
		Config       map[string]string `json:"config"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid app name"})
		return
	}

	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return
	}

	var tmpl *templates.AppTemplate
	if body.TemplateSlug != "" {
		var t templates.AppTemplate
		if err := database.DB.Where("slug = ? AND active = ?", body.TemplateSlug, true).First(&t).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Template not found"})
			return
		}
		tmpl = &t

		if missing := missingRequiredConfig(t.ConfigSchema, body.Config); missing != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required config field: " + missing})
			return
		}
	}

	base := body.Slug
	if base == "" {
		base = body.Name
	}
	slug, err := apps.AllocateSlug(database.DB, base)
	if err != nil {
		if errors.Is(err, apps.ErrSlugExhausted) {
			c.JSON(http.StatusConflict, gin.H{"error": "No free slug available for this name"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to allocate slug"})
		return
	}

	cfg, err := json.Marshal(body.Config)
	if err != nil || body.Config == nil {
		cfg = []byte("{}")
	}

	app := apps.App{
		Name:         body.Name,
		Slug:         slug,
		OwnerID:      userID,
		LogoURL:      body.LogoURL,
		PrimaryColor: body.PrimaryColor,
		Config:       cfg,
		Metadata:     []byte(`{}`),
		Active:       true,
	}
	if tmpl != nil {
		app.TemplateID = &tmpl.ID
		app.Metadata = []byte(`{"template_version":"1.0","created_from_template":true}`)
	}

	if err := database.DB.Create(&app).Error; err != nil {
		// Lost a slug race to a concurrent creation.
		c.JSON(http.StatusConflict, gin.H{"error": "Slug already taken", "details": err.Error()})
		return
	}

	if tmpl != nil {
		var specs []templates.ProductSpec
		if err := json.Unmarshal(tmpl.DefaultProducts, &specs); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Template has invalid default products"})
			return
		}
		if len(specs) > 0 {
			created, err := productsapi.Provision(database.DB, &app, specs)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "app": app})
				return
			}
			c.JSON(http.StatusOK, gin.H{"app": app, "products": created})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"app": app})
}

// GetAppBySlug serves the public storefront page data. Inactive apps 404.
func GetAppBySlug(c *gin.Context) {
	slug := c.Param("slug")

	var app apps.App
	if err := database.DB.Where("slug = ? AND active = ?", slug, true).First(&app).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "App not found"})
		return
	}

	c.JSON(http.StatusOK, app)
}

// GetAppContent serves the member-only payload of an app. Routed behind the
// subscription guard, so only users the webhook ingestor has marked active
// reach it.
func GetAppContent(c *gin.Context) {
	slug := c.Param("slug")

	var app apps.App
	if err := database.DB.Where("slug = ? AND active = ?", slug, true).First(&app).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "App not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"app_id": app.ID,
		"name":   app.Name,
		"config": app.Config,
	})
}

func ListMyApps(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var list []apps.App
	if err := database.DB.
		Where("owner_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load apps"})
		return
	}

	c.JSON(http.StatusOK, list)
}

// missingRequiredConfig returns the key of the first required schema field the
// submitted config leaves empty, or "".
func missingRequiredConfig(schema json.RawMessage, cfg map[string]string) string {
	var fields []templates.ConfigField
	if err := json.Unmarshal(schema, &fields); err != nil {
		return ""
	}
	for _, f := range fields {
		if f.Required && cfg[f.Key] == "" && f.DefaultValue == "" {
			return f.Key
		}
	}
	return ""
}
