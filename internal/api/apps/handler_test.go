package appsapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront-app/database"
	"storefront-app/internal/domain/apps"
	"storefront-app/internal/domain/products"
	"storefront-app/internal/domain/templates"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&apps.App{}, &products.Product{}, &templates.AppTemplate{}))

	database.DB = db
	return db
}

func postApp(t *testing.T, userID uint, body string) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	req := httptest.NewRequest(http.MethodPost, "/apps", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	if userID != 0 {
		c.Set("user_id", userID)
	}

	CreateApp(c)
	return w
}

func TestCreateAppAllocatesRequestedSlug(t *testing.T) {
	db := setupTestDB(t)

	w := postApp(t, 1, `{"name":"My Coffee Club","slug":"coffee-club"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var app apps.App
	require.NoError(t, db.Where("owner_id = ?", 1).First(&app).Error)
	assert.Equal(t, "coffee-club", app.Slug)
	assert.True(t, app.Active)
}

func TestCreateAppSuffixesTakenSlug(t *testing.T) {
	db := setupTestDB(t)

	for i, want := range []string{"coffee-club", "coffee-club-1", "coffee-club-2"} {
		w := postApp(t, uint(i+1), `{"name":"Coffee Club"}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var app apps.App
		require.NoError(t, db.Where("owner_id = ?", i+1).First(&app).Error)
		assert.Equal(t, want, app.Slug)
	}
}

func TestCreateAppFromTemplateValidatesRequiredConfig(t *testing.T) {
	db := setupTestDB(t)

	schema, _ := json.Marshal([]templates.ConfigField{
		{Key: "welcome_text", Name: "Welcome Text", Type: "text", Required: true},
	})
	require.NoError(t, db.Create(&templates.AppTemplate{
		Slug:            "membership",
		Name:            "Membership Site",
		ConfigSchema:    schema,
		DefaultProducts: []byte(`[]`),
		Active:          true,
	}).Error)

	w := postApp(t, 1, `{"name":"My Site","template_slug":"membership"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "welcome_text")

	w = postApp(t, 1, `{"name":"My Site","template_slug":"membership","config":{"welcome_text":"hi"}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var app apps.App
	require.NoError(t, db.Where("owner_id = ?", 1).First(&app).Error)
	require.NotNil(t, app.TemplateID)
}

func TestGetAppBySlugHidesInactiveApps(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.Create(&apps.App{
		Name: "Ghost", Slug: "ghost", OwnerID: 1,
		Config: []byte(`{}`), Metadata: []byte(`{}`), Active: false,
	}).Error)

	// The flag must survive the insert; a column default would flip it.
	var stored apps.App
	require.NoError(t, db.Where("slug = ?", "ghost").First(&stored).Error)
	require.False(t, stored.Active)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/apps/ghost", nil)
	c.Params = gin.Params{{Key: "slug", Value: "ghost"}}

	GetAppBySlug(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAllocateSlugAgainstDatabase(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.Create(&apps.App{
		Name: "Taken", Slug: "taken", OwnerID: 1,
		Config: []byte(`{}`), Metadata: []byte(`{}`), Active: true,
	}).Error)

	slug, err := apps.AllocateSlug(db, "Taken")
	require.NoError(t, err)
	assert.Equal(t, "taken-1", slug)

	slug, err = apps.AllocateSlug(db, "Untaken")
	require.NoError(t, err)
	assert.Equal(t, "untaken", slug)
}
