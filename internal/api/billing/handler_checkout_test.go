package billing

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront-app/database"
	"storefront-app/internal/domain/customers"
	"storefront-app/internal/domain/products"
	"storefront-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v75"
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
	require.NoError(t, db.AutoMigrate(&users.User{}, &products.Product{}, &customers.Customer{}))

	database.DB = db
	return db
}

type checkoutStub struct {
	customersCreated int
	sessionsCreated  int
	lastSession      *stripe.CheckoutSessionParams
}

func (s *checkoutStub) install(t *testing.T) {
	t.Helper()

	origCustomer, origSession := newStripeCustomer, newCheckoutSession
	t.Cleanup(func() {
		newStripeCustomer, newCheckoutSession = origCustomer, origSession
	})

	newStripeCustomer = func(params *stripe.CustomerParams) (*stripe.Customer, error) {
		s.customersCreated++
		return &stripe.Customer{ID: fmt.Sprintf("cus_stub_%d", s.customersCreated)}, nil
	}
	newCheckoutSession = func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
		s.sessionsCreated++
		s.lastSession = params
		return &stripe.CheckoutSession{ID: "cs_test_123", URL: "https://checkout.stripe.test/cs_test_123"}, nil
	}
}

func seedUserAndProduct(t *testing.T, db *gorm.DB) users.User {
	t.Helper()

	user := users.User{Name: "Buyer", Email: "buyer@example.com", Role: "user", IsVerified: true}
	require.NoError(t, db.Create(&user).Error)

	require.NoError(t, db.Create(&products.Product{
		AppID:           "11111111-1111-1111-1111-111111111111",
		Name:            "Pro",
		Amount:          1999,
		Currency:        "usd",
		Interval:        "month",
		Features:        []byte(`[]`),
		StripeProductID: "prod_pro",
		StripePriceID:   "price_pro",
		Active:          true,
	}).Error)

	return user
}

func postCheckout(t *testing.T, userID uint, body string) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	req := httptest.NewRequest(http.MethodPost, "/create-checkout", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	if userID != 0 {
		c.Set("user_id", userID)
	}

	CreateCheckoutSession(c)
	return w
}

func TestCheckoutCreatesCustomerOnFirstUse(t *testing.T) {
	db := setupTestDB(t)
	user := seedUserAndProduct(t, db)

	stub := &checkoutStub{}
	stub.install(t)

	w := postCheckout(t, user.ID, `{"priceId":"price_pro"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "cs_test_123")

	var rows []customers.Customer
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, user.ID, rows[0].UserID)
	assert.Equal(t, "cus_stub_1", rows[0].StripeCustomerID)
	assert.Equal(t, 1, stub.customersCreated)

	// Second checkout reuses the existing customer.
	w = postCheckout(t, user.ID, `{"priceId":"price_pro"}`)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, db.Find(&rows).Error)
	assert.Len(t, rows, 1)
	assert.Equal(t, 1, stub.customersCreated, "no second provider customer may be created")
	assert.Equal(t, 2, stub.sessionsCreated)
}

func TestCheckoutSessionParams(t *testing.T) {
	db := setupTestDB(t)
	user := seedUserAndProduct(t, db)

	stub := &checkoutStub{}
	stub.install(t)

	w := postCheckout(t, user.ID, `{"priceId":"price_pro","successUrl":"https://shop.test/ok","cancelUrl":"https://shop.test/no"}`)
	require.Equal(t, http.StatusOK, w.Code)

	params := stub.lastSession
	require.NotNil(t, params)
	assert.Equal(t, string(stripe.CheckoutSessionModeSubscription), *params.Mode)
	assert.Equal(t, "https://shop.test/ok", *params.SuccessURL)
	assert.Equal(t, "https://shop.test/no", *params.CancelURL)
	assert.True(t, *params.AllowPromotionCodes)
	require.Len(t, params.LineItems, 1)
	assert.Equal(t, "price_pro", *params.LineItems[0].Price)
	assert.Equal(t, fmt.Sprint(user.ID), *params.ClientReferenceID)
}

func TestCheckoutRejectsUnknownPrice(t *testing.T) {
	db := setupTestDB(t)
	user := seedUserAndProduct(t, db)

	stub := &checkoutStub{}
	stub.install(t)

	w := postCheckout(t, user.ID, `{"priceId":"price_nope"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, stub.sessionsCreated)
}

func TestCheckoutRejectsMissingPrice(t *testing.T) {
	setupTestDB(t)

	w := postCheckout(t, 1, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutRejectsMismatchedUserID(t *testing.T) {
	db := setupTestDB(t)
	user := seedUserAndProduct(t, db)

	stub := &checkoutStub{}
	stub.install(t)

	w := postCheckout(t, user.ID, fmt.Sprintf(`{"priceId":"price_pro","userId":"%d"}`, user.ID+10))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Zero(t, stub.sessionsCreated)
}

func TestEnsureCustomerReusesRaceWinner(t *testing.T) {
	db := setupTestDB(t)
	user := seedUserAndProduct(t, db)

	// Simulate losing the insert race: a concurrent checkout lands its row
	// between our lookup and our insert.
	origCustomer := newStripeCustomer
	t.Cleanup(func() { newStripeCustomer = origCustomer })
	newStripeCustomer = func(params *stripe.CustomerParams) (*stripe.Customer, error) {
		require.NoError(t, db.Create(&customers.Customer{
			UserID:           user.ID,
			Email:            user.Email,
			StripeCustomerID: "cus_winner",
		}).Error)
		return &stripe.Customer{ID: "cus_loser"}, nil
	}

	cust, err := ensureCustomer(db, &user)
	require.NoError(t, err)
	assert.Equal(t, "cus_winner", cust.StripeCustomerID, "the loser must reuse the winner's row")

	var count int64
	db.Model(&customers.Customer{}).Count(&count)
	assert.Equal(t, int64(1), count)
}
