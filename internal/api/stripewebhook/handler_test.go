package stripewebhooks

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"roast-app/config"
	"roast-app/database"
	"roast-app/internal/domain/profiles"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/webhook"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testWebhookSecret = "whsec_test_secret"

func webhookRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	config.STRIPE_WEBHOOK_SECRET = testWebhookSecret
	config.STRIPE_SECRET_KEY = "sk_test_fake"

	r := gin.New()
	r.POST("/api/webhook", StripeWebhook)
	return r
}

func signedHeader(t *testing.T, payload []byte) string {
	t.Helper()
	now := time.Now()
	sig := webhook.ComputeSignature(now, payload, testWebhookSecret)
	return fmt.Sprintf("t=%d,v1=%s", now.Unix(), hex.EncodeToString(sig))
}

func postWebhook(router *gin.Engine, payload []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/webhook", bytes.NewReader(payload))
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestWebhookRejectsMissingSignature(t *testing.T) {
	router := webhookRouter()

	payload := []byte(`{"id":"evt_1","object":"event","type":"checkout.session.completed","data":{"object":{}}}`)
	resp := postWebhook(router, payload, "")

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "Invalid signature") {
		t.Fatalf("unexpected body: %s", resp.Body.String())
	}
}

func TestWebhookRejectsBadSignatureForEveryEventType(t *testing.T) {
	router := webhookRouter()

	for _, eventType := range []string{
		"checkout.session.completed",
		"customer.subscription.deleted",
		"invoice.payment_succeeded",
		"product.created",
	} {
		payload := []byte(fmt.Sprintf(`{"id":"evt_1","object":"event","type":"%s","data":{"object":{}}}`, eventType))
		resp := postWebhook(router, payload, "t=12345,v1=deadbeef")

		if resp.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 for bad signature, got %d", eventType, resp.Code)
		}
	}
}

func TestWebhookAcknowledgesUnknownEventTypes(t *testing.T) {
	router := webhookRouter()

	payload := []byte(`{"id":"evt_2","object":"event","type":"product.created","data":{"object":{}}}`)
	resp := postWebhook(router, payload, signedHeader(t, payload))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), `"received":true`) {
		t.Fatalf("unexpected body: %s", resp.Body.String())
	}
}

func TestWebhookDropsCheckoutWithoutUserID(t *testing.T) {
	router := webhookRouter()

	// No metadata.user_id and no client_reference_id: the event is
	// acknowledged and dropped without touching the store.
	payload := []byte(`{"id":"evt_3","object":"event","type":"checkout.session.completed","data":{"object":{"id":"cs_test_1","object":"checkout.session"}}}`)
	resp := postWebhook(router, payload, signedHeader(t, payload))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", resp.Code, resp.Body.String())
	}
}

// profiles.id carries a postgres-only gen_random_uuid default, so the
// table is created by hand instead of via AutoMigrate.
const profilesDDL = `CREATE TABLE profiles (
	id text PRIMARY KEY,
	email text,
	password text,
	auth_provider text NOT NULL DEFAULT 'local',
	google_sub text,
	credits integer NOT NULL DEFAULT 3,
	is_pro boolean NOT NULL DEFAULT false,
	stripe_customer_id text,
	created_at datetime,
	updated_at datetime
)`

func setupWebhookDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.Exec(profilesDDL).Error; err != nil {
		t.Fatalf("failed to create profiles table: %v", err)
	}
	database.DB = db
	t.Cleanup(func() { database.DB = nil })
	return db
}

func loadProfile(t *testing.T, db *gorm.DB, userID string) profiles.Profile {
	t.Helper()
	var profile profiles.Profile
	if err := db.Where("id = ?", userID).First(&profile).Error; err != nil {
		t.Fatalf("failed to load profile: %v", err)
	}
	return profile
}

func TestWebhookCheckoutCompletedUpgradesProfile(t *testing.T) {
	router := webhookRouter()
	db := setupWebhookDB(t)
	if err := db.Create(&profiles.Profile{ID: "u-1", Email: "free@example.com", Credits: 3}).Error; err != nil {
		t.Fatalf("failed to seed profile: %v", err)
	}

	payload := []byte(`{"id":"evt_10","object":"event","type":"checkout.session.completed","data":{"object":{"id":"cs_1","object":"checkout.session","client_reference_id":"u-1","metadata":{"user_id":"u-1"},"customer":"cus_123"}}}`)
	resp := postWebhook(router, payload, signedHeader(t, payload))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", resp.Code, resp.Body.String())
	}

	profile := loadProfile(t, db, "u-1")
	if !profile.IsPro {
		t.Fatal("expected is_pro after checkout")
	}
	if profile.Credits != 100 {
		t.Fatalf("expected 100 credits after checkout, got %d", profile.Credits)
	}
	if profile.StripeCustomerID == nil || *profile.StripeCustomerID != "cus_123" {
		t.Fatalf("expected customer id persisted, got %v", profile.StripeCustomerID)
	}

	// Replaying the same event leaves the row identical.
	resp = postWebhook(router, payload, signedHeader(t, payload))
	if resp.Code != http.StatusOK {
		t.Fatalf("replay: expected 200, got %d", resp.Code)
	}
	replayed := loadProfile(t, db, "u-1")
	if !replayed.IsPro || replayed.Credits != 100 {
		t.Fatalf("replay changed state: is_pro=%v credits=%d", replayed.IsPro, replayed.Credits)
	}
}

func TestWebhookCheckoutForUnknownUserLeavesStoreAlone(t *testing.T) {
	router := webhookRouter()
	db := setupWebhookDB(t)
	if err := db.Create(&profiles.Profile{ID: "u-1", Email: "free@example.com", Credits: 3}).Error; err != nil {
		t.Fatalf("failed to seed profile: %v", err)
	}

	payload := []byte(`{"id":"evt_11","object":"event","type":"checkout.session.completed","data":{"object":{"id":"cs_2","object":"checkout.session","client_reference_id":"ghost","customer":"cus_999"}}}`)
	resp := postWebhook(router, payload, signedHeader(t, payload))

	// Acknowledged and dropped; no row matched, nothing changed.
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", resp.Code, resp.Body.String())
	}
	profile := loadProfile(t, db, "u-1")
	if profile.IsPro || profile.Credits != 3 {
		t.Fatalf("unmatched event mutated state: is_pro=%v credits=%d", profile.IsPro, profile.Credits)
	}
}

func TestWebhookSubscriptionDeletedDowngradesProfile(t *testing.T) {
	router := webhookRouter()
	db := setupWebhookDB(t)
	customerID := "cus_123"
	if err := db.Create(&profiles.Profile{ID: "u-1", Email: "pro@example.com", Credits: 42, IsPro: true, StripeCustomerID: &customerID}).Error; err != nil {
		t.Fatalf("failed to seed profile: %v", err)
	}

	payload := []byte(`{"id":"evt_12","object":"event","type":"customer.subscription.deleted","data":{"object":{"id":"sub_1","object":"subscription","customer":"cus_123"}}}`)
	resp := postWebhook(router, payload, signedHeader(t, payload))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", resp.Code, resp.Body.String())
	}
	profile := loadProfile(t, db, "u-1")
	if profile.IsPro {
		t.Fatal("expected pro revoked after subscription deleted")
	}
	if profile.Credits != 3 {
		t.Fatalf("expected 3 credits after downgrade, got %d", profile.Credits)
	}
}

func TestWebhookRecurringInvoiceReplenishesCredits(t *testing.T) {
	router := webhookRouter()
	db := setupWebhookDB(t)
	customerID := "cus_123"
	if err := db.Create(&profiles.Profile{ID: "u-1", Email: "pro@example.com", Credits: 7, IsPro: true, StripeCustomerID: &customerID}).Error; err != nil {
		t.Fatalf("failed to seed profile: %v", err)
	}

	payload := []byte(`{"id":"evt_13","object":"event","type":"invoice.payment_succeeded","data":{"object":{"id":"in_1","object":"invoice","billing_reason":"subscription_cycle","customer":"cus_123"}}}`)
	resp := postWebhook(router, payload, signedHeader(t, payload))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", resp.Code, resp.Body.String())
	}
	profile := loadProfile(t, db, "u-1")
	if profile.Credits != 100 {
		t.Fatalf("expected 100 credits after cycle invoice, got %d", profile.Credits)
	}
	if !profile.IsPro {
		t.Fatal("replenishment must not touch is_pro")
	}

	// The first invoice tied to checkout is not a replenishment.
	payload = []byte(`{"id":"evt_14","object":"event","type":"invoice.payment_succeeded","data":{"object":{"id":"in_2","object":"invoice","billing_reason":"subscription_create","customer":"cus_123"}}}`)
	if err := db.Model(&profiles.Profile{}).Where("id = ?", "u-1").Update("credits", 7).Error; err != nil {
		t.Fatalf("failed to reset credits: %v", err)
	}
	resp = postWebhook(router, payload, signedHeader(t, payload))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := loadProfile(t, db, "u-1").Credits; got != 7 {
		t.Fatalf("non-recurring invoice must not replenish, got %d", got)
	}
}

func TestUserIDFromSession(t *testing.T) {
	tests := []struct {
		name    string
		session stripe.CheckoutSession
		want    string
	}{
		{
			name: "metadata preferred",
			session: stripe.CheckoutSession{
				Metadata:          map[string]string{"user_id": "u-meta"},
				ClientReferenceID: "u-ref",
			},
			want: "u-meta",
		},
		{
			name: "falls back to client reference",
			session: stripe.CheckoutSession{
				ClientReferenceID: "u-ref",
			},
			want: "u-ref",
		},
		{
			name: "empty metadata value falls back",
			session: stripe.CheckoutSession{
				Metadata:          map[string]string{"user_id": ""},
				ClientReferenceID: "u-ref",
			},
			want: "u-ref",
		},
		{
			name:    "nothing recoverable",
			session: stripe.CheckoutSession{},
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := userIDFromSession(&tt.session); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
