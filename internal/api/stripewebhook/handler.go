package stripewebhooks

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"roast-app/config"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/webhook"
)

// POST /api/webhook
//
// Signature verification happens before anything in the payload is
// trusted. Once the signature checks out, every event type is
// acknowledged with 200 — a 500 is reserved for processing failures and
// is the only thing that makes Stripe redeliver.
func StripeWebhook(c *gin.Context) {
	// Key is needed for any follow-up API calls made while processing.
	stripe.Key = config.STRIPE_SECRET_KEY

	endpointSecret := config.STRIPE_WEBHOOK_SECRET
	if endpointSecret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "STRIPE_WEBHOOK_SECRET not configured"})
		return
	}

	payload, err := readStripeBody(c, 65536)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		c.GetHeader("Stripe-Signature"),
		endpointSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		fmt.Println("❌ Stripe signature verification failed:", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse session"})
			return
		}
		if err := handleCheckoutSessionCompleted(&session); err != nil {
			fmt.Println("❌ Error processing checkout.session.completed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook processing failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"received": true})
		return

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse subscription"})
			return
		}
		if err := handleSubscriptionDeleted(&sub); err != nil {
			fmt.Println("❌ Error processing customer.subscription.deleted:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook processing failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"received": true})
		return

	case "invoice.payment_succeeded":
		var invoice stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse invoice"})
			return
		}
		if err := handleInvoicePaymentSucceeded(&invoice); err != nil {
			fmt.Println("❌ Error processing invoice.payment_succeeded:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook processing failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"received": true})
		return

	default:
		// Acknowledge unknown events to avoid retries
		fmt.Println("Unhandled event type:", event.Type)
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}
}

func readStripeBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
