package stripewebhooks

import (
	"fmt"

	"roast-app/database"
	"roast-app/internal/domain/entitlement"
	"roast-app/internal/domain/profiles"

	"github.com/stripe/stripe-go/v75"
)

func handleInvoicePaymentSucceeded(invoice *stripe.Invoice) error {
	// Only the recurring cycle replenishes. The first invoice from
	// checkout is skipped here; checkout.session.completed already
	// granted the initial allowance.
	if invoice.BillingReason != stripe.InvoiceBillingReasonSubscriptionCycle {
		return nil
	}

	if invoice.Customer == nil || invoice.Customer.ID == "" {
		return nil
	}

	var profile profiles.Profile
	if err := database.DB.Where("stripe_customer_id = ?", invoice.Customer.ID).First(&profile).Error; err != nil {
		return nil
	}

	// Replenishment resets credits only; is_pro stays as it is.
	_, grant := entitlement.Apply(entitlement.StateOf(profile.IsPro), entitlement.EventRecurringInvoicePaid)

	if err := database.DB.Model(&profiles.Profile{}).
		Where("id = ?", profile.ID).
		Updates(grant.Updates()).Error; err != nil {
		return fmt.Errorf("failed to reset credits for user %s: %w", profile.ID, err)
	}

	fmt.Printf("Credits reset for user %s\n", profile.ID)
	return nil
}
