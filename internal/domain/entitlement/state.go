package entitlement

import "roast-app/internal/domain/profiles"

// State is a user's position in the subscription lifecycle.
//
// pending_cancel exists only between a cancel request and the
// customer.subscription.deleted event that closes the paid period; it is
// never persisted, because cancellation must not touch the entitlement
// store until Stripe confirms the period actually ended.
type State string

const (
	StateFree          State = "free"
	StatePendingCancel State = "pending_cancel"
	StatePro           State = "pro"
)

// Event is a billing lifecycle signal, either from our own API
// (cancel requested) or from the Stripe event feed.
type Event string

const (
	EventCheckoutCompleted    Event = "checkout_completed"
	EventCancelRequested      Event = "cancel_requested"
	EventSubscriptionDeleted  Event = "subscription_deleted"
	EventRecurringInvoicePaid Event = "recurring_invoice_paid"
)

// Grant is the absolute assignment a transition persists. Absolute
// values (never deltas) keep redelivered webhook events idempotent.
type Grant struct {
	SetCredits *int
	SetPro     *bool
}

// Empty reports whether the transition touches the entitlement store.
func (g Grant) Empty() bool {
	return g.SetCredits == nil && g.SetPro == nil
}

// Updates renders the grant as a GORM column update map.
func (g Grant) Updates() map[string]interface{} {
	updates := map[string]interface{}{}
	if g.SetCredits != nil {
		updates["credits"] = *g.SetCredits
	}
	if g.SetPro != nil {
		updates["is_pro"] = *g.SetPro
	}
	return updates
}

// StateOf derives the persisted state from a profile row. A pending
// cancel is indistinguishable from pro here; Stripe holds that intent.
func StateOf(isPro bool) State {
	if isPro {
		return StatePro
	}
	return StateFree
}

// Apply is the entitlement state machine: (current state, event) ->
// (next state, grant to persist). It is deliberately ignorant of HTTP,
// Stripe payload shapes and the database.
func Apply(s State, e Event) (State, Grant) {
	switch e {
	case EventCheckoutCompleted:
		// Upgrades from any prior state, including a replayed event
		// while already pro.
		return StatePro, Grant{SetCredits: intPtr(profiles.ProCredits), SetPro: boolPtr(true)}

	case EventCancelRequested:
		// Intent is recorded with Stripe only; the user keeps pro
		// access for the remainder of the paid period.
		if s == StatePro {
			return StatePendingCancel, Grant{}
		}
		return s, Grant{}

	case EventSubscriptionDeleted:
		return StateFree, Grant{SetCredits: intPtr(profiles.FreeCredits), SetPro: boolPtr(false)}

	case EventRecurringInvoicePaid:
		// Monthly replenishment. Pro status is untouched.
		return s, Grant{SetCredits: intPtr(profiles.ProCredits)}
	}

	return s, Grant{}
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }
