package users

import "time"

type MeResponse struct {
	User        UserDTO        `json:"user"`
	Entitlement EntitlementDTO `json:"entitlement"`
}

type UserDTO struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	AuthProvider string    `json:"auth_provider"`
	CreatedAt    time.Time `json:"created_at"`
}

type EntitlementDTO struct {
	State   string `json:"state"` // "free" | "pro"
	Credits int    `json:"credits"`
	IsPro   bool   `json:"is_pro"`
	// Quota is what a full cycle grants on the current tier, so the UI
	// can render "x of 100" vs "x of 3".
	Quota int `json:"quota"`
	// True once a Stripe customer has been linked to this profile.
	BillingLinked bool `json:"billing_linked"`
}
