package profiles

import "time"

// Credit grants per entitlement tier. Webhook handlers and signup both
// assign these as absolute values, never as deltas.
const (
	FreeCredits = 3
	ProCredits  = 100
)

type Profile struct {
	ID           string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string  `gorm:"not null;uniqueIndex:idx_profiles_email"`
	Password     *string `gorm:""`
	AuthProvider string  `gorm:"type:varchar(20);not null;default:'local'"`
	GoogleSub    *string `gorm:"uniqueIndex:idx_profiles_google_sub"`

	Credits int  `gorm:"not null;default:3"`
	IsPro   bool `gorm:"column:is_pro;not null;default:false"`

	// Set on first checkout; the join key to Stripe customer objects.
	StripeCustomerID *string `gorm:"column:stripe_customer_id;uniqueIndex:idx_profiles_stripe_customer_id"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Profile) TableName() string {
	return "profiles"
}
