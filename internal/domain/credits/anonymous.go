package credits

import "time"

// AnonymousCredit tracks the roast allowance for visitors without an
// account, keyed by the opaque id we hand out in a cookie. There is no
// replenishment path: once drained, the only way forward is signing up.
type AnonymousCredit struct {
	AnonID    string `gorm:"primaryKey;type:varchar(64)"`
	Credits   int    `gorm:"not null;default:3"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (AnonymousCredit) TableName() string {
	return "anonymous_credits"
}
