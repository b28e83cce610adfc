package model

import "time"

// Membership tiers. Notes are only available to paying members.
const (
	MembershipFree = "free"
	MembershipPro  = "pro"
)

// Profile carries per-user membership state, kept separate from the account
// record so billing webhooks can flip the tier without touching credentials.
type Profile struct {
	UserID               string    `json:"user_id"`
	Membership           string    `json:"membership"`
	StripeCustomerID     *string   `json:"stripe_customer_id"`
	StripeSubscriptionID *string   `json:"stripe_subscription_id"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func (p *Profile) IsMember() bool {
	return p != nil && p.Membership != MembershipFree
}
