package hours

import "context"

type SubscriptionKind string

const (
	SubscriptionKindValid  SubscriptionKind = "VALID"
	SubscriptionKindCancel SubscriptionKind = "CANCEL"
)

// Subscription entitles a user to create schools, up to MaxUses. Payment
// handling happens elsewhere; the API only records the entitlement.
type Subscription struct {
	SubscriptionID   int64            `json:"subscriptionId"`
	CreationTime     int64            `json:"creationTime"`
	CreatorUserID    int64            `json:"creatorUserId"`
	SubscriptionKind SubscriptionKind `json:"subscriptionKind"`
	MaxUses          int64            `json:"maxUses"`
}

type SubscriptionNewProps struct {
	SubscriptionKind SubscriptionKind `json:"subscriptionKind" validate:"required,oneof=VALID CANCEL"`
	APIKey           string           `json:"apiKey" validate:"required"`
}

type SubscriptionViewProps struct {
	SubscriptionID   []int64            `json:"subscriptionId,omitempty"`
	MinCreationTime  *int64             `json:"minCreationTime,omitempty"`
	MaxCreationTime  *int64             `json:"maxCreationTime,omitempty"`
	CreatorUserID    []int64            `json:"creatorUserId,omitempty"`
	SubscriptionKind []SubscriptionKind `json:"subscriptionKind,omitempty"`
	OnlyRecent       bool               `json:"onlyRecent"`
	Offset           *int64             `json:"offset,omitempty"`
	Count            *int64             `json:"count,omitempty"`
	APIKey           string             `json:"apiKey" validate:"required"`
}

func (c *Client) SubscriptionNew(ctx context.Context, props SubscriptionNewProps) (Subscription, error) {
	var sub Subscription
	err := c.post(ctx, "subscription", opNew, props, &sub)
	return sub, err
}

func (c *Client) SubscriptionView(ctx context.Context, props SubscriptionViewProps) ([]Subscription, error) {
	var out []Subscription
	err := c.post(ctx, "subscription", opView, props, &out)
	return out, err
}
