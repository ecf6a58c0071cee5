package stubserver

import "github.com/innexgo/hours-go/hours"

func (db *DB) SubscriptionNew(props hours.SubscriptionNewProps) (hours.Subscription, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	key, err := db.auth(props.APIKey)
	if err != nil {
		return hours.Subscription{}, err
	}

	sub := hours.Subscription{
		SubscriptionID:   db.nextID(),
		CreationTime:     nowMillis(),
		CreatorUserID:    key.CreatorUserID,
		SubscriptionKind: props.SubscriptionKind,
		// payment handling lives elsewhere; the stub grants a fixed
		// entitlement
		MaxUses: 1,
	}
	db.subscriptions = append(db.subscriptions, sub)
	return sub, nil
}

func (db *DB) SubscriptionView(props hours.SubscriptionViewProps) ([]hours.Subscription, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if _, err := db.auth(props.APIKey); err != nil {
		return nil, err
	}
	rows := db.subscriptions
	if props.OnlyRecent {
		latest := make(map[int64]hours.Subscription)
		for _, s := range rows {
			if prev, ok := latest[s.CreatorUserID]; !ok || s.CreationTime > prev.CreationTime {
				latest[s.CreatorUserID] = s
			}
		}
		rows = make([]hours.Subscription, 0, len(latest))
		for _, s := range latest {
			rows = append(rows, s)
		}
	}
	var out []hours.Subscription
	for _, s := range rows {
		if matchIn(props.SubscriptionID, s.SubscriptionID) &&
			matchRange(props.MinCreationTime, props.MaxCreationTime, s.CreationTime) &&
			matchIn(props.CreatorUserID, s.CreatorUserID) &&
			matchIn(props.SubscriptionKind, s.SubscriptionKind) {
			out = append(out, s)
		}
	}
	sortByTime(out, func(s hours.Subscription) int64 { return s.CreationTime })
	return window(out, props.Offset, props.Count), nil
}
