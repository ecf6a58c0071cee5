package hours

import (
	"testing"
	"time"
)

func TestAPIKey_Valid(t *testing.T) {
	created := time.Date(2021, time.September, 1, 8, 0, 0, 0, time.UTC)
	key := &APIKey{
		Key:           "k",
		CreationTime:  created.UnixMilli(),
		CreatorUserID: 1,
		Duration:      time.Hour.Milliseconds(),
	}

	tests := []struct {
		name string
		key  *APIKey
		now  time.Time
		want bool
	}{
		{"fresh", key, created, true},
		{"mid lifetime", key, created.Add(30 * time.Minute), true},
		{"just before expiry", key, created.Add(time.Hour - time.Millisecond), true},
		{"exactly at expiry", key, created.Add(time.Hour), false},
		{"after expiry", key, created.Add(2 * time.Hour), false},
		{"nil key", nil, created, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.Valid(tt.now); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}
