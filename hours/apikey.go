package hours

import "time"

// APIKey is the capability token proving an authenticated session. It is
// issued by the external auth service and sent with every request as the
// props' apiKey field.
type APIKey struct {
	Key           string `json:"key"`
	CreationTime  int64  `json:"creationTime"`
	CreatorUserID int64  `json:"creatorUserId"`
	Duration      int64  `json:"duration"`
}

// Valid reports whether the key is still within its lifetime at now.
// creationTime + duration == now counts as expired. This check is advisory
// only: the server re-verifies the key on every request and answers with
// API_KEY_NONEXISTENT / API_KEY_UNAUTHORIZED regardless.
func (k *APIKey) Valid(now time.Time) bool {
	if k == nil {
		return false
	}
	return k.CreationTime+k.Duration > now.UnixMilli()
}
