package model

import "time"

// Session is the ephemeral per-connection working directory. Exclusive: no
// two sessions share a directory.
type Session struct {
	ID        string    `json:"id"`
	Dir       string    `json:"dir"`
	CreatedAt time.Time `json:"createdAt"`
}

// Age returns how long the session has existed at the given instant.
func (s Session) Age(now time.Time) time.Duration {
	return now.Sub(s.CreatedAt)
}
