package member

import "time"

// Member represents a registered club user. Members are provisioned by the
// identity provider; this service only reads them.
type Member struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}
