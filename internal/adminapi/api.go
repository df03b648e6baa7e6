// Package adminapi is the wire contract of the admin user-directory
// endpoints: JSON documents exchanged over HTTP (and embedded in gRPC
// structs), and the boundary decoder that turns untrusted listings into
// directory.Account values.
package adminapi

import (
	"time"

	"github.com/dmitrijs2005/saasadmin/internal/directory"
)

// Paths served by the HTTP API.
const (
	UsersPath      = "/api/admin/users"
	CheckAdminPath = "/api/user/check-admin"
	HealthPath     = "/healthz"
)

// TimeLayout is used for every timestamp on the wire.
const TimeLayout = time.RFC3339Nano

type User struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	Name         string  `json:"name"`
	CreatedAt    string  `json:"createdAt"`
	LastSignIn   *string `json:"lastSignIn"`
	Provider     string  `json:"provider"`
	IsSubscribed bool    `json:"isSubscribed"`
}

type Stats struct {
	Total          int     `json:"total"`
	Subscribed     int     `json:"subscribed"`
	NonSubscribed  int     `json:"nonSubscribed"`
	ConversionRate float64 `json:"conversionRate"`
}

// ListResponse is the body of GET /api/admin/users.
type ListResponse struct {
	Users []User `json:"users"`
	Stats *Stats `json:"stats,omitempty"`
}

// DeleteRequest is the body of DELETE /api/admin/users.
type DeleteRequest struct {
	UserID string `json:"userId"`
}

type DeleteResponse struct {
	Success bool `json:"success"`
}

// ErrorResponse is returned with every non-2xx status.
type ErrorResponse struct {
	Error string `json:"error"`
}

type CheckAdminResponse struct {
	IsAdmin bool `json:"isAdmin"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// NewListResponse renders accounts and their stats for the wire.
func NewListResponse(accounts []directory.Account, stats directory.Stats) ListResponse {
	users := make([]User, 0, len(accounts))
	for _, a := range accounts {
		users = append(users, FromAccount(a))
	}
	return ListResponse{
		Users: users,
		Stats: &Stats{
			Total:          stats.Total,
			Subscribed:     stats.Subscribed,
			NonSubscribed:  stats.NonSubscribed,
			ConversionRate: stats.ConversionRate,
		},
	}
}

func FromAccount(a directory.Account) User {
	u := User{
		ID:           a.ID,
		Email:        a.Email,
		Name:         a.DisplayName,
		Provider:     a.AuthProvider,
		IsSubscribed: a.IsSubscribed,
	}
	if !a.CreatedAt.IsZero() {
		u.CreatedAt = a.CreatedAt.UTC().Format(TimeLayout)
	}
	if a.LastSignInAt != nil {
		s := a.LastSignInAt.UTC().Format(TimeLayout)
		u.LastSignIn = &s
	}
	return u
}
