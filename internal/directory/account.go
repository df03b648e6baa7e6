// Package directory holds the admin user-directory domain shared by the
// server and the client: accounts, aggregate subscription statistics and
// the display ordering of the list.
package directory

import (
	"strings"
	"time"
)

// DefaultProvider is reported when the identity provider did not tag an
// account with the method it signed up with.
const DefaultProvider = "email"

// UnknownName is the display name of an account with neither a profile
// name nor a usable email.
const UnknownName = "N/A"

// Account is a registered principal as seen by an administrator.
//
// CreatedAt is the zero time when the source value was missing or could not
// be parsed. LastSignInAt is nil for accounts that never signed in.
type Account struct {
	ID           string
	Email        string
	DisplayName  string
	CreatedAt    time.Time
	LastSignInAt *time.Time
	AuthProvider string
	IsSubscribed bool
}

// DisplayName picks the profile name, then the local part of the email,
// then UnknownName.
func DisplayName(profileName, email string) string {
	if name := strings.TrimSpace(profileName); name != "" {
		return name
	}
	if local, _, _ := strings.Cut(email, "@"); strings.TrimSpace(local) != "" {
		return local
	}
	return UnknownName
}

// IsSubscribed reports whether a billing profile carries both identifiers
// a paid subscription needs.
func IsSubscribed(customerID, priceID string) bool {
	return customerID != "" && priceID != ""
}
