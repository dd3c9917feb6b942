// Package identity adapts the external identity provider that holds a parallel
// copy of each account (Firebase Authentication in production).
package identity

// NewUser is the provider-side account created at registration. Phone is E.164.
type NewUser struct {
	Email       string
	Password    string
	DisplayName string
	Phone       string
}
