package models

import "strings"

// FullName joins first and last name, falling back to the username.
func (u *User) FullName() string {
	full := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if full == "" {
		return u.Username
	}
	return full
}

// BeforeCreate stamps the creation time.
func (u *User) BeforeCreate() {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = Now()
	}
}

// Validate trims the profile fields and checks the registration. The password is left as typed.
func (r *Registration) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	return validate.Struct(r)
}
