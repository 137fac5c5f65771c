package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserFullName(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{name: "both names", user: User{Username: "jdoe", FirstName: "John", LastName: "Doe"}, want: "John Doe"},
		{name: "first only", user: User{Username: "jdoe", FirstName: "John"}, want: "John"},
		{name: "last only", user: User{Username: "jdoe", LastName: "Doe"}, want: "Doe"},
		{name: "no names", user: User{Username: "jdoe"}, want: "jdoe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.FullName())
		})
	}
}

func TestRegistrationValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		r := Registration{Username: " alice ", Password: "correct horse"}
		assert.NoError(t, r.Validate())
		assert.Equal(t, "alice", r.Username)
	})

	t.Run("short password and username", func(t *testing.T) {
		r := Registration{Username: "al", Password: "short"}
		fields := FieldErrors(r.Validate())
		assert.Equal(t, []string{"Ensure this field has at least 3 characters."}, fields["username"])
		assert.Equal(t, []string{"Ensure this field has at least 8 characters."}, fields["password"])
	})
}
