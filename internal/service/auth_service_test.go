package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Validation runs before any persistence access, so a service with no store
// is enough to exercise it.

func TestRegisterValidation(t *testing.T) {
	as := NewAuthService(nil)
	ctx := context.Background()

	cases := []struct {
		name     string
		username string
		password string
		role     string
	}{
		{"empty username", "", "secret", "user"},
		{"empty password", "alice", "", "user"},
		{"empty role", "alice", "secret", ""},
		{"whitespace only", "   ", "  ", "user"},
		{"unknown role", "alice", "secret", "superuser"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := as.Register(ctx, tc.username, tc.password, tc.role)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestLoginValidation(t *testing.T) {
	as := NewAuthService(nil)
	ctx := context.Background()

	_, err := as.Login(ctx, "", "secret")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = as.Login(ctx, "alice", "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = as.Login(ctx, "  ", "  ")
	assert.ErrorIs(t, err, ErrValidation)
}
