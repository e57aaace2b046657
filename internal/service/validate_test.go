package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/unclebandit/hey-mailer/internal/errors"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		address string
		valid   bool
	}{
		{"test1@example.com", true},
		{"first.last+tag@sub.example.co.uk", true},
		{"another@test.com", true},
		{"", false},
		{"   ", false},
		{" test@example.com", false},
		{"invalid-email", false},
		{"test.example.com", false},
		{"@example.com", false},
		{"test@", false},
		{"test@localhost", false},
		{"test@example..com", false},
		{"Jane <jane@example.com>", false},
		{"a@b@example.com", false},
		{"test@-example.com", false},
		{"test@example-.com", false},
		{"test@exa_mple.com", false},
		{"test@1.2", false},
		{"test@example.c", false},
		{"test@example.c0m", false},
		{"tést@example.com", false},
		{"test@exämple.com", false},
		{"test.@example.com", false},
		{"a..b@example.com", false},
		{"test@my-host.example.com", true},
		{"test@123.example.io", true},
	}
	for _, tt := range tests {
		t.Run(tt.address, func(t *testing.T) {
			err := ValidateEmail(tt.address)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperrors.IsValidation(err), "want validation error, got %v", err)
		})
	}
}
