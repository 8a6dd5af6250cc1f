package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		expected string
	}{
		{
			name:     "lower-cases the domain portion",
			email:    "test1@EXAMPLE.com",
			expected: "test1@example.com",
		},
		{
			name:     "keeps the local part as submitted",
			email:    "Test1@EXAMPLE.COM",
			expected: "Test1@example.com",
		},
		{
			name:     "already normalized",
			email:    "user@example.com",
			expected: "user@example.com",
		},
		{
			name:     "trims surrounding whitespace",
			email:    "  user@Example.com ",
			expected: "user@example.com",
		},
		{
			name:     "no at sign passes through",
			email:    "not-an-email",
			expected: "not-an-email",
		},
		{
			name:     "empty string",
			email:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeEmail(tt.email))
		})
	}
}

func TestNormalizeEmail_CaseVariantsCollide(t *testing.T) {
	// Two registrations differing only by domain case must map to the same
	// stored email so the unique index rejects the second one.
	assert.Equal(t,
		NormalizeEmail("test1@EXAMPLE.com"),
		NormalizeEmail("test1@example.com"),
	)
}

func TestUserFullName(t *testing.T) {
	tests := []struct {
		name     string
		user     User
		expected string
	}{
		{
			name:     "both names",
			user:     User{FirstName: "Some", LastName: "User"},
			expected: "Some User",
		},
		{
			name:     "first name only",
			user:     User{FirstName: "Some"},
			expected: "Some",
		},
		{
			name:     "no names",
			user:     User{},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.user.FullName())
		})
	}
}
