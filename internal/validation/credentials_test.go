package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		errMsg   string
	}{
		{name: "valid", username: "hanako"},
		{name: "min length", username: "abc"},
		{name: "max length", username: strings.Repeat("a", 20)},
		{name: "kana counted as characters", username: "はなこ"},
		{name: "empty", username: "", errMsg: "username cannot be empty"},
		{name: "blank", username: "   ", errMsg: "username cannot be empty"},
		{name: "too short", username: "ab", errMsg: "username must be between 3 and 20 characters"},
		{name: "too long", username: strings.Repeat("a", 21), errMsg: "username must be between 3 and 20 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.errMsg, err.Error())
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{name: "valid", email: "hanako@example.com"},
		{name: "plus and dots", email: "hana.ko+jp@mail.example.jp"},
		{name: "empty", email: "", wantErr: true},
		{name: "no at", email: "hanako.example.com", wantErr: true},
		{name: "no tld", email: "hanako@example", wantErr: true},
		{name: "too long", email: strings.Repeat("a", 40) + "@example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("secret"))
	assert.NoError(t, ValidatePassword(strings.Repeat("x", 40)))
	assert.EqualError(t, ValidatePassword(""), "password cannot be empty")
	assert.EqualError(t, ValidatePassword("12345"), "password must be between 6 and 40 characters")
	assert.EqualError(t, ValidatePassword(strings.Repeat("x", 41)), "password must be between 6 and 40 characters")
}

func TestValidateRegistration(t *testing.T) {
	require.NoError(t, ValidateRegistration("hanako", "hanako@example.com", "secret"))

	err := ValidateRegistration("ab", "bad", "123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "username must be between")
	assert.Contains(t, err.Error(), "not a valid address")
	assert.Contains(t, err.Error(), "password must be between")
}
