package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Ограничения совпадают с серверными для /auth/register
const (
	MinUsernameLen = 3
	MaxUsernameLen = 20
	MaxEmailLen    = 50
	MinPasswordLen = 6
	MaxPasswordLen = 40
)

// EmailPattern is the server's basic address check.
var EmailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,6}$`)

// ValidateUsername проверяет длину username (в символах, не байтах)
func ValidateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("username cannot be empty")
	}
	n := utf8.RuneCountInString(username)
	if n < MinUsernameLen || n > MaxUsernameLen {
		return fmt.Errorf("username must be between %d and %d characters", MinUsernameLen, MaxUsernameLen)
	}
	return nil
}

func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("email cannot be empty")
	}
	if len(email) > MaxEmailLen {
		return fmt.Errorf("email must not exceed %d characters", MaxEmailLen)
	}
	if !EmailPattern.MatchString(email) {
		return fmt.Errorf("email %q is not a valid address", email)
	}
	return nil
}

// ValidatePassword checks the account password length.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}
	n := utf8.RuneCountInString(password)
	if n < MinPasswordLen || n > MaxPasswordLen {
		return fmt.Errorf("password must be between %d and %d characters", MinPasswordLen, MaxPasswordLen)
	}
	return nil
}

// ValidateRegistration runs all three checks and reports every failure.
func ValidateRegistration(username, email, password string) error {
	return errors.Join(
		ValidateUsername(username),
		ValidateEmail(email),
		ValidatePassword(password),
	)
}
