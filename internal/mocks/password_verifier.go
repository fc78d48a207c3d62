package mocks

import (
	"github.com/studyhall/studyhall-api/internal/service/auth"
)

// MockPasswordVerifier implements auth.PasswordVerifier for testing
type MockPasswordVerifier struct {
	HashPasswordFn func(password string) (string, error)
	CompareFn      func(hashedPassword, password string) error

	// Default responses used when the corresponding Fn is nil
	Hash string
	Err  error
}

var _ auth.PasswordVerifier = (*MockPasswordVerifier)(nil)

func (m *MockPasswordVerifier) HashPassword(password string) (string, error) {
	if m.HashPasswordFn != nil {
		return m.HashPasswordFn(password)
	}
	return m.Hash, m.Err
}

func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	return m.Err
}
