package utils

import "github.com/google/uuid"

// GenerateResetCode returns a single-use password reset code.
func GenerateResetCode() string {
	return uuid.NewString()
}
