package utils

import "github.com/google/uuid"

// IsUUID reports whether s is a well-formed entity identifier.
func IsUUID(s string) bool {
	if s == "" {
		return false
	}

	_, err := uuid.Parse(s)

	return err == nil
}
