package utils

import (
	"github.com/google/uuid"
)

// GenerateUUIDv7 returns a time-ordered UUID so ids sort by creation.
func GenerateUUIDv7() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		// v7 only fails if the entropy source does; fall back to v4
		return uuid.New()
	}
	return id
}
