package postgres

import (
	"github.com/google/uuid"
)

// UUIDGenerator generates UUIDv4 entity IDs.
type UUIDGenerator struct{}

// NewUUIDGenerator creates a new UUIDGenerator.
func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate generates a new UUID string.
func (g *UUIDGenerator) Generate() string {
	return uuid.NewString()
}
