package mongodb

import "github.com/google/uuid"

// NewID generates a new document id. UUIDs keep ids opaque and sortable-free;
// nothing in the relay depends on ObjectID timestamps.
func NewID() string {
	return uuid.NewString()
}
