package domain

import "time"

// User represents an authenticated principal. Users are owned by the external
// user-management system; this service only reads them during token
// validation.
type User struct {
	ID        string    `bson:"_id,omitempty"`
	Email     string    `bson:"email,unique"`
	FirstName string    `bson:"first_name,omitempty"`
	LastName  string    `bson:"last_name,omitempty"`
	IsActive  bool      `bson:"is_active"`
	RoleID    string    `bson:"role_id,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`

	// Role is populated by the validator's eager load; it is never persisted
	// on the user document itself.
	Role *Role `bson:"-"`
}

// Role groups zero or more permissions. Permissions are passthrough data for
// this service: no authorization branch consumes them, they simply ride along
// on the validated user.
type Role struct {
	ID            string   `bson:"_id,omitempty"`
	Name          string   `bson:"name,unique"`
	PermissionIDs []string `bson:"permission_ids,omitempty"`

	Permissions []*Permission `bson:"-"`
}

// Permission is a named capability attached to roles.
type Permission struct {
	ID   string `bson:"_id,omitempty"`
	Name string `bson:"name,unique"`
}
