package mongodb

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/skyline-media/realtime-relay/domain"
)

// RoleRepository implements domain.RoleRepository using MongoDB.
type RoleRepository struct {
	roles       *mongo.Collection
	permissions *mongo.Collection
}

// NewRoleRepository creates a new RoleRepository.
func NewRoleRepository(db *mongo.Database) domain.RoleRepository {
	return &RoleRepository{
		roles:       db.Collection(RolesCollection),
		permissions: db.Collection(PermissionsCollection),
	}
}

// GetRoleWithPermissions loads a role and resolves its permission ids into
// permission documents. Two round trips per lookup; the validation path
// accepts the read amplification and the session cache absorbs most of it.
func (r *RoleRepository) GetRoleWithPermissions(ctx context.Context, id string) (*domain.Role, error) {
	var role domain.Role
	err := r.roles.FindOne(ctx, bson.M{"_id": id}).Decode(&role)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRoleNotFound
		}
		log.Error().Err(err).Str("id", id).Msg("Error getting role from MongoDB")
		return nil, err
	}

	if len(role.PermissionIDs) == 0 {
		return &role, nil
	}

	cursor, err := r.permissions.Find(ctx, bson.M{"_id": bson.M{"$in": role.PermissionIDs}})
	if err != nil {
		log.Error().Err(err).Str("roleID", id).Msg("Error loading role permissions from MongoDB")
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &role.Permissions); err != nil {
		log.Error().Err(err).Msg("Error decoding role permissions from MongoDB")
		return nil, err
	}

	return &role, nil
}

// Ensure interface compliance
var _ domain.RoleRepository = (*RoleRepository)(nil)
