package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/skyline-media/realtime-relay/domain"
)

// SessionRepositoryMongo implements domain.SessionRepository using MongoDB.
type SessionRepositoryMongo struct {
	collection *mongo.Collection
}

// NewSessionRepositoryMongo creates a new SessionRepositoryMongo and ensures
// the collection's indexes.
func NewSessionRepositoryMongo(ctx context.Context, db *mongo.Database) (domain.SessionRepository, error) {
	repo := &SessionRepositoryMongo{
		collection: db.Collection(SessionsCollection),
	}

	indexModels := []mongo.IndexModel{
		{
			// Token is the hot-path lookup key and must be unique.
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index(), // Not unique, user can have multiple sessions
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0), // TTL index for automatic cleanup
		},
	}

	opts := options.CreateIndexes()
	_, err := repo.collection.Indexes().CreateMany(ctx, indexModels, opts)
	if err != nil {
		log.Warn().Err(err).Msg("Issue creating indexes for relay_sessions collection (might already exist)")
	} else {
		log.Info().Msg("Indexes for relay_sessions collection ensured.")
	}

	return repo, nil
}

// GetSessionByToken retrieves a session by exact token match. No
// normalization is applied; the comparison is case-sensitive by construction.
func (r *SessionRepositoryMongo) GetSessionByToken(ctx context.Context, token string) (*domain.Session, error) {
	var session domain.Session
	err := r.collection.FindOne(ctx, bson.M{"token": token}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSessionNotFound
		}
		log.Error().Err(err).Msg("Error getting session by token from MongoDB")
		return nil, err
	}
	return &session, nil
}

// StoreSession creates a new session. Used by tooling and tests; the relay's
// request path never writes sessions.
func (r *SessionRepositoryMongo) StoreSession(ctx context.Context, session *domain.Session) error {
	if session.ID == "" {
		session.ID = NewID()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}

	_, err := r.collection.InsertOne(ctx, session)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.New("session with this ID or token already exists")
		}
		log.Error().Err(err).Msg("Error storing session in MongoDB")
		return err
	}
	return nil
}

// RevokeSession marks a session inactive.
func (r *SessionRepositoryMongo) RevokeSession(ctx context.Context, id string) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"is_active": false}},
	)
	if err != nil {
		log.Error().Err(err).Str("sessionID", id).Msg("Error revoking session in MongoDB")
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

// ListSessionsByUserID retrieves sessions for a user, optionally filtered.
func (r *SessionRepositoryMongo) ListSessionsByUserID(ctx context.Context, userID string, filter domain.SessionFilter) ([]*domain.Session, error) {
	mongoFilter := bson.M{"user_id": userID}
	if filter.IsActive != nil {
		mongoFilter["is_active"] = *filter.IsActive
	}
	if !filter.FromDate.IsZero() || !filter.ToDate.IsZero() {
		dateFilter := bson.M{}
		if !filter.FromDate.IsZero() {
			dateFilter["$gte"] = filter.FromDate
		}
		if !filter.ToDate.IsZero() {
			dateFilter["$lte"] = filter.ToDate
		}
		mongoFilter["created_at"] = dateFilter
	}

	cursor, err := r.collection.Find(ctx, mongoFilter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("Error listing sessions by user ID from MongoDB")
		return nil, err
	}
	defer cursor.Close(ctx)

	var sessions []*domain.Session
	if err = cursor.All(ctx, &sessions); err != nil {
		log.Error().Err(err).Msg("Error decoding listed sessions from MongoDB")
		return nil, err
	}
	return sessions, nil
}

// DeleteExpiredSessions removes sessions past their expiry. The TTL index
// already covers this; relayctl exposes it for immediate cleanup.
func (r *SessionRepositoryMongo) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lte": time.Now().UTC()}})
	if err != nil {
		log.Error().Err(err).Msg("Error deleting expired sessions from MongoDB")
		return 0, err
	}
	return result.DeletedCount, nil
}

// Ensure interface compliance
var _ domain.SessionRepository = (*SessionRepositoryMongo)(nil)
