package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/SinArtur/Sstu-DB/core/session"
)

// DefaultSessionCollection is the collection used when none is configured.
const DefaultSessionCollection = "client_sessions"

var _ session.Store = (*SessionStore)(nil)

type sessionDocument struct {
	Key       string    `bson:"_id"`
	Data      []byte    `bson:"data"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// SessionStore keeps one document per session key.
type SessionStore struct {
	coll *mongo.Collection
}

// NewSessionStore creates a store on the given collection of db.
func NewSessionStore(db *mongo.Database, collection string) *SessionStore {
	if collection == "" {
		collection = DefaultSessionCollection
	}
	return &SessionStore{coll: db.Collection(collection)}
}

// Load implements session.Store.
func (s *SessionStore) Load(ctx context.Context, key string) ([]byte, error) {
	var doc sessionDocument
	if err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: key}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, session.ErrNotFound
		}
		return nil, errors.Join(ErrSessionStore, err)
	}
	return doc.Data, nil
}

// Save implements session.Store.
func (s *SessionStore) Save(ctx context.Context, key string, data []byte) error {
	doc := sessionDocument{Key: key, Data: data, UpdatedAt: time.Now().UTC()}
	_, err := s.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: key}}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Join(ErrSessionStore, err)
	}
	return nil
}
