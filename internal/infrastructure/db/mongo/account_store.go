package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/userhub/account-service/internal/core/domain"
)

const (
	accountsCollection = "users"
	emailIndexName     = "users_email_unique"
)

// AccountStore implements ports.AccountStore on a MongoDB collection. Email
// uniqueness is enforced by a unique index created in Initialize.
type AccountStore struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewAccountStore(db *mongo.Database, timeout time.Duration) *AccountStore {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &AccountStore{coll: db.Collection(accountsCollection), timeout: timeout}
}

type mongoAccount struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	CreatedAt int64              `bson:"created_at"`
}

// Initialize creates the unique email index. CreateOne is a no-op when an
// identical index already exists. The caller bounds the call.
func (s *AccountStore) Initialize(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName(emailIndexName).SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create email index: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *AccountStore) Insert(ctx context.Context, name, email, passwordHash string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	doc := mongoAccount{
		Name:      name,
		Email:     email,
		Password:  passwordHash,
		CreatedAt: time.Now().UTC().Unix(),
	}

	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", domain.ErrEmailExists
		}
		return "", fmt.Errorf("insert account: %w: %w", domain.ErrStoreUnavailable, err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("insert account: unexpected id type %T", res.InsertedID)
	}
	return id.Hex(), nil
}

func (s *AccountStore) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var doc mongoAccount
	if err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return doc.toDomain(), nil
}

// Ping reports whether the backing deployment is reachable.
func (s *AccountStore) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, nil)
}

func (d mongoAccount) toDomain() *domain.Account {
	return &domain.Account{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.Password,
	}
}
