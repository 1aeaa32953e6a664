package userRepo

import (
	"context"
	"fmt"
	"time"

	"lawlink/database"
	"lawlink/database/repository"
	"lawlink/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserRepo implements UserRepository using MongoDB.
type MongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo creates a new instance of UserRepository using MongoDB.
func NewMongoUserRepo() UserRepository {
	repo := &MongoUserRepo{coll: database.Collection("users")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return repository.NewContext(timeout)
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *MongoUserRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "externalId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoUserRepo) findOne(op string, filter bson.M) (*models.User, error) {
	var user models.User
	err := repository.WithRetry(op, func() error {
		ctx, cancel := newContext(5 * time.Second)
		defer cancel()
		return r.coll.FindOne(ctx, filter).Decode(&user)
	})
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}

// GetByID retrieves a user by its unique ID.
func (r *MongoUserRepo) GetByID(id string) (*models.User, error) {
	return r.findOne("users.getByID", bson.M{"id": id})
}

// GetByExternalID retrieves a user by the identity provider's subject.
func (r *MongoUserRepo) GetByExternalID(externalID string) (*models.User, error) {
	return r.findOne("users.getByExternalID", bson.M{"externalId": externalID})
}

// GetByEmail retrieves a user by its email address.
func (r *MongoUserRepo) GetByEmail(email string) (*models.User, error) {
	return r.findOne("users.getByEmail", bson.M{"email": email})
}

// GetManyByIDs retrieves the users whose ids appear in ids.
func (r *MongoUserRepo) GetManyByIDs(ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var users []models.User
	err := repository.WithRetry("users.getManyByIDs", func() error {
		ctx, cancel := newContext(10 * time.Second)
		defer cancel()

		cursor, err := r.coll.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
		if err != nil {
			return err
		}
		defer cursor.Close(ctx)

		users = users[:0]
		return cursor.All(ctx, &users)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve users: %w", err)
	}
	return users, nil
}

// Create inserts a new user document.
func (r *MongoUserRepo) Create(user *models.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	err := repository.WithRetry("users.create", func() error {
		ctx, cancel := newContext(5 * time.Second)
		defer cancel()
		_, err := r.coll.InsertOne(ctx, user)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Update modifies an existing user document.
func (r *MongoUserRepo) Update(user *models.User) error {
	user.UpdatedAt = time.Now()

	var result *mongo.UpdateResult
	err := repository.WithRetry("users.update", func() error {
		ctx, cancel := newContext(5 * time.Second)
		defer cancel()
		var err error
		result, err = r.coll.UpdateOne(ctx, bson.M{"id": user.ID}, bson.M{"$set": user})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to update user with id %s: %w", user.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("user with id %s not found", user.ID)
	}
	return nil
}
