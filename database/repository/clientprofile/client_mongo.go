package clientRepo

import (
	"context"
	"fmt"
	"time"

	"lawlink/database"
	"lawlink/database/repository"
	"lawlink/models"
	"lawlink/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoClientRepo implements ClientRepository using MongoDB.
type MongoClientRepo struct {
	coll *mongo.Collection
}

// NewMongoClientRepo creates a new instance of ClientRepository using MongoDB.
func NewMongoClientRepo() ClientRepository {
	repo := &MongoClientRepo{coll: database.Collection("clients")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return repository.NewContext(timeout)
}

func (r *MongoClientRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "externalId", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new client profile document.
func (r *MongoClientRepo) Create(client *models.Client) error {
	now := time.Now()
	client.CreatedAt = now
	client.UpdatedAt = now

	err := repository.WithRetry("clients.create", func() error {
		ctx, cancel := newContext(5 * time.Second)
		defer cancel()
		_, err := r.coll.InsertOne(ctx, client)
		return err
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.AlreadyExists("Client profile already exists")
		}
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

func (r *MongoClientRepo) findOne(op string, filter bson.M) (*models.Client, error) {
	var client models.Client
	err := repository.WithRetry(op, func() error {
		ctx, cancel := newContext(5 * time.Second)
		defer cancel()
		return r.coll.FindOne(ctx, filter).Decode(&client)
	})
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &client, nil
}

// GetByID retrieves a client profile by its unique ID.
func (r *MongoClientRepo) GetByID(id string) (*models.Client, error) {
	return r.findOne("clients.getByID", bson.M{"id": id})
}

// GetByUserID retrieves the profile owned by the given user.
func (r *MongoClientRepo) GetByUserID(userID string) (*models.Client, error) {
	return r.findOne("clients.getByUserID", bson.M{"userId": userID})
}

// UpdateFields applies a $set patch and returns the updated profile.
func (r *MongoClientRepo) UpdateFields(id string, fields bson.M) (*models.Client, error) {
	set := bson.M{"updatedAt": time.Now()}
	for k, v := range fields {
		set[k] = v
	}

	var updated models.Client
	err := repository.WithRetry("clients.updateFields", func() error {
		ctx, cancel := newContext(5 * time.Second)
		defer cancel()

		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		return r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	})
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update client with id %s: %w", id, err)
	}
	return &updated, nil
}
