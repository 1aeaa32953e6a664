package lawyerRepo

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

// MongoLawyerRepo implements LawyerRepository using MongoDB.
type MongoLawyerRepo struct {
	coll *mongo.Collection
}

// NewMongoLawyerRepo creates a new instance of LawyerRepository using MongoDB.
func NewMongoLawyerRepo() LawyerRepository {
	repo := &MongoLawyerRepo{coll: database.Collection("lawyers")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return repository.NewContext(timeout)
}

func (r *MongoLawyerRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "externalId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "barRegistrationNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "specializations", Value: 1}}},
		{Keys: bson.D{{Key: "averageRating", Value: -1}, {Key: "totalReviews", Value: -1}}},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new lawyer profile document.
func (r *MongoLawyerRepo) Create(lawyer *models.Lawyer) error {
	now := time.Now()
	lawyer.CreatedAt = now
	lawyer.UpdatedAt = now

	err := repository.WithRetry("lawyers.create", func() error {
		ctx, cancel := newContext(5 * time.Second)
		defer cancel()
		_, err := r.coll.InsertOne(ctx, lawyer)
		return err
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.AlreadyExists("Lawyer profile already exists")
		}
		return fmt.Errorf("failed to create lawyer: %w", err)
	}
	return nil
}

func (r *MongoLawyerRepo) findOne(op string, filter bson.M) (*models.Lawyer, error) {
	var lawyer models.Lawyer
	err := repository.WithRetry(op, func() error {
		ctx, cancel := newContext(5 * time.Second)
		defer cancel()
		return r.coll.FindOne(ctx, filter).Decode(&lawyer)
	})
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &lawyer, nil
}

// GetByID retrieves a lawyer by its unique ID.
func (r *MongoLawyerRepo) GetByID(id string) (*models.Lawyer, error) {
	return r.findOne("lawyers.getByID", bson.M{"id": id})
}

// GetByUserID retrieves the lawyer owned by the given user.
func (r *MongoLawyerRepo) GetByUserID(userID string) (*models.Lawyer, error) {
	return r.findOne("lawyers.getByUserID", bson.M{"userId": userID})
}
