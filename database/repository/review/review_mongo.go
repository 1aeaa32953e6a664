package reviewRepo

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

// MongoReviewRepo implements ReviewRepository using MongoDB.
type MongoReviewRepo struct {
	coll *mongo.Collection
}

// NewMongoReviewRepo creates a new instance of ReviewRepository using MongoDB.
func NewMongoReviewRepo() ReviewRepository {
	repo := &MongoReviewRepo{coll: database.Collection("reviews")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return repository.NewContext(timeout)
}

func (r *MongoReviewRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	// The unique bookingId index is what enforces one review per
	// booking under concurrent submissions.
	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "bookingId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "lawyerId", Value: 1}, {Key: "isVisible", Value: 1}}},
		{Keys: bson.D{{Key: "clientId", Value: 1}}},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new review document.
func (r *MongoReviewRepo) Create(review *models.Review) error {
	now := time.Now()
	review.CreatedAt = now
	review.UpdatedAt = now

	err := repository.WithRetry("reviews.create", func() error {
		ctx, cancel := newContext(5 * time.Second)
		defer cancel()
		_, err := r.coll.InsertOne(ctx, review)
		return err
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.AlreadyExists("Review already exists for this booking")
		}
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

func (r *MongoReviewRepo) findOne(op string, filter bson.M) (*models.Review, error) {
	var review models.Review
	err := repository.WithRetry(op, func() error {
		ctx, cancel := newContext(5 * time.Second)
		defer cancel()
		return r.coll.FindOne(ctx, filter).Decode(&review)
	})
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &review, nil
}

// GetByID retrieves a review by its unique ID.
func (r *MongoReviewRepo) GetByID(id string) (*models.Review, error) {
	return r.findOne("reviews.getByID", bson.M{"id": id})
}

// GetByBookingID retrieves the review referencing a booking.
func (r *MongoReviewRepo) GetByBookingID(bookingID string) (*models.Review, error) {
	return r.findOne("reviews.getByBookingID", bson.M{"bookingId": bookingID})
}

func (r *MongoReviewRepo) find(op string, query bson.M, opts *options.FindOptions) ([]models.Review, error) {
	var reviews []models.Review
	err := repository.WithRetry(op, func() error {
		ctx, cancel := newContext(10 * time.Second)
		defer cancel()

		cursor, err := r.coll.Find(ctx, query, opts)
		if err != nil {
			return err
		}
		defer cursor.Close(ctx)

		reviews = reviews[:0]
		return cursor.All(ctx, &reviews)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

// ListVisibleByLawyer returns one newest-first page of visible reviews
// for the lawyer plus the total visible count.
func (r *MongoReviewRepo) ListVisibleByLawyer(lawyerID string, page, pageSize int) ([]models.Review, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	query := bson.M{"lawyerId": lawyerID, "isVisible": true}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	reviews, err := r.find("reviews.listVisibleByLawyer", query, opts)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	err = repository.WithRetry("reviews.countVisibleByLawyer", func() error {
		ctx, cancel := newContext(5 * time.Second)
		defer cancel()
		var err error
		total, err = r.coll.CountDocuments(ctx, query)
		return err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}
	return reviews, total, nil
}

// AllVisibleByLawyer returns every visible review for the lawyer.
func (r *MongoReviewRepo) AllVisibleByLawyer(lawyerID string) ([]models.Review, error) {
	return r.find("reviews.allVisibleByLawyer",
		bson.M{"lawyerId": lawyerID, "isVisible": true}, options.Find())
}

// ListVisible returns visible reviews newest-first, optionally
// restricted to one lawyer.
func (r *MongoReviewRepo) ListVisible(lawyerID string) ([]models.Review, error) {
	query := bson.M{"isVisible": true}
	if lawyerID != "" {
		query["lawyerId"] = lawyerID
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find("reviews.listVisible", query, opts)
}

// SetResponse stores the lawyer's response iff none exists yet. The
// conditional filter makes "respond once" hold under races.
func (r *MongoReviewRepo) SetResponse(id, response string) (bool, error) {
	var result *mongo.UpdateResult
	err := repository.WithRetry("reviews.setResponse", func() error {
		ctx, cancel := newContext(5 * time.Second)
		defer cancel()

		filter := bson.M{
			"id": id,
			"$or": bson.A{
				bson.M{"lawyerResponse": bson.M{"$exists": false}},
				bson.M{"lawyerResponse": ""},
			},
		}
		update := bson.M{"$set": bson.M{
			"lawyerResponse": response,
			"respondedAt":    time.Now(),
			"updatedAt":      time.Now(),
		}}
		var err error
		result, err = r.coll.UpdateOne(ctx, filter, update)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("failed to set response on review %s: %w", id, err)
	}
	return result.MatchedCount == 1, nil
}
