package lawyerRepo

import (
	"fmt"
	"time"

	"lawlink/database/repository"
	"lawlink/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UpdateFields applies a $set patch and returns the updated profile.
// The allow-list lives in the service layer; this method writes
// whatever it is handed, plus updatedAt.
func (r *MongoLawyerRepo) UpdateFields(id string, fields bson.M) (*models.Lawyer, error) {
	set := bson.M{"updatedAt": time.Now()}
	for k, v := range fields {
		set[k] = v
	}

	var updated models.Lawyer
	err := repository.WithRetry("lawyers.updateFields", func() error {
		ctx, cancel := newContext(5 * time.Second)
		defer cancel()

		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		return r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	})
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update lawyer with id %s: %w", id, err)
	}
	return &updated, nil
}

// Deactivate soft-deletes the profile by clearing isActive.
func (r *MongoLawyerRepo) Deactivate(id string) error {
	var result *mongo.UpdateResult
	err := repository.WithRetry("lawyers.deactivate", func() error {
		ctx, cancel := newContext(5 * time.Second)
		defer cancel()
		var err error
		result, err = r.coll.UpdateOne(ctx, bson.M{"id": id},
			bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now()}})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to deactivate lawyer with id %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("lawyer with id %s not found", id)
	}
	return nil
}

// IncrementCasesSolved bumps totalCasesSolved by one.
func (r *MongoLawyerRepo) IncrementCasesSolved(id string) error {
	err := repository.WithRetry("lawyers.incrementCasesSolved", func() error {
		ctx, cancel := newContext(5 * time.Second)
		defer cancel()
		_, err := r.coll.UpdateOne(ctx, bson.M{"id": id},
			bson.M{
				"$inc": bson.M{"totalCasesSolved": 1},
				"$set": bson.M{"updatedAt": time.Now()},
			})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to increment cases solved for lawyer %s: %w", id, err)
	}
	return nil
}

// UpdateRating writes the derived rating fields guarded by the
// ratingVersion so concurrent aggregations cannot clobber each other.
// A false return means the version moved underneath the caller.
func (r *MongoLawyerRepo) UpdateRating(id string, averageRating float64, totalReviews int, expectedVersion int64) (bool, error) {
	var result *mongo.UpdateResult
	err := repository.WithRetry("lawyers.updateRating", func() error {
		ctx, cancel := newContext(5 * time.Second)
		defer cancel()

		filter := bson.M{"id": id, "ratingVersion": expectedVersion}
		update := bson.M{
			"$set": bson.M{
				"averageRating": averageRating,
				"totalReviews":  totalReviews,
				"updatedAt":     time.Now(),
			},
			"$inc": bson.M{"ratingVersion": 1},
		}
		var err error
		result, err = r.coll.UpdateOne(ctx, filter, update)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("failed to update rating for lawyer %s: %w", id, err)
	}
	return result.MatchedCount == 1, nil
}
