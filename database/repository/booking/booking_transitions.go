package bookingRepo

import (
	"fmt"
	"time"

	"lawlink/database/repository"
	"lawlink/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Transition applies set to the booking iff its current status is one
// of from. Filtering on (id, status) in the same UpdateOne is the
// optimistic concurrency check: two racing transitions cannot both
// match, and a transition from the wrong state matches nothing.
func (r *MongoBookingRepo) Transition(id string, from []models.BookingStatus, set bson.M) (bool, error) {
	statuses := make([]string, 0, len(from))
	for _, s := range from {
		statuses = append(statuses, string(s))
	}

	patch := bson.M{"updatedAt": time.Now()}
	for k, v := range set {
		patch[k] = v
	}

	var result *mongo.UpdateResult
	err := repository.WithRetry("bookings.transition", func() error {
		ctx, cancel := newContext(5 * time.Second)
		defer cancel()

		filter := bson.M{"id": id, "status": bson.M{"$in": statuses}}
		var err error
		result, err = r.coll.UpdateOne(ctx, filter, bson.M{"$set": patch})
		return err
	})
	if err != nil {
		return false, fmt.Errorf("failed to transition booking %s: %w", id, err)
	}
	return result.MatchedCount == 1, nil
}

// UpdateFields applies a non-transition $set patch and returns the
// updated booking.
func (r *MongoBookingRepo) UpdateFields(id string, fields bson.M) (*models.Booking, error) {
	set := bson.M{"updatedAt": time.Now()}
	for k, v := range fields {
		set[k] = v
	}

	var updated models.Booking
	err := repository.WithRetry("bookings.updateFields", func() error {
		ctx, cancel := newContext(5 * time.Second)
		defer cancel()

		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		return r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	})
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update booking with id %s: %w", id, err)
	}
	return &updated, nil
}
