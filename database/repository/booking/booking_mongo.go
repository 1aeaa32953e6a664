package bookingRepo

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

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo creates a new instance of BookingRepository using MongoDB.
func NewMongoBookingRepo() BookingRepository {
	repo := &MongoBookingRepo{coll: database.Collection("bookings")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return repository.NewContext(timeout)
}

func (r *MongoBookingRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "clientId", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "lawyerId", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "preferredDate", Value: 1}}},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new booking document.
func (r *MongoBookingRepo) Create(booking *models.Booking) error {
	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	err := repository.WithRetry("bookings.create", func() error {
		ctx, cancel := newContext(5 * time.Second)
		defer cancel()
		_, err := r.coll.InsertOne(ctx, booking)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// GetByID retrieves a booking by its unique ID.
func (r *MongoBookingRepo) GetByID(id string) (*models.Booking, error) {
	var booking models.Booking
	err := repository.WithRetry("bookings.getByID", func() error {
		ctx, cancel := newContext(5 * time.Second)
		defer cancel()
		return r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking)
	})
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch booking with id %s: %w", id, err)
	}
	return &booking, nil
}

func (r *MongoBookingRepo) list(op string, query bson.M) ([]models.Booking, error) {
	var bookings []models.Booking
	err := repository.WithRetry(op, func() error {
		ctx, cancel := newContext(10 * time.Second)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := r.coll.Find(ctx, query, opts)
		if err != nil {
			return err
		}
		defer cursor.Close(ctx)

		bookings = bookings[:0]
		return cursor.All(ctx, &bookings)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// ListByClient returns the client's bookings newest-first.
func (r *MongoBookingRepo) ListByClient(clientID string, status models.BookingStatus) ([]models.Booking, error) {
	query := bson.M{"clientId": clientID}
	if status != "" {
		query["status"] = status
	}
	return r.list("bookings.listByClient", query)
}

// ListByLawyer returns the lawyer's bookings newest-first.
func (r *MongoBookingRepo) ListByLawyer(lawyerID string, status models.BookingStatus) ([]models.Booking, error) {
	query := bson.M{"lawyerId": lawyerID}
	if status != "" {
		query["status"] = status
	}
	return r.list("bookings.listByLawyer", query)
}
