package lawyerRepo

import (
	"fmt"
	"time"

	"lawlink/database/repository"
	"lawlink/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Search returns one page of active lawyers matching the filter,
// sorted by averageRating desc then totalReviews desc, plus the total
// number of matches.
func (r *MongoLawyerRepo) Search(filter SearchFilter) ([]models.Lawyer, int64, error) {
	query := bson.M{"isActive": true}
	if filter.Specialization != "" {
		query["specializations"] = bson.M{"$in": []string{filter.Specialization}}
	}
	if filter.Language != "" {
		query["languagesSpoken"] = bson.M{"$in": []string{filter.Language}}
	}
	if filter.MinRating > 0 {
		query["averageRating"] = bson.M{"$gte": filter.MinRating}
	}
	if filter.MaxFeePerHour > 0 {
		query["fees.perHour"] = bson.M{"$lte": filter.MaxFeePerHour}
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 12
	}

	var lawyers []models.Lawyer
	var total int64
	err := repository.WithRetry("lawyers.search", func() error {
		ctx, cancel := newContext(10 * time.Second)
		defer cancel()

		opts := options.Find().
			SetSort(bson.D{{Key: "averageRating", Value: -1}, {Key: "totalReviews", Value: -1}}).
			SetSkip(int64((page - 1) * pageSize)).
			SetLimit(int64(pageSize))

		cursor, err := r.coll.Find(ctx, query, opts)
		if err != nil {
			return err
		}
		defer cursor.Close(ctx)

		lawyers = lawyers[:0]
		if err := cursor.All(ctx, &lawyers); err != nil {
			return err
		}

		total, err = r.coll.CountDocuments(ctx, query)
		return err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search lawyers: %w", err)
	}
	return lawyers, total, nil
}
