package booking

import (
	"lawlink/models"

	"go.uber.org/zap"
)

// expand joins one booking with both party snapshots. Missing
// references degrade to zero-valued summaries rather than failing the
// read; referential integrity problems are logged, not surfaced.
func (s *DefaultBookingService) expand(b *models.Booking) (*models.BookingDetail, error) {
	details, err := s.expandMany([]models.Booking{*b})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// expandMany batches the user and lawyer lookups for a page of
// bookings: one GetManyByIDs for every referenced user plus one lawyer
// fetch per distinct lawyer.
func (s *DefaultBookingService) expandMany(bookings []models.Booking) ([]models.BookingDetail, error) {
	lawyers := make(map[string]*models.Lawyer)
	userIDs := make([]string, 0, len(bookings)*2)
	seen := make(map[string]bool)

	addUser := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			userIDs = append(userIDs, id)
		}
	}

	for _, b := range bookings {
		addUser(b.ClientID)
		if _, ok := lawyers[b.LawyerID]; ok {
			continue
		}
		lawyer, err := s.Lawyers.GetByID(b.LawyerID)
		if err != nil {
			return nil, err
		}
		lawyers[b.LawyerID] = lawyer
		if lawyer != nil {
			addUser(lawyer.UserID)
		}
	}

	users := make(map[string]models.UserSummary, len(userIDs))
	if len(userIDs) > 0 {
		fetched, err := s.Users.GetManyByIDs(userIDs)
		if err != nil {
			return nil, err
		}
		for i := range fetched {
			users[fetched[i].ID] = fetched[i].Summary()
		}
	}

	details := make([]models.BookingDetail, 0, len(bookings))
	for _, b := range bookings {
		detail := models.BookingDetail{Booking: b, Client: users[b.ClientID]}
		if lawyer := lawyers[b.LawyerID]; lawyer != nil {
			detail.Lawyer = lawyer.Summary(users[lawyer.UserID])
		} else {
			s.Logger.Warn("Booking references missing lawyer",
				zap.String("bookingId", b.ID), zap.String("lawyerId", b.LawyerID))
		}
		details = append(details, detail)
	}
	return details, nil
}
