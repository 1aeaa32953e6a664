package lawyer

import (
	"fmt"
	"regexp"

	"lawlink/models"
	"lawlink/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

var timeOfDay = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// GetAvailability returns the lawyer's weekly template.
func (s *DefaultLawyerService) GetAvailability(lawyerID string) ([]models.DayAvailability, error) {
	lawyer, err := s.Lawyers.GetByID(lawyerID)
	if err != nil {
		return nil, err
	}
	if lawyer == nil {
		return nil, utils.NotFound("Lawyer not found")
	}
	if lawyer.Availability == nil {
		return []models.DayAvailability{}, nil
	}
	return lawyer.Availability, nil
}

// SetAvailability replaces the weekly template wholesale. The template
// is descriptive; bookings are not validated against it.
func (s *DefaultLawyerService) SetAvailability(caller *models.Caller, lawyerID string, availability []models.DayAvailability) ([]models.DayAvailability, error) {
	lawyer, err := s.owned(caller, lawyerID)
	if err != nil {
		return nil, err
	}
	if err := validateAvailability(availability); err != nil {
		return nil, err
	}

	updated, err := s.Lawyers.UpdateFields(lawyer.ID, bson.M{"availability": availability})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, utils.NotFound("Lawyer not found")
	}
	s.Logger.Info("Availability updated",
		zap.String("lawyerId", lawyer.ID), zap.Int("days", len(availability)))
	return updated.Availability, nil
}

func validateAvailability(availability []models.DayAvailability) error {
	seen := make(map[string]bool, len(availability))
	for _, day := range availability {
		if !validDay(day.Day) {
			return utils.InvalidInput(fmt.Sprintf("Invalid day of week: %q", day.Day))
		}
		if seen[day.Day] {
			return utils.InvalidInput(fmt.Sprintf("Duplicate day of week: %q", day.Day))
		}
		seen[day.Day] = true
		for _, slot := range day.Slots {
			if !timeOfDay.MatchString(slot.StartTime) || !timeOfDay.MatchString(slot.EndTime) {
				return utils.InvalidInput("Time slots must use 24-hour HH:MM format")
			}
			if slot.StartTime >= slot.EndTime {
				return utils.InvalidInput("Slot start time must precede end time")
			}
		}
	}
	return nil
}

func validDay(day string) bool {
	for _, d := range models.DaysOfWeek {
		if d == day {
			return true
		}
	}
	return false
}
