package review

import (
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	lawyerRepo "lawlink/database/repository/lawyer"
	"lawlink/models"
	"lawlink/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// ---- in-memory fakes ----

type memReviewRepo struct {
	mu      sync.Mutex
	reviews map[string]*models.Review
}

func newMemReviewRepo() *memReviewRepo {
	return &memReviewRepo{reviews: make(map[string]*models.Review)}
}

func (r *memReviewRepo) Create(review *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.reviews {
		if existing.BookingID == review.BookingID {
			return utils.AlreadyExists("Review already exists for this booking")
		}
	}
	cp := *review
	r.reviews[review.ID] = &cp
	return nil
}

func (r *memReviewRepo) GetByID(id string) (*models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rv, ok := r.reviews[id]
	if !ok {
		return nil, nil
	}
	cp := *rv
	return &cp, nil
}

func (r *memReviewRepo) GetByBookingID(bookingID string) (*models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rv := range r.reviews {
		if rv.BookingID == bookingID {
			cp := *rv
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memReviewRepo) visible(lawyerID string) []models.Review {
	var out []models.Review
	for _, rv := range r.reviews {
		if rv.IsVisible && (lawyerID == "" || rv.LawyerID == lawyerID) {
			out = append(out, *rv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *memReviewRepo) ListVisibleByLawyer(lawyerID string, page, pageSize int) ([]models.Review, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.visible(lawyerID)
	total := int64(len(all))
	start := (page - 1) * pageSize
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *memReviewRepo) AllVisibleByLawyer(lawyerID string) ([]models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.visible(lawyerID), nil
}

func (r *memReviewRepo) ListVisible(lawyerID string) ([]models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.visible(lawyerID), nil
}

func (r *memReviewRepo) SetResponse(id, response string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rv, ok := r.reviews[id]
	if !ok || rv.LawyerResponse != "" {
		return false, nil
	}
	now := time.Now()
	rv.LawyerResponse = response
	rv.RespondedAt = &now
	return true, nil
}

type memLawyerRepo struct {
	mu        sync.Mutex
	lawyers   map[string]*models.Lawyer
	casMisses int
}

func newMemLawyerRepo() *memLawyerRepo {
	return &memLawyerRepo{lawyers: make(map[string]*models.Lawyer)}
}

func (r *memLawyerRepo) Create(l *models.Lawyer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *l
	r.lawyers[l.ID] = &cp
	return nil
}

func (r *memLawyerRepo) GetByID(id string) (*models.Lawyer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lawyers[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r *memLawyerRepo) GetByUserID(userID string) (*models.Lawyer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.lawyers {
		if l.UserID == userID {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memLawyerRepo) UpdateFields(id string, fields bson.M) (*models.Lawyer, error) {
	l, err := r.GetByID(id)
	return l, err
}

func (r *memLawyerRepo) Search(filter lawyerRepo.SearchFilter) ([]models.Lawyer, int64, error) {
	return nil, 0, nil
}

func (r *memLawyerRepo) Deactivate(id string) error { return nil }

func (r *memLawyerRepo) IncrementCasesSolved(id string) error { return nil }

func (r *memLawyerRepo) UpdateRating(id string, averageRating float64, totalReviews int, expectedVersion int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lawyers[id]
	if !ok {
		return false, nil
	}
	if r.casMisses > 0 {
		r.casMisses--
		l.RatingVersion++
		return false, nil
	}
	if l.RatingVersion != expectedVersion {
		return false, nil
	}
	l.AverageRating = averageRating
	l.TotalReviews = totalReviews
	l.RatingVersion++
	return true, nil
}

type memBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{bookings: make(map[string]*models.Booking)}
}

func (r *memBookingRepo) Create(b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *memBookingRepo) GetByID(id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *memBookingRepo) ListByClient(clientID string, status models.BookingStatus) ([]models.Booking, error) {
	return nil, nil
}

func (r *memBookingRepo) ListByLawyer(lawyerID string, status models.BookingStatus) ([]models.Booking, error) {
	return nil, nil
}

func (r *memBookingRepo) Transition(id string, from []models.BookingStatus, set bson.M) (bool, error) {
	return false, nil
}

func (r *memBookingRepo) UpdateFields(id string, fields bson.M) (*models.Booking, error) {
	return r.GetByID(id)
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*models.User)}
}

func (r *memUserRepo) GetByID(id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByExternalID(externalID string) (*models.User, error) { return nil, nil }
func (r *memUserRepo) GetByEmail(email string) (*models.User, error)           { return nil, nil }

func (r *memUserRepo) GetManyByIDs(ids []string) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *memUserRepo) Create(u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) Update(u *models.User) error { return r.Create(u) }

// ---- fixtures ----

type fixture struct {
	svc      *DefaultReviewService
	reviews  *memReviewRepo
	bookings *memBookingRepo
	lawyers  *memLawyerRepo
	users    *memUserRepo

	client *models.Caller
	lawyer *models.Caller
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		reviews:  newMemReviewRepo(),
		bookings: newMemBookingRepo(),
		lawyers:  newMemLawyerRepo(),
		users:    newMemUserRepo(),
	}
	f.svc = &DefaultReviewService{
		Reviews:  f.reviews,
		Bookings: f.bookings,
		Lawyers:  f.lawyers,
		Users:    f.users,
		Logger:   zap.NewNop(),
	}

	require.NoError(t, f.users.Create(&models.User{
		ID: "user-client", FirstName: "Asha", LastName: "Rao",
		Role: models.RoleClient, OnboardingCompleted: true,
	}))
	require.NoError(t, f.users.Create(&models.User{
		ID: "user-lawyer", FirstName: "Meera", LastName: "Iyer",
		Role: models.RoleLawyer, OnboardingCompleted: true,
	}))
	require.NoError(t, f.lawyers.Create(&models.Lawyer{
		ID: "lawyer-1", UserID: "user-lawyer", IsActive: true,
	}))

	f.client = &models.Caller{UserID: "user-client", Role: models.RoleClient}
	f.lawyer = &models.Caller{UserID: "user-lawyer", Role: models.RoleLawyer}
	return f
}

func (f *fixture) completedBooking(t *testing.T, id string) {
	t.Helper()
	require.NoError(t, f.bookings.Create(&models.Booking{
		ID: id, ClientID: "user-client", LawyerID: "lawyer-1",
		Status: models.BookingCompleted, PaymentStatus: models.PaymentPaid,
	}))
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	se, ok := utils.AsServiceError(err)
	require.True(t, ok, "expected a service error, got %v", err)
	assert.Equal(t, code, se.Code)
}

// ---- tests ----

func TestSubmitRecomputesRating(t *testing.T) {
	f := newFixture(t)
	f.completedBooking(t, "booking-1")
	f.completedBooking(t, "booking-2")
	f.completedBooking(t, "booking-3")

	for i, rating := range []int{5, 4, 4} {
		bookingID := []string{"booking-1", "booking-2", "booking-3"}[i]
		detail, err := f.svc.Submit(f.client, SubmitRequest{
			BookingID: bookingID, Rating: rating, ReviewText: "Helpful session.",
		})
		require.NoError(t, err)
		assert.True(t, detail.IsVisible)
		assert.Equal(t, "Asha", detail.Client.FirstName)
	}

	lawyer, err := f.lawyers.GetByID("lawyer-1")
	require.NoError(t, err)
	// mean(5, 4, 4) = 4.333... rounded to two decimals.
	assert.Equal(t, 4.33, lawyer.AverageRating)
	assert.Equal(t, 3, lawyer.TotalReviews)
}

func TestSubmitOncePerBooking(t *testing.T) {
	f := newFixture(t)
	f.completedBooking(t, "booking-1")

	_, err := f.svc.Submit(f.client, SubmitRequest{BookingID: "booking-1", Rating: 5})
	require.NoError(t, err)

	_, err = f.svc.Submit(f.client, SubmitRequest{BookingID: "booking-1", Rating: 1})
	assertCode(t, err, utils.CodeAlreadyExists)

	lawyer, err := f.lawyers.GetByID("lawyer-1")
	require.NoError(t, err)
	assert.Equal(t, 5.0, lawyer.AverageRating)
	assert.Equal(t, 1, lawyer.TotalReviews)
}

func TestSubmitValidation(t *testing.T) {
	f := newFixture(t)
	f.completedBooking(t, "booking-1")

	for _, rating := range []int{0, 6, -1} {
		_, err := f.svc.Submit(f.client, SubmitRequest{BookingID: "booking-1", Rating: rating})
		assertCode(t, err, utils.CodeInvalidInput)
	}

	// Review text is capped at 1000 characters.
	_, err := f.svc.Submit(f.client, SubmitRequest{
		BookingID: "booking-1", Rating: 5,
		ReviewText: strings.Repeat("a", 1001),
	})
	assertCode(t, err, utils.CodeInvalidInput)

	_, err = f.svc.Submit(f.client, SubmitRequest{
		BookingID: "booking-1", Rating: 5,
		ReviewText: strings.Repeat("a", 1000),
	})
	require.NoError(t, err)

	_, err = f.svc.Submit(f.lawyer, SubmitRequest{BookingID: "booking-1", Rating: 5})
	assertCode(t, err, utils.CodeForbidden)

	_, err = f.svc.Submit(f.client, SubmitRequest{BookingID: "missing", Rating: 5})
	assertCode(t, err, utils.CodeNotFound)
}

func TestSubmitRequiresCompletedOwnBooking(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.bookings.Create(&models.Booking{
		ID: "booking-pending", ClientID: "user-client", LawyerID: "lawyer-1",
		Status: models.BookingPending,
	}))
	require.NoError(t, f.bookings.Create(&models.Booking{
		ID: "booking-foreign", ClientID: "user-other", LawyerID: "lawyer-1",
		Status: models.BookingCompleted,
	}))

	_, err := f.svc.Submit(f.client, SubmitRequest{BookingID: "booking-pending", Rating: 5})
	assertCode(t, err, utils.CodeInvalidInput)

	_, err = f.svc.Submit(f.client, SubmitRequest{BookingID: "booking-foreign", Rating: 5})
	assertCode(t, err, utils.CodeForbidden)
}

func TestSubmitRetriesLostRatingRace(t *testing.T) {
	f := newFixture(t)
	f.completedBooking(t, "booking-1")
	f.lawyers.casMisses = 2

	_, err := f.svc.Submit(f.client, SubmitRequest{BookingID: "booking-1", Rating: 4})
	require.NoError(t, err)

	lawyer, err := f.lawyers.GetByID("lawyer-1")
	require.NoError(t, err)
	assert.Equal(t, 4.0, lawyer.AverageRating)
	assert.Equal(t, 1, lawyer.TotalReviews)
}

func TestRespondOnce(t *testing.T) {
	f := newFixture(t)
	f.completedBooking(t, "booking-1")
	detail, err := f.svc.Submit(f.client, SubmitRequest{BookingID: "booking-1", Rating: 5})
	require.NoError(t, err)

	responded, err := f.svc.Respond(f.lawyer, detail.ID, "Thank you!")
	require.NoError(t, err)
	assert.Equal(t, "Thank you!", responded.LawyerResponse)
	require.NotNil(t, responded.RespondedAt)

	_, err = f.svc.Respond(f.lawyer, detail.ID, "Again?")
	assertCode(t, err, utils.CodeAlreadyResponded)
}

func TestRespondValidation(t *testing.T) {
	f := newFixture(t)
	f.completedBooking(t, "booking-1")
	detail, err := f.svc.Submit(f.client, SubmitRequest{BookingID: "booking-1", Rating: 5})
	require.NoError(t, err)

	_, err = f.svc.Respond(f.lawyer, detail.ID, "   ")
	assertCode(t, err, utils.CodeInvalidInput)

	// Responses are capped at 500 characters.
	_, err = f.svc.Respond(f.lawyer, detail.ID, strings.Repeat("a", 501))
	assertCode(t, err, utils.CodeInvalidInput)

	_, err = f.svc.Respond(f.client, detail.ID, "Not my review")
	assertCode(t, err, utils.CodeForbidden)

	_, err = f.svc.Respond(f.lawyer, "missing", "Hello")
	assertCode(t, err, utils.CodeNotFound)

	require.NoError(t, f.users.Create(&models.User{
		ID: "user-other", Role: models.RoleLawyer, OnboardingCompleted: true,
	}))
	require.NoError(t, f.lawyers.Create(&models.Lawyer{ID: "lawyer-2", UserID: "user-other"}))
	other := &models.Caller{UserID: "user-other", Role: models.RoleLawyer}
	_, err = f.svc.Respond(other, detail.ID, "Wrong lawyer")
	assertCode(t, err, utils.CodeForbidden)
}

func TestListForLawyerDistribution(t *testing.T) {
	f := newFixture(t)
	for i, rating := range []int{5, 5, 4, 2} {
		id := []string{"b1", "b2", "b3", "b4"}[i]
		f.completedBooking(t, id)
		_, err := f.svc.Submit(f.client, SubmitRequest{BookingID: id, Rating: rating})
		require.NoError(t, err)
	}

	result, err := f.svc.ListForLawyer("lawyer-1", 1, 3)
	require.NoError(t, err)
	assert.Len(t, result.Reviews, 3)
	assert.Equal(t, int64(4), result.Total)
	assert.Equal(t, 4.0, result.AverageRating)
	assert.Equal(t, 4, result.TotalReviews)
	assert.Equal(t, 2, result.Distribution[5])
	assert.Equal(t, 1, result.Distribution[4])
	assert.Equal(t, 1, result.Distribution[2])
	assert.Equal(t, 0, result.Distribution[1])

	_, err = f.svc.ListForLawyer("missing", 1, 10)
	assertCode(t, err, utils.CodeNotFound)
}

func TestAggregateRounding(t *testing.T) {
	reviews := []models.Review{{Rating: 5}, {Rating: 4}, {Rating: 4}}
	avg, total := aggregate(reviews)
	assert.Equal(t, 4.33, avg)
	assert.Equal(t, 3, total)

	avg, total = aggregate(nil)
	assert.Equal(t, 0.0, avg)
	assert.Equal(t, 0, total)
}
