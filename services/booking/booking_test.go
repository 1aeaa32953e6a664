package booking

import (
	"sort"
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
	return r.list(func(b *models.Booking) bool {
		return b.ClientID == clientID && (status == "" || b.Status == status)
	})
}

func (r *memBookingRepo) ListByLawyer(lawyerID string, status models.BookingStatus) ([]models.Booking, error) {
	return r.list(func(b *models.Booking) bool {
		return b.LawyerID == lawyerID && (status == "" || b.Status == status)
	})
}

func (r *memBookingRepo) list(match func(*models.Booking) bool) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if match(b) {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memBookingRepo) Transition(id string, from []models.BookingStatus, set bson.M) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return false, nil
	}
	allowed := false
	for _, s := range from {
		if b.Status == s {
			allowed = true
			break
		}
	}
	if !allowed {
		return false, nil
	}
	applyBookingSet(b, set)
	return true, nil
}

func (r *memBookingRepo) UpdateFields(id string, fields bson.M) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	applyBookingSet(b, fields)
	cp := *b
	return &cp, nil
}

func applyBookingSet(b *models.Booking, set bson.M) {
	for key, val := range set {
		switch key {
		case "status":
			b.Status = val.(models.BookingStatus)
		case "paymentStatus":
			b.PaymentStatus = val.(models.PaymentStatus)
		case "paymentIntentId":
			b.PaymentIntentID = val.(string)
		case "confirmedDateTime":
			t := val.(time.Time)
			b.ConfirmedDateTime = &t
		case "approvedAt":
			t := val.(time.Time)
			b.ApprovedAt = &t
		case "rejectedAt":
			t := val.(time.Time)
			b.RejectedAt = &t
		case "completedAt":
			t := val.(time.Time)
			b.CompletedAt = &t
		case "cancelledAt":
			t := val.(time.Time)
			b.CancelledAt = &t
		case "cancellationReason":
			b.CancellationReason = val.(string)
		case "meetingLink":
			b.MeetingLink = val.(string)
		case "lawyerNotes":
			b.LawyerNotes = val.(string)
		case "clientNotes":
			b.ClientNotes = val.(string)
		case "updatedAt":
			b.UpdatedAt = val.(time.Time)
		}
	}
}

type memLawyerRepo struct {
	mu         sync.Mutex
	lawyers    map[string]*models.Lawyer
	solvedIncs map[string]int
}

func newMemLawyerRepo() *memLawyerRepo {
	return &memLawyerRepo{
		lawyers:    make(map[string]*models.Lawyer),
		solvedIncs: make(map[string]int),
	}
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
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lawyers[id]
	if !ok {
		return nil, nil
	}
	for key, val := range fields {
		switch key {
		case "availability":
			l.Availability = val.([]models.DayAvailability)
		case "fees":
			l.Fees = val.(models.Fees)
		case "about":
			l.About = val.(string)
		}
	}
	cp := *l
	return &cp, nil
}

func (r *memLawyerRepo) Search(filter lawyerRepo.SearchFilter) ([]models.Lawyer, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Lawyer
	for _, l := range r.lawyers {
		if l.IsActive {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AverageRating > out[j].AverageRating })
	return out, int64(len(out)), nil
}

func (r *memLawyerRepo) Deactivate(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.lawyers[id]; ok {
		l.IsActive = false
	}
	return nil
}

func (r *memLawyerRepo) IncrementCasesSolved(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.lawyers[id]; ok {
		l.TotalCasesSolved++
		r.solvedIncs[id]++
	}
	return nil
}

func (r *memLawyerRepo) UpdateRating(id string, averageRating float64, totalReviews int, expectedVersion int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lawyers[id]
	if !ok || l.RatingVersion != expectedVersion {
		return false, nil
	}
	l.AverageRating = averageRating
	l.TotalReviews = totalReviews
	l.RatingVersion++
	return true, nil
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

func (r *memUserRepo) GetByExternalID(externalID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ExternalID == externalID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

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

func (r *memUserRepo) Update(u *models.User) error {
	return r.Create(u)
}

type fakeEnqueuer struct {
	mu       sync.Mutex
	payloads []models.PaymentConfirmPayload
	fail     error
}

func (f *fakeEnqueuer) EnqueuePaymentConfirmation(payload models.PaymentConfirmPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.payloads = append(f.payloads, payload)
	return nil
}

// ---- fixtures ----

type fixture struct {
	svc      *DefaultBookingService
	bookings *memBookingRepo
	lawyers  *memLawyerRepo
	users    *memUserRepo
	enqueuer *fakeEnqueuer

	client *models.Caller
	lawyer *models.Caller
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		bookings: newMemBookingRepo(),
		lawyers:  newMemLawyerRepo(),
		users:    newMemUserRepo(),
		enqueuer: &fakeEnqueuer{},
	}
	f.svc = &DefaultBookingService{
		Bookings: f.bookings,
		Lawyers:  f.lawyers,
		Users:    f.users,
		Payments: f.enqueuer,
		Logger:   zap.NewNop(),
	}

	require.NoError(t, f.users.Create(&models.User{
		ID: "user-client", Email: "client@example.com", FirstName: "Asha",
		LastName: "Rao", Role: models.RoleClient, OnboardingCompleted: true,
	}))
	require.NoError(t, f.users.Create(&models.User{
		ID: "user-lawyer", Email: "lawyer@example.com", FirstName: "Meera",
		LastName: "Iyer", Role: models.RoleLawyer, OnboardingCompleted: true,
	}))
	require.NoError(t, f.lawyers.Create(&models.Lawyer{
		ID: "lawyer-1", UserID: "user-lawyer", BarRegistrationNumber: "BAR-42",
		Fees:     models.Fees{PerHour: 2000, PerHalfHour: 1200, Currency: "INR"},
		IsActive: true,
	}))

	f.client = &models.Caller{UserID: "user-client", Role: models.RoleClient}
	f.lawyer = &models.Caller{UserID: "user-lawyer", Role: models.RoleLawyer}
	return f
}

func (f *fixture) createRequest() CreateRequest {
	return CreateRequest{
		LawyerID:         "lawyer-1",
		SessionType:      models.SessionConsultation,
		DurationType:     models.DurationFullHour,
		PreferredDate:    time.Now().Add(48 * time.Hour),
		PreferredTime:    "14:00",
		IssueDescription: "Dispute over a rental agreement.",
	}
}

func (f *fixture) createPending(t *testing.T) *models.BookingDetail {
	t.Helper()
	detail, err := f.svc.Create(f.client, f.createRequest())
	require.NoError(t, err)
	return detail
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	se, ok := utils.AsServiceError(err)
	require.True(t, ok, "expected a service error, got %v", err)
	assert.Equal(t, code, se.Code)
}

// ---- tests ----

func TestCreateFreezesAmountFromFees(t *testing.T) {
	f := newFixture(t)

	full, err := f.svc.Create(f.client, f.createRequest())
	require.NoError(t, err)
	assert.Equal(t, 2000.0, full.Amount)
	assert.Equal(t, "INR", full.Currency)
	assert.Equal(t, models.BookingPending, full.Status)
	assert.Equal(t, models.PaymentPending, full.PaymentStatus)
	assert.False(t, full.RequestedAt.IsZero())

	req := f.createRequest()
	req.DurationType = models.DurationHalfHour
	half, err := f.svc.Create(f.client, req)
	require.NoError(t, err)
	assert.Equal(t, 1200.0, half.Amount)

	// A later fee change must not touch the stored amount.
	_, err = f.lawyers.UpdateFields("lawyer-1", bson.M{
		"fees": models.Fees{PerHour: 9999, PerHalfHour: 5000, Currency: "INR"},
	})
	require.NoError(t, err)
	stored, err := f.bookings.GetByID(full.ID)
	require.NoError(t, err)
	assert.Equal(t, 2000.0, stored.Amount)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)

	req := f.createRequest()
	req.IssueDescription = "  "
	_, err := f.svc.Create(f.client, req)
	assertCode(t, err, utils.CodeInvalidInput)

	req = f.createRequest()
	req.DurationType = "fortnight"
	_, err = f.svc.Create(f.client, req)
	assertCode(t, err, utils.CodeInvalidInput)

	req = f.createRequest()
	req.LawyerID = "lawyer-missing"
	_, err = f.svc.Create(f.client, req)
	assertCode(t, err, utils.CodeNotFound)

	_, err = f.svc.Create(f.lawyer, f.createRequest())
	assertCode(t, err, utils.CodeForbidden)
}

func TestCreateRejectsInactiveLawyer(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.lawyers.Deactivate("lawyer-1"))

	_, err := f.svc.Create(f.client, f.createRequest())
	assertCode(t, err, utils.CodeInvalidInput)
}

func TestApproveLifecycle(t *testing.T) {
	f := newFixture(t)
	pending := f.createPending(t)

	confirmed := time.Now().Add(72 * time.Hour).Truncate(time.Second)
	detail, err := f.svc.Approve(f.lawyer, pending.ID, ApproveRequest{
		ConfirmedDateTime: confirmed,
		MeetingLink:       "https://meet.example.com/abc",
		LawyerNotes:       "Bring the agreement.",
	})
	require.NoError(t, err)
	assert.Equal(t, models.BookingApproved, detail.Status)
	require.NotNil(t, detail.ApprovedAt)
	require.NotNil(t, detail.ConfirmedDateTime)
	assert.True(t, detail.ConfirmedDateTime.Equal(confirmed))
	assert.Equal(t, "https://meet.example.com/abc", detail.MeetingLink)

	// Approving twice must fail and change nothing.
	_, err = f.svc.Approve(f.lawyer, pending.ID, ApproveRequest{ConfirmedDateTime: confirmed})
	assertCode(t, err, utils.CodeInvalidTransition)

	stored, err := f.bookings.GetByID(pending.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingApproved, stored.Status)
}

func TestApproveRequiresOwningLawyer(t *testing.T) {
	f := newFixture(t)
	pending := f.createPending(t)

	_, err := f.svc.Approve(f.client, pending.ID, ApproveRequest{ConfirmedDateTime: time.Now()})
	assertCode(t, err, utils.CodeForbidden)

	require.NoError(t, f.users.Create(&models.User{
		ID: "user-other", Role: models.RoleLawyer, OnboardingCompleted: true,
	}))
	require.NoError(t, f.lawyers.Create(&models.Lawyer{
		ID: "lawyer-2", UserID: "user-other", IsActive: true,
		Fees: models.Fees{PerHour: 100, Currency: "INR"},
	}))
	other := &models.Caller{UserID: "user-other", Role: models.RoleLawyer}
	_, err = f.svc.Approve(other, pending.ID, ApproveRequest{ConfirmedDateTime: time.Now()})
	assertCode(t, err, utils.CodeForbidden)
}

func TestRejectRecordsReasonInLawyerNotes(t *testing.T) {
	f := newFixture(t)
	pending := f.createPending(t)

	detail, err := f.svc.Reject(f.lawyer, pending.ID, "conflict of interest")
	require.NoError(t, err)
	assert.Equal(t, "conflict of interest", detail.LawyerNotes)
	assert.Empty(t, detail.CancellationReason)
}

func TestRejectDefaultsReason(t *testing.T) {
	f := newFixture(t)
	pending := f.createPending(t)

	detail, err := f.svc.Reject(f.lawyer, pending.ID, "   ")
	require.NoError(t, err)
	assert.Equal(t, models.BookingRejected, detail.Status)
	assert.Equal(t, "No reason provided", detail.LawyerNotes)
	assert.Empty(t, detail.CancellationReason)
	require.NotNil(t, detail.RejectedAt)

	// Rejected is terminal.
	_, err = f.svc.Cancel(f.client, pending.ID, "changed my mind")
	assertCode(t, err, utils.CodeInvalidTransition)
}

func TestCompleteMarksPaidAndNotifies(t *testing.T) {
	f := newFixture(t)
	pending := f.createPending(t)
	_, err := f.svc.Approve(f.lawyer, pending.ID, ApproveRequest{ConfirmedDateTime: time.Now()})
	require.NoError(t, err)

	detail, err := f.svc.Complete(f.lawyer, pending.ID, "Advised on next steps.")
	require.NoError(t, err)
	assert.Equal(t, models.BookingCompleted, detail.Status)
	assert.Equal(t, models.PaymentPaid, detail.PaymentStatus)
	require.NotNil(t, detail.CompletedAt)
	assert.Equal(t, "Advised on next steps.", detail.LawyerNotes)

	assert.Equal(t, 1, f.lawyers.solvedIncs["lawyer-1"])
	require.Len(t, f.enqueuer.payloads, 1)
	assert.Equal(t, pending.ID, f.enqueuer.payloads[0].BookingID)
	assert.Equal(t, 2000.0, f.enqueuer.payloads[0].Amount)
}

func TestCompleteRequiresApproved(t *testing.T) {
	f := newFixture(t)
	pending := f.createPending(t)

	_, err := f.svc.Complete(f.lawyer, pending.ID, "")
	assertCode(t, err, utils.CodeInvalidTransition)
	assert.Empty(t, f.enqueuer.payloads)
	assert.Zero(t, f.lawyers.solvedIncs["lawyer-1"])
}

func TestCompleteSurvivesQueueFailure(t *testing.T) {
	f := newFixture(t)
	f.enqueuer.fail = assert.AnError
	pending := f.createPending(t)
	_, err := f.svc.Approve(f.lawyer, pending.ID, ApproveRequest{ConfirmedDateTime: time.Now()})
	require.NoError(t, err)

	detail, err := f.svc.Complete(f.lawyer, pending.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.BookingCompleted, detail.Status)
}

func TestCancelRefundsPaidBooking(t *testing.T) {
	f := newFixture(t)
	pending := f.createPending(t)
	_, err := f.svc.CreatePaymentIntent(f.client, pending.ID)
	require.NoError(t, err)

	detail, err := f.svc.Cancel(f.client, pending.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, detail.Status)
	assert.Equal(t, models.PaymentRefunded, detail.PaymentStatus)
	assert.Equal(t, "No reason provided", detail.CancellationReason)
	require.NotNil(t, detail.CancelledAt)
}

func TestCancelByEitherParty(t *testing.T) {
	f := newFixture(t)

	byClient := f.createPending(t)
	_, err := f.svc.Cancel(f.client, byClient.ID, "found another lawyer")
	require.NoError(t, err)

	byLawyer := f.createPending(t)
	_, err = f.svc.Approve(f.lawyer, byLawyer.ID, ApproveRequest{ConfirmedDateTime: time.Now()})
	require.NoError(t, err)
	detail, err := f.svc.Cancel(f.lawyer, byLawyer.ID, "schedule conflict")
	require.NoError(t, err)
	assert.Equal(t, "schedule conflict", detail.CancellationReason)
	assert.Equal(t, models.PaymentPending, detail.PaymentStatus)
}

func TestCancelCompletedFails(t *testing.T) {
	f := newFixture(t)
	pending := f.createPending(t)
	_, err := f.svc.Approve(f.lawyer, pending.ID, ApproveRequest{ConfirmedDateTime: time.Now()})
	require.NoError(t, err)
	_, err = f.svc.Complete(f.lawyer, pending.ID, "")
	require.NoError(t, err)

	_, err = f.svc.Cancel(f.client, pending.ID, "too late")
	assertCode(t, err, utils.CodeInvalidTransition)

	stored, err := f.bookings.GetByID(pending.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCompleted, stored.Status)
	assert.Equal(t, models.PaymentPaid, stored.PaymentStatus)
}

func TestGetEnforcesOwnership(t *testing.T) {
	f := newFixture(t)
	pending := f.createPending(t)

	detail, err := f.svc.Get(f.client, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha", detail.Client.FirstName)
	assert.Equal(t, "Meera", detail.Lawyer.User.FirstName)

	require.NoError(t, f.users.Create(&models.User{
		ID: "user-stranger", Role: models.RoleClient, OnboardingCompleted: true,
	}))
	stranger := &models.Caller{UserID: "user-stranger", Role: models.RoleClient}
	_, err = f.svc.Get(stranger, pending.ID)
	assertCode(t, err, utils.CodeForbidden)

	_, err = f.svc.Get(f.client, "missing")
	assertCode(t, err, utils.CodeNotFound)
}

func TestListFiltersByRoleAndStatus(t *testing.T) {
	f := newFixture(t)
	first := f.createPending(t)
	f.createPending(t)
	_, err := f.svc.Approve(f.lawyer, first.ID, ApproveRequest{ConfirmedDateTime: time.Now()})
	require.NoError(t, err)

	all, err := f.svc.List(f.client, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	approved, err := f.svc.List(f.lawyer, models.BookingApproved)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, first.ID, approved[0].ID)

	_, err = f.svc.List(f.client, "archived")
	assertCode(t, err, utils.CodeInvalidInput)
}

func TestUpdateNotesAllowList(t *testing.T) {
	f := newFixture(t)
	pending := f.createPending(t)

	notes := "Please call before the session."
	detail, err := f.svc.UpdateNotes(f.client, pending.ID, NotesPatch{ClientNotes: &notes})
	require.NoError(t, err)
	assert.Equal(t, notes, detail.ClientNotes)

	link := "https://meet.example.com/xyz"
	detail, err = f.svc.UpdateNotes(f.lawyer, pending.ID, NotesPatch{MeetingLink: &link})
	require.NoError(t, err)
	assert.Equal(t, link, detail.MeetingLink)

	// Cross-role edits are rejected.
	_, err = f.svc.UpdateNotes(f.client, pending.ID, NotesPatch{MeetingLink: &link})
	assertCode(t, err, utils.CodeForbidden)
	_, err = f.svc.UpdateNotes(f.lawyer, pending.ID, NotesPatch{ClientNotes: &notes})
	assertCode(t, err, utils.CodeForbidden)

	_, err = f.svc.UpdateNotes(f.client, pending.ID, NotesPatch{})
	assertCode(t, err, utils.CodeInvalidInput)
}

func TestCreatePaymentIntent(t *testing.T) {
	f := newFixture(t)
	pending := f.createPending(t)

	confirmation, err := f.svc.CreatePaymentIntent(f.client, pending.ID)
	require.NoError(t, err)
	assert.Contains(t, confirmation.PaymentIntentID, "pi_fake_")
	assert.Equal(t, "succeeded", confirmation.Status)
	assert.Equal(t, 2000.0, confirmation.Amount)

	stored, err := f.bookings.GetByID(pending.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, stored.PaymentStatus)
	assert.Equal(t, confirmation.PaymentIntentID, stored.PaymentIntentID)

	_, err = f.svc.CreatePaymentIntent(f.client, pending.ID)
	assertCode(t, err, utils.CodeInvalidInput)

	_, err = f.svc.CreatePaymentIntent(f.lawyer, pending.ID)
	assertCode(t, err, utils.CodeForbidden)
}
