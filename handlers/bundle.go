package handlers

import (
	"lawlink/middleware"
	"lawlink/models"
	"lawlink/services/booking"
	"lawlink/services/client"
	"lawlink/services/identity"
	"lawlink/services/lawyer"
	"lawlink/services/review"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct the
// router consumes.
type HandlerBundle struct {
	// Identity endpoints
	CheckRoleHandler gin.HandlerFunc
	OnboardHandler   gin.HandlerFunc
	GetMeHandler     gin.HandlerFunc

	// Booking endpoints
	CreateBookingHandler       gin.HandlerFunc
	GetBookingHandler          gin.HandlerFunc
	ListBookingsHandler        gin.HandlerFunc
	ApproveBookingHandler      gin.HandlerFunc
	RejectBookingHandler       gin.HandlerFunc
	CompleteBookingHandler     gin.HandlerFunc
	CancelBookingHandler       gin.HandlerFunc
	UpdateBookingNotesHandler  gin.HandlerFunc
	CreatePaymentIntentHandler gin.HandlerFunc

	// Lawyer catalog endpoints
	SearchLawyersHandler     gin.HandlerFunc
	GetLawyerHandler         gin.HandlerFunc
	UpdateLawyerHandler      gin.HandlerFunc
	DeactivateLawyerHandler  gin.HandlerFunc
	GetAvailabilityHandler   gin.HandlerFunc
	SetAvailabilityHandler   gin.HandlerFunc
	ListLawyerReviewsHandler gin.HandlerFunc

	// Client profile endpoints
	GetClientProfileHandler    gin.HandlerFunc
	UpdateClientProfileHandler gin.HandlerFunc

	// Review endpoints
	SubmitReviewHandler    gin.HandlerFunc
	RespondToReviewHandler gin.HandlerFunc
	ListReviewsHandler     gin.HandlerFunc
}

// NewHandlerBundle wires the services into the endpoint handlers.
func NewHandlerBundle(
	identitySvc identity.IdentityService,
	bookingSvc booking.BookingService,
	lawyerSvc lawyer.LawyerService,
	clientSvc client.ClientService,
	reviewSvc review.ReviewService,
) *HandlerBundle {
	ih := &IdentityHandler{Identity: identitySvc}
	bh := &BookingHandler{Identity: identitySvc, Bookings: bookingSvc}
	lh := &LawyerHandler{Identity: identitySvc, Lawyers: lawyerSvc, Reviews: reviewSvc}
	ch := &ClientHandler{Identity: identitySvc, Clients: clientSvc}
	rh := &ReviewHandler{Identity: identitySvc, Reviews: reviewSvc}

	return &HandlerBundle{
		CheckRoleHandler: ih.CheckRole,
		OnboardHandler:   ih.Onboard,
		GetMeHandler:     ih.GetMe,

		CreateBookingHandler:       bh.Create,
		GetBookingHandler:          bh.Get,
		ListBookingsHandler:        bh.List,
		ApproveBookingHandler:      bh.Approve,
		RejectBookingHandler:       bh.Reject,
		CompleteBookingHandler:     bh.Complete,
		CancelBookingHandler:       bh.Cancel,
		UpdateBookingNotesHandler:  bh.UpdateNotes,
		CreatePaymentIntentHandler: bh.CreatePaymentIntent,

		SearchLawyersHandler:     lh.Search,
		GetLawyerHandler:         lh.Get,
		UpdateLawyerHandler:      lh.Update,
		DeactivateLawyerHandler:  lh.Deactivate,
		GetAvailabilityHandler:   lh.GetAvailability,
		SetAvailabilityHandler:   lh.SetAvailability,
		ListLawyerReviewsHandler: lh.ListReviews,

		GetClientProfileHandler:    ch.Get,
		UpdateClientProfileHandler: ch.Update,

		SubmitReviewHandler:    rh.Submit,
		RespondToReviewHandler: rh.Respond,
		ListReviewsHandler:     rh.List,
	}
}

// resolveCaller maps the authenticated subject on the request to a
// marketplace Caller.
func resolveCaller(c *gin.Context, identitySvc identity.IdentityService) (*models.Caller, error) {
	return identitySvc.ResolveCaller(middleware.ExternalID(c))
}
