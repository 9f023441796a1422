package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hurryup/express/internal/core/domain"
)

// CreateBookingHandler accepts a new parcel booking.
func CreateBookingHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var b domain.Booking
		if err := c.BodyParser(&b); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}

		created, err := deps.Bookings.Create(c.Context(), &b)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	}
}

// ListBookingsHandler lists bookings filtered by agent uid, status or
// booking id, newest first.
func ListBookingsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := domain.BookingQuery{
			AgentUID:  c.Query("agentUid"),
			Status:    c.Query("status"),
			BookingID: c.Query("bookingId"),
		}
		bookings, err := deps.Bookings.Find(c.Context(), q)
		if err != nil {
			return serviceError(c, err)
		}

		offset, limit := pageParams(c)
		page, pg := paginate(bookings, offset, limit)
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: page, Pagination: pg})
	}
}

// CustomerBookingsHandler lists a customer's own bookings.
func CustomerBookingsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid := c.Params("uid")
		bookings, err := deps.Bookings.FindByCustomer(c.Context(), uid)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(bookings)
	}
}

// AssignAgentHandler attaches a delivery agent to a pending booking.
func AssignAgentHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var agent domain.DeliveryAgent
		if err := c.BodyParser(&agent); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}

		updated, err := deps.Bookings.AssignAgent(c.Context(), id, agent)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(updated)
	}
}

// UpdateDeliveryStatusHandler applies a status transition to a booking.
func UpdateDeliveryStatusHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var body struct {
			DeliveryStatus string `json:"deliveryStatus"`
			Status         string `json:"status"`
			FailureReason  string `json:"failureReason"`
		}
		if err := c.BodyParser(&body); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		status := body.DeliveryStatus
		if status == "" {
			status = body.Status
		}

		updated, err := deps.Bookings.UpdateDeliveryStatus(c.Context(), id, status, body.FailureReason)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(updated)
	}
}

// TrackParcelHandler is the unauthenticated tracking page endpoint.
func TrackParcelHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		pt, err := deps.Bookings.PublicTracking(c.Context(), c.Params("bookingId"))
		if err != nil {
			return serviceError(c, err)
		}
		c.Set("Cache-Control", "public, max-age=10")
		return c.JSON(pt)
	}
}

// CreateUserHandler registers a new user account.
func CreateUserHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var u domain.User
		if err := c.BodyParser(&u); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		if err := deps.Users.Create(c.Context(), &u); err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(u)
	}
}

// ListUsersHandler lists users filtered by uid and/or role.
func ListUsersHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		users, err := deps.Users.Find(c.Context(), domain.UserQuery{
			UID:  c.Query("uid"),
			Role: c.Query("role"),
		})
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(users)
	}
}

// UpdateProfileHandler patches whitelisted profile fields; the path segment
// may be a document id or the auth uid.
func UpdateProfileHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var patch domain.ProfilePatch
		if err := c.BodyParser(&patch); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		if err := deps.Users.UpdateProfile(c.Context(), c.Params("id"), patch); err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"message": "profile updated"})
	}
}

// TouchSignInHandler records the auth provider's last sign-in time.
func TouchSignInHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			LastSignInTime string `json:"lastSignInTime"`
		}
		if err := c.BodyParser(&body); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		if err := deps.Users.TouchLastSignIn(c.Context(), c.Params("uid"), body.LastSignInTime); err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"message": "last sign-in recorded"})
	}
}

// SubmitAgentRequestHandler files an application to become a delivery agent.
func SubmitAgentRequestHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req domain.AgentRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		created, err := deps.Agents.Submit(c.Context(), &req)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	}
}

// ListAgentRequestsHandler lists agent applications.
func ListAgentRequestsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requests, err := deps.Agents.Find(c.Context(), domain.AgentRequestQuery{
			UID:    c.Query("uid"),
			Status: c.Query("status"),
			ID:     c.Query("id"),
		})
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(requests)
	}
}

// ReviewAgentRequestHandler approves or rejects an agent application.
func ReviewAgentRequestHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var review domain.RequestReview
		if err := c.BodyParser(&review); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		updated, err := deps.Agents.Review(c.Context(), c.Params("id"), review)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(updated)
	}
}

// dateRangeFromQuery parses optional start/end query params (YYYY-MM-DD).
// The end date is inclusive: it extends to the last instant of that day.
func dateRangeFromQuery(c *fiber.Ctx) (domain.DateRange, error) {
	var r domain.DateRange
	if s := c.Query("start"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return r, err
		}
		r.Start = t
	}
	if e := c.Query("end"); e != "" {
		t, err := time.Parse("2006-01-02", e)
		if err != nil {
			return r, err
		}
		r.End = t.Add(24*time.Hour - time.Nanosecond)
	}
	return r, nil
}

// DailyBookingsHandler reports booking volume and revenue per day.
func DailyBookingsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := dateRangeFromQuery(c)
		if err != nil {
			return errBadRequest(c, "start/end must be YYYY-MM-DD")
		}
		stats, err := deps.Analytics.DailyBookings(c.Context(), r)
		if err != nil {
			return serviceError(c, err)
		}
		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(stats)
	}
}

// DeliveryStatsHandler reports per-status counts and the success rate.
func DeliveryStatsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := dateRangeFromQuery(c)
		if err != nil {
			return errBadRequest(c, "start/end must be YYYY-MM-DD")
		}
		report, err := deps.Analytics.DeliveryStats(c.Context(), r)
		if err != nil {
			return serviceError(c, err)
		}
		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(report)
	}
}

// CODSummaryHandler reports cash-on-delivery totals.
func CODSummaryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := dateRangeFromQuery(c)
		if err != nil {
			return errBadRequest(c, "start/end must be YYYY-MM-DD")
		}
		summary, err := deps.Analytics.CODSummary(c.Context(), r)
		if err != nil {
			return serviceError(c, err)
		}
		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(summary)
	}
}
