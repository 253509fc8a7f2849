package onboarding

import (
	stderrors "errors"
	"net/http"
	"strings"

	"codeberg.org/finboard/server/finboard/categories"
	"codeberg.org/finboard/server/finboard/deliveries"
	"codeberg.org/finboard/server/internal/errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// GetStatus godoc
// @Summary Get onboarding status for a user
// @Description Reports the provisioned profile, category count, trial window and recent webhook deliveries
// @Tags onboarding
// @Produce json
// @Param userId path string true "Auth user ID"
// @Success 200 {object} StatusResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/onboarding/{userId} [get]
// @Security BearerAuth
func GetStatus(stores Stores) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		raw := strings.TrimSpace(c.Param("userId"))

		if raw == "" {
			errors.BadRequest(c, "user id is required", nil)
			return
		}

		// auth user ids are uuids; anything else would fail the cast in postgres
		parsed, err := uuid.Parse(raw)
		if err != nil {
			errors.BadRequest(c, "user id must be a UUID", nil)
			return
		}

		userID := parsed.String()

		resp := StatusResponse{UserID: userID, Deliveries: []deliveries.Delivery{}}

		profile, err := stores.Profiles.FindByID(ctx, userID)
		if err != nil && !stderrors.Is(err, pgx.ErrNoRows) {
			errors.InternalError(c, "failed to fetch profile", err)
			return
		}

		resp.Profile = profile

		count, err := stores.Categories.CountByUser(ctx, userID)
		if err != nil {
			errors.InternalError(c, "failed to count categories", err)
			return
		}

		resp.CategoryCount = count

		sub, err := stores.Subscribers.FindByUserID(ctx, userID)
		if err != nil && !stderrors.Is(err, pgx.ErrNoRows) {
			errors.InternalError(c, "failed to fetch subscriber", err)
			return
		}

		if sub != nil {
			resp.Subscriber = &SubscriberStatus{
				Subscribed:       sub.Subscribed,
				SubscriptionTier: sub.SubscriptionTier,
				TrialStart:       sub.TrialStart,
				TrialEnd:         sub.TrialEnd,
			}
		}

		if stores.Deliveries != nil {
			list, err := stores.Deliveries.ListByUser(ctx, userID, recentDeliveries)
			if err != nil {
				errors.InternalError(c, "failed to list deliveries", err)
				return
			}

			if list != nil {
				resp.Deliveries = list
			}
		}

		resp.FullyOnboarded = resp.Profile != nil &&
			resp.Subscriber != nil &&
			resp.CategoryCount >= len(categories.DefaultCatalog(userID))

		c.JSON(http.StatusOK, resp)
	}
}
