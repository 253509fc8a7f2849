package webhooks

import (
	"io"
	"net/http"

	"codeberg.org/finboard/server/finboard/deliveries"
	"codeberg.org/finboard/server/internal/auth"
	"codeberg.org/finboard/server/internal/errors"
	"codeberg.org/finboard/server/internal/logger"
	"github.com/gin-gonic/gin"
)

// UserOnboarding godoc
// @Summary Provision a newly confirmed user
// @Description Receives auth.users change notifications and, once the email is confirmed, creates the profile, seeds default categories and grants a 7-day trial
// @Tags webhooks
// @Accept json
// @Produce json
// @Success 200 {object} onboarding.Response
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.WebhookErrorResponse
// @Router /functions/v1/user-onboarding [post]
func UserOnboarding(processor Processor, opts Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
		if err != nil {
			errors.WebhookFailure(c, err)
			return
		}

		if opts.WebhookSecret != "" && !auth.VerifySignature(body, c.GetHeader(auth.HeaderSignature), opts.WebhookSecret) {
			errors.Unauthorized(c, "invalid webhook signature")
			return
		}

		processed, err := processor.ProcessBody(c.Request.Context(), deliveries.SourceWebhook, body)
		if err != nil {
			errors.WebhookFailure(c, err)
			return
		}

		if processed.Skipped != nil {
			c.JSON(http.StatusOK, MessageResponse{Message: processed.Skipped.Message()})
			return
		}

		result := processed.Result

		if !result.Complete() {
			logger.FromContext(c.Request.Context()).Warn("onboarding finished with failed steps",
				"user_id", result.User.ID,
				"profile", result.Profile.Status,
				"categories", result.Categories.Status,
				"subscriber", result.Subscriber.Status,
			)
		}

		c.JSON(http.StatusOK, result.Response(func(err error) string {
			return errors.Classify(err).Sanitized()
		}))
	}
}

// answers CORS preflight requests that carry no Origin header
func Preflight(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Headers", AllowedHeaders)
	c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
	c.String(http.StatusOK, "ok")
}
