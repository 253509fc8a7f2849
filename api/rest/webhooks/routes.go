package webhooks

import (
	"codeberg.org/finboard/server/internal/auth"
	"github.com/gin-gonic/gin"
)

// request headers browsers and supabase clients may send
const AllowedHeaders = "authorization, x-client-info, apikey, content-type"

// mounts the webhook at the edge-function path on router and under v1
func RegisterRoutes(router *gin.Engine, v1 *gin.RouterGroup, processor Processor, opts Options) {
	handler := UserOnboarding(processor, opts)
	guard := auth.ServiceRoleMiddleware(opts.JWTSecret)

	router.OPTIONS(FunctionPath, Preflight)
	router.POST(FunctionPath, guard, handler)

	v1.OPTIONS(WebhookPath, Preflight)
	v1.POST(WebhookPath, guard, handler)
}
