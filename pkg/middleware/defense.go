package middleware

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/SafeClick/ScamShield/pkg/common"
	"github.com/SafeClick/ScamShield/pkg/guards"
	"github.com/SafeClick/ScamShield/pkg/infra/prometheus"
	"github.com/SafeClick/ScamShield/pkg/types"
)

// DefenseMiddleware runs every request through the guard chain of its route
// class before the handler executes. Rejections are rendered here; handlers
// never see a refused request.
type DefenseMiddleware struct {
	logger  *logrus.Logger
	manager guards.Manager
}

func NewDefenseMiddleware(logger *logrus.Logger, manager guards.Manager) *DefenseMiddleware {
	return &DefenseMiddleware{logger: logger, manager: manager}
}

// Handler returns the fiber middleware for one route class.
func (m *DefenseMiddleware) Handler(routeClass types.RouteClass) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := m.buildRequestContext(c, routeClass)
		if err != nil {
			prometheus.RequestsTotal.WithLabelValues(string(routeClass), c.Method(), "400").Inc()
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}

		resp := types.NewResponseContext(c.UserContext())

		chainErr := m.manager.ExecuteChain(c.UserContext(), req, resp)

		// Rate-limit headers and the like apply to allowed and denied
		// responses alike.
		for name, values := range resp.Headers {
			for _, v := range values {
				c.Set(name, v)
			}
		}

		if chainErr != nil {
			return m.renderRejection(c, routeClass, resp, chainErr)
		}

		prometheus.RequestsTotal.WithLabelValues(string(routeClass), c.Method(), "200").Inc()

		c.Locals(string(common.PayloadContextKey), req.Payload)
		c.Locals(string(common.IdentityContextKey), req.Identity)
		c.Locals(string(common.SessionContextKey), req.SessionID)
		return c.Next()
	}
}

func (m *DefenseMiddleware) buildRequestContext(c *fiber.Ctx, routeClass types.RouteClass) (*types.RequestContext, error) {
	body := c.Body()

	var payload map[string]interface{}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, err
		}
	}

	return &types.RequestContext{
		Context:    c.UserContext(),
		Method:     c.Method(),
		Path:       c.Path(),
		Headers:    c.GetReqHeaders(),
		Body:       body,
		Payload:    payload,
		Identity:   ClientIdentity(c),
		SessionID:  SessionID(c),
		RouteClass: routeClass,
	}, nil
}

func (m *DefenseMiddleware) renderRejection(
	c *fiber.Ctx,
	routeClass types.RouteClass,
	resp *types.ResponseContext,
	chainErr error,
) error {
	var guardErr *types.GuardError
	if !errors.As(chainErr, &guardErr) {
		// Not a rejection but a fault (malformed chain settings and the
		// like); surface a generic failure and log the cause.
		m.logger.WithError(chainErr).Error("defense pipeline fault")
		prometheus.RequestsTotal.WithLabelValues(string(routeClass), c.Method(), "500").Inc()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	status := guardErr.StatusCode
	prometheus.RequestsTotal.WithLabelValues(string(routeClass), c.Method(), strconv.Itoa(status)).Inc()
	prometheus.BlockedTotal.WithLabelValues(string(routeClass), guardName(resp, status)).Inc()

	if retryAfter, ok := resp.Metadata["retry_after_seconds"].(int); ok {
		prometheus.RateLimitRetryAfter.WithLabelValues(string(routeClass)).Observe(float64(retryAfter))
		return c.Status(status).JSON(fiber.Map{
			"error":             guardErr.Message,
			"retryAfterSeconds": retryAfter,
		})
	}

	if fieldErrors, ok := resp.Metadata["validation_errors"].(map[string][]string); ok && len(fieldErrors) > 0 {
		return c.Status(status).JSON(fiber.Map{
			"errors": fieldErrors,
		})
	}

	return c.Status(status).JSON(fiber.Map{
		"error": guardErr.Message,
	})
}

func guardName(resp *types.ResponseContext, status int) string {
	switch status {
	case fiber.StatusTooManyRequests:
		return "rate_limiter"
	case fiber.StatusForbidden:
		return "csrf_guard"
	default:
		if _, ok := resp.Metadata["validation_errors"]; ok {
			return "validation_guard"
		}
		return "injection_guard"
	}
}
