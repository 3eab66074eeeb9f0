package middleware

import (
	jwtPkg "ProjectFinance/pkg/jwt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

const (
	AccessTokenSecret = "JWT_ACCESS_TOKEN_SECRET"
)

// NewTokenMiddleware verifies the bearer token and stores the caller as
// entity.UserLoginData under the "user" local. It never issues tokens.
func (m *middleware) NewTokenMiddleware(ctx *fiber.Ctx) error {
	requestID := m.GetRequestID(ctx)
	authHeader := ctx.Get("Authorization")

	fields := logrus.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
		"method":     ctx.Method(),
		"client_ip":  ctx.IP(),
	}

	if authHeader == "" {
		m.log.WithFields(fields).Warn("Authorization header is missing")
		return unauthorized(ctx)
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		m.log.WithFields(fields).Warn("Authorization header format is invalid")
		return unauthorized(ctx)
	}

	userToken, err := jwtPkg.VerifyTokenHeader(ctx, AccessTokenSecret)
	if err != nil {
		fields["error"] = err.Error()
		m.log.WithFields(fields).Warn("Token verification failed")
		return unauthorized(ctx)
	}

	claims, ok := userToken.Claims.(jwt.MapClaims)
	if !ok {
		m.log.WithFields(fields).Warn("Invalid token claims")
		return unauthorized(ctx)
	}

	user, err := jwtPkg.UserFromClaims(claims)
	if err != nil {
		fields["error"] = err.Error()
		m.log.WithFields(fields).Warn("Token claims check")
		return unauthorized(ctx)
	}
	ctx.Locals("user", user)

	fields["user_id"] = user.ID
	m.log.WithFields(fields).Debug("Authentication successful")
	return ctx.Next()
}

func unauthorized(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Unauthorized, access token invalid or expired",
		"code":  "UNAUTHORIZED",
	})
}
