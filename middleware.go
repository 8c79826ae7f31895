package main

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// RequireJWT builds the middleware that authenticates requests and parses
// the service's claims into the request context
func RequireJWT(secret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(secret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(Claims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return unauthorized(c)
		},
	})
}

// CallerFromContext extracts the authenticated caller placed in context by
// RequireJWT. Refresh tokens are rejected: only access tokens authenticate
// requests.
func CallerFromContext(c echo.Context) (Caller, bool) {
	userToken, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return Caller{}, false
	}
	claims, ok := userToken.Claims.(*Claims)
	if !ok {
		return Caller{}, false
	}
	if claims.TokenType != TokenTypeAccess {
		return Caller{}, false
	}
	return Caller{ID: claims.UserID, IsAdmin: claims.IsAdmin}, true
}

// RequireAdmin checks if the user has administrator privileges. It must run
// after RequireJWT.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		caller, ok := CallerFromContext(c)
		if !ok {
			return unauthorized(c)
		}
		if !caller.IsAdmin {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "Access forbidden"})
		}
		return next(c)
	}
}
