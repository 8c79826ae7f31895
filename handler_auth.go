package main

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// Register creates a new user account. Accounts created here are always
// regular users; the administrator flag can only be granted by an
// administrator afterwards.
func (a *API) Register(c echo.Context) error {
	var dto RegisterUserDTO
	if err := c.Bind(&dto); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	if err := validateRegistration(dto); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(dto.PassWord), bcrypt.DefaultCost)
	if err != nil {
		c.Logger().Errorf("hashing password: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}

	user := User{
		UserName:     strings.TrimSpace(dto.UserName),
		PasswordHash: string(hashedPassword),
		FirstName:    strings.TrimSpace(dto.FirstName),
		LastName:     dto.LastName,
		Email:        strings.TrimSpace(dto.Email),
	}
	id, err := a.users.InsertUser(c.Request().Context(), user)
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Username already exists"})
		}
		c.Logger().Errorf("inserting user: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}
	user.ID = id

	return c.JSON(http.StatusCreated, user)
}

func validateRegistration(dto RegisterUserDTO) error {
	if strings.TrimSpace(dto.UserName) == "" {
		return invalidField("username", "is required")
	}
	if utf8.RuneCountInString(dto.UserName) > 150 {
		return invalidField("username", "must be at most 150 characters")
	}
	if len(dto.PassWord) < 8 {
		return invalidField("password", "must be at least 8 characters")
	}
	// bcrypt rejects passwords longer than 72 bytes
	if len(dto.PassWord) > 72 {
		return invalidField("password", "must be at most 72 characters")
	}
	if strings.TrimSpace(dto.FirstName) == "" {
		return invalidField("first_name", "is required")
	}
	if utf8.RuneCountInString(dto.FirstName) > 150 {
		return invalidField("first_name", "must be at most 150 characters")
	}
	if email := strings.TrimSpace(dto.Email); email != "" {
		if utf8.RuneCountInString(email) > 254 {
			return invalidField("email", "must be at most 254 characters")
		}
		if _, err := mail.ParseAddress(email); err != nil {
			return invalidField("email", "is not a valid address")
		}
	}
	return nil
}

// Authenticate handles user authentication and returns an access and a
// refresh token
func (a *API) Authenticate(c echo.Context) error {
	var credentials AuthDTO
	if err := c.Bind(&credentials); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	// Fetch user from database
	user, err := a.users.FindUserByUsername(c.Request().Context(), credentials.UserName)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			c.Logger().Errorf("fetching user: %v", err)
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid username or password"})
	}

	// Compare passwords
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credentials.PassWord)); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid username or password"})
	}

	pair, err := a.tokens.IssuePair(user)
	if err != nil {
		c.Logger().Errorf("signing token: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, pair)
}

// Refresh exchanges a valid refresh token for a fresh access token. The
// claims are rebuilt from the stored user, so a privilege change since
// login takes effect here.
func (a *API) Refresh(c echo.Context) error {
	var dto RefreshDTO
	if err := c.Bind(&dto); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	claims, err := a.tokens.ParseRefresh(dto.Refresh)
	if err != nil {
		return unauthorized(c)
	}

	user, err := a.users.FindUserByID(c.Request().Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return unauthorized(c)
		}
		c.Logger().Errorf("fetching user: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}

	access, err := a.tokens.IssueAccess(user)
	if err != nil {
		c.Logger().Errorf("signing token: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"access": access})
}

// Me returns the profile of the authenticated user
func (a *API) Me(c echo.Context) error {
	caller, ok := CallerFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	user, err := a.users.FindUserByID(c.Request().Context(), caller.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// The account behind a still-valid token is gone
			return unauthorized(c)
		}
		c.Logger().Errorf("fetching user: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, user)
}
