package main

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// GetAllUsers retrieves all users (administrators only)
func (a *API) GetAllUsers(c echo.Context) error {
	users, err := a.users.FindUsers(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("fetching users: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, users)
}

// SetUserAdmin grants or revokes administrator privileges on an account
// (administrators only)
func (a *API) SetUserAdmin(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
	}

	var dto SetAdminDTO
	if err := c.Bind(&dto); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	user, err := a.users.SetUserAdmin(c.Request().Context(), id, dto.IsAdmin)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
		}
		c.Logger().Errorf("updating user: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, user)
}

// RemoveUser deletes a user and all of their tasks (administrators only)
func (a *API) RemoveUser(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
	}

	if err := a.users.DeleteUserByID(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
		}
		c.Logger().Errorf("deleting user: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}

	return c.NoContent(http.StatusNoContent)
}
