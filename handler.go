package main

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// API bundles the dependencies the HTTP handlers need
type API struct {
	users  UserRepository
	tasks  *TaskService
	tokens *TokenIssuer
}

func NewAPI(users UserRepository, tasks *TaskService, tokens *TokenIssuer) *API {
	return &API{users: users, tasks: tasks, tokens: tokens}
}

// pathID parses the :id route parameter. Malformed and non-positive ids are
// treated exactly like ids that have no record, so probing with garbage ids
// learns nothing.
func pathID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid or expired token"})
}
