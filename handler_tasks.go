package main

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// respondTaskError maps task service errors onto JSON error responses
func respondTaskError(c echo.Context, err error) error {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Error()})
	case errors.Is(err, ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Task not found"})
	case errors.Is(err, ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Access forbidden"})
	default:
		c.Logger().Errorf("task request failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}
}

// GetTasks retrieves the tasks visible to the authenticated user, ordered
// by title and optionally filtered by status
func (a *API) GetTasks(c echo.Context) error {
	caller, ok := CallerFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var status *Status
	if v := c.QueryParam("status"); v != "" {
		st := Status(v)
		status = &st
	}

	tasks, err := a.tasks.List(c.Request().Context(), caller, status)
	if err != nil {
		return respondTaskError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"count": len(tasks), "results": tasks})
}

// CreateTask creates a new task owned by the authenticated user
func (a *API) CreateTask(c echo.Context) error {
	caller, ok := CallerFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var dto CreateTaskDTO
	if err := c.Bind(&dto); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	task, err := a.tasks.Create(c.Request().Context(), caller, taskInput(dto))
	if err != nil {
		return respondTaskError(c, err)
	}

	return c.JSON(http.StatusCreated, task)
}

// GetTask retrieves a single task by id
func (a *API) GetTask(c echo.Context) error {
	caller, ok := CallerFromContext(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return respondTaskError(c, ErrNotFound)
	}

	task, err := a.tasks.Get(c.Request().Context(), caller, id)
	if err != nil {
		return respondTaskError(c, err)
	}

	return c.JSON(http.StatusOK, task)
}

// UpdateTask replaces an existing task's fields wholesale. Fields omitted
// from the payload reset to their creation defaults.
func (a *API) UpdateTask(c echo.Context) error {
	caller, ok := CallerFromContext(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return respondTaskError(c, ErrNotFound)
	}

	var dto CreateTaskDTO
	if err := c.Bind(&dto); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	task, err := a.tasks.Replace(c.Request().Context(), caller, id, taskInput(dto))
	if err != nil {
		return respondTaskError(c, err)
	}

	return c.JSON(http.StatusOK, task)
}

// PatchTask updates only the fields present in the payload. An empty
// payload is a no-op that returns the task as stored.
func (a *API) PatchTask(c echo.Context) error {
	caller, ok := CallerFromContext(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return respondTaskError(c, ErrNotFound)
	}

	var dto UpdateTaskDTO
	if err := c.Bind(&dto); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	patch := TaskPatch{Title: dto.Title, Description: dto.Description}
	if dto.Status != nil {
		st := Status(*dto.Status)
		patch.Status = &st
	}

	task, err := a.tasks.Update(c.Request().Context(), caller, id, patch)
	if err != nil {
		return respondTaskError(c, err)
	}

	return c.JSON(http.StatusOK, task)
}

// DeleteTask deletes a task
func (a *API) DeleteTask(c echo.Context) error {
	caller, ok := CallerFromContext(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return respondTaskError(c, ErrNotFound)
	}

	if err := a.tasks.Delete(c.Request().Context(), caller, id); err != nil {
		return respondTaskError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func taskInput(dto CreateTaskDTO) TaskInput {
	in := TaskInput{Title: dto.Title, Description: dto.Description}
	if dto.Status != nil {
		st := Status(*dto.Status)
		in.Status = &st
	}
	return in
}
