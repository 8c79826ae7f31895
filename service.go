package main

import (
	"context"
	"strings"
	"unicode/utf8"
)

// TaskInput is a full task payload: what Create persists and what a full
// update resets a task to. A nil Status means "use the default".
type TaskInput struct {
	Title       string
	Description string
	Status      *Status
}

// TaskPatch carries the fields a partial update supplies. Nil means the
// field keeps its current value. Ownership is write-once, so there is no
// owner field here at all.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *Status
}

// IsEmpty reports whether the patch changes nothing
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil
}

// TaskFilter restricts FindTasks. OwnerID carries the visibility
// restriction, Status an optional extra predicate on top of it.
type TaskFilter struct {
	OwnerID *int64
	Status  *Status
}

// TaskRepository is the storage contract the task service runs against.
// FindTasks returns tasks ordered by title ascending, id as tiebreak.
// Lookups of ids that have no row return ErrNotFound.
type TaskRepository interface {
	InsertTask(ctx context.Context, t Task) (int64, error)
	FindTaskByID(ctx context.Context, id int64) (Task, error)
	FindTasks(ctx context.Context, f TaskFilter) ([]Task, error)
	UpdateTaskByID(ctx context.Context, id int64, p TaskPatch) (Task, error)
	DeleteTaskByID(ctx context.Context, id int64) error
}

// UserRepository is the storage contract for accounts
type UserRepository interface {
	InsertUser(ctx context.Context, u User) (int64, error)
	FindUserByID(ctx context.Context, id int64) (User, error)
	FindUserByUsername(ctx context.Context, username string) (User, error)
	FindUsers(ctx context.Context) ([]User, error)
	SetUserAdmin(ctx context.Context, id int64, admin bool) (User, error)
	DeleteUserByID(ctx context.Context, id int64) error
}

// TaskService enforces ownership-based access control in front of the
// repository. Every operation takes the caller explicitly.
type TaskService struct {
	repo TaskRepository
}

func NewTaskService(repo TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

// List returns the tasks visible to the caller: their own, or every task
// for administrators. A status filter narrows the visible set; it can never
// widen it to other users' tasks.
func (s *TaskService) List(ctx context.Context, caller Caller, status *Status) ([]Task, error) {
	if status != nil && !status.Valid() {
		return nil, errInvalidStatus()
	}
	f := TaskFilter{Status: status}
	if !caller.IsAdmin {
		f.OwnerID = &caller.ID
	}
	return s.repo.FindTasks(ctx, f)
}

// Get returns one task. A task that exists but is invisible to the caller
// is reported as not found, so callers cannot tell which ids other users hold.
func (s *TaskService) Get(ctx context.Context, caller Caller, id int64) (Task, error) {
	task, err := s.repo.FindTaskByID(ctx, id)
	if err != nil {
		return Task{}, err
	}
	if !CanAccess(caller, task, OpRead) {
		return Task{}, ErrNotFound
	}
	return task, nil
}

// Create stores a new task owned by the caller. Whatever owner the
// transport layer may have been handed, it is ignored here.
func (s *TaskService) Create(ctx context.Context, caller Caller, in TaskInput) (Task, error) {
	title, err := normalizeTitle(in.Title)
	if err != nil {
		return Task{}, err
	}
	status, err := resolveStatus(in.Status)
	if err != nil {
		return Task{}, err
	}

	task := Task{
		Title:       title,
		Description: in.Description,
		Status:      status,
		UserID:      caller.ID,
	}
	id, err := s.repo.InsertTask(ctx, task)
	if err != nil {
		return Task{}, err
	}
	task.ID = id
	return task, nil
}

// Update applies the supplied fields to a task the caller may modify. An
// empty patch is a no-op that returns the task unchanged. Validation runs
// before anything is written, so a rejected patch leaves no partial state.
func (s *TaskService) Update(ctx context.Context, caller Caller, id int64, p TaskPatch) (Task, error) {
	current, err := s.lookupForWrite(ctx, caller, id, OpUpdate)
	if err != nil {
		return Task{}, err
	}

	if p.Title != nil {
		title, err := normalizeTitle(*p.Title)
		if err != nil {
			return Task{}, err
		}
		p.Title = &title
	}
	if p.Status != nil && !p.Status.Valid() {
		return Task{}, errInvalidStatus()
	}
	if p.IsEmpty() {
		return current, nil
	}
	return s.repo.UpdateTaskByID(ctx, id, p)
}

// Replace swaps the task's mutable fields for the given input wholesale.
// Omitted description and status fall back to the creation defaults;
// ownership stays as it is.
func (s *TaskService) Replace(ctx context.Context, caller Caller, id int64, in TaskInput) (Task, error) {
	if _, err := s.lookupForWrite(ctx, caller, id, OpUpdate); err != nil {
		return Task{}, err
	}

	title, err := normalizeTitle(in.Title)
	if err != nil {
		return Task{}, err
	}
	status, err := resolveStatus(in.Status)
	if err != nil {
		return Task{}, err
	}

	p := TaskPatch{Title: &title, Description: &in.Description, Status: &status}
	return s.repo.UpdateTaskByID(ctx, id, p)
}

// Delete removes a task the caller may modify
func (s *TaskService) Delete(ctx context.Context, caller Caller, id int64) error {
	if _, err := s.lookupForWrite(ctx, caller, id, OpDelete); err != nil {
		return err
	}
	return s.repo.DeleteTaskByID(ctx, id)
}

// lookupForWrite resolves a task for a mutation. Absent and invisible are
// both not found, so existence never leaks; a task the caller can see but
// not change is forbidden.
func (s *TaskService) lookupForWrite(ctx context.Context, caller Caller, id int64, op Op) (Task, error) {
	task, err := s.repo.FindTaskByID(ctx, id)
	if err != nil {
		return Task{}, err
	}
	if !CanAccess(caller, task, OpRead) {
		return Task{}, ErrNotFound
	}
	if !CanAccess(caller, task, op) {
		return Task{}, ErrForbidden
	}
	return task, nil
}

func normalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", invalidField("title", "must not be empty")
	}
	if utf8.RuneCountInString(title) > 255 {
		return "", invalidField("title", "must be at most 255 characters")
	}
	return title, nil
}

func resolveStatus(s *Status) (Status, error) {
	if s == nil {
		return StatusNew, nil
	}
	if !s.Valid() {
		return "", errInvalidStatus()
	}
	return *s, nil
}

func errInvalidStatus() *ValidationError {
	return invalidField("status", `must be one of "New", "In Progress", "Completed"`)
}
