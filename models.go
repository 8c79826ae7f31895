package main

// User represents a user in the system
type User struct {
	ID           int64  `json:"id"`
	UserName     string `json:"username"`
	PasswordHash string `json:"-"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	IsAdmin      bool   `json:"is_administrator"`
}

// Status is the lifecycle state of a task. Any valid status can be set at
// any time; there is no transition order between them.
type Status string

const (
	StatusNew        Status = "New"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Task represents a task item. UserID is set once at creation and no update
// path changes it afterwards.
type Task struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      Status `json:"status"`
	UserID      int64  `json:"user_id"`
}

// Caller identifies the authenticated user behind a request. Handlers build
// it from token claims and pass it into every service call; nothing below
// the HTTP layer reads request state.
type Caller struct {
	ID      int64
	IsAdmin bool
}
