package main

// CreateTaskDTO for creating a new task. There is deliberately no owner
// field: the owner is always the authenticated caller.
type CreateTaskDTO struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      *string `json:"status"` // Defaults to "New" when omitted
}

// UpdateTaskDTO for partially updating an existing task. Nil means the
// field keeps its current value.
type UpdateTaskDTO struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// AuthDTO for user authentication
type AuthDTO struct {
	UserName string `json:"username"`
	PassWord string `json:"password"`
}

// RefreshDTO for exchanging a refresh token for a new access token
type RefreshDTO struct {
	Refresh string `json:"refresh"`
}

// RegisterUserDTO for creating a new user
type RegisterUserDTO struct {
	UserName  string `json:"username"`
	PassWord  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// SetAdminDTO for granting or revoking administrator privileges
type SetAdminDTO struct {
	IsAdmin bool `json:"is_administrator"`
}
