package transport

type RegisterUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CreateTaskRequest struct {
	User           string `json:"user"`
	Description    string `json:"description"`
	Points         int    `json:"points"`
	Category       string `json:"category"`
	DeadlineBucket string `json:"deadline_bucket"`
}

// UpdateTaskRequest edits a task; omitted fields keep their stored value.
type UpdateTaskRequest struct {
	Description    *string `json:"description"`
	Points         *int    `json:"points"`
	Category       *string `json:"category"`
	DeadlineBucket *string `json:"deadline_bucket"`
}
