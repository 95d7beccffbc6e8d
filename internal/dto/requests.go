package dto

// UpdateTaskRequest is a partial task update. Absent fields are left alone,
// null clears a nullable field.
type UpdateTaskRequest struct {
	Title          Optional[string] `json:"title"`
	Description    Optional[string] `json:"description"`
	Status         Optional[string] `json:"status"`
	Priority       Optional[string] `json:"priority"`
	Tags           Optional[string] `json:"tags"`
	StartDate      Optional[Date]   `json:"startDate"`
	DueDate        Optional[Date]   `json:"dueDate"`
	Points         Optional[int]    `json:"points"`
	AuthorUserID   Optional[uint64] `json:"authorUserId"`
	AssignedUserID Optional[uint64] `json:"assignedUserId"`
}

// UpdateUserRequest is a partial profile update.
type UpdateUserRequest struct {
	Username          Optional[string] `json:"username"`
	ProfilePictureURL Optional[string] `json:"profilePictureUrl"`
	TeamID            Optional[uint64] `json:"teamId"`
}
