package constants

// Context and session keys
const (
	ContextKeyUserID   = "user_id"
	ContextKeyIdentity = "identity"
	ContextKeyTask     = "task"

	SessionCookieName = "pm_session"
	SessionKeyToken   = "token"
)

// Validation limits
const (
	MinPasswordLength   = 8
	MaxUsernameLength   = 50
	MaxTaskTitleLength  = 255
	MaxAIGeneratedTasks = 20
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ExternalCredentialsMarker is stored as the password hash of users whose
// credentials are managed by the hosted identity provider.
const ExternalCredentialsMarker = "external-idp-managed"
