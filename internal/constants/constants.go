package constants

// Session and context keys
const (
	SessionCookieName = "planboard_session"
	ContextKeyUserID  = "user_id"
)

// MinPasswordLength is the minimum accepted password length at signup
const MinPasswordLength = 8

// Collection paths understood by the document store
const (
	CollectionProjects     = "projects"
	CollectionTasks        = "tasks"
	CollectionBigProjects  = "bigProjectsTest"
	CollectionTaskComments = "taskComments"
	CollectionUsers        = "users"
)
