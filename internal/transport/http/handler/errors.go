package handler

const (
	errNotFound     = "Not found"
	errUnauthorized = "Unauthorized"
	errLoginPending = "Login did not complete in time"
	errLoginAborted = "Login could not be completed"
	errBackend      = "Backend request failed"
)
