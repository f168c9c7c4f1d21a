package conversation

import "time"

// Memory is the per-user history contract consumed by the chat usecase.
// Implementations must be safe for concurrent use.
type Memory interface {
	// Append records one entry and truncates the history to its cap.
	Append(userID string, role Role, content string)

	// AppendExchange records a user line followed by the assistant reply, atomically per user.
	AppendExchange(userID, userText, assistantText string)

	// ContextFor returns the most recent entries of the context window, oldest first.
	ContextFor(userID string) []Message

	// Cleanup drops entries older than the TTL as of now and forgets emptied users.
	Cleanup(now time.Time)

	// Len returns the number of entries held for userID.
	Len(userID string) int

	// Users returns the number of tracked users.
	Users() int
}
