package conversation

import (
	"sync"
	"time"
)

// Role is the author of a conversation entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Entry is one immutable line of a user's history.
type Entry struct {
	Role      Role
	Content   string
	CreatedAt time.Time
}

// Message is an entry stripped of its timestamp, ready for a provider request.
type Message struct {
	Role    Role
	Content string
}

// Options configures a Store. Zero values take the defaults below.
type Options struct {
	MaxEntries    int
	ContextWindow int
	TTL           time.Duration
	Now           func() time.Time
}

const (
	DefaultMaxEntries    = 10
	DefaultContextWindow = 5
	DefaultTTL           = time.Hour
)

type history struct {
	mu      sync.Mutex
	entries []Entry
}
