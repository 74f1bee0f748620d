package testing

import (
	"strings"
	"sync"

	"github.com/jackc/pgx/v5/pgconn"
)

// CapturedNotice holds the fields of a server notice that tests assert on.
type CapturedNotice struct {
	Severity string // NOTICE, WARNING, INFO, ...
	Code     string // SQLSTATE
	Message  string
}

// NoticeCapture records NOTICE and WARNING messages raised by statements
// executed over a capturing pool. Thread-safe for concurrent use.
type NoticeCapture struct {
	notices []CapturedNotice
	mu      sync.Mutex
}

// NewNoticeCapture creates an empty NoticeCapture.
func NewNoticeCapture() *NoticeCapture {
	return &NoticeCapture{notices: make([]CapturedNotice, 0)}
}

// Handler returns a function suitable for pgx's OnNotice callback.
func (nc *NoticeCapture) Handler() func(*pgconn.PgConn, *pgconn.Notice) {
	return func(_ *pgconn.PgConn, n *pgconn.Notice) {
		if n == nil {
			return
		}

		nc.mu.Lock()
		defer nc.mu.Unlock()

		nc.notices = append(nc.notices, CapturedNotice{
			Severity: n.Severity,
			Code:     n.Code,
			Message:  n.Message,
		})
	}
}

// Notices returns a copy of all captured notices in arrival order.
func (nc *NoticeCapture) Notices() []CapturedNotice {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	result := make([]CapturedNotice, len(nc.notices))
	copy(result, nc.notices)
	return result
}

// Messages returns just the message texts in arrival order.
func (nc *NoticeCapture) Messages() []string {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	result := make([]string, len(nc.notices))
	for i, n := range nc.notices {
		result[i] = n.Message
	}
	return result
}

// Contains reports whether any captured message contains substr.
func (nc *NoticeCapture) Contains(substr string) bool {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	for _, n := range nc.notices {
		if strings.Contains(n.Message, substr) {
			return true
		}
	}
	return false
}

// Reset clears all captured notices.
func (nc *NoticeCapture) Reset() {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	nc.notices = nc.notices[:0]
}

// Count returns the number of captured notices.
func (nc *NoticeCapture) Count() int {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	return len(nc.notices)
}
