package testing

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgcall/pgcall/internal/db"
)

// PoolWithNoticeCapture pairs a pgxpool.Pool with the capture that receives
// its server notices.
type PoolWithNoticeCapture struct {
	*pgxpool.Pool
	Capture *NoticeCapture
}

// GetTestPoolWithNoticeCapture opens a pool whose connections record server
// notices into the returned capture instead of routing them to a logger.
// The pool is closed when the test completes.
func GetTestPoolWithNoticeCapture(t *testing.T, connString string) *PoolWithNoticeCapture {
	t.Helper()

	capture := NewNoticeCapture()

	config, err := db.ParseConnectionString(connString)
	if err != nil {
		t.Fatalf("Failed to parse connection string: %v", err)
	}
	config.AppName = "pgcall-test"

	poolConfig, err := pgxpool.ParseConfig(db.BuildConnectionString(config))
	if err != nil {
		t.Fatalf("Failed to parse pool config: %v", err)
	}
	poolConfig.ConnConfig.OnNotice = capture.Handler()

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		t.Fatalf("Failed to create connection pool: %v", err)
	}
	t.Cleanup(pool.Close)

	return &PoolWithNoticeCapture{Pool: pool, Capture: capture}
}
