package ops

import (
	"context"
	"time"

	"github.com/pgcall/pgcall/pkg/pgcall"
)

// NowMs reports wall-clock milliseconds since the Unix epoch.
//
// The value is read from the wall clock, not a monotonic source: two
// consecutive calls can go backwards if the system clock is adjusted
// between them.
type NowMs struct {
	clock func() time.Time
}

// NewNowMs creates the now_ms operation using the system clock.
func NewNowMs() *NowMs {
	return &NowMs{clock: time.Now}
}

func (n *NowMs) Name() string {
	return "now_ms"
}

func (n *NowMs) Args() []pgcall.ArgSpec {
	return nil
}

func (n *NowMs) Invoke(ctx context.Context, args []pgcall.Value) (pgcall.Value, error) {
	return pgcall.IntValue(n.clock().UnixMilli()), nil
}

var _ pgcall.Operation = (*NowMs)(nil)
