package ops

import (
	"context"
	"fmt"
	"strings"

	"github.com/pgcall/pgcall/internal/settings"
	"github.com/pgcall/pgcall/pkg/pgcall"
)

// Greeting produces the phrase "Hello, <name>!" repeated by the current
// value of the repeat setting, joined by single spaces.
type Greeting struct {
	settings *settings.Store
}

// NewGreeting creates the greeting operation over the given settings store.
// Panics if store is nil.
func NewGreeting(store *settings.Store) *Greeting {
	if store == nil {
		panic("store cannot be nil")
	}
	return &Greeting{settings: store}
}

func (g *Greeting) Name() string {
	return "greeting"
}

func (g *Greeting) Args() []pgcall.ArgSpec {
	return []pgcall.ArgSpec{
		{Name: "name", Kind: pgcall.ValueString},
	}
}

// Invoke reads the repeat count at call time, so a change to the setting
// between calls takes effect on the next call.
func (g *Greeting) Invoke(ctx context.Context, args []pgcall.Value) (pgcall.Value, error) {
	repeat, err := g.settings.Get(pgcall.SettingRepeat)
	if err != nil {
		return pgcall.Value{}, fmt.Errorf("reading repeat setting: %w", err)
	}

	phrase := fmt.Sprintf("Hello, %s!", args[0].Str)
	phrases := make([]string, repeat)
	for i := range phrases {
		phrases[i] = phrase
	}

	return pgcall.StringValue(strings.Join(phrases, " ")), nil
}

var _ pgcall.Operation = (*Greeting)(nil)
