package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/pgcall/pgcall/internal/cli"
	"github.com/pgcall/pgcall/pkg/pgcall"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(pgcall.ExitPanic)
		}
	}()

	if os.Getenv("PGCALL_TEST_PANIC") == "1" {
		panic("intentional test panic")
	}

	if err := cli.Execute(); err != nil {
		os.Exit(pgcall.ExitCodeForError(err))
	}
}
