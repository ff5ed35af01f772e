package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	os.Exit(reportError(os.Stderr, err))
}

// reportError prints err to w and returns the process exit code: 0 on
// success, 2 for command-line usage errors, 1 otherwise.
func reportError(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	if !errors.Is(err, context.Canceled) {
		fmt.Fprintln(w, "Error:", err)
	}
	var usageErr *usageError
	if errors.As(err, &usageErr) {
		if usageErr.usage != "" {
			fmt.Fprint(w, usageErr.usage)
		}
		return 2
	}
	return 1
}

type usageError struct {
	err   error
	usage string
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }
