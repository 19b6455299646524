package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/kailas-cloud/vecjudge/internal/cli"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.NewRootCmd().ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}

	fmt.Fprintln(os.Stderr, "Error:", err)
	code := 1
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) && exitErr.Code != 0 {
		code = exitErr.Code
	}
	os.Exit(code)
}
