package main

import (
	"context"
	"os"
	"os/signal"
	"slices"

	"github.com/romci/cli/internal/errors"
	"github.com/romci/cli/pkg/cmd/factory"
	"github.com/romci/cli/pkg/cmd/root"
)

// version is stamped by the release build
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	handler := errors.NewHandler().WithVerbose(slices.Contains(os.Args, "--debug"))

	f := factory.New(version)
	cmd, err := root.NewCmdRoot(f)
	if err != nil {
		handler.Handle(err)
		return
	}

	if err := cmd.ExecuteContext(ctx); err != nil {
		handler.Handle(err)
	}
}
