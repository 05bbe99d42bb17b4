package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/quickqr/internal/buildinfo"
	"github.com/dmitrijs2005/quickqr/internal/server"
	"github.com/dmitrijs2005/quickqr/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	app.Run(ctx)
}
