package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-kyugo/pagekit"
	"github.com/go-kyugo/pagekit/config"
	"github.com/go-kyugo/pagekit/example/controllers"
)

func main() {
	path := flag.String("config", "./config.json", "configuration file")
	flag.Parse()

	if err := config.LoadConfig(*path); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	srv, err := pagekit.NewServer(pagekit.Options{Config: &config.ConfigVar})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	pages := controllers.NewPages()
	pages.Init(srv)
	srv.RegisterRoutes(registerRoutes, pages)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx, 10*time.Second); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func registerRoutes(_ *pagekit.Server, r *pagekit.Router) {
	r.Get("/healthz", func(resp *pagekit.Response, req *pagekit.Request) {
		resp.JSON(http.StatusOK, "ok", nil)
	})
}
