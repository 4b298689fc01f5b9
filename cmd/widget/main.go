package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/shoplite/chatwidget/internal/api"
	"github.com/shoplite/chatwidget/internal/config"
	"github.com/shoplite/chatwidget/internal/controller"
	"github.com/shoplite/chatwidget/internal/render"
	"github.com/shoplite/chatwidget/internal/session"
	"github.com/shoplite/chatwidget/internal/widget"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	store := session.NewFileStore(cfg.Widget.StateDir)
	client := api.NewClient(cfg.Widget.APIBase, cfg.Widget.APIKey, time.Duration(cfg.Widget.TimeoutSeconds)*time.Second)
	surface := render.NewTermRenderer(os.Stdout)
	ctrl := controller.New(store, client, surface, cfg.Widget.Locale)
	shell := widget.NewShell(ctrl, surface, os.Stdin, os.Stdout)

	if err := shell.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("widget shell error: %v", err)
	}
}
