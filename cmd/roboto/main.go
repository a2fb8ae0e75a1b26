package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/marcelotrevisani/roboto/config"
	"github.com/marcelotrevisani/roboto/internal/app/notifications"
	"github.com/marcelotrevisani/roboto/internal/app/review"
	"github.com/marcelotrevisani/roboto/internal/pkg/github"
	"github.com/marcelotrevisani/roboto/internal/pkg/transport/httpserver"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err.Error())
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Get()
	if err != nil {
		return err
	}

	githubClient, err := github.New(ctx, github.GithubConfig{
		Token:   cfg.GithubToken,
		BaseUrl: cfg.GithubBaseUrl,
	})
	if err != nil {
		return err
	}

	reviewSet, err := review.Init(ctx, cfg, githubClient)
	if err != nil {
		return err
	}

	notificationsSet, err := notifications.Init(ctx, cfg, githubClient, reviewSet)
	if err != nil {
		return err
	}

	notificationsSet.Run(ctx)

	httpServer := httpserver.NewHttpServer(notificationsSet)

	errChan := make(chan error, 2)
	go func() {
		if err := httpServer.ListenAndServe(cfg.Port); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Println("Shutdown signal received")
	case <-errChan:
		log.Println("Received error from http server")
	case <-ctx.Done():
		log.Println("Context cancelled")
	}

	notificationsSet.Shutdown()

	err = httpServer.Shutdown(ctx)
	if err != nil {
		log.Fatal("HTTP server shutdown error:", err)
	}

	log.Println("HTTP server gracefully shutdown")

	return nil
}
