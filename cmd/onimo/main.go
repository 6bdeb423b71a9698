package main

import (
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/alamin17ui/onimo-chat-auth-core/internal/api"
	"github.com/alamin17ui/onimo-chat-auth-core/internal/config"
	"github.com/alamin17ui/onimo-chat-auth-core/internal/logging"
	authservice "github.com/alamin17ui/onimo-chat-auth-core/internal/service/auth"
	chatservice "github.com/alamin17ui/onimo-chat-auth-core/internal/service/chat"
	"github.com/alamin17ui/onimo-chat-auth-core/internal/session"
	"github.com/alamin17ui/onimo-chat-auth-core/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "onimo: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger, closeLog, err := logging.New(cfg.Client.LogPath)
	if err != nil {
		return err
	}
	defer closeLog()

	client := api.NewClient(cfg.Client.BaseURL, cfg.Client.Timeout, logger)

	storage := session.NewFileStorage(cfg.Client.TokenPath)
	sess, err := session.NewStore(storage, client, logger)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}

	authSvc := authservice.NewService(client, sess, logger)
	feed := chatservice.NewFeed(client, sess, logger)

	app := tui.NewApp(authSvc, feed, sess, logger)
	program := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
