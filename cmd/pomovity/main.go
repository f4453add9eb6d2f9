// Package main implements the pomovity CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"pomovity/internal/api"
	"pomovity/internal/config"
	"pomovity/internal/repository"
	"pomovity/internal/service"
	"pomovity/internal/session"
	"pomovity/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "pomovity",
	Short:        "Pomovity - tasks, focus timer and productivity stats",
	SilenceUsage: true,
}

// app holds everything a command needs. Commands open it on demand so that
// --help never touches the database.
type app struct {
	cfg       config.Config
	db        *gorm.DB
	session   *session.Session
	client    *api.Client
	selector  *store.Selector
	tasks     *service.TaskService
	recurring *service.RecurringService
	auth      *service.AuthService
	reminder  *service.ReminderService
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}
	entries := repository.NewEntryRepository(db)

	sess, err := session.Load(ctx, entries)
	if err != nil {
		closeDB(db)
		return nil, fmt.Errorf("session: %w", err)
	}

	client := api.New(cfg.APIURL, sess, cfg.HTTPTimeout)
	local := store.NewLocal(entries)
	remote := store.NewRemote(client)
	selector := store.NewSelector(sess, local, remote)
	migrator := service.NewMigrator(sess, local, remote)

	return &app{
		cfg:       cfg,
		db:        db,
		session:   sess,
		client:    client,
		selector:  selector,
		tasks:     service.NewTaskService(selector, client),
		recurring: service.NewRecurringService(sess, client),
		auth:      service.NewAuthService(sess, client, migrator),
		reminder:  service.NewReminderService(selector),
	}, nil
}

func (a *app) Close() {
	closeDB(a.db)
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}

// withApp adapts a command body that needs the wired application.
func withApp(run func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		return run(cmd, args, a)
	}
}
