package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"pomovity/internal/bot"
	"pomovity/internal/notify"
	"pomovity/internal/service"
	"pomovity/internal/timer"
)

// bot
var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram front end for the configured chat",
	Args:  cobra.NoArgs,
	RunE:  withApp(runBot),
}

func init() {
	rootCmd.AddCommand(botCmd)
}

func runBot(cmd *cobra.Command, args []string, a *app) error {
	ctx := cmd.Context()
	if err := a.cfg.RequireTelegram(); err != nil {
		return err
	}

	botAPI, err := bot.Connect(a.cfg.TelegramToken)
	if err != nil {
		return err
	}

	scheduler := service.NewSchedulerService(time.Local)
	tm := timer.New(timer.Options{
		WorkDuration:  a.cfg.WorkDuration,
		BreakDuration: a.cfg.BreakDuration,
		Ticker:        scheduler,
		Recorder:      a.selector,
		Notifier:      notify.NewFanout(notify.Log{}, bot.NewNotifier(botAPI, a.cfg.TelegramChatID)),
	})

	telegramBot := bot.New(botAPI, a.cfg.TelegramChatID, a.tasks, a.reminder, tm)

	sendReport := func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := telegramBot.SendDailyReport(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("report: %v", err)
		}
	}
	if a.cfg.ReportTime != "" {
		if _, err := scheduler.ScheduleDaily(a.cfg.ReportTime, sendReport); err != nil {
			return fmt.Errorf("REPORT_TIME: %w", err)
		}
	} else if a.cfg.ReportInterval > 0 {
		if _, err := scheduler.ScheduleInterval(a.cfg.ReportInterval, sendReport); err != nil {
			return err
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	log.Println("Pomovity bot started.")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	tm.Reset()
	log.Println("Shutdown complete.")
	return nil
}
