package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/spf13/cobra"

	"pomovity/internal/bot"
	"pomovity/internal/notify"
	"pomovity/internal/service"
	"pomovity/internal/timer"
)

// focus
var focusCmd = &cobra.Command{
	Use:     "focus [task-id]",
	Short:   "Run the pomodoro timer, optionally for a task",
	Aliases: []string{"timer"},
	Args:    cobra.MaximumNArgs(1),
	RunE:    withApp(runFocus),
}

var (
	focusSessionsFlag int
	focusQuietFlag    bool
)

func init() {
	rootCmd.AddCommand(focusCmd)
	focusCmd.Flags().IntVarP(&focusSessionsFlag, "sessions", "n", 1, "Work sessions to run, with breaks in between")
	focusCmd.Flags().BoolVarP(&focusQuietFlag, "quiet", "q", false, "No terminal bell")
}

func runFocus(cmd *cobra.Command, args []string, a *app) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	var taskID *int64
	if len(args) == 1 {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		task, err := a.tasks.FindTask(ctx, id)
		if err != nil {
			return fmt.Errorf("task #%d: %w", id, err)
		}
		taskID = &task.ID
		fmt.Fprintf(out, "Focusing on #%d %s\n", task.ID, task.Title)
	}

	scheduler := service.NewSchedulerService(time.Local)
	scheduler.Start()
	defer scheduler.Stop()

	completed := make(chan timer.Mode, 1)
	tm := timer.New(timer.Options{
		WorkDuration:  a.cfg.WorkDuration,
		BreakDuration: a.cfg.BreakDuration,
		Ticker:        scheduler,
		Recorder:      a.selector,
		Notifier:      focusNotifier(a),
		Sounder:       focusSounder(out),
		OnComplete: func(mode timer.Mode) {
			completed <- mode
		},
	})
	tm.SelectTask(taskID)

	if _, err := scheduler.ScheduleInterval(time.Second, func() {
		fmt.Fprintf(out, "\r%s ", tm.Snapshot())
	}); err != nil {
		return fmt.Errorf("schedule display: %w", err)
	}

	done, err := runSessions(ctx, out, tm, completed, focusSessionsFlag)
	if err != nil {
		return err
	}
	if !done {
		fmt.Fprintln(out, "\nStopped.")
		return nil
	}
	printFocusStats(cmd, a)
	return nil
}

type focusTimer interface {
	Start() error
	Reset()
	Snapshot() timer.Snapshot
}

// runSessions alternates work and break intervals until sessions work
// intervals have finished. It reports false when ctx ended first.
func runSessions(ctx context.Context, out io.Writer, tm focusTimer, completed <-chan timer.Mode, sessions int) (bool, error) {
	if sessions < 1 {
		sessions = 1
	}
	if err := tm.Start(); err != nil {
		return false, err
	}

	worked := 0
	for {
		select {
		case <-ctx.Done():
			tm.Reset()
			return false, nil
		case mode := <-completed:
			if mode == timer.ModeWork {
				worked++
			}
			fmt.Fprintf(out, "\r%s complete (%d/%d work sessions, %d recorded)\n",
				modeLabel(mode), worked, sessions, tm.Snapshot().Sessions)
			if mode == timer.ModeWork && worked >= sessions {
				return true, nil
			}
			if err := tm.Start(); err != nil {
				return false, err
			}
		}
	}
}

func focusNotifier(a *app) timer.Notifier {
	channels := []notify.Notifier{notify.Log{}}
	if a.cfg.Telegram() {
		botAPI, err := bot.Connect(a.cfg.TelegramToken)
		if err != nil {
			log.Printf("[warn] telegram notifications disabled: %v", err)
		} else {
			channels = append(channels, bot.NewNotifier(botAPI, a.cfg.TelegramChatID))
		}
	}
	return notify.NewFanout(channels...)
}

func focusSounder(out io.Writer) timer.Sounder {
	if focusQuietFlag {
		return nil
	}
	return notify.NewBell(out, 300*time.Millisecond)
}

func printFocusStats(cmd *cobra.Command, a *app) {
	stats, err := a.tasks.PomodoroStats(cmd.Context())
	if err != nil {
		log.Printf("pomodoro stats: %v", err)
		return
	}
	printStats(cmd.OutOrStdout(), *stats)
}

func modeLabel(mode timer.Mode) string {
	if mode == timer.ModeBreak {
		return "Break"
	}
	return "Focus"
}
