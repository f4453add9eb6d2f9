package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pomovity/internal/model"
)

// stats
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show pomodoro counts and focus time",
	Args:  cobra.NoArgs,
	RunE:  withApp(runStats),
}

// analytics
var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Show completion rates and the seven-day trend",
	Args:  cobra.NoArgs,
	RunE:  withApp(runAnalytics),
}

// today
var todayCmd = &cobra.Command{
	Use:     "today",
	Short:   "Print the daily report",
	Aliases: []string{"report"},
	Args:    cobra.NoArgs,
	RunE:    withApp(runToday),
}

// generate
var generateCmd = &cobra.Command{
	Use:   "generate <description>",
	Short: "Ask the service to suggest tasks for a goal",
	Args:  cobra.MinimumNArgs(1),
	RunE:  withApp(runGenerate),
}

func init() {
	rootCmd.AddCommand(statsCmd, analyticsCmd, todayCmd, generateCmd)
}

func runStats(cmd *cobra.Command, args []string, a *app) error {
	stats, err := a.tasks.PomodoroStats(cmd.Context())
	if err != nil {
		return err
	}
	printStats(cmd.OutOrStdout(), *stats)
	return nil
}

func printStats(out io.Writer, stats model.PomodoroStats) {
	fmt.Fprintf(out, "Today: %d pomodoros, %s focused\n", stats.Today.Count, formatMinutes(stats.Today.FocusTime))
	if stats.Week != nil {
		fmt.Fprintf(out, "This week: %d pomodoros, %s focused\n", stats.Week.Count, formatMinutes(stats.Week.FocusTime))
	}
	if stats.Total.Count > 0 {
		fmt.Fprintf(out, "All time: %d pomodoros, %s focused\n", stats.Total.Count, formatMinutes(stats.Total.FocusTime))
	}
}

func runAnalytics(cmd *cobra.Command, args []string, a *app) error {
	out := cmd.OutOrStdout()
	if a.session.IsGuest() {
		fmt.Fprintln(out, "Analytics are available after signing in.")
		return nil
	}

	report, err := a.tasks.Analytics(cmd.Context())
	if err != nil {
		return err
	}
	printAnalytics(out, *report)
	return nil
}

func printAnalytics(out io.Writer, report model.Analytics) {
	fmt.Fprintf(out, "Today: %d/%d done (%.0f%%)\n", report.Today.Completed, report.Today.Total, report.Today.Rate)
	fmt.Fprintf(out, "This week: %d/%d done (%.0f%%)\n", report.Week.Completed, report.Week.Total, report.Week.Rate)

	if len(report.DailyTrend) > 0 {
		fmt.Fprintln(out, "\nLast 7 days")
		for _, day := range report.DailyTrend {
			fmt.Fprintf(out, "  %s %-10s %s %d/%d\n", day.Day, day.Date, bar(day.Completed, day.Total, 10), day.Completed, day.Total)
		}
	}
	if len(report.PriorityStats) > 0 {
		fmt.Fprintln(out, "\nBy priority")
		for _, p := range report.PriorityStats {
			fmt.Fprintf(out, "  P%d %-6s %d/%d\n", p.Priority, model.PriorityLabel(p.Priority), p.Completed, p.Total)
		}
	}
}

func runToday(cmd *cobra.Command, args []string, a *app) error {
	report, err := a.reminder.DailySummary(cmd.Context(), time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), report)
	return nil
}

func runGenerate(cmd *cobra.Command, args []string, a *app) error {
	suggestions, err := a.client.GenerateTasks(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(suggestions) == 0 {
		fmt.Fprintln(out, "No suggestions.")
		return nil
	}
	for i, s := range suggestions {
		fmt.Fprintf(out, "%d. %s [%s]\n", i+1, s.Title, model.PriorityLabel(s.Priority))
		if s.Description != "" {
			fmt.Fprintf(out, "   %s\n", s.Description)
		}
	}
	return nil
}

func formatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh%02dm", minutes/60, minutes%60)
}

// bar renders done/total as a fixed-width bar.
func bar(done, total, width int) string {
	filled := 0
	if total > 0 {
		filled = done * width / total
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
