package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pomovity/internal/model"
	"pomovity/internal/service"
)

var recurringCmd = &cobra.Command{
	Use:     "recurring",
	Short:   "Manage recurring task templates (signed-in accounts only)",
	Aliases: []string{"rec"},
}

// recurring list
var recurringListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recurring templates",
	Args:  cobra.NoArgs,
	RunE:  withApp(runRecurringList),
}

// recurring add
var recurringAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a recurring template",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runRecurringAdd),
}

// recurring edit
var recurringEditCmd = &cobra.Command{
	Use:   "edit <id> <title>",
	Short: "Replace a recurring template",
	Args:  cobra.ExactArgs(2),
	RunE:  withApp(runRecurringEdit),
}

// recurring delete
var recurringDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Short:   "Delete a recurring template",
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	RunE:    withApp(runRecurringDelete),
}

var (
	recurringDescriptionFlag string
	recurringPriorityFlag    int
	recurringEveryFlag       string
	recurringDaysFlag        string
)

func init() {
	rootCmd.AddCommand(recurringCmd)
	recurringCmd.AddCommand(recurringListCmd, recurringAddCmd, recurringEditCmd, recurringDeleteCmd)

	for _, cmd := range []*cobra.Command{recurringAddCmd, recurringEditCmd} {
		cmd.Flags().StringVarP(&recurringDescriptionFlag, "description", "d", "", "Template description")
		cmd.Flags().IntVarP(&recurringPriorityFlag, "priority", "p", model.DefaultPriority, "Priority from 1 (low) to 5 (high)")
		cmd.Flags().StringVar(&recurringEveryFlag, "every", model.RecurrenceDaily, "Recurrence: daily or weekly")
		cmd.Flags().StringVar(&recurringDaysFlag, "days", "", "Weekdays for weekly templates, e.g. mon,wed,fri")
	}
}

func runRecurringList(cmd *cobra.Command, args []string, a *app) error {
	templates, err := a.recurring.List(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(templates) == 0 {
		fmt.Fprintln(out, "No recurring tasks.")
		return nil
	}
	for _, tmpl := range templates {
		fmt.Fprintln(out, formatRecurring(tmpl))
	}
	return nil
}

func runRecurringAdd(cmd *cobra.Command, args []string, a *app) error {
	input, err := recurringInputFromFlags(args[0])
	if err != nil {
		return err
	}

	task, err := a.recurring.Create(cmd.Context(), input)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created recurring task #%d %s\n", task.ID, task.Title)
	return nil
}

func runRecurringEdit(cmd *cobra.Command, args []string, a *app) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	input, err := recurringInputFromFlags(args[1])
	if err != nil {
		return err
	}

	tmpl, err := a.recurring.Update(cmd.Context(), id, input)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), formatRecurring(*tmpl))
	return nil
}

func runRecurringDelete(cmd *cobra.Command, args []string, a *app) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	if err := a.recurring.Delete(cmd.Context(), id); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted recurring task #%d\n", id)
	return nil
}

func recurringInputFromFlags(title string) (service.RecurringInput, error) {
	days, err := parseWeekdays(recurringDaysFlag)
	if err != nil {
		return service.RecurringInput{}, err
	}
	return service.RecurringInput{
		Title:          title,
		Description:    recurringDescriptionFlag,
		Priority:       recurringPriorityFlag,
		RecurrenceType: recurringEveryFlag,
		Days:           days,
	}, nil
}

func formatRecurring(tmpl model.RecurringTask) string {
	schedule := "every day"
	if tmpl.RecurrenceType == model.RecurrenceWeekly {
		days, err := tmpl.Days()
		if err != nil {
			schedule = "weekly (unreadable days)"
		} else {
			schedule = "every " + formatWeekdays(days)
		}
	}
	return fmt.Sprintf("🔁 #%d %s [%s] %s", tmpl.ID, tmpl.Title, model.PriorityLabel(tmpl.Priority), schedule)
}
