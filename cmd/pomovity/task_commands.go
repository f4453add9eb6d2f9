package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"pomovity/internal/model"
	"pomovity/internal/service"
)

var taskCmd = &cobra.Command{
	Use:     "task",
	Short:   "Manage tasks",
	Aliases: []string{"tasks"},
}

// task list
var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks ordered by due date and priority",
	Args:  cobra.NoArgs,
	RunE:  withApp(runTaskList),
}

// task add
var taskAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a task",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runTaskAdd),
}

// task edit
var taskEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a task",
	Aliases: []string{
		"update",
	},
	Args: cobra.ExactArgs(1),
	RunE: withApp(runTaskEdit),
}

// task done
var taskDoneCmd = &cobra.Command{
	Use:     "done <id>",
	Short:   "Toggle a task's completion",
	Aliases: []string{"toggle"},
	Args:    cobra.ExactArgs(1),
	RunE:    withApp(runTaskDone),
}

// task delete
var taskDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Short:   "Delete a task",
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	RunE:    withApp(runTaskDelete),
}

var (
	taskAllFlag         bool
	taskDescriptionFlag string
	taskPriorityFlag    int
	taskDueFlag         string
	taskTitleFlag       string
)

func init() {
	rootCmd.AddCommand(taskCmd)
	taskCmd.AddCommand(taskListCmd, taskAddCmd, taskEditCmd, taskDoneCmd, taskDeleteCmd)

	taskListCmd.Flags().BoolVarP(&taskAllFlag, "all", "a", false, "Include completed tasks")

	for _, cmd := range []*cobra.Command{taskAddCmd, taskEditCmd} {
		cmd.Flags().StringVarP(&taskDescriptionFlag, "description", "d", "", "Task description")
		cmd.Flags().IntVarP(&taskPriorityFlag, "priority", "p", model.DefaultPriority, "Priority from 1 (low) to 5 (high)")
		cmd.Flags().StringVar(&taskDueFlag, "due", "", "Due date: YYYY-MM-DD, today or tomorrow")
	}
	taskEditCmd.Flags().StringVarP(&taskTitleFlag, "title", "t", "", "New title")
}

func runTaskList(cmd *cobra.Command, args []string, a *app) error {
	tasks, err := a.tasks.ListTasks(cmd.Context())
	if err != nil {
		return err
	}

	now := time.Now()
	service.SortTasks(tasks, now.Location())

	out := cmd.OutOrStdout()
	shown := 0
	for _, task := range tasks {
		if task.Completed && !taskAllFlag {
			continue
		}
		fmt.Fprint(out, service.FormatTask(task, now))
		shown++
	}
	if shown == 0 {
		fmt.Fprintln(out, "No tasks.")
	}
	if a.session.IsGuest() {
		fmt.Fprintln(out, "(guest mode: tasks are stored on this device)")
	}
	return nil
}

func runTaskAdd(cmd *cobra.Command, args []string, a *app) error {
	due, err := parseDue(taskDueFlag, time.Now())
	if err != nil {
		return err
	}

	task, err := a.tasks.CreateTask(cmd.Context(), model.TaskInput{
		Title:       args[0],
		Description: taskDescriptionFlag,
		Priority:    taskPriorityFlag,
		DueDate:     due,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created task #%d %s (due %s)\n", task.ID, task.Title, task.DueDate)
	return nil
}

func runTaskEdit(cmd *cobra.Command, args []string, a *app) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	var patch model.TaskPatch
	if cmd.Flags().Changed("title") {
		patch.Title = &taskTitleFlag
	}
	if cmd.Flags().Changed("description") {
		patch.Description = &taskDescriptionFlag
	}
	if cmd.Flags().Changed("priority") {
		patch.Priority = &taskPriorityFlag
	}
	if cmd.Flags().Changed("due") {
		due, err := parseDue(taskDueFlag, time.Now())
		if err != nil {
			return err
		}
		patch.DueDate = &due
	}
	if !hasChangedFlags(cmd, "title", "description", "priority", "due") {
		return fmt.Errorf("nothing to change: pass --title, --description, --priority or --due")
	}

	task, err := a.tasks.UpdateTask(cmd.Context(), id, patch)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), service.FormatTask(*task, time.Now()))
	return nil
}

func runTaskDone(cmd *cobra.Command, args []string, a *app) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	task, err := a.tasks.ToggleTask(cmd.Context(), id)
	if err != nil {
		return err
	}

	state := "open"
	if task.Completed {
		state = "done"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Task #%d %s is %s\n", task.ID, task.Title, state)
	return nil
}

func runTaskDelete(cmd *cobra.Command, args []string, a *app) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	if err := a.tasks.DeleteTask(cmd.Context(), id); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted task #%d\n", id)
	return nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
