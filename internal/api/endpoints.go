package api

import (
	"context"
	"fmt"
	"net/http"

	"pomovity/internal/model"
)

func (c *Client) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	body := map[string]string{"username": username, "email": email, "password": password}
	var resp struct {
		User model.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/register", body, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) Login(ctx context.Context, username, password string) (*model.AuthResponse, error) {
	body := map[string]string{"username": username, "password": password}
	var resp model.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/login", body, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("login: response carried no access token")
	}
	return &resp, nil
}

func (c *Client) Profile(ctx context.Context) (*model.User, error) {
	var resp struct {
		User model.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/profile", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) UpdateProfile(ctx context.Context, update model.ProfileUpdate) (*model.User, error) {
	var resp struct {
		User model.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPut, "/profile", update, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) ChangePassword(ctx context.Context, change model.PasswordChange) error {
	return c.do(ctx, http.MethodPut, "/profile/password", change, nil)
}

type taskResponse struct {
	Task model.Task `json:"task"`
}

func (c *Client) ListTasks(ctx context.Context) ([]model.Task, error) {
	var resp struct {
		Tasks []model.Task `json:"tasks"`
	}
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, input model.TaskInput) (*model.Task, error) {
	var resp taskResponse
	if err := c.do(ctx, http.MethodPost, "/tasks", input, &resp); err != nil {
		return nil, err
	}
	return &resp.Task, nil
}

func (c *Client) UpdateTask(ctx context.Context, id int64, patch model.TaskPatch) (*model.Task, error) {
	var resp taskResponse
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/tasks/%d", id), patch, &resp); err != nil {
		return nil, err
	}
	return &resp.Task, nil
}

func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/tasks/%d", id), nil, nil)
}

func (c *Client) ToggleTask(ctx context.Context, id int64) (*model.Task, error) {
	var resp taskResponse
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/tasks/%d/toggle", id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Task, nil
}

func (c *Client) Analytics(ctx context.Context) (*model.Analytics, error) {
	var resp model.Analytics
	if err := c.do(ctx, http.MethodGet, "/analytics", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CreatePomodoro(ctx context.Context, input model.PomodoroInput) (*model.Pomodoro, error) {
	var resp struct {
		Pomodoro model.Pomodoro `json:"pomodoro"`
	}
	if err := c.do(ctx, http.MethodPost, "/pomodoros", input, &resp); err != nil {
		return nil, err
	}
	return &resp.Pomodoro, nil
}

func (c *Client) PomodoroStats(ctx context.Context) (*model.PomodoroStats, error) {
	var resp model.PomodoroStats
	if err := c.do(ctx, http.MethodGet, "/pomodoros/stats", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListRecurringTasks(ctx context.Context) ([]model.RecurringTask, error) {
	var resp struct {
		RecurringTasks []model.RecurringTask `json:"recurring_tasks"`
	}
	if err := c.do(ctx, http.MethodGet, "/recurring-tasks", nil, &resp); err != nil {
		return nil, err
	}
	return resp.RecurringTasks, nil
}

// CreateRecurringTask posts a template through the regular task endpoint,
// flagged as recurring.
func (c *Client) CreateRecurringTask(ctx context.Context, input model.RecurringTaskInput) (*model.Task, error) {
	input.IsRecurring = true
	var resp taskResponse
	if err := c.do(ctx, http.MethodPost, "/tasks", input, &resp); err != nil {
		return nil, err
	}
	return &resp.Task, nil
}

func (c *Client) UpdateRecurringTask(ctx context.Context, id int64, input model.RecurringTaskInput) (*model.RecurringTask, error) {
	var resp struct {
		Task model.RecurringTask `json:"task"`
	}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/recurring-tasks/%d", id), input, &resp); err != nil {
		return nil, err
	}
	return &resp.Task, nil
}

func (c *Client) DeleteRecurringTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/recurring-tasks/%d", id), nil, nil)
}

// GenerateTasks asks the service to break a free-form description into tasks.
func (c *Client) GenerateTasks(ctx context.Context, description string) ([]model.GeneratedTask, error) {
	var resp struct {
		Tasks []model.GeneratedTask `json:"tasks"`
	}
	body := map[string]string{"description": description}
	if err := c.do(ctx, http.MethodPost, "/ai/generate-tasks", body, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}
