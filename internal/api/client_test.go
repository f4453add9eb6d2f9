package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"pomovity/internal/model"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestClientAttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.Method != http.MethodGet || r.URL.Path != "/api/tasks" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"tasks":[{"id":4,"title":"write","priority":5,"due_date":"2024-03-01","created_at":"2024-03-01T08:00:00.123456"}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/api/", staticToken("secret"), 0)
	tasks, err := c.ListTasks(context.Background())
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer secret")
	}
	if len(tasks) != 1 || tasks[0].ID != 4 || tasks[0].Title != "write" {
		t.Fatalf("tasks = %+v", tasks)
	}
	if tasks[0].CreatedAt.IsZero() {
		t.Error("expected created_at to be parsed")
	}
}

func TestClientOmitsAuthorizationWithoutToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "" {
			t.Errorf("Authorization = %q, want none", auth)
		}
		w.Write([]byte(`{"access_token":"tok","user":{"id":1,"username":"ann"}}`))
	}))
	defer srv.Close()

	resp, err := New(srv.URL, staticToken(""), 0).Login(context.Background(), "ann", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.AccessToken != "tok" || resp.User.Username != "ann" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestClientSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Task not found"}`))
	}))
	defer srv.Close()

	err := New(srv.URL, nil, 0).DeleteTask(context.Background(), 9)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusNotFound || apiErr.Message != "Task not found" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestErrorMessageFallsBackToStatusText(t *testing.T) {
	if got := errorMessage(http.StatusBadGateway, []byte("<html>")); got != "Bad Gateway" {
		t.Errorf("errorMessage = %q", got)
	}
	if got := errorMessage(http.StatusUnauthorized, []byte(`{"msg":"Token has expired"}`)); got != "Token has expired" {
		t.Errorf("errorMessage = %q", got)
	}
}

func TestCreateRecurringTaskFlagsBody(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/tasks" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"task":{"id":3,"title":"stretch","is_recurring":true}}`))
	}))
	defer srv.Close()

	days := "0,2"
	task, err := New(srv.URL, staticToken("t"), 0).CreateRecurringTask(context.Background(), model.RecurringTaskInput{
		Title:          "stretch",
		Priority:       3,
		RecurrenceType: model.RecurrenceWeekly,
		RecurrenceDays: &days,
	})
	if err != nil {
		t.Fatalf("CreateRecurringTask: %v", err)
	}
	if !task.IsRecurring {
		t.Error("expected recurring task in response")
	}
	if body["is_recurring"] != true {
		t.Errorf("is_recurring = %v, want true", body["is_recurring"])
	}
	if body["recurrence_days"] != "0,2" {
		t.Errorf("recurrence_days = %v", body["recurrence_days"])
	}
}

func TestCreatePomodoroSendsNullTaskID(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"pomodoro":{"id":11,"task_id":null,"duration":25,"type":"work","completed_at":"2024-03-01T09:00:00"}}`))
	}))
	defer srv.Close()

	p, err := New(srv.URL, staticToken("t"), 0).CreatePomodoro(context.Background(), model.PomodoroInput{Duration: 25, Type: model.PomodoroWork})
	if err != nil {
		t.Fatalf("CreatePomodoro: %v", err)
	}
	if v, ok := body["task_id"]; !ok || v != nil {
		t.Errorf("task_id = %v (present %v), want explicit null", v, ok)
	}
	if p.ID != 11 || p.RecordedAt().IsZero() {
		t.Errorf("pomodoro = %+v", p)
	}
}
