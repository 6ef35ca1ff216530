package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
server:
  port: 0
  mode: release
log:
  log_level: error
database:
  dsn: ` + filepath.Join(dir, "test.db") + `
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestInitGraphOrder(t *testing.T) {
	steps := InitGraph()
	want := []string{
		"config:load",
		"logging:init",
		"storage:init-database",
		"eventbus:init",
		"session:init-provider",
		"services:init",
	}
	if len(steps) != len(want) {
		t.Fatalf("unexpected step count: got %d want %d", len(steps), len(want))
	}
	for i, step := range steps {
		if step.ID != want[i] {
			t.Fatalf("step %d mismatch: got %s want %s", i, step.ID, want[i])
		}
	}
}

func TestExecuteInitGraph(t *testing.T) {
	state := &appState{configPath: writeTestConfig(t)}
	if err := executeInitSteps(context.Background(), InitGraph(), state); err != nil {
		t.Fatalf("executeInitSteps failed: %v", err)
	}
	t.Cleanup(func() {
		_ = state.sessions.Close()
		_ = state.logger.Close()
	})

	if state.config == nil {
		t.Fatal("config is nil after init")
	}
	if state.logger == nil {
		t.Fatal("logger is nil after init")
	}
	if state.db == nil {
		t.Fatal("database handle is nil after init")
	}
	if state.auth == nil || state.users == nil || state.tasks == nil {
		t.Fatal("domain services not initialised")
	}
	if state.sessions == nil {
		t.Fatal("session provider not initialised")
	}
}

func TestExecuteInitStepsRejectsUnsatisfiedDependency(t *testing.T) {
	steps := []initStep{
		{
			ID:        "b",
			DependsOn: []string{"a"},
			Execute:   func(context.Context, *appState) error { return nil },
		},
	}
	if err := executeInitSteps(context.Background(), steps, &appState{}); err == nil {
		t.Fatal("expected dependency error")
	}
}

func TestLoginFlowThroughInitialisedServices(t *testing.T) {
	state := &appState{configPath: writeTestConfig(t)}
	if err := executeInitSteps(context.Background(), InitGraph(), state); err != nil {
		t.Fatalf("executeInitSteps failed: %v", err)
	}
	t.Cleanup(func() {
		_ = state.sessions.Close()
		_ = state.logger.Close()
	})

	ctx := context.Background()
	grant, err := state.auth.Register(ctx, "Smoke Tester", "smoke@example.com", "password123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if grant.Token == "" {
		t.Fatal("expected a token")
	}
	if grant.Degraded {
		t.Fatal("in-memory store should never degrade issuance")
	}

	again, err := state.auth.Login(ctx, "smoke@example.com", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if again.User.ID != grant.User.ID {
		t.Fatalf("login returned a different account: %s vs %s", again.User.ID, grant.User.ID)
	}
}
