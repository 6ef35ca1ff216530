package task

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"taskflow-server-go/internal/models"
	"taskflow-server-go/internal/platform/errors"
	"taskflow-server-go/internal/platform/logging"
)

type fakeRepo struct {
	tasks map[string]*models.Task
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{tasks: make(map[string]*models.Task)}
}

func (r *fakeRepo) Create(_ context.Context, t *models.Task) error {
	clone := *t
	r.tasks[t.ID] = &clone
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, id string) (*models.Task, error) {
	if t, ok := r.tasks[id]; ok {
		clone := *t
		return &clone, nil
	}
	return nil, nil
}

func (r *fakeRepo) ListByOwner(_ context.Context, ownerID string) ([]models.Task, error) {
	var out []models.Task
	for _, t := range r.tasks {
		if t.OwnerID == ownerID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListAll(_ context.Context) ([]models.Task, error) {
	var out []models.Task
	for _, t := range r.tasks {
		out = append(out, *t)
	}
	return out, nil
}

func (r *fakeRepo) Update(_ context.Context, t *models.Task) error {
	clone := *t
	r.tasks[t.ID] = &clone
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	delete(r.tasks, id)
	return nil
}

func newTestService() (*Service, *fakeRepo) {
	repo := newFakeRepo()
	return NewService(repo, logging.NewDiscard(), nil), repo
}

func requireRequestError(t *testing.T, err error, status int) *errors.RequestError {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	reqErr, ok := errors.AsRequest(err)
	if !ok {
		t.Fatalf("expected a request error, got %v", err)
	}
	if reqErr.Status != status {
		t.Fatalf("status = %d, expected %d (%s)", reqErr.Status, status, reqErr.Message)
	}
	return reqErr
}

func strptr(s string) *string { return &s }

func TestCreateStartsPending(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.Create(context.Background(), "owner-1", "  Write report  ", "quarterly numbers")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Status != models.TaskStatusPending {
		t.Errorf("status = %q, expected pending", created.Status)
	}
	if created.Title != "Write report" {
		t.Errorf("title = %q, expected trimmed form", created.Title)
	}
	if created.OwnerID != "owner-1" {
		t.Errorf("owner = %q", created.OwnerID)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "owner-1", "ab", "")
	reqErr := requireRequestError(t, err, http.StatusBadRequest)
	if reqErr.Message != "Task title must be at least 3 characters" {
		t.Errorf("unexpected message: %q", reqErr.Message)
	}

	_, err = svc.Create(ctx, "owner-1", strings.Repeat("x", 101), "")
	reqErr = requireRequestError(t, err, http.StatusBadRequest)
	if reqErr.Message != "Title cannot exceed 100 characters" {
		t.Errorf("unexpected message: %q", reqErr.Message)
	}

	_, err = svc.Create(ctx, "owner-1", "valid title", strings.Repeat("x", 501))
	reqErr = requireRequestError(t, err, http.StatusBadRequest)
	if reqErr.Message != "Description cannot exceed 500 characters" {
		t.Errorf("unexpected message: %q", reqErr.Message)
	}
}

func TestGetEnforcesOwnership(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "owner-1", "private task", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Get(ctx, created.ID, "owner-1", "user"); err != nil {
		t.Fatalf("owner read: %v", err)
	}
	if _, err := svc.Get(ctx, created.ID, "intruder", "admin"); err != nil {
		t.Fatalf("admin read: %v", err)
	}

	_, err = svc.Get(ctx, created.ID, "intruder", "user")
	reqErr := requireRequestError(t, err, http.StatusForbidden)
	if reqErr.Message != "Not authorized to view this task" {
		t.Errorf("unexpected message: %q", reqErr.Message)
	}

	_, err = svc.Get(ctx, "missing-id", "owner-1", "user")
	reqErr = requireRequestError(t, err, http.StatusNotFound)
	if reqErr.Message != "Task not found" {
		t.Errorf("unexpected message: %q", reqErr.Message)
	}
}

func TestModifyAppliesPartialUpdate(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "owner-1", "initial title", "initial description")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := svc.Modify(ctx, created.ID, "owner-1", "user", Update{
		Status: strptr(models.TaskStatusCompleted),
	})
	if err != nil {
		t.Fatalf("Modify: %v", err)
	}
	if updated.Status != models.TaskStatusCompleted {
		t.Errorf("status = %q", updated.Status)
	}
	if updated.Title != "initial title" {
		t.Errorf("title changed unexpectedly: %q", updated.Title)
	}
	if stored := repo.tasks[created.ID]; stored.Status != models.TaskStatusCompleted {
		t.Errorf("stored status = %q", stored.Status)
	}
}

func TestModifyRejectsUnknownStatus(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "owner-1", "some task", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = svc.Modify(ctx, created.ID, "owner-1", "user", Update{Status: strptr("archived")})
	reqErr := requireRequestError(t, err, http.StatusBadRequest)
	if reqErr.Message != "Invalid status value" {
		t.Errorf("unexpected message: %q", reqErr.Message)
	}
}

func TestRemoveEnforcesOwnership(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "owner-1", "short lived", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	err = svc.Remove(ctx, created.ID, "intruder", "user")
	reqErr := requireRequestError(t, err, http.StatusForbidden)
	if reqErr.Message != "Not authorized to delete this task" {
		t.Errorf("unexpected message: %q", reqErr.Message)
	}

	if err := svc.Remove(ctx, created.ID, "owner-1", "user"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok := repo.tasks[created.ID]; ok {
		t.Error("task still present after delete")
	}
}

func TestListByOwnerScopesResults(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, "owner-1", "task one", ""); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(ctx, "owner-2", "task two", ""); err != nil {
		t.Fatalf("Create: %v", err)
	}

	own, err := svc.ListByOwner(ctx, "owner-1")
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(own) != 1 || own[0].OwnerID != "owner-1" {
		t.Errorf("unexpected scoped result: %+v", own)
	}

	all, err := svc.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("ListAll returned %d tasks, expected 2", len(all))
	}
}
