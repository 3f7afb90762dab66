package task

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard/taskboard/internal/services/user"
)

var (
	alice = user.Actor{ID: 1, Role: user.RoleParticipant}
	bob   = user.Actor{ID: 2, Role: user.RoleParticipant}
	admin = user.Actor{ID: 3, Role: user.RoleAdmin}
)

func newService(t *testing.T) (*Service, *MemoryRepo) {
	t.Helper()
	repo := NewMemoryRepo()
	return NewService(repo), repo
}

func TestCreate(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "T1", "first task", StatusPending, alice)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, created.UserID)
	assert.Equal(t, "T1", created.Title)
	assert.Equal(t, StatusPending, created.Status)
	assert.NotZero(t, created.ID)
}

func TestCreateRequiresTitle(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Create(context.Background(), "", "desc", StatusPending, alice)
	assert.ErrorIs(t, err, ErrTitleRequired)
}

func TestListScopedByRole(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "alice task", "", StatusPending, alice)
	require.NoError(t, err)
	_, err = svc.Create(ctx, "bob task", "", StatusPending, bob)
	require.NoError(t, err)

	own, err := svc.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, alice.ID, own[0].UserID)

	all, err := svc.List(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGetHidesUnauthorizedTasks(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "secret", "", StatusPending, alice)
	require.NoError(t, err)

	// Missing and unauthorized must be indistinguishable.
	_, err = svc.Get(ctx, 9999, alice)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	_, err = svc.Get(ctx, created.ID, bob)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	got, err := svc.Get(ctx, created.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	got, err = svc.Get(ctx, created.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestUpdatePartialFields(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "T1", "original", StatusPending, alice)
	require.NoError(t, err)

	newTitle := "T2"
	updated, err := svc.Update(ctx, created.ID, alice, &UpdateTaskRequest{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "T2", updated.Title)
	assert.Equal(t, "original", updated.Description)
	assert.Equal(t, StatusPending, updated.Status)

	status := StatusFinished
	updated, err = svc.Update(ctx, created.ID, alice, &UpdateTaskRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "T2", updated.Title)
	assert.Equal(t, "original", updated.Description)
	assert.Equal(t, StatusFinished, updated.Status)
}

func TestUpdateRequiresAtLeastOneField(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "T1", "", StatusPending, alice)
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, alice, &UpdateTaskRequest{})
	assert.ErrorIs(t, err, ErrNoFieldsToUpdate)
}

func TestUpdateAuthorization(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "T1", "", StatusPending, alice)
	require.NoError(t, err)

	title := "changed"
	_, err = svc.Update(ctx, created.ID, bob, &UpdateTaskRequest{Title: &title})
	assert.ErrorIs(t, err, ErrNotAllowed)

	_, err = svc.Update(ctx, 9999, alice, &UpdateTaskRequest{Title: &title})
	assert.ErrorIs(t, err, ErrNotAllowed)

	updated, err := svc.Update(ctx, created.ID, admin, &UpdateTaskRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "changed", updated.Title)
}

func TestStatusHasNoTransitionGraph(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "T1", "", StatusFinished, alice)
	require.NoError(t, err)

	// Finished back to pending is allowed; there is no ordering constraint.
	status := StatusPending
	updated, err := svc.Update(ctx, created.ID, alice, &UpdateTaskRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, updated.Status)
}

func TestDelete(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "T1", "", StatusPending, alice)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, created.ID, bob), ErrNotAllowed)
	assert.ErrorIs(t, svc.Delete(ctx, 9999, alice), ErrNotAllowed)

	require.NoError(t, svc.Delete(ctx, created.ID, alice))

	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestAdminCanDeleteAnyTask(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "T1", "", StatusPending, alice)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID, admin))
}

func TestStatusFromCode(t *testing.T) {
	for code, want := range map[int]Status{1: StatusPending, 2: StatusInProgress, 3: StatusFinished} {
		got, err := StatusFromCode(code)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	for _, code := range []int{0, 4, -1} {
		_, err := StatusFromCode(code)
		assert.Error(t, err)
	}
}
