package main

import (
	"context"
	"errors"
	"testing"
)

func TestFindTasksOrdersByTitleThenID(t *testing.T) {
	store := newTestStore(t)
	user := mustInsertUser(t, store, "alice", false)

	b := mustInsertTask(t, store, user.ID, "Task B", StatusNew)
	a1 := mustInsertTask(t, store, user.ID, "Task A", StatusNew)
	a2 := mustInsertTask(t, store, user.ID, "Task A", StatusNew)

	tasks, err := store.FindTasks(context.Background(), TaskFilter{})
	if err != nil {
		t.Fatalf("find tasks: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	wantIDs := []int64{a1.ID, a2.ID, b.ID}
	for i, want := range wantIDs {
		if tasks[i].ID != want {
			t.Fatalf("position %d: got id %d, want %d", i, tasks[i].ID, want)
		}
	}
}

func TestFindTasksFilters(t *testing.T) {
	store := newTestStore(t)
	alice := mustInsertUser(t, store, "alice", false)
	bob := mustInsertUser(t, store, "bob", false)

	mustInsertTask(t, store, alice.ID, "Task One", StatusNew)
	mustInsertTask(t, store, alice.ID, "Task Two", StatusCompleted)
	mustInsertTask(t, store, bob.ID, "Task Three", StatusNew)

	byOwner, err := store.FindTasks(context.Background(), TaskFilter{OwnerID: &alice.ID})
	if err != nil {
		t.Fatalf("find by owner: %v", err)
	}
	if len(byOwner) != 2 {
		t.Fatalf("expected 2 tasks for alice, got %d", len(byOwner))
	}

	status := StatusNew
	both, err := store.FindTasks(context.Background(), TaskFilter{OwnerID: &alice.ID, Status: &status})
	if err != nil {
		t.Fatalf("find by owner and status: %v", err)
	}
	if len(both) != 1 || both[0].Title != "Task One" {
		t.Fatalf("expected alice's new task, got %+v", both)
	}

	byStatus, err := store.FindTasks(context.Background(), TaskFilter{Status: &status})
	if err != nil {
		t.Fatalf("find by status: %v", err)
	}
	if len(byStatus) != 2 {
		t.Fatalf("expected 2 new tasks, got %d", len(byStatus))
	}
}

func TestFindTasksEmptyIsNotNil(t *testing.T) {
	store := newTestStore(t)

	tasks, err := store.FindTasks(context.Background(), TaskFilter{})
	if err != nil {
		t.Fatalf("find tasks: %v", err)
	}
	if tasks == nil {
		t.Fatalf("expected an empty slice, got nil")
	}
	if len(tasks) != 0 {
		t.Fatalf("expected no tasks, got %d", len(tasks))
	}
}

func TestFindTaskByIDMissing(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.FindTaskByID(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateTaskByIDPatchesOnlySuppliedFields(t *testing.T) {
	store := newTestStore(t)
	user := mustInsertUser(t, store, "alice", false)
	task := Task{Title: "Write tests", Description: "Add coverage", Status: StatusNew, UserID: user.ID}
	id, err := store.InsertTask(context.Background(), task)
	if err != nil {
		t.Fatalf("insert task: %v", err)
	}

	desc := "Rewritten"
	updated, err := store.UpdateTaskByID(context.Background(), id, TaskPatch{Description: &desc})
	if err != nil {
		t.Fatalf("update task: %v", err)
	}
	if updated.Description != "Rewritten" {
		t.Fatalf("description = %q", updated.Description)
	}
	if updated.Title != "Write tests" || updated.Status != StatusNew || updated.UserID != user.ID {
		t.Fatalf("untouched fields changed: %+v", updated)
	}

	// An empty patch just returns the stored row
	same, err := store.UpdateTaskByID(context.Background(), id, TaskPatch{})
	if err != nil {
		t.Fatalf("empty patch: %v", err)
	}
	if same != updated {
		t.Fatalf("empty patch changed the row: %+v", same)
	}
}

func TestUpdateTaskByIDMissing(t *testing.T) {
	store := newTestStore(t)

	title := "Ghost"
	if _, err := store.UpdateTaskByID(context.Background(), 42, TaskPatch{Title: &title}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteTaskByID(t *testing.T) {
	store := newTestStore(t)
	user := mustInsertUser(t, store, "alice", false)
	task := mustInsertTask(t, store, user.ID, "Disposable", StatusNew)

	if err := store.DeleteTaskByID(context.Background(), task.ID); err != nil {
		t.Fatalf("delete task: %v", err)
	}
	if _, err := store.FindTaskByID(context.Background(), task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected task to be gone, got %v", err)
	}
	if err := store.DeleteTaskByID(context.Background(), task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestInsertUserDuplicateUsername(t *testing.T) {
	store := newTestStore(t)
	mustInsertUser(t, store, "alice", false)

	_, err := store.InsertUser(context.Background(), User{UserName: "alice", PasswordHash: "y", FirstName: "Other"})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestFindUserByUsername(t *testing.T) {
	store := newTestStore(t)
	user := mustInsertUser(t, store, "alice", false)

	found, err := store.FindUserByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if found.ID != user.ID || found.PasswordHash != "x" {
		t.Fatalf("user mismatch: %+v", found)
	}

	if _, err := store.FindUserByUsername(context.Background(), "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFindUsersOrdersByUsername(t *testing.T) {
	store := newTestStore(t)
	mustInsertUser(t, store, "carol", false)
	mustInsertUser(t, store, "alice", false)
	mustInsertUser(t, store, "bob", false)

	users, err := store.FindUsers(context.Background())
	if err != nil {
		t.Fatalf("find users: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("expected 3 users, got %d", len(users))
	}
	for i, want := range []string{"alice", "bob", "carol"} {
		if users[i].UserName != want {
			t.Fatalf("position %d: got %q, want %q", i, users[i].UserName, want)
		}
	}
}

func TestSetUserAdmin(t *testing.T) {
	store := newTestStore(t)
	user := mustInsertUser(t, store, "alice", false)

	promoted, err := store.SetUserAdmin(context.Background(), user.ID, true)
	if err != nil {
		t.Fatalf("set admin: %v", err)
	}
	if !promoted.IsAdmin {
		t.Fatalf("expected administrator flag to be set")
	}

	demoted, err := store.SetUserAdmin(context.Background(), user.ID, false)
	if err != nil {
		t.Fatalf("unset admin: %v", err)
	}
	if demoted.IsAdmin {
		t.Fatalf("expected administrator flag to be cleared")
	}

	if _, err := store.SetUserAdmin(context.Background(), 42, true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteUserCascadesTasks(t *testing.T) {
	store := newTestStore(t)
	alice := mustInsertUser(t, store, "alice", false)
	bob := mustInsertUser(t, store, "bob", false)
	mustInsertTask(t, store, alice.ID, "Task One", StatusNew)
	mustInsertTask(t, store, alice.ID, "Task Two", StatusNew)
	keeper := mustInsertTask(t, store, bob.ID, "Task Three", StatusNew)

	if err := store.DeleteUserByID(context.Background(), alice.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	if _, err := store.FindUserByID(context.Background(), alice.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected user to be gone, got %v", err)
	}
	left, err := store.FindTasks(context.Background(), TaskFilter{})
	if err != nil {
		t.Fatalf("find tasks: %v", err)
	}
	if len(left) != 1 || left[0].ID != keeper.ID {
		t.Fatalf("expected only bob's task to survive, got %+v", left)
	}

	if err := store.DeleteUserByID(context.Background(), alice.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
