package main

import "testing"

func TestCanAccessOwnerAndAdmin(t *testing.T) {
	owner := Caller{ID: 1}
	stranger := Caller{ID: 2}
	admin := Caller{ID: 3, IsAdmin: true}
	task := Task{ID: 10, UserID: 1}

	for _, op := range []Op{OpRead, OpUpdate, OpDelete} {
		if !CanAccess(owner, task, op) {
			t.Fatalf("owner denied op %d", op)
		}
		if !CanAccess(admin, task, op) {
			t.Fatalf("admin denied op %d", op)
		}
		if CanAccess(stranger, task, op) {
			t.Fatalf("stranger allowed op %d", op)
		}
	}
}

func TestCanAccessAdminFlagBeatsOwnership(t *testing.T) {
	// An administrator who also owns tasks is still just allowed, and a
	// non-admin owner of nothing is still denied.
	adminOwner := Caller{ID: 1, IsAdmin: true}
	if !CanAccess(adminOwner, Task{UserID: 1}, OpDelete) {
		t.Fatalf("admin owner denied")
	}
	if CanAccess(Caller{ID: 5}, Task{UserID: 6}, OpRead) {
		t.Fatalf("unrelated caller allowed to read")
	}
}
