package main

// Op is the kind of access being requested on a task
type Op int

const (
	OpRead Op = iota
	OpUpdate
	OpDelete
)

// CanAccess is the single authorization rule for task operations: the owner
// and administrators may do anything, everyone else nothing. It depends only
// on its arguments, so the rule can be tested without a request or a
// database. The op parameter keeps read and write decisions separate at the
// call sites even though the rule is currently the same for both.
func CanAccess(caller Caller, task Task, op Op) bool {
	if caller.IsAdmin {
		return true
	}
	return task.UserID == caller.ID
}
