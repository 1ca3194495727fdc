package txn

// Transaction is an ordered, conflict-checked batch of filesystem
// actions. Actions execute in the order they were added once every
// conflict check has passed; there is no rollback of partial writes
// once execution starts (spec.md §3, §4.8).
type Transaction struct {
	Actions []Action
}

// New returns an empty transaction.
func New() *Transaction { return &Transaction{} }

// Add appends an action.
func (t *Transaction) Add(a Action) { t.Actions = append(t.Actions, a) }

// IsEmpty reports whether the transaction carries no actions.
func (t *Transaction) IsEmpty() bool { return len(t.Actions) == 0 }

// checkConflicts runs CheckConflict on every action, collecting every
// conflict found rather than stopping at the first.
func (t *Transaction) checkConflicts(db *DB) []error {
	var errs []error
	for _, a := range t.Actions {
		if err := a.CheckConflict(db); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Execute checks every action for conflicts first; if any conflict, it
// aborts before touching disk. Otherwise it executes each action in
// order, updating db after each successful write.
func (t *Transaction) Execute(db *DB) []error {
	if errs := t.checkConflicts(db); len(errs) > 0 {
		return errs
	}
	return t.ExecuteForce(db)
}

// ExecuteForce skips the conflict-check phase and applies every action
// unconditionally, for the caller that already decided to overwrite.
func (t *Transaction) ExecuteForce(db *DB) []error {
	var errs []error
	for _, a := range t.Actions {
		if err := a.Execute(); err != nil {
			errs = append(errs, err)
			continue
		}
		a.UpdateDB(db)
	}
	return errs
}
