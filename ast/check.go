package ast

// Check validates a tree without modifying it.
type Check interface {
	Name() string
	Check(unit *SourceUnit) error
}

// CheckChain runs checks in order, stopping at the first error.
type CheckChain []Check

// Run executes each check in sequence. Returns nil if all pass.
func (cc CheckChain) Run(unit *SourceUnit) error {
	for _, c := range cc {
		if err := c.Check(unit); err != nil {
			return err
		}
	}
	return nil
}

// WalkCheck adapts a Visitor to Check. The tree is walked once; if the
// visitor also has an Err() error method, its result is the check result.
type WalkCheck struct {
	N string
	V Visitor
}

func (w WalkCheck) Name() string { return w.N }

func (w WalkCheck) Check(unit *SourceUnit) error {
	Walk(w.V, unit)
	if e, ok := w.V.(interface{ Err() error }); ok {
		return e.Err()
	}
	return nil
}
