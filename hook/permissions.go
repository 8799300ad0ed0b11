package hook

// PermissionSet declares which lifecycle phases a hook participates in. The
// executor only invokes a phase the hook declares; a hook whose declaration
// does not match its implementation is a deployment misconfiguration the
// default NotImplemented behavior surfaces loudly.
type PermissionSet struct {
	BeforeExecute bool
	AfterExecute  bool
}

// Any reports whether the hook participates in at least one phase.
func (ps PermissionSet) Any() bool {
	return ps.BeforeExecute || ps.AfterExecute
}

func (ps PermissionSet) String() string {
	switch {
	case ps.BeforeExecute && ps.AfterExecute:
		return "before|after"
	case ps.BeforeExecute:
		return "before"
	case ps.AfterExecute:
		return "after"
	}
	return "none"
}
