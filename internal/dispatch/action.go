package dispatch

// Action identifies a handler behavior. Action names from the bindings
// file resolve to a variant at construction time; unknown names map to
// ActionMissing so a bad config entry degrades to a logged diagnostic
// instead of failing construction.
type Action int

const (
	ActionMissing Action = iota
	ActionPostAlert
	ActionAddName
)

func ParseAction(name string) Action {
	switch name {
	case "post_good_name_alert":
		return ActionPostAlert
	case "add_good_name":
		return ActionAddName
	default:
		return ActionMissing
	}
}

func (a Action) String() string {
	switch a {
	case ActionPostAlert:
		return "post_good_name_alert"
	case ActionAddName:
		return "add_good_name"
	default:
		return "missing_action"
	}
}
