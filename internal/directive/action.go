package directive

// ActionKind is the closed set of operations a directive can request.
type ActionKind int

const (
	// ActionNone marks a block without an action. Such blocks are inert.
	ActionNone ActionKind = iota
	ActionBuild
	ActionSymlink
	ActionRun
	ActionSection
	// ActionUnknown is an action name that is not recognized. The name is
	// kept so the engine can report it.
	ActionUnknown
)

// Action is the parsed value of the "action" meta key.
type Action struct {
	Kind ActionKind
	Name string
}

// ParseAction maps an action name to its kind. Names are case-sensitive.
func ParseAction(name string) Action {
	switch name {
	case "":
		return Action{Kind: ActionNone}
	case "build":
		return Action{Kind: ActionBuild, Name: name}
	case "symlink":
		return Action{Kind: ActionSymlink, Name: name}
	case "run":
		return Action{Kind: ActionRun, Name: name}
	case "section":
		return Action{Kind: ActionSection, Name: name}
	default:
		return Action{Kind: ActionUnknown, Name: name}
	}
}

func (a Action) String() string {
	return a.Name
}

// NeedsTarget reports whether the action writes to a target path.
func (a Action) NeedsTarget() bool {
	return a.Kind == ActionBuild || a.Kind == ActionSymlink
}
