package directive

import (
	"fmt"
	"strings"
)

// Label builds the display string for a directive. It is used for menus and
// console output only, never for identity.
func Label(title, rawMeta string, action Action, lang, target string) string {
	head := title
	if len(head) == 0 {
		head = rawMeta
	}

	var label string

	switch action.Kind {
	case ActionRun:
		label = fmt.Sprintf("%s %s:%s", head, action, lang)
	case ActionSection:
		label = fmt.Sprintf("-- %s --", head)
	default:
		label = fmt.Sprintf("%s %s:%s to %s", head, action, lang, target)
	}

	return strings.TrimSpace(label)
}
