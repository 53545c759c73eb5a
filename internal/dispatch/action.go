// Package dispatch implements ActionDispatcher: routing an Action to
// the handler owning the current top-of-stack context, plus the
// atomic insert path paste and burst coalescing use to emit one undo
// step for a whole block of text.
//
// Grounded on keystorm's internal/dispatcher package — Handler/Registry
// shape from dispatcher/{handler,registry}.go, context-stack routing
// generalized from router.go's namespace routing (here keyed by
// keyinput.ContextKind instead of a dotted action-name prefix, since
// spec §4.7 routes by context, not by namespace).
package dispatch

// Action is one dispatchable user intent: a name plus free-form
// arguments a Handler interprets (the keyinput side only ever supplies
// Name; Args is populated by higher-level callers like the palette).
type Action struct {
	Name string
	Args map[string]any
}
