package eventlog

import (
	"errors"
	"sync"
	"time"

	"github.com/freshkit/fresh/internal/clock"
	"github.com/freshkit/fresh/internal/piecetree"
)

// ErrNothingToUndo is returned by Undo when the undo stack is empty.
var ErrNothingToUndo = errors.New("eventlog: nothing to undo")

// ErrNothingToRedo is returned by Redo when the redo stack is empty.
var ErrNothingToRedo = errors.New("eventlog: nothing to redo")

// entry wraps a pushed event with the wall-clock time it was pushed, so
// coalescing can check the gap to the previous entry.
type entry struct {
	event Event
	at    time.Time
	// coalesceKey identifies same-cursor single-character typing so a
	// later Insert/Delete can be merged into this entry instead of
	// pushed as its own undo step. Empty for anything that always
	// pushes its own entry (paste, multi-cursor, bulk edits, batches).
	coalesceKey coalesceKey
}

// coalesceKey captures the state needed to decide whether the next
// single-character edit continues this one.
type coalesceKey struct {
	active bool
	isDelete bool
	cursorID  int
	nextAt    int64 // expected next Insert.At; for deletes, the start of the coalesced span (a backspace ends there, a forward delete starts there)
}

// CoalesceWindow is the default maximum gap between same-cursor
// single-character edits that still merge into one undo entry.
const CoalesceWindow = 700 * time.Millisecond

// Log manages undo/redo state for one EditorState.
type Log struct {
	mu sync.Mutex

	clock clock.Source
	window time.Duration

	undo []*entry
	redo []*entry

	grouping  bool
	groupName string
	groupEvts []Event

	maxEntries int
}

// New creates a Log backed by src, retaining at most maxEntries undo
// steps and coalescing same-cursor single-character edits within
// window.
func New(src clock.Source, maxEntries int, window time.Duration) *Log {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	if window <= 0 {
		window = CoalesceWindow
	}
	return &Log{clock: src, maxEntries: maxEntries, window: window}
}

// Push records an already-applied event as one undo entry, or merges it
// into the previous entry per the coalescing rule when cursorID
// identifies the same cursor typing/deleting contiguously.
func (l *Log) Push(ev Event, cursorID int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.grouping {
		l.groupEvts = append(l.groupEvts, ev)
		return
	}

	now := l.clock.Now()
	if key, ok := coalesceKeyFor(ev, cursorID); ok && l.tryCoalesce(ev, key, now) {
		return
	}

	l.pushLocked(ev, now, coalesceKey{})
	if key, ok := coalesceKeyFor(ev, cursorID); ok {
		l.undo[len(l.undo)-1].coalesceKey = key
	}
}

// tryCoalesce merges ev into the top undo entry if it is a same-cursor,
// same-direction, contiguous, non-newline single-character edit within
// the coalescing time window (spec §4.3's coalescing rule).
func (l *Log) tryCoalesce(ev Event, key coalesceKey, now time.Time) bool {
	if len(l.undo) == 0 {
		return false
	}
	top := l.undo[len(l.undo)-1]
	if !top.coalesceKey.active || top.coalesceKey.isDelete != key.isDelete {
		return false
	}
	if top.coalesceKey.cursorID != key.cursorID {
		return false
	}
	if now.Sub(top.at) >= l.window {
		return false
	}

	switch e := ev.(type) {
	case *Insert:
		if top.coalesceKey.nextAt != int64(e.At) {
			return false
		}
		prev := top.event.(*Insert)
		merged := &Insert{
			At:            prev.At,
			Text:          prev.Text + e.Text,
			CursorsBefore: prev.CursorsBefore,
			CursorsAfter:  e.CursorsAfter,
		}
		top.event = merged
		top.at = now
		top.coalesceKey.nextAt = int64(e.At) + int64(len(e.Text))
		return true
	case *Delete:
		if top.coalesceKey.nextAt != int64(e.Range.Start) && top.coalesceKey.nextAt != int64(e.Range.End) {
			return false
		}
		prev := top.event.(*Delete)
		var merged *Delete
		if prev.Range.Start == e.Range.End {
			// Backward (backspace) coalescing: new delete lands
			// immediately before the previous one.
			merged = &Delete{
				Range:         piecetree.Range{Start: e.Range.Start, End: prev.Range.End},
				DeletedText:   e.DeletedText + prev.DeletedText,
				CursorsBefore: prev.CursorsBefore,
				CursorsAfter:  e.CursorsAfter,
			}
			top.coalesceKey.nextAt = int64(e.Range.Start)
		} else if e.Range.Start == prev.Range.Start {
			// Forward (delete-key) coalescing: both deletes start at
			// the same point, extending rightward.
			merged = &Delete{
				Range:         piecetree.Range{Start: prev.Range.Start, End: prev.Range.Start + prev.Range.Len() + e.Range.Len()},
				DeletedText:   prev.DeletedText + e.DeletedText,
				CursorsBefore: prev.CursorsBefore,
				CursorsAfter:  e.CursorsAfter,
			}
			top.coalesceKey.nextAt = int64(prev.Range.Start)
		} else {
			return false
		}
		top.event = merged
		top.at = now
		return true
	default:
		return false
	}
}

// coalesceKeyFor reports whether ev is a candidate for coalescing (a
// plain single, non-newline character Insert or Delete) and, if so,
// the key used to match it against a following edit.
func coalesceKeyFor(ev Event, cursorID int) (coalesceKey, bool) {
	switch e := ev.(type) {
	case *Insert:
		if len([]rune(e.Text)) != 1 || e.Text == "\n" {
			return coalesceKey{}, false
		}
		return coalesceKey{active: true, isDelete: false, cursorID: cursorID, nextAt: int64(e.At) + int64(len(e.Text))}, true
	case *Delete:
		if e.Range.Len() != 1 || e.DeletedText == "\n" {
			return coalesceKey{}, false
		}
		// nextAt is set per-direction in tryCoalesce; here we just
		// record a provisional key matching a backward delete, since
		// that is the common backspace case. Forward coalescing is
		// matched via the explicit branch above using Range.Start.
		return coalesceKey{active: true, isDelete: true, cursorID: cursorID, nextAt: int64(e.Range.Start)}, true
	default:
		return coalesceKey{}, false
	}
}

func (l *Log) pushLocked(ev Event, at time.Time, key coalesceKey) {
	l.undo = append(l.undo, &entry{event: ev, at: at, coalesceKey: key})
	l.redo = nil
	if len(l.undo) > l.maxEntries {
		excess := len(l.undo) - l.maxEntries
		l.undo = l.undo[excess:]
	}
}

// CanUndo reports whether an undo entry is available.
func (l *Log) CanUndo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.undo) > 0
}

// CanRedo reports whether a redo entry is available.
func (l *Log) CanRedo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.redo) > 0
}

// PopUndo removes and returns the top undo event, pushing it onto the
// redo stack. The caller is responsible for calling event.Apply's
// inverse (i.e. Invert().Apply) against the live snapshot.
func (l *Log) PopUndo() (Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.undo) == 0 {
		return nil, ErrNothingToUndo
	}
	e := l.undo[len(l.undo)-1]
	l.undo = l.undo[:len(l.undo)-1]
	l.redo = append(l.redo, e)
	return e.event, nil
}

// PopRedo removes and returns the top redo event, pushing it back onto
// the undo stack.
func (l *Log) PopRedo() (Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.redo) == 0 {
		return nil, ErrNothingToRedo
	}
	e := l.redo[len(l.redo)-1]
	l.redo = l.redo[:len(l.redo)-1]
	l.undo = append(l.undo, e)
	return e.event, nil
}

// BeginGroup starts a command group; events pushed while grouping are
// accumulated into one Batch on EndGroup.
func (l *Log) BeginGroup(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.grouping {
		return
	}
	l.grouping = true
	l.groupName = name
	l.groupEvts = nil
}

// EndGroup closes the current group, pushing its accumulated events as
// a single Batch undo entry.
func (l *Log) EndGroup() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.grouping {
		return
	}
	l.grouping = false
	if len(l.groupEvts) == 0 {
		return
	}
	batch := &Batch{Events: l.groupEvts, Label: l.groupName}
	l.pushLocked(batch, l.clock.Now(), coalesceKey{})
	l.groupEvts = nil
}

// CancelGroup closes the current group without creating an undo entry.
// Events already applied to the buffer remain applied.
func (l *Log) CancelGroup() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.grouping = false
	l.groupEvts = nil
}

// Clear discards all undo/redo history.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.undo = nil
	l.redo = nil
	l.grouping = false
	l.groupEvts = nil
}

// UndoCount returns the number of undo entries.
func (l *Log) UndoCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.undo)
}

// RedoCount returns the number of redo entries.
func (l *Log) RedoCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.redo)
}
