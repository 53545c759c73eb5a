// Package frameloop is the glue: it orders input, AsyncBridge drain,
// scroll-group sync, invalidated-layout recompute, and paint into a
// single per-frame schedule, per spec §5's "frame schedule" paragraph.
// It owns no rendering itself — drawing cells to a terminal toolkit is
// an explicit spec non-goal — only the ordering and the narrow
// RawEvent source the terminal layer feeds it.
//
// Grounded on internal/app/eventloop.go's backend.Event switch
// (EventResize/EventKey/EventMouse/EventPaste/EventFocus routing),
// generalized from "one flat event dispatch" into the five-step
// schedule spec §5 names, with AsyncBridge drain and scroll sync as
// explicit steps the teacher's event loop has no equivalent of (the
// teacher has no async message bus or multi-pane scroll sync).
package frameloop

import (
	"context"

	"github.com/freshkit/fresh/internal/asyncbridge"
	"github.com/freshkit/fresh/internal/diagnostic"
	"github.com/freshkit/fresh/internal/dispatch"
	"github.com/freshkit/fresh/internal/keyinput"
	"github.com/freshkit/fresh/internal/scrollsync"
)

// RawEventKind identifies what a RawEvent carries.
type RawEventKind int

const (
	RawKeyEvent RawEventKind = iota
	RawResizeEvent
	RawPasteEvent
	RawFocusEvent
)

// RawEvent is the terminal layer's one flat event shape, mirroring
// internal/renderer/backend.Event but narrowed to what frameloop
// itself routes — mouse events and the resize/paste/focus payloads
// themselves are left to the renderer and buffer layers this package
// doesn't own.
type RawEvent struct {
	Kind          RawEventKind
	Key           keyinput.RawKey
	Width, Height int
	PasteText     string
	Focused       bool
}

// Source is the minimal terminal-input contract frameloop depends on.
// A real implementation wraps tcell.Screen.PollEvent; Shutdown causes a
// blocked PollEvent to return ok=false so Run's loop exits cleanly.
type Source interface {
	PollEvent() (RawEvent, bool)
}

// Scheduler runs the per-frame schedule: translate+dispatch pending
// input, drain AsyncBridge up to a budget, sync scroll groups,
// recompute invalidated layout, then paint.
type Scheduler struct {
	Source Source

	Translator *keyinput.KeyTranslator
	Resolver   *keyinput.KeymapResolver
	// ContextOf reports the currently active input context (the
	// Dispatcher's TopContext), kept as a func so this package never
	// imports dispatch.Dispatcher's concrete type.
	ContextOf func() keyinput.Context
	// ActiveKeymap names the extra per-buffer keymap layered under the
	// context-named defaults, per keyinput.KeymapResolver.Resolve.
	ActiveKeymap string
	// DispatchAction routes a resolved action to the Dispatcher. Left
	// to the caller so frameloop stays decoupled from
	// dispatch.Dispatcher's *editorstate.State binding.
	DispatchAction func(action dispatch.Action) error

	Bridge      *asyncbridge.Bridge
	HandleAsync func(asyncbridge.Message)
	DrainBudget int

	ScrollManager *scrollsync.Manager
	ScrollViews   map[scrollsync.PaneID]scrollsync.Viewport

	// Recompute runs spec §5 step 4, "recompute invalidated
	// layout/highlighting" — one entry per open composite buffer or
	// highlight cache that might have pending dirty state.
	Recompute []func()

	// Paint runs spec §5 step 5. Left nil in tests that only check
	// scheduling order.
	Paint func()

	Log *diagnostic.Logger
}

// RunFrame executes exactly one pass of spec §5's five-step schedule
// over however many raw events are currently available, without
// blocking to wait for more.
func (s *Scheduler) RunFrame(ctx context.Context, events []RawEvent) {
	// (1) translate and dispatch pending input
	for _, ev := range events {
		s.handleRawEvent(ev)
	}

	// (2) drain AsyncBridge inbox up to budget
	if s.Bridge != nil {
		drained := s.Bridge.Drain(s.DrainBudget)
		for _, msg := range drained {
			if s.HandleAsync != nil {
				s.HandleAsync(msg)
			}
		}
		if s.Log != nil {
			s.Log.AsyncDrain(ctx, len(drained), s.Bridge.Pending())
		}
	}

	// (3) sync scroll groups
	if s.ScrollManager != nil && s.ScrollViews != nil {
		s.ScrollManager.SyncScrollGroups(s.ScrollViews)
	}

	// (4) recompute invalidated layout/highlighting
	for _, fn := range s.Recompute {
		fn()
	}

	// (5) emit paint
	if s.Paint != nil {
		s.Paint()
	}
}

// Run pulls events from Source and calls RunFrame once per event until
// Source reports shutdown or ctx is cancelled. Each polled event runs
// as its own frame; events already queued behind it are not batched
// into that frame.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		ev, ok := s.Source.PollEvent()
		if !ok {
			return
		}
		batch := []RawEvent{ev}
		s.RunFrame(ctx, batch)
	}
}

func (s *Scheduler) handleRawEvent(ev RawEvent) {
	if ev.Kind == RawKeyEvent {
		s.handleKey(ev.Key)
	}
}

func (s *Scheduler) handleKey(raw keyinput.RawKey) {
	if s.Translator == nil || s.Resolver == nil || s.DispatchAction == nil {
		return
	}
	keyEv := s.Translator.Translate(raw)

	ctx := keyinput.NewContext(keyinput.Normal)
	if s.ContextOf != nil {
		ctx = s.ContextOf()
	}

	name, ok := s.Resolver.Resolve(keyEv, ctx, s.ActiveKeymap)
	if !ok {
		return
	}
	_ = s.DispatchAction(dispatch.Action{Name: name})
}
