package pluginhost

import (
	"fmt"

	"github.com/freshkit/fresh/internal/asyncbridge"
	"github.com/freshkit/fresh/internal/scrollsync"
)

// Editor is the host-side surface pluginhost's gated API methods call
// into — implemented elsewhere (wired in cmd/fresh) by whatever owns
// the open EditorStates, composite buffers, and scroll-sync manager.
// Kept narrow and interface-only so pluginhost never imports
// editorstate/dispatch/composite directly, mirroring how
// internal/plugin/hook defines PluginHost/PluginManager interfaces to
// avoid a circular import back to the plugin manager.
type Editor interface {
	RegisterCommand(id, title, actionID, context string) error
	StartPrompt(placeholder, modeID string) error
	SetPromptSuggestions(items []string) error
	GetPromptText() string
	GetPromptSelection() (text string, ok bool)
	OpenFile(path string, line, column int) error
	OpenFileInSplit(split, path string, line, column int) error
	FocusSplit(split string) error
	SpawnProcess(cmd string, args []string, cwd string) (asyncbridge.ID, error)
	ShowResultsPanel(panel ResultsPanel) error
	ShowActionPopup(popup ActionPopup) error
	CreateScrollSyncGroup(left, right string, anchors []scrollsync.Anchor) (string, error)
	SetScrollSyncAnchors(id string, anchors []scrollsync.Anchor) error
	RemoveScrollSyncGroup(id string) error
	DisableLSPForLanguage(lang string) error
}

// ResultsPanel is show_results_panel's argument: the editor owns
// navigation, selection, and highlight; the plugin only supplies data
// and callback identifiers (resolved back through RegisterCommand /
// hooks, not embedded as closures, since the sandbox may be torn down
// between the panel opening and an item being chosen).
type ResultsPanel struct {
	ID          string
	Title       string
	Items       []ResultItem
	MultiSelect bool
	Provider    string
}

// ResultItem is one row in a ResultsPanel.
type ResultItem struct {
	Label    string
	Detail   string
	Data     map[string]any
}

// ActionPopup is show_action_popup's argument.
type ActionPopup struct {
	ID      string
	Title   string
	Message string
	Actions []string
}

// RegisterDefaultMethods registers spec §6's plugin API subset against
// reg, dispatching every call to ed. Each method's required capability
// follows the same grouping keystorm's api.Module boundaries use
// (editor.ui for prompt/popup/results surfaces, editor.buffer for file
// navigation, editor for scroll-sync/LSP control, process.spawn for
// spawn_process).
func RegisterDefaultMethods(reg *Registry, ed Editor) {
	reg.Register(Method{Name: "register_command", Required: CapabilityEditorCommand, Handler: func(s *Session, args map[string]any) (any, error) {
		id, _ := args["id"].(string)
		title, _ := args["title"].(string)
		actionID, _ := args["action_id"].(string)
		context, _ := args["context"].(string)
		return nil, ed.RegisterCommand(id, title, actionID, context)
	}})

	reg.Register(Method{Name: "start_prompt", Required: CapabilityEditorUI, Handler: func(s *Session, args map[string]any) (any, error) {
		placeholder, _ := args["placeholder"].(string)
		modeID, _ := args["mode_id"].(string)
		return nil, ed.StartPrompt(placeholder, modeID)
	}})

	reg.Register(Method{Name: "set_prompt_suggestions", Required: CapabilityEditorUI, Handler: func(s *Session, args map[string]any) (any, error) {
		items, _ := args["items"].([]string)
		return nil, ed.SetPromptSuggestions(items)
	}})

	reg.Register(Method{Name: "get_prompt_text", Required: CapabilityEditorUI, Handler: func(s *Session, args map[string]any) (any, error) {
		return ed.GetPromptText(), nil
	}})

	reg.Register(Method{Name: "get_prompt_selection", Required: CapabilityEditorUI, Handler: func(s *Session, args map[string]any) (any, error) {
		text, ok := ed.GetPromptSelection()
		return map[string]any{"text": text, "ok": ok}, nil
	}})

	reg.Register(Method{Name: "open_file", Required: CapabilityEditorBuffer, Handler: func(s *Session, args map[string]any) (any, error) {
		path, _ := args["path"].(string)
		line, _ := args["line"].(int)
		column, _ := args["column"].(int)
		return nil, ed.OpenFile(path, line, column)
	}})

	reg.Register(Method{Name: "open_file_in_split", Required: CapabilityEditorBuffer, Handler: func(s *Session, args map[string]any) (any, error) {
		split, _ := args["split"].(string)
		path, _ := args["path"].(string)
		line, _ := args["line"].(int)
		column, _ := args["column"].(int)
		return nil, ed.OpenFileInSplit(split, path, line, column)
	}})

	reg.Register(Method{Name: "focus_split", Required: CapabilityEditorBuffer, Handler: func(s *Session, args map[string]any) (any, error) {
		split, _ := args["split"].(string)
		return nil, ed.FocusSplit(split)
	}})

	reg.Register(Method{Name: "spawn_process", Required: CapabilityProcessSpawn, Handler: func(s *Session, args map[string]any) (any, error) {
		cmd, _ := args["cmd"].(string)
		procArgs, _ := args["args"].([]string)
		cwd, _ := args["cwd"].(string)
		id, err := ed.SpawnProcess(cmd, procArgs, cwd)
		if err != nil {
			return nil, err
		}
		return map[string]any{"request_id": id}, nil
	}})

	reg.Register(Method{Name: "show_results_panel", Required: CapabilityEditorUI, Handler: func(s *Session, args map[string]any) (any, error) {
		panel, ok := args["panel"].(ResultsPanel)
		if !ok {
			return nil, fmt.Errorf("pluginhost: show_results_panel requires a ResultsPanel argument")
		}
		return nil, ed.ShowResultsPanel(panel)
	}})

	reg.Register(Method{Name: "show_action_popup", Required: CapabilityEditorUI, Handler: func(s *Session, args map[string]any) (any, error) {
		popup, ok := args["popup"].(ActionPopup)
		if !ok {
			return nil, fmt.Errorf("pluginhost: show_action_popup requires an ActionPopup argument")
		}
		return nil, ed.ShowActionPopup(popup)
	}})

	reg.Register(Method{Name: "create_scroll_sync_group", Required: CapabilityEditor, Handler: func(s *Session, args map[string]any) (any, error) {
		left, _ := args["left"].(string)
		right, _ := args["right"].(string)
		anchors, _ := args["anchors"].([]scrollsync.Anchor)
		id, err := ed.CreateScrollSyncGroup(left, right, anchors)
		if err != nil {
			return nil, err
		}
		return map[string]any{"id": id}, nil
	}})

	reg.Register(Method{Name: "set_scroll_sync_anchors", Required: CapabilityEditor, Handler: func(s *Session, args map[string]any) (any, error) {
		id, _ := args["id"].(string)
		anchors, _ := args["anchors"].([]scrollsync.Anchor)
		return nil, ed.SetScrollSyncAnchors(id, anchors)
	}})

	reg.Register(Method{Name: "remove_scroll_sync_group", Required: CapabilityEditor, Handler: func(s *Session, args map[string]any) (any, error) {
		id, _ := args["id"].(string)
		return nil, ed.RemoveScrollSyncGroup(id)
	}})

	reg.Register(Method{Name: "disable_lsp_for_language", Required: CapabilityEditor, Handler: func(s *Session, args map[string]any) (any, error) {
		lang, _ := args["lang"].(string)
		return nil, ed.DisableLSPForLanguage(lang)
	}})
}
