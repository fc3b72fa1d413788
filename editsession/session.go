package editsession

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/go-playground/validator/v10"

	"flipclerk/facet"
	"flipclerk/history"
)

// State is the phase an edit session is in. Sessions move strictly forward:
// Idle, Exporting, AwaitingEditor, Reloading, Validating, then Committed or
// Failed.
type State int

const (
	StateIdle State = iota
	StateExporting
	StateAwaitingEditor
	StateReloading
	StateValidating
	StateCommitted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateExporting:
		return "exporting"
	case StateAwaitingEditor:
		return "awaiting-editor"
	case StateReloading:
		return "reloading"
	case StateValidating:
		return "validating"
	case StateCommitted:
		return "committed"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrEditorStart marks an editor process that could not be launched. A
// non-zero exit from an editor that did launch is not an error; some
// editors legitimately exit non-zero after a successful save.
var ErrEditorStart = errors.New("editor failed to start")

// Options configures one edit session.
type Options struct {
	// StartID and EndID bound the exported selection, inclusive. EndID 0
	// means unbounded.
	StartID uint32
	EndID   uint32
	// Editor is the resolved editor command line (program plus arguments).
	Editor string
	// ScratchDir is where the scratch file is created; empty means the
	// system temp directory.
	ScratchDir string
}

// Result reports a committed session.
type Result struct {
	Exported  int
	Committed int
}

// Session drives one export, editor, reload, commit round trip. The source
// view is the merged device+local snapshot the caller built; the store is
// only written after the edited entries validate, and atomically.
type Session struct {
	store   *history.Store
	view    []facet.EntryEdit
	opts    Options
	state   State
	scratch string

	validate *validator.Validate
}

func New(store *history.Store, view []facet.EntryEdit, opts Options) *Session {
	return &Session{
		store:    store,
		view:     append([]facet.EntryEdit(nil), view...),
		opts:     opts,
		state:    StateIdle,
		validate: validator.New(),
	}
}

func (s *Session) State() State {
	return s.state
}

// ScratchPath is the staging file handed to the editor. It is kept on any
// failure after the editor ran so the user's edits are never lost.
func (s *Session) ScratchPath() string {
	return s.scratch
}

// Run executes the whole session. On failure the store is untouched and the
// returned error says which phase failed and why.
func (s *Session) Run(ctx context.Context) (Result, error) {
	s.state = StateExporting
	selection := selectRange(s.view, s.opts.StartID, s.opts.EndID)
	text := ExportText(selection)

	scratch, err := os.CreateTemp(s.opts.ScratchDir, "flipclerk-edit-*.tsv")
	if err != nil {
		return s.fail(fmt.Errorf("create scratch file: %w", err))
	}
	s.scratch = scratch.Name()
	if _, err := scratch.Write(text); err != nil {
		_ = scratch.Close()
		return s.fail(fmt.Errorf("write scratch file %s: %w", s.scratch, err))
	}
	// The editor writes to this path independently of us. Close the write
	// handle now; after the editor exits only a fresh read handle is used.
	if err := scratch.Close(); err != nil {
		return s.fail(fmt.Errorf("flush scratch file %s: %w", s.scratch, err))
	}

	s.state = StateAwaitingEditor
	cmd, err := editorCommand(ctx, s.opts.Editor, s.scratch)
	if err != nil {
		return s.fail(err)
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return s.fail(fmt.Errorf("%w: %q: %v", ErrEditorStart, s.opts.Editor, err))
	}
	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return s.fail(fmt.Errorf("wait for editor: %w", err))
		}
	}

	s.state = StateReloading
	edited, err := os.ReadFile(s.scratch)
	if err != nil {
		return s.fail(fmt.Errorf("reload scratch file %s: %w", s.scratch, err))
	}

	s.state = StateValidating
	batch, err := ParseText(edited)
	if err != nil {
		return s.fail(fmt.Errorf("parse edited entries (kept at %s): %w", s.scratch, err))
	}
	if err := s.validateBatch(batch); err != nil {
		return s.fail(fmt.Errorf("validate edited entries (kept at %s): %w", s.scratch, err))
	}

	// Commit the full view with the edited selection substituted, so new
	// entries outside a narrowed selection are still saved unedited.
	committed := history.Apply(outsideRange(s.view, s.opts.StartID, s.opts.EndID), batch)
	if err := s.store.Persist(committed); err != nil {
		return s.fail(fmt.Errorf("commit edited history: %w", err))
	}

	s.state = StateCommitted
	_ = os.Remove(s.scratch)
	return Result{Exported: len(selection), Committed: len(batch)}, nil
}

func (s *Session) fail(err error) (Result, error) {
	s.state = StateFailed
	return Result{}, err
}

func (s *Session) validateBatch(batch []facet.EntryEdit) error {
	seen := make(map[uint32]struct{}, len(batch))
	for _, entry := range batch {
		if err := s.validate.Struct(entry); err != nil {
			return fmt.Errorf("entry %d: %w", entry.ID, err)
		}
		if entry.End.Before(entry.Start) {
			return fmt.Errorf("entry %d: end %s is before start %s",
				entry.ID, entry.End.Format("2006-01-02 15:04"), entry.Start.Format("2006-01-02 15:04"))
		}
		if _, dup := seen[entry.ID]; dup {
			return fmt.Errorf("duplicate entry id %d", entry.ID)
		}
		seen[entry.ID] = struct{}{}
	}
	return nil
}

func selectRange(entries []facet.EntryEdit, startID, endID uint32) []facet.EntryEdit {
	selected := make([]facet.EntryEdit, 0, len(entries))
	for _, entry := range entries {
		if inRange(entry.ID, startID, endID) {
			selected = append(selected, entry)
		}
	}
	return selected
}

func outsideRange(entries []facet.EntryEdit, startID, endID uint32) []facet.EntryEdit {
	rest := make([]facet.EntryEdit, 0, len(entries))
	for _, entry := range entries {
		if !inRange(entry.ID, startID, endID) {
			rest = append(rest, entry)
		}
	}
	return rest
}

func inRange(id, startID, endID uint32) bool {
	if id < startID {
		return false
	}
	return endID == 0 || id <= endID
}

// ResolveEditor picks the editor command: explicit flag, then config, then
// $VISUAL, then $EDITOR, then vi.
func ResolveEditor(flagValue, configValue, visual, editorEnv string) string {
	for _, candidate := range []string{flagValue, configValue, visual, editorEnv} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return "vi"
}

func editorCommand(ctx context.Context, editorValue, scratchPath string) (*exec.Cmd, error) {
	fields := strings.Fields(strings.TrimSpace(editorValue))
	if len(fields) == 0 {
		return nil, errors.New("editor command is empty")
	}

	args := append(fields[1:], scratchPath)
	return exec.CommandContext(ctx, fields[0], args...), nil
}
