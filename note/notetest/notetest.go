// Package notetest provides in-memory note.Workspace and note.Editor fakes.
package notetest

import (
	"context"
	"sync"

	"github.com/kbukum/voicenote/errors"
	"github.com/kbukum/voicenote/note"
)

var (
	_ note.Workspace = (*Workspace)(nil)
	_ note.Editor    = (*Editor)(nil)
)

// Workspace keeps documents in memory.
type Workspace struct {
	mu     sync.Mutex
	Docs   map[string]string
	Opened []string
	// Active is returned by ActiveEditor when non-nil.
	Active *Editor
	// CreateErr, when set, is returned by Create.
	CreateErr error
}

// NewWorkspace returns an empty workspace with no active editor.
func NewWorkspace() *Workspace {
	return &Workspace{Docs: make(map[string]string)}
}

// ActiveEditor returns Active, or nil.
func (w *Workspace) ActiveEditor(context.Context) note.Editor {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.Active == nil {
		return nil
	}
	return w.Active
}

// Create stores content at path unless it exists.
func (w *Workspace) Create(_ context.Context, path, content string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.CreateErr != nil {
		return w.CreateErr
	}
	if _, ok := w.Docs[path]; ok {
		return errors.PathConflict(path)
	}
	w.Docs[path] = content
	return nil
}

// Open records path as opened.
func (w *Workspace) Open(_ context.Context, path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Opened = append(w.Opened, path)
	return nil
}

// Doc returns the content at path.
func (w *Workspace) Doc(path string) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, ok := w.Docs[path]
	return s, ok
}

// Editor is a single-document editor over a string.
type Editor struct {
	Text      string
	Pos       note.Position
	NoCursor  bool
	InsertErr error
}

// Cursor returns Pos unless NoCursor is set.
func (e *Editor) Cursor() (note.Position, bool) {
	return e.Pos, !e.NoCursor
}

// Insert splices text into Text at pos.
func (e *Editor) Insert(_ context.Context, pos note.Position, text string) error {
	if e.InsertErr != nil {
		return e.InsertErr
	}
	out, err := note.InsertAt(e.Text, pos, text)
	if err != nil {
		return err
	}
	e.Text = out
	return nil
}

// SetCursor moves Pos.
func (e *Editor) SetCursor(pos note.Position) {
	e.Pos = pos
}
