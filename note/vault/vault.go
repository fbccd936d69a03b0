// Package vault implements note.Workspace over a storage.Storage document
// root. It is what the CLI and the HTTP daemon apply transcripts to.
package vault

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"

	"github.com/kbukum/voicenote/errors"
	"github.com/kbukum/voicenote/logger"
	"github.com/kbukum/voicenote/note"
	"github.com/kbukum/voicenote/storage"
)

var _ note.Workspace = (*Vault)(nil)

// Vault is a workspace for one request. The active document, if any, is
// chosen by the caller with SetActive.
type Vault struct {
	store storage.Storage
	log   *logger.Logger

	mu     sync.Mutex
	active *Editor
	opened []string
}

// Option configures a Vault.
type Option func(*Vault)

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(v *Vault) { v.log = l }
}

// New creates a vault over store.
func New(store storage.Storage, opts ...Option) *Vault {
	v := &Vault{store: store}
	for _, opt := range opts {
		opt(v)
	}
	if v.log == nil {
		v.log = logger.WithComponent("vault")
	}
	return v
}

// SetActive makes the note at path the active editable document with its
// cursor at pos. The note must exist.
func (v *Vault) SetActive(ctx context.Context, path string, pos note.Position) error {
	ok, err := v.store.Exists(ctx, path)
	if err != nil {
		return errors.InvalidInput("note", err.Error())
	}
	if !ok {
		return errors.NotFound("note", path)
	}
	v.mu.Lock()
	v.active = &Editor{store: v.store, path: path, cursor: pos}
	v.mu.Unlock()
	return nil
}

// ActiveEditor returns the active document's editor, or nil.
func (v *Vault) ActiveEditor(context.Context) note.Editor {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.active == nil {
		return nil
	}
	return v.active
}

// Active returns the active editor, or nil.
func (v *Vault) Active() *Editor {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.active
}

// Create writes a new note, failing with PATH_CONFLICT if one exists.
func (v *Vault) Create(ctx context.Context, path, content string) error {
	err := v.store.Create(ctx, path, strings.NewReader(content))
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, storage.ErrAlreadyExists):
		return errors.PathConflict(path)
	case stderrors.Is(err, storage.ErrInvalidPath):
		return errors.InvalidInput("path", err.Error())
	default:
		return err
	}
}

// Open records path as opened for the user. There is no viewer behind the
// vault; the URL is logged so the caller can show it.
func (v *Vault) Open(ctx context.Context, path string) error {
	u, err := v.store.URL(ctx, path)
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.opened = append(v.opened, path)
	v.mu.Unlock()
	v.log.WithContext(ctx).Info("note opened", logger.Fields(logger.FieldPath, path, "url", u))
	return nil
}

// Opened lists the notes opened so far, in order.
func (v *Vault) Opened() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.opened...)
}
