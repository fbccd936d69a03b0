package vault

import (
	"context"

	"github.com/kbukum/voicenote/errors"
	"github.com/kbukum/voicenote/note"
	"github.com/kbukum/voicenote/storage"
)

var _ note.Editor = (*Editor)(nil)

// Editor edits one stored note. Every Insert reads and rewrites the file.
type Editor struct {
	store  storage.Storage
	path   string
	cursor note.Position
}

// Path returns the note path.
func (e *Editor) Path() string { return e.path }

// Cursor returns the cursor. A vault editor always has one.
func (e *Editor) Cursor() (note.Position, bool) {
	return e.cursor, true
}

// Insert splices text into the stored note at pos.
func (e *Editor) Insert(ctx context.Context, pos note.Position, text string) error {
	data, err := storage.ReadBytes(ctx, e.store, e.path)
	if err != nil {
		return errors.NotFound("note", e.path).WithCause(err)
	}
	out, err := note.InsertAt(string(data), pos, text)
	if err != nil {
		return err
	}
	return storage.UploadBytes(ctx, e.store, e.path, []byte(out))
}

// SetCursor moves the cursor.
func (e *Editor) SetCursor(pos note.Position) {
	e.cursor = pos
}
