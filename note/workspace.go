package note

import "context"

// Position is an editor cursor: zero-based line and character column.
// Columns count runes.
type Position struct {
	Line int `json:"line"`
	Ch   int `json:"ch"`
}

// Workspace is the host document store the transcript is applied to.
type Workspace interface {
	// ActiveEditor returns the editor of the active editable document, or
	// nil when there is none.
	ActiveEditor(ctx context.Context) Editor
	// Create writes a new document. It fails with a PATH_CONFLICT AppError
	// when a document already exists at path.
	Create(ctx context.Context, path, content string) error
	// Open shows the document at path to the user.
	Open(ctx context.Context, path string) error
}

// Editor is an open document with a cursor.
type Editor interface {
	// Cursor returns the cursor position; false means there is no cursor.
	Cursor() (Position, bool)
	// Insert adds text at pos without replacing anything.
	Insert(ctx context.Context, pos Position, text string) error
	// SetCursor moves the cursor.
	SetCursor(pos Position)
}
