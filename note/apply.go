package note

import (
	"context"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/kbukum/voicenote/errors"
	"github.com/kbukum/voicenote/logger"
)

// ApplyRequest is a produced transcript and where it may go.
type ApplyRequest struct {
	Transcript string
	// NotePath is used when a new document is created.
	NotePath string
	// AudioPath is the saved recording, or "" when none was saved.
	AudioPath string
	// CreateNew forces a new document even with an active editor.
	CreateNew bool
}

// Result reports what Apply did.
type Result struct {
	// Created is true when a new document was created at Path.
	Created bool     `json:"created"`
	Path    string   `json:"path,omitempty"`
	Cursor  Position `json:"cursor"`
}

// Apply creates a new document when req.CreateNew is set or no editor is
// active, and inserts at the cursor otherwise.
func Apply(ctx context.Context, ws Workspace, req ApplyRequest) (Result, error) {
	if ws == nil {
		return Result{}, errors.NoActiveEditor()
	}
	log := logger.WithComponent("note").WithContext(ctx)

	editor := ws.ActiveEditor(ctx)
	if req.CreateNew || editor == nil {
		if err := ws.Create(ctx, req.NotePath, Content(req.Transcript, req.AudioPath)); err != nil {
			return Result{}, asAppError(err)
		}
		log.Debug("note created", logger.Fields(logger.FieldPath, req.NotePath))
		res := Result{Created: true, Path: req.NotePath}
		if err := ws.Open(ctx, req.NotePath); err != nil {
			return res, asAppError(err)
		}
		return res, nil
	}

	pos, ok := editor.Cursor()
	if !ok {
		return Result{}, errors.NoActiveEditor()
	}
	if err := editor.Insert(ctx, pos, req.Transcript); err != nil {
		return Result{}, asAppError(err)
	}
	next := CursorAfter(pos, req.Transcript)
	editor.SetCursor(next)
	return Result{Cursor: next}, nil
}

// Content is the body of a new note: the transcript, preceded by an embed
// line when audio was saved.
func Content(transcript, audioPath string) string {
	if audioPath == "" {
		return transcript
	}
	return "![[" + audioPath + "]]\n" + transcript
}

// CursorAfter is the position right after text inserted at pos. For
// multi-line text it is the end of the last inserted line.
func CursorAfter(pos Position, text string) Position {
	i := strings.LastIndexByte(text, '\n')
	if i < 0 {
		return Position{Line: pos.Line, Ch: pos.Ch + utf8.RuneCountInString(text)}
	}
	return Position{
		Line: pos.Line + strings.Count(text, "\n"),
		Ch:   utf8.RuneCountInString(text[i+1:]),
	}
}

// asAppError keeps AppErrors and wraps anything else so its text still
// reaches the user.
func asAppError(err error) error {
	if errors.IsAppError(err) {
		return err
	}
	return errors.New(errors.ErrCodeInternal, err.Error(), http.StatusInternalServerError).WithCause(err)
}

// InsertAt returns doc with text inserted at pos. The position must address
// an existing line and a column no past its end.
func InsertAt(doc string, pos Position, text string) (string, error) {
	lines := strings.Split(doc, "\n")
	if pos.Line < 0 || pos.Line >= len(lines) {
		return "", errors.InvalidInput("cursor", "line out of range")
	}
	line := []rune(lines[pos.Line])
	if pos.Ch < 0 || pos.Ch > len(line) {
		return "", errors.InvalidInput("cursor", "column out of range")
	}
	lines[pos.Line] = string(line[:pos.Ch]) + text + string(line[pos.Ch:])
	return strings.Join(lines, "\n"), nil
}
