package vault

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/kbukum/voicenote/errors"
	"github.com/kbukum/voicenote/logger"
	"github.com/kbukum/voicenote/note"
	"github.com/kbukum/voicenote/storage/local"
)

func newTestVault(t *testing.T) (*Vault, string) {
	t.Helper()
	root := t.TempDir()
	store, err := local.NewStorage(root)
	if err != nil {
		t.Fatalf("storage: %v", err)
	}
	return New(store, WithLogger(logger.NewNop())), root
}

func TestCreateAndOpen(t *testing.T) {
	v, root := newTestVault(t)
	ctx := context.Background()

	if err := v.Create(ctx, "notes/rec1.md", "![[audio/rec1.webm]]\nhello"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(root, "notes", "rec1.md"))
	if err != nil {
		t.Fatalf("read note: %v", err)
	}
	if string(data) != "![[audio/rec1.webm]]\nhello" {
		t.Errorf("unexpected content %q", data)
	}

	if err := v.Open(ctx, "notes/rec1.md"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got := v.Opened(); len(got) != 1 || got[0] != "notes/rec1.md" {
		t.Errorf("unexpected opened %v", got)
	}
}

func TestCreateConflict(t *testing.T) {
	v, root := newTestVault(t)
	ctx := context.Background()
	_ = os.WriteFile(filepath.Join(root, "rec1.md"), []byte("old"), 0o600)

	err := v.Create(ctx, "rec1.md", "new")
	if !errors.HasCode(err, errors.ErrCodePathConflict) {
		t.Fatalf("expected PATH_CONFLICT, got %v", err)
	}
	data, _ := os.ReadFile(filepath.Join(root, "rec1.md"))
	if string(data) != "old" {
		t.Errorf("existing note overwritten: %q", data)
	}
}

func TestCreateInvalidPath(t *testing.T) {
	v, _ := newTestVault(t)
	if err := v.Create(context.Background(), "../escape.md", "x"); !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

func TestActiveEditor(t *testing.T) {
	v, root := newTestVault(t)
	ctx := context.Background()

	if v.ActiveEditor(ctx) != nil {
		t.Fatal("expected no active editor")
	}
	if err := v.SetActive(ctx, "missing.md", note.Position{}); !errors.HasCode(err, errors.ErrCodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}

	_ = os.WriteFile(filepath.Join(root, "daily.md"), []byte("# Today\nMet with "), 0o600)
	if err := v.SetActive(ctx, "daily.md", note.Position{Line: 1, Ch: 9}); err != nil {
		t.Fatalf("SetActive: %v", err)
	}

	res, err := note.Apply(ctx, v, note.ApplyRequest{Transcript: "the team.", NotePath: "rec1.md"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if res.Created {
		t.Fatal("expected insertion into the active note")
	}
	data, _ := os.ReadFile(filepath.Join(root, "daily.md"))
	if string(data) != "# Today\nMet with the team." {
		t.Errorf("unexpected note %q", data)
	}
	if pos, _ := v.Active().Cursor(); pos != (note.Position{Line: 1, Ch: 18}) {
		t.Errorf("unexpected cursor %+v", pos)
	}
	if _, err := os.Stat(filepath.Join(root, "rec1.md")); !os.IsNotExist(err) {
		t.Error("no new note expected")
	}
}

func TestEditorInsertOutOfRange(t *testing.T) {
	v, root := newTestVault(t)
	ctx := context.Background()
	_ = os.WriteFile(filepath.Join(root, "a.md"), []byte("one"), 0o600)
	if err := v.SetActive(ctx, "a.md", note.Position{Line: 5}); err != nil {
		t.Fatal(err)
	}
	err := v.Active().Insert(ctx, note.Position{Line: 5}, "x")
	if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

func TestEditorInsertDeletedNote(t *testing.T) {
	v, root := newTestVault(t)
	ctx := context.Background()
	p := filepath.Join(root, "a.md")
	_ = os.WriteFile(p, []byte("one"), 0o600)
	if err := v.SetActive(ctx, "a.md", note.Position{}); err != nil {
		t.Fatal(err)
	}
	_ = os.Remove(p)
	if err := v.Active().Insert(ctx, note.Position{}, "x"); !errors.HasCode(err, errors.ErrCodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
