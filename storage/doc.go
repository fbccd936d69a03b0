// Package storage defines file storage for the vault: saved recordings and
// generated notes addressed by slash-separated paths relative to a root.
//
// Storage backends live in subpackages:
//
//	store, err := local.NewStorage(vaultDir)
//	err = storage.CreateBytes(ctx, store, "notes/rec1.md", note)
//	if errors.Is(err, storage.ErrAlreadyExists) { ... }
package storage
