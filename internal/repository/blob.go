package repository

import (
	"context"
	"encoding/json"
	"fmt"

	appErrors "github.com/noah-isme/habit-alert-api/pkg/errors"
)

// loadCollection reads and decodes a whole collection blob. A namespace
// that was never written decodes to the zero value. A blob that exists but
// cannot be parsed is surfaced as ErrDataCorrupt rather than silently
// treated as empty.
func loadCollection(ctx context.Context, store BlobStore, namespace string, dest interface{}) error {
	payload, found, err := store.Load(ctx, namespace)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return appErrors.Wrap(err, appErrors.ErrDataCorrupt.Code, appErrors.ErrDataCorrupt.Status,
			fmt.Sprintf("collection %s is unreadable", namespace))
	}
	return nil
}

// saveCollection encodes and replaces a whole collection blob.
func saveCollection(ctx context.Context, store BlobStore, namespace string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal collection %s: %w", namespace, err)
	}
	return store.Save(ctx, namespace, payload)
}
