// Package repository implements the record store: whole collections of
// domain records serialized as single JSON blobs under fixed namespace
// keys, with interchangeable storage backends.
package repository

import "context"

// Collection namespaces. Each backend persists one opaque blob per key.
const (
	NamespaceDaySchedules = "habit_day_schedules"
	NamespaceAssignments  = "habit_assignments"
	NamespaceTemplates    = "habit_custom_templates"
)

// BlobStore persists opaque collection blobs. Load reports found=false for
// a namespace that has never been written; that is not an error.
type BlobStore interface {
	Load(ctx context.Context, namespace string) (payload []byte, found bool, err error)
	Save(ctx context.Context, namespace string, payload []byte) error
	Delete(ctx context.Context, namespace string) error
	Close() error
}
