package store

import (
	"encoding/json"
	"fmt"

	"github.com/planflow/planboard-api/internal/constants"
)

// Query addresses one collection, optionally narrowed by a top-level
// field equality (e.g. tasks where projectId == X).
type Query struct {
	Path   string
	Field  string
	Equals string
}

// Collection returns an unfiltered query for path.
func Collection(path string) Query {
	return Query{Path: path}
}

// Where returns a copy of q filtered by field == value.
func (q Query) Where(field, value string) Query {
	q.Field = field
	q.Equals = value
	return q
}

// Document is one snapshot entry: the document id and its JSON payload.
type Document struct {
	ID   string
	Data json.RawMessage
}

// Snapshot is a point-in-time result set for a query.
type Snapshot []Document

// Handler receives snapshots for a live subscription.
type Handler func(Snapshot)

// CancelFunc stops a subscription's delivery.
type CancelFunc func()

// Store is the document-store adapter: live queries plus mutations
// keyed by collection path. Add assigns an id and writes it back onto
// the created document so documents are self-describing. Update and
// Delete of a missing document are no-ops.
type Store interface {
	// Subscribe opens a live query. The first snapshot delivered equals
	// the Load result at subscription time; later snapshots follow every
	// mutation of the collection, in order, until cancelled.
	Subscribe(q Query, fn Handler) (CancelFunc, error)

	// Load reads the current result set for a query.
	Load(q Query) (Snapshot, error)

	// Add creates a document and returns its assigned id.
	Add(path string, doc any) (string, error)

	// Update merges partial fields into an existing document. A nil
	// field value removes the key.
	Update(path, id string, fields map[string]any) error

	// Set merges fields into a document at a caller-chosen id, creating
	// it when absent.
	Set(path, id string, fields map[string]any) error

	// Delete removes a document.
	Delete(path, id string) error
}

// SubProjectsPath returns the sub-project subcollection path for a big
// project.
func SubProjectsPath(bigProjectID string) string {
	return fmt.Sprintf("%s/%s/subProjects", constants.CollectionBigProjects, bigProjectID)
}

// SubTasksPath returns the sub-task subcollection path for a
// sub-project.
func SubTasksPath(bigProjectID, subProjectID string) string {
	return fmt.Sprintf("%s/%s/subProjects/%s/subTasks", constants.CollectionBigProjects, bigProjectID, subProjectID)
}

// DecodeAll unmarshals every document in a snapshot into T, stamping
// the document id onto the entity's id field. Documents that fail to
// decode are skipped rather than failing the snapshot.
func DecodeAll[T any](snap Snapshot) []T {
	out := make([]T, 0, len(snap))
	for _, doc := range snap {
		var m map[string]any
		if err := json.Unmarshal(doc.Data, &m); err != nil {
			continue
		}
		m["id"] = doc.ID
		raw, err := json.Marshal(m)
		if err != nil {
			continue
		}
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Fields converts a struct into the partial-field map Update expects.
// Optional fields tagged omitempty drop out entirely when unset, so a
// merge never writes empty strings over existing values.
func Fields(doc any) (map[string]any, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return m, nil
}
