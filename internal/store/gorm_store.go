package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"gorm.io/gorm"

	"github.com/planflow/planboard-api/internal/models"
	"github.com/planflow/planboard-api/internal/utils"
)

// snapshotBuffer bounds how many undelivered snapshots a slow
// subscriber may queue before the oldest are coalesced away.
const snapshotBuffer = 64

// GormStore is a Store backed by a single documents table.
type GormStore struct {
	db *gorm.DB

	// notifyMu serializes snapshot loads against their channel sends so
	// overlapping writers cannot enqueue snapshots out of mutation order.
	notifyMu sync.Mutex

	mu     sync.Mutex
	nextID int
	subs   map[int]*subscription
}

type subscription struct {
	query Query
	ch    chan Snapshot
	done  chan struct{}
}

// NewGormStore creates a Store over db.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db:   db,
		subs: make(map[int]*subscription),
	}
}

// Load reads the current result set for a query.
func (s *GormStore) Load(q Query) (Snapshot, error) {
	var rows []models.Document
	if err := s.db.Where("collection = ?", q.Path).Order("created_at, doc_id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", q.Path, err)
	}

	snap := make(Snapshot, 0, len(rows))
	for _, row := range rows {
		data := json.RawMessage(row.Data)
		if q.Field != "" && !matchesFilter(data, q.Field, q.Equals) {
			continue
		}
		snap = append(snap, Document{ID: row.DocID, Data: data})
	}
	return snap, nil
}

// Subscribe opens a live query against the documents table.
func (s *GormStore) Subscribe(q Query, fn Handler) (CancelFunc, error) {
	sub := &subscription{
		query: q,
		ch:    make(chan Snapshot, snapshotBuffer),
		done:  make(chan struct{}),
	}

	// Registration and the initial snapshot happen under notifyMu so a
	// concurrent writer cannot slot a newer snapshot in ahead of it.
	s.notifyMu.Lock()
	initial, err := s.Load(q)
	if err != nil {
		s.notifyMu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = sub
	s.mu.Unlock()

	sub.ch <- initial
	s.notifyMu.Unlock()

	go func() {
		for {
			select {
			case <-sub.done:
				return
			case snap, ok := <-sub.ch:
				if !ok {
					return
				}
				select {
				case <-sub.done:
					return
				default:
				}
				fn(snap)
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(sub.done)
		})
	}
	return cancel, nil
}

// Add creates a document, assigns its id and writes the id back onto
// the stored payload.
func (s *GormStore) Add(path string, doc any) (string, error) {
	fields, err := Fields(doc)
	if err != nil {
		return "", err
	}

	id, err := utils.GenerateDocID()
	if err != nil {
		return "", err
	}
	fields["id"] = id

	raw, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}

	row := models.Document{
		Collection: path,
		DocID:      id,
		Data:       string(raw),
	}
	if err := s.db.Create(&row).Error; err != nil {
		return "", fmt.Errorf("failed to add document to %s: %w", path, err)
	}

	s.notify(path)
	return id, nil
}

// Update merges partial fields into an existing document. Updating a
// document that no longer exists is a no-op.
func (s *GormStore) Update(path, id string, fields map[string]any) error {
	var row models.Document
	err := s.db.Where("collection = ? AND doc_id = ?", path, id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to find document %s/%s: %w", path, id, err)
	}

	merged, err := mergeFields(row.Data, fields)
	if err != nil {
		return err
	}

	row.Data = merged
	if err := s.db.Save(&row).Error; err != nil {
		return fmt.Errorf("failed to update document %s/%s: %w", path, id, err)
	}

	s.notify(path)
	return nil
}

// Set merges fields into the document at id, creating it when absent.
func (s *GormStore) Set(path, id string, fields map[string]any) error {
	var row models.Document
	err := s.db.Where("collection = ? AND doc_id = ?", path, id).First(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		row = models.Document{Collection: path, DocID: id, Data: "{}"}
	case err != nil:
		return fmt.Errorf("failed to find document %s/%s: %w", path, id, err)
	}

	merged, err := mergeFields(row.Data, fields)
	if err != nil {
		return err
	}

	row.Data = merged
	if err := s.db.Save(&row).Error; err != nil {
		return fmt.Errorf("failed to set document %s/%s: %w", path, id, err)
	}

	s.notify(path)
	return nil
}

// Delete removes a document. Deleting a missing document is a no-op.
func (s *GormStore) Delete(path, id string) error {
	if err := s.db.Where("collection = ? AND doc_id = ?", path, id).Delete(&models.Document{}).Error; err != nil {
		return fmt.Errorf("failed to delete document %s/%s: %w", path, id, err)
	}

	s.notify(path)
	return nil
}

// notify recomputes and enqueues a snapshot for every subscription on
// path. notifyMu spans the load and the send so that within one
// subscription the queue always reflects mutation order.
func (s *GormStore) notify(path string) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	targets := make([]*subscription, 0)
	for _, sub := range s.subs {
		if sub.query.Path == path {
			targets = append(targets, sub)
		}
	}
	s.mu.Unlock()

	for _, sub := range targets {
		snap, err := s.Load(sub.query)
		if err != nil {
			log.Printf("subscription load failed for %s: %v", sub.query.Path, err)
			continue
		}
		select {
		case sub.ch <- snap:
		default:
			// Subscriber is far behind; drop the oldest queued snapshot
			// so the latest state still gets through.
			select {
			case <-sub.ch:
			default:
			}
			select {
			case sub.ch <- snap:
			default:
			}
		}
	}
}

func mergeFields(data string, fields map[string]any) (string, error) {
	var m map[string]any
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		m = make(map[string]any)
	}
	for k, v := range fields {
		if v == nil {
			delete(m, k)
			continue
		}
		m[k] = v
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}
	return string(raw), nil
}

func matchesFilter(data json.RawMessage, field, equals string) bool {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return false
	}
	v, ok := m[field].(string)
	return ok && v == equals
}
