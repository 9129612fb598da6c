// Package storagetest provides an in-memory ComplaintStore for unit tests.
package storagetest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/models"
	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/storage"
)

// MemoryStore mirrors the behaviour of the gorm store, including the conditional
// transition and the status log.
type MemoryStore struct {
	mu         sync.Mutex
	nextID     uint
	nextLogID  uint
	complaints map[uint]models.Complaint
	logs       []models.ComplaintStatusLog
	failures   map[string]error
	noSchema   bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		complaints: make(map[uint]models.Complaint),
		failures:   make(map[string]error),
	}
}

// FailOn makes every later call of op ("Create", "FindByID", "List", "Transition",
// "CountByStatus", "History", "Ping") return err. A nil err clears the failure.
func (m *MemoryStore) FailOn(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, op)
		return
	}
	m.failures[op] = err
}

// DropSchema makes HasSchema report a missing complaints table.
func (m *MemoryStore) DropSchema() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.noSchema = true
}

// Len returns the number of stored complaints.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.complaints)
}

func (m *MemoryStore) Create(ctx context.Context, complaint *models.Complaint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failures["Create"]; err != nil {
		return err
	}

	m.nextID++
	complaint.ID = m.nextID
	m.complaints[complaint.ID] = clone(*complaint)
	m.appendLog(models.ComplaintStatusLog{
		ComplaintID: complaint.ID,
		NewStatus:   complaint.Status,
		Note:        "submitted",
	})
	return nil
}

func (m *MemoryStore) FindByID(ctx context.Context, id uint) (*models.Complaint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failures["FindByID"]; err != nil {
		return nil, err
	}

	c, ok := m.complaints[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	c = clone(c)
	return &c, nil
}

func (m *MemoryStore) List(ctx context.Context, filter storage.ListFilter) ([]models.Complaint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failures["List"]; err != nil {
		return nil, err
	}

	out := make([]models.Complaint, 0, len(m.complaints))
	for _, c := range m.complaints {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		out = append(out, clone(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *MemoryStore) Transition(ctx context.Context, id uint, from, to models.ComplaintStatus, fields map[string]interface{}, note storage.TransitionNote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failures["Transition"]; err != nil {
		return err
	}

	c, ok := m.complaints[id]
	if !ok {
		return storage.ErrNotFound
	}
	if c.Status != from {
		return storage.ErrStatusConflict
	}

	for k, v := range fields {
		switch k {
		case "assigned_to":
			s := v.(string)
			c.AssignedTo = &s
		case "after_image_url":
			s := v.(string)
			c.AfterImageURL = &s
		case "completed_at":
			t := v.(time.Time)
			c.CompletedAt = &t
		default:
			return fmt.Errorf("unsupported column %q", k)
		}
	}
	c.Status = to
	m.complaints[id] = c

	old := from
	m.appendLog(models.ComplaintStatusLog{
		ComplaintID: id,
		OldStatus:   &old,
		NewStatus:   to,
		AssignedTo:  note.AssignedTo,
		Note:        note.Note,
	})
	return nil
}

func (m *MemoryStore) CountByStatus(ctx context.Context) (map[models.ComplaintStatus]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failures["CountByStatus"]; err != nil {
		return nil, err
	}

	counts := make(map[models.ComplaintStatus]int64)
	for _, c := range m.complaints {
		counts[c.Status]++
	}
	return counts, nil
}

func (m *MemoryStore) History(ctx context.Context, id uint) ([]models.ComplaintStatusLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failures["History"]; err != nil {
		return nil, err
	}

	out := make([]models.ComplaintStatusLog, 0)
	for _, l := range m.logs {
		if l.ComplaintID == id {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failures["Ping"]
}

func (m *MemoryStore) HasSchema(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.noSchema, nil
}

func (m *MemoryStore) appendLog(entry models.ComplaintStatusLog) {
	m.nextLogID++
	entry.ID = m.nextLogID
	entry.CreatedAt = time.Now().UTC()
	m.logs = append(m.logs, entry)
}

func clone(c models.Complaint) models.Complaint {
	c.Contact = copyPtr(c.Contact)
	c.AssignedTo = copyPtr(c.AssignedTo)
	c.AfterImageURL = copyPtr(c.AfterImageURL)
	c.CompletedAt = copyPtr(c.CompletedAt)
	return c
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

var _ storage.ComplaintStore = (*MemoryStore)(nil)
