// Package records owns the working set of a session: the ordered records,
// the record selected for edition and the calories total.
//
// A Manager is not safe for concurrent use. Transports that serve several
// callers at once must serialize access (see package service).
package records

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fulldump/calorietracker/recordstore"
)

type Record = recordstore.Record

// Persister is the durable side of the working set.
type Persister interface {
	Load(ctx context.Context) ([]*Record, error)
	SaveAppend(ctx context.Context, record *Record) error
	SaveReplaceAll(ctx context.Context, records []*Record) error
	Clear(ctx context.Context) error
}

var ErrNotInitialized = errors.New("records: manager not initialized")
var ErrAlreadyInitialized = errors.New("records: manager already initialized")

type Manager struct {
	store  Persister
	logger *zap.Logger

	initialized   bool
	items         []*Record
	current       *Record
	totalCalories int
}

func NewManager(store Persister, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:  store,
		logger: logger,
		items:  []*Record{},
	}
}

// Initialize loads the stored records. It can be called once.
func (m *Manager) Initialize(ctx context.Context) error {
	if m.initialized {
		return ErrAlreadyInitialized
	}

	items, err := m.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load records: %w", err)
	}

	m.items = items
	m.current = nil
	m.initialized = true

	m.logger.Debug("records loaded", zap.Int("records", len(items)))

	return nil
}

// Close drops the working set. The manager can not be used afterwards.
func (m *Manager) Close() {
	m.initialized = false
	m.items = []*Record{}
	m.current = nil
	m.totalCalories = 0
}

// GetAll returns the live records in insertion order. Callers must not
// modify them.
func (m *Manager) GetAll() []*Record {
	result := make([]*Record, len(m.items))
	copy(result, m.items)
	return result
}

func (m *Manager) Len() int {
	return len(m.items)
}

// nextID is the id of the last record plus one, not the highest id plus one.
// Deleting the last record makes its id available again.
func (m *Manager) nextID() int {
	if len(m.items) == 0 {
		return 0
	}
	return m.items[len(m.items)-1].ID + 1
}

func (m *Manager) Add(ctx context.Context, name, caloriesText string) (*Record, error) {
	if !m.initialized {
		return nil, ErrNotInitialized
	}

	calories, err := ParseCalories(caloriesText)
	if err != nil {
		return nil, err
	}

	record := &Record{
		ID:       m.nextID(),
		Name:     name,
		Calories: calories,
	}

	err = m.store.SaveAppend(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("persist new record: %w", err)
	}
	m.items = append(m.items, record)

	m.logger.Debug("record added", zap.Int("id", record.ID), zap.String("name", record.Name))

	return record, nil
}

// GetByID returns the first record with id, or nil.
func (m *Manager) GetByID(id int) *Record {
	for _, record := range m.items {
		if record.ID == id {
			return record
		}
	}
	return nil
}

// SetCurrent selects record. The reference is kept as is, not copied.
func (m *Manager) SetCurrent(record *Record) {
	m.current = record
}

// GetCurrent returns the selected record or nil.
func (m *Manager) GetCurrent() *Record {
	return m.current
}

func (m *Manager) ClearCurrent() {
	m.current = nil
}

// Update renames and re-values the selected record, then persists every
// record. Without selection, or when the selected id is gone, it returns nil
// and persists nothing.
func (m *Manager) Update(ctx context.Context, name, caloriesText string) (*Record, error) {
	if !m.initialized {
		return nil, ErrNotInitialized
	}
	if m.current == nil {
		return nil, nil
	}

	record := m.GetByID(m.current.ID)
	if record == nil {
		return nil, nil
	}

	calories, err := ParseCalories(caloriesText)
	if err != nil {
		return nil, err
	}

	// The stored sequence gets a modified copy; the live record changes only
	// once it is persisted.
	updated := *record
	updated.Name = name
	updated.Calories = calories

	items := make([]*Record, len(m.items))
	for i, item := range m.items {
		if item == record {
			items[i] = &updated
			continue
		}
		items[i] = item
	}

	err = m.store.SaveReplaceAll(ctx, items)
	if err != nil {
		return nil, fmt.Errorf("persist records: %w", err)
	}
	*record = updated

	m.logger.Debug("record updated", zap.Int("id", record.ID), zap.String("name", record.Name))

	return record, nil
}

// Delete removes the records with id and persists the rest. A missing id
// leaves the records as they are (they are persisted anyway). On a store
// error the working set is left untouched.
func (m *Manager) Delete(ctx context.Context, id int) error {
	if !m.initialized {
		return ErrNotInitialized
	}

	kept := make([]*Record, 0, len(m.items))
	for _, record := range m.items {
		if record.ID != id {
			kept = append(kept, record)
		}
	}

	err := m.store.SaveReplaceAll(ctx, kept)
	if err != nil {
		return fmt.Errorf("persist records: %w", err)
	}
	m.items = kept

	m.logger.Debug("record deleted", zap.Int("id", id))

	return nil
}

func (m *Manager) ClearAll(ctx context.Context) error {
	if !m.initialized {
		return ErrNotInitialized
	}

	err := m.store.Clear(ctx)
	if err != nil {
		return fmt.Errorf("clear records: %w", err)
	}
	m.items = []*Record{}

	m.logger.Debug("records cleared")

	return nil
}

// TotalCalories sums the calories of every record and caches the result.
func (m *Manager) TotalCalories() int {
	total := 0
	for _, record := range m.items {
		total += record.Calories
	}
	m.totalCalories = total
	return total
}
