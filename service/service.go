package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/SierraSoftworks/connor"

	"github.com/fulldump/calorietracker/metrics"
	"github.com/fulldump/calorietracker/records"
	"github.com/fulldump/calorietracker/session"
	"github.com/fulldump/calorietracker/utils"
)

// Service serializes every call into the session manager, which is not safe
// for concurrent use, and hands out copies of the records.
type Service struct {
	session *session.Session
	metrics *metrics.Metrics
	mutex   *sync.Mutex
}

func NewService(s *session.Session, m *metrics.Metrics) *Service {
	if m == nil {
		m = metrics.New()
	}
	return &Service{
		session: s,
		metrics: m,
		mutex:   &sync.Mutex{},
	}
}

// Stop closes the session once the calls in flight are done. Later calls get
// ErrorUnavailable.
func (s *Service) Stop() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.session.Stop()
}

func (s *Service) Metrics() *metrics.Metrics {
	return s.metrics
}

func (s *Service) Status() *Status {
	return &Status{
		ID:     s.session.ID(),
		Status: s.session.GetStatus(),
	}
}

// lock returns the manager with the service locked, the caller must unlock.
func (s *Service) lock() (*records.Manager, error) {
	s.mutex.Lock()
	m := s.session.Manager()
	if m == nil {
		s.mutex.Unlock()
		return nil, ErrorUnavailable
	}
	return m, nil
}

func (s *Service) observe(m *records.Manager, op string) {
	s.metrics.Observe(op, m.Len(), m.TotalCalories())
}

func copyRecord(r *Record) *Record {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

func (s *Service) List() ([]Record, error) {
	m, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer s.mutex.Unlock()

	result := []Record{}
	for _, r := range m.GetAll() {
		result = append(result, *r)
	}
	return result, nil
}

func (s *Service) Get(id int) (*Record, error) {
	m, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer s.mutex.Unlock()

	r := m.GetByID(id)
	if r == nil {
		return nil, ErrorRecordNotFound
	}
	return copyRecord(r), nil
}

func (s *Service) Add(ctx context.Context, name, calories string) (*Record, error) {
	m, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer s.mutex.Unlock()

	r, err := m.Add(ctx, name, calories)
	if err != nil {
		return nil, err
	}
	s.observe(m, "add")
	return copyRecord(r), nil
}

func (s *Service) Select(id int) (*Record, error) {
	m, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer s.mutex.Unlock()

	r := m.GetByID(id)
	if r == nil {
		return nil, ErrorRecordNotFound
	}
	m.SetCurrent(r)
	return copyRecord(r), nil
}

func (s *Service) Current() (*Record, error) {
	m, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer s.mutex.Unlock()

	r := m.GetCurrent()
	if r == nil {
		return nil, ErrorNoSelection
	}
	return copyRecord(r), nil
}

func (s *Service) Deselect() error {
	m, err := s.lock()
	if err != nil {
		return err
	}
	defer s.mutex.Unlock()

	m.ClearCurrent()
	return nil
}

func (s *Service) UpdateCurrent(ctx context.Context, name, calories string) (*Record, error) {
	m, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer s.mutex.Unlock()

	r, err := m.Update(ctx, name, calories)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, ErrorNoSelection
	}
	s.observe(m, "update")
	return copyRecord(r), nil
}

func (s *Service) Remove(ctx context.Context, id int) error {
	m, err := s.lock()
	if err != nil {
		return err
	}
	defer s.mutex.Unlock()

	err = m.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.observe(m, "delete")
	return nil
}

func (s *Service) Clear(ctx context.Context) error {
	m, err := s.lock()
	if err != nil {
		return err
	}
	defer s.mutex.Unlock()

	err = m.ClearAll(ctx)
	if err != nil {
		return err
	}
	s.observe(m, "clear")
	return nil
}

func (s *Service) Total() (*Total, error) {
	m, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer s.mutex.Unlock()

	return &Total{
		TotalCalories: m.TotalCalories(),
		Records:       m.Len(),
	}, nil
}

// Find calls f for the records matching filter (mongo like, see connor) in
// insertion order. A negative limit means no limit.
func (s *Service) Find(filter map[string]any, skip, limit int64, f func(record Record)) error {
	m, err := s.lock()
	if err != nil {
		return err
	}
	defer s.mutex.Unlock()

	hasFilter := len(filter) > 0

	for _, r := range m.GetAll() {

		if limit == 0 {
			break
		}

		if hasFilter {
			rowData := map[string]any{}
			err := utils.Remarshal(r, &rowData)
			if err != nil {
				return fmt.Errorf("remarshal record %d: %w", r.ID, err)
			}
			match, err := connor.Match(filter, rowData)
			if err != nil {
				return fmt.Errorf("match: %w", err)
			}
			if !match {
				continue
			}
		}

		if skip > 0 {
			skip--
			continue
		}

		limit--
		f(*r)
	}

	return nil
}
