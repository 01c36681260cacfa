// Package session holds one working set for the lifetime of a process: it
// opens the durable store, loads the records and tears everything down on
// Stop.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fulldump/calorietracker/kvstore"
	"github.com/fulldump/calorietracker/recordstore"
	"github.com/fulldump/calorietracker/records"
)

const (
	StatusOpening   = "opening"
	StatusOperating = "operating"
	StatusClosing   = "closing"
)

type Config struct {
	Store kvstore.Config
	Key   string // key holding the serialized records

	// KV replaces the store described by Store when not nil.
	KV     kvstore.Store
	Logger *zap.Logger
}

type Session struct {
	id      string
	config  *Config
	logger  *zap.Logger
	mutex   *sync.RWMutex
	status  string
	kv      kvstore.Store
	manager *records.Manager
	exit    chan struct{}
	once    *sync.Once
}

func New(config *Config) *Session {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.New().String()
	return &Session{
		id:     id,
		config: config,
		logger: logger.With(zap.String("session", id)),
		mutex:  &sync.RWMutex{},
		status: StatusOpening,
		exit:   make(chan struct{}),
		once:   &sync.Once{},
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) GetStatus() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.status
}

func (s *Session) setStatus(status string) {
	s.mutex.Lock()
	s.status = status
	s.mutex.Unlock()
}

// Manager returns the working set, or nil while the session is not operating.
func (s *Session) Manager() *records.Manager {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.status != StatusOperating {
		return nil
	}
	return s.manager
}

// Load opens the durable store and initializes the working set.
func (s *Session) Load(ctx context.Context) error {

	t0 := time.Now()

	kv := s.config.KV
	if kv == nil {
		var err error
		kv, err = kvstore.Open(ctx, &s.config.Store)
		if err != nil {
			s.setStatus(StatusClosing)
			return fmt.Errorf("open store: %w", err)
		}
	}

	manager := records.NewManager(recordstore.New(kv, s.config.Key), s.logger)
	err := manager.Initialize(ctx)
	if err != nil {
		s.setStatus(StatusClosing)
		kv.Close()
		return err
	}

	s.mutex.Lock()
	s.kv = kv
	s.manager = manager
	s.status = StatusOperating
	s.mutex.Unlock()

	s.logger.Info("session operating",
		zap.String("driver", string(kv.Driver())),
		zap.Int("records", manager.Len()),
		zap.Duration("took", time.Since(t0)),
	)

	return nil
}

// Start loads the session and blocks until Stop is called.
func (s *Session) Start() error {

	err := s.Load(context.Background())
	if err != nil {
		s.logger.Error("session load", zap.Error(err))
		return err
	}

	<-s.exit

	return nil
}

func (s *Session) Stop() error {

	var err error
	s.once.Do(func() {
		defer close(s.exit)

		s.mutex.Lock()
		s.status = StatusClosing
		manager := s.manager
		kv := s.kv
		s.mutex.Unlock()

		s.logger.Info("session closing")

		if manager != nil {
			manager.Close()
		}
		if kv != nil {
			err = kv.Close()
			if err != nil {
				s.logger.Error("close store", zap.Error(err))
			}
		}
	})

	return err
}
