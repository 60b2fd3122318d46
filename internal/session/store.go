package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"telegram_rps/internal/game"
)

var (
	ErrDuplicateSession = errors.New("session already exists")
	// ErrSessionNotFound покрывает и "не создавалась", и "уже сыграна"
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidSession  = errors.New("invalid session")
)

// State жизненный цикл партии
type State int

const (
	// ждем второго игрока, записан только инициатор
	StateAwaiting State = iota
	// результат посчитан, партия уже удалена из стора
	StateResolved
)

func (s State) String() string {
	switch s {
	case StateAwaiting:
		return "awaiting"
	case StateResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Session одна партия, ключ выдает платформа
type Session struct {
	ID        string
	Initiator game.Player
	State     State
	CreatedAt time.Time
}

// Resolver считает исход партии. Validate вызывается до того,
// как партия будет удалена, чтобы кривой выбор не "съедал" игру.
type Resolver interface {
	Validate(choice string) error
	Resolve(a, b game.Player) (game.Outcome, error)
}

// Store держит партии в памяти. Наружу отдаются только атомарные
// Create/Resolve, сама map никогда не покидает стор.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

type Option func(*Store)

// WithTTL включает вытеснение ожидающих партий старше ttl (0 = без вытеснения)
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithClock подменяет часы (для тестов)
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create регистрирует новую партию в состоянии ожидания.
// При совпадении ID возвращает ErrDuplicateSession и ничего не меняет.
func (s *Store) Create(id string, initiator game.Player) (Session, error) {
	if id == "" || initiator.UserID == "" {
		return Session{}, ErrInvalidSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.sessions[id]; ok && !s.expired(existing) {
		return Session{}, ErrDuplicateSession
	}

	sess := &Session{
		ID:        id,
		Initiator: initiator,
		State:     StateAwaiting,
		CreatedAt: s.now(),
	}
	s.sessions[id] = sess
	return *sess, nil
}

// Resolve забирает партию и считает результат против второго игрока.
// Поиск и удаление атомарны: из нескольких конкурентных вызовов с одним ID
// успешен ровно один, остальные получают ErrSessionNotFound.
func (s *Store) Resolve(id string, second game.Player, r Resolver) (game.Outcome, error) {
	if err := r.Validate(second.Choice); err != nil {
		return game.Outcome{}, err
	}

	sess, err := s.take(id)
	if err != nil {
		return game.Outcome{}, err
	}

	// считаем уже вне критической секции, партия больше не видна другим
	return r.Resolve(sess.Initiator, second)
}

func (s *Store) take(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok || sess.State != StateAwaiting {
		return nil, ErrSessionNotFound
	}
	delete(s.sessions, id)

	if s.expired(sess) {
		return nil, ErrSessionNotFound
	}

	sess.State = StateResolved
	return sess, nil
}

// Len количество ожидающих партий, только для метрик
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep удаляет просроченные партии и возвращает их количество.
// Без TTL ничего не делает.
func (s *Store) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, sess := range s.sessions {
		if s.expired(sess) {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}

// RunJanitor периодически вызывает Sweep до отмены ctx
func (s *Store) RunJanitor(ctx context.Context, interval time.Duration, onEvict func(n int)) {
	if s.ttl <= 0 || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 && onEvict != nil {
				onEvict(n)
			}
		}
	}
}

// вызывать под s.mu
func (s *Store) expired(sess *Session) bool {
	if s.ttl <= 0 {
		return false
	}
	return s.now().Sub(sess.CreatedAt) >= s.ttl
}
