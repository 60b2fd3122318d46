package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"telegram_rps/internal/game"
	"telegram_rps/internal/logger"
	"telegram_rps/internal/metrics"
	"telegram_rps/internal/session"
)

// ErrUnknownEvent входящее событие не подходит ни под один вид
var ErrUnknownEvent = errors.New("unknown event")

// User пользователь платформы, от которого пришло событие
type User struct {
	ID   string
	Name string
}

type EventKind string

const (
	EventStart EventKind = "start"
	EventJoin  EventKind = "join"
)

// Event входящее событие, уже разобранное транспортом
type Event struct {
	Kind      EventKind
	SessionID string
	User      User
	Choice    string
}

// Result итог обработки события: для start заполнен Session, для join Outcome
type Result struct {
	Kind    EventKind
	Session *session.Session
	Outcome *game.Outcome
}

// GameService связывает стор партий и движок результата
type GameService struct {
	store   *session.Store
	engine  *game.Engine
	metrics *metrics.Metrics
	log     *slog.Logger
}

// создает игровой сервис
func NewGameService(store *session.Store, engine *game.Engine, m *metrics.Metrics) *GameService {
	if m == nil {
		m = metrics.New(nil)
	}
	return &GameService{
		store:   store,
		engine:  engine,
		metrics: m,
		log:     logger.With("component", "game_service"),
	}
}

// Start создает вызов от инициатора
func (s *GameService) Start(ctx context.Context, sessionID string, user User, choice string) (session.Session, error) {
	if err := ctx.Err(); err != nil {
		return session.Session{}, err
	}

	if err := s.engine.Validate(choice); err != nil {
		s.fail("start", sessionID, err)
		return session.Session{}, err
	}

	sess, err := s.store.Create(sessionID, game.Player{UserID: user.ID, Name: user.Name, Choice: choice})
	if err != nil {
		s.fail("start", sessionID, err)
		return session.Session{}, fmt.Errorf("start session %s: %w", sessionID, err)
	}

	s.metrics.SessionsCreated.Inc()
	s.log.Info("session created", "session_id", sessionID, "user_id", user.ID)
	return sess, nil
}

// Join второй игрок принимает вызов, партия разыгрывается и удаляется
func (s *GameService) Join(ctx context.Context, sessionID string, user User, choice string) (game.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return game.Outcome{}, err
	}

	out, err := s.store.Resolve(sessionID, game.Player{UserID: user.ID, Name: user.Name, Choice: choice}, s.engine)
	if err != nil {
		s.fail("join", sessionID, err)
		return game.Outcome{}, fmt.Errorf("join session %s: %w", sessionID, err)
	}

	label := "win"
	winner := ""
	if out.IsTie() {
		label = "tie"
	} else {
		winner = *out.WinnerUserID
	}
	s.metrics.SessionsResolved.WithLabelValues(label).Inc()
	s.log.Info("session resolved", "session_id", sessionID, "user_id", user.ID, "outcome", label, "winner", winner)
	return out, nil
}

// Handle разбирает событие по виду. Неизвестный вид всегда ошибка.
func (s *GameService) Handle(ctx context.Context, ev Event) (Result, error) {
	switch ev.Kind {
	case EventStart:
		sess, err := s.Start(ctx, ev.SessionID, ev.User, ev.Choice)
		if err != nil {
			return Result{}, err
		}
		return Result{Kind: EventStart, Session: &sess}, nil
	case EventJoin:
		out, err := s.Join(ctx, ev.SessionID, ev.User, ev.Choice)
		if err != nil {
			return Result{}, err
		}
		return Result{Kind: EventJoin, Outcome: &out}, nil
	default:
		err := fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Kind)
		s.fail("handle", ev.SessionID, err)
		return Result{}, err
	}
}

// Options варианты в случайном порядке для показа пользователю
func (s *GameService) Options() []game.Option {
	return s.engine.Catalog().ShuffledOptions()
}

func (s *GameService) Catalog() *game.Catalog {
	return s.engine.Catalog()
}

// RunJanitor чистит просроченные вызовы, если в сторе задан TTL
func (s *GameService) RunJanitor(ctx context.Context, interval time.Duration) {
	s.store.RunJanitor(ctx, interval, func(n int) {
		s.metrics.SessionsEvicted.Add(float64(n))
		s.log.Info("expired sessions evicted", "count", n)
	})
}

func (s *GameService) fail(op, sessionID string, err error) {
	kind := ErrorKind(err)
	s.metrics.Errors.WithLabelValues(kind).Inc()
	s.log.Warn("game operation failed", "op", op, "session_id", sessionID, "kind", kind, "error", err)
}

// ErrorKind короткое имя класса ошибки для метрик и логов
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, session.ErrDuplicateSession):
		return "duplicate_session"
	case errors.Is(err, session.ErrSessionNotFound):
		return "session_not_found"
	case errors.Is(err, session.ErrInvalidSession):
		return "invalid_session"
	case errors.Is(err, game.ErrUnknownOption):
		return "unknown_option"
	case errors.Is(err, ErrUnknownEvent):
		return "unknown_event"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "internal"
	}
}
