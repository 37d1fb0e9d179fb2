package room

import (
	"io"
	rand "math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"pokerroom/internal/engine"
	"pokerroom/internal/randutil"
)

// Config wires a room: the engine table parameters plus the supervisor's
// scheduling knobs.
type Config struct {
	TableID    string
	Engine     engine.Config
	StartDelay time.Duration // wait after min players before the first deal
	RoundDelay time.Duration // wait between rounds
	Seed       int64
}

// Room supervises one table. It owns the authoritative state; every
// mutation happens under one lock, applies as a transactional batch and
// publishes exactly one snapshot.
type Room struct {
	mu     sync.Mutex
	state  engine.State
	rng    *rand.Rand
	clock  quartz.Clock
	logger *log.Logger
	subs   map[*Subscription]struct{}

	cfg Config

	startTimer   *quartz.Timer
	restartTimer *quartz.Timer
	timerGen     int

	corrupt bool
	closed  bool
}

// Option configures how we create a room
type Option func(*Room)

// WithClock injects the clock used for auto-progression delays. Tests pass
// a quartz mock.
func WithClock(clock quartz.Clock) Option {
	return func(r *Room) { r.clock = clock }
}

// WithLogger injects the structured logger.
func WithLogger(logger *log.Logger) Option {
	return func(r *Room) { r.logger = logger }
}

// New creates a room in the waiting state.
func New(cfg Config, opts ...Option) *Room {
	if cfg.Engine.MinPlayers == 0 {
		cfg.Engine.MinPlayers = 2
	}
	r := &Room{
		state:  engine.NewState(cfg.TableID, cfg.Engine),
		rng:    randutil.New(cfg.Seed),
		clock:  quartz.NewReal(),
		logger: log.New(io.Discard),
		subs:   make(map[*Subscription]struct{}),
		cfg:    cfg,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.WithPrefix("room").With("table", cfg.TableID)
	return r
}

// CurrentState returns a read-only snapshot of the authoritative state.
func (r *Room) CurrentState() engine.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Clone()
}

// PlayerView returns the projection of the current state for one player.
func (r *Room) PlayerView(playerID string) (engine.PlayerView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return engine.View(r.state, playerID)
}

// StartGame deals the first round immediately. Only valid while waiting
// with enough players seated.
func (r *Room) StartGame() (engine.State, error) {
	return r.ProcessEvent(engine.SystemEvent{Kind: engine.SystemStart})
}

// Updates subscribes to the snapshot stream. Every committed mutation from
// this point on is delivered in order; the stream ends with a terminal
// snapshot when the room closes.
func (r *Room) Updates() *Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub := newSubscription(r.unsubscribe)
	if r.closed {
		sub.finish()
		return sub
	}
	r.subs[sub] = struct{}{}
	return sub
}

func (r *Room) unsubscribe(sub *Subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.subs, sub)
}

// ProcessEvent validates and applies one event. On success the settled
// state (after any automatic transitions) is committed and published; on
// rejection the state is untouched and the stream stays silent.
func (r *Room) ProcessEvent(ev engine.Event) (engine.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return r.state.Clone(), engine.ErrTableLocked
	}
	if r.corrupt {
		return r.state.Clone(), &engine.InconsistentStateError{Message: "room flagged corrupt"}
	}
	if err := engine.Admit(r.state, ev); err != nil {
		r.logger.Debug("event rejected", "event", ev.EventType(), "error", err)
		return r.state.Clone(), err
	}

	next, err := r.apply(ev)
	if err != nil {
		r.logger.Debug("event rejected", "event", ev.EventType(), "error", err)
		return r.state.Clone(), err
	}
	return r.commit(ev.EventType(), next)
}

// apply dispatches the admitted event to its reducer chain.
func (r *Room) apply(ev engine.Event) (engine.State, error) {
	switch e := ev.(type) {
	case engine.TableEvent:
		if e.Action == engine.TableJoin {
			return engine.JoinTable(r.state, e.PlayerID, e.PlayerName)
		}
		return engine.LeaveTable(r.state, e.PlayerID)

	case engine.MoveEvent:
		next, err := engine.ProcessMove(r.state, e.PlayerID, e.Move)
		if err != nil {
			return r.state, err
		}
		return r.autoProgress(next)

	case engine.SystemEvent:
		switch e.Kind {
		case engine.SystemStart, engine.SystemAutoRestart, engine.SystemNextRound:
			return r.startRound(r.state)
		case engine.SystemEndGame:
			return engine.EndGame(r.state)
		default:
			return r.state, &engine.InconsistentStateError{Message: "unroutable system event"}
		}

	default:
		return r.state, &engine.InconsistentStateError{Message: "unknown event"}
	}
}

// startRound runs the deal / rotate / collect chain and settles any
// immediate consequences (blinds can put the whole table all-in).
func (r *Room) startRound(s engine.State) (engine.State, error) {
	next, err := engine.DealCards(s, r.rng)
	if err != nil {
		return s, err
	}
	if next, err = engine.RotateBlinds(next); err != nil {
		return s, err
	}
	if next, err = engine.CollectBlinds(next); err != nil {
		return s, err
	}
	return r.autoProgress(next)
}

// autoProgress applies automatic transitions until the state settles: run
// out streets while no action is pending, then close the round at
// showdown. One caller event yields one settled state.
func (r *Room) autoProgress(s engine.State) (engine.State, error) {
	for s.Status == engine.TablePlaying && s.CurrentPlayer == -1 {
		var err error
		if s.Phase.Street == engine.Showdown {
			s, err = engine.CloseRound(s)
		} else {
			s, err = engine.TransitionPhase(s)
		}
		if err != nil {
			return s, err
		}
	}
	return s, nil
}

// commit installs the new state, publishes one snapshot and reprograms the
// auto-progression timers. Invariant violations latch the room corrupt
// instead of committing.
func (r *Room) commit(eventType string, next engine.State) (engine.State, error) {
	if err := engine.CheckInvariants(next); err != nil {
		r.corrupt = true
		r.logger.Error("invariant violation, room flagged corrupt", "event", eventType, "error", err)
		return r.state.Clone(), err
	}

	r.state = next
	r.logger.Info("transition committed",
		"event", eventType,
		"status", next.Status,
		"street", next.Phase.Street,
		"round", next.Round.Number,
		"pot", next.Round.Volume,
	)
	r.publish(next)
	r.reschedule()
	return next.Clone(), nil
}

// publish fans the snapshot out to every subscriber.
func (r *Room) publish(s engine.State) {
	for sub := range r.subs {
		sub.publish(s.Clone())
	}
}

// reschedule cancels and re-arms the auto-progression timers to match the
// committed state. Any committed event invalidates previously scheduled
// work: a join during the start delay restarts the countdown.
func (r *Room) reschedule() {
	r.timerGen++
	gen := r.timerGen
	if r.startTimer != nil {
		r.startTimer.Stop()
		r.startTimer = nil
	}
	if r.restartTimer != nil {
		r.restartTimer.Stop()
		r.restartTimer = nil
	}

	switch r.state.Status {
	case engine.TableWaiting:
		if countFunded(r.state) >= r.state.Config.MinPlayers {
			r.logger.Debug("scheduling auto start", "delay", r.cfg.StartDelay)
			r.startTimer = r.clock.AfterFunc(r.cfg.StartDelay, func() {
				r.fire(gen, engine.SystemEvent{Kind: engine.SystemStart})
			}, "auto-start")
		}
	case engine.TableRoundOver:
		r.logger.Debug("scheduling next round", "delay", r.cfg.RoundDelay)
		r.restartTimer = r.clock.AfterFunc(r.cfg.RoundDelay, func() {
			r.fire(gen, engine.SystemEvent{Kind: engine.SystemNextRound})
		}, "auto-restart")
	}
}

// fire applies a scheduled system event, unless a later commit or a close
// invalidated the schedule.
func (r *Room) fire(gen int, ev engine.SystemEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.corrupt || gen != r.timerGen {
		return
	}
	next, err := r.apply(ev)
	if err != nil {
		r.logger.Warn("scheduled event failed", "event", ev.EventType(), "error", err)
		return
	}
	// Violations are logged and latched inside commit.
	_, _ = r.commit(ev.EventType(), next)
}

// Close shuts the room down: pending schedules are cancelled, the stream
// delivers a terminal snapshot and further events are rejected.
func (r *Room) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.timerGen++
	if r.startTimer != nil {
		r.startTimer.Stop()
	}
	if r.restartTimer != nil {
		r.restartTimer.Stop()
	}
	terminal := r.state.Clone()
	for sub := range r.subs {
		sub.publish(terminal)
		sub.finish()
	}
	r.subs = make(map[*Subscription]struct{})
	r.logger.Info("room closed", "round", r.state.Round.Number)
}

func countFunded(s engine.State) int {
	count := 0
	for i := range s.Players {
		if s.Players[i].Status != engine.StatusEliminated && s.Players[i].Chips > 0 {
			count++
		}
	}
	return count
}
