// Package session implements the typing test state machine.
//
// A Session owns the target text, the cursor, and a position-indexed
// keystroke log. All transitions are synchronous; the only deferred work is
// the time-limit task, which is armed on the first keystroke of a timed test
// and canceled on completion, reset, or Close. Completion via the time limit
// is terminal. Completion by reaching the end of the text can be undone with
// Backspace or BackspaceWord.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pbardea/monkeydo/internal/generator"
	"github.com/pbardea/monkeydo/internal/model"
)

// Phase is the lifecycle state of a session.
type Phase int

// Lifecycle phases.
const (
	PhaseIdle Phase = iota
	PhaseTyping
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseTyping:
		return "typing"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// TextGenerator produces the target text for a configuration.
type TextGenerator interface {
	Generate(cfg model.Config, pool []string) string
}

// Result is the finalized data handed to the completion callback.
type Result struct {
	ID         string
	Keystrokes []model.Keystroke
	StartTime  time.Time
	EndTime    time.Time
	TimedOut   bool
}

// State is a read-only snapshot of a session.
type State struct {
	ID           string
	Text         string
	Lines        [2]string
	CurrentIndex int
	Keystrokes   *Log
	StartTime    time.Time
	EndTime      time.Time
	IsStarted    bool
	IsComplete   bool
	TimedOut     bool
	Phase        Phase
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the time source.
func WithClock(c Clock) Option {
	return func(s *Session) { s.clock = c }
}

// WithScheduler overrides the scheduler used for the time limit.
func WithScheduler(sched Scheduler) Option {
	return func(s *Session) { s.sched = sched }
}

// WithOnComplete registers the completion callback. It is called outside
// the session lock, once per completion.
func WithOnComplete(fn func(Result)) Option {
	return func(s *Session) { s.onComplete = fn }
}

// WithLogger sets the session logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Session) { s.log = log }
}

// Session is a single typing test.
type Session struct {
	mu sync.Mutex

	gen        TextGenerator
	clock      Clock
	sched      Scheduler
	onComplete func(Result)
	log        *zap.Logger

	cfg  model.Config
	pool []string
	// next holds a config set mid-test; it takes effect on reset.
	next *model.Config

	id        string
	text      []rune
	lines     [2]string
	index     int
	keys      *Log
	startTime time.Time
	endTime   time.Time
	started   bool
	complete  bool
	timedOut  bool

	timer      Task
	generation uint64
}

// New creates an idle session with freshly generated text.
func New(cfg model.Config, pool []string, gen TextGenerator, opts ...Option) *Session {
	s := &Session{
		gen:   gen,
		clock: time.Now,
		sched: SystemScheduler(),
		log:   zap.NewNop(),
		cfg:   cfg,
		pool:  pool,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mu.Lock()
	s.resetLocked()
	s.mu.Unlock()
	return s
}

// Type handles one typed character, including space.
func (s *Session) Type(r rune) {
	s.mu.Lock()
	res, done := s.typeLocked(r)
	s.mu.Unlock()
	if done {
		s.notify(res)
	}
}

func (s *Session) typeLocked(r rune) (Result, bool) {
	if s.complete || len(s.text) == 0 {
		return Result{}, false
	}
	now := s.clock()
	if !s.started {
		s.started = true
		s.startTime = now
		if s.cfg.Timed() {
			s.armLocked(s.cfg.TimeLimitDuration())
		}
	}

	if r == ' ' {
		return s.spaceLocked(now)
	}

	expected := s.text[s.index]
	s.keys.Set(s.index, model.Keystroke{Timestamp: now, Char: r, Correct: r == expected})
	s.index++
	if s.index >= len(s.text) {
		return s.completeLocked(now, false), true
	}
	return Result{}, false
}

func (s *Session) spaceLocked(now time.Time) (Result, bool) {
	n := len(s.text)
	atBoundary := s.text[s.index] == ' ' || (s.index > 0 && s.text[s.index-1] == ' ')
	if atBoundary {
		skip := s.index
		for skip < n && s.text[skip] == ' ' {
			skip++
		}
		if skip < n {
			s.index = skip
		}
		return Result{}, false
	}

	// Mid-word: give up on the rest of the word.
	jump := s.index
	for jump < n && s.text[jump] != ' ' {
		s.keys.Set(jump, model.Keystroke{Timestamp: now, Char: s.text[jump], Skipped: true})
		jump++
	}
	if jump < n {
		s.keys.Set(jump, model.Keystroke{Timestamp: now, Char: ' ', Correct: true})
		jump++
	}
	s.index = jump
	if s.index >= n {
		return s.completeLocked(now, false), true
	}
	return Result{}, false
}

// Backspace moves the cursor back one position and marks it corrected.
func (s *Session) Backspace() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.canRewindLocked() {
		return
	}
	s.index--
	s.keys.MarkCorrected(s.index)
	s.reopenLocked()
}

// BackspaceWord moves the cursor to the start of the current or previous
// word and marks every passed position corrected.
func (s *Session) BackspaceWord() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.canRewindLocked() {
		return
	}
	idx := s.index
	if s.text[idx-1] == ' ' {
		idx--
	}
	for idx > 0 && s.text[idx-1] != ' ' {
		idx--
	}
	for i := idx; i < s.index; i++ {
		s.keys.MarkCorrected(i)
	}
	s.index = idx
	s.reopenLocked()
}

func (s *Session) canRewindLocked() bool {
	if s.index == 0 {
		return false
	}
	if s.complete && s.timedOut {
		return false
	}
	if s.complete && s.cfg.Timed() && s.remainingLocked() <= 0 {
		return false
	}
	return true
}

// reopenLocked returns a completed session to typing and re-arms the
// remaining time of a timed test.
func (s *Session) reopenLocked() {
	if !s.complete {
		return
	}
	s.complete = false
	s.endTime = time.Time{}
	if s.cfg.Timed() {
		s.armLocked(s.remainingLocked())
	}
	s.log.Debug("session reopened", zap.String("id", s.id), zap.Int("index", s.index))
}

func (s *Session) remainingLocked() time.Duration {
	return s.cfg.TimeLimitDuration() - s.clock().Sub(s.startTime)
}

// Reset cancels any pending time limit and starts over with new text.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

// Close cancels any pending time limit. The session stays readable.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelTimerLocked()
}

// SetConfig replaces the configuration and regenerates the text when typing
// has not started, reporting whether it did. A test in progress keeps its
// configuration; the new one applies from the next reset.
func (s *Session) SetConfig(cfg model.Config) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		s.next = &cfg
		return false
	}
	s.cfg = cfg
	s.next = nil
	s.resetLocked()
	return true
}

// SetPool replaces the word pool, regenerating idle text like SetConfig.
// The pool is only read when text is generated.
func (s *Session) SetPool(pool []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pool = pool
	if s.started {
		return false
	}
	s.resetLocked()
	return true
}

// Config returns the configuration of the current test.
func (s *Session) Config() model.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Remaining returns the time left in a started timed test.
func (s *Session) Remaining() (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.cfg.Timed() {
		return 0, false
	}
	if !s.started {
		return s.cfg.TimeLimitDuration(), true
	}
	if s.complete {
		return 0, true
	}
	rem := s.remainingLocked()
	if rem < 0 {
		rem = 0
	}
	return rem, true
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		ID:           s.id,
		Text:         string(s.text),
		Lines:        s.lines,
		CurrentIndex: s.index,
		Keystrokes:   s.keys.Clone(),
		StartTime:    s.startTime,
		EndTime:      s.endTime,
		IsStarted:    s.started,
		IsComplete:   s.complete,
		TimedOut:     s.timedOut,
		Phase:        s.phaseLocked(),
	}
}

func (s *Session) phaseLocked() Phase {
	switch {
	case s.complete:
		return PhaseComplete
	case s.started:
		return PhaseTyping
	default:
		return PhaseIdle
	}
}

func (s *Session) resetLocked() {
	s.cancelTimerLocked()
	if s.next != nil {
		s.cfg = *s.next
		s.next = nil
	}
	text := s.gen.Generate(s.cfg, s.pool)
	s.id = uuid.NewString()
	s.text = []rune(text)
	s.lines = generator.SplitIntoLines(text, generator.DefaultCharsPerLine)
	s.index = 0
	s.keys = NewLog(len(s.text))
	s.startTime = time.Time{}
	s.endTime = time.Time{}
	s.started = false
	s.complete = false
	s.timedOut = false
	s.log.Debug("session reset", zap.String("id", s.id), zap.Int("chars", len(s.text)))
}

func (s *Session) completeLocked(now time.Time, timedOut bool) Result {
	s.cancelTimerLocked()
	s.complete = true
	s.timedOut = timedOut
	s.endTime = now
	return Result{
		ID:         s.id,
		Keystrokes: s.keys.Records(),
		StartTime:  s.startTime,
		EndTime:    s.endTime,
		TimedOut:   timedOut,
	}
}

func (s *Session) armLocked(d time.Duration) {
	s.cancelTimerLocked()
	gen := s.generation
	s.timer = s.sched.AfterFunc(d, func() { s.expire(gen) })
}

func (s *Session) cancelTimerLocked() {
	if s.timer != nil {
		s.timer.Cancel()
		s.timer = nil
	}
	s.generation++
}

func (s *Session) expire(gen uint64) {
	s.mu.Lock()
	if gen != s.generation || s.complete || !s.started {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	res := s.completeLocked(s.clock(), true)
	s.mu.Unlock()
	s.notify(res)
}

func (s *Session) notify(res Result) {
	s.log.Info("session complete",
		zap.String("id", res.ID),
		zap.Duration("elapsed", res.EndTime.Sub(res.StartTime)),
		zap.Int("keystrokes", len(res.Keystrokes)),
		zap.Bool("timed_out", res.TimedOut),
	)
	if s.onComplete != nil {
		s.onComplete(res)
	}
}
