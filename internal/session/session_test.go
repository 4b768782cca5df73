package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/pbardea/monkeydo/internal/model"
)

type fixedText struct {
	texts []string
	calls int
}

func (f *fixedText) Generate(model.Config, []string) string {
	t := f.texts[f.calls%len(f.texts)]
	f.calls++
	return t
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fakeTask struct {
	d        time.Duration
	f        func()
	canceled bool
}

func (t *fakeTask) Cancel() { t.canceled = true }

type fakeScheduler struct {
	tasks []*fakeTask
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Task {
	t := &fakeTask{d: d, f: f}
	s.tasks = append(s.tasks, t)
	return t
}

func (s *fakeScheduler) live() []*fakeTask {
	var out []*fakeTask
	for _, t := range s.tasks {
		if !t.canceled {
			out = append(out, t)
		}
	}
	return out
}

type harness struct {
	s       *Session
	clock   *fakeClock
	sched   *fakeScheduler
	results []Result
}

func newHarness(t *testing.T, cfg model.Config, texts ...string) *harness {
	t.Helper()
	h := &harness{
		clock: &fakeClock{now: time.Unix(1000, 0)},
		sched: &fakeScheduler{},
	}
	h.s = New(cfg, nil, &fixedText{texts: texts},
		WithClock(h.clock.Now),
		WithScheduler(h.sched),
		WithOnComplete(func(r Result) { h.results = append(h.results, r) }),
	)
	return h
}

func (h *harness) typeString(s string) {
	for _, r := range s {
		h.s.Type(r)
	}
}

func timedConfig(seconds int) model.Config {
	cfg := model.DefaultConfig()
	cfg.LengthMode = model.LengthTime
	cfg.TimeLimit = seconds
	return cfg
}

func TestNewSessionIsIdle(t *testing.T) {
	h := newHarness(t, model.DefaultConfig(), "cat dog")
	st := h.s.State()
	assert.Equal(t, PhaseIdle, st.Phase)
	assert.Equal(t, "cat dog", st.Text)
	assert.Equal(t, [2]string{"cat dog", ""}, st.Lines)
	assert.Zero(t, st.CurrentIndex)
	assert.Zero(t, st.Keystrokes.Count())
	assert.True(t, st.StartTime.IsZero())
	assert.NotEmpty(t, st.ID)
}

func TestTypeRecordsAndCompletes(t *testing.T) {
	h := newHarness(t, model.DefaultConfig(), "test")
	start := h.clock.now

	h.s.Type('t')
	st := h.s.State()
	assert.Equal(t, PhaseTyping, st.Phase)
	assert.Equal(t, start, st.StartTime)

	h.clock.Advance(400 * time.Millisecond)
	h.s.Type('x')
	h.clock.Advance(400 * time.Millisecond)
	h.s.Type('s')
	h.clock.Advance(400 * time.Millisecond)
	h.s.Type('t')

	st = h.s.State()
	assert.Equal(t, PhaseComplete, st.Phase)
	assert.Equal(t, 4, st.CurrentIndex)
	assert.Equal(t, start.Add(1200*time.Millisecond), st.EndTime)

	k, ok := st.Keystrokes.At(1)
	require.True(t, ok)
	assert.Equal(t, 'x', k.Char)
	assert.False(t, k.Correct)

	require.Len(t, h.results, 1)
	assert.Len(t, h.results[0].Keystrokes, 4)
	assert.False(t, h.results[0].TimedOut)
}

func TestTypeIgnoredWhenComplete(t *testing.T) {
	h := newHarness(t, model.DefaultConfig(), "ab")
	h.typeString("abcd")
	assert.Equal(t, 2, h.s.State().CurrentIndex)
	assert.Len(t, h.results, 1)
}

func TestSpaceAtBoundarySkipsWithoutRecord(t *testing.T) {
	h := newHarness(t, model.DefaultConfig(), "cat  dog")
	h.typeString("cat")
	require.Equal(t, 3, h.s.State().CurrentIndex)

	h.s.Type(' ')
	st := h.s.State()
	assert.Equal(t, 5, st.CurrentIndex, "cursor passes every consecutive space")
	assert.Equal(t, 3, st.Keystrokes.Count(), "no keystroke recorded for the space")

	// A second space at the start of a word is ignored too.
	h.s.Type(' ')
	assert.Equal(t, 5, h.s.State().CurrentIndex)
	assert.Equal(t, 3, h.s.State().Keystrokes.Count())
}

func TestSpaceMidWordSkipsWord(t *testing.T) {
	h := newHarness(t, model.DefaultConfig(), "cat dog")
	h.s.Type('c')
	h.s.Type(' ')

	st := h.s.State()
	assert.Equal(t, 4, st.CurrentIndex)
	for _, i := range []int{1, 2} {
		k, ok := st.Keystrokes.At(i)
		require.True(t, ok)
		assert.True(t, k.Skipped)
		assert.False(t, k.Correct)
		assert.Equal(t, []rune("cat")[i], k.Char)
	}
	sp, ok := st.Keystrokes.At(3)
	require.True(t, ok)
	assert.True(t, sp.Correct)
	assert.False(t, sp.Skipped)
	assert.Equal(t, ' ', sp.Char)
}

func TestSpaceOnLastWordCompletes(t *testing.T) {
	h := newHarness(t, model.DefaultConfig(), "cat dog")
	h.typeString("cat d ")
	st := h.s.State()
	assert.True(t, st.IsComplete)
	assert.Equal(t, 7, st.CurrentIndex)
	require.Len(t, h.results, 1)
	assert.Len(t, h.results[0].Keystrokes, 6, "space position 3 was skipped over without a record")
}

func TestBackspaceAtZeroIsNoop(t *testing.T) {
	h := newHarness(t, model.DefaultConfig(), "cat")
	before := h.s.State()
	h.s.Backspace()
	h.s.BackspaceWord()
	after := h.s.State()
	assert.Equal(t, before.CurrentIndex, after.CurrentIndex)
	assert.Equal(t, before.Phase, after.Phase)
	assert.Zero(t, after.Keystrokes.Count())
}

func TestBackspaceMarksCorrectedAndRetypeOverwrites(t *testing.T) {
	h := newHarness(t, model.DefaultConfig(), "cat")
	h.typeString("cx")
	h.s.Backspace()

	st := h.s.State()
	assert.Equal(t, 1, st.CurrentIndex)
	k, ok := st.Keystrokes.At(1)
	require.True(t, ok)
	assert.True(t, k.Corrected)
	assert.False(t, k.Correct)
	assert.Equal(t, 'x', k.Char, "original entry kept for audit")

	h.s.Type('a')
	k, _ = h.s.State().Keystrokes.At(1)
	assert.True(t, k.Correct)
	assert.False(t, k.Corrected)
}

func TestBackspaceReopensExhaustedSession(t *testing.T) {
	h := newHarness(t, model.DefaultConfig(), "ab")
	h.typeString("ab")
	require.True(t, h.s.State().IsComplete)

	h.s.Backspace()
	st := h.s.State()
	assert.Equal(t, PhaseTyping, st.Phase)
	assert.Equal(t, 1, st.CurrentIndex)
	assert.True(t, st.EndTime.IsZero())

	h.s.Type('b')
	assert.True(t, h.s.State().IsComplete)
	assert.Len(t, h.results, 2, "each completion notifies once")
}

func TestBackspaceWord(t *testing.T) {
	h := newHarness(t, model.DefaultConfig(), "one two three")
	h.typeString("one tw")
	h.s.BackspaceWord()
	st := h.s.State()
	assert.Equal(t, 4, st.CurrentIndex)
	for _, i := range []int{4, 5} {
		k, ok := st.Keystrokes.At(i)
		require.True(t, ok)
		assert.True(t, k.Corrected)
	}
	k, _ := st.Keystrokes.At(2)
	assert.False(t, k.Corrected)

	// Right after a space: skip it, then the whole previous word.
	h.s.BackspaceWord()
	st = h.s.State()
	assert.Equal(t, 0, st.CurrentIndex)
	for _, i := range []int{0, 1, 2} {
		k, _ := st.Keystrokes.At(i)
		assert.True(t, k.Corrected)
	}
}

func TestBackspaceWordReopensCompletedSession(t *testing.T) {
	h := newHarness(t, model.DefaultConfig(), "ab cd")
	h.typeString("ab cd")
	require.True(t, h.s.State().IsComplete)
	h.s.BackspaceWord()
	st := h.s.State()
	assert.Equal(t, PhaseTyping, st.Phase)
	assert.Equal(t, 3, st.CurrentIndex)
}

func TestTimeLimitArmedOnFirstKeystroke(t *testing.T) {
	h := newHarness(t, timedConfig(30), "some words to type")
	assert.Empty(t, h.sched.tasks)

	h.s.Type('s')
	require.Len(t, h.sched.tasks, 1)
	assert.Equal(t, 30*time.Second, h.sched.tasks[0].d)

	h.s.Type('o')
	assert.Len(t, h.sched.tasks, 1, "only the first keystroke arms the timer")

	h.clock.Advance(30 * time.Second)
	h.sched.tasks[0].f()

	st := h.s.State()
	assert.True(t, st.IsComplete)
	assert.True(t, st.TimedOut)
	assert.Equal(t, 2, st.CurrentIndex, "timeout may end before the text does")
	assert.Equal(t, h.clock.now, st.EndTime)
	require.Len(t, h.results, 1)
	assert.True(t, h.results[0].TimedOut)
}

func TestTimeoutCompletionIsTerminal(t *testing.T) {
	h := newHarness(t, timedConfig(15), "abc def")
	h.typeString("ab")
	h.sched.tasks[0].f()

	h.s.Backspace()
	h.s.BackspaceWord()
	h.s.Type('c')
	st := h.s.State()
	assert.True(t, st.IsComplete)
	assert.Equal(t, 2, st.CurrentIndex)
	assert.Len(t, h.results, 1)
}

func TestCompletionCancelsTimer(t *testing.T) {
	h := newHarness(t, timedConfig(60), "ab")
	h.typeString("ab")
	require.Len(t, h.sched.tasks, 1)
	assert.True(t, h.sched.tasks[0].canceled)

	// A stale fire after completion must not complete again.
	h.sched.tasks[0].f()
	assert.Len(t, h.results, 1)
	assert.False(t, h.s.State().TimedOut)
}

func TestReopenTimedSessionRearmsRemaining(t *testing.T) {
	h := newHarness(t, timedConfig(60), "ab")
	h.s.Type('a')
	h.clock.Advance(20 * time.Second)
	h.s.Type('b')
	require.True(t, h.s.State().IsComplete)

	h.s.Backspace()
	live := h.sched.live()
	require.Len(t, live, 1, "never more than one live task")
	assert.Equal(t, 40*time.Second, live[0].d)
}

func TestReopenTimedSessionAfterDeadlineIsIgnored(t *testing.T) {
	h := newHarness(t, timedConfig(10), "ab")
	h.s.Type('a')
	h.clock.Advance(9 * time.Second)
	h.s.Type('b')
	h.clock.Advance(2 * time.Second)

	h.s.Backspace()
	assert.True(t, h.s.State().IsComplete)
	assert.Empty(t, h.sched.live())
}

func TestResetCancelsTimerAndClearsState(t *testing.T) {
	h := newHarness(t, timedConfig(30), "first text", "second text", "third text")
	h.typeString("fir")
	task := h.sched.tasks[0]
	oldID := h.s.State().ID

	h.s.Reset()
	assert.True(t, task.canceled)
	task.f() // stale fire against a superseded session
	st := h.s.State()
	assert.Equal(t, PhaseIdle, st.Phase)
	assert.Equal(t, "second text", st.Text)
	assert.Zero(t, st.CurrentIndex)
	assert.Zero(t, st.Keystrokes.Count())
	assert.True(t, st.StartTime.IsZero())
	assert.True(t, st.EndTime.IsZero())
	assert.NotEqual(t, oldID, st.ID)
	assert.Empty(t, h.results)

	h.s.Reset()
	st2 := h.s.State()
	assert.Equal(t, PhaseIdle, st2.Phase)
	assert.Equal(t, "third text", st2.Text)
	assert.Zero(t, st2.Keystrokes.Count())
	assert.Empty(t, h.sched.live())
}

func TestCloseCancelsTimer(t *testing.T) {
	h := newHarness(t, timedConfig(30), "abc")
	h.s.Type('a')
	h.s.Close()
	assert.Empty(t, h.sched.live())
	h.sched.tasks[0].f()
	assert.False(t, h.s.State().IsComplete)
}

func TestSetConfigRegeneratesOnlyWhenIdle(t *testing.T) {
	h := newHarness(t, model.DefaultConfig(), "one", "two", "three")
	cfg := model.DefaultConfig()
	cfg.WordCount = 10
	assert.True(t, h.s.SetConfig(cfg))
	assert.Equal(t, "two", h.s.State().Text)

	h.s.Type('t')
	assert.False(t, h.s.SetConfig(model.DefaultConfig()))
	assert.Equal(t, "two", h.s.State().Text)
	assert.Equal(t, cfg, h.s.Config(), "the running test keeps its config")

	h.s.Reset()
	assert.Equal(t, model.DefaultConfig(), h.s.Config())
	assert.Equal(t, "three", h.s.State().Text)

	assert.False(t, h.s.SetPool([]string{"x"}))
	h.s.Reset()
	assert.True(t, h.s.SetPool([]string{"x"}))
}

func TestSetConfigMidTestDoesNotAffectRunningTest(t *testing.T) {
	h := newHarness(t, model.DefaultConfig(), "ab cd")
	h.s.Type('a')

	timed := model.DefaultConfig()
	timed.LengthMode = model.LengthTime
	timed.TimeLimit = 15
	assert.False(t, h.s.SetConfig(timed))

	_, ok := h.s.Remaining()
	assert.False(t, ok, "untimed test stays untimed")
	assert.Empty(t, h.sched.live())

	for _, r := range "b cd" {
		h.s.Type(r)
	}
	require.True(t, h.s.State().IsComplete)
	h.s.Backspace()
	assert.False(t, h.s.State().IsComplete, "reopen follows the running config")
	assert.Empty(t, h.sched.live())

	h.s.Reset()
	assert.Equal(t, timed, h.s.Config())
	h.s.Type('a')
	assert.Len(t, h.sched.live(), 1)
}

func TestEmptyTextIgnoresInput(t *testing.T) {
	h := newHarness(t, model.DefaultConfig(), "")
	h.s.Type('a')
	h.s.Type(' ')
	st := h.s.State()
	assert.Equal(t, PhaseIdle, st.Phase)
	assert.Empty(t, h.results)
}

func TestRemaining(t *testing.T) {
	h := newHarness(t, timedConfig(30), "abc")
	rem, ok := h.s.Remaining()
	require.True(t, ok)
	assert.Equal(t, 30*time.Second, rem)

	h.s.Type('a')
	h.clock.Advance(12 * time.Second)
	rem, _ = h.s.Remaining()
	assert.Equal(t, 18*time.Second, rem)

	_, ok = newHarness(t, model.DefaultConfig(), "abc").s.Remaining()
	assert.False(t, ok)
}

func TestCursorInvariants(t *testing.T) {
	h := newHarness(t, model.DefaultConfig(), "ab cd ef")
	ops := []func(){
		func() { h.s.Type('a') }, func() { h.s.Type(' ') }, func() { h.s.Backspace() },
		func() { h.s.Type('x') }, func() { h.s.BackspaceWord() }, func() { h.s.Type(' ') },
		func() { h.s.Type(' ') }, func() { h.s.Type('c') }, func() { h.s.Type('d') },
		func() { h.s.Type(' ') }, func() { h.s.Type('e') }, func() { h.s.Type(' ') },
	}
	for _, op := range ops {
		op()
		st := h.s.State()
		assert.GreaterOrEqual(t, st.CurrentIndex, 0)
		assert.LessOrEqual(t, st.CurrentIndex, len([]rune(st.Text)))
		if st.IsComplete && !st.TimedOut {
			assert.Equal(t, len([]rune(st.Text)), st.CurrentIndex)
		}
	}
	assert.True(t, h.s.State().IsComplete)
}

func TestSystemSchedulerTimeout(t *testing.T) {
	defer goleak.VerifyNone(t)

	done := make(chan Result, 1)
	s := New(timedConfig(1), nil, &fixedText{texts: []string{"abc"}},
		WithOnComplete(func(r Result) { done <- r }))
	// Arm a short limit directly instead of waiting a full second.
	s.mu.Lock()
	s.started = true
	s.startTime = time.Now()
	s.armLocked(10 * time.Millisecond)
	s.mu.Unlock()

	select {
	case r := <-done:
		assert.True(t, r.TimedOut)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout never fired")
	}
	assert.True(t, s.State().TimedOut)
}
