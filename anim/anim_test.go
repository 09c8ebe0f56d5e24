package anim_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"github.com/eringen/contentflow/anim"
	"github.com/eringen/contentflow/anim/animtest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// recorder is a Target logging every cue it receives.
type recorder struct {
	log []string
}

func (r *recorder) Reset()                    { r.log = append(r.log, "reset") }
func (r *recorder) Begin()                    { r.log = append(r.log, "begin") }
func (r *recorder) Enter(i int, s anim.State) { r.log = append(r.log, fmt.Sprintf("%d:%s", i, s)) }
func (r *recorder) Reveal(name string)        { r.log = append(r.log, "reveal:"+name) }
func (r *recorder) Finish()                   { r.log = append(r.log, "finish") }

func (r *recorder) take() []string {
	l := r.log
	r.log = nil
	return l
}

var solution = anim.Script{
	Steps: []anim.Step{
		{Name: "a", Run: 300 * time.Millisecond},
		{Name: "b", Run: 300 * time.Millisecond},
	},
	Lead: 200 * time.Millisecond,
	Gap:  400 * time.Millisecond,
	Tail: 200 * time.Millisecond,
	Hold: 3000 * time.Millisecond,
	Loop: true,
}

func TestTimeline(t *testing.T) {
	got := solution.Timeline()
	var ms []int64
	for _, c := range got {
		ms = append(ms, c.T)
	}
	want := []int64{200, 500, 900, 1200, 1800, 4600}
	if diff := cmp.Diff(want, ms); diff != "" {
		t.Fatalf("cue times (-want +got):\n%s", diff)
	}
	if got[len(got)-1].Kind != anim.CueLoop {
		t.Errorf("last cue = %q, want loop", got[len(got)-1].Kind)
	}
}

func TestSequencerRunsWhenVisible(t *testing.T) {
	clock := animtest.NewClock()
	ctl := anim.NewController(clock)
	rec := &recorder{}
	seq := anim.NewSequencer(ctl, solution, rec)
	defer seq.Close()

	clock.Advance(time.Second)
	if len(rec.log) != 0 {
		t.Fatalf("hidden sequencer ran: %v", rec.log)
	}

	seq.SetVisible(true)
	clock.Advance(1800 * time.Millisecond)
	want := []string{"reset", "begin", "0:running", "0:done", "1:running", "1:done", "finish"}
	if diff := cmp.Diff(want, rec.take()); diff != "" {
		t.Fatalf("cues (-want +got):\n%s", diff)
	}

	clock.Advance(2800 * time.Millisecond)
	if got := rec.take(); len(got) == 0 || got[0] != "reset" {
		t.Fatalf("loop did not restart: %v", got)
	}
	if seq.Runs() != 2 {
		t.Errorf("runs = %d, want 2", seq.Runs())
	}
}

func TestSequencerHiddenCancels(t *testing.T) {
	clock := animtest.NewClock()
	ctl := anim.NewController(clock)
	rec := &recorder{}
	seq := anim.NewSequencer(ctl, solution, rec)
	defer seq.Close()

	seq.SetVisible(true)
	clock.Advance(300 * time.Millisecond)
	seq.SetVisible(false)
	rec.take()
	if ctl.Pending() != 0 {
		t.Fatalf("pending after hide = %d", ctl.Pending())
	}
	clock.Advance(10 * time.Second)
	if len(rec.log) != 0 {
		t.Fatalf("cues after hide: %v", rec.log)
	}
}

func TestPauseSuppressesAndResumeRestartsOnce(t *testing.T) {
	clock := animtest.NewClock()
	ctl := anim.NewController(clock)
	a, b, hidden := &recorder{}, &recorder{}, &recorder{}
	sa := anim.NewSequencer(ctl, solution, a)
	sb := anim.NewSequencer(ctl, solution, b)
	sh := anim.NewSequencer(ctl, solution, hidden)
	defer sa.Close()
	defer sb.Close()
	defer sh.Close()

	sa.SetVisible(true)
	sb.SetVisible(true)
	clock.Advance(250 * time.Millisecond)

	if !ctl.Toggle() {
		t.Fatal("Toggle should report paused")
	}
	if ctl.Pending() != 0 {
		t.Fatalf("pending after pause = %d", ctl.Pending())
	}
	a.take()
	b.take()
	clock.Advance(20 * time.Second)
	if len(a.log)+len(b.log) != 0 {
		t.Fatalf("callbacks ran while paused: %v %v", a.log, b.log)
	}

	runsA, runsB := sa.Runs(), sb.Runs()
	if ctl.Toggle() {
		t.Fatal("Toggle should report resumed")
	}
	if sa.Runs() != runsA+1 || sb.Runs() != runsB+1 {
		t.Errorf("runs after resume = %d,%d want %d,%d", sa.Runs(), sb.Runs(), runsA+1, runsB+1)
	}
	if sh.Runs() != 0 {
		t.Errorf("hidden sequencer started on resume")
	}
	want := len(solution.Timeline()) * 2
	if ctl.Pending() != want {
		t.Errorf("pending after resume = %d, want %d", ctl.Pending(), want)
	}
}

func TestReplayWhilePausedFiresNothing(t *testing.T) {
	clock := animtest.NewClock()
	ctl := anim.NewController(clock)
	rec := &recorder{}
	seq := anim.NewSequencer(ctl, solution, rec)
	defer seq.Close()

	ctl.Pause()
	seq.Replay()
	rec.take()
	clock.Advance(10 * time.Second)
	if len(rec.log) != 0 {
		t.Fatalf("cues while paused: %v", rec.log)
	}
}

func TestCancelSingleHandle(t *testing.T) {
	clock := animtest.NewClock()
	ctl := anim.NewController(clock)
	var fired []int
	h1 := ctl.Schedule(time.Second, func() { fired = append(fired, 1) })
	ctl.Schedule(time.Second, func() { fired = append(fired, 2) })

	if !ctl.Cancel(h1) {
		t.Fatal("Cancel reported not pending")
	}
	if ctl.Cancel(h1) {
		t.Fatal("second Cancel reported pending")
	}
	clock.Advance(time.Second)
	if diff := cmp.Diff([]int{2}, fired); diff != "" {
		t.Fatalf("fired (-want +got):\n%s", diff)
	}
	if ctl.Pending() != 0 {
		t.Errorf("fired handle still registered")
	}
}

func TestCycler(t *testing.T) {
	clock := animtest.NewClock()
	ctl := anim.NewController(clock)
	var shown []int
	c := anim.NewCycler(ctl, 3, 4*time.Second, func(i int) { shown = append(shown, i) })
	defer c.Close()

	clock.Advance(8 * time.Second)
	if len(shown) != 0 {
		t.Fatalf("hidden cycler advanced: %v", shown)
	}
	c.SetVisible(true)
	clock.Advance(12 * time.Second)
	if diff := cmp.Diff([]int{1, 2, 0}, shown); diff != "" {
		t.Fatalf("shown (-want +got):\n%s", diff)
	}

	c.Select(2)
	clock.Advance(20 * time.Second)
	if c.Index() != 2 || !c.Manual() {
		t.Fatalf("index = %d manual = %v", c.Index(), c.Manual())
	}
	if shown[len(shown)-1] != 2 || len(shown) != 4 {
		t.Errorf("auto-advance continued after manual selection: %v", shown)
	}
}

func TestCountdown(t *testing.T) {
	clock := animtest.NewClock()
	var readings []string
	expired := 0
	cd := anim.NewCountdown(clock, 3, func(tk anim.Tick) {
		readings = append(readings, tk.String())
	}, func() { expired++ })

	cd.Start()
	cd.Start()
	clock.Advance(10 * time.Second)

	want := []string{"00:03", "00:02", "00:01", "00:00"}
	if diff := cmp.Diff(want, readings); diff != "" {
		t.Fatalf("readings (-want +got):\n%s", diff)
	}
	if expired != 1 || !cd.Expired() {
		t.Errorf("expired %d times", expired)
	}
	if clock.Pending() != 0 {
		t.Errorf("countdown left %d timers", clock.Pending())
	}
}

func TestCountdownIgnoresPause(t *testing.T) {
	clock := animtest.NewClock()
	ctl := anim.NewController(clock)
	ticks := 0
	cd := anim.NewCountdown(clock, 5, func(anim.Tick) { ticks++ }, nil)
	cd.Start()
	ctl.Pause()
	clock.Advance(2 * time.Second)
	if ticks != 3 {
		t.Fatalf("ticks = %d, want 3", ticks)
	}
	cd.Stop()
	clock.Advance(10 * time.Second)
	if ticks != 3 {
		t.Errorf("ticked after Stop: %d", ticks)
	}
}

func TestTickLevels(t *testing.T) {
	tests := []struct {
		remaining int
		want      string
		text      string
	}{
		{900, anim.LevelNormal, "15:00"},
		{61, anim.LevelNormal, "01:01"},
		{60, anim.LevelLow, "01:00"},
		{31, anim.LevelLow, "00:31"},
		{30, anim.LevelCritical, "00:30"},
		{0, anim.LevelCritical, "00:00"},
	}
	for _, tt := range tests {
		tk := anim.Tick{Remaining: tt.remaining, Total: 900}
		if tk.Level() != tt.want || tk.String() != tt.text {
			t.Errorf("Tick(%d) = %q %q, want %q %q", tt.remaining, tk.Level(), tk.String(), tt.want, tt.text)
		}
	}
	if p := (anim.Tick{Remaining: 450, Total: 900}).Percent(); p != 50 {
		t.Errorf("Percent = %v, want 50", p)
	}
}

func TestRealClockStops(t *testing.T) {
	ctl := anim.NewController(anim.RealClock())
	done := make(chan struct{})
	ctl.Schedule(time.Millisecond, func() { close(done) })
	ctl.Schedule(time.Hour, func() {})
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("callback did not fire")
	}
	ctl.CancelAll()
	if ctl.Pending() != 0 {
		t.Errorf("pending = %d", ctl.Pending())
	}
}
