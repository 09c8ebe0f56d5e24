package anim

import "time"

// State is the visual state of a sequenced step.
type State int

const (
	Waiting State = iota
	Running
	Done
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Done:
		return "done"
	default:
		return "waiting"
	}
}

// Step is one stage of a scripted run.
type Step struct {
	Name string
	// Run is how long the step stays running before it is done.
	Run time.Duration
	// Reveal names an output shown when the step completes.
	Reveal string
}

// Script lays out a run. Step i starts at Lead plus the sum of the earlier
// steps' Run and Gap. Finish fires Tail after the last step's gap and, when
// Loop is set, the run restarts Hold after that same point.
type Script struct {
	Steps []Step
	Intro time.Duration
	Lead  time.Duration
	Gap   time.Duration
	Tail  time.Duration
	Hold  time.Duration
	Loop  bool
}

// Cue kinds.
const (
	CueBegin  = "begin"
	CueStep   = "step"
	CueReveal = "reveal"
	CueFinish = "finish"
	CueLoop   = "loop"
)

// Cue is one scheduled change in a run. T is milliseconds from run start.
type Cue struct {
	T      int64  `json:"t"`
	Kind   string `json:"kind"`
	Step   int    `json:"step"`
	State  string `json:"state,omitempty"`
	Reveal string `json:"reveal,omitempty"`

	at    time.Duration
	state State
}

// Timeline returns the script's cues in firing order.
func (s Script) Timeline() []Cue {
	var cues []Cue
	add := func(at time.Duration, c Cue) {
		c.at = at
		c.T = at.Milliseconds()
		cues = append(cues, c)
	}
	if s.Intro > 0 {
		add(s.Intro, Cue{Kind: CueBegin, Step: -1})
	}
	at := s.Lead
	for i, st := range s.Steps {
		add(at, Cue{Kind: CueStep, Step: i, State: Running.String(), state: Running})
		at += st.Run
		add(at, Cue{Kind: CueStep, Step: i, State: Done.String(), state: Done})
		if st.Reveal != "" {
			add(at, Cue{Kind: CueReveal, Step: i, Reveal: st.Reveal})
		}
		at += s.Gap
	}
	add(at+s.Tail, Cue{Kind: CueFinish, Step: -1})
	if s.Loop {
		add(at+s.Hold, Cue{Kind: CueLoop, Step: -1})
	}
	return cues
}

// Target receives a sequencer's cues. Calls are serialised by the
// controller.
type Target interface {
	Reset()
	Begin()
	Enter(step int, s State)
	Reveal(name string)
	Finish()
}

// Sequencer plays a Script against a Target while visible and unpaused.
// Leaving the viewport or replaying cancels only this sequencer's pending
// cues; pausing the controller cancels everyone's.
type Sequencer struct {
	ctl    *Controller
	group  *Group
	script Script
	cues   []Cue
	target Target

	visible bool
	runs    int
	stop    func()
}

// NewSequencer binds script to target and subscribes to resume events.
func NewSequencer(ctl *Controller, script Script, target Target) *Sequencer {
	s := &Sequencer{
		ctl:    ctl,
		group:  ctl.Group(),
		script: script,
		cues:   script.Timeline(),
		target: target,
	}
	s.stop = ctl.OnResume(s.resumed)
	return s
}

// SetVisible records viewport visibility. Becoming visible while unpaused
// starts a fresh run; becoming hidden cancels the pending cues.
func (s *Sequencer) SetVisible(v bool) {
	s.ctl.Do(func() {
		s.visible = v
		if !v {
			s.group.Cancel()
			return
		}
		if !s.ctl.Paused() {
			s.start()
		}
	})
}

// Replay resets the target and restarts the run. While paused the reset is
// applied but no cue fires.
func (s *Sequencer) Replay() {
	s.ctl.Do(s.start)
}

// Visible reports the last visibility set.
func (s *Sequencer) Visible() bool {
	var v bool
	s.ctl.Do(func() { v = s.visible })
	return v
}

// Runs counts started runs.
func (s *Sequencer) Runs() int {
	var n int
	s.ctl.Do(func() { n = s.runs })
	return n
}

// Timeline returns the cues the sequencer schedules per run.
func (s *Sequencer) Timeline() []Cue {
	out := make([]Cue, len(s.cues))
	copy(out, s.cues)
	return out
}

// Close cancels pending cues and drops the resume subscription.
func (s *Sequencer) Close() {
	s.stop()
	s.group.Cancel()
}

func (s *Sequencer) resumed() {
	if s.visible {
		s.start()
	}
}

// start runs with the controller's run lock held.
func (s *Sequencer) start() {
	s.group.Cancel()
	s.runs++
	s.target.Reset()
	if s.script.Intro <= 0 {
		s.target.Begin()
	}
	for _, c := range s.cues {
		c := c
		s.group.Schedule(c.at, func() { s.cue(c) })
	}
}

func (s *Sequencer) cue(c Cue) {
	switch c.Kind {
	case CueBegin:
		s.target.Begin()
	case CueStep:
		s.target.Enter(c.Step, c.state)
	case CueReveal:
		s.target.Reveal(c.Reveal)
	case CueFinish:
		s.target.Finish()
	case CueLoop:
		if s.visible {
			s.start()
		}
	}
}
