package controller

import (
	"time"

	"attn/internal/client/cache"
	sessiondto "attn/internal/modules/session/dto"
	statsdto "attn/internal/modules/stats/dto"
)

// The controller is a pure transition function over this state. The UI
// layer feeds it user and completion events and performs the returned
// effects; all session state lives here, on one logical thread.

type Phase int

const (
	NoSession Phase = iota
	PendingStart
	Active
	PendingEnd
	Summary
)

// SummaryView is what the summary screen renders. StreakKnown is false
// while the summary is provisional, since the client tracks only a
// distraction count, not individual timestamps.
type SummaryView struct {
	DurationSeconds      float64
	DistractionCount     int
	AverageStreakSeconds float64
	LongestStreakSeconds float64
	StreakKnown          bool
}

type State struct {
	Phase Phase

	// Epoch tags in-flight requests. It increments whenever outstanding
	// completions become meaningless; a completion from an older epoch
	// is dropped without effect.
	Epoch int

	// SessionID is empty while a start is unconfirmed.
	SessionID    string
	StartedAt    time.Time
	Distractions int

	// Distractions logged before the start confirmed, to be flushed
	// against the server id.
	QueuedDistractions int
	// End requested while the start was still unconfirmed.
	EndRequested bool

	Summary SummaryView

	StatsOpen    bool
	StatsLoading bool
	HasStats     bool
	Stats        statsdto.Stats

	// Now is the display clock, advanced by Tick.
	Now time.Time
	// TimerRunning guards against scheduling a second tick stream.
	TimerRunning bool

	Notice string
}

func NewState(now time.Time) State {
	return State{Phase: NoSession, Now: now}
}

// Elapsed is the running duration shown on the active screen.
func (s State) Elapsed() time.Duration {
	if s.StartedAt.IsZero() {
		return 0
	}
	if d := s.Now.Sub(s.StartedAt); d > 0 {
		return d
	}
	return 0
}

// Events. User events carry no epoch; completion events carry the epoch
// their request was issued under.

type Event interface{ isEvent() }

type (
	Start       struct{}
	Distract    struct{}
	End         struct{}
	ToggleStats struct{}
	Dismiss     struct{}
	Tick        struct{ Now time.Time }

	CacheLoaded struct {
		Entry cache.Entry
		OK    bool
	}
	StartDone struct {
		Epoch   int
		Session sessiondto.Session
		Err     error
	}
	DistractDone struct {
		Epoch int
		Err   error
	}
	EndDone struct {
		Epoch int
		Out   sessiondto.EndOutput
		Err   error
	}
	ActiveDone struct {
		Epoch   int
		Session sessiondto.Session
		Found   bool
		Err     error
	}
	StatsDone struct {
		Epoch int
		Stats statsdto.Stats
		Err   error
	}
)

func (Start) isEvent()        {}
func (Distract) isEvent()     {}
func (End) isEvent()          {}
func (ToggleStats) isEvent()  {}
func (Dismiss) isEvent()      {}
func (Tick) isEvent()         {}
func (CacheLoaded) isEvent()  {}
func (StartDone) isEvent()    {}
func (DistractDone) isEvent() {}
func (EndDone) isEvent()      {}
func (ActiveDone) isEvent()   {}
func (StatsDone) isEvent()    {}

// Effects the UI layer must perform after a transition.

type Effect interface{ isEffect() }

type (
	StartSession      struct{ Epoch int }
	RecordDistraction struct {
		Epoch     int
		SessionID string
	}
	EndSession struct {
		Epoch     int
		SessionID string
	}
	FetchActive  struct{ Epoch int }
	FetchStats   struct{ Epoch int }
	SaveCache    struct{ Entry cache.Entry }
	ClearCache   struct{}
	ScheduleTick struct{}
)

func (StartSession) isEffect()      {}
func (RecordDistraction) isEffect() {}
func (EndSession) isEffect()        {}
func (FetchActive) isEffect()       {}
func (FetchStats) isEffect()        {}
func (SaveCache) isEffect()         {}
func (ClearCache) isEffect()        {}
func (ScheduleTick) isEffect()      {}

// Apply computes the next state and the effects to perform. now is the
// wall clock at the moment the event is handled.
func Apply(s State, ev Event, now time.Time) (State, []Effect) {
	switch ev := ev.(type) {
	case Start:
		return applyStart(s, now)
	case Distract:
		return applyDistract(s)
	case End:
		return applyEnd(s, now)
	case ToggleStats:
		return applyToggleStats(s)
	case Dismiss:
		return applyDismiss(s)
	case Tick:
		return applyTick(s, ev)
	case CacheLoaded:
		return applyCacheLoaded(s, ev, now)
	case StartDone:
		return applyStartDone(s, ev, now)
	case DistractDone:
		return applyDistractDone(s, ev)
	case EndDone:
		return applyEndDone(s, ev)
	case ActiveDone:
		return applyActiveDone(s, ev)
	case StatsDone:
		return applyStatsDone(s, ev)
	}
	return s, nil
}

func applyStart(s State, now time.Time) (State, []Effect) {
	if s.StatsOpen || s.Phase == PendingStart || s.Phase == Active || s.Phase == PendingEnd {
		// A start is already running or in place; the single-slot
		// register means no second call is issued.
		return s, nil
	}
	s.Epoch++
	s.Phase = PendingStart
	s.SessionID = ""
	s.StartedAt = now
	s.Now = now
	s.Distractions = 0
	s.QueuedDistractions = 0
	s.EndRequested = false
	s.Notice = ""
	var effects []Effect
	s, effects = ensureTick(s, effects)
	return s, append(effects, StartSession{Epoch: s.Epoch})
}

func applyDistract(s State) (State, []Effect) {
	if s.StatsOpen {
		return s, nil
	}
	switch s.Phase {
	case PendingStart:
		if s.EndRequested {
			return s, nil
		}
		s.Distractions++
		s.QueuedDistractions++
		return s, nil
	case Active:
		s.Distractions++
		return s, []Effect{RecordDistraction{Epoch: s.Epoch, SessionID: s.SessionID}}
	default:
		return s, nil
	}
}

func applyEnd(s State, now time.Time) (State, []Effect) {
	if s.StatsOpen {
		return s, nil
	}
	switch s.Phase {
	case PendingStart:
		// Defer until the start resolves. The timer stops now.
		s.EndRequested = true
		return s, nil
	case Active:
		s.Phase = PendingEnd
		s.Summary = provisionalSummary(s, now)
		return s, []Effect{EndSession{Epoch: s.Epoch, SessionID: s.SessionID}}
	default:
		return s, nil
	}
}

func applyToggleStats(s State) (State, []Effect) {
	if s.StatsOpen {
		s.StatsOpen = false
		s.StatsLoading = false
		return s, nil
	}
	if s.Phase == PendingStart || s.Phase == PendingEnd {
		return s, nil
	}
	s.StatsOpen = true
	s.StatsLoading = true
	return s, []Effect{FetchStats{Epoch: s.Epoch}}
}

func applyDismiss(s State) (State, []Effect) {
	if s.StatsOpen {
		s.StatsOpen = false
		s.StatsLoading = false
		return s, nil
	}
	if s.Notice != "" {
		s.Notice = ""
		return s, nil
	}
	if s.Phase == Summary {
		s.Phase = NoSession
		s.SessionID = ""
		s.StartedAt = time.Time{}
		s.Distractions = 0
		s.Summary = SummaryView{}
	}
	return s, nil
}

func applyTick(s State, ev Tick) (State, []Effect) {
	if s.Phase == Active || (s.Phase == PendingStart && !s.EndRequested) {
		s.Now = ev.Now
		return s, []Effect{ScheduleTick{}}
	}
	// Late tick after a transition away; the stream dies here.
	s.TimerRunning = false
	return s, nil
}

func applyCacheLoaded(s State, ev CacheLoaded, now time.Time) (State, []Effect) {
	if ev.OK {
		// Render the cached session immediately, then validate.
		s.Phase = Active
		s.SessionID = ev.Entry.SessionID
		s.StartedAt = ev.Entry.StartedAt
		s.Distractions = ev.Entry.DistractionCount
		s.Now = now
		var effects []Effect
		s, effects = ensureTick(s, effects)
		return s, append(effects, FetchActive{Epoch: s.Epoch})
	}
	return s, []Effect{FetchActive{Epoch: s.Epoch}}
}

func applyStartDone(s State, ev StartDone, now time.Time) (State, []Effect) {
	if ev.Epoch != s.Epoch || s.Phase != PendingStart {
		return s, nil
	}
	if ev.Err != nil {
		s.Epoch++
		s.Phase = NoSession
		s.SessionID = ""
		s.StartedAt = time.Time{}
		s.Distractions = 0
		s.QueuedDistractions = 0
		s.EndRequested = false
		s.Notice = "could not start session"
		return s, []Effect{ClearCache{}}
	}

	s.SessionID = ev.Session.ID
	s.StartedAt = ev.Session.StartedAt

	var effects []Effect
	for i := 0; i < s.QueuedDistractions; i++ {
		effects = append(effects, RecordDistraction{Epoch: s.Epoch, SessionID: s.SessionID})
	}
	s.QueuedDistractions = 0

	if s.EndRequested {
		s.EndRequested = false
		s.Phase = PendingEnd
		s.Summary = provisionalSummary(s, now)
		return s, append(effects, EndSession{Epoch: s.Epoch, SessionID: s.SessionID})
	}

	s.Phase = Active
	return s, append(effects, SaveCache{Entry: cacheEntry(s)})
}

func applyDistractDone(s State, ev DistractDone) (State, []Effect) {
	if ev.Epoch != s.Epoch || s.SessionID == "" {
		return s, nil
	}
	if ev.Err != nil {
		// Roll the optimistic increment back, visibly.
		if s.Distractions > 0 {
			s.Distractions--
		}
		if s.Phase == PendingEnd {
			// The provisional summary was built from the pre-rollback
			// count; keep it honest until the server's version lands.
			s.Summary.DistractionCount = s.Distractions
		}
		s.Notice = "distraction not saved"
	}
	return s, []Effect{SaveCache{Entry: cacheEntry(s)}}
}

func applyEndDone(s State, ev EndDone) (State, []Effect) {
	if ev.Epoch != s.Epoch || s.Phase != PendingEnd {
		return s, nil
	}
	if ev.Err != nil {
		// The end is reversible: same session, same counter, timer back.
		s.Phase = Active
		s.Summary = SummaryView{}
		s.Notice = "could not end session"
		var effects []Effect
		s, effects = ensureTick(s, effects)
		return s, append(effects, SaveCache{Entry: cacheEntry(s)})
	}
	s.Epoch++
	s.Phase = Summary
	s.Distractions = ev.Out.Summary.DistractionCount
	s.Summary = SummaryView{
		DurationSeconds:      ev.Out.Summary.DurationSeconds,
		DistractionCount:     ev.Out.Summary.DistractionCount,
		AverageStreakSeconds: ev.Out.Summary.AverageStreakSeconds,
		LongestStreakSeconds: ev.Out.Summary.LongestStreakSeconds,
		StreakKnown:          true,
	}
	return s, []Effect{ClearCache{}}
}

func applyActiveDone(s State, ev ActiveDone) (State, []Effect) {
	if ev.Epoch != s.Epoch {
		return s, nil
	}
	// Server truth is only adopted while nothing else is in flight. A
	// validation answer landing during a pending start or end, or after
	// the session already summarized, must not clobber that work: an end
	// issued during the restore-then-validate window still confirms.
	if s.Phase != NoSession && s.Phase != Active {
		return s, nil
	}
	if ev.Err != nil {
		// Validation failed; keep rendering what we have.
		s.Notice = "could not reach server"
		return s, nil
	}
	if !ev.Found {
		s.Epoch++
		s.Phase = NoSession
		s.SessionID = ""
		s.StartedAt = time.Time{}
		s.Distractions = 0
		return s, []Effect{ClearCache{}}
	}
	// Adopt server truth verbatim, whether it confirms or replaces the
	// cached guess.
	s.Epoch++
	s.Phase = Active
	s.SessionID = ev.Session.ID
	s.StartedAt = ev.Session.StartedAt
	s.Distractions = ev.Session.DistractionCount
	var effects []Effect
	s, effects = ensureTick(s, effects)
	return s, append(effects, SaveCache{Entry: cacheEntry(s)})
}

func applyStatsDone(s State, ev StatsDone) (State, []Effect) {
	if ev.Epoch != s.Epoch {
		return s, nil
	}
	s.StatsLoading = false
	if ev.Err != nil {
		// Keep the last rendered dashboard.
		s.Notice = "stats unavailable"
		return s, nil
	}
	s.Stats = ev.Stats
	s.HasStats = true
	return s, nil
}

func provisionalSummary(s State, now time.Time) SummaryView {
	duration := now.Sub(s.StartedAt)
	if duration < 0 {
		duration = 0
	}
	return SummaryView{
		DurationSeconds:  duration.Seconds(),
		DistractionCount: s.Distractions,
		StreakKnown:      false,
	}
}

func cacheEntry(s State) cache.Entry {
	return cache.Entry{
		SessionID:        s.SessionID,
		StartedAt:        s.StartedAt,
		DistractionCount: s.Distractions,
	}
}

func ensureTick(s State, effects []Effect) (State, []Effect) {
	if s.TimerRunning {
		return s, effects
	}
	s.TimerRunning = true
	return s, append(effects, ScheduleTick{})
}
