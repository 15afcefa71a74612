package gameplay

import (
	"fmt"
	"log"
	"math"
	"runtime"

	"github.com/velvetkeys/cadence/internal/bindable"
	"github.com/velvetkeys/cadence/internal/clock"
	"github.com/velvetkeys/cadence/internal/config"
	"github.com/velvetkeys/cadence/internal/mods"
	"github.com/velvetkeys/cadence/internal/scheduler"
)

// platformOffsetWindows compensates for audio output latency on
// Windows. Other platforms need no correction.
const platformOffsetWindows = 22.0

// State is the container's lifecycle state.
type State int

const (
	StateStopped State = iota
	StateRunning
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StateRunning:
		return "Running"
	case StatePaused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// Options configures a Container for one performance attempt.
type Options struct {
	// GameplayStartTime is when the first gameplay element occurs, in
	// milliseconds. May be negative.
	GameplayStartTime float64
	// AudioLeadIn is how long before time zero playback begins, in
	// milliseconds (non-negative).
	AudioLeadIn float64
	// Mods active for this attempt, applied to the source clock in
	// order after the base rate.
	Mods []mods.Mod
	// Settings provides the live user audio-offset. Optional.
	Settings *config.Settings
	// PlatformOffset overrides the platform latency correction.
	// When nil, the correction is chosen from the runtime platform.
	PlatformOffset *float64
	// TimeProvider drives interpolation. Nil means the system clock.
	TimeProvider clock.TimeProvider
}

// Container owns the full clock chain for a performance attempt:
// source → decoupled → platform offset → user offset → gameplay
// facade. All methods except Restart's internals run on the frame
// loop; the chain is created once and lives for the whole attempt.
type Container struct {
	source    clock.Source
	decoupled *clock.Decoupled
	platform  *clock.Offset
	user      *clock.Offset
	gameplay  *Clock
	sched     *scheduler.Scheduler
	mods      []mods.Mod
	state     State

	// IsPaused is observable; true whenever the chain is not
	// advancing.
	IsPaused *bindable.Bindable[bool]
	// UserPlaybackRate is the user-selected rate, clamped to
	// [0.5, 2.0] in 0.1 steps. Changing it re-propagates through the
	// source and active mods.
	UserPlaybackRate *bindable.BoundedDouble

	restartSeq uint64
}

// NewContainer builds the clock chain around source. A nil source is
// replaced by a free-running stopwatch. Before the first frame the
// chain is seeked to min(-AudioLeadIn, GameplayStartTime) so lead-in
// content can pre-render.
func NewContainer(source clock.Source, opts Options) *Container {
	tp := opts.TimeProvider
	if tp == nil {
		tp = clock.SystemTime{}
	}
	if source == nil {
		source = clock.NewStopwatch(tp)
	}

	platformOffset := PlatformOffsetFor(runtime.GOOS)
	if opts.PlatformOffset != nil {
		platformOffset = *opts.PlatformOffset
	}

	c := &Container{
		source: source,
		sched:  scheduler.New(),
		mods:   opts.Mods,
		state:  StateStopped,
	}
	c.decoupled = clock.NewDecoupled(source, tp)
	c.decoupled.ErrorHandler = func(err error) {
		log.Printf("gameplay clock: %v", err)
	}
	c.platform = clock.NewOffset(c.decoupled, platformOffset)
	c.user = clock.NewOffset(c.platform, 0)
	c.IsPaused = bindable.New(true)
	c.gameplay = &Clock{underlying: c.user, isPaused: c.IsPaused}

	c.UserPlaybackRate = bindable.NewBoundedDouble(1.0, config.MinRate, config.MaxRate, config.RateStep)
	c.UserPlaybackRate.OnChange(func(float64) { c.updateRate() }, false)

	if opts.Settings != nil {
		opts.Settings.AudioOffset.OnChange(func(v float64) {
			c.user.SetOffset(v)
		}, true)
	}

	c.updateRate()
	c.Seek(math.Min(-opts.AudioLeadIn, opts.GameplayStartTime))
	return c
}

// PlatformOffsetFor returns the fixed latency correction for an
// operating system, in milliseconds.
func PlatformOffsetFor(goos string) float64 {
	if goos == "windows" {
		return platformOffsetWindows
	}
	return 0
}

// GameplayClock returns the read-only facade consumers observe.
func (c *Container) GameplayClock() *Clock { return c.gameplay }

// Scheduler returns the frame-thread marshaling queue. External
// goroutines use it to run mutations safely between frames.
func (c *Container) Scheduler() *scheduler.Scheduler { return c.sched }

// State returns the current lifecycle state.
func (c *Container) State() State { return c.state }

// Start resumes the chain. The decoupled clock is first re-seeked to
// its own current time: while the source was settling into a stopped
// state it may have drifted, and trusting its last reported position
// would jump gameplay time.
func (c *Container) Start() {
	c.decoupled.Seek(c.decoupled.CurrentTime())
	c.decoupled.Start()
	c.startSource()
	c.state = StateRunning
	c.IsPaused.Set(false)
}

// Stop pauses the chain. Idempotent.
func (c *Container) Stop() {
	c.decoupled.Stop()
	c.stopSource()
	c.state = StatePaused
	c.IsPaused.Set(true)
}

// Seek moves gameplay time to t. Offsets are excluded from the raw
// seek target so the caller's notion of gameplay time stays free of
// latency corrections; one synchronous frame process follows so an
// immediate read reflects the new position.
func (c *Container) Seek(t float64) {
	c.decoupled.Seek(t - c.TotalOffset())
	c.user.ProcessFrame()
}

// TotalOffset is the sum of the platform and user offsets, used to
// translate gameplay time into raw source time.
func (c *Container) TotalOffset() float64 {
	return c.platform.Offset() + c.user.Offset()
}

// Restart resets the source on its own goroutine, because resetting an
// external media device may block, then reattaches it on the frame
// loop. When restarts overlap, only the most recent one reattaches;
// stale continuations are dropped.
func (c *Container) Restart() {
	c.restartSeq++
	seq := c.restartSeq
	src := c.source

	go func() {
		c.resetSource(src)
		c.sched.Post(func() {
			if seq != c.restartSeq {
				return // superseded by a later restart
			}
			c.decoupled.ChangeSource(src)
			c.updateRate()
			if !c.IsPaused.Value() {
				c.Start()
			}
		})
	}()
}

// ResetLocalAdjustments returns the playback rate to 1.0. Offsets are
// untouched.
func (c *Container) ResetLocalAdjustments() {
	c.UserPlaybackRate.Set(1.0)
}

// ProcessFrame is the container's per-frame update. Scheduled work
// (restart continuations, externally posted mutations) always runs;
// time only advances while unpaused.
func (c *Container) ProcessFrame() {
	c.sched.Drain()
	if c.IsPaused.Value() {
		return
	}
	c.user.ProcessFrame()
}

// updateRate clears the source's speed adjustments, applies the user
// rate via tempo adjustment when the source supports it (raw rate
// otherwise), then lets every clock-adjusting mod have its turn. Mods
// run last so they can compose with or override the base rate.
func (c *Container) updateRate() {
	defer c.recoverSource("rate update")
	c.source.ResetSpeedAdjustments()

	rate := c.UserPlaybackRate.Value()
	if t, ok := c.source.(clock.TempoAdjustable); ok {
		t.SetTempoAdjust(rate)
	} else {
		c.source.SetRate(rate)
	}

	for _, m := range c.mods {
		if adj, ok := m.(mods.ClockAdjuster); ok {
			adj.ApplyToClock(c.source)
		}
	}

	c.decoupled.RefreshRate()
}

// Snapshot is a frame-consistent view of the chain for debugging and
// the dashboard.
type Snapshot struct {
	CurrentTime      float64 `json:"current_time"`
	RawTime          float64 `json:"raw_time"`
	Rate             float64 `json:"rate"`
	Paused           bool    `json:"paused"`
	State            string  `json:"state"`
	PlatformOffset   float64 `json:"platform_offset"`
	UserOffset       float64 `json:"user_offset"`
	ElapsedFrameTime float64 `json:"elapsed_frame_time"`
	PendingTasks     int     `json:"pending_tasks"`
}

// Snapshot captures the chain's state. Frame-loop only.
func (c *Container) Snapshot() Snapshot {
	return Snapshot{
		CurrentTime:      c.gameplay.CurrentTime(),
		RawTime:          c.decoupled.CurrentTime(),
		Rate:             c.gameplay.Rate(),
		Paused:           c.IsPaused.Value(),
		State:            c.state.String(),
		PlatformOffset:   c.platform.Offset(),
		UserOffset:       c.user.Offset(),
		ElapsedFrameTime: c.user.ElapsedFrameTime(),
		PendingTasks:     c.sched.Len(),
	}
}

// Source operations below are guarded: a panicking source degrades the
// chain to interpolation instead of killing the frame loop.

func (c *Container) startSource() {
	defer c.recoverSource("start")
	c.source.Start()
}

func (c *Container) stopSource() {
	defer c.recoverSource("stop")
	c.source.Stop()
}

func (c *Container) resetSource(src clock.Source) {
	defer c.recoverSource("reset")
	src.Reset()
}

func (c *Container) recoverSource(op string) {
	if r := recover(); r != nil {
		log.Printf("gameplay clock: %v", fmt.Errorf("source %s failed: %v", op, r))
	}
}
