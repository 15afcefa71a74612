package clock

// Offset adds a constant to a parent clock's time. The transform is
// stateless beyond the offset scalar: CurrentTime is computed on read,
// so changing the offset takes effect on the next read without being
// time-integrated.
type Offset struct {
	parent FrameClock
	offset float64
}

// NewOffset wraps parent with the given additive offset in
// milliseconds.
func NewOffset(parent FrameClock, offset float64) *Offset {
	return &Offset{parent: parent, offset: offset}
}

// Offset returns the current additive offset.
func (c *Offset) Offset() float64 { return c.offset }

// SetOffset changes the additive offset.
func (c *Offset) SetOffset(offset float64) { c.offset = offset }

func (c *Offset) CurrentTime() float64 {
	return c.parent.CurrentTime() + c.offset
}

func (c *Offset) Rate() float64 { return c.parent.Rate() }

func (c *Offset) IsRunning() bool { return c.parent.IsRunning() }

func (c *Offset) ElapsedFrameTime() float64 { return c.parent.ElapsedFrameTime() }

// ProcessFrame delegates to the parent; the offset itself needs no
// per-frame work.
func (c *Offset) ProcessFrame() {
	c.parent.ProcessFrame()
}
