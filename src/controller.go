package radioclock

/*------------------------------------------------------------------
 *
 * Purpose: Clock controller (component I, spec.md 2/4/5). Orchestrates
 *          C (phase) -> D (classify) -> E (place in minute) -> F
 *          (field voting) -> H (assemble/advance) -> J (publish) on
 *          every 1 kHz tick, and drives the 1 Hz decoded-time and
 *          1 kHz phase-drift callbacks into the local clock FSM.
 *
 *------------------------------------------------------------------*/

// Controller wires every component together for one protocol.
type Controller struct {
	proto Protocol

	phase   *PhaseDemod
	second  *SecondIndex
	fields  *FieldSet
	minute  MinuteBits
	clock   *LocalClock
	freq    *FrequencyControl

	decodingSecond int // which second, 0..59, within the minute we believe we're at
	haveSecond     bool

	nextMinute *TimeData // carried forward once assembled, published at the following second 0
}

// NewController builds a controller for one protocol, wiring a fresh
// phase demodulator, second-index decoder, field set and local clock.
func NewController(proto Protocol, persister Persister) *Controller {
	c := &Controller{
		proto:  proto,
		phase:  NewPhaseDemod(proto.PhaseKernel()),
		second: NewSecondIndex(proto),
		fields: proto.NewFieldSet(),
		clock:  NewLocalClock(),
		freq:   NewFrequencyControl(persister),
	}
	c.clock.SetTunedCrystal(c.freq.Tuned)
	c.clock.OnPhaseLost(c.onPhaseLost)
	return c
}

func (c *Controller) onPhaseLost() {
	c.fields.Reset()
	c.second.Reset()
	c.haveSecond = false
}

// Tick is the single 1 kHz entry point: `tick(sample)` per spec.md 1.
func (c *Controller) Tick(carrierOff bool) {
	secondComplete := c.phase.Sample(carrierOff)
	fc := c.freq.Tick()
	_ = fc // reload step is computed here but not passed to any tick generator

	driftMs := c.estimatedDriftMs()
	c.clock.OnTick(driftMs)

	if !secondComplete {
		return
	}

	c.phase.Detect()
	qf := c.phase.QualityFactor()

	bins := c.phase.CurrentSecondBins()
	tick := c.proto.ClassifyTick(bins, c.phase.MaxIndex())

	if !c.second.Locked() {
		c.second.SyncMarkBin(tick)
	}
	c.second.AdvanceTick()

	if c.second.Locked() && !c.second.Predicting() {
		// lock just declared this second: seed prediction from the
		// forecast of the minute about to start.
		forecast := c.fields.Assemble()
		AdvanceMinute(forecast)
		c.second.InstallKernel(forecast)
	}

	secondIdx := c.second.SecondOf()
	c.recordBit(secondIdx, tick)

	if c.second.Predicting() {
		c.scoreConvolution(secondIdx, tick)
	}

	if secondIdx == 0 {
		if _, isMSF := c.proto.(MSFProtocol); isMSF && c.second.ObserveMinuteMarker(tick == TickMinMarker) {
			// two consecutive missed minute markers: give up lock now
			// rather than waiting for the phase margin to decay.
			c.onPhaseLost()
		} else {
			c.onMinuteBoundary()
		}
	}

	c.decodingSecond = secondIdx
	c.haveSecond = true

	minuteQuality := byte(0)
	if c.second.Predicting() {
		minuteQuality = byte(clampI16(int16(c.second.FlushFreshPredictionMatch()), 0, 50))
	}

	c.clock.OnDecodedSecond(c.publishedTime(), qf, minuteQuality)
	c.clock.AdvanceOneSecond()
}

// FlushFreshPredictionMatch peeks the running prediction_match without
// consuming it except at the minute boundary; used so OnDecodedSecond
// always has a reading to gate `synced` on (spec.md 4.8, "quality > 1").
func (s *SecondIndex) FlushFreshPredictionMatch() int {
	return s.predictionMatch
}

func (c *Controller) estimatedDriftMs() int {
	// Phase within the 100-bin ring, in milliseconds, relative to the
	// located second boundary; used only for the unlocked->locked gate.
	return (c.phase.MaxIndex() * 10) % 1000
}

// recordBit buffers the classified tick into the minute-bit accumulator
// at the decoded second index, protocol-specific.
func (c *Controller) recordBit(secondIdx int, tick Tick) {
	switch p := c.proto.(type) {
	case DCF77Protocol:
		_ = p
		switch tick {
		case TickShort:
			c.minute.SetBit(secondIdx, Bit0)
		case TickLong:
			c.minute.SetBit(secondIdx, Bit1)
		default:
			c.minute.SetBit(secondIdx, BitUnknown)
		}
	case MSFProtocol:
		_ = p
		switch tick {
		case TickA0B0:
			c.minute.SetAB(secondIdx, Bit0, Bit0)
		case TickA0B1:
			c.minute.SetAB(secondIdx, Bit0, Bit1)
		case TickA1B0:
			c.minute.SetAB(secondIdx, Bit1, Bit0)
		case TickA1B1:
			c.minute.SetAB(secondIdx, Bit1, Bit1)
		default:
			c.minute.SetAB(secondIdx, BitUnknown, BitUnknown)
		}
	}
}

func (c *Controller) scoreConvolution(secondIdx int, tick Tick) {
	switch p := c.proto.(type) {
	case DCF77Protocol:
		_ = p
		if secondIdx < 16 || secondIdx > 58 {
			return
		}
		bitSet := tick == TickLong
		c.second.ConvolutionBin(secondIdx-16, bitSet)
	case MSFProtocol:
		_ = p
		if secondIdx < 1 {
			return
		}
		aSet := tick == TickA1B0 || tick == TickA1B1
		c.second.ConvolutionBin(secondIdx-1, aSet)
	}
}

// onMinuteBoundary feeds the completed minute's bits into the field
// voters, assembles the decoded time, advances control bits, and resets
// the raw bit buffer for the next minute (spec.md 4.5, 5: "the decoder
// always decodes the next minute's label").
func (c *Controller) onMinuteBoundary() {
	switch p := c.proto.(type) {
	case DCF77Protocol:
		p.ObserveFields(c.fields, &c.minute)
	case MSFProtocol:
		p.ObserveFields(c.fields, &c.minute)
	}

	assembled := c.fields.Assemble()
	assembled.Second = 0
	AutosetControlBits(assembled)
	assembled.LeapSecondScheduled = VerifyLeapSecondScheduled(assembled, true)
	c.nextMinute = assembled

	c.minute.Reset()
	_ = c.second.FlushPredictionMatch()
}

func (c *Controller) publishedTime() *TimeData {
	if c.nextMinute != nil {
		t := c.nextMinute
		c.nextMinute = nil
		return t
	}
	return c.clock.Time.Clone()
}

// ArmFrequencyCalibration qualifies the calibration state once the
// local clock is trusted enough (spec.md 4.9). Neither the controller
// nor the commands in cmd/ call it.
func (c *Controller) ArmFrequencyCalibration(centisecondMod60000, minuteMod10 int) {
	c.freq.cal.Qualified = c.clock.State >= StateLocked
	c.freq.ArmCalibration(centisecondMod60000, minuteMod10)
}

// State exposes the local clock's FSM state for debug/display.
func (c *Controller) State() ClockState { return c.clock.State }

// ReadTime snapshots the published time (spec.md 5, "read_time").
func (c *Controller) ReadTime() *TimeData { return c.clock.ReadTime() }

// MinuteQuality exposes the field set's weakest quality factor.
func (c *Controller) MinuteQuality() byte { return c.fields.MinQuality() }
