package radioclock

/*------------------------------------------------------------------
 *
 * Purpose: The local clock's 6-state reliability FSM (component J,
 *          spec.md 4.8). Holds the published time and tracks how much
 *          the signal, rather than the free-running crystal, is to be
 *          trusted right now.
 *
 *------------------------------------------------------------------*/

// ClockState is one of the six reliability states, ordered by
// decreasing doubt.
type ClockState int

const (
	StateUseless ClockState = iota
	StateDirty
	StateFree
	StateUnlocked
	StateLocked
	StateSynced
)

func (s ClockState) String() string {
	switch s {
	case StateUseless:
		return "useless"
	case StateDirty:
		return "dirty"
	case StateFree:
		return "free"
	case StateUnlocked:
		return "unlocked"
	case StateLocked:
		return "locked"
	case StateSynced:
		return "synced"
	default:
		return "unknown"
	}
}

// maxUnlockedSeconds bounds how long the clock coasts on the crystal
// after losing lock before giving up and going free (spec.md 4.8).
const (
	maxUnlockedSecondsUntuned = 3000
	maxUnlockedSecondsTuned   = 30000
)

// LocalClock is the published time plus the FSM driving it.
type LocalClock struct {
	Time  *TimeData
	State ClockState

	tunedCrystal bool

	unlockedSeconds int // elapsed since last losing lock
	lastTickDriftMs int // most recent 1 kHz tick's offset from the expected second boundary

	onPhaseLost func()
}

// NewLocalClock returns a clock parked in the useless state.
func NewLocalClock() *LocalClock {
	lc := &LocalClock{Time: &TimeData{}, State: StateUseless}
	lc.Time.Reset()
	return lc
}

// SetTunedCrystal widens the free-running grace period once frequency
// control has trimmed and persisted a calibration (spec.md 4.8/4.9).
func (lc *LocalClock) SetTunedCrystal(tuned bool) { lc.tunedCrystal = tuned }

// OnPhaseLost registers the callback invoked when the FSM demotes out
// of locked/synced (spec.md 4.8, "emits a phase_lost event").
func (lc *LocalClock) OnPhaseLost(f func()) { lc.onPhaseLost = f }

func (lc *LocalClock) maxUnlockedSeconds() int {
	if lc.tunedCrystal {
		return maxUnlockedSecondsTuned
	}
	return maxUnlockedSecondsUntuned
}

func (lc *LocalClock) demoteToUnlocked() {
	wasTrusted := lc.State == StateLocked || lc.State == StateSynced
	if lc.State > StateUnlocked {
		lc.State = StateUnlocked
		lc.unlockedSeconds = 0
	}
	if wasTrusted && lc.onPhaseLost != nil {
		lc.onPhaseLost()
	}
}

// OnDecodedSecond is the 1 Hz callback: advances the published time and
// re-evaluates state from the decoder's reported quality factor
// (spec.md 4.8).
func (lc *LocalClock) OnDecodedSecond(decoded *TimeData, qualityFactor byte, minuteQuality byte) {
	switch {
	case qualityFactor == 0 && lc.State <= StateDirty:
		lc.State = StateUseless
		lc.Time.Reset()
		return
	case qualityFactor == 0:
		lc.demoteToUnlocked()
	case qualityFactor > 0 && qualityFactor < lockMargin:
		if lc.State < StateDirty {
			lc.State = StateDirty
		}
		if lc.State <= StateDirty {
			lc.Time = decoded.Clone()
		}
	default: // qualityFactor >= lockMargin: demodulator sees clean phase this second
		lc.Time = decoded.Clone()
		if lc.State < StateUnlocked {
			lc.State = StateUnlocked
			lc.unlockedSeconds = 0
		}
	}

	if lc.State == StateUnlocked {
		lc.unlockedSeconds++
		if lc.unlockedSeconds > lc.maxUnlockedSeconds() {
			lc.State = StateFree
		}
	}

	if lc.State >= StateLocked {
		if qualityFactor < lockMargin {
			lc.demoteToUnlocked()
		} else if lc.State == StateLocked && minuteQuality > 1 {
			lc.State = StateSynced
		} else if lc.State == StateSynced && minuteQuality <= 1 {
			lc.State = StateLocked
		}
	}
}

// OnTick is the 1 kHz callback: phase-drift gated promotion from
// unlocked to locked requires the observed tick to fall within ±200 ms
// of the expected second boundary (spec.md 4.8).
func (lc *LocalClock) OnTick(driftMs int) {
	lc.lastTickDriftMs = driftMs
	if lc.State != StateUnlocked {
		return
	}
	if driftMs < 200 || driftMs > 800 {
		lc.State = StateLocked
		lc.unlockedSeconds = 0
	}
}

// AdvanceOneSecond moves the published time forward by one second on
// the crystal (used while free/unlocked, and as the baseline every
// second regardless of lock state, spec.md 4.7/5).
func (lc *LocalClock) AdvanceOneSecond() {
	if lc.State == StateUseless {
		return
	}
	AdvanceSecond(lc.Time)
}

// ReadTime returns a non-blocking snapshot of the published time
// (spec.md 5, "read_time").
func (lc *LocalClock) ReadTime() *TimeData { return lc.Time.Clone() }
