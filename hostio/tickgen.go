package hostio

/*------------------------------------------------------------------
 *
 * Purpose: Host realization of the 1 kHz tick generator interface
 *          (component L). On a hosted OS there is no privileged ISR,
 *          so this drives the cadence with a high-resolution sleep
 *          loop and raises the process's scheduling priority so the
 *          OS scheduler doesn't starve it. Grounded on ptt.go's
 *          golang.org/x/sys/unix usage for low-level OS interaction.
 *
 *------------------------------------------------------------------*/

import (
	"time"

	"golang.org/x/sys/unix"
)

// tickInterval is the nominal 1 kHz period; RadioClock_Frequency_Control
// steers the effective reload via AdjustReload.
const tickInterval = time.Millisecond

// SampleSource is anything that can report the current carrier
// off/on state, e.g. GPIOLine or AudioCarrierDetect.
type SampleSource interface {
	Sample() bool
}

// HostTickGenerator paces a SampleSource at (approximately) 1 kHz using
// a sleep loop, applying small reload adjustments requested by
// frequency control.
type HostTickGenerator struct {
	source   SampleSource
	interval time.Duration
	stepNs   time.Duration
}

// NewHostTickGenerator raises the calling process's scheduling priority
// (best-effort; requires privilege, ignored otherwise) and returns a
// generator wrapping source.
func NewHostTickGenerator(source SampleSource) *HostTickGenerator {
	_ = unix.Setpriority(unix.PRIO_PROCESS, 0, -10)
	return &HostTickGenerator{source: source, interval: tickInterval}
}

// Sample blocks until the next tick boundary, then samples the source.
// This is the busy-wait spin spec.md 5 permits only at the foreground
// API (get_time); here it is the driving loop itself, not inside an
// ISR, so it is the intended use.
func (h *HostTickGenerator) Sample() bool {
	time.Sleep(h.interval + h.stepNs)
	h.stepNs = 0
	return h.source.Sample()
}

// AdjustReload steers the next tick's sleep by one 4 us step, matching
// FrequencyControl.Tick's reloadStepDelta convention.
func (h *HostTickGenerator) AdjustReload(stepDelta int) {
	h.stepNs = time.Duration(stepDelta) * 4 * time.Microsecond
}
