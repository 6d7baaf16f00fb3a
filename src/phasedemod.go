package radioclock

/*------------------------------------------------------------------
 *
 * Purpose: Phase demodulator (spec.md 4.2). Bins 1000 samples/second
 *          into 100 phase slots at 10 ms resolution, finds the 200 ms
 *          (or, for MSF, up to 500 ms) signal window, and reports a
 *          sync quality. Grounded on demod_9600.go's per-sample entry
 *          point and envelope-tracking style (IIR attractor, not a
 *          buffered block transform).
 *
 *------------------------------------------------------------------*/

// PhaseBinCount is the number of 10 ms slots spanning one second.
const PhaseBinCount = 100

// samplesPerBin is how many raw 1 kHz samples are decimated, by
// majority vote, into one phase-bin update.
const samplesPerBin = 10

// PhaseKernelTap is one weighted tap of a phase-detection integration
// kernel (spec.md 4.2): an offset from the hypothesised second start,
// in 10 ms bins, and the weight applied to that bin's count.
type PhaseKernelTap struct {
	Offset int
	Weight uint32
}

// DCF77PhaseKernel models a 100 ms strong + 100 ms tail signal window:
// bins 0..9 weight 2, bins 10..19 weight 1.
var DCF77PhaseKernel = buildUniformKernel([]kernelSeg{{0, 10, 2}, {10, 10, 1}})

// MSFPhaseKernel is the weighted 59/34/8 kernel over three 100 ms
// segments, normative for MSF per spec.md 4.2/9 (the envelope of a
// regular second vs. a 500 ms minute marker).
var MSFPhaseKernel = buildUniformKernel([]kernelSeg{{0, 10, 59}, {10, 10, 34}, {20, 10, 8}})

type kernelSeg struct {
	start, n int
	weight   uint32
}

func buildUniformKernel(segs []kernelSeg) []PhaseKernelTap {
	var taps []PhaseKernelTap
	for _, seg := range segs {
		for i := 0; i < seg.n; i++ {
			taps = append(taps, PhaseKernelTap{Offset: seg.start + i, Weight: seg.weight})
		}
	}
	return taps
}

// shadowOffsetBins is the "shadow window", 200 ms after the located
// window, used to compute noise_max (spec.md 4.2).
const shadowOffsetBins = 20

// PhaseDemod is the per-channel phase demodulator state.
type PhaseDemod struct {
	kernel []PhaseKernelTap

	bins   [PhaseBinCount]uint16
	cap    uint16 // N: 300 normally, 3600 once the crystal is tuned
	cursor int

	subCount int
	subOnes  int

	curSecond [PhaseBinCount]bool // this second's decimated bits, for the tick classifier

	max      uint32
	noiseMax uint32
	maxIndex int
}

// NewPhaseDemod creates a demodulator using the given kernel (DCF77 or
// MSF, see above).
func NewPhaseDemod(kernel []PhaseKernelTap) *PhaseDemod {
	return &PhaseDemod{kernel: kernel, cap: 300}
}

// Reset zeroes the long-term ring. Called on setup.
func (p *PhaseDemod) Reset() {
	for i := range p.bins {
		p.bins[i] = 0
	}
	p.cursor = 0
	p.subCount = 0
	p.subOnes = 0
	p.max = 0
	p.noiseMax = 0
	p.maxIndex = 0
}

// SetTunedCrystal raises the saturation cap once the crystal has been
// trimmed (spec.md 3, GLOSSARY "Tuned crystal"), slowing adaptation so
// the long-term ring tracks slow drift rather than transient noise.
func (p *PhaseDemod) SetTunedCrystal(tuned bool) {
	if tuned {
		p.cap = 3600
	} else {
		p.cap = 300
	}
}

// Sample feeds one 1 kHz carrier-off/on sample. Returns true exactly
// once every 1000 samples (100 phase bins of 10 samples each), when a
// completed current-second snapshot becomes available.
func (p *PhaseDemod) Sample(carrierOff bool) (secondComplete bool) {
	if carrierOff {
		p.subOnes++
	}
	p.subCount++
	if p.subCount < samplesPerBin {
		return false
	}

	majorityOff := p.subOnes*2 >= samplesPerBin
	p.curSecond[p.cursor] = majorityOff
	if majorityOff {
		p.bins[p.cursor] = satAddU16(p.bins[p.cursor], 1, p.cap)
	} else {
		p.bins[p.cursor] = satAddU16(p.bins[p.cursor], -1, p.cap)
	}

	p.cursor++
	p.subCount = 0
	p.subOnes = 0

	if p.cursor == PhaseBinCount {
		p.cursor = 0
		return true
	}
	return false
}

// Detect runs the sliding weighted integral over the long-term ring and
// locates the deepest signal window. Call once per second, after
// Sample() reports secondComplete.
func (p *PhaseDemod) Detect() {
	sums := make([]uint32, PhaseBinCount)
	var bestIdx int
	var bestVal uint32
	for start := 0; start < PhaseBinCount; start++ {
		var sum uint32
		for _, tap := range p.kernel {
			idx := (start + tap.Offset) % PhaseBinCount
			sum += uint32(p.bins[idx]) * tap.Weight
		}
		sums[start] = sum
		if sum > bestVal {
			bestVal = sum
			bestIdx = start
		}
	}
	shadow := (bestIdx + shadowOffsetBins) % PhaseBinCount
	p.max = bestVal
	p.noiseMax = sums[shadow]
	p.maxIndex = bestIdx
}

// QualityFactor is the phase lock's SNR-like confidence.
func (p *PhaseDemod) QualityFactor() byte {
	return qualityFactor(float64(p.max), float64(p.noiseMax))
}

// MaxIndex is the located start-of-second offset, in 10 ms bins.
func (p *PhaseDemod) MaxIndex() int { return p.maxIndex }

// Locked reports whether the current max/noise_max margin clears the
// lock threshold used throughout this package (12, spec.md 4.4).
func (p *PhaseDemod) Locked() bool {
	return int(p.max)-int(p.noiseMax) >= lockMargin
}

// CurrentSecondBins returns the just-completed second's decimated
// 10 ms-resolution samples (true = carrier off / low), indexed 0..99
// relative to the ring, for the tick classifier to interpret relative
// to MaxIndex().
func (p *PhaseDemod) CurrentSecondBins() [PhaseBinCount]bool {
	return p.curSecond
}

// lockMargin is the max-noise_max threshold that declares a lock,
// shared by the phase demodulator and the second-index decoder
// (spec.md 4.4).
const lockMargin = 12
