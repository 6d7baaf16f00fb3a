package radioclock

/*------------------------------------------------------------------
 *
 * Purpose: Second-index decoder (component E, spec.md 4.4). Places the
 *          tick stream into the minute using one of two binning modes:
 *          sync-mark binning before lock, convolution binning
 *          (predictive, against the encoder's forecast of the next
 *          minute) after lock.
 *
 *------------------------------------------------------------------*/

// SecondIndex tracks the minute-placement voter (K=60 bins, one per
// second) and the convolutional predictor's running match count.
type SecondIndex struct {
	proto Protocol

	bins [60]byte
	tick int

	max, noiseMax byte
	maxIndex      int

	predicting       bool
	kernel           []byte
	predictionMatch  int // per-minute running count, spec.md 4.4
	lastPredictedQty byte

	missedMarkers int // consecutive missed minute markers, SPEC_FULL.md 4 "MSF's minute-marker re-sync"
}

// NewSecondIndex allocates a fresh voter for the given protocol.
func NewSecondIndex(proto Protocol) *SecondIndex {
	return &SecondIndex{proto: proto}
}

// Reset zeroes the voter and drops any installed convolution kernel
// (called on setup and on phase_lost).
func (s *SecondIndex) Reset() {
	for i := range s.bins {
		s.bins[i] = 0
	}
	s.tick = 0
	s.max = 0
	s.noiseMax = 0
	s.maxIndex = 0
	s.predicting = false
	s.kernel = nil
	s.predictionMatch = 0
	s.missedMarkers = 0
}

// AdvanceTick rotates the cursor once per second.
func (s *SecondIndex) AdvanceTick() {
	s.tick = (s.tick + 1) % 60
}

func (s *SecondIndex) bump(offset int, amount int16) {
	idx := ((s.tick+offset)%60 + 60) % 60
	v := int16(s.bins[idx]) + amount
	if v > 255 {
		v = 255
	}
	if v < 0 {
		v = 0
	}
	s.bins[idx] = byte(v)
}

// SyncMarkBin applies the protocol's reward/punish deltas for one
// arriving tick (pre-lock mode, spec.md 4.4).
func (s *SecondIndex) SyncMarkBin(tick Tick) {
	if int(s.max) > 255-8 {
		for i := range s.bins {
			s.bins[i] = satSubU8(s.bins[i], 8)
		}
		s.noiseMax = satSubU8(s.noiseMax, 8)
	}
	for _, d := range s.proto.SyncMarkDeltas(tick) {
		s.bump(d.Offset, d.Amount)
	}
	s.computeMaxIndex()
}

func (s *SecondIndex) computeMaxIndex() {
	var max, second byte
	var maxIdx int
	for i, v := range s.bins {
		if v > max {
			second = max
			max = v
			maxIdx = i
		} else if v > second {
			second = v
		}
	}
	s.max = max
	s.noiseMax = second
	s.maxIndex = maxIdx
}

// ObserveMinuteMarker tracks consecutive misses of the expected
// minute-marker tick at decoded second 0 and reports whether the
// decoder should give up lock immediately rather than wait for the
// phase demodulator's own margin to decay (SPEC_FULL.md 4, "MSF's
// minute-marker re-sync": two consecutive misses force phase_lost).
func (s *SecondIndex) ObserveMinuteMarker(isMarker bool) (lost bool) {
	if isMarker {
		s.missedMarkers = 0
		return false
	}
	s.missedMarkers++
	if s.missedMarkers >= 2 {
		s.missedMarkers = 0
		return true
	}
	return false
}

// Locked reports whether the sync-mark voter has cleared the shared
// lock threshold.
func (s *SecondIndex) Locked() bool {
	return int(s.max)-int(s.noiseMax) >= lockMargin
}

// SecondOf returns the decoded second index: `(2*K + tick - offset -
// max_index) mod K` (spec.md 4.4).
func (s *SecondIndex) SecondOf() int {
	const k = 60
	offset := s.proto.SecondIndexOffset()
	return ((2*k + s.tick - offset - s.maxIndex) % k + k) % k
}

// InstallKernel switches to convolution binning (post-lock), using the
// encoder's forecast of the next minute as the predictive model
// (spec.md 4.4).
func (s *SecondIndex) InstallKernel(next *TimeData) {
	s.kernel = s.proto.SerializeClockStream(next)
	s.predicting = true
	s.predictionMatch = 0
}

// ConvolutionBin scores one arriving bit ("tick was a logical 1")
// against the installed kernel at wire position `pos`.
func (s *SecondIndex) ConvolutionBin(pos int, bitSet bool) {
	if !s.predicting || s.kernel == nil {
		return
	}
	want := s.proto.KernelBit(s.kernel, pos)
	if int(s.max) > 255-1 {
		for i := range s.bins {
			s.bins[i] = satSubU8(s.bins[i], 1)
		}
		s.noiseMax = satSubU8(s.noiseMax, 1)
	}
	idx := pos % 60
	if bitSet == want {
		s.bins[idx] = satAddU8(s.bins[idx], 1)
	}
	s.computeMaxIndex()
	if idx == s.maxIndex {
		s.predictionMatch++
	}
}

// FlushPredictionMatch returns the running match count buffered over
// the minute just finished (short-term quality indicator, 0..50,
// spec.md 4.4) and resets the counter for the next minute.
func (s *SecondIndex) FlushPredictionMatch() int {
	v := s.predictionMatch
	if v > 50 {
		v = 50
	}
	s.predictionMatch = 0
	return v
}

// Predicting reports whether convolution binning is currently active.
func (s *SecondIndex) Predicting() bool { return s.predicting }

// QualityFactor is the sync-mark voter's confidence.
func (s *SecondIndex) QualityFactor() byte {
	return qualityFactor(float64(s.max), float64(s.noiseMax))
}

// MaxIndex exposes the raw argmax bin, mainly for debug/tests.
func (s *SecondIndex) MaxIndex() int { return s.maxIndex }
