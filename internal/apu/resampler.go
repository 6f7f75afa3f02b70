package apu

// Resampler wraps an APU's stereo output ring buffer with adaptive rate
// matching: it watches how many stereo frames the host actually pulls
// over rolling windows and nudges a step ratio so the producer (APU.Tick,
// running at the fixed Game Boy rate) and the consumer (the host's audio
// callback, running at its own device rate) stay roughly in lockstep
// without the host ever blocking or starving.
//
// The drift-correction shape is the same one used for video frame pacing
// elsewhere in this codebase's ancestry: measure actual vs. expected
// progress over a window of samples, then apply a fraction of the
// observed drift rather than all of it, so a single noisy window can't
// cause an audible jump.
type Resampler struct {
	apu *APU

	windowFrames   int // how many pulled stereo frames make up one window
	framesThisWin  int
	targetPerWin   float64
	ratio          float64 // >1 speeds up consumption, <1 slows it down
	carry          float64
}

// NewResampler returns a resampler over apu with a ~1 second convergence
// window at the APU's configured sample rate.
func NewResampler(apu *APU) *Resampler {
	return &Resampler{
		apu:          apu,
		windowFrames: apu.sampleRate,
		targetPerWin: float64(apu.sampleRate),
		ratio:        1.0,
	}
}

// Pull returns up to `want` stereo frames (L,R interleaved int16 pairs),
// stretching or compressing the request slightly according to the
// current drift ratio, then folds the actual yield back into the drift
// measurement.
func (r *Resampler) Pull(want int) []int16 {
	adjustedWant := want
	r.carry += float64(want) * (r.ratio - 1.0)
	for r.carry >= 1.0 {
		adjustedWant++
		r.carry -= 1.0
	}
	for r.carry <= -1.0 {
		if adjustedWant > 0 {
			adjustedWant--
		}
		r.carry += 1.0
	}

	out := r.apu.PullStereo(adjustedWant)
	got := len(out) / 2

	r.framesThisWin += got
	if r.framesThisWin >= r.windowFrames {
		buffered := float64(r.apu.StereoAvailable())
		// If the ring buffer is growing, the consumer is pulling too
		// slowly relative to production: speed up slightly. If it is
		// draining, slow down. Apply only a tenth of the observed
		// imbalance per window to avoid audible rate jumps.
		target := r.targetPerWin / 8 // ~1/8s of headroom is considered balanced
		drift := (buffered - target) / r.targetPerWin
		r.ratio = 1.0 + drift/10
		if r.ratio < 0.95 {
			r.ratio = 0.95
		}
		if r.ratio > 1.05 {
			r.ratio = 1.05
		}
		r.framesThisWin = 0
	}

	return out
}

// Reset clears drift-correction state, useful after a save-state load or
// a long pause where buffered audio is no longer representative.
func (r *Resampler) Reset() {
	r.framesThisWin = 0
	r.ratio = 1.0
	r.carry = 0
}
