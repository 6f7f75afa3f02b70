package ui

import (
	"encoding/binary"
	"time"

	"github.com/eamonbaird/dmgcore/internal/emu"
)

// applyPlayerBufferSize sets the audio player's internal buffer to a small size for low latency.
// Ebiten exposes Player.SetBufferSize; we pick:
// - ~20ms in low-latency (or during fast-forward)
// - ~40ms otherwise
func (a *App) applyPlayerBufferSize() {
	if a.audioPlayer == nil {
		return
	}
	bufMs := 40
	if a.cfg.AudioLowLatency || a.fast {
		bufMs = 20
	}
	a.audioPlayer.SetBufferSize(time.Duration(bufMs) * time.Millisecond)
}

// recreateAudioPlayer tears down the current ebiten audio player (if any) and
// builds a fresh one against a new apuStream, used both for first-time setup
// and whenever a setting that the stream captures at construction (stereo
// mode, low-latency mode) changes mid-session.
func (a *App) recreateAudioPlayer() {
	if a.audioPlayer != nil {
		a.audioPlayer.Close()
		a.audioPlayer = nil
	}
	a.audioSrc = &apuStream{m: a.m, mono: !a.cfg.AudioStereo, muted: &a.audioMuted, lowLatency: a.cfg.AudioLowLatency}
	if p, err := a.audioCtx.NewPlayer(a.audioSrc); err == nil {
		a.audioPlayer = p
		a.applyPlayerBufferSize()
		a.audioPlayer.Play()
	}
}

// apuStream implements io.Reader by pulling PCM samples from the emulator APU and
// converting them to 16-bit little-endian stereo frames.
type apuStream struct {
	m          *emu.Machine
	mono       bool
	muted      *bool
	lowLatency bool
	// stats
	underruns  int
	lastWant   int
	lastPulled int
}

// writeSilence fills up to n stereo frames (4 bytes each) of p with zeroed
// samples and returns the byte count written, capped by len(p).
func writeSilence(p []byte, n int) int {
	end := n * 4
	if end > len(p) {
		end = len(p) &^ 3
	}
	for i := 0; i < end; i += 4 {
		binary.LittleEndian.PutUint16(p[i:], 0)
		binary.LittleEndian.PutUint16(p[i+2:], 0)
	}
	return end
}

// writeFrame encodes one stereo sample pair into p at byte offset i,
// folding to mono by averaging when the stream is configured for it.
func writeFrame(p []byte, i int, l, r int16, mono bool) {
	if mono {
		m := int16((int32(l) + int32(r)) / 2)
		binary.LittleEndian.PutUint16(p[i:], uint16(m))
		binary.LittleEndian.PutUint16(p[i+2:], uint16(m))
		return
	}
	binary.LittleEndian.PutUint16(p[i:], uint16(l))
	binary.LittleEndian.PutUint16(p[i+2:], uint16(r))
}

// underrunSilence records an underrun and fills p with up to maxReq frames
// of silence, used whenever the APU's ring buffer can't satisfy a read.
func (s *apuStream) underrunSilence(p []byte, frames, maxReq int) (int, error) {
	if frames > maxReq {
		frames = maxReq
	}
	n := writeSilence(p, frames)
	s.underruns++
	s.lastWant, s.lastPulled = frames, frames
	return n, nil
}

func (s *apuStream) Read(p []byte) (int, error) {
	if len(p) == 0 || s == nil || s.m == nil {
		return 0, nil
	}
	// If buffer is smaller than a full stereo frame (4 bytes), fill with silence to avoid returning 0 bytes.
	if len(p) < 4 {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}
	if s.muted != nil && *s.muted {
		writeSilence(p, len(p)/4)
		time.Sleep(5 * time.Millisecond)
		return len(p), nil
	}
	// Each frame is 4 bytes (stereo int16). Limit per-read to a small cap to avoid over-buffering.
	maxReq := len(p) / 4
	capFrames := 2048 // ~42.7ms at 48kHz
	if s.lowLatency {
		capFrames = 1024 // ~21.3ms
	}
	if maxReq > capFrames {
		maxReq = capFrames
	}

	// Prefer to read only what's currently buffered to avoid padding, with a short wait.
	waitDur := 15 * time.Millisecond
	if s.lowLatency {
		waitDur = 8 * time.Millisecond
	}
	deadline := time.Now().Add(waitDur)
	want := maxReq
	if buf := s.m.APUBufferedStereo(); buf > 0 {
		if buf < want {
			want = buf
		}
	} else {
		// No data buffered yet: wait briefly for some to arrive
		for time.Now().Before(deadline) {
			if b := s.m.APUBufferedStereo(); b > 0 {
				want = b
				if want > maxReq {
					want = maxReq
				}
				break
			}
			time.Sleep(1 * time.Millisecond)
		}
	}
	if want <= 0 { // still nothing: counts as underrun
		return s.underrunSilence(p, 256, maxReq)
	}

	// Pull and convert exactly 'want' frames. Do not pad beyond what we pulled.
	pulled := 0
	i := 0
	for pulled < want {
		frames := s.m.APUPullStereo(want - pulled)
		if len(frames) == 0 {
			break
		}
		for j := 0; j+1 < len(frames) && i+3 < len(p); j += 2 {
			writeFrame(p, i, int16(frames[j]), int16(frames[j+1]), s.mono)
			i += 4
			pulled++
		}
	}
	if pulled == 0 {
		// Fallback: avoid stalling the audio callback, count as underrun.
		return s.underrunSilence(p, 128, maxReq)
	}
	s.lastWant = pulled
	s.lastPulled = pulled
	return pulled * 4, nil
}
