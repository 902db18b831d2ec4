package desktop

import (
	"io"
	"math"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/oto/v2"
	"go.uber.org/zap"

	"nightdrive/internal/game"
)

const (
	SampleRate   = 44100
	ChannelCount = 2
	BitDepth     = 0 // 32-bit float (oto.FormatFloat32LE)

	maxVoices = 6
)

// Cue identifies one sound effect.
type Cue int

const (
	CueScore Cue = iota
	CueBoost
	CueGameOver
	CueMapSelect

	cueCount
)

// Sound plays short procedural cues for gameplay events. A nil *Sound or
// one whose device failed to open is silent.
type Sound struct {
	ctx    *oto.Context
	ready  chan struct{}
	volume float64
	voices int32
	cues   [cueCount][]byte
	log    *zap.Logger
}

// NewSound opens the audio device. Failure is returned so the caller can
// continue without sound.
func NewSound(volume float64, log *zap.Logger) (*Sound, error) {
	ctx, ready, err := oto.NewContext(SampleRate, ChannelCount, BitDepth)
	if err != nil {
		return nil, err
	}
	s := &Sound{ctx: ctx, ready: ready, volume: clamp01(volume), log: log}
	s.cues[CueScore] = genScore()
	s.cues[CueBoost] = genBoost()
	s.cues[CueGameOver] = genGameOver()
	s.cues[CueMapSelect] = genMapSelect()
	return s, nil
}

// Attach subscribes the cues to the session's event bus.
func (s *Sound) Attach(bus *game.EventBus) {
	if s == nil {
		return
	}
	bus.Subscribe(game.EventScore, func(game.Event) { s.Play(CueScore) })
	bus.Subscribe(game.EventBoost, func(game.Event) { s.Play(CueBoost) })
	bus.Subscribe(game.EventGameOver, func(game.Event) { s.Play(CueGameOver) })
	bus.Subscribe(game.EventMapChanged, func(game.Event) { s.Play(CueMapSelect) })
}

// Play starts cue on its own player goroutine.
func (s *Sound) Play(cue Cue) {
	if s == nil || cue < 0 || cue >= cueCount {
		return
	}
	select {
	case <-s.ready:
	default:
		return
	}
	if atomic.LoadInt32(&s.voices) >= maxVoices {
		return
	}
	atomic.AddInt32(&s.voices, 1)
	go func() {
		defer atomic.AddInt32(&s.voices, -1)
		player := s.ctx.NewPlayer(&soundReader{data: s.cues[cue]})
		player.SetVolume(s.volume)
		player.Play()
		for player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		if err := player.Close(); err != nil {
			s.log.Debug("close player", zap.Error(err))
		}
	}()
}

type soundReader struct {
	data []byte
	pos  int
}

func (r *soundReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

// putStereoF32 writes a [-1,1] sample as float32 LE to both stereo channels at frame i.
func putStereoF32(buf []byte, i int, sample float64) {
	v := math.Float32bits(float32(sample))
	buf[i*8] = byte(v)
	buf[i*8+1] = byte(v >> 8)
	buf[i*8+2] = byte(v >> 16)
	buf[i*8+3] = byte(v >> 24)
	buf[i*8+4] = byte(v)
	buf[i*8+5] = byte(v >> 8)
	buf[i*8+6] = byte(v >> 16)
	buf[i*8+7] = byte(v >> 24)
}

// softSat applies gentle tanh-like saturation.
func softSat(x float64) float64 {
	if x > 1.0 {
		return 1.0 - 0.5/(x)
	}
	if x < -1.0 {
		return -1.0 + 0.5/(-x)
	}
	return x - x*x*x/3.0
}

// adsr returns an envelope at normalized progress [0,1].
// attack/decay/release are fractions of the total duration.
func adsr(progress, attack, decay, sustain, release float64) float64 {
	switch {
	case progress < attack:
		return progress / attack
	case progress < attack+decay:
		return 1.0 - (progress-attack)/decay*(1.0-sustain)
	case progress < 1.0-release:
		return sustain
	default:
		return sustain * (1.0 - (progress-(1.0-release))/release)
	}
}

// fm returns an FM-synthesized sample.
func fm(t, carrier, modRatio, modIdx float64) float64 {
	mod := math.Sin(2 * math.Pi * carrier * modRatio * t)
	return math.Sin(2*math.Pi*carrier*t + modIdx*mod)
}

func makeBuf(n int) []byte { return make([]byte, n*8) }

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// ---- Cues ----------------------------------------------------------------

// genScore: short rising coin chirp.
func genScore() []byte {
	n := int(0.09 * SampleRate)
	buf := makeBuf(n)
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		p := float64(i) / float64(n)
		env := adsr(p, 0.01, 0.5, 0.0, 0.1)
		freq := 880 + 660*p
		s := fm(t, freq, 2.0, 2.5*env) * env * 0.45
		s += math.Sin(2*math.Pi*freq*3*t) * env * 0.05
		putStereoF32(buf, i, softSat(s))
	}
	return buf
}

// genBoost: ascending bell arpeggio.
func genBoost() []byte {
	freqs := []float64{523.25, 659.25, 783.99, 1046.5}
	noteLen := SampleRate * 60 / 1000
	tail := int(0.2 * SampleRate)
	total := len(freqs)*noteLen + tail
	mix := make([]float64, total)

	for fi, freq := range freqs {
		start := fi * noteLen
		dur := total - start
		for j := 0; j < dur; j++ {
			t := float64(start+j) / SampleRate
			np := float64(j) / float64(dur)
			env := adsr(np, 0.004, 0.55, 0.05, 0.35)
			mix[start+j] += fm(t, freq, 2.756, 5.0*env) * env * 0.36
		}
	}
	buf := makeBuf(total)
	for i, s := range mix {
		putStereoF32(buf, i, softSat(s))
	}
	return buf
}

// genGameOver: crunch burst into a falling minor chord.
func genGameOver() []byte {
	n := int(0.9 * SampleRate)
	notes := []struct{ freq, onset float64 }{
		{329.63, 0.05},
		{261.63, 0.18},
		{220.00, 0.31},
	}
	mix := make([]float64, n)
	seed := uint64(0x5EED)
	crunch := int(0.12 * SampleRate)
	for i := 0; i < crunch; i++ {
		seed = seed*6364136223846793005 + 1442695040888963407
		noise := float64(int64(seed>>33)-int64(1<<30)) / float64(1<<30)
		mix[i] += noise * (1 - float64(i)/float64(crunch)) * 0.5
	}
	for _, note := range notes {
		start := int(note.onset * SampleRate)
		for i := start; i < n; i++ {
			t := float64(i) / SampleRate
			np := float64(i-start) / float64(n-start)
			env := adsr(np, 0.008, 0.25, 0.3, 0.45)
			freq := note.freq * (1 - np*0.03)
			mix[i] += fm(t, freq, 2.0, 2.0*env) * env * 0.3
		}
	}
	buf := makeBuf(n)
	for i, s := range mix {
		putStereoF32(buf, i, softSat(s))
	}
	return buf
}

// genMapSelect: crisp click with a brief falling tone.
func genMapSelect() []byte {
	n := SampleRate * 65 / 1000
	buf := makeBuf(n)
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		p := float64(i) / float64(n)
		env := adsr(p, 0.004, 0.55, 0.0, 0.1)
		freq := 1400 - 700*p
		putStereoF32(buf, i, softSat(fm(t, freq, 1.0, 0.6)*env*0.38))
	}
	return buf
}
