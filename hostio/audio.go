package hostio

/*------------------------------------------------------------------
 *
 * Purpose: Audio-card carrier-detect input, for setups that demodulate
 *          the longwave receiver's beat-frequency output through a
 *          sound card rather than a GPIO pin. Grounded on go.mod's
 *          gordonklaus/portaudio and demod_9600.go's per-sample
 *          envelope style (an IIR attractor rather than an FFT block).
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"math"

	"github.com/gordonklaus/portaudio"
)

// AudioCarrierDetect demodulates a mono audio stream into carrier
// off/on samples via a simple rectify-and-decay envelope follower,
// resampled to the 1 kHz tick rate the core expects.
type AudioCarrierDetect struct {
	stream *portaudio.Stream
	buf    []float32

	envelope   float64
	threshold  float64
	sampleRate float64
	perTick    int
	cursor     int
}

// OpenAudioCarrierDetect opens the named input device (the system
// default if deviceName is empty) at the given sample rate.
func OpenAudioCarrierDetect(deviceName string, sampleRate float64, threshold float64) (*AudioCarrierDetect, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("hostio: portaudio init: %w", err)
	}

	dev, err := resolveInputDevice(deviceName)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}

	a := &AudioCarrierDetect{
		threshold:  threshold,
		sampleRate: sampleRate,
		perTick:    int(sampleRate / 1000),
		buf:        make([]float32, int(sampleRate/1000)),
	}
	if a.perTick < 1 {
		a.perTick = 1
	}

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   dev,
			Channels: 1,
			Latency:  dev.DefaultLowInputLatency,
		},
		SampleRate:      sampleRate,
		FramesPerBuffer: a.perTick,
	}
	stream, err := portaudio.OpenStream(params, a.buf)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("hostio: open audio stream: %w", err)
	}
	a.stream = stream
	return a, a.stream.Start()
}

func resolveInputDevice(name string) (*portaudio.DeviceInfo, error) {
	if name == "" {
		return portaudio.DefaultInputDevice()
	}
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	for _, d := range devices {
		if d.Name == name && d.MaxInputChannels > 0 {
			return d, nil
		}
	}
	return nil, fmt.Errorf("hostio: no input device named %q", name)
}

// Sample reads one tick's worth of audio frames and reports whether
// the rectified envelope fell below threshold (carrier off).
func (a *AudioCarrierDetect) Sample() bool {
	if err := a.stream.Read(); err != nil {
		return false
	}
	var peak float64
	for _, s := range a.buf {
		v := math.Abs(float64(s))
		a.envelope = a.envelope*0.9 + v*0.1
		if a.envelope > peak {
			peak = a.envelope
		}
	}
	return peak < a.threshold
}

// AdjustReload is a no-op: the sample clock is the sound card's, not
// something frequency control can steer directly.
func (a *AudioCarrierDetect) AdjustReload(stepDelta int) {}

// Close stops the stream and releases portaudio.
func (a *AudioCarrierDetect) Close() error {
	err := a.stream.Close()
	portaudio.Terminate()
	return err
}
