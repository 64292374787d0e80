// Package portaudio captures mono microphone input through PortAudio.
//
// The stream is opened without any processing beyond what the host API
// applies; echo cancellation, gain control and noise suppression would
// distort the energy used for pluck detection.
package portaudio

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/cwbudde/algo-tuner/internal/capture"
)

// ErrNoDevice is returned when no input device matches.
var ErrNoDevice = errors.New("portaudio: no matching input device")

// Config selects the device and stream shape.
type Config struct {
	// Device is a case-insensitive substring of the device name. Empty
	// selects the default input.
	Device     string
	SampleRate float64 // 0 uses the device default
	BlockSize  int
	LowLatency bool
}

// Device describes an input device.
type Device struct {
	Name              string
	HostAPI           string
	MaxInputChannels  int
	DefaultSampleRate float64
	Default           bool
}

// Initialize and Terminate must be paired around all other calls. They are
// reference counted by PortAudio itself.
func Initialize() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("portaudio: initialize: %w", err)
	}
	return nil
}

// Terminate releases PortAudio.
func Terminate() error {
	if err := portaudio.Terminate(); err != nil {
		return fmt.Errorf("portaudio: terminate: %w", err)
	}
	return nil
}

// Devices lists devices that can record.
func Devices() ([]Device, error) {
	all, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("portaudio: list devices: %w", err)
	}

	def, _ := portaudio.DefaultInputDevice()

	var out []Device
	for _, d := range all {
		if d.MaxInputChannels < 1 {
			continue
		}
		dev := Device{
			Name:              d.Name,
			MaxInputChannels:  d.MaxInputChannels,
			DefaultSampleRate: d.DefaultSampleRate,
			Default:           def != nil && d.Name == def.Name,
		}
		if d.HostApi != nil {
			dev.HostAPI = d.HostApi.Name
		}
		out = append(out, dev)
	}

	return out, nil
}

// Source is a capture.Source over a PortAudio input stream. Initialize
// must have been called.
type Source struct {
	cfg    Config
	device *portaudio.DeviceInfo
	rate   float64

	mu      sync.Mutex
	stream  *portaudio.Stream
	handler capture.Handler
	running bool
	closed  bool
}

// Open resolves the device. The stream itself is opened by Start.
func Open(cfg Config) (*Source, error) {
	if cfg.BlockSize <= 0 {
		return nil, fmt.Errorf("portaudio: block size must be > 0: %d", cfg.BlockSize)
	}

	dev, err := findInput(cfg.Device)
	if err != nil {
		return nil, err
	}

	rate := cfg.SampleRate
	if rate <= 0 {
		rate = dev.DefaultSampleRate
	}

	return &Source{cfg: cfg, device: dev, rate: rate}, nil
}

// DeviceName returns the resolved device name.
func (s *Source) DeviceName() string {
	return s.device.Name
}

// SampleRate implements capture.Source.
func (s *Source) SampleRate() float64 {
	return s.rate
}

// Start implements capture.Source.
func (s *Source) Start(h capture.Handler) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return capture.ErrClosed
	}
	if s.running {
		return capture.ErrStarted
	}

	var p portaudio.StreamParameters
	if s.cfg.LowLatency {
		p = portaudio.LowLatencyParameters(s.device, nil)
	} else {
		p = portaudio.HighLatencyParameters(s.device, nil)
	}
	p.Input.Channels = 1
	p.SampleRate = s.rate
	p.FramesPerBuffer = s.cfg.BlockSize

	s.handler = h

	stream, err := portaudio.OpenStream(p, s.process)
	if err != nil {
		return fmt.Errorf("portaudio: open stream on %q: %w", s.device.Name, err)
	}

	if err := stream.Start(); err != nil {
		_ = stream.Close()
		return fmt.Errorf("portaudio: start stream: %w", err)
	}

	s.stream = stream
	s.running = true

	return nil
}

func (s *Source) process(in []float32) {
	s.handler(in, s.rate)
}

// Stop implements capture.Source. The stream is closed so a later Start
// opens a fresh one.
func (s *Source) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	stream := s.stream
	s.stream = nil

	return errors.Join(stream.Stop(), stream.Close())
}

// Close implements capture.Source.
func (s *Source) Close() error {
	err := s.Stop()

	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	return err
}

func findInput(name string) (*portaudio.DeviceInfo, error) {
	if name == "" {
		dev, err := portaudio.DefaultInputDevice()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNoDevice, err)
		}
		return dev, nil
	}

	h, err := portaudio.DefaultHostApi()
	if err != nil {
		return nil, fmt.Errorf("portaudio: host api: %w", err)
	}

	want := strings.ToLower(name)
	for _, d := range h.Devices {
		if d.MaxInputChannels > 0 && strings.Contains(strings.ToLower(d.Name), want) {
			return d, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrNoDevice, name)
}
