package audio

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	pa "github.com/gordonklaus/portaudio"
	"github.com/rs/zerolog"
)

// DefaultQueueCapacity is the default bound on the single-producer/
// single-consumer frame queue: ~3.2s of audio at 100ms frames.
const DefaultQueueCapacity = 32

var (
	ErrDeviceNotFound     = errors.New("audio: input device not found")
	ErrDeviceBusy         = errors.New("audio: input device busy")
	ErrDeviceDisconnected = errors.New("audio: input device disconnected")
	ErrAlreadyRunning     = errors.New("audio: capture already running")
	ErrNotRunning         = errors.New("audio: capture not running")
)

// FrameQueue is a bounded queue of Frames with a single producer (the
// capture callback goroutine) and a single consumer (the coordinator
// worker). A full queue drops the newest frame rather than blocking the
// producer, bumping Dropped.
type FrameQueue struct {
	ch      chan Frame
	dropped atomic.Int64
}

// NewFrameQueue creates a queue with the given capacity (DefaultQueueCapacity
// if capacity <= 0).
func NewFrameQueue(capacity int) *FrameQueue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	return &FrameQueue{ch: make(chan Frame, capacity)}
}

// Push enqueues a frame, dropping it (and incrementing Dropped) if full.
func (q *FrameQueue) Push(f Frame) {
	select {
	case q.ch <- f:
	default:
		q.dropped.Add(1)
	}
}

// Pop waits up to timeout for a frame. timeout <= 0 polls without blocking.
func (q *FrameQueue) Pop(timeout time.Duration) (Frame, bool) {
	if timeout <= 0 {
		select {
		case f := <-q.ch:
			return f, true
		default:
			return Frame{}, false
		}
	}
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case f := <-q.ch:
		return f, true
	case <-t.C:
		return Frame{}, false
	}
}

// Dropped returns the number of frames dropped for backpressure.
func (q *FrameQueue) Dropped() int64 { return q.dropped.Load() }

// CaptureConfig configures an input stream.
type CaptureConfig struct {
	SampleRate      float64
	FramesPerBuffer int
	QueueCapacity   int
}

func (c *CaptureConfig) defaults() {
	if c.SampleRate <= 0 {
		c.SampleRate = CanonicalSampleRate
	}
	if c.FramesPerBuffer <= 0 {
		c.FramesPerBuffer = 1600 // 100ms @ 16kHz
	}
	if c.QueueCapacity <= 0 {
		c.QueueCapacity = DefaultQueueCapacity
	}
}

// Capture drives a PortAudio default input stream into a bounded FrameQueue.
// PortAudio is initialized once per Start and terminated once per Stop;
// repeated init/terminate cycles without an intervening Stop are rejected
// rather than silently re-initializing the host API.
type Capture struct {
	cfg     CaptureConfig
	log     zerolog.Logger
	queue   *FrameQueue
	stream  *pa.Stream
	running atomic.Bool
	mu      sync.Mutex
}

// NewCapture constructs a Capture. It does not touch PortAudio until Start.
func NewCapture(cfg CaptureConfig, log zerolog.Logger) *Capture {
	cfg.defaults()
	return &Capture{
		cfg:   cfg,
		log:   log.With().Str("component", "audio.capture").Logger(),
		queue: NewFrameQueue(cfg.QueueCapacity),
	}
}

// Queue returns the bounded frame queue the coordinator consumes.
func (c *Capture) Queue() *FrameQueue { return c.queue }

// IsRunning reports whether the stream is currently active.
func (c *Capture) IsRunning() bool { return c.running.Load() }

// Start opens and starts the input stream, spawning the reader goroutine.
func (c *Capture) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running.Load() {
		return ErrAlreadyRunning
	}
	if err := pa.Initialize(); err != nil {
		return errors.Join(ErrDeviceNotFound, err)
	}
	buf := make([]float32, c.cfg.FramesPerBuffer)
	stream, err := pa.OpenDefaultStream(1, 0, c.cfg.SampleRate, len(buf), buf)
	if err != nil {
		pa.Terminate()
		return errors.Join(ErrDeviceBusy, err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		pa.Terminate()
		return errors.Join(ErrDeviceBusy, err)
	}
	c.stream = stream
	c.running.Store(true)
	go c.readLoop(buf)
	return nil
}

func (c *Capture) readLoop(buf []float32) {
	for c.running.Load() {
		if err := c.stream.Read(); err != nil {
			c.log.Warn().Err(err).Msg("capture stream read failed")
			c.running.Store(false)
			return
		}
		samples := make([]float32, len(buf))
		copy(samples, buf)
		frame := Frame{Samples: samples, SampleRate: int(c.cfg.SampleRate), CapturedAt: time.Now()}
		if !frame.Valid() {
			markInvalidFrame()
			continue
		}
		c.queue.Push(frame)
	}
}

// Stop stops and closes the stream and terminates PortAudio.
func (c *Capture) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running.Load() {
		return ErrNotRunning
	}
	c.running.Store(false)
	if c.stream != nil {
		c.stream.Stop()
		c.stream.Close()
	}
	pa.Terminate()
	return nil
}
