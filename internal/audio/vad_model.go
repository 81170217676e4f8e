package audio

import (
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

var (
	ortOnce sync.Once
	ortErr  error
)

func ensureOnnxRuntime(libPath string) error {
	ortOnce.Do(func() {
		if libPath != "" {
			ort.SetSharedLibraryPath(libPath)
		}
		ortErr = ort.InitializeEnvironment()
	})
	return ortErr
}

// OnnxSpeechModelConfig points at a frame-level speech-presence ONNX model
// and the shared ONNX Runtime library backing it.
type OnnxSpeechModelConfig struct {
	ModelPath string  // e.g. "models/vad.onnx"
	OnnxLib   string  // e.g. "bin/libonnxruntime.so"
	Threshold float64 // score >= threshold marks the frame as speech (default 0.5)
}

func (c *OnnxSpeechModelConfig) defaults() {
	if c.Threshold <= 0 {
		c.Threshold = 0.5
	}
}

// OnnxSpeechModel implements SpeechModel by running a single-output ONNX
// model over each frame's raw samples and thresholding its score. The
// session is built lazily against the first frame's length, matching the
// fixed-shape-tensor session construction the wakeword pipeline uses.
type OnnxSpeechModel struct {
	cfg OnnxSpeechModelConfig

	mu      sync.Mutex
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
}

// NewOnnxSpeechModel constructs a model runner; the ONNX session itself is
// opened on the first call to Detect so construction never touches disk.
func NewOnnxSpeechModel(cfg OnnxSpeechModelConfig) *OnnxSpeechModel {
	cfg.defaults()
	return &OnnxSpeechModel{cfg: cfg}
}

func (m *OnnxSpeechModel) open(frameLen int) error {
	if m.session != nil {
		return nil
	}
	if err := ensureOnnxRuntime(m.cfg.OnnxLib); err != nil {
		return fmt.Errorf("onnx runtime init: %w", err)
	}

	in, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(frameLen)))
	if err != nil {
		return fmt.Errorf("allocating vad input tensor: %w", err)
	}
	out, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 1))
	if err != nil {
		in.Destroy()
		return fmt.Errorf("allocating vad output tensor: %w", err)
	}

	inInfo, outInfo, err := ort.GetInputOutputInfo(m.cfg.ModelPath)
	if err != nil {
		in.Destroy()
		out.Destroy()
		return fmt.Errorf("inspecting vad model: %w", err)
	}
	sess, err := ort.NewAdvancedSession(
		m.cfg.ModelPath,
		[]string{inInfo[0].Name}, []string{outInfo[0].Name},
		[]ort.Value{in}, []ort.Value{out},
		nil,
	)
	if err != nil {
		in.Destroy()
		out.Destroy()
		return fmt.Errorf("opening vad session: %w", err)
	}

	m.input, m.output, m.session = in, out, sess
	return nil
}

// Detect runs the model over samples and reports a single full-frame
// interval when the score clears the configured threshold, matching the
// component contract's "speech iff the model returns any interval" rule.
func (m *OnnxSpeechModel) Detect(samples []float32, sampleRate int) ([]ModelInterval, error) {
	if len(samples) == 0 {
		return nil, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.open(len(samples)); err != nil {
		return nil, err
	}
	copy(m.input.GetData(), samples)
	if err := m.session.Run(); err != nil {
		return nil, fmt.Errorf("running vad session: %w", err)
	}
	score := m.output.GetData()[0]
	if float64(score) < m.cfg.Threshold {
		return nil, nil
	}
	return []ModelInterval{{StartSec: 0, EndSec: float64(len(samples)) / float64(sampleRate)}}, nil
}

// Close releases the ONNX session and its tensors. Safe to call even if
// Detect was never called.
func (m *OnnxSpeechModel) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session != nil {
		m.session.Destroy()
		m.session = nil
	}
	if m.input != nil {
		m.input.Destroy()
		m.input = nil
	}
	if m.output != nil {
		m.output.Destroy()
		m.output = nil
	}
	return nil
}
