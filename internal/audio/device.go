package audio

import pa "github.com/gordonklaus/portaudio"

// DeviceInfo describes an available input device. Supplemented from the
// original device-enumeration surface; not exposed by any UI in this
// module, but useful to a future device picker.
type DeviceInfo struct {
	ID                string
	Name              string
	MaxInputChannels  int
	DefaultSampleRate float64
	IsDefault         bool
}

// ListDevices enumerates host audio devices with at least one input
// channel. PortAudio must already be initialized (see Capture.Start).
func ListDevices() ([]DeviceInfo, error) {
	devices, err := pa.Devices()
	if err != nil {
		return nil, err
	}
	def, _ := pa.DefaultInputDevice()
	out := make([]DeviceInfo, 0, len(devices))
	for _, d := range devices {
		if d.MaxInputChannels <= 0 {
			continue
		}
		out = append(out, DeviceInfo{
			ID:                d.Name,
			Name:              d.Name,
			MaxInputChannels:  d.MaxInputChannels,
			DefaultSampleRate: d.DefaultSampleRate,
			IsDefault:         def != nil && def.Name == d.Name,
		})
	}
	return out, nil
}

// DefaultDevice returns the system default input device.
func DefaultDevice() (DeviceInfo, error) {
	d, err := pa.DefaultInputDevice()
	if err != nil {
		return DeviceInfo{}, err
	}
	return DeviceInfo{
		ID:                d.Name,
		Name:              d.Name,
		MaxInputChannels:  d.MaxInputChannels,
		DefaultSampleRate: d.DefaultSampleRate,
		IsDefault:         true,
	}, nil
}
