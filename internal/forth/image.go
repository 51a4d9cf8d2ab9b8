package forth

import (
	"encoding/json"
	"fmt"
	"io"
)

// imageVersion guards against loading snapshots written by an
// incompatible engine.
const imageVersion = 1

// coreImage is the serialized snapshot of an engine's restorable state.
// Builtins are reinstalled on load rather than serialized, and the stack
// position deliberately does not persist across loads.
type coreImage struct {
	Version   int                 `json:"version"`
	CoreSize  int                 `json:"core_size"`
	Constants map[string]Cell     `json:"constants"`
	Words     map[string][]string `json:"words"`
}

// SaveImage writes a core image of the engine to sink.
func (f *Forth) SaveImage(sink io.Writer) error {
	f.check(!f.released)
	img := coreImage{
		Version:   imageVersion,
		CoreSize:  f.cfg.CoreSize,
		Constants: make(map[string]Cell),
		Words:     make(map[string][]string),
	}
	for name, w := range f.dict {
		switch {
		case w.constant:
			img.Constants[name] = w.value
		case w.body != nil:
			img.Words[name] = w.body
		}
	}
	if err := json.NewEncoder(sink).Encode(img); err != nil {
		return fmt.Errorf("save core image: %w", err)
	}
	return nil
}

// LoadImage restores an engine from a core image previously written by
// SaveImage. The restored engine starts with an empty stack.
func LoadImage(source io.Reader) (*Forth, error) {
	var img coreImage
	if err := json.NewDecoder(source).Decode(&img); err != nil {
		return nil, fmt.Errorf("load core image: %w", err)
	}
	if img.Version != imageVersion {
		return nil, fmt.Errorf("load core image: unsupported version %d", img.Version)
	}
	f, err := New(Config{CoreSize: img.CoreSize})
	if err != nil {
		return nil, fmt.Errorf("load core image: %w", err)
	}
	for name, v := range img.Constants {
		f.dict[name] = &word{constant: true, value: v}
	}
	for name, body := range img.Words {
		f.dict[name] = &word{body: body}
	}
	return f, nil
}
