package layout

import (
	"encoding/json"
	"fmt"
)

// Wire names of the change variants.
const (
	KindWindowsChanged = "windowsChanged"
	KindCommand        = "command"
	KindResizedMain    = "resizedMain"
	KindHardReset      = "hardReset"
	KindUnknown        = "unknown"
)

type changeEnvelope struct {
	Type        string   `json:"type"`
	Windows     *[]Window `json:"windows,omitempty"`
	Command     string    `json:"command,omitempty"`
	Delta       *float64  `json:"delta,omitempty"`
	ScreenWidth float64   `json:"screenWidth,omitempty"`
}

// ChangeKind returns the wire name of c, or KindUnknown.
func ChangeKind(c Change) string {
	switch c.(type) {
	case WindowsChanged:
		return KindWindowsChanged
	case CommandIssued:
		return KindCommand
	case ResizedMain:
		return KindResizedMain
	case HardReset:
		return KindHardReset
	default:
		return KindUnknown
	}
}

// DecodeChange parses a JSON change such as {"type":"command","command":"expandMain"}.
// A missing or unrecognised type decodes to a nil Change, which every
// strategy treats as no change. So does a windowsChanged without a windows
// array and a resizedMain without a delta. Only malformed JSON is an error.
func DecodeChange(data []byte) (Change, error) {
	var env changeEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode change: %w", err)
	}
	switch env.Type {
	case KindWindowsChanged:
		if env.Windows == nil {
			return nil, nil
		}
		return WindowsChanged{Windows: *env.Windows}, nil
	case KindCommand:
		return CommandIssued{Command: env.Command}, nil
	case KindResizedMain:
		if env.Delta == nil {
			return nil, nil
		}
		return ResizedMain{Delta: *env.Delta, ScreenWidth: env.ScreenWidth}, nil
	case KindHardReset:
		return HardReset{}, nil
	default:
		return nil, nil
	}
}

// EncodeChange is the inverse of DecodeChange.
func EncodeChange(c Change) ([]byte, error) {
	env := changeEnvelope{Type: ChangeKind(c)}
	switch c := c.(type) {
	case WindowsChanged:
		windows := c.Windows
		if windows == nil {
			windows = []Window{}
		}
		env.Windows = &windows
	case CommandIssued:
		env.Command = c.Command
	case ResizedMain:
		env.Delta = &c.Delta
		env.ScreenWidth = c.ScreenWidth
	case HardReset:
	default:
		return nil, fmt.Errorf("encode change: unsupported %T", c)
	}
	return json.Marshal(env)
}
