package ml

import "fmt"

type Label int

const (
	Reliable Label = iota
	Unreliable
)

// LabelFromRaw maps a raw classifier output to a Label: 0 is reliable,
// anything else is unreliable.
func LabelFromRaw(raw int) Label {
	if raw == 0 {
		return Reliable
	}
	return Unreliable
}

func (l Label) String() string {
	switch l {
	case Reliable:
		return "reliable"
	case Unreliable:
		return "unreliable"
	default:
		return fmt.Sprintf("label(%d)", int(l))
	}
}

func (l Label) MarshalText() ([]byte, error) {
	switch l {
	case Reliable, Unreliable:
		return []byte(l.String()), nil
	default:
		return nil, fmt.Errorf("invalid label %d", int(l))
	}
}

func (l *Label) UnmarshalText(text []byte) error {
	switch string(text) {
	case "reliable":
		*l = Reliable
	case "unreliable":
		*l = Unreliable
	default:
		return fmt.Errorf("invalid label %q", text)
	}
	return nil
}
