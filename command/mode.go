package command

import "fmt"

// Mode is the execution protocol of a command kind. It is fixed per kind.
type Mode uint8

const (
	// LineByLine commands transform each input line as it arrives.
	LineByLine Mode = iota + 1
	// CompleteInput commands need the whole input before writing anything.
	CompleteInput
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case LineByLine:
		return "LineByLine"
	case CompleteInput:
		return "CompleteInput"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the mode by name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText decodes a mode name written by MarshalText.
func (m *Mode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "LineByLine":
		*m = LineByLine
	case "CompleteInput":
		*m = CompleteInput
	default:
		return fmt.Errorf("unknown mode %q", text)
	}
	return nil
}
