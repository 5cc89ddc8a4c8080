package editor

// Mode represents the current editor mode.
type Mode int

const (
	ModeCommand Mode = iota
	ModeInsert
)

func (m Mode) String() string {
	if m == ModeInsert {
		return "Insert"
	}
	return "Command"
}
