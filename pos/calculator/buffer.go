package calculator

// Keys lists the calculator keypad in display order
var Keys = []string{
	"7", "8", "9", "+",
	"4", "5", "6", "-",
	"1", "2", "3", "x",
	"C", "/", "0", "=",
}

// Buffer accumulates key presses until '=' evaluates them.
// The zero value is an empty buffer.
type Buffer struct {
	text string
}

// IsKey reports whether key is on the keypad
func IsKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

// Press appends key to the buffer, handling the C and = keys. Keys that are
// not on the keypad are ignored. It returns what the display shows afterwards.
func (b *Buffer) Press(key string) string {
	if !IsKey(key) {
		return b.text
	}
	switch key {
	case "C":
		b.Clear()
		return ""
	case "=":
		return b.Equals()
	default:
		b.text += key
		return b.text
	}
}

// Equals evaluates the buffer and empties it
func (b *Buffer) Equals() string {
	result := Display(b.text)
	b.text = ""
	return result
}

// Clear empties the buffer
func (b *Buffer) Clear() {
	b.text = ""
}

// Text returns the pending input
func (b *Buffer) Text() string {
	return b.text
}
