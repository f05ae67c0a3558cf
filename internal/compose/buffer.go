package compose

// Buffer holds the raw romanized text typed since the last commit or
// cancel. An empty buffer means "not composing".
type Buffer struct {
	runes []rune
}

// NewBuffer creates an empty composition buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Accepted reports whether ch is inside the input alphabet. The engine
// accepts the full printable ASCII range so that romanized punctuation
// sequences remain composable.
func Accepted(ch rune) bool {
	return ch >= 0x20 && ch <= 0x7e
}

// Append adds ch to the end of the buffer. It reports false, leaving the
// buffer untouched, when ch is outside the accepted alphabet.
func (b *Buffer) Append(ch rune) bool {
	if !Accepted(ch) {
		return false
	}
	b.runes = append(b.runes, ch)
	return true
}

// Backspace removes the last codepoint. It reports false on an empty
// buffer, in which case the host should handle the backspace itself.
func (b *Buffer) Backspace() bool {
	if len(b.runes) == 0 {
		return false
	}
	b.runes = b.runes[:len(b.runes)-1]
	return true
}

// Clear empties the buffer.
func (b *Buffer) Clear() {
	b.runes = b.runes[:0]
}

// IsEmpty reports whether nothing is being composed.
func (b *Buffer) IsEmpty() bool {
	return len(b.runes) == 0
}

// Len returns the number of codepoints in the buffer.
func (b *Buffer) Len() int {
	return len(b.runes)
}

func (b *Buffer) String() string {
	return string(b.runes)
}
