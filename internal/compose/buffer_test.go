package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferAppend(t *testing.T) {
	b := NewBuffer()

	for _, ch := range "namaste" {
		assert.True(t, b.Append(ch))
	}
	assert.Equal(t, "namaste", b.String())
	assert.Equal(t, 7, b.Len())
}

func TestBufferRejectsOutsideAlphabet(t *testing.T) {
	b := NewBuffer()

	assert.False(t, b.Append('\n'))
	assert.False(t, b.Append('\t'))
	assert.False(t, b.Append(0x1b))
	assert.False(t, b.Append('क')) // क: already target script
	assert.True(t, b.IsEmpty(), "rejected input leaves the buffer untouched")

	// The whole printable ASCII range is accepted.
	assert.True(t, b.Append(' '))
	assert.True(t, b.Append('~'))
	assert.True(t, b.Append('\''))
}

func TestBufferBackspace(t *testing.T) {
	b := NewBuffer()

	assert.False(t, b.Backspace(), "empty buffer: host handles the backspace")

	b.Append('k')
	b.Append('a')
	assert.True(t, b.Backspace())
	assert.Equal(t, "k", b.String())
	assert.True(t, b.Backspace())
	assert.True(t, b.IsEmpty())
	assert.False(t, b.Backspace())
}

func TestBufferClearIdempotent(t *testing.T) {
	b := NewBuffer()
	b.Append('k')

	b.Clear()
	assert.True(t, b.IsEmpty())
	b.Clear()
	assert.True(t, b.IsEmpty())
}

func TestKeyvalToRune(t *testing.T) {
	assert.Equal(t, 'a', KeyvalToRune('a'))
	assert.Equal(t, ' ', KeyvalToRune(0x20))
	assert.Equal(t, '~', KeyvalToRune(0x7e))
	assert.Equal(t, rune(0), KeyvalToRune(0xff0d), "Return is not a character")
	assert.Equal(t, rune(0), KeyvalToRune(0xffe1), "Shift is not a character")
	assert.Equal(t, 'क', KeyvalToRune(0x01000915), "Unicode keysym offset")
}
