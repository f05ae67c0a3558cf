package compose

// IBus key event state masks.
const (
	ShiftMask   uint32 = 1 << 0
	LockMask    uint32 = 1 << 1
	ControlMask uint32 = 1 << 2
	Mod1Mask    uint32 = 1 << 3 // Alt
	Mod4Mask    uint32 = 1 << 6 // Super/Meta
	ReleaseMask uint32 = 1 << 30
)

// X11/GDK key symbols the router dispatches on.
const (
	KeySpace     = 0x0020
	KeyBackSpace = 0xff08
	KeyTab       = 0xff09
	KeyReturn    = 0xff0d
	KeyEscape    = 0xff1b
	KeyUp        = 0xff52
	KeyDown      = 0xff54
)

// KeyvalToRune converts an X11 keysym to the rune it produces,
// or 0 for non-character keys.
func KeyvalToRune(keyval uint32) rune {
	// Direct Unicode mapping for the printable ASCII range
	if keyval >= 0x20 && keyval <= 0x7e {
		return rune(keyval)
	}

	// Extended Latin (ISO 8859-1)
	if keyval >= 0xa0 && keyval <= 0xff {
		return rune(keyval)
	}

	// Unicode keysyms (0x01000000 + codepoint)
	if keyval >= 0x01000000 {
		return rune(keyval - 0x01000000)
	}

	return 0
}

// immediateCommitKey reports whether the keysym commits the running
// composition on its own: sentence punctuation and plain digits end the
// current word and are transliterated immediately.
func immediateCommitKey(keyval uint32) bool {
	switch keyval {
	case '.', ',', '?':
		return true
	}
	return keyval >= '0' && keyval <= '9'
}
