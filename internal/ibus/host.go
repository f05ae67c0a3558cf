//go:build linux

package ibus

import (
	"github.com/godbus/dbus/v5"
)

// Serialized forms of the IBus text and lookup table objects carried
// inside Engine interface signals.

type serializedText struct {
	Name        string
	Attachments map[string]dbus.Variant
	Text        string
}

type serializedLookupTable struct {
	Name          string
	Attachments   map[string]dbus.Variant
	PageSize      uint32
	CursorPos     uint32
	CursorVisible bool
	Round         bool
	Orientation   int32
	Candidates    []dbus.Variant
	Labels        []dbus.Variant
}

const orientationVertical = 1

// ibusText wraps a plain string as a serialized IBusText variant.
func ibusText(text string) dbus.Variant {
	return dbus.MakeVariant(serializedText{
		Name:        "IBusText",
		Attachments: map[string]dbus.Variant{},
		Text:        text,
	})
}

// ibusLookupTable builds the serialized lookup table for the candidate
// list with the cursor at cursor.
func ibusLookupTable(candidates []string, cursor int, pageSize int) dbus.Variant {
	cands := make([]dbus.Variant, len(candidates))
	for i, c := range candidates {
		cands[i] = ibusText(c)
	}
	return dbus.MakeVariant(serializedLookupTable{
		Name:          "IBusLookupTable",
		Attachments:   map[string]dbus.Variant{},
		PageSize:      uint32(pageSize),
		CursorPos:     uint32(cursor),
		CursorVisible: true,
		Round:         false,
		Orientation:   orientationVertical,
		Candidates:    cands,
		Labels:        []dbus.Variant{},
	})
}

// engineObject implements compose.HostNotifier by emitting the
// org.freedesktop.IBus.Engine signals the daemon renders.

// UpdatePreedit shows text inline at the caret.
func (o *engineObject) UpdatePreedit(text string) {
	o.emit("UpdatePreeditText", ibusText(text), uint32(len(text)), true)
}

// HidePreedit removes the inline composition text.
func (o *engineObject) HidePreedit() {
	o.emit("HidePreeditText")
}

// UpdateCandidates shows the lookup table with the cursor highlighted.
func (o *engineObject) UpdateCandidates(candidates []string, cursor int) {
	table := ibusLookupTable(candidates, cursor, len(candidates))
	o.emit("UpdateLookupTable", table, true)
}

// HideCandidates hides the lookup table.
func (o *engineObject) HideCandidates() {
	o.emit("HideLookupTable")
}

// CommitText delivers finalized text to the application.
func (o *engineObject) CommitText(text string) {
	o.emit("CommitText", ibusText(text))
}

func (o *engineObject) emit(signal string, args ...interface{}) {
	if err := o.svc.conn.Emit(o.path, EngineInterface+"."+signal, args...); err != nil {
		o.log.Debug("signal emission failed", "signal", signal, "error", err)
	}
}
