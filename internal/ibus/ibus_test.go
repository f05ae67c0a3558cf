//go:build linux

package ibus

import (
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentXML(t *testing.T) {
	xml := ComponentXML("/usr/local/bin/lipika-ibus")

	assert.Contains(t, xml, "<name>"+BusName+"</name>")
	assert.Contains(t, xml, "<name>"+EngineName+"</name>")
	assert.Contains(t, xml, "<exec>/usr/local/bin/lipika-ibus --ibus</exec>")
	assert.Contains(t, xml, "<language>ne</language>")
}

func TestIBusTextVariant(t *testing.T) {
	v := ibusText("काम")

	text, ok := v.Value().(serializedText)
	require.True(t, ok)
	assert.Equal(t, "IBusText", text.Name)
	assert.Equal(t, "काम", text.Text)
}

func TestIBusLookupTableVariant(t *testing.T) {
	v := ibusLookupTable([]string{"काम", "कम"}, 1, 10)

	table, ok := v.Value().(serializedLookupTable)
	require.True(t, ok)
	assert.Equal(t, "IBusLookupTable", table.Name)
	assert.Equal(t, uint32(1), table.CursorPos)
	assert.True(t, table.CursorVisible)
	assert.Len(t, table.Candidates, 2)

	first, ok := table.Candidates[0].Value().(serializedText)
	require.True(t, ok)
	assert.Equal(t, "काम", first.Text)

	// The table serializes to a D-Bus struct, not a dictionary.
	assert.Equal(t, dbus.SignatureOf(serializedLookupTable{}), dbus.SignatureOf(table))
}
