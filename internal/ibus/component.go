//go:build linux

package ibus

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/godbus/dbus/v5"
)

const componentVersion = "1.0.0"

// serializedEngineDesc is the wire form of an IBus engine description.
type serializedEngineDesc struct {
	Name        string
	Attachments map[string]dbus.Variant
	EngineName  string
	Longname    string
	Description string
	Language    string
	License     string
	Author      string
	Icon        string
	Layout      string
	Rank        uint32
}

// serializedComponent is the wire form of an IBus component.
type serializedComponent struct {
	Name          string
	Attachments   map[string]dbus.Variant
	ComponentName string
	Description   string
	Version       string
	License       string
	Author        string
	Homepage      string
	Exec          string
	Textdomain    string
	Observed      []dbus.Variant
	Engines       []dbus.Variant
}

func engineDesc() dbus.Variant {
	return dbus.MakeVariant(serializedEngineDesc{
		Name:        "IBusEngineDesc",
		Attachments: map[string]dbus.Variant{},
		EngineName:  EngineName,
		Longname:    "Lipika",
		Description: "Romanized Nepali to Devanagari with auto-completion",
		Language:    "ne",
		License:     "MIT",
		Author:      "Lipika",
		Icon:        "lipika",
		Layout:      "us",
		Rank:        99,
	})
}

// registerComponent announces the component to the running IBus daemon
// directly, bypassing the installed component XML.
func (s *Service) registerComponent() error {
	exec, err := os.Executable()
	if err != nil {
		exec = "/usr/local/bin/lipika-ibus"
	}

	component := dbus.MakeVariant(serializedComponent{
		Name:          "IBusComponent",
		Attachments:   map[string]dbus.Variant{},
		ComponentName: BusName,
		Description:   "Lipika input method engine",
		Version:       componentVersion,
		License:       "MIT",
		Author:        "Lipika",
		Homepage:      "https://github.com/lipika-ime/lipika",
		Exec:          exec + " --ibus",
		Textdomain:    "lipika",
		Observed:      []dbus.Variant{},
		Engines:       []dbus.Variant{engineDesc()},
	})

	obj := s.conn.Object(IBusService, IBusPath)
	if call := obj.Call(IBusInterface+".RegisterComponent", 0, component); call.Err != nil {
		return call.Err
	}
	return nil
}

// ComponentXML returns the component descriptor installed for the IBus
// daemon to spawn the engine on demand.
func ComponentXML(execPath string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
<component>
    <name>%s</name>
    <description>Lipika input method engine</description>
    <exec>%s --ibus</exec>
    <version>%s</version>
    <author>Lipika</author>
    <license>MIT</license>
    <homepage>https://github.com/lipika-ime/lipika</homepage>
    <textdomain>lipika</textdomain>
    <engines>
        <engine>
            <name>%s</name>
            <language>ne</language>
            <license>MIT</license>
            <author>Lipika</author>
            <icon>lipika</icon>
            <layout>us</layout>
            <longname>Lipika</longname>
            <description>Romanized Nepali to Devanagari with auto-completion</description>
            <rank>99</rank>
            <symbol>&#x932;</symbol>
        </engine>
    </engines>
</component>
`, BusName, execPath, componentVersion, EngineName)
}

// InstallComponent writes the component XML under the user's IBus
// component directory. Run "ibus restart" afterwards to load it.
func InstallComponent() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	componentDir := filepath.Join(home, ".local", "share", "ibus", "component")
	if err := os.MkdirAll(componentDir, 0755); err != nil {
		return err
	}

	binPath, err := os.Executable()
	if err != nil {
		binPath = "/usr/local/bin/lipika-ibus"
	}

	componentPath := filepath.Join(componentDir, "lipika.xml")
	return os.WriteFile(componentPath, []byte(ComponentXML(binPath)), 0644)
}

// UninstallComponent removes the installed component XML.
func UninstallComponent() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	componentPath := filepath.Join(home, ".local", "share", "ibus", "component", "lipika.xml")
	if err := os.Remove(componentPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
