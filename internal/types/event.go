package types

import (
	"fmt"
)

type EventKind uint8

const (
	EventInvalid EventKind = iota
	EventInput
	EventTime
	EventTemperature
	EventPause
	EventStop
)

var eventKindNames = [...]string{"Invalid", "Input", "Time", "Temperature", "Pause", "Stop"}

func (k EventKind) String() string {
	if int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return fmt.Sprintf("EventKind(%d)", k)
}

type Event struct {
	Input       InputEvent
	Temperature TemperatureEvent
	Pause       PauseMessage
	Kind        EventKind
}

func (e *Event) String() string {
	inner := ""
	switch e.Kind {
	case EventInput:
		inner = fmt.Sprintf(" action=%04x key=%04x", e.Input.Action, e.Input.Key)
	case EventTemperature:
		inner = fmt.Sprintf(" kind=%s value=%d", e.Temperature.Kind.String(), e.Temperature.Value)
	case EventPause:
		inner = " " + e.Pause.String()
	}
	return fmt.Sprintf("Event(%s%s)", e.Kind.String(), inner)
}

// InputEvent is one key command delivered by the display:
// Action addresses a screen, Key is the sub-command within it.
type InputEvent struct {
	Action uint16
	Key    uint16
}

// TemperatureEvent is a new target temperature reported by the controller.
type TemperatureEvent struct {
	Kind  TemperatureKind
	Value uint16
}
