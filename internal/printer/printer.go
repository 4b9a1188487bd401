// Package printer is the motion and print state side of the panel.
// Calls never block the panel tick: motion is queued and completion is observed with IsBusy.
package printer

import (
	"github.com/temoto/printpanel/internal/types"
)

type Printer interface {
	IsPrinting() bool
	IsPrintingPaused() bool
	IsMachineHomed() bool
	IsBusy() bool
	HasProbe() bool

	AxisPosition(types.Axis) float32
	// SetAxisPosition queues a move with current feedrate.
	SetAxisPosition(types.Axis, float32)
	// SetFeedrate is in mm/s.
	SetFeedrate(float32)
	SetSoftEndstops(bool)
	ZOffset() float32
	SetZOffset(float32)

	// InjectCommands queues newline separated G-code.
	InjectCommands(string)

	MountMedia()
	IsMediaInserted() bool
	// SetUserConfirmed releases a firmware wait-for-user prompt.
	SetUserConfirmed()

	SetPID(kind types.TemperatureKind, kp, ki, kd float32)
	SetTargetTemperature(kind types.TemperatureKind, value uint16)
}

const (
	HomeAllCommand = "G28 F6000"
	RehomeCommand  = "G28 Z F1200\nG28 X Y F6000"
)
