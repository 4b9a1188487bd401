package types

import "fmt"

// PauseMessage is filament change progress reported by firmware.
type PauseMessage uint8

const (
	PauseMessageParking PauseMessage = iota
	PauseMessageChanging
	PauseMessageWaiting
	PauseMessageUnload
	PauseMessageInsert
	PauseMessageLoad
	PauseMessagePurge
	PauseMessageOption
	PauseMessageResume
	PauseMessageStatus
	PauseMessageHeat
	PauseMessageHeating
	pauseMessageCount
)

var pauseMessageNames = [pauseMessageCount]string{
	"Parking", "Changing", "Waiting", "Unload", "Insert", "Load",
	"Purge", "Option", "Resume", "Status", "Heat", "Heating",
}

func (m PauseMessage) String() string {
	if m < pauseMessageCount {
		return pauseMessageNames[m]
	}
	return fmt.Sprintf("PauseMessage(%d)", uint8(m))
}
