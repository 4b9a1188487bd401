package screens

import "fmt"

// Action is the display variable a key press is reported on, one per screen.
type Action uint16

const (
	ActionControls       Action = 0x0400
	ActionTemperatures   Action = 0x0401
	ActionSdCard         Action = 0x0402
	ActionPrint          Action = 0x0403
	ActionPrintSettings  Action = 0x0404
	ActionTuning         Action = 0x0405
	ActionSettings       Action = 0x0406
	ActionInfos          Action = 0x0407
	ActionMotorsSettings Action = 0x0408
	ActionLeveling       Action = 0x0409
	ActionSensorZHeight  Action = 0x040a
	ActionWait           Action = 0x040b
	ActionPauseOptions   Action = 0x040c
	ActionFeatures       Action = 0x040d
	ActionPreheat        Action = 0x040e
	ActionEepromMismatch Action = 0x040f
	ActionSetup          Action = 0x0410
	ActionNoSensor       Action = 0x0411
)

func (a Action) String() string { return fmt.Sprintf("action%04x", uint16(a)) }

// KeyValue is the sub-command within a screen.
type KeyValue uint16

const (
	// base keys, valid for every screen
	KeyShow KeyValue = 0x0000
	KeyBack KeyValue = 0x0098
	KeySave KeyValue = 0x0099

	KeyTemps         KeyValue = 0x0001
	KeyPrint         KeyValue = 0x0002
	KeyControls      KeyValue = 0x0003
	KeyTuning        KeyValue = 0x0004
	KeySettings      KeyValue = 0x0005
	KeyInfos         KeyValue = 0x0006
	KeyMotors        KeyValue = 0x0007
	KeyLeveling      KeyValue = 0x0008
	KeyPrintSettings KeyValue = 0x0009

	KeyMultiplier1 KeyValue = 0x0101
	KeyMultiplier2 KeyValue = 0x0102
	KeyMultiplier3 KeyValue = 0x0103
	KeyMinus       KeyValue = 0x0104
	KeyPlus        KeyValue = 0x0105

	KeyContinue KeyValue = 0x0110
	KeyResume   KeyValue = 0x0111

	KeyThermalProtection KeyValue = 0x0201
	KeyHeadParking       KeyValue = 0x0202
	KeyDimming           KeyValue = 0x0203
	KeyBuzzOnAction      KeyValue = 0x0204
	KeyBuzzOnPress       KeyValue = 0x0205
	KeyRunoutSensor      KeyValue = 0x0206
	KeyBrightnessMinus   KeyValue = 0x0207
	KeyBrightnessPlus    KeyValue = 0x0208

	KeyHotendMinus KeyValue = 0x0301
	KeyHotendPlus  KeyValue = 0x0302
	KeyBedMinus    KeyValue = 0x0303
	KeyBedPlus     KeyValue = 0x0304
	KeyPreheat     KeyValue = 0x0305

	KeyFactoryReset KeyValue = 0x0401
)

func (k KeyValue) String() string { return fmt.Sprintf("key%04x", uint16(k)) }

// Command is one key press from the display.
type Command struct {
	Action Action
	Key    KeyValue
}

func (c Command) String() string { return c.Action.String() + "/" + c.Key.String() }
