package types

type TemperatureKind uint8

const (
	TemperatureBed TemperatureKind = iota
	TemperatureHotend
)

func (k TemperatureKind) String() string {
	if k == TemperatureHotend {
		return "hotend"
	}
	return "bed"
}

type Axis uint8

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string { return string("XYZ"[a%3]) }
