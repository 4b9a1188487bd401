package tele

import (
	"fmt"

	"github.com/golang/protobuf/proto"
)

// Wire messages, field numbers are stable.
// Written by hand in protoc-gen-go v1 shape, proto.Marshal uses struct tags.

type State int32

const (
	State_Invalid      State = 0
	State_Boot         State = 1
	State_Nominal      State = 2
	State_Problem      State = 3
	State_Disconnected State = 4
)

var stateNames = map[State]string{
	State_Invalid:      "Invalid",
	State_Boot:         "Boot",
	State_Nominal:      "Nominal",
	State_Problem:      "Problem",
	State_Disconnected: "Disconnected",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

type Telemetry struct {
	PanelId      int32               `protobuf:"varint,1,opt,name=panel_id,json=panelId,proto3" json:"panel_id,omitempty"`
	Time         int64               `protobuf:"varint,2,opt,name=time,proto3" json:"time,omitempty"`
	Error        *Telemetry_Error    `protobuf:"bytes,3,opt,name=error,proto3" json:"error,omitempty"`
	Page         *Telemetry_Page     `protobuf:"bytes,4,opt,name=page,proto3" json:"page,omitempty"`
	Stat         *Telemetry_Stat     `protobuf:"bytes,5,opt,name=stat,proto3" json:"stat,omitempty"`
	Settings     *Telemetry_Settings `protobuf:"bytes,6,opt,name=settings,proto3" json:"settings,omitempty"`
	BuildVersion string              `protobuf:"bytes,7,opt,name=build_version,json=buildVersion,proto3" json:"build_version,omitempty"`
}

func (m *Telemetry) Reset()         { *m = Telemetry{} }
func (m *Telemetry) String() string { return proto.CompactTextString(m) }
func (*Telemetry) ProtoMessage()    {}

type Telemetry_Error struct {
	Message string `protobuf:"bytes,1,opt,name=message,proto3" json:"message,omitempty"`
}

func (m *Telemetry_Error) Reset()         { *m = Telemetry_Error{} }
func (m *Telemetry_Error) String() string { return proto.CompactTextString(m) }
func (*Telemetry_Error) ProtoMessage()    {}

type Telemetry_Page struct {
	Id   uint32 `protobuf:"varint,1,opt,name=id,proto3" json:"id,omitempty"`
	Name string `protobuf:"bytes,2,opt,name=name,proto3" json:"name,omitempty"`
}

func (m *Telemetry_Page) Reset()         { *m = Telemetry_Page{} }
func (m *Telemetry_Page) String() string { return proto.CompactTextString(m) }
func (*Telemetry_Page) ProtoMessage()    {}

type Telemetry_Stat struct {
	KeysDispatched uint32 `protobuf:"varint,1,opt,name=keys_dispatched,json=keysDispatched,proto3" json:"keys_dispatched,omitempty"`
	KeysUnhandled  uint32 `protobuf:"varint,2,opt,name=keys_unhandled,json=keysUnhandled,proto3" json:"keys_unhandled,omitempty"`
	TasksRun       uint32 `protobuf:"varint,3,opt,name=tasks_run,json=tasksRun,proto3" json:"tasks_run,omitempty"`
	PageChanges    uint32 `protobuf:"varint,4,opt,name=page_changes,json=pageChanges,proto3" json:"page_changes,omitempty"`
}

func (m *Telemetry_Stat) Reset()         { *m = Telemetry_Stat{} }
func (m *Telemetry_Stat) String() string { return proto.CompactTextString(m) }
func (*Telemetry_Stat) ProtoMessage()    {}

type Telemetry_Settings struct {
	Features uint32  `protobuf:"varint,1,opt,name=features,proto3" json:"features,omitempty"`
	Mismatch bool    `protobuf:"varint,2,opt,name=mismatch,proto3" json:"mismatch,omitempty"`
	ZOffset  float32 `protobuf:"fixed32,3,opt,name=z_offset,json=zOffset,proto3" json:"z_offset,omitempty"`
}

func (m *Telemetry_Settings) Reset()         { *m = Telemetry_Settings{} }
func (m *Telemetry_Settings) String() string { return proto.CompactTextString(m) }
func (*Telemetry_Settings) ProtoMessage()    {}
