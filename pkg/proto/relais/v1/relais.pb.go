// Package relais contains the wire messages for remote relay control,
// matching relais.proto.
package relais

import (
	"github.com/golang/protobuf/proto"
)

// Typed wraps a message with its type.
type Typed struct {
	TypeId   uint32 `protobuf:"varint,1,opt,name=type_id,json=typeId,proto3" json:"type_id,omitempty"`
	Sequence uint32 `protobuf:"varint,2,opt,name=sequence,proto3" json:"sequence,omitempty"`
	Message  []byte `protobuf:"bytes,3,opt,name=message,proto3" json:"message,omitempty"`
}

func (m *Typed) Reset()         { *m = Typed{} }
func (m *Typed) String() string { return proto.CompactTextString(m) }
func (*Typed) ProtoMessage()    {}

type CommandOK struct {
}

func (m *CommandOK) Reset()         { *m = CommandOK{} }
func (m *CommandOK) String() string { return proto.CompactTextString(m) }
func (*CommandOK) ProtoMessage()    {}

type CommandErr struct {
	Message string `protobuf:"bytes,1,opt,name=message,proto3" json:"message,omitempty"`
}

func (m *CommandErr) Reset()         { *m = CommandErr{} }
func (m *CommandErr) String() string { return proto.CompactTextString(m) }
func (*CommandErr) ProtoMessage()    {}

type DeviceInfoQuery struct {
}

func (m *DeviceInfoQuery) Reset()         { *m = DeviceInfoQuery{} }
func (m *DeviceInfoQuery) String() string { return proto.CompactTextString(m) }
func (*DeviceInfoQuery) ProtoMessage()    {}

type DeviceInfo struct {
	DevicePort      string `protobuf:"bytes,1,opt,name=device_port,json=devicePort,proto3" json:"device_port,omitempty"`
	Manufacturer    string `protobuf:"bytes,2,opt,name=manufacturer,proto3" json:"manufacturer,omitempty"`
	Model           string `protobuf:"bytes,3,opt,name=model,proto3" json:"model,omitempty"`
	FirmwareVersion string `protobuf:"bytes,4,opt,name=firmware_version,json=firmwareVersion,proto3" json:"firmware_version,omitempty"`
	Boards          uint32 `protobuf:"varint,5,opt,name=boards,proto3" json:"boards,omitempty"`
	Initialized     bool   `protobuf:"varint,6,opt,name=initialized,proto3" json:"initialized,omitempty"`
	FirstAddress    uint32 `protobuf:"varint,7,opt,name=first_address,json=firstAddress,proto3" json:"first_address,omitempty"`
}

func (m *DeviceInfo) Reset()         { *m = DeviceInfo{} }
func (m *DeviceInfo) String() string { return proto.CompactTextString(m) }
func (*DeviceInfo) ProtoMessage()    {}

// RelaysCommand issues a relay command to a board.
type RelaysCommand struct {
	Command    uint32 `protobuf:"varint,1,opt,name=command,proto3" json:"command,omitempty"`
	Address    uint32 `protobuf:"varint,2,opt,name=address,proto3" json:"address,omitempty"`
	FirstBoard bool   `protobuf:"varint,3,opt,name=first_board,json=firstBoard,proto3" json:"first_board,omitempty"`
	Data       uint32 `protobuf:"varint,4,opt,name=data,proto3" json:"data,omitempty"`
}

func (m *RelaysCommand) Reset()         { *m = RelaysCommand{} }
func (m *RelaysCommand) String() string { return proto.CompactTextString(m) }
func (*RelaysCommand) ProtoMessage()    {}

type ChannelCommand_Action int32

const (
	ChannelCommand_ON     ChannelCommand_Action = 0
	ChannelCommand_OFF    ChannelCommand_Action = 1
	ChannelCommand_TOGGLE ChannelCommand_Action = 2
)

var ChannelCommand_Action_name = map[int32]string{
	0: "ON",
	1: "OFF",
	2: "TOGGLE",
}

var ChannelCommand_Action_value = map[string]int32{
	"ON":     0,
	"OFF":    1,
	"TOGGLE": 2,
}

func (x ChannelCommand_Action) String() string {
	return proto.EnumName(ChannelCommand_Action_name, int32(x))
}

// ChannelCommand switches a single channel of the first board.
type ChannelCommand struct {
	Channel int32                 `protobuf:"varint,1,opt,name=channel,proto3" json:"channel,omitempty"`
	Action  ChannelCommand_Action `protobuf:"varint,2,opt,name=action,proto3,enum=relais.v1.ChannelCommand_Action" json:"action,omitempty"`
}

func (m *ChannelCommand) Reset()         { *m = ChannelCommand{} }
func (m *ChannelCommand) String() string { return proto.CompactTextString(m) }
func (*ChannelCommand) ProtoMessage()    {}

type RelaysReply struct {
	Address uint32 `protobuf:"varint,1,opt,name=address,proto3" json:"address,omitempty"`
	Data    uint32 `protobuf:"varint,2,opt,name=data,proto3" json:"data,omitempty"`
}

func (m *RelaysReply) Reset()         { *m = RelaysReply{} }
func (m *RelaysReply) String() string { return proto.CompactTextString(m) }
func (*RelaysReply) ProtoMessage()    {}

// RelaysStatus is published after each successful relay command.
type RelaysStatus struct {
	Command uint32 `protobuf:"varint,1,opt,name=command,proto3" json:"command,omitempty"`
	Address uint32 `protobuf:"varint,2,opt,name=address,proto3" json:"address,omitempty"`
	Data    uint32 `protobuf:"varint,3,opt,name=data,proto3" json:"data,omitempty"`
}

func (m *RelaysStatus) Reset()         { *m = RelaysStatus{} }
func (m *RelaysStatus) String() string { return proto.CompactTextString(m) }
func (*RelaysStatus) ProtoMessage()    {}

func init() {
	proto.RegisterEnum("relais.v1.ChannelCommand_Action", ChannelCommand_Action_name, ChannelCommand_Action_value)
	proto.RegisterType((*Typed)(nil), "relais.v1.Typed")
	proto.RegisterType((*CommandOK)(nil), "relais.v1.CommandOK")
	proto.RegisterType((*CommandErr)(nil), "relais.v1.CommandErr")
	proto.RegisterType((*DeviceInfoQuery)(nil), "relais.v1.DeviceInfoQuery")
	proto.RegisterType((*DeviceInfo)(nil), "relais.v1.DeviceInfo")
	proto.RegisterType((*RelaysCommand)(nil), "relais.v1.RelaysCommand")
	proto.RegisterType((*ChannelCommand)(nil), "relais.v1.ChannelCommand")
	proto.RegisterType((*RelaysReply)(nil), "relais.v1.RelaysReply")
	proto.RegisterType((*RelaysStatus)(nil), "relais.v1.RelaysStatus")
}
