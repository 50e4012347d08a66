package msgs

import (
	"github.com/golang/protobuf/proto"

	fx "github.com/robotalks/relais.go/pkg/framework"
	pb "github.com/robotalks/relais.go/pkg/proto/relais/v1"
)

func init() {
	Register(
		(*CommandOK)(nil),
		(*CommandErr)(nil),
		(*DeviceInfoQuery)(nil),
		(*DeviceInfo)(nil),
		(*RelaysCommand)(nil),
		(*ChannelCommand)(nil),
		(*RelaysReply)(nil),
		(*RelaysStatus)(nil),
	)
}

// CommandOK is the generic reply indicating success for commands.
type CommandOK struct {
	pb.CommandOK
}

// NewCommandOK creates a CommandOK.
func NewCommandOK() *CommandOK {
	return &CommandOK{}
}

// NewMessage implements Message.
func (m *CommandOK) NewMessage() fx.Message { return &CommandOK{} }

// TypeID implements SerializableMessage.
func (m *CommandOK) TypeID() uint32 { return CommandOKTypeID }

// Serializable implements SerializableMessage.
func (m *CommandOK) Serializable() proto.Message { return &m.CommandOK }

// CommandErr is the generic message representing command error.
type CommandErr struct {
	pb.CommandErr
}

// NewCommandErr creates a CommandErr from an error.
func NewCommandErr(err error) *CommandErr {
	return NewCommandErrFromMsg(err.Error())
}

// NewCommandErrFromMsg creates a CommandErr.
func NewCommandErrFromMsg(message string) *CommandErr {
	return &CommandErr{
		CommandErr: pb.CommandErr{
			Message: message,
		},
	}
}

// NewMessage implements Message.
func (m *CommandErr) NewMessage() fx.Message { return &CommandErr{} }

// TypeID implements SerializableMessage.
func (m *CommandErr) TypeID() uint32 { return CommandErrTypeID }

// Serializable implements SerializableMessage.
func (m *CommandErr) Serializable() proto.Message { return &m.CommandErr }

// Error implements error.
func (m *CommandErr) Error() string { return m.Message }

// DeviceInfoQuery command.
type DeviceInfoQuery struct {
	pb.DeviceInfoQuery
}

// NewMessage implements Message.
func (m *DeviceInfoQuery) NewMessage() fx.Message { return &DeviceInfoQuery{} }

// TypeID implements SerializableMessage.
func (m *DeviceInfoQuery) TypeID() uint32 { return DeviceInfoQueryTypeID }

// Serializable implements SerializableMessage.
func (m *DeviceInfoQuery) Serializable() proto.Message { return &m.DeviceInfoQuery }

// DeviceInfo response.
type DeviceInfo struct {
	pb.DeviceInfo
}

// NewMessage implements Message.
func (m *DeviceInfo) NewMessage() fx.Message { return &DeviceInfo{} }

// TypeID implements SerializableMessage.
func (m *DeviceInfo) TypeID() uint32 { return DeviceInfoTypeID }

// Serializable implements SerializableMessage.
func (m *DeviceInfo) Serializable() proto.Message { return &m.DeviceInfo }

// RelaysCommand command.
type RelaysCommand struct {
	pb.RelaysCommand
}

// NewMessage implements Message.
func (m *RelaysCommand) NewMessage() fx.Message { return &RelaysCommand{} }

// TypeID implements SerializableMessage.
func (m *RelaysCommand) TypeID() uint32 { return RelaysCommandTypeID }

// Serializable implements SerializableMessage.
func (m *RelaysCommand) Serializable() proto.Message { return &m.RelaysCommand }

// ChannelCommand command.
type ChannelCommand struct {
	pb.ChannelCommand
}

// NewMessage implements Message.
func (m *ChannelCommand) NewMessage() fx.Message { return &ChannelCommand{} }

// TypeID implements SerializableMessage.
func (m *ChannelCommand) TypeID() uint32 { return ChannelCommandTypeID }

// Serializable implements SerializableMessage.
func (m *ChannelCommand) Serializable() proto.Message { return &m.ChannelCommand }

// RelaysReply is the reply of RelaysCommand and ChannelCommand.
type RelaysReply struct {
	pb.RelaysReply
}

// NewMessage implements Message.
func (m *RelaysReply) NewMessage() fx.Message { return &RelaysReply{} }

// TypeID implements SerializableMessage.
func (m *RelaysReply) TypeID() uint32 { return RelaysReplyTypeID }

// Serializable implements SerializableMessage.
func (m *RelaysReply) Serializable() proto.Message { return &m.RelaysReply }

// RelaysStatus event.
type RelaysStatus struct {
	pb.RelaysStatus
}

// NewMessage implements Message.
func (m *RelaysStatus) NewMessage() fx.Message { return &RelaysStatus{} }

// TypeID implements SerializableMessage.
func (m *RelaysStatus) TypeID() uint32 { return RelaysStatusTypeID }

// Serializable implements SerializableMessage.
func (m *RelaysStatus) Serializable() proto.Message { return &m.RelaysStatus }

// TypeID Groups
const (
	GroupCommand uint32 = 0x00000000
	GroupDevice  uint32 = 0x00010000
	GroupRelays  uint32 = 0x00020000
)

// TypeIDs
const (
	CommandOKTypeID       uint32 = GroupCommand | TypeIDMaskReply | 0x0000
	CommandErrTypeID      uint32 = GroupCommand | TypeIDMaskReply | 0x0001
	DeviceInfoQueryTypeID uint32 = GroupDevice | 0x0000
	DeviceInfoTypeID      uint32 = DeviceInfoQueryTypeID | TypeIDMaskReply
	RelaysCommandTypeID   uint32 = GroupRelays | 0x0000
	ChannelCommandTypeID  uint32 = GroupRelays | 0x0001
	RelaysReplyTypeID     uint32 = RelaysCommandTypeID | TypeIDMaskReply
	RelaysStatusTypeID    uint32 = TypeIDKindEvent | GroupRelays | 0x0000
)
