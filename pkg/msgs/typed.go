package msgs

import (
	"errors"
	"fmt"

	"github.com/golang/protobuf/proto"

	fx "github.com/robotalks/relais.go/pkg/framework"
	pb "github.com/robotalks/relais.go/pkg/proto/relais/v1"
)

// Type ID layout: bit 31 is the kind, bits 16-30 the group, bit 15 marks
// a reply among commands and the low bits number the message in its group.
const (
	TypeIDMaskKind  uint32 = 0x80000000
	TypeIDMaskGroup uint32 = 0x7fff0000
	TypeIDMaskID    uint32 = 0x0000ffff
	TypeIDMaskReply uint32 = 0x00008000
)

// Message Kinds
const (
	TypeIDKindCommand uint32 = 0x00000000
	TypeIDKindEvent   uint32 = 0x80000000
)

// Class is the role of a message in the exchange with a peer.
type Class int

// Classes
const (
	// ClassRequest is a command sent by a peer and executed by the device.
	ClassRequest Class = iota
	// ClassReply answers a request with the same sequence.
	ClassReply
	// ClassEvent is broadcast by the device, sequence is 0.
	ClassEvent
)

func (c Class) String() string {
	switch c {
	case ClassRequest:
		return "request"
	case ClassReply:
		return "reply"
	case ClassEvent:
		return "event"
	}
	return fmt.Sprintf("class(%d)", int(c))
}

// ClassOf derives the Class from a type ID.
func ClassOf(typeID uint32) Class {
	switch {
	case typeID&TypeIDMaskKind == TypeIDKindEvent:
		return ClassEvent
	case typeID&TypeIDMaskReply != 0:
		return ClassReply
	}
	return ClassRequest
}

// SerializableMessage can be serialized over the wire.
type SerializableMessage interface {
	fx.Message
	TypeID() uint32
	Serializable() proto.Message
}

// ErrUnknownType indicates unknown type id.
type ErrUnknownType struct {
	TypeID uint32
}

// Error implements error.
func (e *ErrUnknownType) Error() string {
	return fmt.Sprintf("unknown type: %x", e.TypeID)
}

var (
	// ErrNotSerializable indicates the message is not serializable.
	ErrNotSerializable = errors.New("not serializable message")
	// ErrUnsupportedCommand indicates the command is unsupported.
	ErrUnsupportedCommand = errors.New("unsupported command")
	// ErrNotRequest indicates a reply or event where a request is expected.
	ErrNotRequest = errors.New("not a request")
)

var registry = make(map[uint32]SerializableMessage)

// Register adds message types to the registry. A type ID can only be
// registered once.
func Register(types ...SerializableMessage) {
	for _, t := range types {
		id := t.TypeID()
		if _, exists := registry[id]; exists {
			panic(fmt.Sprintf("type %x already registered", id))
		}
		registry[id] = t
	}
}

// NewMessage creates an empty message of a registered type.
func NewMessage(typeID uint32) (SerializableMessage, error) {
	t, ok := registry[typeID]
	if !ok {
		return nil, &ErrUnknownType{TypeID: typeID}
	}
	msg, ok := t.NewMessage().(SerializableMessage)
	if !ok {
		return nil, ErrNotSerializable
	}
	return msg, nil
}

// Typed wraps a message with type information.
type Typed struct {
	pb.Typed
}

// TypedFrom creates a Typed from a serializable message.
func TypedFrom(msg fx.Message) (*Typed, error) {
	s, ok := msg.(SerializableMessage)
	if !ok {
		return nil, ErrNotSerializable
	}
	data, err := proto.Marshal(s.Serializable())
	if err != nil {
		return nil, err
	}
	return &Typed{Typed: pb.Typed{TypeId: s.TypeID(), Message: data}}, nil
}

// DecodeTyped decodes bytes into Typed.
func DecodeTyped(data []byte) (*Typed, error) {
	var typed Typed
	if err := proto.Unmarshal(data, &typed.Typed); err != nil {
		return nil, err
	}
	return &typed, nil
}

// DecodeRequest decodes a packet expected to be a request from a peer.
// The envelope is nil if the packet is malformed. For replies and events
// the envelope is returned with ErrNotRequest.
func DecodeRequest(data []byte) (*Typed, fx.Message, error) {
	typed, err := DecodeTyped(data)
	if err != nil {
		return nil, nil, err
	}
	if typed.Class() != ClassRequest {
		return typed, nil, ErrNotRequest
	}
	msg, err := typed.Decode()
	return typed, msg, err
}

// Decode decodes the payload into the registered message.
func (p Typed) Decode() (fx.Message, error) {
	msg, err := NewMessage(p.TypeId)
	if err != nil {
		return nil, err
	}
	if err := proto.Unmarshal(p.Message, msg.Serializable()); err != nil {
		return nil, err
	}
	return msg, nil
}

// Encode encodes the Typed to bytes.
func (p Typed) Encode() ([]byte, error) {
	return proto.Marshal(&p.Typed)
}

// Class gets the message class from type ID.
func (p Typed) Class() Class {
	return ClassOf(p.TypeId)
}
