package protocol

import (
	"bytes"

	"github.com/Maxuss/soulflame/internal/wire"
)

// HandshakeState is the compact enum carried by the handshake packet's
// next_state field: a VarInt mapping to one of a fixed small set of tags.
type HandshakeState int32

const (
	HandshakeStateStatus HandshakeState = 1
	HandshakeStateLogin  HandshakeState = 2
)

// WriteHandshakeState writes the enum's VarInt tag.
func WriteHandshakeState(buf *bytes.Buffer, v HandshakeState, protocolVersion uint32) error {
	return wire.WriteVarInt(buf, int32(v), protocolVersion)
}

// ReadHandshakeState reads the enum's VarInt tag, failing with
// Protocol(InvalidEnumTag) for any value outside {Status, Login}.
func ReadHandshakeState(cur *wire.Cursor, protocolVersion uint32) (HandshakeState, error) {
	id, err := wire.ReadVarInt(cur, protocolVersion)
	if err != nil {
		return 0, err
	}
	switch HandshakeState(id) {
	case HandshakeStateStatus, HandshakeStateLogin:
		return HandshakeState(id), nil
	default:
		return 0, wire.Errorf(wire.KindProtocol, "InvalidEnumTag: %d", id)
	}
}

// InHandshake is the handshake stage's tagged union of client→server
// packets. It currently has a single variant, but is kept as an interface
// so the stage-dispatch shape matches every other stage.
type InHandshake interface {
	isInHandshake()
}

// PacketHandshakeIn is the sole handshake-stage packet: it carries the
// client's declared protocol version, the address/port it dialed, and the
// next state it wants to enter (Status or Login).
type PacketHandshakeIn struct {
	ProtocolVersion int32
	ServerAddress   string
	ServerPort      uint16
	NextState       HandshakeState
}

func (PacketHandshakeIn) isInHandshake() {}

// PacketID returns this packet's id within the handshake stage.
func (PacketHandshakeIn) PacketID() int32 { return 0x00 }

// Write serializes the packet id followed by its fields, in declaration
// order.
func (p PacketHandshakeIn) Write(buf *bytes.Buffer, protocolVersion uint32) error {
	if err := wire.WriteVarInt(buf, p.PacketID(), protocolVersion); err != nil {
		return err
	}
	if err := wire.WriteVarInt(buf, p.ProtocolVersion, protocolVersion); err != nil {
		return err
	}
	if err := wire.WriteString(buf, p.ServerAddress, protocolVersion); err != nil {
		return err
	}
	if err := wire.WriteUint16(buf, p.ServerPort, protocolVersion); err != nil {
		return err
	}
	return WriteHandshakeState(buf, p.NextState, protocolVersion)
}

// ReadPacketHandshakeIn reads the packet's fields (the leading id is
// consumed by the stage dispatcher, ReadInHandshake).
func ReadPacketHandshakeIn(cur *wire.Cursor, protocolVersion uint32) (PacketHandshakeIn, error) {
	version, err := wire.ReadVarInt(cur, protocolVersion)
	if err != nil {
		return PacketHandshakeIn{}, err
	}
	addr, err := wire.ReadString(cur, protocolVersion)
	if err != nil {
		return PacketHandshakeIn{}, err
	}
	port, err := wire.ReadUint16(cur, protocolVersion)
	if err != nil {
		return PacketHandshakeIn{}, err
	}
	next, err := ReadHandshakeState(cur, protocolVersion)
	if err != nil {
		return PacketHandshakeIn{}, err
	}
	return PacketHandshakeIn{
		ProtocolVersion: version,
		ServerAddress:   addr,
		ServerPort:      port,
		NextState:       next,
	}, nil
}

// ReadInHandshake reads the leading packet id and dispatches to the
// matching variant reader. Unknown ids fail with Protocol(UnknownPacketId).
func ReadInHandshake(cur *wire.Cursor, protocolVersion uint32) (InHandshake, error) {
	id, err := wire.ReadVarInt(cur, protocolVersion)
	if err != nil {
		return nil, err
	}
	switch id {
	case 0x00:
		return ReadPacketHandshakeIn(cur, protocolVersion)
	default:
		return nil, wire.Errorf(wire.KindProtocol, "UnknownPacketId: stage=handshake id=%#x", id)
	}
}
