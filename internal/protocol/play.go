package protocol

import (
	"bytes"

	"github.com/Maxuss/soulflame/internal/chat"
	"github.com/Maxuss/soulflame/internal/identifier"
	"github.com/Maxuss/soulflame/internal/wire"
)

// PacketPlayIn is the play stage's tagged union of client→server packets.
// World simulation is out of scope, so only the packets this server
// actually answers are modeled.
type PacketPlayIn interface {
	isPacketPlayIn()
}

// PacketPlayInKeepAlive answers a server-initiated keep-alive with the same
// id it was sent.
type PacketPlayInKeepAlive struct {
	KeepAliveID int64
}

func (PacketPlayInKeepAlive) isPacketPlayIn() {}
func (PacketPlayInKeepAlive) PacketID() int32 { return 0x0f }

func (p PacketPlayInKeepAlive) Write(buf *bytes.Buffer, protocolVersion uint32) error {
	if err := wire.WriteVarInt(buf, p.PacketID(), protocolVersion); err != nil {
		return err
	}
	return wire.WriteInt64(buf, p.KeepAliveID, protocolVersion)
}

// ReadPacketPlayInKeepAlive reads the packet's fields.
func ReadPacketPlayInKeepAlive(cur *wire.Cursor, protocolVersion uint32) (PacketPlayInKeepAlive, error) {
	id, err := wire.ReadInt64(cur, protocolVersion)
	if err != nil {
		return PacketPlayInKeepAlive{}, err
	}
	return PacketPlayInKeepAlive{KeepAliveID: id}, nil
}

// PacketPlayInPluginMessage carries an arbitrary client-to-server plugin
// channel payload.
type PacketPlayInPluginMessage struct {
	Channel identifier.Identifier
	Data    []byte
}

func (PacketPlayInPluginMessage) isPacketPlayIn() {}
func (PacketPlayInPluginMessage) PacketID() int32 { return 0x0a }

func (p PacketPlayInPluginMessage) Write(buf *bytes.Buffer, protocolVersion uint32) error {
	if err := wire.WriteVarInt(buf, p.PacketID(), protocolVersion); err != nil {
		return err
	}
	if err := wire.WriteIdentifier(buf, p.Channel, protocolVersion); err != nil {
		return err
	}
	return wire.WriteByteArray(buf, p.Data, protocolVersion)
}

// ReadPacketPlayInPluginMessage reads the packet's fields. Data is the
// trailing field and consumes the rest of the frame.
func ReadPacketPlayInPluginMessage(cur *wire.Cursor, protocolVersion uint32) (PacketPlayInPluginMessage, error) {
	channel, err := wire.ReadIdentifier(cur, protocolVersion)
	if err != nil {
		return PacketPlayInPluginMessage{}, err
	}
	data, err := wire.ReadByteArray(cur, protocolVersion)
	if err != nil {
		return PacketPlayInPluginMessage{}, err
	}
	return PacketPlayInPluginMessage{Channel: channel, Data: data}, nil
}

// ReadPacketPlayIn reads the leading packet id and dispatches to the
// matching variant reader.
func ReadPacketPlayIn(cur *wire.Cursor, protocolVersion uint32) (PacketPlayIn, error) {
	id, err := wire.ReadVarInt(cur, protocolVersion)
	if err != nil {
		return nil, err
	}
	switch id {
	case 0x0a:
		return ReadPacketPlayInPluginMessage(cur, protocolVersion)
	case 0x0f:
		return ReadPacketPlayInKeepAlive(cur, protocolVersion)
	default:
		return nil, wire.Errorf(wire.KindProtocol, "UnknownPacketId: stage=play id=%#x", id)
	}
}

// PacketPlayOut is the play stage's tagged union of server→client packets.
type PacketPlayOut interface {
	isPacketPlayOut()
}

// PacketPlayOutDisconnect ends a Play session with an explanatory reason.
type PacketPlayOutDisconnect struct {
	Reason chat.Component
}

func (PacketPlayOutDisconnect) isPacketPlayOut() {}
func (PacketPlayOutDisconnect) PacketID() int32  { return 0x17 }

func (p PacketPlayOutDisconnect) Write(buf *bytes.Buffer, protocolVersion uint32) error {
	if err := wire.WriteVarInt(buf, p.PacketID(), protocolVersion); err != nil {
		return err
	}
	return wire.WriteComponent(buf, p.Reason, protocolVersion)
}

// ReadPacketPlayOutDisconnect reads the packet's fields.
func ReadPacketPlayOutDisconnect(cur *wire.Cursor, protocolVersion uint32) (PacketPlayOutDisconnect, error) {
	reason, err := wire.ReadComponent(cur, protocolVersion)
	if err != nil {
		return PacketPlayOutDisconnect{}, err
	}
	return PacketPlayOutDisconnect{Reason: reason}, nil
}

// PacketPlayOutKeepAlive pings the client to confirm the connection is
// still alive; the client must answer with the same id via
// PacketPlayInKeepAlive.
type PacketPlayOutKeepAlive struct {
	KeepAliveID int64
}

func (PacketPlayOutKeepAlive) isPacketPlayOut() {}
func (PacketPlayOutKeepAlive) PacketID() int32  { return 0x21 }

func (p PacketPlayOutKeepAlive) Write(buf *bytes.Buffer, protocolVersion uint32) error {
	if err := wire.WriteVarInt(buf, p.PacketID(), protocolVersion); err != nil {
		return err
	}
	return wire.WriteInt64(buf, p.KeepAliveID, protocolVersion)
}

// ReadPacketPlayOutKeepAlive reads the packet's fields.
func ReadPacketPlayOutKeepAlive(cur *wire.Cursor, protocolVersion uint32) (PacketPlayOutKeepAlive, error) {
	id, err := wire.ReadInt64(cur, protocolVersion)
	if err != nil {
		return PacketPlayOutKeepAlive{}, err
	}
	return PacketPlayOutKeepAlive{KeepAliveID: id}, nil
}

// ReadPacketPlayOut reads the leading packet id and dispatches to the
// matching variant reader.
func ReadPacketPlayOut(cur *wire.Cursor, protocolVersion uint32) (PacketPlayOut, error) {
	id, err := wire.ReadVarInt(cur, protocolVersion)
	if err != nil {
		return nil, err
	}
	switch id {
	case 0x17:
		return ReadPacketPlayOutDisconnect(cur, protocolVersion)
	case 0x21:
		return ReadPacketPlayOutKeepAlive(cur, protocolVersion)
	default:
		return nil, wire.Errorf(wire.KindProtocol, "UnknownPacketId: stage=play id=%#x", id)
	}
}
