package protocol

import (
	"bytes"

	"github.com/Maxuss/soulflame/internal/chat"
	"github.com/Maxuss/soulflame/internal/wire"
	"github.com/google/uuid"
)

// ServerVersion is the "version" field of a server-list status response.
type ServerVersion struct {
	Name     string `json:"name"`
	Protocol int32  `json:"protocol"`
}

// PlayerSample is one entry of the status response's player sample list.
type PlayerSample struct {
	Name string    `json:"name"`
	ID   uuid.UUID `json:"id"`
}

// ServerPlayers is the "players" field of a server-list status response.
type ServerPlayers struct {
	Max    int32          `json:"max"`
	Online int32          `json:"online"`
	Sample []PlayerSample `json:"sample,omitempty"`
}

// StatusResponse is the whole JSON document returned to a server-list ping:
// version, player counts, an embedded chat component description, and an
// optional favicon data URI.
type StatusResponse struct {
	Version     ServerVersion  `json:"version"`
	Players     ServerPlayers  `json:"players"`
	Description chat.Component `json:"description"`
	Favicon     string         `json:"favicon,omitempty"`
}

// InStatus is the status stage's tagged union of client→server packets.
type InStatus interface {
	isInStatus()
}

// PacketStatusInRequest carries no fields; it simply asks for the status
// response.
type PacketStatusInRequest struct{}

func (PacketStatusInRequest) isInStatus()    {}
func (PacketStatusInRequest) PacketID() int32 { return 0x00 }

func (p PacketStatusInRequest) Write(buf *bytes.Buffer, protocolVersion uint32) error {
	return wire.WriteVarInt(buf, p.PacketID(), protocolVersion)
}

// ReadPacketStatusInRequest reads the (empty) packet body.
func ReadPacketStatusInRequest(cur *wire.Cursor, protocolVersion uint32) (PacketStatusInRequest, error) {
	return PacketStatusInRequest{}, nil
}

// PacketStatusInPing echoes an opaque payload back in PacketStatusOutPong.
type PacketStatusInPing struct {
	Payload int64
}

func (PacketStatusInPing) isInStatus()     {}
func (PacketStatusInPing) PacketID() int32 { return 0x01 }

func (p PacketStatusInPing) Write(buf *bytes.Buffer, protocolVersion uint32) error {
	if err := wire.WriteVarInt(buf, p.PacketID(), protocolVersion); err != nil {
		return err
	}
	return wire.WriteInt64(buf, p.Payload, protocolVersion)
}

// ReadPacketStatusInPing reads the packet's fields.
func ReadPacketStatusInPing(cur *wire.Cursor, protocolVersion uint32) (PacketStatusInPing, error) {
	payload, err := wire.ReadInt64(cur, protocolVersion)
	if err != nil {
		return PacketStatusInPing{}, err
	}
	return PacketStatusInPing{Payload: payload}, nil
}

// ReadInStatus reads the leading packet id and dispatches to the matching
// variant reader.
func ReadInStatus(cur *wire.Cursor, protocolVersion uint32) (InStatus, error) {
	id, err := wire.ReadVarInt(cur, protocolVersion)
	if err != nil {
		return nil, err
	}
	switch id {
	case 0x00:
		return ReadPacketStatusInRequest(cur, protocolVersion)
	case 0x01:
		return ReadPacketStatusInPing(cur, protocolVersion)
	default:
		return nil, wire.Errorf(wire.KindProtocol, "UnknownPacketId: stage=status id=%#x", id)
	}
}

// OutStatus is the status stage's tagged union of server→client packets.
type OutStatus interface {
	isOutStatus()
}

// PacketStatusOutResponse carries the whole server-list status document.
type PacketStatusOutResponse struct {
	Response StatusResponse
}

func (PacketStatusOutResponse) isOutStatus()   {}
func (PacketStatusOutResponse) PacketID() int32 { return 0x00 }

func (p PacketStatusOutResponse) Write(buf *bytes.Buffer, protocolVersion uint32) error {
	if err := wire.WriteVarInt(buf, p.PacketID(), protocolVersion); err != nil {
		return err
	}
	return wire.WriteJSONPacket(buf, p.Response, protocolVersion)
}

// ReadPacketStatusOutResponse reads the packet's fields.
func ReadPacketStatusOutResponse(cur *wire.Cursor, protocolVersion uint32) (PacketStatusOutResponse, error) {
	resp, err := wire.ReadJSONPacket[StatusResponse](cur, protocolVersion)
	if err != nil {
		return PacketStatusOutResponse{}, err
	}
	return PacketStatusOutResponse{Response: resp}, nil
}

// PacketStatusOutPong echoes the ping payload back.
type PacketStatusOutPong struct {
	Payload int64
}

func (PacketStatusOutPong) isOutStatus()    {}
func (PacketStatusOutPong) PacketID() int32 { return 0x01 }

func (p PacketStatusOutPong) Write(buf *bytes.Buffer, protocolVersion uint32) error {
	if err := wire.WriteVarInt(buf, p.PacketID(), protocolVersion); err != nil {
		return err
	}
	return wire.WriteInt64(buf, p.Payload, protocolVersion)
}

// ReadPacketStatusOutPong reads the packet's fields.
func ReadPacketStatusOutPong(cur *wire.Cursor, protocolVersion uint32) (PacketStatusOutPong, error) {
	payload, err := wire.ReadInt64(cur, protocolVersion)
	if err != nil {
		return PacketStatusOutPong{}, err
	}
	return PacketStatusOutPong{Payload: payload}, nil
}

// ReadOutStatus reads the leading packet id and dispatches to the matching
// variant reader.
func ReadOutStatus(cur *wire.Cursor, protocolVersion uint32) (OutStatus, error) {
	id, err := wire.ReadVarInt(cur, protocolVersion)
	if err != nil {
		return nil, err
	}
	switch id {
	case 0x00:
		return ReadPacketStatusOutResponse(cur, protocolVersion)
	case 0x01:
		return ReadPacketStatusOutPong(cur, protocolVersion)
	default:
		return nil, wire.Errorf(wire.KindProtocol, "UnknownPacketId: stage=status id=%#x", id)
	}
}
