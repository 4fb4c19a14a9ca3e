package protocol

import (
	"bytes"

	"github.com/Maxuss/soulflame/internal/chat"
	"github.com/Maxuss/soulflame/internal/identifier"
	"github.com/Maxuss/soulflame/internal/wire"
	"github.com/google/uuid"
)

// InLogin is the login stage's tagged union of client→server packets.
type InLogin interface {
	isInLogin()
}

// PacketLoginInStart begins a login attempt. The key fields are only
// populated when the client presents a Mojang session public key; actually
// verifying that key against a session server is real-auth cryptography
// and stays out of scope here.
type PacketLoginInStart struct {
	Name          string
	KeyExpiration *int64
	PublicKey     *[]byte
	Signature     *[]byte
}

func (PacketLoginInStart) isInLogin()     {}
func (PacketLoginInStart) PacketID() int32 { return 0x00 }

func (p PacketLoginInStart) Write(buf *bytes.Buffer, protocolVersion uint32) error {
	if err := wire.WriteVarInt(buf, p.PacketID(), protocolVersion); err != nil {
		return err
	}
	if err := wire.WriteString(buf, p.Name, protocolVersion); err != nil {
		return err
	}
	if err := wire.WriteOption(buf, p.KeyExpiration, protocolVersion, wire.WriteInt64); err != nil {
		return err
	}
	if err := wire.WriteOption(buf, p.PublicKey, protocolVersion, wire.WriteBytes); err != nil {
		return err
	}
	return wire.WriteOption(buf, p.Signature, protocolVersion, wire.WriteBytes)
}

// ReadPacketLoginInStart reads the packet's fields.
func ReadPacketLoginInStart(cur *wire.Cursor, protocolVersion uint32) (PacketLoginInStart, error) {
	name, err := wire.ReadString(cur, protocolVersion)
	if err != nil {
		return PacketLoginInStart{}, err
	}
	exp, err := wire.ReadOption(cur, protocolVersion, wire.ReadInt64)
	if err != nil {
		return PacketLoginInStart{}, err
	}
	key, err := wire.ReadOption(cur, protocolVersion, wire.ReadBytes)
	if err != nil {
		return PacketLoginInStart{}, err
	}
	sig, err := wire.ReadOption(cur, protocolVersion, wire.ReadBytes)
	if err != nil {
		return PacketLoginInStart{}, err
	}
	return PacketLoginInStart{Name: name, KeyExpiration: exp, PublicKey: key, Signature: sig}, nil
}

// PacketLoginInEncryptionResponse answers an encryption request with the
// shared secret (RSA-encrypted by the client; decryption is out of scope
// here) and, optionally, a verify token or Mojang chat-signing material.
type PacketLoginInEncryptionResponse struct {
	SharedSecret     []byte
	VerifyToken      *[]byte
	Salt             *int64
	MessageSignature *[]byte
}

func (PacketLoginInEncryptionResponse) isInLogin()     {}
func (PacketLoginInEncryptionResponse) PacketID() int32 { return 0x01 }

func (p PacketLoginInEncryptionResponse) Write(buf *bytes.Buffer, protocolVersion uint32) error {
	if err := wire.WriteVarInt(buf, p.PacketID(), protocolVersion); err != nil {
		return err
	}
	if err := wire.WriteBytes(buf, p.SharedSecret, protocolVersion); err != nil {
		return err
	}
	if err := wire.WriteOption(buf, p.VerifyToken, protocolVersion, wire.WriteBytes); err != nil {
		return err
	}
	if err := wire.WriteOption(buf, p.Salt, protocolVersion, wire.WriteInt64); err != nil {
		return err
	}
	return wire.WriteOption(buf, p.MessageSignature, protocolVersion, wire.WriteBytes)
}

// ReadPacketLoginInEncryptionResponse reads the packet's fields.
func ReadPacketLoginInEncryptionResponse(cur *wire.Cursor, protocolVersion uint32) (PacketLoginInEncryptionResponse, error) {
	secret, err := wire.ReadBytes(cur, protocolVersion)
	if err != nil {
		return PacketLoginInEncryptionResponse{}, err
	}
	token, err := wire.ReadOption(cur, protocolVersion, wire.ReadBytes)
	if err != nil {
		return PacketLoginInEncryptionResponse{}, err
	}
	salt, err := wire.ReadOption(cur, protocolVersion, wire.ReadInt64)
	if err != nil {
		return PacketLoginInEncryptionResponse{}, err
	}
	sig, err := wire.ReadOption(cur, protocolVersion, wire.ReadBytes)
	if err != nil {
		return PacketLoginInEncryptionResponse{}, err
	}
	return PacketLoginInEncryptionResponse{
		SharedSecret:     secret,
		VerifyToken:      token,
		Salt:             salt,
		MessageSignature: sig,
	}, nil
}

// PacketLoginInPluginResponse answers a server-initiated plugin-channel
// query during login.
type PacketLoginInPluginResponse struct {
	MessageID int32
	Data      *[]byte
}

func (PacketLoginInPluginResponse) isInLogin()     {}
func (PacketLoginInPluginResponse) PacketID() int32 { return 0x02 }

func (p PacketLoginInPluginResponse) Write(buf *bytes.Buffer, protocolVersion uint32) error {
	if err := wire.WriteVarInt(buf, p.PacketID(), protocolVersion); err != nil {
		return err
	}
	if err := wire.WriteVarInt(buf, p.MessageID, protocolVersion); err != nil {
		return err
	}
	return wire.WriteOption(buf, p.Data, protocolVersion, wire.WriteByteArray)
}

// ReadPacketLoginInPluginResponse reads the packet's fields. Data is the
// trailing field: when present, it consumes the rest of the frame.
func ReadPacketLoginInPluginResponse(cur *wire.Cursor, protocolVersion uint32) (PacketLoginInPluginResponse, error) {
	id, err := wire.ReadVarInt(cur, protocolVersion)
	if err != nil {
		return PacketLoginInPluginResponse{}, err
	}
	data, err := wire.ReadOption(cur, protocolVersion, wire.ReadByteArray)
	if err != nil {
		return PacketLoginInPluginResponse{}, err
	}
	return PacketLoginInPluginResponse{MessageID: id, Data: data}, nil
}

// ReadInLogin reads the leading packet id and dispatches to the matching
// variant reader.
func ReadInLogin(cur *wire.Cursor, protocolVersion uint32) (InLogin, error) {
	id, err := wire.ReadVarInt(cur, protocolVersion)
	if err != nil {
		return nil, err
	}
	switch id {
	case 0x00:
		return ReadPacketLoginInStart(cur, protocolVersion)
	case 0x01:
		return ReadPacketLoginInEncryptionResponse(cur, protocolVersion)
	case 0x02:
		return ReadPacketLoginInPluginResponse(cur, protocolVersion)
	default:
		return nil, wire.Errorf(wire.KindProtocol, "UnknownPacketId: stage=login id=%#x", id)
	}
}

// ProfileProperty is one entry of a login success's property list (e.g.
// signed skin/cape textures). Only carried, never validated, here.
type ProfileProperty struct {
	Name      string
	Value     string
	Signature *string
}

func writeProfileProperty(buf *bytes.Buffer, p ProfileProperty, protocolVersion uint32) error {
	if err := wire.WriteString(buf, p.Name, protocolVersion); err != nil {
		return err
	}
	if err := wire.WriteString(buf, p.Value, protocolVersion); err != nil {
		return err
	}
	return wire.WriteOption(buf, p.Signature, protocolVersion, wire.WriteString)
}

func readProfileProperty(cur *wire.Cursor, protocolVersion uint32) (ProfileProperty, error) {
	name, err := wire.ReadString(cur, protocolVersion)
	if err != nil {
		return ProfileProperty{}, err
	}
	value, err := wire.ReadString(cur, protocolVersion)
	if err != nil {
		return ProfileProperty{}, err
	}
	sig, err := wire.ReadOption(cur, protocolVersion, wire.ReadString)
	if err != nil {
		return ProfileProperty{}, err
	}
	return ProfileProperty{Name: name, Value: value, Signature: sig}, nil
}

// OutLogin is the login stage's tagged union of server→client packets.
type OutLogin interface {
	isOutLogin()
}

// PacketLoginOutDisconnect rejects a login attempt with an explanatory
// reason, then the connection closes.
type PacketLoginOutDisconnect struct {
	Reason chat.Component
}

func (PacketLoginOutDisconnect) isOutLogin()    {}
func (PacketLoginOutDisconnect) PacketID() int32 { return 0x00 }

func (p PacketLoginOutDisconnect) Write(buf *bytes.Buffer, protocolVersion uint32) error {
	if err := wire.WriteVarInt(buf, p.PacketID(), protocolVersion); err != nil {
		return err
	}
	return wire.WriteComponent(buf, p.Reason, protocolVersion)
}

// ReadPacketLoginOutDisconnect reads the packet's fields.
func ReadPacketLoginOutDisconnect(cur *wire.Cursor, protocolVersion uint32) (PacketLoginOutDisconnect, error) {
	reason, err := wire.ReadComponent(cur, protocolVersion)
	if err != nil {
		return PacketLoginOutDisconnect{}, err
	}
	return PacketLoginOutDisconnect{Reason: reason}, nil
}

// PacketLoginOutEncryptionRequest begins the (out-of-scope) session-auth
// handshake: its shape exists so the Framer's SetEncryption hook has a real
// caller once login cryptography is implemented.
type PacketLoginOutEncryptionRequest struct {
	ServerID    string
	PublicKey   []byte
	VerifyToken []byte
}

func (PacketLoginOutEncryptionRequest) isOutLogin()    {}
func (PacketLoginOutEncryptionRequest) PacketID() int32 { return 0x01 }

func (p PacketLoginOutEncryptionRequest) Write(buf *bytes.Buffer, protocolVersion uint32) error {
	if err := wire.WriteVarInt(buf, p.PacketID(), protocolVersion); err != nil {
		return err
	}
	if err := wire.WriteString(buf, p.ServerID, protocolVersion); err != nil {
		return err
	}
	if err := wire.WriteBytes(buf, p.PublicKey, protocolVersion); err != nil {
		return err
	}
	return wire.WriteBytes(buf, p.VerifyToken, protocolVersion)
}

// ReadPacketLoginOutEncryptionRequest reads the packet's fields.
func ReadPacketLoginOutEncryptionRequest(cur *wire.Cursor, protocolVersion uint32) (PacketLoginOutEncryptionRequest, error) {
	serverID, err := wire.ReadString(cur, protocolVersion)
	if err != nil {
		return PacketLoginOutEncryptionRequest{}, err
	}
	pubKey, err := wire.ReadBytes(cur, protocolVersion)
	if err != nil {
		return PacketLoginOutEncryptionRequest{}, err
	}
	token, err := wire.ReadBytes(cur, protocolVersion)
	if err != nil {
		return PacketLoginOutEncryptionRequest{}, err
	}
	return PacketLoginOutEncryptionRequest{ServerID: serverID, PublicKey: pubKey, VerifyToken: token}, nil
}

// PacketLoginOutSuccess admits the client into Play.
type PacketLoginOutSuccess struct {
	PlayerUUID uuid.UUID
	Username   string
	Properties []ProfileProperty
}

func (PacketLoginOutSuccess) isOutLogin()    {}
func (PacketLoginOutSuccess) PacketID() int32 { return 0x02 }

func (p PacketLoginOutSuccess) Write(buf *bytes.Buffer, protocolVersion uint32) error {
	if err := wire.WriteVarInt(buf, p.PacketID(), protocolVersion); err != nil {
		return err
	}
	if err := wire.WriteUUID(buf, p.PlayerUUID, protocolVersion); err != nil {
		return err
	}
	if err := wire.WriteString(buf, p.Username, protocolVersion); err != nil {
		return err
	}
	return wire.WriteArray(buf, p.Properties, protocolVersion, writeProfileProperty)
}

// ReadPacketLoginOutSuccess reads the packet's fields.
func ReadPacketLoginOutSuccess(cur *wire.Cursor, protocolVersion uint32) (PacketLoginOutSuccess, error) {
	id, err := wire.ReadUUID(cur, protocolVersion)
	if err != nil {
		return PacketLoginOutSuccess{}, err
	}
	name, err := wire.ReadString(cur, protocolVersion)
	if err != nil {
		return PacketLoginOutSuccess{}, err
	}
	props, err := wire.ReadArray(cur, protocolVersion, readProfileProperty)
	if err != nil {
		return PacketLoginOutSuccess{}, err
	}
	return PacketLoginOutSuccess{PlayerUUID: id, Username: name, Properties: props}, nil
}

// PacketLoginOutCompression enables the compression envelope for all
// subsequent packets in both directions, once the threshold is applied to
// both this connection's Framers.
type PacketLoginOutCompression struct {
	Threshold int32
}

func (PacketLoginOutCompression) isOutLogin()    {}
func (PacketLoginOutCompression) PacketID() int32 { return 0x03 }

func (p PacketLoginOutCompression) Write(buf *bytes.Buffer, protocolVersion uint32) error {
	if err := wire.WriteVarInt(buf, p.PacketID(), protocolVersion); err != nil {
		return err
	}
	return wire.WriteVarInt(buf, p.Threshold, protocolVersion)
}

// ReadPacketLoginOutCompression reads the packet's fields.
func ReadPacketLoginOutCompression(cur *wire.Cursor, protocolVersion uint32) (PacketLoginOutCompression, error) {
	threshold, err := wire.ReadVarInt(cur, protocolVersion)
	if err != nil {
		return PacketLoginOutCompression{}, err
	}
	return PacketLoginOutCompression{Threshold: threshold}, nil
}

// PacketLoginOutPluginMessage lets the server query a client-side plugin
// channel before Play begins.
type PacketLoginOutPluginMessage struct {
	MessageID int32
	Channel   identifier.Identifier
	Message   []byte
}

func (PacketLoginOutPluginMessage) isOutLogin()    {}
func (PacketLoginOutPluginMessage) PacketID() int32 { return 0x04 }

func (p PacketLoginOutPluginMessage) Write(buf *bytes.Buffer, protocolVersion uint32) error {
	if err := wire.WriteVarInt(buf, p.PacketID(), protocolVersion); err != nil {
		return err
	}
	if err := wire.WriteVarInt(buf, p.MessageID, protocolVersion); err != nil {
		return err
	}
	if err := wire.WriteIdentifier(buf, p.Channel, protocolVersion); err != nil {
		return err
	}
	return wire.WriteByteArray(buf, p.Message, protocolVersion)
}

// ReadPacketLoginOutPluginMessage reads the packet's fields. Message is the
// trailing field and consumes the rest of the frame.
func ReadPacketLoginOutPluginMessage(cur *wire.Cursor, protocolVersion uint32) (PacketLoginOutPluginMessage, error) {
	id, err := wire.ReadVarInt(cur, protocolVersion)
	if err != nil {
		return PacketLoginOutPluginMessage{}, err
	}
	channel, err := wire.ReadIdentifier(cur, protocolVersion)
	if err != nil {
		return PacketLoginOutPluginMessage{}, err
	}
	msg, err := wire.ReadByteArray(cur, protocolVersion)
	if err != nil {
		return PacketLoginOutPluginMessage{}, err
	}
	return PacketLoginOutPluginMessage{MessageID: id, Channel: channel, Message: msg}, nil
}

// ReadOutLogin reads the leading packet id and dispatches to the matching
// variant reader.
func ReadOutLogin(cur *wire.Cursor, protocolVersion uint32) (OutLogin, error) {
	id, err := wire.ReadVarInt(cur, protocolVersion)
	if err != nil {
		return nil, err
	}
	switch id {
	case 0x00:
		return ReadPacketLoginOutDisconnect(cur, protocolVersion)
	case 0x01:
		return ReadPacketLoginOutEncryptionRequest(cur, protocolVersion)
	case 0x02:
		return ReadPacketLoginOutSuccess(cur, protocolVersion)
	case 0x03:
		return ReadPacketLoginOutCompression(cur, protocolVersion)
	case 0x04:
		return ReadPacketLoginOutPluginMessage(cur, protocolVersion)
	default:
		return nil, wire.Errorf(wire.KindProtocol, "UnknownPacketId: stage=login id=%#x", id)
	}
}
