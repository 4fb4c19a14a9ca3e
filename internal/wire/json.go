package wire

import (
	"bytes"
	"encoding/json"

	"github.com/Maxuss/soulflame/internal/chat"
)

// MaxComponentBytes is the largest JSON-encoded size a Component may take
// when serialized as a standalone packet field.
const MaxComponentBytes = 262144

// WriteComponent serializes a chat component to JSON and writes it as a
// VarInt-length-prefixed blob, capped independently of the normal String
// cap (components are allowed to be much larger than 32767 bytes).
func WriteComponent(buf *bytes.Buffer, c chat.Component, protocolVersion uint32) error {
	data, err := json.Marshal(c)
	if err != nil {
		return NewError(KindMalformed, "InvalidJson", err)
	}
	if len(data) > MaxComponentBytes {
		return Errorf(KindOverLimit, "component json of %d bytes exceeds max %d", len(data), MaxComponentBytes)
	}
	if err := WriteVarInt(buf, int32(len(data)), protocolVersion); err != nil {
		return err
	}
	buf.Write(data)
	return nil
}

// ReadComponent reads a VarInt-length-prefixed JSON blob and unmarshals it
// into a Component.
func ReadComponent(cur *Cursor, protocolVersion uint32) (chat.Component, error) {
	n, err := ReadVarInt(cur, protocolVersion)
	if err != nil {
		return chat.Component{}, err
	}
	if n < 0 || int(n) > MaxComponentBytes {
		return chat.Component{}, Errorf(KindOverLimit, "component length %d exceeds max %d", n, MaxComponentBytes)
	}
	b, err := cur.Next(int(n))
	if err != nil {
		return chat.Component{}, NewError(KindIO, "Io", err)
	}
	var c chat.Component
	if err := json.Unmarshal(b, &c); err != nil {
		return chat.Component{}, NewError(KindMalformed, "InvalidJson", err)
	}
	return c, nil
}

// WriteJSONPacket marshals v to JSON and writes it as a normal
// length-prefixed String (used by the status-response family of packets,
// whose whole body is one JSON document).
func WriteJSONPacket[T any](buf *bytes.Buffer, v T, protocolVersion uint32) error {
	data, err := json.Marshal(v)
	if err != nil {
		return NewError(KindMalformed, "InvalidJson", err)
	}
	return WriteString(buf, string(data), protocolVersion)
}

// ReadJSONPacket reads a length-prefixed String and unmarshals it as JSON
// into a T.
func ReadJSONPacket[T any](cur *Cursor, protocolVersion uint32) (T, error) {
	var zero T
	s, err := ReadString(cur, protocolVersion)
	if err != nil {
		return zero, err
	}
	var v T
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return zero, NewError(KindMalformed, "InvalidJson", err)
	}
	return v, nil
}
