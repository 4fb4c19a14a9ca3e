package wire

import (
	"bytes"
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxStringBytes is the largest number of UTF-8 bytes a String may carry.
const MaxStringBytes = 32767

// MaxArrayLen is the largest element count an Array<T> may carry.
const MaxArrayLen = 1 << 20

// WriteBool writes a single-byte boolean: 0x01 for true, 0x00 for false.
func WriteBool(buf *bytes.Buffer, v bool, protocolVersion uint32) error {
	if v {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
	return nil
}

// ReadBool reads a single-byte boolean. Any non-zero byte reads as true,
// matching reference client leniency.
func ReadBool(cur *Cursor, protocolVersion uint32) (bool, error) {
	b, err := cur.ReadByte()
	if err != nil {
		return false, NewError(KindIO, "Io", err)
	}
	return b != 0, nil
}

// WriteByte writes a single raw byte.
func WriteByte(buf *bytes.Buffer, v byte, protocolVersion uint32) error {
	buf.WriteByte(v)
	return nil
}

// ReadByte reads a single raw byte.
func ReadByte(cur *Cursor, protocolVersion uint32) (byte, error) {
	b, err := cur.ReadByte()
	if err != nil {
		return 0, NewError(KindIO, "Io", err)
	}
	return b, nil
}

// WriteUint16 writes a big-endian fixed-width unsigned 16-bit integer
// (used for the handshake's server port field).
func WriteUint16(buf *bytes.Buffer, v uint16, protocolVersion uint32) error {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	buf.Write(b[:])
	return nil
}

// ReadUint16 reads a big-endian fixed-width unsigned 16-bit integer.
func ReadUint16(cur *Cursor, protocolVersion uint32) (uint16, error) {
	b, err := cur.Next(2)
	if err != nil {
		return 0, NewError(KindIO, "Io", err)
	}
	return binary.BigEndian.Uint16(b), nil
}

// WriteInt32 writes a big-endian fixed-width signed 32-bit integer.
func WriteInt32(buf *bytes.Buffer, v int32, protocolVersion uint32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	buf.Write(b[:])
	return nil
}

// ReadInt32 reads a big-endian fixed-width signed 32-bit integer.
func ReadInt32(cur *Cursor, protocolVersion uint32) (int32, error) {
	b, err := cur.Next(4)
	if err != nil {
		return 0, NewError(KindIO, "Io", err)
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

// WriteInt64 writes a big-endian fixed-width signed 64-bit integer.
func WriteInt64(buf *bytes.Buffer, v int64, protocolVersion uint32) error {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	buf.Write(b[:])
	return nil
}

// ReadInt64 reads a big-endian fixed-width signed 64-bit integer.
func ReadInt64(cur *Cursor, protocolVersion uint32) (int64, error) {
	b, err := cur.Next(8)
	if err != nil {
		return 0, NewError(KindIO, "Io", err)
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}

// WriteFloat32 writes a big-endian IEEE-754 single-precision float.
func WriteFloat32(buf *bytes.Buffer, v float32, protocolVersion uint32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], math.Float32bits(v))
	buf.Write(b[:])
	return nil
}

// ReadFloat32 reads a big-endian IEEE-754 single-precision float.
func ReadFloat32(cur *Cursor, protocolVersion uint32) (float32, error) {
	b, err := cur.Next(4)
	if err != nil {
		return 0, NewError(KindIO, "Io", err)
	}
	return math.Float32frombits(binary.BigEndian.Uint32(b)), nil
}

// WriteFloat64 writes a big-endian IEEE-754 double-precision float.
func WriteFloat64(buf *bytes.Buffer, v float64, protocolVersion uint32) error {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], math.Float64bits(v))
	buf.Write(b[:])
	return nil
}

// ReadFloat64 reads a big-endian IEEE-754 double-precision float.
func ReadFloat64(cur *Cursor, protocolVersion uint32) (float64, error) {
	b, err := cur.Next(8)
	if err != nil {
		return 0, NewError(KindIO, "Io", err)
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
}

// WriteString writes a VarInt byte-length prefix followed by the string's
// UTF-8 bytes. Strings longer than MaxStringBytes fail with OverLimit.
func WriteString(buf *bytes.Buffer, s string, protocolVersion uint32) error {
	b := []byte(s)
	if len(b) > MaxStringBytes {
		return Errorf(KindOverLimit, "string of %d bytes exceeds max %d", len(b), MaxStringBytes)
	}
	if err := WriteVarInt(buf, int32(len(b)), protocolVersion); err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

// ReadString reads a VarInt byte-length prefix followed by that many UTF-8
// bytes.
func ReadString(cur *Cursor, protocolVersion uint32) (string, error) {
	n, err := ReadVarInt(cur, protocolVersion)
	if err != nil {
		return "", err
	}
	if n < 0 || int(n) > MaxStringBytes {
		return "", Errorf(KindOverLimit, "string length %d exceeds max %d", n, MaxStringBytes)
	}
	b, err := cur.Next(int(n))
	if err != nil {
		return "", NewError(KindIO, "Io", err)
	}
	if !utf8.Valid(b) {
		return "", NewError(KindMalformed, "BadUtf8", nil)
	}
	return string(b), nil
}

// WriteByteArray writes raw bytes with no length prefix. Valid only as the
// trailing field of a packet, where the framer's own envelope supplies the
// boundary.
func WriteByteArray(buf *bytes.Buffer, b []byte, protocolVersion uint32) error {
	buf.Write(b)
	return nil
}

// ReadByteArray reads all remaining bytes in the cursor.
func ReadByteArray(cur *Cursor, protocolVersion uint32) ([]byte, error) {
	b, err := cur.Next(cur.Remaining())
	if err != nil {
		return nil, NewError(KindIO, "Io", err)
	}
	return b, nil
}

// WriteBytes writes a VarInt element count followed by the raw bytes,
// the "Vec<u8>" shape used by public keys and shared secrets — distinct
// from ByteArray, which carries no length prefix at all.
func WriteBytes(buf *bytes.Buffer, b []byte, protocolVersion uint32) error {
	if len(b) > MaxArrayLen {
		return Errorf(KindOverLimit, "byte vector of %d elements exceeds max %d", len(b), MaxArrayLen)
	}
	if err := WriteVarInt(buf, int32(len(b)), protocolVersion); err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

// ReadBytes reads a VarInt element count followed by that many raw bytes.
func ReadBytes(cur *Cursor, protocolVersion uint32) ([]byte, error) {
	n, err := ReadVarInt(cur, protocolVersion)
	if err != nil {
		return nil, err
	}
	if n < 0 || int(n) > MaxArrayLen {
		return nil, Errorf(KindOverLimit, "byte vector length %d exceeds max %d", n, MaxArrayLen)
	}
	b, err := cur.Next(int(n))
	if err != nil {
		return nil, NewError(KindIO, "Io", err)
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// WriteArray writes a VarInt element count followed by each element,
// encoded with writeElem. Counts above MaxArrayLen fail with OverLimit.
func WriteArray[T any](buf *bytes.Buffer, items []T, protocolVersion uint32, writeElem func(*bytes.Buffer, T, uint32) error) error {
	if len(items) > MaxArrayLen {
		return Errorf(KindOverLimit, "array of %d elements exceeds max %d", len(items), MaxArrayLen)
	}
	if err := WriteVarInt(buf, int32(len(items)), protocolVersion); err != nil {
		return err
	}
	for _, item := range items {
		if err := writeElem(buf, item, protocolVersion); err != nil {
			return err
		}
	}
	return nil
}

// ReadArray reads a VarInt element count followed by that many elements,
// decoded with readElem. Counts above MaxArrayLen fail with OverLimit.
func ReadArray[T any](cur *Cursor, protocolVersion uint32, readElem func(*Cursor, uint32) (T, error)) ([]T, error) {
	n, err := ReadVarInt(cur, protocolVersion)
	if err != nil {
		return nil, err
	}
	if n < 0 || int(n) > MaxArrayLen {
		return nil, Errorf(KindOverLimit, "array length %d exceeds max %d", n, MaxArrayLen)
	}
	out := make([]T, 0, n)
	for i := int32(0); i < n; i++ {
		v, err := readElem(cur, protocolVersion)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// WriteOption writes a one-byte presence tag followed by the value when
// present.
func WriteOption[T any](buf *bytes.Buffer, v *T, protocolVersion uint32, writeElem func(*bytes.Buffer, T, uint32) error) error {
	if v == nil {
		buf.WriteByte(0)
		return nil
	}
	buf.WriteByte(1)
	return writeElem(buf, *v, protocolVersion)
}

// ReadOption reads a one-byte presence tag and, when set, the value.
// Any tag other than 0 or 1 fails with Malformed(BadOptionTag).
func ReadOption[T any](cur *Cursor, protocolVersion uint32, readElem func(*Cursor, uint32) (T, error)) (*T, error) {
	tag, err := cur.ReadByte()
	if err != nil {
		return nil, NewError(KindIO, "Io", err)
	}
	switch tag {
	case 0:
		return nil, nil
	case 1:
		v, err := readElem(cur, protocolVersion)
		if err != nil {
			return nil, err
		}
		return &v, nil
	default:
		return nil, NewError(KindMalformed, "BadOptionTag", nil)
	}
}

// WriteUUID writes the UUID's 16 raw bytes, big-endian.
func WriteUUID(buf *bytes.Buffer, id uuid.UUID, protocolVersion uint32) error {
	buf.Write(id[:])
	return nil
}

// ReadUUID reads 16 raw bytes as a UUID.
func ReadUUID(cur *Cursor, protocolVersion uint32) (uuid.UUID, error) {
	b, err := cur.Next(16)
	if err != nil {
		return uuid.UUID{}, NewError(KindIO, "Io", err)
	}
	var id uuid.UUID
	copy(id[:], b)
	return id, nil
}
