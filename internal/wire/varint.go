package wire

import "bytes"

const (
	maxVarIntBytes  = 5
	maxVarLongBytes = 10
)

// ProtocolVersion is the wire version passed to the primitives by callers
// below the packet layer, such as the framer's length and data_len VarInts.
const ProtocolVersion uint32 = 759

// WriteVarInt writes v as a LEB128-style variable-length integer: 7 payload
// bits per byte, least-significant group first, continuation bit set on
// every byte but the last. protocolVersion is carried but unused at v759;
// it is preserved so future protocol branches can change the wire shape
// without touching every call site.
func WriteVarInt(buf *bytes.Buffer, v int32, protocolVersion uint32) error {
	uv := uint32(v)
	for {
		b := byte(uv & 0x7F)
		uv >>= 7
		if uv != 0 {
			b |= 0x80
		}
		buf.WriteByte(b)
		if uv == 0 {
			return nil
		}
	}
}

// ReadVarInt decodes a VarInt. Overflow in the accumulating shift is masked
// to 32 bits (wrapping), matching reference clients. A VarInt spanning more
// than 5 bytes fails with Framing(VarIntTooLong).
func ReadVarInt(cur *Cursor, protocolVersion uint32) (int32, error) {
	var result uint32
	var numRead uint
	for {
		b, err := cur.ReadByte()
		if err != nil {
			return 0, NewError(KindIO, "Io", err)
		}
		result |= uint32(b&0x7F) << (7 * numRead)
		numRead++
		if numRead > maxVarIntBytes {
			return 0, NewError(KindFraming, "VarIntTooLong", nil)
		}
		if b&0x80 == 0 {
			return int32(result), nil
		}
	}
}

// WriteVarLong is the 64-bit counterpart of WriteVarInt, 1-10 bytes.
func WriteVarLong(buf *bytes.Buffer, v int64, protocolVersion uint32) error {
	uv := uint64(v)
	for {
		b := byte(uv & 0x7F)
		uv >>= 7
		if uv != 0 {
			b |= 0x80
		}
		buf.WriteByte(b)
		if uv == 0 {
			return nil
		}
	}
}

// ReadVarLong decodes a VarLong; more than 10 bytes fails with
// Framing(VarIntTooLong).
func ReadVarLong(cur *Cursor, protocolVersion uint32) (int64, error) {
	var result uint64
	var numRead uint
	for {
		b, err := cur.ReadByte()
		if err != nil {
			return 0, NewError(KindIO, "Io", err)
		}
		result |= uint64(b&0x7F) << (7 * numRead)
		numRead++
		if numRead > maxVarLongBytes {
			return 0, NewError(KindFraming, "VarIntTooLong", nil)
		}
		if b&0x80 == 0 {
			return int64(result), nil
		}
	}
}

// VarIntSize returns the number of bytes WriteVarInt would emit for v,
// without allocating a buffer.
func VarIntSize(v int32) int {
	uv := uint32(v)
	n := 1
	for uv >= 0x80 {
		uv >>= 7
		n++
	}
	return n
}
