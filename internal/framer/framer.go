// Package framer turns the byte stream of a TCP connection into discrete
// packet payloads and back: length-prefixing, optional zlib compression
// above a threshold, and an optional continuous AES-128-CFB8 cipher applied
// to the raw stream once a connection completes encryption setup.
package framer

import (
	"bytes"
	"crypto/cipher"
	"io"

	"github.com/Maxuss/soulflame/internal/wire"
	"github.com/klauspost/compress/zlib"
)

// noCompression marks a decoder/encoder pair that has not enabled
// compression yet; any non-negative value is a real threshold.
const noCompression = -1

// PacketEncoder turns packet bodies (id + fields, no framing) into
// ready-to-write byte slices: length-prefixed, optionally compressed,
// optionally encrypted.
type PacketEncoder struct {
	threshold int
	stream    cipher.Stream
}

// NewPacketEncoder returns an encoder with compression and encryption both
// disabled.
func NewPacketEncoder() *PacketEncoder {
	return &PacketEncoder{threshold: noCompression}
}

// SetCompression enables the compressed envelope for every future Encode
// call, compressing bodies at or above threshold bytes.
func (e *PacketEncoder) SetCompression(threshold int32) {
	e.threshold = int(threshold)
}

// SetEncryption enables the continuous AES-128-CFB8 cipher over every byte
// written from this point on, keyed by the shared secret negotiated during
// login.
func (e *PacketEncoder) SetEncryption(sharedSecret []byte) error {
	stream, err := newCFB8Stream(sharedSecret, true)
	if err != nil {
		return err
	}
	e.stream = stream
	return nil
}

// Encode frames body (a complete packet: id followed by its fields) into
// the wire envelope currently configured on this encoder.
func (e *PacketEncoder) Encode(body []byte) ([]byte, error) {
	var framed bytes.Buffer
	if e.threshold < 0 {
		if err := wire.WriteVarInt(&framed, int32(len(body)), wire.ProtocolVersion); err != nil {
			return nil, err
		}
		framed.Write(body)
	} else if len(body) < e.threshold {
		// Below threshold: data_len of 0 signals "not compressed" and the
		// packet data follows uncompressed.
		var inner bytes.Buffer
		if err := wire.WriteVarInt(&inner, 0, wire.ProtocolVersion); err != nil {
			return nil, err
		}
		inner.Write(body)
		if err := wire.WriteVarInt(&framed, int32(inner.Len()), wire.ProtocolVersion); err != nil {
			return nil, err
		}
		framed.Write(inner.Bytes())
	} else {
		var compressed bytes.Buffer
		zw := zlib.NewWriter(&compressed)
		if _, err := zw.Write(body); err != nil {
			return nil, wire.NewError(wire.KindFraming, "CompressFailed", err)
		}
		if err := zw.Close(); err != nil {
			return nil, wire.NewError(wire.KindFraming, "CompressFailed", err)
		}
		var inner bytes.Buffer
		if err := wire.WriteVarInt(&inner, int32(len(body)), wire.ProtocolVersion); err != nil {
			return nil, err
		}
		inner.Write(compressed.Bytes())
		// data_len is written exactly once (into inner), and the outer
		// length counts inner's bytes; the Rust source wrote data_len a
		// second time, which desynchronized the stream on every compressed
		// packet.
		if err := wire.WriteVarInt(&framed, int32(inner.Len()), wire.ProtocolVersion); err != nil {
			return nil, err
		}
		framed.Write(inner.Bytes())
	}

	out := framed.Bytes()
	if e.stream != nil {
		enc := make([]byte, len(out))
		e.stream.XORKeyStream(enc, out)
		return enc, nil
	}
	return out, nil
}

// PacketDecoder accumulates bytes read off the wire and yields complete,
// decompressed, decrypted packet bodies as they become available.
type PacketDecoder struct {
	threshold int
	stream    cipher.Stream
	buf       []byte
}

// NewPacketDecoder returns a decoder with compression and encryption both
// disabled.
func NewPacketDecoder() *PacketDecoder {
	return &PacketDecoder{threshold: noCompression}
}

// SetCompression enables the compressed envelope for every future Digest
// call.
func (d *PacketDecoder) SetCompression(threshold int32) {
	d.threshold = int(threshold)
}

// SetEncryption enables the continuous AES-128-CFB8 cipher over every byte
// consumed from this point on.
func (d *PacketDecoder) SetEncryption(sharedSecret []byte) error {
	stream, err := newCFB8Stream(sharedSecret, false)
	if err != nil {
		return err
	}
	d.stream = stream
	return nil
}

// Consume appends freshly read bytes to the decoder's internal buffer,
// decrypting them first if encryption is enabled.
func (d *PacketDecoder) Consume(chunk []byte) {
	if len(chunk) == 0 {
		return
	}
	if d.stream != nil {
		plain := make([]byte, len(chunk))
		d.stream.XORKeyStream(plain, chunk)
		d.buf = append(d.buf, plain...)
		return
	}
	d.buf = append(d.buf, chunk...)
}

// Digest attempts to pop one complete packet body from the buffered bytes.
// It returns ok=false, with no error, when the buffer doesn't yet hold a
// complete frame — the caller should read more and call Digest again.
func (d *PacketDecoder) Digest() (body []byte, ok bool, err error) {
	cur := wire.NewCursor(d.buf)
	totalLen, err := wire.ReadVarInt(cur, wire.ProtocolVersion)
	if err != nil {
		if isShortRead(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if totalLen < 0 {
		return nil, false, wire.NewError(wire.KindFraming, "NegativeLength", nil)
	}
	headerLen := cur.Pos()
	if cur.Remaining() < int(totalLen) {
		return nil, false, nil
	}
	frame, err := cur.Next(int(totalLen))
	if err != nil {
		return nil, false, err
	}
	// frame aliases d.buf, which compact is about to overwrite.
	frame = append([]byte(nil), frame...)
	d.compact(headerLen + int(totalLen))

	if d.threshold < 0 {
		return frame, true, nil
	}

	frameCur := wire.NewCursor(frame)
	dataLen, err := wire.ReadVarInt(frameCur, wire.ProtocolVersion)
	if err != nil {
		return nil, false, err
	}
	rest, err := frameCur.Next(frameCur.Remaining())
	if err != nil {
		return nil, false, err
	}
	if dataLen == 0 {
		return rest, true, nil
	}
	zr, err := zlib.NewReader(bytes.NewReader(rest))
	if err != nil {
		return nil, false, wire.NewError(wire.KindFraming, "DecompressFailed", err)
	}
	defer zr.Close()
	out := make([]byte, dataLen)
	if _, err := io.ReadFull(zr, out); err != nil {
		return nil, false, wire.NewError(wire.KindFraming, "DecompressionSizeMismatch", err)
	}
	// Confirm the stream has exactly dataLen bytes: any byte still readable
	// past the declared size means the advertised data_len was a lie.
	var extra [1]byte
	if n, _ := zr.Read(extra[:]); n > 0 {
		return nil, false, wire.NewError(wire.KindFraming, "DecompressionSizeMismatch", nil)
	}
	return out, true, nil
}

// compact discards the first n consumed bytes of the buffer, keeping the
// backing array alive rather than reallocating on every packet.
func (d *PacketDecoder) compact(n int) {
	d.buf = append(d.buf[:0], d.buf[n:]...)
}

func isShortRead(err error) bool {
	werr, ok := err.(*wire.Error)
	return ok && werr.Kind == wire.KindIO
}

// Read decodes one frame from dec as a T, using readFn to parse the
// yielded body. It is a free function rather than a method because Go does
// not allow a method to introduce new type parameters beyond its receiver.
func Read[T any](dec *PacketDecoder, readFn func(*wire.Cursor, uint32) (T, error)) (*T, bool, error) {
	body, ok, err := dec.Digest()
	if err != nil || !ok {
		return nil, ok, err
	}
	cur := wire.NewCursor(body)
	v, err := readFn(cur, wire.ProtocolVersion)
	if err != nil {
		return nil, false, err
	}
	if cur.Remaining() != 0 {
		return nil, false, wire.NewError(wire.KindFraming, "TrailingGarbage", nil)
	}
	return &v, true, nil
}
