package wire

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestStringRoundTrip(t *testing.T) {
	for _, s := range []string{"", "hello", "soulflame", "éè"} {
		var buf bytes.Buffer
		if err := WriteString(&buf, s, 759); err != nil {
			t.Fatalf("WriteString(%q): %v", s, err)
		}
		got, err := ReadString(NewCursor(buf.Bytes()), 759)
		if err != nil {
			t.Fatalf("ReadString(%q): %v", s, err)
		}
		if got != s {
			t.Fatalf("round trip mismatch: wrote %q, read %q", s, got)
		}
	}
}

func TestStringOverLimitRejectedOnWrite(t *testing.T) {
	huge := strings.Repeat("a", MaxStringBytes+1)
	var buf bytes.Buffer
	err := WriteString(&buf, huge, 759)
	if err == nil {
		t.Fatal("expected error writing over-limit string, got nil")
	}
	werr, ok := err.(*Error)
	if !ok || werr.Kind != KindOverLimit {
		t.Fatalf("expected OverLimit error, got %v", err)
	}
}

func TestStringOverLimitRejectedOnRead(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteVarInt(&buf, MaxStringBytes+1, 759); err != nil {
		t.Fatal(err)
	}
	buf.Write(make([]byte, MaxStringBytes+1))
	_, err := ReadString(NewCursor(buf.Bytes()), 759)
	if err == nil {
		t.Fatal("expected error reading over-limit string, got nil")
	}
	werr, ok := err.(*Error)
	if !ok || werr.Kind != KindOverLimit {
		t.Fatalf("expected OverLimit error, got %v", err)
	}
}

func TestStringRejectsInvalidUTF8(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteVarInt(&buf, 1, 759); err != nil {
		t.Fatal(err)
	}
	buf.WriteByte(0xff)
	_, err := ReadString(NewCursor(buf.Bytes()), 759)
	if err == nil {
		t.Fatal("expected error reading invalid UTF-8, got nil")
	}
	werr, ok := err.(*Error)
	if !ok || werr.Kind != KindMalformed {
		t.Fatalf("expected Malformed error, got %v", err)
	}
}

func TestBoolRoundTrip(t *testing.T) {
	for _, v := range []bool{true, false} {
		var buf bytes.Buffer
		if err := WriteBool(&buf, v, 759); err != nil {
			t.Fatal(err)
		}
		got, err := ReadBool(NewCursor(buf.Bytes()), 759)
		if err != nil {
			t.Fatal(err)
		}
		if got != v {
			t.Fatalf("wrote %v, read %v", v, got)
		}
	}
}

func TestFixedWidthRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteUint16(&buf, 25565, 759); err != nil {
		t.Fatal(err)
	}
	if err := WriteInt32(&buf, -12345, 759); err != nil {
		t.Fatal(err)
	}
	if err := WriteInt64(&buf, -9876543210, 759); err != nil {
		t.Fatal(err)
	}
	if err := WriteFloat32(&buf, 3.5, 759); err != nil {
		t.Fatal(err)
	}
	if err := WriteFloat64(&buf, -1.25, 759); err != nil {
		t.Fatal(err)
	}

	cur := NewCursor(buf.Bytes())
	if v, err := ReadUint16(cur, 759); err != nil || v != 25565 {
		t.Fatalf("ReadUint16 = %d, %v", v, err)
	}
	if v, err := ReadInt32(cur, 759); err != nil || v != -12345 {
		t.Fatalf("ReadInt32 = %d, %v", v, err)
	}
	if v, err := ReadInt64(cur, 759); err != nil || v != -9876543210 {
		t.Fatalf("ReadInt64 = %d, %v", v, err)
	}
	if v, err := ReadFloat32(cur, 759); err != nil || v != 3.5 {
		t.Fatalf("ReadFloat32 = %v, %v", v, err)
	}
	if v, err := ReadFloat64(cur, 759); err != nil || v != -1.25 {
		t.Fatalf("ReadFloat64 = %v, %v", v, err)
	}
}

func TestOptionRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	var present *int64
	v := int64(42)
	present = &v
	if err := WriteOption(&buf, present, 759, WriteInt64); err != nil {
		t.Fatal(err)
	}
	if err := WriteOption[int64](&buf, nil, 759, WriteInt64); err != nil {
		t.Fatal(err)
	}

	cur := NewCursor(buf.Bytes())
	got, err := ReadOption(cur, 759, ReadInt64)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || *got != 42 {
		t.Fatalf("expected present value 42, got %v", got)
	}
	got2, err := ReadOption(cur, 759, ReadInt64)
	if err != nil {
		t.Fatal(err)
	}
	if got2 != nil {
		t.Fatalf("expected absent value, got %v", *got2)
	}
}

func TestOptionBadTag(t *testing.T) {
	buf := []byte{0x02}
	_, err := ReadOption(NewCursor(buf), 759, ReadInt64)
	if err == nil {
		t.Fatal("expected error for bad option tag, got nil")
	}
	werr, ok := err.(*Error)
	if !ok || werr.Kind != KindMalformed {
		t.Fatalf("expected Malformed error, got %v", err)
	}
}

func TestArrayRoundTrip(t *testing.T) {
	items := []int32{1, 2, 3, 4}
	var buf bytes.Buffer
	if err := WriteArray(&buf, items, 759, WriteInt32); err != nil {
		t.Fatal(err)
	}
	got, err := ReadArray(NewCursor(buf.Bytes()), 759, ReadInt32)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(items) {
		t.Fatalf("got %d elements, want %d", len(got), len(items))
	}
	for i := range items {
		if got[i] != items[i] {
			t.Fatalf("element %d: got %d, want %d", i, got[i], items[i])
		}
	}
}

func TestUUIDRoundTrip(t *testing.T) {
	id := uuid.New()
	var buf bytes.Buffer
	if err := WriteUUID(&buf, id, 759); err != nil {
		t.Fatal(err)
	}
	got, err := ReadUUID(NewCursor(buf.Bytes()), 759)
	if err != nil {
		t.Fatal(err)
	}
	if got != id {
		t.Fatalf("round trip mismatch: wrote %s, read %s", id, got)
	}
}

func TestBytesRoundTrip(t *testing.T) {
	payload := []byte{0xde, 0xad, 0xbe, 0xef}
	var buf bytes.Buffer
	if err := WriteBytes(&buf, payload, 759); err != nil {
		t.Fatal(err)
	}
	got, err := ReadBytes(NewCursor(buf.Bytes()), 759)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("round trip mismatch: wrote % x, read % x", payload, got)
	}
}

func TestByteArrayConsumesRemainder(t *testing.T) {
	payload := []byte{1, 2, 3, 4, 5}
	cur := NewCursor(payload)
	// Advance past the first two bytes to mimic a preceding field read.
	if _, err := cur.Next(2); err != nil {
		t.Fatal(err)
	}
	got, err := ReadByteArray(cur, 759)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload[2:]) {
		t.Fatalf("got % x, want % x", got, payload[2:])
	}
}
