package wire

import (
	"bytes"

	"github.com/Maxuss/soulflame/internal/identifier"
)

// WriteIdentifier writes an Identifier as its "namespace:path" string form.
func WriteIdentifier(buf *bytes.Buffer, id identifier.Identifier, protocolVersion uint32) error {
	return WriteString(buf, id.String(), protocolVersion)
}

// ReadIdentifier reads a String and parses it as an Identifier, failing
// with Malformed if it doesn't follow the namespace:path pattern.
func ReadIdentifier(cur *Cursor, protocolVersion uint32) (identifier.Identifier, error) {
	s, err := ReadString(cur, protocolVersion)
	if err != nil {
		return identifier.Identifier{}, err
	}
	id, err := identifier.Parse(s)
	if err != nil {
		return identifier.Identifier{}, NewError(KindMalformed, "InvalidIdentifier", err)
	}
	return id, nil
}
