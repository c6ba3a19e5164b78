package protocol

import "encoding/binary"

const fieldHeaderSize = 2 + 1 + 4

// FieldType is the TLV value type.
type FieldType uint8

const (
	FieldString FieldType = 6
	FieldBytes  FieldType = 7
)

// Field ids.
const (
	FieldKey     uint16 = 1
	FieldNumber  uint16 = 2
	FieldMessage uint16 = 3
	FieldPair    uint16 = 4
)

// Field is one TLV field of a message payload.
type Field struct {
	ID    uint16
	Type  FieldType
	Value []byte
}

func stringField(id uint16, v string) Field {
	return Field{ID: id, Type: FieldString, Value: []byte(v)}
}

func pairField(p Pair) Field {
	return Field{
		ID:    FieldPair,
		Type:  FieldBytes,
		Value: encodeFields([]Field{stringField(FieldKey, p.Name), stringField(FieldNumber, p.Number)}),
	}
}

func fieldsLen(fields []Field) int {
	total := 0
	for _, f := range fields {
		total += fieldHeaderSize + len(f.Value)
	}
	return total
}

func encodeFields(fields []Field) []byte {
	buf := make([]byte, fieldsLen(fields))
	offset := 0
	for _, f := range fields {
		binary.BigEndian.PutUint16(buf[offset:offset+2], f.ID)
		buf[offset+2] = byte(f.Type)
		binary.BigEndian.PutUint32(buf[offset+3:offset+7], uint32(len(f.Value)))
		offset += fieldHeaderSize
		offset += copy(buf[offset:], f.Value)
	}
	return buf
}

func parseFields(payload []byte) ([]Field, error) {
	fields := make([]Field, 0, 4)
	for offset := 0; offset < len(payload); {
		if len(payload)-offset < fieldHeaderSize {
			return nil, malformed("short field header at offset %d", offset)
		}
		id := binary.BigEndian.Uint16(payload[offset : offset+2])
		ft := FieldType(payload[offset+2])
		length := binary.BigEndian.Uint32(payload[offset+3 : offset+7])
		offset += fieldHeaderSize
		if uint64(length) > uint64(len(payload)-offset) {
			return nil, malformed("field %d declares %d bytes, %d left", id, length, len(payload)-offset)
		}
		end := offset + int(length)
		value := make([]byte, length)
		copy(value, payload[offset:end])
		fields = append(fields, Field{ID: id, Type: ft, Value: value})
		offset = end
	}
	return fields, nil
}

// lookupString returns the first field with id, which must be a string.
// Unknown fields are skipped by callers so newer peers can add fields.
func lookupString(fields []Field, id uint16) (string, error) {
	for _, f := range fields {
		if f.ID != id {
			continue
		}
		if f.Type != FieldString {
			return "", malformed("field %d type mismatch: got %d want %d", id, f.Type, FieldString)
		}
		return string(f.Value), nil
	}
	return "", malformed("missing field %d", id)
}

func parsePairs(fields []Field) ([]Pair, error) {
	pairs := make([]Pair, 0, len(fields))
	for _, f := range fields {
		if f.ID != FieldPair {
			continue
		}
		if f.Type != FieldBytes {
			return nil, malformed("pair field type mismatch: got %d want %d", f.Type, FieldBytes)
		}
		inner, err := parseFields(f.Value)
		if err != nil {
			return nil, err
		}
		name, err := lookupString(inner, FieldKey)
		if err != nil {
			return nil, err
		}
		number, err := lookupString(inner, FieldNumber)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, Pair{Name: name, Number: number})
	}
	return pairs, nil
}
