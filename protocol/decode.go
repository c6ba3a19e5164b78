package protocol

import "encoding/binary"

type header struct {
	Magic      uint32
	Version    uint16
	Kind       Kind
	RequestID  uint64
	PayloadLen uint32
}

// DecodeInstruction parses one datagram sent by a client.
func DecodeInstruction(b []byte) (uint64, Instruction, error) {
	h, fields, err := decodeMessage(b)
	if err != nil {
		return 0, nil, err
	}

	switch h.Kind {
	case KindAddPhoneNumber, KindEditNumber:
		key, err := lookupString(fields, FieldKey)
		if err != nil {
			return 0, nil, err
		}
		number, err := lookupString(fields, FieldNumber)
		if err != nil {
			return 0, nil, err
		}
		if h.Kind == KindAddPhoneNumber {
			return h.RequestID, AddPhoneNumber{Key: key, Number: number}, nil
		}
		return h.RequestID, EditNumber{Key: key, Number: number}, nil
	case KindDeleteUser:
		key, err := lookupString(fields, FieldKey)
		if err != nil {
			return 0, nil, err
		}
		return h.RequestID, DeleteUser{Key: key}, nil
	case KindGetAllUsers:
		return h.RequestID, GetAllUsers{}, nil
	default:
		return 0, nil, malformed("unexpected instruction kind %s", h.Kind)
	}
}

// DecodeResponse parses one datagram sent by the store.
func DecodeResponse(b []byte) (uint64, Response, error) {
	h, fields, err := decodeMessage(b)
	if err != nil {
		return 0, nil, err
	}

	switch h.Kind {
	case KindFail:
		msg, err := lookupString(fields, FieldMessage)
		if err != nil {
			return 0, nil, err
		}
		return h.RequestID, Fail{Message: msg}, nil
	case KindNumber:
		number, err := lookupString(fields, FieldNumber)
		if err != nil {
			return 0, nil, err
		}
		return h.RequestID, Number{Number: number}, nil
	case KindAllUsers:
		pairs, err := parsePairs(fields)
		if err != nil {
			return 0, nil, err
		}
		return h.RequestID, AllUsers{Pairs: pairs}, nil
	case KindSuccess:
		return h.RequestID, Success{}, nil
	default:
		return 0, nil, malformed("unexpected response kind %s", h.Kind)
	}
}

func decodeMessage(b []byte) (header, []Field, error) {
	if len(b) > MaxDatagramSize {
		return header{}, nil, malformed("datagram of %d bytes exceeds %d", len(b), MaxDatagramSize)
	}
	if len(b) < HeaderSize {
		return header{}, nil, malformed("short header: %d bytes", len(b))
	}

	h := header{
		Magic:      binary.BigEndian.Uint32(b[0:4]),
		Version:    binary.BigEndian.Uint16(b[4:6]),
		Kind:       Kind(binary.BigEndian.Uint16(b[6:8])),
		RequestID:  binary.BigEndian.Uint64(b[8:16]),
		PayloadLen: binary.BigEndian.Uint32(b[16:20]),
	}
	if h.Magic != Magic {
		return header{}, nil, malformed("invalid magic %#x", h.Magic)
	}
	if h.Version != Version {
		return header{}, nil, malformed("unsupported version %d", h.Version)
	}
	if uint64(h.PayloadLen) != uint64(len(b)-HeaderSize) {
		return header{}, nil, malformed("payload length %d does not match %d bytes", h.PayloadLen, len(b)-HeaderSize)
	}

	fields, err := parseFields(b[HeaderSize:])
	if err != nil {
		return header{}, nil, err
	}
	return h, fields, nil
}
