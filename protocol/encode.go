package protocol

import (
	"encoding/binary"
	"fmt"
)

// EncodeInstruction serializes ins as one datagram payload.
func EncodeInstruction(requestID uint64, ins Instruction) ([]byte, error) {
	var fields []Field
	switch v := ins.(type) {
	case AddPhoneNumber:
		fields = []Field{stringField(FieldKey, v.Key), stringField(FieldNumber, v.Number)}
	case DeleteUser:
		fields = []Field{stringField(FieldKey, v.Key)}
	case EditNumber:
		fields = []Field{stringField(FieldKey, v.Key), stringField(FieldNumber, v.Number)}
	case GetAllUsers:
	default:
		return nil, fmt.Errorf("protocol: unsupported instruction %T", ins)
	}
	return encodeMessage(ins.Kind(), requestID, fields)
}

// EncodeResponse serializes resp as one datagram payload.
func EncodeResponse(requestID uint64, resp Response) ([]byte, error) {
	var fields []Field
	switch v := resp.(type) {
	case Fail:
		fields = []Field{stringField(FieldMessage, v.Message)}
	case Number:
		fields = []Field{stringField(FieldNumber, v.Number)}
	case AllUsers:
		fields = make([]Field, 0, len(v.Pairs))
		for _, p := range v.Pairs {
			fields = append(fields, pairField(p))
		}
	case Success:
	default:
		return nil, fmt.Errorf("protocol: unsupported response %T", resp)
	}
	return encodeMessage(resp.Kind(), requestID, fields)
}

func encodeMessage(kind Kind, requestID uint64, fields []Field) ([]byte, error) {
	payloadLen := fieldsLen(fields)
	if HeaderSize+payloadLen > MaxDatagramSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrMessageTooLarge, HeaderSize+payloadLen)
	}

	buf := make([]byte, HeaderSize, HeaderSize+payloadLen)
	binary.BigEndian.PutUint32(buf[0:4], Magic)
	binary.BigEndian.PutUint16(buf[4:6], Version)
	binary.BigEndian.PutUint16(buf[6:8], uint16(kind))
	binary.BigEndian.PutUint64(buf[8:16], requestID)
	binary.BigEndian.PutUint32(buf[16:20], uint32(payloadLen))
	return append(buf, encodeFields(fields)...), nil
}
