package protocol_test

import (
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"phonebook/errs"
	"phonebook/protocol"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstructionRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		ins  protocol.Instruction
	}{
		{name: "add phone number", ins: protocol.AddPhoneNumber{Key: "Alice", Number: "+14155552671"}},
		{name: "add with empty fields", ins: protocol.AddPhoneNumber{}},
		{name: "delete user", ins: protocol.DeleteUser{Key: "Alice"}},
		{name: "edit number", ins: protocol.EditNumber{Key: "Zoë", Number: "+442071838750"}},
		{name: "get all users", ins: protocol.GetAllUsers{}},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := protocol.EncodeInstruction(uint64(i+1), tt.ins)
			require.NoError(t, err)

			id, got, err := protocol.DecodeInstruction(b)
			require.NoError(t, err)
			assert.Equal(t, uint64(i+1), id)
			assert.Equal(t, tt.ins, got)
		})
	}
}

func TestResponseRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		resp protocol.Response
	}{
		{name: "fail", resp: protocol.Fail{Message: "failed to add contact entry: disk full"}},
		{name: "number", resp: protocol.Number{Number: "+14155552671"}},
		{name: "success", resp: protocol.Success{}},
		{name: "all users empty", resp: protocol.AllUsers{Pairs: []protocol.Pair{}}},
		{name: "all users one", resp: protocol.AllUsers{Pairs: []protocol.Pair{{Name: "Alice", Number: "+14155552671"}}}},
		{name: "all users many keeps order", resp: protocol.AllUsers{Pairs: []protocol.Pair{
			{Name: "Charlie", Number: "+16502530000"},
			{Name: "Alice", Number: "+14155552671"},
			{Name: "Bob", Number: "not-a-number"},
			{Name: "", Number: ""},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := protocol.EncodeResponse(42, tt.resp)
			require.NoError(t, err)

			id, got, err := protocol.DecodeResponse(b)
			require.NoError(t, err)
			assert.Equal(t, uint64(42), id)
			assert.Equal(t, tt.resp, got)
		})
	}
}

func TestEncodeRejectsOversizedMessage(t *testing.T) {
	pairs := make([]protocol.Pair, 0, 200)
	for i := 0; i < 200; i++ {
		pairs = append(pairs, protocol.Pair{Name: strings.Repeat("n", 20), Number: "+14155552671"})
	}

	_, err := protocol.EncodeResponse(1, protocol.AllUsers{Pairs: pairs})

	assert.ErrorIs(t, err, protocol.ErrMessageTooLarge)
}

func TestDecodeMalformed(t *testing.T) {
	valid, err := protocol.EncodeInstruction(7, protocol.AddPhoneNumber{Key: "Alice", Number: "+14155552671"})
	require.NoError(t, err)

	withHeader := func(mutate func(b []byte)) []byte {
		b := append([]byte(nil), valid...)
		mutate(b)
		return b
	}

	tests := []struct {
		name  string
		input []byte
	}{
		{name: "empty datagram", input: nil},
		{name: "short header", input: valid[:protocol.HeaderSize-1]},
		{name: "json garbage", input: []byte(`{"AddPhoneNumber":{"key":"Alice","number":"+1"}}`)},
		{name: "bad magic", input: withHeader(func(b []byte) { binary.BigEndian.PutUint32(b[0:4], 0xdeadbeef) })},
		{name: "bad version", input: withHeader(func(b []byte) { binary.BigEndian.PutUint16(b[4:6], 9) })},
		{name: "unknown kind", input: withHeader(func(b []byte) { binary.BigEndian.PutUint16(b[6:8], 0x0999) })},
		{name: "response kind as instruction", input: withHeader(func(b []byte) { binary.BigEndian.PutUint16(b[6:8], uint16(protocol.KindSuccess)) })},
		{name: "truncated payload", input: valid[:len(valid)-3]},
		{name: "payload length too small", input: withHeader(func(b []byte) { binary.BigEndian.PutUint32(b[16:20], 3) })},
		{name: "field type mismatch", input: withHeader(func(b []byte) { b[protocol.HeaderSize+2] = byte(protocol.FieldBytes) })},
		{name: "oversized datagram", input: make([]byte, protocol.MaxDatagramSize+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				_, _, err := protocol.DecodeInstruction(tt.input)
				assert.ErrorIs(t, err, protocol.ErrMalformedMessage)
				assert.Equal(t, errs.EMALFORMED, errs.ErrorCode(err))
			})
		})
	}
}

func TestDecodeMissingRequiredField(t *testing.T) {
	b, err := protocol.EncodeInstruction(1, protocol.DeleteUser{Key: "Alice"})
	require.NoError(t, err)
	// Same fields under the edit kind lack the number.
	binary.BigEndian.PutUint16(b[6:8], uint16(protocol.KindEditNumber))

	_, _, err = protocol.DecodeInstruction(b)

	assert.ErrorIs(t, err, protocol.ErrMalformedMessage)
}

func TestDecodeResponseMalformedPair(t *testing.T) {
	b, err := protocol.EncodeResponse(1, protocol.AllUsers{Pairs: []protocol.Pair{{Name: "Alice", Number: "+14155552671"}}})
	require.NoError(t, err)

	// Pair field header starts right after the message header; its nested
	// payload starts after that. Corrupt the nested key field length.
	nested := protocol.HeaderSize + 7
	binary.BigEndian.PutUint32(b[nested+3:nested+7], 1000)

	_, _, err = protocol.DecodeResponse(b)

	assert.ErrorIs(t, err, protocol.ErrMalformedMessage)
}

func TestDecodeResponseRejectsInstruction(t *testing.T) {
	b, err := protocol.EncodeInstruction(3, protocol.GetAllUsers{})
	require.NoError(t, err)

	_, _, err = protocol.DecodeResponse(b)

	assert.True(t, errors.Is(err, protocol.ErrMalformedMessage))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "add_phone_number", protocol.KindAddPhoneNumber.String())
	assert.Equal(t, "all_users", protocol.KindAllUsers.String())
	assert.Equal(t, "kind(0x999)", protocol.Kind(0x0999).String())
}
