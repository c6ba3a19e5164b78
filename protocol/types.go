package protocol

import "fmt"

const (
	Magic   uint32 = 0x50424b31 // "PBK1"
	Version uint16 = 1

	HeaderSize = 4 + 2 + 2 + 8 + 4

	// MaxDatagramSize bounds every encoded message. Client and store both
	// allocate receive buffers of this size.
	MaxDatagramSize = 8 * 1024
)

// Kind tags the variant carried by a datagram.
type Kind uint16

const (
	KindAddPhoneNumber Kind = 0x0101
	KindDeleteUser     Kind = 0x0102
	KindEditNumber     Kind = 0x0103
	KindGetAllUsers    Kind = 0x0104

	KindFail     Kind = 0x0201
	KindNumber   Kind = 0x0202
	KindAllUsers Kind = 0x0203
	KindSuccess  Kind = 0x0204
)

func (k Kind) String() string {
	switch k {
	case KindAddPhoneNumber:
		return "add_phone_number"
	case KindDeleteUser:
		return "delete_user"
	case KindEditNumber:
		return "edit_number"
	case KindGetAllUsers:
		return "get_all_users"
	case KindFail:
		return "fail"
	case KindNumber:
		return "number"
	case KindAllUsers:
		return "all_users"
	case KindSuccess:
		return "success"
	default:
		return fmt.Sprintf("kind(%#x)", uint16(k))
	}
}

// Instruction is a client to store request.
type Instruction interface {
	Kind() Kind
	isInstruction()
}

type AddPhoneNumber struct {
	Key    string
	Number string
}

type DeleteUser struct {
	Key string
}

type EditNumber struct {
	Key    string
	Number string
}

type GetAllUsers struct{}

func (AddPhoneNumber) Kind() Kind { return KindAddPhoneNumber }
func (DeleteUser) Kind() Kind     { return KindDeleteUser }
func (EditNumber) Kind() Kind     { return KindEditNumber }
func (GetAllUsers) Kind() Kind    { return KindGetAllUsers }

func (AddPhoneNumber) isInstruction() {}
func (DeleteUser) isInstruction()     {}
func (EditNumber) isInstruction()     {}
func (GetAllUsers) isInstruction()    {}

// Response is a store to client reply.
type Response interface {
	Kind() Kind
	isResponse()
}

type Fail struct {
	Message string
}

type Number struct {
	Number string
}

// Pair is one (name, number) row of an AllUsers reply.
type Pair struct {
	Name   string
	Number string
}

// AllUsers lists every stored row in storage iteration order.
type AllUsers struct {
	Pairs []Pair
}

type Success struct{}

func (Fail) Kind() Kind     { return KindFail }
func (Number) Kind() Kind   { return KindNumber }
func (AllUsers) Kind() Kind { return KindAllUsers }
func (Success) Kind() Kind  { return KindSuccess }

func (Fail) isResponse()     {}
func (Number) isResponse()   {}
func (AllUsers) isResponse() {}
func (Success) isResponse()  {}
