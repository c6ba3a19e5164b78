// Package protocol owns the datagram wire contract between the client and the
// contact store.
//
// Every datagram carries exactly one message: a fixed header followed by TLV
// fields.
//
//	magic u32 | version u16 | kind u16 | request_id u64 | payload_len u32 | fields...
//	field: id u16 | type u8 | len u32 | value
//
// All integers are big endian. The request id is chosen by the client and
// echoed by the store so replies can be matched to the instruction that caused
// them; the datagram transport itself guarantees no ordering or delivery.
package protocol
