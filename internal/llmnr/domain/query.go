package domain

import (
	"encoding/binary"
	"fmt"
)

// LLMNR shares the DNS message header layout (RFC 1035 §4.1.1).
const (
	// HeaderSize is the fixed LLMNR header length in bytes.
	HeaderSize = 12

	// FlagResponse is the QR bit; set on responses, clear on queries.
	FlagResponse uint16 = 0x8000

	// OpcodeMask covers the four opcode bits; LLMNR only defines opcode 0.
	OpcodeMask uint16 = 0x7800

	// FlagTruncated is the TC bit; a truncated query is not answerable.
	FlagTruncated uint16 = 0x0200

	// DefaultTTL is the time-to-live advertised on answer records, in
	// seconds.
	DefaultTTL uint32 = 30
)

// Query is a validated view of one received datagram. Question holds the
// bytes following the header verbatim (encoded name, qtype, qclass, and any
// trailing bytes), so a response can echo the question section unchanged.
// The view aliases the transport's receive buffer and is only valid while
// that datagram is being processed.
type Query struct {
	ID       uint16
	Question []byte
	NameLen  int
}

// Name returns the encoded query name including its length octet and zero
// terminator.
func (q Query) Name() []byte {
	return q.Question[:q.NameLen+2]
}

// TypeClass reads the query type and class following the name. It fails if
// fewer than 4 bytes remain, which marks a malformed question section.
func (q Query) TypeClass() (RRType, RRClass, error) {
	off := q.NameLen + 2
	if len(q.Question)-off < 4 {
		return 0, 0, fmt.Errorf("question truncated after name: %d bytes left", len(q.Question)-off)
	}
	qtype := RRType(binary.BigEndian.Uint16(q.Question[off : off+2]))
	qclass := RRClass(binary.BigEndian.Uint16(q.Question[off+2 : off+4]))
	return qtype, qclass, nil
}
