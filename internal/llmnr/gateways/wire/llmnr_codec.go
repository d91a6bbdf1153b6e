// Package wire implements the LLMNR wire format: the DNS message layout of
// RFC 1035 with the validation rules of RFC 4795 section 2.1.1.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"net"

	"github.com/haukened/rr-llmnr/internal/llmnr/domain"
)

// llmnrCodec implements LLMNRCodec for UDP datagrams.
type llmnrCodec struct{}

// NewLLMNRCodec creates a new LLMNR wire codec.
func NewLLMNRCodec() *llmnrCodec {
	return &llmnrCodec{}
}

// DecodeQuery parses and validates an LLMNR query datagram.
//
// Rejection rules per RFC 4795 §2.1.1: a sender's query has QR, OPCODE and
// TC clear, exactly one question, and no answer or authority records. The
// queried name is a single length-prefixed, zero-terminated label. Every
// offset is bounds-checked before it is read.
func (c *llmnrCodec) DecodeQuery(data []byte) (domain.Query, error) {
	if len(data) < domain.HeaderSize {
		return domain.Query{}, errors.New("datagram shorter than LLMNR header")
	}

	flags := binary.BigEndian.Uint16(data[2:4])
	qdcount := binary.BigEndian.Uint16(data[4:6])
	ancount := binary.BigEndian.Uint16(data[6:8])
	nscount := binary.BigEndian.Uint16(data[8:10])

	if flags&(domain.FlagResponse|domain.OpcodeMask|domain.FlagTruncated) != 0 {
		return domain.Query{}, errors.New("not a standard query: QR, OPCODE or TC set")
	}
	if qdcount != 1 {
		return domain.Query{}, fmt.Errorf("expected exactly one question, got %d", qdcount)
	}
	if ancount != 0 || nscount != 0 {
		return domain.Query{}, errors.New("query carries answer or authority records")
	}

	question := data[domain.HeaderSize:]
	if len(question) == 0 {
		return domain.Query{}, errors.New("missing question section")
	}
	nameLen := int(question[0])
	switch {
	case nameLen == 0:
		return domain.Query{}, errors.New("empty query name")
	case nameLen > domain.LabelMaxSize:
		return domain.Query{}, fmt.Errorf("query label exceeds %d bytes", domain.LabelMaxSize)
	case nameLen+1 >= len(question):
		return domain.Query{}, errors.New("query name extends past datagram")
	case question[nameLen+1] != 0:
		return domain.Query{}, errors.New("query name missing zero terminator")
	}

	return domain.Query{
		ID:       binary.BigEndian.Uint16(data[0:2]),
		Question: question,
		NameLen:  nameLen,
	}, nil
}

// EncodeResponse serializes an LLMNR response.
//
// The first answer record carries the full encoded hostname; later records
// use an RFC 1035 §4.1.3 compression pointer back to the name already
// present in the packet. The buffer is sized for the uncompressed worst
// case, so serialization never reallocates.
func (c *llmnrCodec) EncodeResponse(resp domain.Response) ([]byte, error) {
	if len(resp.Addrs) == 0 {
		return nil, errors.New("response carries no addresses")
	}

	name := resp.Name.Wire()
	size := domain.HeaderSize + len(resp.Question) +
		len(resp.Addrs)*(len(name)+2+2+4+2+net.IPv4len)
	buf := bytes.NewBuffer(make([]byte, 0, size))

	_ = binary.Write(buf, binary.BigEndian, resp.ID)
	_ = binary.Write(buf, binary.BigEndian, domain.FlagResponse)
	_ = binary.Write(buf, binary.BigEndian, uint16(1)) // QDCOUNT echoed
	//gosec:disable G115 -- Addrs is capped at 16 by the address lookup.
	_ = binary.Write(buf, binary.BigEndian, uint16(len(resp.Addrs)))
	_ = binary.Write(buf, binary.BigEndian, uint16(0)) // NSCOUNT
	_ = binary.Write(buf, binary.BigEndian, uint16(0)) // ARCOUNT

	// Original question, byte for byte.
	buf.Write(resp.Question)

	for i, addr := range resp.Addrs {
		v4 := addr.To4()
		if v4 == nil {
			return nil, fmt.Errorf("non-IPv4 address in answer set: %s", addr)
		}

		if i == 0 {
			buf.Write(name)
		} else {
			//gosec:disable G115 -- question length is bounded by the 2048-byte datagram.
			ptr := 0xC000 | uint16(domain.HeaderSize+len(resp.Question))
			_ = binary.Write(buf, binary.BigEndian, ptr)
		}
		_ = binary.Write(buf, binary.BigEndian, uint16(domain.RRTypeA))
		_ = binary.Write(buf, binary.BigEndian, uint16(domain.RRClassIN))
		_ = binary.Write(buf, binary.BigEndian, resp.TTL)
		_ = binary.Write(buf, binary.BigEndian, uint16(net.IPv4len)) // RDLENGTH
		buf.Write(v4)
	}

	return buf.Bytes(), nil
}

var _ LLMNRCodec = &llmnrCodec{}
