package wire

import "github.com/haukened/rr-llmnr/internal/llmnr/domain"

// LLMNRCodec converts between LLMNR wire format and domain objects.
type LLMNRCodec interface {
	// DecodeQuery validates a raw datagram against RFC 4795 header and
	// name-encoding rules and returns a query view. Any error means the
	// datagram is silently dropped; a rejection never produces a response
	// on the wire.
	DecodeQuery(data []byte) (domain.Query, error)

	// EncodeResponse serializes a response: header, the verbatim question,
	// and one A record per address, using message compression for records
	// after the first.
	EncodeResponse(resp domain.Response) ([]byte, error)
}
