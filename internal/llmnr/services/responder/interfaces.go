package responder

import (
	"context"
	"net"

	"github.com/haukened/rr-llmnr/internal/llmnr/domain"
)

// AddrLookup resolves the addresses configured on a specific network
// interface, filtered by address family. Implementations return a bounded
// set; addresses beyond the per-response budget are not reported.
type AddrLookup interface {
	Lookup(ifindex int, family domain.Family) ([]net.IP, error)
}

// QueryResponder is the contract between the transport and the responder
// service. The transport hands over every validated query together with the
// index of the interface it arrived on; ok == false means no response is
// produced for that datagram.
type QueryResponder interface {
	HandleQuery(ctx context.Context, query domain.Query, ifindex int) (resp domain.Response, ok bool)
}

// ServerTransport defines the interface for LLMNR transport
// implementations. The transport owns all socket concerns and wire format
// conversion; the responder only sees domain objects.
type ServerTransport interface {
	// Start begins listening for queries and handling them via the
	// provided responder.
	Start(ctx context.Context, handler QueryResponder) error

	// Stop gracefully shuts down the transport, closing the socket.
	Stop() error

	// Address returns the network address the transport is bound to.
	Address() string
}
