// Package transport provides the UDP multicast transport for the LLMNR
// responder. It owns every socket concern (binding, socket options,
// multicast group membership, ancillary control messages) and hands
// validated queries to the responder service, so the service layer only
// sees domain objects.
package transport

const (
	// Port is the LLMNR UDP port (RFC 4795 §2).
	Port = 5355

	// MulticastAddr4 is the IPv4 LLMNR multicast group (RFC 4795 §2).
	MulticastAddr4 = "224.0.0.252"

	// datagramSize bounds one received LLMNR datagram. The protocol caps
	// datagram size by design, so this is a fixed buffer, not a growable
	// one.
	datagramSize = 2048
)
