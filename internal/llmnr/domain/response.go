package domain

import "net"

// Response describes one LLMNR answer before serialization: the echoed
// transaction ID and question section, the responder's encoded hostname for
// the first answer record, the advertised TTL, and the usable addresses,
// one A record each. The responder guarantees Addrs holds only IPv4
// addresses, so the answer count in the serialized header always equals the
// number of records written.
type Response struct {
	ID       uint16
	Question []byte
	Name     EncodedName
	TTL      uint32
	Addrs    []net.IP
}
