package domain

import (
	"bytes"
	"fmt"
)

// LabelMaxSize is the maximum length of a single LLMNR label. RFC 4795
// carries the RFC 1035 label limit of 63 octets.
const LabelMaxSize = 63

// EncodedName is a hostname in LLMNR wire form: a length octet, the raw
// label bytes, and a zero terminator. It is built once at startup and never
// mutated afterwards; every component that needs the local hostname receives
// it explicitly at construction.
type EncodedName struct {
	wire []byte
}

// NewEncodedName encodes a single-label hostname into wire form.
func NewEncodedName(hostname string) (EncodedName, error) {
	if hostname == "" {
		return EncodedName{}, fmt.Errorf("hostname must not be empty")
	}
	if len(hostname) > LabelMaxSize {
		return EncodedName{}, fmt.Errorf("hostname exceeds %d bytes: %q", LabelMaxSize, hostname)
	}
	wire := make([]byte, len(hostname)+2)
	wire[0] = byte(len(hostname))
	copy(wire[1:], hostname)
	// wire[len(hostname)+1] is the zero terminator, already zero.
	return EncodedName{wire: wire}, nil
}

// Wire returns the encoded form [length][label][0]. Callers must not modify
// the returned slice.
func (n EncodedName) Wire() []byte {
	return n.wire
}

// String decodes the wire form back to the original hostname, case
// preserved. The zero value renders as an empty string.
func (n EncodedName) String() string {
	if len(n.wire) < 2 {
		return ""
	}
	return string(n.wire[1 : 1+int(n.wire[0])])
}

// Matches reports whether an encoded query name refers to this hostname.
// LLMNR names are not case-sensitive, so the label bytes are compared under
// ASCII case folding; the length octet and zero terminator must match
// exactly.
func (n EncodedName) Matches(query []byte) bool {
	if len(n.wire) == 0 {
		return false
	}
	l := int(n.wire[0])
	if len(query) < l+2 {
		return false
	}
	if int(query[0]) != l {
		return false
	}
	if query[1+l] != 0 {
		return false
	}
	return bytes.EqualFold(query[1:1+l], n.wire[1:1+l])
}
