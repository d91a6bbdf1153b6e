package domain

import "fmt"

// RRType represents a DNS resource record type carried in LLMNR messages.
// The responder only answers address-record requests.
type RRType uint16

// RRClass represents a DNS class; LLMNR only uses IN.
type RRClass uint16

// Family filters interface address lookups by address family.
type Family uint8

// Record types accepted in LLMNR queries.
const (
	RRTypeA   RRType = 1   // A - IPv4 address
	RRTypeANY RRType = 255 // ANY - any type (query only)
)

// RRClassIN is the Internet class, the only class LLMNR defines.
const RRClassIN RRClass = 1

// Address family filters for interface lookups.
const (
	FamilyUnspec Family = iota // any family
	FamilyIPv4
	FamilyIPv6
)

// IsValid returns true if the RRType is one the responder answers.
func (t RRType) IsValid() bool {
	switch t {
	case RRTypeA, RRTypeANY:
		return true
	default:
		return false
	}
}

// String returns the textual representation of the RRType.
// For unknown types, it returns "UNKNOWN(<value>)".
func (t RRType) String() string {
	switch t {
	case RRTypeA:
		return "A"
	case RRTypeANY:
		return "ANY"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint16(t))
	}
}

// IsValid returns true if the RRClass is supported.
func (c RRClass) IsValid() bool {
	return c == RRClassIN
}

// String returns the textual representation of the RRClass.
func (c RRClass) String() string {
	if c == RRClassIN {
		return "IN"
	}
	return fmt.Sprintf("UNKNOWN(%d)", uint16(c))
}

// String returns the textual representation of the Family.
func (f Family) String() string {
	switch f {
	case FamilyIPv4:
		return "ipv4"
	case FamilyIPv6:
		return "ipv6"
	default:
		return "unspec"
	}
}
