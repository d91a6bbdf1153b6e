// Package ifaddr resolves the addresses configured on a network interface.
// Authority decisions in LLMNR are interface-scoped: a responder only
// answers with addresses of the interface a query arrived on.
package ifaddr

import (
	"fmt"
	"net"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/haukened/rr-llmnr/internal/llmnr/domain"
	"github.com/haukened/rr-llmnr/internal/llmnr/services/responder"
)

// MaxAddrs bounds the number of addresses returned per lookup. One LLMNR
// response never carries more answer records than this.
const MaxAddrs = 16

// cacheSize bounds the number of interfaces memoized at once.
const cacheSize = 32

// enumerate lists the IP addresses of one interface, in kernel order.
// Package-level so tests can substitute a fixed address set.
var enumerate = func(ifindex int) ([]net.IP, error) {
	ifi, err := net.InterfaceByIndex(ifindex)
	if err != nil {
		return nil, fmt.Errorf("interface %d: %w", ifindex, err)
	}
	addrs, err := ifi.Addrs()
	if err != nil {
		return nil, fmt.Errorf("addresses of %s: %w", ifi.Name, err)
	}
	ips := make([]net.IP, 0, len(addrs))
	for _, addr := range addrs {
		switch a := addr.(type) {
		case *net.IPNet:
			ips = append(ips, a.IP)
		case *net.IPAddr:
			ips = append(ips, a.IP)
		}
	}
	return ips, nil
}

// Repo is an AddrLookup backed by the kernel interface table, with a short
// expiring memo per interface so a query burst does not re-enumerate on
// every datagram. This caches interface state, never responses.
type Repo struct {
	cache *expirable.LRU[int, []net.IP]
}

// New returns a Repo whose per-interface entries expire after ttl.
func New(ttl time.Duration) *Repo {
	return &Repo{
		cache: expirable.NewLRU[int, []net.IP](cacheSize, nil, ttl),
	}
}

// Lookup returns at most MaxAddrs addresses of the given family configured
// on the interface. FamilyUnspec matches all families; addresses of other
// families are skipped without error.
func (r *Repo) Lookup(ifindex int, family domain.Family) ([]net.IP, error) {
	ips, ok := r.cache.Get(ifindex)
	if !ok {
		var err error
		ips, err = enumerate(ifindex)
		if err != nil {
			return nil, err
		}
		r.cache.Add(ifindex, ips)
	}

	out := make([]net.IP, 0, len(ips))
	for _, ip := range ips {
		if !matchesFamily(ip, family) {
			continue
		}
		out = append(out, ip)
		if len(out) == MaxAddrs {
			break
		}
	}
	return out, nil
}

func matchesFamily(ip net.IP, family domain.Family) bool {
	switch family {
	case domain.FamilyIPv4:
		return ip.To4() != nil
	case domain.FamilyIPv6:
		return ip.To4() == nil && ip.To16() != nil
	default:
		return true
	}
}

// Ensure Repo implements responder.AddrLookup at compile time
var _ responder.AddrLookup = (*Repo)(nil)
