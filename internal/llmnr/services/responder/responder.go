// Package responder decides whether the local host is authoritative for an
// LLMNR query and assembles the answer. Authority means two things at once:
// the queried name equals the configured hostname, and the interface the
// query arrived on actually carries an address to answer with.
package responder

import (
	"context"
	"net"

	"github.com/haukened/rr-llmnr/internal/llmnr/common/log"
	"github.com/haukened/rr-llmnr/internal/llmnr/domain"
)

// Responder answers LLMNR queries for a single configured hostname.
type Responder struct {
	hostname domain.EncodedName
	addrs    AddrLookup
	ttl      uint32
	logger   log.Logger
}

// Options configures a Responder.
type Options struct {
	Hostname domain.EncodedName
	Addrs    AddrLookup
	TTL      uint32
	Logger   log.Logger
}

// New constructs a Responder. A zero TTL falls back to the protocol
// default.
func New(opts Options) *Responder {
	ttl := opts.TTL
	if ttl == 0 {
		ttl = domain.DefaultTTL
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Responder{
		hostname: opts.Hostname,
		addrs:    opts.Addrs,
		ttl:      ttl,
		logger:   logger,
	}
}

// HandleQuery implements QueryResponder. Every early return means silent
// drop: LLMNR never answers queries it is not authoritative for, and never
// signals errors back to the sender.
func (r *Responder) HandleQuery(ctx context.Context, q domain.Query, ifindex int) (domain.Response, bool) {
	if !r.hostname.Matches(q.Name()) {
		return domain.Response{}, false
	}

	qtype, qclass, err := q.TypeClass()
	if err != nil {
		r.logger.Debug(map[string]any{
			"query_id": q.ID,
			"error":    err.Error(),
		}, "Dropping query with malformed question section")
		return domain.Response{}, false
	}

	// Only IN queries supported.
	if qclass != domain.RRClassIN {
		return domain.Response{}, false
	}

	var family domain.Family
	switch qtype {
	case domain.RRTypeA:
		family = domain.FamilyIPv4
	case domain.RRTypeANY:
		family = domain.FamilyUnspec
	default:
		return domain.Response{}, false
	}

	addrs, err := r.addrs.Lookup(ifindex, family)
	if err != nil {
		r.logger.Warn(map[string]any{
			"ifindex": ifindex,
			"family":  family.String(),
			"error":   err.Error(),
		}, "Interface address lookup failed")
		return domain.Response{}, false
	}

	// Only IPv4 records are answerable. Filtering before counting keeps
	// the advertised answer count equal to the records serialized, even
	// when a wildcard lookup returns a mixed-family set.
	var usable []net.IP
	for _, addr := range addrs {
		if addr.To4() != nil {
			usable = append(usable, addr)
		}
	}

	// Don't respond if no address was found for the given interface.
	if len(usable) == 0 {
		return domain.Response{}, false
	}

	r.logger.Debug(map[string]any{
		"query_id": q.ID,
		"name":     r.hostname.String(),
		"type":     qtype.String(),
		"ifindex":  ifindex,
		"answers":  len(usable),
	}, "Answering LLMNR query")

	return domain.Response{
		ID:       q.ID,
		Question: q.Question,
		Name:     r.hostname,
		TTL:      r.ttl,
		Addrs:    usable,
	}, true
}

var _ QueryResponder = (*Responder)(nil)
