package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"syscall"

	"golang.org/x/net/ipv4"
	"golang.org/x/sys/unix"

	"github.com/haukened/rr-llmnr/internal/llmnr/common/log"
	"github.com/haukened/rr-llmnr/internal/llmnr/gateways/wire"
	"github.com/haukened/rr-llmnr/internal/llmnr/services/responder"
)

// UDPTransport implements the LLMNR receive/dispatch loop over a multicast
// UDP socket. Datagrams are handled strictly one at a time: the protocol is
// fire-and-forget per datagram and all work between receives is in-memory
// computation, so there is no per-packet goroutine and no queue.
type UDPTransport struct {
	addr   string
	codec  wire.LLMNRCodec
	logger log.Logger

	conn  *net.UDPConn
	pconn *ipv4.PacketConn

	// Synchronization for graceful shutdown
	mu      sync.RWMutex
	running bool
	stopCh  chan struct{}
}

// NewUDPTransport creates a new LLMNR UDP transport bound to the given
// port on all interfaces.
func NewUDPTransport(port int, codec wire.LLMNRCodec, logger log.Logger) *UDPTransport {
	return &UDPTransport{
		addr:   fmt.Sprintf(":%d", port),
		codec:  codec,
		logger: logger,
		stopCh: make(chan struct{}),
	}
}

// Start binds the LLMNR socket, joins the multicast group on all eligible
// interfaces, enables interface control messages, and starts the receive
// loop.
func (t *UDPTransport) Start(ctx context.Context, handler responder.QueryResponder) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return fmt.Errorf("UDP transport already running")
	}

	lc := net.ListenConfig{Control: reuseAddr}
	pc, err := lc.ListenPacket(ctx, "udp4", t.addr)
	if err != nil {
		return fmt.Errorf("failed to bind LLMNR socket on %s: %w", t.addr, err)
	}
	conn := pc.(*net.UDPConn)
	pconn := ipv4.NewPacketConn(conn)

	// The inbound interface index arrives as ancillary data (IP_PKTINFO).
	// Without it the receive loop drops every datagram with a warning, so
	// a failure here degrades visibility but must not fail startup.
	if err := pconn.SetControlMessage(ipv4.FlagInterface, true); err != nil {
		t.logger.Warn(map[string]any{
			"error": err.Error(),
		}, "Interface control messages unavailable")
	}

	joined := t.joinGroups(pconn)
	if joined == 0 {
		t.logger.Warn(nil, "Joined no multicast groups; only unicast queries will arrive")
	}

	t.conn = conn
	t.pconn = pconn
	t.running = true

	t.logger.Info(map[string]any{
		"transport": "udp4",
		"address":   t.addr,
		"group":     MulticastAddr4,
		"joined":    joined,
	}, "LLMNR transport started")

	go t.receiveLoop(ctx, handler)

	return nil
}

// joinGroups joins the LLMNR multicast group on every up, multicast-capable
// interface. Per-interface failures are warnings; queries can still arrive
// on the interfaces that did join.
func (t *UDPTransport) joinGroups(pconn *ipv4.PacketConn) int {
	ifaces, err := net.Interfaces()
	if err != nil {
		t.logger.Warn(map[string]any{
			"error": err.Error(),
		}, "Failed to enumerate interfaces")
		return 0
	}

	group := &net.UDPAddr{IP: net.ParseIP(MulticastAddr4)}
	joined := 0
	for i := range ifaces {
		ifi := &ifaces[i]
		if ifi.Flags&net.FlagUp == 0 || ifi.Flags&net.FlagMulticast == 0 {
			continue
		}
		if err := pconn.JoinGroup(ifi, group); err != nil {
			t.logger.Warn(map[string]any{
				"interface": ifi.Name,
				"error":     err.Error(),
			}, "Failed to join multicast group")
			continue
		}
		joined++
	}
	return joined
}

// Stop gracefully shuts down the transport.
func (t *UDPTransport) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return nil
	}

	close(t.stopCh)

	var closeErr error
	if t.conn != nil {
		closeErr = t.conn.Close()
		if closeErr != nil {
			t.logger.Warn(map[string]any{
				"error": closeErr.Error(),
			}, "Error closing UDP connection")
		}
	}

	t.running = false

	t.logger.Info(map[string]any{
		"transport": "udp4",
		"address":   t.addr,
	}, "LLMNR transport stopped")

	return closeErr
}

// Address returns the network address the transport is bound to.
func (t *UDPTransport) Address() string {
	return t.addr
}

// receiveLoop reads datagrams until shutdown, each one fully processed
// before the next read.
func (t *UDPTransport) receiveLoop(ctx context.Context, handler responder.QueryResponder) {
	buffer := make([]byte, datagramSize)

	for {
		select {
		case <-ctx.Done():
			t.logger.Debug(nil, "LLMNR transport stopping due to context cancellation")
			return
		case <-t.stopCh:
			t.logger.Debug(nil, "LLMNR transport stopping due to stop signal")
			return
		default:
			if !t.receiveOne(ctx, buffer, handler) {
				return
			}
		}
	}
}

// receiveOne blocks for one datagram and processes it to completion. It
// returns false once the socket is closed for shutdown.
func (t *UDPTransport) receiveOne(ctx context.Context, buffer []byte, handler responder.QueryResponder) bool {
	n, cm, src, err := t.pconn.ReadFrom(buffer)
	if err != nil {
		if errors.Is(err, net.ErrClosed) {
			return false
		}

		t.mu.RLock()
		running := t.running
		t.mu.RUnlock()
		if !running {
			return false
		}

		if errors.Is(err, unix.EINTR) {
			// An interrupted receive is not an error; try again.
			return true
		}

		t.logger.Warn(map[string]any{
			"error": err.Error(),
		}, "Failed to receive packet")
		return true
	}

	if cm == nil || cm.IfIndex <= 0 {
		// Authority is interface-scoped; without the inbound interface
		// index the query cannot be answered safely.
		t.logger.Warn(map[string]any{
			"client": addrString(src),
		}, "Could not get interface of incoming packet")
		return true
	}

	t.handlePacket(ctx, buffer[:n], cm.IfIndex, src, handler)
	return true
}

// handlePacket runs one datagram through the validate/match/build/send
// pipeline. Rejected input is dropped without a reply; answering malformed
// or foreign traffic would only add noise to a shared segment.
func (t *UDPTransport) handlePacket(ctx context.Context, data []byte, ifindex int, src net.Addr, handler responder.QueryResponder) {
	query, err := t.codec.DecodeQuery(data)
	if err != nil {
		t.logger.Debug(map[string]any{
			"client":  addrString(src),
			"ifindex": ifindex,
			"size":    len(data),
			"error":   err.Error(),
		}, "Dropping datagram")
		return
	}

	resp, ok := handler.HandleQuery(ctx, query, ifindex)
	if !ok {
		return
	}

	out, err := t.codec.EncodeResponse(resp)
	if err != nil {
		t.logger.Error(map[string]any{
			"client":   addrString(src),
			"query_id": resp.ID,
			"error":    err.Error(),
		}, "Failed to encode LLMNR response")
		return
	}

	if _, err := t.conn.WriteTo(out, src); err != nil {
		t.logger.Error(map[string]any{
			"client":   addrString(src),
			"query_id": resp.ID,
			"error":    err.Error(),
		}, "Failed to send response")
		return
	}

	t.logger.Debug(map[string]any{
		"client":   addrString(src),
		"query_id": resp.ID,
		"answers":  len(resp.Addrs),
		"size":     len(out),
	}, "Sent LLMNR response")
}

// reuseAddr sets SO_REUSEADDR before bind so the responder can share port
// 5355 with other LLMNR stacks on the host.
func reuseAddr(network, address string, c syscall.RawConn) error {
	var serr error
	err := c.Control(func(fd uintptr) {
		serr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
	})
	if err != nil {
		return err
	}
	return serr
}

func addrString(a net.Addr) string {
	if a == nil {
		return ""
	}
	return a.String()
}

var _ responder.ServerTransport = (*UDPTransport)(nil)
