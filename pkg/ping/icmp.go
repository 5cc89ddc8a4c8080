package ping

import (
	"context"
	"fmt"
	"net"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
)

const protocolICMP = 1

// ICMPProber pings an IPv4 host. It prefers unprivileged datagram sockets
// and falls back to raw sockets.
type ICMPProber struct {
	conn    *icmp.PacketConn
	dst     net.Addr
	addr    string
	id      int
	timeout time.Duration
}

// NewICMP resolves host and opens an ICMP socket for it.
func NewICMP(host string, timeout time.Duration) (*ICMPProber, error) {
	ip, err := net.ResolveIPAddr("ip4", host)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	p := &ICMPProber{addr: ip.String(), id: echoID(), timeout: timeout}
	if c, err := icmp.ListenPacket("udp4", "0.0.0.0"); err == nil {
		p.conn, p.dst = c, &net.UDPAddr{IP: ip.IP}
	} else if c, rawErr := icmp.ListenPacket("ip4:icmp", "0.0.0.0"); rawErr == nil {
		p.conn, p.dst = c, ip
	} else {
		return nil, fmt.Errorf("open icmp socket: %w", err)
	}
	if pc := p.conn.IPv4PacketConn(); pc != nil {
		_ = pc.SetControlMessage(ipv4.FlagTTL, true)
	}
	return p, nil
}

// Addr returns the resolved address.
func (p *ICMPProber) Addr() string { return p.addr }

// Close releases the socket.
func (p *ICMPProber) Close() error { return p.conn.Close() }

// Probe sends echo request seq and waits for the matching reply.
func (p *ICMPProber) Probe(ctx context.Context, seq int) (Reply, error) {
	msg := icmp.Message{
		Type: ipv4.ICMPTypeEcho,
		Body: &icmp.Echo{ID: p.id, Seq: seq, Data: []byte("eblanshell")},
	}
	wb, err := msg.Marshal(nil)
	if err != nil {
		return Reply{}, err
	}
	deadline := time.Now().Add(p.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := p.conn.SetReadDeadline(deadline); err != nil {
		return Reply{}, err
	}
	stop := context.AfterFunc(ctx, func() { _ = p.conn.SetReadDeadline(time.Now()) })
	defer stop()

	start := time.Now()
	if _, err := p.conn.WriteTo(wb, p.dst); err != nil {
		return Reply{}, err
	}
	rb := make([]byte, 1500)
	for {
		n, ttl, peer, err := p.read(rb)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				return Reply{}, ErrTimeout
			}
			return Reply{}, err
		}
		rm, err := icmp.ParseMessage(protocolICMP, rb[:n])
		if err != nil || rm.Type != ipv4.ICMPTypeEchoReply {
			continue
		}
		echo, ok := rm.Body.(*icmp.Echo)
		if !ok || echo.Seq != seq {
			continue
		}
		return Reply{Seq: seq, Addr: hostOf(peer), RTT: time.Since(start), TTL: ttl}, nil
	}
}

func (p *ICMPProber) read(b []byte) (int, int, net.Addr, error) {
	if pc := p.conn.IPv4PacketConn(); pc != nil {
		n, cm, peer, err := pc.ReadFrom(b)
		ttl := 0
		if cm != nil {
			ttl = cm.TTL
		}
		return n, ttl, peer, err
	}
	n, peer, err := p.conn.ReadFrom(b)
	return n, 0, peer, err
}

func hostOf(a net.Addr) string {
	switch v := a.(type) {
	case *net.UDPAddr:
		return v.IP.String()
	case *net.IPAddr:
		return v.IP.String()
	case nil:
		return ""
	}
	return a.String()
}
