// Package udp binds datagram endpoints for the client and the store.
//
// A Session has no notion of requests and replies. A client that sends an
// instruction and then blocks on Receive assumes the next datagram from the
// peer answers it; that only holds with one request in flight and no lost,
// duplicated or reordered datagrams. Callers that need more match replies by
// request id (see package client).
package udp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"phonebook/errs"
)

var (
	ErrBind         = errs.Errorf(errs.EUNAVAILABLE, "udp: bind failed")
	ErrConnect      = errs.Errorf(errs.EUNAVAILABLE, "udp: connect failed")
	ErrNotConnected = errs.Errorf(errs.EUNAVAILABLE, "udp: session has no peer")
	ErrSend         = errs.Errorf(errs.EUNAVAILABLE, "udp: send failed")
	ErrReceive      = errs.Errorf(errs.EUNAVAILABLE, "udp: receive failed")
	ErrTimeout      = errs.Errorf(errs.ETIMEOUT, "udp: receive timed out")
	ErrClosed       = errs.Errorf(errs.EUNAVAILABLE, "udp: session closed")
)

// Session is a bound datagram endpoint, optionally paired with one peer.
type Session struct {
	conn *net.UDPConn

	mu   sync.RWMutex
	peer *net.UDPAddr
}

// Bind opens a datagram endpoint on localAddr ("host:port").
func Bind(localAddr string) (*Session, error) {
	laddr, err := net.ResolveUDPAddr("udp", localAddr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBind, err)
	}
	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBind, err)
	}
	return &Session{conn: conn}, nil
}

// Connect pairs the session with remoteAddr. Send goes to that peer and
// Receive drops datagrams from anyone else.
func (s *Session) Connect(remoteAddr string) error {
	raddr, err := net.ResolveUDPAddr("udp", remoteAddr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnect, err)
	}
	if raddr.Port == 0 {
		return fmt.Errorf("%w: missing port in %q", ErrConnect, remoteAddr)
	}
	if raddr.IP == nil || raddr.IP.IsUnspecified() {
		raddr.IP = net.IPv4(127, 0, 0, 1)
	}

	s.mu.Lock()
	s.peer = raddr
	s.mu.Unlock()
	return nil
}

func (s *Session) Peer() *net.UDPAddr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.peer
}

func (s *Session) LocalAddr() *net.UDPAddr {
	return s.conn.LocalAddr().(*net.UDPAddr)
}

// Send writes b as one datagram to the connected peer.
func (s *Session) Send(b []byte) error {
	peer := s.Peer()
	if peer == nil {
		return ErrNotConnected
	}
	return s.SendTo(b, peer)
}

func (s *Session) SendTo(b []byte, addr *net.UDPAddr) error {
	if _, err := s.conn.WriteToUDP(b, addr); err != nil {
		if errors.Is(err, net.ErrClosed) {
			return ErrClosed
		}
		return fmt.Errorf("%w: %v", ErrSend, err)
	}
	return nil
}

// Receive blocks until a datagram from the connected peer arrives, ctx is
// done, or its deadline passes. Datagrams longer than maxBytes are truncated
// by the socket.
func (s *Session) Receive(ctx context.Context, maxBytes int) ([]byte, error) {
	peer := s.Peer()
	if peer == nil {
		return nil, ErrNotConnected
	}
	for {
		b, from, err := s.ReceiveFrom(ctx, maxBytes)
		if err != nil {
			return nil, err
		}
		if sameAddr(from, peer) {
			return b, nil
		}
	}
}

// ReceiveFrom blocks for the next datagram from any source.
func (s *Session) ReceiveFrom(ctx context.Context, maxBytes int) ([]byte, *net.UDPAddr, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, contextError(err)
	}

	deadline, _ := ctx.Deadline()
	if err := s.conn.SetReadDeadline(deadline); err != nil {
		if errors.Is(err, net.ErrClosed) {
			return nil, nil, ErrClosed
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrReceive, err)
	}

	// Unblock the read when ctx is cancelled without a deadline.
	stop := context.AfterFunc(ctx, func() {
		_ = s.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	buf := make([]byte, maxBytes)
	n, from, err := s.conn.ReadFromUDP(buf)
	if err != nil {
		switch {
		case errors.Is(err, net.ErrClosed):
			return nil, nil, ErrClosed
		case errors.Is(err, os.ErrDeadlineExceeded):
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, nil, contextError(ctxErr)
			}
			return nil, nil, ErrTimeout
		default:
			return nil, nil, fmt.Errorf("%w: %v", ErrReceive, err)
		}
	}
	return buf[:n], from, nil
}

func (s *Session) Close() error {
	return s.conn.Close()
}

func contextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	return fmt.Errorf("%w: %v", ErrReceive, err)
}

func sameAddr(a, b *net.UDPAddr) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Port == b.Port && a.IP.Equal(b.IP)
}
