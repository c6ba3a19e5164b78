// Package udpserver runs the contact store behind a datagram socket. It
// reads one instruction at a time, applies it and replies to the sender.
package udpserver

import (
	"context"
	"errors"
	"log/slog"
	"net"

	"phonebook/contact"
	"phonebook/pkg/sentry"
	"phonebook/protocol"
	"phonebook/udp"
)

type Server struct {
	// Addr is the local "host:port" the store binds.
	Addr string

	ContactService contact.Service

	Logger *slog.Logger

	session *udp.Session
	handler *Handler
}

func New(addr string, svc contact.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		Addr:           addr,
		ContactService: svc,
		Logger:         logger,
		handler:        NewHandler(svc, logger),
	}
}

// Open binds the socket. It must be called before Serve.
func (s *Server) Open() error {
	session, err := udp.Bind(s.Addr)
	if err != nil {
		return err
	}
	s.session = session
	s.Logger.Info("socket bound", slog.String("addr", session.LocalAddr().String()))
	return nil
}

func (s *Server) LocalAddr() *net.UDPAddr {
	if s.session == nil {
		return nil
	}
	return s.session.LocalAddr()
}

// Serve processes datagrams sequentially until ctx is done or the socket is
// closed. Malformed datagrams and send failures are logged and skipped.
func (s *Server) Serve(ctx context.Context) error {
	if s.session == nil {
		return udp.ErrNotConnected
	}
	for {
		b, from, err := s.session.ReceiveFrom(ctx, protocol.MaxDatagramSize)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, udp.ErrClosed) {
				s.Logger.Info("store stopped")
				return nil
			}
			s.Logger.Warn("receive failed", slog.Any("error", err))
			continue
		}
		s.serveDatagram(ctx, b, from)
	}
}

func (s *Server) serveDatagram(ctx context.Context, b []byte, from *net.UDPAddr) {
	id, ins, err := protocol.DecodeInstruction(b)
	if err != nil {
		s.Logger.Warn("malformed datagram",
			slog.String("source", from.String()),
			slog.Int("size", len(b)),
			slog.Any("error", err),
		)
		sentry.WithTags(map[string]string{"component": "udpserver"}).
			WithExtras(map[string]interface{}{"source": from.String(), "size": len(b)}).
			Warning(err.Error())
		return
	}

	s.Logger.Info("instruction received",
		slog.String("kind", ins.Kind().String()),
		slog.String("key", instructionKey(ins)),
		slog.String("source", from.String()),
		slog.Uint64("request_id", id),
	)

	resp := s.handler.Handle(ctx, ins)
	out, err := protocol.EncodeResponse(id, resp)
	if err != nil {
		s.Logger.Error("encode response failed", slog.String("kind", resp.Kind().String()), slog.Any("error", err))
		return
	}
	if err := s.session.SendTo(out, from); err != nil {
		s.Logger.Error("send response failed", slog.String("destination", from.String()), slog.Any("error", err))
	}
}

func (s *Server) Close() error {
	if s.session == nil {
		return nil
	}
	return s.session.Close()
}

func instructionKey(ins protocol.Instruction) string {
	switch ins := ins.(type) {
	case protocol.AddPhoneNumber:
		return ins.Key
	case protocol.EditNumber:
		return ins.Key
	case protocol.DeleteUser:
		return ins.Key
	default:
		return ""
	}
}
