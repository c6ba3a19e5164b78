// Package client keeps a local contact list in sync with a remote store over
// datagrams. A Controller starts in the Connecting phase, where the four
// socket fields are filled in, and moves to Connected once the socket is
// bound and paired with the store.
//
// A Controller is driven by a single UI loop and is not safe for concurrent
// use.
package client

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"slices"
	"time"

	"phonebook/contact"
	"phonebook/errs"
	"phonebook/phone"
	"phonebook/protocol"
	"phonebook/udp"
)

const DefaultReceiveTimeout = 3 * time.Second

var (
	ErrAlreadyRegistered  = errs.Errorf(errs.ECONFLICT, "contact already registered")
	ErrUnexpectedResponse = errs.Errorf(errs.EMALFORMED, "unexpected response from store")
	ErrStoreFailed        = errs.Errorf(errs.EINTERNAL, "store reported a failure")
	ErrNotConnected       = errs.Errorf(errs.EUNAVAILABLE, "not connected to a store")
)

type Phase int

const (
	Connecting Phase = iota
	Connected
)

func (p Phase) String() string {
	if p == Connected {
		return "connected"
	}
	return "connecting"
}

// Transport is the datagram endpoint the controller talks through.
// *udp.Session implements it.
type Transport interface {
	Connect(remoteAddr string) error
	Send(b []byte) error
	Receive(ctx context.Context, maxBytes int) ([]byte, error)
	Close() error
}

// BindFunc opens a Transport on a local "host:port".
type BindFunc func(localAddr string) (Transport, error)

func bindUDP(localAddr string) (Transport, error) {
	s, err := udp.Bind(localAddr)
	if err != nil {
		return nil, err
	}
	return s, nil
}

type Options struct {
	// ReceiveTimeout bounds every wait for a store response. Zero means
	// DefaultReceiveTimeout.
	ReceiveTimeout time.Duration

	// AwaitAcks makes add, delete and edit wait for the store's reply and
	// report a Fail as an error. By default they are fire-and-forget.
	AwaitAcks bool

	// Bind replaces the UDP socket, mainly in tests.
	Bind BindFunc

	Logger *slog.Logger
}

type Controller struct {
	opts Options

	phase Phase
	err   error

	localIP, localPort   string
	remoteIP, remotePort string

	transport Transport
	nextID    uint64

	name, number string
	contacts     []*contact.Entry
}

func New(opts Options) *Controller {
	if opts.ReceiveTimeout <= 0 {
		opts.ReceiveTimeout = DefaultReceiveTimeout
	}
	if opts.Bind == nil {
		opts.Bind = bindUDP
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Controller{opts: opts, phase: Connecting}
}

func (c *Controller) Phase() Phase { return c.phase }

// Err returns the last connection error shown on the connecting form.
func (c *Controller) Err() error { return c.err }

func (c *Controller) SetLocalIP(v string) {
	c.localIP = v
	c.err = nil
}

func (c *Controller) SetLocalPort(v string) {
	c.localPort = v
	c.err = nil
}

func (c *Controller) SetRemoteIP(v string) {
	c.remoteIP = v
	c.err = nil
}

func (c *Controller) SetRemotePort(v string) {
	c.remotePort = v
	c.err = nil
}

// Connect binds the local endpoint and pairs it with the store. On failure
// the controller stays in Connecting and Err reports what went wrong.
func (c *Controller) Connect() error {
	if c.phase == Connected {
		return nil
	}

	local := net.JoinHostPort(c.localIP, c.localPort)
	t, err := c.opts.Bind(local)
	if err != nil {
		c.err = fmt.Errorf("Failed to bind socket to `%s`: %w", local, err)
		return c.err
	}

	remote := net.JoinHostPort(c.remoteIP, c.remotePort)
	if err := t.Connect(remote); err != nil {
		_ = t.Close()
		c.err = fmt.Errorf("Failed to connect socket to `%s`: %w", remote, err)
		return c.err
	}

	c.transport = t
	c.err = nil
	c.contacts = nil
	c.phase = Connected
	c.opts.Logger.Info("connected to store", slog.String("local", local), slog.String("remote", remote))
	return nil
}

func (c *Controller) SetName(v string) { c.name = v }
func (c *Controller) SetNumber(v string) { c.number = v }
func (c *Controller) Name() string { return c.name }
func (c *Controller) Number() string { return c.number }

// NameTaken reports whether the name field matches a listed contact.
func (c *Controller) NameTaken() bool {
	for _, e := range c.contacts {
		if e.Name == c.name {
			return true
		}
	}
	return false
}

// NumberInvalid reports whether the number field holds text that is not a
// phone number. An empty field is not flagged.
func (c *Controller) NumberInvalid() bool {
	return c.number != "" && !phone.IsValidNumber(c.number)
}

// CanAdd reports whether AddContact would send anything.
func (c *Controller) CanAdd() bool {
	return c.name != "" && c.number != "" && !c.NameTaken() &&
		contact.Contact{Name: c.name, Number: c.number}.Validate() == nil
}

// Contacts returns a copy of the local list.
func (c *Controller) Contacts() []contact.Entry {
	out := make([]contact.Entry, 0, len(c.contacts))
	for _, e := range c.contacts {
		out = append(out, *e)
	}
	return out
}

// AddContact sends the input fields to the store and appends them to the
// local list. The fields are cleared once the store has the contact and
// kept when the send or the acknowledgement fails.
func (c *Controller) AddContact(ctx context.Context) error {
	if c.phase != Connected {
		return ErrNotConnected
	}
	if c.NameTaken() {
		return ErrAlreadyRegistered
	}
	ct := contact.Contact{Name: c.name, Number: c.number}
	if err := ct.Validate(); err != nil {
		return err
	}

	c.name, c.number = "", ""
	if err := c.mutate(ctx, protocol.AddPhoneNumber{Key: ct.Name, Number: ct.Number}); err != nil {
		c.name, c.number = ct.Name, ct.Number
		return err
	}
	c.contacts = append(c.contacts, contact.NewEntry(ct.Name, ct.Number))
	return nil
}

// DeleteContact drops the entry at index and tells the store. An index out
// of range is ignored.
func (c *Controller) DeleteContact(ctx context.Context, index int) error {
	if c.phase != Connected {
		return ErrNotConnected
	}
	if index < 0 || index >= len(c.contacts) {
		return nil
	}
	e := c.contacts[index]
	c.contacts = slices.Delete(c.contacts, index, index+1)
	return c.mutate(ctx, protocol.DeleteUser{Key: e.Name})
}

// UpdateContact forwards msg to the entry at index. A committed edit is
// sent to the store as a new number for that name.
func (c *Controller) UpdateContact(ctx context.Context, index int, msg contact.Message) error {
	if c.phase != Connected {
		return ErrNotConnected
	}
	if index < 0 || index >= len(c.contacts) {
		return nil
	}
	if msg.Kind == contact.Delete {
		return c.DeleteContact(ctx, index)
	}

	e := c.contacts[index]
	if e.Update(msg) != contact.Committed {
		return nil
	}
	return c.mutate(ctx, protocol.EditNumber{Key: e.Name, Number: e.Number})
}

// RefreshAll replaces the local list with the store's. Any failure leaves
// the list untouched and the controller connected.
func (c *Controller) RefreshAll(ctx context.Context) error {
	if c.phase != Connected {
		return ErrNotConnected
	}
	id, err := c.send(protocol.GetAllUsers{})
	if err != nil {
		return err
	}
	resp, err := c.await(ctx, id)
	if err != nil {
		return err
	}

	switch resp := resp.(type) {
	case protocol.AllUsers:
		entries := make([]*contact.Entry, 0, len(resp.Pairs))
		for _, p := range resp.Pairs {
			entries = append(entries, contact.NewEntry(p.Name, p.Number))
		}
		c.contacts = entries
		return nil
	case protocol.Fail:
		return fmt.Errorf("%w: %s", ErrStoreFailed, resp.Message)
	default:
		return fmt.Errorf("%w: got %s", ErrUnexpectedResponse, resp.Kind())
	}
}

func (c *Controller) Close() error {
	if c.transport == nil {
		return nil
	}
	err := c.transport.Close()
	c.transport = nil
	c.phase = Connecting
	return err
}

// mutate sends a state changing instruction and, with AwaitAcks, checks the
// store accepted it.
func (c *Controller) mutate(ctx context.Context, ins protocol.Instruction) error {
	id, err := c.send(ins)
	if err != nil {
		return err
	}
	if !c.opts.AwaitAcks {
		return nil
	}

	resp, err := c.await(ctx, id)
	if err != nil {
		return err
	}
	switch resp := resp.(type) {
	case protocol.Success:
		return nil
	case protocol.Fail:
		return fmt.Errorf("%w: %s", ErrStoreFailed, resp.Message)
	default:
		return fmt.Errorf("%w: got %s", ErrUnexpectedResponse, resp.Kind())
	}
}

func (c *Controller) send(ins protocol.Instruction) (uint64, error) {
	c.nextID++
	id := c.nextID
	b, err := protocol.EncodeInstruction(id, ins)
	if err != nil {
		return 0, err
	}
	if err := c.transport.Send(b); err != nil {
		return 0, err
	}
	return id, nil
}

// await blocks for the response carrying id. Replies to earlier
// fire-and-forget instructions are dropped.
func (c *Controller) await(ctx context.Context, id uint64) (protocol.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.ReceiveTimeout)
	defer cancel()

	for {
		b, err := c.transport.Receive(ctx, protocol.MaxDatagramSize)
		if err != nil {
			return nil, err
		}
		got, resp, err := protocol.DecodeResponse(b)
		if err != nil {
			return nil, err
		}
		if got == id {
			return resp, nil
		}
		c.opts.Logger.Debug("dropping stale response",
			slog.Uint64("want", id),
			slog.Uint64("got", got),
			slog.String("kind", resp.Kind().String()),
		)
	}
}
