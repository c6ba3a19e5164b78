package udpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"phonebook/contact"
	"phonebook/pkg/sentry"
	"phonebook/protocol"
)

const listTooLargeMessage = "contact list exceeds datagram size"

// Handler applies one instruction to the contact service and builds the
// single response the store sends back.
type Handler struct {
	ContactService contact.Service
	Logger         *slog.Logger
}

func NewHandler(svc contact.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{ContactService: svc, Logger: logger}
}

// Handle never returns nil. Persistence errors become Fail responses.
func (h *Handler) Handle(ctx context.Context, ins protocol.Instruction) protocol.Response {
	switch ins := ins.(type) {
	case protocol.AddPhoneNumber:
		err := h.ContactService.AddContact(ctx, contact.Contact{Name: ins.Key, Number: ins.Number})
		if err != nil {
			return h.fail(ins, fmt.Sprintf("failed to add contact entry: %v", err), err)
		}
		return protocol.Success{}

	case protocol.EditNumber:
		if err := h.ContactService.EditNumber(ctx, ins.Key, ins.Number); err != nil {
			return h.fail(ins, fmt.Sprintf("failed to edit contact number: %v", err), err)
		}
		return protocol.Success{}

	case protocol.DeleteUser:
		if err := h.ContactService.DeleteContact(ctx, ins.Key); err != nil {
			return h.fail(ins, fmt.Sprintf("failed to delete contact '%s': %v", ins.Key, err), err)
		}
		return protocol.Success{}

	case protocol.GetAllUsers:
		return h.allUsers(ctx, ins)

	default:
		return protocol.Fail{Message: fmt.Sprintf("unsupported instruction %s", ins.Kind())}
	}
}

func (h *Handler) allUsers(ctx context.Context, ins protocol.Instruction) protocol.Response {
	contacts, err := h.ContactService.ListContacts(ctx)
	if err != nil {
		return h.fail(ins, fmt.Sprintf("failed to list contacts: %v", err), err)
	}

	pairs := make([]protocol.Pair, 0, len(contacts))
	for _, c := range contacts {
		pairs = append(pairs, protocol.Pair{Name: c.Name, Number: c.Number})
	}
	resp := protocol.AllUsers{Pairs: pairs}

	// The request id is fixed width, so any id gives the real encoded size.
	if _, err := protocol.EncodeResponse(0, resp); err != nil {
		if errors.Is(err, protocol.ErrMessageTooLarge) {
			h.Logger.Warn("contact list too large", slog.Int("rows", len(pairs)))
			return protocol.Fail{Message: listTooLargeMessage}
		}
		return h.fail(ins, fmt.Sprintf("failed to list contacts: %v", err), err)
	}
	return resp
}

func (h *Handler) fail(ins protocol.Instruction, message string, err error) protocol.Response {
	h.Logger.Error("instruction failed",
		slog.String("kind", ins.Kind().String()),
		slog.Any("error", err),
	)
	sentry.WithTags(map[string]string{
		"component": "udpserver",
		"kind":      ins.Kind().String(),
	}).Error(err)
	return protocol.Fail{Message: message}
}
