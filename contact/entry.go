package contact

import "phonebook/phone"

// EditState is the client side edit mode of one contact entry.
type EditState int

const (
	Idle EditState = iota
	Editing
)

func (s EditState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Editing:
		return "editing"
	default:
		return "unknown"
	}
}

type MessageKind int

const (
	Edit MessageKind = iota + 1
	Edited
	FinishEdition
	Delete
)

// Message is a user event addressed to a single entry. Text is only read for
// Edited.
type Message struct {
	Kind MessageKind
	Text string
}

// Outcome tells the owner of an entry what an Update did.
type Outcome int

const (
	// Unchanged means the message was not valid in the current state.
	Unchanged Outcome = iota
	// Updated means local edit state changed and nothing is to be sent.
	Updated
	// Rejected means FinishEdition kept the entry in edit mode.
	Rejected
	// Committed means FinishEdition accepted the pending number.
	Committed
	// Removed asks the owner to drop the entry.
	Removed
)

// Entry is the client side view of a contact together with its edit state.
// An entry in Editing holds its pending number apart from Number until a
// FinishEdition succeeds.
type Entry struct {
	Name   string
	Number string
	State  EditState
	Valid  bool

	pending string
}

// NewEntry returns an idle entry that is marked valid.
func NewEntry(name, number string) *Entry {
	return &Entry{Name: name, Number: number, State: Idle, Valid: true}
}

// Pending returns the number being typed while the entry is in edit mode.
func (e *Entry) Pending() string {
	if e.State != Editing {
		return e.Number
	}
	return e.pending
}

func (e *Entry) Contact() Contact {
	return Contact{Name: e.Name, Number: e.Number}
}

func (e *Entry) Update(msg Message) Outcome {
	switch msg.Kind {
	case Edit:
		if e.State != Idle {
			return Unchanged
		}
		e.State = Editing
		e.pending = e.Number
		return Updated
	case Edited:
		if e.State != Editing {
			return Unchanged
		}
		e.pending = msg.Text
		return Updated
	case FinishEdition:
		if e.State != Editing {
			return Unchanged
		}
		return e.finish()
	case Delete:
		return Removed
	default:
		return Unchanged
	}
}

// finish commits a valid pending number. An empty field is not flagged as
// wrong but still keeps the entry in edit mode.
func (e *Entry) finish() Outcome {
	if e.pending != "" && phone.IsValidNumber(e.pending) {
		e.Number = e.pending
		e.pending = ""
		e.Valid = true
		e.State = Idle
		return Committed
	}
	e.Valid = e.pending == ""
	return Rejected
}
