package host

import (
	"strings"

	"github.com/zircuit-labs/contract-host/core/budget"
)

// EventType distinguishes contract-emitted events from host diagnostics.
type EventType int

const (
	ContractEvent EventType = iota
	SystemEvent
	DiagnosticEvent
)

func (t EventType) String() string {
	switch t {
	case ContractEvent:
		return "Contract"
	case SystemEvent:
		return "System"
	case DiagnosticEvent:
		return "Diagnostic"
	default:
		return "Unknown"
	}
}

// Event is one entry of the event log.
type Event struct {
	Type   EventType
	Topics []Val
	Data   []Val
}

func (e Event) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	sb.WriteString(e.Type.String())
	sb.WriteString(" Event] topics:[")
	writeVals(&sb, e.Topics)
	sb.WriteString("], data:")
	if len(e.Data) == 1 {
		sb.WriteString(e.Data[0].String())
	} else {
		sb.WriteString("[")
		writeVals(&sb, e.Data)
		sb.WriteString("]")
	}
	return sb.String()
}

func writeVals(sb *strings.Builder, vals []Val) {
	for i, v := range vals {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(v.String())
	}
}

func (e Event) clone() Event {
	return Event{
		Type:   e.Type,
		Topics: append([]Val(nil), e.Topics...),
		Data:   append([]Val(nil), e.Data...),
	}
}

// Events is the append-only event log of an execution session.
type Events struct {
	list []Event
}

func (evs *Events) Len() int { return len(evs.list) }

// Record appends e. The caller must hold the buffer exclusively.
func (evs *Events) Record(e Event) {
	evs.list = append(evs.list, e.clone())
}

// Snapshot returns an independent copy of the log, oldest first.
func (evs *Events) Snapshot() []Event {
	out := make([]Event, len(evs.list))
	for i, e := range evs.list {
		out[i] = e.clone()
	}
	return out
}

// externalize copies the log out of the host, charging the copy to b.
func (evs *Events) externalize(b *budget.Budget) ([]Event, error) {
	if err := b.BulkCharge(budget.MemCpy, uint64(evs.Len()), nil); err != nil {
		return nil, err
	}
	return evs.Snapshot(), nil
}
