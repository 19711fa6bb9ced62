package board

import (
	"encoding/json"

	"collabboard-backend/internal/model"
)

// Router is the collaboration coordinator: it translates each inbound
// event into store/lock/presence effects and a fan-out plan, leaving the
// actual sends to the transport adapter. All methods are pure state
// transitions over the session; nothing blocks. Callers serialize access —
// event handling is one logical thread per session.
type Router struct {
	session *Session
}

// NewRouter creates a router over a session.
func NewRouter(session *Session) *Router {
	return &Router{session: session}
}

// Session exposes the routed session for read-side surfaces.
func (r *Router) Session() *Session {
	return r.session
}

// Connect bootstraps a new connection with the full board snapshot.
// Presence join is deferred to the explicit join event.
func (r *Router) Connect(connID string) []Outbound {
	return []Outbound{{Target: ToSender, Event: EvInitBoard, Data: r.session.Store.Snapshot()}}
}

// Disconnect releases the draw lock if this connection held it and removes
// its presence entry. The release announcement goes out only when the
// disconnecting connection was the holder.
func (r *Router) Disconnect(connID string) []Outbound {
	r.session.Presence.Leave(connID)
	if !r.session.Lock.Release(connID) {
		return nil
	}
	return []Outbound{
		{Target: ToAll, Event: EvDrawReleased},
		{Target: ToAll, Event: EvDrawerCleared},
	}
}

// Handle applies one inbound event and returns the outbound fan-out.
// Unknown event names and undecodable payloads degrade to no work; no
// event is ever answered with an error.
func (r *Router) Handle(connID string, msg Message) []Outbound {
	switch msg.Event {
	case EvJoin:
		// join carries the display name as a bare string.
		var name string
		if err := json.Unmarshal(msg.Data, &name); err != nil {
			return nil
		}
		r.session.Presence.Join(connID, name)
		return nil

	case EvChatMessage:
		// Stateless relay, echoed back to the sender as well.
		return []Outbound{{Target: ToAll, Event: EvChatMessage, Data: msg.Data}}

	case EvRequestDraw:
		granted := r.session.Lock.Request(connID)
		out := []Outbound{{Target: ToSender, Event: EvDrawAllowed, Data: granted}}
		if granted {
			name := r.session.Presence.NameOf(connID)
			out = append(out, Outbound{Target: ToAll, Event: EvActiveDrawer, Data: name})
		}
		return out

	case EvDrawPoint:
		// Live points are ephemeral: relayed to everyone else, never stored.
		return []Outbound{{Target: ToOthers, Event: EvDrawPoint, Data: msg.Data}}

	case EvDrawStroke:
		var stroke model.Stroke
		if err := json.Unmarshal(msg.Data, &stroke); err != nil {
			return nil
		}
		r.session.Store.AddStroke(stroke)
		return []Outbound{{Target: ToOthers, Event: EvDrawStroke, Data: msg.Data}}

	case EvReleaseDraw:
		if !r.session.Lock.Release(connID) {
			return nil
		}
		return []Outbound{
			{Target: ToAll, Event: EvDrawReleased},
			{Target: ToAll, Event: EvDrawerCleared},
		}

	case EvShapeAdd:
		return r.entityAdd(KindShape, EvShapeAdded, msg.Data)
	case EvShapeUpdate:
		return r.entityUpdate(KindShape, EvShapeUpdated, msg.Data)
	case EvShapeDelete:
		return r.entityDelete(KindShape, EvShapeDeleted, msg.Data)

	case EvTextAdd:
		return r.entityAdd(KindText, EvTextAdded, msg.Data)
	case EvTextUpdate:
		return r.entityUpdate(KindText, EvTextUpdated, msg.Data)
	case EvTextDelete:
		return r.entityDelete(KindText, EvTextDeleted, msg.Data)

	case EvNoteAdd:
		return r.entityAdd(KindNote, EvNoteAdded, msg.Data)
	case EvNoteUpdate:
		return r.entityUpdate(KindNote, EvNoteUpdated, msg.Data)
	case EvNoteDelete:
		return r.entityDelete(KindNote, EvNoteDeleted, msg.Data)

	case EvTemplateTextAdd:
		return r.entityAdd(KindTemplateText, EvTemplateTextAdded, msg.Data)
	case EvTemplateTextUpdate:
		return r.entityUpdate(KindTemplateText, EvTemplateTextUpdated, msg.Data)
	case EvTemplateTextDelete:
		return r.entityDelete(KindTemplateText, EvTemplateTextDeleted, msg.Data)

	case EvTemplateTransformUpdate:
		var transform model.TemplateTransform
		if err := json.Unmarshal(msg.Data, &transform); err != nil {
			return nil
		}
		r.session.Store.SetTransform(transform)
		return []Outbound{{Target: ToOthers, Event: EvTemplateTransformUpdated, Data: msg.Data}}

	case EvClearAll:
		// Empties every collection. The draw lock and presence registry
		// are untouched: clearing the canvas is not a release.
		r.session.Store.ClearAll()
		return []Outbound{{Target: ToAll, Event: EvClearAll}}

	default:
		return nil
	}
}

// entityAdd inserts the record and relays it. A payload without an id
// cannot be keyed, so the store skips it, but the relay still happens —
// payload shape beyond the id is not a coordinator concern.
func (r *Router) entityAdd(kind Kind, echo string, data json.RawMessage) []Outbound {
	r.session.Store.Add(kind, extractID(data), data)
	return []Outbound{{Target: ToOthers, Event: echo, Data: data}}
}

func (r *Router) entityUpdate(kind Kind, echo string, data json.RawMessage) []Outbound {
	r.session.Store.Update(kind, extractID(data), data)
	return []Outbound{{Target: ToOthers, Event: echo, Data: data}}
}

func (r *Router) entityDelete(kind Kind, echo string, data json.RawMessage) []Outbound {
	r.session.Store.Delete(kind, extractID(data))
	return []Outbound{{Target: ToOthers, Event: echo, Data: data}}
}
