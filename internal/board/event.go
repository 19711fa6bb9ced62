package board

import (
	"encoding/json"
	"strconv"
)

// Inbound event names (the client-to-server wire contract).
const (
	EvJoin                    = "join"
	EvChatMessage             = "chat-message"
	EvRequestDraw             = "request-draw"
	EvDrawPoint               = "draw-point"
	EvDrawStroke              = "draw-stroke"
	EvReleaseDraw             = "release-draw"
	EvShapeAdd                = "shape-add"
	EvShapeUpdate             = "shape-update"
	EvShapeDelete             = "shape-delete"
	EvTextAdd                 = "text-add"
	EvTextUpdate              = "text-update"
	EvTextDelete              = "text-delete"
	EvNoteAdd                 = "note-add"
	EvNoteUpdate              = "note-update"
	EvNoteDelete              = "note-delete"
	EvTemplateTextAdd         = "template-text-add"
	EvTemplateTextUpdate      = "template-text-update"
	EvTemplateTextDelete      = "template-text-delete"
	EvTemplateTransformUpdate = "template-transform-update"
	EvClearAll                = "clear-all"
)

// Outbound event names (server-to-client).
const (
	EvInitBoard                = "init-board"
	EvDrawAllowed              = "draw-allowed"
	EvActiveDrawer             = "active-drawer"
	EvDrawReleased             = "draw-released"
	EvDrawerCleared            = "drawer-cleared"
	EvShapeAdded               = "shape-added"
	EvShapeUpdated             = "shape-updated"
	EvShapeDeleted             = "shape-deleted"
	EvTextAdded                = "text-added"
	EvTextUpdated              = "text-updated"
	EvTextDeleted              = "text-deleted"
	EvNoteAdded                = "note-added"
	EvNoteUpdated              = "note-updated"
	EvNoteDeleted              = "note-deleted"
	EvTemplateTextAdded        = "template-text-added"
	EvTemplateTextUpdated      = "template-text-updated"
	EvTemplateTextDeleted      = "template-text-deleted"
	EvTemplateTransformUpdated = "template-transform-updated"
)

// Message is the wire envelope for every board event.
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Target selects the recipients of an outbound event.
type Target int

const (
	// ToSender unicasts to the connection that triggered the event.
	ToSender Target = iota
	// ToOthers broadcasts to every connection except the sender.
	ToOthers
	// ToAll broadcasts to every connection, sender included.
	ToAll
)

// Outbound is one fan-out decision: which event goes where. The transport
// adapter performs the actual sends.
type Outbound struct {
	Target Target
	Event  string
	Data   any
}

// extractID pulls the entity identifier out of an event payload. Update
// and add events carry `{"id": ...}`; delete events carry the bare id.
// Client-generated ids arrive as either strings or numbers. An empty
// return means the payload had no usable id, which downstream treats as
// the documented no-op cases.
func extractID(data json.RawMessage) string {
	if len(data) == 0 {
		return ""
	}
	var probe struct {
		ID any `json:"id"`
	}
	if err := json.Unmarshal(data, &probe); err == nil && probe.ID != nil {
		return idToString(probe.ID)
	}
	var scalar any
	if err := json.Unmarshal(data, &scalar); err == nil {
		return idToString(scalar)
	}
	return ""
}

func idToString(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return ""
	}
}
