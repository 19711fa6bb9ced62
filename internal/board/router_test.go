package board

import (
	"encoding/json"
	"testing"

	"collabboard-backend/internal/model"
)

func handle(r *Router, connID, event, data string) []Outbound {
	msg := Message{Event: event}
	if data != "" {
		msg.Data = json.RawMessage(data)
	}
	return r.Handle(connID, msg)
}

func findOutbound(t *testing.T, outs []Outbound, event string) Outbound {
	t.Helper()
	for _, out := range outs {
		if out.Event == event {
			return out
		}
	}
	t.Fatalf("Expected outbound %q, got %+v", event, outs)
	return Outbound{}
}

func hasOutbound(outs []Outbound, event string) bool {
	for _, out := range outs {
		if out.Event == event {
			return true
		}
	}
	return false
}

func TestRouterBootstrap(t *testing.T) {
	t.Run("connect unicasts the full snapshot", func(t *testing.T) {
		r := NewRouter(NewSession())
		handle(r, "a", EvShapeAdd, `{"id":"s1","x":10,"y":10}`)

		outs := r.Connect("b")
		if len(outs) != 1 {
			t.Fatalf("Expected 1 outbound, got %d", len(outs))
		}
		if outs[0].Target != ToSender || outs[0].Event != EvInitBoard {
			t.Fatalf("Expected init-board unicast, got %+v", outs[0])
		}

		snap, ok := outs[0].Data.(model.Snapshot)
		if !ok {
			t.Fatalf("Expected snapshot payload, got %T", outs[0].Data)
		}
		if len(snap.Shapes) != 1 {
			t.Errorf("Expected 1 shape in bootstrap, got %d", len(snap.Shapes))
		}
	})

	t.Run("join records presence without fan-out", func(t *testing.T) {
		r := NewRouter(NewSession())

		outs := handle(r, "a", EvJoin, `"Alice"`)
		if len(outs) != 0 {
			t.Errorf("Expected no fan-out for join, got %+v", outs)
		}
		if got := r.Session().Presence.NameOf("a"); got != "Alice" {
			t.Errorf("Expected Alice recorded, got %q", got)
		}
	})

	t.Run("chat is relayed to everyone including sender", func(t *testing.T) {
		r := NewRouter(NewSession())

		outs := handle(r, "a", EvChatMessage, `{"text":"hello"}`)
		if len(outs) != 1 {
			t.Fatalf("Expected 1 outbound, got %d", len(outs))
		}
		if outs[0].Target != ToAll || outs[0].Event != EvChatMessage {
			t.Errorf("Expected chat broadcast to all, got %+v", outs[0])
		}
	})
}

func TestRouterDrawLock(t *testing.T) {
	t.Run("grant, deny, stroke, release, regrant", func(t *testing.T) {
		r := NewRouter(NewSession())
		handle(r, "a", EvJoin, `"Alice"`)
		handle(r, "b", EvJoin, `"Bob"`)

		// A requests and is granted.
		outs := handle(r, "a", EvRequestDraw, "")
		allowed := findOutbound(t, outs, EvDrawAllowed)
		if allowed.Target != ToSender || allowed.Data.(bool) != true {
			t.Fatalf("Expected grant unicast to A, got %+v", allowed)
		}
		drawer := findOutbound(t, outs, EvActiveDrawer)
		if drawer.Target != ToAll || drawer.Data.(string) != "Alice" {
			t.Errorf("Expected active-drawer Alice to all, got %+v", drawer)
		}

		// B requests and is denied; no release is announced.
		outs = handle(r, "b", EvRequestDraw, "")
		denied := findOutbound(t, outs, EvDrawAllowed)
		if denied.Data.(bool) {
			t.Error("Expected B to be denied")
		}
		if hasOutbound(outs, EvActiveDrawer) || hasOutbound(outs, EvDrawReleased) {
			t.Errorf("Denial must not announce anything, got %+v", outs)
		}

		// A streams a live point: relayed to others, never stored.
		outs = handle(r, "a", EvDrawPoint, `{"tool":"pen","drawType":"pen","color":"#000","points":[{"x":1,"y":1}]}`)
		point := findOutbound(t, outs, EvDrawPoint)
		if point.Target != ToOthers {
			t.Errorf("Expected live point to others, got %+v", point)
		}
		if r.Session().Store.StrokeCount() != 0 {
			t.Error("Live points must not be persisted")
		}

		// A finalizes the stroke: stored and relayed to others.
		outs = handle(r, "a", EvDrawStroke, `{"tool":"pen","drawType":"pen","color":"#000","points":[{"x":1,"y":1},{"x":2,"y":2},{"x":3,"y":3}]}`)
		stroke := findOutbound(t, outs, EvDrawStroke)
		if stroke.Target != ToOthers {
			t.Errorf("Expected finalized stroke to others, got %+v", stroke)
		}
		if r.Session().Store.StrokeCount() != 1 {
			t.Fatalf("Expected 1 stored stroke, got %d", r.Session().Store.StrokeCount())
		}
		stored := r.Session().Store.Snapshot().Paths[0]
		if stored.Tool != "pen" || stored.Color != "#000" || len(stored.Points) != 3 {
			t.Errorf("Stored stroke mismatch: %+v", stored)
		}

		// A releases; B is granted on retry.
		outs = handle(r, "a", EvReleaseDraw, "")
		if !hasOutbound(outs, EvDrawReleased) || !hasOutbound(outs, EvDrawerCleared) {
			t.Errorf("Expected release announcements, got %+v", outs)
		}
		outs = handle(r, "b", EvRequestDraw, "")
		if !findOutbound(t, outs, EvDrawAllowed).Data.(bool) {
			t.Error("Expected B granted after release")
		}
	})

	t.Run("release from non-holder announces nothing", func(t *testing.T) {
		r := NewRouter(NewSession())
		handle(r, "a", EvRequestDraw, "")

		outs := handle(r, "b", EvReleaseDraw, "")
		if len(outs) != 0 {
			t.Errorf("Expected silent no-op, got %+v", outs)
		}
		if r.Session().Lock.Owner() != "a" {
			t.Errorf("Holder evicted by foreign release: %q", r.Session().Lock.Owner())
		}
	})

	t.Run("grant announcement falls back when join raced", func(t *testing.T) {
		r := NewRouter(NewSession())

		outs := handle(r, "a", EvRequestDraw, "")
		drawer := findOutbound(t, outs, EvActiveDrawer)
		if drawer.Data.(string) != FallbackName {
			t.Errorf("Expected fallback name, got %+v", drawer.Data)
		}
	})

	t.Run("disconnect by holder releases the lock", func(t *testing.T) {
		r := NewRouter(NewSession())
		handle(r, "a", EvJoin, `"Alice"`)
		handle(r, "a", EvRequestDraw, "")

		outs := r.Disconnect("a")
		if !hasOutbound(outs, EvDrawReleased) || !hasOutbound(outs, EvDrawerCleared) {
			t.Errorf("Expected release announcements on holder disconnect, got %+v", outs)
		}
		if r.Session().Presence.Known("a") {
			t.Error("Expected presence entry removed")
		}

		if !findOutbound(t, handle(r, "b", EvRequestDraw, ""), EvDrawAllowed).Data.(bool) {
			t.Error("Expected grant after holder disconnect")
		}
	})

	t.Run("disconnect by non-holder announces nothing", func(t *testing.T) {
		r := NewRouter(NewSession())
		handle(r, "a", EvRequestDraw, "")
		handle(r, "b", EvJoin, `"Bob"`)

		outs := r.Disconnect("b")
		if len(outs) != 0 {
			t.Errorf("Expected no announcements, got %+v", outs)
		}
		if r.Session().Lock.Owner() != "a" {
			t.Error("Non-holder disconnect must not free the lock")
		}
	})
}

func TestRouterEntities(t *testing.T) {
	t.Run("create update delete across connections", func(t *testing.T) {
		r := NewRouter(NewSession())

		outs := handle(r, "c", EvShapeAdd, `{"id":"s1","x":10,"y":10}`)
		added := findOutbound(t, outs, EvShapeAdded)
		if added.Target != ToOthers {
			t.Errorf("Expected shape-added to others, got %+v", added)
		}

		handle(r, "d", EvShapeUpdate, `{"id":"s1","x":20,"y":10}`)
		handle(r, "e", EvShapeDelete, `"s1"`)

		// A late joiner's snapshot contains no trace of s1.
		snap := r.Connect("late")[0].Data.(model.Snapshot)
		if len(snap.Shapes) != 0 {
			t.Errorf("Expected deleted shape absent from bootstrap, got %v", snap.Shapes)
		}
	})

	t.Run("delete accepts bare numeric ids", func(t *testing.T) {
		r := NewRouter(NewSession())
		handle(r, "a", EvNoteAdd, `{"id":1712000000000,"text":"hi"}`)
		if r.Session().Store.Count(KindNote) != 1 {
			t.Fatal("Expected note stored under numeric id")
		}

		handle(r, "a", EvNoteDelete, `1712000000000`)
		if r.Session().Store.Count(KindNote) != 0 {
			t.Error("Expected note removed by bare numeric id")
		}
	})

	t.Run("stale update and delete stay silent no-ops", func(t *testing.T) {
		r := NewRouter(NewSession())

		outs := handle(r, "a", EvTextUpdate, `{"id":"gone","content":"x"}`)
		if findOutbound(t, outs, EvTextUpdated).Target != ToOthers {
			t.Error("Stale update is still relayed")
		}
		if r.Session().Store.Count(KindText) != 0 {
			t.Error("Stale update must not resurrect a record")
		}

		handle(r, "a", EvTextDelete, `"gone"`)
		handle(r, "a", EvTextDelete, `"gone"`)
	})

	t.Run("template text and transform", func(t *testing.T) {
		r := NewRouter(NewSession())

		handle(r, "a", EvTemplateTextAdd, `{"id":"tt1","text":"Goal"}`)
		outs := handle(r, "a", EvTemplateTransformUpdate, `{"x":40,"y":-10,"scale":1.5}`)
		if findOutbound(t, outs, EvTemplateTransformUpdated).Target != ToOthers {
			t.Error("Expected transform relay to others")
		}

		got := r.Session().Store.Transform()
		want := model.TemplateTransform{X: 40, Y: -10, Scale: 1.5}
		if got != want {
			t.Errorf("Expected transform %+v, got %+v", want, got)
		}
	})
}

func TestRouterClearAndErrors(t *testing.T) {
	t.Run("clear-all empties store but keeps lock and presence", func(t *testing.T) {
		r := NewRouter(NewSession())
		handle(r, "a", EvJoin, `"Alice"`)
		handle(r, "a", EvRequestDraw, "")
		handle(r, "a", EvDrawStroke, `{"tool":"pen","points":[{"x":1,"y":1}]}`)
		handle(r, "b", EvShapeAdd, `{"id":"s1"}`)

		outs := handle(r, "b", EvClearAll, "")
		cleared := findOutbound(t, outs, EvClearAll)
		if cleared.Target != ToAll {
			t.Errorf("Expected clear-all to everyone, got %+v", cleared)
		}

		session := r.Session()
		if session.Store.StrokeCount() != 0 || session.Store.Count(KindShape) != 0 {
			t.Error("Expected empty store after clear-all")
		}
		if session.Lock.Owner() != "a" {
			t.Error("clear-all must not release the draw lock")
		}
		if !session.Presence.Known("a") {
			t.Error("clear-all must not touch presence")
		}
	})

	t.Run("unknown events are ignored", func(t *testing.T) {
		r := NewRouter(NewSession())
		if outs := handle(r, "a", "frobnicate", `{"x":1}`); len(outs) != 0 {
			t.Errorf("Expected unknown event ignored, got %+v", outs)
		}
	})

	t.Run("undecodable payloads degrade to no-ops", func(t *testing.T) {
		r := NewRouter(NewSession())

		if outs := handle(r, "a", EvJoin, `[1,2]`); len(outs) != 0 {
			t.Errorf("Expected malformed join dropped, got %+v", outs)
		}
		if outs := handle(r, "a", EvDrawStroke, `[1,2,3]`); len(outs) != 0 {
			t.Errorf("Expected malformed stroke dropped, got %+v", outs)
		}
		if r.Session().Store.StrokeCount() != 0 {
			t.Error("Malformed stroke must not be stored")
		}
	})
}
