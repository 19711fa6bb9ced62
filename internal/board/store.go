package board

import (
	"encoding/json"

	"collabboard-backend/internal/model"
)

// Kind identifies one of the id-keyed entity collections on the board.
type Kind string

const (
	KindShape        Kind = "shape"
	KindText         Kind = "text"
	KindNote         Kind = "note"
	KindTemplateText Kind = "templateText"
)

// Store holds the authoritative entity collections for one session. It has
// no networking knowledge and is mutated only by the event router, which
// serializes access; the store itself carries no locking.
type Store struct {
	strokes   []model.Stroke
	records   map[Kind]map[string]json.RawMessage
	transform model.TemplateTransform
}

// NewStore creates an empty store with an identity template transform.
func NewStore() *Store {
	s := &Store{transform: model.IdentityTransform()}
	s.records = map[Kind]map[string]json.RawMessage{
		KindShape:        {},
		KindText:         {},
		KindNote:         {},
		KindTemplateText: {},
	}
	return s
}

// AddStroke appends a finalized stroke. Strokes are append-only: nothing
// short of ClearAll touches them afterwards.
func (s *Store) AddStroke(st model.Stroke) {
	s.strokes = append(s.strokes, st.Clone())
}

// StrokeCount returns the number of finalized strokes.
func (s *Store) StrokeCount() int {
	return len(s.strokes)
}

// Add inserts a record unconditionally. A colliding id replaces the prior
// record (last insert wins); an empty id cannot be keyed and is skipped.
func (s *Store) Add(kind Kind, id string, rec json.RawMessage) {
	coll, ok := s.records[kind]
	if !ok || id == "" {
		return
	}
	coll[id] = cloneRaw(rec)
}

// Update replaces the record at id if present. An absent id is a silent
// no-op so an edit racing a delete neither errors nor resurrects.
func (s *Store) Update(kind Kind, id string, rec json.RawMessage) {
	coll, ok := s.records[kind]
	if !ok {
		return
	}
	if _, exists := coll[id]; !exists {
		return
	}
	coll[id] = cloneRaw(rec)
}

// Delete removes the record at id. Absent ids are a silent no-op, which
// tolerates duplicate or out-of-order delivery.
func (s *Store) Delete(kind Kind, id string) {
	if coll, ok := s.records[kind]; ok {
		delete(coll, id)
	}
}

// Count returns the number of records in a keyed collection.
func (s *Store) Count(kind Kind) int {
	return len(s.records[kind])
}

// Has reports whether a record exists at id.
func (s *Store) Has(kind Kind, id string) bool {
	_, ok := s.records[kind][id]
	return ok
}

// SetTransform replaces the shared template transform wholesale.
func (s *Store) SetTransform(t model.TemplateTransform) {
	s.transform = t
}

// Transform returns the current template transform.
func (s *Store) Transform() model.TemplateTransform {
	return s.transform
}

// ClearAll empties every collection and resets the transform to identity.
func (s *Store) ClearAll() {
	s.strokes = nil
	for kind := range s.records {
		s.records[kind] = map[string]json.RawMessage{}
	}
	s.transform = model.IdentityTransform()
}

// Snapshot returns a deep, independent copy of all collections plus the
// transform. Mutations applied after the snapshot is taken never reach a
// previously returned value. Stroke order is preserved; keyed collections
// carry no order.
func (s *Store) Snapshot() model.Snapshot {
	snap := model.Snapshot{
		Paths:             make([]model.Stroke, 0, len(s.strokes)),
		Shapes:            collectRecords(s.records[KindShape]),
		TextElements:      collectRecords(s.records[KindText]),
		StickyNotes:       collectRecords(s.records[KindNote]),
		TemplateTexts:     collectRecords(s.records[KindTemplateText]),
		TemplateTransform: s.transform,
	}
	for _, st := range s.strokes {
		snap.Paths = append(snap.Paths, st.Clone())
	}
	return snap
}

func collectRecords(coll map[string]json.RawMessage) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(coll))
	for _, rec := range coll {
		out = append(out, cloneRaw(rec))
	}
	return out
}

func cloneRaw(rec json.RawMessage) json.RawMessage {
	out := make(json.RawMessage, len(rec))
	copy(out, rec)
	return out
}
