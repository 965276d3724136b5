// Package dialogue drives a privacy evaluation conversation: it decides what
// to ask next, tracks attachment follow-ups and moves each session through
// its states until the record is scored.
package dialogue

import (
	"evaluator/internal/model"
	"evaluator/internal/schema"
)

// FindNextMissing returns the next field to ask for, or false when the
// record is complete enough to score. Units are asked first, then rooms,
// then the room itself.
func FindNextMissing(r *model.Record, confirmed model.ConfirmedSet) (model.FieldRef, bool) {
	if r == nil {
		r = &model.Record{}
	}

	if r.BetweenUnits == nil {
		return model.Ref(model.SectionBetweenUnits, model.WholeSection), true
	}
	for _, f := range schema.UnitsOrder {
		ref := model.Ref(model.SectionBetweenUnits, f)
		if needsAnswer(r, confirmed, ref) {
			return ref, true
		}
	}

	if r.BetweenRooms == nil {
		return model.Ref(model.SectionBetweenRooms, model.WholeSection), true
	}
	multiple := r.BetweenRooms.HasMultipleBedrooms
	if multiple == nil {
		return model.Ref(model.SectionBetweenRooms, schema.RoomsGate), true
	}
	if *multiple {
		for _, f := range schema.RoomsDetailOrder {
			ref := model.Ref(model.SectionBetweenRooms, f)
			if !has(r, ref) {
				return ref, true
			}
		}
	}

	if r.InRoom == nil {
		return model.Ref(model.SectionInRoom, model.WholeSection), true
	}
	for _, f := range schema.InRoomBasics {
		ref := model.Ref(model.SectionInRoom, f)
		if needsAnswer(r, confirmed, ref) {
			return ref, true
		}
	}
	for _, f := range schema.InRoomWindows {
		ref := model.Ref(model.SectionInRoom, f)
		if !has(r, ref) {
			return ref, true
		}
	}

	return model.FieldRef{}, false
}

func has(r *model.Record, ref model.FieldRef) bool {
	_, ok := r.FieldValue(ref)
	return ok
}

// needsAnswer treats an unconfirmed none/attached value like a missing one
func needsAnswer(r *model.Record, confirmed model.ConfirmedSet, ref model.FieldRef) bool {
	v, ok := r.FieldValue(ref)
	if !ok {
		return true
	}
	return schema.NeedsConfirmation(v) && !confirmed.Has(ref)
}
