package dialogue

import "evaluator/internal/model"

// AttachedSidesNeedingFollowup lists, in side order, the sides whose open
// space is a confirmed "attached". Sides already asked are filtered by the
// caller.
func AttachedSidesNeedingFollowup(units *model.BetweenUnits, confirmed model.ConfirmedSet) []model.Side {
	if units == nil {
		return nil
	}
	var sides []model.Side
	for _, side := range model.Sides {
		v := units.OpenSpace(side)
		if v == nil || *v != model.OpenAttached {
			continue
		}
		if confirmed.Has(model.Ref(model.SectionBetweenUnits, side.OpenSpaceField())) {
			sides = append(sides, side)
		}
	}
	return sides
}

// nextAttachmentSide returns the first attached side not asked yet
func nextAttachmentSide(s *Session) (model.Side, bool) {
	for _, side := range AttachedSidesNeedingFollowup(s.record.BetweenUnits, s.confirmed) {
		if _, done := s.askedSides[side]; !done {
			return side, true
		}
	}
	return "", false
}
