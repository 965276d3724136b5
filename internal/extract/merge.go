package extract

import "evaluator/internal/model"

// Merge folds update into base. Sections missing from the update are left
// alone, a present section is created in base, and only known values
// overwrite. Attachment details are never merged from an update.
func Merge(base, update *model.Record) {
	if base == nil || update == nil {
		return
	}

	if u := update.InRoom; u != nil {
		if base.InRoom == nil {
			base.InRoom = &model.InRoom{}
		}
		b := base.InRoom
		set(&b.RoomSize, u.RoomSize)
		set(&b.CeilingHeightFt, u.CeilingHeightFt)
		set(&b.WindowPlacement, u.WindowPlacement)
		set(&b.WindowFacingSide, u.WindowFacingSide)
	}

	if u := update.BetweenRooms; u != nil {
		if base.BetweenRooms == nil {
			base.BetweenRooms = &model.BetweenRooms{}
		}
		b := base.BetweenRooms
		set(&b.HasMultipleBedrooms, u.HasMultipleBedrooms)
		set(&b.BedroomsShareWall, u.BedroomsShareWall)
		set(&b.BufferBetweenRooms, u.BufferBetweenRooms)
		set(&b.WindowProximity, u.WindowProximity)
	}

	if u := update.BetweenUnits; u != nil {
		if base.BetweenUnits == nil {
			base.BetweenUnits = &model.BetweenUnits{}
		}
		b := base.BetweenUnits
		set(&b.UnitType, u.UnitType)
		set(&b.FrontOpenSpace, u.FrontOpenSpace)
		set(&b.SideAOpenSpace, u.SideAOpenSpace)
		set(&b.SideBOpenSpace, u.SideBOpenSpace)
		set(&b.BackOpenSpace, u.BackOpenSpace)
		set(&b.IsInGatedSociety, u.IsInGatedSociety)
		set(&b.LayoutUniformity, u.LayoutUniformity)
		set(&b.DoorDistance, u.DoorDistance)
		set(&b.ApartmentEntryBuffer, u.ApartmentEntryBuffer)
	}
}

func set[T any](dst **T, src *T) {
	if src == nil {
		return
	}
	v := *src
	*dst = &v
}

// Apply normalizes, decodes and merges a raw payload in one step and
// returns the decoded update.
func Apply(base *model.Record, raw map[string]any) (*model.Record, error) {
	update, _, err := Decode(Normalize(raw))
	if err != nil {
		return nil, err
	}
	Merge(base, update)
	return update, nil
}
