package model

import (
	"encoding/json"
	"strconv"
)

// Record is the cumulative structured description of a residence.
// A nil section means the section was never mentioned; a nil field means
// the value is unknown.
type Record struct {
	InRoom       *InRoom              `json:"privacy_in_room,omitempty"`
	BetweenRooms *BetweenRooms        `json:"privacy_between_rooms,omitempty"`
	BetweenUnits *BetweenUnits        `json:"privacy_between_units,omitempty"`
	Attachments  map[Side]*Attachment `json:"attachment_details,omitempty"`
}

// InRoom holds facts about the primary bedroom itself
type InRoom struct {
	RoomSize         *RoomSize        `json:"room_size"`
	CeilingHeightFt  *float64         `json:"ceiling_height_ft"`
	WindowPlacement  *WindowPlacement `json:"window_placement"`
	WindowFacingSide *WindowSide      `json:"window_facing_side"`
}

// BetweenRooms holds facts about the relation between bedrooms of the unit
type BetweenRooms struct {
	HasMultipleBedrooms *bool            `json:"has_multiple_bedrooms"`
	BedroomsShareWall   *bool            `json:"bedrooms_share_wall"`
	BufferBetweenRooms  *RoomBuffer      `json:"buffer_between_rooms"`
	WindowProximity     *WindowProximity `json:"window_proximity_between_rooms"`
}

// BetweenUnits holds facts about the unit and its neighbours
type BetweenUnits struct {
	UnitType             *UnitType         `json:"unit_type"`
	FrontOpenSpace       *OpenSpace        `json:"front_open_space"`
	SideAOpenSpace       *OpenSpace        `json:"side_a_open_space"`
	SideBOpenSpace       *OpenSpace        `json:"side_b_open_space"`
	BackOpenSpace        *OpenSpace        `json:"back_open_space"`
	IsInGatedSociety     *bool             `json:"is_in_gated_society"`
	LayoutUniformity     *LayoutUniformity `json:"surrounding_layout_uniformity"`
	DoorDistance         *DoorDistance     `json:"distance_between_apartment_doors"`
	ApartmentEntryBuffer *EntryBuffer      `json:"apartment_entry_buffer"`
}

// Attachment describes what lies behind a wall confirmed as attached
type Attachment struct {
	Owner     *Owner     `json:"owner"`
	SpaceType *SpaceType `json:"space_type"`
}

// OpenSpace returns the open-space value recorded for a side
func (u *BetweenUnits) OpenSpace(side Side) *OpenSpace {
	if u == nil {
		return nil
	}
	switch side {
	case SideFront:
		return u.FrontOpenSpace
	case SideA:
		return u.SideAOpenSpace
	case SideB:
		return u.SideBOpenSpace
	case SideBack:
		return u.BackOpenSpace
	}
	return nil
}

// UnmarshalJSON decodes the section and rejects open-space values that
// belong to another side.
func (u *BetweenUnits) UnmarshalJSON(b []byte) error {
	type plain BetweenUnits
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*u = BetweenUnits(p)
	for _, side := range Sides {
		v := u.OpenSpace(side)
		if v == nil {
			continue
		}
		if _, err := ParseOpenSpace(side, string(*v)); err != nil {
			return err
		}
	}
	return nil
}

// SetAttachment records the attachment details of a side
func (r *Record) SetAttachment(side Side, a Attachment) {
	if r.Attachments == nil {
		r.Attachments = make(map[Side]*Attachment)
	}
	r.Attachments[side] = &a
}

// HasSection reports whether the section was ever created
func (r *Record) HasSection(s Section) bool {
	switch s {
	case SectionInRoom:
		return r.InRoom != nil
	case SectionBetweenRooms:
		return r.BetweenRooms != nil
	case SectionBetweenUnits:
		return r.BetweenUnits != nil
	}
	return false
}

// FieldValue returns the textual form of a field and whether it is set
func (r *Record) FieldValue(ref FieldRef) (string, bool) {
	switch ref.Section {
	case SectionInRoom:
		return r.InRoom.Value(ref.Field)
	case SectionBetweenRooms:
		return r.BetweenRooms.Value(ref.Field)
	case SectionBetweenUnits:
		return r.BetweenUnits.Value(ref.Field)
	}
	return "", false
}

// Value returns the textual form of an in-room field
func (s *InRoom) Value(f Field) (string, bool) {
	if s == nil {
		return "", false
	}
	switch f {
	case FieldRoomSize:
		return enumValue(s.RoomSize)
	case FieldCeilingHeightFt:
		return floatValue(s.CeilingHeightFt)
	case FieldWindowPlacement:
		return enumValue(s.WindowPlacement)
	case FieldWindowFacingSide:
		return enumValue(s.WindowFacingSide)
	}
	return "", false
}

// Value returns the textual form of a between-rooms field
func (s *BetweenRooms) Value(f Field) (string, bool) {
	if s == nil {
		return "", false
	}
	switch f {
	case FieldHasMultipleBedrooms:
		return boolValue(s.HasMultipleBedrooms)
	case FieldBedroomsShareWall:
		return boolValue(s.BedroomsShareWall)
	case FieldBufferBetweenRooms:
		return enumValue(s.BufferBetweenRooms)
	case FieldWindowProximityRooms:
		return enumValue(s.WindowProximity)
	}
	return "", false
}

// Value returns the textual form of a between-units field
func (s *BetweenUnits) Value(f Field) (string, bool) {
	if s == nil {
		return "", false
	}
	switch f {
	case FieldUnitType:
		return enumValue(s.UnitType)
	case FieldFrontOpenSpace:
		return enumValue(s.FrontOpenSpace)
	case FieldSideAOpenSpace:
		return enumValue(s.SideAOpenSpace)
	case FieldSideBOpenSpace:
		return enumValue(s.SideBOpenSpace)
	case FieldBackOpenSpace:
		return enumValue(s.BackOpenSpace)
	case FieldGatedSociety:
		return boolValue(s.IsInGatedSociety)
	case FieldLayoutUniformity:
		return enumValue(s.LayoutUniformity)
	case FieldDoorDistance:
		return enumValue(s.DoorDistance)
	case FieldApartmentEntryBuffer:
		return enumValue(s.ApartmentEntryBuffer)
	}
	return "", false
}

func enumValue[T ~string](p *T) (string, bool) {
	if p == nil {
		return "", false
	}
	return string(*p), true
}

func boolValue(p *bool) (string, bool) {
	if p == nil {
		return "", false
	}
	return strconv.FormatBool(*p), true
}

func floatValue(p *float64) (string, bool) {
	if p == nil {
		return "", false
	}
	return strconv.FormatFloat(*p, 'g', -1, 64), true
}

// Clone returns a deep copy of the record
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := &Record{}
	if r.InRoom != nil {
		s := *r.InRoom
		s.RoomSize = clonePtr(s.RoomSize)
		s.CeilingHeightFt = clonePtr(s.CeilingHeightFt)
		s.WindowPlacement = clonePtr(s.WindowPlacement)
		s.WindowFacingSide = clonePtr(s.WindowFacingSide)
		out.InRoom = &s
	}
	if r.BetweenRooms != nil {
		s := *r.BetweenRooms
		s.HasMultipleBedrooms = clonePtr(s.HasMultipleBedrooms)
		s.BedroomsShareWall = clonePtr(s.BedroomsShareWall)
		s.BufferBetweenRooms = clonePtr(s.BufferBetweenRooms)
		s.WindowProximity = clonePtr(s.WindowProximity)
		out.BetweenRooms = &s
	}
	if r.BetweenUnits != nil {
		s := *r.BetweenUnits
		s.UnitType = clonePtr(s.UnitType)
		s.FrontOpenSpace = clonePtr(s.FrontOpenSpace)
		s.SideAOpenSpace = clonePtr(s.SideAOpenSpace)
		s.SideBOpenSpace = clonePtr(s.SideBOpenSpace)
		s.BackOpenSpace = clonePtr(s.BackOpenSpace)
		s.IsInGatedSociety = clonePtr(s.IsInGatedSociety)
		s.LayoutUniformity = clonePtr(s.LayoutUniformity)
		s.DoorDistance = clonePtr(s.DoorDistance)
		s.ApartmentEntryBuffer = clonePtr(s.ApartmentEntryBuffer)
		out.BetweenUnits = &s
	}
	for side, a := range r.Attachments {
		if a == nil {
			continue
		}
		out.SetAttachment(side, Attachment{Owner: clonePtr(a.Owner), SpaceType: clonePtr(a.SpaceType)})
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Ptr returns a pointer to v. Handy for building records in code and tests.
func Ptr[T any](v T) *T {
	return &v
}
