package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Section names one of the three privacy dimensions of an extracted record
type Section string

const (
	SectionInRoom       Section = "privacy_in_room"
	SectionBetweenRooms Section = "privacy_between_rooms"
	SectionBetweenUnits Section = "privacy_between_units"
)

// Sections lists the extractable sections in record order
var Sections = []Section{SectionInRoom, SectionBetweenRooms, SectionBetweenUnits}

// Field names a single extractable fact
type Field string

// WholeSection is the sentinel field returned when an entire section is missing
const WholeSection Field = "__entire_section__"

// In-room fields
const (
	FieldRoomSize         Field = "room_size"
	FieldCeilingHeightFt  Field = "ceiling_height_ft"
	FieldWindowPlacement  Field = "window_placement"
	FieldWindowFacingSide Field = "window_facing_side"
)

// Between-rooms fields
const (
	FieldHasMultipleBedrooms  Field = "has_multiple_bedrooms"
	FieldBedroomsShareWall    Field = "bedrooms_share_wall"
	FieldBufferBetweenRooms   Field = "buffer_between_rooms"
	FieldWindowProximityRooms Field = "window_proximity_between_rooms"
)

// Between-units fields
const (
	FieldUnitType             Field = "unit_type"
	FieldFrontOpenSpace       Field = "front_open_space"
	FieldSideAOpenSpace       Field = "side_a_open_space"
	FieldSideBOpenSpace       Field = "side_b_open_space"
	FieldBackOpenSpace        Field = "back_open_space"
	FieldGatedSociety         Field = "is_in_gated_society"
	FieldLayoutUniformity     Field = "surrounding_layout_uniformity"
	FieldDoorDistance         Field = "distance_between_apartment_doors"
	FieldApartmentEntryBuffer Field = "apartment_entry_buffer"
)

// Label returns the field name with underscores replaced by spaces
func (f Field) Label() string {
	return strings.ReplaceAll(string(f), "_", " ")
}

// FieldRef identifies a (section, field) pair
type FieldRef struct {
	Section Section `json:"section"`
	Field   Field   `json:"field"`
}

// Ref builds a FieldRef
func Ref(section Section, field Field) FieldRef {
	return FieldRef{Section: section, Field: field}
}

// IsWholeSection reports whether the reference is a whole-section sentinel
func (r FieldRef) IsWholeSection() bool {
	return r.Field == WholeSection
}

func (r FieldRef) String() string {
	return fmt.Sprintf("%s.%s", r.Section, r.Field)
}

// ConfirmedSet holds the (section, field) pairs validated by a targeted question.
type ConfirmedSet map[FieldRef]struct{}

// NewConfirmedSet creates a confirmed set holding refs
func NewConfirmedSet(refs ...FieldRef) ConfirmedSet {
	s := make(ConfirmedSet, len(refs))
	for _, r := range refs {
		s.Add(r)
	}
	return s
}

// Add marks ref as confirmed
func (s ConfirmedSet) Add(ref FieldRef) {
	s[ref] = struct{}{}
}

// Has reports whether ref was confirmed. A nil set confirms nothing.
func (s ConfirmedSet) Has(ref FieldRef) bool {
	_, ok := s[ref]
	return ok
}

// Sorted returns the confirmed pairs ordered by section then field
func (s ConfirmedSet) Sorted() []FieldRef {
	refs := make([]FieldRef, 0, len(s))
	for r := range s {
		refs = append(refs, r)
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Section != refs[j].Section {
			return refs[i].Section < refs[j].Section
		}
		return refs[i].Field < refs[j].Field
	})
	return refs
}

// MarshalJSON encodes the set as a sorted list of pairs
func (s ConfirmedSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes a list of pairs
func (s *ConfirmedSet) UnmarshalJSON(data []byte) error {
	var refs []FieldRef
	if err := json.Unmarshal(data, &refs); err != nil {
		return err
	}
	*s = NewConfirmedSet(refs...)
	return nil
}

// Side is a physical side of the primary room
type Side string

const (
	SideFront Side = "front"
	SideA     Side = "side_a"
	SideB     Side = "side_b"
	SideBack  Side = "back"
)

// Sides lists the attachable sides in follow-up order
var Sides = []Side{SideFront, SideA, SideB, SideBack}

// OpenSpaceField returns the between-units field describing this side
func (s Side) OpenSpaceField() Field {
	switch s {
	case SideFront:
		return FieldFrontOpenSpace
	case SideA:
		return FieldSideAOpenSpace
	case SideB:
		return FieldSideBOpenSpace
	case SideBack:
		return FieldBackOpenSpace
	}
	return ""
}

// Label returns a human readable side name ("side a")
func (s Side) Label() string {
	return strings.ReplaceAll(string(s), "_", " ")
}

// ParseSide validates a side name
func ParseSide(s string) (Side, error) {
	return parseEnum("side", s, Sides)
}
