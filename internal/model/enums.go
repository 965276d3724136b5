package model

import (
	"encoding/json"
	"fmt"
)

// Every enumerated field is a closed string type. Parse* constructors and
// UnmarshalJSON reject values outside the set.

func parseEnum[T ~string](kind, s string, values []T) (T, error) {
	for _, v := range values {
		if string(v) == s {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("invalid %s %q", kind, s)
}

func unmarshalEnum[T ~string](data []byte, kind string, values []T, dst *T) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%s must be a string: %w", kind, err)
	}
	v, err := parseEnum(kind, s, values)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// EnumStrings converts enum values to plain strings
func EnumStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// RoomSize of the primary bedroom
type RoomSize string

const (
	RoomSmall   RoomSize = "small"
	RoomAverage RoomSize = "average"
	RoomLarge   RoomSize = "large"
)

var RoomSizes = []RoomSize{RoomSmall, RoomAverage, RoomLarge}

func ParseRoomSize(s string) (RoomSize, error) { return parseEnum("room_size", s, RoomSizes) }

func (v *RoomSize) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, "room_size", RoomSizes, v)
}

// WindowPlacement relative to the bedroom door
type WindowPlacement string

const (
	WindowOnDoorWall WindowPlacement = "door_wall"
	WindowAway       WindowPlacement = "away"
)

var WindowPlacements = []WindowPlacement{WindowOnDoorWall, WindowAway}

func ParseWindowPlacement(s string) (WindowPlacement, error) {
	return parseEnum("window_placement", s, WindowPlacements)
}

func (v *WindowPlacement) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, "window_placement", WindowPlacements, v)
}

// WindowSide is the side the bedroom window faces
type WindowSide string

const (
	WindowFacesFront WindowSide = "front"
	WindowFacesSide  WindowSide = "side"
	WindowFacesBack  WindowSide = "back"
)

var WindowSides = []WindowSide{WindowFacesFront, WindowFacesSide, WindowFacesBack}

func ParseWindowSide(s string) (WindowSide, error) {
	return parseEnum("window_facing_side", s, WindowSides)
}

func (v *WindowSide) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, "window_facing_side", WindowSides, v)
}

// RoomBuffer is the space separating bedrooms
type RoomBuffer string

const (
	BufferNone         RoomBuffer = "none"
	BufferSmallPassage RoomBuffer = "small_passage"
	BufferLargeLobby   RoomBuffer = "large_lobby"
	BufferBigHall      RoomBuffer = "big_hall"
)

var RoomBuffers = []RoomBuffer{BufferNone, BufferSmallPassage, BufferLargeLobby, BufferBigHall}

func ParseRoomBuffer(s string) (RoomBuffer, error) {
	return parseEnum("buffer_between_rooms", s, RoomBuffers)
}

func (v *RoomBuffer) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, "buffer_between_rooms", RoomBuffers, v)
}

// WindowProximity between the windows of two bedrooms
type WindowProximity string

const (
	WindowsCloseFacing       WindowProximity = "close_facing_each_other"
	WindowsCloseNotFacing    WindowProximity = "close_not_facing"
	WindowsFarApartFacing    WindowProximity = "far_apart_facing"
	WindowsFarApartNotFacing WindowProximity = "far_apart_not_facing"
)

var WindowProximities = []WindowProximity{
	WindowsCloseFacing, WindowsCloseNotFacing, WindowsFarApartFacing, WindowsFarApartNotFacing,
}

func ParseWindowProximity(s string) (WindowProximity, error) {
	return parseEnum("window_proximity_between_rooms", s, WindowProximities)
}

func (v *WindowProximity) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, "window_proximity_between_rooms", WindowProximities, v)
}

// UnitType of the residence
type UnitType string

const (
	UnitApartment UnitType = "apartment"
	UnitHouse     UnitType = "house"
)

var UnitTypes = []UnitType{UnitApartment, UnitHouse}

func ParseUnitType(s string) (UnitType, error) { return parseEnum("unit_type", s, UnitTypes) }

func (v *UnitType) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, "unit_type", UnitTypes, v)
}

// OpenSpace describes what lies along one side of the primary room.
// The valid subset depends on the side, see OpenSpacesFor.
type OpenSpace string

const (
	OpenAttached        OpenSpace = "attached"
	OpenTightServiceGap OpenSpace = "tight_service_gap"
	OpenNarrowGap       OpenSpace = "narrow_gap"
	OpenNarrowRoad      OpenSpace = "narrow_road"
	OpenWideRoad        OpenSpace = "wide_road"
	OpenFrontYard       OpenSpace = "front_yard"
	OpenSideAlley       OpenSpace = "side_alley"
	OpenSmallSideYard   OpenSpace = "small_side_yard"
	OpenSideRoad        OpenSpace = "side_road"
	OpenSideYard        OpenSpace = "side_yard"
	OpenLargeSideYard   OpenSpace = "large_side_yard"
	OpenBackAlley       OpenSpace = "back_alley"
	OpenBackRoad        OpenSpace = "back_road"
	OpenPrivateBackyard OpenSpace = "private_backyard"
)

var (
	FrontOpenSpaces = []OpenSpace{
		OpenAttached, OpenTightServiceGap, OpenNarrowGap, OpenNarrowRoad, OpenWideRoad, OpenFrontYard,
	}
	LateralOpenSpaces = []OpenSpace{
		OpenAttached, OpenTightServiceGap, OpenNarrowGap, OpenSideAlley, OpenNarrowRoad,
		OpenSmallSideYard, OpenSideRoad, OpenSideYard, OpenLargeSideYard,
	}
	BackOpenSpaces = []OpenSpace{
		OpenAttached, OpenTightServiceGap, OpenNarrowGap, OpenBackAlley, OpenNarrowRoad,
		OpenBackRoad, OpenPrivateBackyard,
	}
	allOpenSpaces = []OpenSpace{
		OpenAttached, OpenTightServiceGap, OpenNarrowGap, OpenNarrowRoad, OpenWideRoad,
		OpenFrontYard, OpenSideAlley, OpenSmallSideYard, OpenSideRoad, OpenSideYard,
		OpenLargeSideYard, OpenBackAlley, OpenBackRoad, OpenPrivateBackyard,
	}
)

// OpenSpacesFor returns the open-space values allowed on a side
func OpenSpacesFor(side Side) []OpenSpace {
	switch side {
	case SideFront:
		return FrontOpenSpaces
	case SideA, SideB:
		return LateralOpenSpaces
	case SideBack:
		return BackOpenSpaces
	}
	return nil
}

// ParseOpenSpace validates an open-space value for a given side
func ParseOpenSpace(side Side, s string) (OpenSpace, error) {
	return parseEnum(string(side.OpenSpaceField()), s, OpenSpacesFor(side))
}

// IsGap reports whether the value is one of the very narrow gap variants
func (v OpenSpace) IsGap() bool {
	return v == OpenTightServiceGap || v == OpenNarrowGap
}

// UnmarshalJSON accepts any known open-space value. Side-specific
// validation happens where the side is known.
func (v *OpenSpace) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, "open_space", allOpenSpaces, v)
}

// LayoutUniformity of the surrounding buildings
type LayoutUniformity string

const (
	LayoutUniform       LayoutUniformity = "uniform_layout"
	LayoutMostlyUniform LayoutUniformity = "mostly_uniform"
	LayoutMixed         LayoutUniformity = "mixed_layout"
	LayoutIrregular     LayoutUniformity = "irregular_layout"
)

var LayoutUniformities = []LayoutUniformity{LayoutUniform, LayoutMostlyUniform, LayoutMixed, LayoutIrregular}

func ParseLayoutUniformity(s string) (LayoutUniformity, error) {
	return parseEnum("surrounding_layout_uniformity", s, LayoutUniformities)
}

func (v *LayoutUniformity) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, "surrounding_layout_uniformity", LayoutUniformities, v)
}

// DoorDistance between neighbouring entrance doors
type DoorDistance string

const (
	DoorsVeryClose DoorDistance = "very_close"
	DoorsModerate  DoorDistance = "moderate"
	DoorsFarApart  DoorDistance = "far_apart"
)

var DoorDistances = []DoorDistance{DoorsVeryClose, DoorsModerate, DoorsFarApart}

func ParseDoorDistance(s string) (DoorDistance, error) {
	return parseEnum("distance_between_apartment_doors", s, DoorDistances)
}

func (v *DoorDistance) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, "distance_between_apartment_doors", DoorDistances, v)
}

// EntryBuffer is the sequence of spaces behind the entrance door
type EntryBuffer string

const (
	EntryDirectToRoom EntryBuffer = "direct_to_room"
	EntryFoyerToRoom  EntryBuffer = "foyer_to_room"
	EntryDirectToHall EntryBuffer = "direct_to_hall"
	EntryFoyerToHall  EntryBuffer = "foyer_to_hall"
)

var EntryBuffers = []EntryBuffer{EntryDirectToRoom, EntryFoyerToRoom, EntryDirectToHall, EntryFoyerToHall}

func ParseEntryBuffer(s string) (EntryBuffer, error) {
	return parseEnum("apartment_entry_buffer", s, EntryBuffers)
}

func (v *EntryBuffer) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, "apartment_entry_buffer", EntryBuffers, v)
}

// Owner of the unit on the other side of an attached wall
type Owner string

const (
	OwnerOwnUnit      Owner = "own_unit"
	OwnerNeighborUnit Owner = "neighbor_unit"
)

var Owners = []Owner{OwnerOwnUnit, OwnerNeighborUnit}

func ParseOwner(s string) (Owner, error) { return parseEnum("owner", s, Owners) }

func (v *Owner) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, "owner", Owners, v)
}

// SpaceType on the other side of an attached wall
type SpaceType string

const (
	SpaceBedroom    SpaceType = "bedroom"
	SpaceNonBedroom SpaceType = "non_bedroom"
	SpaceCommonArea SpaceType = "common_area"
)

var SpaceTypes = []SpaceType{SpaceBedroom, SpaceNonBedroom, SpaceCommonArea}

func ParseSpaceType(s string) (SpaceType, error) { return parseEnum("space_type", s, SpaceTypes) }

func (v *SpaceType) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, "space_type", SpaceTypes, v)
}
