// Package schema defines every extractable field, the allow-list per section
// and the fixed order in which missing facts are asked for.
package schema

import "evaluator/internal/model"

// Kind is the value type of a field
type Kind string

const (
	KindEnum   Kind = "enum"
	KindBool   Kind = "bool"
	KindNumber Kind = "number"
)

// FieldSpec describes one extractable field
type FieldSpec struct {
	Section model.Section
	Field   model.Field
	Kind    Kind
	Values  []string
}

// Ref returns the (section, field) pair of the spec
func (f FieldSpec) Ref() model.FieldRef {
	return model.Ref(f.Section, f.Field)
}

var specs = []FieldSpec{
	{model.SectionInRoom, model.FieldRoomSize, KindEnum, model.EnumStrings(model.RoomSizes)},
	{model.SectionInRoom, model.FieldCeilingHeightFt, KindNumber, nil},
	{model.SectionInRoom, model.FieldWindowPlacement, KindEnum, model.EnumStrings(model.WindowPlacements)},
	{model.SectionInRoom, model.FieldWindowFacingSide, KindEnum, model.EnumStrings(model.WindowSides)},

	{model.SectionBetweenRooms, model.FieldHasMultipleBedrooms, KindBool, nil},
	{model.SectionBetweenRooms, model.FieldBedroomsShareWall, KindBool, nil},
	{model.SectionBetweenRooms, model.FieldBufferBetweenRooms, KindEnum, model.EnumStrings(model.RoomBuffers)},
	{model.SectionBetweenRooms, model.FieldWindowProximityRooms, KindEnum, model.EnumStrings(model.WindowProximities)},

	{model.SectionBetweenUnits, model.FieldUnitType, KindEnum, model.EnumStrings(model.UnitTypes)},
	{model.SectionBetweenUnits, model.FieldFrontOpenSpace, KindEnum, model.EnumStrings(model.FrontOpenSpaces)},
	{model.SectionBetweenUnits, model.FieldSideAOpenSpace, KindEnum, model.EnumStrings(model.LateralOpenSpaces)},
	{model.SectionBetweenUnits, model.FieldSideBOpenSpace, KindEnum, model.EnumStrings(model.LateralOpenSpaces)},
	{model.SectionBetweenUnits, model.FieldBackOpenSpace, KindEnum, model.EnumStrings(model.BackOpenSpaces)},
	{model.SectionBetweenUnits, model.FieldGatedSociety, KindBool, nil},
	{model.SectionBetweenUnits, model.FieldLayoutUniformity, KindEnum, model.EnumStrings(model.LayoutUniformities)},
	{model.SectionBetweenUnits, model.FieldDoorDistance, KindEnum, model.EnumStrings(model.DoorDistances)},
	{model.SectionBetweenUnits, model.FieldApartmentEntryBuffer, KindEnum, model.EnumStrings(model.EntryBuffers)},
}

var index = func() map[model.FieldRef]FieldSpec {
	m := make(map[model.FieldRef]FieldSpec, len(specs))
	for _, s := range specs {
		m[s.Ref()] = s
	}
	return m
}()

// Fields returns every field spec in allow-list order
func Fields() []FieldSpec {
	out := make([]FieldSpec, len(specs))
	copy(out, specs)
	return out
}

// SectionFields returns the allow-listed fields of a section
func SectionFields(section model.Section) []FieldSpec {
	var out []FieldSpec
	for _, s := range specs {
		if s.Section == section {
			out = append(out, s)
		}
	}
	return out
}

// Lookup finds the spec of an allow-listed field
func Lookup(section model.Section, field model.Field) (FieldSpec, bool) {
	s, ok := index[model.Ref(section, field)]
	return s, ok
}

// KnownSection maps a raw section name to a Section
func KnownSection(name string) (model.Section, bool) {
	for _, s := range model.Sections {
		if string(s) == name {
			return s, true
		}
	}
	return "", false
}

// Question order. Hardest-to-infer context is asked first; changing these
// lists changes the observable conversation.
var (
	// UnitsOrder is walked first; unset or unconfirmed none/attached values stop the walk.
	UnitsOrder = []model.Field{
		model.FieldUnitType,
		model.FieldFrontOpenSpace,
		model.FieldSideAOpenSpace,
		model.FieldSideBOpenSpace,
		model.FieldBackOpenSpace,
		model.FieldGatedSociety,
		model.FieldLayoutUniformity,
		model.FieldApartmentEntryBuffer,
		model.FieldDoorDistance,
	}

	// RoomsGate decides whether RoomsDetailOrder is asked at all.
	RoomsGate = model.FieldHasMultipleBedrooms

	// RoomsDetailOrder applies only to units with several bedrooms.
	RoomsDetailOrder = []model.Field{
		model.FieldBedroomsShareWall,
		model.FieldBufferBetweenRooms,
		model.FieldWindowProximityRooms,
	}

	// InRoomBasics may hold an unconfirmed "none" that still needs asking.
	InRoomBasics = []model.Field{
		model.FieldRoomSize,
		model.FieldCeilingHeightFt,
	}

	// InRoomWindows are asked last.
	InRoomWindows = []model.Field{
		model.FieldWindowPlacement,
		model.FieldWindowFacingSide,
	}
)

// QuestionOrder flattens the full question order, including the single
// bedroom branch fields.
func QuestionOrder() []model.FieldRef {
	var refs []model.FieldRef
	for _, f := range UnitsOrder {
		refs = append(refs, model.Ref(model.SectionBetweenUnits, f))
	}
	refs = append(refs, model.Ref(model.SectionBetweenRooms, RoomsGate))
	for _, f := range RoomsDetailOrder {
		refs = append(refs, model.Ref(model.SectionBetweenRooms, f))
	}
	for _, f := range InRoomBasics {
		refs = append(refs, model.Ref(model.SectionInRoom, f))
	}
	for _, f := range InRoomWindows {
		refs = append(refs, model.Ref(model.SectionInRoom, f))
	}
	return refs
}

// NeedsConfirmation reports whether a value looks like an ambiguous default
// that must be acknowledged before it counts as an answer.
func NeedsConfirmation(value string) bool {
	return value == "none" || value == string(model.OpenAttached)
}
