package schema

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evaluator/internal/model"
)

func TestSectionFieldsCoverAllowList(t *testing.T) {
	counts := map[model.Section]int{
		model.SectionInRoom:       4,
		model.SectionBetweenRooms: 4,
		model.SectionBetweenUnits: 9,
	}
	for section, want := range counts {
		assert.Len(t, SectionFields(section), want, section)
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		section model.Section
		field   model.Field
		wantOK  bool
		kind    Kind
	}{
		{"enum", model.SectionInRoom, model.FieldRoomSize, true, KindEnum},
		{"number", model.SectionInRoom, model.FieldCeilingHeightFt, true, KindNumber},
		{"bool", model.SectionBetweenUnits, model.FieldGatedSociety, true, KindBool},
		{"wrong section", model.SectionInRoom, model.FieldUnitType, false, ""},
		{"unknown field", model.SectionBetweenRooms, "balcony", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, ok := Lookup(tt.section, tt.field)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.kind, spec.Kind)
		})
	}
}

func TestOpenSpaceValuesAreSideSpecific(t *testing.T) {
	front, _ := Lookup(model.SectionBetweenUnits, model.FieldFrontOpenSpace)
	back, _ := Lookup(model.SectionBetweenUnits, model.FieldBackOpenSpace)

	assert.Contains(t, front.Values, "front_yard")
	assert.NotContains(t, front.Values, "private_backyard")
	assert.Contains(t, back.Values, "private_backyard")
	assert.NotContains(t, back.Values, "front_yard")
}

func TestQuestionOrder(t *testing.T) {
	order := QuestionOrder()
	require.Len(t, order, 17)
	assert.Equal(t, model.Ref(model.SectionBetweenUnits, model.FieldUnitType), order[0])
	assert.Equal(t, model.Ref(model.SectionBetweenRooms, model.FieldHasMultipleBedrooms), order[9])
	assert.Equal(t, model.Ref(model.SectionInRoom, model.FieldWindowFacingSide), order[16])
}

func TestNeedsConfirmation(t *testing.T) {
	assert.True(t, NeedsConfirmation("none"))
	assert.True(t, NeedsConfirmation("attached"))
	assert.False(t, NeedsConfirmation("front_yard"))
	assert.False(t, NeedsConfirmation(""))
}

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	for _, ref := range QuestionOrder() {
		assert.NotEmpty(t, c.Question(ref), ref.String())
	}
	assert.Contains(t, c.Question(model.Ref(model.SectionInRoom, model.WholeSection)), "inside a room")
	assert.Equal(t, "Is this an apartment or an independent house?",
		c.Question(model.Ref(model.SectionBetweenUnits, model.FieldUnitType)))
	assert.True(t, strings.HasPrefix(c.AttachmentQuestion(model.SideA), "On the side a side:"))
	assert.NotEmpty(t, c.Greeting)
	assert.NotEmpty(t, c.Product)
}

func TestQuestionFallback(t *testing.T) {
	c := Default()
	got := c.Question(model.Ref(model.SectionInRoom, "wardrobe_depth"))
	assert.Equal(t, "I need a bit more detail about wardrobe depth.", got)
}

func TestWithFollowUp(t *testing.T) {
	c := Default()
	assert.Equal(t, "hi", c.WithFollowUp("hi", ""))
	assert.Equal(t, "hi\n\n---\n\nnext", c.WithFollowUp("hi", "next"))
}

func TestExtractionPrompt(t *testing.T) {
	c := Default()

	base, err := c.ExtractionPrompt(nil, "")
	require.NoError(t, err)
	assert.Contains(t, base, "privacy_between_units.back_open_space: enum one of [attached, tight_service_gap")
	assert.Contains(t, base, "privacy_in_room.ceiling_height_ft: number")
	assert.NotContains(t, base, "IMPORTANT CONTEXT")

	ref := model.Ref(model.SectionInRoom, model.FieldRoomSize)
	withField, err := c.ExtractionPrompt(&ref, "Is the bedroom small, average, or large?")
	require.NoError(t, err)
	assert.Contains(t, withField, "Field: room_size")
	assert.Contains(t, withField, `"Is the bedroom small, average, or large?"`)

	section := model.Ref(model.SectionBetweenRooms, model.WholeSection)
	withSection, err := c.ExtractionPrompt(&section, "")
	require.NoError(t, err)
	assert.Contains(t, withSection, "asked about the section: privacy_between_rooms")
}

func TestParseCatalogRejectsIncomplete(t *testing.T) {
	_, err := ParseCatalog([]byte("greeting: hi\nquestions:\n  unit_type: x\n"))
	assert.Error(t, err)

	_, err = ParseCatalog([]byte("questions: [oops"))
	assert.Error(t, err)
}

func TestParseCatalogRejectsUnknownReplies(t *testing.T) {
	data := bytes.Replace(defaultCatalog, []byte("replies:\n"),
		[]byte("replies:\n  conversation_done: The evaluation is complete.\n"), 1)
	require.NotEqual(t, defaultCatalog, data)

	_, err := ParseCatalog(data)
	assert.ErrorContains(t, err, "conversation_done")

	_, err = ParseCatalog(defaultCatalog)
	assert.NoError(t, err)
}
