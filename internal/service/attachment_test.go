package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evaluator/internal/dialogue"
	"evaluator/internal/model"
)

func TestAttachmentPhrases(t *testing.T) {
	tests := []struct {
		text    string
		want    dialogue.AttachmentInfo
		wantErr bool
	}{
		{
			text: "it's the neighbour's master bedroom",
			want: dialogue.AttachmentInfo{Owner: model.Ptr(model.OwnerNeighborUnit), SpaceType: model.Ptr(model.SpaceBedroom)},
		},
		{
			text: "our own kitchen",
			want: dialogue.AttachmentInfo{Owner: model.Ptr(model.OwnerOwnUnit), SpaceType: model.Ptr(model.SpaceNonBedroom)},
		},
		{
			text: "the common corridor",
			want: dialogue.AttachmentInfo{SpaceType: model.Ptr(model.SpaceCommonArea)},
		},
		{
			text: "next door",
			want: dialogue.AttachmentInfo{Owner: model.Ptr(model.OwnerNeighborUnit)},
		},
		{text: "no idea", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := AttachmentPhrases{}.ExtractAttachment(context.Background(), tt.text)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrAttachmentUnclear)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAttachmentInterpreterModel(t *testing.T) {
	var gotSystem string
	_, client := newFakeModel(t, func(system, _ string) string {
		gotSystem = system
		return `{"owner": "neighbor_unit", "space_type": "Living Room"}`
	})

	got, err := NewAttachmentInterpreter(client, nil, nil).ExtractAttachment(context.Background(), "their living room")
	require.NoError(t, err)
	assert.Equal(t, dialogue.AttachmentInfo{
		Owner:     model.Ptr(model.OwnerNeighborUnit),
		SpaceType: model.Ptr(model.SpaceNonBedroom),
	}, got)
	assert.Contains(t, gotSystem, "wall attachment")
}

func TestAttachmentInterpreterNulls(t *testing.T) {
	_, client := newFakeModel(t, func(_, _ string) string { return `{"owner": null, "space_type": null}` })

	got, err := NewAttachmentInterpreter(client, nil, nil).ExtractAttachment(context.Background(), "hmm")
	require.NoError(t, err)
	assert.Nil(t, got.Owner)
	assert.Nil(t, got.SpaceType)
}

func TestAttachmentInterpreterFallsBack(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		got, err := NewAttachmentInterpreter(disabledClient(), nil, nil).ExtractAttachment(context.Background(), "my own bathroom")
		require.NoError(t, err)
		assert.Equal(t, model.Ptr(model.OwnerOwnUnit), got.Owner)
		assert.Equal(t, model.Ptr(model.SpaceNonBedroom), got.SpaceType)
	})

	t.Run("unparseable reply", func(t *testing.T) {
		_, client := newFakeModel(t, func(_, _ string) string { return "sorry, what?" })
		got, err := NewAttachmentInterpreter(client, nil, nil).ExtractAttachment(context.Background(), "the lift")
		require.NoError(t, err)
		assert.Equal(t, model.Ptr(model.SpaceCommonArea), got.SpaceType)
	})
}
