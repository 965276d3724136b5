package extract

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evaluator/internal/model"
)

func payload(t *testing.T, s string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &m))
	return m
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "null section becomes empty",
			in:   `{"privacy_in_room": null}`,
			want: `{"privacy_in_room": {}}`,
		},
		{
			name: "string null becomes absent",
			in:   `{"privacy_between_rooms": {"bedrooms_share_wall": "null"}}`,
			want: `{"privacy_between_rooms": {"bedrooms_share_wall": null}}`,
		},
		{
			name: "entry buffer relocated",
			in:   `{"apartment_entry_buffer": "foyer_to_hall"}`,
			want: `{"privacy_between_units": {"apartment_entry_buffer": "foyer_to_hall"}}`,
		},
		{
			name: "entry buffer joins existing section",
			in:   `{"apartment_entry_buffer": "direct_to_room", "privacy_between_units": {"unit_type": "apartment"}}`,
			want: `{"privacy_between_units": {"unit_type": "apartment", "apartment_entry_buffer": "direct_to_room"}}`,
		},
		{
			name: "qualitative ceiling",
			in:   `{"privacy_in_room": {"ceiling_height_ft": "Low"}}`,
			want: `{"privacy_in_room": {"ceiling_height_ft": 7}}`,
		},
		{
			name: "ceiling with unit",
			in:   `{"privacy_in_room": {"ceiling_height_ft": "9.5 ft"}}`,
			want: `{"privacy_in_room": {"ceiling_height_ft": 9.5}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(payload(t, tt.in))
			if diff := cmp.Diff(payload(t, tt.want), got); diff != "" {
				t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalizeNil(t *testing.T) {
	assert.Empty(t, Normalize(nil))
}

func TestDecodeAllowList(t *testing.T) {
	raw := payload(t, `{
		"privacy_in_room": {"room_size": "Large", "balcony": "yes", "window_placement": "ceiling"},
		"privacy_between_units": {"unit_type": "house", "front_open_space": "private_backyard", "back_open_space": "private backyard", "is_in_gated_society": "yes"},
		"privacy_between_rooms": {},
		"notes": "hello"
	}`)

	update, dropped, err := Decode(Normalize(raw))
	require.NoError(t, err)

	want := &model.Record{
		InRoom: &model.InRoom{RoomSize: model.Ptr(model.RoomLarge)},
		BetweenUnits: &model.BetweenUnits{
			UnitType:         model.Ptr(model.UnitHouse),
			BackOpenSpace:    model.Ptr(model.OpenPrivateBackyard),
			IsInGatedSociety: model.Ptr(true),
		},
	}
	if diff := cmp.Diff(want, update); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{
		"notes",
		"privacy_between_units.front_open_space",
		"privacy_in_room.balcony",
		"privacy_in_room.window_placement",
	}, dropped)
}

func TestDecodeSectionWithOnlyNulls(t *testing.T) {
	update, _, err := Decode(payload(t, `{"privacy_between_rooms": {"bedrooms_share_wall": null}}`))
	require.NoError(t, err)
	require.NotNil(t, update.BetweenRooms)
	assert.False(t, Meaningful(update))
}

func TestMeaningful(t *testing.T) {
	assert.False(t, Meaningful(nil))
	assert.False(t, Meaningful(&model.Record{}))
	assert.True(t, Meaningful(&model.Record{
		BetweenRooms: &model.BetweenRooms{HasMultipleBedrooms: model.Ptr(false)},
	}))
}

func TestMerge(t *testing.T) {
	base := &model.Record{
		InRoom: &model.InRoom{
			RoomSize:        model.Ptr(model.RoomSmall),
			CeilingHeightFt: model.Ptr(8.0),
		},
	}
	update := &model.Record{
		InRoom: &model.InRoom{
			RoomSize:        model.Ptr(model.RoomAverage),
			WindowPlacement: model.Ptr(model.WindowAway),
		},
		BetweenRooms: &model.BetweenRooms{},
	}

	Merge(base, update)

	want := &model.Record{
		InRoom: &model.InRoom{
			RoomSize:        model.Ptr(model.RoomAverage),
			CeilingHeightFt: model.Ptr(8.0),
			WindowPlacement: model.Ptr(model.WindowAway),
		},
		BetweenRooms: &model.BetweenRooms{},
	}
	if diff := cmp.Diff(want, base); diff != "" {
		t.Errorf("Merge() mismatch (-want +got):\n%s", diff)
	}

	// the update must not alias base
	*update.InRoom.RoomSize = model.RoomLarge
	assert.Equal(t, model.RoomAverage, *base.InRoom.RoomSize)
}

func TestMergeIdempotent(t *testing.T) {
	update := &model.Record{
		BetweenUnits: &model.BetweenUnits{
			UnitType:       model.Ptr(model.UnitApartment),
			FrontOpenSpace: model.Ptr(model.OpenAttached),
		},
		InRoom: &model.InRoom{CeilingHeightFt: model.Ptr(9.0)},
	}

	once := &model.Record{InRoom: &model.InRoom{RoomSize: model.Ptr(model.RoomLarge)}}
	Merge(once, update)
	twice := once.Clone()
	Merge(twice, update)

	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("second merge changed the record (-once +twice):\n%s", diff)
	}
}

func TestMergeNeverErasesWithNull(t *testing.T) {
	base := &model.Record{
		BetweenUnits: &model.BetweenUnits{
			UnitType:         model.Ptr(model.UnitHouse),
			IsInGatedSociety: model.Ptr(true),
		},
	}
	before := base.Clone()

	update, err := Apply(base, payload(t, `{"privacy_between_units": {"unit_type": null, "is_in_gated_society": "null"}}`))
	require.NoError(t, err)
	assert.False(t, Meaningful(update))

	if diff := cmp.Diff(before, base); diff != "" {
		t.Errorf("null values changed the record (-before +after):\n%s", diff)
	}
}

func TestMergeNilArguments(t *testing.T) {
	assert.NotPanics(t, func() {
		Merge(nil, &model.Record{})
		Merge(&model.Record{}, nil)
	})
}
