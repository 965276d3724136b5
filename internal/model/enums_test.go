package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOpenSpace_SideSpecific(t *testing.T) {
	tests := []struct {
		name    string
		side    Side
		value   string
		wantErr bool
	}{
		{name: "front yard on front", side: SideFront, value: "front_yard"},
		{name: "front yard on back", side: SideBack, value: "front_yard", wantErr: true},
		{name: "large side yard on side a", side: SideA, value: "large_side_yard"},
		{name: "large side yard on front", side: SideFront, value: "large_side_yard", wantErr: true},
		{name: "private backyard on back", side: SideBack, value: "private_backyard"},
		{name: "attached anywhere", side: SideB, value: "attached"},
		{name: "narrow road on back", side: SideBack, value: "narrow_road"},
		{name: "typo", side: SideFront, value: "wide-road", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOpenSpace(tt.side, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, OpenSpace(tt.value), got)
		})
	}
}

func TestEnumUnmarshalRejectsUnknownValues(t *testing.T) {
	var in InRoom
	err := json.Unmarshal([]byte(`{"room_size":"huge"}`), &in)
	assert.Error(t, err)

	err = json.Unmarshal([]byte(`{"room_size":"large","window_placement":null}`), &in)
	require.NoError(t, err)
	require.NotNil(t, in.RoomSize)
	assert.Equal(t, RoomLarge, *in.RoomSize)
	assert.Nil(t, in.WindowPlacement)
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, []string{"apartment", "house"}, EnumStrings(UnitTypes))
}
