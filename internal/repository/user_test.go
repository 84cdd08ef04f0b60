package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/cosmetics/internal/domain"
)

func TestUserStateCodec_RoundTrip(t *testing.T) {
	state := domain.UserState{
		UserName:         "Neo",
		SelectedAvatarID: "a2",
		SelectedFrameID:  "f1",
		OwnedAvatarIDs:   []domain.ItemID{"a1", "a2"},
		OwnedFrameIDs:    []domain.ItemID{"f1"},
	}

	data, err := MarshalUserState(state)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"selectedAvatarId":"a2"`)

	got, err := UnmarshalUserState(data)
	require.NoError(t, err)
	assert.Equal(t, state, got)
}

func TestUnmarshalUserState(t *testing.T) {
	t.Run("empty input is an empty state", func(t *testing.T) {
		got, err := UnmarshalUserState(nil)
		require.NoError(t, err)
		assert.Equal(t, domain.NewUserState(), got)
	})

	t.Run("corrupt input falls back with error", func(t *testing.T) {
		got, err := UnmarshalUserState([]byte(`{not json`))
		assert.Error(t, err)
		assert.Equal(t, domain.NewUserState(), got)
	})

	t.Run("missing lists and duplicates are normalized", func(t *testing.T) {
		got, err := UnmarshalUserState([]byte(`{"userName":"x","ownedAvatarIds":["a1","a1"," ","a2"]}`))
		require.NoError(t, err)
		assert.Equal(t, []domain.ItemID{"a1", "a2"}, got.OwnedAvatarIDs)
		assert.Equal(t, []domain.ItemID{}, got.OwnedFrameIDs)
	})
}

func TestCheckRevision(t *testing.T) {
	stored, err := MarshalUserState(domain.UserState{UserName: "x", Revision: 3})
	require.NoError(t, err)

	tests := []struct {
		name    string
		stored  []byte
		next    int64
		wantErr bool
	}{
		{"next revision", stored, 4, false},
		{"same revision", stored, 3, true},
		{"behind", stored, 2, true},
		{"skips ahead", stored, 5, true},
		{"unversioned write", stored, 0, false},
		{"nothing stored", nil, 1, false},
		{"nothing stored, any revision", nil, 7, false},
		{"unreadable blob counts as zero", []byte("]["), 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckRevision(tt.stored, domain.UserState{Revision: tt.next})
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrStaleState)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
