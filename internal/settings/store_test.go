package settings

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgcall/pgcall/pkg/pgcall"
)

func TestNewDefaultStore_DefinesRepeat(t *testing.T) {
	store := NewDefaultStore()

	value, err := store.Get(pgcall.SettingRepeat)
	require.NoError(t, err)
	assert.Equal(t, pgcall.DefaultRepeat, value)

	setting, ok := store.Lookup(pgcall.SettingRepeat)
	require.True(t, ok)
	assert.Equal(t, pgcall.MinRepeat, setting.Min)
	assert.Equal(t, pgcall.MaxRepeat, setting.Max)
}

func TestStore_SetAcceptsAllValuesInBounds(t *testing.T) {
	store := NewDefaultStore()

	for v := pgcall.MinRepeat; v <= pgcall.MaxRepeat; v++ {
		require.NoError(t, store.Set(pgcall.SettingRepeat, v))

		got, err := store.Get(pgcall.SettingRepeat)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestStore_SetRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		value int
	}{
		{"below minimum", pgcall.MinRepeat - 1},
		{"above maximum", pgcall.MaxRepeat + 1},
		{"far below", -100},
		{"far above", 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewDefaultStore()
			require.NoError(t, store.Set(pgcall.SettingRepeat, 5))

			err := store.Set(pgcall.SettingRepeat, tt.value)
			require.Error(t, err)
			assert.True(t, errors.Is(err, pgcall.ErrOutOfRange))

			// Rejected, not clamped: the previous value survives.
			got, getErr := store.Get(pgcall.SettingRepeat)
			require.NoError(t, getErr)
			assert.Equal(t, 5, got)
		})
	}
}

func TestStore_GetUnknownSetting(t *testing.T) {
	store := NewDefaultStore()

	_, err := store.Get("no_such_setting")
	require.Error(t, err)
	assert.True(t, errors.Is(err, pgcall.ErrUnknownSetting))
}

func TestStore_SetUnknownSetting(t *testing.T) {
	store := NewDefaultStore()

	err := store.Set("no_such_setting", 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pgcall.ErrUnknownSetting))
}

func TestStore_Define(t *testing.T) {
	tests := []struct {
		name      string
		spec      Spec
		errorType error
	}{
		{
			name: "valid spec",
			spec: Spec{Name: "batch_size", Default: 100, Min: 1, Max: 1000},
		},
		{
			name:      "empty name",
			spec:      Spec{Default: 1, Min: 1, Max: 10},
			errorType: pgcall.ErrInvalidConfig,
		},
		{
			name:      "inverted bounds",
			spec:      Spec{Name: "bad", Default: 5, Min: 10, Max: 1},
			errorType: pgcall.ErrInvalidConfig,
		},
		{
			name:      "default below bounds",
			spec:      Spec{Name: "bad", Default: 0, Min: 1, Max: 10},
			errorType: pgcall.ErrOutOfRange,
		},
		{
			name:      "default above bounds",
			spec:      Spec{Name: "bad", Default: 11, Min: 1, Max: 10},
			errorType: pgcall.ErrOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore()
			err := store.Define(tt.spec)

			if tt.errorType == nil {
				require.NoError(t, err)
				value, getErr := store.Get(tt.spec.Name)
				require.NoError(t, getErr)
				assert.Equal(t, tt.spec.Default, value)
			} else {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.errorType))
			}
		})
	}
}

func TestStore_DefineDuplicate(t *testing.T) {
	store := NewDefaultStore()

	err := store.Define(Spec{Name: pgcall.SettingRepeat, Default: 2, Min: 1, Max: 5})
	require.Error(t, err)
	assert.True(t, errors.Is(err, pgcall.ErrInvalidConfig))

	// The original definition is untouched.
	value, getErr := store.Get(pgcall.SettingRepeat)
	require.NoError(t, getErr)
	assert.Equal(t, pgcall.DefaultRepeat, value)
}

func TestStore_List(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.Define(Spec{Name: "zeta", Default: 1, Min: 0, Max: 2}))
	require.NoError(t, store.Define(Spec{Name: "alpha", Default: 7, Min: 0, Max: 9}))

	settings := store.List()
	require.Len(t, settings, 2)
	assert.Equal(t, "alpha", settings[0].Name)
	assert.Equal(t, 7, settings[0].Value)
	assert.Equal(t, "zeta", settings[1].Name)
}

func TestStore_Apply(t *testing.T) {
	store := NewDefaultStore()

	require.NoError(t, store.Apply(map[string]int{pgcall.SettingRepeat: 3}))
	value, err := store.Get(pgcall.SettingRepeat)
	require.NoError(t, err)
	assert.Equal(t, 3, value)

	err = store.Apply(map[string]int{pgcall.SettingRepeat: pgcall.MaxRepeat + 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, pgcall.ErrOutOfRange))
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store := NewDefaultStore()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(v int) {
			defer wg.Done()
			_ = store.Set(pgcall.SettingRepeat, 1+v%pgcall.MaxRepeat)
		}(i)
		go func() {
			defer wg.Done()
			value, err := store.Get(pgcall.SettingRepeat)
			assert.NoError(t, err)
			assert.GreaterOrEqual(t, value, pgcall.MinRepeat)
			assert.LessOrEqual(t, value, pgcall.MaxRepeat)
		}()
	}
	wg.Wait()
}
