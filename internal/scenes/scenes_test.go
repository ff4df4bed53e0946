package scenes

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saaga0h/lux-platform/pkg/color"
)

func TestDefaultCatalog(t *testing.T) {
	catalog := DefaultCatalog()
	require.NoError(t, catalog.Validate())

	focus, ok := catalog.Get("focus")
	require.True(t, ok)
	assert.Equal(t, 85, focus.Brightness)
	assert.Equal(t, 5000, focus.Temperature)

	_, ok = catalog.Get("disco")
	assert.False(t, ok)
}

func TestDefaultCatalog_IDs(t *testing.T) {
	var ids []string
	for _, s := range DefaultCatalog().Scenes {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"focus", "relax", "night", "sleep", "energize", "reading", "movie"}, ids)

	sleep, ok := DefaultCatalog().Get("sleep")
	require.True(t, ok)
	assert.Equal(t, 10, sleep.Brightness)
	assert.Equal(t, color.WarmestKelvin, sleep.Temperature)
	assert.Equal(t, "😴", sleep.Icon)
}

const catalogYAML = `
scenes:
  - id: dinner
    name: Dinner
    category: social
    brightness: 45
    temperature: 2700
  - id: work
    name: Work
    category: productivity
    brightness: 90
    temperature: 5000
`

func TestLoadCatalogFromBytes(t *testing.T) {
	catalog, err := LoadCatalogFromBytes([]byte(catalogYAML))
	require.NoError(t, err)
	require.Len(t, catalog.Scenes, 2)
	assert.Equal(t, Scene{ID: "dinner", Name: "Dinner", Category: "social", Brightness: 45, Temperature: 2700}, catalog.Scenes[0])
}

func TestLoadCatalog_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(catalogYAML), 0o644))

	catalog, err := LoadCatalog(path)
	require.NoError(t, err)
	_, ok := catalog.Get("work")
	assert.True(t, ok)

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read scene catalog")
}

func TestLoadCatalogFromBytes_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"malformed", "scenes: [", "failed to parse"},
		{"empty", "scenes: []", "no scenes"},
		{"missing id", "scenes:\n  - name: X\n    brightness: 10\n    temperature: 3000", "id is required"},
		{"duplicate id", "scenes:\n  - {id: a, name: A, brightness: 1, temperature: 3000}\n  - {id: a, name: B, brightness: 1, temperature: 3000}", "duplicate id"},
		{"brightness range", "scenes:\n  - {id: a, name: A, brightness: 101, temperature: 3000}", "brightness must be between 0 and 100"},
		{"temperature range", "scenes:\n  - {id: a, name: A, brightness: 10, temperature: 9000}", "color temperature must be between 2700K and 6500K"},
		{"id with spaces", "scenes:\n  - {id: 'a b', name: A, brightness: 10, temperature: 3000}", "can only contain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCatalogFromBytes([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRender(t *testing.T) {
	relax, _ := DefaultCatalog().Get("relax")
	preview := Render(relax, DefaultMaxWattage)

	assert.Equal(t, color.RGB{R: 255, G: 177, B: 110}, preview.RGB)
	assert.Equal(t, "#ffb16e", preview.Hex)
	assert.True(t, preview.Light)
	assert.Equal(t, 6.12, preview.Watts)

	energize, _ := DefaultCatalog().Get("energize")
	assert.Equal(t, 11.49, Render(energize, DefaultMaxWattage).Watts)
}

func TestCircadian(t *testing.T) {
	settings := DefaultCircadianSettings(0, 0)

	noon := Circadian(time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC), settings)
	assert.Equal(t, 5500, noon.Temperature)
	assert.Equal(t, 100, noon.Brightness)

	midnight := Circadian(time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC), settings)
	assert.Equal(t, 3000, midnight.Temperature)
	assert.Equal(t, 20, midnight.Brightness)
	assert.Equal(t, "circadian", midnight.ID)
}

func TestClockCircadian(t *testing.T) {
	settings := DefaultCircadianSettings(0, 0)

	tests := []struct {
		hour           int
		wantKelvin     int
		wantBrightness int
	}{
		{12, 5500, 100},
		{8, 4500, 68},
		{6, 3000, 20},
		{23, 3000, 20},
	}

	for _, tt := range tests {
		scene := ClockCircadian(time.Date(2024, 1, 1, tt.hour, 0, 0, 0, time.UTC), settings)
		assert.Equal(t, tt.wantKelvin, scene.Temperature, "hour %d", tt.hour)
		assert.Equal(t, tt.wantBrightness, scene.Brightness, "hour %d", tt.hour)
		assert.Equal(t, "circadian", scene.ID)
	}
}

func TestByTimeOfDay(t *testing.T) {
	assert.Equal(t, 5500, ByTimeOfDay("midday"))
	assert.Equal(t, 2700, ByTimeOfDay("night"))
	assert.Equal(t, 4000, ByTimeOfDay("teatime"))
}

func TestTimeOfDay(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{0, "night"},
		{5, "early_morning"},
		{8, "morning"},
		{12, "midday"},
		{15, "afternoon"},
		{19, "evening"},
		{22, "late_evening"},
		{23, "night"},
	}

	for _, tt := range tests {
		got := TimeOfDay(time.Date(2024, 1, 1, tt.hour, 30, 0, 0, time.UTC))
		assert.Equal(t, tt.want, got, "hour %d", tt.hour)
	}
}
