package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/presenca")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "local", cfg.ExtractorType)
	assert.Equal(t, "cascade/facefinder", cfg.CascadePath)
	assert.InDelta(t, 0.18, cfg.MatchThreshold, 1e-9)
	assert.Equal(t, 0, cfg.CameraIndex)
	assert.Equal(t, 5000, cfg.FrameTimeoutMs)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/presenca")
	t.Setenv("PORT", "8080")
	t.Setenv("ENV", "production")
	t.Setenv("EXTRACTOR_TYPE", "deepface")
	t.Setenv("MATCH_THRESHOLD", "0.25")
	t.Setenv("CAMERA_INDEX", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "deepface", cfg.ExtractorType)
	assert.InDelta(t, 0.25, cfg.MatchThreshold, 1e-9)
	assert.Equal(t, 2, cfg.CameraIndex)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_InvalidThreshold(t *testing.T) {
	tests := []struct {
		name      string
		threshold string
	}{
		{name: "zero", threshold: "0"},
		{name: "one", threshold: "1"},
		{name: "negative", threshold: "-0.5"},
		{name: "above one", threshold: "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DATABASE_URL", "postgres://localhost:5432/presenca")
			t.Setenv("MATCH_THRESHOLD", tt.threshold)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
