package editor

import (
	"testing"

	"github.com/ds124wfegd/WB_L3/imageeditor/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnabledTabs(t *testing.T) {
	tests := []struct {
		name   string
		params entity.InstallationParameters
		want   []string
	}{
		{
			name:   "all enabled",
			params: entity.DefaultInstallationParameters(),
			want:   []string{TabAdjust, TabFilters, TabFineTune, TabResize, TabAnnotate, TabWatermark},
		},
		{
			name: "subset keeps table order",
			params: entity.InstallationParameters{
				"watermarkTab": true,
				"adjustTab":    false,
				"resizeTab":    true,
				"filtersTab":   true,
				"fineTuneTab":  false,
				"annotateTab":  false,
			},
			want: []string{TabFilters, TabResize, TabWatermark},
		},
		{
			name:   "none enabled",
			params: entity.InstallationParameters{"adjustTab": false},
			want:   []string{},
		},
		{
			name:   "unknown keys ignored",
			params: entity.InstallationParameters{"cropTab": true, "annotateTab": true},
			want:   []string{TabAnnotate},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EnabledTabs(tt.params))
		})
	}
}

func TestNewConfigDefaultTabIsFirstEnabled(t *testing.T) {
	params := entity.DefaultInstallationParameters()
	params["adjustTab"] = false
	params["filtersTab"] = false

	cfg := NewConfig("//images.example.com/a.png", params)

	require.NotEmpty(t, cfg.TabsIDs)
	assert.Equal(t, TabFineTune, cfg.DefaultTabID)
	assert.Equal(t, cfg.TabsIDs[0], cfg.DefaultTabID)
	assert.Equal(t, "//images.example.com/a.png", cfg.Source)
	assert.Equal(t, 4, cfg.SavingPixelRatio)
	assert.Equal(t, 90, cfg.Rotate.Angle)
	assert.True(t, cfg.ForceToPngInEllipticalCrop)
}

func TestNewConfigWithoutTabs(t *testing.T) {
	cfg := NewConfig("//x", entity.InstallationParameters{})
	assert.Empty(t, cfg.TabsIDs)
	assert.Empty(t, cfg.DefaultTabID)
}

func TestTabID(t *testing.T) {
	id, ok := TabID("fineTuneTab")
	assert.True(t, ok)
	assert.Equal(t, TabFineTune, id)

	_, ok = TabID("cropTab")
	assert.False(t, ok)
}

func TestEveryInstallationKeyHasTab(t *testing.T) {
	for _, key := range entity.InstallationKeys {
		_, ok := TabID(key)
		assert.True(t, ok, key)
	}
	assert.Len(t, EnabledTabs(entity.DefaultInstallationParameters()), len(entity.InstallationKeys))
}

func TestBeforeSaveNeverAllows(t *testing.T) {
	assert.False(t, BeforeSave())
}
