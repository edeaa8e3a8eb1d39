// Package editor describes the embedded image editor the dialog hands its image to.
package editor

import "github.com/ds124wfegd/WB_L3/imageeditor/internal/entity"

// Tab identifiers understood by the embedded editor.
const (
	TabAdjust    = "Adjust"
	TabFilters   = "Filters"
	TabFineTune  = "Finetune"
	TabResize    = "Resize"
	TabAnnotate  = "Annotate"
	TabWatermark = "Watermark"
)

type tabMapping struct {
	Key string
	ID  string
}

var tabTable = []tabMapping{
	{Key: "adjustTab", ID: TabAdjust},
	{Key: "filtersTab", ID: TabFilters},
	{Key: "fineTuneTab", ID: TabFineTune},
	{Key: "resizeTab", ID: TabResize},
	{Key: "annotateTab", ID: TabAnnotate},
	{Key: "watermarkTab", ID: TabWatermark},
}

// TabID returns the editor identifier for an installation key.
func TabID(key string) (string, bool) {
	for _, m := range tabTable {
		if m.Key == key {
			return m.ID, true
		}
	}
	return "", false
}

// EnabledTabs lists the tab identifiers whose installation flag is true, in
// installation key order; the first one becomes the default tab.
func EnabledTabs(params entity.InstallationParameters) []string {
	tabs := make([]string, 0, len(entity.InstallationKeys))
	for _, key := range entity.InstallationKeys {
		if !params[key] {
			continue
		}
		if id, ok := TabID(key); ok {
			tabs = append(tabs, id)
		}
	}
	return tabs
}
