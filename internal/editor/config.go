package editor

import "github.com/ds124wfegd/WB_L3/imageeditor/internal/entity"

type Rotate struct {
	Angle         int    `json:"angle"`
	ComponentType string `json:"componentType"`
}

type Theme struct {
	Palette    map[string]string `json:"palette"`
	Typography map[string]string `json:"typography"`
}

// Config is handed to the browser-side editor as-is.
type Config struct {
	Source                     string   `json:"source"`
	Theme                      Theme    `json:"theme"`
	Rotate                     Rotate   `json:"Rotate"`
	TabsIDs                    []string `json:"tabsIds"`
	DefaultTabID               string   `json:"defaultTabId,omitempty"`
	SavingPixelRatio           int      `json:"savingPixelRatio"`
	ForceToPngInEllipticalCrop bool     `json:"forceToPngInEllipticalCrop"`
}

var hostTheme = Theme{
	Palette: map[string]string{
		"bg-secondary":          "#ffffff",
		"bg-primary":            "#f7f9fa",
		"bg-primary-active":     "#e7ebee",
		"accent-primary":        "#0059c8",
		"accent-primary-active": "#000000",
		"icons-primary":         "#0059c8",
		"icons-secondary":       "#f7f9fa",
		"borders-secondary":     "#f7f9fa",
		"borders-primary":       "#e7ebee",
		"borders-strong":        "#aec1cc",
		"light-shadow":          "#f7f9fa",
		"warning":               "#cc4500",
	},
	Typography: map[string]string{
		"fontFamily": "-apple-system, BlinkMacSystemFont, Segoe UI, Helvetica, Arial, sans-serif, Apple Color Emoji, Segoe UI Emoji, Segoe UI Symbol",
	},
}

func NewConfig(source string, params entity.InstallationParameters) Config {
	tabs := EnabledTabs(params)

	cfg := Config{
		Source:                     source,
		Theme:                      hostTheme,
		Rotate:                     Rotate{Angle: 90, ComponentType: "slider"},
		TabsIDs:                    tabs,
		SavingPixelRatio:           4,
		ForceToPngInEllipticalCrop: true,
	}
	if len(tabs) > 0 {
		cfg.DefaultTabID = tabs[0]
	}
	return cfg
}

// BeforeSave gates the editor's own save action; only the save callback path may run.
func BeforeSave() bool {
	return false
}
