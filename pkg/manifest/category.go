package manifest

// Category is the registry's grouping of mods. Unknown categories are kept
// verbatim.
type Category string

const (
	CategoryAssetImportingTweaks Category = "Asset Importing Tweaks"
	CategoryBugWorkarounds       Category = "Bug Workarounds"
	CategoryContextMenuTweaks    Category = "Context Menu Tweaks"
	CategoryDashTweaks           Category = "Dash Tweaks"
	CategoryDevelopers           Category = "Developers"
	CategoryGeneralUITweaks      Category = "General UI Tweaks"
	CategoryHardwareIntegrations Category = "Hardware Integrations"
	CategoryInspectors           Category = "Inspectors"
	CategoryKeybindsGestures     Category = "Keybinds & Gestures"
	CategoryLibraries            Category = "Libraries"
	CategoryLogiX                Category = "LogiX"
	CategoryMemes                Category = "Memes"
	CategoryMisc                 Category = "Misc"
	CategoryOptimization         Category = "Optimization"
	CategoryPlugins              Category = "Plugins"
	CategoryTechnicalTweaks      Category = "Technical Tweaks"
	CategoryVisualTweaks         Category = "Visual Tweaks"
	CategoryWizards              Category = "Wizards"
)

var knownCategories = map[Category]bool{
	CategoryAssetImportingTweaks: true,
	CategoryBugWorkarounds:       true,
	CategoryContextMenuTweaks:    true,
	CategoryDashTweaks:           true,
	CategoryDevelopers:           true,
	CategoryGeneralUITweaks:      true,
	CategoryHardwareIntegrations: true,
	CategoryInspectors:           true,
	CategoryKeybindsGestures:     true,
	CategoryLibraries:            true,
	CategoryLogiX:                true,
	CategoryMemes:                true,
	CategoryMisc:                 true,
	CategoryOptimization:         true,
	CategoryPlugins:              true,
	CategoryTechnicalTweaks:      true,
	CategoryVisualTweaks:         true,
	CategoryWizards:              true,
}

// Known reports whether c is one of the registry's standard categories.
func (c Category) Known() bool {
	return knownCategories[c]
}
