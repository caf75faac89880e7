package cli

// Short messages (one-liners)
const (
	MsgRootShort = "Plan and install mods for Neos"
	MsgRootLong  = `modorg keeps a game directory's mods consistent with a mod registry.

It reads one or more mod manifests, resolves the dependencies of the mods you
ask for, previews every change on a virtual copy of your install, and reports
conflicts (missing dependencies, clashing files, mods that must not be
installed together) before anything touches the disk.`

	MsgRefreshShort   = "Fetch mod manifests and rebuild the registry"
	MsgListShort      = "List mods in the registry"
	MsgInfoShort      = "Show details of a mod"
	MsgStatusShort    = "Show installed mods and their conflicts"
	MsgPlanShort      = "Show what installing a mod would do"
	MsgInstallShort   = "Install a mod and its dependencies"
	MsgUninstallShort = "Uninstall every version of a mod"
	MsgWatchShort     = "Rescan and report conflicts whenever mod files change"
	MsgConfigShort    = "Print the effective configuration"
	MsgVersionShort   = "Print version information"
	MsgManShort       = "Generate the man page"

	MsgRequirementHelp = `The optional requirement restricts the version, e.g. ">=1.2, <2" or "^1.4".
It defaults to "*", the latest version.`

	MsgSharedFileHelp = `A mod whose files are already held by another installed mod is not planned:
plan and install stop with FILE_ALREADY_EXISTS instead of reporting a
file_conflict. Uninstall the other mod first. See "modorg help conflicts".`

	MsgInstallExample = `  modorg install com.example.Mod
  modorg install com.example.Mod "^1.4"
  modorg install com.example.Mod --dry-run`

	// Status messages
	MsgRefreshed          = "Loaded %d mods from %d sources"
	MsgSourceFailed       = "manifest source %s failed: %v"
	MsgAlreadySatisfied   = "%s is already installed and up to date"
	MsgDryRunNotice       = "Dry run, no changes were made"
	MsgInstalled          = "Installed %d and uninstalled %d mods"
	MsgAborted            = "Aborted"
	MsgConfirmApply       = "Apply this plan?"
	MsgWatching           = "Watching %s"
	MsgFetchingManifests  = "Fetching manifests"
	MsgRescanning         = "Rescanning mods"
	MsgVersionLine        = "modorg %s\n"
	MsgConflictsRemaining = "%d conflicts remain after this plan"

	// Error messages
	MsgErrNoSuchMod    = "no mod %s in the registry"
	MsgErrNoCommand    = "no command specified"
	MsgErrGameDirState = "game directory %s is not a directory"

	// Flag descriptions
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun  = "Preview changes without executing them"
	MsgFlagYes     = "Apply without asking for confirmation"
	MsgFlagOutput  = "Output format: auto, term, text, json, yaml, toml"
	MsgFlagConfig  = "Config file (default $XDG_CONFIG_HOME/modorg/config.toml)"
	MsgFlagGameDir = "Game directory (overrides game.dir)"
	MsgFlagSearch  = "Only list mods matching this term"
	MsgFlagInstall = "Only list installed mods"
	MsgFlagDefault = "Print the built-in defaults instead"
	MsgFlagManDir  = "Write one man page per command into this directory"
)
