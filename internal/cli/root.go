// Package cli wires the modorg commands to the manager, configuration and
// output packages.
package cli

import (
	"github.com/arthur-debert/modorg/pkg/logging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const (
	groupRegistry = "registry"
	groupMods     = "mods"
	groupMisc     = "misc"
)

// NewRootCmd builds the modorg command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "modorg",
		Short: MsgRootShort,
		Long:  MsgRootLong,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.BoolVar(&opts.dryRun, "dry-run", false, MsgFlagDryRun)
	flags.BoolVarP(&opts.yes, "yes", "y", false, MsgFlagYes)
	flags.StringVarP(&opts.format, "output", "o", "auto", MsgFlagOutput)
	flags.StringVar(&opts.configFile, "config", "", MsgFlagConfig)
	flags.StringVar(&opts.gameDir, "game-dir", "", MsgFlagGameDir)

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "term", "text", "json", "yaml", "toml"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddGroup(
		&cobra.Group{ID: groupRegistry, Title: "Registry:"},
		&cobra.Group{ID: groupMods, Title: "Mods:"},
		&cobra.Group{ID: groupMisc, Title: "Other:"},
	)

	rootCmd.AddCommand(
		newRefreshCmd(opts),
		newListCmd(opts),
		newInfoCmd(opts),
		newStatusCmd(opts),
		newPlanCmd(opts),
		newInstallCmd(opts),
		newUninstallCmd(opts),
		newWatchCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
		newCompletionCmd(),
		newManCmd(),
	)
	installTopics(rootCmd)
	rootCmd.SetHelpCommandGroupID(groupMisc)
	rootCmd.SetCompletionCommandGroupID(groupMisc)

	return rootCmd
}
