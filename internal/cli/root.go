package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soyeahso/roster/internal/config"
	"github.com/soyeahso/roster/internal/logging"
)

var (
	cfgFile  string
	logLevel string

	// loaded at init time
	paths    config.Paths
	settings config.Settings
	log      *logging.Logger
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Roster — provision agents for a multi-agent chat gateway",
		Long:  "Roster scaffolds agent workspaces, registers agents with a running gateway, binds messaging channels, and keeps the dashboard registry current.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			paths, err = config.ResolvePaths()
			if err != nil {
				return err
			}
			if cfgFile != "" {
				paths.Config = cfgFile
			}

			settings, err = config.Load(paths.Config)
			if err != nil {
				return err
			}
			if issues := config.Validate(&settings); len(issues) > 0 {
				for _, issue := range issues {
					fmt.Println("config:", issue)
				}
				return fmt.Errorf("invalid configuration in %s", paths.Config)
			}

			level := logLevel
			if level == "" {
				level = settings.Logging.Level
			}
			log = logging.New(nil, level, settings.Logging.Style)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.roster/config.yaml)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error, fatal, silent)")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newSpawnCmd())
	cmd.AddCommand(newAgentsCmd())
	cmd.AddCommand(newHistoryCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}
