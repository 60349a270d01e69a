package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soyeahso/roster/internal/gatewaycli"
	"github.com/soyeahso/roster/internal/gatewayconf"
	"github.com/soyeahso/roster/internal/history"
	"github.com/soyeahso/roster/internal/notify"
	"github.com/soyeahso/roster/internal/provision"
	"github.com/soyeahso/roster/internal/telegram"
)

func newSpawnCmd() *cobra.Command {
	var req provision.Request

	cmd := &cobra.Command{
		Use:   "spawn",
		Short: "Provision a new agent",
		Long:  "Spawn scaffolds the agent's workspace, registers it with the gateway, optionally binds a Telegram bot, and grants it cross-agent permissions.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := paths.EnsureDirs(); err != nil {
				return err
			}

			wf := provision.NewWorkflow(provision.WorkflowConfig{
				Settings:      settings,
				DashboardPath: paths.Dashboard,
				Gateway:       gatewaycli.NewClient(settings.Gateway.Bin, log),
				Verifier:      telegram.NewVerifier(settings.Telegram.APIBase),
				Notifier:      notify.NewNotifier(settings.Gateway.ProcessPattern, log),
				Store:         gatewayconf.NewStore(settings.Gateway.Config, settings.Gateway.WriteStrategy, log),
				Log:           log,
			})

			result := wf.Run(cmd.Context(), req)

			for _, line := range result.Log {
				fmt.Println(" ", line)
			}
			fmt.Println()

			recordRun(result)

			if !result.OK {
				return fmt.Errorf("%s", result.Err)
			}

			fmt.Printf("%s %s (%s)\n", result.Emoji, result.Message, result.AgentID)
			fmt.Printf("  Workspace: %s\n", result.Workspace)
			fmt.Printf("  Model:     %s\n", result.Model)
			if result.HasTelegram {
				fmt.Printf("  Telegram:  @%s\n", result.TelegramUsername)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "agent display name (required)")
	cmd.Flags().StringVar(&req.Emoji, "emoji", "🤖", "agent emoji")
	cmd.Flags().StringVar(&req.Soul, "soul", "", "personality text written into SOUL.md")
	cmd.Flags().StringVar(&req.Model, "model", "", "model identifier (default from config)")
	cmd.Flags().StringVar(&req.TelegramToken, "telegram-token", "", "Telegram bot token to bind")
	cmd.MarkFlagRequired("name")

	return cmd
}

// recordRun persists the run to the local history database. History is an
// audit trail, not part of provisioning; failures only log.
func recordRun(result provision.Result) {
	store, err := history.Open(paths.History, log)
	if err != nil {
		log.Warn().Err(err).Msg("could not open history database")
		return
	}
	defer store.Close()

	run := history.Run{
		ID:      result.RunID,
		AgentID: result.AgentID,
		Name:    result.Name,
		OK:      result.OK,
		Message: result.Message,
		Error:   result.Err,
		Log:     result.Log,
	}
	if err := store.Record(context.Background(), run); err != nil {
		log.Warn().Err(err).Msg("could not record provisioning run")
	}
}
