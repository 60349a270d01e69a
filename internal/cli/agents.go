package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soyeahso/roster/internal/gatewaycli"
	"github.com/soyeahso/roster/internal/gatewayconf"
)

func newAgentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "agents",
		Short: "List agents known to the gateway",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := gatewaycli.NewClient(settings.Gateway.Bin, log)
			agents, err := client.ListAgents(cmd.Context())
			if err == nil {
				if len(agents) == 0 {
					fmt.Println("no agents registered")
					return nil
				}
				for _, a := range agents {
					fmt.Printf("  %-16s %s\n", a.ID, a.Name)
				}
				return nil
			}

			// Gateway CLI unavailable; fall back to the shared config file.
			log.Debug().Err(err).Msg("gateway CLI unavailable, reading config file")
			store := gatewayconf.NewStore(settings.Gateway.Config, settings.Gateway.WriteStrategy, log)
			doc, err := store.Load()
			if err != nil {
				return fmt.Errorf("listing agents: %w", err)
			}
			ids := doc.AgentIDs()
			if len(ids) == 0 {
				fmt.Println("no agents registered")
				return nil
			}
			for _, id := range ids {
				fmt.Printf("  %s\n", id)
			}
			return nil
		},
	}
}
