package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/debatelab/arena/internal/config"
)

var backendsCmd = &cobra.Command{
	Use:   "backends",
	Short: "List configured generation backends",
	Long: `List the generation backends available for debate roles.

A backend is ready when the environment variable named by its
api_key_env setting is present. Any backend key may be bound to any
role with the run command's --debater-a, --debater-b and --judge flags.`,
	RunE: runBackends,
}

func init() {
	rootCmd.AddCommand(backendsCmd)
}

func runBackends(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(cfg.Backends))
	for key := range cfg.Backends {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fmt.Printf("%-10s %-10s %-28s %-12s %s\n", "KEY", "PROTOCOL", "MODEL", "NAME", "READY")
	for _, key := range keys {
		bc := cfg.Backends[key]
		ready := "no (set " + bc.APIKeyEnv + ")"
		if bc.APIKey() != "" {
			ready = "yes"
		}
		fmt.Printf("%-10s %-10s %-28s %-12s %s\n", key, bc.Protocol, bc.Model, bc.DisplayName, ready)
	}

	fmt.Printf("\nDefault roles: debater-a=%s debater-b=%s judge=%s\n",
		cfg.Roles.DebaterA, cfg.Roles.DebaterB, cfg.Roles.Judge)
	return nil
}
