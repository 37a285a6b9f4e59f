package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"thalamusd/internal/config"
)

func buildValidateCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a deploy config without starting the daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath
			if path == "" {
				settings, err := config.LoadSettings()
				if err != nil {
					return err
				}
				path = settings.DeployConfig
			}
			if path == "" {
				return fmt.Errorf("no deploy config: pass --config or set THALAMUS_DEPLOY_CONFIG")
			}
			deploy, err := config.Load(path)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if deploy.Name != "" {
				fmt.Fprintf(out, "deploy: %s\n", deploy.Name)
			}
			keys := make([]string, 0, len(deploy.Models))
			for k := range deploy.Models {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				mc := deploy.Models[k]
				device := mc.Device
				if device == "" {
					device = "auto"
				}
				fmt.Fprintf(out, "model %s: device=%s weights=%d\n", k, device, len(mc.Weights))
			}
			if missing := config.MissingSecrets(deploy); len(missing) > 0 {
				return fmt.Errorf("missing secrets: %s", strings.Join(missing, ", "))
			}
			fmt.Fprintln(out, "ok")
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "deploy config file (default THALAMUS_DEPLOY_CONFIG)")
	return cmd
}
