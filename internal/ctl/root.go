package ctl

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const defaultAddr = "http://127.0.0.1:8080"

// BuildRootCmd constructs the thalamusctl command tree. Flags default from
// the environment so scripts can set THALAMUS_CTL_ADDR once.
func BuildRootCmd() *cobra.Command {
	var addr, apiKey string
	root := &cobra.Command{
		Use:           "thalamusctl",
		Short:         "Admin client for a running thalamusd",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&addr, "addr", envOr("THALAMUS_CTL_ADDR", defaultAddr), "base URL of the daemon")
	root.PersistentFlags().StringVar(&apiKey, "api-key", os.Getenv("THALAMUS_API_KEY"), "api key when the daemon requires one")

	client := func() *Client { return NewClient(addr, apiKey) }

	statusCmd := &cobra.Command{Use: "status", Short: "Daemon status: models, devices and cache", RunE: func(cmd *cobra.Command, args []string) error {
		st, err := client().Status(cmd.Context())
		if err != nil {
			return err
		}
		printStatus(cmd.OutOrStdout(), st)
		return nil
	}}

	modelsCmd := &cobra.Command{Use: "models", Short: "List registered models", RunE: func(cmd *cobra.Command, args []string) error {
		models, err := client().Models(cmd.Context())
		if err != nil {
			return err
		}
		printModels(cmd.OutOrStdout(), models)
		return nil
	}}

	versionsCmd := &cobra.Command{Use: "versions <model>", Short: "List a model's versions, highest first", Args: cobra.ExactArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		vs, err := client().Versions(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		for _, v := range vs.Versions {
			fmt.Fprintln(cmd.OutOrStdout(), v)
		}
		return nil
	}}

	cacheCmd := &cobra.Command{Use: "cache", Short: "Weight cache operations"}
	cacheStats := &cobra.Command{Use: "stats", Short: "Cache usage and hit statistics", RunE: func(cmd *cobra.Command, args []string) error {
		info, err := client().CacheInfo(cmd.Context())
		if err != nil {
			return err
		}
		printCache(cmd.OutOrStdout(), info)
		return nil
	}}
	cacheClear := &cobra.Command{Use: "clear", Short: "Delete every cached weight file", RunE: func(cmd *cobra.Command, args []string) error {
		cleared, err := client().ClearCache(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "cleared %d files, freed %s\n", cleared.FilesDeleted, bytesStr(cleared.BytesFreed))
		return nil
	}}
	cacheCmd.AddCommand(cacheStats, cacheClear)

	var unloadVersion string
	unloadCmd := &cobra.Command{Use: "unload <model>", Short: "Unload a model, freeing its device", Args: cobra.ExactArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := client().Unload(cmd.Context(), args[0], unloadVersion)
		if err != nil {
			return err
		}
		if len(resp.Unloaded) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: nothing loaded\n", resp.Model)
			return nil
		}
		for _, v := range resp.Unloaded {
			fmt.Fprintf(cmd.OutOrStdout(), "unloaded %s@%s\n", resp.Model, v)
		}
		return nil
	}}
	unloadCmd.Flags().StringVar(&unloadVersion, "version", "", "unload only this version (default: every loaded version)")

	root.AddCommand(statusCmd, modelsCmd, versionsCmd, cacheCmd, unloadCmd)
	return root
}

// Main runs the CLI and returns an exit code for cmd/thalamusctl.
func Main() int {
	if err := BuildRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "thalamusctl:", err)
		return 1
	}
	return 0
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
