package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/youruser/cardcomposer/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective render configuration",
	Long: `Print the render configuration after the config file and the
environment have been applied, with the presets, as JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := struct {
			Render  config.RenderSection            `json:"render"`
			Presets map[string]config.RenderSection `json:"presets,omitempty"`
		}{
			Render:  config.Section(cfg.Render),
			Presets: map[string]config.RenderSection{},
		}
		names := make([]string, 0, len(cfg.Presets))
		for name := range cfg.Presets {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			out.Presets[name] = config.Section(cfg.Presets[name])
		}

		b, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return nil
	},
}
