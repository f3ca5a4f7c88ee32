package main

import (
	"fmt"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/litescript/ls-natal/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and persist settings",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := toml.Marshal(a.settings)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", a.loader.Path(), data)
			return nil
		},
	}

	save := &cobra.Command{
		Use:   "save",
		Short: "Write the effective settings to the config file",
		Long:  "Write the effective settings, including flag and environment overrides, to the config file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.loader.Path()
			if err := config.Save(path, a.settings); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", path)
			return nil
		},
	}
	addChartFlags(save)

	reset := &cobra.Command{
		Use:         "reset",
		Short:       "Overwrite the config file with the defaults",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationLenient: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.loader.Path()
			if _, err := config.Reset(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reset %s\n", path)
			return nil
		},
	}

	path := &cobra.Command{
		Use:         "path",
		Short:       "Print the config file location",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationLenient: "true"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), a.loader.Path())
		},
	}

	cmd.AddCommand(show, save, reset, path)
	return cmd
}
