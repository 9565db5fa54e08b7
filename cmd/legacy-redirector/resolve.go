package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve PATH [QUERY]",
		Short: "Print where a legacy URL would be redirected",
		Example: `  legacy-redirector resolve /viewtopic.php "t=500&c=12345"
  legacy-redirector resolve /system/nes-7/games`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), configFile, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			table, err := a.loadTable()
			if err != nil {
				return err
			}

			rawQuery := ""
			if len(args) == 2 {
				rawQuery = args[1]
			}

			out := a.resolver(table).ResolveRaw(cmd.Context(), args[0], rawQuery)

			rule := out.Rule
			if rule == "" {
				rule = "-"
			}

			if out.IsRedirect() {
				fmt.Fprintf(cmd.OutOrStdout(), "%d %s (%s)\n", a.settings.StatusCode, out.Target, rule)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "404 (%s)\n", rule)
			}

			return nil
		},
	}
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the settings and the rules file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), configFile, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			table, err := a.loadTable()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d table entries, rules: %v\n", table.Len(), a.resolver(table).Rules())

			return nil
		},
	}
}
