package cmd

import (
	"fmt"

	"cxt/pkg/version"

	"github.com/spf13/cobra"
)

// newVersionCmd displays the current version of cxt.
// The --short flag prints the version number only.
func newVersionCmd(a *app) *cobra.Command {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Display the version of cxt",
		Long:  `Display the current version information of the cxt CLI tool.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			short, err := cmd.Flags().GetBool("short")
			if err != nil {
				return fmt.Errorf("error reading flags: %w", err)
			}

			v := version.Get()
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), v.Version)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), v.String())
			}
			return nil
		},
	}
	versionCmd.Flags().BoolP("short", "s", false, "Print the version number only")
	return versionCmd
}
