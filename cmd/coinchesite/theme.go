package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nebuludik/coinchesite/internal/theme"
)

var themeCSSOnly bool

// themeCmd prints the dark theme for a WordPress deployment.
var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Print the dark theme mu-plugin",
	Long: `Print a WordPress must-use plugin that injects the dark theme into wp_head.
Save the output as wp-content/mu-plugins/coinche-dark-theme.php.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := theme.MUPlugin()
		if themeCSSOnly {
			out = theme.Stylesheet()
		}
		_, err := fmt.Fprint(cmd.OutOrStdout(), out)
		return err
	},
}

func init() {
	themeCmd.Flags().BoolVar(&themeCSSOnly, "css", false, "print the raw stylesheet instead")
}
