// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/viewpack/viewpack/pkg/platform"
)

// newPlatformsCommand creates the `viewpack platforms` command.
func newPlatformsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "platforms",
		Short: "List supported platforms and their default engines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()

			fmt.Fprintln(w, TitleStyle.Render("Supported platforms"))
			for _, p := range platform.All() {
				aliases := "-"
				if a := platform.Aliases(p); len(a) > 0 {
					aliases = strings.Join(a, ", ")
				}
				fmt.Fprintf(w, "  %s %-9s %s %s\n",
					platformStyle.Render(string(p)),
					p.NativeWebView(),
					SubtitleStyle.Render("aliases:"),
					aliases)
			}

			fmt.Fprintln(w)
			fmt.Fprintf(w, "Without %s a platform uses its system web view; with it, %s.\n",
				CmdStyle.Render("bundleCEF: true"), platform.EngineCEF)
			if host, err := platform.Host(); err == nil {
				fmt.Fprintf(w, "%s resolves to %s on this machine.\n", CmdStyle.Render(platform.HostAlias), host)
			}
			return nil
		},
	}
}
