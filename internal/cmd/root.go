// Package cmd provides CLI commands for the mtpulse tool.
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Erfan-XRay/MTPulse/internal/tui/menu"
	"github.com/Erfan-XRay/MTPulse/internal/ui"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:     "mtpulse",
	Short:   "MTPulse - MTProto proxy lifecycle manager",
	Version: Version,
	Long: `MTPulse installs and manages a Telegram MTProto proxy on this host.

It builds the proxy from source, supervises it as a systemd service,
and keeps the service definition as the single source of configuration
truth. Run without arguments on a terminal for the interactive menu,
or use the subcommands for scripting.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !ui.Interactive() {
			return cmd.Help()
		}
		app, err := newApp()
		if err != nil {
			return err
		}
		return menu.Run(app.controller, app.reporter, app.supervisor, app.cfg.Service.Unit, app.locked)
	},
}

// Execute runs the root command and returns an exit code.
// The caller (main) should call os.Exit with this code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		// Errors already printed by cobra.
		return 1
	}
	return 0
}

// Command group IDs - used by subcommands to organize help output
const (
	GroupLifecycle = "lifecycle"
	GroupService   = "service"
	GroupInfo      = "info"
)

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupLifecycle, Title: "Lifecycle:"},
		&cobra.Group{ID: GroupService, Title: "Service Control:"},
		&cobra.Group{ID: GroupInfo, Title: "Information:"},
	)

	rootCmd.SetHelpCommandGroupID(GroupInfo)
	rootCmd.SetCompletionCommandGroupID(GroupInfo)
}

// buildCommandPath walks the command hierarchy to build the full
// command path, e.g. "mtpulse tag set".
func buildCommandPath(cmd *cobra.Command) string {
	var parts []string
	for c := cmd; c != nil; c = c.Parent() {
		parts = append([]string{c.Name()}, parts...)
	}
	return strings.Join(parts, " ")
}

// requireSubcommand is the RunE for parent commands that only group
// subcommands. Without it, cobra shows help and exits 0 for unknown
// subcommands, masking errors.
func requireSubcommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("requires a subcommand\n\nRun '%s --help' for usage", buildCommandPath(cmd))
	}
	return fmt.Errorf("unknown command %q for %q\n\nRun '%s --help' for available commands",
		args[0], buildCommandPath(cmd), buildCommandPath(cmd))
}
