// ABOUTME: Command to remove the proxy and everything mtpulse created.
// ABOUTME: Runs every removal step and reports per-step results.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Erfan-XRay/MTPulse/internal/lifecycle"
	"github.com/Erfan-XRay/MTPulse/internal/style"
)

var uninstallForce bool

var uninstallCmd = &cobra.Command{
	Use:     "uninstall",
	GroupID: GroupLifecycle,
	Short:   "Remove the proxy service, binary, and generated files",
	Long: `Remove everything mtpulse installed on this host.

Stops and disables the service, deletes the service definition, the
proxy binary, the downloaded Telegram files, and any leftover build
workspaces. Every step runs even if an earlier one fails, so a partial
previous removal can always be finished by running uninstall again.`,
	RunE: runUninstall,
}

func init() {
	uninstallCmd.Flags().BoolVarP(&uninstallForce, "force", "f", false, "Skip confirmation prompt")
	rootCmd.AddCommand(uninstallCmd)
}

func runUninstall(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	if !uninstallForce {
		if !confirm("Remove the proxy service, binary, and all generated files?") {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	var report lifecycle.UninstallReport
	err = app.locked(func() error {
		report = app.controller.Uninstall(cmd.Context())
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Println()
	for _, step := range report.Steps {
		if step.Err != nil {
			fmt.Printf("%s %s: %v\n", style.Red.Render("✗"), step.Name, step.Err)
		} else {
			fmt.Printf("%s %s\n", style.Green.Render("✓"), step.Name)
		}
	}

	if n := report.Failed(); n > 0 {
		return fmt.Errorf("%d removal step(s) failed; re-run uninstall to retry", n)
	}
	fmt.Println()
	fmt.Println("Proxy fully removed.")
	return nil
}
