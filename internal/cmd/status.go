package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Erfan-XRay/MTPulse/internal/status"
	"github.com/Erfan-XRay/MTPulse/internal/style"
)

var statusFull bool

var statusCmd = &cobra.Command{
	Use:     "status",
	GroupID: GroupInfo,
	Short:   "Show proxy state and connection links",
	Long: `Show the derived installation state of the proxy.

When the service is active, also shows the configured port, the
connection secret, any sponsor tag, and the share links built from the
host's public address. The values come from the installed service
definition, so they always reflect what the running proxy was started
with.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusFull, "full", false, "Also show the raw systemd unit status")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	view, err := app.reporter.Report(cmd.Context())
	if err != nil {
		return err
	}

	printStatusView(view)

	if statusFull {
		fmt.Println()
		fmt.Println(style.Header.Render("Unit status:"))
		fmt.Println(app.supervisor.Status(app.cfg.Service.Unit))
	}
	return nil
}

func printStatusView(view *status.View) {
	switch view.State {
	case status.StateNotInstalled:
		fmt.Println("Proxy is " + style.Red.Render("not installed") + ".")
		return
	case status.StateInactive:
		fmt.Println("Proxy is installed but " + style.Yellow.Render("inactive") + ".")
	case status.StateActive:
		fmt.Println("Proxy is " + style.Green.Render("active") + ".")
	}

	enabled := "no"
	if view.Enabled {
		enabled = "yes"
	}
	fmt.Printf("%s %s\n", style.Bold.Render("Enabled at boot:"), enabled)

	if view.State != status.StateActive {
		return
	}
	if view.Secret == "" {
		fmt.Println(style.Yellow.Render("Service descriptor is missing; reinstall to regenerate it."))
		return
	}

	fmt.Printf("%s %d\n", style.Bold.Render("Port:"), view.Port)
	fmt.Printf("%s %s\n", style.Bold.Render("Secret:"), view.Secret)
	if view.Tag != "" {
		fmt.Printf("%s %s\n", style.Bold.Render("Sponsor tag:"), view.Tag)
	}
	if view.Address == "" {
		fmt.Println(style.Yellow.Render("Public address lookup failed; share links unavailable."))
		return
	}
	fmt.Printf("%s %s\n", style.Bold.Render("Address:"), view.Address)
	fmt.Println()
	fmt.Println(style.Header.Render("Share links:"))
	fmt.Println("  " + style.Cyan.Render(view.Links.TG))
	fmt.Println("  " + style.Cyan.Render(view.Links.Web))
}
