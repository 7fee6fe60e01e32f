// ABOUTME: Service control passthrough commands.
// ABOUTME: Thin wrappers over the systemd supervisor for the managed unit.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Erfan-XRay/MTPulse/internal/style"
)

var logsLines int

var startCmd = &cobra.Command{
	Use:     "start",
	GroupID: GroupService,
	Short:   "Start the proxy service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serviceOp(func(a *app) error { return a.supervisor.Start(a.cfg.Service.Unit) }, "started")
	},
}

var stopCmd = &cobra.Command{
	Use:     "stop",
	GroupID: GroupService,
	Short:   "Stop the proxy service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serviceOp(func(a *app) error { return a.supervisor.Stop(a.cfg.Service.Unit) }, "stopped")
	},
}

var restartCmd = &cobra.Command{
	Use:     "restart",
	GroupID: GroupService,
	Short:   "Restart the proxy service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serviceOp(func(a *app) error { return a.supervisor.Restart(a.cfg.Service.Unit) }, "restarted")
	},
}

var logsCmd = &cobra.Command{
	Use:     "logs",
	GroupID: GroupService,
	Short:   "Show recent proxy service logs",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		out, err := a.supervisor.Logs(a.cfg.Service.Unit, logsLines)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	},
}

func init() {
	logsCmd.Flags().IntVarP(&logsLines, "lines", "n", 30, "Number of journal lines to show")
	rootCmd.AddCommand(startCmd, stopCmd, restartCmd, logsCmd)
}

func serviceOp(op func(*app) error, verb string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := op(a); err != nil {
		return err
	}
	fmt.Println(style.Green.Render("✓") + " Service " + verb + ".")
	return nil
}
