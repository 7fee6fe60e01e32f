// ABOUTME: Command to install the MTProto proxy end to end.
// ABOUTME: Builds from source, fetches Telegram aux files, and activates systemd.

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Erfan-XRay/MTPulse/internal/argv"
	"github.com/Erfan-XRay/MTPulse/internal/buildtool"
	"github.com/Erfan-XRay/MTPulse/internal/lifecycle"
	"github.com/Erfan-XRay/MTPulse/internal/status"
	"github.com/Erfan-XRay/MTPulse/internal/style"
	"github.com/Erfan-XRay/MTPulse/internal/ui"
)

var (
	installPort    int
	installRebuild bool
	installReuse   bool
)

var installCmd = &cobra.Command{
	Use:     "install",
	GroupID: GroupLifecycle,
	Short:   "Build, configure, and start the proxy",
	Long: `Install the MTProto proxy on this host.

Installs build packages, compiles the proxy from the Telegram source
repository, downloads the proxy secret and configuration from Telegram,
generates a fresh connection secret, writes the systemd service
definition, and starts the service enabled at boot.

Re-running install regenerates the connection secret and restarts the
service with the new one. Any sponsor tag is cleared; set it again
afterwards with 'mtpulse tag set'.

When a proxy binary is already installed, interactive runs ask whether
to reuse it; --reuse-binary and --rebuild answer the question up front.
Non-interactive runs reuse the binary unless --rebuild is given.

Examples:
  mtpulse install --port 443
  mtpulse install --port 8443 --rebuild
  mtpulse install --port 443 --reuse-binary`,
	RunE: runInstall,
}

func init() {
	installCmd.Flags().IntVarP(&installPort, "port", "p", 0, "Public port the proxy listens on")
	installCmd.Flags().BoolVar(&installRebuild, "rebuild", false, "Rebuild the proxy binary even if one is already installed")
	installCmd.Flags().BoolVar(&installReuse, "reuse-binary", false, "Reuse an already installed proxy binary without asking")
	installCmd.MarkFlagsMutuallyExclusive("rebuild", "reuse-binary")
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	port := installPort
	if port == 0 {
		if !ui.IsTerminal() {
			return errors.New("--port is required when stdin is not a terminal")
		}
		port, err = askPort()
		if err != nil {
			return err
		}
	}
	if !argv.ValidPort(port) {
		return fmt.Errorf("port %d is out of range 1-65535", port)
	}

	reuse := decideReuse(app.controller.BinaryInstalled(), installRebuild, installReuse, ui.IsTerminal(), confirm)

	var result *lifecycle.InstallResult
	err = app.locked(func() error {
		var installErr error
		result, installErr = app.controller.Install(cmd.Context(), lifecycle.InstallRequest{
			Port:        port,
			ReuseBinary: reuse,
		})
		return installErr
	})
	if err != nil {
		var buildErr *buildtool.BuildError
		if errors.As(err, &buildErr) {
			fmt.Fprintln(os.Stderr, style.Dim.Render(buildErr.Log))
		}
		return err
	}

	fmt.Println()
	fmt.Println(style.Green.Render("✓") + " Proxy installed and running.")
	fmt.Println()
	printArgs(&result.Args, result.Address)
	return nil
}

// decideReuse answers the reuse-or-rebuild question for an already
// installed binary. Flags win; otherwise interactive runs ask the
// operator and non-interactive runs reuse, since any build of the
// proxy accepts the same invocation.
func decideReuse(binaryInstalled, rebuild, reuseFlag, interactive bool, ask func(string) bool) bool {
	if !binaryInstalled || rebuild {
		return false
	}
	if reuseFlag {
		return true
	}
	if interactive {
		return ask("A proxy binary is already installed. Reuse it instead of rebuilding?")
	}
	return true
}

// askPort prompts until the operator enters a valid port. Invalid
// input re-prompts instead of failing the install.
func askPort() (int, error) {
	reader := newStdinReader()
	for {
		fmt.Print("Proxy listen port: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return 0, fmt.Errorf("reading port: %w", err)
		}
		line = strings.TrimSpace(line)
		port, convErr := strconv.Atoi(line)
		if convErr == nil && argv.ValidPort(port) {
			return port, nil
		}
		fmt.Println(style.Red.Render(fmt.Sprintf("%q is not a port between 1 and 65535", line)))
	}
}

// printArgs renders the operator-facing connection summary.
func printArgs(a *argv.ArgVector, address string) {
	fmt.Printf("%s %d\n", style.Bold.Render("Port:"), a.Port)
	fmt.Printf("%s %s\n", style.Bold.Render("Secret:"), a.Secret)
	if a.Tag != "" {
		fmt.Printf("%s %s\n", style.Bold.Render("Sponsor tag:"), a.Tag)
	}
	if address == "" {
		fmt.Println(style.Yellow.Render("Public address lookup failed; run 'mtpulse status' once connectivity is back."))
		return
	}
	links := status.ShareLinks(address, a.Port, a.Secret)
	fmt.Printf("%s %s\n", style.Bold.Render("Address:"), address)
	fmt.Println()
	fmt.Println(style.Header.Render("Share links:"))
	fmt.Println("  " + style.Cyan.Render(links.TG))
	fmt.Println("  " + style.Cyan.Render(links.Web))
}
