// ABOUTME: Commands to set and clear the proxy's sponsor tag.
// ABOUTME: Tag changes go through the lifecycle controller and restart the service.

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Erfan-XRay/MTPulse/internal/argv"
	"github.com/Erfan-XRay/MTPulse/internal/lifecycle"
	"github.com/Erfan-XRay/MTPulse/internal/style"
)

var tagYes bool

var tagCmd = &cobra.Command{
	Use:     "tag",
	GroupID: GroupLifecycle,
	Short:   "Manage the proxy's sponsor tag",
	Long: `Manage the sponsor tag registered with @MTProxybot.

The tag is the only setting that can change without a reinstall. Setting
or clearing it rewrites the service definition and restarts the proxy;
every other setting is preserved exactly.`,
	RunE: requireSubcommand,
}

var tagSetCmd = &cobra.Command{
	Use:   "set <tag>",
	Short: "Set the sponsor tag (32 hex characters)",
	Long: `Set the sponsor tag on the running proxy.

Replacing an existing tag asks for confirmation unless --yes is given.

Examples:
  mtpulse tag set 3c09c2bae1b6057b2b00fcf44ec79368
  mtpulse tag set 3c09c2bae1b6057b2b00fcf44ec79368 --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runTagSet,
}

var tagClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the sponsor tag",
	Args:  cobra.NoArgs,
	RunE:  runTagClear,
}

func init() {
	tagSetCmd.Flags().BoolVarP(&tagYes, "yes", "y", false, "Replace an existing tag without asking")
	tagClearCmd.Flags().BoolVarP(&tagYes, "yes", "y", false, "Remove an existing tag without asking")
	tagCmd.AddCommand(tagSetCmd)
	tagCmd.AddCommand(tagClearCmd)
	rootCmd.AddCommand(tagCmd)
}

func runTagSet(cmd *cobra.Command, args []string) error {
	tag := strings.ToLower(strings.TrimSpace(args[0]))
	if !argv.ValidHex32(tag) {
		return fmt.Errorf("tag %q must be exactly 32 hex characters", args[0])
	}
	return applyTag(cmd, tag)
}

func runTagClear(cmd *cobra.Command, args []string) error {
	return applyTag(cmd, "")
}

func applyTag(cmd *cobra.Command, tag string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	var next argv.ArgVector
	apply := func(confirmed bool) error {
		return app.locked(func() error {
			var tagErr error
			next, tagErr = app.controller.SetTag(cmd.Context(), tag, confirmed)
			return tagErr
		})
	}

	prompt := "A sponsor tag is already set. Replace it?"
	if tag == "" {
		prompt = "A sponsor tag is set. Remove it?"
	}

	err = apply(tagYes)
	if errors.Is(err, lifecycle.ErrConfirmationRequired) {
		if !confirm(prompt) {
			fmt.Println("Cancelled.")
			return nil
		}
		err = apply(true)
	}
	if err != nil {
		if errors.Is(err, lifecycle.ErrServiceNotActive) {
			return errors.New("proxy is not running; install or start it first")
		}
		return err
	}

	if next.Tag == "" {
		fmt.Println(style.Green.Render("✓") + " Sponsor tag removed; service restarted.")
	} else {
		fmt.Println(style.Green.Render("✓") + " Sponsor tag set to " + style.Cyan.Render(next.Tag) + "; service restarted.")
	}
	return nil
}
