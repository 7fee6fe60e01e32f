package cmd

import (
	"strings"
	"testing"
)

func TestAllCommandsRegistered(t *testing.T) {
	want := []string{"install", "uninstall", "status", "tag", "start", "stop", "restart", "logs", "guide"}
	registered := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}
	for _, name := range want {
		if !registered[name] {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestCommandsHaveGroups(t *testing.T) {
	groups := map[string]bool{}
	for _, g := range rootCmd.Groups() {
		groups[g.ID] = true
	}
	for _, c := range rootCmd.Commands() {
		if c.Name() == "help" || c.Name() == "completion" {
			continue
		}
		if !groups[c.GroupID] {
			t.Errorf("command %q has unknown group %q", c.Name(), c.GroupID)
		}
	}
}

func TestTagRequiresSubcommand(t *testing.T) {
	err := requireSubcommand(tagCmd, nil)
	if err == nil {
		t.Fatal("expected error without subcommand")
	}
	if !strings.Contains(err.Error(), "mtpulse tag") {
		t.Errorf("error should name the command path: %v", err)
	}

	err = requireSubcommand(tagCmd, []string{"bogus"})
	if err == nil || !strings.Contains(err.Error(), "bogus") {
		t.Errorf("error should name the unknown subcommand: %v", err)
	}
}

func TestGuideEmbedded(t *testing.T) {
	if !strings.Contains(guideMarkdown, "mtpulse install") {
		t.Error("embedded guide should document the install command")
	}
}
