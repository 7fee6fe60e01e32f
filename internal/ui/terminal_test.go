package ui

import (
	"os"
	"testing"

	"github.com/muesli/termenv"
)

// clearColorEnv unsets the color conventions for the test, restoring
// any prior values afterwards.
func clearColorEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"NO_COLOR", "CLICOLOR", "CLICOLOR_FORCE"} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func TestShouldUseColorRespectsNoColor(t *testing.T) {
	clearColorEnv(t)
	t.Setenv("NO_COLOR", "1")
	if ShouldUseColor() {
		t.Error("NO_COLOR set should disable color")
	}
}

func TestShouldUseColorRespectsCliColorZero(t *testing.T) {
	clearColorEnv(t)
	t.Setenv("CLICOLOR", "0")
	if ShouldUseColor() {
		t.Error("CLICOLOR=0 should disable color")
	}
}

func TestShouldUseColorForce(t *testing.T) {
	clearColorEnv(t)
	t.Setenv("CLICOLOR_FORCE", "1")
	if !ShouldUseColor() {
		t.Error("CLICOLOR_FORCE should enable color even without a TTY")
	}
}

func TestNoColorBeatsForce(t *testing.T) {
	clearColorEnv(t)
	t.Setenv("NO_COLOR", "1")
	t.Setenv("CLICOLOR_FORCE", "1")
	if ShouldUseColor() {
		t.Error("NO_COLOR takes precedence over CLICOLOR_FORCE")
	}
}

func TestColorProfileAsciiWhenColorDisabled(t *testing.T) {
	clearColorEnv(t)
	t.Setenv("NO_COLOR", "1")
	if got := ColorProfile(); got != termenv.Ascii {
		t.Errorf("profile with NO_COLOR = %v, want Ascii", got)
	}
}

func TestInteractiveDisabledByEnv(t *testing.T) {
	t.Setenv("MTPULSE_NO_MENU", "1")
	if Interactive() {
		t.Error("MTPULSE_NO_MENU should disable the menu")
	}
}
