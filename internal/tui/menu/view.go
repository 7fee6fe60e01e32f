package menu

import (
	"fmt"
	"strings"

	"github.com/Erfan-XRay/MTPulse/internal/lifecycle"
	"github.com/Erfan-XRay/MTPulse/internal/status"
)

// View renders the current screen.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("MTPulse") + "\n\n")

	switch m.step {
	case stepMenu:
		m.viewMenu(&b)
	case stepPort:
		b.WriteString("Proxy listen port:\n\n")
		b.WriteString("  " + m.portInput.View() + "\n")
		if m.inputErr != "" {
			b.WriteString("\n  " + errorStyle.Render(m.inputErr) + "\n")
		}
		b.WriteString("\n" + dimStyle.Render("enter to continue, esc to cancel") + "\n")
	case stepReuseBinary:
		b.WriteString("A proxy binary is already installed.\n\n")
		b.WriteString("  " + choice("Reuse it", m.reuseBinary) + "   " + choice("Rebuild from source", !m.reuseBinary) + "\n")
		b.WriteString("\n" + dimStyle.Render("←/→ to switch, enter to continue, esc to go back") + "\n")
	case stepInstalling:
		b.WriteString(m.spinner.View() + " Installing. Building from source can take several minutes.\n")
	case stepTag:
		b.WriteString("Sponsor tag from @MTProxybot:\n\n")
		b.WriteString("  " + m.tagInput.View() + "\n")
		if m.inputErr != "" {
			b.WriteString("\n  " + errorStyle.Render(m.inputErr) + "\n")
		}
		b.WriteString("\n" + dimStyle.Render("enter to apply, esc to cancel") + "\n")
	case stepTagConfirm:
		if m.pendingTag == "" {
			b.WriteString("A sponsor tag is set. Remove it? " + dimStyle.Render("[y/N]") + "\n")
		} else {
			b.WriteString("A sponsor tag is already set. Replace it? " + dimStyle.Render("[y/N]") + "\n")
		}
	case stepUninstallConfirm:
		b.WriteString("Remove the proxy service, binary, and all generated files? " + dimStyle.Render("[y/N]") + "\n")
	case stepWorking:
		b.WriteString(m.spinner.View() + " Working...\n")
	case stepResult:
		if m.err != nil {
			b.WriteString(errorStyle.Render("Error: "+m.err.Error()) + "\n")
			if m.result != "" {
				b.WriteString("\n" + dimStyle.Render(m.result) + "\n")
			}
		} else {
			b.WriteString(m.result + "\n")
		}
		b.WriteString("\n" + dimStyle.Render("enter to return to the menu") + "\n")
	}

	return b.String()
}

func (m *Model) viewMenu(b *strings.Builder) {
	for i, item := range menuItems {
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> ") + selectedStyle.Render(item.label) + "\n")
		} else {
			b.WriteString("  " + item.label + "\n")
		}
	}
	b.WriteString("\n" + dimStyle.Render("↑/↓ to move, enter to select, q to quit") + "\n")
}

func choice(label string, selected bool) string {
	if selected {
		return selectedStyle.Render("[" + label + "]")
	}
	return dimStyle.Render(" " + label + " ")
}

func renderInstallResult(r *lifecycle.InstallResult) string {
	var b strings.Builder
	b.WriteString(successStyle.Render("Proxy installed and running.") + "\n\n")
	fmt.Fprintf(&b, "%s %d\n", labelStyle.Render("Port:"), r.Args.Port)
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Secret:"), r.Args.Secret)
	if r.Address != "" {
		links := status.ShareLinks(r.Address, r.Args.Port, r.Args.Secret)
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Address:"), r.Address)
		fmt.Fprintf(&b, "\n%s\n  %s\n  %s\n", labelStyle.Render("Share links:"), links.TG, links.Web)
	} else {
		b.WriteString("\n" + dimStyle.Render("Public address lookup failed; run status once connectivity is back.") + "\n")
	}
	return b.String()
}

func renderStatus(v *status.View) string {
	var b strings.Builder
	switch v.State {
	case status.StateNotInstalled:
		b.WriteString("Proxy is " + errorStyle.Render("not installed") + ".\n")
		return b.String()
	case status.StateInactive:
		b.WriteString("Proxy is installed but " + errorStyle.Render("inactive") + ".\n")
	case status.StateActive:
		b.WriteString("Proxy is " + successStyle.Render("active") + ".\n")
	}
	fmt.Fprintf(&b, "%s %v\n", labelStyle.Render("Enabled at boot:"), v.Enabled)
	if v.State != status.StateActive {
		return b.String()
	}
	if v.Secret == "" {
		b.WriteString(dimStyle.Render("Service descriptor is missing; reinstall to regenerate it.") + "\n")
		return b.String()
	}
	fmt.Fprintf(&b, "%s %d\n", labelStyle.Render("Port:"), v.Port)
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Secret:"), v.Secret)
	if v.Tag != "" {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Sponsor tag:"), v.Tag)
	}
	if v.Address != "" {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Address:"), v.Address)
		fmt.Fprintf(&b, "\n%s\n  %s\n  %s\n", labelStyle.Render("Share links:"), v.Links.TG, v.Links.Web)
	} else {
		b.WriteString(dimStyle.Render("Public address lookup failed; share links unavailable.") + "\n")
	}
	return b.String()
}

// tailLines returns the last n lines of s.
func tailLines(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
