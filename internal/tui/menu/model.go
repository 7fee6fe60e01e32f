// Package menu is the interactive operator surface. It is a thin
// bubbletea adapter over the lifecycle controller and status reporter:
// every action the menu offers exists as a scriptable subcommand too,
// and the menu holds no state of its own beyond navigation.
package menu

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Erfan-XRay/MTPulse/internal/argv"
	"github.com/Erfan-XRay/MTPulse/internal/buildtool"
	"github.com/Erfan-XRay/MTPulse/internal/lifecycle"
	"github.com/Erfan-XRay/MTPulse/internal/status"
)

// step is the current screen of the menu.
type step int

const (
	stepMenu step = iota
	stepPort
	stepReuseBinary
	stepInstalling
	stepTag
	stepTagConfirm
	stepUninstallConfirm
	stepWorking
	stepResult
)

// menuAction identifies one selectable menu entry.
type menuAction int

const (
	actionInstall menuAction = iota
	actionStatus
	actionStart
	actionStop
	actionRestart
	actionLogs
	actionSetTag
	actionClearTag
	actionUninstall
	actionQuit
)

type menuItem struct {
	label  string
	action menuAction
}

var menuItems = []menuItem{
	{"Install proxy", actionInstall},
	{"Show status", actionStatus},
	{"Start service", actionStart},
	{"Stop service", actionStop},
	{"Restart service", actionRestart},
	{"Show service logs", actionLogs},
	{"Set sponsor tag", actionSetTag},
	{"Remove sponsor tag", actionClearTag},
	{"Uninstall", actionUninstall},
	{"Quit", actionQuit},
}

// Model is the bubbletea model for the operator menu.
type Model struct {
	ctl      *lifecycle.Controller
	reporter *status.Reporter
	sup      lifecycle.Supervisor
	unitName string

	// locked runs a mutating action under the shared operation lock.
	// The menu must hold the same lock as the scriptable commands so a
	// concurrent mtpulse invocation cannot interleave systemd and
	// filesystem changes with a menu session.
	locked func(func() error) error

	step   step
	cursor int

	portInput textinput.Model
	tagInput  textinput.Model
	spinner   spinner.Model

	// reuseBinary is the pending answer on the reuse-or-rebuild screen.
	reuseBinary bool

	// pendingTag is held across the confirmation screen.
	pendingTag string

	inputErr string
	result   string
	err      error

	width  int
	height int
}

// New returns the menu model. locked wraps mutating actions in the
// operation lock; nil runs them unguarded.
func New(ctl *lifecycle.Controller, reporter *status.Reporter, sup lifecycle.Supervisor, unitName string, locked func(func() error) error) *Model {
	pi := textinput.New()
	pi.Placeholder = "443"
	pi.CharLimit = 5
	pi.Width = 8

	ti := textinput.New()
	ti.Placeholder = "32 hex characters"
	ti.CharLimit = 32
	ti.Width = 36

	s := spinner.New()
	s.Spinner = spinner.Dot

	return &Model{
		ctl:       ctl,
		reporter:  reporter,
		sup:       sup,
		unitName:  unitName,
		locked:    locked,
		portInput: pi,
		tagInput:  ti,
		spinner:   s,
	}
}

// Run launches the interactive menu and blocks until the operator quits.
func Run(ctl *lifecycle.Controller, reporter *status.Reporter, sup lifecycle.Supervisor, unitName string, locked func(func() error) error) error {
	p := tea.NewProgram(New(ctl, reporter, sup, unitName, locked), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running menu: %w", err)
	}
	return nil
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// installDoneMsg is sent when the install flow completes.
type installDoneMsg struct {
	result *lifecycle.InstallResult
	err    error
}

// opDoneMsg is sent when a one-shot action completes.
type opDoneMsg struct {
	output string
	err    error
}

// tagDoneMsg is sent when a tag update completes.
type tagDoneMsg struct {
	args argv.ArgVector
	err  error
}

func (m *Model) withLock(fn func() error) error {
	if m.locked == nil {
		return fn()
	}
	return m.locked(fn)
}

func (m *Model) runInstall(port int, reuse bool) tea.Cmd {
	return func() tea.Msg {
		var result *lifecycle.InstallResult
		err := m.withLock(func() error {
			var installErr error
			result, installErr = m.ctl.Install(context.Background(), lifecycle.InstallRequest{
				Port:        port,
				ReuseBinary: reuse,
			})
			return installErr
		})
		return installDoneMsg{result: result, err: err}
	}
}

func (m *Model) runTag(tag string, confirmed bool) tea.Cmd {
	return func() tea.Msg {
		var args argv.ArgVector
		err := m.withLock(func() error {
			var tagErr error
			args, tagErr = m.ctl.SetTag(context.Background(), tag, confirmed)
			return tagErr
		})
		return tagDoneMsg{args: args, err: err}
	}
}

func (m *Model) runUninstall() tea.Cmd {
	return func() tea.Msg {
		var report lifecycle.UninstallReport
		if err := m.withLock(func() error {
			report = m.ctl.Uninstall(context.Background())
			return nil
		}); err != nil {
			return opDoneMsg{err: err}
		}
		var b strings.Builder
		for _, s := range report.Steps {
			if s.Err != nil {
				fmt.Fprintf(&b, "✗ %s: %v\n", s.Name, s.Err)
			} else {
				fmt.Fprintf(&b, "✓ %s\n", s.Name)
			}
		}
		if n := report.Failed(); n > 0 {
			fmt.Fprintf(&b, "\n%d step(s) failed; re-run uninstall to retry.", n)
		} else {
			b.WriteString("\nProxy fully removed.")
		}
		return opDoneMsg{output: b.String()}
	}
}

func (m *Model) runStatus() tea.Cmd {
	return func() tea.Msg {
		view, err := m.reporter.Report(context.Background())
		if err != nil {
			return opDoneMsg{err: err}
		}
		return opDoneMsg{output: renderStatus(view)}
	}
}

func (m *Model) runService(action menuAction) tea.Cmd {
	return func() tea.Msg {
		var err error
		var output string
		switch action {
		case actionStart:
			err = m.sup.Start(m.unitName)
			output = "Service started."
		case actionStop:
			err = m.sup.Stop(m.unitName)
			output = "Service stopped."
		case actionRestart:
			err = m.sup.Restart(m.unitName)
			output = "Service restarted."
		case actionLogs:
			output, err = m.sup.Logs(m.unitName, 30)
		}
		return opDoneMsg{output: output, err: err}
	}
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.step {
		case stepMenu:
			return m.handleMenuKey(msg)
		case stepPort:
			return m.handlePortKey(msg)
		case stepReuseBinary:
			return m.handleReuseKey(msg)
		case stepTag:
			return m.handleTagKey(msg)
		case stepTagConfirm:
			return m.handleTagConfirmKey(msg)
		case stepUninstallConfirm:
			return m.handleUninstallConfirmKey(msg)
		case stepResult:
			if msg.Type == tea.KeyEnter || msg.Type == tea.KeyEsc || msg.String() == "q" {
				m.step = stepMenu
				m.result = ""
				m.err = nil
			}
		}

	case installDoneMsg:
		m.step = stepResult
		m.err = msg.err
		if msg.err == nil {
			m.result = renderInstallResult(msg.result)
		} else {
			var buildErr *buildtool.BuildError
			if errors.As(msg.err, &buildErr) {
				m.result = tailLines(buildErr.Log, 15)
			}
		}

	case tagDoneMsg:
		if errors.Is(msg.err, lifecycle.ErrConfirmationRequired) {
			m.step = stepTagConfirm
			return m, nil
		}
		m.step = stepResult
		m.err = msg.err
		if msg.err == nil {
			if msg.args.Tag == "" {
				m.result = "Sponsor tag removed; service restarted."
			} else {
				m.result = "Sponsor tag set to " + msg.args.Tag + "; service restarted."
			}
		}

	case opDoneMsg:
		m.step = stepResult
		m.result = msg.output
		m.err = msg.err

	case spinner.TickMsg:
		if m.step == stepInstalling || m.step == stepWorking {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(menuItems)-1 {
			m.cursor++
		}
	case "enter":
		return m.dispatch(menuItems[m.cursor].action)
	}
	return m, nil
}

func (m *Model) dispatch(action menuAction) (tea.Model, tea.Cmd) {
	switch action {
	case actionInstall:
		m.inputErr = ""
		m.portInput.SetValue("")
		m.portInput.Focus()
		m.step = stepPort
		return m, textinput.Blink
	case actionStatus:
		m.step = stepWorking
		return m, tea.Batch(m.spinner.Tick, m.runStatus())
	case actionStart, actionStop, actionRestart, actionLogs:
		m.step = stepWorking
		return m, tea.Batch(m.spinner.Tick, m.runService(action))
	case actionSetTag:
		m.inputErr = ""
		m.tagInput.SetValue("")
		m.tagInput.Focus()
		m.step = stepTag
		return m, textinput.Blink
	case actionClearTag:
		m.pendingTag = ""
		m.step = stepWorking
		return m, tea.Batch(m.spinner.Tick, m.runTag("", false))
	case actionUninstall:
		m.step = stepUninstallConfirm
		return m, nil
	case actionQuit:
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handlePortKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.step = stepMenu
		return m, nil
	case tea.KeyEnter:
		port, err := strconv.Atoi(strings.TrimSpace(m.portInput.Value()))
		if err != nil || !argv.ValidPort(port) {
			// Invalid input never advances; the operator retries.
			m.inputErr = fmt.Sprintf("%q is not a port between 1 and 65535", m.portInput.Value())
			return m, nil
		}
		m.inputErr = ""
		if m.ctl.BinaryInstalled() {
			m.step = stepReuseBinary
			m.reuseBinary = true
			return m, nil
		}
		return m.startInstall(port, false)
	}

	var cmd tea.Cmd
	m.portInput, cmd = m.portInput.Update(msg)
	return m, cmd
}

func (m *Model) handleReuseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.step = stepPort
		return m, textinput.Blink
	case "left", "right", "tab", "h", "l":
		m.reuseBinary = !m.reuseBinary
	case "enter":
		port, _ := strconv.Atoi(strings.TrimSpace(m.portInput.Value()))
		return m.startInstall(port, m.reuseBinary)
	}
	return m, nil
}

func (m *Model) startInstall(port int, reuse bool) (tea.Model, tea.Cmd) {
	m.step = stepInstalling
	return m, tea.Batch(m.spinner.Tick, m.runInstall(port, reuse))
}

func (m *Model) handleTagKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.step = stepMenu
		return m, nil
	case tea.KeyEnter:
		tag := strings.ToLower(strings.TrimSpace(m.tagInput.Value()))
		if !argv.ValidHex32(tag) {
			m.inputErr = "tag must be exactly 32 hex characters"
			return m, nil
		}
		m.inputErr = ""
		m.pendingTag = tag
		m.step = stepWorking
		return m, tea.Batch(m.spinner.Tick, m.runTag(tag, false))
	}

	var cmd tea.Cmd
	m.tagInput, cmd = m.tagInput.Update(msg)
	return m, cmd
}

func (m *Model) handleTagConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.step = stepWorking
		return m, tea.Batch(m.spinner.Tick, m.runTag(m.pendingTag, true))
	case "n", "N", "esc", "enter":
		m.step = stepMenu
	}
	return m, nil
}

func (m *Model) handleUninstallConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.step = stepWorking
		return m, tea.Batch(m.spinner.Tick, m.runUninstall())
	case "n", "N", "esc", "enter":
		m.step = stepMenu
	}
	return m, nil
}
