// Package status derives the proxy's observable state and renders it
// into a connection summary. Everything here is read-only: the view is
// computed from the descriptor and the supervisor, never stored.
package status

import (
	"fmt"
	"net/url"
)

// State is the derived installation state of the managed proxy.
type State string

const (
	// StateNotInstalled means neither binary nor descriptor exists.
	StateNotInstalled State = "not-installed"

	// StateInactive means the proxy is installed but not running.
	StateInactive State = "inactive"

	// StateActive means the supervised service is running.
	StateActive State = "active"
)

// Detect computes the tri-state from binary/descriptor presence and
// the supervisor's activity report.
func Detect(installed, active bool) State {
	switch {
	case !installed:
		return StateNotInstalled
	case active:
		return StateActive
	default:
		return StateInactive
	}
}

// Links are the shareable connection descriptors for one proxy.
type Links struct {
	// TG is the tg:// deep link Telegram clients open directly.
	TG string

	// Web is the https://t.me equivalent for sharing in chats.
	Web string
}

// ShareLinks builds the connection links for a proxy endpoint.
func ShareLinks(addr string, port int, secret string) Links {
	q := url.Values{}
	q.Set("server", addr)
	q.Set("port", fmt.Sprintf("%d", port))
	q.Set("secret", secret)
	encoded := q.Encode()

	return Links{
		TG:  "tg://proxy?" + encoded,
		Web: "https://t.me/proxy?" + encoded,
	}
}

// View is the rendered status of the managed proxy. Port, Secret, Tag,
// Address, and Links are only meaningful when State is StateActive and
// a descriptor was readable.
type View struct {
	State   State
	Enabled bool
	Port    int
	Secret  string
	Tag     string
	Address string
	Links   Links
}
