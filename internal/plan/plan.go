// Package plan derives desired proxy invocations from operator intent.
// Both entry points are pure aside from secret generation: they take
// the prior state and the requested change and return the complete
// next ArgVector, leaving persistence and service control to the
// lifecycle controller.
package plan

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/Erfan-XRay/MTPulse/internal/argv"
)

var (
	// ErrNoExistingConfiguration is returned by SetTag when no prior
	// invocation exists to carry fields over from.
	ErrNoExistingConfiguration = errors.New("no existing proxy configuration")

	// ErrInvalidPort is returned by Install for a port outside 1-65535.
	ErrInvalidPort = errors.New("port must be between 1 and 65535")

	// ErrInvalidTag is returned by SetTag for a tag that is neither
	// empty nor 32 lowercase hex characters.
	ErrInvalidTag = errors.New("tag must be empty or exactly 32 lowercase hex characters")
)

// Defaults carries the fixed fields of a fresh invocation. The
// lifecycle controller populates it from the tool configuration.
type Defaults struct {
	Binary     string
	RunUser    string
	StatPort   int
	Workers    int
	SecretFile string
	ConfigFile string
}

// Install plans a fresh invocation: the operator-chosen listen port,
// a newly generated secret, no sponsor tag, and the fixed defaults.
// Install never consults prior state; reinstalling recreates the
// configuration from scratch rather than merging.
func Install(d Defaults, port int) (argv.ArgVector, error) {
	if !argv.ValidPort(port) {
		return argv.ArgVector{}, ErrInvalidPort
	}
	secret, err := GenerateSecret()
	if err != nil {
		return argv.ArgVector{}, err
	}
	return argv.ArgVector{
		Binary:     d.Binary,
		User:       d.RunUser,
		StatPort:   d.StatPort,
		Port:       port,
		Secret:     secret,
		Workers:    d.Workers,
		SecretFile: d.SecretFile,
		ConfigFile: d.ConfigFile,
	}, nil
}

// SetTag plans a tag change over an existing invocation. An empty tag
// removes the sponsor tag; every other field is carried over
// unchanged. Whether the operator confirmed replacing an existing tag
// is the caller's concern, not this function's.
func SetTag(existing *argv.ArgVector, tag string) (argv.ArgVector, error) {
	if existing == nil {
		return argv.ArgVector{}, ErrNoExistingConfiguration
	}
	if tag != "" && !argv.ValidHex32(tag) {
		return argv.ArgVector{}, ErrInvalidTag
	}
	next := *existing
	next.Tag = tag
	return next, nil
}

// GenerateSecret returns 16 cryptographically random bytes hex-encoded
// to 32 lowercase characters.
func GenerateSecret() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("generating secret: %w", err)
	}
	return hex.EncodeToString(b[:]), nil
}
