// Package argv models the proxy's command-line invocation as a typed
// flag vector. The serialized form is the single source of truth for
// the running configuration: it is embedded in the service descriptor,
// parsed back out for incremental updates, and re-serialized after
// mutation. Serialization is deterministic so a no-op round trip is
// byte-identical.
package argv

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformed is returned by Parse for an invocation line that is
// missing a mandatory flag or carries an invalid value.
var ErrMalformed = errors.New("malformed invocation line")

// Proxy flag names. The proxy binary is an opaque collaborator; these
// names are its stable flag surface.
const (
	flagUser       = "-u"
	flagStatPort   = "-p"
	flagPort       = "-H"
	flagSecret     = "-S"
	flagTag        = "-P"
	flagWorkers    = "-M"
	flagSecretFile = "--aux-secret"
	flagConfigFile = "--conf"
)

// ArgVector is one proxy invocation in structured form. Tag is the
// only optional field; an empty Tag means the invocation carries no
// sponsor tag flag at all.
type ArgVector struct {
	Binary     string // absolute path to the proxy executable
	User       string // run-as identity the proxy drops to
	StatPort   int    // internal stats port
	Port       int    // public listen port, 1-65535
	Secret     string // 32 lowercase hex characters
	Tag        string // sponsor tag, "" or 32 lowercase hex characters
	Workers    int    // worker process count
	SecretFile string // path to the downloaded proxy secret blob
	ConfigFile string // path to the downloaded proxy config blob
}

// Serialize renders the invocation line. Flag order is fixed, so two
// calls on equal vectors produce byte-identical output and an
// unchanged configuration never shows up as a descriptor diff.
func (v ArgVector) Serialize() string {
	parts := []string{
		v.Binary,
		flagUser, v.User,
		flagStatPort, strconv.Itoa(v.StatPort),
		flagPort, strconv.Itoa(v.Port),
		flagSecret, v.Secret,
	}
	if v.Tag != "" {
		parts = append(parts, flagTag, v.Tag)
	}
	parts = append(parts,
		flagWorkers, strconv.Itoa(v.Workers),
		flagSecretFile, v.SecretFile,
		flagConfigFile, v.ConfigFile,
	)
	return strings.Join(parts, " ")
}

// Parse recovers an ArgVector from an invocation line. Values are
// extracted by flag name, not position, so a line written by an older
// build with different flag order still parses. A missing sponsor tag
// yields Tag == ""; any missing mandatory flag is ErrMalformed.
func Parse(line string) (ArgVector, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return ArgVector{}, fmt.Errorf("%w: too few tokens", ErrMalformed)
	}

	v := ArgVector{Binary: fields[0]}

	values := make(map[string]string)
	for i := 1; i < len(fields); i++ {
		flag := fields[i]
		if !strings.HasPrefix(flag, "-") {
			return ArgVector{}, fmt.Errorf("%w: unexpected token %q", ErrMalformed, flag)
		}
		if i+1 >= len(fields) {
			return ArgVector{}, fmt.Errorf("%w: flag %s has no value", ErrMalformed, flag)
		}
		values[flag] = fields[i+1]
		i++
	}

	var err error
	if v.User, err = stringValue(values, flagUser); err != nil {
		return ArgVector{}, err
	}
	if v.StatPort, err = intValue(values, flagStatPort); err != nil {
		return ArgVector{}, err
	}
	if v.Port, err = intValue(values, flagPort); err != nil {
		return ArgVector{}, err
	}
	if v.Secret, err = stringValue(values, flagSecret); err != nil {
		return ArgVector{}, err
	}
	if v.Workers, err = intValue(values, flagWorkers); err != nil {
		return ArgVector{}, err
	}
	if v.SecretFile, err = stringValue(values, flagSecretFile); err != nil {
		return ArgVector{}, err
	}
	if v.ConfigFile, err = stringValue(values, flagConfigFile); err != nil {
		return ArgVector{}, err
	}
	v.Tag = values[flagTag] // optional

	if err := v.Validate(); err != nil {
		return ArgVector{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return v, nil
}

func stringValue(values map[string]string, flag string) (string, error) {
	val, ok := values[flag]
	if !ok {
		return "", fmt.Errorf("%w: missing mandatory flag %s", ErrMalformed, flag)
	}
	return val, nil
}

func intValue(values map[string]string, flag string) (int, error) {
	val, err := stringValue(values, flag)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%w: flag %s: %q is not an integer", ErrMalformed, flag, val)
	}
	return n, nil
}

// Validate checks the invariants every persisted invocation must hold.
func (v ArgVector) Validate() error {
	if v.Binary == "" {
		return errors.New("binary path is empty")
	}
	if v.User == "" {
		return errors.New("run-as user is empty")
	}
	if !ValidPort(v.Port) {
		return fmt.Errorf("listen port %d out of range 1-65535", v.Port)
	}
	if !ValidPort(v.StatPort) {
		return fmt.Errorf("stats port %d out of range 1-65535", v.StatPort)
	}
	if !ValidHex32(v.Secret) {
		return errors.New("secret is not 32 lowercase hex characters")
	}
	if v.Tag != "" && !ValidHex32(v.Tag) {
		return errors.New("tag is not 32 lowercase hex characters")
	}
	if v.Workers < 1 {
		return fmt.Errorf("worker count %d must be at least 1", v.Workers)
	}
	if v.SecretFile == "" || v.ConfigFile == "" {
		return errors.New("auxiliary file path is empty")
	}
	return nil
}

// ValidPort reports whether p is a usable TCP port.
func ValidPort(p int) bool {
	return p >= 1 && p <= 65535
}

// ValidHex32 reports whether s is exactly 32 lowercase hex characters,
// the encoding of a 16-byte secret or sponsor tag.
func ValidHex32(s string) bool {
	if len(s) != 32 {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
