// Package unit renders, parses, and persists the systemd unit that
// supervises the proxy process. The unit text is canonical: everything
// except the ExecStart invocation line is fixed supervision metadata,
// and the invocation line is owned by the argv codec.
package unit

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Erfan-XRay/MTPulse/internal/argv"
)

// ErrNoExecStart is returned when a descriptor has no parseable
// ExecStart line.
var ErrNoExecStart = errors.New("descriptor has no ExecStart line")

const execStartPrefix = "ExecStart="

const descriptorTemplate = `[Unit]
Description=MTProto proxy managed by mtpulse
After=network-online.target
Wants=network-online.target

[Service]
Type=simple
WorkingDirectory=%s
ExecStart=%s
Restart=always
RestartSec=5
LimitNOFILE=51200
User=root

[Install]
WantedBy=multi-user.target
`

// Render produces the full descriptor text for an invocation. Output
// is deterministic: equal inputs yield byte-identical descriptors.
func Render(workDir string, args argv.ArgVector) string {
	return fmt.Sprintf(descriptorTemplate, workDir, args.Serialize())
}

// ParseDescriptor recovers the ArgVector from a descriptor's ExecStart
// line. The rest of the unit text is supervision metadata this tool
// regenerates rather than reads.
func ParseDescriptor(text string) (argv.ArgVector, error) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, execStartPrefix) {
			continue
		}
		return argv.Parse(strings.TrimPrefix(line, execStartPrefix))
	}
	return argv.ArgVector{}, ErrNoExecStart
}
