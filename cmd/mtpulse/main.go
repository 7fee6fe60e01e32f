// mtpulse is the MTProto proxy lifecycle manager CLI.
package main

import (
	"os"

	"github.com/Erfan-XRay/MTPulse/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
