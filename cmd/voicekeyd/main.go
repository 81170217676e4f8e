// voicekeyd is the dictation daemon's entrypoint: it wires the config
// loader, logger, single-instance guard, and runtime coordinator
// together behind a minimal "run"/"status" command surface.
package main

import "github.com/ihmorol/voicekey/internal/cli"

func main() {
	cli.Execute()
}
