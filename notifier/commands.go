package notifier

import (
	"os/exec"
	"strings"

	"github.com/l1na-forever/mpris-notifier/logger"
)

// runCommands executes the configured hook commands after a notification is
// sent. Failures are logged and never propagate to the dispatch loop.
func runCommands(commands [][]string) {
	for _, argv := range commands {
		if len(argv) == 0 {
			continue
		}
		cmd := exec.Command(argv[0], argv[1:]...)
		if out, err := cmd.CombinedOutput(); err != nil {
			logger.Warn("[notifier] command %s failed: %v (%s)", argv[0], err, strings.TrimSpace(string(out)))
		}
	}
}
