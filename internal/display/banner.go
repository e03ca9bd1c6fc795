package display

import (
	"fmt"
	"os"

	"github.com/astromoss/uvotbatch/internal/logging"
)

// PrintBanner prints the ASCII art banner; uses Magenta if colors are enabled.
func PrintBanner() {
	if logging.Magenta != "" {
		fmt.Fprint(os.Stdout, "\033[1;95m")
	}
	fmt.Fprint(os.Stdout, ` _   ___     _____ _____ ____        _       _
| | | \ \   / / _ \_   _| __ )  __ _| |_ ___| |__
| | | |\ \ / / | | || | |  _ \ / _`+"`"+` | __/ __| '_ \
| |_| | \ V /| |_| || | | |_) | (_| | || (__| | | |
 \___/   \_/  \___/ |_| |____/ \__,_|\__\___|_| |_|
`)
	if logging.Magenta != "" {
		fmt.Fprintln(os.Stdout, logging.NC)
	}
}
