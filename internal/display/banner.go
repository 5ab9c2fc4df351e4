package display

import (
	"fmt"
	"os"

	"github.com/trungnx2605/webimage/internal/term"
)

// PrintBanner prints the ASCII art banner; uses Magenta if colors are enabled.
func PrintBanner() {
	if term.Enabled() {
		fmt.Fprint(os.Stdout, term.Magenta)
	}
	fmt.Fprint(os.Stdout, ` __        __   _     ___
 \ \      / /__| |__ |_ _|_ __ ___   __ _  __ _  ___
  \ \ /\ / / _ \ '_ \ | || '_ ` + "`" + ` _ \ / _` + "`" + ` |/ _` + "`" + ` |/ _ \
   \ V  V /  __/ |_) || || | | | | | (_| | (_| |  __/
    \_/\_/ \___|_.__/|___|_| |_| |_|\__,_|\__, |\___|
                                          |___/
`)
	if term.Enabled() {
		fmt.Fprintln(os.Stdout, term.NC)
	}
}
