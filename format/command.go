package format

import (
	"fmt"

	"github.com/git-pkgs/jsregistry/pm"
)

// Command renders a generated command line.
func Command(res *pm.CommandResult) string {
	if !res.Success {
		return errorLine(res.Error)
	}
	return fmt.Sprintf("%s %s\n\n$ %s", emoji(res.Registry), res.Message, res.Command)
}
