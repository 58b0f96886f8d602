package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NoArgs rejects positional arguments and points the user at the command's help
func NoArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}

	if cmd.HasSubCommands() {
		return fmt.Errorf("\n%s", strings.TrimRight(cmd.UsageString(), "\n"))
	}

	return fmt.Errorf("%q accepts no argument(s), got %q.\nSee '%s --help'.\n\nUsage:  %s\n\n%s",
		cmd.CommandPath(),
		strings.Join(args, " "),
		cmd.CommandPath(),
		cmd.UseLine(),
		cmd.Short)
}
