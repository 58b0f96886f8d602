package cli

import (
	"github.com/kvesta/navi/config"

	"github.com/spf13/cobra"
)

func (a *app) findCmd() *cobra.Command {
	var (
		pluginOutput string
		queryFormat  string
		querySave    string
	)

	findCmd := &cobra.Command{
		Use:   "find",
		Short: "Discover what is in Tenable.io",
		Long: `Examples:
  # Assets where plugin 19506 fired
  $ navi find plugin 19506

  # Narrow by text in the plugin output
  $ navi find plugin 19506 --output "Credentialed checks : yes"

  # Assets affected by a CVE
  $ navi find cve CVE-2021-44228

  # Assets that took longer than 30 minutes to scan
  $ navi find scantime 30

  # Raw SQL against the local database
  $ navi find query "SELECT plugin_id, count(*) FROM vulns GROUP BY plugin_id" --format json`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
	}

	pluginCmd := &cobra.Command{
		Use:   "plugin <plugin_id>",
		Short: "Find Assets where a plugin fired",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.finder.Plugin(config.Ctx, args[0], pluginOutput)
		},
	}

	cveCmd := &cobra.Command{
		Use:   "cve <cve_id>",
		Short: "Find Assets that have a given CVE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.finder.CVE(config.Ctx, args[0])
		},
	}

	exploitCmd := &cobra.Command{
		Use:   "exploit",
		Short: "Find Assets that have an exploitable vuln",
		Args:  NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.finder.Exploit(config.Ctx)
		},
	}

	outputCmd := &cobra.Command{
		Use:   "output <text>",
		Short: "Find Assets where Text was found in the output of any plugin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.finder.Output(config.Ctx, args[0])
		},
	}

	dockerCmd := &cobra.Command{
		Use:   "docker",
		Short: "Find Docker Hosts using plugin 93561",
		Args:  NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.finder.Docker(config.Ctx)
		},
	}

	webappCmd := &cobra.Command{
		Use:   "webapp",
		Short: "Find Potential Web Apps using plugin 12053 and 22964",
		Args:  NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.finder.WebApp(config.Ctx)
		},
	}

	credsCmd := &cobra.Command{
		Use:   "creds",
		Short: "Find Assets with Credential Issues using plugin 104410",
		Args:  NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.finder.Creds(config.Ctx)
		},
	}

	scantimeCmd := &cobra.Command{
		Use:   "scantime <minutes>",
		Short: "Find Assets that took longer than the given minutes to scan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.finder.ScanTime(config.Ctx, args[0])
		},
	}

	ghostCmd := &cobra.Command{
		Use:   "ghost",
		Short: "Find Assets that have not been scanned in any Cloud",
		Args:  NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.finder.Ghost(config.Ctx)
		},
	}

	portCmd := &cobra.Command{
		Use:   "port <port>",
		Short: "Find Assets with a given port open",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.finder.Port(config.Ctx, args[0])
		},
	}

	queryCmd := &cobra.Command{
		Use:   "query <statement>",
		Short: "Find Assets through a SQL query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.finder.Query(config.Ctx, args[0], queryFormat, querySave)
		},
	}

	nameCmd := &cobra.Command{
		Use:   "name <plugin_name>",
		Short: "Find Assets with a given plugin name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.finder.Name(config.Ctx, args[0])
		},
	}

	pluginCmd.Flags().StringVar(&pluginOutput, "output", "", "Find Assets based on the text in the output")
	queryCmd.Flags().StringVarP(&queryFormat, "format", "f", "table", "output format: table, json or yaml")
	queryCmd.Flags().StringVarP(&querySave, "save", "s", "", "save the result to a file instead of printing it")

	findCmd.AddCommand(pluginCmd)
	findCmd.AddCommand(cveCmd)
	findCmd.AddCommand(exploitCmd)
	findCmd.AddCommand(outputCmd)
	findCmd.AddCommand(dockerCmd)
	findCmd.AddCommand(webappCmd)
	findCmd.AddCommand(credsCmd)
	findCmd.AddCommand(scantimeCmd)
	findCmd.AddCommand(ghostCmd)
	findCmd.AddCommand(portCmd)
	findCmd.AddCommand(queryCmd)
	findCmd.AddCommand(nameCmd)

	return findCmd
}
