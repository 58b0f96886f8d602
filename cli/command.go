package cli

import (
	"fmt"
	"os"

	"github.com/kvesta/navi/config"
	"github.com/kvesta/navi/internal/find"
	"github.com/kvesta/navi/pkg/vulndb"
	"github.com/kvesta/navi/pkg/workbench"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const versions = "navi v0.1.0"

type app struct {
	v       *viper.Viper
	cfgFile string

	cfg    *config.Config
	store  *vulndb.Client
	finder *find.Finder
}

func Execute() error {
	rootCmd, a := newRootCmd()
	return a.execute(rootCmd)
}

// execute runs the command tree and closes the database afterwards.
// Post-run hooks are skipped when a command fails.
func (a *app) execute(cmd *cobra.Command) error {
	defer func() {
		if err := a.teardown(); err != nil {
			log.Warnf("failed to close %s, error: %v", a.cfg.DB, err)
		}
	}()

	return cmd.Execute()
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{v: config.New()}

	rootCmd := &cobra.Command{
		Use:   "navi [OPTIONS]",
		Short: "Tenable.io vulnerability data from the command line",
		Long: `navi reports on a local cache of Tenable.io vulnerability and asset data.
Settings are read from ~/.navi.yaml and NAVI_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", fmt.Sprintf("config file (default %s)", config.FilePath()))
	rootCmd.PersistentFlags().String("db", config.DefaultDB, "path of the navi database")
	rootCmd.PersistentFlags().Bool("debug", false, "print debug logs")

	_ = a.v.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))
	_ = a.v.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information and quit",
		Args:  NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), versions)
		},
	}

	rootCmd.AddCommand(a.findCmd())
	rootCmd.AddCommand(versionCmd)

	return rootCmd, a
}

// setup loads the configuration and opens the database and the api client
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}

	store, err := vulndb.Open(cfg.DB)
	if err != nil {
		return err
	}
	a.store = store

	access, secret := cfg.AccessKey, cfg.SecretKey
	if access == "" || secret == "" {
		access, secret, err = store.Keys(config.Ctx)
		if err != nil && err != vulndb.ErrNoKeys {
			log.Warnf("failed to read api keys from %s, error: %v", cfg.DB, err)
		}
	}

	a.finder = find.New(store, workbench.New(cfg.URL, access, secret, cfg.Timeout))
	a.finder.Out = cmd.OutOrStdout()

	log.Debugf("using database %s", cfg.DB)

	return nil
}

func (a *app) teardown() error {
	if a.store == nil {
		return nil
	}

	err := a.store.Close()
	a.store = nil

	return err
}
