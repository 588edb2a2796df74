package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	bind        string
	port        int
	prefix      string
	tlsCert     string
	tlsKey      string
	dataDir     string
	localesDir  string
	tableCap    int
	authTimeout time.Duration
	idleTimeout time.Duration
	autoCreate  bool
	profile     bool
	verbose     bool
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "wss"
	}
	return "ws"
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("PLAYPALACE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "playpalace",
		Short:         "An audio-first multi-game server for blind-accessible clients.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return ServePage(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: PLAYPALACE_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 8105, "port to listen on (env: PLAYPALACE_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: PLAYPALACE_PREFIX)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: PLAYPALACE_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: PLAYPALACE_TLS_KEY)")
	fs.StringVar(&cfg.dataDir, "data-dir", "data", "directory for accounts and saved tables (env: PLAYPALACE_DATA_DIR)")
	fs.StringVar(&cfg.localesDir, "locales-dir", "", "directory of extra locale catalogs (env: PLAYPALACE_LOCALES_DIR)")
	fs.IntVar(&cfg.tableCap, "table-cap", 0, "maximum number of live tables, 0 for unlimited (env: PLAYPALACE_TABLE_CAP)")
	fs.DurationVar(&cfg.authTimeout, "auth-timeout", 30*time.Second, "time allowed for the authorize handshake (env: PLAYPALACE_AUTH_TIMEOUT)")
	fs.DurationVar(&cfg.idleTimeout, "idle-timeout", 10*time.Minute, "time before silent connections are dropped (env: PLAYPALACE_IDLE_TIMEOUT)")
	fs.BoolVar(&cfg.autoCreate, "auto-create-accounts", true, "register unknown usernames on first login (env: PLAYPALACE_AUTO_CREATE_ACCOUNTS)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: PLAYPALACE_PROFILE)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: PLAYPALACE_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.AddCommand(newListGamesCmd())
	cmd.AddCommand(newShowOptionsCmd())
	cmd.AddCommand(newSimulateCmd())

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("playpalace v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
