package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	_ "github.com/c2fo/blobfs/backend/all" // register every bundled driver
	"github.com/c2fo/blobfs/disk"
	"github.com/c2fo/blobfs/telemetry"
)

// Version is reported by --version and attached to exported traces.
var Version = "dev"

const defaultConfigName = ".blobfs.yaml"

// app holds what the commands of one invocation share.
type app struct {
	cfgFile       string
	diskName      string
	traceEndpoint string
	verbose       bool

	manager  *disk.Manager
	logger   *slog.Logger
	shutdown func(context.Context) error

	out    io.Writer
	errOut io.Writer
}

// NewRootCommand builds the blobfs command tree. A nil manager is loaded from the configuration file before any
// command runs.
func NewRootCommand(manager *disk.Manager) *cobra.Command {
	a := &app{manager: manager}

	root := &cobra.Command{
		Use:   "blobfs",
		Short: "Work with files on any configured disk",
		Long: `blobfs reads, writes, lists and signs files on the disks configured in ~/.blobfs.yaml.

Locations are written as disk:path. Without a disk prefix the default disk is used:

  blobfs ls azure:reports
  blobfs cp azure:reports/summary.txt scratch:summary.txt
  blobfs temp-url --expires 15m azure:reports/summary.txt`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.out = cmd.OutOrStdout()
			a.errOut = cmd.ErrOrStderr()
			return a.setup(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if a.manager != nil {
				err = a.manager.Close()
			}
			if a.shutdown != nil {
				err = errors.Join(err, a.shutdown(cmd.Context()))
			}
			return err
		},
	}

	a.bindFlags(root.PersistentFlags())
	root.AddCommand(
		newDisksCommand(a),
		newLsCommand(a),
		newCatCommand(a),
		newPutCommand(a),
		newCpCommand(a),
		newMvCommand(a),
		newRmCommand(a),
		newRmdirCommand(a),
		newMkdirCommand(a),
		newStatCommand(a),
		newURLCommand(a),
		newTempURLCommand(a),
		newUploadURLCommand(a),
	)
	return root
}

func (a *app) bindFlags(flags *pflag.FlagSet) {
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/"+defaultConfigName+")")
	flags.StringVarP(&a.diskName, "disk", "d", "", "disk used for locations without a disk prefix (default from config)")
	flags.StringVar(&a.traceEndpoint, "trace-endpoint", "", "OTLP/HTTP endpoint receiving traces of storage calls")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log storage calls to stderr")
}

// Execute runs the command tree against os.Args and exits non-zero on failure.
func Execute() {
	root := NewRootCommand(nil)
	if err := root.ExecuteContext(context.Background()); err != nil {
		_, _ = color.New(color.FgRed).Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (a *app) setup(ctx context.Context) error {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: level}))

	var provider *telemetry.Provider
	if a.traceEndpoint != "" {
		var err error
		provider, err = telemetry.NewProvider(ctx, telemetry.ProviderConfig{
			ServiceName:    "blobfs",
			ServiceVersion: Version,
			Endpoint:       a.traceEndpoint,
		})
		if err != nil {
			return err
		}
		provider.SetGlobal()
		a.shutdown = provider.Shutdown
	}

	if a.manager != nil {
		return nil
	}

	v, err := readConfig(a.cfgFile)
	if err != nil {
		return err
	}
	cfg, err := disk.LoadConfig(v)
	if err != nil {
		return err
	}

	opts := []disk.ManagerOption{disk.WithLogger(a.logger)}
	if provider != nil {
		opts = append(opts, disk.WithDecorator(provider.Decorate))
	}
	a.manager = disk.NewManager(cfg, opts...)
	return nil
}

// readConfig reads cfgFile, or ~/.blobfs.yaml when none is given. Environment variables prefixed with BLOBFS_
// override file values.
func readConfig(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return nil, fmt.Errorf("locating home directory: %w", err)
		}
		v.SetConfigFile(filepath.Join(home, defaultConfigName))
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix("blobfs")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("no configuration at %s: %w", v.ConfigFileUsed(), err)
		}
		return nil, fmt.Errorf("reading %s: %w", v.ConfigFileUsed(), err)
	}
	return v, nil
}

// open resolves the disk called name, falling back to the --disk flag and then the configured default.
func (a *app) open(name string) (*disk.Disk, error) {
	if name == "" {
		name = a.diskName
	}
	if name == "" {
		return a.manager.Default()
	}
	return a.manager.Disk(name)
}
