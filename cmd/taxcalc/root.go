package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sataxfile/taxcalc/internal/config"
	"github.com/sataxfile/taxcalc/internal/service"
)

// app carries what every subcommand needs once the root pre-run has loaded config.
type app struct {
	v          *viper.Viper
	configFile string
	cfg        *config.AppConfig
	logger     *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.NewViper()}

	root := &cobra.Command{
		Use:           "taxcalc",
		Short:         "South African personal income tax calculator",
		Long:          "Calculates personal income tax, rebates, deductions and refunds for a South African year of assessment.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd.ErrOrStderr())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "config file (yaml, json or toml)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text or json")
	_ = a.v.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = a.v.BindPFlag("log.format", pf.Lookup("log-format"))

	root.AddCommand(
		newCalculateCmd(a),
		newValidateCmd(a),
		newTablesCmd(a),
		newServeCmd(a),
		newInitCmd(a),
	)
	return root
}

func (a *app) load(logOut io.Writer) error {
	cfg, err := config.LoadApp(a.v, a.configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = newLogger(cfg.Log, logOut)
	slog.SetDefault(a.logger)
	return nil
}

// service loads the configured tax tables and builds the tax service on them.
func (a *app) service() (service.TaxService, error) {
	tables, err := a.cfg.LoadTables()
	if err != nil {
		return nil, fmt.Errorf("loading tax tables: %w", err)
	}
	return service.NewTaxService(tables, a.cfg.Tax.Strict, a.logger), nil
}

func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
