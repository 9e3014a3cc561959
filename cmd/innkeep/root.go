package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/innkeep/innkeep/internal/booking"
	"github.com/innkeep/innkeep/internal/config"
	"github.com/innkeep/innkeep/internal/logging"
	"github.com/innkeep/innkeep/internal/output"
	"github.com/innkeep/innkeep/internal/session"
	"github.com/innkeep/innkeep/internal/validate"
	"github.com/innkeep/innkeep/pkg/client"
)

// app holds everything a command needs. It is populated by the root
// command's PersistentPreRunE.
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	reader *bufio.Reader

	colorMode string
	quiet     bool

	cfg     *config.Config
	logger  *slog.Logger
	printer *output.Printer
	store   *session.Store
	api     *client.Client
	svc     *booking.Service

	logFile *os.File
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "innkeep",
		Short: "Terminal client for the reservations API",
		Long: `innkeep searches available rooms, books them and manages your reservations.

Run without arguments to open the interactive view.

Example usage:
  innkeep login                        # Sign in and cache the session
  innkeep rooms --checkin 2025-10-15   # List rooms free from that date
  innkeep reservations list            # Show your reservations
  innkeep reservations cancel <id>     # Cancel one`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd == cmd.Root())
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTUI(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&a.colorMode, "color", "auto", "color output: auto, always, never")
	root.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "only print results and errors")

	root.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return &output.CLIError{
			Summary:    err.Error(),
			Suggestion: fmt.Sprintf("Run '%s --help' for usage", c.CommandPath()),
			ExitCode:   output.ExitUsageError,
		}
	})

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newRegisterCmd(a),
		newWhoamiCmd(a),
		newRoomsCmd(a),
		newReservationsCmd(a),
		newVersionCmd(a),
	)
	return root
}

// setup loads configuration and wires the session, client and service.
// The interactive view owns the terminal, so its logs go to INNKEEP_LOG_FILE
// or nowhere.
func (a *app) setup(interactive bool) error {
	mode, err := output.ParseColorMode(a.colorMode)
	if err != nil {
		return &output.CLIError{Summary: err.Error(), ExitCode: output.ExitUsageError}
	}
	a.printer = output.NewPrinter(output.PrinterOptions{ColorMode: mode, Quiet: a.quiet, Out: a.out, Err: a.errOut})

	cfg, err := config.Load()
	if err != nil {
		return &output.CLIError{
			Summary:    "invalid configuration",
			Detail:     err.Error(),
			Suggestion: "Check INNKEEP_* variables in the environment or .env",
			ExitCode:   output.ExitUsageError,
		}
	}
	a.cfg = cfg

	var logW io.Writer = a.errOut
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		a.logFile = f
		logW = f
	} else if interactive {
		logW = io.Discard
	}
	a.logger = logging.New(cfg.LogLevel, cfg.LogFormat, logW)

	store, err := a.openSession()
	if err != nil {
		return err
	}
	a.store = store

	a.api = client.New(cfg.APIBase, store,
		client.WithTimeout(cfg.RequestTimeout),
		client.WithLogger(a.logger),
		client.WithUserAgent("innkeep/"+version),
	)
	manager := session.NewManager(store, a.api, a.logger)
	a.svc = booking.NewService(a.api, manager, validate.New())

	a.logger.Debug("configuration loaded",
		"api_base", cfg.APIBase,
		"session_file", cfg.SessionFile,
		"authenticated", store.Authenticated(),
	)
	return nil
}

// openSession loads the session file. A corrupt file is discarded with a
// warning rather than blocking every command.
func (a *app) openSession() (*session.Store, error) {
	backend, err := session.NewFileBackend(a.cfg.SessionFile)
	if err != nil {
		return nil, err
	}
	store, err := session.Open(backend)
	if errors.Is(err, session.ErrCorrupt) {
		a.printer.Warning("Session file is unreadable and was reset: %v", err)
		if err := backend.Clear(); err != nil {
			return nil, err
		}
		store, err = session.Open(backend)
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}

func (a *app) printerOrDefault() *output.Printer {
	if a.printer != nil {
		return a.printer
	}
	return output.NewPrinter(output.PrinterOptions{Out: a.out, Err: a.errOut})
}

func (a *app) close() {
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}
