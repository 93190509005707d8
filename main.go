package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/openclaw/qrgen/api"
	"github.com/openclaw/qrgen/config"
	"github.com/openclaw/qrgen/output"
	"github.com/openclaw/qrgen/qr"
)

var version = "v1.0.0"

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

// generateOptions holds the generate command's flags.
type generateOptions struct {
	configPath string
	output     string
	format     string
	level      string
	boxSize    int
	border     int
	version    int
	fg         string
	bg         string
	terminal   bool
	inverse    bool
}

func newRootCmd(stdin io.Reader, stdout io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:          "qrgen",
		Short:        "Generate QR code images",
		SilenceUsage: true,
	}
	root.SetIn(stdin)
	root.SetOut(stdout)

	// --- generate command ----------------------------------------------------
	var opts generateOptions
	genCmd := &cobra.Command{
		Use:   "generate [text]",
		Short: "Generate a QR code and save it to a file",
		Long: "Generate a QR code for the given text, or for standard input when no\n" +
			"text argument is given. The output format follows the file extension.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts, args)
		},
	}
	f := genCmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "config.yaml", "Path to config file")
	f.StringVarP(&opts.output, "output", "o", "qrcode.png", "Output file")
	f.StringVarP(&opts.format, "format", "f", "", "Output format (png, jpeg, gif, bmp, tiff, svg); default from file extension")
	f.StringVarP(&opts.level, "level", "l", "", "Error correction level (L, M, Q, H)")
	f.IntVar(&opts.boxSize, "box-size", 0, "Pixels per module")
	f.IntVar(&opts.border, "border", 0, "Quiet zone width in modules")
	f.IntVar(&opts.version, "version", 0, "Force a symbol version (1-40); 0 picks the smallest")
	f.StringVar(&opts.fg, "fg", "", "Foreground color, e.g. #000000")
	f.StringVar(&opts.bg, "bg", "", "Background color, e.g. #ffffff")
	f.BoolVarP(&opts.terminal, "terminal", "t", false, "Print the code to the terminal instead of saving")
	f.BoolVar(&opts.inverse, "inverse", false, "Invert terminal output for light-on-dark terminals")
	root.AddCommand(genCmd)

	// --- serve command -------------------------------------------------------
	var configPath string
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the QR code HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	}
	serveCmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to config file")
	root.AddCommand(serveCmd)

	// --- version command -----------------------------------------------------
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "qrgen %s\n", version)
		},
	})

	return root
}

// newLogger builds the process logger for the configured level.
func newLogger(level string, w io.Writer) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

// runGenerate builds a request from config defaults and the flags that were
// set explicitly, then saves or prints the result.
func runGenerate(cmd *cobra.Command, opts generateOptions, args []string) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := newLogger(cfg.LogLevel, cmd.ErrOrStderr())

	text, err := inputText(cmd, args)
	if err != nil {
		return err
	}

	gen := qr.NewGenerator(cfg.QRDefaults(), log)
	req := gen.Request(text)
	flags := cmd.Flags()
	if flags.Changed("level") {
		if req.Level, err = qr.ParseLevel(opts.level); err != nil {
			return err
		}
	}
	if flags.Changed("box-size") {
		req.BoxSize = opts.boxSize
	}
	if flags.Changed("border") {
		req.Border = opts.border
	}
	req.Version = opts.version
	if opts.fg != "" {
		if req.Foreground, err = qr.ParseColor(opts.fg); err != nil {
			return err
		}
	}
	if opts.bg != "" {
		if req.Background, err = qr.ParseColor(opts.bg); err != nil {
			return err
		}
	}

	if opts.terminal {
		m, err := qr.Encode(req)
		if err != nil {
			return err
		}
		text, err := output.Terminal(m, req.Border, opts.inverse)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), text)
		return nil
	}

	img, err := gen.Generate(req)
	if err != nil {
		return err
	}

	format, err := outputFormat(opts, cfg)
	if err != nil {
		return err
	}
	if err := output.SaveAs(opts.output, img, format); err != nil {
		return err
	}
	log.Info("saved qr code", "path", opts.output, "format", format, "width", img.Width, "height", img.Height, "version", img.Matrix.Version)
	return nil
}

// outputFormat prefers the --format flag, then the output file extension,
// then the configured default.
func outputFormat(opts generateOptions, cfg *config.Config) (output.Format, error) {
	if opts.format != "" {
		return output.ParseFormat(opts.format)
	}
	if f, err := output.FormatFromPath(opts.output); err == nil {
		return f, nil
	}
	return cfg.Format(), nil
}

func inputText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	data, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), qr.MaxTextLength*4+1))
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

// runServe is the HTTP service entrypoint that wires all components together.
func runServe(configPath string) error {
	// 1. Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Setup logger
	log := newLogger(cfg.LogLevel, os.Stdout)
	slog.SetDefault(log)

	log.Info("starting qrgen", "version", version, "port", cfg.Server.Port)

	// 3. Start HTTP server
	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: api.NewRouter(&api.Server{
			Generator:    qr.NewGenerator(cfg.QRDefaults(), log),
			Format:       cfg.Format(),
			MaxBodyBytes: cfg.Server.MaxBodyBytes,
			Log:          log,
			Version:      version,
			StartTime:    time.Now(),
		}),
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
		IdleTimeout:  cfg.Server.IdleTimeout.Duration,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// 4. Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("HTTP server: %w", err)
	}

	log.Info("shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	log.Info("goodbye")
	return nil
}
