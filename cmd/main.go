package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/akamensky/argparse"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"github.com/luca-patrignani/sequenced-amm/config"
	"github.com/luca-patrignani/sequenced-amm/domain/amm"
	"github.com/luca-patrignani/sequenced-amm/metrics"
	"github.com/luca-patrignani/sequenced-amm/sequencer"
)

type flags struct {
	config       *string
	reserveBase  *int
	reserveQuote *int
	logLevel     *string
	logFile      *string
	metricsAddr  *string
}

func newFlags(parser *argparse.Parser) flags {
	return flags{
		config:       parser.String("c", "config", &argparse.Options{Help: "YAML configuration file"}),
		reserveBase:  parser.Int("", "reserve-base", &argparse.Options{Help: "initial base reserve"}),
		reserveQuote: parser.Int("", "reserve-quote", &argparse.Options{Help: "initial quote reserve"}),
		logLevel:     parser.String("", "log-level", &argparse.Options{Help: "debug, info, warn or error"}),
		logFile:      parser.String("", "log-file", &argparse.Options{Help: "rotating JSON log file"}),
		metricsAddr:  parser.String("", "metrics-addr", &argparse.Options{Help: "serve prometheus metrics on this address"}),
	}
}

// load reads the configuration file if any and applies the flags on top.
func (f flags) load() (config.Config, error) {
	cfg := config.Default()
	if *f.config != "" {
		var err error
		if cfg, err = config.Load(*f.config); err != nil {
			return config.Config{}, err
		}
	}
	if *f.reserveBase < 0 || *f.reserveQuote < 0 {
		return config.Config{}, fmt.Errorf("%w: reserves must not be negative", config.ErrInvalidPool)
	}
	if *f.reserveBase != 0 {
		cfg.ReserveBase = uint64(*f.reserveBase)
	}
	if *f.reserveQuote != 0 {
		cfg.ReserveQuote = uint64(*f.reserveQuote)
	}
	if *f.logLevel != "" {
		cfg.Log.Level = *f.logLevel
	}
	if *f.logFile != "" {
		cfg.Log.File = *f.logFile
	}
	if *f.metricsAddr != "" {
		cfg.Metrics.Address = *f.metricsAddr
	}
	return cfg, cfg.Validate()
}

func main() {
	parser := argparse.NewParser("amm", "Sequenced AMM pool with commit/reveal front-running protection")
	f := newFlags(parser)
	if err := parser.Parse(os.Args); err != nil {
		fmt.Fprint(os.Stderr, parser.Usage(err))
		os.Exit(1)
	}
	cfg, err := f.load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, closer, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closer.Close()

	pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("Sequenced ", pterm.FgDarkGray.ToStyle()),
		putils.LettersFromStringWithStyle("AMM", pterm.FgRed.ToStyle()),
	).Render()

	pool, err := amm.NewPool(cfg.ReserveBase, cfg.ReserveQuote)
	if err != nil {
		logger.Error("failed to create pool", "error", err)
		os.Exit(1)
	}
	m, err := metrics.New()
	if err != nil {
		logger.Error("failed to register metrics", "error", err)
		os.Exit(1)
	}
	seq := sequencer.New(pool, sequencer.WithLogger(logger), sequencer.WithMetrics(m))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if cfg.Metrics.Address != "" {
		srv := serveMetrics(cfg.Metrics.Address, m, logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("failed to stop metrics server", "error", err)
			}
		}()
	}

	sh := &shell{
		seq:     seq,
		metrics: m,
		cfg:     cfg,
		logger:  logger,
		prompt:  promptText,
		out:     ptermReporter{},
	}
	pterm.Info.Printfln("Pool: base=%d quote=%d k=%d", pool.ReserveBase, pool.ReserveQuote, pool.K)
	sh.out.help(usage)
	run(ctx, sh)
}

func run(ctx context.Context, sh *shell) {
	for ctx.Err() == nil {
		line, err := sh.prompt(">")
		if err != nil {
			sh.logger.Error("failed to read command", "error", err)
			return
		}
		cmd, err := parseCommand(line)
		if err != nil {
			sh.out.failed(err)
			continue
		}
		err = sh.execute(ctx, cmd)
		if errors.Is(err, errExit) {
			return
		}
		if err != nil {
			sh.out.failed(err)
		}
	}
}

func promptText(text string) (string, error) {
	return pterm.DefaultInteractiveTextInput.WithDefaultText(text).Show()
}

func serveMetrics(addr string, m *metrics.Metrics, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", "error", err)
		}
	}()
	logger.Info("serving metrics", "address", addr)
	return srv
}
