package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexflint/go-arg"
	"github.com/klauspost/cpuid/v2"

	"github.com/neurlang/textclf/config"
	"github.com/neurlang/textclf/errors"
	"github.com/neurlang/textclf/experiment"
	"github.com/neurlang/textclf/storage"
)

func newLogger(format string, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	switch errors.Kind(err) {
	case errors.ErrInvalidConfig:
		return 2
	case errors.ErrDataNotFound:
		return 3
	case errors.ErrUnsupportedArchitecture:
		return 4
	}
	return 1
}

func main() {
	args := config.DefaultArgs()
	arg.MustParse(&args)
	os.Exit(run(args))
}

func run(args config.Args) int {
	logger := newLogger(args.LogFormat, args.Verbose)
	slog.SetDefault(logger)
	logger.Info("cpu", "brand", cpuid.CPU.BrandName, "logical_cores", cpuid.CPU.LogicalCores, "avx2", cpuid.CPU.Supports(cpuid.AVX2))

	cfg, err := config.Resolve(args)
	if err != nil {
		logger.Error("configuration rejected", "error", err)
		return exitCode(err)
	}

	stopProfile, err := profile(args.CPUProfile)
	if err != nil {
		logger.Error("cpu profile", "error", err)
		return 1
	}
	defer stopProfile()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := experiment.Pipeline{
		Store:   storage.Numpy{},
		Logger:  logger,
		Trained: stop,
	}
	out, err := p.Run(ctx, cfg)
	if err != nil {
		logger.Error("experiment failed", "error", err)
		return exitCode(err)
	}
	if out.Interrupted {
		logger.Warn("run was interrupted, results cover the completed epochs", "epochs", out.History.Len())
	}
	return 0
}
