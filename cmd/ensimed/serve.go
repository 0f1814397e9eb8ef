package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/adamchandra/ensime/internal/analyzer"
	"github.com/adamchandra/ensime/internal/config"
	"github.com/adamchandra/ensime/internal/debug"
	"github.com/adamchandra/ensime/internal/indexer"
	"github.com/adamchandra/ensime/internal/logging"
	"github.com/adamchandra/ensime/internal/project"
	"github.com/adamchandra/ensime/internal/telemetry"
)

func serveCmd() *cobra.Command {
	var cfgPath string
	var debugLog bool
	var cacheDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the ensimed server for one project",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), resolveConfigPath(cfgPath), cacheDir, debugLog)
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", "", "path to the project config file (default .ensime, or $ENSIMED_CONFIG)")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "index cache directory (default <root>/.ensime_cache, or $ENSIMED_CACHE_DIR)")
	cmd.Flags().BoolVar(&debugLog, "debug", false, "enable debug-level logging")
	return cmd
}

// runServe wires one project's Analyzer, Indexer and Debug actors together
// and serves client connections until ctx is cancelled.
func runServe(ctx context.Context, cfgPath, cacheDirFlag string, debugLog bool) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logging.New(debugLog)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cacheDir := resolveCacheDir(cacheDirFlag, cfg.RootDir)
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}

	idx, err := indexer.New(cacheDir, logging.ForComponent(log, "indexer"))
	if err != nil {
		return fmt.Errorf("opening index: %w", err)
	}
	defer idx.Close()

	mc := analyzer.NewInMemoryCompiler()
	an := analyzer.New(mc, mc, idx, logging.ForComponent(log, "analyzer"))
	dbg := debug.New(logging.ForComponent(log, "debug"))

	tel, err := telemetry.New(ctx, "ensimed")
	if err != nil {
		return fmt.Errorf("starting telemetry: %w", err)
	}
	defer tel.Shutdown(context.Background())

	go idx.Run(ctx)
	go an.Run(ctx)
	go dbg.Run(ctx)

	if !cfg.DisableIndexOnStartup {
		if err := idx.Initialize(ctx, classpathSpecFor(cfg)); err != nil {
			log.Warn("initial index build failed", "error", err)
		}
	}
	if !cfg.DisableSourceLoadOnStartup {
		an.StartInitialCompile(ctx)
	}

	watcher, err := config.NewWatcher(cfgPath)
	if err != nil {
		return fmt.Errorf("starting config watcher: %w", err)
	}
	watcher.OnChange(func(delta config.ReloadDelta) {
		newCfg := delta.Config
		log.Info("config reloaded", "root", newCfg.RootDir,
			"classpathChanged", delta.ClasspathChanged, "sourceRootsChanged", delta.SourceRootsChanged)

		if delta.ClasspathChanged {
			if err := idx.Initialize(ctx, classpathSpecFor(newCfg)); err != nil {
				log.Warn("reindex after config change failed", "error", err)
			}
		}
		if delta.SourceRootsChanged {
			if _, err := an.ReloadAll(ctx); err != nil {
				log.Warn("analyzer reload after config change failed", "error", err)
			}
		}
	})
	if err := watcher.Start(); err != nil {
		return fmt.Errorf("watching config: %w", err)
	}
	defer watcher.Stop()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("binding listener: %w", err)
	}
	defer ln.Close()

	port := ln.Addr().(*net.TCPAddr).Port
	portFile := filepath.Join(cacheDir, "port")
	if err := os.WriteFile(portFile, []byte(fmt.Sprintf("%d", port)), 0o644); err != nil {
		return fmt.Errorf("writing port-file: %w", err)
	}
	defer os.Remove(portFile)

	log.Info("ensimed listening", "port", port, "port-file", portFile, "root", cfg.RootDir)

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return fmt.Errorf("accept: %w", err)
			}
		}
		r := project.New(conn, an, idx, dbg, tel, logging.ForComponent(log, "project"))
		go func() {
			defer conn.Close()
			r.Run(ctx)
		}()
	}
}

// classpathSpecFor builds the indexer's ClasspathSpec from a config,
// shared between the initial Initialize call and every hot-reload that
// reports a classpath change.
func classpathSpecFor(cfg *config.Config) indexer.ClasspathSpec {
	return indexer.ClasspathSpec{
		Entries:  append(append([]string{}, cfg.CompileJars...), cfg.RuntimeJars...),
		Includes: cfg.OnlyIncludeInIndex,
		Excludes: cfg.ExcludeFromIndex,
	}
}

func resolveCacheDir(flag, rootDir string) string {
	if flag != "" {
		return flag
	}
	if v := os.Getenv("ENSIMED_CACHE_DIR"); v != "" {
		return v
	}
	return filepath.Join(rootDir, ".ensime_cache")
}
