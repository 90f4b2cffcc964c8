// Package cmd wires flags, configuration, and the repository accessor
// into the graph pipeline.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hunk-scm/hunk-go/internal/buildinfo"
	"github.com/hunk-scm/hunk-go/internal/config"
	"github.com/hunk-scm/hunk-go/internal/graph"
	"github.com/hunk-scm/hunk-go/internal/render"
	"github.com/hunk-scm/hunk-go/internal/repo"
	"github.com/hunk-scm/hunk-go/internal/server"
	"github.com/hunk-scm/hunk-go/internal/watch"
)

func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	return run(os.Args[1:], cfg, os.Stdout)
}

func run(args []string, cfg config.Config, out io.Writer) error {
	fs := flag.NewFlagSet("hunk-go", flag.ContinueOnError)
	limit := fs.Int("limit", cfg.Limit, "maximum number of revisions per page")
	offset := fs.Int("offset", 0, "number of revisions to skip before the page starts")
	remotes := fs.Bool("remotes", cfg.IncludeRemoteBookmarks, "include remote bookmark labels")
	serve := fs.Bool("serve", false, "serve the graph as a JSON API instead of printing it")
	listen := fs.String("listen", cfg.Listen, "address for the JSON API")
	watchRepo := fs.Bool("watch", cfg.Watch, "reprint the graph when the repository changes")
	verbose := fs.Bool("verbose", false, "enable verbose logging")
	showVersion := fs.Bool("version", false, "print version information and exit")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	if *showVersion {
		fmt.Fprintln(out, buildinfo.VersionWithRevision())
		return nil
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	repoPath := "."
	if remaining := fs.Args(); len(remaining) > 0 {
		repoPath = remaining[len(remaining)-1]
	}
	accessor, err := repo.Open(repoPath)
	if err != nil {
		return fmt.Errorf("open repository %q: %w", repoPath, err)
	}

	if *serve {
		return serveAPI(accessor, *listen, *limit)
	}

	options := graph.Options{
		MaxNodes:               *limit,
		Offset:                 *offset,
		IncludeRemoteBookmarks: *remotes,
	}
	if err := printGraph(accessor, options, out); err != nil {
		return err
	}
	if *watchRepo {
		return watchAndReprint(accessor, options, out)
	}
	return nil
}

func serveAPI(accessor repo.Accessor, addr string, limit int) error {
	slog.Info("serving graph API", slog.String("addr", addr))
	return http.ListenAndServe(addr, server.New(accessor, limit).Router())
}

func printGraph(accessor repo.Accessor, options graph.Options, out io.Writer) error {
	snapshot, err := graph.BuildSnapshot(accessor, options)
	if err != nil {
		return err
	}
	rows := graph.BuildLaneRows(snapshot.Nodes, snapshot.Edges)
	for _, line := range render.Rows(snapshot.Nodes, rows) {
		fmt.Fprintln(out, line)
	}
	if snapshot.HasMore {
		fmt.Fprintf(out, "... more revisions, rerun with -offset %d\n", snapshot.NextOffset)
	}
	return nil
}

func watchAndReprint(accessor repo.Accessor, options graph.Options, out io.Writer) error {
	watcher, err := watch.Start(accessor.Root(), watch.DefaultDelay, func() {
		fmt.Fprintln(out)
		if err := printGraph(accessor, options, out); err != nil {
			slog.Error("refresh graph", slog.Any("error", err))
		}
	})
	if err != nil {
		return fmt.Errorf("watch repository: %w", err)
	}
	defer watcher.Close()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	return nil
}
