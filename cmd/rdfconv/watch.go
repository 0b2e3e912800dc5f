package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func watchCmd(a *app) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "watch <input> <output>",
		Short: "Re-convert input whenever it changes",
		Long: `Watch converts input once, then again after every change to it.
When metrics_addr is configured, Prometheus metrics are served on /metrics.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.watch(ctx, args[0], args[1], from, to)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Input format (detected when omitted)")
	cmd.Flags().StringVar(&to, "to", "", "Output format (from the output extension when omitted)")
	return cmd
}

func (a *app) watch(ctx context.Context, input, output, from, to string) error {
	absInput, err := filepath.Abs(input)
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(absInput)); err != nil {
		return err
	}

	if a.config.MetricsAddr != "" {
		server := &http.Server{
			Addr:              a.config.MetricsAddr,
			Handler:           a.metricsHandler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("metrics server failed", "addr", a.config.MetricsAddr, "error", err)
			}
		}()
		defer server.Close()
		a.logger.Info("serving metrics", "addr", a.config.MetricsAddr)
	}

	a.reconvert(input, output, from, to)
	a.logger.Info("watching", "path", absInput, "debounce", a.config.Watch.Debounce)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != absInput || !event.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			a.logger.Debug("change detected", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(a.config.Watch.Debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(a.config.Watch.Debounce)
			}
			fire = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Error("watcher error", "error", err)
		case <-fire:
			fire = nil
			a.reconvert(input, output, from, to)
		}
	}
}

// reconvert runs one conversion and logs instead of failing, so a broken
// intermediate save does not stop the watch.
func (a *app) reconvert(input, output, from, to string) {
	if err := a.convert(input, output, from, to); err != nil {
		a.logger.Warn("conversion failed", "path", input, "error", err)
	}
}

func (a *app) metricsHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.gatherer, promhttp.HandlerOpts{}))
	return mux
}
