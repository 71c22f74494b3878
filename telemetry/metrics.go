// Package telemetry provides Prometheus metrics and OpenTelemetry tracing for the bot.
package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	// Counters
	LinksFixed     prometheus.Counter
	RepliesSent    prometheus.Counter
	ReplyFailures  prometheus.Counter
	Retractions    prometheus.Counter
	FetchFailures  prometheus.Counter
	DeleteFailures prometheus.Counter

	// Gauges
	TrackedMessages prometheus.Gauge
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		LinksFixed = promauto.NewCounter(prometheus.CounterOpts{Name: "cdnpls_links_fixed_total", Help: "Number of broken attachment links rewritten"})
		RepliesSent = promauto.NewCounter(prometheus.CounterOpts{Name: "cdnpls_replies_sent_total", Help: "Number of correction replies sent"})
		ReplyFailures = promauto.NewCounter(prometheus.CounterOpts{Name: "cdnpls_reply_failures_total", Help: "Number of correction replies that failed to send"})
		Retractions = promauto.NewCounter(prometheus.CounterOpts{Name: "cdnpls_retractions_total", Help: "Number of correction replies retracted after a fix"})
		FetchFailures = promauto.NewCounter(prometheus.CounterOpts{Name: "cdnpls_fetch_failures_total", Help: "Number of edited messages that could not be fetched"})
		DeleteFailures = promauto.NewCounter(prometheus.CounterOpts{Name: "cdnpls_delete_failures_total", Help: "Number of stale replies that could not be deleted"})
		TrackedMessages = promauto.NewGauge(prometheus.GaugeOpts{Name: "cdnpls_tracked_messages", Help: "Messages awaiting a fix from their author"})
	})
}

// Inc increments c if metrics were initialized.
func Inc(c prometheus.Counter) {
	if c != nil {
		c.Inc()
	}
}

// Add adds n to c if metrics were initialized.
func Add(c prometheus.Counter, n int) {
	if c != nil {
		c.Add(float64(n))
	}
}

// AdjustTracked moves the awaiting-fix gauge by delta.
func AdjustTracked(delta int) {
	if TrackedMessages != nil {
		TrackedMessages.Add(float64(delta))
	}
}

func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// Serve exposes Handler on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", slog.Any("err", err))
		}
	}()

	slog.Info("metrics server listening", slog.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
