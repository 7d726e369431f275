package main

import (
	"context"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/janpfeifer/connectk/internal/players"
	"github.com/janpfeifer/connectk/internal/profilers"
	"github.com/janpfeifer/connectk/internal/server"
	"github.com/janpfeifer/connectk/internal/state"
	"github.com/janpfeifer/must"
	"k8s.io/klog/v2"
)

var (
	flagAddr        = flag.String("addr", ":8080", "Address to listen on.")
	flagConfig      = flag.String("config", players.DefaultPlayerConfig, "AI configuration used when a request doesn't set one.")
	flagMaxDeadline = flag.Duration("max_deadline", server.DefaultConfig.MaxDeadline, "Largest deadline accepted in a request.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	if _, err := players.New(*flagConfig, state.PlayerOne); err != nil {
		klog.Exitf("Invalid --config: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	prof := must.M1(profilers.Setup(ctx))
	defer prof.Stop()

	srv := &http.Server{
		Addr: *flagAddr,
		Handler: server.New(server.Config{
			PlayerConfig: *flagConfig,
			MaxDeadline:  *flagMaxDeadline,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			klog.Errorf("Failed to shut down: %v", err)
		}
	}()

	klog.Infof("Serving moves on %s", *flagAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		klog.Exitf("Server failed: %v", err)
	}
}
