package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog"

	"github.com/signalbridge/webhook-relay/config"
	"github.com/signalbridge/webhook-relay/internal/http/chi"
	"github.com/signalbridge/webhook-relay/metrics"
	"github.com/signalbridge/webhook-relay/relay"
	"github.com/signalbridge/webhook-relay/relay/downstream"
)

const TIMEOUT = 30 * time.Second

/*
 * main is where the wiring happens: configuration, the downstream
 * delivery client, metrics and the relay service are assembled here
 * and nowhere else. Imports only point downwards: the app layer
 * imports the business layer, which imports the delivery layer.
 */

func main() {
	cfg, err := config.GetConfig()
	if err != nil {
		fmt.Println(err)
		return
	}
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	logger := httplog.NewLogger("webhook-relay", httplog.Options{
		JSON: true,
	})
	recorder, err := metrics.NewRecorder()
	if err != nil {
		fmt.Println(err)
		return
	}
	defer recorder.Shutdown(context.Background())

	s := relay.NewService(cfg.LocalServerURL, downstream.NewClient(), recorder, logger)
	info := chi.ServerInfo{Config: cfg, StartedAt: time.Now()}
	r := chi.Handlers(ctx, s, info, logger, recorder.Handler())
	http.Handle("/", r)
	srv := &http.Server{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Addr:         ":" + cfg.Port,
		Handler:      http.DefaultServeMux,
	}

	errShutdown := make(chan error, 1)
	go shutdown(srv, ctx, errShutdown)
	fmt.Printf("Listening on port %s, relaying to %s\n", cfg.Port, cfg.LocalServerURL)
	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		fmt.Println(err)
		return
	}
	err = <-errShutdown
	if err != nil {
		fmt.Println(err)
		return
	}
}

func shutdown(server *http.Server, ctxShutdown context.Context, errShutdown chan error) {
	<-ctxShutdown.Done()

	ctxTimeout, stop := context.WithTimeout(context.Background(), TIMEOUT)
	defer stop()

	err := server.Shutdown(ctxTimeout)
	switch err {
	case nil:
		fmt.Printf("\nShutting down server...\n")
		errShutdown <- nil
	case context.DeadlineExceeded:
		errShutdown <- fmt.Errorf("forcing closing the server")
	default:
		errShutdown <- fmt.Errorf("forcing closing the server")
	}
}
