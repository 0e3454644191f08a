package main

import (
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
)

func main() {
	addr := flag.String("addr", GetEnv("TANK_ADDR", ":8080"), "HTTP listen address")
	public := flag.String("public", GetEnv("TANK_PUBLIC_URL", "ws://localhost:8080"), "Base URL encoded in invite codes")
	level := flag.String("log-level", GetEnv("TANK_LOG_LEVEL", "info"), "Log level (debug, info, warn, error)")
	flag.Parse()

	if lvl, err := log.ParseLevel(*level); err == nil {
		log.SetLevel(lvl)
	} else {
		log.Warn("unknown log level, using info", "level", *level)
	}

	hub := NewHub()
	go hub.Run()

	mux := SetupRoutes(hub, *public)

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	server := &http.Server{Addr: *addr, Handler: mux}

	go func() {
		log.Info("relay starting", "addr", *addr, "public", *public)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal("ListenAndServe", "error", err)
		}
	}()

	<-stop
	log.Info("shutting down")
	server.Close()
}
