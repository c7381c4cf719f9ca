// Package main starts the server after configuring it from supplied or standard arguments
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jacobpatterson1549/tennis-scorer/server"
	"github.com/jacobpatterson1549/tennis-scorer/server/log"
	"github.com/joho/godotenv"
)

// main configures and runs the server.
func main() {
	ctx := context.Background()
	envErr := godotenv.Load() // the .env file is optional
	m := newMainFlags(os.Args, os.LookupEnv)
	log := log.New(os.Stdout, m.logConsole)
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		log.Errorf("loading .env file: %v", envErr)
	}
	var r resources
	defer r.close(ctx, log)
	backend, err := m.gameBackend(ctx, &r)
	if err != nil {
		log.Fatalf("setting up database: %v", err)
	}
	server, err := m.createServer(ctx, log, backend, &r)
	if err != nil {
		r.close(ctx, log)
		log.Fatalf("creating server: %v", err)
	}
	if err := runServer(ctx, server, log); err != nil {
		log.Errorf("running server: %v", err)
		return
	}
	log.Printf("server run stopped successfully")
}

// runServer runs the server until it is interrupted or terminated.
func runServer(ctx context.Context, server *server.Server, log log.Logger) error {
	done := make(chan os.Signal, 2)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)
	errC := server.Run(ctx)
	select { // BLOCKING
	case err := <-errC:
		switch {
		case errors.Is(err, http.ErrServerClosed):
			log.Printf("server shutdown triggered")
		default:
			log.Printf("server stopped unexpectedly: %v", err)
		}
	case signal := <-done:
		log.Printf("handled signal: %v", signal)
	}
	if err := server.Stop(ctx); err != nil {
		return fmt.Errorf("stopping server: %v", err)
	}
	return nil
}
