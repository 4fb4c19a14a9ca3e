// Command soulflame runs a standalone Minecraft Java Edition (protocol 759)
// network front end: it answers status requests and pings, and answers every
// login attempt with a disconnect; no connection enters the play stage.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/Maxuss/soulflame/internal/conn"
	"github.com/Maxuss/soulflame/internal/config"
	"github.com/Maxuss/soulflame/internal/listener"
)

const serverVersion = "0.1.0"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "-v", "--version":
			fmt.Printf("soulflame v%s\n", serverVersion)
			return
		}
	}

	configPath := flag.String("config", "server.yaml", "path to the server configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	runtime := config.NewRuntimeConfiguration(cfg)

	ln, err := listener.Listen(cfg.ListenAddress, cfg.MaxPlayers)
	if err != nil {
		log.Fatalf("could not bind %s: %v", cfg.ListenAddress, err)
	}
	log.Printf("soulflame listening on %s (max players: %d)", ln.Addr(), cfg.MaxPlayers)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		log.Print("soulflame shutting down")
		cancel()
		ln.Close()
	}()

	err = ln.Serve(func(raw net.Conn) {
		conn.New(raw, runtime, ln.Players).Serve(ctx)
	})
	if err != nil && ctx.Err() == nil {
		log.Fatalf("listener stopped: %v", err)
	}
}
