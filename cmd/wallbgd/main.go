// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Command wallbgd is the wallpaper compositor daemon. It loads its
// configuration, binds to the control socket, and serves client
// requests until it receives SIGINT/SIGTERM/SIGHUP or a Kill request
// (spec.md §5, §6).
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gviegas/wallbg/daemon"
	"github.com/gviegas/wallbg/wsi"
)

func defaultConfigPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "wallbg", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "wallbg", "config.yaml")
}

func main() {
	cfgPath := flag.String("config", defaultConfigPath(), "path to the daemon's YAML configuration file")
	flag.Parse()

	cfg, err := daemon.LoadConfig(*cfgPath)
	if err != nil {
		log.Fatalf("wallbgd: failed to load config: %v", err)
	}

	d := daemon.New(cfg)
	if err := d.Listen(); err != nil {
		if err == daemon.ErrAlreadyRunning {
			log.Fatalf("wallbgd: %v", err)
		}
		log.Fatalf("wallbgd: failed to listen: %v", err)
	}
	defer d.Close()

	d.BindOutputs()
	log.Printf("wallbgd: wsi platform in use: %d", wsi.PlatformInUse())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		s := <-sig
		log.Printf("wallbgd: received %s, shutting down", s)
		cancel()
	}()

	go func() {
		for ctx.Err() == nil {
			wsi.Dispatch()
		}
	}()

	if err := d.Serve(ctx); err != nil {
		log.Fatalf("wallbgd: serve: %v", err)
	}
}
