// Command admin runs one-off operational tasks against a live deployment.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/config"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: admin <command>")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  flush-cache   drop all cached pages so content changes show immediately")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	switch os.Args[1] {
	case "flush-cache":
		rdb := cache.InitRedis(cfg.RedisURL)
		if rdb == nil {
			log.Fatal("Redis is not reachable, nothing to flush")
		}
		pageCache := cache.NewPageCache(rdb, cfg.CacheTTL())

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := pageCache.Clear(ctx); err != nil {
			log.Fatalf("Failed to flush page cache: %v", err)
		}
		log.Println("Page cache flushed")
	default:
		usage()
	}
}
