package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"

	"block_streamer/config"
	"block_streamer/fuse"
	"block_streamer/metrics/dashboard"
	"block_streamer/registry"
	"block_streamer/stream"
	"block_streamer/stream/factory"
)

func usage() {
	log.Printf("Usage of %s:\n", os.Args[0])
	log.Printf("  %s -mount MOUNTPOINT | -cat BLOCK_ID\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	dbPath := flag.String("db", "registry.db", "path of the block registry database")
	mountpoint := flag.String("mount", "", "mount the registered blocks at this directory")
	catID := flag.Int64("cat", -1, "stream one block to stdout")
	showDashboard := flag.Bool("dashboard", false, "render the transfer counters while mounted")

	flag.Usage = usage
	flag.Parse()

	blockRegistry, err := registry.Open(*dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer blockRegistry.Close()

	if *catID >= 0 {
		if err := catBlock(blockRegistry, *catID); err != nil {
			log.Fatal(err)
		}

		return
	}

	if *mountpoint == "" {
		usage()
		os.Exit(2)
	}

	if *showDashboard {
		go dashboard.Run(context.Background())
	}

	if err := fuse.Mount(*mountpoint, blockRegistry); err != nil {
		log.Fatal(err)
	}
}

func catBlock(blockRegistry *registry.Registry, id int64) error {
	block, err := blockRegistry.GetBlock(id)
	if err != nil {
		return err
	}

	blockStream, err := factory.NewStreamForBlock(config.Defaults(), block)
	if err != nil {
		return err
	}

	adapter := stream.NewAdapter(blockStream)
	defer adapter.Close()

	_, err = io.Copy(os.Stdout, adapter)

	return err
}
