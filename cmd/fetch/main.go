// Command fetch materializes remote files on local disk through the SDK
// file cache.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/inference-sh/go-appsdk/pkg/cache"
	"github.com/inference-sh/go-appsdk/pkg/files"
	"github.com/inference-sh/go-appsdk/pkg/logging"
	"github.com/inference-sh/go-appsdk/pkg/transport"
)

func main() {
	cacheDir := flag.String("cache", "", "Cache root (default: INFSH_CACHE_DIR or ~/.cache/inference-sh/files)")
	targetDir := flag.String("dir", "", "Download into this directory instead of the cache")
	asRecord := flag.Bool("record", false, "Print the serialized file record as JSON instead of the path")
	logLevel := flag.String("log-level", "error", "Log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", "console", "Log format (json, console)")

	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: fetch [flags] <url-or-path>...")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := logging.Init(logging.Config{Level: *logLevel, Format: *logFormat}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	c := cache.Default()
	if *cacheDir != "" {
		c = cache.New(*cacheDir, transport.Default())
	}

	ctx := context.Background()
	exitCode := 0

	for _, arg := range flag.Args() {
		if err := fetchOne(ctx, c, arg, *targetDir, *asRecord); err != nil {
			fmt.Fprintf(os.Stderr, "Error fetching %s: %v\n", arg, err)
			exitCode = 1
		}
	}

	logging.Sync()
	os.Exit(exitCode)
}

func fetchOne(ctx context.Context, c *cache.Cache, arg, targetDir string, asRecord bool) error {
	var f *files.File

	if targetDir != "" && transport.IsRemote(arg) {
		path, err := c.DownloadTo(ctx, arg, targetDir)
		if err != nil {
			return err
		}
		f, err = files.FromLocalPath(path)
		if err != nil {
			return err
		}
		f.URI = arg
	} else {
		var err error
		f, err = files.ResolveWith(ctx, c, arg)
		if err != nil {
			return err
		}
	}

	if asRecord {
		data, err := json.MarshalIndent(f.Record(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Println(f.Path)
	return nil
}
