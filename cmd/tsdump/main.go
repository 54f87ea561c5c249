// tsdump prints the contents of a privrun timestamp file as human-readable
// record blocks.  Unlike privrun itself it takes no lock on the file and
// never mutates it; this is a read-only diagnostic path.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/user"
	"path/filepath"

	"github.com/privrun/tsdump/internal/clock"
	"github.com/privrun/tsdump/internal/config"
	"github.com/privrun/tsdump/internal/db"
	"github.com/privrun/tsdump/internal/timestamp/render"
	"github.com/privrun/tsdump/internal/timestamp/scan"
	"github.com/privrun/tsdump/internal/timestamp/store"
	sqlitestore "github.com/privrun/tsdump/internal/timestamp/store/sqlite"
)

func main() {
	fname := flag.String("f", "", "timestamp file to dump")
	uname := flag.String("u", "", "dump the timestamp file of this user")
	export := flag.Bool("x", false, "also export scanned records to the timeline database")
	dbPath := flag.String("o", "", "timeline database path (implies -x; default from config)")
	flag.Usage = usage
	flag.Parse()

	logger := log.New(os.Stderr, "tsdump: ", 0)

	if flag.NArg() != 0 {
		usage()
	}
	if *fname != "" && *uname != "" {
		logger.Print("the -f and -u flags are mutually exclusive")
		usage()
	}

	cfg, err := config.Load("")
	if err != nil {
		logger.Fatal(err)
	}

	// The wall/monotonic deltas are sampled exactly once, before the scan,
	// and reused for every record.
	offs, err := clock.Sample()
	if err != nil {
		logger.Fatalf("unable to read the clock: %v", err)
	}

	path := *fname
	if path == "" {
		name := *uname
		if name == "" {
			u, err := user.Current()
			if err != nil {
				logger.Fatalf("unable to resolve the invoking user: %v", err)
			}
			name = u.Username
		}
		path = filepath.Join(cfg.TimestampDir, name)
	}

	f, err := os.Open(path)
	if err != nil {
		logger.Fatalf("unable to open %s: %v", path, err)
	}
	defer f.Close()

	ctx := context.Background()

	var timeline store.TimelineStore
	if *export || *dbPath != "" {
		p := *dbPath
		if p == "" {
			p = cfg.DBPath
		}
		conn, err := db.Open(ctx, db.Config{Path: p})
		if err != nil {
			logger.Fatalf("open timeline db: %v", err)
		}
		defer conn.Close()

		writer := db.NewWorker(conn)
		defer writer.Close()

		timeline = sqlitestore.NewTimelineStore(conn, writer, path)
	}

	driver := scan.NewDriver(scan.Dependencies{
		Logger:   logger,
		Renderer: render.New(render.Dependencies{Out: os.Stdout}),
		Rebase:   scan.NewRebase(offs, cfg.StartTimeBase),
		Store:    timeline,
	})

	if err := driver.Run(ctx, f); err != nil {
		logger.Fatalf("%s: %v", path, err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr,
		"usage: tsdump [-f timestamp_file | -u username] [-x] [-o timeline_db]")
	os.Exit(2)
}
