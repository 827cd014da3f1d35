// Command logwriter reads newline-delimited records from stdin and
// posts them through a FileWriter destination, demonstrating its
// batching, partial-write resumption, and fsync behavior against a
// real file transport.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/axleware/logframe/internal/config"
	"github.com/axleware/logframe/internal/filewriter"
	"github.com/axleware/logframe/internal/io/dlog"
	"github.com/axleware/logframe/internal/transport"
)

func main() {
	var (
		path       string
		flushLines int
		fsync      bool
		timeoutMS  int
		quiet      bool
		debug      bool
	)

	flag.StringVar(&path, "file", "", "File to append records to")
	flag.IntVar(&flushLines, "flushLines", config.DefaultWriter().FlushLines, "Records per writev batch")
	flag.BoolVar(&fsync, "fsync", false, "fsync after every flushed batch")
	flag.IntVar(&timeoutMS, "timeoutMS", config.DefaultWriter().Timeout, "Idle reassertion timeout in ms")
	flag.BoolVar(&quiet, "quiet", false, "Suppress info-level logging")
	flag.BoolVar(&debug, "debug", false, "Enable debug-level logging")
	flag.Parse()

	if path == "" {
		fmt.Fprintln(os.Stderr, "logwriter: -file is required")
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	dlog.Start(ctx, dlog.Modes{Quiet: quiet, Debug: debug})
	defer dlog.Flush()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		dlog.FatalExit("failed to open destination file", "path", path, "error", err)
	}
	defer f.Close()

	tr := transport.NewFileTransport(f, false)

	var posted, acked int
	w := filewriter.New(tr, flushLines, fsync, time.Duration(timeoutMS)*time.Millisecond)
	w.Ack = func(n int) {
		acked += n
		dlog.Debug("acked records", "n", n, "total", acked)
	}
	w.Rewind = func() {
		dlog.Error("write failed, rewinding batch", "posted", posted, "acked", acked)
	}

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			w.Flush()
			return
		default:
		}
		line := append([]byte(nil), scanner.Bytes()...)
		line = append(line, '\n')
		posted++
		if status := w.Post(line); status == filewriter.PostError {
			dlog.FatalExit("post failed", "path", path)
		}
	}
	if err := scanner.Err(); err != nil {
		dlog.Error("reading stdin failed", "error", err)
	}

	for w.PendingWrite() {
		if status := w.Flush(); status == filewriter.PostError {
			dlog.FatalExit("final flush failed", "path", path)
		}
	}
	dlog.Info("done", "posted", posted, "acked", acked)
}
