// Command logtail follows a file and prints extracted records to
// stdout, demonstrating the Transport/PollEvents/RecordSource/
// MultiLine stack wired end to end with bookmark-based resume.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/axleware/logframe/internal/bookmark"
	"github.com/axleware/logframe/internal/config"
	"github.com/axleware/logframe/internal/constants"
	"github.com/axleware/logframe/internal/io/dlog"
	"github.com/axleware/logframe/internal/multiline"
	"github.com/axleware/logframe/internal/multiline/smartrules"
	"github.com/axleware/logframe/internal/pollevents"
	"github.com/axleware/logframe/internal/recordsource"
	"github.com/axleware/logframe/internal/regex"
	"github.com/axleware/logframe/internal/transport"
)

func main() {
	var (
		path         string
		protocol     string
		mlMode       string
		prefixRegex  string
		garbageRegex string
		rulesFile    string
		bookmarkDir  string
		follow       bool
		exitOnEOF    bool
		maxMsgSize   int
		followFreqMS int
		quiet        bool
		debug        bool
	)

	flag.StringVar(&path, "file", "", "File to read")
	flag.StringVar(&protocol, "protocol", "auto", "Protocol: text, framed, or auto")
	flag.StringVar(&mlMode, "multiLine", "none", "Multi-line mode: none, indented, prefix-garbage, prefix-suffix, smart, empty-line-separated")
	flag.StringVar(&prefixRegex, "prefixRegex", "", "Prefix regex for prefix-garbage/prefix-suffix modes")
	flag.StringVar(&garbageRegex, "garbageRegex", "", "Garbage regex for prefix-garbage/prefix-suffix modes")
	flag.StringVar(&rulesFile, "rulesFile", "", "Smart multi-line TSV rule table path")
	flag.StringVar(&bookmarkDir, "bookmarkDir", "", "Directory to persist resume bookmarks; empty disables persistence")
	flag.BoolVar(&follow, "follow", true, "Keep watching the file for new data")
	flag.BoolVar(&exitOnEOF, "exitOnEOF", false, "Exit once EOF is reached instead of following")
	flag.IntVar(&maxMsgSize, "maxMsgSize", constants.DefaultMaxMsgSize, "Hard cap on a single record")
	flag.IntVar(&followFreqMS, "followFreqMS", constants.DefaultFollowFreqMS, "Poll interval in ms for the file-changes strategy")
	flag.BoolVar(&quiet, "quiet", false, "Suppress info-level logging")
	flag.BoolVar(&debug, "debug", false, "Enable debug-level logging")
	flag.Parse()

	if path == "" {
		fmt.Fprintln(os.Stderr, "logtail: -file is required")
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	dlog.Start(ctx, dlog.Modes{Quiet: quiet, Debug: debug, LogDir: ""})
	defer dlog.Flush()

	src := config.DefaultSource()
	src.MaxMsgSize = maxMsgSize
	src.FollowFreqMS = followFreqMS
	src.ExitOnEOF = exitOnEOF
	src.MultiLine = config.MultiLine{
		Mode:         multiline.Mode(mlMode),
		PrefixRegex:  prefixRegex,
		GarbageRegex: garbageRegex,
		RulesFile:    rulesFile,
	}
	if mlMode == string(multiline.ModeEmptyLineSeparated) {
		src.KeepTrailingNewline = true
	}
	if err := src.Validate(); err != nil {
		dlog.FatalExit("invalid configuration", "error", err)
	}

	logic, err := buildLogic(src.MultiLine)
	if err != nil {
		dlog.FatalExit("failed to build multi-line logic", "error", err)
	}

	f, err := os.Open(path)
	if err != nil {
		dlog.FatalExit("failed to open file", "path", path, "error", err)
	}
	defer f.Close()

	tr := transport.NewFileTransport(f, follow && !exitOnEOF)

	rs := buildRecordSource(protocol, tr, src, logic, path)

	var store *bookmark.Store
	if bookmarkDir != "" {
		store, err = bookmark.NewStore(bookmarkDir)
		if err != nil {
			dlog.FatalExit("failed to open bookmark store", "dir", bookmarkDir, "error", err)
		}
		if b, ok, loadErr := store.Load(path); loadErr != nil {
			dlog.Warn("failed to load bookmark, starting from the beginning", "path", path, "error", loadErr)
		} else if ok {
			if restoreErr := rs.Restore(b); restoreErr != nil {
				dlog.Warn("failed to restore bookmark, starting from the beginning", "path", path, "error", restoreErr)
			} else {
				dlog.Info("resumed from bookmark", "path", path, "rawStreamPos", b.RawStreamPos)
			}
		}
	}

	notifyCh := make(chan pollevents.Notification, 1)
	var lastPos int64
	watcher := &pollevents.FileChanges{
		Path:         path,
		FollowFreqMS: followFreqMS,
		Pos:          func() int64 { return lastPos },
	}
	if follow {
		if err := watcher.Start(func(n pollevents.Notification) {
			select {
			case notifyCh <- n:
			default:
			}
		}); err != nil {
			dlog.Warn("failed to start file-changes watcher", "error", err)
		}
		defer watcher.Stop()
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		action := rs.PollPrepare()
		if action == recordsource.ActionPollIO && follow {
			select {
			case <-notifyCh:
			case <-time.After(time.Duration(followFreqMS) * time.Millisecond):
			case <-ctx.Done():
				return
			}
		}

		res := rs.Fetch()
		switch res.Status {
		case recordsource.FetchOK:
			fmt.Println(string(res.Record))
			lastPos = res.Bookmark.RawStreamPos + int64(res.Bookmark.PendingEnd)
			if store != nil {
				if err := store.Save(path, res.Bookmark); err != nil {
					dlog.Warn("failed to persist bookmark", "error", err)
				}
			}
		case recordsource.FetchWouldBlock:
			if !follow {
				return
			}
		case recordsource.FetchEOF:
			if exitOnEOF || !follow {
				return
			}
		case recordsource.FetchError:
			dlog.Error("fetch failed", "path", path, "error", res.Err)
			return
		}
	}
}

func buildLogic(ml config.MultiLine) (multiline.Logic, error) {
	switch ml.Mode {
	case multiline.ModeNone, "":
		return multiline.None{}, nil
	case multiline.ModeIndented:
		return multiline.Indented{}, nil
	case multiline.ModeEmptyLineSeparated:
		return multiline.EmptyLineSeparated{}, nil
	case multiline.ModePrefixGarbage:
		prefix, garbage, err := compileRegexPair(ml.PrefixRegex, ml.GarbageRegex)
		if err != nil {
			return nil, err
		}
		return multiline.PrefixGarbage{Prefix: prefix, Garbage: garbage}, nil
	case multiline.ModePrefixSuffix:
		prefix, garbage, err := compileRegexPair(ml.PrefixRegex, ml.GarbageRegex)
		if err != nil {
			return nil, err
		}
		return multiline.PrefixSuffix{Prefix: prefix, Garbage: garbage}, nil
	case multiline.ModeSmart:
		f, err := os.Open(ml.RulesFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		table, err := smartrules.Load(f)
		if err != nil {
			return nil, err
		}
		return multiline.NewSmart(table), nil
	default:
		return nil, fmt.Errorf("unknown multi-line mode %q", ml.Mode)
	}
}

func compileRegexPair(prefixStr, garbageStr string) (regex.Regex, regex.Regex, error) {
	prefix, err := regex.New(prefixStr, regex.Default)
	if err != nil {
		return regex.Regex{}, regex.Regex{}, err
	}
	garbage, err := regex.New(garbageStr, regex.Default)
	if err != nil {
		return regex.Regex{}, regex.Regex{}, err
	}
	return prefix, garbage, nil
}

func buildRecordSource(protocol string, tr transport.Transport, src config.Source, logic multiline.Logic, key string) recordsource.RecordSource {
	capacity := constants.MediumBufferSize
	switch protocol {
	case "text":
		return recordsource.NewTextServer(tr, capacity, src.MaxMsgSize, logic, key)
	case "framed":
		return recordsource.NewFramedServer(tr, constants.LargeBufferSize, constants.RFC6587MaxFrameLen, key)
	default:
		return recordsource.NewAutoServer(tr, capacity, src.MaxMsgSize, constants.RFC6587MaxFrameLen, logic, key)
	}
}
