package recordsource

import (
	"testing"

	"github.com/axleware/logframe/internal/multiline"
)

func fetchAllText(t *testing.T, ts *TextServer, max int) []string {
	t.Helper()
	var records []string
	for i := 0; i < max; i++ {
		res := ts.Fetch()
		switch res.Status {
		case FetchOK:
			records = append(records, string(res.Record))
		case FetchWouldBlock, FetchEOF:
			return records
		case FetchError:
			t.Fatalf("unexpected fetch error: %v", res.Err)
		}
	}
	return records
}

func TestTextServerNonePolicyBasicLines(t *testing.T) {
	tr := newMemTransport("one\ntwo\nthree\n")
	ts := NewTextServer(tr, 256, 64, multiline.None{}, "src")

	records := fetchAllText(t, ts, 10)
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d: %v", len(records), records)
	}
	if records[0] != "one" || records[1] != "two" || records[2] != "three" {
		t.Fatalf("unexpected records: %v", records)
	}
}

func TestTextServerTrailingCRStripped(t *testing.T) {
	tr := newMemTransport("hello\r\n")
	ts := NewTextServer(tr, 256, 64, multiline.None{}, "src")

	res := ts.Fetch()
	if res.Status != FetchOK {
		t.Fatalf("expected FetchOK, got %v (%v)", res.Status, res.Err)
	}
	if string(res.Record) != "hello" {
		t.Fatalf("expected trailing CR stripped, got %q", res.Record)
	}
}

func TestTextServerIndentedContinuation(t *testing.T) {
	tr := newMemTransport("first line\n  continued\nnext record\n")
	ts := NewTextServer(tr, 256, 64, multiline.Indented{}, "src")

	records := fetchAllText(t, ts, 10)
	if len(records) < 1 {
		t.Fatalf("expected at least one record, got %v", records)
	}
	if records[0] != "first line\n  continued" {
		t.Fatalf("expected merged continuation record, got %q", records[0])
	}
}

func TestTextServerBookmarkRestoreResumesPosition(t *testing.T) {
	tr := newMemTransport("one\ntwo\nthree\n")
	ts := NewTextServer(tr, 256, 64, multiline.None{}, "src")

	first := ts.Fetch()
	if first.Status != FetchOK {
		t.Fatalf("expected first fetch ok, got %v", first.Status)
	}

	tr2 := newMemTransport("one\ntwo\nthree\n")
	ts2 := NewTextServer(tr2, 256, 64, multiline.None{}, "src")
	if err := ts2.Restore(first.Bookmark); err != nil {
		t.Fatal(err)
	}

	next := ts2.Fetch()
	if next.Status != FetchOK || string(next.Record) != "two" {
		t.Fatalf("expected restored source to resume with 'two', got %v %q", next.Status, next.Record)
	}
}
