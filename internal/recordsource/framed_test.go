package recordsource

import "testing"

func TestFramedServerExtractsOneFrame(t *testing.T) {
	tr := newMemTransport("5 hello6 world!")
	fs := NewFramedServer(tr, 256, 9999999, "src")

	res := fs.Fetch()
	if res.Status != FetchOK {
		t.Fatalf("expected FetchOK, got %v (%v)", res.Status, res.Err)
	}
	if string(res.Record) != "hello" {
		t.Fatalf("expected 'hello', got %q", res.Record)
	}

	res2 := fs.Fetch()
	if res2.Status != FetchOK {
		t.Fatalf("expected second FetchOK, got %v (%v)", res2.Status, res2.Err)
	}
	if string(res2.Record) != "world!" {
		t.Fatalf("expected 'world!', got %q", res2.Record)
	}
}

func TestFramedServerRejectsNonDigitLength(t *testing.T) {
	tr := newMemTransport("abc hello")
	fs := NewFramedServer(tr, 256, 9999999, "src")

	res := fs.Fetch()
	if res.Status != FetchError {
		t.Fatalf("expected FetchError on non-digit frame length, got %v", res.Status)
	}
}

func TestFramedServerRejectsOversizeFrame(t *testing.T) {
	tr := newMemTransport("99999999999 x")
	fs := NewFramedServer(tr, 256, 9999999, "src")

	res := fs.Fetch()
	if res.Status != FetchError {
		t.Fatalf("expected FetchError on oversize frame length, got %v", res.Status)
	}
}
