package util

import (
	"strconv"
	"testing"
	"time"
)

func TestParseTimeRFC3339(t *testing.T) {
	s := "2024-10-10T10:10:10Z"
	got, ok := ParseTime(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.UTC().Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeMillis(t *testing.T) {
	got, ok := ParseTime("2024-10-10T10:10:10.123Z")
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Nanosecond() != 123000000 {
		t.Fatalf("unexpected nanos %d", got.Nanosecond())
	}
}

func TestParseTimeUnix(t *testing.T) {
	ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
	got, ok := ParseTime(strconv.FormatInt(ts, 10))
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Unix() != ts {
		t.Fatalf("unexpected unix %v", got.Unix())
	}
}

func TestParseTimeDefault(t *testing.T) {
	def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
	got := ParseTimeDefault("", def)
	if !got.Equal(def) {
		t.Fatalf("expected default")
	}
}

func TestFormatISO(t *testing.T) {
	in := time.Date(2025, 3, 4, 5, 6, 7, 8_000_000, time.FixedZone("X", 3600))
	if got := FormatISO(in); got != "2025-03-04T04:06:07.008Z" {
		t.Fatalf("unexpected %s", got)
	}
}

func TestParseIntDefault(t *testing.T) {
	cases := map[string]int{"": 7, "12": 12, " 40 ": 40, "abc": 7, "-5": -5}
	for in, want := range cases {
		if got := ParseIntDefault(in, 7); got != want {
			t.Fatalf("ParseIntDefault(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestSplitCSV(t *testing.T) {
	got := SplitCSV(" aapl, ,MSFT,,")
	if len(got) != 2 || got[0] != "aapl" || got[1] != "MSFT" {
		t.Fatalf("unexpected %v", got)
	}
}
