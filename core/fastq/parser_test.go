package fastq

import (
	"context"
	"strings"
	"testing"
)

func collect(t *testing.T, in string) []RawGroup {
	t.Helper()
	var got []RawGroup
	err := ScanGroups(context.Background(), strings.NewReader(in), func(g RawGroup) error {
		got = append(got, g)
		return nil
	})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	return got
}

func TestScanGroupsGroupsByFour(t *testing.T) {
	in := "@r1\nACGT\n+\n!!!!\n@r2\nGG\n+\nII\n"
	got := collect(t, in)
	if len(got) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(got))
	}
	if got[0].Header != "@r1" || got[0].Sequence != "ACGT" || got[0].Separator != "+" || got[0].Quality != "!!!!" {
		t.Fatalf("group 0 mismatch: %+v", got[0])
	}
	if got[1].Header != "@r2" || got[1].Quality != "II" {
		t.Fatalf("group 1 mismatch: %+v", got[1])
	}
}

func TestScanGroupsDiscardsTrailingPartial(t *testing.T) {
	in := "@r1\nACGT\n+\n!!!!\n@r2\nGG\n+\n" // 7 lines: second group incomplete
	got := collect(t, in)
	if len(got) != 1 {
		t.Fatalf("trailing partial group must be discarded, got %d groups", len(got))
	}
}

func TestScanGroupsCountsBlankLines(t *testing.T) {
	// A stray blank line shifts the modulo-4 frame; grouping is strictly
	// positional, so the parser must not skip it.
	in := "@r1\nACGT\n+\n!!!!\n\n@r2\nGG\n+\nII\n"
	got := collect(t, in)
	if len(got) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(got))
	}
	if got[1].Header != "" || got[1].Sequence != "@r2" {
		t.Fatalf("blank line must occupy a frame slot: %+v", got[1])
	}
}

func TestScanGroupsCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	in := strings.Repeat("@r\nA\n+\n!\n", 100)
	n := 0
	err := ScanGroups(ctx, strings.NewReader(in), func(RawGroup) error {
		n++
		if n == 3 {
			cancel()
		}
		return nil
	})
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if n > 4 {
		t.Fatalf("scan kept running after cancel: %d groups", n)
	}
}

func TestScanGroupsEmitError(t *testing.T) {
	wantErr := context.DeadlineExceeded // any sentinel will do
	err := ScanGroups(context.Background(), strings.NewReader("@r\nA\n+\n!\n"), func(RawGroup) error {
		return wantErr
	})
	if err != wantErr {
		t.Fatalf("emit error must propagate, got %v", err)
	}
}
