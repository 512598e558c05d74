// internal/integration/integration_test.go
package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"seqqc/internal/app"
	"seqqc/pkg/api"
)

func write(t *testing.T, fn, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), fn)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write %s: %v", fn, err)
	}
	return path
}

const fourReads = "@r1\nACGT\n+\nIIII\n" +
	"@r2\nGGCC\n+\n5555\n" +
	"@r3\nAAAA\n+\n!!!!\n" +
	"@r4\nACGTACGT\n+\nIIIIIIII\n"

func TestEndToEndText(t *testing.T) {
	fq := write(t, "itest.fastq", fourReads)

	var out, errBuf bytes.Buffer
	code := app.Run([]string{"--reads", fq, "--threads", "1"}, &out, &errBuf)
	if code != 0 {
		t.Fatalf("exit=%d stderr=%s", code, errBuf.String())
	}
	text := out.String()
	for _, want := range []string{"reads\t4", "bases\t20", "q20\t", "pos\tmean_q"} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in output:\n%s", want, text)
		}
	}
}

func TestEndToEndJSON(t *testing.T) {
	fq := write(t, "itest.fastq", fourReads)

	var out, errBuf bytes.Buffer
	code := app.Run([]string{"--reads", fq, "--output", "json"}, &out, &errBuf)
	if code != 0 {
		t.Fatalf("exit=%d stderr=%s", code, errBuf.String())
	}
	var rep api.CombinedReportV1
	if err := json.Unmarshal(out.Bytes(), &rep); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, out.String())
	}
	if rep.SchemaVersion != api.SchemaVersion {
		t.Errorf("schema = %q", rep.SchemaVersion)
	}
	if rep.TotalReads != 4 || rep.TotalBases != 20 {
		t.Errorf("reads=%d bases=%d", rep.TotalReads, rep.TotalBases)
	}
	if rep.Quality.Min != 0 || rep.Quality.Max != 40 {
		t.Errorf("quality range [%v,%v]", rep.Quality.Min, rep.Quality.Max)
	}
}

func TestInvalidRecordsCounted(t *testing.T) {
	fq := write(t, "dirty.fastq",
		"@ok\nACGT\n+\nIIII\n"+
			"bad\nACGT\n+\nIIII\n"+ // header without @
			"@r\nACXT\n+\nIIII\n") // non-ACGTN base

	var out, errBuf bytes.Buffer
	code := app.Run([]string{"--reads", fq, "--output", "json"}, &out, &errBuf)
	if code != 0 {
		t.Fatalf("exit=%d stderr=%s", code, errBuf.String())
	}
	var rep api.CombinedReportV1
	if err := json.Unmarshal(out.Bytes(), &rep); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if rep.TotalReads != 1 {
		t.Errorf("reads = %d, want 1", rep.TotalReads)
	}
	if rep.Discards.InvalidHeader != 1 || rep.Discards.InvalidBases != 1 || rep.Discards.Total != 2 {
		t.Errorf("discards: %+v", rep.Discards)
	}
}

func TestNoValidReadsExit1(t *testing.T) {
	fq := write(t, "junk.fastq", "no\nfastq\nhere\nat all\n")

	var out, errBuf bytes.Buffer
	if code := app.Run([]string{"--reads", fq}, &out, &errBuf); code != 1 {
		t.Fatalf("exit = %d, want 1", code)
	}
}

func TestUsageErrorExit2(t *testing.T) {
	var out, errBuf bytes.Buffer
	if code := app.Run([]string{"--output", "xml", "--reads", "x.fastq"}, &out, &errBuf); code != 2 {
		t.Fatalf("exit = %d, want 2", code)
	}
	if errBuf.Len() == 0 {
		t.Error("usage error silent on stderr")
	}
}

func TestMissingFileExit3(t *testing.T) {
	var out, errBuf bytes.Buffer
	code := app.Run([]string{"--reads", filepath.Join(t.TempDir(), "absent.fastq")}, &out, &errBuf)
	if code != 3 {
		t.Fatalf("exit = %d, want 3", code)
	}
}

func TestMaxFailuresTolerates(t *testing.T) {
	fq := write(t, "good.fastq", fourReads)
	missing := filepath.Join(t.TempDir(), "gone.fastq")

	var out, errBuf bytes.Buffer
	code := app.Run([]string{"--reads", missing, "--reads", fq, "--max-failures", "1", "--output", "json"}, &out, &errBuf)
	if code != 0 {
		t.Fatalf("exit=%d stderr=%s", code, errBuf.String())
	}
	var rep api.CombinedReportV1
	if err := json.Unmarshal(out.Bytes(), &rep); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if rep.TotalReads != 4 {
		t.Errorf("reads = %d, want 4", rep.TotalReads)
	}
	if !strings.Contains(errBuf.String(), "WARN") {
		t.Errorf("expected warning on stderr, got %q", errBuf.String())
	}
}

func TestConfigFileDefaults(t *testing.T) {
	fq := write(t, "itest.fastq", fourReads)
	cfg := write(t, "qc.yaml", "stride: 1\nsample_cap: 2\nthreads: 1\n")

	var out, errBuf bytes.Buffer
	code := app.Run([]string{"--reads", fq, "--config", cfg, "--output", "json"}, &out, &errBuf)
	if code != 0 {
		t.Fatalf("exit=%d stderr=%s", code, errBuf.String())
	}
	var rep api.CombinedReportV1
	if err := json.Unmarshal(out.Bytes(), &rep); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if rep.Sample.Stride != 1 || rep.Sample.Cap != 2 {
		t.Errorf("config not applied: stride=%d cap=%d", rep.Sample.Stride, rep.Sample.Cap)
	}
	if len(rep.Sample.GC) != 2 {
		t.Errorf("reservoir = %d entries, want cap 2", len(rep.Sample.GC))
	}
}

func TestVersionFlag(t *testing.T) {
	var out, errBuf bytes.Buffer
	if code := app.Run([]string{"--version"}, &out, &errBuf); code != 0 {
		t.Fatalf("exit = %d", code)
	}
	if !strings.HasPrefix(out.String(), "seqqc version ") {
		t.Errorf("version output = %q", out.String())
	}
}

func TestHelpNoArgs(t *testing.T) {
	var out, errBuf bytes.Buffer
	if code := app.Run(nil, &out, &errBuf); code != 0 {
		t.Fatalf("exit = %d", code)
	}
	if !strings.Contains(out.String(), "Usage of seqqc") {
		t.Errorf("help output = %q", out.String())
	}
}
