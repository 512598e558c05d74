package chunkapp

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"seqqc/internal/app"
	"seqqc/internal/mergeapp"
	"seqqc/pkg/api"
)

func writeFastq(t *testing.T, reads int) string {
	t.Helper()
	var b strings.Builder
	for i := 0; i < reads; i++ {
		b.WriteString("@r\nACGTACGT\n+\nII55II55\n")
	}
	path := filepath.Join(t.TempDir(), "in.fastq")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestChunkThenMergeMatchesWholeRun(t *testing.T) {
	in := writeFastq(t, 9)
	outDir := t.TempDir()

	// Split into chunk files.
	var out, errBuf bytes.Buffer
	code := Run([]string{"--out-dir", outDir, "--chunk-reads", "4", "--quiet", in}, &out, &errBuf)
	if code != 0 {
		t.Fatalf("chunk exit=%d stderr=%s", code, errBuf.String())
	}
	chunkFiles := strings.Fields(out.String())
	if len(chunkFiles) != 3 {
		t.Fatalf("chunk files = %v", chunkFiles)
	}

	// QC each chunk file, save the JSON reports.
	var reports []string
	for i, cf := range chunkFiles {
		var rep, reb bytes.Buffer
		if code := app.Run([]string{"--reads", cf, "--output", "json"}, &rep, &reb); code != 0 {
			t.Fatalf("seqqc %s exit=%d stderr=%s", cf, code, reb.String())
		}
		path := filepath.Join(outDir, "rep"+string(rune('0'+i))+".json")
		if err := os.WriteFile(path, rep.Bytes(), 0o644); err != nil {
			t.Fatalf("save report: %v", err)
		}
		reports = append(reports, path)
	}

	// Merge them and compare with one run over the whole file.
	var merged, meb bytes.Buffer
	if code := mergeapp.Run(append([]string{"--output", "json"}, reports...), &merged, &meb); code != 0 {
		t.Fatalf("merge exit=%d stderr=%s", code, meb.String())
	}
	var whole, comb api.CombinedReportV1
	var wout, web bytes.Buffer
	if code := app.Run([]string{"--reads", in, "--output", "json"}, &wout, &web); code != 0 {
		t.Fatalf("seqqc whole exit=%d stderr=%s", code, web.String())
	}
	if err := json.Unmarshal(wout.Bytes(), &whole); err != nil {
		t.Fatalf("whole: %v", err)
	}
	if err := json.Unmarshal(merged.Bytes(), &comb); err != nil {
		t.Fatalf("merged: %v", err)
	}

	if comb.TotalReads != whole.TotalReads || comb.TotalBases != whole.TotalBases {
		t.Errorf("totals drift: %d/%d vs %d/%d",
			comb.TotalReads, comb.TotalBases, whole.TotalReads, whole.TotalBases)
	}
	if comb.Quality.Mean != whole.Quality.Mean {
		t.Errorf("quality mean drift: %v vs %v", comb.Quality.Mean, whole.Quality.Mean)
	}
	if d := comb.ExpectedErrors - whole.ExpectedErrors; d > 1e-9 || d < -1e-9 {
		t.Errorf("expected errors drift: %v vs %v", comb.ExpectedErrors, whole.ExpectedErrors)
	}
}

func TestGzipChunks(t *testing.T) {
	in := writeFastq(t, 4)
	outDir := t.TempDir()
	var out, errBuf bytes.Buffer
	code := Run([]string{"--out-dir", outDir, "--chunk-reads", "2", "--gzip", "--quiet", in}, &out, &errBuf)
	if code != 0 {
		t.Fatalf("exit=%d stderr=%s", code, errBuf.String())
	}
	for _, f := range strings.Fields(out.String()) {
		if !strings.HasSuffix(f, ".fastq.gz") {
			t.Errorf("chunk %q not gzipped", f)
		}
	}
}

func TestManifestJSONL(t *testing.T) {
	in := writeFastq(t, 5)
	outDir := t.TempDir()
	manifest := filepath.Join(outDir, "chunks.jsonl")
	var out, errBuf bytes.Buffer
	code := Run([]string{"--out-dir", outDir, "--chunk-reads", "2", "--manifest", manifest, "--quiet", in}, &out, &errBuf)
	if code != 0 {
		t.Fatalf("exit=%d stderr=%s", code, errBuf.String())
	}
	data, err := os.ReadFile(manifest)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("manifest lines = %d:\n%s", len(lines), data)
	}
	var total int
	for _, ln := range lines {
		var entry struct {
			Path  string `json:"path"`
			Reads int    `json:"reads"`
		}
		if err := json.Unmarshal([]byte(ln), &entry); err != nil {
			t.Fatalf("bad manifest line %q: %v", ln, err)
		}
		if entry.Path == "" {
			t.Errorf("empty path in %q", ln)
		}
		total += entry.Reads
	}
	if total != 5 {
		t.Errorf("manifest reads total = %d, want 5", total)
	}
}

func TestChunkUsageErrors(t *testing.T) {
	var out, errBuf bytes.Buffer
	if code := Run(nil, &out, &errBuf); code != 2 {
		t.Fatalf("no input: exit = %d, want 2", code)
	}
	if code := Run([]string{"a.fastq", "b.fastq"}, &out, &errBuf); code != 2 {
		t.Fatalf("two inputs: exit = %d, want 2", code)
	}
}
