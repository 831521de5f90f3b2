package content

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"gdc/config"
	"gdc/gdoc"
	"gdc/state"
)

func loadSample(t *testing.T) (*gdoc.Document, []byte) {
	t.Helper()
	raw, err := os.ReadFile("../testdata/sample.json")
	if err != nil {
		t.Fatal(err)
	}
	f, err := os.Open("../testdata/sample.json")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	doc, err := gdoc.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	return doc, raw
}

func testContext(t *testing.T, rpt *config.Report) context.Context {
	t.Helper()
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	return state.ContextWith(context.Background(), &state.LocalEnv{Cfg: cfg, Rpt: rpt, Log: zaptest.NewLogger(t)})
}

func TestPrepare(t *testing.T) {
	ctx := testContext(t, nil)
	doc, raw := loadSample(t)

	c, err := Prepare(ctx, doc, raw, "sample.json", zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	t.Cleanup(func() { c.Cleanup(ctx) })

	if c.Headings.Level("h.intro") != 1 || c.Headings.Level("h.deep") != 5 {
		t.Errorf("headings = %v", c.Headings)
	}
	if !slices.Equal(c.Images, []string{"kix.img1"}) {
		t.Errorf("images = %q", c.Images)
	}
	if c.ID() != doc.DocumentID {
		t.Errorf("ID() = %q, want %q", c.ID(), doc.DocumentID)
	}
	if entries, err := os.ReadDir(c.WorkDir); err != nil || len(entries) != 0 {
		t.Errorf("work dir should be empty without report, got %v (%v)", entries, err)
	}
}

func TestPrepare_DebugDump(t *testing.T) {
	dir := t.TempDir()
	rpt, err := (&config.ReporterConfig{Destination: filepath.Join(dir, "report.zip")}).Prepare()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = rpt.Close() })

	ctx := testContext(t, rpt)
	doc, raw := loadSample(t)
	c, err := Prepare(ctx, doc, raw, "/some/where/sample.json", zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(c.WorkDir) })

	got, err := os.ReadFile(filepath.Join(c.WorkDir, "sample.json"))
	if err != nil || string(got) != string(raw) {
		t.Errorf("raw dump mismatch (%v)", err)
	}
	parsed, err := os.ReadFile(filepath.Join(c.WorkDir, "sample_parsed.txt"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Headings index: 2", `Heading["h.intro"]`, `id["kix.img1"] alt["Diagram"] display[267x133]`} {
		if !strings.Contains(string(parsed), want) {
			t.Errorf("parsed dump does not contain %q", want)
		}
	}

	c.Cleanup(ctx)
	if _, err := os.Stat(c.WorkDir); err != nil {
		t.Error("work dir owned by report must survive cleanup")
	}
}

func TestPrepare_Errors(t *testing.T) {
	ctx := testContext(t, nil)
	if _, err := Prepare(ctx, nil, nil, "x.json", zaptest.NewLogger(t)); err == nil {
		t.Error("expected error for nil document")
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	doc, raw := loadSample(t)
	if _, err := Prepare(cancelled, doc, raw, "x.json", zaptest.NewLogger(t)); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestContent_IDFallback(t *testing.T) {
	c := &Content{SrcName: "/tmp/My Doc.json", Doc: &gdoc.Document{}}
	if got := c.ID(); got != "My Doc" {
		t.Errorf("ID() = %q", got)
	}
	var nilContent *Content
	if nilContent.String() != "<nil Content>" {
		t.Error("nil String()")
	}
}
