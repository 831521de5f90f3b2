package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"gdc/state"
)

func TestDumpConfiguration(t *testing.T) {
	t.Chdir(t.TempDir())

	for _, args := range [][]string{
		{"gdc", "dumpconfig", "--default", "default.yaml"},
		{"gdc", "dumpconfig", "actual.yaml"},
	} {
		ctx := state.ContextWithEnv(context.Background())
		if err := newApp().Run(ctx, args); err != nil {
			t.Fatalf("Run(%q) error = %v", args, err)
		}
		data, err := os.ReadFile(filepath.Join(".", args[len(args)-1]))
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Contains(data, []byte("version: 1")) {
			t.Errorf("%s does not look like configuration:\n%s", args[len(args)-1], data)
		}
	}
}

func TestExport_MissingSource(t *testing.T) {
	t.Chdir(t.TempDir())
	ctx := state.ContextWithEnv(context.Background())
	if err := newApp().Run(ctx, []string{"gdc", "export"}); err == nil {
		t.Error("expected error without source")
	}
}
