package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

const cliList = `
title "Saturday"
footer "Food Ops"
option width_px 384
area "Produce" {
  [ ] 2 lb "onions"
}
`

func renderListFile(t *testing.T, stamp bool) []byte {
	t.Helper()
	dir := t.TempDir()
	listPath := filepath.Join(dir, "saturday.list")
	if err := os.WriteFile(listPath, []byte(cliList), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "note.png")
	if err := runOnce(&ServiceConfig{}, newTestRenderer(), listPath, "", out, false, stamp); err != nil {
		t.Fatalf("runOnce: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestRunOnceIsReproducibleWithoutTimestamp(t *testing.T) {
	first := renderListFile(t, false)
	second := renderListFile(t, false)
	if !bytes.Equal(first, second) {
		t.Error("two renders of the same list differ")
	}
	if stamped := renderListFile(t, true); bytes.Equal(first, stamped) {
		t.Error("-timestamp did not change the output")
	}
}

func TestSplitTasks(t *testing.T) {
	got := splitTasks(" water plants, ,call dentist ,")
	if len(got) != 2 || got[0] != "water plants" || got[1] != "call dentist" {
		t.Errorf("splitTasks = %q", got)
	}
}
