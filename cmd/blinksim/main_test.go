package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"stm32blink/errcode"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { catalogPath = "" })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRun_ThreeCycles(t *testing.T) {
	out, err := execute(t, "run", "--board", "nucleo-f767zi", "--cycles", "3")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if n := strings.Count(out, "PB7 high"); n != 3 {
		t.Fatalf("high lines = %d\n%s", n, out)
	}
	if n := strings.Count(out, "PB7 low"); n != 3 {
		t.Fatalf("low lines = %d\n%s", n, out)
	}
	if n := strings.Count(out, "waited 500.000 ms"); n != 5 {
		t.Fatalf("500 ms waits between writes = %d\n%s", n, out)
	}
	if !strings.Contains(out, "6 writes, 42 systick chunks") {
		t.Fatalf("summary missing\n%s", out)
	}
}

func TestRun_UnknownBoard(t *testing.T) {
	_, err := execute(t, "run", "--board", "nope", "--cycles", "1")
	if !errors.Is(err, errcode.UnknownBoard) {
		t.Fatalf("err = %v", err)
	}
}

func TestRun_CatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lab.yaml")
	yml := "- name: bench\n  led: PB0\n  hse: 8000000\n  bypass: true\n  sysclk: 16000000\n  halfPeriodMs: 10\n"
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "run", "--catalog", path, "--board", "bench", "--cycles", "1")
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	if !strings.Contains(out, "PB0 high") || !strings.Contains(out, "waited 10.000 ms") {
		t.Fatalf("unexpected output\n%s", out)
	}
}

func TestBoards_ListsCatalog(t *testing.T) {
	out, err := execute(t, "boards")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"nucleo-f767zi", "nucleo-f722ze", "disco-f769ni"} {
		if !strings.Contains(out, name) {
			t.Fatalf("%s missing\n%s", name, out)
		}
	}
}

func TestClocks_216MHz(t *testing.T) {
	out, err := execute(t, "clocks", "--hse", "8000000", "--bypass", "--sysclk", "216000000")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"M=4 N=216 P=2 Q=9", "sysclk     216000000 Hz", "flash      7 wait states", "over-drive true"} {
		if !strings.Contains(out, want) {
			t.Fatalf("%q missing\n%s", want, out)
		}
	}
}

func TestClocks_Unreachable(t *testing.T) {
	_, err := execute(t, "clocks", "--hse", "8000000", "--sysclk", "216000001")
	if !errors.Is(err, errcode.UnreachableClock) {
		t.Fatalf("err = %v", err)
	}
}
