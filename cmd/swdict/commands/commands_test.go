// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bureau-foundation/swdict/cmd/swdict/cli"
	"github.com/bureau-foundation/swdict/lib/snapshot"
	"github.com/bureau-foundation/swdict/lib/sss"
	"github.com/bureau-foundation/swdict/lib/testutil"
	"github.com/bureau-foundation/swdict/lib/version"
)

// workspace is a config file over a fresh data directory and the
// sample sign database.
type workspace struct {
	configPath string
	dataDir    string
}

func newWorkspace(t *testing.T) workspace {
	t.Helper()
	root := t.TempDir()
	dataDir := filepath.Join(root, "data")
	configPath := filepath.Join(root, "swdict.yaml")
	content := fmt.Sprintf(`paths:
  root: %s
  data: %s
source:
  driver: sqlite
  path: %s
repository:
  compression: lz4
log:
  level: warn
  format: text
`, root, dataDir, testutil.SampleDatabase(t))
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return workspace{configPath: configPath, dataDir: dataDir}
}

type result struct {
	stdout string
	stderr string
	err    error
}

func execute(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := &App{Stdin: strings.NewReader(stdin), Stdout: &stdout, Stderr: &stderr}
	err := app.Root().Execute(context.Background(), args)
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// run executes args against the workspace config and fails the test
// on error.
func (w workspace) run(t *testing.T, args ...string) string {
	t.Helper()
	r := execute(t, "", append(args, "--config", w.configPath)...)
	if r.err != nil {
		t.Fatalf("swdict %s: %v\nstderr:\n%s", strings.Join(args, " "), r.err, r.stderr)
	}
	return r.stdout
}

func (w workspace) runExpectingExit(t *testing.T, code int, args ...string) string {
	t.Helper()
	r := execute(t, "", append(args, "--config", w.configPath)...)
	var exitErr *cli.ExitError
	if !errors.As(r.err, &exitErr) || exitErr.ExitCode() != code {
		t.Fatalf("swdict %s: error = %v, want exit code %d", strings.Join(args, " "), r.err, code)
	}
	return r.stdout
}

func TestSSSPack(t *testing.T) {
	r := execute(t, "", "sss", "pack", "1-5-1-1-1-1", "04-01-001-01-01-01")
	if r.err != nil {
		t.Fatalf("sss pack: %v", r.err)
	}
	want := "01-05-001-01-01-01\t15011101\n04-01-001-01-01-01\t41011101\n"
	if r.stdout != want {
		t.Errorf("stdout = %q, want %q", r.stdout, want)
	}
}

func TestSSSPackMalformed(t *testing.T) {
	r := execute(t, "", "sss", "pack", "01-05-1")
	if !errors.Is(r.err, sss.ErrFormat) {
		t.Errorf("error = %v, want ErrFormat", r.err)
	}
	if r := execute(t, "", "sss", "pack"); r.err == nil {
		t.Error("sss pack with no codes should fail")
	}
}

func TestSSSUnpack(t *testing.T) {
	r := execute(t, "", "sss", "unpack", "15011101")
	if r.err != nil {
		t.Fatalf("sss unpack: %v", r.err)
	}
	if r.stdout != "15011101\t01-05-001-01-01-01\n" {
		t.Errorf("stdout = %q", r.stdout)
	}
	if r := execute(t, "", "sss", "unpack", "1501"); r.err == nil {
		t.Error("unpacking a short key should fail")
	}
}

func TestSSSCategory(t *testing.T) {
	r := execute(t, "", "sss", "category", "04-01-001-01-01-01", "06-01-001-01-01-01")
	if r.err != nil {
		t.Fatalf("sss category: %v", r.err)
	}
	want := "04-01-001-01-01-01\t4\thead-face\n06-01-001-01-01-01\t6\t-\n"
	if r.stdout != want {
		t.Errorf("stdout = %q, want %q", r.stdout, want)
	}

	r = execute(t, "", "sss", "category", "--json", "02-01-001-01-01-00")
	if r.err != nil {
		t.Fatalf("sss category --json: %v", r.err)
	}
	var infos []codeInfo
	if err := json.Unmarshal([]byte(r.stdout), &infos); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, r.stdout)
	}
	if len(infos) != 1 || infos[0].Category != 2 || infos[0].Partition != "movement" || infos[0].Fields.BaseSymbol != 1 {
		t.Errorf("infos = %+v", infos)
	}
}

func TestIndexBuildStatsResolveReverse(t *testing.T) {
	w := newWorkspace(t)

	counts := "handshape\t1\tpacked-sss-dict-01.snap\n" +
		"head-face\t2\tpacked-sss-dict-45.snap\n" +
		"movement\t2\tpacked-sss-dict-23.snap\n"
	if got := w.run(t, "index", "build"); got != counts {
		t.Errorf("index build = %q, want %q", got, counts)
	}
	for _, partition := range []string{"packed-sss-dict-01.snap", "packed-sss-dict-23.snap", "packed-sss-dict-45.snap"} {
		if _, err := os.Stat(filepath.Join(w.dataDir, partition)); err != nil {
			t.Errorf("partition snapshot %s: %v", partition, err)
		}
	}
	if got := w.run(t, "index", "stats"); got != counts {
		t.Errorf("index stats = %q, want %q", got, counts)
	}

	got := w.run(t, "index", "resolve", "03-01-001-01-01-08", "01-05-001-01-01-01")
	if want := "03-01-001-01-01-08\tmovement\t2\n01-05-001-01-01-01\thandshape\t1\n"; got != want {
		t.Errorf("index resolve = %q, want %q", got, want)
	}

	got = w.runExpectingExit(t, 1, "index", "resolve", "04-09-009-01-01-01", "bad", "04-01-001-01-01-01")
	if want := "04-09-009-01-01-01\tnot found\nbad\tmalformed\n04-01-001-01-01-01\thead-face\t1\n"; got != want {
		t.Errorf("index resolve with misses = %q, want %q", got, want)
	}

	if got := w.run(t, "index", "reverse", "2", "3"); got != "03-01-001-01-01-08\n" {
		t.Errorf("index reverse 2 3 = %q", got)
	}
	// Categories 2 and 3 share a partition.
	if got := w.run(t, "index", "reverse", "2", "2"); got != "03-01-001-01-01-08\n" {
		t.Errorf("index reverse 2 2 = %q", got)
	}
	if got := w.runExpectingExit(t, 1, "index", "reverse", "9", "1"); got != "not found\n" {
		t.Errorf("index reverse 9 1 = %q", got)
	}
}

func TestIndexResolveJSON(t *testing.T) {
	w := newWorkspace(t)
	w.run(t, "index", "build")

	got := w.runExpectingExit(t, 1, "index", "resolve", "--json", "05-01-002-01-01-01", "06-01-001-01-01-01")
	var results []resolveResult
	if err := json.Unmarshal([]byte(got), &results); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, got)
	}
	want := []resolveResult{
		{SSS: "05-01-002-01-01-01", Found: true, Partition: "head-face", Category: 5, ID: 2},
		{SSS: "06-01-001-01-01-01"},
	}
	if len(results) != len(want) || results[0] != want[0] || results[1] != want[1] {
		t.Errorf("results = %+v, want %+v", results, want)
	}
}

func TestIndexWithoutSnapshots(t *testing.T) {
	w := newWorkspace(t)
	r := execute(t, "", "index", "stats", "--config", w.configPath)
	if !errors.Is(r.err, snapshot.ErrNotFound) {
		t.Errorf("index stats without snapshots: error = %v, want ErrNotFound", r.err)
	}
}

func TestDictBuildAndLookups(t *testing.T) {
	w := newWorkspace(t)

	got := w.run(t, "dict", "build", "--reindex")
	want := "signs\t4\nrows\t7\naliases\t1\ncompounds\t1\nempty\t1\ndropped symbols\t1\n"
	if got != want {
		t.Errorf("dict build = %q, want %q", got, want)
	}

	got = w.run(t, "dict", "show", "3", "--sss")
	want = "3\tMOTHER2\t2 symbols\n" +
		"  category=1 id=1 x=1 y=1 sss=01-05-001-01-01-01\n" +
		"  category=5 id=2 x=2 y=2 sss=05-01-002-01-01-01\n"
	if got != want {
		t.Errorf("dict show 3 --sss = %q, want %q", got, want)
	}

	got = w.run(t, "dict", "show", "1")
	want = "1\t父\t2 symbols\n" +
		"  category=1 id=1 x=10 y=3\n" +
		"  category=2 id=1 x=20 y=-5\n"
	if got != want {
		t.Errorf("dict show 1 = %q, want %q", got, want)
	}

	got = w.run(t, "dict", "gloss", "MOTHER", "--json")
	var views []signView
	if err := json.Unmarshal([]byte(got), &views); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, got)
	}
	if len(views) != 2 || views[0].ID != 2 || views[1].ID != 3 || views[1].Name != "MOTHER2" {
		t.Errorf("dict gloss MOTHER = %+v", views)
	}

	if got := w.run(t, "dict", "name", "MOTHER2"); !strings.HasPrefix(got, "3\tMOTHER2\t") {
		t.Errorf("dict name MOTHER2 = %q", got)
	}
	if got := w.runExpectingExit(t, 1, "dict", "name", "MOM"); got != "no signs\n" {
		t.Errorf("dict name MOM = %q", got)
	}
	if got := w.runExpectingExit(t, 1, "dict", "show", "6"); got != "no signs\n" {
		t.Errorf("dict show 6 = %q", got)
	}

	got = w.run(t, "dict", "list")
	var ids []string
	for _, line := range strings.Split(got, "\n") {
		if line != "" && !strings.HasPrefix(line, " ") {
			ids = append(ids, strings.SplitN(line, "\t", 2)[0])
		}
	}
	if strings.Join(ids, ",") != "1,2,3,7" {
		t.Errorf("dict list ids = %v, want 1,2,3,7", ids)
	}

	if got := w.run(t, "dict", "vocab"); got != "1\t0\n2\t1\n3\t2\n7\t3\n" {
		t.Errorf("dict vocab = %q", got)
	}
	if got := w.run(t, "dict", "load"); !strings.HasPrefix(got, "loaded 4 signs in ") {
		t.Errorf("dict load = %q", got)
	}
}

func TestDictBuildRequiresIndex(t *testing.T) {
	w := newWorkspace(t)
	r := execute(t, "", "dict", "build", "--config", w.configPath)
	if !errors.Is(r.err, snapshot.ErrNotFound) {
		t.Errorf("dict build without index: error = %v, want ErrNotFound", r.err)
	}
	if _, err := os.Stat(filepath.Join(w.dataDir, "swdict.snap")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("failed build wrote a repository snapshot: %v", err)
	}
}

func TestDictBuildJSON(t *testing.T) {
	w := newWorkspace(t)
	w.run(t, "index", "build")
	got := w.run(t, "dict", "build", "--json")
	var stats map[string]int
	if err := json.Unmarshal([]byte(got), &stats); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, got)
	}
	if stats["kept"] != 4 || stats["dropped_symbols"] != 1 {
		t.Errorf("stats = %v", stats)
	}
}

const markupDocument = `<swml>
  <sign>
    <gloss>MOTHER</gloss>
    <symbol x="10" y="-3">01-05-001-01-01-01</symbol>
    <symbol x="4" y="7">04-09-009-01-01-01</symbol>
    <symbol x="0" y="0">05-01-002-01-01-01</symbol>
  </sign>
</swml>`

func TestMarkupFromStdin(t *testing.T) {
	w := newWorkspace(t)
	w.run(t, "index", "build")

	r := execute(t, markupDocument, "markup", "-", "--sss", "--config", w.configPath)
	if r.err != nil {
		t.Fatalf("markup: %v", r.err)
	}
	want := "0\tMOTHER\t2 symbols\n" +
		"  category=1 id=1 x=10 y=-3 sss=01-05-001-01-01-01\n" +
		"  category=5 id=2 x=0 y=0 sss=05-01-002-01-01-01\n"
	if r.stdout != want {
		t.Errorf("stdout = %q, want %q", r.stdout, want)
	}
}

func TestMarkupFromFile(t *testing.T) {
	w := newWorkspace(t)
	w.run(t, "index", "build")

	path := filepath.Join(t.TempDir(), "mother.swml")
	if err := os.WriteFile(path, []byte(markupDocument), 0o644); err != nil {
		t.Fatalf("writing markup: %v", err)
	}
	got := w.run(t, "markup", path, "--json")
	var views []signView
	if err := json.Unmarshal([]byte(got), &views); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, got)
	}
	if len(views) != 1 || views[0].Gloss != "MOTHER" || len(views[0].Symbols) != 2 {
		t.Errorf("views = %+v", views)
	}

	r := execute(t, "", "markup", filepath.Join(t.TempDir(), "absent.swml"), "--config", w.configPath)
	if !errors.Is(r.err, os.ErrNotExist) {
		t.Errorf("missing markup file: error = %v, want ErrNotExist", r.err)
	}
}

func TestEnvFileFeedsConfigExpansion(t *testing.T) {
	const variable = "SWDICT_COMMANDS_TEST_DATA"
	t.Cleanup(func() { os.Unsetenv(variable) })

	root := t.TempDir()
	dataDir := filepath.Join(root, "from-env")
	envFile := filepath.Join(root, "swdict.env")
	if err := os.WriteFile(envFile, []byte(variable+"="+dataDir+"\n"), 0o644); err != nil {
		t.Fatalf("writing env file: %v", err)
	}
	configPath := filepath.Join(root, "swdict.yaml")
	content := fmt.Sprintf("paths:\n  root: %s\n  data: ${%s}\nsource:\n  path: %s\nlog:\n  level: warn\n",
		root, variable, testutil.SampleDatabase(t))
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	r := execute(t, "", "index", "build", "--config", configPath, "--env-file", envFile)
	if r.err != nil {
		t.Fatalf("index build: %v\n%s", r.err, r.stderr)
	}
	if _, err := os.Stat(filepath.Join(dataDir, "packed-sss-dict-01.snap")); err != nil {
		t.Errorf("snapshots not written under the env-file data dir: %v", err)
	}
}

func TestGlobalFlagOverrides(t *testing.T) {
	w := newWorkspace(t)
	other := filepath.Join(t.TempDir(), "elsewhere")
	w.run(t, "index", "build", "--data-dir", other)
	if _, err := os.Stat(filepath.Join(other, "packed-sss-dict-45.snap")); err != nil {
		t.Errorf("--data-dir not honored: %v", err)
	}

	r := execute(t, "", "index", "stats", "--config", w.configPath, "--log-level", "trace")
	if r.err == nil || !strings.Contains(r.err.Error(), "log.level") {
		t.Errorf("invalid --log-level: error = %v", r.err)
	}
	if r := execute(t, "", "index", "build", "--config", filepath.Join(t.TempDir(), "absent.yaml")); r.err == nil {
		t.Error("missing --config file should fail")
	}
}

func TestLogsGoToStderr(t *testing.T) {
	w := newWorkspace(t)
	r := execute(t, "", "index", "build", "--config", w.configPath, "--log-format", "json")
	if r.err != nil {
		t.Fatalf("index build: %v", r.err)
	}
	// The sample database holds one malformed code.
	if !strings.Contains(r.stderr, `"msg":"skipping malformed SSS"`) || !strings.Contains(r.stderr, `"command":"index/build"`) {
		t.Errorf("stderr = %q", r.stderr)
	}
	if strings.Contains(r.stdout, "skipping") {
		t.Errorf("log line leaked to stdout: %q", r.stdout)
	}
}

func TestVersion(t *testing.T) {
	r := execute(t, "", "version")
	if r.err != nil || r.stdout != "swdict "+version.Info()+"\n" {
		t.Errorf("version = %q, %v", r.stdout, r.err)
	}

	r = execute(t, "", "version", "--json")
	if r.err != nil {
		t.Fatalf("version --json: %v", r.err)
	}
	var info version.BuildInfo
	if err := json.Unmarshal([]byte(r.stdout), &info); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, r.stdout)
	}
	if info.Version != version.Version {
		t.Errorf("version = %q, want %q", info.Version, version.Version)
	}
}

func TestUnknownCommandSuggestion(t *testing.T) {
	r := execute(t, "", "dcit")
	if r.err == nil || !strings.Contains(r.err.Error(), `did you mean "dict"`) {
		t.Errorf("error = %v", r.err)
	}
}
