package cli_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yaklabco/gomdhelp/internal/cli"
	"github.com/yaklabco/gomdhelp/internal/configloader"
	"github.com/yaklabco/gomdhelp/pkg/fsutil"
	"github.com/yaklabco/gomdhelp/pkg/modules"
	"github.com/yaklabco/gomdhelp/pkg/readme"
	"github.com/yaklabco/gomdhelp/pkg/runner"
)

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{
		Version: "test",
		Commit:  "test",
		Date:    "test",
	}
}

// isolateConfig keeps user and environment configuration out of a test.
func isolateConfig(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for name := range configloader.ListEnvVars() {
		t.Setenv(name, "")
	}
}

// newSite creates a site root with two documented modules and one without a README.
func newSite(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	files := map[string]string{
		"modules/views/README.md":       "# Views\n\n- one\n- two\n",
		"modules/views/views.info.yml":  "name: Views UI\ndescription: Lists of content.\n",
		"core/modules/node/README.txt":  "Node **content**.\n",
		"modules/empty/empty.info.yml":  "name: Empty\n",
		"modules/views/src/Example.php": "<?php\n$a = 1;\n",
	}
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := cli.NewRootCommand(testInfo())
	cmd.SetArgs(args)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))

	err := cmd.Execute()
	return out.String(), err
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	if cmd == nil {
		t.Fatal("NewRootCommand returned nil")
	}

	if cmd.Use != "gomdhelp" {
		t.Errorf("expected Use to be 'gomdhelp', got %q", cmd.Use)
	}

	if cmd.Short == "" {
		t.Error("expected Short description to be set")
	}

	if cmd.Long == "" {
		t.Error("expected Long description to be set")
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	expectedSubcommands := []string{"render", "build", "topics", "serve", "config", "init", "version"}

	for _, name := range expectedSubcommands {
		subCmd, _, err := cmd.Find([]string{name})
		if err != nil {
			t.Errorf("expected subcommand %q to exist, got error: %v", name, err)
			continue
		}

		if subCmd.Name() != name {
			t.Errorf("expected subcommand name %q, got %q", name, subCmd.Name())
		}
	}
}

func TestCommandFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	expected := map[string][]string{
		"render": {"file", "output", "stdin"},
		"build":  {"out", "jobs", "skip-missing", "strict", "quiet", "compact"},
		"topics": {"format", "all"},
		"serve":  {"addr", "shutdown-timeout"},
		"init":   {"force", "full", "root", "output"},
	}

	for name, flags := range expected {
		subCmd, _, err := cmd.Find([]string{name})
		if err != nil {
			t.Fatalf("%s command not found: %v", name, err)
		}
		for _, flagName := range flags {
			if subCmd.Flags().Lookup(flagName) == nil {
				t.Errorf("expected flag %q to exist on %s command", flagName, name)
			}
		}
	}
}

func TestGlobalFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	expectedFlags := []string{"debug", "config", "color", "root", "host", "language", "module-path"}

	for _, flagName := range expectedFlags {
		flag := cmd.PersistentFlags().Lookup(flagName)
		if flag == nil {
			t.Errorf("expected global flag %q to exist", flagName)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(cli.BuildInfo{
		Version: "1.2.3",
		Commit:  "abc123",
		Date:    "2024-01-01",
	})
	cmd.SetArgs([]string{"version"})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}

	for _, want := range []string{"gomdhelp", "1.2.3", "abc123", "2024-01-01"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("version output %q does not contain %q", out.String(), want)
		}
	}
}

func TestRenderArgs(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	renderCmd, _, err := cmd.Find([]string{"render"})
	if err != nil {
		t.Fatalf("render command not found: %v", err)
	}

	if err := renderCmd.Args(renderCmd, nil); err == nil {
		t.Error("render without a module should be rejected")
	}
	if err := renderCmd.Args(renderCmd, []string{"a", "b"}); err == nil {
		t.Error("render with two modules should be rejected")
	}
	if err := renderCmd.Args(renderCmd, []string{"views"}); err != nil {
		t.Errorf("render with one module should be accepted, got %v", err)
	}
}

func TestRenderModule(t *testing.T) {
	isolateConfig(t)
	root := newSite(t)

	out, err := execute(t, "", "render", "views", "--root", root, "--host", "https://docs.example.com")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	for _, want := range []string{
		`<h3 class="readme-heading">README.md</h3>`,
		`<article class="markdown-body views-readme">`,
		`<ul class="ul"><li>one</li><li>two</li></ul>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("render output does not contain %q:\n%s", want, out)
		}
	}
}

func TestRenderModuleToFile(t *testing.T) {
	isolateConfig(t)
	root := newSite(t)
	target := filepath.Join(t.TempDir(), "node.html")

	if _, err := execute(t, "", "render", "node", "--root", root, "-o", target); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "<strong>content</strong>") {
		t.Errorf("unexpected page: %s", data)
	}
}

func TestRenderMissingReadme(t *testing.T) {
	isolateConfig(t)
	root := newSite(t)

	out, err := execute(t, "", "render", "empty", "--root", root)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(out, "None of the") {
		t.Errorf("expected not-found message, got %q", out)
	}
}

func TestRenderUnknownModule(t *testing.T) {
	isolateConfig(t)
	root := newSite(t)

	_, err := execute(t, "", "render", "ghost", "--root", root)
	if !errors.Is(err, readme.ErrUnknownModule) {
		t.Fatalf("expected ErrUnknownModule, got %v", err)
	}
	if code := cli.ExitCode(err); code != cli.ExitInvalidUsage {
		t.Errorf("expected exit code %d, got %d", cli.ExitInvalidUsage, code)
	}
}

func TestRenderStdin(t *testing.T) {
	isolateConfig(t)
	root := newSite(t)

	out, err := execute(t, "**bold** <script>x</script>", "render", "--stdin", "--root", root)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(out, "<strong>bold</strong>") {
		t.Errorf("expected bold markup, got %q", out)
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("script tag survived sanitization: %q", out)
	}
}

func TestBuild(t *testing.T) {
	isolateConfig(t)
	root := newSite(t)
	outDir := filepath.Join(t.TempDir(), "help")

	out, err := execute(t, "", "build", "--root", root, "--out", outDir, "--color", "never")
	if err != nil {
		t.Fatalf("build failed: %v\n%s", err, out)
	}

	for _, name := range []string{"views.html", "node.html"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("expected %s to be written: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(outDir, "empty.html")); err == nil {
		t.Error("modules without README are not topics and should not be built")
	}

	for _, want := range []string{"wrote node", "wrote views", "Rendered:          2", "Build succeeded"} {
		if !strings.Contains(out, want) {
			t.Errorf("build output does not contain %q:\n%s", want, out)
		}
	}

	// A second run leaves unchanged pages alone.
	out, err = execute(t, "", "build", "--root", root, "--out", outDir, "--compact", "-q")
	if err != nil {
		t.Fatalf("second build failed: %v", err)
	}
	if strings.TrimSpace(out) != "2 modules rendered" {
		t.Errorf("unexpected compact summary %q", out)
	}
}

func TestBuildStrictMissingReadme(t *testing.T) {
	isolateConfig(t)
	root := newSite(t)
	outDir := filepath.Join(t.TempDir(), "help")

	out, err := execute(t, "", "build", "empty", "views", "--root", root, "--out", outDir, "--strict", "--skip-missing")
	if !errors.Is(err, cli.ErrBuildIncomplete) {
		t.Fatalf("expected ErrBuildIncomplete, got %v", err)
	}
	if code := cli.ExitCode(err); code != cli.ExitMissingReadmes {
		t.Errorf("expected exit code %d, got %d", cli.ExitMissingReadmes, code)
	}
	if !cli.IsSilent(err) {
		t.Error("build failures are reported by the summary")
	}
	if !strings.Contains(out, "missing empty") {
		t.Errorf("expected missing module line, got:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(outDir, "empty.html")); err == nil {
		t.Error("--skip-missing should not write empty.html")
	}
}

func TestBuildUnknownModuleFails(t *testing.T) {
	isolateConfig(t)
	root := newSite(t)

	_, err := execute(t, "", "build", "ghost", "--root", root, "--out", t.TempDir(), "-q")
	if code := cli.ExitCode(err); code != cli.ExitBuildErrors {
		t.Errorf("expected exit code %d, got %d (%v)", cli.ExitBuildErrors, code, err)
	}
}

func TestTopicsJSON(t *testing.T) {
	isolateConfig(t)
	root := newSite(t)

	out, err := execute(t, "", "topics", "--root", root, "--format", "json")
	if err != nil {
		t.Fatalf("topics failed: %v", err)
	}

	var topics []modules.Module
	if err := json.Unmarshal([]byte(out), &topics); err != nil {
		t.Fatalf("decode topics: %v\n%s", err, out)
	}

	var names []string
	for _, topic := range topics {
		names = append(names, topic.Name)
	}
	if got := strings.Join(names, ","); got != "node,views" {
		t.Errorf("expected topics node,views in title order, got %s", got)
	}
}

func TestTopicsAllText(t *testing.T) {
	isolateConfig(t)
	root := newSite(t)

	out, err := execute(t, "", "topics", "--root", root, "--all", "--color", "never")
	if err != nil {
		t.Fatalf("topics failed: %v", err)
	}
	for _, want := range []string{"empty Empty", "views Views UI modules/views/README.md", "Lists of content."} {
		if !strings.Contains(out, want) {
			t.Errorf("topics output does not contain %q:\n%s", want, out)
		}
	}
}

func TestTopicsInvalidFormat(t *testing.T) {
	isolateConfig(t)

	_, err := execute(t, "", "topics", "--format", "xml")
	if code := cli.ExitCode(err); code != cli.ExitInvalidUsage {
		t.Errorf("expected exit code %d, got %d (%v)", cli.ExitInvalidUsage, code, err)
	}
}

func TestInvalidConfigExitCode(t *testing.T) {
	isolateConfig(t)
	root := newSite(t)

	_, err := execute(t, "", "topics", "--root", root, "--host", "not a url")
	if code := cli.ExitCode(err); code != cli.ExitConfigError {
		t.Errorf("expected exit code %d, got %d (%v)", cli.ExitConfigError, code, err)
	}
}

func TestConfigEnv(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "", "config", "env")
	if err != nil {
		t.Fatalf("config env failed: %v", err)
	}
	for _, want := range []string{"GOMDHELP_ROOT", "GOMDHELP_SNIPPET_PADDING", "GOMDHELP_SERVER_ADDR"} {
		if !strings.Contains(out, want) {
			t.Errorf("config env output does not contain %q", want)
		}
	}
}

func TestConfigShow(t *testing.T) {
	isolateConfig(t)
	root := newSite(t)

	out, err := execute(t, "", "config", "show", "--root", root, "--language", "fr")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	for _, want := range []string{"root: " + root, "language: fr", "padding: 10"} {
		if !strings.Contains(out, want) {
			t.Errorf("config show output does not contain %q:\n%s", want, out)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := filepath.Join(dir, "good.yml")
	bad := filepath.Join(dir, "bad.yml")
	if err := os.WriteFile(good, []byte("root: .\nlanguage: de\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte("root: .\nsnippet:\n  padding: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "", "config", "validate", good)
	if err != nil {
		t.Fatalf("validate good config: %v", err)
	}
	if !strings.Contains(out, "good.yml: ok") {
		t.Errorf("unexpected output %q", out)
	}

	_, err = execute(t, "", "config", "validate", bad)
	if code := cli.ExitCode(err); code != cli.ExitConfigError {
		t.Errorf("expected exit code %d, got %d (%v)", cli.ExitConfigError, code, err)
	}

	_, err = execute(t, "", "config", "validate", filepath.Join(dir, "missing.yml"))
	if code := cli.ExitCode(err); code != cli.ExitIOError {
		t.Errorf("expected exit code %d, got %d (%v)", cli.ExitIOError, code, err)
	}
}

func TestInit(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), ".gomdhelp.yml")

	if _, err := execute(t, "", "init", "--output", target, "--root", "web"); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if !strings.Contains(string(data), `root: "web"`) {
		t.Errorf("template does not set root:\n%s", data)
	}

	// Non-interactive input never confirms an overwrite.
	_, err = execute(t, "y\n", "init", "--output", target)
	if code := cli.ExitCode(err); code != cli.ExitInvalidUsage {
		t.Errorf("expected exit code %d, got %d (%v)", cli.ExitInvalidUsage, code, err)
	}

	if _, err := execute(t, "", "init", "--output", target, "--force", "--full"); err != nil {
		t.Fatalf("init --force failed: %v", err)
	}
	data, err = os.ReadFile(target)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if !strings.Contains(string(data), "allowed_tags:") {
		t.Errorf("full template should list allowed tags:\n%s", data)
	}
}

func TestExitCodeFromResult(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result *runner.Result
		strict bool
		want   int
	}{
		{name: "nil", result: nil, want: cli.ExitSuccess},
		{name: "clean", result: &runner.Result{Stats: runner.Stats{Rendered: 3}}, want: cli.ExitSuccess},
		{name: "missing lenient", result: &runner.Result{Stats: runner.Stats{NotFound: 1}}, want: cli.ExitSuccess},
		{name: "missing strict", result: &runner.Result{Stats: runner.Stats{NotFound: 1}}, strict: true, want: cli.ExitMissingReadmes},
		{name: "errors win", result: &runner.Result{Stats: runner.Stats{NotFound: 1, Errored: 1}}, strict: true, want: cli.ExitBuildErrors},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := cli.ExitCodeFromResult(tt.result, tt.strict); got != tt.want {
				t.Errorf("ExitCodeFromResult() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: cli.ExitSuccess},
		{name: "explicit", err: &cli.ExitError{Code: 42, Err: errors.New("x")}, want: 42},
		{name: "wrapped explicit", err: fmt.Errorf("outer: %w", &cli.ExitError{Code: 3, Err: errors.New("x")}), want: 3},
		{name: "validation", err: errors.Join(errors.New("load"), &configloader.ValidationError{Field: "host"}), want: cli.ExitConfigError},
		{name: "unknown module", err: fmt.Errorf("render: %w", readme.ErrUnknownModule), want: cli.ExitInvalidUsage},
		{name: "missing root", err: fmt.Errorf("index: %w", modules.ErrRootNotFound), want: cli.ExitIOError},
		{name: "permission", err: fsutil.ErrPermissionDenied, want: cli.ExitIOError},
		{name: "other", err: errors.New("boom"), want: cli.ExitInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := cli.ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestHelpOutput(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "", "build", "--help")
	if err != nil {
		t.Fatalf("help failed: %v", err)
	}

	for _, want := range []string{
		"Usage:",
		"gomdhelp build [modules...] [flags]",
		"Examples:",
		"Flags:",
		"Global Flags:",
		"-o, --out string   output directory",
		"--strict   exit non-zero",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("help output does not contain %q:\n%s", want, out)
		}
	}
}

func TestRootHelpListsCommands(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "", "--help")
	if err != nil {
		t.Fatalf("help failed: %v", err)
	}
	for _, want := range []string{"Available Commands:", "render", "serve", "topics"} {
		if !strings.Contains(out, want) {
			t.Errorf("help output does not contain %q", want)
		}
	}
}
