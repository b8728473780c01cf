package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/amonks/immaculater/internal/config"
	"github.com/amonks/immaculater/internal/testsupport"
)

func writeGlobal(t *testing.T, homeDir, content string) {
	t.Helper()
	path := filepath.Join(homeDir, ".config", "immaculater", "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write global config: %v", err)
	}
}

func writeProject(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, config.FileName), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
}

func TestLoad_NotFound(t *testing.T) {
	homeDir := testsupport.SetupTestHome(t)

	cfg, err := config.Load(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Storage.Backend != "file" {
		t.Errorf("Backend = %q, expected file", cfg.Storage.Backend)
	}
	if want := filepath.Join(homeDir, ".local", "state", "immaculater", "todolist.imm"); cfg.Storage.Path != want {
		t.Errorf("Path = %q, expected %q", cfg.Storage.Path, want)
	}
	if cfg.ToDoList.InboxName != "inbox" || cfg.ToDoList.Separator != "/" {
		t.Errorf("unexpected list defaults %+v", cfg.ToDoList)
	}
	if cfg.Serialization.CompressionLevel != 2 {
		t.Errorf("CompressionLevel = %d, expected 2", cfg.Serialization.CompressionLevel)
	}
	if cfg.View.Default != "default" {
		t.Errorf("View = %q, expected default", cfg.View.Default)
	}
	if cfg.Log.Level != "warn" || cfg.Log.Format != "text" {
		t.Errorf("unexpected log defaults %+v", cfg.Log)
	}
}

func TestLoad_Full(t *testing.T) {
	testsupport.SetupTestHome(t)
	tmpDir := t.TempDir()

	writeProject(t, tmpDir, `
[storage]
backend = "sqlite"
path = "/srv/lists.db"
name = "work"

[todolist]
inbox-name = "in"
separator = ":"
skip-wellformedness-check = true

[serialization]
compression-level = 0

[view]
default = "actionable"

[log]
level = "DEBUG"
format = "json"

[hooks]
after-save = """
git add -A
git commit -m save
"""

[web]
addr = "127.0.0.1:9000"
`)

	cfg, err := config.Load(tmpDir)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Storage != (config.Storage{Backend: "sqlite", Path: "/srv/lists.db", Name: "work"}) {
		t.Errorf("unexpected storage %+v", cfg.Storage)
	}
	if cfg.ToDoList != (config.ToDoList{InboxName: "in", Separator: ":", SkipWellFormednessCheck: true}) {
		t.Errorf("unexpected list config %+v", cfg.ToDoList)
	}
	if cfg.Serialization.CompressionLevel != 0 {
		t.Errorf("CompressionLevel = %d, expected 0", cfg.Serialization.CompressionLevel)
	}
	if cfg.View.Default != "actionable" {
		t.Errorf("View = %q", cfg.View.Default)
	}
	if cfg.Web.Addr != "127.0.0.1:9000" {
		t.Errorf("Web.Addr = %q", cfg.Web.Addr)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("unexpected log config %+v", cfg.Log)
	}
	if !strings.HasPrefix(cfg.Hooks.AfterSave, "git add -A") {
		t.Errorf("AfterSave = %q", cfg.Hooks.AfterSave)
	}
}

func TestLoad_DefaultSQLitePath(t *testing.T) {
	homeDir := testsupport.SetupTestHome(t)
	tmpDir := t.TempDir()
	writeProject(t, tmpDir, "[storage]\nbackend = \"sqlite\"\n")

	cfg, err := config.Load(tmpDir)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if want := filepath.Join(homeDir, ".local", "state", "immaculater", "todolists.db"); cfg.Storage.Path != want {
		t.Errorf("Path = %q, expected %q", cfg.Storage.Path, want)
	}
}

func TestLoad_Invalid(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		want    string
	}{
		{name: "toml", content: `this is not valid toml [`, want: "parse config file"},
		{name: "backend", content: "[storage]\nbackend = \"tape\"", want: "storage.backend"},
		{name: "level", content: "[log]\nlevel = \"loud\"", want: "log.level"},
		{name: "format", content: "[log]\nformat = \"xml\"", want: "log.format"},
		{name: "compression", content: "[serialization]\ncompression-level = 10", want: "compression-level"},
		{name: "separator", content: "[todolist]\nseparator = \"\"", want: "separator"},
		{name: "inbox name", content: "[todolist]\ninbox-name = \"UID=7\"", want: "inbox-name"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			testsupport.SetupTestHome(t)
			tmpDir := t.TempDir()
			writeProject(t, tmpDir, tc.content)

			_, err := config.Load(tmpDir)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestLoad_UsesGlobalWhenProjectMissing(t *testing.T) {
	homeDir := testsupport.SetupTestHome(t)
	writeGlobal(t, homeDir, `
[storage]
path = "/global/list.imm"

[view]
default = "incomplete"
`)

	cfg, err := config.Load(t.TempDir())
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Storage.Path != "/global/list.imm" {
		t.Errorf("Path = %q, expected %q", cfg.Storage.Path, "/global/list.imm")
	}
	if cfg.View.Default != "incomplete" {
		t.Errorf("View = %q, expected %q", cfg.View.Default, "incomplete")
	}
}

func TestLoad_ProjectOverridesGlobal(t *testing.T) {
	homeDir := testsupport.SetupTestHome(t)
	writeGlobal(t, homeDir, `
[storage]
path = "/global/list.imm"

[log]
level = "info"

[serialization]
compression-level = 9
`)

	repoDir := t.TempDir()
	writeProject(t, repoDir, `
[storage]
path = "/project/list.imm"

[serialization]
compression-level = 0
`)

	cfg, err := config.Load(repoDir)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Storage.Path != "/project/list.imm" {
		t.Errorf("Path = %q, expected %q", cfg.Storage.Path, "/project/list.imm")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Level = %q, expected %q", cfg.Log.Level, "info")
	}
	if cfg.Serialization.CompressionLevel != 0 {
		t.Errorf("CompressionLevel = %d, expected the project's 0", cfg.Serialization.CompressionLevel)
	}
}

func TestLoad_ProjectEmptyOverridesGlobal(t *testing.T) {
	homeDir := testsupport.SetupTestHome(t)
	writeGlobal(t, homeDir, "[hooks]\nafter-save = \"global hook\"\n")

	repoDir := t.TempDir()
	writeProject(t, repoDir, "[hooks]\nafter-save = \"\"\n")

	cfg, err := config.Load(repoDir)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Hooks.AfterSave != "" {
		t.Errorf("AfterSave = %q, expected empty", cfg.Hooks.AfterSave)
	}
}

func TestRunScript_Empty(t *testing.T) {
	if err := config.RunScript(t.TempDir(), "   "); err != nil {
		t.Fatalf("empty script failed: %v", err)
	}
}

func TestRunScript_SimpleBash(t *testing.T) {
	tmpDir := t.TempDir()

	if err := config.RunScript(tmpDir, `touch created.txt`); err != nil {
		t.Fatalf("script failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(tmpDir, "created.txt")); os.IsNotExist(err) {
		t.Error("script did not create file")
	}
}

func TestRunScript_ShebangWithArgs(t *testing.T) {
	tmpDir := t.TempDir()

	script := `#!/bin/bash -e
touch success.txt
`

	if err := config.RunScript(tmpDir, script); err != nil {
		t.Fatalf("script failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(tmpDir, "success.txt")); os.IsNotExist(err) {
		t.Error("script did not create file")
	}
}

func TestRunScript_FailingScript(t *testing.T) {
	if err := config.RunScript(t.TempDir(), `exit 1`); err == nil {
		t.Error("expected error for failing script")
	}
}
