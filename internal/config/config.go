// Package config loads immaculater.toml configuration files.
package config

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/amonks/immaculater/internal/paths"
	"github.com/amonks/immaculater/internal/validation"
	"github.com/amonks/immaculater/uid"
)

// FileName is the name of the per-directory configuration file.
const FileName = "immaculater.toml"

// Config represents the immaculater.toml configuration file.
type Config struct {
	Storage       Storage       `toml:"storage"`
	ToDoList      ToDoList      `toml:"todolist"`
	Serialization Serialization `toml:"serialization"`
	View          View          `toml:"view"`
	Log           Log           `toml:"log"`
	Hooks         Hooks         `toml:"hooks"`
	Web           Web           `toml:"web"`
}

// Storage says where the to-do list lives.
type Storage struct {
	// Backend is "file" or "sqlite".
	Backend string `toml:"backend"`
	// Path is the list file or the SQLite database. It defaults to a file
	// in the state directory.
	Path string `toml:"path"`
	// Name picks a list within a SQLite database.
	Name string `toml:"name"`
}

// ToDoList configures new and loaded lists.
type ToDoList struct {
	InboxName               string `toml:"inbox-name"`
	Separator               string `toml:"separator"`
	SkipWellFormednessCheck bool   `toml:"skip-wellformedness-check"`
}

// Serialization configures how the list is framed on disk.
type Serialization struct {
	// CompressionLevel is a zlib level from 1 to 9, or 0 for none.
	CompressionLevel int `toml:"compression-level"`
}

// View picks the view filter a session starts with.
type View struct {
	Default string `toml:"default"`
}

// Log configures the diagnostic log written to stderr.
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Hooks are scripts run around storage events.
type Hooks struct {
	// AfterSave runs in the directory holding the list after every save.
	// Can include a shebang line; defaults to bash if not specified.
	AfterSave string `toml:"after-save"`
}

// Web configures "imm serve".
type Web struct {
	Addr string `toml:"addr"`
}

var (
	validBackends  = []string{"file", "sqlite"}
	validLogLevels = []string{"debug", "info", "warn", "error"}
	validFormats   = []string{"text", "json"}
)

// Default returns the configuration used when no file sets a value.
func Default() *Config {
	return &Config{
		Storage:       Storage{Backend: "file", Name: "default"},
		ToDoList:      ToDoList{InboxName: "inbox", Separator: "/"},
		Serialization: Serialization{CompressionLevel: 2},
		View:          View{Default: "default"},
		Log:           Log{Level: "warn", Format: "text"},
		Web:           Web{Addr: "localhost:8177"},
	}
}

// Load loads configuration from dir and the global config file, on top of
// Default. Values in dir's file win.
func Load(dir string) (*Config, error) {
	globalPath, err := globalConfigPath()
	if err != nil {
		return nil, err
	}

	globalCfg, globalMeta, err := loadConfigFile(globalPath)
	if err != nil {
		return nil, err
	}

	projectCfg, projectMeta, err := loadConfigFile(filepath.Join(dir, FileName))
	if err != nil {
		return nil, err
	}

	merged := mergeConfigs(
		layer{cfg: globalCfg, meta: globalMeta},
		layer{cfg: projectCfg, meta: projectMeta},
	)
	if merged.Storage.Path == "" {
		if merged.Storage.Path, err = defaultStoragePath(merged.Storage.Backend); err != nil {
			return nil, err
		}
	}
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return merged, nil
}

// Validate reports the first setting with an unusable value.
func (c *Config) Validate() error {
	if err := validation.OneOf(nil, "storage.backend", c.Storage.Backend, validBackends); err != nil {
		return err
	}
	if err := validation.OneOf(nil, "log.level", c.Log.Level, validLogLevels); err != nil {
		return err
	}
	if err := validation.OneOf(nil, "log.format", c.Log.Format, validFormats); err != nil {
		return err
	}
	if c.Serialization.CompressionLevel < 0 || c.Serialization.CompressionLevel > 9 {
		return fmt.Errorf("serialization.compression-level %d is not between 0 and 9", c.Serialization.CompressionLevel)
	}
	if c.ToDoList.Separator == "" {
		return fmt.Errorf("todolist.separator must not be empty")
	}
	if uid.HasPrefix(c.ToDoList.InboxName) {
		return fmt.Errorf("todolist.inbox-name %q must not start with %q", c.ToDoList.InboxName, uid.Prefix)
	}
	if c.Web.Addr == "" {
		return fmt.Errorf("web.addr must not be empty")
	}
	return nil
}

func globalConfigPath() (string, error) {
	dir, err := paths.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

func defaultStoragePath(backend string) (string, error) {
	dir, err := paths.DefaultStateDir()
	if err != nil {
		return "", err
	}
	if backend == "sqlite" {
		return filepath.Join(dir, "todolists.db"), nil
	}
	return filepath.Join(dir, "todolist.imm"), nil
}

func loadConfigFile(path string) (*Config, toml.MetaData, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, toml.MetaData{}, nil
	}
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return &cfg, meta, nil
}

type layer struct {
	cfg  *Config
	meta toml.MetaData
}

// mergeConfigs applies layers over Default in order; later layers win for
// every key they define.
func mergeConfigs(layers ...layer) *Config {
	merged := Default()
	for _, l := range layers {
		if l.cfg == nil {
			continue
		}
		c, m := l.cfg, l.meta
		mergeString(m.IsDefined("storage", "backend"), &merged.Storage.Backend, c.Storage.Backend)
		mergeString(m.IsDefined("storage", "path"), &merged.Storage.Path, c.Storage.Path)
		mergeString(m.IsDefined("storage", "name"), &merged.Storage.Name, c.Storage.Name)
		mergeString(m.IsDefined("todolist", "inbox-name"), &merged.ToDoList.InboxName, c.ToDoList.InboxName)
		if m.IsDefined("todolist", "separator") {
			merged.ToDoList.Separator = c.ToDoList.Separator
		}
		if m.IsDefined("todolist", "skip-wellformedness-check") {
			merged.ToDoList.SkipWellFormednessCheck = c.ToDoList.SkipWellFormednessCheck
		}
		if m.IsDefined("serialization", "compression-level") {
			merged.Serialization.CompressionLevel = c.Serialization.CompressionLevel
		}
		mergeString(m.IsDefined("view", "default"), &merged.View.Default, c.View.Default)
		mergeString(m.IsDefined("log", "level"), &merged.Log.Level, strings.ToLower(c.Log.Level))
		mergeString(m.IsDefined("log", "format"), &merged.Log.Format, strings.ToLower(c.Log.Format))
		mergeString(m.IsDefined("hooks", "after-save"), &merged.Hooks.AfterSave, c.Hooks.AfterSave)
		mergeString(m.IsDefined("web", "addr"), &merged.Web.Addr, c.Web.Addr)
	}
	return merged
}

func mergeString(defined bool, dst *string, value string) {
	if defined {
		*dst = strings.TrimSpace(value)
	}
}

// RunScript executes a script in the given directory.
// If the script starts with a shebang (#!), that interpreter is used.
// Otherwise, the script is run with /bin/bash.
func RunScript(dir, script string) error {
	script = strings.TrimSpace(script)
	if script == "" {
		return nil
	}

	interpreter := "/bin/bash"
	body := script
	if strings.HasPrefix(script, "#!") {
		shebang, rest, _ := strings.Cut(script, "\n")
		interpreter = strings.TrimSpace(strings.TrimPrefix(shebang, "#!"))
		body = rest
	}

	// e.g. "/usr/bin/env python3" or "/bin/bash -e"
	parts := strings.Fields(interpreter)
	if len(parts) == 0 {
		return fmt.Errorf("empty interpreter in shebang")
	}

	cmd := exec.Command(parts[0], parts[1:]...)
	cmd.Dir = dir
	cmd.Stdin = strings.NewReader(body)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
