package testsupport

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

var (
	buildOnce sync.Once
	immPath   string
	buildErr  error
)

// BuildImm builds the imm binary once and returns its path.
func BuildImm(t testing.TB) string {
	t.Helper()

	buildOnce.Do(func() {
		moduleRoot, err := findModuleRoot()
		if err != nil {
			buildErr = err
			return
		}

		binDir, err := os.MkdirTemp("", "imm-bin-")
		if err != nil {
			buildErr = err
			return
		}

		immPath = filepath.Join(binDir, "imm")
		cmd := exec.Command("go", "build", "-o", immPath, "./cmd/imm")
		cmd.Dir = moduleRoot
		output, err := cmd.CombinedOutput()
		if err != nil {
			buildErr = fmt.Errorf("build imm: %w: %s", err, strings.TrimSpace(string(output)))
		}
	})

	if buildErr != nil {
		t.Fatalf("%v", buildErr)
	}

	return immPath
}

// SetupScriptEnv configures common environment variables for testscript.
func SetupScriptEnv(t testing.TB, env *testscript.Env) error {
	t.Helper()

	env.Setenv("IMM", BuildImm(t))

	homeDir := filepath.Join(env.WorkDir, "home")
	if err := EnsureHomeDirs(homeDir); err != nil {
		return err
	}
	env.Setenv("HOME", homeDir)
	return nil
}

// CmdEnvSet stores the trimmed contents of a file in an env var.
func CmdEnvSet(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("envset does not support negation")
	}
	if len(args) != 2 {
		ts.Fatalf("usage: envset VAR FILE")
	}

	value := strings.TrimSpace(ts.ReadFile(args[1]))
	ts.Setenv(args[0], value)
}

// CmdUIDOf finds an item by name in a JSON listing, as printed by
// "lsctx --json" or "inprj --json", and stores its UID in an env var.
func CmdUIDOf(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("uidof does not support negation")
	}
	if len(args) != 3 {
		ts.Fatalf("usage: uidof FILE NAME VAR")
	}

	var items []struct {
		UID  int64  `json:"uid"`
		Name string `json:"name"`
	}
	data := ts.ReadFile(args[0])
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		ts.Fatalf("parse listing: %v", err)
	}

	for _, item := range items {
		if item.Name == args[1] {
			ts.Setenv(args[2], strconv.FormatInt(item.UID, 10))
			return
		}
	}

	ts.Fatalf("item named %q not found", args[1])
}

func findModuleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find module root (go.mod)")
		}
		dir = parent
	}
}
