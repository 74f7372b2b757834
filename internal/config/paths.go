package config

import (
	"os"
	"path/filepath"
	"strings"
)

// expandPath resolves $VAR references and a leading "~" in a configured
// file or directory path. A path whose home lookup fails is returned with
// only its variables expanded.
func expandPath(p string) string {
	p = os.ExpandEnv(p)
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
}
