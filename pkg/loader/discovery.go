package loader

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	// EnvDataDirs overrides the default search roots. It is a
	// comma-separated list; each entry is suffixed with the projects
	// subdirectory unless it already ends with it.
	EnvDataDirs = "CLAUDE_CONFIG_DIR"

	// projectsDirName anchors project resolution inside a log path.
	projectsDirName = "projects"

	// logFileSuffix selects usage log files during discovery.
	logFileSuffix = ".jsonl"
)

// DataDirs returns the log search roots. The environment override
// replaces the defaults entirely when set; otherwise the two standard
// Claude Code locations are probed and existing ones returned.
func DataDirs() []string {
	if custom := os.Getenv(EnvDataDirs); custom != "" {
		var dirs []string
		for _, entry := range strings.Split(custom, ",") {
			dir := strings.TrimSpace(entry)
			if dir == "" {
				continue
			}
			if filepath.Base(dir) != projectsDirName {
				dir = filepath.Join(dir, projectsDirName)
			}
			dirs = append(dirs, dir)
		}
		return dirs
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil
	}

	candidates := []string{
		filepath.Join(homeDir, ".config", "claude", projectsDirName),
		filepath.Join(homeDir, ".claude", projectsDirName),
	}

	var dirs []string
	for _, dir := range candidates {
		if _, statErr := os.Stat(dir); statErr == nil {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// findLogFiles recursively enumerates usage log files under each
// root. Roots that do not exist are skipped; other traversal errors
// are fatal for the load.
func findLogFiles(dirs []string) ([]string, error) {
	var files []string

	for _, dir := range dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}

		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(strings.ToLower(path), logFileSuffix) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, &LoadError{Path: dir, Err: err}
		}
	}

	return files, nil
}

// projectNameFromPath derives the project a log file belongs to: the
// path segment immediately following the projects anchor directory.
// Paths without the anchor map to the unknown-project sentinel.
//
// Path shape: .../projects/{project}/{sessionId}.jsonl
func projectNameFromPath(path string) string {
	parts := strings.Split(filepath.Dir(path), string(os.PathSeparator))
	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i] == projectsDirName && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return "unknown"
}
