// Package runfile writes the reproducibility artifacts of a run: the
// resolved-arguments text file and the run log file, both under
// <output_folder>/<id>/.
package runfile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cardioml/cardioml/internal/config"
	"github.com/cardioml/cardioml/internal/fsutil"
)

// TimestampLayout names run artifacts down to the minute; two runs of the
// same id in the same minute overwrite, which is the intended behavior for
// rapid retry loops.
const TimestampLayout = "2006-01-02_15-04"

// RunDir returns the directory all artifacts of this run live in.
func RunDir(args *config.Arguments) string {
	return filepath.Join(args.OutputFolder, args.ID)
}

// WriteArguments renders the full argument namespace into
// arguments_<timestamp>.txt: the reconstructed command line first, then one
// `key = value` line per argument, sorted by key. Returns the file path.
func WriteArguments(args *config.Arguments, commandLine string, now time.Time) (string, error) {
	dir := RunDir(args)
	if err := fsutil.EnsureDir(dir); err != nil {
		return "", err
	}

	path := filepath.Join(dir, "arguments_"+now.Format(TimestampLayout)+".txt")
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n", commandLine)

	flat, err := flatten(args)
	if err != nil {
		return "", err
	}
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "%s = %s\n", k, flat[k])
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("cannot write arguments file: %w", err)
	}
	return path, nil
}

// OpenLog creates and opens the run log file log_<timestamp> in the run
// directory. The caller owns the handle.
func OpenLog(args *config.Arguments, now time.Time) (*os.File, error) {
	dir := RunDir(args)
	if err := fsutil.EnsureDir(dir); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, "log_"+now.Format(TimestampLayout))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("cannot open run log file: %w", err)
	}
	return f, nil
}

// flatten renders the arguments into flag-name keyed strings by
// round-tripping through the yaml tags, so the file uses the same names the
// user typed on the command line.
func flatten(args *config.Arguments) (map[string]string, error) {
	raw, err := yaml.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("cannot serialize arguments: %w", err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("cannot reload serialized arguments: %w", err)
	}

	out := make(map[string]string, len(tree))
	for k, v := range tree {
		out[k] = renderValue(v)
	}
	return out, nil
}

func renderValue(v any) string {
	switch vv := v.(type) {
	case nil:
		return "[]"
	case []any:
		parts := make([]string, len(vv))
		for i, e := range vv {
			parts[i] = renderValue(e)
		}
		return "[" + strings.Join(parts, " ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(vv))
		for k := range vv {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + "=" + renderValue(vv[k])
		}
		return "{" + strings.Join(parts, " ") + "}"
	default:
		return fmt.Sprintf("%v", vv)
	}
}
