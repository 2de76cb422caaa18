package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// section groups options by the part of their key before the first dot.
type section struct {
	name string
	opts []ConfigOption
}

// splitSections keeps table order; top-level keys land in the unnamed section.
func splitSections(opts []ConfigOption) []section {
	var out []section
	idx := map[string]int{}
	for _, o := range opts {
		name, key := "", o.Key
		if before, after, ok := strings.Cut(o.Key, "."); ok {
			name, key = before, after
		}
		i, ok := idx[name]
		if !ok {
			i = len(out)
			idx[name] = i
			out = append(out, section{name: name})
		}
		out[i].opts = append(out[i].opts, ConfigOption{Key: key, Default: o.Default, Comment: o.Comment})
	}
	return out
}

// RenderDefaultTOML renders a TOML config with defaults from GetConfigOptions.
func RenderDefaultTOML() string {
	lines := []string{"# mdviewer configuration (TOML)", ""}
	for _, s := range splitSections(GetConfigOptions()) {
		if s.name != "" {
			lines = append(lines, "["+s.name+"]")
		}
		for _, o := range s.opts {
			lines = appendOption(lines, o)
		}
	}
	return strings.Join(lines, "\n")
}

// UpdateTOML appends missing defaults to an existing TOML document and
// comments out keys the option table no longer knows. It reports whether
// anything changed.
func UpdateTOML(existing string) (string, bool) {
	known := map[string]bool{}
	for _, o := range GetConfigOptions() {
		known[o.Key] = true
	}

	seen := map[string]bool{}
	current := ""
	changed := false
	lines := strings.Split(existing, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trim := strings.TrimSpace(line)
		switch {
		case trim == "" || strings.HasPrefix(trim, "#"):
		case strings.HasPrefix(trim, "[") && strings.HasSuffix(trim, "]"):
			current = strings.TrimSpace(trim[1 : len(trim)-1])
		default:
			key, ok := parseTOMLKey(trim)
			if !ok {
				break
			}
			full := key
			if current != "" {
				full = current + "." + key
			}
			seen[full] = true
			if !known[full] {
				indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
				out = append(out, indent+"# OUTDATED: option removed from config schema", indent+"# "+trim)
				changed = true
				continue
			}
		}
		out = append(out, line)
	}

	var missing []ConfigOption
	for _, o := range GetConfigOptions() {
		if !seen[o.Key] {
			missing = append(missing, o)
		}
	}
	if len(missing) == 0 {
		return strings.Join(out, "\n"), changed
	}
	return strings.Join(insertMissing(out, missing), "\n"), true
}

// insertMissing places each missing option inside its table: top-level keys
// before the first header, keys of an existing table after its last line,
// and keys of new tables in fresh tables at the end.
func insertMissing(lines []string, missing []ConfigOption) []string {
	firstHeader := len(lines)
	ends := map[string]int{}
	current := ""
	for i, line := range lines {
		t := strings.TrimSpace(line)
		if strings.HasPrefix(t, "[") && strings.HasSuffix(t, "]") {
			current = strings.TrimSpace(t[1 : len(t)-1])
			if firstHeader == len(lines) {
				firstHeader = i
			}
			ends[current] = i + 1
			continue
		}
		if t != "" && current != "" {
			ends[current] = i + 1
		}
	}

	type insertion struct {
		at    int
		block []string
	}
	var inserts []insertion
	var tail []string
	for _, s := range splitSections(missing) {
		var block []string
		for _, o := range s.opts {
			block = appendOption(block, o)
		}
		switch at, ok := ends[s.name]; {
		case s.name == "":
			inserts = append(inserts, insertion{at: firstHeader, block: block})
		case ok:
			inserts = append(inserts, insertion{at: at, block: block})
		default:
			tail = append(tail, "["+s.name+"]")
			tail = append(tail, block...)
		}
	}

	// apply from the bottom so earlier indexes stay valid
	sort.SliceStable(inserts, func(a, b int) bool { return inserts[a].at > inserts[b].at })
	for _, ins := range inserts {
		lines = append(lines[:ins.at], append(append([]string(nil), ins.block...), lines[ins.at:]...)...)
	}
	if len(tail) > 0 {
		lines = append(lines, "", "# Added by config update")
		lines = append(lines, tail...)
	}
	return lines
}

func parseTOMLKey(line string) (string, bool) {
	key, _, ok := strings.Cut(line, "=")
	if !ok {
		return "", false
	}
	key = strings.TrimSpace(key)
	if key == "" || strings.ContainsAny(key[:1], `["'`) {
		return "", false
	}
	return key, true
}

func appendOption(lines []string, o ConfigOption) []string {
	if o.Comment != "" {
		lines = append(lines, "# "+o.Comment)
	}
	return append(lines, fmt.Sprintf("%s = %s", o.Key, tomlValue(o.Default)), "")
}

func tomlValue(v any) string {
	switch x := v.(type) {
	case string:
		return strconv.Quote(x)
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case []string:
		q := make([]string, len(x))
		for i, s := range x {
			q[i] = strconv.Quote(s)
		}
		return "[" + strings.Join(q, ", ") + "]"
	default:
		return strconv.Quote(fmt.Sprint(x))
	}
}
