package detect

import (
	"encoding/json"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"rqs/internal/paths"
)

// ManifestReader returns the raw bytes of a tracked file.
type ManifestReader func(rel string) ([]byte, error)

// ManifestEntrypoints reads package manifests (package.json, Cargo.toml,
// pyproject.toml, pubspec.yaml) and returns tracked files they declare as
// entries, mapped to the declaring manifest. Unreadable or malformed
// manifests are skipped.
func ManifestEntrypoints(files FileSet, read ManifestReader) map[string]string {
	found := make(map[string]string)
	manifests := make([]string, 0)
	for rel := range files {
		switch baseName(rel) {
		case "package.json", "Cargo.toml", "pyproject.toml", "pubspec.yaml":
			manifests = append(manifests, rel)
		}
	}
	sort.Strings(manifests)

	for _, m := range manifests {
		if strings.Contains(m, "node_modules/") {
			continue
		}
		data, err := read(m)
		if err != nil {
			continue
		}
		dir := paths.Dir(m)
		var entries []string
		switch baseName(m) {
		case "package.json":
			entries = packageJSONEntries(data)
		case "Cargo.toml":
			entries = cargoEntries(data, dir, files)
		case "pyproject.toml":
			entries = pyprojectEntries(data, dir, files)
		case "pubspec.yaml":
			entries = pubspecEntries(data)
		}
		for _, e := range entries {
			if rel := files.firstTracked(joinDir(dir, e)); rel != "" {
				if _, seen := found[rel]; !seen {
					found[rel] = m
				}
			}
		}
	}
	return found
}

func packageJSONEntries(data []byte) []string {
	var pkg struct {
		Main string      `json:"main"`
		Bin  interface{} `json:"bin"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil
	}
	var out []string
	if pkg.Main != "" {
		out = append(out, pkg.Main)
	}
	switch bin := pkg.Bin.(type) {
	case string:
		out = append(out, bin)
	case map[string]interface{}:
		names := make([]string, 0, len(bin))
		for k := range bin {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			if s, ok := bin[k].(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

func cargoEntries(data []byte, dir string, files FileSet) []string {
	var cargo struct {
		Package *struct {
			Name string `toml:"name"`
		} `toml:"package"`
		Bin []struct {
			Name string `toml:"name"`
			Path string `toml:"path"`
		} `toml:"bin"`
	}
	if err := toml.Unmarshal(data, &cargo); err != nil {
		return nil
	}
	var out []string
	for _, b := range cargo.Bin {
		switch {
		case b.Path != "":
			out = append(out, b.Path)
		case b.Name != "":
			out = append(out, "src/bin/"+b.Name+".rs")
		}
	}
	if cargo.Package != nil && files.Has(joinDir(dir, "src/main.rs")) {
		out = append(out, "src/main.rs")
	}
	return out
}

func pyprojectEntries(data []byte, dir string, files FileSet) []string {
	var py struct {
		Project struct {
			Scripts map[string]string `toml:"scripts"`
		} `toml:"project"`
		Tool struct {
			Poetry struct {
				Scripts map[string]interface{} `toml:"scripts"`
			} `toml:"poetry"`
		} `toml:"tool"`
	}
	if err := toml.Unmarshal(data, &py); err != nil {
		return nil
	}

	targets := make([]string, 0, len(py.Project.Scripts))
	for _, v := range py.Project.Scripts {
		targets = append(targets, v)
	}
	for _, v := range py.Tool.Poetry.Scripts {
		if s, ok := v.(string); ok {
			targets = append(targets, s)
		}
	}
	sort.Strings(targets)

	var out []string
	for _, t := range targets {
		module, _, _ := strings.Cut(t, ":")
		modPath := strings.ReplaceAll(strings.TrimSpace(module), ".", "/")
		if modPath == "" {
			continue
		}
		for _, c := range []string{modPath + ".py", modPath + "/__main__.py", "src/" + modPath + ".py"} {
			if files.Has(joinDir(dir, c)) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

func pubspecEntries(data []byte) []string {
	var spec struct {
		Name string `yaml:"name"`
	}
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil
	}
	out := []string{"lib/main.dart"}
	if spec.Name != "" {
		out = append(out, "bin/"+spec.Name+".dart")
	}
	return out
}
