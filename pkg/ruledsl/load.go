package ruledsl

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/axeline/axeline/pkg/rules"
	"github.com/axeline/axeline/pkg/semantic"
)

// RuleFileExt is the extension rule-pack files carry.
const RuleFileExt = ".axr"

// manifestName is the optional per-pack metadata file.
const manifestName = "pack.yaml"

// ErrNoPack indicates the pack directory does not exist or holds no
// rule files.
var ErrNoPack = errors.New("no rule pack found")

// Manifest is the optional pack.yaml descriptor of a rule pack.
type Manifest struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Severity applies to rules that do not set their own.
	Severity string `yaml:"severity"`
	// Disabled lists rule names to load but not run.
	Disabled []string `yaml:"disabled"`
}

// Diagnostic records a rule file the loader had to skip. Skipping is
// not fatal; the rest of the pack still loads.
type Diagnostic struct {
	File string
	Err  error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %v", d.File, d.Err)
}

// Pack is a loaded rule pack: compiled rules plus the diagnostics for
// anything skipped along the way.
type Pack struct {
	Manifest    Manifest
	Rules       []*rules.Rule
	Diagnostics []Diagnostic
}

// LoadPack reads every rule file in dir, compiles the well-formed ones,
// and collects a diagnostic for each malformed one.
func LoadPack(dir string) (*Pack, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNoPack, dir, err)
	}

	pack := &Pack{}
	if err := readManifest(filepath.Join(dir, manifestName), &pack.Manifest); err != nil {
		pack.Diagnostics = append(pack.Diagnostics, Diagnostic{File: manifestName, Err: err})
	}

	disabled := make(map[string]bool, len(pack.Manifest.Disabled))
	for _, name := range pack.Manifest.Disabled {
		disabled[name] = true
	}

	var files []string

	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == RuleFileExt {
			files = append(files, entry.Name())
		}
	}

	sort.Strings(files)

	for _, name := range files {
		src, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			pack.Diagnostics = append(pack.Diagnostics, Diagnostic{File: name, Err: err})

			continue
		}

		decl, err := Parse(string(src))
		if err != nil {
			pack.Diagnostics = append(pack.Diagnostics, Diagnostic{File: name, Err: err})

			continue
		}

		if disabled[decl.Name] {
			continue
		}

		pack.Rules = append(pack.Rules, Compile(decl, pack.Manifest.Severity))
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s has no %s files", ErrNoPack, dir, RuleFileExt)
	}

	return pack, nil
}

func readManifest(path string, m *Manifest) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // manifest is optional
		}

		return err
	}

	return yaml.Unmarshal(raw, m)
}

// Compile adapts a parsed declaration onto the common rule contract.
// The when clause must be truthy for a node to be checked; the ensure
// clause failing (false or null) is the violation.
func Compile(decl *RuleDecl, defaultSeverity string) *rules.Rule {
	severity := decl.Severity
	if severity == "" {
		severity = defaultSeverity
	}

	return &rules.Rule{
		Name:     decl.Name,
		Doc:      fmt.Sprintf("declarative rule on %s", selectorDoc(decl.Selector)),
		Severity: parseSeverity(severity),
		Run: func(pass *rules.Pass) error {
			for _, node := range candidates(pass, decl.Selector) {
				if !matches(node, decl.Selector) {
					continue
				}

				env := &Env{Node: node}
				if decl.When != nil && !Truthy(Eval(decl.When, env)) {
					continue
				}

				if !Truthy(Eval(decl.Ensure, env)) {
					pass.Report(node, decl.Report)
				}
			}

			return nil
		},
	}
}

func candidates(pass *rules.Pass, sel Selector) []*semantic.Node {
	if sel.Kind == SelectMerging {
		return pass.Tree.PhysicalNodes()
	}

	return pass.Tree.AccessibilityFocusNodes()
}

func matches(node *semantic.Node, sel Selector) bool {
	switch sel.Kind {
	case SelectAny:
		return true
	case SelectInteractive:
		return node.Interactive()
	case SelectMerging:
		return node.Merges
	case SelectRole:
		return string(node.Role) == sel.Arg
	case SelectWidget:
		return node.WidgetType == sel.Arg
	}

	return false
}

func selectorDoc(sel Selector) string {
	if sel.Arg == "" {
		return string(sel.Kind)
	}

	return fmt.Sprintf("%s(%q)", sel.Kind, sel.Arg)
}

func parseSeverity(s string) rules.Severity {
	switch s {
	case "error":
		return rules.SeverityError
	case "info":
		return rules.SeverityInfo
	default:
		return rules.SeverityWarning
	}
}
