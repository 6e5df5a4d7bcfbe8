package css

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/aymanbagabas/go-udiff"

	"github.com/jmylchreest/benchtheme/internal/fsutil"
	"github.com/jmylchreest/benchtheme/internal/theme"
)

// ErrCSSPatternNotFound is reported when a rule's selector, property or color
// cannot be located in its stylesheet.
var ErrCSSPatternNotFound = errors.New("css pattern not found")

// hexTokenRegex matches a hex color token; the longest form wins.
var hexTokenRegex = regexp.MustCompile(`#(?:[0-9A-Fa-f]{8}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{4}|[0-9A-Fa-f]{3})\b`)

// Change records one replaced color.
type Change struct {
	Rule     Rule   `json:"rule" yaml:"rule"`
	Selector string `json:"selector" yaml:"selector"` // selector list of the matched block
	Old      string `json:"old" yaml:"old"`
	New      string `json:"new" yaml:"new"`
	Offset   int    `json:"offset" yaml:"offset"`
}

// Warning records a rule that was skipped.
type Warning struct {
	Rule Rule
	Err  error
}

func (w Warning) Error() string {
	return w.Rule.String() + ": " + w.Err.Error()
}

func (w Warning) Unwrap() error {
	return w.Err
}

// Report summarizes a rewrite.
type Report struct {
	Changes  []Change
	Warnings []Warning

	// Files lists the stylesheets whose content changed (written unless DryRun).
	Files []string

	// Diffs holds a unified diff per changed file when DryRun is set.
	Diffs map[string]string
}

// Options controls a rewrite.
type Options struct {
	DryRun bool // compute changes and diffs without writing
}

// Rewriter applies theme colors to the stylesheets in a directory.
type Rewriter struct {
	logger *slog.Logger
	dir    string
	rules  []Rule
}

// NewRewriter creates a rewriter for the stylesheets in dir.
// A nil rules slice uses DefaultRules.
func NewRewriter(dir string, rules []Rule, logger *slog.Logger) *Rewriter {
	if logger == nil {
		logger = slog.Default()
	}
	if rules == nil {
		rules = DefaultRules
	}
	return &Rewriter{
		logger: logger,
		dir:    dir,
		rules:  rules,
	}
}

// Rules returns the mapping table in use.
func (rw *Rewriter) Rules() []Rule {
	return rw.rules
}

// edit replaces src[start:end] with text.
type edit struct {
	start, end int
	text       string
}

// Rewrite replaces the mapped colors in each stylesheet with the values from doc.
// Missing fields and unmatched patterns are collected as warnings; only a
// failure to write a stylesheet back is returned as an error.
func (rw *Rewriter) Rewrite(doc *theme.Document, opts Options) (*Report, error) {
	report := &Report{}
	if opts.DryRun {
		report.Diffs = make(map[string]string)
	}

	files, byFile := rw.expand(doc, report)

	for _, file := range files {
		if err := rw.rewriteFile(file, byFile[file], doc, opts, report); err != nil {
			return report, err
		}
	}

	return report, nil
}

// expand resolves wildcard rules and groups them by file in table order.
func (rw *Rewriter) expand(doc *theme.Document, report *Report) ([]string, map[string][]Rule) {
	var files []string
	byFile := make(map[string][]Rule)

	for _, rule := range rw.rules {
		expanded, err := rule.Expand(doc)
		if err != nil {
			rw.warn(report, rule, err)
			continue
		}
		for _, r := range expanded {
			if _, ok := byFile[r.File]; !ok {
				files = append(files, r.File)
			}
			byFile[r.File] = append(byFile[r.File], r)
		}
	}
	return files, byFile
}

func (rw *Rewriter) rewriteFile(file string, rules []Rule, doc *theme.Document, opts Options, report *Report) error {
	path := filepath.Join(rw.dir, file)
	data, err := os.ReadFile(path)
	if err != nil {
		for _, rule := range rules {
			rw.warn(report, rule, fmt.Errorf("%w: cannot read %s: %w", ErrCSSPatternNotFound, file, err))
		}
		return nil
	}

	src := string(data)
	sheet := Parse(src)
	edits := make(map[int]edit)

	for _, rule := range rules {
		value, err := doc.Lookup(rule.Category, rule.Field)
		if err != nil {
			rw.warn(report, rule, err)
			continue
		}

		found := false
		for _, block := range sheet.Match(rule.Selector) {
			for _, decl := range block.Find(rule.Property) {
				loc := hexTokenRegex.FindStringIndex(decl.Value)
				if loc == nil {
					continue
				}
				start := decl.ValueStart + loc[0]
				end := decl.ValueStart + loc[1]
				edits[start] = edit{start: start, end: end, text: value}
				report.Changes = append(report.Changes, Change{
					Rule:     rule,
					Selector: block.Selector,
					Old:      src[start:end],
					New:      value,
					Offset:   start,
				})
				found = true
			}
		}

		if !found {
			rw.warn(report, rule, fmt.Errorf("%w in %s", ErrCSSPatternNotFound, file))
		}
	}

	updated := applyEdits(src, edits)
	if updated == src {
		rw.logger.Debug("stylesheet unchanged", "file", file)
		return nil
	}
	report.Files = append(report.Files, file)

	if opts.DryRun {
		report.Diffs[file] = udiff.Unified("a/"+file, "b/"+file, src, updated)
		return nil
	}

	if err := fsutil.WriteFile(path, []byte(updated)); err != nil {
		return err
	}
	rw.logger.Info("rewrote stylesheet", "file", file, "edits", len(edits))
	return nil
}

func (rw *Rewriter) warn(report *Report, rule Rule, err error) {
	rw.logger.Debug("skipping color rule", "rule", rule.String(), "error", err)
	report.Warnings = append(report.Warnings, Warning{Rule: rule, Err: err})
}

// applyEdits applies non-overlapping edits to src.
func applyEdits(src string, edits map[int]edit) string {
	if len(edits) == 0 {
		return src
	}

	ordered := make([]edit, 0, len(edits))
	for _, e := range edits {
		ordered = append(ordered, e)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].start < ordered[j].start
	})

	var out []byte
	last := 0
	for _, e := range ordered {
		out = append(out, src[last:e.start]...)
		out = append(out, e.text...)
		last = e.end
	}
	out = append(out, src[last:]...)
	return string(out)
}
