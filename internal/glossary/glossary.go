// Package glossary enforces fixed terminology on translated text.
package glossary

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

const defaultIterationLimit = 30

// Term is one glossary entry as stored in YAML. Exactly one of From or
// Pattern must be set.
type Term struct {
	From      string `yaml:"from"`
	To        string `yaml:"to"`
	Pattern   string `yaml:"pattern"`
	Replace   string `yaml:"replace"`
	MatchCase bool   `yaml:"match_case"`
}

type file struct {
	Terms []Term `yaml:"terms"`
}

type rule interface {
	apply(input string) (string, bool)
}

// Engine applies glossary terms until the text stops changing.
type Engine struct {
	rules []rule
	limit int
}

// Load reads a glossary file. A blank path or missing file yields an empty
// engine that returns text unchanged.
func Load(path string, limit int) (*Engine, error) {
	if strings.TrimSpace(path) == "" {
		return New(nil, limit)
	}
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(nil, limit)
		}
		return nil, fmt.Errorf("failed to read glossary %q: %w", path, err)
	}

	var parsed file
	if err := yaml.Unmarshal(contents, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse glossary %q: %w", path, err)
	}
	engine, err := New(parsed.Terms, limit)
	if err != nil {
		return nil, fmt.Errorf("glossary %q: %w", path, err)
	}
	return engine, nil
}

// New compiles terms into an engine.
func New(terms []Term, limit int) (*Engine, error) {
	if limit <= 0 {
		limit = defaultIterationLimit
	}
	rules := make([]rule, 0, len(terms))
	for i, term := range terms {
		compiled, err := compileTerm(term)
		if err != nil {
			return nil, fmt.Errorf("term %d: %w", i+1, err)
		}
		rules = append(rules, compiled)
	}
	return &Engine{rules: rules, limit: limit}, nil
}

// Len returns the number of compiled terms.
func (e *Engine) Len() int {
	return len(e.rules)
}

func (e *Engine) Apply(text string) (string, error) {
	if len(e.rules) == 0 || text == "" {
		return text, nil
	}

	result := text
	for i := 0; i < e.limit; i++ {
		changed := false
		for _, r := range e.rules {
			if next, ok := r.apply(result); ok {
				result = next
				changed = true
			}
		}
		if !changed {
			return result, nil
		}
	}
	return result, nil
}

func compileTerm(term Term) (rule, error) {
	from := strings.TrimSpace(term.From)
	pattern := strings.TrimSpace(term.Pattern)

	switch {
	case from != "" && pattern != "":
		return nil, errors.New("set either from or pattern, not both")
	case from != "":
		expr := `\b` + regexp.QuoteMeta(from) + `\b`
		if !term.MatchCase {
			expr = "(?i)" + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid term %q: %w", from, err)
		}
		return literalRule{re: re, to: term.To}, nil
	case pattern != "":
		if !term.MatchCase {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern: %w", err)
		}
		return patternRule{re: re, replace: term.Replace}, nil
	default:
		return nil, errors.New("term needs from or pattern")
	}
}

// literalRule replaces whole-word matches with fixed text; $ is not expanded.
type literalRule struct {
	re *regexp.Regexp
	to string
}

func (r literalRule) apply(input string) (string, bool) {
	output := r.re.ReplaceAllLiteralString(input, r.to)
	return output, output != input
}

// patternRule expands $1-style group references in the replacement.
type patternRule struct {
	re      *regexp.Regexp
	replace string
}

func (r patternRule) apply(input string) (string, bool) {
	output := r.re.ReplaceAllString(input, r.replace)
	return output, output != input
}
