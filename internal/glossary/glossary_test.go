package glossary

import (
	"os"
	"path/filepath"
	"testing"
)

func writeGlossary(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "glossary.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("failed to write glossary: %v", err)
	}
	return path
}

func TestLoadAppliesLiteralAndPatternTerms(t *testing.T) {
	t.Parallel()

	path := writeGlossary(t, `
terms:
  - from: deep gram
    to: Deepgram
  - pattern: '(\d+) euros'
    replace: '€$1'
`)
	engine, err := Load(path, 30)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if engine.Len() != 2 {
		t.Fatalf("expected 2 terms, got %d", engine.Len())
	}

	out, err := engine.Apply("Deep Gram costs 20 euros")
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if out != "Deepgram costs €20" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestLiteralTermsMatchWholeWords(t *testing.T) {
	t.Parallel()

	engine, err := New([]Term{{From: "cat", To: "dog"}}, 0)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	out, _ := engine.Apply("the cat sat on the category")
	if out != "the dog sat on the category" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestMatchCaseIsHonoured(t *testing.T) {
	t.Parallel()

	engine, err := New([]Term{{From: "Lisbon", To: "Lisboa", MatchCase: true}}, 0)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	out, _ := engine.Apply("lisbon and Lisbon")
	if out != "lisbon and Lisboa" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestApplyIteratesUntilStable(t *testing.T) {
	t.Parallel()

	engine, err := New([]Term{{From: "a", To: "b"}, {From: "b", To: "c"}}, 5)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	out, _ := engine.Apply("a")
	if out != "c" {
		t.Fatalf("expected c, got %q", out)
	}
}

func TestApplyStopsAtIterationLimit(t *testing.T) {
	t.Parallel()

	engine, err := New([]Term{{Pattern: "x", Replace: "xx"}}, 3)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	out, _ := engine.Apply("x")
	if out != "xxxxxxxx" {
		t.Fatalf("unexpected output after limit: %q", out)
	}
}

func TestMissingOrBlankPathIsEmpty(t *testing.T) {
	t.Parallel()

	for _, path := range []string{"", filepath.Join(t.TempDir(), "missing.yaml")} {
		engine, err := Load(path, 0)
		if err != nil {
			t.Fatalf("load %q failed: %v", path, err)
		}
		out, _ := engine.Apply("unchanged")
		if out != "unchanged" || engine.Len() != 0 {
			t.Fatalf("expected pass-through, got %q", out)
		}
	}
}

func TestLoadRejectsInvalidTerms(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"both":    "terms:\n  - from: a\n    pattern: b\n",
		"neither": "terms:\n  - to: a\n",
		"regex":   "terms:\n  - pattern: '('\n",
		"yaml":    "terms: [\n",
	}
	for name, body := range cases {
		body := body
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if _, err := Load(writeGlossary(t, body), 0); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
