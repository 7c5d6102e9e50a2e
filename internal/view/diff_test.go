package view

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/rpattn/metacat/internal/catalog"
	"github.com/rpattn/metacat/internal/domain"
)

func TestWriteGraphDiff(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	base := builtStructure(t)

	g := fixtureGraph()
	g.Namespaces[0].Description = "sales org"
	g.Namespaces = append(g.Namespaces, &domain.Namespace{
		ID: 2, Name: "ops", Created: fixtureTime, Modified: fixtureTime,
	})
	target, err := catalog.NewStructureFromGraph(g, nil)
	if err != nil {
		t.Fatalf("failed to build target: %v", err)
	}

	d, err := catalog.DiffGraphs("store", base.Graph, "stash", target.Graph)
	if err != nil {
		t.Fatalf("unexpected diff error: %v", err)
	}

	var buf bytes.Buffer
	WriteGraphDiff(&buf, d, true)
	out := buf.String()

	if !strings.Contains(out, "store to stash: 2 differences") {
		t.Errorf("expected a header, got:\n%s", out)
	}
	if !strings.Contains(out, "~ namespaces sales") {
		t.Errorf("expected a changed line, got:\n%s", out)
	}
	if !strings.Contains(out, `    -description: "sales domain"`) {
		t.Errorf("expected the old description, got:\n%s", out)
	}
	if !strings.Contains(out, `    +description: "sales org"`) {
		t.Errorf("expected the new description, got:\n%s", out)
	}
	if !strings.Contains(out, "+ namespaces ops") {
		t.Errorf("expected an added line, got:\n%s", out)
	}
}

func TestWriteGraphDiffIdentical(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	base := builtStructure(t)
	target := builtStructure(t)
	d, err := catalog.DiffGraphs("store", base.Graph, "stash", target.Graph)
	if err != nil {
		t.Fatalf("unexpected diff error: %v", err)
	}

	var buf bytes.Buffer
	WriteGraphDiff(&buf, d, true)
	if got := buf.String(); got != "✓ store and stash are identical\n" {
		t.Errorf("unexpected output: %q", got)
	}
}
