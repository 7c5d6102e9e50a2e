package catalog

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/rpattn/metacat/internal/domain"
)

// DiffStatus labels how an entity differs between two graphs.
type DiffStatus string

const (
	DiffAdded   DiffStatus = "added"
	DiffRemoved DiffStatus = "removed"
	DiffChanged DiffStatus = "changed"
)

// DiffEntry is one differing entity. Changed entries carry a line diff of
// the canonical field rendering; added and removed entries carry identity
// only.
type DiffEntry struct {
	Collection domain.Collection
	ID         int
	Key        string
	Status     DiffStatus
	Diff       string
}

// GraphDiff is every difference between a base and a target graph, in
// collection build order and then id order.
type GraphDiff struct {
	BaseLabel   string
	TargetLabel string
	Entries     []DiffEntry
}

// Empty reports whether the two graphs agreed on every entity.
func (d *GraphDiff) Empty() bool { return len(d.Entries) == 0 }

// DiffGraphs compares two graphs entity by entity in their persisted shape:
// derived compound keys are ignored, references compare in id form. Entities
// pair up by id within their collection.
func DiffGraphs(baseLabel string, base *domain.Graph, targetLabel string, target *domain.Graph) (*GraphDiff, error) {
	d := &GraphDiff{BaseLabel: baseLabel, TargetLabel: targetLabel}
	for _, c := range domain.Collections {
		baseByID := entitiesByID(base, c)
		targetByID := entitiesByID(target, c)

		ids := make([]int, 0, len(baseByID)+len(targetByID))
		for id := range baseByID {
			ids = append(ids, id)
		}
		for id := range targetByID {
			if _, ok := baseByID[id]; !ok {
				ids = append(ids, id)
			}
		}
		sort.Ints(ids)

		for _, id := range ids {
			b, inBase := baseByID[id]
			t, inTarget := targetByID[id]
			switch {
			case !inTarget:
				d.Entries = append(d.Entries, DiffEntry{
					Collection: c, ID: id, Key: b.EntityKey(), Status: DiffRemoved,
				})
			case !inBase:
				d.Entries = append(d.Entries, DiffEntry{
					Collection: c, ID: id, Key: t.EntityKey(), Status: DiffAdded,
				})
			default:
				baseLines, err := canonicalLines(b)
				if err != nil {
					return nil, err
				}
				targetLines, err := canonicalLines(t)
				if err != nil {
					return nil, err
				}
				if linesEqual(baseLines, targetLines) {
					continue
				}
				d.Entries = append(d.Entries, DiffEntry{
					Collection: c,
					ID:         id,
					Key:        t.EntityKey(),
					Status:     DiffChanged,
					Diff:       renderLineDiff(diffLines(baseLines, targetLines)),
				})
			}
		}
	}
	return d, nil
}

func entitiesByID(g *domain.Graph, c domain.Collection) map[int]domain.Entity {
	out := make(map[int]domain.Entity)
	if g == nil {
		return out
	}
	for _, e := range g.Entities(c) {
		out[e.EntityID()] = e
	}
	return out
}

// canonicalLines flattens an entity's persisted record into deterministic
// "field: value" lines, nested values under dotted keys, list elements under
// indexed keys.
func canonicalLines(e domain.Entity) ([]string, error) {
	raw, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s %d: %w", e.Collection(), e.EntityID(), err)
	}
	var rec domain.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("failed to render %s %d: %w", e.Collection(), e.EntityID(), err)
	}
	delete(rec, "compound_key")

	flat := map[string]string{}
	if err := flattenFields("", map[string]any(rec), flat); err != nil {
		return nil, fmt.Errorf("failed to render %s %d: %w", e.Collection(), e.EntityID(), err)
	}

	keys := make([]string, 0, len(flat))
	for key := range flat {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		lines = append(lines, fmt.Sprintf("%s: %s", key, flat[key]))
	}
	return lines, nil
}

func flattenFields(prefix string, value any, acc map[string]string) error {
	switch typed := value.(type) {
	case map[string]any:
		if len(typed) == 0 {
			if prefix != "" {
				acc[prefix] = "{}"
			}
			return nil
		}
		for key, nested := range typed {
			next := key
			if prefix != "" {
				next = prefix + "." + key
			}
			if err := flattenFields(next, nested, acc); err != nil {
				return err
			}
		}
	case []any:
		if len(typed) == 0 {
			if prefix != "" {
				acc[prefix] = "[]"
			}
			return nil
		}
		for idx, item := range typed {
			if err := flattenFields(fmt.Sprintf("%s[%d]", prefix, idx), item, acc); err != nil {
				return err
			}
		}
	case nil:
		if prefix != "" {
			acc[prefix] = "null"
		}
	default:
		if prefix == "" {
			return fmt.Errorf("field name missing for value %v", typed)
		}
		encoded, err := json.Marshal(typed)
		if err != nil {
			acc[prefix] = fmt.Sprintf("%v", typed)
		} else {
			acc[prefix] = string(encoded)
		}
	}
	return nil
}

func linesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func renderLineDiff(ops []diffOp) string {
	var builder strings.Builder
	for _, op := range ops {
		builder.WriteString(op.prefix)
		builder.WriteString(op.line)
		builder.WriteString("\n")
	}
	return builder.String()
}

type diffOp struct {
	prefix string
	line   string
}

// diffLines walks a longest-common-subsequence table over the two line sets,
// emitting unchanged lines with a space prefix, removals with "-", and
// additions with "+".
func diffLines(base, target []string) []diffOp {
	m := len(base)
	n := len(target)
	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
	}

	for i := m - 1; i >= 0; i-- {
		for j := n - 1; j >= 0; j-- {
			if base[i] == target[j] {
				dp[i][j] = dp[i+1][j+1] + 1
			} else if dp[i+1][j] >= dp[i][j+1] {
				dp[i][j] = dp[i+1][j]
			} else {
				dp[i][j] = dp[i][j+1]
			}
		}
	}

	ops := make([]diffOp, 0, m+n)
	i, j := 0, 0
	for i < m && j < n {
		if base[i] == target[j] {
			ops = append(ops, diffOp{prefix: " ", line: base[i]})
			i++
			j++
			continue
		}
		if dp[i+1][j] >= dp[i][j+1] {
			ops = append(ops, diffOp{prefix: "-", line: base[i]})
			i++
		} else {
			ops = append(ops, diffOp{prefix: "+", line: target[j]})
			j++
		}
	}
	for i < m {
		ops = append(ops, diffOp{prefix: "-", line: base[i]})
		i++
	}
	for j < n {
		ops = append(ops, diffOp{prefix: "+", line: target[j]})
		j++
	}
	return ops
}
