package publisher

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/dola-guide/dola-events/internal/event"
)

// DefaultArrayName is the array the site page reads its manual events from.
const DefaultArrayName = "MANUAL_EVENTS"

// ErrBoundaryNotFound is returned when the target has no `const <name> = [...];`.
var ErrBoundaryNotFound = errors.New("array boundary not found")

const (
	literalIndent = "            "
	fieldIndent   = "                "
	closingToken  = "\n        ];"
)

// Escape makes s safe inside a double-quoted JavaScript string that sits in
// an inline <script>. Backslashes are doubled, double quotes become single
// quotes and every whitespace run, line breaks included, collapses to one
// space. `<` is written as \u003c so text like </script> or <!-- cannot end
// the script block, and `];` is split so it never reads as the array's end.
func Escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `'`)
	s = strings.ReplaceAll(s, "<", `\u003c`)
	s = event.CollapseSpace(s)
	return strings.ReplaceAll(s, "];", "] ;")
}

// RenderLiteral renders e as a JavaScript object literal in the field order
// the page expects.
func RenderLiteral(e *event.Event) string {
	fields := []struct {
		key   string
		value string
	}{
		{"title", e.Title},
		{"titleEn", e.TitleEn},
		{"description", e.Description},
		{"descriptionEn", e.DescriptionEn},
		{"date", e.Date},
		{"time", e.Time},
		{"location", e.Location},
		{"image", e.Image},
		{"category", e.Category},
		{"url", e.URL},
		{"source", e.Source},
	}

	var b strings.Builder
	b.WriteString("\n" + literalIndent + "{\n")
	for _, f := range fields {
		fmt.Fprintf(&b, "%s%s: \"%s\",\n", fieldIndent, f.key, Escape(f.value))
	}
	fmt.Fprintf(&b, "%sisLive: %s\n", fieldIndent, strconv.FormatBool(e.IsLive))
	b.WriteString(literalIndent + "}")
	return b.String()
}

func arrayPattern(arrayName string) *regexp.Regexp {
	return regexp.MustCompile(`(?s)const ` + regexp.QuoteMeta(arrayName) + ` = \[(.*?)\];`)
}

// Splice appends the rendered events to the array named arrayName in content.
// Everything outside the array is returned unchanged.
func Splice(content, arrayName string, events []*event.Event) (string, error) {
	loc := arrayPattern(arrayName).FindStringSubmatchIndex(content)
	if loc == nil {
		return "", fmt.Errorf("%w: const %s", ErrBoundaryNotFound, arrayName)
	}

	existing := strings.TrimSpace(content[loc[2]:loc[3]])

	literals := make([]string, 0, len(events))
	for _, e := range events {
		literals = append(literals, RenderLiteral(e))
	}

	var b strings.Builder
	b.Grow(len(content) + len(literals)*512)
	b.WriteString(content[:loc[0]])
	fmt.Fprintf(&b, "const %s = [", arrayName)
	b.WriteString(existing)
	if existing != "" && len(literals) > 0 {
		b.WriteString(",\n")
	}
	b.WriteString(strings.Join(literals, ",\n"))
	b.WriteString(closingToken)
	b.WriteString(content[loc[1]:])

	return b.String(), nil
}

// HTMLPublisher splices events into a page on disk.
type HTMLPublisher struct {
	Path      string
	ArrayName string
}

// NewHTMLPublisher creates a publisher for the page at path
func NewHTMLPublisher(path, arrayName string) *HTMLPublisher {
	if arrayName == "" {
		arrayName = DefaultArrayName
	}
	return &HTMLPublisher{Path: path, ArrayName: arrayName}
}

// Publish reads the whole page, splices events in and replaces the page.
// The file keeps its mode and is left as it was if any step fails.
func (p *HTMLPublisher) Publish(events []*event.Event) error {
	if len(events) == 0 {
		return nil
	}

	info, err := os.Stat(p.Path)
	if err != nil {
		return fmt.Errorf("reading target: %w", err)
	}

	data, err := os.ReadFile(p.Path)
	if err != nil {
		return fmt.Errorf("reading target: %w", err)
	}

	updated, err := Splice(string(data), p.ArrayName, events)
	if err != nil {
		return err
	}

	if err := writeFileAtomic(p.Path, []byte(updated), info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing target: %w", err)
	}

	return nil
}

// writeFileAtomic writes to a sibling temp file and renames it over path.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() // nolint:errcheck
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close() // nolint:errcheck
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
