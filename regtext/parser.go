package regtext

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/johnsiilver/halfpike"

	"github.com/bearlytools/binfield/mapping"
)

// parseDocument runs the halfpike parser over a schema document and returns
// the raw pieces for mapping.Compile.
func parseDocument(ctx context.Context, input string) (string, []mapping.Entry, []mapping.CompileOption, error) {
	p := &docParser{}
	if err := halfpike.Parse(ctx, input, p); err != nil {
		return "", nil, nil, err
	}
	return p.name, p.root, p.opts, nil
}

// docParser holds the state for parsing a schema document. Groups are
// parsed with an explicit stack: open holds the partially built entry list
// of every enclosing group, innermost last.
type docParser struct {
	name string
	opts []mapping.CompileOption

	root []mapping.Entry
	open []openGroup

	sawClose bool
	err      error
}

type openGroup struct {
	name       string
	start, end int
	entries    []mapping.Entry
}

// Validate implements halfpike.Validator.
func (p *docParser) Validate() error {
	return p.err
}

// Start is the entry point for halfpike parsing.
func (p *docParser) Start(_ context.Context, hp *halfpike.Parser) halfpike.ParseFn {
	p.skipCommentsAndBlank(hp)

	line := hp.Next()
	if hp.EOF(line) {
		p.err = fmt.Errorf("empty schema document")
		return nil
	}

	if len(line.Items) < 3 || line.Items[0].Val != "bitfield" {
		p.err = fmt.Errorf("[Line %d]: expected 'bitfield Name ... {'", line.LineNum)
		return nil
	}
	p.name = line.Items[1].Val

	// Everything between the name and the opening brace is the options
	// list.
	rest := strings.TrimSpace(halfpike.ItemJoin(line, 2, len(line.Items)))
	if !strings.HasSuffix(rest, "{") {
		p.err = fmt.Errorf("[Line %d]: expected '{' at end of bitfield declaration", line.LineNum)
		return nil
	}
	rest = strings.TrimSpace(strings.TrimSuffix(rest, "{"))
	if rest != "" {
		opts, err := parseOptions(rest)
		if err != nil {
			p.err = fmt.Errorf("[Line %d]: %w", line.LineNum, err)
			return nil
		}
		p.opts = opts
	}

	return p.parseFields
}

// parseFields parses field lines until the document's closing brace.
func (p *docParser) parseFields(_ context.Context, hp *halfpike.Parser) halfpike.ParseFn {
	for {
		p.skipCommentsAndBlank(hp)

		line := hp.Next()
		if hp.EOF(line) {
			if !p.sawClose || len(p.open) > 0 {
				p.err = fmt.Errorf("unexpected end of document, unclosed '{'")
			}
			return nil
		}

		if p.sawClose {
			p.err = fmt.Errorf("[Line %d]: content after closing '}'", line.LineNum)
			return nil
		}

		if line.Items[0].Val == "}" {
			p.closeScope()
			continue
		}

		if err := p.parseField(line); err != nil {
			p.err = err
			return nil
		}
	}
}

// closeScope pops the innermost group, attaching it to its enclosing scope.
// Popping the document scope itself ends the schema.
func (p *docParser) closeScope() {
	if len(p.open) == 0 {
		p.sawClose = true
		return
	}
	g := p.open[len(p.open)-1]
	p.open = p.open[:len(p.open)-1]
	p.append(mapping.Group(g.name, g.start, g.end, g.entries...))
}

// append adds an entry to the innermost open scope.
func (p *docParser) append(e mapping.Entry) {
	if len(p.open) > 0 {
		g := &p.open[len(p.open)-1]
		g.entries = append(g.entries, e)
		return
	}
	p.root = append(p.root, e)
}

// parseField parses one field line: "Name: spec" where spec is a bit
// position, a start..end range, or a range followed by '{'.
func (p *docParser) parseField(line halfpike.Line) error {
	items := line.Items
	name := items[0].Val
	specAt := 1

	// The colon may be glued to the name or stand alone.
	if strings.HasSuffix(name, ":") {
		name = strings.TrimSuffix(name, ":")
	} else if len(items) > 2 && items[1].Val == ":" {
		specAt = 2
	} else {
		return fmt.Errorf("[Line %d]: expected ':' after field name %q", line.LineNum, name)
	}
	if name == "" {
		return fmt.Errorf("[Line %d]: field with empty name", line.LineNum)
	}
	if specAt >= len(items) || items[specAt].Val == "\n" {
		return fmt.Errorf("[Line %d]: expected bit position or range after %q", line.LineNum, name)
	}

	spec := items[specAt].Val
	opensGroup := specAt+1 < len(items) && items[specAt+1].Val == "{"

	tail := specAt + 1
	if opensGroup {
		tail++
	}
	if tail < len(items) && items[tail].Val != "\n" {
		return fmt.Errorf("[Line %d]: got item %q after %q, which was unexpected",
			line.LineNum, halfpike.ItemJoin(line, tail, len(items)), spec)
	}

	if start, end, isRange, err := parseSpec(spec); err != nil {
		return fmt.Errorf("[Line %d]: field %q: %w", line.LineNum, name, err)
	} else if opensGroup {
		if !isRange {
			return fmt.Errorf("[Line %d]: field %q: a group needs a start..end range", line.LineNum, name)
		}
		p.open = append(p.open, openGroup{name: name, start: start, end: end})
	} else if isRange {
		p.append(mapping.Span(name, start, end))
	} else {
		p.append(mapping.Bit(name, start))
	}
	return nil
}

// parseSpec parses "N" or "A..B". Range semantics are not judged here;
// the mapping compiler rejects negative or inverted declarations.
func parseSpec(s string) (start, end int, isRange bool, err error) {
	if a, b, ok := strings.Cut(s, ".."); ok {
		start, err = parseInt(a)
		if err != nil {
			return 0, 0, false, err
		}
		end, err = parseInt(b)
		if err != nil {
			return 0, 0, false, err
		}
		return start, end, true, nil
	}
	start, err = parseInt(s)
	return start, 0, false, err
}

func parseInt(s string) (int, error) {
	n, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return int(n), nil
}

// skipCommentsAndBlank skips comment lines and empty lines.
func (p *docParser) skipCommentsAndBlank(hp *halfpike.Parser) {
	for {
		line := hp.Next()
		if hp.EOF(line) {
			hp.Backup()
			return
		}
		if len(line.Items) == 0 || (len(line.Items) == 1 && line.Items[0].Val == "\n") {
			continue
		}
		if strings.HasPrefix(line.Items[0].Val, "//") {
			continue
		}
		hp.Backup()
		return
	}
}

// parseOptions parses the bracketed options list of a bitfield declaration:
// [size(16), mask(0xFFFF)].
func parseOptions(s string) ([]mapping.CompileOption, error) {
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("options must be bracketed: %q", s)
	}
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")

	var out []mapping.CompileOption
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		name, rest, ok := strings.Cut(part, "(")
		if !ok || !strings.HasSuffix(rest, ")") {
			return nil, fmt.Errorf("option %q is not name(arg)", part)
		}
		arg, err := strconv.ParseUint(strings.TrimSuffix(rest, ")"), 0, 64)
		if err != nil {
			return nil, fmt.Errorf("option %q: argument is not a number", part)
		}

		switch name {
		case "size":
			out = append(out, mapping.WithSize(arg))
		case "mask":
			out = append(out, mapping.WithMask(arg))
		default:
			return nil, fmt.Errorf("unknown option %q", name)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty options list")
	}
	return out, nil
}
