// Package linkcheck verifies that relative links in an exported Markdown
// tree point at files that exist.
package linkcheck

import (
	"bytes"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Broken is a relative link whose target does not exist.
type Broken struct {
	File   string // relative to the checked directory
	Line   int    // 1-based line of the enclosing block
	Target string
}

// String formats the link as file:line: target.
func (b Broken) String() string {
	return fmt.Sprintf("%s:%d: %s", b.File, b.Line, b.Target)
}

// Check parses every *.md file below dir and reports relative links and
// images whose targets are missing. External URLs and fragment-only links
// are ignored.
func Check(dir string) ([]Broken, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	md := goldmark.New()
	var broken []Broken

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".md") {
			return nil
		}

		src, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		for _, link := range links(md, src) {
			target, ok := localTarget(link.dest)
			if !ok {
				continue
			}
			if _, err := os.Stat(filepath.Join(filepath.Dir(path), target)); err == nil {
				continue
			}
			broken = append(broken, Broken{File: filepath.ToSlash(rel), Line: link.line, Target: link.dest})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return broken, nil
}

type link struct {
	dest string
	line int
}

// links returns every link and image destination in document order.
func links(md goldmark.Markdown, src []byte) []link {
	doc := md.Parser().Parse(text.NewReader(src))

	var out []link
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		var dest []byte
		switch node := n.(type) {
		case *ast.Link:
			dest = node.Destination
		case *ast.Image:
			dest = node.Destination
		default:
			return ast.WalkContinue, nil
		}
		out = append(out, link{dest: string(dest), line: lineOf(n, src)})
		return ast.WalkContinue, nil
	})
	return out
}

// lineOf finds the line of the nearest enclosing block with source lines.
func lineOf(n ast.Node, src []byte) int {
	for p := n; p != nil; p = p.Parent() {
		if p.Type() != ast.TypeBlock {
			continue
		}
		if lines := p.Lines(); lines != nil && lines.Len() > 0 {
			return bytes.Count(src[:lines.At(0).Start], []byte("\n")) + 1
		}
	}
	return 0
}

// localTarget returns the file path a relative destination refers to.
func localTarget(dest string) (string, bool) {
	if dest == "" || strings.HasPrefix(dest, "#") {
		return "", false
	}
	u, err := url.Parse(dest)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "" {
		return "", false
	}
	if strings.HasPrefix(u.Path, "/") {
		return "", false
	}
	return filepath.FromSlash(u.Path), true
}
