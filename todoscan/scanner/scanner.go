// Package scanner finds TODO, FIXME and BUG comments in a source tree.
package scanner

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Extensions scanned by default.
var DefaultExtensions = []string{
	".go",
	".js", ".jsx",
	".py",
	".java",
	".cpp", ".c", ".h",
	".php",
	".html",
	".txt",
}

// one pattern per comment style; the keyword must be followed by ':' or whitespace
var patterns = func() []*regexp.Regexp {
	var out []*regexp.Regexp
	for _, kw := range []string{"TODO", "FIXME", "BUG"} {
		out = append(out,
			regexp.MustCompile(`(?i)//\s*`+kw+`[:\s](.+)`),
			regexp.MustCompile(`(?i)/\*\s*`+kw+`[:\s](.+?)\*/`),
			regexp.MustCompile(`(?i)#\s*`+kw+`[:\s](.+)`),
			regexp.MustCompile(`(?i)<!--\s*`+kw+`[:\s](.+?)-->`),
		)
	}
	return out
}()

var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
}

type Finding struct {
	File    string // relative to the scanned root, slash separated
	Line    int
	Comment string
}

// Title is the comment itself, cut to fit a task title.
func (f Finding) Title(max int) string {
	r := []rune(f.Comment)
	if len(r) <= max {
		return f.Comment
	}
	return string(r[:max])
}

func (f Finding) Description() string {
	return fmt.Sprintf("In file %s at line %d", f.File, f.Line)
}

type Scanner struct {
	exts map[string]bool
}

func New(extensions ...string) *Scanner {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	exts := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		exts[strings.ToLower(e)] = true
	}
	return &Scanner{exts: exts}
}

// Scan walks root and returns findings in walk order (lexical by path, then by line).
func (s *Scanner) Scan(ctx context.Context, root string) ([]Finding, error) {
	var out []Finding

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if path != root && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !s.exts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		found, err := scanFile(path, filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		out = append(out, found...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	return out, nil
}

func scanFile(path, rel string) ([]Finding, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []Finding
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for n := 1; sc.Scan(); n++ {
		out = append(out, ScanLine(sc.Text(), rel, n)...)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", rel, err)
	}
	return out, nil
}

// ScanLine returns every comment match on a single line.
func ScanLine(line, file string, n int) []Finding {
	var out []Finding
	for _, re := range patterns {
		for _, m := range re.FindAllString(line, -1) {
			out = append(out, Finding{File: file, Line: n, Comment: strings.TrimSpace(m)})
		}
	}
	return out
}
