// SPDX-License-Identifier: EPL-2.0

package sfz

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

const maxIncludeDepth = 32

type tokenKind int

const (
	tokenHeader tokenKind = iota
	tokenOpcode
)

type token struct {
	kind  tokenKind
	name  string
	value string
	file  string
	line  int
}

// A value runs from after "name=" up to the next header or opcode name.
var tokenRE = regexp.MustCompile(`<([^<>]*)>|([A-Za-z0-9_]+)=`)

type lexer struct {
	root    string // directory of the top-level file
	defines map[string]string
	names   []string // define names, longest first
	tokens  []token
	readFn  func(string) ([]byte, error)
	statFn  func(string) (os.FileInfo, error)
}

func newLexer(root string) *lexer {
	return &lexer{
		root:    root,
		defines: make(map[string]string),
		readFn:  os.ReadFile,
		statFn:  os.Stat,
	}
}

func (lx *lexer) includeFile(path string, depth int) error {
	if depth > maxIncludeDepth {
		return ErrIncludeDepth
	}

	data, err := lx.readFn(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	return lx.lex(string(data), path, depth)
}

// lex tokenizes one source text, expanding directives inline.
func (lx *lexer) lex(text, file string, depth int) error {
	text, openLine, err := stripComments(text)
	if err != nil {
		return &ParseError{File: file, Line: openLine, Err: err}
	}

	for i, line := range strings.Split(text, "\n") {
		lineNo := i + 1

		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "#") {
			if err := lx.directive(line, file, lineNo, depth); err != nil {
				return err
			}
			continue
		}

		if err := lx.lexLine(lx.expand(line), file, lineNo); err != nil {
			return err
		}
	}

	return nil
}

func (lx *lexer) directive(line, file string, lineNo, depth int) error {
	fields := strings.Fields(line)

	switch fields[0] {
	case "#define":
		if len(fields) < 3 || !strings.HasPrefix(fields[1], "$") {
			return &ParseError{File: file, Line: lineNo, Err: ErrBadDirective}
		}
		name := fields[1]
		value := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line[len("#define"):]), name))
		lx.define(name, value)
		return nil

	case "#include":
		arg := strings.TrimSpace(line[len("#include"):])
		if len(arg) < 2 || arg[0] != '"' || arg[len(arg)-1] != '"' {
			return &ParseError{File: file, Line: lineNo, Err: ErrBadDirective}
		}

		name := filepath.FromSlash(strings.ReplaceAll(lx.expand(arg[1:len(arg)-1]), `\`, "/"))

		if err := lx.includeFile(lx.locate(name, file), depth+1); err != nil {
			if _, ok := err.(*ParseError); ok {
				return err
			}
			return &ParseError{File: file, Line: lineNo, Err: err}
		}
		return nil
	}

	return &ParseError{File: file, Line: lineNo, Err: fmt.Errorf("%w: %s", ErrBadDirective, fields[0])}
}

// locate resolves an #include target next to the including file, then
// next to the top-level file.
func (lx *lexer) locate(name, from string) string {
	if filepath.IsAbs(name) {
		return name
	}

	local := filepath.Join(filepath.Dir(from), name)
	if filepath.Dir(from) == lx.root {
		return local
	}
	if _, err := lx.statFn(local); err == nil {
		return local
	}
	return filepath.Join(lx.root, name)
}

func (lx *lexer) define(name, value string) {
	if _, ok := lx.defines[name]; !ok {
		lx.names = append(lx.names, name)
		// $FOO must not be replaced inside $FOOBAR.
		sort.SliceStable(lx.names, func(i, j int) bool {
			return len(lx.names[i]) > len(lx.names[j])
		})
	}
	lx.defines[name] = value
}

func (lx *lexer) expand(s string) string {
	if len(lx.names) == 0 || !strings.Contains(s, "$") {
		return s
	}
	for _, name := range lx.names {
		s = strings.ReplaceAll(s, name, lx.defines[name])
	}
	return s
}

func (lx *lexer) lexLine(line, file string, lineNo int) error {
	matches := tokenRE.FindAllStringSubmatchIndex(line, -1)

	for i := 0; i < len(matches); i++ {
		m := matches[i]

		if m[2] >= 0 {
			name := strings.TrimSpace(line[m[2]:m[3]])
			if name == "" || strings.ContainsAny(name, " \t") {
				return &ParseError{File: file, Line: lineNo, Err: fmt.Errorf("%w: <%s>", ErrBadHeader, name)}
			}
			lx.tokens = append(lx.tokens, token{kind: tokenHeader, name: strings.ToLower(name), file: file, line: lineNo})
			continue
		}

		name := line[m[4]:m[5]]

		next := i + 1
		if name == "sample" {
			for next < len(matches) && samplePathContinues(line[m[1]:matches[next][0]], line, matches[next]) {
				next++
			}
		}

		end := len(line)
		if next < len(matches) {
			end = matches[next][0]
		}

		lx.tokens = append(lx.tokens, token{
			kind:  tokenOpcode,
			name:  name,
			value: strings.TrimSpace(line[m[1]:end]),
			file:  file,
			line:  lineNo,
		})
		i = next - 1
	}

	return nil
}

var sampleExts = map[string]bool{
	".wav": true, ".wave": true, ".flac": true, ".ogg": true,
	".aif": true, ".aiff": true, ".mp3": true,
}

// samplePathContinues reports whether the name= match m belongs to a sample
// file name whose text so far is value.
func samplePathContinues(value, line string, m []int) bool {
	if m[4] < 0 || knownOpcodes[line[m[4]:m[5]]] {
		return false
	}

	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, "*") {
		return false
	}
	return !sampleExts[strings.ToLower(path.Ext(value))]
}

// stripComments blanks // and /* */ comments in one pass, keeping newlines
// so line numbers survive. Whichever opener comes first wins. For an
// unterminated block comment it reports the line the comment opened on.
func stripComments(text string) (string, int, error) {
	if !strings.Contains(text, "/") {
		return text, 0, nil
	}

	var b strings.Builder
	b.Grow(len(text))

	line := 1
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == '\n' {
			line++
		}
		if c != '/' || i+1 >= len(text) {
			b.WriteByte(c)
			continue
		}

		switch text[i+1] {
		case '/':
			end := strings.IndexByte(text[i:], '\n')
			if end < 0 {
				return b.String(), 0, nil
			}
			i += end - 1

		case '*':
			end := strings.Index(text[i+2:], "*/")
			if end < 0 {
				return b.String(), line, ErrUnterminatedComment
			}
			body := text[i+2 : i+2+end]
			n := strings.Count(body, "\n")
			b.WriteString(strings.Repeat("\n", n))
			b.WriteByte(' ')
			line += n
			i += end + 3

		default:
			b.WriteByte(c)
		}
	}

	return b.String(), 0, nil
}
