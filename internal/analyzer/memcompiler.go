package analyzer

import (
	"context"
	"os"
	"strings"
	"sync"
)

// InMemoryCompiler is a minimal PresentationCompiler: it tracks each
// tracked file's text in memory and answers completions/inspections from
// naive text scans. It exists so the router has a concrete collaborator to
// drive while wired against a real incremental type-checker is out of
// scope for this repository (spec.md §1's external collaborators).
type InMemoryCompiler struct {
	mu    sync.RWMutex
	texts map[string]string
}

// NewInMemoryCompiler constructs an empty InMemoryCompiler.
func NewInMemoryCompiler() *InMemoryCompiler {
	return &InMemoryCompiler{texts: make(map[string]string)}
}

func (c *InMemoryCompiler) Run(ctx context.Context) error { return nil }

func (c *InMemoryCompiler) IsTargetLanguage(file string) bool {
	return strings.HasSuffix(file, ".scala") || strings.HasSuffix(file, ".java")
}

func (c *InMemoryCompiler) RemoveFile(ctx context.Context, file string) error {
	c.mu.Lock()
	delete(c.texts, file)
	c.mu.Unlock()
	return nil
}

func (c *InMemoryCompiler) ReloadAll(ctx context.Context) error {
	c.mu.RLock()
	files := make([]string, 0, len(c.texts))
	for f := range c.texts {
		files = append(files, f)
	}
	c.mu.RUnlock()
	return c.ReloadFiles(ctx, files)
}

func (c *InMemoryCompiler) ReloadFiles(ctx context.Context, files []string) error {
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			continue // unreadable source is reported by RemoveFile's caller, not here
		}
		c.mu.Lock()
		c.texts[f] = string(data)
		c.mu.Unlock()
	}
	return nil
}

func (c *InMemoryCompiler) PatchSource(ctx context.Context, file string, edits []SourceEdit) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.texts[file] = ApplyEdits(c.texts[file], edits)
	return nil
}

func (c *InMemoryCompiler) text(file string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.texts[file]
}

func (c *InMemoryCompiler) Completions(ctx context.Context, file string, point, maxResults int, caseSens, reload bool) ([]Completion, error) {
	prefix := identifierBefore(c.text(file), point)
	var out []Completion
	for _, name := range wordsOf(c.text(file)) {
		if !hasPrefix(name, prefix, caseSens) || name == prefix {
			continue
		}
		out = append(out, Completion{Name: name, ToInsert: name, Relevance: 0})
		if maxResults > 0 && len(out) >= maxResults {
			break
		}
	}
	return out, nil
}

func (c *InMemoryCompiler) UsesOfSymAtPoint(ctx context.Context, file string, point int) ([]SourceRange, error) {
	sym := identifierAt(c.text(file), point)
	if sym == "" {
		return nil, nil
	}
	return findAllRanges(file, c.text(file), sym), nil
}

func (c *InMemoryCompiler) PackageMemberCompletion(ctx context.Context, path, prefix string) ([]Completion, error) {
	return nil, nil
}

func (c *InMemoryCompiler) InspectTypeAtPoint(ctx context.Context, file string, point int) (*TypeInfo, error) {
	return c.TypeAtPoint(ctx, file, point)
}

func (c *InMemoryCompiler) InspectTypeByID(ctx context.Context, id int) (*TypeInfo, error) {
	return nil, nil
}

func (c *InMemoryCompiler) SymbolAtPoint(ctx context.Context, file string, point int) (*SymbolInfo, error) {
	name := identifierAt(c.text(file), point)
	if name == "" {
		return nil, nil
	}
	return &SymbolInfo{Name: name, LocalName: name}, nil
}

func (c *InMemoryCompiler) InspectPackageByPath(ctx context.Context, path string) (*TypeInfo, error) {
	return nil, nil
}

func (c *InMemoryCompiler) TypeAtPoint(ctx context.Context, file string, point int) (*TypeInfo, error) {
	name := identifierAt(c.text(file), point)
	if name == "" {
		return nil, nil
	}
	return &TypeInfo{Name: name, FullName: name}, nil
}

func (c *InMemoryCompiler) TypeByID(ctx context.Context, id int) (*TypeInfo, error) { return nil, nil }

func (c *InMemoryCompiler) TypeByName(ctx context.Context, name string) (*TypeInfo, error) {
	return &TypeInfo{Name: name, FullName: name}, nil
}

func (c *InMemoryCompiler) TypeByNameAtPoint(ctx context.Context, name, file string, point int) (*TypeInfo, error) {
	return c.TypeByName(ctx, name)
}

func (c *InMemoryCompiler) CallCompletion(ctx context.Context, id int) (*TypeInfo, error) {
	return nil, nil
}

func (c *InMemoryCompiler) SymbolDesignationsInRegion(ctx context.Context, file string, start, end int, kinds []string) ([]Designation, error) {
	return []Designation{}, nil
}

func identifierAt(text string, point int) string {
	if point < 0 || point > len(text) {
		return ""
	}
	start, end := point, point
	for start > 0 && isIdentByte(text[start-1]) {
		start--
	}
	for end < len(text) && isIdentByte(text[end]) {
		end++
	}
	return text[start:end]
}

func identifierBefore(text string, point int) string {
	if point < 0 || point > len(text) {
		return ""
	}
	start := point
	for start > 0 && isIdentByte(text[start-1]) {
		start--
	}
	return text[start:point]
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func wordsOf(text string) []string {
	var out []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	for i := 0; i < len(text); i++ {
		if isIdentByte(text[i]) {
			cur.WriteByte(text[i])
		} else {
			flush()
		}
	}
	flush()
	return out
}

func hasPrefix(s, prefix string, caseSens bool) bool {
	if caseSens {
		return strings.HasPrefix(s, prefix)
	}
	return strings.HasPrefix(strings.ToLower(s), strings.ToLower(prefix))
}

func findAllRanges(file, text, sym string) []SourceRange {
	var out []SourceRange
	for i := 0; i+len(sym) <= len(text); i++ {
		if text[i:i+len(sym)] != sym {
			continue
		}
		if i > 0 && isIdentByte(text[i-1]) {
			continue
		}
		end := i + len(sym)
		if end < len(text) && isIdentByte(text[end]) {
			continue
		}
		out = append(out, SourceRange{File: file, Start: i, End: end})
	}
	return out
}
