package analyzer

import (
	"context"

	"github.com/adamchandra/ensime/internal/indexer"
)

// SourcePosition locates an offset inside a source file, mirroring
// indexer.Position but kept distinct since the analyzer's notion of a
// position additionally flows through PatchSource/Completions requests that
// never touch the index.
type SourcePosition struct {
	File   string
	Offset int
}

// SourceRange is a half-open [Start, End) offset range inside one file, used
// by UsesOfSymAtPoint and SymbolDesignationsInRegion.
type SourceRange struct {
	File  string
	Start int
	End   int
}

// Completion is one entry of a Completions reply.
type Completion struct {
	Name      string
	TypeSig   string
	ToInsert  string
	Relevance int
}

// TypeInfo is the generic "info or null" reply shape for the Inspect/Type
// family of requests.
type TypeInfo struct {
	Name      string
	FullName  string
	DeclaredAs indexer.DeclaredAs
	Pos       *SourcePosition
	Members   []TypeInfo
}

// SymbolInfo is SymbolAtPoint's reply shape.
type SymbolInfo struct {
	Name     string
	LocalName string
	Type     TypeInfo
	DeclPos  *SourcePosition
}

// Designation is one entry of a SymbolDesignationsInRegion reply.
type Designation struct {
	Start int
	End   int
	Kind  string
}

// EditKind discriminates the three PatchSource edit operations.
type EditKind int

const (
	EditInsert EditKind = iota
	EditDelete
	EditReplace
)

// SourceEdit is one ordered PatchSource operation, applied as if to the
// original text (offsets are not adjusted for earlier edits in the batch).
type SourceEdit struct {
	Kind EditKind
	From int
	To   int // unused for Insert
	Text string // unused for Delete
}

// PresentationCompiler is the external incremental type-checker the
// Analyzer mediates requests to. It is out of scope for this repository;
// only the surface the Analyzer calls is specified here.
type PresentationCompiler interface {
	RemoveFile(ctx context.Context, file string) error
	ReloadAll(ctx context.Context) error
	ReloadFiles(ctx context.Context, files []string) error
	PatchSource(ctx context.Context, file string, edits []SourceEdit) error
	Completions(ctx context.Context, file string, point int, maxResults int, caseSens bool, reload bool) ([]Completion, error)
	UsesOfSymAtPoint(ctx context.Context, file string, point int) ([]SourceRange, error)
	PackageMemberCompletion(ctx context.Context, path, prefix string) ([]Completion, error)
	InspectTypeAtPoint(ctx context.Context, file string, point int) (*TypeInfo, error)
	InspectTypeByID(ctx context.Context, id int) (*TypeInfo, error)
	SymbolAtPoint(ctx context.Context, file string, point int) (*SymbolInfo, error)
	InspectPackageByPath(ctx context.Context, path string) (*TypeInfo, error)
	TypeAtPoint(ctx context.Context, file string, point int) (*TypeInfo, error)
	TypeByID(ctx context.Context, id int) (*TypeInfo, error)
	TypeByName(ctx context.Context, name string) (*TypeInfo, error)
	TypeByNameAtPoint(ctx context.Context, name, file string, point int) (*TypeInfo, error)
	CallCompletion(ctx context.Context, id int) (*TypeInfo, error)
	SymbolDesignationsInRegion(ctx context.Context, file string, start, end int, kinds []string) ([]Designation, error)
	// Run performs the full initial type-check; the Analyzer waits on it in
	// the background before opening its readiness gate.
	Run(ctx context.Context) error
	// IsTargetLanguage reports whether file belongs to the language this
	// compiler understands, used to short-circuit SymbolDesignationsInRegion
	// for files (e.g. plain Java) it cannot analyze.
	IsTargetLanguage(file string) bool
}

// JavaCompiler is the external Java-source compiler adapter; ReloadFiles
// routes .java files here instead of to the PresentationCompiler.
type JavaCompiler interface {
	ReloadFiles(ctx context.Context, files []string) error
}
