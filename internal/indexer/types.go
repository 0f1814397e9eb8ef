package indexer

// DeclaredAs is the kind of a type declaration.
type DeclaredAs string

const (
	DeclaredClass  DeclaredAs = "class"
	DeclaredTrait  DeclaredAs = "trait"
	DeclaredObject DeclaredAs = "object"
	DeclaredMethod DeclaredAs = "method"
)

// DocType discriminates the two shapes an IndexDocument can take.
type DocType string

const (
	DocTypeType   DocType = "type"
	DocTypeMethod DocType = "method"
)

// Position locates an offset inside a source file.
type Position struct {
	File   string
	Offset int
}

// SymbolResult is the tagged-variant search result: a Type, or a Method
// which additionally carries its owner's fully-qualified name.
type SymbolResult struct {
	Name       string
	LocalName  string
	DeclaredAs DeclaredAs
	Pos        *Position // nil when unknown
	Owner      string     // only set when DeclaredAs == DeclaredMethod
}

func (r SymbolResult) docType() DocType {
	if r.DeclaredAs == DeclaredMethod {
		return DocTypeMethod
	}
	return DocTypeType
}

// IndexDocument is the persisted, tokenized form of a SymbolResult.
type IndexDocument struct {
	SymbolResult
	DocType       DocType
	Tags          string // tokenized `Name`
	LocalNameTags string // tokenized `LocalName`
}

// NewIndexDocument tokenizes r into its persisted document form.
func NewIndexDocument(r SymbolResult) IndexDocument {
	return IndexDocument{
		SymbolResult:  r,
		DocType:       r.docType(),
		Tags:          Tokenize(r.Name),
		LocalNameTags: Tokenize(r.LocalName),
	}
}

// UserMetadata is committed atomically with every index write.
type UserMetadata struct {
	IndexVersion int
	FileHashes   map[string]string // absolute path -> content-hash hex
}

// IndexVersion is bumped whenever the on-disk document schema changes in a
// way that is not backward compatible, forcing a rebuild of older indexes.
const IndexVersion = 1
