package analyzer

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/adamchandra/ensime/internal/indexer"
)

// RemoveFile drops file from the presentation compiler's tracked set.
func (a *Analyzer) RemoveFile(ctx context.Context, file string) (bool, error) {
	if err := a.notReady(); err != nil {
		return false, err
	}
	return post(ctx, a, func() (bool, error) {
		if err := a.pc.RemoveFile(ctx, file); err != nil {
			return false, err
		}
		return true, nil
	})
}

// ReloadAll re-kicks a full reload of every tracked source.
func (a *Analyzer) ReloadAll(ctx context.Context) (bool, error) {
	if err := a.notReady(); err != nil {
		return false, err
	}
	return post(ctx, a, func() (bool, error) {
		if err := a.pc.ReloadAll(ctx); err != nil {
			return false, err
		}
		return true, nil
	})
}

// ReloadFiles routes .java files to the Java compiler and everything else
// to the presentation compiler.
func (a *Analyzer) ReloadFiles(ctx context.Context, files []string) (bool, error) {
	if err := a.notReady(); err != nil {
		return false, err
	}
	return post(ctx, a, func() (bool, error) {
		var javaFiles, otherFiles []string
		for _, f := range files {
			if strings.EqualFold(filepath.Ext(f), ".java") {
				javaFiles = append(javaFiles, f)
			} else {
				otherFiles = append(otherFiles, f)
			}
		}
		if len(javaFiles) > 0 && a.jc != nil {
			if err := a.jc.ReloadFiles(ctx, javaFiles); err != nil {
				return false, err
			}
		}
		if len(otherFiles) > 0 {
			if err := a.pc.ReloadFiles(ctx, otherFiles); err != nil {
				return false, err
			}
		}
		return true, nil
	})
}

// PatchSource applies edits, in order, as if to the original text.
func (a *Analyzer) PatchSource(ctx context.Context, file string, edits []SourceEdit) (bool, error) {
	if err := a.notReady(); err != nil {
		return false, err
	}
	return post(ctx, a, func() (bool, error) {
		if err := a.pc.PatchSource(ctx, file, edits); err != nil {
			return false, err
		}
		return true, nil
	})
}

func (a *Analyzer) Completions(ctx context.Context, file string, point, maxResults int, caseSens, reload bool) ([]Completion, error) {
	if err := a.notReady(); err != nil {
		return nil, err
	}
	return post(ctx, a, func() ([]Completion, error) {
		return a.pc.Completions(ctx, file, point, maxResults, caseSens, reload)
	})
}

func (a *Analyzer) UsesOfSymAtPoint(ctx context.Context, file string, point int) ([]SourceRange, error) {
	if err := a.notReady(); err != nil {
		return nil, err
	}
	return post(ctx, a, func() ([]SourceRange, error) {
		return a.pc.UsesOfSymAtPoint(ctx, file, point)
	})
}

func (a *Analyzer) PackageMemberCompletion(ctx context.Context, path, prefix string) ([]Completion, error) {
	if err := a.notReady(); err != nil {
		return nil, err
	}
	return post(ctx, a, func() ([]Completion, error) {
		return a.pc.PackageMemberCompletion(ctx, path, prefix)
	})
}

func (a *Analyzer) InspectTypeAtPoint(ctx context.Context, file string, point int) (*TypeInfo, error) {
	if err := a.notReady(); err != nil {
		return nil, err
	}
	return post(ctx, a, func() (*TypeInfo, error) {
		return a.pc.InspectTypeAtPoint(ctx, file, point)
	})
}

func (a *Analyzer) InspectTypeByID(ctx context.Context, id int) (*TypeInfo, error) {
	if err := a.notReady(); err != nil {
		return nil, err
	}
	return post(ctx, a, func() (*TypeInfo, error) {
		return a.pc.InspectTypeByID(ctx, id)
	})
}

func (a *Analyzer) SymbolAtPoint(ctx context.Context, file string, point int) (*SymbolInfo, error) {
	if err := a.notReady(); err != nil {
		return nil, err
	}
	return post(ctx, a, func() (*SymbolInfo, error) {
		return a.pc.SymbolAtPoint(ctx, file, point)
	})
}

func (a *Analyzer) InspectPackageByPath(ctx context.Context, path string) (*TypeInfo, error) {
	if err := a.notReady(); err != nil {
		return nil, err
	}
	return post(ctx, a, func() (*TypeInfo, error) {
		return a.pc.InspectPackageByPath(ctx, path)
	})
}

func (a *Analyzer) TypeAtPoint(ctx context.Context, file string, point int) (*TypeInfo, error) {
	if err := a.notReady(); err != nil {
		return nil, err
	}
	return post(ctx, a, func() (*TypeInfo, error) {
		return a.pc.TypeAtPoint(ctx, file, point)
	})
}

func (a *Analyzer) TypeByID(ctx context.Context, id int) (*TypeInfo, error) {
	if err := a.notReady(); err != nil {
		return nil, err
	}
	return post(ctx, a, func() (*TypeInfo, error) {
		return a.pc.TypeByID(ctx, id)
	})
}

func (a *Analyzer) TypeByName(ctx context.Context, name string) (*TypeInfo, error) {
	if err := a.notReady(); err != nil {
		return nil, err
	}
	return post(ctx, a, func() (*TypeInfo, error) {
		return a.pc.TypeByName(ctx, name)
	})
}

func (a *Analyzer) TypeByNameAtPoint(ctx context.Context, name, file string, point int) (*TypeInfo, error) {
	if err := a.notReady(); err != nil {
		return nil, err
	}
	return post(ctx, a, func() (*TypeInfo, error) {
		return a.pc.TypeByNameAtPoint(ctx, name, file, point)
	})
}

func (a *Analyzer) CallCompletion(ctx context.Context, id int) (*TypeInfo, error) {
	if err := a.notReady(); err != nil {
		return nil, err
	}
	return post(ctx, a, func() (*TypeInfo, error) {
		return a.pc.CallCompletion(ctx, id)
	})
}

// SymbolDesignationsInRegion returns an empty designation list, rather than
// an error, for files the presentation compiler doesn't own (e.g. plain
// Java sources).
func (a *Analyzer) SymbolDesignationsInRegion(ctx context.Context, file string, start, end int, kinds []string) ([]Designation, error) {
	if err := a.notReady(); err != nil {
		return nil, err
	}
	return post(ctx, a, func() ([]Designation, error) {
		if !a.pc.IsTargetLanguage(file) {
			return []Designation{}, nil
		}
		return a.pc.SymbolDesignationsInRegion(ctx, file, start, end, kinds)
	})
}

// ImportSuggestions forwards verbatim to the indexer, per spec.md §4.3.
func (a *Analyzer) ImportSuggestions(ctx context.Context, typeNames []string, limit int) (map[string][]indexer.ImportSuggestion, error) {
	if err := a.notReady(); err != nil {
		return nil, err
	}
	return post(ctx, a, func() (map[string][]indexer.ImportSuggestion, error) {
		return a.idx.ImportSuggestions(typeNames, limit), nil
	})
}

// PublicSymbolSearch forwards verbatim to the indexer, per spec.md §4.3.
func (a *Analyzer) PublicSymbolSearch(ctx context.Context, keywords []string, limit int, typesOnly bool) ([]indexer.SymbolResult, error) {
	if err := a.notReady(); err != nil {
		return nil, err
	}
	return post(ctx, a, func() ([]indexer.SymbolResult, error) {
		return a.idx.KeywordSearch(keywords, limit, typesOnly), nil
	})
}
