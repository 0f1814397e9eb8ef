package indexer

import (
	"archive/zip"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// walkClasspath scans every classpath entry, descending into directories
// and archives, and enqueues an insert event on w for each accepted
// class/method. The walker never blocks the caller beyond disk I/O; the
// writer actor drains sequentially on its own goroutine.
func walkClasspath(ctx context.Context, entries []string, includes, excludes []*regexp.Regexp, w *writerActor) error {
	for _, entry := range entries {
		info, err := os.Stat(entry)
		if err != nil {
			continue // missing classpath entries are skipped, not fatal
		}
		if info.IsDir() {
			if err := walkDir(ctx, entry, includes, excludes, w); err != nil {
				return err
			}
			continue
		}
		if isArchive(entry) {
			if err := walkArchive(ctx, entry, includes, excludes, w); err != nil {
				return err
			}
		}
	}
	return nil
}

func isArchive(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".jar" || ext == ".zip"
}

func walkDir(ctx context.Context, root string, includes, excludes []*regexp.Regexp, w *writerActor) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped
		}
		if d.IsDir() || filepath.Ext(path) != ".class" {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			return nil
		}
		defer f.Close()
		emitClass(ctx, f, path, includes, excludes, w)
		return nil
	})
}

func walkArchive(ctx context.Context, archivePath string, includes, excludes []*regexp.Regexp, w *writerActor) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil
	}
	defer zr.Close()

	for _, f := range zr.File {
		if filepath.Ext(f.Name) != ".class" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			continue
		}
		emitClass(ctx, rc, archivePath+"!"+f.Name, includes, excludes, w)
		rc.Close()
	}
	return nil
}

func emitClass(ctx context.Context, r readerLike, sourceFile string, includes, excludes []*regexp.Regexp, w *writerActor) {
	header, err := ReadClassHeaderFull(r)
	if err != nil {
		return
	}
	fqn := strings.ReplaceAll(header.ClassName, "/", ".")
	if !ValidType(fqn) {
		return
	}
	if !matchesFilters(fqn, includes, excludes) {
		return
	}
	if header.AccessFlags&AccessPublic == 0 {
		return
	}

	local := localName(fqn)
	w.Enqueue(ctx, SymbolResult{
		Name:       fqn,
		LocalName:  local,
		DeclaredAs: DeclaredClass,
	})

	for _, m := range header.Methods {
		if m.AccessFlags&AccessPublic == 0 {
			continue
		}
		if !ValidMethod(m.Name) {
			continue
		}
		w.Enqueue(ctx, SymbolResult{
			Name:       fqn + "." + m.Name,
			LocalName:  m.Name,
			DeclaredAs: DeclaredMethod,
			Owner:      fqn,
		})
	}
}

func matchesFilters(fqn string, includes, excludes []*regexp.Regexp) bool {
	for _, ex := range excludes {
		if ex.MatchString(fqn) {
			return false
		}
	}
	if len(includes) == 0 {
		return true
	}
	for _, in := range includes {
		if in.MatchString(fqn) {
			return true
		}
	}
	return false
}

func localName(fqn string) string {
	if i := strings.LastIndexByte(fqn, '.'); i >= 0 {
		return fqn[i+1:]
	}
	return fqn
}

type readerLike interface {
	Read(p []byte) (int, error)
}
