package indexer

import "strings"

// ValidType reports whether a binary class name should be indexed: a "$"
// appears either not at all, or only as the final character (this lets
// terminal-$ object markers through while excluding synthetic inner and
// companion classes).
func ValidType(name string) bool {
	idx := strings.IndexByte(name, '$')
	if idx < 0 {
		return true
	}
	return idx == len(name)-1
}

// ValidMethod reports whether a method name should be indexed: no "$", and
// not a constructor/initializer name.
func ValidMethod(name string) bool {
	if strings.ContainsRune(name, '$') {
		return false
	}
	return name != "<init>" && name != "this"
}
