package debug

import "github.com/adamchandra/ensime/internal/jdwp"

// signatureTag returns the JDWP value tag a JVM type signature decodes
// to: primitives map to their own letter, everything else (L...; or
// [...) is an object reference.
func signatureTag(sig string) byte {
	if sig == "" {
		return jdwp.TagObject
	}
	switch sig[0] {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z', '[':
		if sig[0] == '[' {
			return jdwp.TagArray
		}
		return sig[0]
	case 'L':
		if sig == "Ljava/lang/String;" {
			return jdwp.TagString
		}
		return jdwp.TagObject
	default:
		return jdwp.TagObject
	}
}

// isBoxedReferenceCell reports whether typeName is one of the standard-library reference-cell
// wrapper types (e.g. scala.runtime.ObjectRef, scala.runtime.IntRef) whose
// value summary dereferences through their `elem` field rather than
// printing "Instance of ...".
func isBoxedReferenceCell(typeName string) bool {
	return referenceCellRE.MatchString(typeName)
}
