package project

import "fmt"

func errMissingArg(i int) error {
	return fmt.Errorf("missing argument %d", i)
}

func errUnrecognizedStepKind(kind string) error {
	return fmt.Errorf("unrecognized step kind %q", kind)
}
