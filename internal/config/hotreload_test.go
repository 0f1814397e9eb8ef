package config

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClasspathChangedNilPreviousIsAlwaysChanged(t *testing.T) {
	require.True(t, classpathChanged(nil, &Config{}))
}

func TestClasspathChangedDetectsJarDiff(t *testing.T) {
	prev := &Config{CompileJars: []string{"a.jar", "b.jar"}}
	same := &Config{CompileJars: []string{"b.jar", "a.jar"}}
	require.False(t, classpathChanged(prev, same), "reordering a jar list is not a change")

	changed := &Config{CompileJars: []string{"a.jar", "c.jar"}}
	require.True(t, classpathChanged(prev, changed))
}

func TestClasspathChangedDetectsIncludeExcludePatternDiff(t *testing.T) {
	prev := &Config{OnlyIncludeInIndex: []*regexp.Regexp{regexp.MustCompile("^com/foo")}}
	same := &Config{OnlyIncludeInIndex: []*regexp.Regexp{regexp.MustCompile("^com/foo")}}
	require.False(t, classpathChanged(prev, same))

	changed := &Config{OnlyIncludeInIndex: []*regexp.Regexp{regexp.MustCompile("^com/bar")}}
	require.True(t, classpathChanged(prev, changed))
}

func TestClasspathChangedIgnoresSourceRootDiff(t *testing.T) {
	prev := &Config{SourceRoots: []string{"src/main/java"}}
	next := &Config{SourceRoots: []string{"src/main/scala"}}
	require.False(t, classpathChanged(prev, next), "source roots don't feed the ClasspathSpec")
}

func TestSourceRootsChangedNilPreviousIsAlwaysChanged(t *testing.T) {
	require.True(t, sourceRootsChanged(nil, &Config{}))
}

func TestSourceRootsChangedDetectsDiff(t *testing.T) {
	prev := &Config{SourceRoots: []string{"src/main/java"}, ReferenceSourceRoots: []string{"lib/src"}}
	same := &Config{SourceRoots: []string{"src/main/java"}, ReferenceSourceRoots: []string{"lib/src"}}
	require.False(t, sourceRootsChanged(prev, same))

	changedRef := &Config{SourceRoots: []string{"src/main/java"}, ReferenceSourceRoots: []string{"lib/other"}}
	require.True(t, sourceRootsChanged(prev, changedRef))

	changedSrc := &Config{SourceRoots: []string{"src/main/java", "src/gen"}, ReferenceSourceRoots: []string{"lib/src"}}
	require.True(t, sourceRootsChanged(prev, changedSrc))
}

func TestSourceRootsChangedIgnoresClasspathDiff(t *testing.T) {
	prev := &Config{CompileJars: []string{"a.jar"}}
	next := &Config{CompileJars: []string{"b.jar"}}
	require.False(t, sourceRootsChanged(prev, next), "jars don't feed the analyzer's source roots")
}
