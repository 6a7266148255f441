// pkg/native/injector_test.go
package native

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheFakeLorLyons/brainflow-java/pkg/platform"
)

// failingLoader fails Open for configured paths and issues sequential
// handles otherwise.
type failingLoader struct {
	failures map[string]error
	next     Handle
	opened   []string
}

func (l *failingLoader) Open(path string) (Handle, error) {
	if err, ok := l.failures[filepath.Base(path)]; ok {
		return 0, err
	}
	l.next++
	l.opened = append(l.opened, path)
	return l.next, nil
}

func (l *failingLoader) Lookup(h Handle, symbol string) (uintptr, error) {
	return 0, errors.New("not found")
}

func (l *failingLoader) LookupDefault(symbol string) (uintptr, error) {
	return 0, errors.New("not found")
}

func TestInjectManagedArchive(t *testing.T) {
	t.Setenv(ClasspathEnv, "")

	jar := filepath.Join(t.TempDir(), "brainflow.jar")
	require.NoError(t, os.WriteFile(jar, []byte("jar-bytes"), 0644))

	in := NewInjector(&failingLoader{}, platform.OSLinux, nil)

	assert.True(t, in.InjectManagedArchive(jar))
	assert.Equal(t, jar, os.Getenv(ClasspathEnv))

	// Re-injection is a no-op, not a duplicate entry
	assert.True(t, in.InjectManagedArchive(jar))
	assert.Equal(t, jar, os.Getenv(ClasspathEnv))
}

func TestInjectManagedArchivePreservesExistingClasspath(t *testing.T) {
	sep := string(os.PathListSeparator)
	t.Setenv(ClasspathEnv, "/existing/app.jar")

	jar := filepath.Join(t.TempDir(), "brainflow.jar")
	require.NoError(t, os.WriteFile(jar, []byte("jar-bytes"), 0644))

	in := NewInjector(&failingLoader{}, platform.OSLinux, nil)
	assert.True(t, in.InjectManagedArchive(jar))
	assert.Equal(t, "/existing/app.jar"+sep+jar, os.Getenv(ClasspathEnv))
}

func TestInjectManagedArchiveMissingFile(t *testing.T) {
	t.Setenv(ClasspathEnv, "")

	in := NewInjector(&failingLoader{}, platform.OSLinux, nil)
	assert.False(t, in.InjectManagedArchive(filepath.Join(t.TempDir(), "nope.jar")))
	assert.Empty(t, os.Getenv(ClasspathEnv))
}

func TestInjectNativeLibraries(t *testing.T) {
	t.Setenv(SearchPathVar(platform.OSLinux), "")

	dir := t.TempDir()
	loader := &failingLoader{failures: map[string]error{
		"libwrong.so":   errors.New("libwrong.so: wrong ELF class: ELFCLASS32"),
		"libmissing.so": errors.New("libdep.so.1: cannot open shared object file"),
	}}
	in := NewInjector(loader, platform.OSLinux, nil)

	selection := []Candidate{
		{Path: filepath.Join(dir, "libgood.so"), Name: "libgood.so"},
		{Path: filepath.Join(dir, "libwrong.so"), Name: "libwrong.so"},
		{Path: filepath.Join(dir, "libmissing.so"), Name: "libmissing.so"},
	}

	report := in.InjectNativeLibraries(dir, selection)

	assert.Equal(t, 1, report.Loaded)
	assert.Equal(t, 2, report.Failed)
	assert.Len(t, report.Handles, 1)
	require.Len(t, report.Results, 3)

	kinds := make(map[string]FailureKind)
	for _, r := range report.Results {
		if r.Err != nil {
			kinds[filepath.Base(r.Path)] = r.Kind
		}
	}
	assert.Equal(t, FailureWrongArch, kinds["libwrong.so"])
	assert.Equal(t, FailureMissingDependency, kinds["libmissing.so"])

	// Search path fallback is applied even with partial failures
	assert.Equal(t, dir, os.Getenv(SearchPathVar(platform.OSLinux)))
}

func TestClassifyLoadError(t *testing.T) {
	tests := []struct {
		msg  string
		want FailureKind
	}{
		{"libfoo.so: wrong ELF class: ELFCLASS64", FailureWrongArch},
		{"%1 is not a valid Win32 application", FailureWrongArch},
		{"mach-o, but wrong architecture", FailureWrongArch},
		{"dlopen(libfoo.dylib): incompatible architecture (have arm64, need x86_64)", FailureWrongArch},
		{"libdep.so.5: cannot open shared object file: No such file or directory", FailureMissingDependency},
		{"dyld: Library not loaded: @rpath/libdep.dylib", FailureMissingDependency},
		{"The specified module could not be found", FailureMissingDependency},
		{"permission denied", FailureGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyLoadError(errors.New(tt.msg)))
		})
	}
}

func TestInjectionErrorMessage(t *testing.T) {
	err := &InjectionError{
		Reason:  "none of the selected libraries could be loaded",
		JarPath: "/cache/brainflow.jar",
		LibDir:  "/cache/natives/linux-x86-64",
	}
	assert.Contains(t, err.Error(), "/cache/brainflow.jar")
	assert.Contains(t, err.Error(), "/cache/natives/linux-x86-64")
	assert.Contains(t, err.Error(), "manual fallback")
}
