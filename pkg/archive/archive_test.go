package archive

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/jsb/pkg/errors"
	"github.com/matzehuels/jsb/pkg/process"
)

type entry struct {
	name string
	body string
}

// writeJar writes a zip archive holding entries; names ending in "/" become
// directory entries.
func writeJar(t *testing.T, path string, entries ...entry) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, e := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: e.name, Method: zip.Deflate})
		require.NoError(t, err)
		if e.body != "" {
			_, err = io.WriteString(w, e.body)
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// fakeRunner records argv and optionally creates the archive file.
type fakeRunner struct {
	argv     []string
	exitCode int
	seen     []string
}

func (r *fakeRunner) Run(ctx context.Context, argv []string) process.Result {
	r.argv = argv
	for i, a := range argv {
		if a == "-C" && i+1 < len(argv) {
			entries, _ := os.ReadDir(argv[i+1])
			for _, e := range entries {
				r.seen = append(r.seen, e.Name())
			}
		}
	}
	return process.Result{Argv: argv, ExitCode: r.exitCode}
}

func newAssembler(t *testing.T) *Assembler {
	t.Helper()
	root := t.TempDir()
	return &Assembler{
		OutputDir:   filepath.Join(root, "classes"),
		StagingDir:  filepath.Join(root, "lib", "classes"),
		DepDir:      filepath.Join(root, "lib"),
		ResourceDir: filepath.Join(root, "res"),
		ArchivePath: filepath.Join(root, "dist", "App.jar"),
		MainClass:   "com.example.Main",
		Archiver:    "jar",
		Runner:      &fakeRunner{},
		Logger:      log.New(io.Discard),
	}
}

func TestStageDependencies(t *testing.T) {
	a := newAssembler(t)
	jar := writeJar(t, filepath.Join(a.DepDir, "lib-1.0.jar"),
		entry{name: "META-INF/"},
		entry{name: "META-INF/MANIFEST.MF", body: "Main-Class: Other"},
		entry{name: "org/"},
		entry{name: "org/lib/"},
		entry{name: "org/lib/A.class", body: "A"},
		entry{name: "org/lib/B.class", body: "B"},
	)

	n, err := a.StageDependencies([]string{jar})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "A", readFile(t, filepath.Join(a.StagingDir, "org", "lib", "A.class")))
	assert.NoDirExists(t, filepath.Join(a.StagingDir, "META-INF"))
}

func TestStageDependenciesEmptiesStaleStaging(t *testing.T) {
	a := newAssembler(t)
	removed := writeJar(t, filepath.Join(a.DepDir, "removed-1.0.jar"), entry{name: "old/Gone.class", body: "gone"})
	kept := writeJar(t, filepath.Join(a.DepDir, "kept-1.0.jar"), entry{name: "new/Kept.class", body: "kept"})

	_, err := a.StageDependencies([]string{removed})
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(a.StagingDir, "old", "Gone.class"))

	n, err := a.StageDependencies([]string{kept})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoFileExists(t, filepath.Join(a.StagingDir, "old", "Gone.class"))
	assert.NoDirExists(t, filepath.Join(a.StagingDir, "old"))
	assert.Equal(t, "kept", readFile(t, filepath.Join(a.StagingDir, "new", "Kept.class")))
}

func TestStageDependenciesRejectsSharedStaging(t *testing.T) {
	tests := []struct {
		name    string
		staging func(a *Assembler) string
	}{
		{"archive cache", func(a *Assembler) string { return a.DepDir }},
		{"compiled output", func(a *Assembler) string { return a.OutputDir }},
		{"unset", func(a *Assembler) string { return "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newAssembler(t)
			jar := writeJar(t, filepath.Join(a.DepDir, "lib-1.0.jar"), entry{name: "A.class", body: "A"})
			a.StagingDir = tt.staging(a)

			_, err := a.StageDependencies([]string{jar})
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidPath), "got %v", err)
			assert.FileExists(t, jar)
		})
	}
}

func TestStageDependenciesMetadataPrefixIsCaseSensitive(t *testing.T) {
	a := newAssembler(t)
	jar := writeJar(t, filepath.Join(a.DepDir, "x-1.jar"),
		entry{name: "meta-inf/notes.txt", body: "kept"},
	)

	n, err := a.StageDependencies([]string{jar})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStageDependenciesLastWriterWins(t *testing.T) {
	a := newAssembler(t)
	first := writeJar(t, filepath.Join(a.DepDir, "a-1.jar"), entry{name: "shared/X.class", body: "first-longer"})
	second := writeJar(t, filepath.Join(a.DepDir, "b-1.jar"), entry{name: "shared/X.class", body: "second"})

	_, err := a.StageDependencies([]string{first, second})
	require.NoError(t, err)
	assert.Equal(t, "second", readFile(t, filepath.Join(a.StagingDir, "shared", "X.class")))
}

func TestStageDependenciesIgnoresNonArchives(t *testing.T) {
	a := newAssembler(t)
	txt := filepath.Join(a.DepDir, "README.txt")
	require.NoError(t, os.MkdirAll(a.DepDir, 0o755))
	require.NoError(t, os.WriteFile(txt, []byte("not a zip"), 0o644))

	n, err := a.StageDependencies([]string{txt})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStageDependenciesCorruptArchive(t *testing.T) {
	a := newAssembler(t)
	bad := filepath.Join(a.DepDir, "bad-1.jar")
	require.NoError(t, os.MkdirAll(a.DepDir, 0o755))
	require.NoError(t, os.WriteFile(bad, []byte("not a zip"), 0o644))

	_, err := a.StageDependencies([]string{bad})
	assert.True(t, errors.Is(err, errors.ErrCodeFilesystem))
}

func TestStageDependenciesRejectsUnsafeEntries(t *testing.T) {
	names := []string{
		"../evil.class",
		"org/../../evil.class",
		"/etc/evil.class",
		`..\evil.class`,
		"org/../../../tmp/evil/",
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			a := newAssembler(t)
			jar := writeJar(t, filepath.Join(a.DepDir, "evil-1.jar"),
				entry{name: "ok/Fine.class", body: "fine"},
				entry{name: name, body: "pwned"},
			)

			_, err := a.StageDependencies([]string{jar})
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeUnsafeArchiveEntry), "got %v", err)
			assert.Contains(t, err.Error(), "evil-1.jar")

			assert.NoFileExists(t, filepath.Join(a.DepDir, "evil.class"))
			assert.NoFileExists(t, filepath.Join(filepath.Dir(a.DepDir), "evil.class"))
		})
	}
}

func TestCopyResources(t *testing.T) {
	a := newAssembler(t)
	require.NoError(t, os.MkdirAll(filepath.Join(a.ResourceDir, "conf"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(a.ResourceDir, "app.properties"), []byte("k=v"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(a.ResourceDir, "conf", "log.xml"), []byte("<x/>"), 0o644))
	require.NoError(t, os.MkdirAll(a.OutputDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(a.OutputDir, "app.properties"), []byte("old"), 0o644))

	n, err := a.CopyResources()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "k=v", readFile(t, filepath.Join(a.OutputDir, "app.properties")))
	assert.Equal(t, "<x/>", readFile(t, filepath.Join(a.OutputDir, "conf", "log.xml")))
}

func TestCopyResourcesMissingDir(t *testing.T) {
	a := newAssembler(t)
	n, err := a.CopyResources()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCommand(t *testing.T) {
	a := &Assembler{
		OutputDir:   "classes",
		StagingDir:  "lib/classes",
		ArchivePath: "dist/App.jar",
		MainClass:   "Main",
		Archiver:    "jar",
	}
	assert.Equal(t, []string{
		"jar", "--create", "--file=dist/App.jar", "-e", "Main",
		"-C", "classes", ".", "-C", "lib/classes", ".",
	}, a.Command())
}

func TestCleanup(t *testing.T) {
	a := newAssembler(t)
	require.NoError(t, os.MkdirAll(filepath.Join(a.OutputDir, "pkg"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(a.OutputDir, "pkg", "A.class"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(a.OutputDir, "Main.class"), nil, 0o644))

	require.NoError(t, a.Cleanup())
	entries, err := os.ReadDir(a.OutputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCleanupMissingDir(t *testing.T) {
	a := newAssembler(t)
	assert.NoError(t, a.Cleanup())
}

func TestAssemble(t *testing.T) {
	a := newAssembler(t)
	runner := a.Runner.(*fakeRunner)
	require.NoError(t, os.MkdirAll(a.OutputDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(a.OutputDir, "Main.class"), []byte("main"), 0o644))
	require.NoError(t, os.MkdirAll(a.ResourceDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(a.ResourceDir, "app.properties"), []byte("k=v"), 0o644))
	jar := writeJar(t, filepath.Join(a.DepDir, "lib-1.0.jar"), entry{name: "org/lib/A.class", body: "A"})

	rep, err := a.Assemble(context.Background(), []string{jar})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Staged)
	assert.Equal(t, 1, rep.Resources)
	assert.True(t, rep.Archive.Success())
	assert.NoError(t, rep.CleanupErr)

	assert.Equal(t, a.Command(), runner.argv)
	assert.ElementsMatch(t, []string{"Main.class", "app.properties", "org"}, runner.seen)
	assert.DirExists(t, filepath.Dir(a.ArchivePath))

	entries, _ := os.ReadDir(a.OutputDir)
	assert.Empty(t, entries, "compiled output is emptied")
	assert.FileExists(t, filepath.Join(a.StagingDir, "org", "lib", "A.class"), "staging is kept")
}

func TestAssembleDefaultsToDepDir(t *testing.T) {
	a := newAssembler(t)
	writeJar(t, filepath.Join(a.DepDir, "one-1.jar"), entry{name: "one/A.class", body: "A"})
	writeJar(t, filepath.Join(a.DepDir, "two-1.jar"), entry{name: "two/B.class", body: "B"})

	rep, err := a.Assemble(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Staged)
}

func TestAssembleArchiverFailureStillCleans(t *testing.T) {
	a := newAssembler(t)
	a.Runner = &fakeRunner{exitCode: 1}
	require.NoError(t, os.MkdirAll(a.OutputDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(a.OutputDir, "Main.class"), nil, 0o644))

	rep, err := a.Assemble(context.Background(), []string{})
	require.NoError(t, err)
	assert.False(t, rep.Archive.Success())
	entries, _ := os.ReadDir(a.OutputDir)
	assert.Empty(t, entries)
}

func TestAssembleUnsafeEntryAbortsBeforeArchiver(t *testing.T) {
	a := newAssembler(t)
	runner := a.Runner.(*fakeRunner)
	require.NoError(t, os.MkdirAll(a.OutputDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(a.OutputDir, "Main.class"), nil, 0o644))
	jar := writeJar(t, filepath.Join(a.DepDir, "evil-1.jar"), entry{name: "../../x.class", body: "x"})

	_, err := a.Assemble(context.Background(), []string{jar})
	assert.True(t, errors.Is(err, errors.ErrCodeUnsafeArchiveEntry))
	assert.Nil(t, runner.argv, "archiver must not run")
	assert.FileExists(t, filepath.Join(a.OutputDir, "Main.class"), "output is left untouched")
}
