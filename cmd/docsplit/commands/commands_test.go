package commands

import (
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsplit/internal/foundation/errors"
	testhelpers "git.home.luguber.info/inful/docsplit/internal/testing"
)

// run parses args like the docsplit binary and executes the selected command.
func run(t *testing.T, args ...string) error {
	t.Helper()
	cli := &CLI{}
	parser, err := kong.New(cli, kong.Name("docsplit"), kong.Vars{"version": "test"})
	require.NoError(t, err)

	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	return ctx.Run(&Global{}, cli)
}

func inputFolder(t *testing.T, files map[string]string) (in string, fa *testhelpers.FileAssertions) {
	t.Helper()
	t.Chdir(t.TempDir())
	in = filepath.Join(t.TempDir(), "manual")
	fa = testhelpers.NewFileAssertions(t, in)
	for name, body := range files {
		fa.WriteFile(name, body)
	}
	return in, fa
}

func TestSplitCommand(t *testing.T) {
	in, _ := inputFolder(t, map[string]string{
		"book.md": "Welcome\n# Intro\n![][cover]\n## Details\n# End\n",
		"cover.png": "png",
	})
	out := filepath.Join(t.TempDir(), "site")
	metricsFile := filepath.Join(t.TempDir(), "docsplit.prom")

	require.NoError(t, run(t, "split", in, "-o", out, "-j", "2", "--metrics-file", metricsFile))

	fa := testhelpers.NewFileAssertions(t, out)
	fa.AssertFileExists("index.md").
		AssertFileExists("Intro/Intro.md").
		AssertFileExists("Intro/Details.md").
		AssertFileExists("End/End.md").
		AssertFileExists("media/cover.png").
		AssertFileContains("Intro/Intro.md", "![](../media/cover.png)")

	metrics := testhelpers.NewFileAssertions(t, filepath.Dir(metricsFile))
	metrics.AssertFileContains(filepath.Base(metricsFile), `docsplit_run_outcomes_total{outcome="success"} 1`)
}

func TestSplitCommand_NoDocumentIsNotAnError(t *testing.T) {
	in, _ := inputFolder(t, map[string]string{"cover.png": "png"})
	require.NoError(t, run(t, "split", in, "-o", filepath.Join(t.TempDir(), "site")))
}

func TestSplitCommand_StrictFailsOnBrokenLinks(t *testing.T) {
	in, _ := inputFolder(t, map[string]string{"book.md": "# A\n[gone](Gone.md)\n"})

	err := run(t, "split", in, "-o", filepath.Join(t.TempDir(), "site"), "--strict")
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryBuild))

	require.NoError(t, run(t, "split", in, "-o", filepath.Join(t.TempDir(), "site"), "--strict", "--no-check"))
}

func TestSplitCommand_InvalidLogFormat(t *testing.T) {
	in, _ := inputFolder(t, map[string]string{"book.md": "# A\n"})

	err := run(t, "--log-format", "xml", "split", in)
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestSplitCommand_UsesConfigFile(t *testing.T) {
	in, _ := inputFolder(t, map[string]string{"book.md": "# A\n[b](B.md)\n# B\n"})
	out := filepath.Join(t.TempDir(), "site")
	cfgDir := testhelpers.NewFileAssertions(t, t.TempDir())
	cfgPath := cfgDir.WriteFile("docsplit.yaml", "input: "+in+"\noutput: "+out+"\npage_ext: /\nlayout: page\n")

	require.NoError(t, run(t, "-c", cfgPath, "split"))

	fa := testhelpers.NewFileAssertions(t, out)
	fa.AssertFileContains("A/A.md", "[b](B/)").
		AssertFileContains("A/A.md", "layout: page")
}

func TestTreeCommand_WritesNothing(t *testing.T) {
	in, _ := inputFolder(t, map[string]string{"book.md": "# A\n## B\n"})
	out := filepath.Join(t.TempDir(), "site")

	require.NoError(t, run(t, "tree", in, "-o", out))
	testhelpers.NewFileAssertions(t, filepath.Dir(out)).AssertFileNotExists("site")
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(t.TempDir())

	require.NoError(t, run(t, "init", "-o", dir))
	testhelpers.NewFileAssertions(t, dir).AssertFileContains("docsplit.yaml", "source_ext: .md")

	err := run(t, "init", "-o", dir)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
	require.NoError(t, run(t, "init", "-o", dir, "--force"))
}
