package emitter

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsplit/internal/docmodel"
	"git.home.luguber.info/inful/docsplit/internal/foundation/errors"
	"git.home.luguber.info/inful/docsplit/internal/markdown"
	testhelpers "git.home.luguber.info/inful/docsplit/internal/testing"
)

type pageMeta struct {
	Title      string `yaml:"title"`
	Layout     string `yaml:"layout"`
	NavEnabled bool   `yaml:"nav_enabled"`
	NavOrder   int    `yaml:"nav_order"`
	Parent     string `yaml:"parent"`
	HasTOC     *bool  `yaml:"has_toc"`
}

func build(lines ...string) *docmodel.Tree {
	return docmodel.Build(lines, docmodel.BuildOptions{})
}

func emit(t *testing.T, tree *docmodel.Tree, opts Options) (*Result, *testhelpers.FileAssertions) {
	t.Helper()
	if opts.OutputDir == "" {
		opts.OutputDir = t.TempDir()
	}
	res, err := New(opts).Emit(context.Background(), tree)
	require.NoError(t, err)
	return res, testhelpers.NewFileAssertions(t, opts.OutputDir)
}

func TestEmit_IntroSubScenario(t *testing.T) {
	tree := build("# Intro", "Hello", "## Sub", "World")
	res, fa := emit(t, tree, Options{})

	require.Equal(t, []string{"index.md", "Intro/Intro.md", "Intro/Sub.md"}, res.Written)
	require.Empty(t, res.Failures)

	var sub pageMeta
	body := fa.FrontMatter("Intro/Sub.md", &sub)
	require.Equal(t, "Sub", sub.Title)
	require.Equal(t, "Intro", sub.Parent)
	require.Equal(t, "default", sub.Layout)
	require.True(t, sub.NavEnabled)
	require.Equal(t, 2, sub.NavOrder)
	require.NotNil(t, sub.HasTOC)
	require.False(t, *sub.HasTOC)
	require.Equal(t, "## Sub\nWorld\n", body)

	var intro pageMeta
	body = fa.FrontMatter("Intro/Intro.md", &intro)
	require.Equal(t, "Home", intro.Parent)
	require.Equal(t, 1, intro.NavOrder)
	require.Equal(t, "# Intro\nHello\n[Sub](Sub.html) <br/><br/>\n", body)
}

func TestEmit_RootPage(t *testing.T) {
	tree := build("Preamble ![][logo]", "# Intro", "Hello")
	_, fa := emit(t, tree, Options{})

	require.Equal(t,
		"---\n"+
			"title: Home\n"+
			"layout: home\n"+
			"nav_enabled: true\n"+
			"nav_order: 0\n"+
			"has_toc: false\n"+
			"---\n"+
			"\n"+
			"Preamble ![](media/logo.png)\n"+
			"[Intro](Intro/Intro.html) <br/><br/>\n",
		fa.GetFileContent("index.md"))
}

func TestEmit_ExactPageBytes(t *testing.T) {
	tree := build("# Intro", "See [Sub](Sub.md)", "![][pic]", " <br/>", "## Sub", "World")
	_, fa := emit(t, tree, Options{})

	require.Equal(t,
		"---\n"+
			"title: Intro\n"+
			"layout: default\n"+
			"nav_enabled: true\n"+
			"nav_order: 1\n"+
			"parent: Home\n"+
			"has_toc: false\n"+
			"---\n"+
			"# Intro\n"+
			"See [Sub](Sub.html)\n"+
			"![](../media/pic.png)\n"+
			"\n"+
			"[Sub](Sub.html) <br/><br/>\n",
		fa.GetFileContent("Intro/Intro.md"))
}

func TestEmit_FileCountMatchesHeadings(t *testing.T) {
	lines := []string{
		"intro text",
		"# Getting Started", "a",
		"## Install", "b",
		"### On Linux", "c",
		"## Configure", "d",
		"# Reference", "e",
		"## API: Overview", "f",
		"# FAQ",
	}
	tree := build(lines...)
	res, fa := emit(t, tree, Options{})

	require.Len(t, tree.Headings(), 7)
	require.Len(t, fa.WalkFiles(".md"), len(tree.Headings())+1)
	require.Equal(t, len(tree.Headings())+1, res.Files())
}

func TestEmit_DeepNestingUsesTopLevelFolder(t *testing.T) {
	tree := build("# Top Section", "## Mid", "### Deep", "#### Deeper", "![](img.png)")
	_, fa := emit(t, tree, Options{})

	fa.AssertFileExists("Top Section/Top_Section.md").
		AssertFileExists("Top Section/Mid.md").
		AssertFileExists("Top Section/Deep.md").
		AssertFileExists("Top Section/Deeper.md").
		AssertFileNotExists("Top Section/Mid/Deep.md")

	fa.AssertFileContains("Top Section/Deeper.md", "![](../media/img.png)")
	fa.AssertFileContains("Top Section/Mid.md", "[Deep](Deep.html) <br/><br/>")

	var deeper pageMeta
	fa.FrontMatter("Top Section/Deeper.md", &deeper)
	require.Equal(t, "Deep", deeper.Parent)
	require.Equal(t, 4, deeper.NavOrder)
}

func TestEmit_NavigationLinksOnePerChild(t *testing.T) {
	tree := build("# Guide", "## One", "## Two", "### Two A", "## Three")
	res, fa := emit(t, tree, Options{})

	guide := fa.GetFileContent("Guide/Guide.md")
	for _, child := range []string{"One", "Two", "Three"} {
		require.Equal(t, 1, strings.Count(guide, "]("+child+".html)"), child)
	}
	require.NotContains(t, guide, "Two_A.html", "grandchildren are linked from their own parent")
	require.NotContains(t, guide, ".md)")

	for _, p := range res.Pages {
		for _, l := range p.Links {
			require.True(t, strings.HasSuffix(l, ".html"), l)
		}
	}
}

func TestEmit_NavigationLabelsEscapeBrackets(t *testing.T) {
	tree := build("# Array [x]", "## Item [1]", "## Plain")
	res, _ := emit(t, tree, Options{})

	var parent *Page
	for i := range res.Pages {
		if res.Pages[i].Title == "Array [x]" {
			parent = &res.Pages[i]
		}
	}
	require.NotNil(t, parent)
	require.Contains(t, string(parent.Body), `[Item \[1\]](`)
	require.Contains(t, string(parent.Body), "[Plain](")

	links, err := markdown.ExtractLinks(parent.Body, markdown.Options{})
	require.NoError(t, err)
	var dests []string
	for _, l := range links {
		dests = append(dests, l.Destination)
	}
	require.Equal(t, parent.Links, dests)
}

func TestEmit_SiblingChainTrailer(t *testing.T) {
	tree := build("# A", "a", "# B", "b", "# C", "c")
	_, fa := emit(t, tree, Options{})

	var a pageMeta
	body := fa.FrontMatter("A/A.md", &a)
	require.Equal(t, "# A\na\n<br/>\n<br/>\n", body)

	var b pageMeta
	body = fa.FrontMatter("B/B.md", &b)
	require.Equal(t, "# B\nb\n<br/>\n<br/>\n", body)
	require.Equal(t, "Home", b.Parent)

	var c pageMeta
	body = fa.FrontMatter("C/C.md", &c)
	require.Equal(t, "# C\nc\n", body)
}

func TestEmit_ChainedRootDisplaysAsHome(t *testing.T) {
	tree := docmodel.Build([]string{"# A", "# B"}, docmodel.BuildOptions{HomeTitle: "Manual"})
	_, fa := emit(t, tree, Options{})

	var root, a pageMeta
	fa.FrontMatter("index.md", &root)
	fa.FrontMatter("A/A.md", &a)
	require.Equal(t, "Home", root.Title)
	require.Equal(t, "Home", a.Parent)
}

func TestEmit_CustomExtensionsAndLayouts(t *testing.T) {
	tree := build("# Intro", "[x](Other.md)", "## Sub")
	_, fa := emit(t, tree, Options{PageExt: "/", Layout: "page", HomeLayout: "landing", NavLinkSuffix: "  "})

	fa.AssertFileContains("Intro/Intro.md", "[x](Other/)").
		AssertFileContains("Intro/Intro.md", "[Sub](Sub/)  \n").
		AssertFileContains("Intro/Intro.md", "layout: page").
		AssertFileContains("index.md", "layout: landing")
}

func TestEmit_SecondRunLeavesPagesUnchanged(t *testing.T) {
	tree := build("# Intro", "Hello", "## Sub", "World")
	out := t.TempDir()
	em := New(Options{OutputDir: out})

	first, err := em.Emit(context.Background(), tree)
	require.NoError(t, err)
	require.Len(t, first.Written, 3)

	second, err := em.Emit(context.Background(), tree)
	require.NoError(t, err)
	require.Empty(t, second.Written)
	require.Len(t, second.Unchanged, 3)

	// A fresh emitter compares against the files on disk.
	third, err := New(Options{OutputDir: out}).Emit(context.Background(), tree)
	require.NoError(t, err)
	require.Len(t, third.Unchanged, 3)
}

func TestEmit_PrunesRemovedPages(t *testing.T) {
	out := t.TempDir()
	em := New(Options{OutputDir: out})

	_, err := em.Emit(context.Background(), build("# Intro", "## Sub", "# Gone"))
	require.NoError(t, err)

	res, err := em.Emit(context.Background(), build("# Intro", "Changed"))
	require.NoError(t, err)
	require.Equal(t, []string{"Gone/Gone.md", "Intro/Sub.md"}, res.Pruned)
	require.Equal(t, []string{"index.md", "Intro/Intro.md"}, res.Written)

	fa := testhelpers.NewFileAssertions(t, out)
	fa.AssertFileNotExists("Intro/Sub.md").
		AssertFileNotExists("Gone").
		AssertFileExists("Intro/Intro.md")
}

func TestEmit_CollisionLastWins(t *testing.T) {
	tree := build("# Intro", "first", "# Intro", "second")
	res, fa := emit(t, tree, Options{})

	require.Len(t, res.Collisions, 1)
	require.Equal(t, "Intro/Intro.md", res.Collisions[0].Path)
	require.Equal(t, []string{"Intro", "Intro"}, res.Collisions[0].Titles)
	fa.AssertFileContains("Intro/Intro.md", "second").
		AssertFileNotContains("Intro/Intro.md", "first")
}

func TestEmit_FailuresAreCollected(t *testing.T) {
	out := filepath.Join(t.TempDir(), "blocked")
	require.NoError(t, os.WriteFile(out, []byte("not a directory"), 0o600))

	res, err := New(Options{OutputDir: out}).Emit(context.Background(), build("# Intro", "## Sub"))
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryFileSystem))
	require.Len(t, res.Failures, 3, "every page is attempted")
	require.Empty(t, res.Written)
}

func TestEmit_ConcurrentMatchesSequential(t *testing.T) {
	lines := []string{"# A", "a", "## A1", "### A1x", "# B", "![][pic]", "## B1", "# C", "[A](A.md)"}

	_, seq := emit(t, build(lines...), Options{Concurrency: 1})
	_, par := emit(t, build(lines...), Options{Concurrency: 4})

	files := seq.WalkFiles("")
	require.Equal(t, files, par.WalkFiles(""))
	for _, f := range files {
		require.Equal(t, seq.GetFileContent(f), par.GetFileContent(f), f)
	}
}

func TestEmit_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := t.TempDir()
	res, err := New(Options{OutputDir: out}).Emit(ctx, build("# Intro"))
	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, res.Written)
}

func TestPlan_DoesNotMutateTree(t *testing.T) {
	tree := build("# A", "a", "# B", "b")
	before := append([]string(nil), tree.Block(1).Text...)

	pages, err := New(Options{}).Plan(tree, docmodel.Chain(tree))
	require.NoError(t, err)
	require.Len(t, pages, 3)
	require.Equal(t, before, tree.Block(1).Text)
	require.Equal(t, "# A\na\n<br/>\n<br/>\n", string(pages[1].Body))
}

func TestPlan_CountsRewrites(t *testing.T) {
	tree := build("# A", "![][x]", "![y](y.png) [z](z.md)", " <br/>")
	pages, err := New(Options{}).Plan(tree, docmodel.Chain(tree))
	require.NoError(t, err)

	a := pages[1]
	require.Equal(t, 1, a.Rewrites["reference-image"])
	require.Equal(t, 1, a.Rewrites["inline-image"])
	require.Equal(t, 1, a.Rewrites["extension"])
	require.Equal(t, 1, a.Rewrites["lone-break"])
	require.NotEmpty(t, a.Fingerprint)
}
