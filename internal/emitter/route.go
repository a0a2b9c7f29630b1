package emitter

import (
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/docsplit/internal/docmodel"
)

// Route returns the slash-separated directory, relative to the output root,
// that id's page is written to. The root lives at the top (""); every other
// Block lives in the folder of its top-level ancestor, so nesting deeper than
// one section is flattened.
func Route(t *docmodel.Tree, id docmodel.BlockID) string {
	top := t.TopLevelAncestor(id)
	if top == docmodel.RootID {
		return ""
	}
	return docmodel.FolderName(t.Block(top).Title)
}

// PagePath returns the slash-separated output path of id's page, with the
// source extension.
func PagePath(t *docmodel.Tree, id docmodel.BlockID) string {
	return path.Join(Route(t, id), t.Block(id).Filename)
}

// relativeTo returns the slash-separated path of target as seen from the
// directory fromDir. Both are relative to the output root.
func relativeTo(fromDir, target string) string {
	if fromDir == "" {
		return target
	}
	if path.Dir(target) == fromDir {
		return path.Base(target)
	}
	rel, err := filepath.Rel(filepath.FromSlash(fromDir), filepath.FromSlash(target))
	if err != nil {
		return target
	}
	return filepath.ToSlash(rel)
}

// mediaRel is the path from a page directory to the shared media folder.
func mediaRel(dir, mediaDir string) string {
	return relativeTo(dir, mediaDir)
}

func swapExt(name, from, to string) string {
	return strings.TrimSuffix(name, from) + to
}
