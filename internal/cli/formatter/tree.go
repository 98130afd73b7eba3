package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/feather/internal/domain"
)

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeBlank  = "   "
)

// RenderTree renders the notes tree below the home directory using
// box-drawing connectors. Directories are expanded recursively; a path
// seen twice is not expanded again.
func RenderTree(tree domain.NotesTree) string {
	if len(tree.Home) == 0 {
		return Dim("No notes.") + "\n"
	}
	var b strings.Builder
	seen := map[string]bool{}
	renderLevel(&b, tree, tree.Home, "", seen)
	return b.String()
}

func renderLevel(b *strings.Builder, tree domain.NotesTree, paths []string, prefix string, seen map[string]bool) {
	nodes := tree.Resolve(paths)
	for i, n := range nodes {
		last := i == len(nodes)-1
		connector, childPrefix := treeBranch, prefix+treePipe
		if last {
			connector, childPrefix = treeCorner, prefix+treeBlank
		}
		b.WriteString(Dim(prefix+connector) + InodeLabel(n) + "\n")
		if n.Type == domain.InodeDir && !seen[n.Path] {
			seen[n.Path] = true
			renderLevel(b, tree, n.InodePaths, childPrefix, seen)
		}
	}
}

// InodeLabel renders an inode name with a marker for its type.
func InodeLabel(n domain.Inode) string {
	if n.Type == domain.InodeDir {
		return StyleBlue.Render(n.Name + "/")
	}
	return StyleFg.Render(n.Name) + Dim(" ("+pinCount(len(n.Pins))+")")
}

func pinCount(n int) string {
	if n == 1 {
		return "1 pin"
	}
	return fmt.Sprintf("%d pins", n)
}
