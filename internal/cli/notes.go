package cli

import (
	"context"
	"fmt"
	"path"

	"github.com/alexanderramin/feather/internal/domain"
	"github.com/alexanderramin/feather/internal/service"
)

// loadTree reads the whole notes tree below home.
func loadTree(ctx context.Context, notes service.NotesService) (domain.NotesTree, error) {
	home, err := notes.Home(ctx)
	if err != nil {
		return domain.NotesTree{}, fmt.Errorf("loading home: %w", err)
	}
	tree := domain.NotesTree{Inodes: map[string]domain.Inode{}}
	for _, n := range home {
		tree.Home = append(tree.Home, n.Path)
	}

	queue := home
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if _, seen := tree.Inodes[n.Path]; seen {
			continue
		}
		tree.Inodes[n.Path] = n
		if n.Type != domain.InodeDir {
			continue
		}
		children, err := notes.Children(ctx, n.Path)
		if err != nil {
			return domain.NotesTree{}, fmt.Errorf("loading %s: %w", n.Name, err)
		}
		queue = append(queue, children...)
	}
	return tree, nil
}

// resolveInode finds an inode by full path, id or unique name.
func resolveInode(tree domain.NotesTree, ref string) (domain.Inode, error) {
	if n, ok := tree.Inodes[ref]; ok {
		return n, nil
	}
	var matches []domain.Inode
	for _, n := range tree.Inodes {
		if path.Base(n.Path) == ref {
			return n, nil
		}
		if n.Name == ref {
			matches = append(matches, n)
		}
	}
	switch len(matches) {
	case 0:
		return domain.Inode{}, fmt.Errorf("no notes entry named %q", ref)
	case 1:
		return matches[0], nil
	default:
		return domain.Inode{}, fmt.Errorf("%d notes entries are named %q, use the id", len(matches), ref)
	}
}

func resolveKind(tree domain.NotesTree, ref string, want domain.InodeType) (domain.Inode, error) {
	n, err := resolveInode(tree, ref)
	if err != nil {
		return domain.Inode{}, err
	}
	if n.Type != want {
		return domain.Inode{}, fmt.Errorf("%s is a %s, not a %s", n.Name, n.Type, want)
	}
	return n, nil
}
