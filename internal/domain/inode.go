package domain

// InodeType distinguishes the entries of the notes tree.
type InodeType string

const (
	InodeDir      InodeType = "dir"
	InodePinboard InodeType = "pinboard"
)

// ValidInodeTypes is the canonical set of accepted inode type strings.
var ValidInodeTypes = map[string]bool{
	"dir": true, "pinboard": true,
}

// Inode is a notes entry: a directory or a pinboard. Path is the full
// document path, e.g. users/u1/inodes/3f2a....
type Inode struct {
	Path       string
	Type       InodeType
	Name       string
	InodePaths []string // children, for directories
	Pins       []Pin    // for pinboards
}

// Pin is a note placed on a pinboard.
type Pin struct {
	ID      string
	Content string
	X       int
	Y       int
}

// PinIndex returns the position of the pin with the given id, or -1.
func (n *Inode) PinIndex(pinID string) int {
	for i, p := range n.Pins {
		if p.ID == pinID {
			return i
		}
	}
	return -1
}

// NotesTree is the notes hierarchy as last seen: the home entries and
// every inode by path.
type NotesTree struct {
	Home   []string
	Inodes map[string]Inode
}

// Resolve returns the inodes at paths in order, skipping unknown paths.
func (t NotesTree) Resolve(paths []string) []Inode {
	out := make([]Inode, 0, len(paths))
	for _, p := range paths {
		if n, ok := t.Inodes[p]; ok {
			out = append(out, n)
		}
	}
	return out
}
