package sgf

// GameTree is one SGF tree: a main line of nodes plus variations.
type GameTree struct {
	Nodes    []Node
	Children []*GameTree
}

// Node is a set of SGF properties such as B[pd], W[dd] or C[...]. A
// property may repeat, e.g. AB[aa][bb].
type Node struct {
	Properties map[string][]string
}

type SGF struct {
	Root *GameTree
}
