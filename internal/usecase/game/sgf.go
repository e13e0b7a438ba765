package game

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"baduk/internal/domain/game"
	sgf "baduk/internal/domain/sgf"
)

const sgfKeyPrefix = "sgf:"

// ExportSGF renders the game as SGF. Finished games never change, so their
// SGF is served from and written to the cache.
func (g *GameUseCase) ExportSGF(ctx context.Context, gameID string) (string, error) {
	play, err := g.loadGame(ctx, gameID)
	if err != nil {
		return "", err
	}

	if play.IsDone() && g.sgfCache != nil {
		cached, err := g.sgfCache.LoadSGF(ctx, sgfKeyPrefix+gameID)
		if err == nil && cached != "" {
			return cached, nil
		}
		if err != nil {
			g.log.Infof("sgf cache miss for game %s: %v", gameID, err)
		}
	}

	text := SerializeSGF(PrepareSgfFile(play))
	if play.IsDone() {
		g.saveSGF(ctx, gameID, text)
	}
	return text, nil
}

func (g *GameUseCase) saveSGF(ctx context.Context, gameID, text string) {
	if g.sgfCache == nil {
		return
	}
	if err := g.sgfCache.SaveSGF(ctx, sgfKeyPrefix+gameID, text); err != nil {
		g.log.Errorf("failed to cache sgf of game %s: %v", gameID, err)
	}
}

// PrepareSgfFile builds the SGF tree of a game: one root node with the game
// info and one node per move.
func PrepareSgfFile(play *game.Game) *sgf.SGF {
	root := sgf.Node{
		Properties: map[string][]string{
			"FF": {"4"},
			"GM": {"1"},
			"SZ": {strconv.Itoa(play.Size)},
			"PB": {play.BlackName},
			"PW": {play.WhiteName},
			"DT": {play.CreatedAt.Format("2006-01-02")},
			"RE": {play.Result()},
			"RU": {"Chinese"},
		},
	}

	tree := &sgf.GameTree{Nodes: []sgf.Node{root}}
	AddMovesToSgf(tree, play.Moves)
	return &sgf.SGF{Root: tree}
}

func AddMovesToSgf(tree *sgf.GameTree, moves []game.Move) {
	for _, move := range moves {
		key := "B"
		if move.Color == game.White {
			key = "W"
		}
		node := sgf.Node{
			Properties: map[string][]string{
				key: {sgfPoint(move)},
			},
		}
		tree.Nodes = append(tree.Nodes, node)
	}
}

// sgfPoint writes column then row. A pass is empty.
func sgfPoint(move game.Move) string {
	if move.Pass {
		return ""
	}
	return string([]byte{sgfCoord(move.Y), sgfCoord(move.X)})
}

// sgfCoord maps 0..25 to a-z and 26..51 to A-Z.
func sgfCoord(n int) byte {
	if n < 26 {
		return byte('a' + n)
	}
	return byte('A' + n - 26)
}

func SerializeSGF(s *sgf.SGF) string {
	var builder strings.Builder
	builder.WriteString("(")
	serializeGameTree(&builder, s.Root)
	builder.WriteString(")")
	return builder.String()
}

var orderedKeys = []string{"FF", "GM", "SZ", "PB", "PW", "DT", "RE", "KM", "RU", "C", "B", "W"}

func serializeGameTree(builder *strings.Builder, tree *sgf.GameTree) {
	for _, node := range tree.Nodes {
		builder.WriteString(";")

		used := make(map[string]bool)
		for _, key := range orderedKeys {
			if values, ok := node.Properties[key]; ok {
				used[key] = true
				writeProperty(builder, key, values)
			}
		}

		rest := make([]string, 0)
		for key := range node.Properties {
			if !used[key] {
				rest = append(rest, key)
			}
		}
		sort.Strings(rest)
		for _, key := range rest {
			writeProperty(builder, key, node.Properties[key])
		}
	}

	for _, child := range tree.Children {
		builder.WriteString("(")
		serializeGameTree(builder, child)
		builder.WriteString(")")
	}
}

func writeProperty(builder *strings.Builder, key string, values []string) {
	builder.WriteString(key)
	for _, v := range values {
		builder.WriteString(fmt.Sprintf("[%s]", escapeSGF(v)))
	}
}

var sgfEscaper = strings.NewReplacer(`\`, `\\`, `]`, `\]`)

func escapeSGF(v string) string {
	return sgfEscaper.Replace(v)
}
