package textdiff

import "strings"

// Op identifies one step of an edit path.
type Op int

const (
	OpEqual Op = iota
	OpReplace
	OpInsert // present in the correct text, missing from the user's
	OpDelete // present in the user's text, absent from the correct one
)

// CharOp is one character-level edit step inside a replaced word pair.
type CharOp struct {
	Op   Op     `json:"op"`
	From string `json:"from,omitempty"` // user side
	To   string `json:"to,omitempty"`   // correct side
}

// WordOp is one word-level edit step between the user's answer and the
// correct answer. For near-miss replacements (similar words), Chars
// carries the character alignment so the renderer can highlight the
// typo inline instead of striking the whole word.
type WordOp struct {
	Op    Op       `json:"op"`
	From  string   `json:"from,omitempty"`
	To    string   `json:"to,omitempty"`
	Chars []CharOp `json:"chars,omitempty"`
}

// wordReplaceSimilar is the similarity above which a replaced word pair
// is treated as a near-miss: it costs half a word in the alignment and
// gets an inline character diff.
const wordReplaceSimilar = 0.5

// AlignWords aligns the whitespace-delimited tokens of the user's and
// correct answers and returns the edit path. Replacements between
// similar words cost 0.5 so the aligner prefers pairing a typo with its
// intended word over an insert/delete pair.
func AlignWords(user, correct string) []WordOp {
	uw := strings.Fields(user)
	cw := strings.Fields(correct)

	// DP over word tokens with weighted replace cost.
	const (
		costIndel = 1.0
	)

	rows := len(uw) + 1
	cols := len(cw) + 1
	cost := make([][]float64, rows)
	for i := range cost {
		cost[i] = make([]float64, cols)
	}
	for i := 1; i < rows; i++ {
		cost[i][0] = float64(i) * costIndel
	}
	for j := 1; j < cols; j++ {
		cost[0][j] = float64(j) * costIndel
	}

	for i := 1; i < rows; i++ {
		for j := 1; j < cols; j++ {
			sub := cost[i-1][j-1] + wordPairCost(uw[i-1], cw[j-1])
			del := cost[i-1][j] + costIndel
			ins := cost[i][j-1] + costIndel

			best := sub
			if del < best {
				best = del
			}
			if ins < best {
				best = ins
			}
			cost[i][j] = best
		}
	}

	// Backtrack, preferring substitution on ties so words pair up.
	var ops []WordOp
	i, j := len(uw), len(cw)
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && cost[i][j] == cost[i-1][j-1]+wordPairCost(uw[i-1], cw[j-1]):
			ops = append(ops, wordOpFor(uw[i-1], cw[j-1]))
			i--
			j--
		case i > 0 && cost[i][j] == cost[i-1][j]+costIndel:
			ops = append(ops, WordOp{Op: OpDelete, From: uw[i-1]})
			i--
		default:
			ops = append(ops, WordOp{Op: OpInsert, To: cw[j-1]})
			j--
		}
	}

	reverseWordOps(ops)
	return ops
}

// wordPairCost is the alignment cost of substituting u with c:
// 0 for equal words, 0.5 for similar ones, 1 otherwise.
func wordPairCost(u, c string) float64 {
	if strings.EqualFold(u, c) {
		return 0
	}
	if Similarity(strings.ToLower(u), strings.ToLower(c)) >= wordReplaceSimilar {
		return 0.5
	}
	return 1
}

func wordOpFor(u, c string) WordOp {
	if strings.EqualFold(u, c) {
		return WordOp{Op: OpEqual, From: u, To: c}
	}

	op := WordOp{Op: OpReplace, From: u, To: c}
	if Similarity(strings.ToLower(u), strings.ToLower(c)) >= wordReplaceSimilar {
		op.Chars = DiffChars(u, c)
	}
	return op
}

func reverseWordOps(ops []WordOp) {
	for l, r := 0, len(ops)-1; l < r; l, r = l+1, r-1 {
		ops[l], ops[r] = ops[r], ops[l]
	}
}

// DiffChars returns the character-level edit path between two words.
// Adjacent transpositions come out as a pair of replace steps, which
// renders as two swapped highlighted characters.
func DiffChars(user, correct string) []CharOp {
	ru := []rune(user)
	rc := []rune(correct)

	rows := len(ru) + 1
	cols := len(rc) + 1
	cost := make([][]int, rows)
	for i := range cost {
		cost[i] = make([]int, cols)
		cost[i][0] = i
	}
	for j := 1; j < cols; j++ {
		cost[0][j] = j
	}

	for i := 1; i < rows; i++ {
		for j := 1; j < cols; j++ {
			sub := 1
			if ru[i-1] == rc[j-1] {
				sub = 0
			}
			cost[i][j] = min3(cost[i-1][j]+1, cost[i][j-1]+1, cost[i-1][j-1]+sub)

			if i > 1 && j > 1 && ru[i-1] == rc[j-2] && ru[i-2] == rc[j-1] {
				if t := cost[i-2][j-2] + 1; t < cost[i][j] {
					cost[i][j] = t
				}
			}
		}
	}

	var ops []CharOp
	i, j := len(ru), len(rc)
	for i > 0 || j > 0 {
		switch {
		case i > 1 && j > 1 && ru[i-1] == rc[j-2] && ru[i-2] == rc[j-1] && ru[i-1] != rc[j-1] &&
			cost[i][j] == cost[i-2][j-2]+1:
			ops = append(ops,
				CharOp{Op: OpReplace, From: string(ru[i-1]), To: string(rc[j-1])},
				CharOp{Op: OpReplace, From: string(ru[i-2]), To: string(rc[j-2])},
			)
			i -= 2
			j -= 2
		case i > 0 && j > 0 && ru[i-1] == rc[j-1] && cost[i][j] == cost[i-1][j-1]:
			ops = append(ops, CharOp{Op: OpEqual, From: string(ru[i-1]), To: string(rc[j-1])})
			i--
			j--
		case i > 0 && j > 0 && cost[i][j] == cost[i-1][j-1]+1:
			ops = append(ops, CharOp{Op: OpReplace, From: string(ru[i-1]), To: string(rc[j-1])})
			i--
			j--
		case i > 0 && cost[i][j] == cost[i-1][j]+1:
			ops = append(ops, CharOp{Op: OpDelete, From: string(ru[i-1])})
			i--
		default:
			ops = append(ops, CharOp{Op: OpInsert, To: string(rc[j-1])})
			j--
		}
	}

	for l, r := 0, len(ops)-1; l < r; l, r = l+1, r-1 {
		ops[l], ops[r] = ops[r], ops[l]
	}
	return ops
}
