// Package evaluator scores 5-7 card poker hands into a category and an
// integer score, and selects the best concrete five cards for display.
//
// The score is coarse: any hand in a higher category outscores any hand in a
// lower one, and most categories order correctly within themselves, but a
// flush scores a flat constant. Exact ordering between equal scores goes
// through BreakTie, so callers must compare with Compare rather than the
// integer alone.
package evaluator

import (
	"sort"

	"github.com/cardroom/holdem/internal/deck"
)

// Category is the ranked class of a poker hand.
type Category int

const (
	Incomplete Category = iota
	HighCard
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// String returns a human-readable category name.
func (c Category) String() string {
	switch c {
	case Incomplete:
		return "Incomplete Hand"
	case HighCard:
		return "High Card"
	case OnePair:
		return "One Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "Unknown"
	}
}

// Category score bases. Within a category the remaining digits encode the
// primary rank and kickers; a flush deliberately encodes nothing and relies
// on BreakTie.
const (
	baseHighCard      = 10000
	baseOnePair       = 20000
	baseTwoPair       = 30000
	baseTrips         = 40000
	baseStraight      = 50000
	baseFlush         = 60000
	baseFullHouse     = 70000
	baseQuads         = 80000
	baseStraightFlush = 90000
	baseRoyalFlush    = 100000
)

// Result is the outcome of evaluating a hand.
type Result struct {
	Category Category
	Score    int
	BestFive []deck.Card
}

// Evaluate scores the best 5-card hand drawable from hole plus community
// cards. Fewer than 5 total cards yields the Incomplete sentinel; the
// orchestrator never hits that path since showdown always has 2+5 cards.
func Evaluate(hole, community []deck.Card) Result {
	cards := make([]deck.Card, 0, len(hole)+len(community))
	cards = append(cards, hole...)
	cards = append(cards, community...)
	if len(cards) < 5 {
		return Result{Category: Incomplete}
	}
	return evaluate(cards)
}

// BreakTie compares two best-five hands rank-by-rank descending.
// Returns +1 if a is better, -1 if b is better, 0 on an exact rank tie.
func BreakTie(a, b []deck.Card) int {
	va := sortedValuesDesc(a)
	vb := sortedValuesDesc(b)
	for i := 0; i < len(va) && i < len(vb); i++ {
		if va[i] > vb[i] {
			return 1
		}
		if va[i] < vb[i] {
			return -1
		}
	}
	return 0
}

// Compare orders two results: coarse score first, then BreakTie on the best
// five. Returns +1/-1/0.
func Compare(a, b Result) int {
	if a.Score > b.Score {
		return 1
	}
	if a.Score < b.Score {
		return -1
	}
	return BreakTie(a.BestFive, b.BestFive)
}

type rankCount struct {
	rank  deck.Rank
	count int
}

func evaluate(cards []deck.Card) Result {
	byRank := make(map[deck.Rank][]deck.Card)
	bySuit := make(map[deck.Suit][]deck.Card)
	present := make(map[deck.Rank]bool)
	presentBySuit := make(map[deck.Suit]map[deck.Rank]bool)

	for _, c := range cards {
		byRank[c.Rank] = append(byRank[c.Rank], c)
		bySuit[c.Suit] = append(bySuit[c.Suit], c)
		present[c.Rank] = true
		if presentBySuit[c.Suit] == nil {
			presentBySuit[c.Suit] = make(map[deck.Rank]bool)
		}
		presentBySuit[c.Suit][c.Rank] = true
	}

	// Straight flush, royal when the run tops out at the ace. The scan runs
	// from ten-high down to two-high: there is no low-ace wheel in this
	// ruleset, A-2-3-4-5 is not a straight.
	for suit := deck.Hearts; suit <= deck.Spades; suit++ {
		if len(bySuit[suit]) < 5 {
			continue
		}
		for low := deck.Ten; low >= deck.Two; low-- {
			if !hasRun(presentBySuit[suit], low) {
				continue
			}
			best := pickRun(byRank, low, &suit)
			if low == deck.Ten {
				return Result{Category: RoyalFlush, Score: baseRoyalFlush, BestFive: best}
			}
			return Result{Category: StraightFlush, Score: baseStraightFlush + int(low), BestFive: best}
		}
	}

	counts := countRanks(byRank)

	// Four of a kind
	if quad := findCount(counts, 4); quad != 0 {
		best := append([]deck.Card{}, byRank[quad]...)
		best = append(best, topCards(cards, excluding(quad), 1)...)
		return Result{Category: FourOfAKind, Score: baseQuads + int(quad), BestFive: best}
	}

	// Full house: highest trips plus the next rank holding at least a pair.
	// Selection follows count-then-rank order, so a second set of trips is
	// preferred as the pair even over a higher true pair.
	trips := findAtLeast(counts, 3, 0)
	if trips != 0 {
		if pair := findAtLeast(counts, 2, trips); pair != 0 {
			best := append([]deck.Card{}, byRank[trips][:3]...)
			best = append(best, byRank[pair][:2]...)
			return Result{Category: FullHouse, Score: baseFullHouse + int(trips)*100 + int(pair), BestFive: best}
		}
	}

	// Flush: top five of the suited cards. The score is a flat constant, so
	// flushes only order against each other through BreakTie.
	for suit := deck.Hearts; suit <= deck.Spades; suit++ {
		if len(bySuit[suit]) < 5 {
			continue
		}
		suited := append([]deck.Card{}, bySuit[suit]...)
		sort.Slice(suited, func(i, j int) bool { return suited[i].Rank > suited[j].Rank })
		return Result{Category: Flush, Score: baseFlush, BestFive: suited[:5]}
	}

	// Straight, highest first, no wheel
	for low := deck.Ten; low >= deck.Two; low-- {
		if hasRun(present, low) {
			return Result{Category: Straight, Score: baseStraight + int(low), BestFive: pickRun(byRank, low, nil)}
		}
	}

	// Three of a kind
	if trips != 0 {
		best := append([]deck.Card{}, byRank[trips][:3]...)
		best = append(best, topCards(cards, excluding(trips), 2)...)
		return Result{Category: ThreeOfAKind, Score: baseTrips + int(trips), BestFive: best}
	}

	// Two pair
	pairs := ranksWithAtLeast(counts, 2)
	if len(pairs) >= 2 {
		hi, lo := pairs[0], pairs[1]
		if lo > hi {
			hi, lo = lo, hi
		}
		kickers := topRanks(cards, excluding(hi, lo), 1)
		kicker := 0
		if len(kickers) > 0 {
			kicker = int(kickers[0])
		}
		best := append([]deck.Card{}, byRank[hi][:2]...)
		best = append(best, byRank[lo][:2]...)
		best = append(best, topCards(cards, excluding(hi, lo), 1)...)
		score := baseTwoPair + 650*int(hi) + 40*int(lo) + kicker
		return Result{Category: TwoPair, Score: score, BestFive: best}
	}

	// One pair
	if len(pairs) == 1 {
		p := pairs[0]
		ks := topRanks(cards, excluding(p), 3)
		score := baseOnePair + 600*int(p)
		for i, mult := range []int{12, 3, 1} {
			if i < len(ks) {
				score += mult * int(ks[i])
			}
		}
		best := append([]deck.Card{}, byRank[p][:2]...)
		best = append(best, topCards(cards, excluding(p), 3)...)
		return Result{Category: OnePair, Score: score, BestFive: best}
	}

	// High card
	top := topCards(cards, nil, 5)
	score := baseHighCard
	for i, mult := range []int{500, 80, 16, 4, 1} {
		if i < len(top) {
			score += mult * int(top[i].Rank)
		}
	}
	return Result{Category: HighCard, Score: score, BestFive: top}
}

// hasRun reports whether the five ranks low..low+4 are all present.
func hasRun(present map[deck.Rank]bool, low deck.Rank) bool {
	for r := low; r < low+5; r++ {
		if !present[r] {
			return false
		}
	}
	return true
}

// pickRun selects one concrete card per rank of the run low..low+4,
// restricted to a suit when given one.
func pickRun(byRank map[deck.Rank][]deck.Card, low deck.Rank, suit *deck.Suit) []deck.Card {
	run := make([]deck.Card, 0, 5)
	for r := low; r < low+5; r++ {
		for _, c := range byRank[r] {
			if suit == nil || c.Suit == *suit {
				run = append(run, c)
				break
			}
		}
	}
	return run
}

// countRanks returns rank counts ordered by count descending, rank
// descending. That ordering drives quad/trip/pair selection.
func countRanks(byRank map[deck.Rank][]deck.Card) []rankCount {
	counts := make([]rankCount, 0, len(byRank))
	for r, cs := range byRank {
		counts = append(counts, rankCount{rank: r, count: len(cs)})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].rank > counts[j].rank
	})
	return counts
}

func findCount(counts []rankCount, n int) deck.Rank {
	for _, rc := range counts {
		if rc.count == n {
			return rc.rank
		}
	}
	return 0
}

func findAtLeast(counts []rankCount, n int, except deck.Rank) deck.Rank {
	for _, rc := range counts {
		if rc.rank != except && rc.count >= n {
			return rc.rank
		}
	}
	return 0
}

func ranksWithAtLeast(counts []rankCount, n int) []deck.Rank {
	var out []deck.Rank
	for _, rc := range counts {
		if rc.count >= n {
			out = append(out, rc.rank)
		}
	}
	return out
}

func excluding(ranks ...deck.Rank) map[deck.Rank]bool {
	m := make(map[deck.Rank]bool, len(ranks))
	for _, r := range ranks {
		m[r] = true
	}
	return m
}

// topCards returns the n highest-ranked cards not of an excluded rank,
// highest first. This is the kicker selection order.
func topCards(cards []deck.Card, exclude map[deck.Rank]bool, n int) []deck.Card {
	pool := make([]deck.Card, 0, len(cards))
	for _, c := range cards {
		if !exclude[c.Rank] {
			pool = append(pool, c)
		}
	}
	sort.Slice(pool, func(i, j int) bool { return pool[i].Rank > pool[j].Rank })
	if n > len(pool) {
		n = len(pool)
	}
	return pool[:n]
}

// topRanks returns the n highest distinct ranks not excluded, highest first.
func topRanks(cards []deck.Card, exclude map[deck.Rank]bool, n int) []deck.Rank {
	seen := make(map[deck.Rank]bool)
	var ranks []deck.Rank
	for _, c := range cards {
		if !exclude[c.Rank] && !seen[c.Rank] {
			seen[c.Rank] = true
			ranks = append(ranks, c.Rank)
		}
	}
	sort.Slice(ranks, func(i, j int) bool { return ranks[i] > ranks[j] })
	if n > len(ranks) {
		n = len(ranks)
	}
	return ranks[:n]
}

func sortedValuesDesc(cards []deck.Card) []int {
	vals := make([]int, len(cards))
	for i, c := range cards {
		vals[i] = c.Value()
	}
	sort.Sort(sort.Reverse(sort.IntSlice(vals)))
	return vals
}
