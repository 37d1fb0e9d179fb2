package evaluator

import (
	"fmt"
	"sort"

	"pokerroom/internal/deck"
)

// Evaluate5 ranks exactly five cards.
func Evaluate5(cards []deck.Card) HandRank {
	if len(cards) != 5 {
		panic(fmt.Sprintf("evaluator: Evaluate5 needs 5 cards, got %d", len(cards)))
	}

	values := make([]int, 5)
	flush := true
	for i, c := range cards {
		values[i] = c.Value()
		if c.Suit != cards[0].Suit {
			flush = false
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(values)))

	straightHigh := straightHighCard(values)

	if flush && straightHigh > 0 {
		return HandRank{Category: StraightFlush, Tiebreaks: [5]int{straightHigh}}
	}

	// Group values by multiplicity.
	counts := map[int]int{}
	for _, v := range values {
		counts[v]++
	}
	type group struct{ value, count int }
	groups := make([]group, 0, 5)
	for v, n := range counts {
		groups = append(groups, group{v, n})
	}
	// Higher multiplicity first, then higher value.
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].value > groups[j].value
	})

	var tb [5]int
	for i, g := range groups {
		tb[i] = g.value
	}

	switch {
	case groups[0].count == 4:
		return HandRank{Category: FourOfAKind, Tiebreaks: tb}
	case groups[0].count == 3 && groups[1].count == 2:
		return HandRank{Category: FullHouse, Tiebreaks: tb}
	case flush:
		copy(tb[:], values)
		return HandRank{Category: Flush, Tiebreaks: tb}
	case straightHigh > 0:
		return HandRank{Category: Straight, Tiebreaks: [5]int{straightHigh}}
	case groups[0].count == 3:
		return HandRank{Category: ThreeOfAKind, Tiebreaks: tb}
	case groups[0].count == 2 && groups[1].count == 2:
		return HandRank{Category: TwoPair, Tiebreaks: tb}
	case groups[0].count == 2:
		return HandRank{Category: OnePair, Tiebreaks: tb}
	default:
		copy(tb[:], values)
		return HandRank{Category: HighCard, Tiebreaks: tb}
	}
}

// straightHighCard returns the high card of a straight formed by the five
// descending values, or 0 if they do not form one. The wheel (A-2-3-4-5)
// counts with a high card of 5.
func straightHighCard(desc []int) int {
	run := true
	for i := 1; i < 5; i++ {
		if desc[i] != desc[i-1]-1 {
			run = false
			break
		}
	}
	if run {
		return desc[0]
	}
	if desc[0] == 14 && desc[1] == 5 && desc[2] == 4 && desc[3] == 3 && desc[4] == 2 {
		return 5
	}
	return 0
}

// EvaluateBest ranks the best five-card hand from 5 to 7 distinct cards.
func EvaluateBest(cards []deck.Card) HandRank {
	n := len(cards)
	if n < 5 || n > 7 {
		panic(fmt.Sprintf("evaluator: EvaluateBest needs 5-7 cards, got %d", n))
	}
	if n == 5 {
		return Evaluate5(cards)
	}

	var best HandRank
	pick := make([]deck.Card, 5)
	for a := 0; a < n-4; a++ {
		for b := a + 1; b < n-3; b++ {
			for c := b + 1; c < n-2; c++ {
				for d := c + 1; d < n-1; d++ {
					for e := d + 1; e < n; e++ {
						pick[0], pick[1], pick[2], pick[3], pick[4] =
							cards[a], cards[b], cards[c], cards[d], cards[e]
						rank := Evaluate5(pick)
						if rank.Compare(best) > 0 {
							best = rank
						}
					}
				}
			}
		}
	}
	return best
}
