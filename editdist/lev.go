package editdist

func min(a int, b int) int {
	if a <= b {
		return a
	} else {
		return b
	}
}

// Levenshtein returns the unit cost edit distance between a and b. Only two
// rows of the matrix are kept, so it is safe on long inputs.
func Levenshtein(a []rune, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i < len(a)+1; i++ {
		cur[0] = i
		for j := 1; j < len(b)+1; j++ {
			sub := prev[j-1]
			if a[i-1] != b[j-1] {
				sub += 1
			}
			cur[j] = min(sub, min(cur[j-1]+1, prev[j]+1))
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

// Hamming counts the positions where a and b differ. The second result is
// false when the lengths differ and the distance is undefined.
func Hamming(a []rune, b []rune) (int, bool) {
	if len(a) != len(b) {
		return 0, false
	}
	n := 0
	for i := range a {
		if a[i] != b[i] {
			n++
		}
	}
	return n, true
}
