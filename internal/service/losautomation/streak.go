package losautomation

// MaxStayLengths returns, for each date of the window, the longest stay a guest
// arriving that day could book on one unit: the length of the available run
// containing the date, bounded by the days left in the window. Unavailable dates get 0.
//
// [T,T,F,T,T,T] -> [2,2,0,3,2,1]
func MaxStayLengths(available []bool) []int {
	n := len(available)
	out := make([]int, n)
	if n == 0 {
		return out
	}

	// Начало серии для каждой даты (прямой проход)
	runStart := make([]int, n)
	for i := 0; i < n; i++ {
		switch {
		case !available[i]:
			runStart[i] = -1
		case i > 0 && available[i-1]:
			runStart[i] = runStart[i-1]
		default:
			runStart[i] = i
		}
	}

	// Конец серии (обратный проход)
	runEnd := -1
	for i := n - 1; i >= 0; i-- {
		if !available[i] {
			runEnd = -1
			continue
		}
		if runEnd < 0 {
			runEnd = i
		}

		runLength := runEnd - runStart[i] + 1
		remaining := n - i
		out[i] = min(runLength, remaining)
	}

	return out
}

// MaxAcrossUnits combines per-unit availability into the per-date maximum stay of the room product
func MaxAcrossUnits(units [][]bool, windowLength int) []int {
	out := make([]int, windowLength)
	for _, unit := range units {
		for i, v := range MaxStayLengths(unit) {
			if i < windowLength && v > out[i] {
				out[i] = v
			}
		}
	}
	return out
}
