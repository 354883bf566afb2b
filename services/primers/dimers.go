package primers

// DimerMinRun is the shortest run of consecutive Watson-Crick pairs,
// touching the 3' terminal base of either strand, reported as a dimer.
const DimerMinRun = 5

// LongestHomopolymer is the length of the longest single-base run.
func LongestHomopolymer(seq string) int {
	best, run := 0, 0
	for i := 0; i < len(seq); i++ {
		if i > 0 && seq[i] == seq[i-1] {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}
	return best
}

// HasPolyRun reports a base repeated more than threshold times in a row.
func HasPolyRun(seq string, threshold int) bool {
	return LongestHomopolymer(seq) > threshold
}

// ThreePrimeComplementarity aligns a (5'->3') antiparallel against b at
// every offset and returns the longest run of consecutive complementary
// pairs that includes the 3' terminal base of a or of b. No gaps or
// mismatches are tolerated inside a run.
func ThreePrimeComplementarity(a, b string) int {
	la, lb := len(a), len(b)
	best := 0

	// a[i] faces b[lb-1-(i-shift)]
	for shift := -(lb - 1); shift < la; shift++ {
		run, start := 0, 0
		for i := max(0, shift); i < la && i-shift < lb; i++ {
			j := i - shift
			if !pairs(a[i], b[lb-1-j]) {
				run = 0
				continue
			}
			if run == 0 {
				start = i
			}
			run++

			anchored := i == la-1 || start-shift == 0
			if anchored && run > best {
				best = run
			}
		}
	}
	return best
}

func HasSelfDimer(seq string) bool {
	return ThreePrimeComplementarity(seq, seq) >= DimerMinRun
}

func HasCrossDimer(forward, reverse string) bool {
	return ThreePrimeComplementarity(forward, reverse) >= DimerMinRun
}

// HasGcClamp reports a G or C among the last window bases.
func HasGcClamp(seq string, window int) bool {
	from := len(seq) - window
	if from < 0 {
		from = 0
	}
	return countGc(seq[from:]) > 0
}
