package commands

import "sort"

// BestMatch computes the deterministic longest-common-subsequence ratio
// between target and every candidate, returning the highest-scoring
// candidate if its score strictly exceeds threshold. Equal scores never
// match on a tie with the threshold itself; candidates are sorted first so
// iteration order — and therefore which candidate wins a tie — is
// reproducible.
//
// No third-party fuzzy-matching library appears anywhere in the retrieved
// corpus with this exact deterministic LCS-ratio contract, so this is a
// deliberate standard-library implementation.
func BestMatch(target string, candidates []string, threshold float64) (string, bool) {
	sorted := append([]string(nil), candidates...)
	sort.Strings(sorted)

	var best string
	var bestScore float64
	found := false
	for _, c := range sorted {
		score := lcsRatio(target, c)
		if score > bestScore {
			bestScore = score
			best = c
			found = true
		}
	}
	if !found || bestScore <= threshold {
		return "", false
	}
	return best, true
}

// lcsRatio returns 2*|LCS(a,b)| / (len(a)+len(b)) in rune length, or 0 when
// both are empty.
func lcsRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	n, m := len(ra), len(rb)
	if n == 0 && m == 0 {
		return 0
	}
	dp := make([][]int, n+1)
	for i := range dp {
		dp[i] = make([]int, m+1)
	}
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			switch {
			case ra[i-1] == rb[j-1]:
				dp[i][j] = dp[i-1][j-1] + 1
			case dp[i-1][j] >= dp[i][j-1]:
				dp[i][j] = dp[i-1][j]
			default:
				dp[i][j] = dp[i][j-1]
			}
		}
	}
	return 2 * float64(dp[n][m]) / float64(n+m)
}
