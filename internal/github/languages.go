package github

import (
	"math"
	"sort"
	"time"

	"github-portfolio/internal/model"
)

// DefaultTopLanguages is how many languages ComputeLanguageStats keeps.
const DefaultTopLanguages = 10

// ComputeLanguageStats sums per-language byte sizes across repos and converts them to
// percentages of the total rounded to one decimal. Only the top n languages are kept,
// ordered by descending percentage; ties keep the order in which languages were first seen.
// A total size of zero yields empty stats.
func ComputeLanguageStats(repos []model.Repository, n int) model.LanguageStats {
	if n <= 0 {
		n = DefaultTopLanguages
	}

	sizes := make(map[string]int64)
	var order []string
	var total int64
	for _, repo := range repos {
		for _, edge := range repo.Languages {
			if _, seen := sizes[edge.Language]; !seen {
				order = append(order, edge.Language)
			}
			sizes[edge.Language] += edge.Size
			total += edge.Size
		}
	}
	if total <= 0 {
		return model.LanguageStats{}
	}

	stats := make(model.LanguageStats, 0, len(order))
	for _, lang := range order {
		pct := math.Round(float64(sizes[lang])/float64(total)*1000) / 10
		stats = append(stats, model.LanguageShare{Language: lang, Percentage: pct})
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Percentage > stats[j].Percentage
	})

	if len(stats) > n {
		stats = stats[:n]
	}
	return stats
}

// ContributionWindow returns the calendar year containing now, in UTC.
func ContributionWindow(now time.Time) (from, to time.Time) {
	year := now.UTC().Year()
	from = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to = time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
	return from, to
}
