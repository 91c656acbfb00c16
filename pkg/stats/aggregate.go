package stats

import (
	"sort"
	"strings"

	"github.com/statsmith/statsmith/pkg/errors"
)

// Aggregate folds an account and its filtered repositories into a
// MetricSet.
//
// Languages are merged case-insensitively: "HTML" and "html" count as
// one language whose displayed name and color come from the first
// occurrence in iteration order. Iteration is made deterministic by
// visiting repositories sorted by full name, so repeated runs over the
// same data produce identical output.
//
// The language table is ordered by byte count descending, with ties
// broken by name ascending. Percentages are computed over the bytes
// that survived filtering.
func Aggregate(account Account, repos []Repository) (*MetricSet, error) {
	if err := validate(account, repos); err != nil {
		return nil, err
	}

	sorted := make([]Repository, len(repos))
	copy(sorted, repos)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].FullName() < sorted[j].FullName()
	})

	m := &MetricSet{
		Login:         account.Login,
		Name:          account.Name,
		JoinedAt:      account.JoinedAt,
		Followers:     account.Followers,
		Following:     account.Following,
		Sponsoring:    account.Sponsoring,
		StarredRepos:  account.StarredRepos,
		Contributions: account.Contributions,
	}

	merged := make(map[string]*LanguageStat)
	var totalBytes int64

	for _, repo := range sorted {
		m.Stars += repo.Stars
		m.Forks += repo.Forks
		m.Commits += repo.Commits
		m.LinesAdded += repo.LinesAdded
		m.LinesDeleted += repo.LinesDeleted
		if repo.Owned {
			m.OwnedRepos++
		} else {
			m.ContributedRepos++
		}

		for _, lang := range repo.Languages {
			key := strings.ToLower(lang.Name)
			entry, ok := merged[key]
			if !ok {
				entry = &LanguageStat{Name: lang.Name, Color: lang.Color}
				merged[key] = entry
			}
			entry.Bytes += lang.Bytes
			totalBytes += lang.Bytes
		}
	}

	m.LinesChanged = m.LinesAdded + m.LinesDeleted
	m.RepoCount = m.OwnedRepos + m.ContributedRepos

	// A zero byte total means no language data survived filtering; an
	// empty table reads better than rows of 0.00%.
	m.Languages = make([]LanguageStat, 0, len(merged))
	if totalBytes > 0 {
		for _, entry := range merged {
			entry.Percent = float64(entry.Bytes) / float64(totalBytes) * 100
			m.Languages = append(m.Languages, *entry)
		}
	}
	sort.Slice(m.Languages, func(i, j int) bool {
		if m.Languages[i].Bytes != m.Languages[j].Bytes {
			return m.Languages[i].Bytes > m.Languages[j].Bytes
		}
		return m.Languages[i].Name < m.Languages[j].Name
	})

	return m, nil
}

// validate rejects records carrying negative counts. The API never
// reports them, so a negative value means corrupted input (a bad cache
// entry, a buggy test fixture) and poisoning the totals would be worse
// than failing.
func validate(account Account, repos []Repository) error {
	if account.Login == "" {
		return errors.New(errors.ErrCodeInvalidMetrics, "account login is empty")
	}
	if account.Followers < 0 || account.Following < 0 || account.Sponsoring < 0 ||
		account.StarredRepos < 0 || account.Contributions < 0 {
		return errors.New(errors.ErrCodeInvalidMetrics, "account %s has negative counts", account.Login)
	}

	for _, repo := range repos {
		if repo.Stars < 0 || repo.Forks < 0 || repo.Commits < 0 ||
			repo.LinesAdded < 0 || repo.LinesDeleted < 0 {
			return errors.New(errors.ErrCodeInvalidMetrics, "repository %s has negative counts", repo.FullName())
		}
		for _, lang := range repo.Languages {
			if lang.Bytes < 0 {
				return errors.New(errors.ErrCodeInvalidMetrics, "repository %s reports negative bytes for %s", repo.FullName(), lang.Name)
			}
		}
	}
	return nil
}
