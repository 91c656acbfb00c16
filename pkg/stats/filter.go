package stats

import "strings"

// Filters control which repositories and languages count toward the
// statistics. Zero-value filters keep everything.
type Filters struct {
	// ExcludedRepos lists owner/name pairs to drop. Matching is exact
	// and case-sensitive.
	ExcludedRepos []string

	// ExcludedLangs lists language names to drop. Matching ignores case.
	ExcludedLangs []string

	// ExcludeForks drops repositories marked as forks.
	ExcludeForks bool

	// ExcludePrivate drops private repositories.
	ExcludePrivate bool
}

// Apply returns the repositories that survive the filters, with excluded
// languages removed from each survivor. The input slice and its records
// are never modified; exclusion applies to every statistic downstream,
// not just the language table.
func (f Filters) Apply(repos []Repository) []Repository {
	excludedRepos := make(map[string]bool, len(f.ExcludedRepos))
	for _, name := range f.ExcludedRepos {
		excludedRepos[name] = true
	}
	excludedLangs := make(map[string]bool, len(f.ExcludedLangs))
	for _, lang := range f.ExcludedLangs {
		excludedLangs[strings.ToLower(lang)] = true
	}

	out := make([]Repository, 0, len(repos))
	for _, repo := range repos {
		if excludedRepos[repo.FullName()] {
			continue
		}
		if f.ExcludeForks && repo.Fork {
			continue
		}
		if f.ExcludePrivate && repo.Private {
			continue
		}

		kept := repo
		kept.Languages = make([]Language, 0, len(repo.Languages))
		for _, lang := range repo.Languages {
			if excludedLangs[strings.ToLower(lang.Name)] {
				continue
			}
			kept.Languages = append(kept.Languages, lang)
		}
		out = append(out, kept)
	}
	return out
}
