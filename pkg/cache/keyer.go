package cache

import "fmt"

// Keyer derives cache keys for the two kinds of API responses the fetcher
// stores: GraphQL query results and REST contributor statistics.
//
// Keys are stable across runs so that a warm cache survives process
// restarts. Query variables are hashed so cursor values and year ranges
// produce distinct keys.
type Keyer interface {
	// QueryKey generates a key for a GraphQL response. The operation name
	// keeps unrelated queries apart; the variables are hashed in.
	QueryKey(operation string, vars map[string]any) string

	// StatsKey generates a key for a repository's contributor statistics.
	StatsKey(owner, name string) string
}

// DefaultKeyer is the standard key derivation.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// QueryKey generates a key of the form "gql:<operation>:<hash(vars)>".
func (k *DefaultKeyer) QueryKey(operation string, vars map[string]any) string {
	return hashKey("gql:"+operation, vars)
}

// StatsKey generates a key of the form "stats:<owner>/<name>".
func (k *DefaultKeyer) StatsKey(owner, name string) string {
	return fmt.Sprintf("stats:%s/%s", owner, name)
}
