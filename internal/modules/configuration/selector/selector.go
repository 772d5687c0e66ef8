package selector

import (
	"sort"
	"strings"

	"github.com/configwatch/config-slack-bot/internal/modules/configuration/domain"
	"github.com/samber/lo"
)

// Selector picks configuration file candidates out of a channel's uploads
type Selector struct {
	prefix string
}

// New creates a selector for the given configuration file name prefix.
// Matching is an exact, case-sensitive prefix match on the display title.
func New(prefix string) *Selector {
	return &Selector{prefix: prefix}
}

// Select filters candidates to those whose title carries the configured
// prefix and orders them by upload timestamp descending. Ties keep their
// input order. An empty result is a legitimate "nothing to do" signal,
// not an error.
func (s *Selector) Select(files []domain.FileCandidate) []domain.FileCandidate {
	matched := lo.Filter(files, func(f domain.FileCandidate, _ int) bool {
		return strings.HasPrefix(f.Title, s.prefix)
	})

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp > matched[j].Timestamp
	})

	return matched
}
