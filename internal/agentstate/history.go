package agentstate

import "github.com/DanielSidhion/nixless-agent/internal/core/domain"

// PruneHistory discards the oldest non-tombstone configurations so that at
// most maxCount of them remain, returning the updated (in version order)
// slice and the set of package ids exclusively owned by the discarded
// configurations — the ones that should join packages_to_cleanup (§4.9
// CleanupConfigurationHistory, §8 "history pruning" scenario).
func PruneHistory(configs []domain.SystemConfiguration, maxCount uint32) ([]domain.SystemConfiguration, map[string]struct{}) {
	tombstoneIdx := -1
	nonTombstone := make([]domain.SystemConfiguration, 0, len(configs))
	for i, c := range configs {
		if c.IsTombstone() {
			tombstoneIdx = i
			continue
		}
		nonTombstone = append(nonTombstone, c)
	}

	if uint32(len(nonTombstone)) <= maxCount {
		return configs, map[string]struct{}{}
	}

	dropCount := uint32(len(nonTombstone)) - maxCount
	discarded := nonTombstone[:dropCount]
	retained := nonTombstone[dropCount:]

	discardedIDs := domain.UnionPackageIDs(discarded)
	retainedIDs := domain.UnionPackageIDs(retained)
	for id := range retainedIDs {
		delete(discardedIDs, id)
	}

	var result []domain.SystemConfiguration
	if tombstoneIdx >= 0 {
		result = append(result, configs[tombstoneIdx])
	}
	result = append(result, retained...)

	return result, discardedIDs
}
