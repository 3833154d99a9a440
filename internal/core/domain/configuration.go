package domain

// SystemConfiguration is a single versioned system configuration: a system
// package plus the closure of packages it (transitively) references.
type SystemConfiguration struct {
	VersionNumber   uint32   `json:"version_number"`
	SystemPackageID string   `json:"system_package_id"`
	PackageIDs      []string `json:"package_ids"`
}

// IsTombstone reports whether this is the version-0 sentinel standing in for
// an unknown prior state.
func (c SystemConfiguration) IsTombstone() bool {
	return c.VersionNumber == TombstoneVersion
}

// Tombstone builds the sentinel configuration recorded at position 0 when the
// running system can't be identified at startup.
func Tombstone() SystemConfiguration {
	return SystemConfiguration{
		VersionNumber:   TombstoneVersion,
		SystemPackageID: TombstonePackageID,
		PackageIDs:      nil,
	}
}

// PackageIDSet returns the configuration's package ids as a set for
// membership and union/difference operations.
func (c SystemConfiguration) PackageIDSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.PackageIDs))
	for _, id := range c.PackageIDs {
		set[id] = struct{}{}
	}
	return set
}

// UnionPackageIDs returns the union of package ids across a slice of configurations.
func UnionPackageIDs(configs []SystemConfiguration) map[string]struct{} {
	out := make(map[string]struct{})
	for _, c := range configs {
		for _, id := range c.PackageIDs {
			out[id] = struct{}{}
		}
	}
	return out
}
