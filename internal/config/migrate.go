package config

import "fmt"

// IntVersion wraps a single integer version (spec §4.5's "version
// integer in the file selects the starting migration") as the Major
// component of keystorm's Version, so the existing Migrator chain in
// migration.go can be reused unchanged rather than duplicated.
func IntVersion(n int) Version { return Version{Major: n} }

// Migrate applies migrator's version chain to raw and returns the
// migrated tree. raw's "version" field is a plain integer per spec
// §4.5; it is translated to the Migrator's internal "_version" string
// form before the chain runs and translated back after, so migrations
// can be registered with IntVersion(n) directly.
func Migrate(migrator *Migrator, raw map[string]any) (map[string]any, error) {
	working := cloneMap(raw)
	n, _ := working["version"].(int)
	working["_version"] = fmt.Sprintf("%d.0.0", n)
	delete(working, "version")

	migrated, _, err := migrator.Migrate(working)
	if err != nil {
		return nil, err
	}

	verStr, _ := migrated["_version"].(string)
	var major int
	_, _ = fmt.Sscanf(verStr, "%d.", &major)
	migrated["version"] = major
	delete(migrated, "_version")

	return migrated, nil
}
