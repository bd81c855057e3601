package config

import "fmt"

// migrate upgrades settings from their version to CurrentVersion.
// Each migration function transforms the settings one version forward.
// Returns an error if the version is newer than what this binary supports.
func migrate(s *Settings) error {
	if s.Version == CurrentVersion {
		return nil
	}
	if s.Version > CurrentVersion {
		return fmt.Errorf(
			"%w: settings version %d is newer than supported version %d (upgrade tasklines)",
			ErrInvalid, s.Version, CurrentVersion,
		)
	}
	if s.Version < 1 {
		return fmt.Errorf("%w: settings version %d is invalid", ErrInvalid, s.Version)
	}

	for s.Version < CurrentVersion {
		fn, ok := migrations[s.Version]
		if !ok {
			return fmt.Errorf("%w: no migration path from version %d", ErrInvalid, s.Version)
		}
		if err := fn(s); err != nil {
			return fmt.Errorf("migrating settings from v%d: %w", s.Version, err)
		}
	}
	return nil
}

// migrations maps each version to the function that migrates it to the next version.
// The migration function must increment s.Version after a successful migration.
var migrations = map[int]func(*Settings) error{
	1: migrateV1ToV2,
	2: migrateV2ToV3,
}

// migrateV1ToV2 adds set_cancelled_date (v1 only knew done dates) and
// set_created_date, which v1 never stamped.
func migrateV1ToV2(s *Settings) error { //nolint:unparam // signature must match migrations map type
	s.SetCancelledDate = s.SetDoneDate
	s.SetCreatedDate = false
	s.Version = 2
	return nil
}

// migrateV2ToV3 adds recurrence_position.
func migrateV2ToV3(s *Settings) error { //nolint:unparam // signature must match migrations map type
	if s.RecurrencePosition == "" {
		s.RecurrencePosition = DefaultRecurrencePosition
	}
	s.Version = 3
	return nil
}
