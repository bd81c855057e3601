package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tasklines/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklines/internal/config"
	"github.com/twiced-technology-gmbh/tasklines/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify settings",
	Long: `View the effective settings, get a specific key, or set a writable value.
Setting a value requires a settings file (see 'tasklines init').`,
	RunE: runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Get a setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Change a setting",
	Args:  cobra.ExactArgs(2), //nolint:mnd // key and value
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// configAccessor describes how to get and set a settings key.
type configAccessor struct {
	get      func(*config.Settings) any
	set      func(*config.Settings, string) error
	writable bool
}

func configAccessors() map[string]configAccessor {
	return map[string]configAccessor{
		"version": {
			get: func(s *config.Settings) any { return s.Version },
		},
		"global_filter": {
			get:      func(s *config.Settings) any { return s.GlobalFilter },
			set:      func(s *config.Settings, v string) error { s.GlobalFilter = strings.TrimSpace(v); return nil },
			writable: true,
		},
		"set_created_date": boolAccessor("set_created_date",
			func(s *config.Settings) *bool { return &s.SetCreatedDate }),
		"set_done_date": boolAccessor("set_done_date",
			func(s *config.Settings) *bool { return &s.SetDoneDate }),
		"set_cancelled_date": boolAccessor("set_cancelled_date",
			func(s *config.Settings) *bool { return &s.SetCancelledDate }),
		"recurrence_position": {
			get:      func(s *config.Settings) any { return s.RecurrencePosition },
			set:      func(s *config.Settings, v string) error { s.RecurrencePosition = v; return nil },
			writable: true,
		},
	}
}

func boolAccessor(key string, field func(*config.Settings) *bool) configAccessor {
	return configAccessor{
		get: func(s *config.Settings) any { return *field(s) },
		set: func(s *config.Settings, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return clierr.Newf(clierr.InvalidInput, "invalid %s %q: must be true or false", key, v)
			}
			*field(s) = b
			return nil
		},
		writable: true,
	}
}

// allConfigKeys returns settings keys in display order.
func allConfigKeys() []string {
	return []string{
		"version",
		"global_filter",
		"set_created_date",
		"set_done_date",
		"set_cancelled_date",
		"recurrence_position",
	}
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}

	accessors := configAccessors()

	if outputFormat() == output.FormatJSON {
		m := make(map[string]any, len(accessors))
		for _, key := range allConfigKeys() {
			m[key] = accessors[key].get(s)
		}
		return output.JSON(os.Stdout, m)
	}

	for _, key := range allConfigKeys() {
		fmt.Fprintf(os.Stdout, "%-20s %v\n", key, formatConfigValue(accessors[key].get(s)))
	}
	return nil
}

func runConfigGet(_ *cobra.Command, args []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}

	key := args[0]
	acc, ok := configAccessors()[key]
	if !ok {
		return clierr.Newf(clierr.InvalidInput, "unknown config key %q", key).
			WithDetails(map[string]any{"key": key, "allowed": allConfigKeys()})
	}

	val := acc.get(s)
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, val)
	}

	fmt.Fprintln(os.Stdout, formatConfigValue(val))
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	acc, ok := configAccessors()[key]
	if !ok {
		return clierr.Newf(clierr.InvalidInput, "unknown config key %q", key).
			WithDetails(map[string]any{"key": key, "allowed": allConfigKeys()})
	}
	if !acc.writable {
		return clierr.Newf(clierr.InvalidInput, "config key %q is read-only", key)
	}

	start, err := resolveDir()
	if err != nil {
		return err
	}
	dir, err := config.FindDir(start)
	if err != nil {
		return err
	}
	s, err := config.Load(dir)
	if err != nil {
		return err
	}

	if err := acc.set(s, value); err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return clierr.New(clierr.InvalidInput, err.Error())
	}
	if err := s.Save(); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"key": key, "value": acc.get(s)})
	}

	output.Messagef(os.Stdout, "Set %s = %v", key, formatConfigValue(acc.get(s)))
	return nil
}

func formatConfigValue(val any) string {
	if s, ok := val.(string); ok && s == "" {
		return "--"
	}
	return fmt.Sprintf("%v", val)
}
