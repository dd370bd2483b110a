package warps

import (
	"os"
	"time"

	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

// Settings configures the teleport pipeline.
type Settings struct {
	Safety      SafetySettings     `yaml:"safety"`
	Timers      TimerSettings      `yaml:"timers"`
	Economy     EconomySettings    `yaml:"economy"`
	Access      AccessSettings     `yaml:"access"`
	Permissions PermissionSettings `yaml:"permissions"`
}

// SafetySettings configures the safety search.
type SafetySettings struct {
	Enabled      bool `yaml:"enabled"`
	SearchRadius int  `yaml:"search_radius"`
}

// TimerSettings configures warmups and cooldowns.
type TimerSettings struct {
	Enabled             bool          `yaml:"enabled"`
	AbortOnMove         bool          `yaml:"abort_on_move"`
	AbortOnDamage       bool          `yaml:"abort_on_damage"`
	AllowedDistance     float64       `yaml:"allowed_distance"`
	NotifyOnCooldownEnd bool          `yaml:"notify_on_cooldown_end"`
	PollInterval        time.Duration `yaml:"poll_interval"`
	Warmup              DurationTiers `yaml:"warmup"`
	Cooldown            DurationTiers `yaml:"cooldown"`
}

// DurationTiers is a default duration with overrides granted by permission.
type DurationTiers struct {
	Default time.Duration  `yaml:"default"`
	Tiers   []DurationTier `yaml:"tiers"`
}

// DurationTier applies to players holding warps.timer.<kind>.<name>.
type DurationTier struct {
	Name     string        `yaml:"name"`
	Duration time.Duration `yaml:"duration"`
}

// EconomySettings configures fees. Fees maps fee names such as "warp-to" to
// their amounts.
type EconomySettings struct {
	Enabled bool                   `yaml:"enabled"`
	Fees    map[string]AmountTiers `yaml:"fees"`
}

// AmountTiers is a default amount with overrides granted by permission.
type AmountTiers struct {
	Default float64      `yaml:"default"`
	Tiers   []AmountTier `yaml:"tiers"`
}

// AmountTier applies to actors holding warps.fee.<fee>.<name>.
type AmountTier struct {
	Name   string  `yaml:"name"`
	Amount float64 `yaml:"amount"`
}

// AccessSettings configures world access control.
type AccessSettings struct {
	WorldAccessControl bool `yaml:"world_access_control"`
}

// PermissionSettings feeds the Permissions store of the Dragonfly adapter.
// Nodes are glob patterns split at dots.
type PermissionSettings struct {
	Default []string          `yaml:"default"`
	Groups  []PermissionGroup `yaml:"groups"`
}

// PermissionGroup grants its permissions to its members. Members are player
// names or UUIDs.
type PermissionGroup struct {
	Name        string   `yaml:"name"`
	Permissions []string `yaml:"permissions"`
	Members     []string `yaml:"members"`
}

// DurationProvider returns timer durations for players.
type DurationProvider interface {
	Duration(p Player, kind TimerKind) time.Duration
}

// Permission nodes granting timer and fee tiers.
const (
	PermTimerDisobey            = "warps.timer.disobey"
	PermTimerDisobeyMoveAbort   = "warps.timer.disobey.move-abort"
	PermTimerDisobeyDamageAbort = "warps.timer.disobey.damage-abort"
)

// TimerTierPermission returns the node granting a timer tier.
func TimerTierPermission(kind TimerKind, tier string) string {
	return "warps.timer." + kind.String() + "." + tier
}

// FeeTierPermission returns the node granting a fee tier.
func FeeTierPermission(fee Fee, tier string) string {
	return "warps.fee." + fee.String() + "." + tier
}

// DefaultSettings returns the settings used when no file is loaded.
func DefaultSettings() Settings {
	return Settings{
		Safety: SafetySettings{
			Enabled:      true,
			SearchRadius: 5,
		},
		Timers: TimerSettings{
			Enabled:             false,
			AbortOnMove:         true,
			AbortOnDamage:       true,
			AllowedDistance:     2,
			NotifyOnCooldownEnd: true,
			PollInterval:        250 * time.Millisecond,
			Warmup:              DurationTiers{Default: 5 * time.Second},
			Cooldown:            DurationTiers{Default: 10 * time.Second},
		},
		Economy: EconomySettings{
			Fees: map[string]AmountTiers{},
		},
	}
}

// LoadSettings reads settings from a YAML file.
// Fields missing from the file keep their default values.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	raw, err := os.ReadFile(path)
	if err != nil {
		return s, oops.In("settings").
			Code("SETTINGS_READ").
			With("path", path).
			Wrapf(err, "read settings")
	}
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return s, oops.In("settings").
			Code("SETTINGS_DECODE").
			With("path", path).
			Wrapf(err, "decode settings")
	}
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// Validate checks the settings for values the pipeline cannot work with.
func (s Settings) Validate() error {
	invalid := func(field string, value any, format string, args ...any) error {
		return oops.In("settings").
			Code("INVALID_SETTING").
			With("field", field, "value", value).
			Errorf(format, args...)
	}

	if s.Safety.SearchRadius < 0 {
		return invalid("safety.search_radius", s.Safety.SearchRadius, "search radius must not be negative")
	}
	if s.Timers.AllowedDistance < 0 {
		return invalid("timers.allowed_distance", s.Timers.AllowedDistance, "allowed distance must not be negative")
	}
	if s.Timers.PollInterval < 0 {
		return invalid("timers.poll_interval", s.Timers.PollInterval, "poll interval must not be negative")
	}
	for kind, tiers := range map[string]DurationTiers{"warmup": s.Timers.Warmup, "cooldown": s.Timers.Cooldown} {
		if tiers.Default < 0 {
			return invalid("timers."+kind+".default", tiers.Default, "%s must not be negative", kind)
		}
		for _, t := range tiers.Tiers {
			if t.Name == "" || t.Duration < 0 {
				return invalid("timers."+kind+".tiers", t.Name, "invalid %s tier %q", kind, t.Name)
			}
		}
	}
	for name, tiers := range s.Economy.Fees {
		if _, ok := ParseFee(name); !ok {
			return invalid("economy.fees", name, "unknown fee %q", name)
		}
		if tiers.Default < 0 {
			return invalid("economy.fees."+name+".default", tiers.Default, "fee must not be negative")
		}
		for _, t := range tiers.Tiers {
			if t.Name == "" || t.Amount < 0 {
				return invalid("economy.fees."+name+".tiers", t.Name, "invalid fee tier %q", t.Name)
			}
		}
	}
	for _, g := range s.Permissions.Groups {
		if g.Name == "" {
			return invalid("permissions.groups", g.Name, "permission group without name")
		}
	}
	return nil
}

// Duration implements DurationProvider. The first tier the player holds wins.
func (s TimerSettings) Duration(p Player, kind TimerKind) time.Duration {
	tiers := s.Warmup
	if kind == Cooldown {
		tiers = s.Cooldown
	}
	for _, t := range tiers.Tiers {
		if p.HasPermission(TimerTierPermission(kind, t.Name)) {
			return t.Duration
		}
	}
	return tiers.Default
}

// Amount implements FeeProvider. The first tier the actor holds wins; fees
// missing from the settings are free.
func (s EconomySettings) Amount(a Actor, fee Fee) float64 {
	tiers, ok := s.Fees[fee.String()]
	if !ok {
		return 0
	}
	for _, t := range tiers.Tiers {
		if a.HasPermission(FeeTierPermission(fee, t.Name)) {
			return t.Amount
		}
	}
	return tiers.Default
}
