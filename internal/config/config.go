// Package config loads, validates and persists ls-natal settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/litescript/ls-natal/internal/astro"
	"github.com/litescript/ls-natal/internal/chart"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. LS_NATAL_LAT.
	EnvPrefix = "LS_NATAL"
	// FileName is the config file looked up in the search path.
	FileName = "config.toml"

	appDir = "ls-natal"
)

// Settings holds every user-adjustable value.
type Settings struct {
	Date        string         `mapstructure:"date" toml:"date"` // RFC3339; empty means now
	Lat         float64        `mapstructure:"lat" toml:"lat"`
	Lon         float64        `mapstructure:"lon" toml:"lon"`
	Colors      Colors         `mapstructure:"colors" toml:"colors"`
	Ephemeris   string         `mapstructure:"ephemeris" toml:"ephemeris"`
	HorizonsURL string         `mapstructure:"horizons_url" toml:"horizons_url"`
	Glyphs      string         `mapstructure:"glyphs" toml:"glyphs"`
	Size        float64        `mapstructure:"size" toml:"size"`
	LogLevel    string         `mapstructure:"log_level" toml:"log_level"`
	LogFile     string         `mapstructure:"log_file" toml:"log_file"`
	Server      ServerSettings `mapstructure:"server" toml:"server"`
}

// Colors is the configurable palette.
type Colors struct {
	Background string        `mapstructure:"background" toml:"background"`
	Stroke     string        `mapstructure:"stroke" toml:"stroke"`
	Signs      string        `mapstructure:"signs" toml:"signs"`
	Dignities  DignityColors `mapstructure:"dignities" toml:"dignities"`
}

// DignityColors colours bodies by dignity.
type DignityColors struct {
	None       string `mapstructure:"none" toml:"none"`
	Domicile   string `mapstructure:"domicile" toml:"domicile"`
	Detriment  string `mapstructure:"detriment" toml:"detriment"`
	Exaltation string `mapstructure:"exaltation" toml:"exaltation"`
	Fall       string `mapstructure:"fall" toml:"fall"`
}

// ServerSettings configures the HTTP chart service.
type ServerSettings struct {
	Addr      string  `mapstructure:"addr" toml:"addr"`
	RateLimit float64 `mapstructure:"rate_limit" toml:"rate_limit"` // requests per second, 0 disables
	Burst     int     `mapstructure:"burst" toml:"burst"`
}

// Defaults returns the stock settings: Belo Horizonte, the dark
// palette and the offline ephemeris.
func Defaults() Settings {
	theme := chart.DefaultTheme()
	return Settings{
		Lat: -19.92,
		Lon: -43.93,
		Colors: Colors{
			Background: string(theme.Background),
			Stroke:     string(theme.Stroke),
			Signs:      string(theme.Signs),
			Dignities: DignityColors{
				None:       string(theme.Dignities.None),
				Domicile:   string(theme.Dignities.Domicile),
				Detriment:  string(theme.Dignities.Detriment),
				Exaltation: string(theme.Dignities.Exaltation),
				Fall:       string(theme.Dignities.Fall),
			},
		},
		Ephemeris: "meeus",
		Glyphs:    "unicode",
		Size:      600,
		LogLevel:  "info",
		Server: ServerSettings{
			Addr:      ":8080",
			RateLimit: 10,
			Burst:     20,
		},
	}
}

// setDefaults registers every key with viper so env overrides apply.
func setDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("date", d.Date)
	v.SetDefault("lat", d.Lat)
	v.SetDefault("lon", d.Lon)
	v.SetDefault("colors.background", d.Colors.Background)
	v.SetDefault("colors.stroke", d.Colors.Stroke)
	v.SetDefault("colors.signs", d.Colors.Signs)
	v.SetDefault("colors.dignities.none", d.Colors.Dignities.None)
	v.SetDefault("colors.dignities.domicile", d.Colors.Dignities.Domicile)
	v.SetDefault("colors.dignities.detriment", d.Colors.Dignities.Detriment)
	v.SetDefault("colors.dignities.exaltation", d.Colors.Dignities.Exaltation)
	v.SetDefault("colors.dignities.fall", d.Colors.Dignities.Fall)
	v.SetDefault("ephemeris", d.Ephemeris)
	v.SetDefault("horizons_url", d.HorizonsURL)
	v.SetDefault("glyphs", d.Glyphs)
	v.SetDefault("size", d.Size)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.rate_limit", d.Server.RateLimit)
	v.SetDefault("server.burst", d.Server.Burst)
}

// DefaultPath returns the config file in the user config directory,
// or in the working directory when that cannot be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return FileName
	}
	return filepath.Join(dir, appDir, FileName)
}

// Loader reads settings from a config file, LS_NATAL_* environment
// variables and bound flags, in increasing precedence.
type Loader struct {
	v    *viper.Viper
	path string
}

// NewLoader creates a loader for an explicit config file. An empty path
// searches the user config directory and the working directory.
func NewLoader(path string) *Loader {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
		v.SetConfigType("toml")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, appDir))
		}
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{v: v, path: path}
}

// Viper exposes the underlying instance for flag binding.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// Path returns the file settings are read from and saved to.
func (l *Loader) Path() string {
	if used := l.v.ConfigFileUsed(); used != "" {
		return used
	}
	if l.path != "" {
		return l.path
	}
	return DefaultPath()
}

// Load reads and validates settings. A missing config file is not an
// error.
func (l *Loader) Load() (Settings, error) {
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Settings{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var s Settings
	if err := l.v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// LoadDotEnv loads .env files into the environment. Missing files are
// ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Chart size bounds accepted by Validate.
const (
	MinSize = 102
	MaxSize = 4096
)

// Validate reports every out-of-range setting.
func (s Settings) Validate() error {
	var errs []error

	if s.Date != "" {
		if _, err := time.Parse(time.RFC3339, s.Date); err != nil {
			errs = append(errs, fmt.Errorf("date %q: want RFC3339", s.Date))
		}
	}
	if err := (astro.Observer{LatDeg: s.Lat, LonDeg: s.Lon}).Validate(); err != nil {
		errs = append(errs, err)
	}

	colors := []struct{ key, value string }{
		{"colors.background", s.Colors.Background},
		{"colors.stroke", s.Colors.Stroke},
		{"colors.signs", s.Colors.Signs},
		{"colors.dignities.none", s.Colors.Dignities.None},
		{"colors.dignities.domicile", s.Colors.Dignities.Domicile},
		{"colors.dignities.detriment", s.Colors.Dignities.Detriment},
		{"colors.dignities.exaltation", s.Colors.Dignities.Exaltation},
		{"colors.dignities.fall", s.Colors.Dignities.Fall},
	}
	for _, c := range colors {
		if !hexColor.MatchString(c.value) {
			errs = append(errs, fmt.Errorf("%s %q: want #RGB or #RRGGBB", c.key, c.value))
		}
	}

	switch strings.ToLower(s.Ephemeris) {
	case "", "meeus", "local", "horizons", "auto":
	default:
		errs = append(errs, fmt.Errorf("ephemeris %q: want meeus, horizons or auto", s.Ephemeris))
	}
	switch s.Glyphs {
	case "", "unicode", "font":
	default:
		errs = append(errs, fmt.Errorf("glyphs %q: want unicode or font", s.Glyphs))
	}
	if s.Size < MinSize || s.Size > MaxSize {
		errs = append(errs, fmt.Errorf("size %v: want %d to %d", s.Size, MinSize, MaxSize))
	}
	switch strings.ToLower(s.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level %q: want debug, info, warn or error", s.LogLevel))
	}
	if s.Server.RateLimit < 0 || s.Server.Burst < 0 {
		errs = append(errs, fmt.Errorf("server rate limit %v burst %d: want non-negative", s.Server.RateLimit, s.Server.Burst))
	}

	return errors.Join(errs...)
}

// Time returns the configured chart time, or now when unset.
func (s Settings) Time(now time.Time) (time.Time, error) {
	if s.Date == "" {
		return now.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: %w", s.Date, err)
	}
	return t.UTC(), nil
}

// Observer returns the configured location.
func (s Settings) Observer() astro.Observer {
	return astro.Observer{LatDeg: s.Lat, LonDeg: s.Lon}
}

// Theme converts the palette to a chart theme.
func (s Settings) Theme() chart.Theme {
	return chart.Theme{
		Background: chart.Color(s.Colors.Background),
		Stroke:     chart.Color(s.Colors.Stroke),
		Signs:      chart.Color(s.Colors.Signs),
		Dignities: chart.DignityColors{
			None:       chart.Color(s.Colors.Dignities.None),
			Domicile:   chart.Color(s.Colors.Dignities.Domicile),
			Detriment:  chart.Color(s.Colors.Dignities.Detriment),
			Exaltation: chart.Color(s.Colors.Dignities.Exaltation),
			Fall:       chart.Color(s.Colors.Dignities.Fall),
		},
	}
}

// Dimensions returns a square canvas of the configured size with the
// wheel 50px inside each edge.
func (s Settings) Dimensions() chart.Dimensions {
	return chart.Dimensions{Width: s.Size, Height: s.Size, Radius: (s.Size - 100) / 2}
}

// Save writes settings to path as TOML, creating parent directories.
// The file is replaced atomically.
func Save(path string, s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing config: %w", err)
	}
	return nil
}

// Reset overwrites path with the defaults and returns them.
func Reset(path string) (Settings, error) {
	d := Defaults()
	if err := Save(path, d); err != nil {
		return Settings{}, err
	}
	return d, nil
}
