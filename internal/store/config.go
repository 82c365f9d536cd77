package store

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Video struct {
		ChannelID       string   `yaml:"channel_id"`
		Query           string   `yaml:"query"`
		FallbackQueries []string `yaml:"fallback_queries"`
		MaxResults      int64    `yaml:"max_results"`
		Model           string   `yaml:"model"`
		WeeklyWeekdays  []string `yaml:"weekly_weekdays"`
	} `yaml:"video"`
	Market struct {
		LookbackDays int    `yaml:"lookback_days"`
		MaxNews      int    `yaml:"max_news"`
		ProbeTicker  string `yaml:"probe_ticker"`
	} `yaml:"market"`
	Storage struct {
		Bucket     string `yaml:"bucket"`
		BasePrefix string `yaml:"base_prefix"`
	} `yaml:"storage"`
	Delays struct {
		TickerSeconds int `yaml:"ticker_seconds"`
		ClientSeconds int `yaml:"client_seconds"`
	} `yaml:"delays"`

	// Credentials come from the environment, never from the YAML file.
	Credentials Credentials `yaml:"-"`
}

type Credentials struct {
	YouTubeAPIKey       string
	GeminiAPIKey        string
	SupabaseURL         string
	SupabaseAnonKey     string
	SupabaseServiceRole string
	DatabaseURL         string
	FMPAPIKey           string
	FinnhubAPIKey       string
}

var weekdayNames = map[string]time.Weekday{
	"MON": time.Monday,
	"TUE": time.Tuesday,
	"WED": time.Wednesday,
	"THU": time.Thursday,
	"FRI": time.Friday,
	"SAT": time.Saturday,
	"SUN": time.Sunday,
}

func (c *Config) Validate() error {
	if c.Video.ChannelID == "" {
		return fmt.Errorf("video.channel_id cannot be empty")
	}
	if c.Video.Query == "" {
		return fmt.Errorf("video.query cannot be empty")
	}
	if c.Market.LookbackDays <= 0 {
		return fmt.Errorf("market.lookback_days must be positive, got %d", c.Market.LookbackDays)
	}
	if c.Delays.TickerSeconds < 0 || c.Delays.ClientSeconds < 0 {
		return fmt.Errorf("delays cannot be negative")
	}
	for _, d := range c.Video.WeeklyWeekdays {
		if _, ok := weekdayNames[strings.ToUpper(d)]; !ok {
			return fmt.Errorf("invalid weekday '%s' in video.weekly_weekdays", d)
		}
	}
	return nil
}

// WeeklyWeekdaySet resolves the configured weekday names. An empty set
// disables the weekly market vision stage.
func (c *Config) WeeklyWeekdaySet() map[time.Weekday]bool {
	set := make(map[time.Weekday]bool, len(c.Video.WeeklyWeekdays))
	for _, d := range c.Video.WeeklyWeekdays {
		if wd, ok := weekdayNames[strings.ToUpper(d)]; ok {
			set[wd] = true
		}
	}
	return set
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	applyDefaults(&c)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	c.Credentials = loadCredentialsFromEnv()
	return &c, nil
}

func applyDefaults(c *Config) {
	if c.Video.ChannelID == "" {
		c.Video.ChannelID = getEnvOrDefault("CHANNEL_ID_XTB", "UC-mfgGnt3tXtkDnFpl02f2Q")
	}
	if c.Video.Query == "" {
		c.Video.Query = getEnvOrDefault("CONSULTA_BUSQUEDA", "PRE MERCADO |")
	}
	if c.Video.MaxResults == 0 {
		c.Video.MaxResults = 5
	}
	if c.Video.Model == "" {
		c.Video.Model = "gemini-2.5-flash"
	}
	if c.Market.LookbackDays == 0 {
		c.Market.LookbackDays = envInt("DIAS_HISTORICOS", 30)
	}
	if c.Market.MaxNews == 0 {
		c.Market.MaxNews = 10
	}
	if c.Market.ProbeTicker == "" {
		c.Market.ProbeTicker = "AAPL"
	}
	if c.Storage.Bucket == "" {
		c.Storage.Bucket = getEnvOrDefault("BUCKET_NAME", "portfolio-files")
	}
	if c.Storage.BasePrefix == "" {
		c.Storage.BasePrefix = getEnvOrDefault("BASE_PREFIX", "Informes")
	}
	if c.Delays.TickerSeconds == 0 {
		c.Delays.TickerSeconds = 15
	}
	if c.Delays.ClientSeconds == 0 {
		c.Delays.ClientSeconds = 30
	}
}

// loadCredentialsFromEnv reads every API credential. GOOGLE_API_KEY serves
// as the shared fallback for the YouTube and Gemini keys.
func loadCredentialsFromEnv() Credentials {
	google := os.Getenv("GOOGLE_API_KEY")
	return Credentials{
		YouTubeAPIKey:       getEnvOrDefault("YOUTUBE_API_KEY", google),
		GeminiAPIKey:        getEnvOrDefault("GEMINI_API_KEY", google),
		SupabaseURL:         os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey:     os.Getenv("SUPABASE_ANON_KEY"),
		SupabaseServiceRole: os.Getenv("SUPABASE_SERVICE_ROLE"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		FMPAPIKey:           os.Getenv("FMP_API_KEY"),
		FinnhubAPIKey:       os.Getenv("FINNHUB_API_KEY"),
	}
}

// Missing reports every required credential that is absent so a misconfigured
// deployment fails once with the complete list. The database URL is only
// required when clients come from the directory instead of demo data.
func (cr Credentials) Missing(requireDatabase bool) []string {
	var missing []string
	if cr.YouTubeAPIKey == "" {
		missing = append(missing, "YOUTUBE_API_KEY (or GOOGLE_API_KEY)")
	}
	if cr.GeminiAPIKey == "" {
		missing = append(missing, "GEMINI_API_KEY (or GOOGLE_API_KEY)")
	}
	if cr.SupabaseURL == "" {
		missing = append(missing, "SUPABASE_URL")
	}
	if cr.SupabaseAnonKey == "" && cr.SupabaseServiceRole == "" {
		missing = append(missing, "SUPABASE_ANON_KEY or SUPABASE_SERVICE_ROLE")
	}
	if requireDatabase && cr.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	return missing
}

// StorageKey returns the key used against the storage API, preferring the
// service role over the anon key.
func (cr Credentials) StorageKey() string {
	if cr.SupabaseServiceRole != "" {
		return cr.SupabaseServiceRole
	}
	return cr.SupabaseAnonKey
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func envInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
