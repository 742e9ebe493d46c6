package config

// Default upstream endpoints. Tests and staging deployments override BaseURL
// through the YAML file.
const (
	DefaultMozBaseURL        = "https://moz-da-pa1.p.rapidapi.com"
	DefaultSimilarWebBaseURL = "https://similarweb-traffic.p.rapidapi.com"
	DefaultSimilarWebHost    = "similarweb-traffic.p.rapidapi.com"
)

// ApplyDefaults sets the baseline values on the given Config. YAML and
// environment values applied later overwrite them.
func ApplyDefaults(cfg *Config) {
	// --- Log ---
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"

	// --- Server ---
	cfg.Server.ListenAddress = ":8000"
	cfg.Server.ReadTimeoutSeconds = 15
	cfg.Server.RateLimitWindowSeconds = 60

	// --- Database ---
	cfg.Database.Host = "localhost"
	cfg.Database.Port = 5432
	cfg.Database.Name = "domainscope"
	cfg.Database.SSLMode = "disable"
	cfg.Database.MaxOpenConns = 10
	cfg.Database.MaxIdleConns = 5

	// --- Upstream APIs ---
	cfg.Moz.BaseURL = DefaultMozBaseURL
	cfg.SimilarWeb.BaseURL = DefaultSimilarWebBaseURL
	cfg.SimilarWeb.Host = DefaultSimilarWebHost
	cfg.SimilarWeb.TimeoutSeconds = 10
}
