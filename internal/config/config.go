package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Provider   ProviderConfig   `mapstructure:"provider"`
	Proxy      ProxyConfig      `mapstructure:"proxy"`
	Transcript TranscriptConfig `mapstructure:"transcript"`
	Retrieval  RetrievalConfig  `mapstructure:"retrieval"`
	Cache      CacheConfig      `mapstructure:"cache"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port"`
	Mode string     `mapstructure:"mode"`
	CORS CORSConfig `mapstructure:"cors"`
}

// CORSConfig names the single browser origin allowed to call the API.
type CORSConfig struct {
	AllowedOrigin string `mapstructure:"allowed_origin"`
}

// ProxyConfig holds credentials for the rotating residential proxy used for
// transcript fetching. Both credentials must be present for the proxy to be
// used; otherwise transcript requests go out directly.
type ProxyConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Host     string `mapstructure:"host"`
}

// Enabled reports whether both proxy credentials are configured.
func (p *ProxyConfig) Enabled() bool {
	return p.Username != "" && p.Password != ""
}

// Partial reports whether exactly one of the two credentials is set, which
// almost always means a deployment mistake worth warning about.
func (p *ProxyConfig) Partial() bool {
	return (p.Username == "") != (p.Password == "")
}

// URL builds the proxy URL in the vendor's rotating-session form.
func (p *ProxyConfig) URL() string {
	if !p.Enabled() {
		return ""
	}
	return fmt.Sprintf("http://%s-rotate:%s@%s", p.Username, p.Password, p.Host)
}

type TranscriptConfig struct {
	Language          string  `mapstructure:"language"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
}

type RetrievalConfig struct {
	ChunkSize        int `mapstructure:"chunk_size"`
	ChunkOverlap     int `mapstructure:"chunk_overlap"`
	TopK             int `mapstructure:"top_k"`
	EmbedBatchSize   int `mapstructure:"embed_batch_size"`
	EmbedConcurrency int `mapstructure:"embed_concurrency"`
}

type CacheConfig struct {
	TTLSeconds int `mapstructure:"ttl_seconds"`
	Capacity   int `mapstructure:"capacity"`
}

// TTL returns the cache entry time-to-live as a duration.
func (c *CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	// Set config file path
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// Enable environment variable override
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors.allowed_origin", "https://marcus-ai-469f.vercel.app")
	v.SetDefault("provider.name", ProviderGemini)
	v.SetDefault("provider.embedding_model", "gemini-embedding-001")
	v.SetDefault("provider.model", "gemini-1.5-flash")
	v.SetDefault("provider.timeout_seconds", 60)
	v.SetDefault("proxy.host", "p.webshare.io:80")
	v.SetDefault("transcript.language", "en")
	v.SetDefault("transcript.requests_per_second", 2.0)
	v.SetDefault("retrieval.chunk_size", 1000)
	v.SetDefault("retrieval.chunk_overlap", 200)
	v.SetDefault("retrieval.top_k", 4)
	v.SetDefault("retrieval.embed_batch_size", 100)
	v.SetDefault("retrieval.embed_concurrency", 4)
	v.SetDefault("cache.ttl_seconds", 3600)
	v.SetDefault("cache.capacity", 100)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables explicitly for sensitive data
	v.BindEnv("server.cors.allowed_origin", "ALLOWED_ORIGIN")
	v.BindEnv("provider.name", "PROVIDER_NAME")
	v.BindEnv("provider.api_key", "PROVIDER_API_KEY")
	v.BindEnv("provider.base_url", "PROVIDER_BASE_URL")
	v.BindEnv("proxy.username", "PROXY_USERNAME")
	v.BindEnv("proxy.password", "PROXY_PASSWORD")
	v.BindEnv("proxy.host", "PROXY_HOST")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Provider.ResolveEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Validate rejects configurations the service cannot start with. A missing
// API key is fatal here rather than at first request.
func (c *Config) Validate() error {
	if err := c.Provider.Validate(); err != nil {
		return err
	}
	if c.Server.CORS.AllowedOrigin == "" {
		return fmt.Errorf("server.cors.allowed_origin is required")
	}
	if c.Retrieval.ChunkSize <= 0 {
		return fmt.Errorf("retrieval.chunk_size must be positive")
	}
	if c.Retrieval.ChunkOverlap < 0 || c.Retrieval.ChunkOverlap >= c.Retrieval.ChunkSize {
		return fmt.Errorf("retrieval.chunk_overlap must be in [0, chunk_size)")
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("retrieval.top_k must be positive")
	}
	if c.Retrieval.EmbedBatchSize <= 0 {
		return fmt.Errorf("retrieval.embed_batch_size must be positive")
	}
	if c.Retrieval.EmbedConcurrency <= 0 {
		return fmt.Errorf("retrieval.embed_concurrency must be positive")
	}
	if c.Cache.TTLSeconds <= 0 {
		return fmt.Errorf("cache.ttl_seconds must be positive")
	}
	if c.Cache.Capacity <= 0 {
		return fmt.Errorf("cache.capacity must be positive")
	}
	if c.Transcript.RequestsPerSecond <= 0 {
		return fmt.Errorf("transcript.requests_per_second must be positive")
	}
	return nil
}
