package constants

import "time"

var APIConfig = struct {
	PostcodesBaseURL  string
	ParliamentBaseURL string
	MapboxBaseURL     string
	LookupTimeout     time.Duration
	UserAgent         string
}{
	PostcodesBaseURL:  "https://api.postcodes.io",
	ParliamentBaseURL: "https://members-api.parliament.uk/api",
	MapboxBaseURL:     "https://api.mapbox.com",
	LookupTimeout:     10 * time.Second, // per outbound call
	UserAgent:         "Mozilla/5.0 (compatible; DearPower/1.0)",
}

var DirectoryConfig = struct {
	SearchTake int
}{
	SearchTake: 10,
}

var GeocodeConfig = struct {
	Country        string
	SearchTypes    string
	ReverseTypes   string
	SearchLimit    int
	NearbyLimit    int
	RequestTimeout time.Duration
}{
	Country:        "gb",
	SearchTypes:    "address,postcode",
	ReverseTypes:   "address",
	SearchLimit:    5,
	NearbyLimit:    10,
	RequestTimeout: 10 * time.Second,
}

var ArticleConfig = struct {
	FetchTimeout time.Duration
	MaxBodyBytes int64
	MaxTextRunes int
	CacheTTL     time.Duration
}{
	FetchTimeout: 15 * time.Second,
	MaxBodyBytes: 2 << 20,
	MaxTextRunes: 4000,
	CacheTTL:     6 * time.Hour,
}

var RedisConfig = struct {
	ReadyTimeout time.Duration
}{
	ReadyTimeout: 5 * time.Second,
}

var CircuitBreakerConfig = struct {
	FailureThreshold    int
	ResetTimeout        time.Duration
	RateLimitTimeout    time.Duration
	HealthCheckInterval time.Duration
	HealthCheckTimeout  time.Duration
}{
	FailureThreshold:    3,
	ResetTimeout:        30 * time.Second,
	RateLimitTimeout:    15 * time.Minute,
	HealthCheckInterval: 5 * time.Minute,
	HealthCheckTimeout:  10 * time.Second,
}

var ServerConfig = struct {
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	ShutdownTimeout   time.Duration
	MaxDraftBodyBytes int64
}{
	ReadHeaderTimeout: 5 * time.Second,
	WriteTimeout:      90 * time.Second, // drafting can be slow
	ShutdownTimeout:   10 * time.Second,
	MaxDraftBodyBytes: 64 << 10,
}
