package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configFileEnvName = "MISSLILY_CONFIG_FILE"
	envPrefix         = "MISSLILY"
	minSecretLen      = 32
)

type httpServer struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	UploadTimeout   time.Duration `mapstructure:"upload_timeout"`
	StreamHeartbeat time.Duration `mapstructure:"stream_heartbeat"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	SubmitRate      float64       `mapstructure:"submit_rate"`
	SubmitBurst     int           `mapstructure:"submit_burst"`
	SecureCookie    bool          `mapstructure:"secure_cookie"`
	TrustProxy      bool          `mapstructure:"trust_proxy"`
}

type admin struct {
	Email        string        `mapstructure:"email"`
	PasswordHash string        `mapstructure:"password_hash"`
	JWTSecret    string        `mapstructure:"jwt_secret"`
	SessionTTL   time.Duration `mapstructure:"session_ttl"`
}

type topics struct {
	Changes         string `mapstructure:"changes"`
	Inquiries       string `mapstructure:"inquiries"`
	ContactMessages string `mapstructure:"contact_messages"`
}

type consumers struct {
	IntakeGroup        string `mapstructure:"intake_group"`
	ChangesGroupPrefix string `mapstructure:"changes_group_prefix"`
}

type brokerTLS struct {
	CA   string `mapstructure:"ca"`
	Cert string `mapstructure:"cert"`
	Key  string `mapstructure:"key"`
}

func (t brokerTLS) Enabled() bool {
	return t.CA != ""
}

type broker struct {
	SeedBrokers        []string  `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string  `mapstructure:"schema_registry_urls"`
	Topics             topics    `mapstructure:"topics"`
	Consumers          consumers `mapstructure:"consumers"`
	TLS                brokerTLS `mapstructure:"tls"`
}

type ImageProfile struct {
	MaxBytes ByteSize `mapstructure:"max_bytes"`
	MaxWidth int      `mapstructure:"max_width"`
	Quality  float64  `mapstructure:"quality"`
}

type images struct {
	Products   ImageProfile `mapstructure:"products"`
	Categories ImageProfile `mapstructure:"categories"`
}

type live struct {
	Coalesce time.Duration `mapstructure:"coalesce"`
}

type Config struct {
	LogLevel       slog.Level `mapstructure:"log_level"`
	HTTP           httpServer `mapstructure:"http"`
	SQLDB          string     `mapstructure:"sql_db"`
	RedisURL       string     `mapstructure:"redis_url"`
	WhatsAppNumber string     `mapstructure:"whatsapp_number"`
	Admin          admin      `mapstructure:"admin"`
	Broker         broker     `mapstructure:"broker"`
	Images         images     `mapstructure:"images"`
	Live           live       `mapstructure:"live"`
}

// Load reads the config file and applies MISSLILY_* environment overrides.
// A .env file in the working directory is loaded first when present.
func Load() Config {
	cfg, err := load(os.Args[1:])
	if err != nil {
		die(err)
	}
	return cfg
}

func load(args []string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(getConfigFilepath(args))
	if err := v.ReadInConfig(); err != nil {
		return Config{}, err
	}

	var cfg Config
	err := v.UnmarshalExact(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		mapstructure.TextUnmarshallerHookFunc(),
		byteSizeHookFunc(),
	)))
	if err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("sql_db", "")
	v.SetDefault("redis_url", "")
	v.SetDefault("admin.email", "")
	v.SetDefault("admin.password_hash", "")
	v.SetDefault("admin.jwt_secret", "")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", "1m")
	v.SetDefault("http.idle_timeout", "30s")
	v.SetDefault("http.request_timeout", "5s")
	v.SetDefault("http.upload_timeout", "1m")
	v.SetDefault("http.stream_heartbeat", "25s")
	v.SetDefault("http.allowed_origins", []string{"*"})
	v.SetDefault("http.submit_rate", 0.2)
	v.SetDefault("http.submit_burst", 5)
	v.SetDefault("http.secure_cookie", true)
	v.SetDefault("http.trust_proxy", false)
	v.SetDefault("admin.session_ttl", "12h")
	v.SetDefault("broker.topics.changes", "misslily-changes")
	v.SetDefault("broker.topics.inquiries", "misslily-inquiries")
	v.SetDefault("broker.topics.contact_messages", "misslily-contact-messages")
	v.SetDefault("broker.consumers.intake_group", "misslily-intake")
	v.SetDefault("broker.consumers.changes_group_prefix", "misslily-live")
	v.SetDefault("broker.tls.ca", "")
	v.SetDefault("broker.tls.cert", "")
	v.SetDefault("broker.tls.key", "")
	v.SetDefault("images.products.max_bytes", "5MB")
	v.SetDefault("images.products.max_width", 800)
	v.SetDefault("images.products.quality", 0.7)
	v.SetDefault("images.categories.max_bytes", "2MB")
	v.SetDefault("images.categories.max_width", 150)
	v.SetDefault("images.categories.quality", 0.8)
	v.SetDefault("live.coalesce", "300ms")
	v.SetDefault("whatsapp_number", "918320953686")
}

func (c Config) validate() error {
	var errs []error
	if c.SQLDB == "" {
		errs = append(errs, errors.New("sql_db is required"))
	}
	if c.RedisURL == "" {
		errs = append(errs, errors.New("redis_url is required"))
	}
	if c.Admin.Email == "" || c.Admin.PasswordHash == "" {
		errs = append(errs, errors.New("admin.email and admin.password_hash are required"))
	}
	if len(c.Admin.JWTSecret) < minSecretLen {
		errs = append(errs, fmt.Errorf("admin.jwt_secret must be at least %d bytes", minSecretLen))
	}
	if len(c.Broker.SeedBrokers) == 0 {
		errs = append(errs, errors.New("broker.seed_brokers is required"))
	}
	if len(c.Broker.SchemaRegistryURLs) == 0 {
		errs = append(errs, errors.New("broker.schema_registry_urls is required"))
	}
	for name, p := range map[string]ImageProfile{
		"products": c.Images.Products, "categories": c.Images.Categories,
	} {
		if p.MaxBytes <= 0 || p.MaxWidth <= 0 || p.Quality <= 0 || p.Quality > 1 {
			errs = append(errs, fmt.Errorf("images.%s: invalid profile", name))
		}
	}
	return errors.Join(errs...)
}

func getConfigFilepath(args []string) string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	arg := cmdLine.String("config", "/config.yaml", "config file")
	_ = cmdLine.Parse(args)
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config file: %v\n", err)
	os.Exit(2)
}

// A ByteSize is a size read as a plain number of bytes or with a KB or MB
// suffix.
type ByteSize int64

func parseByteSize(s string) (ByteSize, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	mult := int64(1)
	switch {
	case strings.HasSuffix(s, "MB"):
		mult, s = 1<<20, strings.TrimSuffix(s, "MB")
	case strings.HasSuffix(s, "KB"):
		mult, s = 1<<10, strings.TrimSuffix(s, "KB")
	case strings.HasSuffix(s, "B"):
		s = strings.TrimSuffix(s, "B")
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid byte size %q", s)
	}
	return ByteSize(n * mult), nil
}

func byteSizeHookFunc() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to != reflect.TypeFor[ByteSize]() || from.Kind() != reflect.String {
			return data, nil
		}
		return parseByteSize(data.(string))
	}
}

func (c Config) Print() {
	tamplate := `
	General:
	LogLevel=%q
	SQLDB=%q
	RedisURL=%q
	WhatsAppNumber=%q

	HTTP:
	Addr=%q
	RequestTimeout=%s
	UploadTimeout=%s
	AllowedOrigins=%q
	SubmitRate=%v/s burst %d
	TrustProxy=%t

	Admin:
	Email=%q
	PasswordHash=%q
	JWTSecret=%q
	SessionTTL=%s

	BrokerConfig:
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	TLS=%t
	Topics:
		Changes=%q
		Inquiries=%q
		ContactMessages=%q
	Consumers:
		IntakeGroup=%q
		ChangesGroupPrefix=%q

	Images:
	Products=%+v
	Categories=%+v
	LiveCoalesce=%s

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(tamplate, "\n"),
		c.LogLevel,
		mask(c.SQLDB),
		mask(c.RedisURL),
		c.WhatsAppNumber,
		c.HTTP.Addr,
		c.HTTP.RequestTimeout,
		c.HTTP.UploadTimeout,
		c.HTTP.AllowedOrigins,
		c.HTTP.SubmitRate,
		c.HTTP.SubmitBurst,
		c.HTTP.TrustProxy,
		c.Admin.Email,
		mask(c.Admin.PasswordHash),
		mask(c.Admin.JWTSecret),
		c.Admin.SessionTTL,
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.TLS.Enabled(),
		c.Broker.Topics.Changes,
		c.Broker.Topics.Inquiries,
		c.Broker.Topics.ContactMessages,
		c.Broker.Consumers.IntakeGroup,
		c.Broker.Consumers.ChangesGroupPrefix,
		c.Images.Products,
		c.Images.Categories,
		c.Live.Coalesce,
	)
}

// mask keeps the first four characters of a secret.
func mask(s string) string {
	const keep = 4
	if len(s) <= keep {
		return strings.Repeat("*", len(s))
	}
	return s[:keep] + strings.Repeat("*", 8)
}
