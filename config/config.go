package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every runtime setting. Values come from the environment, optionally
// seeded from a local .env file.
type Config struct {
	Port   string `mapstructure:"port"`
	AppEnv string `mapstructure:"app_env"`

	// StoreDriver selects "dynamo" for production or "memory" for local runs.
	StoreDriver string `mapstructure:"store_driver"`

	AWSRegion      string `mapstructure:"aws_region"`
	DynamoEndpoint string `mapstructure:"dynamo_endpoint"`
	S3BucketName   string `mapstructure:"s3_bucket_name"`

	Tables Tables `mapstructure:",squash"`

	JWTSecret string `mapstructure:"jwt_secret"`

	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`

	KafkaBrokers []string `mapstructure:"kafka_brokers"`
	KafkaTopic   string   `mapstructure:"kafka_topic"`

	SocketRedisAddr string   `mapstructure:"socket_redis_addr"`
	CORSOrigins     []string `mapstructure:"cors_origins"`
}

// Tables are the DynamoDB table names.
type Tables struct {
	Ideas        string `mapstructure:"table_ideas"`
	UserProfiles string `mapstructure:"table_user_profiles"`
	Swipes       string `mapstructure:"table_swipes"`
	IdeaLikes    string `mapstructure:"table_idea_likes"`
	Requests     string `mapstructure:"table_requests"`
	Matches      string `mapstructure:"table_matches"`
	Messages     string `mapstructure:"table_messages"`
}

func (c *Config) Development() bool {
	return c.AppEnv != "production"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("app_env", "development")
	v.SetDefault("store_driver", "dynamo")
	v.SetDefault("aws_region", "us-east-1")
	v.SetDefault("dynamo_endpoint", "")
	v.SetDefault("s3_bucket_name", "")
	v.SetDefault("table_ideas", "Ideas")
	v.SetDefault("table_user_profiles", "UserProfiles")
	v.SetDefault("table_swipes", "Swipes")
	v.SetDefault("table_idea_likes", "IdeaLikes")
	v.SetDefault("table_requests", "Requests")
	v.SetDefault("table_matches", "Matches")
	v.SetDefault("table_messages", "Messages")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("kafka_brokers", []string{})
	v.SetDefault("kafka_topic", "ideaswipe.events")
	v.SetDefault("socket_redis_addr", "")
	v.SetDefault("cors_origins", []string{"*"})
}

// Load reads the configuration. A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	c.KafkaBrokers = splitList(c.KafkaBrokers)
	c.CORSOrigins = splitList(c.CORSOrigins)

	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.StoreDriver {
	case "dynamo", "memory":
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}
	return nil
}

// splitList accepts both real lists and a single comma separated env value.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
