// server/config/config.go
package config

import (
	"github.com/spf13/viper"
)

// --- Sub-structs mirroring the YAML layout ---

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type MongoConfig struct {
	URI    string `mapstructure:"uri"`
	DBName string `mapstructure:"dbName"`
}

type JWTConfig struct {
	Secret     string `mapstructure:"secret"`
	Expiration string `mapstructure:"expiration"`
}

type S3Config struct {
	Bucket           string `mapstructure:"bucket"`
	Region           string `mapstructure:"region"`
	AccessKeyID      string `mapstructure:"accessKeyID"`
	SecretAccessKey  string `mapstructure:"secretAccessKey"`
	CloudFrontDomain string `mapstructure:"cloudFrontDomain"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	Dev   bool   `mapstructure:"dev"`
}

type LifecycleConfig struct {
	// Strict enables the forward-only status transition table. Off by
	// default: the default policy permits any transition between statuses.
	Strict bool `mapstructure:"strict"`
}

// --- Main Config struct ---

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Mongo     MongoConfig     `mapstructure:"mongo"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	S3        S3Config        `mapstructure:"s3"`
	Log       LogConfig       `mapstructure:"log"`
	Lifecycle LifecycleConfig `mapstructure:"lifecycle"`
}

// LoadConfig reads configuration from file and overrides with env variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()

	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("mongo.uri", "MONGO_URI")
	viper.BindEnv("mongo.dbName", "MONGO_DBNAME")
	viper.BindEnv("jwt.secret", "JWT_SECRET")
	viper.BindEnv("jwt.expiration", "JWT_EXPIRATION")
	viper.BindEnv("s3.bucket", "S3_BUCKET")
	viper.BindEnv("s3.region", "S3_REGION")
	viper.BindEnv("s3.accessKeyID", "S3_ACCESS_KEY_ID")
	viper.BindEnv("s3.secretAccessKey", "S3_SECRET_ACCESS_KEY")
	viper.BindEnv("s3.cloudFrontDomain", "S3_CLOUDFRONT_DOMAIN")
	viper.BindEnv("log.level", "LOG_LEVEL")
	viper.BindEnv("log.dev", "LOG_DEV")
	viper.BindEnv("lifecycle.strict", "LIFECYCLE_STRICT")

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("mongo.dbName", "parceltrack")
	viper.SetDefault("jwt.expiration", "24h")
	viper.SetDefault("log.level", "info")

	// If the file does not exist Viper falls back to env variables only.
	err = viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		err = nil
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	return
}
