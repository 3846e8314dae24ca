package main

import "github.com/spf13/viper"

type Config struct {
	Port        string `mapstructure:"PORT"`
	Environment string `mapstructure:"ENVIRONMENT"`
	Version     string `mapstructure:"VERSION"`
	TLSCertFile string `mapstructure:"TLS_CERT_FILE"`
	TLSKeyFile  string `mapstructure:"TLS_KEY_FILE"`

	DB      DBConfig      `mapstructure:",squash"`
	COS     COSConfig     `mapstructure:",squash"`
	Limiter LimiterConfig `mapstructure:",squash"`
}

type DBConfig struct {
	Host     string `mapstructure:"POSTGRES_HOST"`
	Port     string `mapstructure:"POSTGRES_PORT"`
	User     string `mapstructure:"POSTGRES_USER"`
	Password string `mapstructure:"POSTGRES_PASSWORD"`
	Name     string `mapstructure:"POSTGRES_DB"`
}

type COSConfig struct {
	BucketURL string `mapstructure:"COS_BUCKET_URL"`
	SecretID  string `mapstructure:"COS_SECRET_ID"`
	SecretKey string `mapstructure:"COS_SECRET_KEY"`
}

type LimiterConfig struct {
	Enabled bool    `mapstructure:"LIMITER_ENABLED"`
	RPS     float64 `mapstructure:"LIMITER_RPS"`
	Burst   int     `mapstructure:"LIMITER_BURST"`
}

func loadConfig(path string) (*Config, error) {
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
