package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Notify   NotifyConfig
	Payroll  PayrollConfig
}

type AppConfig struct {
	Port        string
	Env         string
	JWTSecret   string
	AutoMigrate bool
	PayslipDir  string
}

type DatabaseConfig struct {
	Host       string
	User       string
	Password   string
	Name       string
	Port       string
	SSLMode    string
	MaxRetries int
}

type RedisConfig struct {
	Addr string
}

type KafkaConfig struct {
	Broker             string
	OutboxPollInterval time.Duration
}

type NotifyConfig struct {
	SendgridAPIKey string
	FromEmail      string
	FromName       string
}

// PayrollConfig holds statutory overrides. Money values are rupees, slabs are
// "upto:amount" pairs separated by commas, e.g. "7500:0,10000:175,0:200".
type PayrollConfig struct {
	PFWageCeiling  string
	ESIWageLimit   string
	RTGSThreshold  string
	PTSlabs        string
	TDSSlabs       string
	PTFebruaryLast string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "3000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("AUTO_MIGRATE", true)
	v.SetDefault("PAYSLIP_DIR", "storage/payslips")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_RETRIES", 5)
	v.SetDefault("OUTBOX_POLL_INTERVAL", "3s")
	v.SetDefault("NOTIFY_FROM_NAME", "School Payroll")
	v.SetDefault("PF_WAGE_CEILING", "15000")
	v.SetDefault("ESI_WAGE_LIMIT", "21000")
	v.SetDefault("RTGS_THRESHOLD", "200000")
	v.SetDefault("PT_SLABS", "7500:0,10000:175,0:200")
	v.SetDefault("PT_FEBRUARY_LAST", "300")
}

// Load reads .env (optional) and the process environment.
func Load() *Config {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		zap.L().Debug(".env not found, using environment only", zap.Error(err))
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Config{
		App: AppConfig{
			Port:        v.GetString("PORT"),
			Env:         v.GetString("APP_ENV"),
			JWTSecret:   v.GetString("JWT_SECRET"),
			AutoMigrate: v.GetBool("AUTO_MIGRATE"),
			PayslipDir:  v.GetString("PAYSLIP_DIR"),
		},
		Database: DatabaseConfig{
			Host:       v.GetString("DB_HOST"),
			User:       v.GetString("DB_USER"),
			Password:   v.GetString("DB_PASSWORD"),
			Name:       v.GetString("DB_NAME"),
			Port:       v.GetString("DB_PORT"),
			SSLMode:    v.GetString("DB_SSLMODE"),
			MaxRetries: v.GetInt("DB_MAX_RETRIES"),
		},
		Redis: RedisConfig{
			Addr: v.GetString("REDIS_ADDR"),
		},
		Kafka: KafkaConfig{
			Broker:             v.GetString("KAFKA_BROKER"),
			OutboxPollInterval: v.GetDuration("OUTBOX_POLL_INTERVAL"),
		},
		Notify: NotifyConfig{
			SendgridAPIKey: v.GetString("SENDGRID_API_KEY"),
			FromEmail:      v.GetString("NOTIFY_FROM_EMAIL"),
			FromName:       v.GetString("NOTIFY_FROM_NAME"),
		},
		Payroll: PayrollConfig{
			PFWageCeiling:  v.GetString("PF_WAGE_CEILING"),
			ESIWageLimit:   v.GetString("ESI_WAGE_LIMIT"),
			RTGSThreshold:  v.GetString("RTGS_THRESHOLD"),
			PTSlabs:        v.GetString("PT_SLABS"),
			TDSSlabs:       v.GetString("TDS_SLABS"),
			PTFebruaryLast: v.GetString("PT_FEBRUARY_LAST"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
