package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/talentbridge/internal/flagx"
	"github.com/dmitrijs2005/talentbridge/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Pointer fields are
// optional: keys absent from the file leave the current value untouched.
// Durations accept "5m" style strings or integer nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP *string `json:"endpoint_addr_http"`
	EndpointAddrGRPC *string `json:"endpoint_addr_grpc"`
	DatabaseDSN      *string `json:"database_dsn"`
	LogLevel         *string `json:"log_level"`

	SecretKey                    *string         `json:"secret_key"`
	TokenIssuer                  *string         `json:"token_issuer"`
	SessionTokenValidityDuration *timex.Duration `json:"session_token_validity_duration"`
	SessionCookieName            *string         `json:"session_cookie_name"`
	SecureCookies                *bool           `json:"secure_cookies"`
	BcryptCost                   *int            `json:"bcrypt_cost"`

	OTPValidityDuration        *timex.Duration `json:"otp_validity_duration"`
	ResetTokenValidityDuration *timex.Duration `json:"reset_token_validity_duration"`
	ResetURLBase               *string         `json:"reset_url_base"`

	RedisAddr     *string `json:"redis_addr"`
	RedisPassword *string `json:"redis_password"`
	RedisDB       *int    `json:"redis_db"`

	NotificationQueue   *string `json:"notification_queue"`
	NotificationWorkers *int    `json:"notification_workers"`

	SMTPHost     *string `json:"smtp_host"`
	SMTPPort     *int    `json:"smtp_port"`
	SMTPUser     *string `json:"smtp_user"`
	SMTPPassword *string `json:"smtp_password"`
	SMTPFrom     *string `json:"smtp_from"`

	S3RootUser      *string `json:"s3_root_user"`
	S3RootPassword  *string `json:"s3_root_password"`
	S3Bucket        *string `json:"s3_bucket"`
	S3Region        *string `json:"s3_region"`
	S3BaseEndpoint  *string `json:"s3_base_endpoint"`
	S3PublicBaseURL *string `json:"s3_public_base_url"`
}

// parseJson overlays values from the file named by -c/-config, if any.
// It panics on unreadable files or invalid JSON.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.LogLevel, c.LogLevel)

	setString(&config.SecretKey, c.SecretKey)
	setString(&config.TokenIssuer, c.TokenIssuer)
	setDuration(&config.SessionTokenValidityDuration, c.SessionTokenValidityDuration)
	setString(&config.SessionCookieName, c.SessionCookieName)
	if c.SecureCookies != nil {
		config.SecureCookies = *c.SecureCookies
	}
	setInt(&config.BcryptCost, c.BcryptCost)

	setDuration(&config.OTPValidityDuration, c.OTPValidityDuration)
	setDuration(&config.ResetTokenValidityDuration, c.ResetTokenValidityDuration)
	setString(&config.ResetURLBase, c.ResetURLBase)

	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.RedisPassword, c.RedisPassword)
	setInt(&config.RedisDB, c.RedisDB)

	setString(&config.NotificationQueue, c.NotificationQueue)
	setInt(&config.NotificationWorkers, c.NotificationWorkers)

	setString(&config.SMTPHost, c.SMTPHost)
	setInt(&config.SMTPPort, c.SMTPPort)
	setString(&config.SMTPUser, c.SMTPUser)
	setString(&config.SMTPPassword, c.SMTPPassword)
	setString(&config.SMTPFrom, c.SMTPFrom)

	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3PublicBaseURL, c.S3PublicBaseURL)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
