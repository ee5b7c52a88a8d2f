package config

import "github.com/dmitrijs2005/talentbridge/internal/flagx"

// parseEnv overlays TB_* environment variables. Unset variables keep the
// current value.
func parseEnv(c *Config) {
	c.EndpointAddrHTTP = flagx.EnvString("TB_HTTP_ADDR", c.EndpointAddrHTTP)
	c.EndpointAddrGRPC = flagx.EnvString("TB_GRPC_ADDR", c.EndpointAddrGRPC)
	c.DatabaseDSN = flagx.EnvString("TB_DATABASE_DSN", c.DatabaseDSN)
	c.LogLevel = flagx.EnvString("TB_LOG_LEVEL", c.LogLevel)

	c.SecretKey = flagx.EnvString("TB_SECRET_KEY", c.SecretKey)
	c.TokenIssuer = flagx.EnvString("TB_TOKEN_ISSUER", c.TokenIssuer)
	c.SessionTokenValidityDuration = flagx.EnvDuration("TB_SESSION_TTL", c.SessionTokenValidityDuration)
	c.SessionCookieName = flagx.EnvString("TB_SESSION_COOKIE", c.SessionCookieName)
	c.SecureCookies = flagx.EnvBool("TB_SECURE_COOKIES", c.SecureCookies)
	c.BcryptCost = flagx.EnvInt("TB_BCRYPT_COST", c.BcryptCost)

	c.OTPValidityDuration = flagx.EnvDuration("TB_OTP_TTL", c.OTPValidityDuration)
	c.ResetTokenValidityDuration = flagx.EnvDuration("TB_RESET_TTL", c.ResetTokenValidityDuration)
	c.ResetURLBase = flagx.EnvString("TB_RESET_URL_BASE", c.ResetURLBase)

	c.RedisAddr = flagx.EnvString("TB_REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = flagx.EnvString("TB_REDIS_PASSWORD", c.RedisPassword)
	c.RedisDB = flagx.EnvInt("TB_REDIS_DB", c.RedisDB)

	c.NotificationQueue = flagx.EnvString("TB_NOTIFICATION_QUEUE", c.NotificationQueue)
	c.NotificationWorkers = flagx.EnvInt("TB_NOTIFICATION_WORKERS", c.NotificationWorkers)

	c.SMTPHost = flagx.EnvString("TB_SMTP_HOST", c.SMTPHost)
	c.SMTPPort = flagx.EnvInt("TB_SMTP_PORT", c.SMTPPort)
	c.SMTPUser = flagx.EnvString("TB_SMTP_USER", c.SMTPUser)
	c.SMTPPassword = flagx.EnvString("TB_SMTP_PASSWORD", c.SMTPPassword)
	c.SMTPFrom = flagx.EnvString("TB_SMTP_FROM", c.SMTPFrom)

	c.S3RootUser = flagx.EnvString("TB_S3_ROOT_USER", c.S3RootUser)
	c.S3RootPassword = flagx.EnvString("TB_S3_ROOT_PASSWORD", c.S3RootPassword)
	c.S3Bucket = flagx.EnvString("TB_S3_BUCKET", c.S3Bucket)
	c.S3Region = flagx.EnvString("TB_S3_REGION", c.S3Region)
	c.S3BaseEndpoint = flagx.EnvString("TB_S3_BASE_ENDPOINT", c.S3BaseEndpoint)
	c.S3PublicBaseURL = flagx.EnvString("TB_S3_PUBLIC_BASE_URL", c.S3PublicBaseURL)
}
