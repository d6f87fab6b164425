// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for Steward.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: postgres_dsn, session_name, etc.
//   - Environment variables: STEWARD_POSTGRES_DSN, STEWARD_SESSION_NAME, etc.
//   - Command-line flags: --postgres_dsn, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "storage", Default: "postgres", Desc: "Storage backend: 'postgres' or 'memory'"},
	{Name: "postgres_dsn", Default: "postgres://localhost:5432/steward?sslmode=disable", Desc: "PostgreSQL connection string"},
	{Name: "postgres_max_conns", Default: 20, Desc: "PostgreSQL max pool connections"},
	{Name: "postgres_min_conns", Default: 5, Desc: "PostgreSQL min pool connections"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "steward-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "12h", Desc: "Session lifetime (e.g., 12h, 30m)"},

	{Name: "church_name", Default: "Steward", Desc: "Display name used in receipts and notices"},

	// Email/SMTP configuration
	{Name: "mail_smtp_host", Default: "localhost", Desc: "SMTP server host"},
	{Name: "mail_smtp_port", Default: 1025, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@example.org", Desc: "From email address"},
	{Name: "mail_dry_run", Default: true, Desc: "Log outbound email instead of sending"},

	// SMS provider configuration
	{Name: "sms_base_url", Default: "", Desc: "SMS provider endpoint URL"},
	{Name: "sms_api_key", Default: "", Desc: "SMS provider API key"},
	{Name: "sms_from", Default: "", Desc: "SMS sender id or number"},
	{Name: "sms_max_retries", Default: 2, Desc: "SMS retries on transient failure"},
	{Name: "sms_dry_run", Default: true, Desc: "Log outbound SMS instead of sending"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Rate limiting
	{Name: "api_rate_limit", Default: 100, Desc: "Max API requests per client IP per window"},
	{Name: "api_rate_window", Default: "1m", Desc: "API rate limit window"},
	{Name: "login_ip_limit", Default: 10, Desc: "Max login attempts per IP per window"},
	{Name: "login_ip_window", Default: "1m", Desc: "Login IP rate limit window"},
	{Name: "login_email_limit", Default: 5, Desc: "Max login attempts per email per window"},
	{Name: "login_email_window", Default: "5m", Desc: "Login email rate limit window"},

	// SuperAdmin bootstrap
	{Name: "superadmin_email", Default: "", Desc: "Email of the superadmin account (created/promoted on startup)"},
	{Name: "superadmin_password", Default: "", Desc: "Initial password when creating the superadmin account"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env and config files,
// environment variables (WAFFLE_* for core, STEWARD_* for app),
// command-line flags, and merging with precedence
// flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "STEWARD", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		Storage:          appValues.String("storage"),
		PostgresDSN:      appValues.String("postgres_dsn"),
		PostgresMaxConns: appValues.Int("postgres_max_conns"),
		PostgresMinConns: appValues.Int("postgres_min_conns"),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 12*time.Hour),

		ChurchName: appValues.String("church_name"),

		MailSMTPHost: appValues.String("mail_smtp_host"),
		MailSMTPPort: appValues.Int("mail_smtp_port"),
		MailSMTPUser: appValues.String("mail_smtp_user"),
		MailSMTPPass: appValues.String("mail_smtp_pass"),
		MailFrom:     appValues.String("mail_from"),
		MailDryRun:   appValues.Bool("mail_dry_run"),

		SMSBaseURL:    appValues.String("sms_base_url"),
		SMSAPIKey:     appValues.String("sms_api_key"),
		SMSFrom:       appValues.String("sms_from"),
		SMSMaxRetries: appValues.Int("sms_max_retries"),
		SMSDryRun:     appValues.Bool("sms_dry_run"),

		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),

		APIRateLimit:  appValues.Int("api_rate_limit"),
		APIRateWindow: appValues.Duration("api_rate_window", time.Minute),

		LoginIPLimit:     appValues.Int("login_ip_limit"),
		LoginIPWindow:    appValues.Duration("login_ip_window", time.Minute),
		LoginEmailLimit:  appValues.Int("login_email_limit"),
		LoginEmailWindow: appValues.Duration("login_email_window", 5*time.Minute),

		SuperAdminEmail:    appValues.String("superadmin_email"),
		SuperAdminPassword: appValues.String("superadmin_password"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	switch appCfg.Storage {
	case "postgres":
		if appCfg.PostgresDSN == "" {
			return fmt.Errorf("postgres storage requires postgres_dsn")
		}
	case "memory":
		logger.Warn("memory storage selected; all data is lost on restart")
	default:
		return fmt.Errorf("unknown storage backend %q (want 'postgres' or 'memory')", appCfg.Storage)
	}

	if coreCfg.Env == "prod" && appCfg.SessionKey == "dev-only-change-me-please-0123456789ABCDEF" {
		return fmt.Errorf("session_key must be changed from the dev default in production")
	}

	if appCfg.SuperAdminEmail != "" && appCfg.SuperAdminPassword == "" {
		logger.Warn("superadmin_email set without superadmin_password; account will only be promoted, not created")
	}

	return nil
}
