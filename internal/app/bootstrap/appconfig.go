// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging level, request limits); everything specific to this service
// lives here. Values are loaded in LoadConfig from env vars
// (STEWARD_*), config files, and flags.
type AppConfig struct {
	// Storage backend: "postgres" or "memory". Memory keeps everything
	// in-process and is meant for local development and demos.
	Storage string

	// PostgreSQL connection configuration (ignored for memory storage).
	PostgresDSN      string
	PostgresMaxConns int
	PostgresMinConns int

	// Session management configuration.
	SessionKey    string
	SessionName   string
	SessionDomain string
	SessionMaxAge time.Duration

	// Display name used in outbound email and SMS.
	ChurchName string

	// Email/SMTP configuration. DryRun logs instead of dialing.
	MailSMTPHost string
	MailSMTPPort int
	MailSMTPUser string
	MailSMTPPass string
	MailFrom     string
	MailDryRun   bool

	// SMS provider configuration.
	SMSBaseURL    string
	SMSAPIKey     string
	SMSFrom       string
	SMSMaxRetries int
	SMSDryRun     bool

	// Audit logging destinations per category: all | db | log | off.
	AuditLogAuth  string
	AuditLogAdmin string

	// API-wide rate limit (per client IP).
	APIRateLimit  int
	APIRateWindow time.Duration

	// Login rate limits (per IP and per email).
	LoginIPLimit     int
	LoginIPWindow    time.Duration
	LoginEmailLimit  int
	LoginEmailWindow time.Duration

	// SuperAdmin bootstrap: when both are set, startup ensures this
	// account exists with the superadmin role.
	SuperAdminEmail    string
	SuperAdminPassword string
}
