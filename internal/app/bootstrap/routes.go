// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	accountsfeature "github.com/openparish/steward/internal/app/features/accounts"
	auditlogfeature "github.com/openparish/steward/internal/app/features/auditlog"
	budgetsfeature "github.com/openparish/steward/internal/app/features/budgets"
	contributionsfeature "github.com/openparish/steward/internal/app/features/contributions"
	eventsfeature "github.com/openparish/steward/internal/app/features/events"
	familiesfeature "github.com/openparish/steward/internal/app/features/families"
	fiscalyearsfeature "github.com/openparish/steward/internal/app/features/fiscalyears"
	groupsfeature "github.com/openparish/steward/internal/app/features/groups"
	healthfeature "github.com/openparish/steward/internal/app/features/health"
	loginfeature "github.com/openparish/steward/internal/app/features/login"
	logoutfeature "github.com/openparish/steward/internal/app/features/logout"
	membersfeature "github.com/openparish/steward/internal/app/features/members"
	membershiptypesfeature "github.com/openparish/steward/internal/app/features/membershiptypes"
	permissionsfeature "github.com/openparish/steward/internal/app/features/permissions"
	reportsfeature "github.com/openparish/steward/internal/app/features/reports"
	"github.com/openparish/steward/internal/app/system/auditlog"
	"github.com/openparish/steward/internal/app/system/auth"
	"github.com/openparish/steward/internal/app/system/authz"
	"github.com/openparish/steward/internal/app/system/mailer"
	"github.com/openparish/steward/internal/app/system/ratelimit"
	"github.com/openparish/steward/internal/app/system/requestlog"
	"github.com/openparish/steward/internal/app/system/smsgateway"
)

// BuildHandler constructs the root HTTP handler for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and the Startup hook have completed. It wires the session manager,
// audit logger, outbound gateways, and rate limiters, then mounts one
// router per feature.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	audit := auditlog.New(deps.Stores.Audit, logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	mail, err := mailer.New(mailer.Config{
		Host:     appCfg.MailSMTPHost,
		Port:     appCfg.MailSMTPPort,
		Username: appCfg.MailSMTPUser,
		Password: appCfg.MailSMTPPass,
		From:     appCfg.MailFrom,
		DryRun:   appCfg.MailDryRun,
	}, logger)
	if err != nil {
		return nil, err
	}

	sms, err := smsgateway.New(smsgateway.Config{
		BaseURL:    appCfg.SMSBaseURL,
		APIKey:     appCfg.SMSAPIKey,
		From:       appCfg.SMSFrom,
		MaxRetries: appCfg.SMSMaxRetries,
		DryRun:     appCfg.SMSDryRun,
	}, logger)
	if err != nil {
		return nil, err
	}

	apiLimiter := ratelimit.New(appCfg.APIRateLimit, appCfg.APIRateWindow)
	loginLimiter := ratelimit.NewLoginLimiterWithConfig(
		appCfg.LoginIPLimit, appCfg.LoginIPWindow,
		appCfg.LoginEmailLimit, appCfg.LoginEmailWindow,
	)

	checker := authz.NewChecker(deps.Stores.Permissions, logger)

	r := chi.NewRouter()
	r.Use(requestlog.Middleware(logger))
	r.Use(apiLimiter.Middleware)

	// Loads SessionUser into context if signed in, making the current
	// user available to all handlers via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators. The
	// memory backend has no pool; the handler copes with a nil pinger.
	var pinger healthfeature.Pinger
	if deps.Pool != nil {
		pinger = deps.Pool
	}
	r.Mount("/health", healthfeature.Routes(healthfeature.NewHandler(pinger, logger)))

	// Authentication
	r.Mount("/login", loginfeature.Routes(
		loginfeature.NewHandler(deps.Stores.Users, sessionMgr, loginLimiter, audit, logger)))
	r.Mount("/logout", logoutfeature.Routes(
		logoutfeature.NewHandler(sessionMgr, audit, logger)))

	// Congregation records
	r.Mount("/members", membersfeature.Routes(
		membersfeature.NewHandler(deps.Stores.Members, audit, logger), checker))
	r.Mount("/families", familiesfeature.Routes(
		familiesfeature.NewHandler(deps.Stores.Families, deps.Stores.Members, audit, logger), checker))
	r.Mount("/groups", groupsfeature.Routes(
		groupsfeature.NewHandler(deps.Stores.Groups, audit, logger), checker))
	r.Mount("/membership-types", membershiptypesfeature.Routes(
		membershiptypesfeature.NewHandler(deps.Stores.MembershipTypes, audit, logger), checker))

	// Finance
	r.Mount("/fiscal-years", fiscalyearsfeature.Routes(
		fiscalyearsfeature.NewHandler(deps.Stores.FiscalYears, audit, logger), checker))
	r.Mount("/budgets", budgetsfeature.Routes(
		budgetsfeature.NewHandler(deps.Stores.Budgets, audit, logger), checker))
	r.Mount("/contributions", contributionsfeature.Routes(
		contributionsfeature.NewHandler(deps.Stores.Contributions, deps.Stores.Members, deps.Stores.Budgets, mail, audit, logger, appCfg.ChurchName), checker))

	// Events and volunteers
	r.Mount("/events", eventsfeature.Routes(
		eventsfeature.NewHandler(deps.Stores.Events, deps.Stores.Members, mail, sms, audit, logger, appCfg.ChurchName), checker))

	// Administration
	r.Mount("/permissions", permissionsfeature.Routes(
		permissionsfeature.NewHandler(deps.Stores.Permissions, audit, logger), checker))
	r.Mount("/users", accountsfeature.Routes(
		accountsfeature.NewHandler(deps.Stores.Users, audit, logger), checker))
	r.Mount("/audit-log", auditlogfeature.Routes(
		auditlogfeature.NewHandler(deps.Stores.Audit, logger), checker))

	// Reports
	r.Mount("/reports", reportsfeature.Routes(
		reportsfeature.NewHandler(deps.Stores.FiscalYears, deps.Stores.Budgets, deps.Stores.Contributions, deps.Stores.Members, logger), checker))

	return r, nil
}
