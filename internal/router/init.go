package router

import (
	"github.com/krida-hq/krida-backend/internal/application"
	"github.com/krida-hq/krida-backend/internal/container"
	"github.com/krida-hq/krida-backend/internal/domain/repository"
	pginfra "github.com/krida-hq/krida-backend/internal/infrastructure/postgres"
	handlers "github.com/krida-hq/krida-backend/internal/interface/http"
	"github.com/krida-hq/krida-backend/internal/router/modules"
)

type UserModuleDeps struct {
	Repo    repository.UserRepository
	Service *application.UserService
	Handler *handlers.UserHandler
}

type AchievementModuleDeps struct {
	Repo    repository.AchievementRepository
	Service *application.AchievementService
	Handler *handlers.AchievementHandler
}

type ReportModuleDeps struct {
	Service *application.ReportService
	Handler *handlers.ReportHandler
}

func buildUserDeps() UserModuleDeps {
	repo := pginfra.NewUserRepository(container.GetPGPool())

	service := application.NewUserService(
		repo,
		container.GetJWT(),
		container.GetRedis(),
		container.GetLogger(),
		container.GetConfig().SessionTTL,
	)

	handler := handlers.NewUserHandler(
		service,
		container.GetLogger(),
		container.GetConfig().CookieDomain,
		container.GetConfig().CookieSecure,
	)

	return UserModuleDeps{Repo: repo, Service: service, Handler: handler}
}

func buildAchievementDeps() AchievementModuleDeps {
	repo := pginfra.NewAchievementRepository(container.GetPGPool())

	service := application.NewAchievementService(
		repo,
		container.GetLogger(),
		container.GetES(),
		container.GetConfig().ESAchievementsIndex,
		container.GetGCS(),
		container.GetConfig().GCSBucket,
		container.GetRabbitPub(),
	)

	handler := handlers.NewAchievementHandler(service, container.GetLogger())

	return AchievementModuleDeps{Repo: repo, Service: service, Handler: handler}
}

func buildReportDeps(achRepo repository.AchievementRepository) ReportModuleDeps {
	service := application.NewReportService(
		achRepo,
		pginfra.NewRegistrationRepository(container.GetPGPool()),
		pginfra.NewScheduleRepository(container.GetPGPool()),
		container.GetRedis(),
		container.GetLogger(),
		container.GetConfig().KPICacheTTL,
	)

	handler := handlers.NewReportHandler(service, container.GetLogger())

	return ReportModuleDeps{Service: service, Handler: handler}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules.
// The achievement service is returned so the bootstrap can start its reindex scheduler.
func InitModules(r *Registry) *application.AchievementService {
	userDeps := buildUserDeps()
	achDeps := buildAchievementDeps()
	reportDeps := buildReportDeps(achDeps.Repo)

	r.Add(modules.NewUserModule(userDeps.Handler, container.GetJWT()))
	r.Add(modules.NewAchievementModule(achDeps.Handler, container.GetJWT()))
	r.Add(modules.NewReportModule(reportDeps.Handler, container.GetJWT()))

	return achDeps.Service
}
