package app

import (
	"context"
	"fmt"
	"strings"

	"talent-match/internal/config"
	"talent-match/internal/delivery/http/handler"
	"talent-match/internal/delivery/http/middleware"
	"talent-match/internal/delivery/http/routes"
	v1 "talent-match/internal/delivery/http/routes/v1"
	"talent-match/internal/domain/matching"
	"talent-match/internal/pkg/jwt"
	"talent-match/internal/pkg/logger"
	"talent-match/internal/repository"
	"talent-match/internal/usecase"
	"talent-match/internal/ws"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New assembles repositories, usecases and handlers on top of c.
func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c)

	projects := repository.NewPostgresProjectRepository(c.DB)
	requirements := repository.NewPostgresRequirementRepository(c.DB)
	skills := repository.NewPostgresSkillRepository(c.DB)
	profiles := repository.NewPostgresProfileRepository(c.DB)
	employeeSkills := repository.NewPostgresEmployeeSkillRepository(c.DB)
	allocations := repository.NewPostgresAllocationRepository(c.DB)

	matchingUC := usecase.NewMatchingUsecase(usecase.MatchingDeps{
		Projects:       projects,
		Requirements:   requirements,
		Skills:         skills,
		Profiles:       profiles,
		EmployeeSkills: employeeSkills,
		Cache:          c.rankingCache(),
		CacheTTL:       c.Config.Redis.RankingTTL,
		Publisher:      c.Publisher,
		Metrics:        c.Metrics,
		Logger:         logger.Component(c.Logger, "matching"),
		Options: matching.Options{
			Workers:           c.Config.Matching.Workers,
			ParallelThreshold: c.Config.Matching.ParallelThreshold,
		},
	})
	requirementsUC := usecase.NewRequirementsUsecase(usecase.RequirementsDeps{
		Projects:     projects,
		Requirements: requirements,
		Skills:       skills,
		Cache:        c.rankingCache(),
		Publisher:    c.Publisher,
		Notifier:     c.notifier(),
		Metrics:      c.Metrics,
		Logger:       logger.Component(c.Logger, "requirements"),
	})
	employeeSkillUC := usecase.NewEmployeeSkillUsecase(usecase.EmployeeSkillDeps{
		Profiles:       profiles,
		EmployeeSkills: employeeSkills,
		Skills:         skills,
		Cache:          c.rankingCache(),
		Publisher:      c.Publisher,
		Notifier:       c.notifier(),
		Metrics:        c.Metrics,
		Logger:         logger.Component(c.Logger, "employee_skills"),
	})
	skillUC := usecase.NewSkillUsecase(usecase.SkillDeps{
		Skills:    skills,
		Publisher: c.Publisher,
		Metrics:   c.Metrics,
		Logger:    logger.Component(c.Logger, "skills"),
	})
	allocationUC := usecase.NewAllocationUsecase(usecase.AllocationDeps{
		Projects:    projects,
		Profiles:    profiles,
		Allocations: allocations,
		Scorer:      matchingUC,
		Publisher:   c.Publisher,
		Metrics:     c.Metrics,
		Logger:      logger.Component(c.Logger, "allocations"),
	})

	jwtSvc := jwt.NewHMACService(c.Config.JWT.Secret, c.Config.JWT.Issuer)
	authMw := middleware.NewAuthMiddleware(jwtSvc, c.Sessions)

	checks := map[string]handler.Check{"database": c.DB.Ping}
	if c.Cache != nil {
		checks["cache"] = c.Cache.Ping
	}
	health := handler.NewHealthHandler(checks)

	registry := routes.NewRegistry(health, c.Metrics.Handler(), authMw, v1.Handlers{
		Ranking:       handler.NewRankingHandler(matchingUC, c.Validator),
		Requirements:  handler.NewRequirementHandler(requirementsUC, c.Validator),
		Allocations:   handler.NewAllocationHandler(allocationUC, c.Validator),
		Skills:        handler.NewSkillHandler(skillUC, c.Validator),
		ProfileSkills: handler.NewProfileSkillHandler(employeeSkillUC, c.Validator),
		Events:        ws.NewHandler(c.Hub, middleware.SessionFromCtx, logger.Component(c.Logger, "ws")),
	})
	registry.Register(f)

	return &App{Fiber: f, Container: c}
}

// Bootstrap builds the container and the HTTP app and starts the websocket hub. The returned
// cleanup stops the hub and releases the infrastructure.
func Bootstrap(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, func() error, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	c, err := NewContainer(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	app := New(c)

	hubCtx, stopHub := context.WithCancel(ctx)
	events, unsubscribe := c.Sessions.Subscribe()
	go c.Hub.Run(hubCtx)
	go c.Hub.WatchSessions(hubCtx, events)

	cleanup := func() error {
		stopHub()
		unsubscribe()
		return c.Close()
	}
	return app, cleanup, nil
}

func (c *Container) rankingCache() usecase.RankingCache {
	if c.Cache == nil {
		return nil
	}
	return c.Cache
}

func (c *Container) notifier() usecase.Notifier {
	if c.Hub == nil {
		return nil
	}
	return c.Hub
}

func registerGlobalMiddleware(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	accessMw := middleware.NewAccessLogMiddleware(logger.Component(c.Logger, "http"), c.Metrics)
	errMw := middleware.NewErrorMiddleware(logger.Component(c.Logger, "http"))
	app.Use(accessMw.Middleware())
	app.Use(errMw.Middleware())
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
