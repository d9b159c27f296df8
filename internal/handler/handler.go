package handler

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/homecare-dx/visit-scheduler/backend/internal/config"
	"github.com/homecare-dx/visit-scheduler/backend/internal/deploy"
	"github.com/homecare-dx/visit-scheduler/backend/internal/domain"
	"github.com/homecare-dx/visit-scheduler/backend/internal/repository"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client

	preview    *deploy.PreviewService
	deployment *deploy.DeploymentService
	location   *time.Location

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	// 默认月份的时区在这里定死，引擎内部不再读本地时钟
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,

		preview:    deploy.NewPreviewService(repo, repo),
		deployment: deploy.NewDeploymentService(repo, repo),
		location:   loc,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
		})

		r.Route("/clients", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/", h.CreateClient)
			r.Get("/", h.GetAllClients)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.client)
				r.Get("/", h.GetClient)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Patch("/", h.UpdateClient)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Delete("/", h.DeleteClient)

				r.Route("/weekly-templates", func(r chi.Router) {
					r.Post("/", h.CreateWeeklyTemplate)
					r.Get("/", h.GetClientWeeklyTemplates)
				})

				r.Route("/shift-deployments", func(r chi.Router) {
					r.Post("/preview", h.PreviewShiftDeployment)
					// 下发后要给操作员发报告邮件，所以要带上个人信息
					r.With(h.myInfo).Post("/", h.DeployShifts)
				})

				r.Get("/shift-instances", h.GetClientShiftInstances)
			})
		})

		r.Route("/weekly-templates/{id}", func(r chi.Router) {
			r.Use(h.weeklyTemplate)
			r.Get("/", h.GetWeeklyTemplate)
			r.Patch("/", h.UpdateWeeklyTemplate)
			r.Delete("/", h.DeleteWeeklyTemplate)
		})

		// 手工删除单条实例的路径
		r.Delete("/shift-instances/{id}", h.DeleteShiftInstance)
	})
}
