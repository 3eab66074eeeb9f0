package financeHandler

import (
	financeService "ProjectFinance/internal/api/finance/service"
	"ProjectFinance/internal/middleware"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type FinanceHandler struct {
	log            *logrus.Logger
	validator      *validator.Validate
	translator     ut.Translator
	middleware     middleware.Middleware
	financeService financeService.IFinanceService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	translator ut.Translator,
	middleware middleware.Middleware,
	financeService financeService.IFinanceService,
) *FinanceHandler {
	return &FinanceHandler{
		log:            log,
		validator:      validate,
		translator:     translator,
		middleware:     middleware,
		financeService: financeService,
	}
}

func (h *FinanceHandler) Start(srv fiber.Router) {
	finances := srv.Group("/finances", h.middleware.NewRateLimiter, h.middleware.NewTokenMiddleware)

	finances.Get("", h.ListAll)
	finances.Post("", h.Create)
	finances.Get("/filter", h.Filter)
	finances.Get("/summary", h.Summary)
	finances.Get("/category-stats", h.CategoryStats)
	finances.Get("/monthly-stats", h.MonthlyStats)
	finances.Get("/report", h.PeriodReport)
	finances.Put("/:id", h.Update)
	finances.Delete("/:id", h.Delete)
}
