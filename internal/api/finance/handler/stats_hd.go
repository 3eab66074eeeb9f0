package financeHandler

import (
	"ProjectFinance/internal/api/finance"
	contextPkg "ProjectFinance/pkg/context"
	"ProjectFinance/pkg/handlerUtil"
	jwtPkg "ProjectFinance/pkg/jwt"
	"ProjectFinance/pkg/log"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *FinanceHandler) Summary(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), requestTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing summary request")

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	summary, err := h.financeService.Summary(c, userData.ID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "summary")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, summary)
	}
}

func (h *FinanceHandler) CategoryStats(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), requestTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing category stats request")

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	var raw finance.RawFilter
	if err := ctx.QueryParser(&raw); err != nil {
		return errHandler.Handle(ctx, requestID, fmt.Errorf("%w: %s", finance.ErrInvalidParameter, err.Error()), ctx.Path(), "parse_query")
	}

	stats, err := h.financeService.CategoryStats(c, userData.ID, raw)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "category_stats")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, stats)
	}
}

func (h *FinanceHandler) MonthlyStats(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), requestTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	year := ctx.Query("year")

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
		"year":       year,
	}).Debug("Processing monthly stats request")

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	stats, err := h.financeService.MonthlyStats(c, userData.ID, year)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "monthly_stats")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, stats)
	}
}

func (h *FinanceHandler) PeriodReport(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), requestTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	startDate := ctx.Query("startDate")
	endDate := ctx.Query("endDate")

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
		"start_date": startDate,
		"end_date":   endDate,
	}).Debug("Processing period report request")

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	report, err := h.financeService.PeriodReport(c, userData.ID, startDate, endDate)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "period_report")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, report)
	}
}
