package financeHandler

import (
	"ProjectFinance/internal/api/finance"
	"ProjectFinance/internal/entity"
	contextPkg "ProjectFinance/pkg/context"
	"ProjectFinance/pkg/handlerUtil"
	jwtPkg "ProjectFinance/pkg/jwt"
	"ProjectFinance/pkg/log"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

const requestTimeout = 10 * time.Second

func (h *FinanceHandler) ListAll(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), requestTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing list finance records request")

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	records, err := h.financeService.ListAll(c, userData.ID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "list_records")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, toRecordList(records))
	}
}

func (h *FinanceHandler) Filter(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), requestTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
		"query":      string(ctx.Request().URI().QueryString()),
	}).Debug("Processing filter finance records request")

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	var raw finance.RawFilter
	if err := ctx.QueryParser(&raw); err != nil {
		return errHandler.Handle(ctx, requestID, fmt.Errorf("%w: %s", finance.ErrInvalidParameter, err.Error()), ctx.Path(), "parse_query")
	}

	records, err := h.financeService.Filter(c, userData.ID, raw)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "filter_records")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, toRecordList(records))
	}
}

func (h *FinanceHandler) Create(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), requestTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log).WithTranslator(h.translator)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing create finance record request")

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	var req finance.CreateRecordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, fmt.Errorf("%w: malformed request body", finance.ErrInvalidRecord), ctx.Path(), "parse_request_body")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	record, err := h.financeService.Create(c, userData.ID, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "create_record")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusCreated, toRecordResponse(record))
	}
}

func (h *FinanceHandler) Update(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), requestTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log).WithTranslator(h.translator)

	id := ctx.Params("id")

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
		"record_id":  id,
	}).Debug("Processing update finance record request")

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	var req finance.UpdateRecordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, fmt.Errorf("%w: malformed request body", finance.ErrInvalidRecord), ctx.Path(), "parse_request_body")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	record, err := h.financeService.Update(c, userData.ID, id, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "update_record")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, toRecordResponse(record))
	}
}

func (h *FinanceHandler) Delete(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), requestTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	id := ctx.Params("id")

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
		"record_id":  id,
	}).Debug("Processing delete finance record request")

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	if err := h.financeService.Delete(c, userData.ID, id); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "delete_record")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, finance.MessageResponse{
			Message: "Finance record deleted successfully",
		})
	}
}

func toRecordResponse(record entity.FinanceRecord) finance.RecordResponse {
	return finance.RecordResponse{
		ID:        record.ID,
		UserID:    record.UserID,
		Title:     record.Title,
		Amount:    record.Amount,
		Type:      string(record.Type),
		Category:  string(record.Category),
		CreatedAt: record.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: record.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toRecordList(records []entity.FinanceRecord) finance.RecordListResponse {
	responses := make([]finance.RecordResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, toRecordResponse(record))
	}
	return finance.RecordListResponse{
		Records: responses,
		Count:   len(responses),
	}
}
