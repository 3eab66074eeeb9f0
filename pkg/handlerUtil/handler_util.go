package handlerUtil

import (
	"ProjectFinance/internal/api/finance"
	"ProjectFinance/pkg/log"
	"ProjectFinance/pkg/response"
	"errors"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	TraceID string            `json:"trace_id,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

var errorCodes = []struct {
	err  error
	code string
}{
	{finance.ErrInvalidParameter, "INVALID_PARAMETER"},
	{finance.ErrMissingParameter, "MISSING_PARAMETER"},
	{finance.ErrInvalidRecord, "INVALID_RECORD"},
	{finance.ErrRecordNotFound, "RECORD_NOT_FOUND"},
	{finance.ErrStoreUnavailable, "STORE_UNAVAILABLE"},
}

type ErrorHandler struct {
	logger     *logrus.Logger
	translator ut.Translator
}

func New(logger *logrus.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
	}
}

// WithTranslator makes HandleValidationError report one translated message
// per invalid field.
func (h *ErrorHandler) WithTranslator(t ut.Translator) *ErrorHandler {
	h.translator = t
	return h
}

func errorCode(err error) string {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			return e.code
		}
	}
	return ""
}

func (h *ErrorHandler) Handle(c *fiber.Ctx, requestID string, err error, path string, operation string) error {
	fields := log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
		"operation":  operation,
	}

	var respErr *response.Error
	if errors.As(err, &respErr) {
		code := errorCode(err)
		fields["code"] = respErr.Code

		if respErr.Code >= fiber.StatusInternalServerError {
			traceID := log.ErrorWithTraceID(fields, "Operation failed with server error")
			return c.Status(respErr.Code).JSON(ErrorResponse{
				Error:   respErr.Error(),
				Code:    code,
				TraceID: traceID,
			})
		}

		h.logger.WithFields(fields).Warn("Operation failed with error response")
		return c.Status(respErr.Code).JSON(ErrorResponse{
			Error: err.Error(),
			Code:  code,
		})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) && fiberErr.Code < fiber.StatusInternalServerError {
		h.logger.WithFields(fields).Warn("Request rejected")
		return c.Status(fiberErr.Code).JSON(ErrorResponse{
			Error: fiberErr.Message,
		})
	}

	traceID := log.ErrorWithTraceID(fields, "Unexpected error")

	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error:   "An unexpected error occurred",
		TraceID: traceID,
	})
}

func (h *ErrorHandler) HandleValidationError(c *fiber.Ctx, requestID string, err error, path string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
	}).Warn("Validation failed")

	body := ErrorResponse{
		Error: "Validation failed: " + err.Error(),
		Code:  "VALIDATION_ERROR",
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && h.translator != nil {
		body.Error = "Validation failed"
		body.Details = make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			body.Details[fe.Field()] = fe.Translate(h.translator)
		}
	}

	return c.Status(fiber.StatusBadRequest).JSON(body)
}

func (h *ErrorHandler) HandleRequestTimeout(c *fiber.Ctx) error {
	return c.Status(fiber.StatusRequestTimeout).JSON(utils.StatusMessage(fiber.StatusRequestTimeout))
}

func (h *ErrorHandler) HandleUnauthorized(c *fiber.Ctx, requestID string, message string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"path":       c.Path(),
		"message":    message,
	}).Warn("Unauthorized access")

	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Error: message,
		Code:  "UNAUTHORIZED",
	})
}

func (h *ErrorHandler) HandleSuccess(c *fiber.Ctx, statusCode int, data interface{}) error {
	if data == nil {
		return c.SendStatus(statusCode)
	}
	return c.Status(statusCode).JSON(data)
}
