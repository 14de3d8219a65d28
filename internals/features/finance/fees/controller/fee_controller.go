// file: internals/features/finance/fees/controller/fee_controller.go
package controller

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	feeDTO "feeportal_backend/internals/features/finance/fees/dto"
	svc "feeportal_backend/internals/features/finance/fees/service"
	helper "feeportal_backend/internals/helpers"
	"feeportal_backend/internals/middlewares/auth"
)

// ReceiptArchiver menyimpan salinan xlsx receipt (mis. OSS). Opsional.
type ReceiptArchiver interface {
	ArchiveReceipt(ctx context.Context, receiptNumber string, issued time.Time, body []byte) (string, error)
}

type FeeController struct {
	Service  *svc.FeeService
	Validate *validator.Validate
	Archive  ReceiptArchiver
	Logo     []byte
	Logger   *zap.Logger
}

func NewFeeController(service *svc.FeeService, archive ReceiptArchiver, logo []byte, logger *zap.Logger) *FeeController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeeController{
		Service:  service,
		Validate: helper.NewValidator(),
		Archive:  archive,
		Logo:     logo,
		Logger:   logger,
	}
}

const (
	defaultPerPage = 20
	maxPerPage     = 200
)

/* =========================== helpers =========================== */

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(c.Params(name))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// writeServiceError memetakan error domain/store ke response JSON.
func (ctl *FeeController) writeServiceError(c *fiber.Ctx, err error) error {
	if r, ok := svc.AsRejection(err); ok {
		details := map[string][]string{"kind": {string(r.Kind)}}
		if r.FeeType != "" {
			details["fee_type"] = []string{string(r.FeeType)}
		}
		if r.Kind == svc.RejectExceedsRemaining {
			details["remaining"] = []string{r.Remaining.StringFixed(2)}
		}
		if r.Field != "" {
			details["field"] = []string{r.Field}
		}
		return helper.JsonErrorWithCode(c, fiber.StatusUnprocessableEntity, helper.ErrorCodePaymentRejected, r.Error(), details)
	}

	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return helper.JsonError(c, fe.Code, fe.Message)
	case errors.Is(err, svc.ErrStudentNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Student not found")
	case errors.Is(err, svc.ErrPaymentNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Payment not found")
	case errors.Is(err, svc.ErrReceiptNumberUsed):
		return helper.JsonError(c, fiber.StatusConflict, "Receipt number already used")
	case errors.Is(err, context.DeadlineExceeded):
		return helper.JsonError(c, fiber.StatusGatewayTimeout, "Request timed out")
	}

	status, msg := helper.MapPGError(err)
	if status >= http.StatusInternalServerError {
		ctl.Logger.Error("fee request failed",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		msg = "Internal server error"
	}
	return helper.JsonError(c, status, msg)
}

/* =========================== handlers =========================== */

// GET /fees/students?q=&page=&per_page=
func (ctl *FeeController) ListStudents(c *fiber.Ctx) error {
	var q feeDTO.ListStudentFeeQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid query")
	}
	if err := ctl.Validate.Struct(&q); err != nil {
		return helper.ValidationError(c, err)
	}
	pg := helper.ResolvePaging(c, defaultPerPage, maxPerPage)

	search := ""
	if q.Q != nil {
		search = strings.TrimSpace(*q.Q)
	}
	list, total, err := ctl.Service.ListSummaries(c.UserContext(), svc.StudentListQuery{
		Q:      search,
		Limit:  pg.Limit,
		Offset: pg.Offset,
	})
	if err != nil {
		return ctl.writeServiceError(c, err)
	}
	return helper.JsonList(c, "ok", feeDTO.FromSummaries(list),
		helper.BuildPaginationFromOffset(total, pg.Offset, pg.Limit, len(list)))
}

// GET /fees/students/:id/ledger
func (ctl *FeeController) Ledger(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return ctl.writeServiceError(c, err)
	}
	st, l, err := ctl.Service.Ledger(c.UserContext(), id)
	if err != nil {
		return ctl.writeServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", feeDTO.FromLedger(*st, l))
}

// GET /fees/students/:id/fee-types
func (ctl *FeeController) FeeTypes(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return ctl.writeServiceError(c, err)
	}
	opts, err := ctl.Service.Availability(c.UserContext(), id)
	if err != nil {
		return ctl.writeServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", opts)
}

// GET /fees/students/:id/payments
func (ctl *FeeController) Payments(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return ctl.writeServiceError(c, err)
	}
	sm, err := ctl.Service.Summary(c.UserContext(), id)
	if err != nil {
		return ctl.writeServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", feeDTO.FromSummary(*sm))
}

// POST /fees/students/:id/payments/preview
func (ctl *FeeController) Preview(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return ctl.writeServiceError(c, err)
	}
	var req feeDTO.PreviewFeePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := ctl.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	out, err := ctl.Service.PreviewPayment(c.UserContext(), req.ToInput(id))
	if err != nil {
		return ctl.writeServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", out)
}

// POST /fees/payments
func (ctl *FeeController) Create(c *fiber.Ctx) error {
	var req feeDTO.CreateFeePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := ctl.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	in, fieldErrs := req.ToInput(auth.StaffID(c), ctl.Service.Location())
	if len(fieldErrs) > 0 {
		return helper.JsonValidationError(c, fieldErrs)
	}

	out, err := ctl.Service.RecordPayment(c.UserContext(), in)
	if err != nil {
		return ctl.writeServiceError(c, err)
	}
	return helper.JsonCreated(c, "Payment recorded", feeDTO.FromRecorded(*out))
}

// GET /fees/payments/:id/receipt
func (ctl *FeeController) Receipt(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return ctl.writeServiceError(c, err)
	}
	r, err := ctl.Service.Receipt(c.UserContext(), id)
	if err != nil {
		return ctl.writeServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", r)
}

// GET /fees/payments/:id/receipt.xlsx
func (ctl *FeeController) ReceiptXLSX(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return ctl.writeServiceError(c, err)
	}
	file, err := ctl.Service.ReceiptWorkbook(c.UserContext(), id, ctl.Logo)
	if err != nil {
		return ctl.writeServiceError(c, err)
	}

	// arsip gagal tidak menggagalkan download
	if ctl.Archive != nil {
		url, aerr := ctl.Archive.ArchiveReceipt(c.UserContext(), file.Receipt.ReceiptNumber, file.IssuedAt, file.Body)
		if aerr != nil {
			ctl.Logger.Warn("archive receipt failed",
				zap.String("receipt_number", file.Receipt.ReceiptNumber),
				zap.Error(aerr),
			)
		} else if url != "" {
			c.Set("X-Receipt-Archive-URL", url)
		}
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+file.FileName+`"`)
	return c.Status(fiber.StatusOK).Send(file.Body)
}
