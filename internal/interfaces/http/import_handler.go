package http

import (
	"context"
	"sync"

	"github.com/gofiber/fiber/v2"

	"github.com/libertsolutions/libertvendas/internal/application/dataimport"
	"github.com/libertsolutions/libertvendas/internal/application/dto"
)

// connectivityChecker chequeo de red del dispositivo. Lo implementa *remote.Connectivity.
type connectivityChecker interface {
	IsOnline(ctx context.Context) bool
}

// importView vista HTTP de la importación inicial.
type importView struct {
	errorRecorder
	finished bool
	success  bool
}

func (v *importView) ShowLoading() {}
func (v *importView) InvalidateMenu() {}
func (v *importView) NavigateToMain() {}
func (v *importView) FinishView() {}
func (v *importView) ShowSuccessMessage() {}

func (v *importView) ShowDeviceNotConnectedError() {
	v.fail(fiber.StatusServiceUnavailable, "OFFLINE", "dispositivo sin conexión")
}

func (v *importView) HideLoadingWithSuccess() { v.finished, v.success = true, true }
func (v *importView) HideLoadingWithFail() { v.finished, v.success = true, false }

// ImportHandler maneja la importación inicial de formas de pago y ciudades.
type ImportHandler struct {
	presenter    *dataimport.Presenter
	connectivity connectivityChecker

	mu sync.Mutex // una importación a la vez
}

// NewImportHandler construye el handler.
func NewImportHandler(presenter *dataimport.Presenter, connectivity connectivityChecker) *ImportHandler {
	return &ImportHandler{presenter: presenter, connectivity: connectivity}
}

// Start POST /api/import
func (h *ImportHandler) Start(c *fiber.Ctx) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := c.UserContext()
	v := &importView{}
	h.presenter.Attach(v)
	defer h.presenter.Detach()

	h.presenter.StartSync(ctx, h.connectivity.IsOnline(ctx))
	if v.finished {
		h.presenter.HandleAnimationEnd(v.success)
	}
	if v.failed() {
		return v.respond(c)
	}
	if !v.success {
		return fail(c, fiber.StatusInternalServerError, "INTERNAL", "importación sin desenlace")
	}
	return c.JSON(dto.ImportResponse{Done: true})
}

// Status GET /api/import/status
func (h *ImportHandler) Status(c *fiber.Ctx) error {
	return c.JSON(dto.ImportStatusResponse{Done: h.presenter.IsSyncDone(c.UserContext())})
}
