package dataimport

import (
	"context"

	"github.com/libertsolutions/libertvendas/internal/domain/entity"
)

// PaymentMethodService formas de pago remotas de una empresa.
type PaymentMethodService interface {
	PaymentMethods(ctx context.Context, companyCNPJ string) ([]*entity.PaymentMethod, error)
}

// CityService ciudades remotas.
type CityService interface {
	Cities(ctx context.Context) ([]*entity.City, error)
}

// SessionStore lo que la importación necesita de la sesión.
type SessionStore interface {
	CompanyCNPJ(ctx context.Context) string
	MarkInitialDataSynced(ctx context.Context) error
	IsInitialDataSynced(ctx context.Context) (bool, error)
}

// View contrato de la pantalla de importación inicial.
type View interface {
	ShowLoading()
	ShowDeviceNotConnectedError()
	HideLoadingWithSuccess()
	HideLoadingWithFail()

	ShowSuccessMessage()
	InvalidateMenu()

	ShowServerError()
	ShowNetworkError()
	ShowValidationError(message string)
	ShowUnknownError()

	NavigateToMain()
	FinishView()
}
