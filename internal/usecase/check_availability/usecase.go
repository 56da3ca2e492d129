package check_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SpaBookingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SpaBookingService/internal/service/availability"
	"github.com/m04kA/SMC-SpaBookingService/pkg/types"
)

// UseCase use case проверки доступности слота без бронирования
type UseCase struct {
	serviceRepo ServiceRepository
	checker     AvailabilityChecker
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(serviceRepo ServiceRepository, checker AvailabilityChecker, logger Logger) *UseCase {
	return &UseCase{
		serviceRepo: serviceRepo,
		checker:     checker,
		logger:      logger,
	}
}

// Execute возвращает решение по слоту
// Отказ (CAPACITY_EXCEEDED и т.п.) - обычный результат, а не ошибка.
// Ошибка хранилища возвращается вместе с решением STORAGE_ERROR
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CheckAvailability: service=%d, date=%s, slot=%s, party=%d",
		req.ServiceID, req.Date.Format(domain.DateFormat), req.Slot, req.PartySize)

	if req.ServiceID <= 0 {
		return nil, fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if err := req.Slot.Validate(); err != nil {
		return nil, fmt.Errorf("%w: invalid slot format: %v", ErrInvalidInput, err)
	}

	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CheckAvailability: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CheckAvailability: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrStorage, err)
	}
	if !service.Active {
		return nil, ErrServiceNotFound
	}

	resp := &Response{
		ServiceID: req.ServiceID,
		Date:      types.DateOnly(req.Date),
		Slot:      req.Slot,
		PartySize: req.PartySize,
	}

	decision, err := uc.checker.Check(ctx, service, availability.Request{
		Date:             resp.Date,
		Slot:             req.Slot,
		PartySize:        req.PartySize,
		ExcludeBookingID: req.ExcludeBookingID,
	})
	if err != nil {
		if errors.Is(err, availability.ErrInvalidPartySize) {
			uc.logger.Warn("CheckAvailability: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		resp.Decision = decision
		return resp, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	resp.Decision = decision
	return resp, nil
}
