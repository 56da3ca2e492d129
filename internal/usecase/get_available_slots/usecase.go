package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SpaBookingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SpaBookingService/pkg/types"
)

// UseCase use case для получения меню слотов услуги на дату
type UseCase struct {
	serviceRepo  ServiceRepository
	ledger       CapacityLedger
	blockRepo    BlockRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	serviceRepo ServiceRepository,
	ledger CapacityLedger,
	blockRepo BlockRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		serviceRepo:  serviceRepo,
		ledger:       ledger,
		blockRepo:    blockRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения слотов
// Результат информационный: оформление заново проверяет доступность под блокировкой
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: service=%d, date=%s", req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	date := types.DateOnly(req.Date)
	resp := &Response{Date: date, ServiceID: req.ServiceID, Slots: []Slot{}}

	// 2. Получаем услугу
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.Active {
		uc.logger.Warn("GetAvailableSlots: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	// 3. Прошедшая дата или выходной день: пустое меню
	if isDateInPast(date, uc.timeProvider.Now()) || len(service.SlotsFor(date)) == 0 {
		uc.logger.Info("GetAvailableSlots: no slots for service=%d on %s", req.ServiceID, date.Format(domain.DateFormat))
		return resp, nil
	}

	// 4. Занятость и блокировки из одного снимка
	var (
		committed map[types.TimeString]int
		blocks    []*domain.SlotBlock
	)
	err = uc.txManager.DoReadOnly(ctx, func(ctx context.Context) error {
		var err error
		committed, err = uc.ledger.CommittedBySlot(ctx, service.ID, date)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to get committed capacity: %v", err)
			return fmt.Errorf("%w: failed to get committed capacity: %v", ErrInternal, err)
		}

		blocks, err = uc.blockRepo.GetActiveForDate(ctx, service.ID, date)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to get slot blocks: %v", err)
			return fmt.Errorf("%w: failed to get slot blocks: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		uc.logger.Error("GetAvailableSlots: read transaction failed: %v", err)
		return nil, fmt.Errorf("%w: read transaction: %v", ErrInternal, err)
	}

	resp.Slots = buildSlots(service, date, req.PartySize, committed, blocks)

	uc.logger.Info("GetAvailableSlots: built %d slots for service=%d, date=%s",
		len(resp.Slots), req.ServiceID, date.Format(domain.DateFormat))

	return resp, nil
}
