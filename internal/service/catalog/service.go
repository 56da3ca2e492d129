package catalog

import (
	"context"
	"errors"
	"fmt"

	blockRepo "github.com/m04kA/SMC-SpaBookingService/internal/infra/storage/block"
	catalogRepo "github.com/m04kA/SMC-SpaBookingService/internal/infra/storage/catalog"
	discountRepo "github.com/m04kA/SMC-SpaBookingService/internal/infra/storage/discount"
	"github.com/m04kA/SMC-SpaBookingService/internal/service/catalog/models"
)

// Service административный сервис каталога: услуги, пакетные скидки, блокировки
// Ядро бронирования эти записи только читает
type Service struct {
	serviceRepo ServiceRepository
	ruleRepo    RuleRepository
	blockRepo   BlockRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(
	serviceRepo ServiceRepository,
	ruleRepo RuleRepository,
	blockRepo BlockRepository,
	logger Logger,
) *Service {
	return &Service{
		serviceRepo: serviceRepo,
		ruleRepo:    ruleRepo,
		blockRepo:   blockRepo,
		logger:      logger,
	}
}

// CreateService создает услугу с расписанием слотов
func (s *Service) CreateService(ctx context.Context, req *models.CreateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("CreateService: creating service name=%s category=%s", req.Name, req.Category)

	service, err := req.ToDomainService()
	if err != nil {
		s.logger.Warn("CreateService: invalid request: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := service.Validate(); err != nil {
		s.logger.Warn("CreateService: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.serviceRepo.Create(ctx, service)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrDuplicateService) {
			s.logger.Warn("CreateService: service name=%s already exists", req.Name)
			return nil, ErrServiceAlreadyExists
		}
		s.logger.Error("CreateService: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateService - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateService: successfully created service id=%d", created.ID)
	return models.FromDomainService(created), nil
}

// GetService получает услугу по ID
func (s *Service) GetService(ctx context.Context, id int64) (*models.ServiceResponse, error) {
	s.logger.Info("GetService: fetching service id=%d", id)

	service, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			s.logger.Warn("GetService: service id=%d not found", id)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("GetService: repository error for service id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetService - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainService(service), nil
}

// UpdateService частично обновляет услугу
// Категория и режим цены не меняются: от них зависят уже созданные брони и скидки
func (s *Service) UpdateService(ctx context.Context, id int64, req *models.UpdateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("UpdateService: updating service id=%d", id)

	service, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			s.logger.Warn("UpdateService: service id=%d not found", id)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("UpdateService: repository error for service id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateService - repository error: %v", ErrInternal, err)
	}

	req.Apply(service)
	if err := service.Validate(); err != nil {
		s.logger.Warn("UpdateService: validation failed for service id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	updated, err := s.serviceRepo.Update(ctx, id, service)
	if err != nil {
		switch {
		case errors.Is(err, catalogRepo.ErrServiceNotFound):
			return nil, ErrServiceNotFound
		case errors.Is(err, catalogRepo.ErrDuplicateService):
			return nil, ErrServiceAlreadyExists
		}
		s.logger.Error("UpdateService: repository error for service id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateService - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateService: successfully updated service id=%d", id)
	return models.FromDomainService(updated), nil
}

// CreateDiscountRule создает пакетную скидку
// Некорректное правило отклоняется здесь, а не при расчете корзины
func (s *Service) CreateDiscountRule(ctx context.Context, req *models.CreateDiscountRuleRequest) (*models.DiscountRuleResponse, error) {
	s.logger.Info("CreateDiscountRule: creating rule name=%s", req.Name)

	rule, err := req.ToDomainRule()
	if err != nil {
		s.logger.Warn("CreateDiscountRule: invalid request: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := rule.Validate(); err != nil {
		s.logger.Warn("CreateDiscountRule: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.ruleRepo.Create(ctx, rule)
	if err != nil {
		s.logger.Error("CreateDiscountRule: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateDiscountRule - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateDiscountRule: successfully created rule id=%d", created.ID)
	return models.FromDomainRule(created), nil
}

// GetDiscountRule получает пакетную скидку по ID
func (s *Service) GetDiscountRule(ctx context.Context, id int64) (*models.DiscountRuleResponse, error) {
	rule, err := s.ruleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, discountRepo.ErrRuleNotFound) {
			s.logger.Warn("GetDiscountRule: rule id=%d not found", id)
			return nil, ErrRuleNotFound
		}
		s.logger.Error("GetDiscountRule: repository error for rule id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetDiscountRule - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainRule(rule), nil
}

// ListActiveDiscountRules возвращает активные скидки в порядке приоритета
func (s *Service) ListActiveDiscountRules(ctx context.Context) (*models.DiscountRuleListResponse, error) {
	rules, err := s.ruleRepo.GetActive(ctx)
	if err != nil {
		s.logger.Error("ListActiveDiscountRules: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListActiveDiscountRules - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainRuleList(rules), nil
}

// SetDiscountRuleActive включает или выключает пакетную скидку
func (s *Service) SetDiscountRuleActive(ctx context.Context, id int64, active bool) error {
	s.logger.Info("SetDiscountRuleActive: rule id=%d active=%t", id, active)

	if err := s.ruleRepo.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, discountRepo.ErrRuleNotFound) {
			s.logger.Warn("SetDiscountRuleActive: rule id=%d not found", id)
			return ErrRuleNotFound
		}
		s.logger.Error("SetDiscountRuleActive: repository error for rule id=%d: %v", id, err)
		return fmt.Errorf("%w: SetDiscountRuleActive - repository error: %v", ErrInternal, err)
	}

	return nil
}

// CreateSlotBlock закрывает слот (или целые дни) услуги на период
func (s *Service) CreateSlotBlock(ctx context.Context, req *models.CreateSlotBlockRequest) (*models.SlotBlockResponse, error) {
	s.logger.Info("CreateSlotBlock: blocking service=%d from %s to %s", req.ServiceID, req.DateFrom, req.DateTo)

	block, err := req.ToDomainBlock()
	if err != nil {
		s.logger.Warn("CreateSlotBlock: invalid request: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := block.Validate(); err != nil {
		s.logger.Warn("CreateSlotBlock: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// Блокировка должна ссылаться на существующую услугу
	if _, err := s.serviceRepo.GetByID(ctx, block.ServiceID); err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			s.logger.Warn("CreateSlotBlock: service id=%d not found", block.ServiceID)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("CreateSlotBlock: repository error for service id=%d: %v", block.ServiceID, err)
		return nil, fmt.Errorf("%w: CreateSlotBlock - repository error: %v", ErrInternal, err)
	}

	created, err := s.blockRepo.Create(ctx, block)
	if err != nil {
		s.logger.Error("CreateSlotBlock: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateSlotBlock - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateSlotBlock: successfully created block id=%d", created.ID)
	return models.FromDomainBlock(created), nil
}

// DeactivateSlotBlock снимает блокировку
func (s *Service) DeactivateSlotBlock(ctx context.Context, id int64) error {
	s.logger.Info("DeactivateSlotBlock: block id=%d", id)

	if err := s.blockRepo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, blockRepo.ErrBlockNotFound) {
			s.logger.Warn("DeactivateSlotBlock: block id=%d not found", id)
			return ErrBlockNotFound
		}
		s.logger.Error("DeactivateSlotBlock: repository error for block id=%d: %v", id, err)
		return fmt.Errorf("%w: DeactivateSlotBlock - repository error: %v", ErrInternal, err)
	}

	return nil
}
