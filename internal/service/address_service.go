package service

import (
	"strings"

	"github.com/krishimart/krishimart/internal/constants"
	"github.com/krishimart/krishimart/internal/models"
	"github.com/krishimart/krishimart/internal/repository"

	"gorm.io/gorm"
)

// AddressService 收货地址服务
type AddressService struct {
	repo repository.AddressRepository
}

// NewAddressService 创建地址服务
func NewAddressService(repo repository.AddressRepository) *AddressService {
	return &AddressService{repo: repo}
}

// AddressInput 创建/更新地址输入
type AddressInput struct {
	Type       string
	FullName   string
	Phone      string
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
	IsDefault  bool
}

// ListByUser 获取用户地址列表
func (s *AddressService) ListByUser(userID uint, addrType string) ([]models.Address, error) {
	return s.repo.ListByUser(userID, addrType)
}

// GetByIDAndUser 获取用户的单个地址
func (s *AddressService) GetByIDAndUser(id, userID uint) (*models.Address, error) {
	address, err := s.repo.GetByIDAndUser(id, userID)
	if err != nil {
		return nil, err
	}
	if address == nil {
		return nil, ErrAddressNotFound
	}
	return address, nil
}

// Create 创建地址（同类型下的首个地址自动设为默认）
func (s *AddressService) Create(userID uint, input AddressInput) (*models.Address, error) {
	addrType := normalizeAddressType(input.Type)
	count, err := s.repo.CountByUserAndType(userID, addrType)
	if err != nil {
		return nil, err
	}

	address := models.Address{
		UserID:     userID,
		Type:       addrType,
		FullName:   strings.TrimSpace(input.FullName),
		Phone:      strings.TrimSpace(input.Phone),
		Line1:      strings.TrimSpace(input.Line1),
		Line2:      strings.TrimSpace(input.Line2),
		City:       strings.TrimSpace(input.City),
		State:      strings.TrimSpace(input.State),
		PostalCode: strings.TrimSpace(input.PostalCode),
		Country:    strings.TrimSpace(input.Country),
		IsDefault:  input.IsDefault || count == 0,
	}
	if address.Country == "" {
		address.Country = "India"
	}

	if !address.IsDefault {
		if err := s.repo.Create(&address); err != nil {
			return nil, err
		}
		return &address, nil
	}

	err = s.repo.Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.ClearDefaultByUserAndType(userID, addrType); err != nil {
			return err
		}
		return txRepo.Create(&address)
	})
	if err != nil {
		return nil, err
	}
	return &address, nil
}

// Update 更新地址
func (s *AddressService) Update(id, userID uint, input AddressInput) (*models.Address, error) {
	address, err := s.repo.GetByIDAndUser(id, userID)
	if err != nil {
		return nil, err
	}
	if address == nil {
		return nil, ErrAddressNotFound
	}

	address.Type = normalizeAddressType(input.Type)
	address.FullName = strings.TrimSpace(input.FullName)
	address.Phone = strings.TrimSpace(input.Phone)
	address.Line1 = strings.TrimSpace(input.Line1)
	address.Line2 = strings.TrimSpace(input.Line2)
	address.City = strings.TrimSpace(input.City)
	address.State = strings.TrimSpace(input.State)
	address.PostalCode = strings.TrimSpace(input.PostalCode)
	if country := strings.TrimSpace(input.Country); country != "" {
		address.Country = country
	}

	address.IsDefault = address.IsDefault || input.IsDefault
	if !address.IsDefault {
		if err := s.repo.Update(address); err != nil {
			return nil, err
		}
		return address, nil
	}

	// 默认标记入库前先清同类型旧默认（类型变更时同样生效）
	err = s.repo.Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.ClearDefaultByUserAndType(userID, address.Type); err != nil {
			return err
		}
		return txRepo.Update(address)
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

// SetDefault 切换默认地址（事务内先清同类型旧默认再设置，其他类型不受影响）
func (s *AddressService) SetDefault(id, userID uint) error {
	address, err := s.repo.GetByIDAndUser(id, userID)
	if err != nil {
		return err
	}
	if address == nil {
		return ErrAddressNotFound
	}
	return s.repo.Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.ClearDefaultByUserAndType(userID, address.Type); err != nil {
			return err
		}
		return txRepo.SetDefault(id, userID)
	})
}

// Delete 删除地址
func (s *AddressService) Delete(id, userID uint) error {
	rows, err := s.repo.Delete(id, userID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrAddressNotFound
	}
	return nil
}

// normalizeAddressType 归一化地址类型
func normalizeAddressType(addressType string) string {
	switch strings.ToLower(strings.TrimSpace(addressType)) {
	case constants.AddressTypeBilling:
		return constants.AddressTypeBilling
	case constants.AddressTypeBusiness:
		return constants.AddressTypeBusiness
	default:
		return constants.AddressTypeShipping
	}
}
