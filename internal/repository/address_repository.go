package repository

import (
	"errors"

	"github.com/krishimart/krishimart/internal/models"

	"gorm.io/gorm"
)

// AddressRepository 地址数据访问接口
type AddressRepository interface {
	ListByUser(userID uint, addrType string) ([]models.Address, error)
	GetByIDAndUser(id, userID uint) (*models.Address, error)
	GetDefaultByUserAndType(userID uint, addrType string) (*models.Address, error)
	CountByUserAndType(userID uint, addrType string) (int64, error)
	Create(address *models.Address) error
	Update(address *models.Address) error
	Delete(id, userID uint) (int64, error)
	ClearDefaultByUserAndType(userID uint, addrType string) error
	SetDefault(id, userID uint) error
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) AddressRepository
}

// GormAddressRepository GORM 实现
type GormAddressRepository struct {
	db *gorm.DB
}

// NewAddressRepository 创建地址仓库
func NewAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

// WithTx 绑定事务
func (r *GormAddressRepository) WithTx(tx *gorm.DB) AddressRepository {
	if tx == nil {
		return r
	}
	return &GormAddressRepository{db: tx}
}

// Transaction 执行事务
func (r *GormAddressRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// ListByUser 获取用户地址，默认地址排最前，可按类型过滤
func (r *GormAddressRepository) ListByUser(userID uint, addrType string) ([]models.Address, error) {
	query := r.db.Where("user_id = ?", userID)
	if addrType != "" {
		query = query.Where("type = ?", addrType)
	}
	var addresses []models.Address
	if err := query.Order("is_default DESC, updated_at DESC").Find(&addresses).Error; err != nil {
		return nil, err
	}
	return addresses, nil
}

// GetByIDAndUser 获取用户的指定地址
func (r *GormAddressRepository) GetByIDAndUser(id, userID uint) (*models.Address, error) {
	var address models.Address
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&address).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &address, nil
}

// GetDefaultByUserAndType 获取用户某一类型的默认地址
func (r *GormAddressRepository) GetDefaultByUserAndType(userID uint, addrType string) (*models.Address, error) {
	var address models.Address
	err := r.db.Where("user_id = ? AND type = ? AND is_default = ?", userID, addrType, true).First(&address).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &address, nil
}

// CountByUserAndType 统计用户某一类型的地址数
func (r *GormAddressRepository) CountByUserAndType(userID uint, addrType string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Address{}).Where("user_id = ? AND type = ?", userID, addrType).Count(&count).Error
	return count, err
}

// Create 创建地址
func (r *GormAddressRepository) Create(address *models.Address) error {
	return r.db.Create(address).Error
}

// Update 保存地址
func (r *GormAddressRepository) Update(address *models.Address) error {
	return r.db.Save(address).Error
}

// Delete 删除地址，返回受影响行数
func (r *GormAddressRepository) Delete(id, userID uint) (int64, error) {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Address{})
	return result.RowsAffected, result.Error
}

// ClearDefaultByUserAndType 取消用户某一类型下的默认标记（其他类型的默认不受影响）
func (r *GormAddressRepository) ClearDefaultByUserAndType(userID uint, addrType string) error {
	return r.db.Model(&models.Address{}).
		Where("user_id = ? AND type = ? AND is_default = ?", userID, addrType, true).
		Update("is_default", false).Error
}

// SetDefault 设置默认地址（单条更新，原子切换由服务层事务保证）
func (r *GormAddressRepository) SetDefault(id, userID uint) error {
	return r.db.Model(&models.Address{}).Where("id = ? AND user_id = ?", id, userID).Update("is_default", true).Error
}
