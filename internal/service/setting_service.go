package service

import (
	"strings"

	"github.com/krishimart/krishimart/internal/constants"
	"github.com/krishimart/krishimart/internal/models"
	"github.com/krishimart/krishimart/internal/repository"

	"github.com/shopspring/decimal"
)

// CheckoutSettings 结算参数（下单时读取一次，统一计算总额）
type CheckoutSettings struct {
	Currency              string
	TaxRatePercent        decimal.Decimal
	FreeShippingThreshold models.Money
	ShippingFlatFee       models.Money
}

// ShopConfig 公开站点配置
type ShopConfig struct {
	SiteName              string `json:"site_name"`
	Currency              string `json:"currency"`
	TaxRatePercent        string `json:"tax_rate_percent"`
	FreeShippingThreshold string `json:"free_shipping_threshold"`
	ShippingFlatFee       string `json:"shipping_flat_fee"`
	SupportEmail          string `json:"support_email"`
}

// 结算参数默认值（未配置时兜底）
var (
	defaultTaxRatePercent        = decimal.NewFromInt(5)
	defaultFreeShippingThreshold = decimal.NewFromInt(500)
	defaultShippingFlatFee       = decimal.NewFromInt(40)
)

// SettingService 站点设置服务
type SettingService struct {
	settingRepo repository.SettingRepository
}

// NewSettingService 创建设置服务
func NewSettingService(settingRepo repository.SettingRepository) *SettingService {
	return &SettingService{settingRepo: settingRepo}
}

var shopConfigKeys = []string{
	constants.SettingFieldSiteName,
	constants.SettingFieldSiteCurrency,
	constants.SettingFieldTaxRatePercent,
	constants.SettingFieldFreeShippingThreshold,
	constants.SettingFieldShippingFlatFee,
	constants.SettingFieldSupportEmail,
}

// GetShopConfig 获取公开站点配置
func (s *SettingService) GetShopConfig() (*ShopConfig, error) {
	values, err := s.loadValues()
	if err != nil {
		return nil, err
	}
	checkout := buildCheckoutSettings(values)
	return &ShopConfig{
		SiteName:              valueOr(values, constants.SettingFieldSiteName, "KrishiMart"),
		Currency:              checkout.Currency,
		TaxRatePercent:        checkout.TaxRatePercent.String(),
		FreeShippingThreshold: checkout.FreeShippingThreshold.String(),
		ShippingFlatFee:       checkout.ShippingFlatFee.String(),
		SupportEmail:          valueOr(values, constants.SettingFieldSupportEmail, ""),
	}, nil
}

// GetCheckoutSettings 获取结算参数
func (s *SettingService) GetCheckoutSettings() (*CheckoutSettings, error) {
	values, err := s.loadValues()
	if err != nil {
		return nil, err
	}
	checkout := buildCheckoutSettings(values)
	return &checkout, nil
}

// UpdateSettings 批量更新站点配置（仅接受已知键，数值键需可解析且非负）
func (s *SettingService) UpdateSettings(updates map[string]string) error {
	known := make(map[string]bool, len(shopConfigKeys))
	for _, key := range shopConfigKeys {
		known[key] = true
	}
	for key, value := range updates {
		if !known[key] {
			return ErrSettingInvalid
		}
		switch key {
		case constants.SettingFieldTaxRatePercent, constants.SettingFieldFreeShippingThreshold, constants.SettingFieldShippingFlatFee:
			d, err := decimal.NewFromString(strings.TrimSpace(value))
			if err != nil || d.IsNegative() {
				return ErrSettingInvalid
			}
		case constants.SettingFieldSiteCurrency:
			if len(strings.TrimSpace(value)) != 3 {
				return ErrSettingInvalid
			}
		}
	}
	for key, value := range updates {
		if _, err := s.settingRepo.Upsert(key, strings.TrimSpace(value)); err != nil {
			return err
		}
	}
	return nil
}

func (s *SettingService) loadValues() (map[string]string, error) {
	settings, err := s.settingRepo.ListByKeys(shopConfigKeys)
	if err != nil {
		return nil, err
	}
	values := make(map[string]string, len(settings))
	for _, setting := range settings {
		values[setting.Key] = setting.Value
	}
	return values, nil
}

func buildCheckoutSettings(values map[string]string) CheckoutSettings {
	currency := strings.ToUpper(strings.TrimSpace(values[constants.SettingFieldSiteCurrency]))
	if currency == "" {
		currency = constants.SiteCurrencyDefault
	}
	return CheckoutSettings{
		Currency:              currency,
		TaxRatePercent:        decimalOr(values[constants.SettingFieldTaxRatePercent], defaultTaxRatePercent),
		FreeShippingThreshold: models.NewMoneyFromDecimal(decimalOr(values[constants.SettingFieldFreeShippingThreshold], defaultFreeShippingThreshold)),
		ShippingFlatFee:       models.NewMoneyFromDecimal(decimalOr(values[constants.SettingFieldShippingFlatFee], defaultShippingFlatFee)),
	}
}

func decimalOr(raw string, fallback decimal.Decimal) decimal.Decimal {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return fallback
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil || d.IsNegative() {
		return fallback
	}
	return d
}

func valueOr(values map[string]string, key, fallback string) string {
	if v := strings.TrimSpace(values[key]); v != "" {
		return v
	}
	return fallback
}
