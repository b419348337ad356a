package models

import (
	"database/sql/driver"
	"fmt"

	"github.com/shopspring/decimal"
)

// Money 金额类型，统一保留两位小数，避免浮点误差
type Money struct {
	d decimal.Decimal
}

func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d: d.Round(2)}
}

func NewMoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return NewMoneyFromDecimal(d), nil
}

func NewMoneyFromFloat(f float64) Money {
	return NewMoneyFromDecimal(decimal.NewFromFloat(f))
}

func ZeroMoney() Money {
	return Money{d: decimal.Zero}
}

func (m Money) Decimal() decimal.Decimal { return m.d }

func (m Money) Add(other Money) Money {
	return NewMoneyFromDecimal(m.d.Add(other.d))
}

func (m Money) Sub(other Money) Money {
	return NewMoneyFromDecimal(m.d.Sub(other.d))
}

// MulInt 金额乘以数量
func (m Money) MulInt(n int64) Money {
	return NewMoneyFromDecimal(m.d.Mul(decimal.NewFromInt(n)))
}

// MulRate 按百分比费率计算，rate 为百分数（如 5 表示 5%）
func (m Money) MulRate(rate decimal.Decimal) Money {
	return NewMoneyFromDecimal(m.d.Mul(rate).Div(decimal.NewFromInt(100)))
}

func (m Money) Cmp(other Money) int {
	return m.d.Cmp(other.d)
}

func (m Money) IsZero() bool     { return m.d.IsZero() }
func (m Money) IsNegative() bool { return m.d.IsNegative() }
func (m Money) IsPositive() bool { return m.d.IsPositive() }

func (m Money) String() string {
	return m.d.StringFixed(2)
}

// Value 实现 driver.Valuer，以定点字符串入库
func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}

// Scan 实现 sql.Scanner
func (m *Money) Scan(value interface{}) error {
	if value == nil {
		m.d = decimal.Zero
		return nil
	}
	switch v := value.(type) {
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return err
		}
		m.d = d.Round(2)
	case []byte:
		d, err := decimal.NewFromString(string(v))
		if err != nil {
			return err
		}
		m.d = d.Round(2)
	case float64:
		m.d = decimal.NewFromFloat(v).Round(2)
	case int64:
		m.d = decimal.NewFromInt(v)
	default:
		return fmt.Errorf("cannot scan %T into Money", value)
	}
	return nil
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" || s == "null" {
		m.d = decimal.Zero
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return err
	}
	m.d = d.Round(2)
	return nil
}

// GormDataType 指定数据库列类型
func (Money) GormDataType() string {
	return "varchar(32)"
}
