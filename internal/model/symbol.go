package model

import (
	"rollpanel/internal/model/enum"
)

// Symbol is a ticker plus what kind of security it names.
type Symbol struct {
	Base      string
	AssetType enum.AssetType
	MonthCode string
}

func NewStock(base string) Symbol {
	return Symbol{Base: base, AssetType: enum.AssetTypeStock}
}

func NewUnderlying(base string) Symbol {
	return Symbol{Base: base, AssetType: enum.AssetTypeUnderlying}
}

// NewContract names the contract of underlying expiring in monthCode.
func NewContract(underlying, monthCode string) Symbol {
	return Symbol{
		Base:      underlying + monthCode,
		AssetType: enum.AssetTypeContract,
		MonthCode: monthCode,
	}
}

func (s Symbol) String() string {
	return s.Base
}

// Concat appends suffix to the ticker and keeps the asset type and month
// code of s.
func (s Symbol) Concat(suffix string) Symbol {
	s.Base += suffix
	return s
}

// Describe renders the symbol with its asset info.
func (s Symbol) Describe() string {
	out := "Symbol: " + s.Base + ", asset type: " + s.AssetType.String()
	if s.AssetType == enum.AssetTypeContract {
		out += ", month code: " + s.MonthCode
	}
	return out
}
