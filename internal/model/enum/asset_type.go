package enum

import "strings"

// AssetType describes what kind of security a symbol names.
type AssetType uint8

const (
	_asset_type_beg AssetType = iota
	AssetTypeStock
	AssetTypeUnderlying
	AssetTypeContract
	_asset_type_end
)

func (a AssetType) IsAvailable() bool {
	return a > _asset_type_beg && a < _asset_type_end
}

func (a AssetType) String() string {
	switch a {
	case AssetTypeStock:
		return "stock"
	case AssetTypeUnderlying:
		return "underlying"
	case AssetTypeContract:
		return "contract"
	default:
		return "unknown"
	}
}

// ParseAssetType maps a name to its asset type. Unknown names report false.
func ParseAssetType(name string) (AssetType, bool) {
	for a := _asset_type_beg + 1; a < _asset_type_end; a++ {
		if strings.EqualFold(a.String(), name) {
			return a, true
		}
	}
	return _asset_type_beg, false
}
