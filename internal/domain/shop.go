package domain

import (
	"time"

	"github.com/google/uuid"
)

// ItemType is the kind of cosmetic a shop item unlocks.
type ItemType string

const (
	ItemTypeBorder    ItemType = "border"
	ItemTypeNameColor ItemType = "name_color"
)

// Slot returns the equip slot items of this type occupy.
func (t ItemType) Slot() (Slot, error) {
	switch t {
	case ItemTypeBorder:
		return SlotBorder, nil
	case ItemTypeNameColor:
		return SlotNameColor, nil
	default:
		return "", ErrInvalidSlot
	}
}

// ShopItem is a purchasable cosmetic.
type ShopItem struct {
	ID        uuid.UUID `json:"id"`
	ItemType  ItemType  `json:"item_type"`
	ItemValue string    `json:"item_value"`
	XPCost    int       `json:"xp_cost"`
}

// Validate checks the item's type, value and price.
func (i *ShopItem) Validate() error {
	if i.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if _, err := i.ItemType.Slot(); err != nil {
		return NewValidationError("item_type", string(i.ItemType), err)
	}
	if i.ItemValue == "" || i.ItemValue == DefaultSlotValue {
		return NewValidationError("item_value", "must be a concrete value", ErrEmptyContent)
	}
	if i.XPCost < 0 {
		return NewValidationError("xp_cost", "must be non-negative", ErrNegativeXP)
	}
	return nil
}

// Slot returns the equip slot this item occupies.
func (i *ShopItem) Slot() Slot {
	s, _ := i.ItemType.Slot()
	return s
}

// Purchase records permanent ownership of a shop item.
type Purchase struct {
	UserID      uuid.UUID `json:"user_id"`
	ItemID      uuid.UUID `json:"item_id"`
	PurchasedAt time.Time `json:"purchased_at"`
}

// Owns reports whether purchases contains itemID.
func Owns(purchases []Purchase, itemID uuid.UUID) bool {
	for _, p := range purchases {
		if p.ItemID == itemID {
			return true
		}
	}
	return false
}
