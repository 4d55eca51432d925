package models

import "time"

// Rarity is the collectible tier of a badge.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// AllRarities returns all rarities in order from lowest to highest.
func AllRarities() []Rarity {
	return []Rarity{RarityCommon, RarityUncommon, RarityRare, RarityEpic, RarityLegendary}
}

// Rank returns the position of r in AllRarities, or -1 for unknown values.
func (r Rarity) Rank() int {
	for i, known := range AllRarities() {
		if r == known {
			return i
		}
	}
	return -1
}

// Less reports whether r is a lower tier than other.
func (r Rarity) Less(other Rarity) bool {
	return r.Rank() < other.Rank()
}

// Badge is a catalog entry. UnlockCriteria holds the serialized unlock rule;
// it is parsed once when the catalog is loaded.
type Badge struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"uniqueIndex;not null" json:"name"`
	Description    string    `gorm:"not null" json:"description"`
	ImageURL       string    `json:"imageUrl"`
	Category       string    `gorm:"index;not null" json:"category"`
	Rarity         Rarity    `gorm:"not null;default:common" json:"rarity"`
	UnlockCriteria string    `gorm:"not null" json:"unlockCriteria"`
	CreatedAt      time.Time `json:"createdAt"`
}

// UserBadge is a ledger entry: one award of one badge to one user.
// (UserID, BadgeID) is the primary key, so a user holds a badge at most once.
type UserBadge struct {
	UserID       uint      `gorm:"primaryKey;autoIncrement:false" json:"userId"`
	BadgeID      uint      `gorm:"primaryKey;autoIncrement:false" json:"badgeId"`
	Badge        Badge     `gorm:"foreignKey:BadgeID" json:"badge"`
	EarnedAt     time.Time `gorm:"not null" json:"earnedAt"`
	DisplayOrder int       `gorm:"not null;default:0" json:"displayOrder"`
	Favorite     bool      `gorm:"not null;default:false" json:"favorite"`
}
