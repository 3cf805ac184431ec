package model

// GroceryArea is a postal-code area stores are located in
type GroceryArea struct {
	PostalCode string `gorm:"primaryKey" json:"postal_code"`
	City       string `gorm:"not null" json:"city"`
	Province   string `gorm:"not null" json:"province"`
	Currency   string `gorm:"not null;default:'CAD'" json:"currency"`
}

func (GroceryArea) TableName() string {
	return "grocery_areas"
}

type GroceryStore struct {
	Name     string `gorm:"primaryKey" json:"name"`
	DaysOpen string `json:"days_open"` // e.g. "Mon-Sat"
	Hours    string `json:"hours"`     // e.g. "8am-10pm"
}

func (GroceryStore) TableName() string {
	return "grocery_stores"
}

// StoreLocation is one physical branch of a store inside an area
type StoreLocation struct {
	PostalCode string `gorm:"primaryKey" json:"postal_code"`
	Address    string `gorm:"primaryKey" json:"address"`
	StoreName  string `gorm:"not null" json:"store_name"`

	Area  GroceryArea  `gorm:"foreignKey:PostalCode;constraint:OnDelete:CASCADE" json:"-"`
	Store GroceryStore `gorm:"foreignKey:StoreName;constraint:OnDelete:CASCADE" json:"-"`
	// Declared from the parent side so the foreign key lands on item_prices
	Prices []ItemPrice `gorm:"foreignKey:PostalCode,Address;references:PostalCode,Address;constraint:OnDelete:CASCADE" json:"-"`
}

func (StoreLocation) TableName() string {
	return "store_locations"
}

// ItemPrice is the price of an item at one store location
type ItemPrice struct {
	PostalCode string  `gorm:"primaryKey" json:"postal_code"`
	Address    string  `gorm:"primaryKey" json:"address"`
	ItemName   string  `gorm:"primaryKey" json:"item_name"`
	Price      float64 `gorm:"not null" json:"price"`

	Item Item `gorm:"foreignKey:ItemName;constraint:OnDelete:CASCADE" json:"-"`
}

func (ItemPrice) TableName() string {
	return "item_prices"
}
