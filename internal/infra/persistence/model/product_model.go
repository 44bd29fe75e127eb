package model

// ProductModel mirrors the 'productos' table.
type ProductModel struct {
	ID       int64   `gorm:"column:id;primaryKey;autoIncrement"`
	Name     string  `gorm:"column:nombre;type:varchar(255);not null"`
	Brand    string  `gorm:"column:marca;type:varchar(255)"`
	Category string  `gorm:"column:categoria;type:varchar(255)"`
	Stock    int     `gorm:"column:stock;not null"`
	Price    float64 `gorm:"column:precio;type:numeric(10,2);not null"`
}

// TableName explicitly sets the table name for GORM.
func (ProductModel) TableName() string {
	return "productos"
}
