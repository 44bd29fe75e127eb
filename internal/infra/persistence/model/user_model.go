// Package model holds the GORM persistence models. They mirror the tables
// created by the migrations package and never leave the persistence layer.
package model

import "time"

// UserModel mirrors the 'usuarios' table. The column names are the ones the
// original store used, so existing rows keep working.
type UserModel struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name         string    `gorm:"column:nombre;type:varchar(100);not null"`
	Username     string    `gorm:"column:usuario;type:varchar(100);uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:clave;type:varchar(100);not null"`
	CreatedAt    time.Time `gorm:"column:created_at;not null"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "usuarios"
}
