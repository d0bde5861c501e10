package models

import "golang.org/x/crypto/bcrypt"

// User is an account. Password holds the bcrypt hash and is never serialised.
type User struct {
	BaseModel
	Name                   string  `gorm:"type:varchar(100);not null" json:"name"`
	Email                  string  `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password               string  `gorm:"type:varchar(255);not null" json:"-"`
	IsAdmin                bool    `gorm:"not null;default:false;index" json:"isAdmin"`
	IsBlocked              bool    `gorm:"not null;default:false;index" json:"isBlocked"`
	SalesforceAccountID    *string `gorm:"type:varchar(32)" json:"salesforceAccountId"`
	SalesforceContactID    *string `gorm:"type:varchar(32)" json:"salesforceContactId"`
	IsSyncedWithSalesforce bool    `gorm:"not null;default:false" json:"isSyncedWithSalesforce"`
}

// CheckPassword reports whether password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}
