package repo

import "gorm.io/gorm"

// GormRepo is the single storage gateway; its methods are grouped by table
// across the files of this package.
type GormRepo struct {
	DB *gorm.DB
}
