package contact

import (
	"gorm.io/gorm"
)

type Repository interface {
	Save(db *gorm.DB, m *ContactMessage) error
	ListAll(db *gorm.DB, status string) ([]ContactMessage, error)
	FindByID(db *gorm.DB, id uint) (*ContactMessage, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Save(db *gorm.DB, m *ContactMessage) error {
	return db.Save(m).Error
}

func (r *repositoryImpl) ListAll(db *gorm.DB, status string) ([]ContactMessage, error) {
	var list []ContactMessage
	q := db.Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *repositoryImpl) FindByID(db *gorm.DB, id uint) (*ContactMessage, error) {
	var m ContactMessage
	if err := db.First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}
