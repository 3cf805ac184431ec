package repository

import (
	"github.com/npatel/recipebox-backend/internal/app/model"
	"gorm.io/gorm"
)

type DescriptorRepository interface {
	List() ([]model.Descriptor, error)
	FindByName(name string) (*model.Descriptor, error)
	ListTerms() ([]model.Term, error)
}

type descriptorRepository struct {
	db *gorm.DB
}

func NewDescriptorRepository(db *gorm.DB) DescriptorRepository {
	return &descriptorRepository{db: db}
}

func (r *descriptorRepository) List() ([]model.Descriptor, error) {
	var descriptors []model.Descriptor
	if err := r.db.Order("name").Find(&descriptors).Error; err != nil {
		return nil, err
	}
	return descriptors, nil
}

func (r *descriptorRepository) FindByName(name string) (*model.Descriptor, error) {
	var descriptor model.Descriptor
	if err := r.db.First(&descriptor, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &descriptor, nil
}

func (r *descriptorRepository) ListTerms() ([]model.Term, error) {
	var terms []model.Term
	if err := r.db.Order("term").Find(&terms).Error; err != nil {
		return nil, err
	}
	return terms, nil
}
