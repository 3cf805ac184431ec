package service

import (
	"github.com/npatel/recipebox-backend/internal/app/model"
	"github.com/npatel/recipebox-backend/internal/app/repository"
)

type DescriptorService interface {
	List() ([]model.Descriptor, error)
	Terms() ([]model.Term, error)
}

type descriptorService struct {
	descriptorRepo repository.DescriptorRepository
}

func NewDescriptorService(descriptorRepo repository.DescriptorRepository) DescriptorService {
	return &descriptorService{descriptorRepo: descriptorRepo}
}

func (s *descriptorService) List() ([]model.Descriptor, error) {
	return s.descriptorRepo.List()
}

func (s *descriptorService) Terms() ([]model.Term, error) {
	return s.descriptorRepo.ListTerms()
}
