package repository

import "errors"

var (
	ErrProjectNotFound  = errors.New("project not found")
	ErrProfileNotFound  = errors.New("profile not found")
	ErrSkillExists      = errors.New("skill already exists")
	ErrAllocationExists = errors.New("allocation already exists")
	ErrUnknownReference = errors.New("referenced row does not exist")
)
