package repository

import (
	"gorm.io/gorm"
)

const entitySequence = "entities"

// GormSequenceRepository is a GORM implementation of SequenceRepository
type GormSequenceRepository struct {
	db *gorm.DB
}

// NewSequenceRepository creates a new SequenceRepository
func NewSequenceRepository(db *gorm.DB) SequenceRepository {
	return &GormSequenceRepository{db: db}
}

// NextID increments the shared counter inside a transaction and returns the
// new value. The raw statements keep the increment atomic on every supported
// driver.
func (r *GormSequenceRepository) NextID() (uint64, error) {
	var id uint64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Exec("UPDATE id_sequences SET value = value + 1 WHERE name = ?", entitySequence)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if err := tx.Exec("INSERT INTO id_sequences (name, value) VALUES (?, ?)", entitySequence, 1).Error; err != nil {
				return err
			}
		}
		return tx.Raw("SELECT value FROM id_sequences WHERE name = ?", entitySequence).Scan(&id).Error
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}
