package repository

import (
	"context"

	"github.com/JeerTeles/ROMARIO-MERCADINHO/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IAdminRepository stores the single admin credential row.
type IAdminRepository interface {
	GetCredential(ctx context.Context) (*models.AdminCredential, error)
	SaveCredential(ctx context.Context, passwordHash string) error
}

// AdminRepository implements IAdminRepository for GORM.
type AdminRepository struct {
	DB *gorm.DB
}

// NewAdminRepository creates a new AdminRepository instance.
func NewAdminRepository(db *gorm.DB) IAdminRepository {
	return &AdminRepository{DB: db}
}

func (r *AdminRepository) GetCredential(ctx context.Context) (*models.AdminCredential, error) {
	var cred models.AdminCredential
	if err := r.DB.WithContext(ctx).First(&cred, models.AdminCredentialID).Error; err != nil {
		return nil, translate(err)
	}
	return &cred, nil
}

// SaveCredential inserts or replaces the credential row.
func (r *AdminRepository) SaveCredential(ctx context.Context, passwordHash string) error {
	cred := models.AdminCredential{ID: models.AdminCredentialID, PasswordHash: passwordHash}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"password_hash", "updated_at"}),
	}).Create(&cred).Error
}
