package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"wego/internal/domain"
)

// settingsID is the primary key of the single settings row.
const settingsID = 1

const settingsColumns = `companyName, companyAddress, companyPhone, companyEmail, logo,
	invoicePrefix, footerText, primaryColor, showLogo, updatedAt`

type MySQLSettingsRepository struct {
	db *sql.DB
}

func NewMySQLSettingsRepository(db *sql.DB) *MySQLSettingsRepository {
	return &MySQLSettingsRepository{db: db}
}

// Get returns the stored settings, creating the default row on first use.
func (r *MySQLSettingsRepository) Get(ctx context.Context) (*domain.InvoiceSettings, error) {
	settings, err := r.find(ctx)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	defaults := domain.DefaultInvoiceSettings()
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO InvoiceSettings (id, companyName, companyAddress, companyPhone, companyEmail, logo,
		                             invoicePrefix, footerText, primaryColor, showLogo)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE id = id`,
		settingsID, defaults.CompanyName, defaults.CompanyAddress, defaults.CompanyPhone, defaults.CompanyEmail,
		defaults.Logo, defaults.InvoicePrefix, defaults.FooterText, defaults.PrimaryColor, defaults.ShowLogo,
	)
	if err != nil {
		return nil, fmt.Errorf("creating default invoice settings: %w", err)
	}

	settings, err = r.find(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading invoice settings: %w", err)
	}
	return settings, nil
}

func (r *MySQLSettingsRepository) find(ctx context.Context) (*domain.InvoiceSettings, error) {
	var s domain.InvoiceSettings
	err := r.db.QueryRowContext(ctx, `SELECT `+settingsColumns+` FROM InvoiceSettings WHERE id = ?`, settingsID).Scan(
		&s.CompanyName, &s.CompanyAddress, &s.CompanyPhone, &s.CompanyEmail, &s.Logo,
		&s.InvoicePrefix, &s.FooterText, &s.PrimaryColor, &s.ShowLogo, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Upsert writes the whole settings row in a single statement.
func (r *MySQLSettingsRepository) Upsert(ctx context.Context, s domain.InvoiceSettings) (*domain.InvoiceSettings, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO InvoiceSettings (id, companyName, companyAddress, companyPhone, companyEmail, logo,
		                             invoicePrefix, footerText, primaryColor, showLogo)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			companyName = VALUES(companyName),
			companyAddress = VALUES(companyAddress),
			companyPhone = VALUES(companyPhone),
			companyEmail = VALUES(companyEmail),
			logo = VALUES(logo),
			invoicePrefix = VALUES(invoicePrefix),
			footerText = VALUES(footerText),
			primaryColor = VALUES(primaryColor),
			showLogo = VALUES(showLogo)`,
		settingsID, s.CompanyName, s.CompanyAddress, s.CompanyPhone, s.CompanyEmail, s.Logo,
		s.InvoicePrefix, s.FooterText, s.PrimaryColor, s.ShowLogo,
	)
	if err != nil {
		return nil, fmt.Errorf("upserting invoice settings: %w", err)
	}

	return r.find(ctx)
}
