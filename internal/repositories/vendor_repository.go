package repositories

import (
	"context"
	"database/sql"
	"errors"

	"zakupBack/internal/models"
)

type VendorRepository struct {
	DB *sql.DB
}

func (r *VendorRepository) CreateVendor(ctx context.Context, v models.Vendor) (int, error) {
	query := `INSERT INTO vendors (name, bin, contact_person, phone, email, status) VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.DB.ExecContext(ctx, query, v.Name, v.BIN, v.ContactPerson, v.Phone, v.Email, v.Status)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return int(id), err
}

func (r *VendorRepository) GetVendorByID(ctx context.Context, id int) (models.Vendor, error) {
	query := `SELECT id, name, bin, contact_person, phone, email, status, created_at, updated_at FROM vendors WHERE id = ?`
	var v models.Vendor
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&v.ID, &v.Name, &v.BIN, &v.ContactPerson, &v.Phone, &v.Email, &v.Status, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Vendor{}, models.ErrVendorNotFound
	}
	return v, err
}

func (r *VendorRepository) GetVendors(ctx context.Context) ([]models.Vendor, error) {
	query := `SELECT id, name, bin, contact_person, phone, email, status, created_at, updated_at FROM vendors ORDER BY name`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vendors []models.Vendor
	for rows.Next() {
		var v models.Vendor
		if err := rows.Scan(&v.ID, &v.Name, &v.BIN, &v.ContactPerson, &v.Phone, &v.Email, &v.Status, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		vendors = append(vendors, v)
	}
	return vendors, rows.Err()
}

func (r *VendorRepository) UpdateVendor(ctx context.Context, v models.Vendor) error {
	query := `UPDATE vendors SET name = ?, bin = ?, contact_person = ?, phone = ?, email = ?, status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.DB.ExecContext(ctx, query, v.Name, v.BIN, v.ContactPerson, v.Phone, v.Email, v.Status, v.ID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrVendorNotFound
	}
	return nil
}

func (r *VendorRepository) ArchiveVendor(ctx context.Context, id int) error {
	query := `UPDATE vendors SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	_, err := r.DB.ExecContext(ctx, query, models.VendorStatusArchived, id)
	return err
}
