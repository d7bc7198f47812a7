package database

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type Order struct {
	ID          uuid.UUID          `json:"id"`
	OutletID    uuid.UUID          `json:"outlet_id"`
	TableNumber pgtype.Text        `json:"table_number"`
	Status      string             `json:"status"`
	CreatedAt   pgtype.Timestamptz `json:"created_at"`
	UpdatedAt   pgtype.Timestamptz `json:"updated_at"`
}

type OrderCombo struct {
	ID       uuid.UUID      `json:"id"`
	OrderID  uuid.UUID      `json:"order_id"`
	ComboRef string         `json:"combo_ref"`
	Name     string         `json:"name"`
	Price    pgtype.Numeric `json:"price"`
}

type OrderItem struct {
	ID              uuid.UUID          `json:"id"`
	OrderID         uuid.UUID          `json:"order_id"`
	InventoryItemID pgtype.Text        `json:"inventory_item_id"`
	ItemID          pgtype.Text        `json:"item_id"`
	ItemRelationID  pgtype.Text        `json:"item_relation_id"`
	Name            pgtype.Text        `json:"name"`
	UnitPrice       pgtype.Numeric     `json:"unit_price"`
	Quantity        int32              `json:"quantity"`
	Status          string             `json:"status"`
	Notes           pgtype.Text        `json:"notes"`
	Toppings        []string           `json:"toppings"`
	IsTopping       bool               `json:"is_topping"`
	ParentItemID    pgtype.Text        `json:"parent_item_id"`
	ComboRef        pgtype.Text        `json:"combo_ref"`
	CreatedAt       pgtype.Timestamptz `json:"created_at"`
	UpdatedAt       pgtype.Timestamptz `json:"updated_at"`
}

type User struct {
	ID           uuid.UUID          `json:"id"`
	OutletID     uuid.UUID          `json:"outlet_id"`
	Email        string             `json:"email"`
	PasswordHash string             `json:"password_hash"`
	FullName     string             `json:"full_name"`
	Role         string             `json:"role"`
	IsActive     bool               `json:"is_active"`
	CreatedAt    pgtype.Timestamptz `json:"created_at"`
}
