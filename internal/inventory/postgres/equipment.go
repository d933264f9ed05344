package postgres

import (
	"errors"
	"strings"
	"time"

	"github.com/prasetya/requisition-tracker/internal/inventory"
	"gorm.io/gorm"
)

// EquipmentRepository implements inventory.RepositoryAPI using GORM.
type EquipmentRepository struct {
	db *gorm.DB
}

func NewEquipmentRepository(db *gorm.DB) inventory.RepositoryAPI {
	return &EquipmentRepository{db: db}
}

func (r *EquipmentRepository) GetAll() ([]*inventory.EquipmentItem, error) {
	var items []*inventory.EquipmentItem
	err := r.db.Preload("Category").Order("id DESC").Find(&items).Error
	return items, err
}

func (r *EquipmentRepository) GetByID(id int64) (*inventory.EquipmentItem, error) {
	var item inventory.EquipmentItem
	err := r.db.Preload("Category").Where("id = ?", id).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, inventory.ErrEquipmentNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *EquipmentRepository) Search(query string, limit, offset int) ([]*inventory.EquipmentItem, int64, error) {
	q := r.db.Model(&inventory.EquipmentItem{})

	if query != "" {
		like := "%" + strings.ToLower(query) + "%"
		q = q.Joins("LEFT JOIN categories ON categories.id = equipment_items.category_id").
			Where("LOWER(equipment_items.name) LIKE ? OR LOWER(equipment_items.serial_number) LIKE ? OR LOWER(categories.name) LIKE ?",
				like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []*inventory.EquipmentItem
	err := q.Preload("Category").
		Order("equipment_items.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	return items, total, err
}

func (r *EquipmentRepository) Create(item *inventory.EquipmentItem) error {
	err := r.db.Create(item).Error
	if err != nil && isUniqueViolation(err) {
		return inventory.ErrDuplicateSerial
	}
	return err
}

func (r *EquipmentRepository) Update(item *inventory.EquipmentItem) error {
	item.UpdatedAt = time.Now()
	err := r.db.Save(item).Error
	if err != nil && isUniqueViolation(err) {
		return inventory.ErrDuplicateSerial
	}
	return err
}

func (r *EquipmentRepository) Delete(id int64) error {
	return r.db.Delete(&inventory.EquipmentItem{}, id).Error
}

// CountOpenRequisitions counts requisitions still holding debited stock.
func (r *EquipmentRepository) CountOpenRequisitions(equipmentID int64) (int64, error) {
	var count int64
	err := r.db.Table("requisitions").
		Where("equipment_id = ? AND status IN ?", equipmentID, []string{"PENDING", "APPROVED"}).
		Count(&count).Error
	return count, err
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

// Ledger is the stock accountant. Both operations are single conditional
// UPDATE statements, so two concurrent debits against the same item can
// never jointly overdraw it.
type Ledger struct {
	db *gorm.DB
}

var _ inventory.Ledger = (*Ledger)(nil)

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

func (l *Ledger) Debit(itemID int64, qty int) error {
	return DebitTx(l.db, itemID, qty)
}

func (l *Ledger) Credit(itemID int64, qty int) error {
	return CreditTx(l.db, itemID, qty)
}

// DebitTx runs a debit inside the caller's transaction so a requisition
// transition can group the stock change with its status change.
func DebitTx(tx *gorm.DB, itemID int64, qty int) error {
	res := tx.Model(&inventory.EquipmentItem{}).
		Where("id = ? AND available_quantity >= ?", itemID, qty).
		UpdateColumns(map[string]interface{}{
			"available_quantity": gorm.Expr("available_quantity - ?", qty),
			"updated_at":         time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&inventory.EquipmentItem{}).Where("id = ?", itemID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return inventory.ErrEquipmentNotFound
		}
		return inventory.ErrInsufficientStock
	}

	return nil
}

// CreditTx restores qty units, clamped at the item's capacity.
func CreditTx(tx *gorm.DB, itemID int64, qty int) error {
	res := tx.Model(&inventory.EquipmentItem{}).
		Where("id = ? AND available_quantity + ? <= total_quantity", itemID, qty).
		UpdateColumns(map[string]interface{}{
			"available_quantity": gorm.Expr("available_quantity + ?", qty),
			"updated_at":         time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// Crediting past capacity clamps to it.
	res = tx.Model(&inventory.EquipmentItem{}).
		Where("id = ?", itemID).
		UpdateColumns(map[string]interface{}{
			"available_quantity": gorm.Expr("total_quantity"),
			"updated_at":         time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return inventory.ErrEquipmentNotFound
	}

	return nil
}
