package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FamilyMember records that a user belongs to a family. The rows are
// maintained by the identity collaborator; the backend only reads them.
type FamilyMember struct {
	DefaultModel
	FamilyID uuid.UUID `json:"familyId" gorm:"uniqueIndex:family_member_user"`
	UserID   uuid.UUID `json:"userId" gorm:"uniqueIndex:family_member_user"`
}

// EntityMember records that a user belongs to an entity within a family.
type EntityMember struct {
	DefaultModel
	EntityID uuid.UUID `json:"entityId" gorm:"uniqueIndex:entity_member_user"`
	UserID   uuid.UUID `json:"userId" gorm:"uniqueIndex:entity_member_user"`
}

// CanAccess reports whether the user may read and mutate the budget: the
// user must be a member of the owning family and, when the budget belongs
// to an entity, a member of that entity as well.
func (b Budget) CanAccess(db *gorm.DB, userID uuid.UUID) (bool, error) {
	var count int64
	err := db.Model(&FamilyMember{}).
		Where(&FamilyMember{FamilyID: b.FamilyID, UserID: userID}).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	if count == 0 {
		return false, nil
	}

	if b.EntityID == nil {
		return true, nil
	}

	err = db.Model(&EntityMember{}).
		Where(&EntityMember{EntityID: *b.EntityID, UserID: userID}).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
