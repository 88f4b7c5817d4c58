package seed

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	catalogdomain "github.com/smithline/atelier/internal/catalog/domain"
	identitydomain "github.com/smithline/atelier/internal/identity/domain"
	"github.com/smithline/atelier/pkg/db"
	"gorm.io/gorm"
)

const (
	demoAdminEmail     = "admin@smithline.studio"
	demoAdminDisplay   = "Smithline Admin"
	demoCreatorEmail   = "aria@smithline.studio"
	demoCreatorDisplay = "Aria Voss"
)

// EnsureDemoData seeds a demo admin, one creator with an active profile and
// two commissioned designs. Safe to run repeatedly; existing rows are kept.
func EnsureDemoData(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ensureUser(tx, node, demoAdminEmail, demoAdminDisplay, identitydomain.RoleAdmin); err != nil {
			return err
		}

		creator, err := ensureUser(tx, node, demoCreatorEmail, demoCreatorDisplay, identitydomain.RoleMember)
		if err != nil {
			return err
		}

		profile, err := ensureProfile(tx, node, creator)
		if err != nil {
			return err
		}

		if err := ensureDesign(tx, node, profile.ID, "Hammered Cuff Bracelet", "SL-CUFF-01",
			catalogdomain.CommissionTypePercentage, decimal.NewFromInt(15)); err != nil {
			return err
		}
		return ensureDesign(tx, node, profile.ID, "Moss Agate Pendant", "SL-PEND-02",
			catalogdomain.CommissionTypeFixed, decimal.NewFromInt(20))
	})
}

func ensureUser(tx *gorm.DB, node *snowflake.Node, email, display, role string) (identitydomain.User, error) {
	var user identitydomain.User
	err := tx.Where("email = ?", email).First(&user).Error
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return identitydomain.User{}, err
	}

	user = identitydomain.User{
		ID:          node.Generate(),
		Email:       email,
		DisplayName: display,
		Role:        role,
		Status:      identitydomain.UserStatusActive,
	}
	if err := tx.Create(&user).Error; err != nil {
		// Another replica may have seeded the same email first.
		if db.IsDuplicateKeyErr(err) {
			if ferr := tx.Where("email = ?", email).First(&user).Error; ferr == nil {
				return user, nil
			}
		}
		return identitydomain.User{}, err
	}
	return user, nil
}

func ensureProfile(tx *gorm.DB, node *snowflake.Node, user identitydomain.User) (catalogdomain.CreatorProfile, error) {
	var profile catalogdomain.CreatorProfile
	err := tx.Where("user_id = ?", user.ID).First(&profile).Error
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return catalogdomain.CreatorProfile{}, err
	}

	profile = catalogdomain.CreatorProfile{
		ID:          node.Generate(),
		UserID:      user.ID,
		DisplayName: user.DisplayName,
		Status:      catalogdomain.ProfileStatusActive,
	}
	if err := tx.Create(&profile).Error; err != nil {
		return catalogdomain.CreatorProfile{}, err
	}
	return profile, nil
}

func ensureDesign(tx *gorm.DB, node *snowflake.Node, profileID snowflake.ID, title, sku string, commissionType catalogdomain.CommissionType, commissionValue decimal.Decimal) error {
	var design catalogdomain.Design
	err := tx.Where("sku = ?", sku).First(&design).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	design = catalogdomain.Design{
		ID:               node.Generate(),
		CreatorProfileID: profileID,
		Title:            title,
		SKU:              sku,
		CommissionType:   commissionType,
		CommissionValue:  commissionValue,
		Status:           "active",
	}
	return tx.Create(&design).Error
}
