package services

import (
	"testing"

	"jodtang/internal/models"
	"jodtang/internal/testutil"
)

func TestCreateCategory(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		category, err := svc.CreateCategory(user.ID, "ค่าเน็ต", "🌐", models.TransactionTypeExpense)
		testutil.AssertNoError(t, err)
		if category.IsDefault {
			t.Error("user-created categories must not be defaults")
		}
		if category.UserID == nil || *category.UserID != user.ID {
			t.Error("expected category owned by the user")
		}
	})

	t.Run("invalid_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(user.ID, "อะไรสักอย่าง", "", "transfer")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("duplicate_name_same_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(user.ID, "ค่าเน็ต", "", models.TransactionTypeExpense)
		testutil.AssertNoError(t, err)
		_, err = svc.CreateCategory(user.ID, "ค่าเน็ต", "", models.TransactionTypeExpense)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestVisibleCategories(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCategoryService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	testutil.CreateDefaultCategory(t, db, "อาหาร", models.TransactionTypeExpense)
	testutil.CreateDefaultCategory(t, db, "เงินเดือน", models.TransactionTypeIncome)
	testutil.CreateTestCategory(t, db, user.ID, models.TransactionTypeExpense)
	testutil.CreateTestCategory(t, db, other.ID, models.TransactionTypeExpense)

	t.Run("defaults_plus_own", func(t *testing.T) {
		categories, err := svc.VisibleCategories(&user.ID, nil)
		testutil.AssertNoError(t, err)
		if len(categories) != 3 {
			t.Fatalf("expected 3 visible categories, got %d", len(categories))
		}
		// Defaults sort ahead of user-created categories.
		if !categories[0].IsDefault {
			t.Error("expected defaults first")
		}
	})

	t.Run("type_filter", func(t *testing.T) {
		income := models.TransactionTypeIncome
		categories, err := svc.VisibleCategories(&user.ID, &income)
		testutil.AssertNoError(t, err)
		if len(categories) != 1 || categories[0].Name != "เงินเดือน" {
			t.Fatalf("expected only the income default, got %d rows", len(categories))
		}
	})

	t.Run("anonymous_sees_defaults_only", func(t *testing.T) {
		categories, err := svc.VisibleCategories(nil, nil)
		testutil.AssertNoError(t, err)
		if len(categories) != 2 {
			t.Fatalf("expected 2 defaults, got %d", len(categories))
		}
	})
}

func TestUpdateCategory(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, user.ID, models.TransactionTypeExpense)

		updated, err := svc.UpdateCategory(user.ID, category.ID, "ชื่อใหม่", "✨")
		testutil.AssertNoError(t, err)
		if updated.Name != "ชื่อใหม่" || updated.Emoji != "✨" {
			t.Errorf("unexpected update result %q %q", updated.Name, updated.Emoji)
		}
	})

	t.Run("default_immutable", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		food := testutil.CreateDefaultCategory(t, db, "อาหาร", models.TransactionTypeExpense)

		_, err := svc.UpdateCategory(user.ID, food.ID, "ชื่อใหม่", "")
		testutil.AssertAppError(t, err, "DEFAULT_CATEGORY")
	})

	t.Run("other_users_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		owner := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, owner.ID, models.TransactionTypeExpense)

		_, err := svc.UpdateCategory(other.ID, category.ID, "ชื่อใหม่", "")
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestDeleteCategory(t *testing.T) {
	t.Run("cascades_shortcuts", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, user.ID, models.TransactionTypeExpense)
		testutil.CreateTestShortcut(t, db, user.ID, "ของฉัน", category)

		testutil.AssertNoError(t, svc.DeleteCategory(user.ID, category.ID))

		var count int64
		db.Model(&models.Shortcut{}).Where("category_id = ?", category.ID).Count(&count)
		if count != 0 {
			t.Errorf("expected shortcuts cascaded, %d remain", count)
		}
	})

	t.Run("default_immutable", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		food := testutil.CreateDefaultCategory(t, db, "อาหาร", models.TransactionTypeExpense)

		err := svc.DeleteCategory(user.ID, food.ID)
		testutil.AssertAppError(t, err, "DEFAULT_CATEGORY")
	})
}
