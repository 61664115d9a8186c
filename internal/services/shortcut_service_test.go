package services

import (
	"testing"

	"jodtang/internal/models"
	"jodtang/internal/testutil"
)

func TestCreateShortcut(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewShortcutService(db)
		user := testutil.CreateTestUser(t, db)
		food := testutil.CreateDefaultCategory(t, db, "อาหาร", models.TransactionTypeExpense)

		shortcut, err := svc.CreateShortcut(user.ID, "ข้าว", "🍚", food.ID)
		testutil.AssertNoError(t, err)
		if shortcut.Keyword != "ข้าว" {
			t.Errorf("unexpected keyword %q", shortcut.Keyword)
		}
		if shortcut.Type != models.TransactionTypeExpense {
			t.Error("expected shortcut type mirrored from category")
		}
		if shortcut.Category.ID != food.ID {
			t.Error("expected category populated on the returned shortcut")
		}
	})

	t.Run("duplicate_keyword", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewShortcutService(db)
		user := testutil.CreateTestUser(t, db)
		food := testutil.CreateDefaultCategory(t, db, "อาหาร", models.TransactionTypeExpense)

		_, err := svc.CreateShortcut(user.ID, "ข้าว", "", food.ID)
		testutil.AssertNoError(t, err)
		_, err = svc.CreateShortcut(user.ID, "ข้าว", "", food.ID)
		testutil.AssertAppError(t, err, "DUPLICATE_SHORTCUT")
	})

	t.Run("same_keyword_different_users", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewShortcutService(db)
		a := testutil.CreateTestUser(t, db)
		b := testutil.CreateTestUser(t, db)
		food := testutil.CreateDefaultCategory(t, db, "อาหาร", models.TransactionTypeExpense)

		_, err := svc.CreateShortcut(a.ID, "ข้าว", "", food.ID)
		testutil.AssertNoError(t, err)
		_, err = svc.CreateShortcut(b.ID, "ข้าว", "", food.ID)
		testutil.AssertNoError(t, err)
	})

	t.Run("invisible_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewShortcutService(db)
		owner := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		private := testutil.CreateTestCategory(t, db, owner.ID, models.TransactionTypeExpense)

		_, err := svc.CreateShortcut(other.ID, "ลับ", "", private.ID)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("empty_keyword", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewShortcutService(db)
		user := testutil.CreateTestUser(t, db)
		food := testutil.CreateDefaultCategory(t, db, "อาหาร", models.TransactionTypeExpense)

		_, err := svc.CreateShortcut(user.ID, "   ", "", food.ID)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetUserShortcuts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewShortcutService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	food := testutil.CreateDefaultCategory(t, db, "อาหาร", models.TransactionTypeExpense)

	testutil.CreateTestShortcut(t, db, user.ID, "ข้าว", food)
	testutil.CreateTestShortcut(t, db, user.ID, "กาแฟ", food)
	testutil.CreateTestShortcut(t, db, other.ID, "แท็กซี่", food)

	shortcuts, err := svc.GetUserShortcuts(user.ID)
	testutil.AssertNoError(t, err)
	if len(shortcuts) != 2 {
		t.Fatalf("expected 2 shortcuts, got %d", len(shortcuts))
	}
	// Newest first.
	if shortcuts[0].Keyword != "กาแฟ" {
		t.Errorf("expected newest shortcut first, got %q", shortcuts[0].Keyword)
	}
	if shortcuts[0].Category.ID != food.ID {
		t.Error("expected category preloaded")
	}
}

func TestUpdateShortcut(t *testing.T) {
	t.Run("changes_category_rederives_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewShortcutService(db)
		user := testutil.CreateTestUser(t, db)
		food := testutil.CreateDefaultCategory(t, db, "อาหาร", models.TransactionTypeExpense)
		salary := testutil.CreateDefaultCategory(t, db, "เงินเดือน", models.TransactionTypeIncome)
		shortcut := testutil.CreateTestShortcut(t, db, user.ID, "โบนัส", food)

		updated, err := svc.UpdateShortcut(user.ID, shortcut.ID, "โบนัส", "💰", salary.ID)
		testutil.AssertNoError(t, err)
		if updated.CategoryID != salary.ID || updated.Type != models.TransactionTypeIncome {
			t.Error("expected category change to re-derive the type")
		}
	})

	t.Run("duplicate_keyword", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewShortcutService(db)
		user := testutil.CreateTestUser(t, db)
		food := testutil.CreateDefaultCategory(t, db, "อาหาร", models.TransactionTypeExpense)
		testutil.CreateTestShortcut(t, db, user.ID, "ข้าว", food)
		second := testutil.CreateTestShortcut(t, db, user.ID, "กาแฟ", food)

		_, err := svc.UpdateShortcut(user.ID, second.ID, "ข้าว", "", food.ID)
		testutil.AssertAppError(t, err, "DUPLICATE_SHORTCUT")
	})

	t.Run("same_keyword_on_self_allowed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewShortcutService(db)
		user := testutil.CreateTestUser(t, db)
		food := testutil.CreateDefaultCategory(t, db, "อาหาร", models.TransactionTypeExpense)
		shortcut := testutil.CreateTestShortcut(t, db, user.ID, "ข้าว", food)

		_, err := svc.UpdateShortcut(user.ID, shortcut.ID, "ข้าว", "🍚", food.ID)
		testutil.AssertNoError(t, err)
	})

	t.Run("other_users_shortcut", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewShortcutService(db)
		owner := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		food := testutil.CreateDefaultCategory(t, db, "อาหาร", models.TransactionTypeExpense)
		shortcut := testutil.CreateTestShortcut(t, db, owner.ID, "ข้าว", food)

		_, err := svc.UpdateShortcut(other.ID, shortcut.ID, "ข้าว", "", food.ID)
		testutil.AssertAppError(t, err, "SHORTCUT_NOT_FOUND")
	})
}

func TestDeleteShortcut(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewShortcutService(db)
		user := testutil.CreateTestUser(t, db)
		food := testutil.CreateDefaultCategory(t, db, "อาหาร", models.TransactionTypeExpense)
		shortcut := testutil.CreateTestShortcut(t, db, user.ID, "ข้าว", food)

		testutil.AssertNoError(t, svc.DeleteShortcut(user.ID, shortcut.ID))

		_, err := svc.GetShortcutByID(user.ID, shortcut.ID)
		testutil.AssertAppError(t, err, "SHORTCUT_NOT_FOUND")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewShortcutService(db)
		user := testutil.CreateTestUser(t, db)

		err := svc.DeleteShortcut(user.ID, 999)
		testutil.AssertAppError(t, err, "SHORTCUT_NOT_FOUND")
	})
}

func TestDefaultCategories(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewShortcutService(db)
	user := testutil.CreateTestUser(t, db)

	testutil.CreateDefaultCategory(t, db, "อาหาร", models.TransactionTypeExpense)
	testutil.CreateDefaultCategory(t, db, "เดินทาง", models.TransactionTypeExpense)
	testutil.CreateTestCategory(t, db, user.ID, models.TransactionTypeExpense)

	defaults, err := svc.DefaultCategories()
	testutil.AssertNoError(t, err)
	if len(defaults) != 2 {
		t.Fatalf("expected 2 default categories, got %d", len(defaults))
	}
	for _, c := range defaults {
		if !c.IsDefault {
			t.Errorf("expected only defaults, got %q", c.Name)
		}
	}
}
