// Package seed bootstraps a usable database on first run: a default school,
// and on request a small demo roster for trying the report screens.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/madaris/daftar/internal/store"
)

const (
	defaultSchoolName = "المدرسة الأهلية النموذجية"
	defaultYear       = "2025-2026"
)

// EnsureSchool seeds the default school when none exists.
func EnsureSchool(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}
	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := ensureSchoolTx(ctx, tx, node)
		return err
	})
}

// EnsureDemoData seeds the default school plus a small roster of students,
// staff and ledger entries. Safe to call repeatedly; it only fills an empty
// students table.
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
		school, err := ensureSchoolTx(ctx, tx, node)
		if err != nil {
			return err
		}

		var count int64
		if err := tx.WithContext(ctx).Model(&store.Student{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		now := time.Now().UTC()
		students := []store.Student{
			{Name: "أحمد محمد علي", Grade: "الرابع الابتدائي", Section: "أ", Gender: "ذكر", TotalFee: 1_000_000},
			{Name: "زينب حسين كاظم", Grade: "الرابع الابتدائي", Section: "ب", Gender: "أنثى", TotalFee: 1_000_000},
			{Name: "مصطفى جاسم محمد", Grade: "الخامس الابتدائي", Section: "أ", Gender: "ذكر", TotalFee: 1_250_000},
		}
		for i := range students {
			students[i].ID = node.Generate()
			students[i].SchoolID = school.ID
			students[i].Status = store.StatusActive
			students[i].CreatedAt = now
			students[i].UpdatedAt = now
			if err := tx.WithContext(ctx).Create(&students[i]).Error; err != nil {
				return err
			}
			inst := store.Installment{
				ID:          node.Generate(),
				StudentID:   students[i].ID,
				Amount:      250_000,
				PaymentDate: now,
			}
			if err := tx.WithContext(ctx).Create(&inst).Error; err != nil {
				return err
			}
		}

		staff := []store.StaffMember{
			{Kind: store.StaffTeacher, Name: "سارة حسين عبد", Role: "رياضيات", WeeklyHours: 18, MonthlySalary: 600_000},
			{Kind: store.StaffTeacher, Name: "علي كريم حسن", Role: "لغة عربية", WeeklyHours: 20, MonthlySalary: 650_000},
			{Kind: store.StaffEmployee, Name: "كريم جاسم عبود", Role: "حارس", MonthlySalary: 400_000},
		}
		for i := range staff {
			staff[i].ID = node.Generate()
			staff[i].SchoolID = school.ID
			staff[i].CreatedAt = now
			staff[i].UpdatedAt = now
			if err := tx.WithContext(ctx).Create(&staff[i]).Error; err != nil {
				return err
			}
		}

		expense := store.Expense{
			ID:         node.Generate(),
			Category:   "قرطاسية",
			Amount:     75_000,
			RecordedAt: now,
		}
		return tx.WithContext(ctx).Create(&expense).Error
	})
}

func ensureSchoolTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) (store.School, error) {
	var school store.School
	err := tx.WithContext(ctx).Order("id").First(&school).Error
	if err == nil {
		return school, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return school, err
	}
	now := time.Now().UTC()
	school = store.School{
		ID:           node.Generate(),
		Name:         defaultSchoolName,
		AcademicYear: defaultYear,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := tx.WithContext(ctx).Create(&school).Error; err != nil {
		return school, err
	}
	return school, nil
}
