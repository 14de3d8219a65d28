package seeds

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	svc "feeportal_backend/internals/features/finance/fees/service"
	students "feeportal_backend/internals/seeds/students"
)

// RunAllSeeds: jalankan seed ke postgres. studentsFile kosong = skip.
func RunAllSeeds(ctx context.Context, db *gorm.DB, studentsFile string, logger *zap.Logger) error {
	if strings.TrimSpace(studentsFile) == "" {
		return nil
	}

	//* Students
	_, err := students.SeedStudentsFromJSON(ctx, db, studentsFile, logger)
	return err
}

// SeedMemoryStore: sama seperti RunAllSeeds tapi untuk FEE_STORE=memory.
func SeedMemoryStore(store *svc.MemoryFeeStore, studentsFile string) (int, error) {
	if strings.TrimSpace(studentsFile) == "" {
		return 0, nil
	}
	list, err := students.LoadStudentsFromJSON(studentsFile)
	if err != nil {
		return 0, err
	}
	for _, st := range list {
		store.PutStudent(st)
	}
	return len(list), nil
}
