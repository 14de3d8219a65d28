package seeds

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	svc "feeportal_backend/internals/features/finance/fees/service"
	students "feeportal_backend/internals/seeds/students"
)

const sampleFile = "students/data_students.json"

func TestLoadStudentsFromJSON(t *testing.T) {
	list, err := students.LoadStudentsFromJSON(sampleFile)
	require.NoError(t, err)
	require.Len(t, list, 3)

	first := list[0]
	assert.Equal(t, "Aarav Sharma", *first.StudentName)
	assert.True(t, first.StudentTuitionFee.Equal(decimal.NewFromInt(150000)))
	assert.True(t, first.StudentTotalFee.Equal(decimal.NewFromInt(237000)))

	// field kosong tetap nil
	assert.Nil(t, list[1].StudentPhone)
	assert.Equal(t, "Lakshmi Iyer", *list[1].GuardianName())
}

func TestLoadStudentsFromJSON_Invalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"not":"a list"}`), 0o600))
	_, err := students.LoadStudentsFromJSON(bad)
	assert.Error(t, err)

	negative := filepath.Join(dir, "neg.json")
	require.NoError(t, os.WriteFile(negative, []byte(`[{"student_name":"X","tuition_fee":"-1"}]`), 0o600))
	_, err = students.LoadStudentsFromJSON(negative)
	assert.ErrorContains(t, err, "fee negatif")

	_, err = students.LoadStudentsFromJSON(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestSeedMemoryStore(t *testing.T) {
	store := svc.NewMemoryFeeStore()

	n, err := SeedMemoryStore(store, "")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = SeedMemoryStore(store, sampleFile)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	rows, total, err := store.ListStudents(context.Background(), svc.StudentListQuery{Q: "nursing"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Meera Iyer", *rows[0].StudentName)

	assert.NoError(t, RunAllSeeds(context.Background(), nil, "", zap.NewNop()))
}
