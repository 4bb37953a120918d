package movement_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/cajero-dev/cajero/internal/movement"
)

func drafts() []movement.Draft {
	return []movement.Draft{
		{
			Caja:           "203_CRURAL - 0727",
			Fecha:          "30/05/2025",
			NormalizedDate: "2025-05-30",
			Concepto:       "INSTITUTO GESTAO FINA",
			Importe:        -588.74,
			Saldo:          48825.46,
			SortKey:        "2025-05-30_2025-06-01T10:00:00Z_999999",
		},
		{
			Caja:           "203_CRURAL - 0727",
			Fecha:          "09/05/2025",
			NormalizedDate: "2025-05-09",
			Concepto:       "TFI NOMINAS",
			Importe:        8608.52,
			Saldo:          49414.20,
			SortKey:        "2025-05-09_2025-06-01T10:00:00Z_999998",
			OriginIndex:    1,
		},
	}
}

func TestService_ImportBatch_AllNew(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := movement.NewMockRepository(ctrl)
	itx := movement.NewMockImportTx(ctrl)
	svc := movement.NewService(repo)

	repo.EXPECT().BeginImport(gomock.Any(), "203_CRURAL - 0727").Return(itx, nil)
	itx.EXPECT().InsertMovement(gomock.Any(), gomock.Any()).Return(true, nil).Times(2)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := svc.ImportBatch(context.Background(), drafts())
	require.NoError(t, err)
	assert.Equal(t, 2, result.New)
	assert.Equal(t, 0, result.Duplicates)
	require.Len(t, result.Records, 2)
	assert.False(t, result.Records[0].AlreadyInDatabase)
	assert.NotEmpty(t, result.Records[0].Movement.ID)
}

func TestService_ImportBatch_SecondRunIsIdempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := movement.NewMockRepository(ctrl)
	itx := movement.NewMockImportTx(ctrl)
	svc := movement.NewService(repo)

	// Every insert reports a conflict, as after re-uploading the same file.
	repo.EXPECT().BeginImport(gomock.Any(), gomock.Any()).Return(itx, nil)
	itx.EXPECT().InsertMovement(gomock.Any(), gomock.Any()).Return(false, nil).Times(2)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := svc.ImportBatch(context.Background(), drafts())
	require.NoError(t, err)
	assert.Equal(t, 0, result.New)
	assert.Equal(t, 2, result.Duplicates)

	for _, r := range result.Records {
		assert.True(t, r.AlreadyInDatabase)
	}
}

func TestService_ImportBatch_InsertErrorRollsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := movement.NewMockRepository(ctrl)
	itx := movement.NewMockImportTx(ctrl)
	svc := movement.NewService(repo)

	repo.EXPECT().BeginImport(gomock.Any(), gomock.Any()).Return(itx, nil)
	itx.EXPECT().InsertMovement(gomock.Any(), gomock.Any()).Return(false, errors.New("db error"))
	itx.EXPECT().Rollback().Return(nil)

	_, err := svc.ImportBatch(context.Background(), drafts())
	assert.Error(t, err)
}

func TestService_ImportBatch_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := movement.NewMockRepository(ctrl)
	svc := movement.NewService(repo)

	result, err := svc.ImportBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, result.New)
	assert.Empty(t, result.Records)
}

func TestService_SetContabilized_ClearDropsTaskID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := movement.NewMockRepository(ctrl)
	svc := movement.NewService(repo)

	taskID := "203_30052025_-588.74_ABCDEF"

	repo.EXPECT().SetContabilized(gomock.Any(), "abc", false, nil).Return(nil)

	err := svc.SetContabilized(context.Background(), "abc", false, &taskID)
	require.NoError(t, err)
}
