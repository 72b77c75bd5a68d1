package command

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"sheetdesk/internal/importer"
	"sheetdesk/internal/metrics"
	"sheetdesk/internal/model"
)

func echo(_ context.Context, args json.RawMessage) (any, error) {
	return string(args), nil
}

func TestRegistry_RegisterAndInvoke(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("echo", echo))

	out, err := reg.Invoke(context.Background(), "echo", json.RawMessage(`{"a":1}`))
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, out)
}

func TestRegistry_RegisterRejects(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("echo", echo))

	assert.Error(t, reg.Register("echo", echo), "duplicate name")
	assert.Error(t, reg.Register("", echo), "empty name")
	assert.Error(t, reg.Register("nil", nil), "nil handler")
}

func TestRegistry_InvokeUnknown(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Invoke(context.Background(), "missing", nil)
	assert.True(t, errors.Is(err, ErrUnknownCommand))
}

func TestRegistry_Names(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("b", echo))
	require.NoError(t, reg.Register("a", echo))
	assert.Equal(t, []string{"a", "b"}, reg.Names())
}

func TestRegistry_CloseReverseOrderOnce(t *testing.T) {
	reg := NewRegistry()
	var order []int
	reg.OnClose(func() error { order = append(order, 1); return nil })
	reg.OnClose(func() error { order = append(order, 2); return errors.New("close failed") })

	err := reg.Close()
	assert.EqualError(t, err, "close failed")
	assert.Equal(t, []int{2, 1}, order)

	require.NoError(t, reg.Close())
	assert.Equal(t, []int{2, 1}, order)
}

func newDefaultRegistry(t *testing.T) (*Registry, *metrics.Recorder) {
	t.Helper()
	rec := metrics.NewRecorder()
	reg := NewRegistry()
	require.NoError(t, RegisterDefaults(reg, importer.NewCoordinator(nil, rec, importer.Options{}), rec))
	return reg, rec
}

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	path := filepath.Join(t.TempDir(), "cmd.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestRegisterDefaults_Names(t *testing.T) {
	reg, _ := newDefaultRegistry(t)
	assert.Equal(t, []string{ExecuteQuery, ImportExcelBatch, ImportExcelData}, reg.Names())
}

func TestRegisterDefaults_ImportExcelData(t *testing.T) {
	reg, rec := newDefaultRegistry(t)
	path := writeWorkbook(t, [][]interface{}{{"id", "diagnosis"}, {"A1", "Positive"}})

	args, err := json.Marshal(map[string]string{"filePath": path})
	require.NoError(t, err)

	out, err := reg.Invoke(context.Background(), ImportExcelData, args)
	require.NoError(t, err)
	assert.Equal(t, []model.RowRecord{{"id": "A1", "diagnosis": "Positive"}}, out)

	_, err = reg.Invoke(context.Background(), ImportExcelData, json.RawMessage(`{"filePath":"/nope/missing.xlsx"}`))
	assert.True(t, errors.Is(err, importer.ErrOpen))

	got, err := testutil.GatherAndCount(rec.Registry(), "sheetdesk_command_invocations_total")
	require.NoError(t, err)
	assert.Equal(t, 2, got)
}

func TestRegisterDefaults_InvalidArgs(t *testing.T) {
	reg, _ := newDefaultRegistry(t)

	_, err := reg.Invoke(context.Background(), ImportExcelData, json.RawMessage(`{}`))
	assert.True(t, errors.Is(err, ErrInvalidArgs))

	_, err = reg.Invoke(context.Background(), ExecuteQuery, json.RawMessage(`[1,2`))
	assert.True(t, errors.Is(err, ErrInvalidArgs))
}

func TestRegisterDefaults_ExecuteQuery(t *testing.T) {
	reg, _ := newDefaultRegistry(t)

	out, err := reg.Invoke(context.Background(), ExecuteQuery, json.RawMessage(`{"query":"SELECT 1"}`))
	require.NoError(t, err)
	rows, ok := out.([]model.RowRecord)
	require.True(t, ok)
	assert.Len(t, rows, 2)
	assert.Equal(t, "DB001", rows[0]["id"])
}

func TestRegisterDefaults_ImportBatch(t *testing.T) {
	reg, _ := newDefaultRegistry(t)
	path := writeWorkbook(t, [][]interface{}{{"id"}, {"A"}})

	args, err := json.Marshal(map[string][]string{"filePaths": {path, "/nope/missing.xlsx"}})
	require.NoError(t, err)

	out, err := reg.Invoke(context.Background(), ImportExcelBatch, args)
	require.NoError(t, err)
	items, ok := out.([]importer.BatchItem)
	require.True(t, ok)
	require.Len(t, items, 2)
	assert.NoError(t, items[0].Err)
	assert.Equal(t, importer.KindOpen, items[1].Kind)
}
