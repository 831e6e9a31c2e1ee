package filestore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-bot/internal/domain"
	"github.com/jhoicas/stock-bot/internal/domain/entity"
	"github.com/jhoicas/stock-bot/internal/infrastructure/filestore"
)

func TestLoad_ArchivoAusenteCreaDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stock.json")
	repo := filestore.NewStockRepository(path)

	ledger, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"Hex Lifetime", "Hex Monthly", "SRC Lifetime", "SRC Monthly"}, ledger.Keys())
	for _, e := range ledger.Entries() {
		assert.Zero(t, e.Count)
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err, "Load debe escribir el archivo por defecto")
	assert.Equal(t, "{\n  \"Hex Lifetime\": 0,\n  \"Hex Monthly\": 0,\n  \"SRC Lifetime\": 0,\n  \"SRC Monthly\": 0\n}\n", string(data))
}

func TestSaveLoad_ConservaOrdenYValores(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stock.json")
	repo := filestore.NewStockRepository(path)

	in := entity.NewLedger(
		entity.StockEntry{Product: "SRC Monthly", Count: 7},
		entity.StockEntry{Product: "Hex Lifetime", Count: 3},
	)
	require.NoError(t, repo.Save(in))

	out, err := filestore.NewStockRepository(path).Load()
	require.NoError(t, err)
	assert.Equal(t, in.Entries(), out.Entries())
}

func TestLoad_ToleraComentariosYFijaNegativosEnCero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stock.json")
	doc := `{
  // editado a mano
  "Hex Lifetime": 2,
  "Hex Monthly": -4,
}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	ledger, err := filestore.NewStockRepository(path).Load()
	require.NoError(t, err)
	assert.Equal(t, 2, ledger.Count("Hex Lifetime"))
	assert.Equal(t, 0, ledger.Count("Hex Monthly"))
}

func TestLoad_ArchivoCorruptoDevuelveDefaultsYErrStorageIO(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stock.json")
	require.NoError(t, os.WriteFile(path, []byte(`["no", "es", "objeto"]`), 0o644))

	ledger, err := filestore.NewStockRepository(path).Load()
	require.ErrorIs(t, err, domain.ErrStorageIO)
	assert.Equal(t, 4, ledger.Len())

	data, _ := os.ReadFile(path)
	assert.Equal(t, `["no", "es", "objeto"]`, string(data), "un archivo ilegible no debe sobrescribirse")
}

func TestSave_DirectorioInexistenteDevuelveErrStorageIO(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no-existe", "stock.json")
	err := filestore.NewStockRepository(path).Save(entity.DefaultLedger())
	require.ErrorIs(t, err, domain.ErrStorageIO)
}
