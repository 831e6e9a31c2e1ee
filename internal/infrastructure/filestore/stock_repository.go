package filestore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/jhoicas/stock-bot/internal/domain"
	"github.com/jhoicas/stock-bot/internal/domain/entity"
	"github.com/jhoicas/stock-bot/internal/domain/repository"
	"github.com/tidwall/jsonc"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre un documento JSON (stock.json).
// El archivo es editable a mano: se toleran comentarios y comas finales (JSONC).
type StockRepo struct {
	path string
	mu   sync.Mutex
}

// NewStockRepository construye el adaptador sobre la ruta indicada.
func NewStockRepository(path string) *StockRepo {
	return &StockRepo{path: path}
}

// Path ruta del documento.
func (r *StockRepo) Path() string { return r.path }

// Load lee el ledger. Si el archivo no existe escribe el ledger por defecto y lo devuelve.
// Ante un archivo ilegible devuelve el ledger por defecto junto con ErrStorageIO (sin sobrescribir).
func (r *StockRepo) Load() (*entity.Ledger, error) {
	r.mu.Lock()
	data, err := os.ReadFile(r.path)
	r.mu.Unlock()
	if errors.Is(err, fs.ErrNotExist) {
		ledger := entity.DefaultLedger()
		if err := r.Save(ledger); err != nil {
			return ledger, err
		}
		return ledger, nil
	}
	if err != nil {
		return entity.DefaultLedger(), fmt.Errorf("%w: leer %s: %v", domain.ErrStorageIO, r.path, err)
	}
	entries, err := decodeEntries(jsonc.ToJSON(data))
	if err != nil {
		return entity.DefaultLedger(), fmt.Errorf("%w: decodificar %s: %v", domain.ErrStorageIO, r.path, err)
	}
	return entity.NewLedger(entries...), nil
}

// Save reescribe el documento completo (archivo temporal + rename en el mismo directorio).
func (r *StockRepo) Save(ledger *entity.Ledger) error {
	data := encodeEntries(ledger.Entries())

	r.mu.Lock()
	defer r.mu.Unlock()

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, ".stock-*.json")
	if err != nil {
		return fmt.Errorf("%w: crear temporal en %s: %v", domain.ErrStorageIO, dir, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: escribir %s: %v", domain.ErrStorageIO, tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: sync %s: %v", domain.ErrStorageIO, tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: cerrar %s: %v", domain.ErrStorageIO, tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: chmod %s: %v", domain.ErrStorageIO, tmpName, err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: reemplazar %s: %v", domain.ErrStorageIO, r.path, err)
	}
	return nil
}

// decodeEntries recorre el objeto JSON token a token para conservar el orden de las claves.
func decodeEntries(data []byte) ([]entity.StockEntry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("se esperaba un objeto JSON")
	}
	var entries []entity.StockEntry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("clave inválida %v", tok)
		}
		var n json.Number
		if err := dec.Decode(&n); err != nil {
			return nil, fmt.Errorf("valor de %q: %w", key, err)
		}
		count, err := n.Int64()
		if err != nil {
			return nil, fmt.Errorf("valor de %q no es entero: %s", key, n)
		}
		entries = append(entries, entity.StockEntry{Product: key, Count: int(count)})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return entries, nil
}

func encodeEntries(entries []entity.StockEntry) []byte {
	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, e := range entries {
		key, _ := json.Marshal(e.Product)
		fmt.Fprintf(&buf, "  %s: %d", key, e.Count)
		if i < len(entries)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")
	return buf.Bytes()
}
