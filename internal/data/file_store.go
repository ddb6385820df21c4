package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"shopbackend/internal/logger"
)

// Store file names inside the data directory
const (
	UsersFile           = "users.json"
	ProductsFile        = "products.json"
	TransactionsFile    = "transactions.json"
	MembershipCostsFile = "membership_costs.json"
)

// FileStore keeps each collection in its own indented JSON file. Saves are
// plain rewrites; a crash mid-write can leave a truncated file.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	if dir == "" {
		dir = "."
	}
	return &FileStore{dir: dir}
}

func (s *FileStore) Load(ctx context.Context) (*State, error) {
	st := NewState()

	var users []userRecord
	if err := s.readFile(UsersFile, &users); err != nil {
		return nil, err
	}
	loadedUsers, err := usersFromRecords(users)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", UsersFile, err)
	}
	st.Users = loadedUsers

	var products []*Product
	if err := s.readFile(ProductsFile, &products); err != nil {
		return nil, err
	}
	for i, p := range products {
		if p == nil {
			return nil, fmt.Errorf("failed to parse %s: entry %d is null", ProductsFile, i)
		}
	}
	if products != nil {
		st.Products = products
	}

	var transactions []Transaction
	if err := s.readFile(TransactionsFile, &transactions); err != nil {
		return nil, err
	}
	if transactions != nil {
		st.Transactions = transactions
	}

	var costs map[int]float64
	if err := s.readFile(MembershipCostsFile, &costs); err != nil {
		return nil, err
	}
	if st.LevelCosts, err = levelCostsFromMap(costs); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", MembershipCostsFile, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger.LogInfo("Loaded %d users, %d products, %d transactions from %s",
		len(st.Users), len(st.Products), len(st.Transactions), s.dir)
	return st, nil
}

// readFile decodes one store. A missing file leaves v untouched.
func (s *FileStore) readFile(name string, v interface{}) error {
	path := filepath.Join(s.dir, name)
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.LogInfo("Store %s not found, starting empty", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func (s *FileStore) Save(ctx context.Context, st *State) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory %s: %w", s.dir, err)
	}

	users := make([]userRecord, 0, len(st.Users))
	for _, u := range st.Users {
		users = append(users, toUserRecord(u))
	}

	products := st.Products
	if products == nil {
		products = []*Product{}
	}
	transactions := st.Transactions
	if transactions == nil {
		transactions = []Transaction{}
	}

	files := []struct {
		name string
		v    interface{}
	}{
		{UsersFile, users},
		{ProductsFile, products},
		{TransactionsFile, transactions},
		{MembershipCostsFile, st.LevelCosts},
	}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.writeFile(f.name, f.v); err != nil {
			return err
		}
	}
	return nil
}

func (s *FileStore) writeFile(name string, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }
