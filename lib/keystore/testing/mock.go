package testing

import (
	"github.com/stretchr/testify/mock"

	"github.com/pkv-db/pKV/lib/keystore"
)

// MockKeystore is a testify mock of keystore.IKeystore for applications that
// want to test their store usage without a real file behind it.
type MockKeystore struct {
	mock.Mock
}

// compile time interface check
var _ keystore.IKeystore = (*MockKeystore)(nil)

func (m *MockKeystore) Save() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockKeystore) CreateTable(table *keystore.Table) error {
	args := m.Called(table)
	return args.Error(0)
}

func (m *MockKeystore) ListTables() ([]string, error) {
	args := m.Called()
	var names []string
	if v := args.Get(0); v != nil {
		names = v.([]string)
	}
	return names, args.Error(1)
}

func (m *MockKeystore) DropTable(name string) error {
	args := m.Called(name)
	return args.Error(0)
}

func (m *MockKeystore) Insert(table string, entry *keystore.Entry) error {
	args := m.Called(table, entry)
	return args.Error(0)
}

func (m *MockKeystore) Update(table string, entry *keystore.Entry) error {
	args := m.Called(table, entry)
	return args.Error(0)
}

func (m *MockKeystore) InsertOrUpdate(table string, entry *keystore.Entry) error {
	args := m.Called(table, entry)
	return args.Error(0)
}

func (m *MockKeystore) Get(table string, primaryField keystore.Field) (*keystore.Entry, error) {
	args := m.Called(table, primaryField)
	var entry *keystore.Entry
	if v := args.Get(0); v != nil {
		entry = v.(*keystore.Entry)
	}
	return entry, args.Error(1)
}

func (m *MockKeystore) Delete(table string, primaryField keystore.Field) error {
	args := m.Called(table, primaryField)
	return args.Error(0)
}

func (m *MockKeystore) DeleteMany(table string, criteria map[string]keystore.Field) (uint64, error) {
	args := m.Called(table, criteria)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockKeystore) Scan(table string) ([]*keystore.Entry, error) {
	args := m.Called(table)
	var entries []*keystore.Entry
	if v := args.Get(0); v != nil {
		entries = v.([]*keystore.Entry)
	}
	return entries, args.Error(1)
}

func (m *MockKeystore) Query(table string, criteria map[string]keystore.Field) ([]*keystore.Entry, error) {
	args := m.Called(table, criteria)
	var entries []*keystore.Entry
	if v := args.Get(0); v != nil {
		entries = v.([]*keystore.Entry)
	}
	return entries, args.Error(1)
}

func (m *MockKeystore) Prune() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockKeystore) Info() (keystore.Info, error) {
	args := m.Called()
	return args.Get(0).(keystore.Info), args.Error(1)
}

func (m *MockKeystore) Close() error {
	args := m.Called()
	return args.Error(0)
}
