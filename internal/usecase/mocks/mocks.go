// Package mocks provides hand-written mock implementations of the usecase
// interfaces. Every mock keeps an in-memory default behavior and exposes
// per-method Func fields to override it in tests.
package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/iho/boglefolio/internal/domain"
	"github.com/iho/boglefolio/internal/usecase"
)

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc  func(ctx context.Context, account *domain.Account) error
	GetByIDFunc func(ctx context.Context, id string) (*domain.Account, error)
	ListFunc    func(ctx context.Context, limit, offset int) ([]*domain.Account, error)
	DeleteFunc  func(ctx context.Context, id string) error
	CountFunc   func(ctx context.Context) (int64, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{accounts: make(map[string]*domain.Account)}
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, acc := range m.accounts {
		accounts = append(accounts, acc)
	}
	return accounts, nil
}

func (m *MockAccountRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.accounts, id)
	return nil
}

func (m *MockAccountRepository) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.accounts)), nil
}

// MockAssetRepository is a mock implementation of AssetRepository.
type MockAssetRepository struct {
	mu     sync.RWMutex
	assets map[string]*domain.Asset

	CreateFunc      func(ctx context.Context, asset *domain.Asset) error
	GetByIDFunc     func(ctx context.Context, id string) (*domain.Asset, error)
	GetBySymbolFunc func(ctx context.Context, symbol string) (*domain.Asset, error)
	ListFunc        func(ctx context.Context, limit, offset int) ([]*domain.Asset, error)
	UpdateFunc      func(ctx context.Context, asset *domain.Asset) error
	DeleteFunc      func(ctx context.Context, id string) error
	CountFunc       func(ctx context.Context) (int64, error)
}

func NewMockAssetRepository() *MockAssetRepository {
	return &MockAssetRepository{assets: make(map[string]*domain.Asset)}
}

func (m *MockAssetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, asset)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assets[asset.ID] = asset
	return nil
}

func (m *MockAssetRepository) GetByID(ctx context.Context, id string) (*domain.Asset, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if asset, ok := m.assets[id]; ok {
		return asset, nil
	}
	return nil, domain.ErrAssetNotFound
}

func (m *MockAssetRepository) GetBySymbol(ctx context.Context, symbol string) (*domain.Asset, error) {
	if m.GetBySymbolFunc != nil {
		return m.GetBySymbolFunc(ctx, symbol)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, asset := range m.assets {
		if asset.Symbol == symbol {
			return asset, nil
		}
	}
	return nil, nil
}

func (m *MockAssetRepository) List(ctx context.Context, limit, offset int) ([]*domain.Asset, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var assets []*domain.Asset
	for _, asset := range m.assets {
		assets = append(assets, asset)
	}
	return assets, nil
}

func (m *MockAssetRepository) Update(ctx context.Context, asset *domain.Asset) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, asset)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assets[asset.ID] = asset
	return nil
}

func (m *MockAssetRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.assets, id)
	return nil
}

func (m *MockAssetRepository) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.assets)), nil
}

// MockTransactionRepository is a mock implementation of
// TransactionRepository. The default behavior stores transactions in memory
// and resolves natural keys against the stored set, which is enough to
// exercise the import reconciliation end to end.
type MockTransactionRepository struct {
	mu           sync.RWMutex
	transactions map[string]*domain.Transaction

	CreateFunc           func(ctx context.Context, txn *domain.Transaction) error
	CreateTxFunc         func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error
	UpdateTxFunc         func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Transaction, error)
	FindByNaturalKeyFunc func(ctx context.Context, key domain.NaturalKey) (*domain.Transaction, error)
	ListFunc             func(ctx context.Context, limit, offset int) ([]*domain.Transaction, error)
	ListRecentFunc       func(ctx context.Context, limit int) ([]*domain.Transaction, error)
	DeleteFunc           func(ctx context.Context, id string) error
	CountFunc            func(ctx context.Context) (int64, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{transactions: make(map[string]*domain.Transaction)}
}

func (m *MockTransactionRepository) Create(ctx context.Context, txn *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[txn.ID] = txn
	return nil
}

func (m *MockTransactionRepository) CreateTx(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, txn)
	}
	return m.Create(ctx, txn)
}

func (m *MockTransactionRepository) UpdateTx(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if m.UpdateTxFunc != nil {
		return m.UpdateTxFunc(ctx, tx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[txn.ID] = txn
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if txn, ok := m.transactions[id]; ok {
		return txn, nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) FindByNaturalKey(ctx context.Context, key domain.NaturalKey) (*domain.Transaction, error) {
	if m.FindByNaturalKeyFunc != nil {
		return m.FindByNaturalKeyFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	want := key.String()
	for _, txn := range m.transactions {
		if txn.NaturalKey().String() == want {
			return txn, nil
		}
	}
	return nil, nil
}

func (m *MockTransactionRepository) List(ctx context.Context, limit, offset int) ([]*domain.Transaction, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var txns []*domain.Transaction
	for _, txn := range m.transactions {
		txns = append(txns, txn)
	}
	return txns, nil
}

func (m *MockTransactionRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Transaction, error) {
	if m.ListRecentFunc != nil {
		return m.ListRecentFunc(ctx, limit)
	}
	return m.List(ctx, limit, 0)
}

func (m *MockTransactionRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.transactions, id)
	return nil
}

func (m *MockTransactionRepository) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.transactions)), nil
}

// All returns a snapshot of the stored transactions.
func (m *MockTransactionRepository) All() []*domain.Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	txns := make([]*domain.Transaction, 0, len(m.transactions))
	for _, txn := range m.transactions {
		txns = append(txns, txn)
	}
	return txns
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	CreateFunc        func(ctx context.Context, user *domain.User) error
	GetByIDFunc       func(ctx context.Context, id string) (*domain.User, error)
	GetByUsernameFunc func(ctx context.Context, username string) (*domain.User, error)
	GetByEmailFunc    func(ctx context.Context, email string) (*domain.User, error)
	UpdateFunc        func(ctx context.Context, user *domain.User) error
	DeleteFunc        func(ctx context.Context, id string) error
	ListFunc          func(ctx context.Context, limit, offset int) ([]*domain.User, error)
	CountFunc         func(ctx context.Context) (int64, error)
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]*domain.User)}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if user, ok := m.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, user := range m.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, user := range m.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
	return nil
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var users []*domain.User
	for _, user := range m.users {
		copied := *user
		users = append(users, &copied)
	}
	return users, nil
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.users)), nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)

	mu     sync.Mutex
	begun  int
	commit int
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.begun++
	return &MockTransaction{manager: m}, nil
}

// Begun returns how many transactions were started.
func (m *MockTransactionManager) Begun() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.begun
}

// Committed returns how many transactions were committed.
func (m *MockTransactionManager) Committed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commit
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	manager *MockTransactionManager

	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	committed bool
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}
	if t.manager != nil && !t.committed {
		t.committed = true
		t.manager.mu.Lock()
		t.manager.commit++
		t.manager.mu.Unlock()
	}
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if t.RollbackFunc != nil {
		return t.RollbackFunc(ctx)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator. By default it
// produces UUID-shaped sequential IDs.
type MockIDGenerator struct {
	GenerateFunc func() string

	mu   sync.Mutex
	next int
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	return formatSeqUUID(m.next)
}

func formatSeqUUID(n int) string {
	// Deterministic, well-formed UUID string.
	return "00000000-0000-4000-8000-" + leftPad(n)
}

func leftPad(n int) string {
	s := ""
	for _, c := range []byte{
		byte('0' + (n/100000000000)%10),
		byte('0' + (n/10000000000)%10),
		byte('0' + (n/1000000000)%10),
		byte('0' + (n/100000000)%10),
		byte('0' + (n/10000000)%10),
		byte('0' + (n/1000000)%10),
		byte('0' + (n/100000)%10),
		byte('0' + (n/10000)%10),
		byte('0' + (n/1000)%10),
		byte('0' + (n/100)%10),
		byte('0' + (n/10)%10),
		byte('0' + n%10),
	} {
		s += string(c)
	}
	return s
}

// MockQuoteProvider is a mock implementation of QuoteProvider.
type MockQuoteProvider struct {
	LatestPriceFunc func(ctx context.Context, symbol string) (*usecase.Quote, error)
	HistoryFunc     func(ctx context.Context, symbol string, start, end time.Time, interval domain.Interval) ([]usecase.Bar, error)
}

func NewMockQuoteProvider() *MockQuoteProvider {
	return &MockQuoteProvider{}
}

func (m *MockQuoteProvider) LatestPrice(ctx context.Context, symbol string) (*usecase.Quote, error) {
	if m.LatestPriceFunc != nil {
		return m.LatestPriceFunc(ctx, symbol)
	}
	return nil, domain.ErrQuoteNotFound
}

func (m *MockQuoteProvider) History(ctx context.Context, symbol string, start, end time.Time, interval domain.Interval) ([]usecase.Bar, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx, symbol, start, end, interval)
	}
	return nil, domain.ErrQuoteNotFound
}

// MockCache is an in-memory mock implementation of Cache. TTLs are honored.
type MockCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry

	GetFunc    func(ctx context.Context, key string) ([]byte, error)
	SetFunc    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

type cacheEntry struct {
	value     []byte
	expiresAt time.Time
}

func NewMockCache() *MockCache {
	return &MockCache{entries: make(map[string]cacheEntry)}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, nil
	}
	return entry.value, nil
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = cacheEntry{value: value, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// MockSessionStore is an in-memory mock implementation of SessionStore.
type MockSessionStore struct {
	mu       sync.RWMutex
	sessions map[string]string
	next     int

	CreateFunc func(ctx context.Context, userID string, ttl time.Duration) (string, error)
	GetFunc    func(ctx context.Context, token string) (string, error)
	DeleteFunc func(ctx context.Context, token string) error
}

func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{sessions: make(map[string]string)}
}

func (m *MockSessionStore) Create(ctx context.Context, userID string, ttl time.Duration) (string, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, userID, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	token := "session-" + leftPad(m.next)
	m.sessions[token] = userID
	return token, nil
}

func (m *MockSessionStore) Get(ctx context.Context, token string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, token)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	userID, ok := m.sessions[token]
	if !ok {
		return "", domain.ErrSessionExpired
	}
	return userID, nil
}

func (m *MockSessionStore) Delete(ctx context.Context, token string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, token)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}
