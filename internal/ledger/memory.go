package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

type positionKey struct {
	userID       int64
	instrumentID int64
}

type idemKey struct {
	userID int64
	key    string
}

type memState struct {
	accounts     map[int64]Account
	positions    map[positionKey]Position
	transactions []Transaction
	keys         map[idemKey]int // 幂等键 -> transactions 下标
}

func (s *memState) clone() *memState {
	c := &memState{
		accounts:     make(map[int64]Account, len(s.accounts)),
		positions:    make(map[positionKey]Position, len(s.positions)),
		transactions: s.transactions[:len(s.transactions):len(s.transactions)],
		keys:         make(map[idemKey]int, len(s.keys)),
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.positions {
		c.positions[k] = v
	}
	for k, v := range s.keys {
		c.keys[k] = v
	}
	return c
}

// MemoryStore 进程内的账本存储，仅用于测试和本地联调，重启后数据丢失。
// Atomic 在状态副本上执行，成功后整体替换，失败则丢弃副本。
type MemoryStore struct {
	mu    sync.Mutex
	state *memState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: &memState{
		accounts:  make(map[int64]Account),
		positions: make(map[positionKey]Position),
		keys:      make(map[idemKey]int),
	}}
}

// OpenAccount 创建现金账户
func (m *MemoryStore) OpenAccount(userID int64, account Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	account.UserID = userID
	m.state.accounts[userID] = account
}

// Account 返回账户快照
func (m *MemoryStore) Account(userID int64) (Account, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.state.accounts[userID]
	return a, ok
}

// Position 返回持仓快照
func (m *MemoryStore) Position(userID, instrumentID int64) (Position, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.state.positions[positionKey{userID, instrumentID}]
	return p, ok
}

// Positions 返回用户全部持仓，按 InstrumentID 排序
func (m *MemoryStore) Positions(userID int64) []Position {
	m.mu.Lock()
	defer m.mu.Unlock()
	var list []Position
	for k, p := range m.state.positions {
		if k.userID == userID {
			list = append(list, p)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].InstrumentID < list[j].InstrumentID })
	return list
}

func (m *MemoryStore) Atomic(ctx context.Context, fn func(tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	work := m.state.clone()
	if err := fn(&memTx{state: work}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.state = work
	return nil
}

func (m *MemoryStore) ListTransactionsForUser(ctx context.Context, userID int64, page, limit int) ([]Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var list []Transaction
	for i := len(m.state.transactions) - 1; i >= 0; i-- {
		if t := m.state.transactions[i]; t.UserID == userID {
			list = append(list, t)
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Timestamp.After(list[j].Timestamp) })

	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		return list, nil
	}
	start := (page - 1) * limit
	if start >= len(list) {
		return nil, nil
	}
	end := start + limit
	if end > len(list) {
		end = len(list)
	}
	return list[start:end], nil
}

type memTx struct {
	state *memState
}

func (t *memTx) GetAccount(_ context.Context, userID int64) (*Account, error) {
	a, ok := t.state.accounts[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (t *memTx) UpdateAccount(_ context.Context, account *Account) error {
	cur, ok := t.state.accounts[account.UserID]
	if !ok {
		return ErrNotFound
	}
	if cur.Version != account.Version {
		return fmt.Errorf("%w: account %d version %d, expected %d", ErrStorageConflict, account.UserID, cur.Version, account.Version)
	}
	account.Version++
	t.state.accounts[account.UserID] = *account
	return nil
}

func (t *memTx) GetPosition(_ context.Context, userID, instrumentID int64) (*Position, error) {
	p, ok := t.state.positions[positionKey{userID, instrumentID}]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (t *memTx) UpsertPosition(_ context.Context, position *Position) error {
	t.state.positions[positionKey{position.UserID, position.InstrumentID}] = *position
	return nil
}

func (t *memTx) DeletePosition(_ context.Context, userID, instrumentID int64) error {
	delete(t.state.positions, positionKey{userID, instrumentID})
	return nil
}

func (t *memTx) AppendTransaction(_ context.Context, txn *Transaction) error {
	if txn.IdempotencyKey != "" {
		k := idemKey{txn.UserID, txn.IdempotencyKey}
		if _, ok := t.state.keys[k]; ok {
			return fmt.Errorf("%w: duplicate idempotency key %q", ErrStorageConflict, txn.IdempotencyKey)
		}
		t.state.keys[k] = len(t.state.transactions)
	}
	t.state.transactions = append(t.state.transactions, *txn)
	return nil
}

func (t *memTx) FindTransactionByKey(_ context.Context, userID int64, key string) (*Transaction, error) {
	i, ok := t.state.keys[idemKey{userID, key}]
	if !ok {
		return nil, ErrNotFound
	}
	txn := t.state.transactions[i]
	return &txn, nil
}
