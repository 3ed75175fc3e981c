package fakeuserrepo

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jrsteele09/go-admin-console/internal/errors"
	"github.com/jrsteele09/go-admin-console/users"
)

var _ users.UserRepo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	users    map[int64]*users.Account
	emailIds map[string]int64 // lower-cased email to user id
	nextID   int64
	lock     sync.RWMutex
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		users:    make(map[int64]*users.Account),
		emailIds: make(map[string]int64),
	}
}

// Upsert stores a copy of the account, assigning an id when it has none.
func (ur *FakeUserRepo) Upsert(account *users.Account) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	email := strings.ToLower(account.Email)
	if id, ok := ur.emailIds[email]; ok && id != account.ID {
		return errors.Wrapf(errors.ErrDuplicate, "email %s", account.Email)
	}
	if account.ID == 0 {
		ur.nextID++
		account.ID = ur.nextID
	} else if account.ID > ur.nextID {
		ur.nextID = account.ID
	}
	if existing, ok := ur.users[account.ID]; ok {
		delete(ur.emailIds, strings.ToLower(existing.Email))
	}
	stored := *account
	ur.users[account.ID] = &stored
	ur.emailIds[email] = account.ID
	return nil
}

func (ur *FakeUserRepo) Delete(id int64) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	account, ok := ur.users[id]
	if !ok {
		return errors.ErrUserNotFound
	}
	delete(ur.emailIds, strings.ToLower(account.Email))
	delete(ur.users, id)
	return nil
}

func (ur *FakeUserRepo) GetByEmail(email string) (*users.Account, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.emailIds[strings.ToLower(email)]
	if !ok {
		return nil, errors.ErrUserNotFound
	}
	account := *ur.users[id]
	return &account, nil
}

func (ur *FakeUserRepo) GetByID(id int64) (*users.Account, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	account, ok := ur.users[id]
	if !ok {
		return nil, errors.ErrUserNotFound
	}
	cp := *account
	return &cp, nil
}

// List returns copies ordered by id.
func (ur *FakeUserRepo) List() ([]*users.Account, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	list := make([]*users.Account, 0, len(ur.users))
	for _, v := range ur.users {
		cp := *v
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (ur *FakeUserRepo) SetLastLogin(id int64, at time.Time) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	account, ok := ur.users[id]
	if !ok {
		return errors.ErrUserNotFound
	}
	account.LastLoginAt = &at
	return nil
}
