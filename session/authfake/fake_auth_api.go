package authfake

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-admin-console/session"
	"github.com/jrsteele09/go-admin-console/users"
)

var _ session.AuthAPI = (*FakeAuthAPI)(nil)

// FakeAuthAPI answers from canned results. Block, when set, holds Login until closed.
type FakeAuthAPI struct {
	lock        sync.Mutex
	LoginResult session.LoginResult
	LoginErr    error
	LogoutErr   error
	MeResult    users.User
	MeErr       error
	Block       chan struct{}
	Entered     chan struct{}

	logins  int
	logouts int
}

func (f *FakeAuthAPI) Login(ctx context.Context, creds users.Credentials) (session.LoginResult, error) {
	f.lock.Lock()
	f.logins++
	block, entered := f.Block, f.Entered
	f.lock.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return session.LoginResult{}, ctx.Err()
		}
	}
	if f.LoginErr != nil {
		return session.LoginResult{}, f.LoginErr
	}
	return f.LoginResult, nil
}

func (f *FakeAuthAPI) Logout(context.Context) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.logouts++
	return f.LogoutErr
}

func (f *FakeAuthAPI) Me(context.Context) (users.User, error) {
	return f.MeResult, f.MeErr
}

func (f *FakeAuthAPI) Logins() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.logins
}

func (f *FakeAuthAPI) Logouts() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.logouts
}
