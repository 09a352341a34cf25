package repository

import (
	"strings"

	"github.com/mkalus/segrada-sub000/core"
	"github.com/mkalus/segrada-sub000/store"
)

// userLoginIndex maps logins to user ids for authentication lookups.
const userLoginIndex = "userlogin"

// UserRepository handles user accounts. Audit stamps reference users by id;
// a deleted user degrades those back-references to nil.
type UserRepository struct {
	*Base[*core.User]
}

type userMapper struct{}

func (userMapper) Model() string { return core.ModelUser }

func (userMapper) ToRecord(u *core.User, rec *store.Record) {
	rec.Set("login", u.Login)
	rec.Set("name", u.Name)
	rec.Set("role", u.Role)
	rec.Set("active", u.Active)
	rec.Set("lastLogin", u.LastLogin)
}

func (userMapper) FromRecord(rec *store.Record) *core.User {
	return &core.User{
		Login:     rec.String("login"),
		Name:      rec.String("name"),
		Role:      rec.String("role"),
		Active:    rec.Bool("active"),
		LastLogin: rec.Int64("lastLogin"),
	}
}

func newUserRepository(f *Factory) *UserRepository {
	r := &UserRepository{Base: newBase[*core.User](f, userMapper{})}
	r.less = func(a, b *core.User) bool {
		return strings.ToLower(a.Login) < strings.ToLower(b.Login)
	}
	r.afterDelete = func(u *core.User) error {
		if u.Login == "" {
			return nil
		}
		key := []byte(strings.ToLower(u.Login))
		id, found, err := f.store.LookupIndex(userLoginIndex, key)
		if err != nil {
			return err
		}
		if found && id == u.ID() {
			return f.store.DeleteIndex(userLoginIndex, key)
		}
		return nil
	}
	return r
}

// Save persists the user and keeps the login index in step.
func (r *UserRepository) Save(user *core.User) error {
	var oldLogin string
	if user != nil && user.ID() != "" {
		old, err := r.Find(user.ID())
		if err != nil {
			return err
		}
		if old != nil {
			oldLogin = strings.ToLower(old.Login)
		}
	}

	if err := r.Base.Save(user); err != nil {
		return err
	}

	newLogin := strings.ToLower(user.Login)
	if oldLogin == newLogin {
		return nil
	}
	if newLogin != "" {
		if err := r.factory.store.SetIndex(userLoginIndex, []byte(newLogin), user.ID()); err != nil {
			return err
		}
	}
	if oldLogin != "" {
		return r.factory.store.DeleteIndex(userLoginIndex, []byte(oldLogin))
	}
	return nil
}

// FindByLogin looks up a user by login, case-insensitively. Returns
// (nil, nil) if no such user exists.
func (r *UserRepository) FindByLogin(login string) (*core.User, error) {
	if login == "" {
		return nil, nil
	}
	id, found, err := r.factory.store.LookupIndex(userLoginIndex, []byte(strings.ToLower(login)))
	if err != nil || !found {
		return nil, err
	}
	return r.Find(id)
}

// TouchLogin records a successful login, bumping the last login timestamp.
func (r *UserRepository) TouchLogin(user *core.User, when int64) error {
	if user == nil || user.ID() == "" {
		return store.ErrNotPersisted
	}
	user.LastLogin = when
	return r.Save(user)
}
