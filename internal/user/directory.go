package user

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Directory is the authoritative in-memory collection of user profiles.
// Every read returns a copy, so callers never share state with the store.
type Directory struct {
	mu    sync.RWMutex
	users map[string]*User
	order []string
	newID func() string
}

func NewDirectory() *Directory {
	return &Directory{
		users: make(map[string]*User),
		newID: uuid.NewString,
	}
}

// Seed stores users with their preset identifiers. Existing ids are replaced.
func (d *Directory) Seed(users ...User) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, u := range users {
		u := u.clone()
		if _, ok := d.users[u.ID]; !ok {
			d.order = append(d.order, u.ID)
		}
		d.users[u.ID] = &u
	}
}

func (d *Directory) Get(id string) (User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	u, ok := d.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u.clone(), nil
}

// LookupByCredentials matches the e-mail case-insensitively and the
// institutional id and role exactly.
func (d *Directory) LookupByCredentials(email, institutionalID string, role Role) (User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, id := range d.order {
		u := d.users[id]
		if strings.EqualFold(u.Email, email) && u.InstitutionalID == institutionalID && u.Role == role {
			return u.clone(), nil
		}
	}
	return User{}, ErrNotFound
}

func (d *Directory) ExistsByEmail(email string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.emailTaken(email, "")
}

func (d *Directory) emailTaken(email, exceptID string) bool {
	for _, u := range d.users {
		if u.ID != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

// Register stores a new user built from the role profile. The uniqueness
// check and the insert happen under one lock.
func (d *Directory) Register(base User, profile Profile) (User, error) {
	if profile == nil {
		return User{}, ErrNoRoleSelected
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.emailTaken(base.Email, "") {
		return User{}, ErrDuplicateEmail
	}

	u := profile.user(base.clone())
	u.ID = d.newID()
	for _, taken := d.users[u.ID]; taken; _, taken = d.users[u.ID] {
		u.ID = d.newID()
	}

	d.users[u.ID] = &u
	d.order = append(d.order, u.ID)
	return u.clone(), nil
}

// Update replaces the stored user with the same identifier.
func (d *Directory) Update(u User) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.users[u.ID]; !ok {
		return ErrNotFound
	}
	u = u.clone()
	d.users[u.ID] = &u
	return nil
}

// updateUnique is Update plus the e-mail uniqueness check, under one lock.
func (d *Directory) updateUnique(u User) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.users[u.ID]; !ok {
		return ErrNotFound
	}
	if d.emailTaken(u.Email, u.ID) {
		return ErrDuplicateEmail
	}
	u = u.clone()
	d.users[u.ID] = &u
	return nil
}

func (d *Directory) FindByRole(role Role) []User {
	return d.filter(func(u *User) bool { return u.Role == role })
}

// FindByExpertise lists the lecturers covering a consultation category.
func (d *Directory) FindByExpertise(c Category) []User {
	return d.filter(func(u *User) bool { return u.IsLecturer() && u.HasExpertise(c) })
}

// Search matches the query against names and e-mails, case-insensitively.
func (d *Directory) Search(query string, limit int) []User {
	q := strings.ToLower(strings.TrimSpace(query))
	res := d.filter(func(u *User) bool {
		return strings.Contains(strings.ToLower(u.Name), q) || strings.Contains(strings.ToLower(u.Email), q)
	})
	sort.SliceStable(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}
	return res
}

func (d *Directory) filter(keep func(*User) bool) []User {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var res []User
	for _, id := range d.order {
		if u := d.users[id]; keep(u) {
			res = append(res, u.clone())
		}
	}
	return res
}

// Resolve maps identifiers to users in order, skipping unknown ids.
func (d *Directory) Resolve(ids []string) []User {
	d.mu.RLock()
	defer d.mu.RUnlock()

	res := make([]User, 0, len(ids))
	for _, id := range ids {
		if u, ok := d.users[id]; ok {
			res = append(res, u.clone())
		}
	}
	return res
}
