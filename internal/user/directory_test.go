package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(t *testing.T) *Directory {
	t.Helper()
	d := NewDirectory()
	d.Seed(DemoUsers()...)
	return d
}

func TestLookupByCredentials(t *testing.T) {
	d := seeded(t)

	tests := []struct {
		name    string
		email   string
		nimNip  string
		role    Role
		wantID  string
		wantErr error
	}{
		{name: "exact", email: "budi.santoso@student.unsri.ac.id", nimNip: "09031282126001", role: RoleStudent, wantID: "s1"},
		{name: "email case-insensitive", email: "BUDI.Santoso@student.unsri.ac.id", nimNip: "09031282126001", role: RoleStudent, wantID: "s1"},
		{name: "wrong role", email: "budi.santoso@student.unsri.ac.id", nimNip: "09031282126001", role: RoleLecturer, wantErr: ErrNotFound},
		{name: "wrong institutional id", email: "budi.santoso@student.unsri.ac.id", nimNip: "1", role: RoleStudent, wantErr: ErrNotFound},
		{name: "unknown email", email: "nobody@unsri.ac.id", nimNip: "09031282126001", role: RoleStudent, wantErr: ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := d.LookupByCredentials(tt.email, tt.nimNip, tt.role)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, u.ID)
		})
	}
}

func TestRegisterThenLookup(t *testing.T) {
	d := NewDirectory()

	reg := Registration{Name: "Rina", Email: "rina@student.unsri.ac.id", InstitutionalID: "0903", Role: RoleStudent}
	profile, err := reg.Profile()
	require.NoError(t, err)

	u, err := d.Register(User{Name: reg.Name, Email: reg.Email, InstitutionalID: reg.InstitutionalID}, profile)
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)

	got, err := d.LookupByCredentials("rina@student.unsri.ac.id", "0903", RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, u, got)

	_, err = d.Register(User{Name: "Other", Email: "RINA@student.unsri.ac.id", InstitutionalID: "0904"}, profile)
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRegisterAppliesRoleDefaults(t *testing.T) {
	d := NewDirectory()

	tests := []struct {
		role  Role
		check func(t *testing.T, u User)
	}{
		{RoleStudent, func(t *testing.T, u User) {
			assert.Equal(t, "FASILKOM", u.Faculty)
			assert.Empty(t, u.Expertise)
			assert.Empty(t, u.StaffRole)
		}},
		{RoleLecturer, func(t *testing.T, u User) {
			assert.Equal(t, []Category{CategoryAcademic}, u.Expertise)
		}},
		{RoleStaff, func(t *testing.T, u User) {
			assert.Equal(t, StaffAcademic, u.StaffRole)
			assert.Empty(t, u.Expertise)
		}},
	}
	for i, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			profile, err := Registration{Role: tt.role}.Profile()
			require.NoError(t, err)
			u, err := d.Register(User{Name: "X", Email: string(rune('a'+i)) + "@unsri.ac.id"}, profile)
			require.NoError(t, err)
			assert.Equal(t, tt.role, u.Role)
			tt.check(t, u)
		})
	}

	_, err := Registration{}.Profile()
	assert.ErrorIs(t, err, ErrNoRoleSelected)
}

func TestRegisterNeverReusesID(t *testing.T) {
	d := NewDirectory()
	ids := []string{"dup", "dup", "fresh"}
	d.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	a, err := d.Register(User{Email: "a@x.id"}, StudentProfile{})
	require.NoError(t, err)
	b, err := d.Register(User{Email: "b@x.id"}, StudentProfile{})
	require.NoError(t, err)

	assert.Equal(t, "dup", a.ID)
	assert.Equal(t, "fresh", b.ID)
}

func TestUpdate(t *testing.T) {
	d := seeded(t)

	u, err := d.Get("s1")
	require.NoError(t, err)
	u.Name = "Budi S."
	require.NoError(t, d.Update(u))

	got, err := d.Get("s1")
	require.NoError(t, err)
	assert.Equal(t, "Budi S.", got.Name)

	assert.ErrorIs(t, d.Update(User{ID: "missing"}), ErrNotFound)
}

func TestReadsAreCopies(t *testing.T) {
	d := seeded(t)

	u, err := d.Get("l1")
	require.NoError(t, err)
	u.Expertise[0] = CategoryGeneral

	again, err := d.Get("l1")
	require.NoError(t, err)
	assert.Equal(t, CategoryAcademic, again.Expertise[0])
}

func TestFindByExpertise(t *testing.T) {
	d := seeded(t)

	var ids []string
	for _, u := range d.FindByExpertise(CategoryScholarship) {
		ids = append(ids, u.ID)
	}
	assert.Equal(t, []string{"l4", "l9"}, ids)

	assert.Len(t, d.FindByRole(RoleStaff), 2)
}

func TestSearchAndResolve(t *testing.T) {
	d := seeded(t)

	res := d.Search("siti", 10)
	require.Len(t, res, 1)
	assert.Equal(t, "l1", res[0].ID)

	assert.Len(t, d.Search("unsri", 3), 3)

	resolved := d.Resolve([]string{"s2", "missing", "l1"})
	require.Len(t, resolved, 2)
	assert.Equal(t, "s2", resolved[0].ID)
	assert.Equal(t, "l1", resolved[1].ID)

	lecturer, ok := FirstLecturer(resolved)
	assert.True(t, ok)
	assert.Equal(t, "l1", lecturer.ID)
}
