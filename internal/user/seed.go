package user

// Faculties offered in the profile form.
var Faculties = []string{
	"Ekonomi", "Teknik", "Pertanian", "Hukum", "FISIP",
	"FASILKOM", "FKM", "FKIP", "MIPA", "Kedokteran",
}

// DemoUsers is the directory the portal ships with.
func DemoUsers() []User {
	return []User{
		{ID: "s1", Name: "Budi Santoso", Email: "budi.santoso@student.unsri.ac.id", Role: RoleStudent, InstitutionalID: "09031282126001", Faculty: "FASILKOM"},
		{ID: "s2", Name: "Citra Lestari", Email: "citra.lestari@student.unsri.ac.id", Role: RoleStudent, InstitutionalID: "09031282126002", Faculty: "FASILKOM"},
		{ID: "s3", Name: "Doni Firmansyah", Email: "doni.f@student.unsri.ac.id", Role: RoleStudent, InstitutionalID: "09031282126003", Faculty: "FASILKOM"},
		{ID: "s4", Name: "Eka Wijaya", Email: "eka.w@student.unsri.ac.id", Role: RoleStudent, InstitutionalID: "09021182126004", Faculty: "Teknik"},
		{ID: "s5", Name: "Fitriani", Email: "fitriani@student.unsri.ac.id", Role: RoleStudent, InstitutionalID: "09011282126005", Faculty: "Ekonomi"},
		{ID: "s6", Name: "Gilang Pratama", Email: "gilang.p@student.unsri.ac.id", Role: RoleStudent, InstitutionalID: "09031382126006", Faculty: "FASILKOM"},
		{ID: "s7", Name: "Dina Amelia", Email: "dina.amelia@student.unsri.ac.id", Role: RoleStudent, InstitutionalID: "09031282126007", Faculty: "FASILKOM", AvatarURL: "https://images.unsplash.com/photo-1433086966358-54859d0ed716?q=80&w=100&h=100&fit=crop"},

		{ID: "l1", Name: "Dr. Siti Aminah", Email: "siti.aminah@unsri.ac.id", Role: RoleLecturer, InstitutionalID: "198001012005012001", Faculty: "FASILKOM", Expertise: []Category{CategoryAcademic, CategoryCareer}},
		{ID: "l2", Name: "Prof. Dr. Ir. Anis Saggaff, MSCE", Email: "anis.s@unsri.ac.id", Role: RoleLecturer, InstitutionalID: "196304051988031002", Faculty: "Teknik", Expertise: []Category{CategoryAcademic, CategoryGeneral}},
		{ID: "l3", Name: "Dr. Febrian, S.H., M.S.", Email: "febrian@unsri.ac.id", Role: RoleLecturer, InstitutionalID: "197002101995031001", Faculty: "Hukum", Expertise: []Category{CategoryStudentAffairs, CategoryGeneral}},
		{ID: "l4", Name: "Dra. Yulia P, M.Si.", Email: "yulia.p@unsri.ac.id", Role: RoleLecturer, InstitutionalID: "196507201990032001", Faculty: "Ekonomi", Expertise: []Category{CategoryCareer, CategoryScholarship}},
		{ID: "l5", Name: "Dr. A. Muslim, M.Agr.", Email: "a.muslim@unsri.ac.id", Role: RoleLecturer, InstitutionalID: "196808171994031002", Faculty: "Pertanian", Expertise: []Category{CategoryAcademic, CategoryGeneral}},
		{ID: "l6", Name: "Prof. Dr. Alfitri, M.Si.", Email: "alfitri@unsri.ac.id", Role: RoleLecturer, InstitutionalID: "196603031991031002", Faculty: "FISIP", Expertise: []Category{CategoryStudentAffairs, CategoryGeneral}},
		{ID: "l7", Name: "Dr. Irsan, M.Kes", Email: "irsan@unsri.ac.id", Role: RoleLecturer, InstitutionalID: "197505052000031002", Faculty: "FKM", Expertise: []Category{CategoryGeneral}},
		{ID: "l8", Name: "Dr. Hartono, M.A.", Email: "hartono@unsri.ac.id", Role: RoleLecturer, InstitutionalID: "196901011994031005", Faculty: "FKIP", Expertise: []Category{CategoryAcademic, CategoryStudentAffairs}},
		{ID: "l9", Name: "Prof. Dr. Iskhaq Iskandar, M.Sc.", Email: "iskhaq@unsri.ac.id", Role: RoleLecturer, InstitutionalID: "197010101995121001", Faculty: "MIPA", Expertise: []Category{CategoryAcademic, CategoryScholarship}},
		{ID: "l10", Name: "dr. H.M. Zulkarnain, M.Med.Sc, PKK", Email: "zulkarnain@unsri.ac.id", Role: RoleLecturer, InstitutionalID: "196409091990031002", Faculty: "Kedokteran", Expertise: []Category{CategoryAcademic, CategoryGeneral}},

		{ID: "st1", Name: "Ahmad Fauzi", Email: "ahmad.fauzi@unsri.ac.id", Role: RoleStaff, StaffRole: StaffAcademic, InstitutionalID: "199002022015031002"},
		{ID: "st2", Name: "Rina Marlina", Email: "rina.marlina@unsri.ac.id", Role: RoleStaff, StaffRole: StaffStudentAffairs, InstitutionalID: "199203032018012003"},
	}
}
