package staff

// Employee is a staff record as listed by /employes. The password is only ever sent,
// never read back.
type Employee struct {
	ID         int    `json:"idEmploye,omitempty"`
	FamilyName string `json:"nomEmploye"`
	GivenName  string `json:"prenomEmploye"`
	Email      string `json:"mailEmploye"`
	Password   string `json:"mdpEmploye,omitempty"`
	Role       Role   `json:"roleEmploye"`
}

// EmployeeUpdate carries the fields of a partial update; nil fields are left unchanged.
type EmployeeUpdate struct {
	FamilyName *string `json:"nomEmploye,omitempty"`
	GivenName  *string `json:"prenomEmploye,omitempty"`
	Email      *string `json:"mailEmploye,omitempty"`
	Password   *string `json:"mdpEmploye,omitempty"`
	Role       *Role   `json:"roleEmploye,omitempty"`
}
