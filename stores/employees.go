package stores

import (
	"context"
	"net/url"

	"github.com/jrsteele09/go-clinic-console/staff"
)

const employeesPath = "/employes"

// Employees is addressed by e-mail. Every write reloads the whole list.
type Employees struct {
	*Collection[staff.Employee]
}

func NewEmployees(api API) *Employees {
	return &Employees{newCollection[staff.Employee]("employes", api)}
}

func (e *Employees) FetchAll(ctx context.Context) (err error) {
	defer e.track("Erreur lors de la récupération des employés")(&err)
	return e.fetchAll(ctx)
}

func (e *Employees) fetchAll(ctx context.Context) error {
	var list []staff.Employee
	if err := e.api.Get(ctx, employeesPath, nil, &list); err != nil {
		return err
	}
	for i := range list {
		list[i].Password = ""
	}
	e.setItems(list)
	return nil
}

func (e *Employees) FetchByEmail(ctx context.Context, email string) (emp staff.Employee, err error) {
	defer e.track("Erreur lors de la récupération de l'employé")(&err)

	if err := e.api.Get(ctx, employeesPath+"/"+url.PathEscape(email), nil, &emp); err != nil {
		return emp, err
	}
	emp.Password = ""
	e.setCurrent(emp)
	return emp, nil
}

// FetchByRole returns the employees holding role without touching the list.
func (e *Employees) FetchByRole(ctx context.Context, role staff.Role) (list []staff.Employee, err error) {
	defer e.track("Erreur lors de la récupération des employés par rôle")(&err)

	if err := e.api.Get(ctx, employeesPath+"/role/"+role.String(), nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (e *Employees) Create(ctx context.Context, emp staff.Employee) (created staff.Employee, err error) {
	defer e.track("Erreur lors de la création de l'employé")(&err)

	if err := e.api.Post(ctx, employeesPath, emp, &created); err != nil {
		return created, err
	}
	created.Password = ""
	return created, e.fetchAll(ctx)
}

func (e *Employees) Update(ctx context.Context, email string, update staff.EmployeeUpdate) (updated staff.Employee, err error) {
	defer e.track("Erreur lors de la mise à jour de l'employé")(&err)

	if err := e.api.Put(ctx, employeesPath+"/"+url.PathEscape(email), update, &updated); err != nil {
		return updated, err
	}
	updated.Password = ""
	return updated, e.fetchAll(ctx)
}

func (e *Employees) ByRole(role staff.Role) []staff.Employee {
	return e.Filter(func(emp staff.Employee) bool { return emp.Role == role })
}
