package clinic

import "github.com/jrsteele09/go-clinic-console/internal/utils"

type School struct {
	ID         int       `json:"idEcole,omitempty"`
	Name       string    `json:"nomEcole"`
	Address    string    `json:"adresseEcole"`
	City       string    `json:"villeEcole"`
	PostalCode string    `json:"codePostalEcole"`
	Phone      string    `json:"numEcole"`
	Contact    string    `json:"contactReferent"`
	Trainees   []Trainee `json:"stagiaires,omitempty"`
}

func (s School) Matches(term string) bool {
	return utils.AnyContainsFold(term, s.Name, s.Address, s.City, s.Contact)
}

type SchoolUpdate struct {
	Name       *string `json:"nomEcole,omitempty"`
	Address    *string `json:"adresseEcole,omitempty"`
	City       *string `json:"villeEcole,omitempty"`
	PostalCode *string `json:"codePostalEcole,omitempty"`
	Phone      *string `json:"numEcole,omitempty"`
	Contact    *string `json:"contactReferent,omitempty"`
}

// TraineeGrade is the mark a trainee received on one appointment.
type TraineeGrade struct {
	AppointmentID int       `json:"idRdv"`
	Grade         float64   `json:"noteStagiaire"`
	Comment       string    `json:"commentaireStagiaire"`
	Date          Timestamp `json:"dateRdv"`
	Prestation    string    `json:"nomPrestation"`
}

type Trainee struct {
	ID         int            `json:"idStagiaire,omitempty"`
	FamilyName string         `json:"nomStagiaire"`
	GivenName  string         `json:"prenomStagiaire"`
	SchoolID   int            `json:"idEcole"`
	TutorID    *int           `json:"idTuteur,omitempty"`
	Email      *string        `json:"mailStagiaire,omitempty"`
	Phone      *string        `json:"numStagiaire,omitempty"`
	StartDate  *Timestamp     `json:"dateDebutStage,omitempty"`
	EndDate    *Timestamp     `json:"dateFinStage,omitempty"`
	School     *School        `json:"ecole,omitempty"`
	Tutor      *StaffRef      `json:"tuteur,omitempty"`
	Grades     []TraineeGrade `json:"notes,omitempty"`
}

func (t Trainee) FullName() string {
	return t.GivenName + " " + t.FamilyName
}

func (t Trainee) Matches(term string) bool {
	schoolName := ""
	if t.School != nil {
		schoolName = t.School.Name
	}
	return utils.AnyContainsFold(term, t.FamilyName, t.GivenName, utils.Value(t.Email), schoolName)
}

type TraineeUpdate struct {
	FamilyName *string    `json:"nomStagiaire,omitempty"`
	GivenName  *string    `json:"prenomStagiaire,omitempty"`
	SchoolID   *int       `json:"idEcole,omitempty"`
	TutorID    *int       `json:"idTuteur,omitempty"`
	Email      *string    `json:"mailStagiaire,omitempty"`
	Phone      *string    `json:"numStagiaire,omitempty"`
	StartDate  *Timestamp `json:"dateDebutStage,omitempty"`
	EndDate    *Timestamp `json:"dateFinStage,omitempty"`
}
