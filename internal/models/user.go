package models

import "time"

// UserRole represents the role of a user in the learning system.
type UserRole string

const (
	RoleLearner       UserRole = "LEARNER"
	RoleInstructor    UserRole = "INSTRUCTOR"
	RoleAdministrator UserRole = "ADMINISTRATOR"
)

// UserStatus represents the lifecycle state of a user. Learner and
// instructor roles have disjoint status sets; the administrator has a
// single fixed status.
type UserStatus string

const (
	StatusActiveLearner    UserStatus = "ACTIVE"
	StatusGraduatedLearner UserStatus = "GRADUATED"
	StatusDroppedLearner   UserStatus = "DROPPED"
	StatusSuspendedLearner UserStatus = "SUSPENDED"
	StatusExpelledLearner  UserStatus = "EXPELLED"
	StatusInstructing      UserStatus = "INSTRUCTING"
	StatusRetired          UserStatus = "RETIRED"
	StatusAdministrator    UserStatus = "ADMINISTRATOR"
)

// LearnerYear is the year level of a learner. NotApplicable for
// instructors and the administrator.
type LearnerYear string

const (
	YearNotApplicable LearnerYear = "NOT_APPLICABLE"
	YearFirst         LearnerYear = "FIRST"
	YearSecond        LearnerYear = "SECOND"
	YearThird         LearnerYear = "THIRD"
	YearFourth        LearnerYear = "FOURTH"
	YearFifth         LearnerYear = "FIFTH"
	YearSixth         LearnerYear = "SIXTH"
	YearSeventh       LearnerYear = "SEVENTH"
)

// AdminUserID is the sentinel identifier carried by the administrator
// identity synthesized from settings at login. No stored row ever uses it.
const AdminUserID = -1

// RemovedInstructorID marks courses whose instructor was hard-deleted.
const RemovedInstructorID = -2

// User represents a person known to the system. The administrator is not
// stored as a row; it is synthesized from the settings at login time.
type User struct {
	ID                 int        `db:"id" json:"Id"`
	UserIDStr          string     `db:"user_id_str" json:"UserIdStr"`
	Username           string     `db:"username" json:"Username"`
	PasswordHash       string     `db:"password_hash" json:"PasswordHash"`
	PasswordSalt       []byte     `db:"password_salt" json:"PasswordSalt"`
	Email              string     `db:"email" json:"Email"`
	FirstName          string     `db:"first_name" json:"FirstName"`
	MiddleName         string     `db:"middle_name" json:"MiddleName,omitempty"`
	LastName           string     `db:"last_name" json:"LastName"`
	FullName           string     `db:"full_name" json:"FullName"`
	BirthDate          string     `db:"birth_date" json:"BirthDate"`
	AddressStreet      string     `db:"address_street" json:"AddressStreet"`
	AddressBarangay    string     `db:"address_barangay" json:"AddressBarangay,omitempty"`
	AddressCity        string     `db:"address_city" json:"AddressCity"`
	AddressProvince    string     `db:"address_province" json:"AddressProvince"`
	AddressCountryCode string     `db:"address_country_code" json:"AddressCountryCode"`
	AddressZipCode     string     `db:"address_zip_code" json:"AddressZipCode"`
	PhoneNumber        int64      `db:"phone_number" json:"PhoneNumber"`
	Role               UserRole   `db:"role" json:"Role"`
	RegistrationDate   time.Time  `db:"registration_date" json:"RegistrationDate"`
	Status             UserStatus `db:"status" json:"Status"`
	YearLevel          LearnerYear `db:"year_level" json:"YearLevel"`
}

// IsAdmin reports whether this record is the synthesized administrator.
func (u *User) IsAdmin() bool {
	return u.ID == AdminUserID && u.Role == RoleAdministrator
}
