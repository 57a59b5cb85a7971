package models

import "time"

const (
	ApplicationPending     = "Pending"
	ApplicationShortlisted = "Shortlisted"
	ApplicationRejected    = "Rejected"
	ApplicationHired       = "Hired"
)

// Document field names accepted on upload and on download.
const (
	DocResume             = "resume"
	DocIDProof            = "idProof"
	DocAddressProof       = "addressProof"
	DocPoliceVerification = "policeVerification"
	DocPhoto              = "photo"
)

var DocumentTypes = []string{DocIDProof, DocAddressProof, DocPoliceVerification, DocPhoto, DocResume}

type Application struct {
	ID               int        `json:"_id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	Phone            string     `json:"phone"`
	Position         string     `json:"position"`
	Experience       string     `json:"experience,omitempty"`
	Message          string     `json:"message,omitempty"`
	DateOfBirth      *time.Time `json:"dateOfBirth,omitempty"`
	Gender           string     `json:"gender,omitempty"`
	Address          string     `json:"address,omitempty"`
	EmergencyContact string     `json:"emergencyContact,omitempty"`
	Username         string     `json:"username,omitempty"`
	PasswordHash     string     `json:"-"`
	ExpectedSalary   *float64   `json:"expectedSalary,omitempty"`
	Documents        Documents  `json:"documents"`
	Status           string     `json:"status"`
	ApplicationDate  time.Time  `json:"applicationDate"`
	UserID           *int       `json:"userId,omitempty"`
	ReviewedBy       *int       `json:"reviewedBy,omitempty"`
	ReviewDate       *time.Time `json:"reviewDate,omitempty"`
	ReviewComments   string     `json:"reviewComments,omitempty"`
}

// Documents holds storage keys, empty when not uploaded.
type Documents struct {
	Resume             string `json:"resume,omitempty"`
	IDProof            string `json:"idProof,omitempty"`
	AddressProof       string `json:"addressProof,omitempty"`
	PoliceVerification string `json:"policeVerification,omitempty"`
	Photo              string `json:"photo,omitempty"`
}

// Key returns the storage key for a document type, "" if unknown or absent.
func (d *Documents) Key(docType string) string {
	switch docType {
	case DocResume:
		return d.Resume
	case DocIDProof:
		return d.IDProof
	case DocAddressProof:
		return d.AddressProof
	case DocPoliceVerification:
		return d.PoliceVerification
	case DocPhoto:
		return d.Photo
	}
	return ""
}

func (d *Documents) Set(docType, key string) {
	switch docType {
	case DocResume:
		d.Resume = key
	case DocIDProof:
		d.IDProof = key
	case DocAddressProof:
		d.AddressProof = key
	case DocPoliceVerification:
		d.PoliceVerification = key
	case DocPhoto:
		d.Photo = key
	}
}

// RegistrationForm is the multipart body of the full registration flow.
type RegistrationForm struct {
	FullName         string
	Surname          string
	Email            string
	Phone            string
	DateOfBirth      string
	Gender           string
	Address          string
	City             string
	State            string
	Pincode          string
	EmergencyContact string
	Position         string
	Experience       string
	Username         string
	Password         string
	ExpectedSalary   string
	AdditionalInfo   string
}

// QuickApplyForm is the legacy single-resume application.
type QuickApplyForm struct {
	Name       string
	Email      string
	Phone      string
	Position   string
	Experience string
	Message    string
}

type HireRequest struct {
	Salary float64 `json:"salary"`
	Role   string  `json:"role"`
}

type EmployeeInfo struct {
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
	Role     string `json:"role"`
}

type HireResponse struct {
	Message      string       `json:"message"`
	EmployeeInfo EmployeeInfo `json:"employeeInfo"`
}

type ApplicationStatusRequest struct {
	Status         string `json:"status"`
	ReviewComments string `json:"reviewComments"`
}
