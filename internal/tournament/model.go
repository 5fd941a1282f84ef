// Package tournament holds the Tournament entity, its validation contract,
// the list/search query contract and the gorm-backed repository.
package tournament

import (
	"time"

	"gorm.io/datatypes"

	"github.com/chessdir/tournaments/internal/config"
)

// Enumerated values. Slices keep declaration order for error messages.
var (
	Levels = []string{
		"international", "national", "state", "district", "club",
		"school", "college", "university", "other",
	}
	Types     = []string{"rapid", "blitz", "classical", "swiss", "roundrobin"}
	Genders   = []string{"male", "female"}
	FoodTypes = []string{"breakfast", "lunch", "dinner", "snacks", "beverages"}
)

const (
	DefaultCurrency    = "INR"
	MaxParkingFacility = 3
)

// AgeCategory is one entry of the embedded ageCategories list.
type AgeCategory struct {
	Gender   string `json:"gender"`
	Category string `json:"category"`
}

// FoodOption is one entry of the embedded foodOptions list.
type FoodOption struct {
	Type      string `json:"type"`
	Available bool   `json:"available"`
}

// Tournament is a single chess tournament listing.
type Tournament struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	// Tournament details
	Title                    string    `gorm:"size:100;not null;uniqueIndex" json:"title"`
	FideRated                bool      `gorm:"not null;default:false" json:"fideRated"`
	OrganizerName            string    `gorm:"size:100;not null" json:"organizerName"`
	TournamentLevel          string    `gorm:"size:20;not null;index" json:"tournamentLevel"`
	StartDate                time.Time `gorm:"not null;index" json:"startDate"`
	EndDate                  time.Time `gorm:"not null" json:"endDate"`
	ReportingTime            string    `gorm:"size:20;not null;default:''" json:"reportingTime"`
	RegistrationDeadline     time.Time `gorm:"not null;index" json:"registrationDeadline"`
	RegistrationDeadlineTime string    `gorm:"size:20;not null;default:''" json:"registrationDeadlineTime"`
	ChiefArbiterName         string    `gorm:"size:100;not null" json:"chiefArbiterName"`
	TournamentDirectorName   string    `gorm:"size:100;not null" json:"tournamentDirectorName"`
	RegistrationFeesCurrency string    `gorm:"size:3;not null;default:'INR'" json:"registrationFeesCurrency"`
	RegistrationFeesAmount   *float64  `gorm:"type:decimal(10,2)" json:"registrationFeesAmount"`
	NumberOfRounds           *int      `gorm:"type:smallint" json:"numberOfRounds"`
	TimeControlType          *string   `gorm:"size:20" json:"timeControlType"`
	TimeControlDuration      *string   `gorm:"size:20" json:"timeControlDuration"`
	TimeControlIncrement     *string   `gorm:"size:20" json:"timeControlIncrement"`
	TournamentType           *string   `gorm:"size:20" json:"tournamentType"`
	NationalApproval         bool      `gorm:"not null;default:false" json:"nationalApproval"`
	StateApproval            bool      `gorm:"not null;default:false" json:"stateApproval"`
	DistrictApproval         bool      `gorm:"not null;default:false" json:"districtApproval"`

	// Contact details
	ContactPersonName string  `gorm:"size:100;not null" json:"contactPersonName"`
	EmailID           *string `gorm:"column:email_id;size:100" json:"emailId"`
	ContactNumber     *string `gorm:"size:20" json:"contactNumber"`
	AlternateContact  *string `gorm:"size:20" json:"alternateContact"`

	// Prize details
	NumberOfTrophiesMale   int     `gorm:"type:smallint;not null;default:0" json:"numberOfTrophiesMale"`
	NumberOfTrophiesFemale int     `gorm:"type:smallint;not null;default:0" json:"numberOfTrophiesFemale"`
	TotalCashPrize         float64 `gorm:"type:decimal(12,2);not null;default:0" json:"totalCashPrize"`

	// Venue details
	Country           *string  `gorm:"size:60" json:"country"`
	State             *string  `gorm:"size:60" json:"state"`
	District          *string  `gorm:"size:60" json:"district"`
	City              *string  `gorm:"size:60" json:"city"`
	Pincode           *string  `gorm:"size:10" json:"pincode"`
	VenueAddress      *string  `gorm:"type:text" json:"venueAddress"`
	NearestLandmark   *string  `gorm:"size:100" json:"nearestLandmark"`
	BrochureURL       *string  `gorm:"column:brochure_url;size:255" json:"brochureUrl"`
	LocationLatitude  *float64 `gorm:"type:decimal(10,8)" json:"locationLatitude"`
	LocationLongitude *float64 `gorm:"type:decimal(11,8)" json:"locationLongitude"`

	// Facilities
	ChessboardProvided bool `gorm:"not null;default:false" json:"chessboardProvided"`
	TimerProvided      bool `gorm:"not null;default:false" json:"timerProvided"`
	ParkingFacility    int  `gorm:"type:smallint;not null;default:0" json:"parkingFacility"`
	HasFoodFacility    bool `gorm:"not null;default:false" json:"hasFoodFacility"`

	// Embedded data, stored as JSONB and validated only at write time
	AgeCategories datatypes.JSONSlice[AgeCategory] `gorm:"not null" json:"ageCategories"`
	FoodOptions   datatypes.JSONSlice[FoodOption]  `gorm:"not null" json:"foodOptions"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

// TableName pins the table name regardless of gorm naming strategy.
func (Tournament) TableName() string {
	return config.TournamentsTable
}

// Clone returns a deep copy, so callers can hand out records without sharing
// the embedded slices or pointer fields.
func (t *Tournament) Clone() *Tournament {
	c := *t
	c.RegistrationFeesAmount = clonePtr(t.RegistrationFeesAmount)
	c.NumberOfRounds = clonePtr(t.NumberOfRounds)
	c.TimeControlType = clonePtr(t.TimeControlType)
	c.TimeControlDuration = clonePtr(t.TimeControlDuration)
	c.TimeControlIncrement = clonePtr(t.TimeControlIncrement)
	c.TournamentType = clonePtr(t.TournamentType)
	c.EmailID = clonePtr(t.EmailID)
	c.ContactNumber = clonePtr(t.ContactNumber)
	c.AlternateContact = clonePtr(t.AlternateContact)
	c.Country = clonePtr(t.Country)
	c.State = clonePtr(t.State)
	c.District = clonePtr(t.District)
	c.City = clonePtr(t.City)
	c.Pincode = clonePtr(t.Pincode)
	c.VenueAddress = clonePtr(t.VenueAddress)
	c.NearestLandmark = clonePtr(t.NearestLandmark)
	c.BrochureURL = clonePtr(t.BrochureURL)
	c.LocationLatitude = clonePtr(t.LocationLatitude)
	c.LocationLongitude = clonePtr(t.LocationLongitude)
	c.AgeCategories = append(datatypes.JSONSlice[AgeCategory]{}, t.AgeCategories...)
	c.FoodOptions = append(datatypes.JSONSlice[FoodOption]{}, t.FoodOptions...)
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
