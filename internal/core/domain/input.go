package domain

type Occupation string

const (
	OccupationRetired       Occupation = "retired"
	OccupationFreelancer    Occupation = "freelancer"
	OccupationStudent       Occupation = "student"
	OccupationGovernmentJob Occupation = "government_job"
	OccupationBusinessOwner Occupation = "business_owner"
	OccupationUnemployed    Occupation = "unemployed"
	OccupationPrivateJob    Occupation = "private_job"
)

// Occupations lists every accepted occupation in declaration order.
func Occupations() []Occupation {
	return []Occupation{
		OccupationRetired,
		OccupationFreelancer,
		OccupationStudent,
		OccupationGovernmentJob,
		OccupationBusinessOwner,
		OccupationUnemployed,
		OccupationPrivateJob,
	}
}

func (o Occupation) Valid() bool {
	for _, known := range Occupations() {
		if o == known {
			return true
		}
	}
	return false
}

// PredictRequest is the wire form of a prediction request. Every field is a
// pointer so a missing field can be told apart from a zero value.
type PredictRequest struct {
	Age        *int     `json:"age" validate:"required,gte=1,lte=119"`
	Weight     *float64 `json:"weight" validate:"required,gt=0"`
	Height     *float64 `json:"height" validate:"required,gt=0,lt=2.5"`
	IncomeLPA  *float64 `json:"income_lpa" validate:"required,gt=0"`
	Smoker     *bool    `json:"smoker" validate:"required"`
	City       *string  `json:"city" validate:"required,min=1"`
	Occupation *string  `json:"occupation" validate:"required,oneof=retired freelancer student government_job business_owner unemployed private_job"`
}

// RawUserInput is a validated prediction request.
type RawUserInput struct {
	Age        int        `json:"age"`
	Weight     float64    `json:"weight"`
	Height     float64    `json:"height"`
	IncomeLPA  float64    `json:"income_lpa"`
	Smoker     bool       `json:"smoker"`
	City       string     `json:"city"`
	Occupation Occupation `json:"occupation"`
}

// Request converts a validated input back to its wire form.
func (in RawUserInput) Request() PredictRequest {
	occupation := string(in.Occupation)
	return PredictRequest{
		Age:        &in.Age,
		Weight:     &in.Weight,
		Height:     &in.Height,
		IncomeLPA:  &in.IncomeLPA,
		Smoker:     &in.Smoker,
		City:       &in.City,
		Occupation: &occupation,
	}
}
