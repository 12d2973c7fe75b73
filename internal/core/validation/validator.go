package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kirillkom/premium-predictor/internal/core/domain"
	"github.com/kirillkom/premium-predictor/internal/core/features"
)

const finiteBMITag = "finite_bmi"

// Validator checks every field of a prediction request and reports all
// violations at once.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(validateBMI, domain.PredictRequest{})
	return &Validator{validate: v}
}

// validateBMI rejects weight/height pairs whose bmi overflows or underflows.
// It is reported on height once both fields pass their own checks.
func validateBMI(sl validator.StructLevel) {
	req, ok := sl.Current().Interface().(domain.PredictRequest)
	if !ok || req.Weight == nil || req.Height == nil {
		return
	}
	if !(*req.Weight > 0) || !(*req.Height > 0) {
		return
	}
	bmi := features.BMI(*req.Weight, *req.Height)
	if !(bmi > 0) || math.IsInf(bmi, 0) {
		sl.ReportError(*req.Height, "height", "Height", finiteBMITag, "")
	}
}

func (v *Validator) Validate(req domain.PredictRequest) (domain.RawUserInput, error) {
	if req.City != nil {
		city := strings.TrimSpace(*req.City)
		req.City = &city
	}

	if err := v.validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return domain.RawUserInput{}, fmt.Errorf("validate request: %w", err)
		}
		violations := make([]domain.Violation, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			violations = append(violations, domain.Violation{
				Field:   fe.Field(),
				Message: describe(fe),
			})
		}
		return domain.RawUserInput{}, &domain.ValidationError{Violations: violations}
	}

	return domain.RawUserInput{
		Age:        *req.Age,
		Weight:     *req.Weight,
		Height:     *req.Height,
		IncomeLPA:  *req.IncomeLPA,
		Smoker:     *req.Smoker,
		City:       *req.City,
		Occupation: domain.Occupation(*req.Occupation),
	}, nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "lt":
		return "must be less than " + fe.Param()
	case "min":
		return "must not be empty"
	case finiteBMITag:
		return "weight and height must give a positive finite bmi"
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ")
	default:
		return "failed " + fe.Tag() + " check"
	}
}
