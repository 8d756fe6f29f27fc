package validation

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Formats shared by the booking form and the profile screen.
var (
	personNamePattern = regexp.MustCompile(`^[a-zA-Z\s.'-]+$`)
	studentIDPattern  = regexp.MustCompile(`^[A-Z]{3}\d{6,8}$`)
	carPlatePattern   = regexp.MustCompile(`^[A-Z]{1,3}\s?\d{1,4}\s?[A-Z]{0,2}$`)
	whitespace        = regexp.MustCompile(`\s+`)
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// New returns a validator with the campus-specific tags registered:
// personname, studentid, carplate, clock and isodate.
func New() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("personname", func(fl validator.FieldLevel) bool {
		return IsPersonName(fl.Field().String())
	})
	_ = v.RegisterValidation("studentid", func(fl validator.FieldLevel) bool {
		return IsStudentID(fl.Field().String())
	})
	_ = v.RegisterValidation("carplate", func(fl validator.FieldLevel) bool {
		return IsCarPlate(fl.Field().String())
	})
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(ClockLayout, fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(DateLayout, fl.Field().String())
		return err == nil
	})
	return v
}

func IsPersonName(name string) bool {
	name = strings.TrimSpace(name)
	return len(name) >= 2 && personNamePattern.MatchString(name)
}

func IsStudentID(id string) bool {
	return studentIDPattern.MatchString(NormalizeStudentID(id))
}

func IsCarPlate(plate string) bool {
	return carPlatePattern.MatchString(NormalizeCarPlate(plate))
}

func NormalizeStudentID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// NormalizeCarPlate upper-cases and collapses inner whitespace, "wxy  1234 a" -> "WXY 1234 A".
func NormalizeCarPlate(plate string) string {
	return whitespace.ReplaceAllString(strings.ToUpper(strings.TrimSpace(plate)), " ")
}
