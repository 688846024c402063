package service

import (
	"errors"
	"strings"
	"unicode"

	"codestats-proxy/internal/domain"

	"github.com/go-playground/validator/v10"
)

const usageHint = "Usage: /api/get-score?platform=leetcode&username=foo"

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("platform", validatePlatform)
	_ = v.RegisterValidation("username", validateUsername)
	return v
}

func validatePlatform(fl validator.FieldLevel) bool {
	_, err := domain.ParsePlatform(fl.Field().String())
	return err == nil
}

// Usernames are forwarded into upstream URLs and cache keys, so control
// characters and surrounding whitespace are refused.
func validateUsername(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if strings.TrimSpace(s) != s {
		return false
	}
	return strings.IndexFunc(s, unicode.IsControl) < 0
}

// requestError turns the first validation failure into a client-facing
// BadRequest.
func requestError(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return domain.BadRequest("invalid request")
	}

	e := errs[0]
	field := strings.ToLower(e.Field())
	switch e.Tag() {
	case "required":
		return domain.BadRequest("Missing required parameter %q. %s", field, usageHint)
	case "platform":
		return domain.BadRequest("invalid platform %q, use: leetcode, codechef, hackerrank, gfg", e.Value())
	case "max":
		return domain.BadRequest("%s must be at most %s characters", field, e.Param())
	case "username":
		return domain.BadRequest("username contains invalid characters")
	default:
		return domain.BadRequest("invalid %s", field)
	}
}
