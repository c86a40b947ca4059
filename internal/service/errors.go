package service

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/haierkeys/locket-service/internal/domain"
	"github.com/haierkeys/locket-service/pkg/code"

	"gorm.io/gorm"
)

const (
	maxURLLength      = 2048
	maxThoughtsLength = 2000
	maxNoteLength     = 2000
	maxStatusLength   = 500
)

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// dbQueryErr keeps code errors as they are and wraps everything else as a query failure.
func dbQueryErr(err error) error {
	var c *code.Code
	if errors.As(err, &c) {
		return err
	}
	return code.ErrorDBQuery.Clone().WithDetails(err.Error())
}

func dbWriteErr(err error) error {
	var c *code.Code
	if errors.As(err, &c) {
		return err
	}
	return code.ErrorDBWrite.Clone().WithDetails(err.Error())
}

// validateURL checks an absolute http(s) URL of at most 2048 characters and returns it trimmed.
func validateURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", code.ErrorLinkURLInvalid.Clone().WithField("url", "The url field is required.")
	}
	if utf8.RuneCountInString(raw) > maxURLLength {
		return "", code.ErrorLinkURLInvalid.Clone().WithField("url", "The url field must not be greater than 2048 characters.")
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", code.ErrorLinkURLInvalid.Clone().WithField("url", "The url field must be a valid URL.")
	}
	return raw, nil
}

// validateHint accepts an empty hint or one of the persisted category names.
func validateHint(field, hint string) error {
	if hint == "" {
		return nil
	}
	if _, ok := parseHint(hint); !ok {
		return code.ErrorLinkCategoryInvalid.Clone().WithField(field, "The selected category hint is invalid.")
	}
	return nil
}

// validateText caps the raw length in runes, then trims and checks the minimum.
func validateText(c *code.Code, field, s string, min, max int) (string, error) {
	if utf8.RuneCountInString(s) > max {
		return "", c.Clone().WithField(field, "The "+field+" field must not be greater than "+strconv.Itoa(max)+" characters.")
	}
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) < min {
		if min <= 1 {
			return "", c.Clone().WithField(field, "The "+field+" field is required.")
		}
		return "", c.Clone().WithField(field, "The "+field+" field must be at least "+strconv.Itoa(min)+" characters.")
	}
	return s, nil
}

func transitionErr(err *domain.TransitionError) error {
	return code.ErrorUserLinkTransition.Clone().WithField("status", err.Error()+".")
}
