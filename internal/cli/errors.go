package cli

import (
	"errors"
	"fmt"

	"atomic-checklist/internal/checklist"
	"atomic-checklist/internal/model"
)

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s (try: checklist items --query ...)", e.kind, e.id)
}

func (e notFoundError) Unwrap() error { return checklist.ErrUnknownItem }

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

// errDoctorIssues is returned by doctor --fail when problems were found.
var errDoctorIssues = errors.New("doctor found issues")

// errNeedsConfirm is returned by reset when it cannot prompt.
var errNeedsConfirm = errors.New("reset needs confirmation: pass --yes when not running in a terminal")

// errResetDeclined is returned when the user answers no at the prompt.
var errResetDeclined = errors.New("reset cancelled")

// itemErr maps controller errors to CLI errors for key k.
func itemErr(k model.ItemKey, err error) error {
	if errors.Is(err, checklist.ErrUnknownItem) {
		return errNotFound("item", string(k))
	}
	return err
}
