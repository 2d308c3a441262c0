package service

import (
	"strings"
	"unicode/utf8"

	"github.com/99minutos/places-api/internal/core/domain"
)

const maxNameLength = 255

// ownerOf returns the ID every scoped operation filters on. A missing
// account means the request bypassed authentication.
func ownerOf(account *domain.Account) (int64, error) {
	if account == nil || account.ID == 0 {
		return 0, domain.ErrUnauthenticated
	}
	return account.ID, nil
}

// cleanName trims name and records a field error on ve when it is blank or
// too long.
func cleanName(ve *domain.ValidationError, name string) string {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		ve.Add("name", "This field may not be blank.")
	case utf8.RuneCountInString(name) > maxNameLength:
		ve.Add("name", "Ensure this field has no more than 255 characters.")
	}
	return name
}
