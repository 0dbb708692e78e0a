// Package identity generates display identifiers, usernames and emails
// from the institution's configurable format patterns.
package identity

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/studentbook/studentbook/internal/models"
)

// DefaultIDFormat is the shipped learner id pattern. SY/EY expand to the
// last two digits of the academic years, SYYY/EYYY to the full years, and
// a run of '#' to a zero-padded per-prefix sequence number.
const DefaultIDFormat = "SY-EY-####"

// DefaultEmailFormat expands FI/MI/LI (initials), FN/MN/LN (full names)
// and ED (email domain).
const DefaultEmailFormat = "FILN@ED"

// NextID returns the first unused id starting at 0, scanning ascending.
// Backends never assign ids; callers feed the current collection through
// this before every insert.
func NextID[T any](items []T, id func(T) int) int {
	next := 0
	for {
		used := false
		for _, item := range items {
			if id(item) == next {
				used = true
				break
			}
		}
		if !used {
			return next
		}
		next++
	}
}

// LearnerID builds a display id for a new learner from the academic year
// and the configured format, continuing the sequence of the last learner
// sharing the same year prefix.
func LearnerID(startYear, endYear int, users []models.User, format string) string {
	if format == "" {
		format = DefaultIDFormat
	}

	id := format
	id = strings.ReplaceAll(id, "SYYY", strconv.Itoa(startYear))
	id = strings.ReplaceAll(id, "EYYY", strconv.Itoa(endYear))
	id = strings.ReplaceAll(id, "SY", lastTwo(startYear))
	id = strings.ReplaceAll(id, "EY", lastTwo(endYear))

	count := strings.Count(format, "#")
	if count == 0 {
		return id
	}
	hashes := strings.Repeat("#", count)
	prefix := strings.ReplaceAll(id, hashes, "")

	last := 0
	for _, u := range users {
		if !strings.HasPrefix(u.UserIDStr, prefix) {
			continue
		}
		parts := strings.Split(u.UserIDStr, "-")
		n, err := strconv.Atoi(parts[len(parts)-1])
		if err == nil && n > last {
			last = n
		}
	}

	seq := fmt.Sprintf("%0*d", count, last+1)
	return strings.ReplaceAll(id, hashes, seq)
}

func lastTwo(year int) string {
	s := strconv.Itoa(year)
	if len(s) < 2 {
		return s
	}
	return s[len(s)-2:]
}

// InstructorID builds a lowercase username-style id for an instructor,
// appending a numeric suffix when the result collides with an existing
// username.
func InstructorID(firstName, middleName, lastName string, users []models.User, format string) string {
	if format == "" {
		format = "FILNfaculty"
	}

	id := expandNames(format, firstName, middleName, lastName)

	if count := strings.Count(format, "#"); count > 0 {
		instructors := 0
		for _, u := range users {
			if u.Role == models.RoleInstructor {
				instructors++
			}
		}
		seq := fmt.Sprintf("%0*d", count, instructors+1)
		id = strings.ReplaceAll(id, strings.Repeat("#", count), seq)
	}

	return dedupe(strings.ToLower(id), users)
}

// Email builds an institutional email address from the configured format
// and domain, deduplicated against existing usernames.
func Email(firstName, middleName, lastName, domain string, users []models.User, format string) string {
	if format == "" {
		format = DefaultEmailFormat
	}

	email := expandNames(format, firstName, middleName, lastName)
	email = strings.ReplaceAll(email, "ED", domain)
	email = strings.ToLower(email)

	count := 0
	candidate := email
	for usernameTaken(candidate, users) {
		count++
		candidate = strings.Replace(email, "@", fmt.Sprintf("%02d@", count), 1)
	}
	return candidate
}

func expandNames(format, firstName, middleName, lastName string) string {
	out := format
	out = strings.ReplaceAll(out, "FN", firstName)
	out = strings.ReplaceAll(out, "MN", middleName)
	out = strings.ReplaceAll(out, "LN", lastName)
	out = strings.ReplaceAll(out, "FI", initial(firstName))
	out = strings.ReplaceAll(out, "MI", initial(middleName))
	out = strings.ReplaceAll(out, "LI", initial(lastName))
	return out
}

func initial(name string) string {
	if name == "" {
		return ""
	}
	return string([]rune(name)[0])
}

// DefaultUsername is first initial plus last name, lowercased and
// deduplicated with a numeric suffix.
func DefaultUsername(firstName, lastName string, users []models.User) string {
	base := strings.ToLower(initial(firstName) + lastName)
	return dedupe(base, users)
}

func dedupe(base string, users []models.User) string {
	candidate := base
	count := 0
	for usernameTaken(candidate, users) {
		count++
		candidate = fmt.Sprintf("%s%02d", base, count)
	}
	return candidate
}

func usernameTaken(name string, users []models.User) bool {
	for _, u := range users {
		if u.Username == name {
			return true
		}
	}
	return false
}

// Age computes the whole-year age for a YYYY-MM-DD birth date.
func Age(birthDate string) (int, error) {
	born, err := time.Parse("2006-01-02", birthDate)
	if err != nil {
		return 0, fmt.Errorf("parse birth date: %w", err)
	}
	now := time.Now()
	age := now.Year() - born.Year()
	if born.AddDate(age, 0, 0).After(now) {
		age--
	}
	return age, nil
}
