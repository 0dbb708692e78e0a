package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studentbook/studentbook/internal/models"
)

func TestNextID(t *testing.T) {
	users := []models.User{{ID: 0}, {ID: 1}, {ID: 3}}
	id := NextID(users, func(u models.User) int { return u.ID })
	assert.Equal(t, 2, id)

	assert.Equal(t, 0, NextID(nil, func(u models.User) int { return u.ID }))
}

func TestLearnerID(t *testing.T) {
	id := LearnerID(2024, 2025, nil, "SY-EY-####")
	assert.Equal(t, "24-25-0001", id)

	users := []models.User{{UserIDStr: id}}
	second := LearnerID(2024, 2025, users, "SY-EY-####")
	assert.Equal(t, "24-25-0002", second)
}

func TestLearnerIDFullYears(t *testing.T) {
	id := LearnerID(2024, 2025, nil, "SYYY-EYYY-##")
	assert.Equal(t, "2024-2025-01", id)
}

func TestLearnerIDWithoutSequencePlaceholder(t *testing.T) {
	users := []models.User{{UserIDStr: "24-25"}}
	id := LearnerID(2024, 2025, users, "SY-EY")
	assert.Equal(t, "24-25", id)
}

func TestLearnerIDIgnoresOtherPrefixes(t *testing.T) {
	users := []models.User{{UserIDStr: "23-24-0009"}}
	id := LearnerID(2024, 2025, users, "SY-EY-####")
	assert.Equal(t, "24-25-0001", id)
}

func TestInstructorID(t *testing.T) {
	id := InstructorID("Maria", "Santos", "Cruz", nil, "")
	assert.Equal(t, "mcruzfaculty", id)

	users := []models.User{{Username: "mcruzfaculty"}}
	dup := InstructorID("Mario", "Silva", "Cruz", users, "")
	assert.Equal(t, "mcruzfaculty01", dup)
}

func TestEmail(t *testing.T) {
	email := Email("Juan", "", "Dela Cruz", "institution.com.edu", nil, "FILN@ED")
	assert.Equal(t, "jdela cruz@institution.com.edu", email)
}

func TestEmailDedupe(t *testing.T) {
	users := []models.User{{Username: "jcruz@institution.com.edu"}}
	email := Email("Juan", "", "Cruz", "institution.com.edu", users, "FILN@ED")
	assert.Equal(t, "jcruz01@institution.com.edu", email)
}

func TestDefaultUsername(t *testing.T) {
	assert.Equal(t, "jcruz", DefaultUsername("Juan", "Cruz", nil))

	users := []models.User{{Username: "jcruz"}, {Username: "jcruz01"}}
	assert.Equal(t, "jcruz02", DefaultUsername("Juan", "Cruz", users))
}

func TestAge(t *testing.T) {
	age, err := Age("2000-01-01")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, age, 24)

	_, err = Age("not-a-date")
	assert.Error(t, err)
}
