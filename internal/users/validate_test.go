package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamtrack/backend/internal/models"
)

func validRequest() models.RegisterRequest {
	return models.RegisterRequest{
		Username:   "joelouis",
		FirstName:  "Joe",
		LastName:   "Louis",
		Email:      "joelouis@gmail.com",
		Position:   "CEO",
		Password:   ",123456qwerty",
		RePassword: ",123456qwerty",
	}
}

func TestValidateRegistration_Valid(t *testing.T) {
	assert.Nil(t, ValidateRegistration(validRequest()))
}

func TestValidateRegistration_UsernameWithUnderscore(t *testing.T) {
	req := validRequest()
	req.Username = "joe_louis"
	assert.Nil(t, ValidateRegistration(req))
}

func TestValidateRegistration_UsernameCharset(t *testing.T) {
	for _, username := range []string{"joe.louis", "joe louis", "joe-louis", "joe!"} {
		req := validRequest()
		req.Username = username
		errs := ValidateRegistration(req)
		require.NotNil(t, errs, "username %q should be rejected", username)
		assert.Contains(t, errs[NonFieldErrors],
			"The username must be alphanumeric characters or have only _ symbol")
	}
}

func TestValidateRegistration_FirstNameAlphaOnly(t *testing.T) {
	req := validRequest()
	req.FirstName = "Joe1"
	errs := ValidateRegistration(req)
	require.NotNil(t, errs)
	assert.Contains(t, errs[NonFieldErrors],
		"The first name must contain only alphabet symbols")
}

func TestValidateRegistration_LastNameAlphaOnly(t *testing.T) {
	req := validRequest()
	req.LastName = "Louis1"
	errs := ValidateRegistration(req)
	require.NotNil(t, errs)
	assert.Contains(t, errs[NonFieldErrors],
		"The last name must contain only alphabet symbols")
}

func TestValidateRegistration_PasswordMismatch(t *testing.T) {
	req := validRequest()
	req.RePassword = "qwerty123456,"
	errs := ValidateRegistration(req)
	require.NotNil(t, errs)
	assert.Equal(t, []string{"Passwords don't match"}, errs["password"])
	assert.NotContains(t, errs, NonFieldErrors)
}

func TestValidateRegistration_PasswordMismatchIndependent(t *testing.T) {
	// The confirmation rule reports even when other fields are broken too.
	req := validRequest()
	req.Username = "joe.louis"
	req.RePassword = "different"
	errs := ValidateRegistration(req)
	require.NotNil(t, errs)
	assert.Equal(t, []string{"Passwords don't match"}, errs["password"])
	assert.Contains(t, errs[NonFieldErrors],
		"The username must be alphanumeric characters or have only _ symbol")
}

func TestValidateRegistration_InvalidPosition(t *testing.T) {
	req := validRequest()
	req.Position = "BOSS"
	errs := ValidateRegistration(req)
	require.NotNil(t, errs)
	assert.NotEmpty(t, errs["position"])
}

func TestValidateRegistration_AllPositionsAccepted(t *testing.T) {
	for _, p := range models.Positions {
		req := validRequest()
		req.Position = string(p)
		assert.Nil(t, ValidateRegistration(req), "position %s should be accepted", p)
	}
}

func TestValidateRegistration_MissingLastName(t *testing.T) {
	req := validRequest()
	req.LastName = ""
	errs := ValidateRegistration(req)
	require.NotNil(t, errs)
	assert.Equal(t, []string{"This field is required."}, errs["last_name"])
}

func TestValidateRegistration_InvalidEmail(t *testing.T) {
	for _, email := range []string{"joelouis", "joelouis@example", "@example.com"} {
		req := validRequest()
		req.Email = email
		errs := ValidateRegistration(req)
		require.NotNil(t, errs, "email %q should be rejected", email)
		assert.Contains(t, errs, "email")
	}
}

func TestValidateRegistration_AggregatesAllErrors(t *testing.T) {
	// No short-circuiting: one submission surfaces every violation.
	req := validRequest()
	req.Username = "joe louis"
	req.FirstName = "Joe1"
	req.Email = "joelouis"
	req.RePassword = "other"
	errs := ValidateRegistration(req)
	require.NotNil(t, errs)
	assert.Contains(t, errs, "email")
	assert.Equal(t, []string{"Passwords don't match"}, errs["password"])
	assert.Equal(t, []string{
		"The username must be alphanumeric characters or have only _ symbol",
		"The first name must contain only alphabet symbols",
	}, errs[NonFieldErrors])
}

func TestValidUsername(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"joelouis", true},
		{"joe_louis", true},
		{"JoeLouis99", true},
		{"", true},
		{"joe.louis", false},
		{"joe louis", false},
		{"joe@louis", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.ok, ValidUsername(c.in), "ValidUsername(%q)", c.in)
	}
}

func TestValidAlpha(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"Joe", true},
		{"Joe1", false},
		{"Joe Louis", false},
		{"Joe-Louis", false},
		{"", true},
	}
	for _, c := range cases {
		assert.Equal(t, c.ok, ValidAlpha(c.in), "ValidAlpha(%q)", c.in)
	}
}

func TestValidEmail(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"joelouis@gmail.com", true},
		{"joe.louis@sub.example.com", true},
		{"joelouis", false},
		{"joelouis@example", false},
		{"@example.com", false},
		{"Joe <joelouis@gmail.com>", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.ok, ValidEmail(c.in), "ValidEmail(%q)", c.in)
	}
}
