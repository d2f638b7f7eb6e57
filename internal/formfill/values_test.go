package formfill

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLooksLikeEmail(t *testing.T) {
	cases := map[string]bool{
		"a@b.com":      true,
		"user@mail.io": true,
		"a.b@c":        false,
		"plain":        false,
		"@.":           true,
		"":             false,
	}
	for in, want := range cases {
		assert.Equal(t, want, LooksLikeEmail(in), in)
	}
}

func TestValuesEmailIsDeterministic(t *testing.T) {
	v := Values{"work": "w@corp.com", "home": "h@home.net", "name": "Ann"}

	email, ok := v.Email()
	assert.True(t, ok)
	assert.Equal(t, "h@home.net", email)

	_, ok = Values{"name": "Ann"}.Email()
	assert.False(t, ok)
}

func TestValuesMatchPrefersLongestKey(t *testing.T) {
	v := Values{"name": "Ann Lee", "last_name": "Lee", "Phone": "555"}

	got, ok := v.Match("last_namelnameyour last name")
	assert.True(t, ok)
	assert.Equal(t, "Lee", got)

	got, ok = v.Match("phone_number")
	assert.True(t, ok)
	assert.Equal(t, "555", got)

	_, ok = v.Match("city")
	assert.False(t, ok)
}

func TestReportString(t *testing.T) {
	r := &Report{FormsDetected: 2, FormsSubmitted: 1, Log: []string{"a", "b"}}
	assert.Equal(t, "Detected 2 form(s) across contexts, submitted 1:\na\nb", r.String())
	assert.True(t, r.Succeeded())
}

func TestActionLogPrefixesScope(t *testing.T) {
	l := NewActionLog(nil)
	l.Add("main page", "Filled %s.", "x")
	l.Add("", "plain")

	lines := l.Lines()
	assert.Equal(t, []string{"[main page] Filled x.", "plain"}, lines)

	lines[0] = "changed"
	assert.Equal(t, "[main page] Filled x.", l.Lines()[0])
}
