package formfill

import (
	"regexp"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const longForm = `<html><body><form>
<input name="user_email">
<input name="contact_email" placeholder="Your email">
<input type="tel" name="t">
<input type="password" name="p">
<input type="date" name="d">
<input name="full_name">
<textarea name="message"></textarea>
<input name="zz" pattern="[0-9]{10}">
<input name="yy" pattern="[a-zA-Z]+">
<input type="number" name="n">
<input type="url" name="site">
<input name="qq">
</form></body></html>`

func TestClassifyEmailPriority(t *testing.T) {
	p := openPage(t, "https://c.test/", map[string]string{"https://c.test/": longForm})
	c := NewClassifier(p, NewSynth(1))

	maps := []Values{
		{"name": "Bob", "contact": "a@b.co"},
		{"user": "bob", "email": "bob@site.org"},
		{"username": "root", "mail": "x@y.z"},
	}
	for _, values := range maps {
		for _, name := range []string{"user_email", "contact_email"} {
			got := c.Classify(find(t, p, "//*[@name='"+name+"']"), values)
			assert.True(t, LooksLikeEmail(got), "%s got %q", name, got)
		}
	}
}

func TestClassifyDirectKeyMatch(t *testing.T) {
	p := openPage(t, "https://c.test/", map[string]string{"https://c.test/": longForm})
	c := NewClassifier(p, NewSynth(1))

	got := c.Classify(find(t, p, "//*[@name='full_name']"), Values{"Name": "Ann Lee"})
	assert.Equal(t, "Ann Lee", got)
}

func TestClassifyShortForm(t *testing.T) {
	page := `<html><body><form>
<input name="login"><input type="password" name="pw"><input type="submit" value="Go">
</form></body></html>`
	p := openPage(t, "https://s.test/", map[string]string{"https://s.test/": page})
	c := NewClassifier(p, NewSynth(1))
	pw := find(t, p, "//input[@name='pw']")

	assert.Equal(t, "a@b.co", c.Classify(pw, Values{"email": "a@b.co"}))
	assert.Equal(t, "neo", c.Classify(pw, Values{"username": "neo"}))

	got := c.Classify(pw, nil)
	assert.Equal(t, 12, utf8.RuneCountInString(got))
}

func TestClassifySyntheticByKind(t *testing.T) {
	p := openPage(t, "https://c.test/", map[string]string{"https://c.test/": longForm})
	c := NewClassifier(p, NewSynth(7))
	classify := func(name string) string {
		return c.Classify(find(t, p, "//*[@name='"+name+"']"), nil)
	}

	assert.True(t, LooksLikeEmail(classify("contact_email")))
	assert.NotEmpty(t, classify("t"))
	assert.Len(t, classify("p"), 12)

	_, err := time.Parse("2006-01-02", classify("d"))
	require.NoError(t, err)

	assert.NotEmpty(t, classify("full_name"))
	assert.NotEmpty(t, classify("message"))
	assert.Regexp(t, regexp.MustCompile(`^\d{10}$`), classify("zz"))
	assert.NotEmpty(t, classify("yy"))
	assert.Regexp(t, regexp.MustCompile(`^\d+$`), classify("n"))
	assert.NotEmpty(t, classify("site"))

	short := classify("qq")
	assert.NotEmpty(t, short)
	assert.LessOrEqual(t, utf8.RuneCountInString(short), shortTextLimit)
}

func TestDescribeIdentity(t *testing.T) {
	p := openPage(t, "https://c.test/", map[string]string{"https://c.test/": longForm})

	f := Describe(find(t, p, "//*[@name='contact_email']"))
	assert.Equal(t, "input", f.Tag)
	assert.Equal(t, "", f.Type)
	assert.Equal(t, "contact_emailyour email", f.Identity())
	assert.Equal(t, "input", f.Kind())

	f = Describe(find(t, p, "//textarea"))
	assert.Equal(t, "textarea", f.Kind())
}
