package formfill

import (
	"strings"

	"github.com/brianvoe/gofakeit/v6"
)

const shortTextLimit = 20

// Synth генерирует правдоподобные данные для полей без значения.
type Synth struct {
	faker *gofakeit.Faker
}

// NewSynth с seed 0 берет случайный seed.
func NewSynth(seed int64) *Synth {
	return &Synth{faker: gofakeit.New(seed)}
}

func (s *Synth) Email() string {
	return s.faker.Email()
}

func (s *Synth) Phone() string {
	return s.faker.Phone()
}

func (s *Synth) Password() string {
	return s.faker.Password(true, true, true, false, false, 12)
}

func (s *Synth) Date() string {
	return s.faker.Date().Format("2006-01-02")
}

func (s *Synth) Name() string {
	return s.faker.Name()
}

func (s *Synth) Paragraph() string {
	return s.faker.Paragraph(1, 2, 8, " ")
}

func (s *Synth) Address() string {
	return s.faker.Address().Address
}

func (s *Synth) Word() string {
	return s.faker.Word()
}

func (s *Synth) URL() string {
	return s.faker.URL()
}

func (s *Synth) Digits(n int) string {
	return s.faker.Numerify(strings.Repeat("#", n))
}

func (s *Synth) ShortText() string {
	r := []rune(s.faker.Sentence(3))
	if len(r) > shortTextLimit {
		r = r[:shortTextLimit]
	}
	return strings.TrimSpace(string(r))
}
