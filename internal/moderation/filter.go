// Package moderation проверяет пользовательские тексты на запрещённые слова.
// Фильтр создаётся один раз при старте приложения и передаётся явно.
package moderation

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Tag тег валидатора для модерируемых полей
const Tag = "clean"

// Filter неизменяемый набор запрещённых слов
type Filter struct {
	words map[string]struct{}
}

// NewFilter создаёт фильтр. Слова сравниваются без учёта регистра, пустые игнорируются.
func NewFilter(words []string) *Filter {
	f := &Filter{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			f.words[w] = struct{}{}
		}
	}
	return f
}

// Len количество слов в фильтре
func (f *Filter) Len() int {
	return len(f.words)
}

// Contains проверяет, есть ли в тексте запрещённое слово.
// Текст разбивается на слова по всему, что не буква и не цифра.
func (f *Filter) Contains(text string) bool {
	if len(f.words) == 0 {
		return false
	}

	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	for _, token := range tokens {
		if _, ok := f.words[token]; ok {
			return true
		}
	}
	return false
}

// NewValidator создаёт валидатор с зарегистрированным тегом clean
func NewValidator(filter *Filter, logger *zap.Logger) (*validator.Validate, error) {
	v := validator.New()

	err := v.RegisterValidation(Tag, func(fl validator.FieldLevel) bool {
		return !filter.Contains(fl.Field().String())
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Validator initialized", zap.Int("blocked_words", filter.Len()))

	return v, nil
}
