package prompt

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/kirillkom/pdf-summarizer/internal/core/domain"
)

//go:embed templates.yaml
var builtinTemplates []byte

var builtinStore = mustParse(builtinTemplates)

// Template is an instruction text bound to exactly one style and language.
type Template struct {
	Style    domain.Style
	Language domain.Language
	Text     string
}

type key struct {
	style    domain.Style
	language domain.Language
}

// bcp47 maps the closed language keys to tags so that inputs like "ko-KR" resolve.
var bcp47 = map[domain.Language]language.Tag{
	domain.LanguageEN: language.English,
	domain.LanguageID: language.Indonesian,
	domain.LanguageCN: language.Chinese,
	domain.LanguageJP: language.Japanese,
	domain.LanguageKR: language.Korean,
}

// Store is an immutable (style, language) -> Template mapping. Safe for concurrent use.
type Store struct {
	templates map[key]Template
	styles    []domain.Style
	languages []domain.Language

	matcher     language.Matcher
	matcherKeys []domain.Language
}

// Builtin returns the store compiled into the binary.
func Builtin() *Store {
	return builtinStore
}

// LoadFile builds a store from a YAML file laid out like the builtin templates.
func LoadFile(path string) (*Store, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read templates file: %w", err)
	}
	return Parse(raw)
}

// Parse builds a store from YAML of the form style -> language -> text.
// The professional/EN pair must be present.
func Parse(raw []byte) (*Store, error) {
	var doc map[string]map[string]string
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode templates: %w", err)
	}

	s := &Store{templates: make(map[key]Template)}
	seenLang := make(map[domain.Language]bool)
	for rawStyle, byLang := range doc {
		style := domain.Style(strings.ToLower(strings.TrimSpace(rawStyle)))
		if style == "" {
			return nil, fmt.Errorf("decode templates: empty style key")
		}
		s.styles = append(s.styles, style)
		for rawLang, text := range byLang {
			lang := domain.Language(strings.ToUpper(strings.TrimSpace(rawLang)))
			if lang == "" {
				return nil, fmt.Errorf("decode templates: empty language key under %q", style)
			}
			if strings.TrimSpace(text) == "" {
				return nil, fmt.Errorf("decode templates: empty template %s/%s", style, lang)
			}
			s.templates[key{style, lang}] = Template{Style: style, Language: lang, Text: text}
			if !seenLang[lang] {
				seenLang[lang] = true
				s.languages = append(s.languages, lang)
			}
		}
	}
	if _, ok := s.templates[key{domain.DefaultStyle, domain.DefaultLanguage}]; !ok {
		return nil, fmt.Errorf("decode templates: missing default template %s/%s", domain.DefaultStyle, domain.DefaultLanguage)
	}

	slices.Sort(s.styles)
	slices.Sort(s.languages)

	var tags []language.Tag
	for _, lang := range s.languages {
		if tag, ok := bcp47[lang]; ok {
			tags = append(tags, tag)
			s.matcherKeys = append(s.matcherKeys, lang)
		}
	}
	if len(tags) > 0 {
		s.matcher = language.NewMatcher(tags)
	}
	return s, nil
}

func mustParse(raw []byte) *Store {
	s, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return s
}

// Lookup resolves exact (style, language), then (style, EN), then (professional, EN).
func (s *Store) Lookup(style domain.Style, lang domain.Language) Template {
	if t, ok := s.templates[key{style, lang}]; ok {
		return t
	}
	if t, ok := s.templates[key{style, domain.DefaultLanguage}]; ok {
		return t
	}
	return s.templates[key{domain.DefaultStyle, domain.DefaultLanguage}]
}

// Resolve parses raw request keys and looks the template up.
func (s *Store) Resolve(rawStyle, rawLanguage string) Template {
	return s.Lookup(s.ParseStyle(rawStyle), s.ParseLanguage(rawLanguage))
}

// ParseStyle normalises a raw style key. Unknown keys are returned as-is
// so that Lookup applies the fallback chain.
func (s *Store) ParseStyle(raw string) domain.Style {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.DefaultStyle
	}
	style := domain.Style(strings.ToLower(raw))
	if slices.Contains(s.styles, style) {
		return style
	}
	return domain.Style(raw)
}

// ParseLanguage accepts the closed keys in any case and BCP-47 tags
// ("ko-KR", "zh", "ja") that match a supported language with high confidence.
func (s *Store) ParseLanguage(raw string) domain.Language {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.DefaultLanguage
	}
	lang := domain.Language(strings.ToUpper(raw))
	if slices.Contains(s.languages, lang) {
		return lang
	}
	if s.matcher == nil {
		return domain.Language(raw)
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return domain.Language(raw)
	}
	_, idx, conf := s.matcher.Match(tag)
	if conf < language.High {
		return domain.Language(raw)
	}
	return s.matcherKeys[idx]
}

func (s *Store) Styles() []domain.Style {
	return slices.Clone(s.styles)
}

func (s *Store) Languages() []domain.Language {
	return slices.Clone(s.languages)
}
