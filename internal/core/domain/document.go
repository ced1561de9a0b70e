package domain

// Document is an uploaded file. Data is never modified after upload.
type Document struct {
	Filename string
	Data     []byte
}

func (d Document) Size() int {
	return len(d.Data)
}

type Style string

const (
	StyleProfessional Style = "professional"
	StyleSimple       Style = "simple"

	DefaultStyle = StyleProfessional
)

type Language string

const (
	LanguageEN Language = "EN"
	LanguageID Language = "ID"
	LanguageCN Language = "CN"
	LanguageJP Language = "JP"
	LanguageKR Language = "KR"

	DefaultLanguage = LanguageEN
)

// Extraction is the text pulled out of a document plus page bookkeeping.
type Extraction struct {
	Text         string
	Pages        int
	SkippedPages []int
}

type Summary struct {
	Text         string   `json:"summary"`
	Style        Style    `json:"style"`
	Language     Language `json:"language"`
	Model        string   `json:"model"`
	Truncated    bool     `json:"truncated"`
	Pages        int      `json:"pages"`
	SkippedPages []int    `json:"skipped_pages"`
}
