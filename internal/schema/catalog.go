package schema

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"sync"
	"text/template"

	"gopkg.in/yaml.v3"

	"evaluator/internal/model"
)

//go:embed questions.yaml
var defaultCatalog []byte

// Replies holds the fixed assistant messages
type Replies struct {
	EmptyInput         string `yaml:"empty_input"`
	Separator          string `yaml:"separator"`
	ContinueDescribing string `yaml:"continue_describing"`
	UnclearAnswer      string `yaml:"unclear_answer"`
	UnclearAttachment  string `yaml:"unclear_attachment"`
	FallbackQuestion   string `yaml:"fallback_question"`
	ExplainFailed      string `yaml:"explain_failed"`
	ResultSummary      string `yaml:"result_summary"`
}

// Prompts holds the system prompts sent to the language model
type Prompts struct {
	Extraction          string `yaml:"extraction"`
	WholeSectionContext string `yaml:"whole_section_context"`
	FieldContext        string `yaml:"field_context"`
	Attachment          string `yaml:"attachment"`
	Intent              string `yaml:"intent"`
	Concept             string `yaml:"concept"`
}

// Catalog is the conversation copy: questions, guidance, replies and prompts
type Catalog struct {
	Greeting           string                   `yaml:"greeting"`
	Replies            Replies                  `yaml:"replies"`
	AttachmentTemplate string                   `yaml:"attachment_question"`
	Questions          map[model.Field]string   `yaml:"questions"`
	Guidance           map[model.Section]string `yaml:"guidance"`
	Product            string                   `yaml:"product"`
	Prompts            Prompts                  `yaml:"prompts"`

	extraction   *template.Template
	wholeSection *template.Template
	fieldContext *template.Template
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default returns the embedded catalogue. It panics if the embedded file is
// broken, which the package tests guard against.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := ParseCatalog(defaultCatalog)
		if err != nil {
			panic(fmt.Sprintf("schema: embedded catalogue: %v", err))
		}
		defaultCat = c
	})
	return defaultCat
}

// ParseCatalog decodes a YAML catalogue and checks it covers every field.
// Unknown keys are rejected.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to parse catalogue: %w", err)
	}

	for _, f := range specs {
		if strings.TrimSpace(c.Questions[f.Field]) == "" {
			return nil, fmt.Errorf("catalogue has no question for %s", f.Field)
		}
	}
	for _, s := range model.Sections {
		if strings.TrimSpace(c.Guidance[s]) == "" {
			return nil, fmt.Errorf("catalogue has no guidance for %s", s)
		}
	}
	if !strings.Contains(c.AttachmentTemplate, "%s") {
		return nil, fmt.Errorf("attachment question must contain a %%s side placeholder")
	}

	funcs := template.FuncMap{"join": strings.Join}
	var err error
	if c.extraction, err = template.New("extraction").Funcs(funcs).Parse(c.Prompts.Extraction); err != nil {
		return nil, fmt.Errorf("failed to parse extraction prompt: %w", err)
	}
	if c.wholeSection, err = template.New("whole_section").Parse(c.Prompts.WholeSectionContext); err != nil {
		return nil, fmt.Errorf("failed to parse section context prompt: %w", err)
	}
	if c.fieldContext, err = template.New("field").Parse(c.Prompts.FieldContext); err != nil {
		return nil, fmt.Errorf("failed to parse field context prompt: %w", err)
	}
	return &c, nil
}

// Question returns the text asked for a missing field. A whole-section
// sentinel gets the section guidance.
func (c *Catalog) Question(ref model.FieldRef) string {
	if ref.IsWholeSection() {
		if g, ok := c.Guidance[ref.Section]; ok {
			return g
		}
		return "Could you tell me more?"
	}
	if q, ok := c.Questions[ref.Field]; ok {
		return q
	}
	return fmt.Sprintf(c.Replies.FallbackQuestion, ref.Field.Label())
}

// AttachmentQuestion returns the follow-up asked for an attached side
func (c *Catalog) AttachmentQuestion(side model.Side) string {
	return fmt.Sprintf(c.AttachmentTemplate, side.Label())
}

// WithFollowUp appends the next question to a reply using the separator
func (c *Catalog) WithFollowUp(reply, followUp string) string {
	if followUp == "" {
		return reply
	}
	return reply + c.Replies.Separator + followUp
}

// ExtractionPrompt renders the extractor system prompt. ref is the last
// asked field, or nil when nothing has been asked yet.
func (c *Catalog) ExtractionPrompt(ref *model.FieldRef, question string) (string, error) {
	var b strings.Builder
	if err := c.extraction.Execute(&b, struct{ Fields []FieldSpec }{Fields: specs}); err != nil {
		return "", fmt.Errorf("failed to render extraction prompt: %w", err)
	}
	if ref == nil {
		return b.String(), nil
	}

	b.WriteString("\n")
	data := struct {
		Section  model.Section
		Field    model.Field
		Question string
	}{ref.Section, ref.Field, question}

	tmpl := c.fieldContext
	if ref.IsWholeSection() {
		tmpl = c.wholeSection
	}
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("failed to render context prompt: %w", err)
	}
	return b.String(), nil
}
