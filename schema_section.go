// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/docc4llm

package docc4llm

import "encoding/json"

// Section is one entry of a document's primaryContentSections.
type Section interface {
	// Kind returns the raw "kind" discriminator.
	Kind() string

	isSection()
}

// DeclarationsSection lists symbol declarations grouped by platform.
type DeclarationsSection struct {
	Declarations []Declaration
}

// Declaration is one declaration signature.
type Declaration struct {
	Platforms []string
	Languages []string
	Tokens    []Fragment
}

// Fragment is one typed token of a declaration signature.
type Fragment struct {
	Kind              string
	Text              string
	Identifier        string
	PreciseIdentifier string
}

// ParametersSection lists documented parameters.
type ParametersSection struct {
	Parameters []Parameter
}

// Parameter is one documented parameter.
type Parameter struct {
	Name    string
	Content []Content
}

// ContentSection carries free-form content such as an article overview.
type ContentSection struct {
	Content []Content
}

// TasksSection carries tutorial tasks.
type TasksSection struct {
	Tasks []Task
}

// Task is one tutorial task with its ordered steps.
type Task struct {
	Title  string
	Anchor string
	Steps  []Content
}

// MentionsSection lists documents mentioning the current symbol.
type MentionsSection struct {
	Mentions []string
}

// UnsupportedSection is the inert variant for unknown section kinds.
type UnsupportedSection struct {
	RawKind string
}

// TopicSection groups child references under a title.
type TopicSection struct {
	Title       string
	Anchor      string
	Identifiers []string
	Abstract    []InlineContent
}

func (DeclarationsSection) Kind() string { return "declarations" }
func (ParametersSection) Kind() string { return "parameters" }
func (ContentSection) Kind() string { return "content" }
func (TasksSection) Kind() string { return "tasks" }
func (MentionsSection) Kind() string { return "mentions" }
func (s UnsupportedSection) Kind() string { return s.RawKind }

func (DeclarationsSection) isSection() {}
func (ParametersSection) isSection() {}
func (ContentSection) isSection() {}
func (TasksSection) isSection() {}
func (MentionsSection) isSection() {}
func (UnsupportedSection) isSection() {}

// fragmentPayload is the wire shape of a declaration token.
type fragmentPayload struct {
	Kind              string `json:"kind"`
	Text              string `json:"text"`
	Identifier        string `json:"identifier"`
	PreciseIdentifier string `json:"preciseIdentifier"`
}

// decodeSectionList decodes primary content sections in source order.
func decodeSectionList(raw json.RawMessage) []Section {
	items := rawList(raw)
	if items == nil {
		return nil
	}

	out := make([]Section, 0, len(items))
	for _, item := range items {
		out = append(out, decodeSection(item))
	}

	return out
}

// decodeSection decodes one primary section by its "kind" discriminator.
func decodeSection(raw json.RawMessage) Section {
	tag, ok := discriminator(raw, "kind")
	if !ok {
		return UnsupportedSection{}
	}

	switch tag {
	case "declarations":
		payload, ok := decodePayload[struct {
			Declarations []struct {
				Platforms []string          `json:"platforms"`
				Languages []string          `json:"languages"`
				Tokens    []fragmentPayload `json:"tokens"`
			} `json:"declarations"`
		}](raw)
		if ok {
			section := DeclarationsSection{Declarations: make([]Declaration, 0, len(payload.Declarations))}
			for _, item := range payload.Declarations {
				section.Declarations = append(section.Declarations, Declaration{
					Platforms: item.Platforms,
					Languages: item.Languages,
					Tokens:    convertFragments(item.Tokens),
				})
			}

			return section
		}
	case "parameters":
		payload, ok := decodePayload[struct {
			Parameters []struct {
				Name    string          `json:"name"`
				Content json.RawMessage `json:"content"`
			} `json:"parameters"`
		}](raw)
		if ok {
			section := ParametersSection{Parameters: make([]Parameter, 0, len(payload.Parameters))}
			for _, item := range payload.Parameters {
				section.Parameters = append(section.Parameters, Parameter{
					Name:    item.Name,
					Content: decodeContentList(item.Content),
				})
			}

			return section
		}
	case "content":
		payload, ok := decodePayload[struct {
			Content json.RawMessage `json:"content"`
		}](raw)
		if ok {
			return ContentSection{Content: decodeContentList(payload.Content)}
		}
	case "tasks":
		payload, ok := decodePayload[struct {
			Tasks []struct {
				Title        string          `json:"title"`
				Anchor       string          `json:"anchor"`
				StepsSection json.RawMessage `json:"stepsSection"`
			} `json:"tasks"`
		}](raw)
		if ok {
			section := TasksSection{Tasks: make([]Task, 0, len(payload.Tasks))}
			for _, item := range payload.Tasks {
				section.Tasks = append(section.Tasks, Task{
					Title:  item.Title,
					Anchor: item.Anchor,
					Steps:  decodeContentList(item.StepsSection),
				})
			}

			return section
		}
	case "mentions":
		payload, ok := decodePayload[struct {
			Mentions json.RawMessage `json:"mentions"`
		}](raw)
		if ok {
			return MentionsSection{Mentions: stringList(payload.Mentions)}
		}
	}

	return UnsupportedSection{RawKind: tag}
}

// decodeTopicSections decodes topic or see-also sections; malformed entries are dropped.
func decodeTopicSections(raw json.RawMessage) []TopicSection {
	items := rawList(raw)
	if items == nil {
		return nil
	}

	out := make([]TopicSection, 0, len(items))
	for _, item := range items {
		payload, ok := decodePayload[struct {
			Title       string          `json:"title"`
			Anchor      string          `json:"anchor"`
			Identifiers json.RawMessage `json:"identifiers"`
			Abstract    json.RawMessage `json:"abstract"`
		}](item)
		if !ok {
			continue
		}

		out = append(out, TopicSection{
			Title:       payload.Title,
			Anchor:      payload.Anchor,
			Identifiers: stringList(payload.Identifiers),
			Abstract:    decodeInlineList(payload.Abstract),
		})
	}

	return out
}

// convertFragments maps wire tokens into exported fragments.
func convertFragments(tokens []fragmentPayload) []Fragment {
	if tokens == nil {
		return nil
	}

	out := make([]Fragment, 0, len(tokens))
	for _, token := range tokens {
		out = append(out, Fragment(token))
	}

	return out
}
