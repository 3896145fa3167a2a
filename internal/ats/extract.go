package ats

import (
	"encoding/json"
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"go-autoapply-engine/internal/browser"
	"go-autoapply-engine/internal/models"
)

// Field discovery runs inside the page: walk every input/textarea/select,
// resolve its label, group radios by name, and emit a stable selector for
// each control. Returned as a JSON array so the Go side stays parseable
// without DOM access.
const extractFieldsScript = `(() => {
	const fields = [];
	const radioGroups = {};
	let anon = 0;

	const labelFor = (el) => {
		if (el.id) {
			const label = document.querySelector('label[for="' + CSS.escape(el.id) + '"]');
			if (label && label.textContent.trim()) return label.textContent.trim();
		}
		const wrapping = el.closest('label');
		if (wrapping && wrapping.textContent.trim()) return wrapping.textContent.trim();
		const aria = el.getAttribute('aria-label');
		if (aria) return aria.trim();
		const container = el.closest('.field, .form-group, .application-question, li, fieldset');
		if (container) {
			const label = container.querySelector('label, legend, .application-label, .text');
			if (label && label.textContent.trim()) return label.textContent.trim();
		}
		return '';
	};

	const selectorFor = (el) => {
		if (el.id) return '#' + CSS.escape(el.id);
		if (el.name) return el.tagName.toLowerCase() + '[name="' + el.name + '"]';
		el.setAttribute('data-af-idx', anon);
		return '[data-af-idx="' + (anon++) + '"]';
	};

	document.querySelectorAll('input, textarea, select').forEach((el) => {
		const type = (el.type || '').toLowerCase();
		if (['hidden', 'submit', 'button', 'image', 'reset'].includes(type)) return;
		if (el.offsetParent === null && type !== 'file') return;

		if (type === 'radio' || (type === 'checkbox' && el.name)) {
			const key = type + ':' + el.name;
			let group = radioGroups[key];
			if (!group) {
				group = {
					tag: 'input', type: type, name: el.name, id: '',
					label: '', placeholder: '', required: el.required,
					options: [], values: [],
					selector: 'input[name="' + el.name + '"]'
				};
				const fs = el.closest('fieldset, .field, .form-group, .application-question');
				if (fs) {
					const legend = fs.querySelector('legend, label, .application-label');
					if (legend) group.label = legend.textContent.trim();
				}
				radioGroups[key] = group;
				fields.push(group);
			}
			group.options.push(labelFor(el) || el.value);
			group.values.push(el.value);
			return;
		}

		const field = {
			tag: el.tagName.toLowerCase(), type: type,
			name: el.name || '', id: el.id || '',
			label: labelFor(el), placeholder: el.placeholder || '',
			required: el.required || el.getAttribute('aria-required') === 'true',
			options: [], values: [],
			selector: selectorFor(el)
		};
		if (el.tagName === 'SELECT') {
			Array.from(el.options).forEach((opt) => {
				if (opt.value) {
					field.options.push(opt.text.trim());
					field.values.push(opt.value);
				}
			});
		}
		fields.push(field);
	});

	return JSON.stringify(fields);
})()`

// rawField mirrors one entry of the in-page extraction result.
type rawField struct {
	Tag         string   `json:"tag"`
	Type        string   `json:"type"`
	Name        string   `json:"name"`
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	Placeholder string   `json:"placeholder"`
	Required    bool     `json:"required"`
	Options     []string `json:"options"`
	Values      []string `json:"values"`
	Selector    string   `json:"selector"`
}

func extractFields(page browser.Page) ([]rawField, error) {
	result, err := page.Evaluate(extractFieldsScript)
	if err != nil {
		return nil, fmt.Errorf("field extraction failed: %w", err)
	}
	if strings.TrimSpace(result) == "" {
		return nil, nil
	}

	var raws []rawField
	if err := json.Unmarshal([]byte(result), &raws); err != nil {
		return nil, fmt.Errorf("could not parse extracted fields: %w", err)
	}
	return raws, nil
}

func kindOf(raw rawField) models.FieldKind {
	if raw.Tag == "textarea" {
		return models.FieldTextarea
	}
	if raw.Tag == "select" {
		return models.FieldSelect
	}
	switch raw.Type {
	case "email":
		return models.FieldEmail
	case "tel":
		return models.FieldPhone
	case "file":
		return models.FieldFile
	case "radio":
		return models.FieldRadio
	case "checkbox":
		return models.FieldCheckbox
	case "date":
		return models.FieldDate
	case "number":
		return models.FieldNumber
	default:
		return models.FieldText
	}
}

func displayLabel(raw rawField) string {
	for _, candidate := range []string{raw.Label, raw.Placeholder, raw.Name} {
		if strings.TrimSpace(candidate) != "" {
			return strings.TrimSpace(candidate)
		}
	}
	return ""
}

// buildAnalysis turns the extracted controls into the structural form model:
// mapped fields, file-upload presence, and the custom-question list.
func buildAnalysis(raws []rawField) *models.FormAnalysis {
	analysis := &models.FormAnalysis{}
	seen := mapset.NewSet[string]()

	for _, raw := range raws {
		if raw.Selector == "" || !seen.Add(raw.Selector) {
			continue
		}

		kind := kindOf(raw)
		label := displayLabel(raw)
		field := models.FieldInfo{
			Kind:     kind,
			Selector: raw.Selector,
			Label:    label,
			Required: raw.Required,
			Options:  raw.Options,
		}

		if kind == models.FieldFile {
			analysis.HasFileUpload = true
			analysis.Fields = append(analysis.Fields, field)
			continue
		}

		if attr, ok := MapLabel(label, kind); ok {
			field.MappedField = attr
		} else if LooksLikeQuestion(label, kind, raw.Options) {
			analysis.CustomQuestions = append(analysis.CustomQuestions, models.CustomQuestion{
				Question: label,
				Selector: raw.Selector,
				Kind:     kind,
				Options:  raw.Options,
				Required: raw.Required,
			})
		}
		analysis.Fields = append(analysis.Fields, field)
	}

	return analysis
}
