// Package prompt renders the text-to-image prompts for each label type from
// brand assets and the per-unit region/flavor/attribute parameters.
package prompt

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/wudi/labelkit/brand"
)

// Label type identifiers accepted across the pipeline.
const (
	FrontLabel = "front_label"
	BackLabel  = "back_label"
	Wraparound = "wraparound"
)

// LabelTypes lists the supported label types in generation order.
var LabelTypes = []string{FrontLabel, BackLabel, Wraparound}

var templates = map[string]*template.Template{
	FrontLabel: mustParse(FrontLabel, `Design a vibrant, modern {{.Attribute}} edition of an {{.Product}} packaging design that's highly specialized
specifically for {{.Audience}} in the {{.Region}} market using the following parameters:

Title: "{{.BrandName}}"
Subtitle: "{{.Subtitle}}"
Logo Description: {{.LogoDescription}}
Net Volume (bottom of product): "{{.NetVolume}}"

Font: {{.FontStyle}}
Tagline: "{{.Tagline}}"

Key Attributes:
{{.KeyAttributesList}}

Flavor: "{{.Flavor}}"
Net Volume: "{{.NetVolume}}"

Regulatory Info:
{{.RegulatoryText}}

Write in clear language. Only latin characters and numbers. Only complete words, and measurements.
Be consistent across products. Do not forget to add the Regulatory Info.`),

	BackLabel: mustParse(BackLabel, `Design a vibrant, modern nutritional facts label and ingredient list packaging design that's highly specialized
specifically for {{.Audience}} in the {{.Region}} market using the following parameters:

Region: {{.Region}}
Audience: {{.Audience}}
Market: {{.Attribute}}

Ingredients List (English): {{.Ingredients}}

Allergen Info:
Contains: None. Made in a facility that processes tree nuts.

Nutrition Facts (per can): {{.NutritionalFacts}}

QR Code:
Links to "How We Prevented Creative Burnout" blog.

Regulatory Info:
{{.RegulatoryText}}

Write in clear language. Only complete words, and measurements.
Be consistent across products. Do not forget to add the Regulatory Info.`),

	Wraparound: mustParse(Wraparound, `Design a wraparound label for vibrant, modern {{.Attribute}} edition of an {{.Product}} packaging design highly specialized
to {{.Audience}} in this specific {{.Region}} market that transforms the can into an immersive digital experience. Fill the
space as if the label is laying flat.

{{.Product}} INFO:
Title (middle of product): "{{.BrandName}}"
Flavor: "{{.Flavor}}"
Subtitle (underneath title): "{{.Subtitle}}"
Tagline (underneath title): "{{.Tagline}}"
Logo Description: {{.LogoDescription}}
Net Volume (bottom of product): "{{.NetVolume}}"
Key Attributes (icon-based): "{{.KeyAttributes}}"

Regulatory Info:
{{.RegulatoryText}}

Write in clear language. Only latin characters and numbers. Only complete words, and measurements.
Be consistent across products. Do not forget to add the Regulatory Info.`),
}

func mustParse(name, text string) *template.Template {
	return template.Must(template.New(name).Option("missingkey=error").Parse(text))
}

type templateData struct {
	Region            string
	Flavor            string
	Attribute         string
	Audience          string
	Product           string
	BrandName         string
	Subtitle          string
	Tagline           string
	LogoDescription   string
	NetVolume         string
	FontStyle         string
	KeyAttributes     string
	KeyAttributesList string
	Ingredients       string
	NutritionalFacts  string
	RegulatoryText    string
}

// Renderer produces prompts for a fixed audience.
type Renderer struct {
	Audience string
}

// Render builds the generation prompt for one unit. Unknown label types are
// an error; an unknown region renders with empty regulatory text.
func (r Renderer) Render(region, flavor, attribute, labelType string) (string, error) {
	tmpl, ok := templates[labelType]
	if !ok {
		return "", fmt.Errorf("unsupported label type: %q (expected %s)", labelType, strings.Join(LabelTypes, ", "))
	}

	data := templateData{
		Region:            region,
		Flavor:            flavor,
		Attribute:         attribute,
		Audience:          r.Audience,
		Product:           brand.Product,
		BrandName:         brand.Name,
		Subtitle:          brand.Subtitle,
		Tagline:           brand.Tagline,
		LogoDescription:   brand.LogoDescription,
		NetVolume:         brand.NetVolume,
		FontStyle:         brand.FontStyle,
		KeyAttributes:     brand.KeyAttributes,
		KeyAttributesList: bulletList(brand.KeyAttributes),
		Ingredients:       brand.Ingredients,
		NutritionalFacts:  brand.NutritionalFacts,
		RegulatoryText:    brand.RegulatoryText(region),
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", labelType, err)
	}
	return strings.TrimSpace(sb.String()), nil
}

// bulletList formats the comma-separated key attributes as one quoted bullet
// per attribute.
func bulletList(attrs string) string {
	parts := strings.Split(attrs, ",")
	lines := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("- %q", p))
	}
	return strings.Join(lines, "\n")
}
